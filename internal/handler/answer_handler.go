package handler

import (
	"errors"
	"log/slog"
	"mime/multipart"
	"net/http"

	"forum_api/internal/model"
	"forum_api/internal/service"

	"github.com/gin-gonic/gin"
)

// AnswerHandler handles answer requests, including like/dislike toggles
type AnswerHandler struct {
	service   service.AnswerService
	reactions service.ReactionService
	logger    *slog.Logger
}

// NewAnswerHandler creates a new AnswerHandler
func NewAnswerHandler(s service.AnswerService, reactions service.ReactionService, logger *slog.Logger) *AnswerHandler {
	return &AnswerHandler{service: s, reactions: reactions, logger: logger}
}

func (h *AnswerHandler) CreateAnswer(c *gin.Context) {
	username, ok := authUsername(c)
	if !ok {
		return
	}

	// JSON or multipart form, picked by Content-Type
	var req model.CreateAnswerRequest
	if err := c.ShouldBind(&req); err != nil {
		respondBindError(c, err)
		return
	}

	var attachment *multipart.FileHeader
	if c.ContentType() == gin.MIMEMultipartPOSTForm {
		file, err := c.FormFile("attachment")
		if err != nil && !errors.Is(err, http.ErrMissingFile) {
			respondError(c, http.StatusBadRequest, "Invalid attachment upload")
			return
		}
		attachment = file
	}

	answer, err := h.service.CreateAnswer(c.Request.Context(), username, req, attachment)
	if err != nil {
		if errors.Is(err, service.ErrQuestionNotFound) {
			respondError(c, http.StatusNotFound, "Question not found.")
		} else if errors.Is(err, service.ErrInvalidFileFormat) {
			respondError(c, http.StatusBadRequest, "Invalid file format. Only .jpg, .jpeg, .png, .pdf are allowed")
		} else if errors.Is(err, service.ErrFileSizeExceeded) {
			respondError(c, http.StatusBadRequest, "File size exceeds 5MB limit")
		} else {
			respondInternal(c, h.logger, "posting answer failed", err)
		}
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"message":   "Answer posted successfully",
		"answer_id": answer.ID,
	})
}

func (h *AnswerHandler) GetQuestionAnswers(c *gin.Context) {
	answers, err := h.service.GetQuestionAnswers(c.Request.Context(), c.Param("question_id"))
	if err != nil {
		respondInternal(c, h.logger, "listing answers failed", err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"answers": answers})
}

func (h *AnswerHandler) GetUserAnswers(c *gin.Context) {
	answers, err := h.service.GetUserAnswers(c.Request.Context(), c.Param("username"))
	if err != nil {
		respondInternal(c, h.logger, "listing user answers failed", err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"answers": answers})
}

func (h *AnswerHandler) UpdateAnswer(c *gin.Context) {
	username, ok := authUsername(c)
	if !ok {
		return
	}

	var req model.UpdateAnswerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindError(c, err)
		return
	}

	err := h.service.UpdateAnswer(c.Request.Context(), c.Param("answer_id"), username, req.Content)
	if err != nil {
		if errors.Is(err, service.ErrAnswerNotFound) {
			respondError(c, http.StatusNotFound, "Answer not found.")
		} else if errors.Is(err, service.ErrForbidden) {
			respondError(c, http.StatusForbidden, "You are not authorized to edit this answer.")
		} else {
			respondInternal(c, h.logger, "updating answer failed", err)
		}
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Answer updated successfully"})
}

func (h *AnswerHandler) DeleteAnswer(c *gin.Context) {
	username, ok := authUsername(c)
	if !ok {
		return
	}

	err := h.service.DeleteAnswer(c.Request.Context(), c.Param("answer_id"), username)
	if err != nil {
		if errors.Is(err, service.ErrAnswerNotFound) {
			respondError(c, http.StatusNotFound, "Answer not found.")
		} else if errors.Is(err, service.ErrForbidden) {
			respondError(c, http.StatusForbidden, "You are not authorized to delete this answer.")
		} else {
			respondInternal(c, h.logger, "deleting answer failed", err)
		}
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Answer deleted successfully"})
}

func (h *AnswerHandler) LikeAnswer(c *gin.Context) {
	h.react(c, model.ActionLike, "Like registered successfully")
}

func (h *AnswerHandler) DislikeAnswer(c *gin.Context) {
	h.react(c, model.ActionDislike, "Dislike registered successfully")
}

func (h *AnswerHandler) react(c *gin.Context, action model.ReactionAction, message string) {
	username, ok := authUsername(c)
	if !ok {
		return
	}

	result, err := h.reactions.React(c.Request.Context(), username, c.Param("answer_id"), action)
	if err != nil {
		if errors.Is(err, service.ErrAnswerNotFound) {
			respondError(c, http.StatusNotFound, "Answer not found.")
		} else {
			respondInternal(c, h.logger, "reaction failed", err)
		}
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message":      message,
		"state":        result.State,
		"num_likes":    result.Likes,
		"num_dislikes": result.Dislikes,
	})
}

// RegisterAnswerRoutes registers answer and reaction routes, all behind authMW
func (h *AnswerHandler) RegisterAnswerRoutes(rg *gin.RouterGroup, authMW gin.HandlerFunc) {
	answerGroup := rg.Group("/answer")
	answerGroup.Use(authMW)
	{
		answerGroup.POST("", h.CreateAnswer)
		answerGroup.GET("/:question_id", h.GetQuestionAnswers)
		answerGroup.GET("/user/:username", h.GetUserAnswers)
		answerGroup.PUT("/:answer_id", h.UpdateAnswer)    // Service layer handles ownership
		answerGroup.DELETE("/:answer_id", h.DeleteAnswer) // Service layer handles ownership
		answerGroup.POST("/:answer_id/like", h.LikeAnswer)
		answerGroup.POST("/:answer_id/dislike", h.DislikeAnswer)
	}
}
