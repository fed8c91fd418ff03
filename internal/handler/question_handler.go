package handler

import (
	"errors"
	"log/slog"
	"net/http"

	"forum_api/internal/model"
	"forum_api/internal/service"

	"github.com/gin-gonic/gin"
)

// QuestionHandler handles question requests
type QuestionHandler struct {
	service service.QuestionService
	logger  *slog.Logger
}

// NewQuestionHandler creates a new QuestionHandler
func NewQuestionHandler(s service.QuestionService, logger *slog.Logger) *QuestionHandler {
	return &QuestionHandler{service: s, logger: logger}
}

func (h *QuestionHandler) CreateQuestion(c *gin.Context) {
	username, ok := authUsername(c)
	if !ok {
		return
	}

	var req model.QuestionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindError(c, err)
		return
	}

	question, err := h.service.CreateQuestion(c.Request.Context(), username, req)
	if err != nil {
		respondInternal(c, h.logger, "creating question failed", err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{
		"message":     "Question created successfully",
		"question_id": question.ID,
	})
}

func (h *QuestionHandler) GetAllQuestions(c *gin.Context) {
	questions, err := h.service.GetAllQuestions(c.Request.Context())
	if err != nil {
		respondInternal(c, h.logger, "listing questions failed", err)
		return
	}
	if len(questions) == 0 {
		respondError(c, http.StatusNotFound, "No questions found.")
		return
	}
	c.JSON(http.StatusOK, gin.H{"questions": questions})
}

func (h *QuestionHandler) GetQuestion(c *gin.Context) {
	question, err := h.service.GetQuestionByID(c.Request.Context(), c.Param("question_id"))
	if err != nil {
		if errors.Is(err, service.ErrQuestionNotFound) {
			respondError(c, http.StatusNotFound, "Question not found.")
		} else {
			respondInternal(c, h.logger, "fetching question failed", err)
		}
		return
	}
	c.JSON(http.StatusOK, gin.H{"question": gin.H{
		"question_id": question.ID,
		"title":       question.Title,
		"content":     question.Description,
		"user_name":   question.Username,
		"num_answers": question.AnswerCount,
		"created_at":  question.CreatedAt,
	}})
}

func (h *QuestionHandler) UpdateQuestion(c *gin.Context) {
	username, ok := authUsername(c)
	if !ok {
		return
	}

	var req model.QuestionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindError(c, err)
		return
	}

	err := h.service.UpdateQuestion(c.Request.Context(), c.Param("question_id"), username, req)
	if err != nil {
		if errors.Is(err, service.ErrQuestionNotFound) {
			respondError(c, http.StatusNotFound, "Question not found.")
		} else if errors.Is(err, service.ErrForbidden) {
			respondError(c, http.StatusForbidden, "You are not authorized to update this question.")
		} else {
			respondInternal(c, h.logger, "updating question failed", err)
		}
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Question updated successfully"})
}

func (h *QuestionHandler) DeleteQuestion(c *gin.Context) {
	username, ok := authUsername(c)
	if !ok {
		return
	}

	err := h.service.DeleteQuestion(c.Request.Context(), c.Param("question_id"), username)
	if err != nil {
		if errors.Is(err, service.ErrQuestionNotFound) {
			respondError(c, http.StatusNotFound, "Question not found.")
		} else if errors.Is(err, service.ErrForbidden) {
			respondError(c, http.StatusForbidden, "You are not authorized to delete this question.")
		} else {
			respondInternal(c, h.logger, "deleting question failed", err)
		}
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Question deleted successfully"})
}

// RegisterQuestionRoutes registers question routes, all behind authMW
func (h *QuestionHandler) RegisterQuestionRoutes(rg *gin.RouterGroup, authMW gin.HandlerFunc) {
	questionGroup := rg.Group("/question")
	questionGroup.Use(authMW)
	{
		questionGroup.POST("", h.CreateQuestion)
		questionGroup.GET("/all", h.GetAllQuestions)
		questionGroup.GET("/:question_id", h.GetQuestion)
		questionGroup.PUT("/:question_id", h.UpdateQuestion)    // Service layer handles ownership
		questionGroup.DELETE("/:question_id", h.DeleteQuestion) // Service layer handles ownership
	}
}
