package handler

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"

	"forum_api/internal/middleware"
	"forum_api/internal/model"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
)

const (
	requiredFieldsMessage = "Please provide all required fields"
	unexpectedMessage     = "An unexpected error occurred."
)

func respondError(c *gin.Context, status int, message string) {
	c.JSON(status, model.NewErrorResponse(status, message))
}

// respondInternal logs err and answers with a generic 500
func respondInternal(c *gin.Context, logger *slog.Logger, msg string, err error) {
	logger.Error(msg, "path", c.FullPath(), "error", err)
	_ = c.Error(err)
	respondError(c, http.StatusInternalServerError, unexpectedMessage)
}

// respondBindError answers a failed ShouldBind* with 400
func respondBindError(c *gin.Context, err error) {
	respondError(c, http.StatusBadRequest, bindErrorMessage(err))
}

func bindErrorMessage(err error) string {
	if errors.Is(err, io.EOF) {
		return requiredFieldsMessage
	}

	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return "Invalid request body"
	}

	var invalid []string
	for _, fe := range verrs {
		if fe.Tag() == "required" {
			return requiredFieldsMessage
		}
		invalid = append(invalid, fmt.Sprintf("%s is not a valid %s", fe.Field(), fe.Tag()))
	}
	return "Invalid request: " + strings.Join(invalid, ", ")
}

// authUsername reads the caller set by the auth middleware; it answers 401
// itself when absent
func authUsername(c *gin.Context) (string, bool) {
	username, ok := middleware.AuthUsername(c)
	if !ok {
		respondError(c, http.StatusUnauthorized, "Authentication invalid")
	}
	return username, ok
}
