package handler

import (
	"errors"
	"fmt"
	"log/slog"
	"net/http"

	"forum_api/internal/middleware"
	"forum_api/internal/model"
	"forum_api/internal/service"

	"github.com/gin-gonic/gin"
)

// UserHandler handles registration, login and profile requests
type UserHandler struct {
	auth    service.AuthService
	profile service.ProfileService
	logger  *slog.Logger
}

// NewUserHandler creates a new UserHandler
func NewUserHandler(auth service.AuthService, profile service.ProfileService, logger *slog.Logger) *UserHandler {
	return &UserHandler{auth: auth, profile: profile, logger: logger}
}

func (h *UserHandler) Register(c *gin.Context) {
	var req model.RegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindError(c, err)
		return
	}

	user, token, err := h.auth.Register(c.Request.Context(), req)
	if err != nil {
		if errors.Is(err, service.ErrEmailTaken) {
			respondError(c, http.StatusConflict, "Email already exists")
		} else if errors.Is(err, service.ErrUsernameTaken) {
			respondError(c, http.StatusConflict, "Username already exists")
		} else if errors.Is(err, service.ErrWeakPassword) {
			respondError(c, http.StatusBadRequest, "Password is too weak. Please choose a stronger password.")
		} else {
			respondInternal(c, h.logger, "registration failed", err)
		}
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"message": "User registered successfully.",
		"token":   token,
		"user": gin.H{
			"user_id":   user.ID,
			"firstName": user.FirstName,
			"lastName":  user.LastName,
			"username":  user.Username,
			"email":     user.Email,
		},
	})
}

func (h *UserHandler) Login(c *gin.Context) {
	var req model.LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindError(c, err)
		return
	}

	user, token, err := h.auth.Login(c.Request.Context(), req.Email, req.Password)
	if err != nil {
		if errors.Is(err, service.ErrUserNotFound) || errors.Is(err, service.ErrInvalidCredentials) {
			remaining, known := middleware.RateLimitRemaining(c)
			respondError(c, http.StatusUnauthorized, loginFailureMessage(err, remaining, known))
			return
		}
		respondInternal(c, h.logger, "login failed", err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message":  "User login successful",
		"token":    token,
		"username": user.Username,
	})
}

// loginFailureMessage words a failed login according to the attempts left
// in the rate limit window. An unknown email and a wrong password read
// differently.
func loginFailureMessage(err error, remaining int, known bool) string {
	if errors.Is(err, service.ErrUserNotFound) {
		switch {
		case !known || remaining > 5:
			return "Unauthorized access!"
		case remaining > 0:
			return fmt.Sprintf("Unauthorized access. Please check your email and password. You have %d attempts remaining.", remaining)
		default:
			return "Unauthorized access. This is your final attempt to enter the correct email and password."
		}
	}

	switch {
	case !known || remaining > 5:
		return "Invalid email or password!"
	case remaining > 0:
		return fmt.Sprintf("Invalid email or password, your remaining attempt is %d", remaining)
	default:
		return "Invalid email or password. This is your final attempt to enter the correct email and password."
	}
}

func (h *UserHandler) CheckUser(c *gin.Context) {
	username, ok := authUsername(c)
	if !ok {
		return
	}
	userID, _ := middleware.AuthUserID(c)

	c.JSON(http.StatusOK, gin.H{
		"message":  "Valid user",
		"username": username,
		"user_id":  userID,
	})
}

func (h *UserHandler) GetProfile(c *gin.Context) {
	user, err := h.profile.GetProfile(c.Request.Context(), c.Param("username"))
	if err != nil {
		if errors.Is(err, service.ErrUserNotFound) {
			respondError(c, http.StatusNotFound, "User not found")
		} else {
			respondInternal(c, h.logger, "fetching profile failed", err)
		}
		return
	}
	c.JSON(http.StatusOK, user)
}

func (h *UserHandler) UpdateProfile(c *gin.Context) {
	var req model.UpdateProfileRequest
	if err := c.ShouldBind(&req); err != nil {
		respondBindError(c, err)
		return
	}

	picture, err := c.FormFile("profile_picture")
	if err != nil {
		if !errors.Is(err, http.ErrMissingFile) && !errors.Is(err, http.ErrNotMultipart) {
			respondError(c, http.StatusBadRequest, "Invalid profile picture upload")
			return
		}
		picture = nil
	}

	err = h.profile.UpdateProfile(c.Request.Context(), c.Param("username"), req, picture)
	if err != nil {
		if errors.Is(err, service.ErrUserNotFound) {
			respondError(c, http.StatusNotFound, "User not found")
		} else if errors.Is(err, service.ErrEmailTaken) {
			respondError(c, http.StatusConflict, "Email already exists")
		} else if errors.Is(err, service.ErrInvalidFileFormat) {
			respondError(c, http.StatusBadRequest, "Invalid file format. Only .jpg, .jpeg, .png are allowed")
		} else if errors.Is(err, service.ErrFileSizeExceeded) {
			respondError(c, http.StatusBadRequest, "File size exceeds 5MB limit")
		} else {
			respondInternal(c, h.logger, "updating profile failed", err)
		}
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Profile updated successfully"})
}

// RegisterUserRoutes registers user routes. loginMW guards the login endpoint.
func (h *UserHandler) RegisterUserRoutes(rg *gin.RouterGroup, authMW gin.HandlerFunc, loginMW gin.HandlerFunc) {
	userGroup := rg.Group("/user")
	{
		userGroup.POST("/register", h.Register)
		userGroup.POST("/login", loginMW, h.Login)
		userGroup.GET("/check", authMW, h.CheckUser)
		userGroup.GET("/userprofile/:username", authMW, h.GetProfile)
		userGroup.POST("/userprofile/:username/update", authMW, middleware.SelfMiddleware("username"), h.UpdateProfile)
	}
}
