package model

import "time"

// User represents a registered forum member
type User struct {
	ID             int       `json:"user_id"`
	Username       string    `json:"username"`
	Email          string    `json:"email"`
	PasswordHash   string    `json:"-"` // Do not expose password hash in JSON responses
	FirstName      string    `json:"firstname"`
	LastName       string    `json:"lastname"`
	PhoneNumber    *string   `json:"phone_number"`
	Address        *string   `json:"address"`
	Gender         *string   `json:"gender"`
	ProfilePicture []byte    `json:"profile_picture,omitempty"` // encoded as base64 by encoding/json
	CreatedAt      time.Time `json:"created_at"`
}

// RegisterRequest is the body of POST /api/user/register
type RegisterRequest struct {
	FirstName string `json:"firstName" binding:"required"`
	LastName  string `json:"lastName" binding:"required"`
	Username  string `json:"username" binding:"required,username"`
	Email     string `json:"email" binding:"required,email"`
	Password  string `json:"password" binding:"required"`
}

// LoginRequest is the body of POST /api/user/login
type LoginRequest struct {
	Email    string `json:"email" binding:"required"`
	Password string `json:"password" binding:"required"`
}

// UpdateProfileRequest carries the multipart form fields of a profile update.
// The optional picture is attached separately by the handler.
type UpdateProfileRequest struct {
	FirstName      string  `form:"firstname" binding:"required"`
	LastName       string  `form:"lastname" binding:"required"`
	Email          string  `form:"email" binding:"required,email"`
	Phone          *string `form:"phone"`
	Address        *string `form:"address"`
	Gender         *string `form:"gender"`
	ProfilePicture []byte  `form:"-"`
}
