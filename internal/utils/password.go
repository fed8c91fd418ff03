package utils

import (
	"fmt"

	"github.com/nbutton23/zxcvbn-go"
	"golang.org/x/crypto/bcrypt"
)

const (
	// MinPasswordScore is the lowest zxcvbn score accepted at registration
	MinPasswordScore = 2
	// PasswordHashCost is the bcrypt work factor
	PasswordHashCost = 10
)

// ScorePassword rates the password from 0 (guessable) to 4 (very strong).
// userInputs such as the username or email make passwords built from them score lower.
func ScorePassword(password string, userInputs ...string) int {
	if password == "" {
		return 0
	}
	return zxcvbn.PasswordStrength(password, userInputs).Score
}

// HashPassword returns the bcrypt hash of the password
func HashPassword(password string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), PasswordHashCost)
	if err != nil {
		return "", fmt.Errorf("failed to hash password: %w", err)
	}
	return string(hash), nil
}

// CheckPasswordHash reports whether password matches the stored hash
func CheckPasswordHash(password, hash string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(password)) == nil
}
