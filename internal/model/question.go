package model

import "time"

// Question is a forum thread opened by a user
type Question struct {
	ID          string    `json:"question_id"`
	Username    string    `json:"user_name"`
	Title       string    `json:"title"`
	Description string    `json:"content"`
	AnswerCount int64     `json:"answer_count"`
	CreatedAt   time.Time `json:"created_at"`
}

// QuestionRequest is used for creating and updating a question
type QuestionRequest struct {
	Title       string `json:"title" binding:"required"`
	Description string `json:"description" binding:"required"`
}
