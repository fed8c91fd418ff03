package model

import "time"

// Answer is a reply posted under a question
type Answer struct {
	ID            string    `json:"answer_id"`
	QuestionID    string    `json:"question_id"`
	Username      string    `json:"user_name"`
	Content       string    `json:"content"`
	AttachmentURL *string   `json:"attachment_url"`
	Likes         int64     `json:"num_like"`
	Dislikes      int64     `json:"num_dislike"`
	CreatedAt     time.Time `json:"created_at"`
}

// CreateAnswerRequest accepts either a JSON body or multipart form fields
type CreateAnswerRequest struct {
	QuestionID string `json:"questionid" form:"questionid" binding:"required"`
	Answer     string `json:"answer" form:"answer" binding:"required"`
}

// UpdateAnswerRequest is the body of PUT /api/answer/:answer_id
type UpdateAnswerRequest struct {
	Content string `json:"content" binding:"required"`
}
