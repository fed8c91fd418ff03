package repository

import (
	"context"
	"errors"
	"fmt"

	"forum_api/internal/model"

	"github.com/jackc/pgx/v5"
)

// QuestionRepository defines operations for question data
type QuestionRepository interface {
	Create(ctx context.Context, q *model.Question) error
	FindAll(ctx context.Context) ([]model.Question, error)
	FindByID(ctx context.Context, id string) (*model.Question, error)
	Update(ctx context.Context, id, title, description string) error
	Delete(ctx context.Context, id string) error
}

type questionRepository struct {
	db DB
}

// NewQuestionRepository creates a new QuestionRepository
func NewQuestionRepository(db DB) QuestionRepository {
	return &questionRepository{db: db}
}

// Create inserts a question with a caller generated id
func (r *questionRepository) Create(ctx context.Context, q *model.Question) error {
	sql := `INSERT INTO questions (question_id, user_username, title, description)
            VALUES ($1, $2, $3, $4) RETURNING created_at`
	if err := r.db.QueryRow(ctx, sql, q.ID, q.Username, q.Title, q.Description).Scan(&q.CreatedAt); err != nil {
		return fmt.Errorf("failed to create question: %w", err)
	}
	return nil
}

// FindAll lists every question, newest first, with its answer count
func (r *questionRepository) FindAll(ctx context.Context) ([]model.Question, error) {
	sql := `SELECT q.question_id, q.user_username, q.title, q.description, q.created_at, COUNT(a.answer_id)
            FROM questions q
            LEFT JOIN answers a ON a.question_id = q.question_id
            GROUP BY q.question_id
            ORDER BY q.created_at DESC`
	rows, err := r.db.Query(ctx, sql)
	if err != nil {
		return nil, fmt.Errorf("failed to query questions: %w", err)
	}
	defer rows.Close()

	var questions []model.Question
	for rows.Next() {
		var q model.Question
		if err := rows.Scan(&q.ID, &q.Username, &q.Title, &q.Description, &q.CreatedAt, &q.AnswerCount); err != nil {
			return nil, fmt.Errorf("failed to scan question row: %w", err)
		}
		questions = append(questions, q)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating question rows: %w", err)
	}
	return questions, nil
}

// FindByID retrieves one question with its answer count; (nil, nil) when absent
func (r *questionRepository) FindByID(ctx context.Context, id string) (*model.Question, error) {
	q := &model.Question{}
	sql := `SELECT q.question_id, q.user_username, q.title, q.description, q.created_at,
                (SELECT COUNT(*) FROM answers a WHERE a.question_id = q.question_id)
            FROM questions q WHERE q.question_id = $1`
	err := r.db.QueryRow(ctx, sql, id).Scan(&q.ID, &q.Username, &q.Title, &q.Description, &q.CreatedAt, &q.AnswerCount)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to find question by ID: %w", err)
	}
	return q, nil
}

// Update changes the title and description of a question
func (r *questionRepository) Update(ctx context.Context, id, title, description string) error {
	tag, err := r.db.Exec(ctx, `UPDATE questions SET title = $1, description = $2 WHERE question_id = $3`, title, description, id)
	if err != nil {
		return fmt.Errorf("failed to update question: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("question %s not updated: %w", id, ErrNotFound)
	}
	return nil
}

// Delete removes a question; its answers and their reactions cascade
func (r *questionRepository) Delete(ctx context.Context, id string) error {
	tag, err := r.db.Exec(ctx, `DELETE FROM questions WHERE question_id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete question: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("question %s not deleted: %w", id, ErrNotFound)
	}
	return nil
}
