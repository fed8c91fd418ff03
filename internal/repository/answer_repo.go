package repository

import (
	"context"
	"errors"
	"fmt"

	"forum_api/internal/model"

	"github.com/jackc/pgx/v5"
)

// AnswerRepository defines operations for answer data
type AnswerRepository interface {
	Create(ctx context.Context, a *model.Answer) error
	FindByID(ctx context.Context, id string) (*model.Answer, error)
	FindByQuestion(ctx context.Context, questionID string) ([]model.Answer, error)
	FindByUser(ctx context.Context, username string) ([]model.Answer, error)
	UpdateContent(ctx context.Context, id, content string) error
	Delete(ctx context.Context, id string) error
}

type answerRepository struct {
	db DB
}

// NewAnswerRepository creates a new AnswerRepository
func NewAnswerRepository(db DB) AnswerRepository {
	return &answerRepository{db: db}
}

const answerSelect = `SELECT a.answer_id, a.question_id, a.user_username, a.answer, a.attachment_url, a.created_at,
                (SELECT COUNT(*) FROM answer_likes l WHERE l.answer_id = a.answer_id AND l.liked),
                (SELECT COUNT(*) FROM answer_likes l WHERE l.answer_id = a.answer_id AND l.disliked)
            FROM answers a`

func scanAnswer(row pgx.Row) (model.Answer, error) {
	var a model.Answer
	err := row.Scan(&a.ID, &a.QuestionID, &a.Username, &a.Content, &a.AttachmentURL, &a.CreatedAt, &a.Likes, &a.Dislikes)
	return a, err
}

// Create inserts an answer with a caller generated id
func (r *answerRepository) Create(ctx context.Context, a *model.Answer) error {
	sql := `INSERT INTO answers (answer_id, question_id, user_username, answer, attachment_url)
            VALUES ($1, $2, $3, $4, $5) RETURNING created_at`
	err := r.db.QueryRow(ctx, sql, a.ID, a.QuestionID, a.Username, a.Content, a.AttachmentURL).Scan(&a.CreatedAt)
	if err != nil {
		return fmt.Errorf("failed to create answer: %w", err)
	}
	return nil
}

// FindByID retrieves one answer; (nil, nil) when absent
func (r *answerRepository) FindByID(ctx context.Context, id string) (*model.Answer, error) {
	a, err := scanAnswer(r.db.QueryRow(ctx, answerSelect+` WHERE a.answer_id = $1`, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to find answer by ID: %w", err)
	}
	return &a, nil
}

// FindByQuestion lists the answers of a question, oldest first
func (r *answerRepository) FindByQuestion(ctx context.Context, questionID string) ([]model.Answer, error) {
	return r.list(ctx, answerSelect+` WHERE a.question_id = $1 ORDER BY a.created_at`, questionID)
}

// FindByUser lists the answers written by username, newest first
func (r *answerRepository) FindByUser(ctx context.Context, username string) ([]model.Answer, error) {
	return r.list(ctx, answerSelect+` WHERE a.user_username = $1 ORDER BY a.created_at DESC`, username)
}

func (r *answerRepository) list(ctx context.Context, sql string, arg string) ([]model.Answer, error) {
	rows, err := r.db.Query(ctx, sql, arg)
	if err != nil {
		return nil, fmt.Errorf("failed to query answers: %w", err)
	}
	defer rows.Close()

	answers := []model.Answer{}
	for rows.Next() {
		a, err := scanAnswer(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan answer row: %w", err)
		}
		answers = append(answers, a)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating answer rows: %w", err)
	}
	return answers, nil
}

// UpdateContent replaces the body of an answer
func (r *answerRepository) UpdateContent(ctx context.Context, id, content string) error {
	tag, err := r.db.Exec(ctx, `UPDATE answers SET answer = $1 WHERE answer_id = $2`, content, id)
	if err != nil {
		return fmt.Errorf("failed to update answer: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("answer %s not updated: %w", id, ErrNotFound)
	}
	return nil
}

// Delete removes an answer; its reactions cascade
func (r *answerRepository) Delete(ctx context.Context, id string) error {
	tag, err := r.db.Exec(ctx, `DELETE FROM answers WHERE answer_id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete answer: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("answer %s not deleted: %w", id, ErrNotFound)
	}
	return nil
}
