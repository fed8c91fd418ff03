package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"forum_api/internal/model"
	"forum_api/internal/repository"
	"forum_api/internal/storage"

	"github.com/google/uuid"
)

var (
	ErrQuestionNotFound = errors.New("question not found")
	ErrForbidden        = errors.New("forbidden: user does not have permission for this action")
)

// QuestionService defines operations for questions
type QuestionService interface {
	CreateQuestion(ctx context.Context, username string, req model.QuestionRequest) (*model.Question, error)
	GetAllQuestions(ctx context.Context) ([]model.Question, error)
	GetQuestionByID(ctx context.Context, questionID string) (*model.Question, error)
	UpdateQuestion(ctx context.Context, questionID, username string, req model.QuestionRequest) error
	DeleteQuestion(ctx context.Context, questionID, username string) error
}

type questionService struct {
	repo       repository.QuestionRepository
	answerRepo repository.AnswerRepository
	files      storage.FileStore
	logger     *slog.Logger
}

// NewQuestionService creates a new QuestionService. answerRepo and files are
// used to clean up attachments of answers removed along with a question.
func NewQuestionService(repo repository.QuestionRepository, answerRepo repository.AnswerRepository, files storage.FileStore, logger *slog.Logger) QuestionService {
	return &questionService{repo: repo, answerRepo: answerRepo, files: files, logger: logger}
}

func (s *questionService) CreateQuestion(ctx context.Context, username string, req model.QuestionRequest) (*model.Question, error) {
	question := &model.Question{
		ID:          uuid.NewString(),
		Username:    username,
		Title:       req.Title,
		Description: req.Description,
	}
	if err := s.repo.Create(ctx, question); err != nil {
		return nil, fmt.Errorf("failed to create question in repo: %w", err)
	}
	return question, nil
}

func (s *questionService) GetAllQuestions(ctx context.Context) ([]model.Question, error) {
	questions, err := s.repo.FindAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to get questions from repo: %w", err)
	}
	return questions, nil
}

func (s *questionService) GetQuestionByID(ctx context.Context, questionID string) (*model.Question, error) {
	if !validID(questionID) {
		return nil, ErrQuestionNotFound
	}
	question, err := s.repo.FindByID(ctx, questionID)
	if err != nil {
		return nil, fmt.Errorf("failed to find question by ID: %w", err)
	}
	if question == nil {
		return nil, ErrQuestionNotFound
	}
	return question, nil
}

func (s *questionService) UpdateQuestion(ctx context.Context, questionID, username string, req model.QuestionRequest) error {
	if _, err := s.ownedQuestion(ctx, questionID, username); err != nil {
		return err
	}
	if err := s.repo.Update(ctx, questionID, req.Title, req.Description); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return ErrQuestionNotFound
		}
		return fmt.Errorf("failed to update question in repo: %w", err)
	}
	return nil
}

// DeleteQuestion removes a question together with its answers, then deletes
// the files attached to those answers.
func (s *questionService) DeleteQuestion(ctx context.Context, questionID, username string) error {
	if _, err := s.ownedQuestion(ctx, questionID, username); err != nil {
		return err
	}
	answers, err := s.answerRepo.FindByQuestion(ctx, questionID)
	if err != nil {
		return fmt.Errorf("failed to list answers of question: %w", err)
	}
	if err := s.repo.Delete(ctx, questionID); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return ErrQuestionNotFound
		}
		return fmt.Errorf("failed to delete question in repo: %w", err)
	}
	for _, a := range answers {
		if a.AttachmentURL != nil {
			removeStoredFile(ctx, s.files, s.logger, *a.AttachmentURL)
		}
	}
	return nil
}

// ownedQuestion loads a question and checks that username wrote it
func (s *questionService) ownedQuestion(ctx context.Context, questionID, username string) (*model.Question, error) {
	question, err := s.GetQuestionByID(ctx, questionID)
	if err != nil {
		return nil, err
	}
	if question.Username != username { // Only author can edit
		return nil, ErrForbidden
	}
	return question, nil
}

// validID reports whether id can address a UUID keyed row
func validID(id string) bool {
	_, err := uuid.Parse(id)
	return err == nil
}
