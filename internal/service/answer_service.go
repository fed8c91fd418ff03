package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"mime/multipart"

	"forum_api/internal/model"
	"forum_api/internal/repository"
	"forum_api/internal/storage"

	"github.com/google/uuid"
)

var ErrAnswerNotFound = errors.New("answer not found")

const attachmentPrefix = "answers"

// AnswerService defines operations for answers
type AnswerService interface {
	// CreateAnswer posts an answer under a question. attachment may be nil.
	CreateAnswer(ctx context.Context, username string, req model.CreateAnswerRequest, attachment *multipart.FileHeader) (*model.Answer, error)
	GetQuestionAnswers(ctx context.Context, questionID string) ([]model.Answer, error)
	GetUserAnswers(ctx context.Context, username string) ([]model.Answer, error)
	UpdateAnswer(ctx context.Context, answerID, username, content string) error
	DeleteAnswer(ctx context.Context, answerID, username string) error
}

type answerService struct {
	repo         repository.AnswerRepository
	questionRepo repository.QuestionRepository
	files        storage.FileStore
	logger       *slog.Logger
}

// NewAnswerService creates a new AnswerService
func NewAnswerService(repo repository.AnswerRepository, questionRepo repository.QuestionRepository, files storage.FileStore, logger *slog.Logger) AnswerService {
	return &answerService{repo: repo, questionRepo: questionRepo, files: files, logger: logger}
}

func (s *answerService) CreateAnswer(ctx context.Context, username string, req model.CreateAnswerRequest, attachment *multipart.FileHeader) (*model.Answer, error) {
	if !validID(req.QuestionID) {
		return nil, ErrQuestionNotFound
	}
	question, err := s.questionRepo.FindByID(ctx, req.QuestionID)
	if err != nil {
		return nil, fmt.Errorf("failed to find question for answer: %w", err)
	}
	if question == nil {
		return nil, ErrQuestionNotFound
	}

	answer := &model.Answer{
		ID:         uuid.NewString(),
		QuestionID: req.QuestionID,
		Username:   username,
		Content:    req.Answer,
	}

	if attachment != nil {
		location, err := s.saveAttachment(ctx, attachment)
		if err != nil {
			return nil, err
		}
		answer.AttachmentURL = &location
	}

	if err := s.repo.Create(ctx, answer); err != nil {
		if answer.AttachmentURL != nil {
			s.removeAttachment(ctx, *answer.AttachmentURL)
		}
		return nil, fmt.Errorf("failed to create answer in repo: %w", err)
	}
	return answer, nil
}

func (s *answerService) saveAttachment(ctx context.Context, fh *multipart.FileHeader) (string, error) {
	if err := validateUpload(fh, attachmentExts); err != nil {
		return "", err
	}

	src, err := fh.Open()
	if err != nil {
		return "", fmt.Errorf("failed to open uploaded file: %w", err)
	}
	defer src.Close()

	location, err := s.files.Save(ctx, storage.NewKey(attachmentPrefix, fh.Filename), src, fh.Size, fh.Header.Get("Content-Type"))
	if err != nil {
		return "", fmt.Errorf("failed to save attachment: %w", err)
	}
	return location, nil
}

func (s *answerService) removeAttachment(ctx context.Context, location string) {
	removeStoredFile(ctx, s.files, s.logger, location)
}

func (s *answerService) GetQuestionAnswers(ctx context.Context, questionID string) ([]model.Answer, error) {
	if !validID(questionID) {
		return []model.Answer{}, nil
	}
	answers, err := s.repo.FindByQuestion(ctx, questionID)
	if err != nil {
		return nil, fmt.Errorf("failed to get question answers from repo: %w", err)
	}
	return answers, nil
}

func (s *answerService) GetUserAnswers(ctx context.Context, username string) ([]model.Answer, error) {
	answers, err := s.repo.FindByUser(ctx, username)
	if err != nil {
		return nil, fmt.Errorf("failed to get user answers from repo: %w", err)
	}
	return answers, nil
}

func (s *answerService) UpdateAnswer(ctx context.Context, answerID, username, content string) error {
	if _, err := s.ownedAnswer(ctx, answerID, username); err != nil {
		return err
	}
	if err := s.repo.UpdateContent(ctx, answerID, content); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return ErrAnswerNotFound
		}
		return fmt.Errorf("failed to update answer in repo: %w", err)
	}
	return nil
}

func (s *answerService) DeleteAnswer(ctx context.Context, answerID, username string) error {
	answer, err := s.ownedAnswer(ctx, answerID, username)
	if err != nil {
		return err
	}
	if err := s.repo.Delete(ctx, answerID); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return ErrAnswerNotFound
		}
		return fmt.Errorf("failed to delete answer in repo: %w", err)
	}
	if answer.AttachmentURL != nil {
		s.removeAttachment(ctx, *answer.AttachmentURL)
	}
	return nil
}

// ownedAnswer loads an answer and checks that username wrote it
func (s *answerService) ownedAnswer(ctx context.Context, answerID, username string) (*model.Answer, error) {
	if !validID(answerID) {
		return nil, ErrAnswerNotFound
	}
	answer, err := s.repo.FindByID(ctx, answerID)
	if err != nil {
		return nil, fmt.Errorf("failed to find answer by ID: %w", err)
	}
	if answer == nil {
		return nil, ErrAnswerNotFound
	}
	if answer.Username != username {
		return nil, ErrForbidden
	}
	return answer, nil
}
