package service

import (
	"context"
	"errors"
	"fmt"

	"forum_api/internal/model"
	"forum_api/internal/repository"
)

var ErrInvalidReaction = errors.New("invalid reaction")

// ReactionService toggles likes and dislikes on answers
type ReactionService interface {
	React(ctx context.Context, username, answerID string, action model.ReactionAction) (*model.ReactionResult, error)
}

type reactionService struct {
	repo repository.ReactionRepository
}

// NewReactionService creates a new ReactionService
func NewReactionService(repo repository.ReactionRepository) ReactionService {
	return &reactionService{repo: repo}
}

func (s *reactionService) React(ctx context.Context, username, answerID string, action model.ReactionAction) (*model.ReactionResult, error) {
	if !action.Valid() {
		return nil, ErrInvalidReaction
	}
	if !validID(answerID) {
		return nil, ErrAnswerNotFound
	}
	result, err := s.repo.Apply(ctx, username, answerID, action)
	if err != nil {
		return nil, fmt.Errorf("failed to apply reaction: %w", err)
	}
	if result == nil {
		return nil, ErrAnswerNotFound
	}
	return result, nil
}
