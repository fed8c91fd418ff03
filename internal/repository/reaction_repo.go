package repository

import (
	"context"
	"fmt"

	"forum_api/internal/model"

	"github.com/jackc/pgx/v5"
)

// ReactionRepository persists like/dislike state per (user, answer)
type ReactionRepository interface {
	Apply(ctx context.Context, username, answerID string, action model.ReactionAction) (*model.ReactionResult, error)
}

type reactionRepository struct {
	db DB
}

// NewReactionRepository creates a new ReactionRepository
func NewReactionRepository(db DB) ReactionRepository {
	return &reactionRepository{db: db}
}

// Apply performs action for username on answerID and returns the new state
// with recounted totals. The row is locked for the read-modify-write so
// concurrent toggles by the same user serialize. Returns (nil, nil) when the
// answer does not exist.
func (r *reactionRepository) Apply(ctx context.Context, username, answerID string, action model.ReactionAction) (*model.ReactionResult, error) {
	var result *model.ReactionResult

	err := withTx(ctx, r.db, func(tx pgx.Tx) error {
		var exists bool
		if err := tx.QueryRow(ctx, `SELECT EXISTS (SELECT 1 FROM answers WHERE answer_id = $1)`, answerID).Scan(&exists); err != nil {
			return fmt.Errorf("failed to check answer: %w", err)
		}
		if !exists {
			return nil
		}

		_, err := tx.Exec(ctx, `INSERT INTO answer_likes (user_username, answer_id, liked, disliked)
            VALUES ($1, $2, FALSE, FALSE) ON CONFLICT (user_username, answer_id) DO NOTHING`, username, answerID)
		if err != nil {
			return fmt.Errorf("failed to ensure reaction row: %w", err)
		}

		var liked, disliked bool
		err = tx.QueryRow(ctx, `SELECT liked, disliked FROM answer_likes
            WHERE user_username = $1 AND answer_id = $2 FOR UPDATE`, username, answerID).Scan(&liked, &disliked)
		if err != nil {
			return fmt.Errorf("failed to read reaction: %w", err)
		}

		next := model.ReactionFromFlags(liked, disliked).Apply(action)
		liked, disliked = next.Flags()

		_, err = tx.Exec(ctx, `UPDATE answer_likes SET liked = $1, disliked = $2
            WHERE user_username = $3 AND answer_id = $4`, liked, disliked, username, answerID)
		if err != nil {
			return fmt.Errorf("failed to write reaction: %w", err)
		}

		res := &model.ReactionResult{AnswerID: answerID, State: next}
		err = tx.QueryRow(ctx, `SELECT COUNT(*) FILTER (WHERE liked), COUNT(*) FILTER (WHERE disliked)
            FROM answer_likes WHERE answer_id = $1`, answerID).Scan(&res.Likes, &res.Dislikes)
		if err != nil {
			return fmt.Errorf("failed to count reactions: %w", err)
		}
		result = res
		return nil
	})
	if err != nil {
		return nil, err
	}
	return result, nil
}
