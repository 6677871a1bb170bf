package ports

import (
	"context"

	"github.com/google/uuid"
	"github.com/vncsmyrnk/pollmanagement/internal/core/domain"
)

type VotingItemRepository interface {
	GetByID(ctx context.Context, id int64) (*domain.VotingItem, error)
	// AdjustVoteCount adds delta to the item's count in a single statement and
	// returns the new count. ok is false when the count would drop below zero.
	AdjustVoteCount(ctx context.Context, id int64, delta int) (count int, ok bool, err error)
}

type VoteInput struct {
	VotingItemID int64
	UserID       uuid.UUID
	Action       domain.VoteAction
}

type VotingItemService interface {
	UpdateVoteCount(ctx context.Context, input VoteInput) (*domain.VoteResult, error)
	GetVoteCount(ctx context.Context, votingItemID int64) (*domain.VoteCount, error)
}
