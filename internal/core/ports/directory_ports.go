package ports

import (
	"context"

	"github.com/google/uuid"
	"github.com/vncsmyrnk/pollmanagement/internal/core/domain"
)

// Directory clients wrap every failure (transport, non-2xx, empty or
// undecodable body) in domain.ErrRemoteCallFailed.

type UserDirectory interface {
	UserExists(ctx context.Context, userID uuid.UUID) (bool, error)
	GetUsersByIDs(ctx context.Context, ids []uuid.UUID) ([]domain.UserRecord, error)
}

type GroupDirectory interface {
	GroupExists(ctx context.Context, groupID string) (bool, error)
	GetGroupsByIDs(ctx context.Context, ids []string) ([]domain.GroupRecord, error)
	UserHasDeletePermission(ctx context.Context, userID uuid.UUID, groupID string) (bool, error)
	GetGroupIDsForUser(ctx context.Context, userID uuid.UUID) ([]string, error)
}

type VoteDirectory interface {
	GetChosenVotingItems(ctx context.Context, votingItemIDs []int64, userID uuid.UUID) ([]int64, error)
	DeleteVotesForItems(ctx context.Context, votingItemIDs []int64) error
}
