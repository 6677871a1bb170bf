package ports

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/vncsmyrnk/pollmanagement/internal/core/domain"
)

type PollRepository interface {
	// Save stores the poll and its voting items in one transaction and fills
	// in the voting item ids.
	Save(ctx context.Context, poll *domain.Poll) error
	GetByID(ctx context.Context, id uuid.UUID) (*domain.Poll, error)
	Exists(ctx context.Context, id uuid.UUID) (bool, error)
	GetAll(ctx context.Context) ([]*domain.Poll, error)
	ListByGroupID(ctx context.Context, groupID string) ([]*domain.Poll, error)
	ListByGroupIDs(ctx context.Context, groupIDs []string) ([]*domain.Poll, error)
	UpdateDetails(ctx context.Context, id uuid.UUID, title, description string, updatedAt time.Time) error
	Delete(ctx context.Context, id uuid.UUID) error
	DeleteByIDs(ctx context.Context, ids []uuid.UUID) error
}

type CreatePollInput struct {
	Title             string
	Description       string
	NumAnswersAllowed int
	CreatorID         uuid.UUID
	GroupID           string
	Deadline          string // RFC 3339
	VotingItems       []string
}

type DeletePollInput struct {
	PollID  uuid.UUID
	UserID  uuid.UUID
	GroupID string
}

type UpdatePollInput struct {
	PollID      uuid.UUID
	UserID      uuid.UUID
	GroupID     string
	Title       string
	Description string
}

// Aggregator turns stored polls into client views.
type Aggregator interface {
	Enrich(ctx context.Context, polls []*domain.Poll, requestingUser *uuid.UUID) []domain.PollView
}

type PollValidator interface {
	// ValidateNewPoll checks the deadline against at, the poll's creation time.
	ValidateNewPoll(ctx context.Context, input CreatePollInput, at time.Time) error
	ValidateGetPollByID(ctx context.Context, pollID uuid.UUID) error
	ValidateGetPollsByGroupID(ctx context.Context, groupID string) error
	ValidateGetPollsByMultipleGroupIDs(ctx context.Context, groupIDs []string) error
	ValidateDeletePoll(ctx context.Context, userID uuid.UUID, groupID string, pollID uuid.UUID) (*domain.Poll, error)
}

type PollService interface {
	Create(ctx context.Context, input CreatePollInput) (*domain.PollView, error)
	GetPoll(ctx context.Context, id uuid.UUID) (*domain.PollView, error)
	ListPolls(ctx context.Context) ([]domain.PollView, error)
	ListByGroup(ctx context.Context, groupID string, userID *uuid.UUID) ([]domain.PollView, error)
	ListByGroups(ctx context.Context, groupIDs []string, userID *uuid.UUID) ([]domain.PollView, error)
	ListUserPolls(ctx context.Context, userID uuid.UUID) ([]domain.PollView, error)
	Delete(ctx context.Context, input DeletePollInput) (uuid.UUID, error)
	Update(ctx context.Context, input UpdatePollInput) (*domain.PollUpdate, error)
	DeleteGroupPolls(ctx context.Context, groupID string) ([]uuid.UUID, error)
}
