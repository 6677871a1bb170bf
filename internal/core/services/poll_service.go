package services

import (
	"context"
	"fmt"
	"slices"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/vncsmyrnk/pollmanagement/internal/core/domain"
	"github.com/vncsmyrnk/pollmanagement/internal/core/ports"
)

type pollService struct {
	repo       ports.PollRepository
	validator  ports.PollValidator
	aggregator ports.Aggregator
	groups     ports.GroupDirectory
	votes      ports.VoteDirectory
	now        func() time.Time
	log        logrus.FieldLogger
}

type PollServiceDeps struct {
	Repo       ports.PollRepository
	Validator  ports.PollValidator
	Aggregator ports.Aggregator
	Groups     ports.GroupDirectory
	Votes      ports.VoteDirectory
	Now        func() time.Time
	Log        logrus.FieldLogger
}

func NewPollService(deps PollServiceDeps) ports.PollService {
	now := deps.Now
	if now == nil {
		now = time.Now
	}
	return &pollService{
		repo:       deps.Repo,
		validator:  deps.Validator,
		aggregator: deps.Aggregator,
		groups:     deps.Groups,
		votes:      deps.Votes,
		now:        now,
		log:        deps.Log,
	}
}

func (s *pollService) Create(ctx context.Context, input ports.CreatePollInput) (*domain.PollView, error) {
	createdAt := s.now().UTC()
	if err := s.validator.ValidateNewPoll(ctx, input, createdAt); err != nil {
		return nil, err
	}

	deadline, err := ParseDeadline(input.Deadline)
	if err != nil {
		return nil, err
	}

	pollID := uuid.New()
	poll := &domain.Poll{
		ID:                pollID,
		Title:             input.Title,
		Description:       input.Description,
		NumAnswersAllowed: input.NumAnswersAllowed,
		CreatorID:         input.CreatorID,
		GroupID:           input.GroupID,
		CreatedAt:         createdAt,
		Deadline:          deadline.UTC(),
	}
	for i, text := range input.VotingItems {
		poll.VotingItems = append(poll.VotingItems, domain.VotingItem{
			PollID:      pollID,
			Ordinal:     i + 1,
			Description: text,
		})
	}

	if err := s.repo.Save(ctx, poll); err != nil {
		return nil, err
	}
	s.log.WithFields(logrus.Fields{"poll_id": poll.ID, "creator_id": poll.CreatorID}).Info("poll created")

	views := s.aggregator.Enrich(ctx, []*domain.Poll{poll}, nil)
	return &views[0], nil
}

func (s *pollService) GetPoll(ctx context.Context, id uuid.UUID) (*domain.PollView, error) {
	if err := s.validator.ValidateGetPollByID(ctx, id); err != nil {
		return nil, err
	}

	poll, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	views := s.aggregator.Enrich(ctx, []*domain.Poll{poll}, nil)
	return &views[0], nil
}

func (s *pollService) ListPolls(ctx context.Context) ([]domain.PollView, error) {
	polls, err := s.repo.GetAll(ctx)
	if err != nil {
		return nil, err
	}
	return s.enrichNewestFirst(ctx, polls, nil), nil
}

func (s *pollService) ListByGroup(ctx context.Context, groupID string, userID *uuid.UUID) ([]domain.PollView, error) {
	if err := s.validator.ValidateGetPollsByGroupID(ctx, groupID); err != nil {
		return nil, err
	}

	polls, err := s.repo.ListByGroupID(ctx, groupID)
	if err != nil {
		return nil, err
	}
	return s.enrichNewestFirst(ctx, polls, userID), nil
}

func (s *pollService) ListByGroups(ctx context.Context, groupIDs []string, userID *uuid.UUID) ([]domain.PollView, error) {
	if err := s.validator.ValidateGetPollsByMultipleGroupIDs(ctx, groupIDs); err != nil {
		return nil, err
	}

	polls, err := s.repo.ListByGroupIDs(ctx, groupIDs)
	if err != nil {
		return nil, err
	}
	return s.enrichNewestFirst(ctx, polls, userID), nil
}

func (s *pollService) ListUserPolls(ctx context.Context, userID uuid.UUID) ([]domain.PollView, error) {
	groupIDs, err := s.groups.GetGroupIDsForUser(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("get groups of user %s: %w", userID, err)
	}
	if len(groupIDs) == 0 {
		return []domain.PollView{}, nil
	}

	polls, err := s.repo.ListByGroupIDs(ctx, groupIDs)
	if err != nil {
		return nil, err
	}
	return s.enrichNewestFirst(ctx, polls, &userID), nil
}

func (s *pollService) Delete(ctx context.Context, input ports.DeletePollInput) (uuid.UUID, error) {
	poll, err := s.validator.ValidateDeletePoll(ctx, input.UserID, input.GroupID, input.PollID)
	if err != nil {
		return uuid.Nil, err
	}

	if err := s.repo.Delete(ctx, poll.ID); err != nil {
		return uuid.Nil, err
	}
	s.log.WithFields(logrus.Fields{"poll_id": poll.ID, "user_id": input.UserID}).Info("poll deleted")

	if itemIDs := poll.VotingItemIDs(); len(itemIDs) > 0 {
		if err := s.votes.DeleteVotesForItems(ctx, itemIDs); err != nil {
			s.log.WithError(err).WithField("poll_id", poll.ID).Warn("failed to delete votes of deleted poll")
		}
	}
	return poll.ID, nil
}

func (s *pollService) Update(ctx context.Context, input ports.UpdatePollInput) (*domain.PollUpdate, error) {
	if err := ValidateTitle(input.Title); err != nil {
		return nil, err
	}
	if _, err := s.validator.ValidateDeletePoll(ctx, input.UserID, input.GroupID, input.PollID); err != nil {
		return nil, err
	}

	updatedAt := s.now().UTC()
	if err := s.repo.UpdateDetails(ctx, input.PollID, input.Title, input.Description, updatedAt); err != nil {
		return nil, err
	}
	s.log.WithFields(logrus.Fields{"poll_id": input.PollID, "user_id": input.UserID}).Info("poll updated")

	return &domain.PollUpdate{
		PollID:      input.PollID,
		Title:       input.Title,
		Description: input.Description,
		UpdatedAt:   updatedAt,
	}, nil
}

// DeleteGroupPolls removes every poll of a group. Votes are dropped in the
// vote directory first so a remote failure leaves the polls untouched.
func (s *pollService) DeleteGroupPolls(ctx context.Context, groupID string) ([]uuid.UUID, error) {
	polls, err := s.repo.ListByGroupID(ctx, groupID)
	if err != nil {
		return nil, err
	}

	pollIDs := make([]uuid.UUID, 0, len(polls))
	var itemIDs []int64
	for _, poll := range polls {
		pollIDs = append(pollIDs, poll.ID)
		itemIDs = append(itemIDs, poll.VotingItemIDs()...)
	}
	if len(pollIDs) == 0 {
		return pollIDs, nil
	}

	if len(itemIDs) > 0 {
		if err := s.votes.DeleteVotesForItems(ctx, itemIDs); err != nil {
			return nil, fmt.Errorf("delete votes of group %s: %w", groupID, err)
		}
	}

	if err := s.repo.DeleteByIDs(ctx, pollIDs); err != nil {
		return nil, err
	}
	s.log.WithFields(logrus.Fields{"group_id": groupID, "count": len(pollIDs)}).Info("group polls deleted")
	return pollIDs, nil
}

func (s *pollService) enrichNewestFirst(ctx context.Context, polls []*domain.Poll, userID *uuid.UUID) []domain.PollView {
	views := s.aggregator.Enrich(ctx, polls, userID)
	slices.SortStableFunc(views, func(a, b domain.PollView) int {
		return b.CreatedAt.Compare(a.CreatedAt)
	})
	return views
}
