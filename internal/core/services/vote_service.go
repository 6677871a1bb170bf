package services

import (
	"context"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/vncsmyrnk/pollmanagement/internal/core/domain"
	"github.com/vncsmyrnk/pollmanagement/internal/core/ports"
)

type votingItemService struct {
	repo ports.VotingItemRepository
	now  func() time.Time
	log  logrus.FieldLogger
}

func NewVotingItemService(repo ports.VotingItemRepository, now func() time.Time, log logrus.FieldLogger) ports.VotingItemService {
	if now == nil {
		now = time.Now
	}
	return &votingItemService{
		repo: repo,
		now:  now,
		log:  log,
	}
}

func (s *votingItemService) UpdateVoteCount(ctx context.Context, input ports.VoteInput) (*domain.VoteResult, error) {
	if _, err := s.repo.GetByID(ctx, input.VotingItemID); err != nil {
		return nil, err
	}

	delta, ok := input.Action.Delta()
	if !ok {
		return nil, domain.Errorf(domain.ErrInvalidArgument, "action %q does not exist", input.Action)
	}

	count, ok, err := s.repo.AdjustVoteCount(ctx, input.VotingItemID, delta)
	if err != nil {
		return nil, err
	}
	if !ok {
		s.log.WithField("voting_item_id", input.VotingItemID).Info("vote removal rejected: zero vote count")
		return nil, domain.Errorf(domain.ErrInvalidArgument, "can not remove vote from voting item with 0 vote count")
	}

	s.log.WithFields(logrus.Fields{
		"voting_item_id": input.VotingItemID,
		"action":         input.Action,
		"vote_count":     count,
	}).Info("voting item vote count updated")

	return &domain.VoteResult{
		UserID:       input.UserID,
		VotingItemID: input.VotingItemID,
		VoteCount:    count,
		VotedAt:      s.now().UTC(),
	}, nil
}

func (s *votingItemService) GetVoteCount(ctx context.Context, votingItemID int64) (*domain.VoteCount, error) {
	item, err := s.repo.GetByID(ctx, votingItemID)
	if err != nil {
		return nil, err
	}
	return &domain.VoteCount{
		PollID:       item.PollID,
		VotingItemID: item.ID,
		VoteCount:    item.VoteCount,
	}, nil
}
