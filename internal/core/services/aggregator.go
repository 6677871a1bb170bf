package services

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"

	"github.com/vncsmyrnk/pollmanagement/internal/core/domain"
	"github.com/vncsmyrnk/pollmanagement/internal/core/ports"
)

const (
	UnknownCreator = "Unknown Creator"
	UnknownGroup   = "Unknown Group"
)

type aggregator struct {
	users         ports.UserDirectory
	groups        ports.GroupDirectory
	votes         ports.VoteDirectory
	lookupTimeout time.Duration
	log           logrus.FieldLogger
}

// NewAggregator returns an Aggregator that resolves creator names, group
// names and the requesting user's choices with one bulk call per directory.
// A lookupTimeout of zero leaves each lookup bounded only by ctx.
func NewAggregator(users ports.UserDirectory, groups ports.GroupDirectory, votes ports.VoteDirectory, lookupTimeout time.Duration, log logrus.FieldLogger) ports.Aggregator {
	return &aggregator{
		users:         users,
		groups:        groups,
		votes:         votes,
		lookupTimeout: lookupTimeout,
		log:           log,
	}
}

func (a *aggregator) Enrich(ctx context.Context, polls []*domain.Poll, requestingUser *uuid.UUID) []domain.PollView {
	if len(polls) == 0 {
		return []domain.PollView{}
	}

	creatorIDs, groupIDs, votingItemIDs := collectIDs(polls)

	var (
		creatorNames map[uuid.UUID]string
		groupNames   map[string]string
		chosen       map[int64]struct{}
		g            errgroup.Group
	)

	// Lookups never return an error: a failed lookup yields an empty map, so
	// Wait only acts as the join barrier.
	g.Go(func() error {
		creatorNames = a.creatorNames(ctx, creatorIDs)
		return nil
	})
	g.Go(func() error {
		groupNames = a.groupNames(ctx, groupIDs)
		return nil
	})
	if requestingUser != nil {
		userID := *requestingUser
		g.Go(func() error {
			chosen = a.chosenVotingItems(ctx, votingItemIDs, userID)
			return nil
		})
	}
	_ = g.Wait()

	views := make([]domain.PollView, 0, len(polls))
	for _, poll := range polls {
		creatorName, ok := creatorNames[poll.CreatorID]
		if !ok {
			creatorName = UnknownCreator
		}
		groupName, ok := groupNames[poll.GroupID]
		if !ok {
			groupName = UnknownGroup
		}

		checked := []int64{}
		for _, item := range poll.VotingItems {
			if _, ok := chosen[item.ID]; ok {
				checked = append(checked, item.ID)
			}
		}

		views = append(views, domain.PollView{
			Poll:               *poll,
			CreatorName:        creatorName,
			GroupName:          groupName,
			CheckedVotingItems: checked,
		})
	}
	return views
}

// collectIDs returns the distinct creator ids, group ids and voting item ids
// across polls, each in first-seen order.
func collectIDs(polls []*domain.Poll) ([]uuid.UUID, []string, []int64) {
	seenCreators := make(map[uuid.UUID]struct{})
	seenGroups := make(map[string]struct{})
	seenItems := make(map[int64]struct{})

	var (
		creatorIDs    []uuid.UUID
		groupIDs      []string
		votingItemIDs []int64
	)
	for _, poll := range polls {
		if _, ok := seenCreators[poll.CreatorID]; !ok {
			seenCreators[poll.CreatorID] = struct{}{}
			creatorIDs = append(creatorIDs, poll.CreatorID)
		}
		if _, ok := seenGroups[poll.GroupID]; !ok {
			seenGroups[poll.GroupID] = struct{}{}
			groupIDs = append(groupIDs, poll.GroupID)
		}
		for _, item := range poll.VotingItems {
			if _, ok := seenItems[item.ID]; !ok {
				seenItems[item.ID] = struct{}{}
				votingItemIDs = append(votingItemIDs, item.ID)
			}
		}
	}
	return creatorIDs, groupIDs, votingItemIDs
}

func (a *aggregator) lookupContext(ctx context.Context) (context.Context, context.CancelFunc) {
	if a.lookupTimeout <= 0 {
		return context.WithCancel(ctx)
	}
	return context.WithTimeout(ctx, a.lookupTimeout)
}

func (a *aggregator) creatorNames(ctx context.Context, ids []uuid.UUID) map[uuid.UUID]string {
	ctx, cancel := a.lookupContext(ctx)
	defer cancel()

	a.log.WithField("count", len(ids)).Debug("batch fetching creator names from user directory")
	users, err := a.users.GetUsersByIDs(ctx, ids)
	if err != nil {
		a.log.WithError(err).Warn("failed to fetch creator names")
		return map[uuid.UUID]string{}
	}

	names := make(map[uuid.UUID]string, len(users))
	for _, u := range users {
		names[u.ID] = u.Name
	}
	return names
}

func (a *aggregator) groupNames(ctx context.Context, ids []string) map[string]string {
	ctx, cancel := a.lookupContext(ctx)
	defer cancel()

	a.log.WithField("count", len(ids)).Debug("batch fetching group names from group directory")
	groups, err := a.groups.GetGroupsByIDs(ctx, ids)
	if err != nil {
		a.log.WithError(err).Warn("failed to fetch group names")
		return map[string]string{}
	}

	names := make(map[string]string, len(groups))
	for _, g := range groups {
		names[g.ID] = g.Name
	}
	return names
}

func (a *aggregator) chosenVotingItems(ctx context.Context, ids []int64, userID uuid.UUID) map[int64]struct{} {
	ctx, cancel := a.lookupContext(ctx)
	defer cancel()

	a.log.WithField("user_id", userID).Debug("batch fetching checked voting items from vote directory")
	chosenIDs, err := a.votes.GetChosenVotingItems(ctx, ids, userID)
	if err != nil {
		a.log.WithError(err).WithField("user_id", userID).Warn("failed to fetch checked voting items")
		return map[int64]struct{}{}
	}

	chosen := make(map[int64]struct{}, len(chosenIDs))
	for _, id := range chosenIDs {
		chosen[id] = struct{}{}
	}
	return chosen
}
