package services

import (
	"context"
	"sync"
	"sync/atomic"
	"time"

	"github.com/google/uuid"

	"github.com/vncsmyrnk/pollmanagement/internal/core/domain"
)

type memPollRepo struct {
	mu     sync.Mutex
	polls  map[uuid.UUID]*domain.Poll
	order  []uuid.UUID
	nextID int64
}

func newMemPollRepo() *memPollRepo {
	return &memPollRepo{polls: make(map[uuid.UUID]*domain.Poll)}
}

func clonePoll(p *domain.Poll) *domain.Poll {
	c := *p
	c.VotingItems = append([]domain.VotingItem(nil), p.VotingItems...)
	return &c
}

func (r *memPollRepo) Save(ctx context.Context, poll *domain.Poll) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for i := range poll.VotingItems {
		r.nextID++
		poll.VotingItems[i].ID = r.nextID
	}
	r.polls[poll.ID] = clonePoll(poll)
	r.order = append(r.order, poll.ID)
	return nil
}

func (r *memPollRepo) GetByID(ctx context.Context, id uuid.UUID) (*domain.Poll, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	p, ok := r.polls[id]
	if !ok {
		return nil, domain.ErrPollNotFound
	}
	return clonePoll(p), nil
}

func (r *memPollRepo) Exists(ctx context.Context, id uuid.UUID) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	_, ok := r.polls[id]
	return ok, nil
}

func (r *memPollRepo) filter(keep func(*domain.Poll) bool) []*domain.Poll {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []*domain.Poll
	for _, id := range r.order {
		if p, ok := r.polls[id]; ok && keep(p) {
			out = append(out, clonePoll(p))
		}
	}
	return out
}

func (r *memPollRepo) GetAll(ctx context.Context) ([]*domain.Poll, error) {
	return r.filter(func(*domain.Poll) bool { return true }), nil
}

func (r *memPollRepo) ListByGroupID(ctx context.Context, groupID string) ([]*domain.Poll, error) {
	return r.filter(func(p *domain.Poll) bool { return p.GroupID == groupID }), nil
}

func (r *memPollRepo) ListByGroupIDs(ctx context.Context, groupIDs []string) ([]*domain.Poll, error) {
	set := make(map[string]bool, len(groupIDs))
	for _, id := range groupIDs {
		set[id] = true
	}
	return r.filter(func(p *domain.Poll) bool { return set[p.GroupID] }), nil
}

func (r *memPollRepo) UpdateDetails(ctx context.Context, id uuid.UUID, title, description string, updatedAt time.Time) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	p, ok := r.polls[id]
	if !ok {
		return domain.ErrPollNotFound
	}
	p.Title = title
	p.Description = description
	p.UpdatedAt = &updatedAt
	return nil
}

func (r *memPollRepo) Delete(ctx context.Context, id uuid.UUID) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.polls[id]; !ok {
		return domain.ErrPollNotFound
	}
	delete(r.polls, id)
	return nil
}

func (r *memPollRepo) DeleteByIDs(ctx context.Context, ids []uuid.UUID) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, id := range ids {
		delete(r.polls, id)
	}
	return nil
}

type stubUsers struct {
	names      map[uuid.UUID]string
	err        error
	existsErr  error
	delay      time.Duration
	bulkCalls  atomic.Int32
	existCalls atomic.Int32
	lastIDs    []uuid.UUID
}

func (u *stubUsers) UserExists(ctx context.Context, userID uuid.UUID) (bool, error) {
	u.existCalls.Add(1)
	if u.existsErr != nil {
		return false, u.existsErr
	}
	_, ok := u.names[userID]
	return ok, nil
}

func (u *stubUsers) GetUsersByIDs(ctx context.Context, ids []uuid.UUID) ([]domain.UserRecord, error) {
	u.bulkCalls.Add(1)
	u.lastIDs = ids
	if u.delay > 0 {
		select {
		case <-time.After(u.delay):
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	}
	if u.err != nil {
		return nil, u.err
	}
	var out []domain.UserRecord
	for _, id := range ids {
		if name, ok := u.names[id]; ok {
			out = append(out, domain.UserRecord{ID: id, Name: name})
		}
	}
	return out, nil
}

type stubGroups struct {
	names       map[string]string
	permitted   map[uuid.UUID]bool
	memberships map[uuid.UUID][]string
	err         error
	existsErr   error
	permErr     error
	delay       time.Duration
	bulkCalls   atomic.Int32
	existCalls  atomic.Int32
	permCalls   atomic.Int32
	lastIDs     []string
}

func (g *stubGroups) GroupExists(ctx context.Context, groupID string) (bool, error) {
	g.existCalls.Add(1)
	if g.existsErr != nil {
		return false, g.existsErr
	}
	_, ok := g.names[groupID]
	return ok, nil
}

func (g *stubGroups) GetGroupsByIDs(ctx context.Context, ids []string) ([]domain.GroupRecord, error) {
	g.bulkCalls.Add(1)
	g.lastIDs = ids
	if g.delay > 0 {
		select {
		case <-time.After(g.delay):
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	}
	if g.err != nil {
		return nil, g.err
	}
	var out []domain.GroupRecord
	for _, id := range ids {
		if name, ok := g.names[id]; ok {
			out = append(out, domain.GroupRecord{ID: id, Name: name})
		}
	}
	return out, nil
}

func (g *stubGroups) UserHasDeletePermission(ctx context.Context, userID uuid.UUID, groupID string) (bool, error) {
	g.permCalls.Add(1)
	if g.permErr != nil {
		return false, g.permErr
	}
	return g.permitted[userID], nil
}

func (g *stubGroups) GetGroupIDsForUser(ctx context.Context, userID uuid.UUID) ([]string, error) {
	if g.err != nil {
		return nil, g.err
	}
	return g.memberships[userID], nil
}

type stubVotes struct {
	chosen      map[uuid.UUID][]int64
	err         error
	deleteErr   error
	delay       time.Duration
	calls       atomic.Int32
	lastIDs     []int64
	deletedIDs  []int64
	deleteCalls atomic.Int32
}

func (v *stubVotes) GetChosenVotingItems(ctx context.Context, votingItemIDs []int64, userID uuid.UUID) ([]int64, error) {
	v.calls.Add(1)
	v.lastIDs = votingItemIDs
	if v.delay > 0 {
		select {
		case <-time.After(v.delay):
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	}
	if v.err != nil {
		return nil, v.err
	}
	return v.chosen[userID], nil
}

func (v *stubVotes) DeleteVotesForItems(ctx context.Context, votingItemIDs []int64) error {
	v.deleteCalls.Add(1)
	if v.deleteErr != nil {
		return v.deleteErr
	}
	v.deletedIDs = append(v.deletedIDs, votingItemIDs...)
	return nil
}

type memVotingItemRepo struct {
	mu    sync.Mutex
	items map[int64]*domain.VotingItem
}

func (r *memVotingItemRepo) GetByID(ctx context.Context, id int64) (*domain.VotingItem, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	item, ok := r.items[id]
	if !ok {
		return nil, domain.ErrVotingItemNotFound
	}
	c := *item
	return &c, nil
}

func (r *memVotingItemRepo) AdjustVoteCount(ctx context.Context, id int64, delta int) (int, bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	item, ok := r.items[id]
	if !ok {
		return 0, false, domain.ErrVotingItemNotFound
	}
	if item.VoteCount+delta < 0 {
		return item.VoteCount, false, nil
	}
	item.VoteCount += delta
	return item.VoteCount, true, nil
}
