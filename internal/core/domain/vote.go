package domain

import (
	"time"

	"github.com/google/uuid"
)

type VoteAction string

const (
	VoteActionAdd    VoteAction = "add"
	VoteActionRemove VoteAction = "remove"
)

// Delta is the change the action applies to a voting item's count.
func (a VoteAction) Delta() (int, bool) {
	switch a {
	case VoteActionAdd:
		return 1, true
	case VoteActionRemove:
		return -1, true
	default:
		return 0, false
	}
}

type VoteResult struct {
	UserID       uuid.UUID `json:"user_id"`
	VotingItemID int64     `json:"voting_item_id"`
	VoteCount    int       `json:"vote_count"`
	VotedAt      time.Time `json:"time_voted"`
}

type VoteCount struct {
	PollID       uuid.UUID `json:"poll_id"`
	VotingItemID int64     `json:"voting_item_id"`
	VoteCount    int       `json:"vote_count"`
}
