package domain

import (
	"time"

	"github.com/google/uuid"
)

type Poll struct {
	ID                uuid.UUID    `json:"poll_id"`
	Title             string       `json:"title"`
	Description       string       `json:"description"`
	NumAnswersAllowed int          `json:"nof_answers_allowed"`
	CreatorID         uuid.UUID    `json:"creator_id"`
	GroupID           string       `json:"group_id"`
	CreatedAt         time.Time    `json:"time_created"`
	UpdatedAt         *time.Time   `json:"time_updated,omitempty"`
	Deadline          time.Time    `json:"deadline"`
	VotingItems       []VotingItem `json:"voting_items"`
}

// VotingItemIDs returns the ids of the poll's voting items in ordinal order.
func (p *Poll) VotingItemIDs() []int64 {
	ids := make([]int64, 0, len(p.VotingItems))
	for _, item := range p.VotingItems {
		ids = append(ids, item.ID)
	}
	return ids
}

type VotingItem struct {
	ID          int64     `json:"voting_item_id"`
	PollID      uuid.UUID `json:"poll_id"`
	Ordinal     int       `json:"voting_item_ordinal"`
	Description string    `json:"description"`
	VoteCount   int       `json:"vote_count"`
}

// PollView is a poll as served to clients: the stored poll plus names
// resolved from the user and group directories and, when a requesting user
// is known, the voting items that user has already chosen.
type PollView struct {
	Poll
	CreatorName        string  `json:"creator_name"`
	GroupName          string  `json:"group_name"`
	CheckedVotingItems []int64 `json:"checked_voting_items"`
}

type PollUpdate struct {
	PollID      uuid.UUID `json:"poll_id"`
	Title       string    `json:"title"`
	Description string    `json:"description"`
	UpdatedAt   time.Time `json:"time_updated"`
}
