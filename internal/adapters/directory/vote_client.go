package directory

import (
	"context"
	"net/http"

	"github.com/google/uuid"

	"github.com/vncsmyrnk/pollmanagement/internal/core/ports"
)

type VoteClient struct {
	c *client
}

func NewVoteClient(baseURL string, opts Options) ports.VoteDirectory {
	return &VoteClient{c: newClient(baseURL, opts)}
}

type userChoicesRequest struct {
	VotingItemIDs []int64   `json:"voting_item_ids"`
	UserID        uuid.UUID `json:"user_id"`
}

type votingItemIDsResponse struct {
	VotingItemIDs []int64 `json:"voting_item_ids"`
}

func (v *VoteClient) GetChosenVotingItems(ctx context.Context, votingItemIDs []int64, userID uuid.UUID) ([]int64, error) {
	var resp votingItemIDsResponse
	req := userChoicesRequest{VotingItemIDs: votingItemIDs, UserID: userID}
	if err := v.c.do(ctx, http.MethodPost, "/api/vote/user-choices", nil, req, &resp); err != nil {
		return nil, err
	}
	return resp.VotingItemIDs, nil
}

type deleteVotesRequest struct {
	VotingItemIDs []int64 `json:"voting_item_ids"`
}

type deleteVotesResponse struct {
	DeletedCount int `json:"deleted_count"`
}

func (v *VoteClient) DeleteVotesForItems(ctx context.Context, votingItemIDs []int64) error {
	var resp deleteVotesResponse
	return v.c.do(ctx, http.MethodDelete, "/api/vote/delete-multiple", nil, deleteVotesRequest{VotingItemIDs: votingItemIDs}, &resp)
}
