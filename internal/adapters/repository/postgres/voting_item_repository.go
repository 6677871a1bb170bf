package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/vncsmyrnk/pollmanagement/internal/core/domain"
	"github.com/vncsmyrnk/pollmanagement/internal/core/ports"
)

type votingItemRepository struct {
	db *sql.DB
}

func NewVotingItemRepository(db *sql.DB) ports.VotingItemRepository {
	return &votingItemRepository{
		db: db,
	}
}

func (r *votingItemRepository) GetByID(ctx context.Context, id int64) (*domain.VotingItem, error) {
	query := `
		SELECT id, poll_id, ordinal, description, vote_count
		FROM voting_items
		WHERE id = $1
	`
	var item domain.VotingItem
	err := r.db.QueryRowContext(ctx, query, id).Scan(&item.ID, &item.PollID, &item.Ordinal, &item.Description, &item.VoteCount)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrVotingItemNotFound
		}
		return nil, fmt.Errorf("failed to get voting item: %w", err)
	}
	return &item, nil
}

// AdjustVoteCount applies delta atomically; concurrent adjustments on the
// same row serialize on the row lock taken by UPDATE.
func (r *votingItemRepository) AdjustVoteCount(ctx context.Context, id int64, delta int) (int, bool, error) {
	query := `
		UPDATE voting_items
		SET vote_count = vote_count + $2
		WHERE id = $1 AND vote_count + $2 >= 0
		RETURNING vote_count
	`
	var count int
	err := r.db.QueryRowContext(ctx, query, id, delta).Scan(&count)
	if err == nil {
		return count, true, nil
	}
	if !errors.Is(err, sql.ErrNoRows) {
		return 0, false, fmt.Errorf("failed to adjust vote count: %w", err)
	}

	// No row updated: either the item is gone or the count would go negative.
	if _, err := r.GetByID(ctx, id); err != nil {
		return 0, false, err
	}
	return 0, false, nil
}
