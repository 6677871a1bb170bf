package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/lib/pq"

	"github.com/vncsmyrnk/pollmanagement/internal/core/domain"
	"github.com/vncsmyrnk/pollmanagement/internal/core/ports"
)

const pollColumns = `id, title, description, num_answers_allowed, creator_id, group_id, created_at, updated_at, deadline`

type pollRepository struct {
	db *sql.DB
}

func NewPollRepository(db *sql.DB) ports.PollRepository {
	return &pollRepository{
		db: db,
	}
}

func (r *pollRepository) Save(ctx context.Context, poll *domain.Poll) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	queryPoll := `
		INSERT INTO polls (id, title, description, num_answers_allowed, creator_id, group_id, created_at, deadline)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
	`
	_, err = tx.ExecContext(ctx, queryPoll,
		poll.ID, poll.Title, poll.Description, poll.NumAnswersAllowed,
		poll.CreatorID, poll.GroupID, poll.CreatedAt, poll.Deadline,
	)
	if err != nil {
		return fmt.Errorf("failed to insert poll: %w", err)
	}

	queryItem := `
		INSERT INTO voting_items (poll_id, ordinal, description, vote_count)
		VALUES ($1, $2, $3, $4)
		RETURNING id
	`
	stmt, err := tx.PrepareContext(ctx, queryItem)
	if err != nil {
		return fmt.Errorf("failed to prepare voting item statement: %w", err)
	}
	defer stmt.Close()

	for i := range poll.VotingItems {
		item := &poll.VotingItems[i]
		err = stmt.QueryRowContext(ctx, poll.ID, item.Ordinal, item.Description, item.VoteCount).Scan(&item.ID)
		if err != nil {
			return fmt.Errorf("failed to insert voting item: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}

	return nil
}

func (r *pollRepository) GetByID(ctx context.Context, id uuid.UUID) (*domain.Poll, error) {
	query := `SELECT ` + pollColumns + ` FROM polls WHERE id = $1`

	poll, err := scanPoll(r.db.QueryRowContext(ctx, query, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrPollNotFound
		}
		return nil, fmt.Errorf("failed to get poll: %w", err)
	}

	if err := r.attachVotingItems(ctx, []*domain.Poll{poll}); err != nil {
		return nil, err
	}
	return poll, nil
}

func (r *pollRepository) Exists(ctx context.Context, id uuid.UUID) (bool, error) {
	var exists bool
	err := r.db.QueryRowContext(ctx, `SELECT EXISTS (SELECT 1 FROM polls WHERE id = $1)`, id).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("failed to check poll: %w", err)
	}
	return exists, nil
}

func (r *pollRepository) GetAll(ctx context.Context) ([]*domain.Poll, error) {
	query := `SELECT ` + pollColumns + ` FROM polls ORDER BY created_at DESC`
	return r.queryPolls(ctx, query)
}

func (r *pollRepository) ListByGroupID(ctx context.Context, groupID string) ([]*domain.Poll, error) {
	query := `SELECT ` + pollColumns + ` FROM polls WHERE group_id = $1 ORDER BY created_at DESC`
	return r.queryPolls(ctx, query, groupID)
}

func (r *pollRepository) ListByGroupIDs(ctx context.Context, groupIDs []string) ([]*domain.Poll, error) {
	query := `SELECT ` + pollColumns + ` FROM polls WHERE group_id = ANY($1) ORDER BY created_at DESC`
	return r.queryPolls(ctx, query, pq.Array(groupIDs))
}

func (r *pollRepository) UpdateDetails(ctx context.Context, id uuid.UUID, title, description string, updatedAt time.Time) error {
	query := `UPDATE polls SET title = $2, description = $3, updated_at = $4 WHERE id = $1`
	res, err := r.db.ExecContext(ctx, query, id, title, description, updatedAt)
	if err != nil {
		return fmt.Errorf("failed to update poll: %w", err)
	}
	return expectAffected(res, domain.ErrPollNotFound)
}

func (r *pollRepository) Delete(ctx context.Context, id uuid.UUID) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM polls WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete poll: %w", err)
	}
	return expectAffected(res, domain.ErrPollNotFound)
}

func (r *pollRepository) DeleteByIDs(ctx context.Context, ids []uuid.UUID) error {
	_, err := r.db.ExecContext(ctx, `DELETE FROM polls WHERE id = ANY($1::uuid[])`, pq.Array(uuidStrings(ids)))
	if err != nil {
		return fmt.Errorf("failed to delete polls: %w", err)
	}
	return nil
}

func (r *pollRepository) queryPolls(ctx context.Context, query string, args ...any) ([]*domain.Poll, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query polls: %w", err)
	}
	defer rows.Close()

	polls := []*domain.Poll{}
	for rows.Next() {
		poll, err := scanPoll(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan poll: %w", err)
		}
		polls = append(polls, poll)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating polls: %w", err)
	}

	if err := r.attachVotingItems(ctx, polls); err != nil {
		return nil, err
	}
	return polls, nil
}

// attachVotingItems loads the voting items of all polls with one query.
func (r *pollRepository) attachVotingItems(ctx context.Context, polls []*domain.Poll) error {
	if len(polls) == 0 {
		return nil
	}

	byID := make(map[uuid.UUID]*domain.Poll, len(polls))
	ids := make([]uuid.UUID, 0, len(polls))
	for _, p := range polls {
		p.VotingItems = []domain.VotingItem{}
		byID[p.ID] = p
		ids = append(ids, p.ID)
	}

	query := `
		SELECT id, poll_id, ordinal, description, vote_count
		FROM voting_items
		WHERE poll_id = ANY($1::uuid[])
		ORDER BY poll_id, ordinal
	`
	rows, err := r.db.QueryContext(ctx, query, pq.Array(uuidStrings(ids)))
	if err != nil {
		return fmt.Errorf("failed to get voting items: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var item domain.VotingItem
		if err := rows.Scan(&item.ID, &item.PollID, &item.Ordinal, &item.Description, &item.VoteCount); err != nil {
			return fmt.Errorf("failed to scan voting item: %w", err)
		}
		if p, ok := byID[item.PollID]; ok {
			p.VotingItems = append(p.VotingItems, item)
		}
	}
	if err := rows.Err(); err != nil {
		return fmt.Errorf("error iterating voting items: %w", err)
	}
	return nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanPoll(row rowScanner) (*domain.Poll, error) {
	var (
		poll      domain.Poll
		updatedAt sql.NullTime
	)
	err := row.Scan(
		&poll.ID, &poll.Title, &poll.Description, &poll.NumAnswersAllowed,
		&poll.CreatorID, &poll.GroupID, &poll.CreatedAt, &updatedAt, &poll.Deadline,
	)
	if err != nil {
		return nil, err
	}
	if updatedAt.Valid {
		t := updatedAt.Time
		poll.UpdatedAt = &t
	}
	return &poll, nil
}

func expectAffected(res sql.Result, notFound error) error {
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to read affected rows: %w", err)
	}
	if n == 0 {
		return notFound
	}
	return nil
}

func uuidStrings(ids []uuid.UUID) []string {
	out := make([]string, 0, len(ids))
	for _, id := range ids {
		out = append(out, id.String())
	}
	return out
}
