package repository

import (
	"context"
	"database/sql"
	"errors"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"civicwatch/internal/domain"
)

type StatusRepository interface {
	// Upsert atomically creates or overwrites the single status row for a
	// post and returns the persisted record.
	Upsert(ctx context.Context, postID uuid.UUID, status domain.ComplaintStatus) (*domain.StatusRecord, error)
	// Get returns nil (not an error) when no row exists; the caller treats
	// that as the Pending default.
	Get(ctx context.Context, postID uuid.UUID) (*domain.StatusRecord, error)
}

type statusRepository struct {
	db *sqlx.DB
}

func NewStatusRepository(db *sqlx.DB) StatusRepository {
	return &statusRepository{db: db}
}

// The ON CONFLICT arm makes two concurrent callers racing to create the
// first row for a post converge on one row, last writer wins.
func (r *statusRepository) Upsert(ctx context.Context, postID uuid.UUID, status domain.ComplaintStatus) (*domain.StatusRecord, error) {
	var record domain.StatusRecord
	query := `
		INSERT INTO complaint_status (post_id, status, updated_at)
		VALUES ($1, $2, NOW())
		ON CONFLICT (post_id) DO UPDATE SET status = EXCLUDED.status, updated_at = NOW()
		RETURNING post_id, status, updated_at`

	err := r.db.GetContext(ctx, &record, query, postID, status)
	if err != nil {
		return nil, err
	}
	return &record, nil
}

func (r *statusRepository) Get(ctx context.Context, postID uuid.UUID) (*domain.StatusRecord, error) {
	var record domain.StatusRecord
	query := `SELECT post_id, status, updated_at FROM complaint_status WHERE post_id = $1`
	err := r.db.GetContext(ctx, &record, query, postID)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &record, nil
}
