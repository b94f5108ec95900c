package repository

import (
	"context"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"civicwatch/internal/domain"
)

type LikeRepository interface {
	// Insert is a no-op when the (post, user) pair already exists.
	Insert(ctx context.Context, postID, userID uuid.UUID) error
	// Delete is a no-op when the pair does not exist.
	Delete(ctx context.Context, postID, userID uuid.UUID) error
	// ListByPost returns the full like-set for a post.
	ListByPost(ctx context.Context, postID uuid.UUID) ([]domain.LikeUser, error)
}

type likeRepository struct {
	db *sqlx.DB
}

func NewLikeRepository(db *sqlx.DB) LikeRepository {
	return &likeRepository{db: db}
}

// ON CONFLICT DO NOTHING absorbs the duplicate-key race between two
// concurrent likes of the same post by the same user.
func (r *likeRepository) Insert(ctx context.Context, postID, userID uuid.UUID) error {
	query := `
		INSERT INTO likes (post_id, user_id)
		VALUES ($1, $2)
		ON CONFLICT (post_id, user_id) DO NOTHING`
	_, err := r.db.ExecContext(ctx, query, postID, userID)
	return err
}

func (r *likeRepository) Delete(ctx context.Context, postID, userID uuid.UUID) error {
	query := `DELETE FROM likes WHERE post_id = $1 AND user_id = $2`
	_, err := r.db.ExecContext(ctx, query, postID, userID)
	return err
}

func (r *likeRepository) ListByPost(ctx context.Context, postID uuid.UUID) ([]domain.LikeUser, error) {
	likers := []domain.LikeUser{}
	query := `
		SELECT u.user_id, u.name
		FROM likes l
		INNER JOIN users u ON l.user_id = u.user_id
		WHERE l.post_id = $1
		ORDER BY u.name`
	err := r.db.SelectContext(ctx, &likers, query, postID)
	return likers, err
}
