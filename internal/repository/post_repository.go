package repository

import (
	"context"
	"database/sql"
	"errors"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"civicwatch/internal/domain"
)

type PostRepository interface {
	Create(ctx context.Context, post *domain.Post) error
	GetByID(ctx context.Context, id uuid.UUID) (*domain.Post, error)
	List(ctx context.Context, departmentID *uuid.UUID, params domain.PaginationParams) ([]domain.Post, int64, error)
	Update(ctx context.Context, post *domain.Post) error
	Delete(ctx context.Context, id uuid.UUID) error
}

type postRepository struct {
	db *sqlx.DB
}

func NewPostRepository(db *sqlx.DB) PostRepository {
	return &postRepository{db: db}
}

func (r *postRepository) Create(ctx context.Context, post *domain.Post) error {
	query := `
		INSERT INTO posts (post_id, user_id, department_id, image_url, description, latitude, longitude)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING created_at, updated_at`

	return r.db.QueryRowxContext(ctx, query,
		post.ID, post.UserID, post.DepartmentID, post.ImageURL, post.Description,
		post.Latitude, post.Longitude,
	).Scan(&post.CreatedAt, &post.UpdatedAt)
}

func (r *postRepository) GetByID(ctx context.Context, id uuid.UUID) (*domain.Post, error) {
	query := `
		SELECT
			p.post_id, p.user_id, p.department_id, p.image_url, p.description,
			p.latitude, p.longitude, p.created_at, p.updated_at,
			u.user_id AS author_id, u.name AS author_name
		FROM posts p
		INNER JOIN users u ON p.user_id = u.user_id
		WHERE p.post_id = $1`

	var post domain.Post
	var author domain.PostAuthor
	row := r.db.QueryRowxContext(ctx, query, id)
	err := row.Scan(
		&post.ID, &post.UserID, &post.DepartmentID, &post.ImageURL, &post.Description,
		&post.Latitude, &post.Longitude, &post.CreatedAt, &post.UpdatedAt,
		&author.ID, &author.Name,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	post.Author = &author
	return &post, nil
}

func (r *postRepository) List(ctx context.Context, departmentID *uuid.UUID, params domain.PaginationParams) ([]domain.Post, int64, error) {
	params.Validate()

	countQuery := `SELECT COUNT(*) FROM posts WHERE ($1::uuid IS NULL OR department_id = $1)`
	var total int64
	if err := r.db.GetContext(ctx, &total, countQuery, departmentID); err != nil {
		return nil, 0, err
	}

	query := `
		SELECT
			p.post_id, p.user_id, p.department_id, p.image_url, p.description,
			p.latitude, p.longitude, p.created_at, p.updated_at,
			u.user_id AS author_id, u.name AS author_name
		FROM posts p
		INNER JOIN users u ON p.user_id = u.user_id
		WHERE ($1::uuid IS NULL OR p.department_id = $1)
		ORDER BY p.created_at DESC
		LIMIT $2 OFFSET $3`

	rows, err := r.db.QueryxContext(ctx, query, departmentID, params.PageSize, params.Offset())
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	var posts []domain.Post
	for rows.Next() {
		var p domain.Post
		var author domain.PostAuthor
		err := rows.Scan(
			&p.ID, &p.UserID, &p.DepartmentID, &p.ImageURL, &p.Description,
			&p.Latitude, &p.Longitude, &p.CreatedAt, &p.UpdatedAt,
			&author.ID, &author.Name,
		)
		if err != nil {
			return nil, 0, err
		}
		p.Author = &author
		posts = append(posts, p)
	}

	return posts, total, rows.Err()
}

func (r *postRepository) Update(ctx context.Context, post *domain.Post) error {
	query := `
		UPDATE posts
		SET description = $2, image_url = $3, latitude = $4, longitude = $5, updated_at = NOW()
		WHERE post_id = $1
		RETURNING updated_at`

	return r.db.QueryRowxContext(ctx, query,
		post.ID, post.Description, post.ImageURL, post.Latitude, post.Longitude,
	).Scan(&post.UpdatedAt)
}

// Delete removes the post; its status row, comments and likes cascade.
func (r *postRepository) Delete(ctx context.Context, id uuid.UUID) error {
	_, err := r.db.ExecContext(ctx, `DELETE FROM posts WHERE post_id = $1`, id)
	return err
}
