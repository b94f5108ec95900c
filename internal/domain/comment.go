package domain

import (
	"time"

	"github.com/google/uuid"
)

type Comment struct {
	ID        uuid.UUID `json:"id" db:"comment_id"`
	PostID    uuid.UUID `json:"post_id" db:"post_id"`
	UserID    uuid.UUID `json:"user_id" db:"user_id"`
	Content   string    `json:"content" db:"content"`
	CreatedAt time.Time `json:"created_at" db:"created_at"`
	UpdatedAt time.Time `json:"updated_at" db:"updated_at"`

	User *CommentUser `json:"user,omitempty"`
}

type CommentUser struct {
	ID   uuid.UUID `json:"id" db:"user_id"`
	Name string    `json:"name" db:"user_name"`
}

type CreateCommentInput struct {
	Content string `json:"content"`
}

type UpdateCommentInput struct {
	Content string `json:"content"`
}
