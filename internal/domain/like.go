package domain

import "github.com/google/uuid"

// LikeUser is one member of a post's like-set.
type LikeUser struct {
	ID   uuid.UUID `json:"id" db:"user_id"`
	Name string    `json:"name" db:"name"`
}

type LikeResult struct {
	Message string     `json:"message"`
	Likes   []LikeUser `json:"likes"`
}
