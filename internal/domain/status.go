package domain

import (
	"time"

	"github.com/google/uuid"
)

type ComplaintStatus string

const (
	StatusPending    ComplaintStatus = "Pending"
	StatusIdentified ComplaintStatus = "Issue identified"
	StatusWorking    ComplaintStatus = "Issue being worked on"
	StatusResolved   ComplaintStatus = "Issue resolved"
)

func (s ComplaintStatus) IsValid() bool {
	switch s {
	case StatusPending, StatusIdentified, StatusWorking, StatusResolved:
		return true
	default:
		return false
	}
}

type StatusRecord struct {
	PostID    uuid.UUID       `json:"post_id" db:"post_id"`
	Status    ComplaintStatus `json:"status" db:"status"`
	UpdatedAt time.Time       `json:"updated_at" db:"updated_at"`
}

type UpdateStatusInput struct {
	Status ComplaintStatus `json:"status"`
}
