// Package status owns the complaint lifecycle label for each post. A post
// with no status row is Pending; setting a status is an upsert, not an
// enforced transition sequence, matching how triage actually happens (an
// admin may move a report straight to resolved or back to identified).
package status

import (
	"context"
	"errors"
	"fmt"
	"log"

	"github.com/google/uuid"

	"civicwatch/internal/domain"
	"civicwatch/internal/repository"
)

var (
	ErrPostNotFound  = errors.New("post not found")
	ErrInvalidStatus = errors.New("invalid status value")
)

const snippetLen = 25

type Service interface {
	Set(ctx context.Context, postID uuid.UUID, newStatus domain.ComplaintStatus, actorID uuid.UUID) (*domain.StatusRecord, error)
	Get(ctx context.Context, postID uuid.UUID) (*domain.StatusRecord, error)
}

// Notifier is the dispatcher hand-off. Delivery is the dispatcher's
// problem; the status engine only decides whether a notification is due.
type Notifier interface {
	Notify(ctx context.Context, userID uuid.UUID, notifType domain.NotificationType, message string, link *string) error
}

type service struct {
	statusRepo   repository.StatusRepository
	postRepo     repository.PostRepository
	notifier     Notifier
	dashboardURL string
}

func NewService(statusRepo repository.StatusRepository, postRepo repository.PostRepository, notifier Notifier, dashboardURL string) Service {
	return &service{
		statusRepo:   statusRepo,
		postRepo:     postRepo,
		notifier:     notifier,
		dashboardURL: dashboardURL,
	}
}

func (s *service) Set(ctx context.Context, postID uuid.UUID, newStatus domain.ComplaintStatus, actorID uuid.UUID) (*domain.StatusRecord, error) {
	if !newStatus.IsValid() {
		return nil, ErrInvalidStatus
	}

	post, err := s.postRepo.GetByID(ctx, postID)
	if err != nil {
		return nil, err
	}
	if post == nil {
		return nil, ErrPostNotFound
	}

	record, err := s.statusRepo.Upsert(ctx, postID, newStatus)
	if err != nil {
		return nil, err
	}

	// Reporters updating their own posts stay silent; everyone else's
	// update notifies the reporter. The mutation is already committed, so a
	// failed hand-off is logged and swallowed.
	if actorID != post.UserID {
		message := fmt.Sprintf("Your report %q is now: %s", snippet(post.Description), newStatus)
		link := s.dashboardURL
		if err := s.notifier.Notify(ctx, post.UserID, domain.NotifStatusUpdate, message, &link); err != nil {
			log.Printf("status: notification for post %s not delivered: %v", postID, err)
		}
	}

	return record, nil
}

// Get never treats a missing row as an error; it reports the Pending
// default so fresh posts and triaged posts read the same way.
func (s *service) Get(ctx context.Context, postID uuid.UUID) (*domain.StatusRecord, error) {
	record, err := s.statusRepo.Get(ctx, postID)
	if err != nil {
		return nil, err
	}
	if record == nil {
		return &domain.StatusRecord{PostID: postID, Status: domain.StatusPending}, nil
	}
	return record, nil
}

func snippet(description string) string {
	runes := []rune(description)
	if len(runes) <= snippetLen {
		return description
	}
	return string(runes[:snippetLen]) + "..."
}
