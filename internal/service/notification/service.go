// Package notification persists and dispatches user notifications.
// Durability comes first: the row is committed before any live push, so a
// disconnected recipient still finds the notification on next login. The
// push itself is fire-and-forget.
package notification

import (
	"context"
	"errors"
	"log"

	"github.com/google/uuid"

	"civicwatch/internal/domain"
	"civicwatch/internal/repository"
)

var (
	ErrNotFound  = errors.New("notification not found")
	ErrForbidden = errors.New("notifications can only be changed by their owner")
)

type Service interface {
	Notify(ctx context.Context, userID uuid.UUID, notifType domain.NotificationType, message string, link *string) error
	List(ctx context.Context, userID uuid.UUID, unreadOnly bool, params domain.PaginationParams) (domain.PaginatedResponse[domain.Notification], error)
	MarkRead(ctx context.Context, id, actorID uuid.UUID) error
	MarkAllRead(ctx context.Context, userID uuid.UUID) error
	UnreadCount(ctx context.Context, userID uuid.UUID) (int64, error)
	Delete(ctx context.Context, id, actorID uuid.UUID) error
}

// Gateway is the live-delivery side of the realtime hub.
type Gateway interface {
	SendToUser(userID uuid.UUID, event domain.Event)
}

// Emailer mirrors notifications to email, best effort.
type Emailer interface {
	SendNotification(ctx context.Context, to, name, message string) error
}

type service struct {
	notifRepo repository.NotificationRepository
	userRepo  repository.UserRepository
	gateway   Gateway
	emailer   Emailer
}

func NewService(notifRepo repository.NotificationRepository, userRepo repository.UserRepository, gateway Gateway, emailer Emailer) Service {
	return &service{
		notifRepo: notifRepo,
		userRepo:  userRepo,
		gateway:   gateway,
		emailer:   emailer,
	}
}

func (s *service) Notify(ctx context.Context, userID uuid.UUID, notifType domain.NotificationType, message string, link *string) error {
	notif := &domain.Notification{
		ID:      uuid.New(),
		UserID:  userID,
		Type:    notifType,
		Message: message,
		Link:    link,
	}

	if err := s.notifRepo.Create(ctx, notif); err != nil {
		return err
	}

	// Committed. Everything below is best effort and never unwinds the row.
	if s.gateway != nil {
		s.gateway.SendToUser(userID, domain.Event{
			Event: domain.EventNewNotification,
			Data:  notif,
		})
	}

	if s.emailer != nil {
		if user, err := s.userRepo.GetByID(ctx, userID); err == nil && user != nil {
			go func(to, name, message string) {
				if err := s.emailer.SendNotification(context.Background(), to, name, message); err != nil {
					log.Printf("notification: email to %s not sent: %v", to, err)
				}
			}(user.Email, user.Name, message)
		}
	}

	return nil
}

func (s *service) List(ctx context.Context, userID uuid.UUID, unreadOnly bool, params domain.PaginationParams) (domain.PaginatedResponse[domain.Notification], error) {
	notifications, total, err := s.notifRepo.ListByUser(ctx, userID, unreadOnly, params)
	if err != nil {
		return domain.PaginatedResponse[domain.Notification]{}, err
	}

	return domain.NewPaginatedResponse(notifications, params.Page, params.PageSize, total), nil
}

// MarkRead is idempotent: re-reading an already-read notification succeeds
// without touching the row.
func (s *service) MarkRead(ctx context.Context, id, actorID uuid.UUID) error {
	notif, err := s.notifRepo.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if notif == nil {
		return ErrNotFound
	}
	if notif.UserID != actorID {
		return ErrForbidden
	}
	return s.notifRepo.MarkAsRead(ctx, id)
}

func (s *service) MarkAllRead(ctx context.Context, userID uuid.UUID) error {
	return s.notifRepo.MarkAllAsRead(ctx, userID)
}

func (s *service) UnreadCount(ctx context.Context, userID uuid.UUID) (int64, error) {
	return s.notifRepo.CountUnread(ctx, userID)
}

func (s *service) Delete(ctx context.Context, id, actorID uuid.UUID) error {
	notif, err := s.notifRepo.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if notif == nil {
		return ErrNotFound
	}
	if notif.UserID != actorID {
		return ErrForbidden
	}
	return s.notifRepo.Delete(ctx, id)
}
