package user

import (
	"context"
	"errors"

	"github.com/google/uuid"

	"civicwatch/internal/domain"
	"civicwatch/internal/repository"
)

var (
	ErrNotFound  = errors.New("user not found")
	ErrForbidden = errors.New("profiles can only be changed by their owner")
)

type Service interface {
	GetByID(ctx context.Context, id uuid.UUID) (*domain.User, error)
	Update(ctx context.Context, id, actorID uuid.UUID, input domain.UpdateUserInput) (*domain.User, error)
	// Delete removes the account and, through the cascade chain, every
	// post, comment, like, notification and session it owns.
	Delete(ctx context.Context, id, actorID uuid.UUID, actorIsAdmin bool) error
	List(ctx context.Context, params domain.PaginationParams) (domain.PaginatedResponse[domain.User], error)
}

type service struct {
	userRepo repository.UserRepository
}

func NewService(userRepo repository.UserRepository) Service {
	return &service{userRepo: userRepo}
}

func (s *service) GetByID(ctx context.Context, id uuid.UUID) (*domain.User, error) {
	user, err := s.userRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, ErrNotFound
	}
	return user, nil
}

func (s *service) Update(ctx context.Context, id, actorID uuid.UUID, input domain.UpdateUserInput) (*domain.User, error) {
	if id != actorID {
		return nil, ErrForbidden
	}

	user, err := s.userRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, ErrNotFound
	}

	if input.Name != nil {
		user.Name = *input.Name
	}
	if input.Email != nil {
		user.Email = *input.Email
	}

	if err := s.userRepo.Update(ctx, user); err != nil {
		return nil, err
	}
	return user, nil
}

func (s *service) Delete(ctx context.Context, id, actorID uuid.UUID, actorIsAdmin bool) error {
	if id != actorID && !actorIsAdmin {
		return ErrForbidden
	}

	user, err := s.userRepo.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if user == nil {
		return ErrNotFound
	}

	return s.userRepo.Delete(ctx, id)
}

func (s *service) List(ctx context.Context, params domain.PaginationParams) (domain.PaginatedResponse[domain.User], error) {
	users, total, err := s.userRepo.List(ctx, params)
	if err != nil {
		return domain.PaginatedResponse[domain.User]{}, err
	}
	return domain.NewPaginatedResponse(users, params.Page, params.PageSize, total), nil
}
