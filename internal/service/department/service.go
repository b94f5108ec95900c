package department

import (
	"context"
	"database/sql"
	"errors"

	"github.com/google/uuid"

	"civicwatch/internal/domain"
	"civicwatch/internal/repository"
)

var (
	ErrNotFound   = errors.New("department not found")
	ErrNameTaken  = errors.New("department name already exists")
	ErrEmptyName  = errors.New("department name is required")
)

type Service interface {
	Create(ctx context.Context, input domain.CreateDepartmentInput) (*domain.Department, error)
	GetByID(ctx context.Context, id uuid.UUID) (*domain.Department, error)
	List(ctx context.Context) ([]domain.Department, error)
	Update(ctx context.Context, id uuid.UUID, input domain.CreateDepartmentInput) (*domain.Department, error)
	Delete(ctx context.Context, id uuid.UUID) error
}

type service struct {
	deptRepo repository.DepartmentRepository
}

func NewService(deptRepo repository.DepartmentRepository) Service {
	return &service{deptRepo: deptRepo}
}

func (s *service) Create(ctx context.Context, input domain.CreateDepartmentInput) (*domain.Department, error) {
	if input.Name == "" {
		return nil, ErrEmptyName
	}

	existing, err := s.deptRepo.GetByName(ctx, input.Name)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, ErrNameTaken
	}

	dept := &domain.Department{
		ID:          uuid.New(),
		Name:        input.Name,
		Description: input.Description,
		Latitude:    input.Latitude,
		Longitude:   input.Longitude,
	}

	if err := s.deptRepo.Create(ctx, dept); err != nil {
		return nil, err
	}
	return dept, nil
}

func (s *service) GetByID(ctx context.Context, id uuid.UUID) (*domain.Department, error) {
	dept, err := s.deptRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if dept == nil {
		return nil, ErrNotFound
	}
	return dept, nil
}

func (s *service) List(ctx context.Context) ([]domain.Department, error) {
	return s.deptRepo.List(ctx)
}

func (s *service) Update(ctx context.Context, id uuid.UUID, input domain.CreateDepartmentInput) (*domain.Department, error) {
	if input.Name == "" {
		return nil, ErrEmptyName
	}

	dept, err := s.deptRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if dept == nil {
		return nil, ErrNotFound
	}

	dept.Name = input.Name
	dept.Description = input.Description
	dept.Latitude = input.Latitude
	dept.Longitude = input.Longitude

	if err := s.deptRepo.Update(ctx, dept); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return dept, nil
}

func (s *service) Delete(ctx context.Context, id uuid.UUID) error {
	err := s.deptRepo.Delete(ctx, id)
	if errors.Is(err, sql.ErrNoRows) {
		return ErrNotFound
	}
	return err
}
