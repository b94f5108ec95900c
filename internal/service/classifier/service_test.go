package classifier_test

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"civicwatch/internal/domain"
	"civicwatch/internal/service/classifier"
)

type mockDeptRepo struct {
	mock.Mock
}

func (m *mockDeptRepo) Create(ctx context.Context, dept *domain.Department) error {
	return m.Called(ctx, dept).Error(0)
}

func (m *mockDeptRepo) GetByID(ctx context.Context, id uuid.UUID) (*domain.Department, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Department), args.Error(1)
}

func (m *mockDeptRepo) GetByName(ctx context.Context, name string) (*domain.Department, error) {
	args := m.Called(ctx, name)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Department), args.Error(1)
}

func (m *mockDeptRepo) FindOrCreateByName(ctx context.Context, name string) (*domain.Department, error) {
	args := m.Called(ctx, name)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Department), args.Error(1)
}

func (m *mockDeptRepo) List(ctx context.Context) ([]domain.Department, error) {
	args := m.Called(ctx)
	return args.Get(0).([]domain.Department), args.Error(1)
}

func (m *mockDeptRepo) Update(ctx context.Context, dept *domain.Department) error {
	return m.Called(ctx, dept).Error(0)
}

func (m *mockDeptRepo) Delete(ctx context.Context, id uuid.UUID) error {
	return m.Called(ctx, id).Error(0)
}

func TestClassifierService_Classify(t *testing.T) {
	ctx := context.Background()

	cases := []struct {
		name        string
		description string
		department  string
	}{
		{"Road Issue", "Huge pothole in front of the bakery", "Road Dept"},
		{"Traffic Issue", "The traffic signal at 5th and Main is stuck on red", "Traffic Dept"},
		{"Garbage Issue", "Overflowing trash cans near the park entrance", "Garbage Dept"},
		{"Electricity Issue", "Streetlight has been flickering for a week", "Electricity Dept"},
		{"Public Works Issue", "A fallen tree is blocking the sidewalk", "Public Works Dept"},
		{"Case Insensitive", "POTHOLE on my street", "Road Dept"},
		{"No Match Falls Back", "Something strange is going on here", "Public Works Dept"},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			deptRepo := new(mockDeptRepo)
			dept := &domain.Department{ID: uuid.New(), Name: tc.department}
			deptRepo.On("FindOrCreateByName", ctx, tc.department).Return(dept, nil).Once()

			svc := classifier.NewService(deptRepo, "Public Works Dept")

			deptID, err := svc.Classify(ctx, tc.description)

			require.NoError(t, err)
			assert.Equal(t, dept.ID, deptID)
			deptRepo.AssertExpectations(t)
		})
	}

	t.Run("Repository Failure", func(t *testing.T) {
		deptRepo := new(mockDeptRepo)
		deptRepo.On("FindOrCreateByName", ctx, mock.Anything).Return(nil, assert.AnError).Once()

		svc := classifier.NewService(deptRepo, "Public Works Dept")

		deptID, err := svc.Classify(ctx, "pothole")

		assert.Error(t, err)
		assert.Equal(t, uuid.Nil, deptID)
	})
}
