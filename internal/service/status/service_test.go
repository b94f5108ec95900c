package status_test

import (
	"context"
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"civicwatch/internal/domain"
	"civicwatch/internal/service/status"
)

type mockStatusRepo struct {
	mock.Mock
}

func (m *mockStatusRepo) Upsert(ctx context.Context, postID uuid.UUID, s domain.ComplaintStatus) (*domain.StatusRecord, error) {
	args := m.Called(ctx, postID, s)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.StatusRecord), args.Error(1)
}

func (m *mockStatusRepo) Get(ctx context.Context, postID uuid.UUID) (*domain.StatusRecord, error) {
	args := m.Called(ctx, postID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.StatusRecord), args.Error(1)
}

type mockPostRepo struct {
	mock.Mock
}

func (m *mockPostRepo) Create(ctx context.Context, post *domain.Post) error {
	return m.Called(ctx, post).Error(0)
}

func (m *mockPostRepo) GetByID(ctx context.Context, id uuid.UUID) (*domain.Post, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Post), args.Error(1)
}

func (m *mockPostRepo) List(ctx context.Context, departmentID *uuid.UUID, params domain.PaginationParams) ([]domain.Post, int64, error) {
	args := m.Called(ctx, departmentID, params)
	return args.Get(0).([]domain.Post), args.Get(1).(int64), args.Error(2)
}

func (m *mockPostRepo) Update(ctx context.Context, post *domain.Post) error {
	return m.Called(ctx, post).Error(0)
}

func (m *mockPostRepo) Delete(ctx context.Context, id uuid.UUID) error {
	return m.Called(ctx, id).Error(0)
}

type mockNotifier struct {
	mock.Mock
}

func (m *mockNotifier) Notify(ctx context.Context, userID uuid.UUID, notifType domain.NotificationType, message string, link *string) error {
	args := m.Called(ctx, userID, notifType, message, link)
	return args.Error(0)
}

const dashboardURL = "https://civicwatch.example/dashboard"

func TestStatusService_Set(t *testing.T) {
	ctx := context.Background()
	postID := uuid.New()
	reporterID := uuid.New()
	adminID := uuid.New()

	post := &domain.Post{
		ID:          postID,
		UserID:      reporterID,
		Description: "Streetlight out on Elm Street, very dark at night",
	}

	t.Run("Invalid Status", func(t *testing.T) {
		svc := status.NewService(new(mockStatusRepo), new(mockPostRepo), new(mockNotifier), dashboardURL)

		_, err := svc.Set(ctx, postID, domain.ComplaintStatus("Done"), adminID)

		assert.ErrorIs(t, err, status.ErrInvalidStatus)
	})

	t.Run("Post Not Found", func(t *testing.T) {
		postRepo := new(mockPostRepo)
		postRepo.On("GetByID", ctx, postID).Return(nil, nil).Once()

		svc := status.NewService(new(mockStatusRepo), postRepo, new(mockNotifier), dashboardURL)

		_, err := svc.Set(ctx, postID, domain.StatusResolved, adminID)

		assert.ErrorIs(t, err, status.ErrPostNotFound)
		postRepo.AssertExpectations(t)
	})

	t.Run("Admin Update Notifies Reporter", func(t *testing.T) {
		statusRepo := new(mockStatusRepo)
		postRepo := new(mockPostRepo)
		notifier := new(mockNotifier)

		record := &domain.StatusRecord{PostID: postID, Status: domain.StatusWorking}

		postRepo.On("GetByID", ctx, postID).Return(post, nil).Once()
		statusRepo.On("Upsert", ctx, postID, domain.StatusWorking).Return(record, nil).Once()
		notifier.On("Notify", ctx, reporterID, domain.NotifStatusUpdate, mock.MatchedBy(func(message string) bool {
			return strings.Contains(message, "Streetlight out on Elm St...") &&
				strings.Contains(message, string(domain.StatusWorking))
		}), mock.MatchedBy(func(link *string) bool {
			return link != nil && *link == dashboardURL
		})).Return(nil).Once()

		svc := status.NewService(statusRepo, postRepo, notifier, dashboardURL)

		got, err := svc.Set(ctx, postID, domain.StatusWorking, adminID)

		require.NoError(t, err)
		assert.Equal(t, record, got)
		statusRepo.AssertExpectations(t)
		notifier.AssertExpectations(t)
	})

	t.Run("Self Update Stays Silent", func(t *testing.T) {
		statusRepo := new(mockStatusRepo)
		postRepo := new(mockPostRepo)
		notifier := new(mockNotifier)

		record := &domain.StatusRecord{PostID: postID, Status: domain.StatusResolved}

		postRepo.On("GetByID", ctx, postID).Return(post, nil).Once()
		statusRepo.On("Upsert", ctx, postID, domain.StatusResolved).Return(record, nil).Once()

		svc := status.NewService(statusRepo, postRepo, notifier, dashboardURL)

		_, err := svc.Set(ctx, postID, domain.StatusResolved, reporterID)

		require.NoError(t, err)
		notifier.AssertNotCalled(t, "Notify", mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("Short Description Is Not Truncated", func(t *testing.T) {
		statusRepo := new(mockStatusRepo)
		postRepo := new(mockPostRepo)
		notifier := new(mockNotifier)

		shortPost := &domain.Post{ID: postID, UserID: reporterID, Description: "Pothole"}
		record := &domain.StatusRecord{PostID: postID, Status: domain.StatusIdentified}

		postRepo.On("GetByID", ctx, postID).Return(shortPost, nil).Once()
		statusRepo.On("Upsert", ctx, postID, domain.StatusIdentified).Return(record, nil).Once()
		notifier.On("Notify", ctx, reporterID, domain.NotifStatusUpdate, mock.MatchedBy(func(message string) bool {
			return strings.Contains(message, `"Pothole"`) && !strings.Contains(message, "...")
		}), mock.Anything).Return(nil).Once()

		svc := status.NewService(statusRepo, postRepo, notifier, dashboardURL)

		_, err := svc.Set(ctx, postID, domain.StatusIdentified, adminID)

		require.NoError(t, err)
		notifier.AssertExpectations(t)
	})

	t.Run("Notification Failure Does Not Fail The Update", func(t *testing.T) {
		statusRepo := new(mockStatusRepo)
		postRepo := new(mockPostRepo)
		notifier := new(mockNotifier)

		record := &domain.StatusRecord{PostID: postID, Status: domain.StatusResolved}

		postRepo.On("GetByID", ctx, postID).Return(post, nil).Once()
		statusRepo.On("Upsert", ctx, postID, domain.StatusResolved).Return(record, nil).Once()
		notifier.On("Notify", ctx, reporterID, domain.NotifStatusUpdate, mock.Anything, mock.Anything).
			Return(assert.AnError).Once()

		svc := status.NewService(statusRepo, postRepo, notifier, dashboardURL)

		got, err := svc.Set(ctx, postID, domain.StatusResolved, adminID)

		require.NoError(t, err)
		assert.Equal(t, record, got)
	})
}

func TestStatusService_Get(t *testing.T) {
	ctx := context.Background()
	postID := uuid.New()

	t.Run("Missing Row Defaults To Pending", func(t *testing.T) {
		statusRepo := new(mockStatusRepo)
		statusRepo.On("Get", ctx, postID).Return(nil, nil).Once()

		svc := status.NewService(statusRepo, new(mockPostRepo), new(mockNotifier), dashboardURL)

		record, err := svc.Get(ctx, postID)

		require.NoError(t, err)
		assert.Equal(t, domain.StatusPending, record.Status)
		assert.Equal(t, postID, record.PostID)
	})

	t.Run("Existing Row Is Returned", func(t *testing.T) {
		statusRepo := new(mockStatusRepo)
		record := &domain.StatusRecord{PostID: postID, Status: domain.StatusWorking}
		statusRepo.On("Get", ctx, postID).Return(record, nil).Once()

		svc := status.NewService(statusRepo, new(mockPostRepo), new(mockNotifier), dashboardURL)

		got, err := svc.Get(ctx, postID)

		require.NoError(t, err)
		assert.Equal(t, record, got)
	})
}
