package social_test

import (
	"context"
	"sync"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"civicwatch/internal/domain"
	"civicwatch/internal/service/social"
)

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

type mockCommentRepo struct {
	mock.Mock
}

func (m *mockCommentRepo) Create(ctx context.Context, comment *domain.Comment) error {
	return m.Called(ctx, comment).Error(0)
}

func (m *mockCommentRepo) GetByID(ctx context.Context, id uuid.UUID) (*domain.Comment, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Comment), args.Error(1)
}

func (m *mockCommentRepo) GetWithAuthor(ctx context.Context, id uuid.UUID) (*domain.Comment, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Comment), args.Error(1)
}

func (m *mockCommentRepo) Update(ctx context.Context, comment *domain.Comment) error {
	return m.Called(ctx, comment).Error(0)
}

func (m *mockCommentRepo) Delete(ctx context.Context, id uuid.UUID) error {
	return m.Called(ctx, id).Error(0)
}

func (m *mockCommentRepo) ListByPost(ctx context.Context, postID uuid.UUID, params domain.PaginationParams) ([]domain.Comment, int64, error) {
	args := m.Called(ctx, postID, params)
	return args.Get(0).([]domain.Comment), args.Get(1).(int64), args.Error(2)
}

// fakeLikeRepo keeps real like-set state so concurrent toggles behave like
// the ON CONFLICT queries they stand in for.
type fakeLikeRepo struct {
	mu    sync.Mutex
	likes map[uuid.UUID]map[uuid.UUID]struct{}
}

func newFakeLikeRepo() *fakeLikeRepo {
	return &fakeLikeRepo{likes: make(map[uuid.UUID]map[uuid.UUID]struct{})}
}

func (f *fakeLikeRepo) Insert(_ context.Context, postID, userID uuid.UUID) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.likes[postID] == nil {
		f.likes[postID] = make(map[uuid.UUID]struct{})
	}
	f.likes[postID][userID] = struct{}{}
	return nil
}

func (f *fakeLikeRepo) Delete(_ context.Context, postID, userID uuid.UUID) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	delete(f.likes[postID], userID)
	return nil
}

func (f *fakeLikeRepo) ListByPost(_ context.Context, postID uuid.UUID) ([]domain.LikeUser, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	users := make([]domain.LikeUser, 0, len(f.likes[postID]))
	for userID := range f.likes[postID] {
		users = append(users, domain.LikeUser{ID: userID})
	}
	return users, nil
}

// recordingGateway captures broadcasts in order.
type recordingGateway struct {
	mu     sync.Mutex
	events []domain.Event
}

func (g *recordingGateway) Broadcast(event domain.Event) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.events = append(g.events, event)
}

func (g *recordingGateway) all() []domain.Event {
	g.mu.Lock()
	defer g.mu.Unlock()
	return append([]domain.Event(nil), g.events...)
}

func TestSocialService_Like(t *testing.T) {
	ctx := context.Background()
	postID := uuid.New()
	userID := uuid.New()
	post := &domain.Post{ID: postID, UserID: uuid.New()}

	t.Run("Post Not Found", func(t *testing.T) {
		postRepo := new(mockPostRepo)
		postRepo.On("GetByID", ctx, postID).Return(nil, nil).Once()

		svc := social.NewService(postRepo, new(mockCommentRepo), newFakeLikeRepo(), &recordingGateway{}, nil)

		_, err := svc.Like(ctx, postID, userID)

		assert.ErrorIs(t, err, social.ErrPostNotFound)
	})

	t.Run("Like Broadcasts Full Set", func(t *testing.T) {
		postRepo := new(mockPostRepo)
		postRepo.On("GetByID", ctx, postID).Return(post, nil)

		gateway := &recordingGateway{}
		svc := social.NewService(postRepo, new(mockCommentRepo), newFakeLikeRepo(), gateway, nil)

		result, err := svc.Like(ctx, postID, userID)

		require.NoError(t, err)
		require.Len(t, result.Likes, 1)
		assert.Equal(t, userID, result.Likes[0].ID)

		events := gateway.all()
		require.Len(t, events, 1)
		assert.Equal(t, domain.EventPostLiked, events[0].Event)
		data := events[0].Data.(domain.LikeEventData)
		assert.Equal(t, postID, data.PostID)
		assert.Len(t, data.Likes, 1)
	})

	t.Run("Repeated Like Is Idempotent", func(t *testing.T) {
		postRepo := new(mockPostRepo)
		postRepo.On("GetByID", ctx, postID).Return(post, nil)

		svc := social.NewService(postRepo, new(mockCommentRepo), newFakeLikeRepo(), &recordingGateway{}, nil)

		first, err := svc.Like(ctx, postID, userID)
		require.NoError(t, err)
		second, err := svc.Like(ctx, postID, userID)
		require.NoError(t, err)

		assert.Len(t, first.Likes, 1)
		assert.Len(t, second.Likes, 1)
	})

	t.Run("Unlike Of Absent Like Succeeds Empty", func(t *testing.T) {
		postRepo := new(mockPostRepo)
		postRepo.On("GetByID", ctx, postID).Return(post, nil)

		gateway := &recordingGateway{}
		svc := social.NewService(postRepo, new(mockCommentRepo), newFakeLikeRepo(), gateway, nil)

		result, err := svc.Unlike(ctx, postID, userID)

		require.NoError(t, err)
		assert.Empty(t, result.Likes)

		events := gateway.all()
		require.Len(t, events, 1)
		assert.Equal(t, domain.EventPostUnliked, events[0].Event)
	})

	t.Run("Last Broadcast Matches Final Set Under Contention", func(t *testing.T) {
		postRepo := new(mockPostRepo)
		postRepo.On("GetByID", mock.Anything, postID).Return(post, nil)

		likeRepo := newFakeLikeRepo()
		gateway := &recordingGateway{}
		svc := social.NewService(postRepo, new(mockCommentRepo), likeRepo, gateway, nil)

		const workers = 16
		var wg sync.WaitGroup
		wg.Add(workers)
		for i := 0; i < workers; i++ {
			go func(i int) {
				defer wg.Done()
				actor := uuid.New()
				if _, err := svc.Like(ctx, postID, actor); err != nil {
					t.Error(err)
				}
				if i%2 == 0 {
					if _, err := svc.Unlike(ctx, postID, actor); err != nil {
						t.Error(err)
					}
				}
			}(i)
		}
		wg.Wait()

		final, err := likeRepo.ListByPost(ctx, postID)
		require.NoError(t, err)

		events := gateway.all()
		require.NotEmpty(t, events)
		last := events[len(events)-1].Data.(domain.LikeEventData)
		assert.Len(t, last.Likes, len(final))
	})
}

func TestSocialService_Comments(t *testing.T) {
	ctx := context.Background()
	postID := uuid.New()
	userID := uuid.New()
	post := &domain.Post{ID: postID, UserID: uuid.New()}

	t.Run("Create Broadcasts Full Comment", func(t *testing.T) {
		postRepo := new(mockPostRepo)
		commentRepo := new(mockCommentRepo)
		gateway := &recordingGateway{}

		postRepo.On("GetByID", ctx, postID).Return(post, nil).Once()
		commentRepo.On("Create", ctx, mock.MatchedBy(func(c *domain.Comment) bool {
			return c.PostID == postID && c.UserID == userID && c.Content == "Big pothole here"
		})).Return(nil).Once()

		withAuthor := &domain.Comment{
			PostID:  postID,
			UserID:  userID,
			Content: "Big pothole here",
			User:    &domain.CommentUser{ID: userID, Name: "Ada"},
		}
		commentRepo.On("GetWithAuthor", ctx, mock.AnythingOfType("uuid.UUID")).Return(withAuthor, nil).Once()

		svc := social.NewService(postRepo, commentRepo, newFakeLikeRepo(), gateway, nil)

		created, err := svc.CreateComment(ctx, postID, userID, domain.CreateCommentInput{Content: "  Big pothole here  "})

		require.NoError(t, err)
		require.NotNil(t, created.User)
		assert.Equal(t, "Ada", created.User.Name)

		events := gateway.all()
		require.Len(t, events, 1)
		assert.Equal(t, domain.EventCommentCreated, events[0].Event)
		data := events[0].Data.(domain.CommentEventData)
		assert.Equal(t, postID, data.PostID)
		require.NotNil(t, data.Comment.User)
		commentRepo.AssertExpectations(t)
	})

	t.Run("Empty Content Rejected", func(t *testing.T) {
		svc := social.NewService(new(mockPostRepo), new(mockCommentRepo), newFakeLikeRepo(), &recordingGateway{}, nil)

		_, err := svc.CreateComment(ctx, postID, userID, domain.CreateCommentInput{Content: "   "})

		assert.ErrorIs(t, err, social.ErrEmptyContent)
	})

	t.Run("Update By Non Author Forbidden", func(t *testing.T) {
		commentID := uuid.New()
		commentRepo := new(mockCommentRepo)
		commentRepo.On("GetByID", ctx, commentID).Return(&domain.Comment{
			ID:     commentID,
			PostID: postID,
			UserID: uuid.New(),
		}, nil).Once()

		svc := social.NewService(new(mockPostRepo), commentRepo, newFakeLikeRepo(), &recordingGateway{}, nil)

		_, err := svc.UpdateComment(ctx, commentID, userID, domain.UpdateCommentInput{Content: "edited"})

		assert.ErrorIs(t, err, social.ErrForbidden)
	})

	t.Run("Delete Broadcasts Tombstone", func(t *testing.T) {
		commentID := uuid.New()
		commentRepo := new(mockCommentRepo)
		gateway := &recordingGateway{}

		commentRepo.On("GetByID", ctx, commentID).Return(&domain.Comment{
			ID:     commentID,
			PostID: postID,
			UserID: userID,
		}, nil).Once()
		commentRepo.On("Delete", ctx, commentID).Return(nil).Once()

		svc := social.NewService(new(mockPostRepo), commentRepo, newFakeLikeRepo(), gateway, nil)

		err := svc.DeleteComment(ctx, commentID, userID)

		require.NoError(t, err)
		events := gateway.all()
		require.Len(t, events, 1)
		assert.Equal(t, domain.EventCommentDeleted, events[0].Event)
		data := events[0].Data.(domain.CommentDeletedEventData)
		assert.Equal(t, commentID, data.CommentID)
		assert.Equal(t, postID, data.PostID)
	})

	t.Run("Delete Missing Comment", func(t *testing.T) {
		commentID := uuid.New()
		commentRepo := new(mockCommentRepo)
		commentRepo.On("GetByID", ctx, commentID).Return(nil, nil).Once()

		svc := social.NewService(new(mockPostRepo), commentRepo, newFakeLikeRepo(), &recordingGateway{}, nil)

		err := svc.DeleteComment(ctx, commentID, userID)

		assert.ErrorIs(t, err, social.ErrCommentNotFound)
	})
}
