// Package social handles likes and comments and keeps every connected
// map-feed client in sync. Like broadcasts always carry the full like-set,
// never a delta, so a client that misses events is corrected by the next
// one it sees.
package social

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"

	"civicwatch/internal/domain"
	"civicwatch/internal/repository"
)

var (
	ErrPostNotFound    = errors.New("post not found")
	ErrCommentNotFound = errors.New("comment not found")
	ErrForbidden       = errors.New("comments can only be changed by their author")
	ErrEmptyContent    = errors.New("comment content is required")
)

const commentCacheTTL = 5 * time.Minute

type Service interface {
	Like(ctx context.Context, postID, userID uuid.UUID) (*domain.LikeResult, error)
	Unlike(ctx context.Context, postID, userID uuid.UUID) (*domain.LikeResult, error)

	CreateComment(ctx context.Context, postID, userID uuid.UUID, input domain.CreateCommentInput) (*domain.Comment, error)
	UpdateComment(ctx context.Context, commentID, userID uuid.UUID, input domain.UpdateCommentInput) (*domain.Comment, error)
	DeleteComment(ctx context.Context, commentID, userID uuid.UUID) error
	ListComments(ctx context.Context, postID uuid.UUID, params domain.PaginationParams) (domain.PaginatedResponse[domain.Comment], error)
}

// Gateway is the broadcast side of the realtime hub. Likes and comments are
// public, so every event here goes to all connected clients.
type Gateway interface {
	Broadcast(event domain.Event)
}

type service struct {
	postRepo    repository.PostRepository
	commentRepo repository.CommentRepository
	likeRepo    repository.LikeRepository
	gateway     Gateway
	redis       *redis.Client

	// One lock per post serializes mutate -> recompute -> broadcast, so the
	// last broadcast for a post always matches its final persisted like-set.
	postLocks sync.Map
}

func NewService(postRepo repository.PostRepository, commentRepo repository.CommentRepository, likeRepo repository.LikeRepository, gateway Gateway, rdb *redis.Client) Service {
	return &service{
		postRepo:    postRepo,
		commentRepo: commentRepo,
		likeRepo:    likeRepo,
		gateway:     gateway,
		redis:       rdb,
	}
}

func (s *service) Like(ctx context.Context, postID, userID uuid.UUID) (*domain.LikeResult, error) {
	return s.toggleLike(ctx, postID, userID, true)
}

func (s *service) Unlike(ctx context.Context, postID, userID uuid.UUID) (*domain.LikeResult, error) {
	return s.toggleLike(ctx, postID, userID, false)
}

func (s *service) toggleLike(ctx context.Context, postID, userID uuid.UUID, like bool) (*domain.LikeResult, error) {
	post, err := s.postRepo.GetByID(ctx, postID)
	if err != nil {
		return nil, err
	}
	if post == nil {
		return nil, ErrPostNotFound
	}

	unlock := s.lockPost(postID)
	defer unlock()

	if like {
		err = s.likeRepo.Insert(ctx, postID, userID)
	} else {
		err = s.likeRepo.Delete(ctx, postID, userID)
	}
	if err != nil {
		return nil, err
	}

	likers, err := s.likeRepo.ListByPost(ctx, postID)
	if err != nil {
		return nil, err
	}

	eventName := domain.EventPostLiked
	message := "Post liked successfully"
	if !like {
		eventName = domain.EventPostUnliked
		message = "Post unliked successfully"
	}

	if s.gateway != nil {
		s.gateway.Broadcast(domain.Event{
			Event: eventName,
			Data:  domain.LikeEventData{PostID: postID, Likes: likers},
		})
	}

	// The acting client gets the set directly; it need not wait for its own
	// broadcast to come back around.
	return &domain.LikeResult{Message: message, Likes: likers}, nil
}

func (s *service) CreateComment(ctx context.Context, postID, userID uuid.UUID, input domain.CreateCommentInput) (*domain.Comment, error) {
	content := strings.TrimSpace(input.Content)
	if content == "" {
		return nil, ErrEmptyContent
	}

	post, err := s.postRepo.GetByID(ctx, postID)
	if err != nil {
		return nil, err
	}
	if post == nil {
		return nil, ErrPostNotFound
	}

	comment := &domain.Comment{
		ID:      uuid.New(),
		PostID:  postID,
		UserID:  userID,
		Content: content,
	}

	if err := s.commentRepo.Create(ctx, comment); err != nil {
		return nil, err
	}

	full, err := s.commentRepo.GetWithAuthor(ctx, comment.ID)
	if err != nil || full == nil {
		// Broadcast without the author rather than fail a committed create.
		full = comment
	}

	s.invalidateCommentCache(ctx, postID)
	s.broadcastComment(domain.EventCommentCreated, postID, full)

	return full, nil
}

func (s *service) UpdateComment(ctx context.Context, commentID, userID uuid.UUID, input domain.UpdateCommentInput) (*domain.Comment, error) {
	content := strings.TrimSpace(input.Content)
	if content == "" {
		return nil, ErrEmptyContent
	}

	comment, err := s.commentRepo.GetByID(ctx, commentID)
	if err != nil {
		return nil, err
	}
	if comment == nil {
		return nil, ErrCommentNotFound
	}
	if comment.UserID != userID {
		return nil, ErrForbidden
	}

	comment.Content = content
	if err := s.commentRepo.Update(ctx, comment); err != nil {
		return nil, err
	}

	full, err := s.commentRepo.GetWithAuthor(ctx, commentID)
	if err != nil || full == nil {
		full = comment
	}

	s.invalidateCommentCache(ctx, comment.PostID)
	s.broadcastComment(domain.EventCommentUpdated, comment.PostID, full)

	return full, nil
}

func (s *service) DeleteComment(ctx context.Context, commentID, userID uuid.UUID) error {
	comment, err := s.commentRepo.GetByID(ctx, commentID)
	if err != nil {
		return err
	}
	if comment == nil {
		return ErrCommentNotFound
	}
	if comment.UserID != userID {
		return ErrForbidden
	}

	if err := s.commentRepo.Delete(ctx, commentID); err != nil {
		return err
	}

	s.invalidateCommentCache(ctx, comment.PostID)
	if s.gateway != nil {
		s.gateway.Broadcast(domain.Event{
			Event: domain.EventCommentDeleted,
			Data:  domain.CommentDeletedEventData{PostID: comment.PostID, CommentID: commentID},
		})
	}

	return nil
}

func (s *service) ListComments(ctx context.Context, postID uuid.UUID, params domain.PaginationParams) (domain.PaginatedResponse[domain.Comment], error) {
	params.Validate()
	cacheKey := fmt.Sprintf("comments:%s:page:%d:size:%d", postID, params.Page, params.PageSize)

	if s.redis != nil {
		if cached, err := s.redis.Get(ctx, cacheKey).Result(); err == nil {
			var result domain.PaginatedResponse[domain.Comment]
			if json.Unmarshal([]byte(cached), &result) == nil {
				return result, nil
			}
		}
	}

	comments, total, err := s.commentRepo.ListByPost(ctx, postID, params)
	if err != nil {
		return domain.PaginatedResponse[domain.Comment]{}, err
	}

	result := domain.NewPaginatedResponse(comments, params.Page, params.PageSize, total)

	if s.redis != nil {
		if resultJSON, err := json.Marshal(result); err == nil {
			_ = s.redis.Set(ctx, cacheKey, resultJSON, commentCacheTTL).Err()
		}
	}

	return result, nil
}

func (s *service) broadcastComment(eventName string, postID uuid.UUID, comment *domain.Comment) {
	if s.gateway == nil {
		return
	}
	s.gateway.Broadcast(domain.Event{
		Event: eventName,
		Data:  domain.CommentEventData{PostID: postID, Comment: comment},
	})
}

func (s *service) invalidateCommentCache(ctx context.Context, postID uuid.UUID) {
	if s.redis == nil {
		return
	}
	pattern := fmt.Sprintf("comments:%s:*", postID)
	keys, _ := s.redis.Keys(ctx, pattern).Result()
	if len(keys) > 0 {
		_ = s.redis.Del(ctx, keys...).Err()
	}
}

func (s *service) lockPost(postID uuid.UUID) func() {
	value, _ := s.postLocks.LoadOrStore(postID, &sync.Mutex{})
	mu := value.(*sync.Mutex)
	mu.Lock()
	return mu.Unlock
}
