package post

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log"
	"net/url"
	"time"

	"github.com/google/uuid"
	"github.com/minio/minio-go/v7"

	"civicwatch/internal/config"
	"civicwatch/internal/domain"
	"civicwatch/internal/repository"
	"civicwatch/internal/service/classifier"
)

var (
	ErrNotFound         = errors.New("post not found")
	ErrForbidden        = errors.New("posts can only be changed by their owner")
	ErrMissingImage     = errors.New("report image is required")
	ErrEmptyDescription = errors.New("report description is required")
)

type Service interface {
	Create(ctx context.Context, userID uuid.UUID, input domain.CreatePostInput, fileName string, fileSize int64, mimeType string, image io.Reader) (*domain.Post, error)
	GetByID(ctx context.Context, id uuid.UUID) (*domain.Post, error)
	List(ctx context.Context, departmentID *uuid.UUID, params domain.PaginationParams) (domain.PaginatedResponse[domain.Post], error)
	Update(ctx context.Context, id, userID uuid.UUID, input domain.UpdatePostInput) (*domain.Post, error)
	Delete(ctx context.Context, id, userID uuid.UUID) error
}

type service struct {
	postRepo    repository.PostRepository
	classifier  classifier.Service
	minioClient *minio.Client
	cfg         *config.Config
}

func NewService(postRepo repository.PostRepository, classifierSvc classifier.Service, minioClient *minio.Client, cfg *config.Config) Service {
	return &service{
		postRepo:    postRepo,
		classifier:  classifierSvc,
		minioClient: minioClient,
		cfg:         cfg,
	}
}

func (s *service) Create(ctx context.Context, userID uuid.UUID, input domain.CreatePostInput, fileName string, fileSize int64, mimeType string, image io.Reader) (*domain.Post, error) {
	if input.Description == "" {
		return nil, ErrEmptyDescription
	}
	if image == nil {
		return nil, ErrMissingImage
	}

	location, err := domain.ParseLocation(input.Location)
	if err != nil {
		return nil, err
	}

	postID := uuid.New()
	storagePath := fmt.Sprintf("reports/%s/%s", time.Now().Format("2006/01"), postID.String())

	_, err = s.minioClient.PutObject(ctx, s.cfg.MinIOBucket, storagePath, image, fileSize, minio.PutObjectOptions{
		ContentType: mimeType,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to store report image: %w", err)
	}

	post := &domain.Post{
		ID:          postID,
		UserID:      userID,
		ImageURL:    s.publicURL(storagePath),
		Description: input.Description,
	}
	if location != nil {
		post.Latitude = &location.Latitude
		post.Longitude = &location.Longitude
	}

	// Best effort: an unclassifiable report still gets filed, just without
	// a department until triage picks it up.
	if deptID, err := s.classifier.Classify(ctx, input.Description); err == nil {
		post.DepartmentID = &deptID
	} else {
		log.Printf("post: classification failed for %s: %v", postID, err)
	}

	if err := s.postRepo.Create(ctx, post); err != nil {
		_ = s.minioClient.RemoveObject(ctx, s.cfg.MinIOBucket, storagePath, minio.RemoveObjectOptions{})
		return nil, err
	}

	return post, nil
}

func (s *service) GetByID(ctx context.Context, id uuid.UUID) (*domain.Post, error) {
	post, err := s.postRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if post == nil {
		return nil, ErrNotFound
	}
	return post, nil
}

func (s *service) List(ctx context.Context, departmentID *uuid.UUID, params domain.PaginationParams) (domain.PaginatedResponse[domain.Post], error) {
	posts, total, err := s.postRepo.List(ctx, departmentID, params)
	if err != nil {
		return domain.PaginatedResponse[domain.Post]{}, err
	}
	return domain.NewPaginatedResponse(posts, params.Page, params.PageSize, total), nil
}

func (s *service) Update(ctx context.Context, id, userID uuid.UUID, input domain.UpdatePostInput) (*domain.Post, error) {
	post, err := s.postRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if post == nil {
		return nil, ErrNotFound
	}
	if post.UserID != userID {
		return nil, ErrForbidden
	}

	if input.Description != nil {
		if *input.Description == "" {
			return nil, ErrEmptyDescription
		}
		post.Description = *input.Description
	}
	if len(input.Location) > 0 {
		location, err := domain.ParseLocation(input.Location)
		if err != nil {
			return nil, err
		}
		if location != nil {
			post.Latitude = &location.Latitude
			post.Longitude = &location.Longitude
		}
	}

	if err := s.postRepo.Update(ctx, post); err != nil {
		return nil, err
	}
	return post, nil
}

func (s *service) Delete(ctx context.Context, id, userID uuid.UUID) error {
	post, err := s.postRepo.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if post == nil {
		return ErrNotFound
	}
	if post.UserID != userID {
		return ErrForbidden
	}

	if err := s.postRepo.Delete(ctx, id); err != nil {
		return err
	}

	// The DB row is gone; an orphaned object is acceptable.
	if path, ok := s.storagePathFromURL(post.ImageURL); ok {
		_ = s.minioClient.RemoveObject(ctx, s.cfg.MinIOBucket, path, minio.RemoveObjectOptions{})
	}

	return nil
}

func (s *service) publicURL(storagePath string) string {
	scheme := "http"
	if s.cfg.MinIOPublicUseSSL {
		scheme = "https"
	}
	return fmt.Sprintf("%s://%s/%s/%s", scheme, s.cfg.MinIOPublicEndpoint, s.cfg.MinIOBucket, url.PathEscape(storagePath))
}

func (s *service) storagePathFromURL(imageURL string) (string, bool) {
	parsed, err := url.Parse(imageURL)
	if err != nil {
		return "", false
	}
	prefix := "/" + s.cfg.MinIOBucket + "/"
	if len(parsed.Path) <= len(prefix) {
		return "", false
	}
	path, err := url.PathUnescape(parsed.Path[len(prefix):])
	if err != nil {
		return "", false
	}
	return path, true
}
