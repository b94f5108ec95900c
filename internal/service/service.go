package service

import (
	"github.com/minio/minio-go/v7"
	"github.com/redis/go-redis/v9"

	"civicwatch/internal/config"
	"civicwatch/internal/realtime"
	"civicwatch/internal/repository"
	"civicwatch/internal/service/auth"
	"civicwatch/internal/service/classifier"
	"civicwatch/internal/service/dashboard"
	"civicwatch/internal/service/department"
	"civicwatch/internal/service/email"
	"civicwatch/internal/service/notification"
	"civicwatch/internal/service/post"
	"civicwatch/internal/service/social"
	"civicwatch/internal/service/status"
	"civicwatch/internal/service/user"
)

type Services struct {
	Auth         auth.Service
	User         user.Service
	Department   department.Service
	Classifier   classifier.Service
	Post         post.Service
	Status       status.Service
	Social       social.Service
	Notification notification.Service
	Dashboard    dashboard.Service
	Email        email.Service
}

func NewServices(repos *repository.Repositories, rdb *redis.Client, minioClient *minio.Client, hub *realtime.Hub, cfg *config.Config) *Services {
	emailSvc := email.NewService(cfg.ResendAPIKey, cfg.FromEmail)
	notificationSvc := notification.NewService(repos.Notification, repos.User, hub, emailSvc)
	classifierSvc := classifier.NewService(repos.Department, cfg.DefaultDepartment)

	return &Services{
		Auth:         auth.NewService(repos.User, repos.Session, cfg),
		User:         user.NewService(repos.User),
		Department:   department.NewService(repos.Department),
		Classifier:   classifierSvc,
		Post:         post.NewService(repos.Post, classifierSvc, minioClient, cfg),
		Status:       status.NewService(repos.Status, repos.Post, notificationSvc, cfg.DashboardURL),
		Social:       social.NewService(repos.Post, repos.Comment, repos.Like, hub, rdb),
		Notification: notificationSvc,
		Dashboard:    dashboard.NewService(repos.Stats, rdb),
		Email:        emailSvc,
	}
}
