package repository

import (
	"github.com/jmoiron/sqlx"
)

type Repositories struct {
	User         UserRepository
	Department   DepartmentRepository
	Post         PostRepository
	Status       StatusRepository
	Comment      CommentRepository
	Like         LikeRepository
	Notification NotificationRepository
	Session      SessionRepository
	Stats        StatsRepository
}

func NewRepositories(db *sqlx.DB) *Repositories {
	return &Repositories{
		User:         NewUserRepository(db),
		Department:   NewDepartmentRepository(db),
		Post:         NewPostRepository(db),
		Status:       NewStatusRepository(db),
		Comment:      NewCommentRepository(db),
		Like:         NewLikeRepository(db),
		Notification: NewNotificationRepository(db),
		Session:      NewSessionRepository(db),
		Stats:        NewStatsRepository(db),
	}
}
