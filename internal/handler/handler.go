package handler

import (
	"civicwatch/internal/realtime"
	"civicwatch/internal/service"
)

type Handlers struct {
	Auth         *AuthHandler
	User         *UserHandler
	Post         *PostHandler
	Comment      *CommentHandler
	Status       *StatusHandler
	Notification *NotificationHandler
	Department   *DepartmentHandler
	Dashboard    *DashboardHandler
	WS           *WSHandler
}

func NewHandlers(services *service.Services, hub *realtime.Hub) *Handlers {
	return &Handlers{
		Auth:         NewAuthHandler(services.Auth),
		User:         NewUserHandler(services.User),
		Post:         NewPostHandler(services.Post, services.Social),
		Comment:      NewCommentHandler(services.Social),
		Status:       NewStatusHandler(services.Status),
		Notification: NewNotificationHandler(services.Notification),
		Department:   NewDepartmentHandler(services.Department),
		Dashboard:    NewDashboardHandler(services.Dashboard),
		WS:           NewWSHandler(hub, services.Auth),
	}
}
