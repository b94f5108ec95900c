package domain

import "github.com/google/uuid"

// Event is one realtime message as it goes over the wire.
type Event struct {
	Event string      `json:"event"`
	Data  interface{} `json:"data"`
}

const (
	EventPostLiked       = "postLiked"
	EventPostUnliked     = "postUnliked"
	EventCommentCreated  = "commentCreated"
	EventCommentUpdated  = "commentUpdated"
	EventCommentDeleted  = "commentDeleted"
	EventNewNotification = "new_notification"

	// Client to server.
	EventJoinRoom = "join_room"
)

type LikeEventData struct {
	PostID uuid.UUID  `json:"postId"`
	Likes  []LikeUser `json:"likes"`
}

type CommentEventData struct {
	PostID  uuid.UUID `json:"postId"`
	Comment *Comment  `json:"comment"`
}

type CommentDeletedEventData struct {
	PostID    uuid.UUID `json:"postId"`
	CommentID uuid.UUID `json:"commentId"`
}

type JoinRoomData struct {
	UserID uuid.UUID `json:"userId"`
}
