package domain

import "time"

type Like struct {
	UserID    int64
	PostID    int64
	CreatedAt time.Time
}

type LikeAction string

const (
	LikeAdded   LikeAction = "added"
	LikeRemoved LikeAction = "removed"
)

type ToggleResult struct {
	Action     LikeAction
	LikesCount int
}
