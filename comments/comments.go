package comments

import (
	"time"

	"github.com/jrsteele09/go-social-frontend/users"
)

type Comment struct {
	ID        int64        `json:"id"`
	Content   string       `json:"content"`
	UserID    int64        `json:"userId"`
	PostID    int64        `json:"postId"`
	CreatedAt time.Time    `json:"createdAt"`
	User      users.Author `json:"user"`
}

type contentRequest struct {
	Content string `json:"content"`
}
