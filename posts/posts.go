package posts

import (
	"time"

	"github.com/jrsteele09/go-social-frontend/users"
)

type Post struct {
	ID        int64        `json:"id"`
	ParentID  *int64       `json:"parentId,omitempty"`
	Title     string       `json:"title"`
	Content   string       `json:"content"`
	Image     *string      `json:"image"`
	Likes     int          `json:"likes"`
	Comments  int          `json:"comments"`
	Shares    int          `json:"shares"`
	LikedByMe bool         `json:"likedByMe,omitempty"`
	User      users.Author `json:"user"`
	CreatedAt time.Time    `json:"createdAt"`
	UpdatedAt time.Time    `json:"updatedAt"`
}

type CreateRequest struct {
	Title    string  `json:"title"`
	Content  string  `json:"content"`
	Image    *string `json:"image,omitempty"`
	ParentID *int64  `json:"parentId,omitempty"`
}

// UpdateRequest only sends the fields that are set.
type UpdateRequest struct {
	Title   *string `json:"title,omitempty"`
	Content *string `json:"content,omitempty"`
	Image   *string `json:"image,omitempty"`
}
