package notifications

import (
	"context"
	"fmt"
	"net/url"
	"strconv"
	"time"

	"github.com/jrsteele09/go-social-frontend/apiclient"
	"github.com/jrsteele09/go-social-frontend/users"
)

type Type string

const (
	TypeLike       Type = "like"
	TypeComment    Type = "comment"
	TypeFollow     Type = "follow"
	TypeSubscribed Type = "subscribed"
)

type PostRef struct {
	ID    int64  `json:"id"`
	Title string `json:"title"`
}

type Notification struct {
	ID        string       `json:"id"`
	Type      Type         `json:"type"`
	UserID    int64        `json:"userId"`
	ActorID   int64        `json:"actorId"`
	PostID    *int64       `json:"postId,omitempty"`
	CreatedAt time.Time    `json:"createdAt"`
	Actor     users.Author `json:"actor"`
	Post      *PostRef     `json:"post,omitempty"`
}

const DefaultLimit = 20

type Service struct {
	client *apiclient.Client
}

func NewService(client *apiclient.Client) *Service {
	return &Service{client: client}
}

type listResponse struct {
	Data []Notification `json:"data"`
}

// List returns the newest notifications of the authenticated user.
func (s *Service) List(ctx context.Context, limit int) ([]Notification, error) {
	if limit <= 0 {
		limit = DefaultLimit
	}
	q := url.Values{"limit": {strconv.Itoa(limit)}}
	resp, err := apiclient.Get[listResponse](ctx, s.client, "/api/notifications", apiclient.WithQuery(q))
	if err != nil {
		return nil, fmt.Errorf("list notifications: %w", err)
	}
	if resp.Data == nil {
		return []Notification{}, nil
	}
	return resp.Data, nil
}
