package posts

import (
	"context"
	"fmt"
	"net/url"
	"strconv"

	"github.com/jrsteele09/go-social-frontend/apiclient"
	apperrors "github.com/jrsteele09/go-social-frontend/internal/errors"
	"github.com/jrsteele09/go-social-frontend/paginator"
)

const endpointPosts = "/api/posts"

const DefaultLimit = 20

type Service struct {
	client *apiclient.Client
}

func NewService(client *apiclient.Client) *Service {
	return &Service{client: client}
}

// List returns up to limit posts after cursor. A nil cursor starts at the top
// of the feed.
func (s *Service) List(ctx context.Context, limit int, cursor *int64) (paginator.Page[Post], error) {
	if limit <= 0 {
		limit = DefaultLimit
	}
	q := url.Values{"limit": {strconv.Itoa(limit)}}
	if cursor != nil {
		q.Set("cursor", strconv.FormatInt(*cursor, 10))
	}

	resp, err := apiclient.Get[paginator.Paginated[Post]](ctx, s.client, endpointPosts, apiclient.WithQuery(q))
	if err != nil {
		return paginator.Page[Post]{}, fmt.Errorf("list posts: %w", err)
	}
	return resp.Page(), nil
}

// Feed returns a paginator continuing from first.
func (s *Service) Feed(first paginator.Page[Post], limit int) *paginator.Paginator[Post] {
	return paginator.FromPage(first, func(ctx context.Context, cursor int64) (paginator.Page[Post], error) {
		return s.List(ctx, limit, &cursor)
	})
}

func (s *Service) Get(ctx context.Context, id int64) (*Post, error) {
	p, err := apiclient.Get[Post](ctx, s.client, postPath(id))
	if err != nil {
		return nil, fmt.Errorf("get post %d: %w", id, err)
	}
	return &p, nil
}

func (s *Service) Create(ctx context.Context, req CreateRequest) (*Post, error) {
	if req.Title == "" && req.Content == "" {
		return nil, apperrors.Wrapf(apperrors.ErrInvalidRequest, "post needs a title or content")
	}
	p, err := apiclient.Post[Post](ctx, s.client, endpointPosts, req)
	if err != nil {
		return nil, fmt.Errorf("create post: %w", err)
	}
	return &p, nil
}

func (s *Service) Update(ctx context.Context, id int64, req UpdateRequest) (*Post, error) {
	p, err := apiclient.Put[Post](ctx, s.client, postPath(id), req)
	if err != nil {
		return nil, fmt.Errorf("update post %d: %w", id, err)
	}
	return &p, nil
}

func (s *Service) Delete(ctx context.Context, id int64) error {
	if _, err := apiclient.Delete[apiclient.Empty](ctx, s.client, postPath(id)); err != nil {
		return fmt.Errorf("delete post %d: %w", id, err)
	}
	return nil
}

func postPath(id int64) string {
	return fmt.Sprintf("%s/%d", endpointPosts, id)
}
