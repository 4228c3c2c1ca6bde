package comments

import (
	"context"
	"fmt"
	"net/url"
	"strconv"
	"strings"

	"github.com/jrsteele09/go-social-frontend/apiclient"
	apperrors "github.com/jrsteele09/go-social-frontend/internal/errors"
	"github.com/jrsteele09/go-social-frontend/paginator"
)

const (
	endpointComments = "/api/comments"
	DefaultLimit     = 50
)

type Service struct {
	client *apiclient.Client
}

func NewService(client *apiclient.Client) *Service {
	return &Service{client: client}
}

func (s *Service) List(ctx context.Context, postID int64, limit int, cursor *int64) (paginator.Page[Comment], error) {
	if limit <= 0 {
		limit = DefaultLimit
	}
	q := url.Values{"limit": {strconv.Itoa(limit)}}
	if cursor != nil {
		q.Set("cursor", strconv.FormatInt(*cursor, 10))
	}

	path := fmt.Sprintf("%s/%d", endpointComments, postID)
	resp, err := apiclient.Get[paginator.Paginated[Comment]](ctx, s.client, path, apiclient.WithQuery(q))
	if err != nil {
		return paginator.Page[Comment]{}, fmt.Errorf("list comments for post %d: %w", postID, err)
	}
	return resp.Page(), nil
}

// Thread returns a paginator over the comments of postID continuing from first.
func (s *Service) Thread(postID int64, first paginator.Page[Comment], limit int) *paginator.Paginator[Comment] {
	return paginator.FromPage(first, func(ctx context.Context, cursor int64) (paginator.Page[Comment], error) {
		return s.List(ctx, postID, limit, &cursor)
	})
}

func (s *Service) Create(ctx context.Context, postID int64, content string) (*Comment, error) {
	content, err := validContent(content)
	if err != nil {
		return nil, err
	}
	path := fmt.Sprintf("%s/%d", endpointComments, postID)
	c, err := apiclient.Post[Comment](ctx, s.client, path, contentRequest{Content: content})
	if err != nil {
		return nil, fmt.Errorf("create comment on post %d: %w", postID, err)
	}
	return &c, nil
}

func (s *Service) Update(ctx context.Context, id int64, content string) (*Comment, error) {
	content, err := validContent(content)
	if err != nil {
		return nil, err
	}
	c, err := apiclient.Put[Comment](ctx, s.client, commentPath(id), contentRequest{Content: content})
	if err != nil {
		return nil, fmt.Errorf("update comment %d: %w", id, err)
	}
	return &c, nil
}

func (s *Service) Delete(ctx context.Context, id int64) error {
	if _, err := apiclient.Delete[apiclient.Empty](ctx, s.client, commentPath(id)); err != nil {
		return fmt.Errorf("delete comment %d: %w", id, err)
	}
	return nil
}

func commentPath(id int64) string {
	return fmt.Sprintf("%s/comment/%d", endpointComments, id)
}

func validContent(content string) (string, error) {
	content = strings.TrimSpace(content)
	if content == "" {
		return "", apperrors.Wrapf(apperrors.ErrInvalidRequest, "comment content is required")
	}
	return content, nil
}
