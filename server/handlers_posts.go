package server

import (
	"net/http"

	"github.com/jrsteele09/go-social-frontend/comments"
	"github.com/jrsteele09/go-social-frontend/likes"
	"github.com/jrsteele09/go-social-frontend/posts"
)

// FeedHandler returns one page of the feed. Clients continue with the cursor
// of the previous page until it comes back null.
func (s *Server) FeedHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		cursor, err := queryInt(r, "cursor")
		if err != nil {
			writeError(w, err)
			return
		}
		limit, err := s.pageSize(r)
		if err != nil {
			writeError(w, err)
			return
		}

		page, err := posts.NewService(scopeFrom(r.Context()).client).List(r.Context(), limit, cursor)
		if err != nil {
			writeError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, page)
	}
}

func (s *Server) GetPostHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := pathID(r, "id")
		if err != nil {
			writeError(w, err)
			return
		}
		post, err := posts.NewService(scopeFrom(r.Context()).client).Get(r.Context(), id)
		if err != nil {
			writeError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, post)
	}
}

func (s *Server) CreatePostHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req posts.CreateRequest
		if err := decodeJSON(r, &req); err != nil {
			writeError(w, err)
			return
		}
		post, err := posts.NewService(scopeFrom(r.Context()).client).Create(r.Context(), req)
		if err != nil {
			writeError(w, err)
			return
		}
		writeJSON(w, http.StatusCreated, post)
	}
}

func (s *Server) UpdatePostHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := pathID(r, "id")
		if err != nil {
			writeError(w, err)
			return
		}
		var req posts.UpdateRequest
		if err := decodeJSON(r, &req); err != nil {
			writeError(w, err)
			return
		}
		post, err := posts.NewService(scopeFrom(r.Context()).client).Update(r.Context(), id, req)
		if err != nil {
			writeError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, post)
	}
}

func (s *Server) DeletePostHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := pathID(r, "id")
		if err != nil {
			writeError(w, err)
			return
		}
		if err := posts.NewService(scopeFrom(r.Context()).client).Delete(r.Context(), id); err != nil {
			writeError(w, err)
			return
		}
		w.WriteHeader(http.StatusNoContent)
	}
}

func (s *Server) ToggleLikeHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := pathID(r, "id")
		if err != nil {
			writeError(w, err)
			return
		}
		result, err := likes.NewService(scopeFrom(r.Context()).client).Toggle(r.Context(), id)
		if err != nil {
			writeError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, result)
	}
}

type commentForm struct {
	Content string `json:"content"`
}

func (s *Server) ListCommentsHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		postID, err := pathID(r, "id")
		if err != nil {
			writeError(w, err)
			return
		}
		cursor, err := queryInt(r, "cursor")
		if err != nil {
			writeError(w, err)
			return
		}
		limit, err := queryInt(r, "limit")
		if err != nil {
			writeError(w, err)
			return
		}

		n := comments.DefaultLimit
		if limit != nil && *limit > 0 {
			n = int(*limit)
		}
		page, err := comments.NewService(scopeFrom(r.Context()).client).List(r.Context(), postID, n, cursor)
		if err != nil {
			writeError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, page)
	}
}

func (s *Server) CreateCommentHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		postID, err := pathID(r, "id")
		if err != nil {
			writeError(w, err)
			return
		}
		var form commentForm
		if err := decodeJSON(r, &form); err != nil {
			writeError(w, err)
			return
		}
		comment, err := comments.NewService(scopeFrom(r.Context()).client).Create(r.Context(), postID, form.Content)
		if err != nil {
			writeError(w, err)
			return
		}
		writeJSON(w, http.StatusCreated, comment)
	}
}

func (s *Server) UpdateCommentHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := pathID(r, "id")
		if err != nil {
			writeError(w, err)
			return
		}
		var form commentForm
		if err := decodeJSON(r, &form); err != nil {
			writeError(w, err)
			return
		}
		comment, err := comments.NewService(scopeFrom(r.Context()).client).Update(r.Context(), id, form.Content)
		if err != nil {
			writeError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, comment)
	}
}

func (s *Server) DeleteCommentHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := pathID(r, "id")
		if err != nil {
			writeError(w, err)
			return
		}
		if err := comments.NewService(scopeFrom(r.Context()).client).Delete(r.Context(), id); err != nil {
			writeError(w, err)
			return
		}
		w.WriteHeader(http.StatusNoContent)
	}
}

func (s *Server) pageSize(r *http.Request) (int, error) {
	limit, err := queryInt(r, "limit")
	if err != nil {
		return 0, err
	}
	if limit == nil || *limit == 0 {
		return s.config.GetPageSize(), nil
	}
	return int(min(*limit, 100)), nil
}
