package handler // handler package contains post wall handlers

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/semester-scrapbook/internal/model"
	"github.com/iliyamo/semester-scrapbook/internal/repository"
	"github.com/iliyamo/semester-scrapbook/internal/service"
	"github.com/iliyamo/semester-scrapbook/internal/stream"
)

// PostHandler bundles the wall service, the live hub and the access checks
// for post endpoints.
type PostHandler struct {
	Posts  *service.PostService
	Hub    *stream.Hub
	Access *service.AccessService
}

func NewPostHandler(posts *service.PostService, hub *stream.Hub, access *service.AccessService) *PostHandler {
	return &PostHandler{Posts: posts, Hub: hub, Access: access}
}

// requireMember writes the failure response and reports false unless the
// caller has joined the semester.
func (h *PostHandler) requireMember(c echo.Context, ctx context.Context, semesterID string) (string, bool) {
	uid, err := getUserID(c)
	if err != nil {
		_ = c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
		return "", false
	}
	if _, err := h.Access.GetSemesterData(ctx, semesterID, uid); err != nil {
		if errors.Is(err, repository.ErrForbidden) {
			_ = c.JSON(http.StatusForbidden, echo.Map{"error": "access denied"})
		} else {
			_ = c.JSON(http.StatusInternalServerError, echo.Map{"error": "db error"})
		}
		return "", false
	}
	return uid, true
}

// Create handles POST /v1/semesters/:id/posts.
func (h *PostHandler) Create(c echo.Context) error {
	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	semesterID := c.Param("id")
	if _, ok := h.requireMember(c, ctx, semesterID); !ok {
		return nil
	}
	var in service.PostInput
	if err := c.Bind(&in); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}

	p, err := h.Posts.Add(ctx, semesterID, in)
	if err != nil {
		if errors.Is(err, model.ErrValidation) {
			return c.JSON(http.StatusBadRequest, echo.Map{"error": err.Error()})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "create post failed"})
	}
	return c.JSON(http.StatusCreated, p)
}

// List handles GET /v1/semesters/:id/posts: the current wall snapshot,
// newest first.
func (h *PostHandler) List(c echo.Context) error {
	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	semesterID := c.Param("id")
	if _, ok := h.requireMember(c, ctx, semesterID); !ok {
		return nil
	}
	posts, err := h.Posts.List(ctx, semesterID)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "db error"})
	}
	if posts == nil {
		posts = []model.Post{}
	}
	return c.JSON(http.StatusOK, echo.Map{"posts": posts})
}

// Delete handles DELETE /v1/posts/:id. Any authenticated user can delete
// any post; the data layer enforces no author check.
func (h *PostHandler) Delete(c echo.Context) error {
	if _, err := getUserID(c); err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	if err := h.Posts.Remove(ctx, c.Param("id")); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "post not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "delete post failed"})
	}
	return c.NoContent(http.StatusNoContent)
}

// Update handles PATCH /v1/posts/:id with a partial field merge.
func (h *PostHandler) Update(c echo.Context) error {
	if _, err := getUserID(c); err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	var upd model.PostUpdate
	if err := c.Bind(&upd); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	p, err := h.Posts.Update(ctx, c.Param("id"), upd)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "post not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "update post failed"})
	}
	return c.JSON(http.StatusOK, p)
}

// Stream handles GET /v1/semesters/:id/posts/stream. It serves the wall as
// server-sent events: one full snapshot immediately, then one per change.
// The subscription is released when the client disconnects.
func (h *PostHandler) Stream(c echo.Context) error {
	checkCtx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	semesterID := c.Param("id")
	_, ok := h.requireMember(c, checkCtx, semesterID)
	cancel()
	if !ok {
		return nil
	}

	ctx := c.Request().Context()
	snapshots, unsubscribe, subErr := h.Hub.Subscribe(ctx, semesterID)
	if subErr != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "subscribe failed"})
	}
	defer unsubscribe()

	resp := c.Response()
	resp.Header().Set(echo.HeaderContentType, "text/event-stream")
	resp.Header().Set(echo.HeaderCacheControl, "no-cache")
	resp.Header().Set("Connection", "keep-alive")
	resp.WriteHeader(http.StatusOK)

	for {
		select {
		case <-ctx.Done():
			return nil
		case snap, ok := <-snapshots:
			if !ok {
				return nil
			}
			if snap == nil {
				snap = []model.Post{}
			}
			body, err := json.Marshal(snap)
			if err != nil {
				continue
			}
			if _, err := fmt.Fprintf(resp, "event: posts\ndata: %s\n\n", body); err != nil {
				return nil
			}
			resp.Flush()
		}
	}
}
