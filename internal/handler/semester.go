package handler // handler package contains semester directory and access handlers

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/semester-scrapbook/internal/repository"
	"github.com/iliyamo/semester-scrapbook/internal/service"
)

// SemesterHandler bundles the directory, access and user dependencies for
// all semester endpoints.
type SemesterHandler struct {
	Semesters *service.SemesterService
	Access    *service.AccessService
	Users     *repository.UserRepo
	Origin    string // public origin for invitation links
}

func NewSemesterHandler(sems *service.SemesterService, acc *service.AccessService, users *repository.UserRepo, origin string) *SemesterHandler {
	return &SemesterHandler{Semesters: sems, Access: acc, Users: users, Origin: origin}
}

type createSemesterReq struct {
	Name        string `json:"name"`
	Description string `json:"description"`
	Password    string `json:"password"`
}

type joinReq struct {
	Password string `json:"password"`
}

// semesterResp is the member-facing view of a semester; the password never
// leaves the server.
type semesterResp struct {
	ID                  string    `json:"id"`
	Name                string    `json:"name"`
	Description         string    `json:"description"`
	CreatorID           string    `json:"creatorId"`
	IsPasswordProtected bool      `json:"isPasswordProtected"`
	CreatedAt           time.Time `json:"createdAt"`
	UserRole            string    `json:"userRole,omitempty"`
}

// Create handles POST /v1/semesters: allocate a semester and grant the
// caller creator access in one transaction.
func (h *SemesterHandler) Create(c echo.Context) error {
	uid, err := getUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	var req createSemesterReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	u, err := h.Users.GetByID(ctx, uid)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "db error"})
	}
	sem, err := h.Semesters.Create(ctx, service.CreateSemesterInput{
		Name:        req.Name,
		Description: req.Description,
		Password:    req.Password,
	}, uid, u.Email)
	if err != nil {
		if errors.Is(err, service.ErrInvalidArgument) {
			return c.JSON(http.StatusBadRequest, echo.Map{"error": err.Error()})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "create semester failed"})
	}
	return c.JSON(http.StatusCreated, semesterResp{
		ID:                  sem.ID,
		Name:                sem.Name,
		Description:         sem.Description,
		CreatorID:           sem.CreatorID,
		IsPasswordProtected: sem.IsPasswordProtected,
		CreatedAt:           sem.CreatedAt,
		UserRole:            "creator",
	})
}

// Get handles GET /v1/semesters/:id: metadata plus the caller's role, only
// for users who have joined.
func (h *SemesterHandler) Get(c echo.Context) error {
	uid, err := getUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	data, err := h.Access.GetSemesterData(ctx, c.Param("id"), uid)
	if err != nil {
		switch err {
		case repository.ErrForbidden:
			return c.JSON(http.StatusForbidden, echo.Map{"error": "access denied"})
		case repository.ErrNotFound:
			return c.JSON(http.StatusNotFound, echo.Map{"error": "semester not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "db error"})
	}
	sem := data.Semester
	return c.JSON(http.StatusOK, semesterResp{
		ID:                  sem.ID,
		Name:                sem.Name,
		Description:         sem.Description,
		CreatorID:           sem.CreatorID,
		IsPasswordProtected: sem.IsPasswordProtected,
		CreatedAt:           sem.CreatedAt,
		UserRole:            data.UserRole,
	})
}

// Mine handles GET /v1/semesters: the caller's membership list.
func (h *SemesterHandler) Mine(c echo.Context) error {
	uid, err := getUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	memberships, err := h.Access.ListMembership(ctx, uid)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "db error"})
	}
	return c.JSON(http.StatusOK, echo.Map{"memberships": memberships})
}

// Join handles POST /v1/semesters/:id/join: the password-check flow.
// Joining twice is success both times; the message tells the cases apart.
func (h *SemesterHandler) Join(c echo.Context) error {
	uid, err := getUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	var req joinReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	u, err := h.Users.GetByID(ctx, uid)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "db error"})
	}
	res, err := h.Access.VerifyAndJoin(ctx, c.Param("id"), req.Password, uid, u.Email)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "semester not found"})
		}
		if errors.Is(err, repository.ErrInvalidCredentials) {
			return c.JSON(http.StatusUnauthorized, echo.Map{"error": "incorrect password"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "join failed"})
	}
	return c.JSON(http.StatusOK, res)
}

// Members handles GET /v1/semesters/:id/members, restricted to members.
func (h *SemesterHandler) Members(c echo.Context) error {
	uid, err := getUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	members, err := h.Access.ListMembers(ctx, c.Param("id"), uid)
	if err != nil {
		if errors.Is(err, repository.ErrForbidden) {
			return c.JSON(http.StatusForbidden, echo.Map{"error": "access denied"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "db error"})
	}
	return c.JSON(http.StatusOK, echo.Map{"members": members})
}

// Invite handles GET /v1/semesters/:id/invite: a shareable link for a
// semester the caller has joined.
func (h *SemesterHandler) Invite(c echo.Context) error {
	uid, err := getUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	semesterID := c.Param("id")
	if _, err := h.Access.GetSemesterData(ctx, semesterID, uid); err != nil {
		if errors.Is(err, repository.ErrForbidden) {
			return c.JSON(http.StatusForbidden, echo.Map{"error": "access denied"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "db error"})
	}
	inv, err := h.Semesters.Invite(ctx, h.Origin, semesterID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "semester not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "invite failed"})
	}
	return c.JSON(http.StatusOK, inv)
}

// Info handles GET /api/semester-info/:id, the public preview shown before
// password entry. Exposes name, description, member count and creation
// time only.
func (h *SemesterHandler) Info(c echo.Context) error {
	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	info, err := h.Semesters.Info(ctx, c.Param("id"))
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "semester not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "db error"})
	}
	return c.JSON(http.StatusOK, info)
}

// InviteLanding handles GET /invite/:id. It resolves the invite path the
// same way the link builder produced it and forwards to the public preview.
func (h *SemesterHandler) InviteLanding(c echo.Context) error {
	id, ok := service.MatchInvite(c.Request().URL.Path)
	if !ok {
		return c.JSON(http.StatusNotFound, echo.Map{"error": "invalid invite link"})
	}
	return c.Redirect(http.StatusFound, "/api/semester-info/"+id)
}
