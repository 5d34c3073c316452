package router // package router defines how HTTP routes are registered for the API

import (
	"github.com/labstack/echo/v4" // import the Echo web framework to handle routing

	"github.com/iliyamo/semester-scrapbook/internal/handler"    // import the handlers that implement business logic
	"github.com/iliyamo/semester-scrapbook/internal/middleware" // import middleware for JWT authentication and role enforcement
)

// RegisterRoutes registers routes that do not require authentication on the
// provided Echo instance.  Currently it exposes only a health check.
func RegisterRoutes(e *echo.Echo) {
	// Used by load balancers and monitoring to verify the service is up.
	e.GET("/healthz", handler.Health)
}

// RegisterAuth registers all authentication‑related routes and applies the
// necessary middleware.  Unauthenticated operations live under /v1/auth,
// while protected endpoints live under /v1.  The optional limit middleware
// guards the credential endpoints against brute forcing.
func RegisterAuth(e *echo.Echo, a *handler.AuthHandler, jwtSecret string, limit echo.MiddlewareFunc) {
	g := e.Group("/v1/auth")
	if limit != nil {
		g.Use(limit)
	}
	g.POST("/register", a.Register)
	g.POST("/login", a.Login)
	g.POST("/refresh", a.Refresh)
	g.POST("/logout", a.Logout)
	g.POST("/reset-password", a.ResetPassword)
	g.POST("/reset-password/confirm", a.ConfirmReset)

	// Routes that require a valid access token live under /v1.  All
	// handlers registered on this group execute JWTAuth first; RequireRole
	// then rejects tokens with missing or unknown role claims.
	auth := e.Group("/v1")
	auth.Use(middleware.JWTAuth(jwtSecret))
	auth.Use(middleware.RequireRole("MEMBER"))
	auth.GET("/me", a.Me)
}

// RegisterSemesters registers the semester directory, access and invite
// endpoints.  The public preview endpoints take no middleware at all so an
// invited guest can inspect a semester before signing up.
func RegisterSemesters(e *echo.Echo, h *handler.SemesterHandler, jwtSecret string) {
	// Public join preview, consumed by invite landing pages.
	e.GET("/api/semester-info/:id", h.Info)
	// Invitation links resolve through the same preview.
	e.GET("/invite/:id", h.InviteLanding)

	auth := e.Group("/v1")
	auth.Use(middleware.JWTAuth(jwtSecret))
	auth.Use(middleware.RequireRole("MEMBER"))
	auth.POST("/semesters", h.Create)
	auth.GET("/semesters", h.Mine)
	auth.GET("/semesters/:id", h.Get)
	auth.POST("/semesters/:id/join", h.Join)
	auth.GET("/semesters/:id/members", h.Members)
	auth.GET("/semesters/:id/invite", h.Invite)
}

// RegisterPosts registers the post wall endpoints, including the live SSE
// stream.  The optional limit middleware applies to the write operations
// only; reads and the stream stay unthrottled.
func RegisterPosts(e *echo.Echo, h *handler.PostHandler, jwtSecret string, limit echo.MiddlewareFunc) {
	auth := e.Group("/v1")
	auth.Use(middleware.JWTAuth(jwtSecret))
	auth.Use(middleware.RequireRole("MEMBER"))

	auth.GET("/semesters/:id/posts", h.List)
	auth.GET("/semesters/:id/posts/stream", h.Stream)

	write := auth.Group("")
	if limit != nil {
		write.Use(limit)
	}
	write.POST("/semesters/:id/posts", h.Create)
	write.DELETE("/posts/:id", h.Delete)
	write.PATCH("/posts/:id", h.Update)
}
