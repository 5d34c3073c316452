package middleware

// identity.go defines helper functions shared across middleware files.
// currentUserID pulls the user id stored by JWTAuth out of the Echo context;
// the rate limiter uses it to key buckets per user.

import "github.com/labstack/echo/v4"

// currentUserID extracts a user identifier from context. It returns "anon"
// when no user is authenticated.
func currentUserID(c echo.Context) string {
	if v := c.Get("user_id"); v != nil {
		if s, ok := v.(string); ok && s != "" {
			return s
		}
	}
	return "anon"
}
