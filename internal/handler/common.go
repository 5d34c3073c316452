package handler

import (
	"errors"

	"github.com/labstack/echo/v4"
)

// getUserID pulls the authenticated user's uuid out of the context, where
// the JWT middleware stored it under "user_id".
func getUserID(c echo.Context) (string, error) {
	if s, ok := c.Get("user_id").(string); ok && s != "" {
		return s, nil
	}
	return "", errors.New("no user in context")
}
