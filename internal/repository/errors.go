// Package repository defines error types that are reused across multiple
// repositories. These sentinel values allow higher layers such as
// services and handlers to distinguish between different failure
// scenarios. For example, ErrNotFound indicates that a semester or
// access record is absent, while ErrInvalidCredentials signals a
// password mismatch during the join flow.
package repository

import "errors"

// ErrNotFound is returned when a requested semester, post or access
// record does not exist. Handlers should translate this into an HTTP
// 404 response.
var ErrNotFound = errors.New("not found")

// ErrInvalidCredentials is returned when a supplied password does not
// match the stored one. Handlers should translate this into an HTTP
// 401 response. The caller may retry; no lockout is applied at this
// layer.
var ErrInvalidCredentials = errors.New("invalid credentials")

// ErrForbidden is returned when the caller attempts an operation on a
// semester they have not joined. Handlers should translate this into
// an HTTP 403 response.
var ErrForbidden = errors.New("forbidden")
