package service

import (
	"errors"
	"fmt"
	"strings"
)

// ErrInvalidArgument is returned when an operation receives input it cannot
// work with, such as an empty semester id for an invitation link.
var ErrInvalidArgument = errors.New("invalid argument")

// invitePrefix is the path prefix the invite route matcher recognizes.
// Invitation URLs have the form <origin>/invite/<semesterID>.
const invitePrefix = "/invite/"

// Invitation is a shareable invite produced by BuildInvite: the raw URL and
// a ready-to-send message embedding it.
type Invitation struct {
	URL     string `json:"url"`
	Message string `json:"message"`
}

// BuildInvite produces a shareable invitation for a semester. It is a pure
// function: no side effects, and the only failure mode is malformed input.
func BuildInvite(origin, semesterID, semesterName string) (Invitation, error) {
	if strings.TrimSpace(semesterID) == "" {
		return Invitation{}, fmt.Errorf("%w: empty semester id", ErrInvalidArgument)
	}
	if strings.TrimSpace(origin) == "" {
		return Invitation{}, fmt.Errorf("%w: empty origin", ErrInvalidArgument)
	}
	url := strings.TrimRight(origin, "/") + invitePrefix + semesterID
	return Invitation{
		URL:     url,
		Message: fmt.Sprintf("You're invited to join %q semester! Click the link to join: %s", semesterName, url),
	}, nil
}

// MatchInvite extracts the semester id from an invite URL path. It reports
// false for anything that is not exactly "/invite/<id>".
func MatchInvite(path string) (string, bool) {
	if !strings.HasPrefix(path, invitePrefix) {
		return "", false
	}
	id := strings.TrimPrefix(path, invitePrefix)
	if id == "" || strings.Contains(id, "/") {
		return "", false
	}
	return id, true
}
