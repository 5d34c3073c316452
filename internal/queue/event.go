// Package queue defines message payloads exchanged over the message broker.
package queue

// SemesterJoinedEvent is published when a user successfully joins a semester
// through the password flow. It contains enough information for downstream
// consumers to log, notify, or trigger analytics without querying the
// primary database.
type SemesterJoinedEvent struct {
	SemesterID   string `json:"semester_id"`
	SemesterName string `json:"semester_name"`
	UserID       string `json:"user_id"`
	UserEmail    string `json:"user_email"`
	Role         string `json:"role"`
	InvitedBy    string `json:"invited_by"`
	JoinedAt     string `json:"joined_at"`
}
