package model

import "time"

// Roles a user can hold inside a semester.  The creator role is granted
// exactly once when the semester is created; everyone who joins through the
// password flow becomes a member.
const (
	RoleCreator = "creator"
	RoleMember  = "member"
)

// JoinAction is the only action recorded in the join audit trail.
const JoinAction = "joined"

// AccessRecord is proof that a user has joined a given semester.  It mirrors
// the `semester_access` table.  Records are keyed by the composite
// "<semesterID>_<userID>" string so at most one record can exist per pair;
// they are never mutated or deleted.
//
// Fields:
//  ID         – composite key "<semesterID>_<userID>".
//  SemesterID – semester the record grants access to.
//  UserID     – user holding the access.
//  UserEmail  – denormalized email of the user at join time.
//  Role       – RoleCreator or RoleMember.
//  InvitedBy  – creator of the semester for members, self for creators.
//  JoinedAt   – when access was granted.
type AccessRecord struct {
	ID         string    // semester_access.id
	SemesterID string    // semester_access.semester_id
	UserID     string    // semester_access.user_id
	UserEmail  string    // semester_access.user_email
	Role       string    // semester_access.role
	InvitedBy  string    // semester_access.invited_by
	JoinedAt   time.Time // semester_access.joined_at
}

// AccessKey builds the composite key under which an AccessRecord is stored.
func AccessKey(semesterID, userID string) string {
	return semesterID + "_" + userID
}

// JoinLogEntry is an append-only audit record of a successful join.  It
// mirrors the `semester_logs` table and is written once, never read back by
// the application.
type JoinLogEntry struct {
	ID         uint64    // semester_logs.id
	SemesterID string    // semester_logs.semester_id
	UserID     string    // semester_logs.user_id
	UserEmail  string    // semester_logs.user_email
	Action     string    // semester_logs.action (always "joined")
	CreatedAt  time.Time // semester_logs.created_at
}
