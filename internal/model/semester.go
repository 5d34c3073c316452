package model

import "time"

// Semester is a named, password-protected collaborative space containing
// posts.  It mirrors the `semesters` table.  A semester is created once by
// its creator and is immutable afterwards; no edit or delete operation
// exists for it.
//
// Fields:
//  ID                  – uuid primary key, assigned at creation, never reused.
//  Name                – display name (e.g. "Fall 2024").
//  Description         – free-form description shown on the join preview.
//  Password            – join password, stored as provided and compared
//                        verbatim on join.
//  CreatorID           – user who created the semester.
//  IsPasswordProtected – always true for semesters created through the API.
//  CreatedAt           – creation timestamp.
type Semester struct {
	ID                  string    // semesters.id
	Name                string    // semesters.name
	Description         string    // semesters.description
	Password            string    // semesters.password
	CreatorID           string    // semesters.creator_id
	IsPasswordProtected bool      // semesters.is_password_protected
	CreatedAt           time.Time // semesters.created_at
}

// SemesterInfo is the public preview of a semester returned before password
// entry.  It intentionally omits the password and creator.
type SemesterInfo struct {
	Name        string    `json:"name"`
	Description string    `json:"description"`
	MemberCount int       `json:"memberCount"`
	CreatedAt   time.Time `json:"createdAt"`
}
