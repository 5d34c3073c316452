package model

import (
	"errors"
	"fmt"
	"time"
)

// PostType tags the three wall entry variants.  Every post is exactly one of
// text, image or event; the optional columns in the `posts` table are only
// populated for the variant that owns them.
type PostType string

const (
	PostText  PostType = "text"
	PostImage PostType = "image"
	PostEvent PostType = "event"
)

// DefaultAuthor is used when a post is submitted without an author name.
const DefaultAuthor = "Anonymous"

// MaxImageBytes caps the inline-encoded image payload of an image post.
// Larger images must be referenced by URL instead.
const MaxImageBytes = 1 << 20

// ErrValidation is wrapped by every post shape error so callers can match
// the whole class with errors.Is.
var ErrValidation = errors.New("validation failed")

// Post is a single wall entry.  It mirrors the `posts` table.
//
// Fields:
//  Seq        – auto-increment insertion counter; breaks created_at ties
//               when the wall is ordered.
//  ID         – uuid primary identifier.
//  SemesterID – semester the post belongs to.
//  Type       – PostText, PostImage or PostEvent.
//  Content    – body text of the post.
//  Author     – display name, DefaultAuthor when omitted.
//  ImageData  – inline-encoded image (image posts only, exclusive with ImageURL).
//  ImageURL   – remote image location (image posts only, exclusive with ImageData).
//  EventTitle – title of the event (event posts only).
//  EventDate  – date of the event (event posts only).
//  ColorTag   – display color chosen by the author.
//  CreatedAt  – server-assigned creation timestamp.
//  UpdatedAt  – refreshed on every update.
type Post struct {
	Seq        uint64    `json:"-"`
	ID         string    `json:"id"`
	SemesterID string    `json:"semesterId"`
	Type       PostType  `json:"type"`
	Content    string    `json:"content"`
	Author     string    `json:"author"`
	ImageData  string    `json:"imageData,omitempty"`
	ImageURL   string    `json:"imageUrl,omitempty"`
	EventTitle string    `json:"eventTitle,omitempty"`
	EventDate  string    `json:"eventDate,omitempty"`
	ColorTag   string    `json:"colorTag,omitempty"`
	CreatedAt  time.Time `json:"createdAt"`
	UpdatedAt  time.Time `json:"updatedAt"`
}

// PostUpdate carries the merge-patch fields of a post update.  A nil field
// means "leave unchanged".  Type, images and the semester binding are fixed
// at creation and cannot be patched.
type PostUpdate struct {
	Content    *string `json:"content"`
	Author     *string `json:"author"`
	ColorTag   *string `json:"colorTag"`
	EventTitle *string `json:"eventTitle"`
	EventDate  *string `json:"eventDate"`
}

// Validate enforces the per-type shape rules before a post reaches the
// store:
//   - the type must be one of the three known variants
//   - event posts need both a title and a date
//   - image posts need exactly one image source, and inline data may not
//     exceed MaxImageBytes
// The store itself does not re-validate; callers must reject invalid posts
// here.
func (p *Post) Validate() error {
	switch p.Type {
	case PostText:
		if p.Content == "" {
			return fmt.Errorf("%w: text post requires content", ErrValidation)
		}
	case PostImage:
		hasData := p.ImageData != ""
		hasURL := p.ImageURL != ""
		if hasData == hasURL {
			return fmt.Errorf("%w: image post requires exactly one of inline data or url", ErrValidation)
		}
		if hasData && len(p.ImageData) > MaxImageBytes {
			return fmt.Errorf("%w: image payload exceeds %d bytes", ErrValidation, MaxImageBytes)
		}
	case PostEvent:
		if p.EventTitle == "" || p.EventDate == "" {
			return fmt.Errorf("%w: event post requires title and date", ErrValidation)
		}
	default:
		return fmt.Errorf("%w: unknown post type %q", ErrValidation, p.Type)
	}
	if p.SemesterID == "" {
		return fmt.Errorf("%w: post requires a semester id", ErrValidation)
	}
	return nil
}
