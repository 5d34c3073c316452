package service

import (
	"context"
	"strings"

	"github.com/google/uuid"

	"github.com/iliyamo/semester-scrapbook/internal/model"
)

// PostStore persists wall posts. Satisfied by repository.PostRepo.
type PostStore interface {
	Create(ctx context.Context, p *model.Post) error
	Get(ctx context.Context, id string) (model.Post, error)
	ListBySemester(ctx context.Context, semesterID string) ([]model.Post, error)
	Delete(ctx context.Context, id string) error
	Update(ctx context.Context, id string, upd model.PostUpdate) error
}

// WallNotifier is told after every mutation so live subscribers receive a
// fresh snapshot. Satisfied by stream.Hub.
type WallNotifier interface {
	Invalidate(ctx context.Context, semesterID string)
}

// PostInput is the user-supplied shape of a new wall entry.
type PostInput struct {
	Type       model.PostType `json:"type"`
	Content    string         `json:"content"`
	Author     string         `json:"author"`
	ImageData  string         `json:"imageData"`
	ImageURL   string         `json:"imageUrl"`
	EventTitle string         `json:"eventTitle"`
	EventDate  string         `json:"eventDate"`
	ColorTag   string         `json:"colorTag"`
}

// PostService owns the post wall: validation, persistence and change
// notification. Deletion is deliberately unrestricted beyond
// authentication; the store performs no author check (tracked as an open
// product question, not an oversight of this layer).
type PostService struct {
	Posts PostStore
	Wall  WallNotifier
	NewID func() string
}

func NewPostService(posts PostStore, wall WallNotifier) *PostService {
	return &PostService{Posts: posts, Wall: wall, NewID: uuid.NewString}
}

// Add validates the input against its variant's shape rules, fills in
// defaults, persists the post and notifies the wall. The returned post
// carries the generated id and server timestamps.
func (s *PostService) Add(ctx context.Context, semesterID string, in PostInput) (model.Post, error) {
	p := model.Post{
		ID:         s.NewID(),
		SemesterID: semesterID,
		Type:       in.Type,
		Content:    in.Content,
		Author:     strings.TrimSpace(in.Author),
		ImageData:  in.ImageData,
		ImageURL:   in.ImageURL,
		EventTitle: in.EventTitle,
		EventDate:  in.EventDate,
		ColorTag:   in.ColorTag,
	}
	if p.Author == "" {
		p.Author = model.DefaultAuthor
	}
	if err := p.Validate(); err != nil {
		return model.Post{}, err
	}
	if err := s.Posts.Create(ctx, &p); err != nil {
		return model.Post{}, err
	}
	s.Wall.Invalidate(ctx, p.SemesterID)
	return p, nil
}

// List returns the semester's wall, newest first.
func (s *PostService) List(ctx context.Context, semesterID string) ([]model.Post, error) {
	return s.Posts.ListBySemester(ctx, semesterID)
}

// Remove deletes a post by id and notifies the wall it belonged to.
func (s *PostService) Remove(ctx context.Context, postID string) error {
	p, err := s.Posts.Get(ctx, postID)
	if err != nil {
		return err
	}
	if err := s.Posts.Delete(ctx, postID); err != nil {
		return err
	}
	s.Wall.Invalidate(ctx, p.SemesterID)
	return nil
}

// Update merges the given fields into a post, refreshes its updated
// timestamp and notifies the wall.
func (s *PostService) Update(ctx context.Context, postID string, upd model.PostUpdate) (model.Post, error) {
	if err := s.Posts.Update(ctx, postID, upd); err != nil {
		return model.Post{}, err
	}
	p, err := s.Posts.Get(ctx, postID)
	if err != nil {
		return model.Post{}, err
	}
	s.Wall.Invalidate(ctx, p.SemesterID)
	return p, nil
}
