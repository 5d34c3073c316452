package service

import (
	"context"
	"sort"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/iliyamo/semester-scrapbook/internal/model"
	"github.com/iliyamo/semester-scrapbook/internal/repository"
)

type fakePosts struct {
	byID map[string]model.Post
}

func newFakePosts() *fakePosts {
	return &fakePosts{byID: make(map[string]model.Post)}
}

func (f *fakePosts) Create(_ context.Context, p *model.Post) error {
	f.byID[p.ID] = *p
	return nil
}

func (f *fakePosts) Get(_ context.Context, id string) (model.Post, error) {
	p, ok := f.byID[id]
	if !ok {
		return model.Post{}, repository.ErrNotFound
	}
	return p, nil
}

func (f *fakePosts) ListBySemester(_ context.Context, semesterID string) ([]model.Post, error) {
	var out []model.Post
	for _, p := range f.byID {
		if p.SemesterID == semesterID {
			out = append(out, p)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (f *fakePosts) Delete(_ context.Context, id string) error {
	if _, ok := f.byID[id]; !ok {
		return repository.ErrNotFound
	}
	delete(f.byID, id)
	return nil
}

func (f *fakePosts) Update(_ context.Context, id string, upd model.PostUpdate) error {
	p, ok := f.byID[id]
	if !ok {
		return repository.ErrNotFound
	}
	if upd.Content != nil {
		p.Content = *upd.Content
	}
	if upd.Author != nil {
		p.Author = *upd.Author
	}
	if upd.ColorTag != nil {
		p.ColorTag = *upd.ColorTag
	}
	if upd.EventTitle != nil {
		p.EventTitle = *upd.EventTitle
	}
	if upd.EventDate != nil {
		p.EventDate = *upd.EventDate
	}
	f.byID[id] = p
	return nil
}

type fakeWall struct {
	invalidated []string
}

func (f *fakeWall) Invalidate(_ context.Context, semesterID string) {
	f.invalidated = append(f.invalidated, semesterID)
}

func TestPostAdd(t *testing.T) {
	posts := newFakePosts()
	wall := &fakeWall{}
	svc := NewPostService(posts, wall)

	p, err := svc.Add(context.Background(), "sem-1", PostInput{
		Type:    model.PostText,
		Content: "first day of class",
		Author:  "  Dana  ",
	})
	require.NoError(t, err)

	assert.NotEmpty(t, p.ID)
	assert.Equal(t, "sem-1", p.SemesterID)
	assert.Equal(t, "Dana", p.Author)
	assert.Equal(t, []string{"sem-1"}, wall.invalidated)
}

func TestPostAddDefaultsAuthor(t *testing.T) {
	svc := NewPostService(newFakePosts(), &fakeWall{})

	p, err := svc.Add(context.Background(), "sem-1", PostInput{
		Type:    model.PostText,
		Content: "anonymous note",
		Author:  "   ",
	})
	require.NoError(t, err)
	assert.Equal(t, model.DefaultAuthor, p.Author)
}

func TestPostAddRejectsInvalidShape(t *testing.T) {
	posts := newFakePosts()
	wall := &fakeWall{}
	svc := NewPostService(posts, wall)

	_, err := svc.Add(context.Background(), "sem-1", PostInput{Type: model.PostEvent, EventTitle: "Exam"})
	assert.ErrorIs(t, err, model.ErrValidation)

	// nothing stored, nobody notified
	assert.Empty(t, posts.byID)
	assert.Empty(t, wall.invalidated)
}

func TestPostRemove(t *testing.T) {
	posts := newFakePosts()
	wall := &fakeWall{}
	svc := NewPostService(posts, wall)

	p, err := svc.Add(context.Background(), "sem-1", PostInput{Type: model.PostText, Content: "bye"})
	require.NoError(t, err)

	require.NoError(t, svc.Remove(context.Background(), p.ID))
	assert.Empty(t, posts.byID)
	assert.Equal(t, []string{"sem-1", "sem-1"}, wall.invalidated)

	assert.ErrorIs(t, svc.Remove(context.Background(), p.ID), repository.ErrNotFound)
}

func TestPostUpdate(t *testing.T) {
	posts := newFakePosts()
	wall := &fakeWall{}
	svc := NewPostService(posts, wall)

	p, err := svc.Add(context.Background(), "sem-1", PostInput{Type: model.PostText, Content: "draft"})
	require.NoError(t, err)

	content := "final"
	color := "teal"
	got, err := svc.Update(context.Background(), p.ID, model.PostUpdate{Content: &content, ColorTag: &color})
	require.NoError(t, err)

	assert.Equal(t, "final", got.Content)
	assert.Equal(t, "teal", got.ColorTag)
	assert.Equal(t, model.DefaultAuthor, got.Author)

	_, err = svc.Update(context.Background(), "missing", model.PostUpdate{Content: &content})
	assert.ErrorIs(t, err, repository.ErrNotFound)
}
