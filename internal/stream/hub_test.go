package stream

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/iliyamo/semester-scrapbook/internal/model"
)

// fakeLister serves a mutable wall snapshot, newest first, the way the post
// repository orders it.
type fakeLister struct {
	mu    sync.Mutex
	walls map[string][]model.Post
	err   error
}

func newFakeLister() *fakeLister {
	return &fakeLister{walls: make(map[string][]model.Post)}
}

func (f *fakeLister) ListBySemester(_ context.Context, semesterID string) ([]model.Post, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return nil, f.err
	}
	wall := f.walls[semesterID]
	out := make([]model.Post, len(wall))
	copy(out, wall)
	return out, nil
}

func (f *fakeLister) prepend(semesterID string, p model.Post) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.walls[semesterID] = append([]model.Post{p}, f.walls[semesterID]...)
}

func TestSubscribeDeliversInitialSnapshot(t *testing.T) {
	lister := newFakeLister()
	lister.prepend("sem-1", model.Post{ID: "p1", SemesterID: "sem-1", Type: model.PostText, Content: "hello"})

	hub := NewHub(lister, nil)
	ch, unsubscribe, err := hub.Subscribe(context.Background(), "sem-1")
	require.NoError(t, err)
	defer unsubscribe()

	snap := <-ch
	require.Len(t, snap, 1)
	assert.Equal(t, "p1", snap[0].ID)
	assert.Equal(t, 1, hub.SubscriberCount("sem-1"))
}

func TestSubscribeSurfacesListError(t *testing.T) {
	lister := newFakeLister()
	lister.err = errors.New("db gone")

	hub := NewHub(lister, nil)
	_, _, err := hub.Subscribe(context.Background(), "sem-1")
	assert.Error(t, err)
	assert.Equal(t, 0, hub.SubscriberCount("sem-1"))
}

func TestInvalidateDeliversFreshSnapshot(t *testing.T) {
	lister := newFakeLister()
	lister.prepend("sem-1", model.Post{ID: "p1", SemesterID: "sem-1", Type: model.PostText, Content: "older"})

	hub := NewHub(lister, nil)
	ch, unsubscribe, err := hub.Subscribe(context.Background(), "sem-1")
	require.NoError(t, err)
	defer unsubscribe()

	<-ch // initial snapshot

	lister.prepend("sem-1", model.Post{ID: "p2", SemesterID: "sem-1", Type: model.PostText, Content: "newer"})
	hub.Invalidate(context.Background(), "sem-1")

	snap := <-ch
	require.Len(t, snap, 2)
	assert.Equal(t, "p2", snap[0].ID, "newest post comes first")
	assert.Equal(t, "p1", snap[1].ID)
}

func TestInvalidateOtherSemesterDoesNotDeliver(t *testing.T) {
	lister := newFakeLister()
	hub := NewHub(lister, nil)

	ch, unsubscribe, err := hub.Subscribe(context.Background(), "sem-1")
	require.NoError(t, err)
	defer unsubscribe()

	<-ch // initial snapshot

	hub.Invalidate(context.Background(), "sem-2")
	select {
	case snap := <-ch:
		t.Fatalf("unexpected delivery: %v", snap)
	default:
	}
}

func TestUnsubscribeClosesChannel(t *testing.T) {
	lister := newFakeLister()
	hub := NewHub(lister, nil)

	ch, unsubscribe, err := hub.Subscribe(context.Background(), "sem-1")
	require.NoError(t, err)

	<-ch
	unsubscribe()
	unsubscribe() // second call is a no-op

	_, open := <-ch
	assert.False(t, open)
	assert.Equal(t, 0, hub.SubscriberCount("sem-1"))

	// further invalidations must not panic with the subscriber gone
	hub.Invalidate(context.Background(), "sem-1")
}

func TestSlowSubscriberKeepsLatestSnapshot(t *testing.T) {
	lister := newFakeLister()
	hub := NewHub(lister, nil)

	ch, unsubscribe, err := hub.Subscribe(context.Background(), "sem-1")
	require.NoError(t, err)
	defer unsubscribe()

	// never read while the wall churns well past the buffer size
	for i := 0; i < 20; i++ {
		lister.prepend("sem-1", model.Post{
			ID:         fmt.Sprintf("p%d", i),
			SemesterID: "sem-1",
			Type:       model.PostText,
			Content:    "churn",
		})
		hub.Invalidate(context.Background(), "sem-1")
	}

	var last []model.Post
	for {
		select {
		case snap := <-ch:
			last = snap
			continue
		default:
		}
		break
	}
	require.NotEmpty(t, last)
	assert.Equal(t, "p19", last[0].ID, "oldest pending snapshots are dropped, the latest survives")
}

func TestConcurrentReaderStillGetsLatestSnapshot(t *testing.T) {
	lister := newFakeLister()
	hub := NewHub(lister, nil)

	ch, unsubscribe, err := hub.Subscribe(context.Background(), "sem-1")
	require.NoError(t, err)

	// A reader draining as fast as it can while the wall churns. Every
	// fanout must still deliver, so the final snapshot the reader sees is
	// the final state of the wall.
	var (
		mu   sync.Mutex
		last []model.Post
		done = make(chan struct{})
	)
	go func() {
		defer close(done)
		for snap := range ch {
			mu.Lock()
			last = snap
			mu.Unlock()
		}
	}()

	for i := 0; i < 50; i++ {
		lister.prepend("sem-1", model.Post{
			ID:         fmt.Sprintf("p%d", i),
			SemesterID: "sem-1",
			Type:       model.PostText,
			Content:    "churn",
		})
		hub.Invalidate(context.Background(), "sem-1")
	}

	unsubscribe()
	<-done

	mu.Lock()
	defer mu.Unlock()
	require.NotEmpty(t, last)
	assert.Equal(t, "p49", last[0].ID)
	assert.Len(t, last, 50)
}
