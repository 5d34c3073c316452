// Package stream implements the live post-wall subscription.  Every
// subscriber receives the full, freshly ordered snapshot of its semester's
// posts on each change, never a diff; a delivered snapshot is authoritative
// and replaces whatever the subscriber held before.
package stream

import (
	"context"
	"encoding/json"
	"log"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"

	"github.com/iliyamo/semester-scrapbook/internal/model"
)

// changeChannel is the Redis pub/sub channel on which instances notify each
// other that a semester's wall changed.
const changeChannel = "scrapbook:posts.changed"

// Lister fetches the ordered snapshot of a semester's wall.  Satisfied by
// repository.PostRepo.
type Lister interface {
	ListBySemester(ctx context.Context, semesterID string) ([]model.Post, error)
}

// changeNote is the payload relayed over Redis.  Origin carries the
// publishing instance's id so an instance can skip its own notes, which it
// already fanned out locally.
type changeNote struct {
	SemesterID string `json:"semester_id"`
	Origin     string `json:"origin"`
}

// Hub fans post-wall snapshots out to subscribers.  Subscriptions are
// per-semester; the zero number of subscribers costs nothing because
// Invalidate only queries the store when someone is listening.  When a
// Redis client is provided, mutations are additionally relayed to other
// server instances; a nil client degrades to single-instance operation.
type Hub struct {
	lister Lister
	rdb    *redis.Client
	origin string

	mu     sync.Mutex
	nextID int
	subs   map[string]map[int]chan []model.Post
}

// NewHub builds a hub over the given post lister.  rdb may be nil.
func NewHub(lister Lister, rdb *redis.Client) *Hub {
	return &Hub{
		lister: lister,
		rdb:    rdb,
		origin: uuid.NewString(),
		subs:   make(map[string]map[int]chan []model.Post),
	}
}

// Subscribe registers a live listener on a semester's wall.  The current
// snapshot is delivered on the returned channel immediately, then again
// after every change.  The unsubscribe func must be called exactly once
// when the caller is no longer interested, or the subscriber slot leaks;
// calling it closes the channel.
func (h *Hub) Subscribe(ctx context.Context, semesterID string) (<-chan []model.Post, func(), error) {
	snap, err := h.lister.ListBySemester(ctx, semesterID)
	if err != nil {
		return nil, nil, err
	}

	ch := make(chan []model.Post, 8)
	h.mu.Lock()
	h.nextID++
	id := h.nextID
	if h.subs[semesterID] == nil {
		h.subs[semesterID] = make(map[int]chan []model.Post)
	}
	h.subs[semesterID][id] = ch
	h.mu.Unlock()

	ch <- snap

	var once sync.Once
	unsubscribe := func() {
		once.Do(func() {
			h.mu.Lock()
			delete(h.subs[semesterID], id)
			if len(h.subs[semesterID]) == 0 {
				delete(h.subs, semesterID)
			}
			h.mu.Unlock()
			close(ch)
		})
	}
	return ch, unsubscribe, nil
}

// Invalidate is called after every post mutation.  It re-queries the wall
// and delivers the new snapshot to local subscribers, then relays the
// change to other instances over Redis.  Relay failures are logged and
// ignored: the local delivery already happened.
func (h *Hub) Invalidate(ctx context.Context, semesterID string) {
	h.fanout(ctx, semesterID)

	if h.rdb == nil {
		return
	}
	body, err := json.Marshal(changeNote{SemesterID: semesterID, Origin: h.origin})
	if err != nil {
		return
	}
	if err := h.rdb.Publish(ctx, changeChannel, body).Err(); err != nil {
		log.Printf("stream: relay publish failed: %v", err)
	}
}

// Run listens for change notes relayed by other instances and fans the
// affected semester out locally.  It blocks until ctx is cancelled and is a
// no-op when no Redis client is configured.
func (h *Hub) Run(ctx context.Context) {
	if h.rdb == nil {
		return
	}
	sub := h.rdb.Subscribe(ctx, changeChannel)
	defer func() { _ = sub.Close() }()

	for {
		msg, err := sub.ReceiveMessage(ctx)
		if err != nil {
			if ctx.Err() != nil {
				return
			}
			log.Printf("stream: relay receive failed: %v", err)
			time.Sleep(time.Second)
			continue
		}
		var note changeNote
		if err := json.Unmarshal([]byte(msg.Payload), &note); err != nil {
			log.Printf("stream: bad relay payload: %v", err)
			continue
		}
		if note.Origin == h.origin {
			continue // already fanned out locally
		}
		h.fanout(ctx, note.SemesterID)
	}
}

// fanout queries the wall once and pushes the snapshot to every subscriber
// of the semester.  A slow subscriber whose buffer is full loses its oldest
// pending snapshot: only the latest one matters.
func (h *Hub) fanout(ctx context.Context, semesterID string) {
	h.mu.Lock()
	n := len(h.subs[semesterID])
	h.mu.Unlock()
	if n == 0 {
		return
	}

	snap, err := h.lister.ListBySemester(ctx, semesterID)
	if err != nil {
		log.Printf("stream: snapshot query failed: %v", err)
		return
	}

	// Deliveries happen under the lock so a concurrent unsubscribe cannot
	// close a channel mid-send. Sends never block: a full buffer loses its
	// oldest pending snapshot first.
	h.mu.Lock()
	defer h.mu.Unlock()
	for _, ch := range h.subs[semesterID] {
		for {
			select {
			case ch <- snap:
			default:
				// Full buffer, or the reader drained it between the two
				// selects. Drop one stale snapshot if any remain and retry
				// the send; the mutex keeps other senders out, so the
				// buffer can only shrink and the retry terminates.
				select {
				case <-ch:
				default:
				}
				continue
			}
			break
		}
	}
}

// SubscriberCount reports the number of active subscribers on a semester.
func (h *Hub) SubscriberCount(semesterID string) int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.subs[semesterID])
}
