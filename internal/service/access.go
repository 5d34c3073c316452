// Package service implements the semester access and post-synchronization
// core on top of the repository layer. Services depend on small store
// interfaces rather than concrete repositories so the join, creation and
// wall flows can be exercised without a database.
package service

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/iliyamo/semester-scrapbook/internal/model"
	"github.com/iliyamo/semester-scrapbook/internal/queue"
	"github.com/iliyamo/semester-scrapbook/internal/repository"
)

// SemesterGetter looks up semester metadata. Satisfied by
// repository.SemesterRepo.
type SemesterGetter interface {
	Get(ctx context.Context, id string) (model.Semester, error)
}

// AccessStore persists and queries access records. Satisfied by
// repository.AccessRepo.
type AccessStore interface {
	Grant(ctx context.Context, rec *model.AccessRecord) (bool, error)
	Get(ctx context.Context, semesterID, userID string) (model.AccessRecord, error)
	ListByUser(ctx context.Context, userID string) ([]model.AccessRecord, error)
	ListBySemester(ctx context.Context, semesterID string) ([]model.AccessRecord, error)
}

// JoinLogAppender appends to the join audit trail. Satisfied by
// repository.JoinLogRepo.
type JoinLogAppender interface {
	Append(ctx context.Context, e model.JoinLogEntry) error
}

// JoinResult is returned by VerifyAndJoin. AlreadyMember distinguishes the
// idempotent re-join from a first join; Message is the user-facing string
// for either case.
type JoinResult struct {
	SemesterID    string `json:"semesterId"`
	AlreadyMember bool   `json:"alreadyMember"`
	Message       string `json:"message"`
}

// AccessService owns password verification, membership grants and
// join-event logging.
type AccessService struct {
	Semesters SemesterGetter
	Access    AccessStore
	Logs      JoinLogAppender
	// Publish relays a joined event to the broker. May be nil (no broker);
	// failures are logged and never fail the join.
	Publish func(ctx context.Context, ev queue.SemesterJoinedEvent) error
}

func NewAccessService(sem SemesterGetter, acc AccessStore, logs JoinLogAppender,
	publish func(context.Context, queue.SemesterJoinedEvent) error) *AccessService {
	return &AccessService{Semesters: sem, Access: acc, Logs: logs, Publish: publish}
}

// GrantCreatorAccess idempotently records the creator role for a freshly
// created semester. Normally the grant happens inside the creation
// transaction; this entry point exists for repair paths.
func (s *AccessService) GrantCreatorAccess(ctx context.Context, semesterID, creatorID, creatorEmail string) error {
	_, err := s.Access.Grant(ctx, &model.AccessRecord{
		SemesterID: semesterID,
		UserID:     creatorID,
		UserEmail:  creatorEmail,
		Role:       model.RoleCreator,
		InvitedBy:  creatorID,
	})
	return err
}

// VerifyAndJoin checks the supplied password against the semester and
// records membership. The join is idempotent: a user who already holds an
// access record gets a success result without side effects, with a message
// distinguishing the two outcomes. First joins also append a JoinLogEntry
// and publish a semester.joined event.
//
// Failure modes: repository.ErrNotFound when the semester does not exist,
// repository.ErrInvalidCredentials on password mismatch. Both are
// recoverable; the caller surfaces a message and may retry.
func (s *AccessService) VerifyAndJoin(ctx context.Context, semesterID, password, userID, userEmail string) (JoinResult, error) {
	sem, err := s.Semesters.Get(ctx, semesterID)
	if err != nil {
		return JoinResult{}, err
	}
	if sem.Password != password {
		return JoinResult{}, fmt.Errorf("%w: wrong semester password", repository.ErrInvalidCredentials)
	}

	if _, err := s.Access.Get(ctx, semesterID, userID); err == nil {
		return JoinResult{
			SemesterID:    semesterID,
			AlreadyMember: true,
			Message:       "You already have access to this semester",
		}, nil
	} else if err != repository.ErrNotFound {
		return JoinResult{}, err
	}

	rec := &model.AccessRecord{
		SemesterID: semesterID,
		UserID:     userID,
		UserEmail:  userEmail,
		Role:       model.RoleMember,
		InvitedBy:  sem.CreatorID,
	}
	if _, err := s.Access.Grant(ctx, rec); err != nil {
		return JoinResult{}, err
	}
	if err := s.Logs.Append(ctx, model.JoinLogEntry{
		SemesterID: semesterID,
		UserID:     userID,
		UserEmail:  userEmail,
		Action:     model.JoinAction,
	}); err != nil {
		return JoinResult{}, err
	}

	if s.Publish != nil {
		ev := queue.SemesterJoinedEvent{
			SemesterID:   semesterID,
			SemesterName: sem.Name,
			UserID:       userID,
			UserEmail:    userEmail,
			Role:         model.RoleMember,
			InvitedBy:    sem.CreatorID,
			JoinedAt:     time.Now().UTC().Format(time.RFC3339),
		}
		if err := s.Publish(ctx, ev); err != nil {
			log.Printf("access: joined event publish failed: %v", err)
		}
	}

	return JoinResult{
		SemesterID: semesterID,
		Message:    "Successfully joined semester!",
	}, nil
}

// ListMembership returns every access record a user holds, determining
// which semesters the session can open.
func (s *AccessService) ListMembership(ctx context.Context, userID string) ([]model.AccessRecord, error) {
	return s.Access.ListByUser(ctx, userID)
}

// ListMembers returns all members of a semester, but only to a caller who
// is a member themselves.
func (s *AccessService) ListMembers(ctx context.Context, semesterID, callerID string) ([]model.AccessRecord, error) {
	if _, err := s.Access.Get(ctx, semesterID, callerID); err != nil {
		if err == repository.ErrNotFound {
			return nil, repository.ErrForbidden
		}
		return nil, err
	}
	return s.Access.ListBySemester(ctx, semesterID)
}

// SemesterData is semester metadata paired with the caller's role in it.
type SemesterData struct {
	Semester model.Semester
	UserRole string
}

// GetSemesterData returns semester metadata to a caller who has joined it,
// along with the caller's role. Callers without an access record get
// repository.ErrForbidden.
func (s *AccessService) GetSemesterData(ctx context.Context, semesterID, userID string) (SemesterData, error) {
	rec, err := s.Access.Get(ctx, semesterID, userID)
	if err != nil {
		if err == repository.ErrNotFound {
			return SemesterData{}, repository.ErrForbidden
		}
		return SemesterData{}, err
	}
	sem, err := s.Semesters.Get(ctx, semesterID)
	if err != nil {
		return SemesterData{}, err
	}
	return SemesterData{Semester: sem, UserRole: rec.Role}, nil
}

// HasAccess is a pure predicate over an already-loaded membership list.
func HasAccess(records []model.AccessRecord, semesterID string) bool {
	for _, rec := range records {
		if rec.SemesterID == semesterID {
			return true
		}
	}
	return false
}
