package service

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"

	"github.com/iliyamo/semester-scrapbook/internal/model"
)

// SemesterCreator atomically persists a semester together with its creator
// access record. Satisfied by repository.SemesterRepo.
type SemesterCreator interface {
	SemesterGetter
	CreateWithAccess(ctx context.Context, sem *model.Semester, rec *model.AccessRecord) error
}

// MemberCounter counts a semester's members for the public preview.
// Satisfied by repository.AccessRepo.
type MemberCounter interface {
	CountBySemester(ctx context.Context, semesterID string) (int, error)
}

// CreateSemesterInput carries the user-supplied metadata of a new semester.
type CreateSemesterInput struct {
	Name        string `json:"name"`
	Description string `json:"description"`
	Password    string `json:"password"`
}

// SemesterService owns semester creation and lookup. Creation allocates the
// id, persists the metadata and grants the creator role in one transaction,
// so the directory can never hold a semester without a recorded creator.
type SemesterService struct {
	Semesters SemesterCreator
	Members   MemberCounter
	// NewID allocates semester ids. Defaults to uuid; overridable in tests.
	NewID func() string
}

func NewSemesterService(sems SemesterCreator, members MemberCounter) *SemesterService {
	return &SemesterService{Semesters: sems, Members: members, NewID: uuid.NewString}
}

// Create validates the metadata, allocates a fresh id and persists semester
// plus creator access atomically. The returned semester carries the
// server-assigned id and timestamp.
func (s *SemesterService) Create(ctx context.Context, in CreateSemesterInput, creatorID, creatorEmail string) (model.Semester, error) {
	in.Name = strings.TrimSpace(in.Name)
	if in.Name == "" {
		return model.Semester{}, fmt.Errorf("%w: semester name required", ErrInvalidArgument)
	}
	if in.Password == "" {
		return model.Semester{}, fmt.Errorf("%w: semester password required", ErrInvalidArgument)
	}

	sem := model.Semester{
		ID:                  s.NewID(),
		Name:                in.Name,
		Description:         in.Description,
		Password:            in.Password,
		CreatorID:           creatorID,
		IsPasswordProtected: true,
	}
	rec := model.AccessRecord{
		SemesterID: sem.ID,
		UserID:     creatorID,
		UserEmail:  creatorEmail,
		Role:       model.RoleCreator,
		InvitedBy:  creatorID,
	}
	if err := s.Semesters.CreateWithAccess(ctx, &sem, &rec); err != nil {
		return model.Semester{}, err
	}
	return sem, nil
}

// Get returns semester metadata or repository.ErrNotFound.
func (s *SemesterService) Get(ctx context.Context, id string) (model.Semester, error) {
	return s.Semesters.Get(ctx, id)
}

// Info returns the public join preview of a semester: name, description,
// member count and creation time, never the password.
func (s *SemesterService) Info(ctx context.Context, id string) (model.SemesterInfo, error) {
	sem, err := s.Semesters.Get(ctx, id)
	if err != nil {
		return model.SemesterInfo{}, err
	}
	count, err := s.Members.CountBySemester(ctx, id)
	if err != nil {
		return model.SemesterInfo{}, err
	}
	return model.SemesterInfo{
		Name:        sem.Name,
		Description: sem.Description,
		MemberCount: count,
		CreatedAt:   sem.CreatedAt,
	}, nil
}

// Invite builds the shareable invitation for a semester on behalf of a
// member. The origin is the service's public base URL.
func (s *SemesterService) Invite(ctx context.Context, origin, semesterID string) (Invitation, error) {
	sem, err := s.Semesters.Get(ctx, semesterID)
	if err != nil {
		return Invitation{}, err
	}
	return BuildInvite(origin, sem.ID, sem.Name)
}
