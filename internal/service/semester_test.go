package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/iliyamo/semester-scrapbook/internal/model"
	"github.com/iliyamo/semester-scrapbook/internal/repository"
)

// recordingSemesters captures what Create hands to the store so the test can
// inspect the access record that rides along with the semester.
type recordingSemesters struct {
	*fakeSemesters
	lastRec model.AccessRecord
}

func (r *recordingSemesters) CreateWithAccess(ctx context.Context, sem *model.Semester, rec *model.AccessRecord) error {
	r.lastRec = *rec
	return r.fakeSemesters.CreateWithAccess(ctx, sem, rec)
}

func TestSemesterCreate(t *testing.T) {
	access := newFakeAccess()
	store := &recordingSemesters{fakeSemesters: newFakeSemesters()}
	store.access = access
	svc := NewSemesterService(store, access)
	svc.NewID = func() string { return "sem-fixed" }

	sem, err := svc.Create(context.Background(), CreateSemesterInput{
		Name:        "  Fall 2024  ",
		Description: "first semester",
		Password:    "abcd",
	}, "creator-1", "creator@example.com")
	require.NoError(t, err)

	assert.Equal(t, "sem-fixed", sem.ID)
	assert.Equal(t, "Fall 2024", sem.Name)
	assert.Equal(t, "abcd", sem.Password)
	assert.True(t, sem.IsPasswordProtected)
	assert.Equal(t, "creator-1", sem.CreatorID)

	assert.Equal(t, "sem-fixed", store.lastRec.SemesterID)
	assert.Equal(t, "creator-1", store.lastRec.UserID)
	assert.Equal(t, model.RoleCreator, store.lastRec.Role)
	assert.Equal(t, "creator-1", store.lastRec.InvitedBy)

	// the creator grant comes out of the creation itself
	rec, err := access.Get(context.Background(), "sem-fixed", "creator-1")
	require.NoError(t, err)
	assert.Equal(t, model.RoleCreator, rec.Role)
}

func TestSemesterCreateValidation(t *testing.T) {
	svc := NewSemesterService(newFakeSemesters(), newFakeAccess())

	_, err := svc.Create(context.Background(), CreateSemesterInput{Password: "abcd"}, "creator-1", "c@example.com")
	assert.ErrorIs(t, err, ErrInvalidArgument)

	_, err = svc.Create(context.Background(), CreateSemesterInput{Name: "Fall 2024"}, "creator-1", "c@example.com")
	assert.ErrorIs(t, err, ErrInvalidArgument)
}

func TestSemesterInfo(t *testing.T) {
	sems := newFakeSemesters(model.Semester{
		ID:          "sem-1",
		Name:        "Fall 2024",
		Description: "first semester",
		Password:    "abcd",
	})
	access := newFakeAccess(
		model.AccessRecord{SemesterID: "sem-1", UserID: "creator-1", Role: model.RoleCreator},
		model.AccessRecord{SemesterID: "sem-1", UserID: "user-9", Role: model.RoleMember},
		model.AccessRecord{SemesterID: "sem-2", UserID: "user-9", Role: model.RoleMember},
	)
	svc := NewSemesterService(sems, access)

	info, err := svc.Info(context.Background(), "sem-1")
	require.NoError(t, err)
	assert.Equal(t, "Fall 2024", info.Name)
	assert.Equal(t, "first semester", info.Description)
	assert.Equal(t, 2, info.MemberCount)

	_, err = svc.Info(context.Background(), "missing")
	assert.ErrorIs(t, err, repository.ErrNotFound)
}

func TestSemesterInvite(t *testing.T) {
	sems := newFakeSemesters(model.Semester{ID: "sem-1", Name: "Fall 2024", Password: "abcd"})
	svc := NewSemesterService(sems, newFakeAccess())

	inv, err := svc.Invite(context.Background(), "https://scrapbook.example", "sem-1")
	require.NoError(t, err)
	assert.Equal(t, "https://scrapbook.example/invite/sem-1", inv.URL)

	_, err = svc.Invite(context.Background(), "https://scrapbook.example", "missing")
	assert.ErrorIs(t, err, repository.ErrNotFound)
}
