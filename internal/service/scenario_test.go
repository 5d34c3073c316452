package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/iliyamo/semester-scrapbook/internal/model"
)

// The full semester lifecycle over one shared in-memory store: create,
// invite, join, re-join, then read the wall-level views back.
func TestSemesterLifecycle(t *testing.T) {
	ctx := context.Background()
	access := newFakeAccess()
	sems := newFakeSemesters()
	sems.access = access
	logs := &fakeJoinLog{}

	semSvc := NewSemesterService(sems, access)
	accSvc := NewAccessService(sems, access, logs, nil)

	sem, err := semSvc.Create(ctx, CreateSemesterInput{
		Name:     "Fall 2024",
		Password: "abcd",
	}, "creator-1", "creator@example.com")
	require.NoError(t, err)

	// the creator role comes out of the creation itself
	data, err := accSvc.GetSemesterData(ctx, sem.ID, "creator-1")
	require.NoError(t, err)
	assert.Equal(t, model.RoleCreator, data.UserRole)

	inv, err := semSvc.Invite(ctx, "https://scrapbook.example", sem.ID)
	require.NoError(t, err)

	// a friend follows the invite link and joins with the password
	joinedID, ok := MatchInvite(inv.URL[len("https://scrapbook.example"):])
	require.True(t, ok)

	res, err := accSvc.VerifyAndJoin(ctx, joinedID, "abcd", "friend-1", "friend@example.com")
	require.NoError(t, err)
	assert.Equal(t, "Successfully joined semester!", res.Message)

	res, err = accSvc.VerifyAndJoin(ctx, joinedID, "abcd", "friend-1", "friend@example.com")
	require.NoError(t, err)
	assert.True(t, res.AlreadyMember)

	members, err := accSvc.ListMembers(ctx, sem.ID, "friend-1")
	require.NoError(t, err)
	assert.Len(t, members, 2)

	info, err := semSvc.Info(ctx, sem.ID)
	require.NoError(t, err)
	assert.Equal(t, 2, info.MemberCount)

	assert.Len(t, logs.entries, 1, "only the first join is audited")
}
