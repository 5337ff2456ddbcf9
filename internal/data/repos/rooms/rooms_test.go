package rooms

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/PrathamAgarwal1/SkillSkirmish/internal/data/repos/repoerr"
	"github.com/PrathamAgarwal1/SkillSkirmish/internal/data/repos/testutil"
	types "github.com/PrathamAgarwal1/SkillSkirmish/internal/domain"
	"github.com/PrathamAgarwal1/SkillSkirmish/internal/platform/dbctx"
)

func TestRoomMembership(t *testing.T) {
	db := testutil.DB(t)
	ctx := context.Background()
	owner := testutil.SeedUser(t, ctx, db, "owner")
	guest := testutil.SeedUser(t, ctx, db, "guest")
	room := testutil.SeedRoom(t, ctx, db, owner.ID, "lobby")
	repo := NewRoomRepo(db, testutil.Logger(t))
	dbc := dbctx.Context{Ctx: ctx}

	ok, err := repo.IsMember(dbc, room.ID, owner.ID)
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = repo.IsMember(dbc, room.ID, guest.ID)
	require.NoError(t, err)
	assert.False(t, ok)

	require.NoError(t, repo.AddMember(dbc, room.ID, guest.ID))
	require.NoError(t, repo.AddMember(dbc, room.ID, guest.ID))

	ok, err = repo.IsMember(dbc, room.ID, guest.ID)
	require.NoError(t, err)
	assert.True(t, ok)

	_, err = repo.IsMember(dbc, uuid.New(), guest.ID)
	assert.ErrorIs(t, err, repoerr.ErrNotFound)
}

func TestChatHistoryOldestFirstWithinLimit(t *testing.T) {
	db := testutil.DB(t)
	ctx := context.Background()
	owner := testutil.SeedUser(t, ctx, db, "owner")
	room := testutil.SeedRoom(t, ctx, db, owner.ID, "lobby")
	repo := NewChatMessageRepo(db, testutil.Logger(t))
	dbc := dbctx.Context{Ctx: ctx}

	base := time.Date(2026, 1, 1, 12, 0, 0, 0, time.UTC)
	for i := 0; i < 5; i++ {
		require.NoError(t, repo.Create(dbc, &types.ChatMessage{
			RoomID:    room.ID,
			SenderID:  owner.ID,
			Text:      fmt.Sprintf("m%d", i),
			Timestamp: base.Add(time.Duration(i) * time.Second),
		}))
	}

	rows, err := repo.ListByRoom(dbc, room.ID, 3)
	require.NoError(t, err)
	require.Len(t, rows, 3)
	assert.Equal(t, "m2", rows[0].Text)
	assert.Equal(t, "m4", rows[2].Text)

	assert.Error(t, repo.Create(dbc, &types.ChatMessage{RoomID: room.ID, SenderID: owner.ID, Text: "  "}))
}

func TestNotificationsAreScopedToRecipient(t *testing.T) {
	db := testutil.DB(t)
	ctx := context.Background()
	alice := testutil.SeedUser(t, ctx, db, "alice")
	bob := testutil.SeedUser(t, ctx, db, "bob")
	repo := NewNotificationRepo(db, testutil.Logger(t))
	dbc := dbctx.Context{Ctx: ctx}

	n := &types.Notification{
		RecipientID: alice.ID,
		SenderID:    &bob.ID,
		Message:     "bob wants to join",
		Kind:        types.NotificationJoinRequest,
		RelatedID:   "room-1",
	}
	require.NoError(t, repo.Create(dbc, n))

	found, err := repo.FindPending(dbc, alice.ID, bob.ID, types.NotificationJoinRequest, "room-1")
	require.NoError(t, err)
	assert.Equal(t, n.ID, found.ID)

	assert.ErrorIs(t, repo.MarkRead(dbc, bob.ID, n.ID), repoerr.ErrNotFound)
	require.NoError(t, repo.MarkRead(dbc, alice.ID, n.ID))

	_, err = repo.FindPending(dbc, alice.ID, bob.ID, types.NotificationJoinRequest, "room-1")
	assert.ErrorIs(t, err, repoerr.ErrNotFound)

	list, err := repo.ListForRecipient(dbc, alice.ID)
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.True(t, list[0].Read)

	assert.ErrorIs(t, repo.Delete(dbc, bob.ID, n.ID), repoerr.ErrNotFound)
	require.NoError(t, repo.Delete(dbc, alice.ID, n.ID))
	list, err = repo.ListForRecipient(dbc, alice.ID)
	require.NoError(t, err)
	assert.Empty(t, list)
}
