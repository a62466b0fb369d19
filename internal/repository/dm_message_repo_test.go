package repository

import (
	"context"
	"testing"
	"time"

	"github.com/damoang/eventhub-backend/internal/domain"
	"github.com/damoang/eventhub-backend/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDMMessageRepository_MarkOwnerMessagesRead(t *testing.T) {
	db := testutil.NewDB(t)
	repo := NewDMMessageRepository(db)
	ctx := context.Background()
	now := time.Now()

	owner := testutil.CreateUser(t, db, "owner")
	stranger := testutil.CreateUser(t, db, "stranger")
	th := testutil.CreateThread(t, db, owner.ID, false, now)
	otherTh := testutil.CreateThread(t, db, stranger.ID, false, now)

	mine := testutil.CreateMessage(t, db, th.ID, owner.ID, domain.SenderUser, now)
	adminMsg := testutil.CreateMessage(t, db, th.ID, owner.ID, domain.SenderAdmin, now)
	foreign := testutil.CreateMessage(t, db, th.ID, stranger.ID, domain.SenderUser, now)
	elsewhere := testutil.CreateMessage(t, db, otherTh.ID, owner.ID, domain.SenderUser, now)

	n, err := repo.MarkOwnerMessagesRead(ctx, th.ID, owner.ID)
	require.NoError(t, err)
	assert.EqualValues(t, 1, n)

	isRead := func(id uint64) bool {
		var m domain.DMMessage
		require.NoError(t, db.First(&m, id).Error)
		return m.IsRead
	}
	assert.True(t, isRead(mine.ID))
	assert.False(t, isRead(adminMsg.ID))
	assert.False(t, isRead(foreign.ID))
	assert.False(t, isRead(elsewhere.ID))
}

func TestDMMessageRepository_ListNewestFirst(t *testing.T) {
	db := testutil.NewDB(t)
	repo := NewDMMessageRepository(db)
	ctx := context.Background()
	base := time.Date(2026, 10, 1, 0, 0, 0, 0, time.UTC)

	owner := testutil.CreateUser(t, db, "owner")
	th := testutil.CreateThread(t, db, owner.ID, false, base)
	for i := 0; i < 5; i++ {
		testutil.CreateMessage(t, db, th.ID, owner.ID, domain.SenderUser, base.Add(time.Duration(i)*time.Minute))
	}
	first := testutil.CreateMessage(t, db, th.ID, owner.ID, domain.SenderUser, base.Add(10*time.Minute))
	require.NoError(t, repo.CreateImage(ctx, &domain.DMMessageImage{MessageID: first.ID, URL: "https://cdn/x.png"}))

	page, err := repo.ListNewestFirst(ctx, th.ID, 0, 2)
	require.NoError(t, err)
	require.Len(t, page, 2)
	assert.Equal(t, first.ID, page[0].ID)
	require.Len(t, page[0].Images, 1)
	assert.True(t, page[0].CreatedAt.After(page[1].CreatedAt))

	total, err := repo.CountByThread(ctx, th.ID)
	require.NoError(t, err)
	assert.EqualValues(t, 6, total)
}
