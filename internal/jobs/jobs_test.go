package jobs

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/damoang/eventhub-backend/internal/domain"
	"github.com/damoang/eventhub-backend/internal/realtime"
	"github.com/damoang/eventhub-backend/internal/repository"
	"github.com/damoang/eventhub-backend/internal/testutil"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestReconcileThreads(t *testing.T) {
	db := testutil.NewDB(t)
	repo := repository.NewDMThreadRepository(db)
	bus := realtime.NewBus(zerolog.Nop())
	var got []realtime.Event
	bus.Subscribe("test", func(e realtime.Event) { got = append(got, e) })

	base := time.Date(2026, 10, 1, 9, 0, 0, 0, time.UTC)
	owner := testutil.CreateUser(t, db, "owner")
	stale := testutil.CreateThread(t, db, owner.ID, true, base)
	latest := testutil.CreateMessage(t, db, stale.ID, owner.ID, domain.SenderUser, base.Add(time.Hour))

	clean := testutil.CreateUser(t, db, "clean")
	ok := testutil.CreateThread(t, db, clean.ID, true, base)
	m := testutil.CreateMessage(t, db, ok.ID, clean.ID, domain.SenderUser, base)
	require.NoError(t, db.Model(m).Update("is_read", true).Error)

	require.NoError(t, ReconcileThreads(repo, bus)(context.Background()))

	var reloaded domain.DMThread
	require.NoError(t, db.First(&reloaded, stale.ID).Error)
	assert.False(t, reloaded.IsAdminRead)
	require.NotNil(t, reloaded.LastSentAt)
	assert.Equal(t, latest.CreatedAt, reloaded.LastSentAt.UTC())

	require.NoError(t, db.First(&reloaded, ok.ID).Error)
	assert.True(t, reloaded.IsAdminRead)

	require.Len(t, got, 1)
	assert.Equal(t, stale.ID, got[0].ThreadID)
}

type fakeReindexer struct {
	n   int
	err error
}

func (f fakeReindexer) Reindex(context.Context) (int, error) { return f.n, f.err }

func TestReindexNotices(t *testing.T) {
	assert.NoError(t, ReindexNotices(fakeReindexer{n: 3}, zerolog.Nop())(context.Background()))
	assert.Error(t, ReindexNotices(fakeReindexer{err: errors.New("down")}, zerolog.Nop())(context.Background()))
}

func TestScheduler_Add(t *testing.T) {
	s := NewScheduler(zerolog.Nop())
	noop := func(context.Context) error { return nil }

	require.NoError(t, s.Add("off", "", noop))
	require.NoError(t, s.Add("every", "@every 1h", noop))
	assert.Error(t, s.Add("bad", "not a spec", noop))
	assert.Equal(t, 1, s.Entries())
}
