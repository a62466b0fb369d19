package repository

import (
	"context"
	"testing"

	"github.com/damoang/eventhub-backend/internal/domain"
	"github.com/damoang/eventhub-backend/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAttendeeRepository_CountsIgnoreCancelled(t *testing.T) {
	db := testutil.NewDB(t)
	repo := NewAttendeeRepository(db)
	ctx := context.Background()

	event := testutil.CreateEvent(t, db, domain.Event{EventCapacity: 10})
	u1 := testutil.CreateUser(t, db, "u1")
	u2 := testutil.CreateUser(t, db, "u2")
	u3 := testutil.CreateUser(t, db, "u3")

	require.NoError(t, repo.CreateEventAttendee(ctx, &domain.EventAttendee{EventID: event.ID, UserID: u1.ID, Mode: domain.ModeOffline}))
	require.NoError(t, repo.CreateEventAttendee(ctx, &domain.EventAttendee{EventID: event.ID, UserID: u2.ID, Mode: domain.ModeOnline}))
	require.NoError(t, repo.CreateEventAttendee(ctx, &domain.EventAttendee{EventID: event.ID, UserID: u3.ID, Mode: domain.ModeOffline}))

	offline, err := repo.CountEvent(ctx, event.ID, domain.ModeOffline)
	require.NoError(t, err)
	assert.EqualValues(t, 2, offline)

	n, err := repo.Cancel(ctx, domain.OfferingEvent, event.ID, u3.ID)
	require.NoError(t, err)
	assert.EqualValues(t, 1, n)

	offline, err = repo.CountEvent(ctx, event.ID, domain.ModeOffline)
	require.NoError(t, err)
	assert.EqualValues(t, 1, offline)
	all, err := repo.CountEvent(ctx, event.ID, "")
	require.NoError(t, err)
	assert.EqualValues(t, 2, all)

	held, err := repo.Holds(ctx, domain.OfferingEvent, event.ID, u3.ID)
	require.NoError(t, err)
	assert.False(t, held)
}

func TestAttendeeRepository_CreatePaidAttendees(t *testing.T) {
	db := testutil.NewDB(t)
	repo := NewAttendeeRepository(db)
	ctx := context.Background()

	event := testutil.CreateEvent(t, db, domain.Event{GatherCapacity: 5, ConsultationCapacity: 5})
	u := testutil.CreateUser(t, db, "payer")

	require.NoError(t, repo.CreatePaidAttendees(ctx, event.ID, u.ID, true, false))

	g, err := repo.CountGather(ctx, event.ID)
	require.NoError(t, err)
	c, err := repo.CountConsultation(ctx, event.ID)
	require.NoError(t, err)
	assert.EqualValues(t, 1, g)
	assert.EqualValues(t, 0, c)

	ids, err := repo.EventIDsByUser(ctx, domain.OfferingGather, u.ID)
	require.NoError(t, err)
	assert.Equal(t, []uint64{event.ID}, ids)

	_, err = repo.Holds(ctx, "lunch", event.ID, u.ID)
	assert.Error(t, err)
}
