package repository

import (
	"context"
	"testing"

	"github.com/damoang/eventhub-backend/internal/domain"
	"github.com/damoang/eventhub-backend/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGroupRepository_Membership(t *testing.T) {
	db := testutil.NewDB(t)
	repo := NewGroupRepository(db)
	ctx := context.Background()

	g := &domain.Group{Title: "Premium"}
	require.NoError(t, repo.Create(ctx, g))
	a := testutil.CreateUser(t, db, "a")
	b := testutil.CreateUser(t, db, "b")

	require.NoError(t, repo.AddMembers(ctx, g.ID, []uint64{a.ID, b.ID, a.ID}))
	require.NoError(t, repo.AddMembers(ctx, g.ID, []uint64{a.ID}))

	members, err := repo.Members(ctx, g.ID)
	require.NoError(t, err)
	assert.Len(t, members, 2)

	require.NoError(t, repo.RemoveMember(ctx, g.ID, a.ID))
	ids, err := repo.GroupIDsOfUser(ctx, a.ID)
	require.NoError(t, err)
	assert.Empty(t, ids)

	ids, err = repo.GroupIDsOfUser(ctx, b.ID)
	require.NoError(t, err)
	assert.Equal(t, []uint64{g.ID}, ids)
}

func TestGroupRepository_DeleteKeepsRows(t *testing.T) {
	db := testutil.NewDB(t)
	repo := NewGroupRepository(db)
	events := NewEventRepository(db)
	ctx := context.Background()

	g := &domain.Group{Title: "Course members"}
	require.NoError(t, repo.Create(ctx, g))
	u := testutil.CreateUser(t, db, "member")
	require.NoError(t, repo.AddMembers(ctx, g.ID, []uint64{u.ID}))
	e := &domain.Event{Title: "members only", Type: domain.EventTypeSeminar}
	require.NoError(t, events.Create(ctx, e, []uint64{g.ID}))

	require.NoError(t, repo.Delete(ctx, g.ID))

	ids, err := repo.GroupIDsOfUser(ctx, u.ID)
	require.NoError(t, err)
	assert.Empty(t, ids)
	listed, err := events.VisibleGroupIDs(ctx, e.ID)
	require.NoError(t, err)
	assert.Equal(t, []uint64{g.ID}, listed)

	count := func(model interface{}) int64 {
		var n int64
		require.NoError(t, db.Unscoped().Model(model).Count(&n).Error)
		return n
	}
	assert.Equal(t, int64(1), count(&domain.Group{}))
	assert.Equal(t, int64(1), count(&domain.GroupUser{}))
	assert.Equal(t, int64(1), count(&domain.EventVisibleGroup{}))
}
