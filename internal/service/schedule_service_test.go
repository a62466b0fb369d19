package service

import (
	"context"
	"testing"
	"time"

	"github.com/damoang/eventhub-backend/internal/domain"
	"github.com/damoang/eventhub-backend/internal/repository"
	"github.com/damoang/eventhub-backend/internal/testutil"
	"github.com/damoang/eventhub-backend/pkg/cache"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestVisibilityPolicy_CanView(t *testing.T) {
	p := VisibilityPolicy{PrivilegedGroups: []uint64{100}}
	course := &domain.Event{Type: domain.EventTypeCourse}
	meeting := &domain.Event{Type: domain.EventTypeRegularMeeting}

	tests := []struct {
		name       string
		event      *domain.Event
		listed     []uint64
		userGroups []uint64
		want       bool
	}{
		{"course, privileged member", course, nil, []uint64{100}, true},
		{"course, granted group", course, []uint64{7}, []uint64{7}, true},
		{"course, no grant", course, []uint64{7}, []uint64{8}, false},
		{"course, unlisted and no groups", course, nil, nil, false},
		{"meeting without list is public", meeting, nil, nil, true},
		{"meeting listed, member in group", meeting, []uint64{3, 4}, []uint64{4}, true},
		{"meeting listed, outsider", meeting, []uint64{3}, []uint64{100}, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, p.CanView(tt.event, tt.listed, tt.userGroups))
		})
	}
}

func TestCourseRulesShareOneEventType(t *testing.T) {
	course := &domain.Event{Type: domain.EventTypeCourse}

	// the zero policy still restricts courses and still lets members pick a mode
	assert.False(t, VisibilityPolicy{}.CanView(course, nil, []uint64{1}))
	assert.True(t, VisibilityPolicy{}.CanView(course, []uint64{1}, []uint64{1}))
	assert.True(t, course.AllowsModeChoice())

	seminar := &domain.Event{Type: domain.EventTypeSeminar, City: "Tokyo"}
	assert.True(t, VisibilityPolicy{}.CanView(seminar, nil, nil))
	assert.False(t, seminar.AllowsModeChoice())
}

func TestScheduleService_Calendar(t *testing.T) {
	db := testutil.NewDB(t)
	ctx := context.Background()
	events := repository.NewEventRepository(db)
	groups := repository.NewGroupRepository(db)
	lru, err := cache.NewLRUService(64)
	require.NoError(t, err)
	svc := NewScheduleService(events, groups, repository.NewAttendeeRepository(db), lru,
		VisibilityPolicy{}, time.UTC)

	member := testutil.CreateUser(t, db, "member")
	vip := &domain.Group{Title: "vip"}
	require.NoError(t, groups.Create(ctx, vip))
	require.NoError(t, groups.AddMembers(ctx, vip.ID, []uint64{member.ID}))

	day := time.Date(2026, 11, 10, 10, 0, 0, 0, time.UTC)
	public := testutil.CreateEvent(t, db, domain.Event{Title: "public", Type: domain.EventTypeSeminar, StartAt: day})
	restricted := &domain.Event{Title: "vip only", Type: domain.EventTypeRegularMeeting, StartAt: day.Add(time.Hour), EndAt: day.Add(2 * time.Hour)}
	require.NoError(t, events.Create(ctx, restricted, []uint64{vip.ID}))
	course := &domain.Event{Title: "course", Type: domain.EventTypeCourse, StartAt: day, EndAt: day.Add(time.Hour)}
	require.NoError(t, events.Create(ctx, course, nil))
	testutil.CreateEvent(t, db, domain.Event{Title: "next month", StartAt: day.AddDate(0, 1, 0)})
	require.NoError(t, db.Create(&domain.EventAttendee{EventID: public.ID, UserID: member.ID, Mode: domain.ModeOffline}).Error)

	from, to := MonthRange(day, time.UTC)
	got, err := svc.Calendar(ctx, member.ID, from, to)
	require.NoError(t, err)
	titles := map[string]bool{}
	for _, e := range got {
		titles[e.Title] = e.Applied
	}
	assert.Equal(t, map[string]bool{"public": true, "vip only": false}, titles)

	stranger := testutil.CreateUser(t, db, "stranger")
	got, err = svc.Calendar(ctx, stranger.ID, from, to)
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, "public", got[0].Title)

	ok, err := svc.CanView(ctx, stranger.ID, restricted)
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestFilter_NeverNarrowsBeyondFacets(t *testing.T) {
	events := []domain.CalendarEvent{
		{Event: domain.Event{ID: 1, Title: "Go meetup", City: "Tokyo", Type: domain.EventTypeRegularMeeting}, Applied: true},
		{Event: domain.Event{ID: 2, Title: "Webinar", Type: domain.EventTypeOnline, IsOnline: true}},
		{Event: domain.Event{ID: 3, Title: "Seminar", Location: "Go Hall", City: "Osaka", Type: domain.EventTypeSeminar}},
	}
	pick := func(f domain.ScheduleFacets) []uint64 {
		var out []uint64
		for _, e := range Filter(events, f) {
			out = append(out, e.ID)
		}
		return out
	}
	assert.Equal(t, []uint64{1, 2, 3}, pick(domain.ScheduleFacets{}))
	assert.Equal(t, []uint64{1, 3}, pick(domain.ScheduleFacets{Search: "GO"}))
	assert.Equal(t, []uint64{3}, pick(domain.ScheduleFacets{City: "Osaka"}))
	assert.Equal(t, []uint64{1, 2}, pick(domain.ScheduleFacets{Mode: domain.ModeOnline}))
	assert.Equal(t, []uint64{1, 3}, pick(domain.ScheduleFacets{Mode: domain.ModeOffline}))
	assert.Equal(t, []uint64{1}, pick(domain.ScheduleFacets{AppliedOnly: true}))
	assert.Equal(t, []uint64{2}, pick(domain.ScheduleFacets{Type: domain.EventTypeOnline}))
	assert.Empty(t, pick(domain.ScheduleFacets{City: "Tokyo", Type: domain.EventTypeSeminar}))
}

func TestGroupByDay_UsesLocalDate(t *testing.T) {
	tokyo, err := time.LoadLocation("Asia/Tokyo")
	require.NoError(t, err)
	late := time.Date(2026, 11, 10, 16, 0, 0, 0, time.UTC) // 11th 01:00 in Tokyo
	early := time.Date(2026, 11, 10, 1, 0, 0, 0, time.UTC)
	days := GroupByDay([]domain.CalendarEvent{
		{Event: domain.Event{ID: 1, StartAt: late}},
		{Event: domain.Event{ID: 2, StartAt: early}},
	}, tokyo)
	require.Len(t, days, 2)
	assert.Equal(t, "2026-11-10", days[0].Date)
	assert.Equal(t, "2026-11-11", days[1].Date)
	assert.Equal(t, uint64(1), days[1].Events[0].ID)
}

func TestMonthAndWeekRange(t *testing.T) {
	at := time.Date(2026, 12, 17, 15, 30, 0, 0, time.UTC) // Thursday
	from, to := MonthRange(at, time.UTC)
	assert.Equal(t, time.Date(2026, 12, 1, 0, 0, 0, 0, time.UTC), from)
	assert.Equal(t, time.Date(2027, 1, 1, 0, 0, 0, 0, time.UTC), to)

	from, to = WeekRange(at, time.UTC)
	assert.Equal(t, time.Date(2026, 12, 13, 0, 0, 0, 0, time.UTC), from)
	assert.Equal(t, time.Date(2026, 12, 20, 0, 0, 0, 0, time.UTC), to)
	assert.Equal(t, time.Sunday, from.Weekday())
}
