package service

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/damoang/eventhub-backend/internal/domain"
	"github.com/damoang/eventhub-backend/internal/repository"
	"github.com/damoang/eventhub-backend/pkg/cache"
)

// VisibilityPolicy decides who sees an event on the calendar.
// Course-type events are restricted to privileged groups plus any listed
// groups. Other events are public unless they list visible groups.
type VisibilityPolicy struct {
	PrivilegedGroups []uint64
}

// CanView reports whether a member in userGroups may see e.
func (p VisibilityPolicy) CanView(e *domain.Event, listed, userGroups []uint64) bool {
	if e.Type == domain.EventTypeCourse {
		return intersects(p.PrivilegedGroups, userGroups) || intersects(listed, userGroups)
	}
	if len(listed) == 0 {
		return true
	}
	return intersects(listed, userGroups)
}

func intersects(a, b []uint64) bool {
	if len(a) == 0 || len(b) == 0 {
		return false
	}
	set := make(map[uint64]struct{}, len(a))
	for _, id := range a {
		set[id] = struct{}{}
	}
	for _, id := range b {
		if _, ok := set[id]; ok {
			return true
		}
	}
	return false
}

// ScheduleService builds a member's calendar
type ScheduleService struct {
	events    repository.EventRepository
	groups    repository.GroupRepository
	attendees repository.AttendeeRepository
	cache     cache.Service
	policy    VisibilityPolicy
	loc       *time.Location
}

// NewScheduleService creates a new ScheduleService
func NewScheduleService(events repository.EventRepository, groups repository.GroupRepository,
	attendees repository.AttendeeRepository, c cache.Service, policy VisibilityPolicy, loc *time.Location) *ScheduleService {
	if loc == nil {
		loc = time.UTC
	}
	return &ScheduleService{events: events, groups: groups, attendees: attendees, cache: c, policy: policy, loc: loc}
}

// Location is the timezone calendar days are cut in
func (s *ScheduleService) Location() *time.Location { return s.loc }

// Calendar returns the events overlapping [from, to) that userID may see,
// each marked with whether the member applied to the main event.
func (s *ScheduleService) Calendar(ctx context.Context, userID uint64, from, to time.Time) ([]domain.CalendarEvent, error) {
	key := cache.ScheduleKey(userID, from, to)
	var cached []domain.CalendarEvent
	if cacheGet(ctx, s.cache, key, &cached) {
		return cached, nil
	}

	events, err := s.events.ListBetween(ctx, from, to)
	if err != nil {
		return nil, fmt.Errorf("list events: %w", err)
	}
	ids := make([]uint64, len(events))
	for i := range events {
		ids[i] = events[i].ID
	}
	listed, err := s.events.VisibleGroupMap(ctx, ids)
	if err != nil {
		return nil, fmt.Errorf("visible groups: %w", err)
	}

	var userGroups []uint64
	applied := map[uint64]bool{}
	if userID != 0 {
		if userGroups, err = s.groups.GroupIDsOfUser(ctx, userID); err != nil {
			return nil, fmt.Errorf("user groups: %w", err)
		}
		appliedIDs, err := s.attendees.EventIDsByUser(ctx, domain.OfferingEvent, userID)
		if err != nil {
			return nil, fmt.Errorf("applied events: %w", err)
		}
		for _, id := range appliedIDs {
			applied[id] = true
		}
	}

	out := make([]domain.CalendarEvent, 0, len(events))
	for i := range events {
		e := &events[i]
		if !s.policy.CanView(e, listed[e.ID], userGroups) {
			continue
		}
		out = append(out, domain.CalendarEvent{Event: *e, Applied: applied[e.ID]})
	}
	cacheSet(ctx, s.cache, key, out, cache.TTLSchedule)
	return out, nil
}

// CanView checks a single event for the event detail page
func (s *ScheduleService) CanView(ctx context.Context, userID uint64, e *domain.Event) (bool, error) {
	listed, err := s.events.VisibleGroupIDs(ctx, e.ID)
	if err != nil {
		return false, err
	}
	var userGroups []uint64
	if userID != 0 {
		if userGroups, err = s.groups.GroupIDsOfUser(ctx, userID); err != nil {
			return false, err
		}
	}
	return s.policy.CanView(e, listed, userGroups), nil
}

// Filter narrows an already-fetched calendar without touching storage
func Filter(events []domain.CalendarEvent, f domain.ScheduleFacets) []domain.CalendarEvent {
	term := strings.ToLower(strings.TrimSpace(f.Search))
	out := make([]domain.CalendarEvent, 0, len(events))
	for _, e := range events {
		if f.AppliedOnly && !e.Applied {
			continue
		}
		if f.City != "" && e.City != f.City {
			continue
		}
		if f.Type != "" && e.Type != f.Type {
			continue
		}
		if f.Mode != "" && !offersMode(&e.Event, f.Mode) {
			continue
		}
		if term != "" && !matchesTerm(&e.Event, term) {
			continue
		}
		out = append(out, e)
	}
	return out
}

func offersMode(e *domain.Event, mode string) bool {
	switch mode {
	case domain.ModeOnline:
		return e.IsOnline || e.AllowsModeChoice()
	case domain.ModeOffline:
		return !e.IsOnline
	}
	return true
}

func matchesTerm(e *domain.Event, term string) bool {
	return strings.Contains(strings.ToLower(e.Title), term) ||
		strings.Contains(strings.ToLower(e.Description), term) ||
		strings.Contains(strings.ToLower(e.Location), term)
}

// GroupByDay buckets events by local start date, days ascending
func GroupByDay(events []domain.CalendarEvent, loc *time.Location) []domain.CalendarDay {
	byDate := make(map[string][]domain.CalendarEvent)
	for _, e := range events {
		d := e.StartAt.In(loc).Format(time.DateOnly)
		byDate[d] = append(byDate[d], e)
	}
	days := make([]domain.CalendarDay, 0, len(byDate))
	for d, evs := range byDate {
		sort.SliceStable(evs, func(i, j int) bool { return evs[i].StartAt.Before(evs[j].StartAt) })
		days = append(days, domain.CalendarDay{Date: d, Events: evs})
	}
	sort.Slice(days, func(i, j int) bool { return days[i].Date < days[j].Date })
	return days
}

// MonthRange returns [first of month, first of next month) in loc
func MonthRange(t time.Time, loc *time.Location) (time.Time, time.Time) {
	t = t.In(loc)
	from := time.Date(t.Year(), t.Month(), 1, 0, 0, 0, 0, loc)
	return from, from.AddDate(0, 1, 0)
}

// WeekRange returns the Sunday-started week containing t
func WeekRange(t time.Time, loc *time.Location) (time.Time, time.Time) {
	t = t.In(loc)
	day := time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, loc)
	from := day.AddDate(0, 0, -int(day.Weekday()))
	return from, from.AddDate(0, 0, 7)
}
