package service

import (
	"context"
	"fmt"

	"github.com/damoang/eventhub-backend/internal/common"
	"github.com/damoang/eventhub-backend/internal/domain"
	"github.com/damoang/eventhub-backend/internal/realtime"
	"github.com/damoang/eventhub-backend/internal/repository"
	pkglogger "github.com/damoang/eventhub-backend/pkg/logger"
)

// EventWithGroups is the admin view of an event
type EventWithGroups struct {
	domain.Event
	VisibleGroupIDs []uint64 `json:"visible_group_ids"`
}

// EventAttendees lists every active participant of an event, per offering
type EventAttendees struct {
	Event        []domain.EventAttendee        `json:"event"`
	Gather       []domain.GatherAttendee       `json:"gather"`
	Consultation []domain.ConsultationAttendee `json:"consultation"`
}

// EventService business logic for events
type EventService struct {
	repo      repository.EventRepository
	attendees repository.AttendeeRepository
	bus       *realtime.Bus
}

// NewEventService creates a new EventService
func NewEventService(repo repository.EventRepository, attendees repository.AttendeeRepository, bus *realtime.Bus) *EventService {
	return &EventService{repo: repo, attendees: attendees, bus: bus}
}

func validateEvent(req *domain.EventRequest) error {
	if !req.StartAt.Before(req.EndAt) {
		return fmt.Errorf("start %s, end %s: %w", req.StartAt, req.EndAt, common.ErrInvalidEventRange)
	}
	return nil
}

// List events, newest start first
func (s *EventService) List(ctx context.Context, offset, limit int) ([]domain.Event, int64, error) {
	return s.repo.List(ctx, offset, limit)
}

// Get returns one event with its visibility groups
func (s *EventService) Get(ctx context.Context, id uint64) (*EventWithGroups, error) {
	event, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	groups, err := s.repo.VisibleGroupIDs(ctx, id)
	if err != nil {
		return nil, err
	}
	return &EventWithGroups{Event: *event, VisibleGroupIDs: groups}, nil
}

// Create validates and stores a new event
func (s *EventService) Create(ctx context.Context, req *domain.EventRequest) (*EventWithGroups, error) {
	if err := validateEvent(req); err != nil {
		return nil, err
	}
	event := &domain.Event{}
	req.Apply(event)
	if err := s.repo.Create(ctx, event, req.VisibleGroupIDs); err != nil {
		return nil, fmt.Errorf("create event: %w", err)
	}
	pkglogger.GetLogger().Info().Uint64("event_id", event.ID).Str("type", event.Type).Msg("event created")
	s.bus.Publish(realtime.EventChange(realtime.KindEventChanged, event.ID))
	return s.Get(ctx, event.ID)
}

// Update replaces the event's fields and visibility groups
func (s *EventService) Update(ctx context.Context, id uint64, req *domain.EventRequest) (*EventWithGroups, error) {
	if err := validateEvent(req); err != nil {
		return nil, err
	}
	event, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	req.Apply(event)
	if err := s.repo.Update(ctx, event); err != nil {
		return nil, fmt.Errorf("update event: %w", err)
	}
	if err := s.repo.ReplaceVisibleGroups(ctx, id, req.VisibleGroupIDs); err != nil {
		return nil, fmt.Errorf("replace visible groups: %w", err)
	}
	s.bus.Publish(realtime.EventChange(realtime.KindEventChanged, id))
	return s.Get(ctx, id)
}

// SetVisibleGroups replaces only the visibility list
func (s *EventService) SetVisibleGroups(ctx context.Context, id uint64, groupIDs []uint64) (*EventWithGroups, error) {
	if _, err := s.repo.FindByID(ctx, id); err != nil {
		return nil, err
	}
	if err := s.repo.ReplaceVisibleGroups(ctx, id, groupIDs); err != nil {
		return nil, fmt.Errorf("replace visible groups: %w", err)
	}
	s.bus.Publish(realtime.EventChange(realtime.KindEventChanged, id))
	return s.Get(ctx, id)
}

// Delete soft-deletes an event
func (s *EventService) Delete(ctx context.Context, id uint64) error {
	if _, err := s.repo.FindByID(ctx, id); err != nil {
		return err
	}
	if err := s.repo.Delete(ctx, id); err != nil {
		return fmt.Errorf("delete event: %w", err)
	}
	s.bus.Publish(realtime.EventChange(realtime.KindEventChanged, id))
	return nil
}

// Attendees lists the active participants of each offering
func (s *EventService) Attendees(ctx context.Context, id uint64) (*EventAttendees, error) {
	if _, err := s.repo.FindByID(ctx, id); err != nil {
		return nil, err
	}
	ev, err := s.attendees.ListEventAttendees(ctx, id)
	if err != nil {
		return nil, err
	}
	ga, err := s.attendees.ListGatherAttendees(ctx, id)
	if err != nil {
		return nil, err
	}
	co, err := s.attendees.ListConsultationAttendees(ctx, id)
	if err != nil {
		return nil, err
	}
	return &EventAttendees{Event: ev, Gather: ga, Consultation: co}, nil
}

// FindVisible returns an event for a member, hiding events they may not see
func (s *EventService) FindVisible(ctx context.Context, schedule *ScheduleService, userID, id uint64) (*domain.Event, error) {
	event, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	ok, err := schedule.CanView(ctx, userID, event)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, fmt.Errorf("event %d: %w", id, common.ErrNotFound)
	}
	return event, nil
}
