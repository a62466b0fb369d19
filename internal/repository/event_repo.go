package repository

import (
	"context"
	"time"

	"github.com/damoang/eventhub-backend/internal/domain"
	"gorm.io/gorm"
)

// EventRepository event data access interface
type EventRepository interface {
	FindByID(ctx context.Context, id uint64) (*domain.Event, error)
	FindByIDs(ctx context.Context, ids []uint64) ([]domain.Event, error)
	List(ctx context.Context, offset, limit int) ([]domain.Event, int64, error)
	ListBetween(ctx context.Context, from, to time.Time) ([]domain.Event, error)
	Create(ctx context.Context, event *domain.Event, visibleGroupIDs []uint64) error
	Update(ctx context.Context, event *domain.Event) error
	Delete(ctx context.Context, id uint64) error
	VisibleGroupIDs(ctx context.Context, eventID uint64) ([]uint64, error)
	VisibleGroupMap(ctx context.Context, eventIDs []uint64) (map[uint64][]uint64, error)
	ReplaceVisibleGroups(ctx context.Context, eventID uint64, groupIDs []uint64) error
}

type eventRepository struct {
	db *gorm.DB
}

// NewEventRepository creates a new EventRepository
func NewEventRepository(db *gorm.DB) EventRepository {
	return &eventRepository{db: db}
}

func (r *eventRepository) FindByID(ctx context.Context, id uint64) (*domain.Event, error) {
	var event domain.Event
	if err := r.db.WithContext(ctx).First(&event, id).Error; err != nil {
		return nil, wrapNotFound(err, "event", id)
	}
	return &event, nil
}

// FindByIDs returns the live events among ids ordered by start time
func (r *eventRepository) FindByIDs(ctx context.Context, ids []uint64) ([]domain.Event, error) {
	var events []domain.Event
	if len(ids) == 0 {
		return events, nil
	}
	err := r.db.WithContext(ctx).Where("id IN ?", ids).Order("start_at ASC, id ASC").Find(&events).Error
	return events, err
}

func (r *eventRepository) List(ctx context.Context, offset, limit int) ([]domain.Event, int64, error) {
	var events []domain.Event
	var total int64
	query := r.db.WithContext(ctx).Model(&domain.Event{})
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}
	err := query.Order("start_at DESC, id DESC").Offset(offset).Limit(limit).Find(&events).Error
	return events, total, err
}

// ListBetween returns events overlapping [from, to)
func (r *eventRepository) ListBetween(ctx context.Context, from, to time.Time) ([]domain.Event, error) {
	var events []domain.Event
	err := r.db.WithContext(ctx).
		Where("start_at < ? AND end_at >= ?", to, from).
		Order("start_at ASC, id ASC").
		Find(&events).Error
	return events, err
}

func (r *eventRepository) Create(ctx context.Context, event *domain.Event, visibleGroupIDs []uint64) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(event).Error; err != nil {
			return err
		}
		return insertVisibleGroups(tx, event.ID, visibleGroupIDs)
	})
}

func (r *eventRepository) Update(ctx context.Context, event *domain.Event) error {
	return r.db.WithContext(ctx).Save(event).Error
}

func (r *eventRepository) Delete(ctx context.Context, id uint64) error {
	return r.db.WithContext(ctx).Delete(&domain.Event{}, id).Error
}

func (r *eventRepository) VisibleGroupIDs(ctx context.Context, eventID uint64) ([]uint64, error) {
	var ids []uint64
	err := r.db.WithContext(ctx).Model(&domain.EventVisibleGroup{}).
		Where("event_id = ?", eventID).Order("group_id").Pluck("group_id", &ids).Error
	return ids, err
}

// VisibleGroupMap loads the visibility rows of many events in one query
func (r *eventRepository) VisibleGroupMap(ctx context.Context, eventIDs []uint64) (map[uint64][]uint64, error) {
	out := make(map[uint64][]uint64, len(eventIDs))
	if len(eventIDs) == 0 {
		return out, nil
	}
	var rows []domain.EventVisibleGroup
	if err := r.db.WithContext(ctx).Where("event_id IN ?", eventIDs).Find(&rows).Error; err != nil {
		return nil, err
	}
	for _, row := range rows {
		out[row.EventID] = append(out[row.EventID], row.GroupID)
	}
	return out, nil
}

func (r *eventRepository) ReplaceVisibleGroups(ctx context.Context, eventID uint64, groupIDs []uint64) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("event_id = ?", eventID).Delete(&domain.EventVisibleGroup{}).Error; err != nil {
			return err
		}
		return insertVisibleGroups(tx, eventID, groupIDs)
	})
}

func insertVisibleGroups(tx *gorm.DB, eventID uint64, groupIDs []uint64) error {
	if len(groupIDs) == 0 {
		return nil
	}
	seen := make(map[uint64]bool, len(groupIDs))
	rows := make([]domain.EventVisibleGroup, 0, len(groupIDs))
	for _, gid := range groupIDs {
		if seen[gid] {
			continue
		}
		seen[gid] = true
		rows = append(rows, domain.EventVisibleGroup{EventID: eventID, GroupID: gid})
	}
	return tx.Create(&rows).Error
}
