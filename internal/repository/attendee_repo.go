package repository

import (
	"context"
	"fmt"

	"github.com/damoang/eventhub-backend/internal/domain"
	"gorm.io/gorm"
)

// AttendeeRepository participation rows of the three offerings
type AttendeeRepository interface {
	CountEvent(ctx context.Context, eventID uint64, mode string) (int64, error)
	CountGather(ctx context.Context, eventID uint64) (int64, error)
	CountConsultation(ctx context.Context, eventID uint64) (int64, error)
	Holds(ctx context.Context, offering string, eventID, userID uint64) (bool, error)
	CreateEventAttendee(ctx context.Context, a *domain.EventAttendee) error
	CreatePaidAttendees(ctx context.Context, eventID, userID uint64, gather, consultation bool) error
	Cancel(ctx context.Context, offering string, eventID, userID uint64) (int64, error)
	ListEventAttendees(ctx context.Context, eventID uint64) ([]domain.EventAttendee, error)
	ListGatherAttendees(ctx context.Context, eventID uint64) ([]domain.GatherAttendee, error)
	ListConsultationAttendees(ctx context.Context, eventID uint64) ([]domain.ConsultationAttendee, error)
	EventIDsByUser(ctx context.Context, offering string, userID uint64) ([]uint64, error)
	ModesByUser(ctx context.Context, userID uint64) (map[uint64]string, error)
}

type attendeeRepository struct {
	db *gorm.DB
}

// NewAttendeeRepository creates a new AttendeeRepository
func NewAttendeeRepository(db *gorm.DB) AttendeeRepository {
	return &attendeeRepository{db: db}
}

func offeringModel(offering string) (interface{}, error) {
	switch offering {
	case domain.OfferingEvent:
		return &domain.EventAttendee{}, nil
	case domain.OfferingGather:
		return &domain.GatherAttendee{}, nil
	case domain.OfferingConsultation:
		return &domain.ConsultationAttendee{}, nil
	}
	return nil, fmt.Errorf("unknown offering %q", offering)
}

// CountEvent counts active main-event rows. An empty mode counts all of them.
func (r *attendeeRepository) CountEvent(ctx context.Context, eventID uint64, mode string) (int64, error) {
	var n int64
	q := r.db.WithContext(ctx).Model(&domain.EventAttendee{}).Where("event_id = ?", eventID)
	if mode != "" {
		q = q.Where("mode = ?", mode)
	}
	err := q.Count(&n).Error
	return n, err
}

func (r *attendeeRepository) CountGather(ctx context.Context, eventID uint64) (int64, error) {
	var n int64
	err := r.db.WithContext(ctx).Model(&domain.GatherAttendee{}).Where("event_id = ?", eventID).Count(&n).Error
	return n, err
}

func (r *attendeeRepository) CountConsultation(ctx context.Context, eventID uint64) (int64, error) {
	var n int64
	err := r.db.WithContext(ctx).Model(&domain.ConsultationAttendee{}).Where("event_id = ?", eventID).Count(&n).Error
	return n, err
}

func (r *attendeeRepository) Holds(ctx context.Context, offering string, eventID, userID uint64) (bool, error) {
	model, err := offeringModel(offering)
	if err != nil {
		return false, err
	}
	var n int64
	err = r.db.WithContext(ctx).Model(model).
		Where("event_id = ? AND user_id = ?", eventID, userID).Count(&n).Error
	return n > 0, err
}

func (r *attendeeRepository) CreateEventAttendee(ctx context.Context, a *domain.EventAttendee) error {
	return r.db.WithContext(ctx).Create(a).Error
}

// CreatePaidAttendees inserts the paid rows of one completed checkout together
func (r *attendeeRepository) CreatePaidAttendees(ctx context.Context, eventID, userID uint64, gather, consultation bool) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if gather {
			if err := tx.Create(&domain.GatherAttendee{EventID: eventID, UserID: userID}).Error; err != nil {
				return err
			}
		}
		if consultation {
			if err := tx.Create(&domain.ConsultationAttendee{EventID: eventID, UserID: userID}).Error; err != nil {
				return err
			}
		}
		return nil
	})
}

// Cancel soft-deletes the user's rows of one offering
func (r *attendeeRepository) Cancel(ctx context.Context, offering string, eventID, userID uint64) (int64, error) {
	model, err := offeringModel(offering)
	if err != nil {
		return 0, err
	}
	res := r.db.WithContext(ctx).Where("event_id = ? AND user_id = ?", eventID, userID).Delete(model)
	return res.RowsAffected, res.Error
}

func (r *attendeeRepository) ListEventAttendees(ctx context.Context, eventID uint64) ([]domain.EventAttendee, error) {
	var rows []domain.EventAttendee
	err := r.db.WithContext(ctx).Preload("User").Where("event_id = ?", eventID).Order("id ASC").Find(&rows).Error
	return rows, err
}

func (r *attendeeRepository) ListGatherAttendees(ctx context.Context, eventID uint64) ([]domain.GatherAttendee, error) {
	var rows []domain.GatherAttendee
	err := r.db.WithContext(ctx).Preload("User").Where("event_id = ?", eventID).Order("id ASC").Find(&rows).Error
	return rows, err
}

func (r *attendeeRepository) ListConsultationAttendees(ctx context.Context, eventID uint64) ([]domain.ConsultationAttendee, error) {
	var rows []domain.ConsultationAttendee
	err := r.db.WithContext(ctx).Preload("User").Where("event_id = ?", eventID).Order("id ASC").Find(&rows).Error
	return rows, err
}

func (r *attendeeRepository) EventIDsByUser(ctx context.Context, offering string, userID uint64) ([]uint64, error) {
	model, err := offeringModel(offering)
	if err != nil {
		return nil, err
	}
	var ids []uint64
	err = r.db.WithContext(ctx).Model(model).Where("user_id = ?", userID).Distinct().Pluck("event_id", &ids).Error
	return ids, err
}

// ModesByUser maps event id to the user's main-event participation mode
func (r *attendeeRepository) ModesByUser(ctx context.Context, userID uint64) (map[uint64]string, error) {
	var rows []domain.EventAttendee
	if err := r.db.WithContext(ctx).Where("user_id = ?", userID).Find(&rows).Error; err != nil {
		return nil, err
	}
	out := make(map[uint64]string, len(rows))
	for _, row := range rows {
		out[row.EventID] = row.Mode
	}
	return out, nil
}
