package repository

import (
	"context"
	"time"

	"github.com/damoang/eventhub-backend/internal/domain"
	"gorm.io/gorm"
)

// ArchiveRepository archive data access interface
type ArchiveRepository interface {
	FindByID(ctx context.Context, id uint64) (*domain.Archive, error)
	List(ctx context.Context, offset, limit int) ([]domain.Archive, int64, error)
	ListPublished(ctx context.Context, at time.Time, offset, limit int) ([]domain.Archive, int64, error)
	Create(ctx context.Context, a *domain.Archive) error
	Update(ctx context.Context, a *domain.Archive) error
	Delete(ctx context.Context, id uint64) error
}

type archiveRepository struct {
	db *gorm.DB
}

// NewArchiveRepository creates a new ArchiveRepository
func NewArchiveRepository(db *gorm.DB) ArchiveRepository {
	return &archiveRepository{db: db}
}

func (r *archiveRepository) FindByID(ctx context.Context, id uint64) (*domain.Archive, error) {
	var a domain.Archive
	if err := r.db.WithContext(ctx).First(&a, id).Error; err != nil {
		return nil, wrapNotFound(err, "archive", id)
	}
	return &a, nil
}

func (r *archiveRepository) List(ctx context.Context, offset, limit int) ([]domain.Archive, int64, error) {
	var rows []domain.Archive
	var total int64
	q := r.db.WithContext(ctx).Model(&domain.Archive{})
	if err := q.Count(&total).Error; err != nil {
		return nil, 0, err
	}
	err := q.Order("publish_start_at DESC, id DESC").Offset(offset).Limit(limit).Find(&rows).Error
	return rows, total, err
}

func (r *archiveRepository) ListPublished(ctx context.Context, at time.Time, offset, limit int) ([]domain.Archive, int64, error) {
	var rows []domain.Archive
	var total int64
	q := publishedAt(r.db.WithContext(ctx).Model(&domain.Archive{}), at)
	if err := q.Count(&total).Error; err != nil {
		return nil, 0, err
	}
	err := q.Order("publish_start_at DESC, id DESC").Offset(offset).Limit(limit).Find(&rows).Error
	return rows, total, err
}

func (r *archiveRepository) Create(ctx context.Context, a *domain.Archive) error {
	return r.db.WithContext(ctx).Create(a).Error
}

func (r *archiveRepository) Update(ctx context.Context, a *domain.Archive) error {
	return r.db.WithContext(ctx).Save(a).Error
}

func (r *archiveRepository) Delete(ctx context.Context, id uint64) error {
	return r.db.WithContext(ctx).Delete(&domain.Archive{}, id).Error
}

// FAQRepository faq data access interface
type FAQRepository interface {
	List(ctx context.Context) ([]domain.FAQ, error)
	FindByID(ctx context.Context, id uint64) (*domain.FAQ, error)
	Create(ctx context.Context, f *domain.FAQ) error
	Update(ctx context.Context, f *domain.FAQ) error
	Delete(ctx context.Context, id uint64) error
	Reorder(ctx context.Context, ids []uint64) error
}

type faqRepository struct {
	db *gorm.DB
}

// NewFAQRepository creates a new FAQRepository
func NewFAQRepository(db *gorm.DB) FAQRepository {
	return &faqRepository{db: db}
}

func (r *faqRepository) List(ctx context.Context) ([]domain.FAQ, error) {
	var rows []domain.FAQ
	err := r.db.WithContext(ctx).Order("sort_order ASC, id ASC").Find(&rows).Error
	return rows, err
}

func (r *faqRepository) FindByID(ctx context.Context, id uint64) (*domain.FAQ, error) {
	var f domain.FAQ
	if err := r.db.WithContext(ctx).First(&f, id).Error; err != nil {
		return nil, wrapNotFound(err, "faq", id)
	}
	return &f, nil
}

func (r *faqRepository) Create(ctx context.Context, f *domain.FAQ) error {
	return r.db.WithContext(ctx).Create(f).Error
}

func (r *faqRepository) Update(ctx context.Context, f *domain.FAQ) error {
	return r.db.WithContext(ctx).Save(f).Error
}

func (r *faqRepository) Delete(ctx context.Context, id uint64) error {
	return r.db.WithContext(ctx).Delete(&domain.FAQ{}, id).Error
}

// Reorder assigns sort_order by position in ids
func (r *faqRepository) Reorder(ctx context.Context, ids []uint64) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		for i, id := range ids {
			if err := tx.Model(&domain.FAQ{}).Where("id = ?", id).Update("sort_order", i+1).Error; err != nil {
				return err
			}
		}
		return nil
	})
}
