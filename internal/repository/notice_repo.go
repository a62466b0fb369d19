package repository

import (
	"context"
	"time"

	"github.com/damoang/eventhub-backend/internal/domain"
	"gorm.io/gorm"
)

// NoticeRepository notice, category and attachment data access
type NoticeRepository interface {
	FindByID(ctx context.Context, id uint64) (*domain.Notice, error)
	FindByIDs(ctx context.Context, ids []uint64) ([]domain.Notice, error)
	List(ctx context.Context, offset, limit int) ([]domain.Notice, int64, error)
	ListPublished(ctx context.Context, at time.Time, categoryID *uint64, offset, limit int) ([]domain.Notice, int64, error)
	SearchPublished(ctx context.Context, at time.Time, term string, limit int) ([]domain.Notice, error)
	ListAll(ctx context.Context) ([]domain.Notice, error)
	Create(ctx context.Context, notice *domain.Notice) error
	Update(ctx context.Context, notice *domain.Notice) error
	Delete(ctx context.Context, id uint64) error

	ListCategories(ctx context.Context) ([]domain.NoticeCategory, error)
	FindCategory(ctx context.Context, id uint64) (*domain.NoticeCategory, error)
	CreateCategory(ctx context.Context, c *domain.NoticeCategory) error
	UpdateCategory(ctx context.Context, c *domain.NoticeCategory) error
	DeleteCategory(ctx context.Context, id uint64) error

	CreateFile(ctx context.Context, f *domain.NoticeFile) error
	FindFile(ctx context.Context, id uint64) (*domain.NoticeFile, error)
	DeleteFile(ctx context.Context, id uint64) error
}

type noticeRepository struct {
	db *gorm.DB
}

// NewNoticeRepository creates a new NoticeRepository
func NewNoticeRepository(db *gorm.DB) NoticeRepository {
	return &noticeRepository{db: db}
}

func (r *noticeRepository) withRelations(ctx context.Context) *gorm.DB {
	return r.db.WithContext(ctx).Model(&domain.Notice{}).Preload("Category").Preload("Files")
}

func publishedAt(db *gorm.DB, at time.Time) *gorm.DB {
	return db.Where("publish_start_at <= ? AND (publish_end_at IS NULL OR publish_end_at > ?)", at, at)
}

func (r *noticeRepository) FindByID(ctx context.Context, id uint64) (*domain.Notice, error) {
	var n domain.Notice
	if err := r.withRelations(ctx).Where("id = ?", id).First(&n).Error; err != nil {
		return nil, wrapNotFound(err, "notice", id)
	}
	return &n, nil
}

// FindByIDs keeps the order of ids
func (r *noticeRepository) FindByIDs(ctx context.Context, ids []uint64) ([]domain.Notice, error) {
	if len(ids) == 0 {
		return nil, nil
	}
	var rows []domain.Notice
	if err := r.withRelations(ctx).Where("id IN ?", ids).Find(&rows).Error; err != nil {
		return nil, err
	}
	byID := make(map[uint64]domain.Notice, len(rows))
	for _, n := range rows {
		byID[n.ID] = n
	}
	out := make([]domain.Notice, 0, len(rows))
	for _, id := range ids {
		if n, ok := byID[id]; ok {
			out = append(out, n)
		}
	}
	return out, nil
}

func (r *noticeRepository) List(ctx context.Context, offset, limit int) ([]domain.Notice, int64, error) {
	var rows []domain.Notice
	var total int64
	if err := r.db.WithContext(ctx).Model(&domain.Notice{}).Count(&total).Error; err != nil {
		return nil, 0, err
	}
	err := r.withRelations(ctx).Order("publish_start_at DESC, id DESC").Offset(offset).Limit(limit).Find(&rows).Error
	return rows, total, err
}

func (r *noticeRepository) ListPublished(ctx context.Context, at time.Time, categoryID *uint64, offset, limit int) ([]domain.Notice, int64, error) {
	var rows []domain.Notice
	var total int64
	filter := func(db *gorm.DB) *gorm.DB {
		db = publishedAt(db, at)
		if categoryID != nil {
			db = db.Where("category_id = ?", *categoryID)
		}
		return db
	}
	if err := r.db.WithContext(ctx).Model(&domain.Notice{}).Scopes(filter).Count(&total).Error; err != nil {
		return nil, 0, err
	}
	err := r.withRelations(ctx).Scopes(filter).Order("publish_start_at DESC, id DESC").Offset(offset).Limit(limit).Find(&rows).Error
	return rows, total, err
}

// SearchPublished is the LIKE fallback used when no search index is configured
func (r *noticeRepository) SearchPublished(ctx context.Context, at time.Time, term string, limit int) ([]domain.Notice, error) {
	var rows []domain.Notice
	p := likePattern(term)
	err := publishedAt(r.withRelations(ctx), at).
		Where("title LIKE ? OR body LIKE ?", p, p).
		Order("publish_start_at DESC, id DESC").
		Limit(limit).
		Find(&rows).Error
	return rows, err
}

func (r *noticeRepository) ListAll(ctx context.Context) ([]domain.Notice, error) {
	var rows []domain.Notice
	err := r.db.WithContext(ctx).Order("id ASC").Find(&rows).Error
	return rows, err
}

func (r *noticeRepository) Create(ctx context.Context, notice *domain.Notice) error {
	return r.db.WithContext(ctx).Omit("Category", "Files").Create(notice).Error
}

func (r *noticeRepository) Update(ctx context.Context, notice *domain.Notice) error {
	return r.db.WithContext(ctx).Omit("Category", "Files").Save(notice).Error
}

func (r *noticeRepository) Delete(ctx context.Context, id uint64) error {
	return r.db.WithContext(ctx).Delete(&domain.Notice{}, id).Error
}

func (r *noticeRepository) ListCategories(ctx context.Context) ([]domain.NoticeCategory, error) {
	var rows []domain.NoticeCategory
	err := r.db.WithContext(ctx).Order("sort_order ASC, id ASC").Find(&rows).Error
	return rows, err
}

func (r *noticeRepository) FindCategory(ctx context.Context, id uint64) (*domain.NoticeCategory, error) {
	var c domain.NoticeCategory
	if err := r.db.WithContext(ctx).First(&c, id).Error; err != nil {
		return nil, wrapNotFound(err, "notice category", id)
	}
	return &c, nil
}

func (r *noticeRepository) CreateCategory(ctx context.Context, c *domain.NoticeCategory) error {
	return r.db.WithContext(ctx).Create(c).Error
}

func (r *noticeRepository) UpdateCategory(ctx context.Context, c *domain.NoticeCategory) error {
	return r.db.WithContext(ctx).Save(c).Error
}

// DeleteCategory detaches notices from the category before soft-deleting it
func (r *noticeRepository) DeleteCategory(ctx context.Context, id uint64) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Model(&domain.Notice{}).Where("category_id = ?", id).
			Update("category_id", nil).Error; err != nil {
			return err
		}
		return tx.Delete(&domain.NoticeCategory{}, id).Error
	})
}

func (r *noticeRepository) CreateFile(ctx context.Context, f *domain.NoticeFile) error {
	return r.db.WithContext(ctx).Create(f).Error
}

func (r *noticeRepository) FindFile(ctx context.Context, id uint64) (*domain.NoticeFile, error) {
	var f domain.NoticeFile
	if err := r.db.WithContext(ctx).First(&f, id).Error; err != nil {
		return nil, wrapNotFound(err, "notice file", id)
	}
	return &f, nil
}

func (r *noticeRepository) DeleteFile(ctx context.Context, id uint64) error {
	return r.db.WithContext(ctx).Delete(&domain.NoticeFile{}, id).Error
}
