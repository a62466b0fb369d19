package repository

import (
	"context"

	"github.com/damoang/eventhub-backend/internal/domain"
	"gorm.io/gorm"
)

// DMMessageRepository DM message data access interface
type DMMessageRepository interface {
	Create(ctx context.Context, msg *domain.DMMessage) error
	CreateImage(ctx context.Context, img *domain.DMMessageImage) error
	ListNewestFirst(ctx context.Context, threadID uint64, offset, limit int) ([]domain.DMMessage, error)
	CountByThread(ctx context.Context, threadID uint64) (int64, error)
	MarkOwnerMessagesRead(ctx context.Context, threadID, ownerID uint64) (int64, error)
	MarkAdminMessagesRead(ctx context.Context, threadID uint64) (int64, error)
}

type dmMessageRepository struct {
	db *gorm.DB
}

// NewDMMessageRepository creates a new DMMessageRepository
func NewDMMessageRepository(db *gorm.DB) DMMessageRepository {
	return &dmMessageRepository{db: db}
}

func (r *dmMessageRepository) Create(ctx context.Context, msg *domain.DMMessage) error {
	return r.db.WithContext(ctx).Create(msg).Error
}

func (r *dmMessageRepository) CreateImage(ctx context.Context, img *domain.DMMessageImage) error {
	return r.db.WithContext(ctx).Create(img).Error
}

func (r *dmMessageRepository) ListNewestFirst(ctx context.Context, threadID uint64, offset, limit int) ([]domain.DMMessage, error) {
	var msgs []domain.DMMessage
	err := r.db.WithContext(ctx).
		Preload("Images", func(db *gorm.DB) *gorm.DB { return db.Order("id ASC") }).
		Where("thread_id = ?", threadID).
		Order("created_at DESC, id DESC").
		Offset(offset).Limit(limit).
		Find(&msgs).Error
	return msgs, err
}

func (r *dmMessageRepository) CountByThread(ctx context.Context, threadID uint64) (int64, error) {
	var n int64
	err := r.db.WithContext(ctx).Model(&domain.DMMessage{}).
		Where("thread_id = ?", threadID).Count(&n).Error
	return n, err
}

// MarkOwnerMessagesRead touches only messages the thread owner sent
func (r *dmMessageRepository) MarkOwnerMessagesRead(ctx context.Context, threadID, ownerID uint64) (int64, error) {
	res := r.db.WithContext(ctx).Model(&domain.DMMessage{}).
		Where("thread_id = ? AND sender_type = ? AND user_id = ? AND is_read = ?",
			threadID, domain.SenderUser, ownerID, false).
		Update("is_read", true)
	return res.RowsAffected, res.Error
}

// MarkAdminMessagesRead is the member-side counterpart
func (r *dmMessageRepository) MarkAdminMessagesRead(ctx context.Context, threadID uint64) (int64, error) {
	res := r.db.WithContext(ctx).Model(&domain.DMMessage{}).
		Where("thread_id = ? AND sender_type = ? AND is_read = ?", threadID, domain.SenderAdmin, false).
		Update("is_read", true)
	return res.RowsAffected, res.Error
}
