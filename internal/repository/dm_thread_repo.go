package repository

import (
	"context"
	"time"

	"github.com/damoang/eventhub-backend/internal/domain"
	"gorm.io/gorm"
)

// threadOrder keeps most recent activity first with never-messaged threads last
const threadOrder = "dm_threads.last_sent_at IS NULL, dm_threads.last_sent_at DESC, dm_threads.id DESC"

// DMThreadRepository DM thread data access interface
type DMThreadRepository interface {
	ListByReadState(ctx context.Context, read bool, offset, limit int) ([]domain.DMThread, error)
	Count(ctx context.Context) (int64, error)
	CountUnread(ctx context.Context) (int64, error)
	SearchByUsername(ctx context.Context, term string, read bool) ([]domain.DMThread, error)
	FindByID(ctx context.Context, id uint64) (*domain.DMThread, error)
	FindByUserID(ctx context.Context, userID uint64) (*domain.DMThread, error)
	Create(ctx context.Context, thread *domain.DMThread) error
	SetAdminRead(ctx context.Context, id uint64, read bool) error
	Touch(ctx context.Context, id uint64, at time.Time, fromUser bool) error
	SetLabel(ctx context.Context, id uint64, labelID *uint64) error
	ReopenWithUnreadUserMessages(ctx context.Context) ([]uint64, error)
	RecomputeLastSentAt(ctx context.Context) (int64, error)
}

type dmThreadRepository struct {
	db *gorm.DB
}

// NewDMThreadRepository creates a new DMThreadRepository
func NewDMThreadRepository(db *gorm.DB) DMThreadRepository {
	return &dmThreadRepository{db: db}
}

func (r *dmThreadRepository) withRelations(ctx context.Context) *gorm.DB {
	return r.db.WithContext(ctx).Model(&domain.DMThread{}).
		Preload("User").Preload("Label").Preload("Tags")
}

// ListByReadState returns one segment of the inbox in display order
func (r *dmThreadRepository) ListByReadState(ctx context.Context, read bool, offset, limit int) ([]domain.DMThread, error) {
	var threads []domain.DMThread
	err := r.withRelations(ctx).
		Where("dm_threads.is_admin_read = ?", read).
		Order(threadOrder).
		Offset(offset).Limit(limit).
		Find(&threads).Error
	return threads, err
}

func (r *dmThreadRepository) Count(ctx context.Context) (int64, error) {
	var n int64
	err := r.db.WithContext(ctx).Model(&domain.DMThread{}).Count(&n).Error
	return n, err
}

func (r *dmThreadRepository) CountUnread(ctx context.Context) (int64, error) {
	var n int64
	err := r.db.WithContext(ctx).Model(&domain.DMThread{}).
		Where("is_admin_read = ?", false).Count(&n).Error
	return n, err
}

// SearchByUsername matches the owner's username or display name
func (r *dmThreadRepository) SearchByUsername(ctx context.Context, term string, read bool) ([]domain.DMThread, error) {
	var threads []domain.DMThread
	pattern := likePattern(term)
	err := r.withRelations(ctx).
		Joins("JOIN users ON users.id = dm_threads.user_id AND users.deleted_at IS NULL").
		Where("dm_threads.is_admin_read = ?", read).
		Where("users.username LIKE ? OR users.name LIKE ?", pattern, pattern).
		Order(threadOrder).
		Find(&threads).Error
	return threads, err
}

func (r *dmThreadRepository) FindByID(ctx context.Context, id uint64) (*domain.DMThread, error) {
	var thread domain.DMThread
	if err := r.withRelations(ctx).Where("dm_threads.id = ?", id).First(&thread).Error; err != nil {
		return nil, wrapNotFound(err, "thread", id)
	}
	return &thread, nil
}

func (r *dmThreadRepository) FindByUserID(ctx context.Context, userID uint64) (*domain.DMThread, error) {
	var thread domain.DMThread
	if err := r.withRelations(ctx).Where("dm_threads.user_id = ?", userID).First(&thread).Error; err != nil {
		return nil, wrapNotFound(err, "thread of user", userID)
	}
	return &thread, nil
}

func (r *dmThreadRepository) Create(ctx context.Context, thread *domain.DMThread) error {
	return r.db.WithContext(ctx).Create(thread).Error
}

func (r *dmThreadRepository) SetAdminRead(ctx context.Context, id uint64, read bool) error {
	return r.db.WithContext(ctx).Model(&domain.DMThread{}).
		Where("id = ?", id).Update("is_admin_read", read).Error
}

// Touch records activity. A member post also flips the thread back to unread.
func (r *dmThreadRepository) Touch(ctx context.Context, id uint64, at time.Time, fromUser bool) error {
	updates := map[string]interface{}{"last_sent_at": at}
	if fromUser {
		updates["is_admin_read"] = false
	}
	return r.db.WithContext(ctx).Model(&domain.DMThread{}).Where("id = ?", id).Updates(updates).Error
}

func (r *dmThreadRepository) SetLabel(ctx context.Context, id uint64, labelID *uint64) error {
	return r.db.WithContext(ctx).Model(&domain.DMThread{}).
		Where("id = ?", id).Update("label_id", labelID).Error
}

// ReopenWithUnreadUserMessages flips read threads that still hold unread owner messages
func (r *dmThreadRepository) ReopenWithUnreadUserMessages(ctx context.Context) ([]uint64, error) {
	var ids []uint64
	err := r.db.WithContext(ctx).Model(&domain.DMThread{}).
		Where("is_admin_read = ?", true).
		Where(`EXISTS (SELECT 1 FROM dm_messages m WHERE m.thread_id = dm_threads.id
			AND m.sender_type = ? AND m.user_id = dm_threads.user_id
			AND m.is_read = ? AND m.deleted_at IS NULL)`, domain.SenderUser, false).
		Pluck("id", &ids).Error
	if err != nil || len(ids) == 0 {
		return ids, err
	}
	err = r.db.WithContext(ctx).Model(&domain.DMThread{}).
		Where("id IN ?", ids).Update("is_admin_read", false).Error
	return ids, err
}

// RecomputeLastSentAt realigns last_sent_at with the newest live message
func (r *dmThreadRepository) RecomputeLastSentAt(ctx context.Context) (int64, error) {
	res := r.db.WithContext(ctx).Exec(`UPDATE dm_threads SET last_sent_at = (
		SELECT MAX(m.created_at) FROM dm_messages m
		WHERE m.thread_id = dm_threads.id AND m.deleted_at IS NULL)
		WHERE deleted_at IS NULL AND EXISTS (
		SELECT 1 FROM dm_messages m WHERE m.thread_id = dm_threads.id AND m.deleted_at IS NULL)`)
	return res.RowsAffected, res.Error
}
