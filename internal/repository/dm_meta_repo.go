package repository

import (
	"context"

	"github.com/damoang/eventhub-backend/internal/domain"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// DMMetaRepository labels, tags and memos of DM threads
type DMMetaRepository interface {
	ListLabels(ctx context.Context) ([]domain.DMLabel, error)
	FindLabel(ctx context.Context, id uint64) (*domain.DMLabel, error)
	CreateLabel(ctx context.Context, label *domain.DMLabel) error
	UpdateLabel(ctx context.Context, label *domain.DMLabel) error
	DeleteLabel(ctx context.Context, id uint64) error

	ListTags(ctx context.Context) ([]domain.DMTag, error)
	FindTag(ctx context.Context, id uint64) (*domain.DMTag, error)
	CreateTag(ctx context.Context, tag *domain.DMTag) error
	DeleteTag(ctx context.Context, id uint64) error
	ThreadTags(ctx context.Context, threadID uint64) ([]domain.DMTag, error)
	AttachTag(ctx context.Context, threadID, tagID uint64) error
	DetachTag(ctx context.Context, threadID, tagID uint64) error

	ListMemos(ctx context.Context, threadID uint64) ([]domain.DMMemo, error)
	FindMemo(ctx context.Context, id uint64) (*domain.DMMemo, error)
	CreateMemo(ctx context.Context, memo *domain.DMMemo) error
	UpdateMemo(ctx context.Context, memo *domain.DMMemo) error
	DeleteMemo(ctx context.Context, id uint64) error
}

type dmMetaRepository struct {
	db *gorm.DB
}

// NewDMMetaRepository creates a new DMMetaRepository
func NewDMMetaRepository(db *gorm.DB) DMMetaRepository {
	return &dmMetaRepository{db: db}
}

// 라벨

func (r *dmMetaRepository) ListLabels(ctx context.Context) ([]domain.DMLabel, error) {
	var labels []domain.DMLabel
	err := r.db.WithContext(ctx).Order("id ASC").Find(&labels).Error
	return labels, err
}

func (r *dmMetaRepository) FindLabel(ctx context.Context, id uint64) (*domain.DMLabel, error) {
	var label domain.DMLabel
	if err := r.db.WithContext(ctx).First(&label, id).Error; err != nil {
		return nil, wrapNotFound(err, "label", id)
	}
	return &label, nil
}

func (r *dmMetaRepository) CreateLabel(ctx context.Context, label *domain.DMLabel) error {
	return r.db.WithContext(ctx).Create(label).Error
}

func (r *dmMetaRepository) UpdateLabel(ctx context.Context, label *domain.DMLabel) error {
	return r.db.WithContext(ctx).Save(label).Error
}

// DeleteLabel soft-deletes the label and clears it from threads
func (r *dmMetaRepository) DeleteLabel(ctx context.Context, id uint64) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Model(&domain.DMThread{}).Where("label_id = ?", id).
			Update("label_id", nil).Error; err != nil {
			return err
		}
		return tx.Delete(&domain.DMLabel{}, id).Error
	})
}

// 태그

func (r *dmMetaRepository) ListTags(ctx context.Context) ([]domain.DMTag, error) {
	var tags []domain.DMTag
	err := r.db.WithContext(ctx).Order("name ASC").Find(&tags).Error
	return tags, err
}

func (r *dmMetaRepository) FindTag(ctx context.Context, id uint64) (*domain.DMTag, error) {
	var tag domain.DMTag
	if err := r.db.WithContext(ctx).First(&tag, id).Error; err != nil {
		return nil, wrapNotFound(err, "tag", id)
	}
	return &tag, nil
}

func (r *dmMetaRepository) CreateTag(ctx context.Context, tag *domain.DMTag) error {
	return r.db.WithContext(ctx).Create(tag).Error
}

func (r *dmMetaRepository) DeleteTag(ctx context.Context, id uint64) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("tag_id = ?", id).Delete(&domain.DMThreadTag{}).Error; err != nil {
			return err
		}
		return tx.Delete(&domain.DMTag{}, id).Error
	})
}

func (r *dmMetaRepository) ThreadTags(ctx context.Context, threadID uint64) ([]domain.DMTag, error) {
	var tags []domain.DMTag
	err := r.db.WithContext(ctx).
		Joins("JOIN dm_thread_tags tt ON tt.tag_id = dm_tags.id AND tt.deleted_at IS NULL").
		Where("tt.thread_id = ?", threadID).
		Order("dm_tags.name ASC").
		Find(&tags).Error
	return tags, err
}

func (r *dmMetaRepository) AttachTag(ctx context.Context, threadID, tagID uint64) error {
	return r.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "thread_id"}, {Name: "tag_id"}},
		DoUpdates: clause.Assignments(map[string]interface{}{"deleted_at": nil}),
	}).Create(&domain.DMThreadTag{ThreadID: threadID, TagID: tagID}).Error
}

func (r *dmMetaRepository) DetachTag(ctx context.Context, threadID, tagID uint64) error {
	return r.db.WithContext(ctx).
		Where("thread_id = ? AND tag_id = ?", threadID, tagID).
		Delete(&domain.DMThreadTag{}).Error
}

// 메모

func (r *dmMetaRepository) ListMemos(ctx context.Context, threadID uint64) ([]domain.DMMemo, error) {
	var memos []domain.DMMemo
	err := r.db.WithContext(ctx).Preload("Assignee").
		Where("thread_id = ?", threadID).
		Order("created_at DESC, id DESC").
		Find(&memos).Error
	return memos, err
}

func (r *dmMetaRepository) FindMemo(ctx context.Context, id uint64) (*domain.DMMemo, error) {
	var memo domain.DMMemo
	if err := r.db.WithContext(ctx).First(&memo, id).Error; err != nil {
		return nil, wrapNotFound(err, "memo", id)
	}
	return &memo, nil
}

func (r *dmMetaRepository) CreateMemo(ctx context.Context, memo *domain.DMMemo) error {
	return r.db.WithContext(ctx).Create(memo).Error
}

func (r *dmMetaRepository) UpdateMemo(ctx context.Context, memo *domain.DMMemo) error {
	return r.db.WithContext(ctx).Model(memo).
		Select("content", "assignee_id").
		Updates(map[string]interface{}{"content": memo.Content, "assignee_id": memo.AssigneeID}).Error
}

func (r *dmMetaRepository) DeleteMemo(ctx context.Context, id uint64) error {
	return r.db.WithContext(ctx).Delete(&domain.DMMemo{}, id).Error
}
