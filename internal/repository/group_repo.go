package repository

import (
	"context"

	"github.com/damoang/eventhub-backend/internal/domain"
	"gorm.io/gorm"
)

// GroupRepository group data access interface
type GroupRepository interface {
	List(ctx context.Context) ([]domain.Group, error)
	FindByID(ctx context.Context, id uint64) (*domain.Group, error)
	Create(ctx context.Context, group *domain.Group) error
	Update(ctx context.Context, group *domain.Group) error
	Delete(ctx context.Context, id uint64) error
	Members(ctx context.Context, groupID uint64) ([]domain.User, error)
	AddMembers(ctx context.Context, groupID uint64, userIDs []uint64) error
	RemoveMember(ctx context.Context, groupID, userID uint64) error
	GroupIDsOfUser(ctx context.Context, userID uint64) ([]uint64, error)
}

type groupRepository struct {
	db *gorm.DB
}

// NewGroupRepository creates a new GroupRepository
func NewGroupRepository(db *gorm.DB) GroupRepository {
	return &groupRepository{db: db}
}

func (r *groupRepository) List(ctx context.Context) ([]domain.Group, error) {
	var groups []domain.Group
	err := r.db.WithContext(ctx).Order("id ASC").Find(&groups).Error
	return groups, err
}

func (r *groupRepository) FindByID(ctx context.Context, id uint64) (*domain.Group, error) {
	var group domain.Group
	if err := r.db.WithContext(ctx).First(&group, id).Error; err != nil {
		return nil, wrapNotFound(err, "group", id)
	}
	return &group, nil
}

func (r *groupRepository) Create(ctx context.Context, group *domain.Group) error {
	return r.db.WithContext(ctx).Create(group).Error
}

func (r *groupRepository) Update(ctx context.Context, group *domain.Group) error {
	return r.db.WithContext(ctx).Save(group).Error
}

func (r *groupRepository) Delete(ctx context.Context, id uint64) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("group_id = ?", id).Delete(&domain.GroupUser{}).Error; err != nil {
			return err
		}
		// event grants stay: an event listing only this group must not turn public
		return tx.Delete(&domain.Group{}, id).Error
	})
}

func (r *groupRepository) Members(ctx context.Context, groupID uint64) ([]domain.User, error) {
	var users []domain.User
	err := r.db.WithContext(ctx).
		Joins("JOIN group_users gu ON gu.user_id = users.id AND gu.deleted_at IS NULL").
		Where("gu.group_id = ?", groupID).
		Order("users.id ASC").
		Find(&users).Error
	return users, err
}

// AddMembers skips users that are already members
func (r *groupRepository) AddMembers(ctx context.Context, groupID uint64, userIDs []uint64) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var existing []uint64
		if err := tx.Model(&domain.GroupUser{}).Where("group_id = ? AND user_id IN ?", groupID, userIDs).
			Pluck("user_id", &existing).Error; err != nil {
			return err
		}
		have := make(map[uint64]bool, len(existing))
		for _, id := range existing {
			have[id] = true
		}
		for _, uid := range userIDs {
			if have[uid] {
				continue
			}
			have[uid] = true
			if err := tx.Create(&domain.GroupUser{GroupID: groupID, UserID: uid}).Error; err != nil {
				return err
			}
		}
		return nil
	})
}

func (r *groupRepository) RemoveMember(ctx context.Context, groupID, userID uint64) error {
	return r.db.WithContext(ctx).Where("group_id = ? AND user_id = ?", groupID, userID).
		Delete(&domain.GroupUser{}).Error
}

func (r *groupRepository) GroupIDsOfUser(ctx context.Context, userID uint64) ([]uint64, error) {
	var ids []uint64
	err := r.db.WithContext(ctx).Model(&domain.GroupUser{}).
		Where("user_id = ?", userID).Pluck("group_id", &ids).Error
	return ids, err
}
