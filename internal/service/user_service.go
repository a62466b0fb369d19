package service

import (
	"context"
	"fmt"

	"github.com/damoang/eventhub-backend/internal/domain"
	"github.com/damoang/eventhub-backend/internal/realtime"
	"github.com/damoang/eventhub-backend/internal/repository"
)

// UserService admin member management
type UserService struct {
	repo repository.UserRepository
	bus  *realtime.Bus
}

// NewUserService creates a new UserService. bus may be nil.
func NewUserService(repo repository.UserRepository, bus *realtime.Bus) *UserService {
	return &UserService{repo: repo, bus: bus}
}

// Search lists members whose name, username or email contain term
func (s *UserService) Search(ctx context.Context, term string, offset, limit int) ([]domain.User, int64, error) {
	return s.repo.Search(ctx, term, offset, limit)
}

func (s *UserService) Get(ctx context.Context, id uint64) (*domain.User, error) {
	return s.repo.FindByID(ctx, id)
}

// Update applies only the fields present in req
func (s *UserService) Update(ctx context.Context, id uint64, req *domain.UpdateUserRequest) (*domain.User, error) {
	user, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if req.Name != nil {
		user.Name = *req.Name
	}
	if req.Username != nil {
		user.Username = *req.Username
	}
	if req.Phone != nil {
		user.Phone = *req.Phone
	}
	if req.Company != nil {
		user.Company = *req.Company
	}
	if req.Role != nil {
		user.Role = *req.Role
	}
	if err := s.repo.Update(ctx, user); err != nil {
		return nil, fmt.Errorf("update user: %w", err)
	}
	s.bus.Publish(realtime.Change(realtime.KindUserChanged))
	return user, nil
}

// Delete soft-deletes a member
func (s *UserService) Delete(ctx context.Context, id uint64) error {
	if _, err := s.repo.FindByID(ctx, id); err != nil {
		return err
	}
	if err := s.repo.Delete(ctx, id); err != nil {
		return err
	}
	s.bus.Publish(realtime.Change(realtime.KindUserChanged))
	return nil
}

// GroupService manages groups and their members. Membership changes
// publish group.changed so cached calendars are recomputed.
type GroupService struct {
	repo  repository.GroupRepository
	users repository.UserRepository
	bus   *realtime.Bus
}

// NewGroupService creates a new GroupService. bus may be nil.
func NewGroupService(repo repository.GroupRepository, users repository.UserRepository, bus *realtime.Bus) *GroupService {
	return &GroupService{repo: repo, users: users, bus: bus}
}

func (s *GroupService) List(ctx context.Context) ([]domain.Group, error) {
	return s.repo.List(ctx)
}

func (s *GroupService) Get(ctx context.Context, id uint64) (*domain.Group, error) {
	return s.repo.FindByID(ctx, id)
}

func (s *GroupService) Create(ctx context.Context, req *domain.GroupRequest) (*domain.Group, error) {
	g := &domain.Group{Title: req.Title, Description: req.Description}
	if err := s.repo.Create(ctx, g); err != nil {
		return nil, fmt.Errorf("create group: %w", err)
	}
	return g, nil
}

func (s *GroupService) Update(ctx context.Context, id uint64, req *domain.GroupRequest) (*domain.Group, error) {
	g, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	g.Title = req.Title
	g.Description = req.Description
	if err := s.repo.Update(ctx, g); err != nil {
		return nil, fmt.Errorf("update group: %w", err)
	}
	return g, nil
}

// Delete soft-deletes the group and its memberships. Event grants are kept,
// so restricted events stay restricted.
func (s *GroupService) Delete(ctx context.Context, id uint64) error {
	if _, err := s.repo.FindByID(ctx, id); err != nil {
		return err
	}
	if err := s.repo.Delete(ctx, id); err != nil {
		return err
	}
	s.bus.Publish(realtime.Change(realtime.KindGroupChanged))
	return nil
}

func (s *GroupService) Members(ctx context.Context, id uint64) ([]domain.User, error) {
	if _, err := s.repo.FindByID(ctx, id); err != nil {
		return nil, err
	}
	return s.repo.Members(ctx, id)
}

// AddMembers adds existing users; unknown ids are rejected as a whole
func (s *GroupService) AddMembers(ctx context.Context, id uint64, userIDs []uint64) ([]domain.User, error) {
	if _, err := s.repo.FindByID(ctx, id); err != nil {
		return nil, err
	}
	for _, uid := range userIDs {
		if _, err := s.users.FindByID(ctx, uid); err != nil {
			return nil, err
		}
	}
	if err := s.repo.AddMembers(ctx, id, userIDs); err != nil {
		return nil, fmt.Errorf("add members: %w", err)
	}
	s.bus.Publish(realtime.Change(realtime.KindGroupChanged))
	return s.repo.Members(ctx, id)
}

func (s *GroupService) RemoveMember(ctx context.Context, id, userID uint64) error {
	if _, err := s.repo.FindByID(ctx, id); err != nil {
		return err
	}
	if err := s.repo.RemoveMember(ctx, id, userID); err != nil {
		return err
	}
	s.bus.Publish(realtime.Change(realtime.KindGroupChanged))
	return nil
}
