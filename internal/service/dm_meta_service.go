package service

import (
	"context"
	"fmt"
	"strings"

	"github.com/damoang/eventhub-backend/internal/common"
	"github.com/damoang/eventhub-backend/internal/domain"
	"github.com/damoang/eventhub-backend/internal/realtime"
	"github.com/damoang/eventhub-backend/internal/repository"
)

// DMMetaService labels, tags and memos. Every mutation publishes a
// metadata-only change so the message pane is left alone.
type DMMetaService struct {
	meta    repository.DMMetaRepository
	threads repository.DMThreadRepository
	bus     *realtime.Bus
}

// NewDMMetaService creates a new DMMetaService
func NewDMMetaService(meta repository.DMMetaRepository, threads repository.DMThreadRepository, bus *realtime.Bus) *DMMetaService {
	return &DMMetaService{meta: meta, threads: threads, bus: bus}
}

// 라벨

func (s *DMMetaService) ListLabels(ctx context.Context) ([]domain.DMLabel, error) {
	return s.meta.ListLabels(ctx)
}

func (s *DMMetaService) CreateLabel(ctx context.Context, req *domain.LabelRequest) (*domain.DMLabel, error) {
	label := &domain.DMLabel{Name: strings.TrimSpace(req.Name), Color: req.Color}
	if label.Name == "" {
		return nil, fmt.Errorf("label name: %w", common.ErrInvalidInput)
	}
	if err := s.meta.CreateLabel(ctx, label); err != nil {
		return nil, err
	}
	return label, nil
}

func (s *DMMetaService) UpdateLabel(ctx context.Context, id uint64, req *domain.LabelRequest) (*domain.DMLabel, error) {
	label, err := s.meta.FindLabel(ctx, id)
	if err != nil {
		return nil, err
	}
	label.Name = strings.TrimSpace(req.Name)
	label.Color = req.Color
	if err := s.meta.UpdateLabel(ctx, label); err != nil {
		return nil, err
	}
	// badges on the list show the label
	s.bus.Publish(realtime.ThreadEvent(realtime.KindThreadLabelChanged, 0))
	return label, nil
}

func (s *DMMetaService) DeleteLabel(ctx context.Context, id uint64) error {
	if _, err := s.meta.FindLabel(ctx, id); err != nil {
		return err
	}
	if err := s.meta.DeleteLabel(ctx, id); err != nil {
		return err
	}
	s.bus.Publish(realtime.ThreadEvent(realtime.KindThreadLabelChanged, 0))
	return nil
}

// SetThreadLabel assigns a single label; nil clears it
func (s *DMMetaService) SetThreadLabel(ctx context.Context, threadID uint64, labelID *uint64) (*domain.DMThread, error) {
	if _, err := s.threads.FindByID(ctx, threadID); err != nil {
		return nil, err
	}
	if labelID != nil {
		if _, err := s.meta.FindLabel(ctx, *labelID); err != nil {
			return nil, err
		}
	}
	if err := s.threads.SetLabel(ctx, threadID, labelID); err != nil {
		return nil, fmt.Errorf("set label: %w", err)
	}
	s.bus.Publish(realtime.ThreadEvent(realtime.KindThreadLabelChanged, threadID))
	return s.threads.FindByID(ctx, threadID)
}

// 태그

func (s *DMMetaService) ListTags(ctx context.Context) ([]domain.DMTag, error) {
	return s.meta.ListTags(ctx)
}

func (s *DMMetaService) CreateTag(ctx context.Context, req *domain.TagRequest) (*domain.DMTag, error) {
	tag := &domain.DMTag{Name: strings.TrimSpace(req.Name)}
	if tag.Name == "" {
		return nil, fmt.Errorf("tag name: %w", common.ErrInvalidInput)
	}
	if err := s.meta.CreateTag(ctx, tag); err != nil {
		return nil, err
	}
	return tag, nil
}

func (s *DMMetaService) DeleteTag(ctx context.Context, id uint64) error {
	if _, err := s.meta.FindTag(ctx, id); err != nil {
		return err
	}
	if err := s.meta.DeleteTag(ctx, id); err != nil {
		return err
	}
	s.bus.Publish(realtime.ThreadEvent(realtime.KindThreadTagsChanged, 0))
	return nil
}

func (s *DMMetaService) ThreadTags(ctx context.Context, threadID uint64) ([]domain.DMTag, error) {
	if _, err := s.threads.FindByID(ctx, threadID); err != nil {
		return nil, err
	}
	return s.meta.ThreadTags(ctx, threadID)
}

// AttachTag is idempotent
func (s *DMMetaService) AttachTag(ctx context.Context, threadID, tagID uint64) ([]domain.DMTag, error) {
	if _, err := s.threads.FindByID(ctx, threadID); err != nil {
		return nil, err
	}
	if _, err := s.meta.FindTag(ctx, tagID); err != nil {
		return nil, err
	}
	if err := s.meta.AttachTag(ctx, threadID, tagID); err != nil {
		return nil, fmt.Errorf("attach tag: %w", err)
	}
	s.bus.Publish(realtime.ThreadEvent(realtime.KindThreadTagsChanged, threadID))
	return s.meta.ThreadTags(ctx, threadID)
}

func (s *DMMetaService) DetachTag(ctx context.Context, threadID, tagID uint64) ([]domain.DMTag, error) {
	if err := s.meta.DetachTag(ctx, threadID, tagID); err != nil {
		return nil, fmt.Errorf("detach tag: %w", err)
	}
	s.bus.Publish(realtime.ThreadEvent(realtime.KindThreadTagsChanged, threadID))
	return s.meta.ThreadTags(ctx, threadID)
}

// 메모

func (s *DMMetaService) ListMemos(ctx context.Context, threadID uint64) ([]domain.DMMemo, error) {
	return s.meta.ListMemos(ctx, threadID)
}

func (s *DMMetaService) CreateMemo(ctx context.Context, threadID, adminID uint64, req *domain.MemoRequest) (*domain.DMMemo, error) {
	if _, err := s.threads.FindByID(ctx, threadID); err != nil {
		return nil, err
	}
	memo := &domain.DMMemo{
		ThreadID:   threadID,
		Content:    strings.TrimSpace(req.Content),
		AssigneeID: req.AssigneeID,
		CreatedBy:  adminID,
	}
	if memo.Content == "" {
		return nil, fmt.Errorf("memo content: %w", common.ErrInvalidInput)
	}
	if err := s.meta.CreateMemo(ctx, memo); err != nil {
		return nil, err
	}
	s.bus.Publish(realtime.ThreadEvent(realtime.KindThreadMemosChanged, threadID))
	return memo, nil
}

func (s *DMMetaService) UpdateMemo(ctx context.Context, threadID, memoID uint64, req *domain.MemoRequest) (*domain.DMMemo, error) {
	memo, err := s.findMemo(ctx, threadID, memoID)
	if err != nil {
		return nil, err
	}
	memo.Content = strings.TrimSpace(req.Content)
	memo.AssigneeID = req.AssigneeID
	if memo.Content == "" {
		return nil, fmt.Errorf("memo content: %w", common.ErrInvalidInput)
	}
	if err := s.meta.UpdateMemo(ctx, memo); err != nil {
		return nil, err
	}
	s.bus.Publish(realtime.ThreadEvent(realtime.KindThreadMemosChanged, threadID))
	return memo, nil
}

func (s *DMMetaService) DeleteMemo(ctx context.Context, threadID, memoID uint64) error {
	if _, err := s.findMemo(ctx, threadID, memoID); err != nil {
		return err
	}
	if err := s.meta.DeleteMemo(ctx, memoID); err != nil {
		return err
	}
	s.bus.Publish(realtime.ThreadEvent(realtime.KindThreadMemosChanged, threadID))
	return nil
}

func (s *DMMetaService) findMemo(ctx context.Context, threadID, memoID uint64) (*domain.DMMemo, error) {
	memo, err := s.meta.FindMemo(ctx, memoID)
	if err != nil {
		return nil, err
	}
	if memo.ThreadID != threadID {
		return nil, fmt.Errorf("memo %d not in thread %d: %w", memoID, threadID, common.ErrNotFound)
	}
	return memo, nil
}
