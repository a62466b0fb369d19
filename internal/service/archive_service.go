package service

import (
	"context"
	"fmt"
	"time"

	"github.com/damoang/eventhub-backend/internal/common"
	"github.com/damoang/eventhub-backend/internal/domain"
	"github.com/damoang/eventhub-backend/internal/repository"
	"github.com/damoang/eventhub-backend/internal/upload"
	pkglogger "github.com/damoang/eventhub-backend/pkg/logger"
	"github.com/damoang/eventhub-backend/pkg/storage"
)

// VideoTicketIssuer hands out direct-upload URLs on the video host
type VideoTicketIssuer interface {
	CreateTicket(ctx context.Context, name string, size int64) (*domain.VideoTicket, error)
}

// ArchiveService manages recorded sessions
type ArchiveService struct {
	repo     repository.ArchiveRepository
	uploader upload.Uploader
	video    VideoTicketIssuer
	now      func() time.Time
}

// NewArchiveService creates a new ArchiveService. uploader and video may be nil.
func NewArchiveService(repo repository.ArchiveRepository, uploader upload.Uploader, video VideoTicketIssuer) *ArchiveService {
	return &ArchiveService{repo: repo, uploader: uploader, video: video, now: time.Now}
}

func applyArchive(a *domain.Archive, req *domain.ArchiveRequest) {
	a.Title = req.Title
	a.Description = req.Description
	a.VideoID = req.VideoID
	a.VideoURL = req.VideoURL
	a.PublishStartAt = req.PublishStartAt
	a.PublishEndAt = req.PublishEndAt
}

func (s *ArchiveService) List(ctx context.Context, offset, limit int) ([]domain.Archive, int64, error) {
	return s.repo.List(ctx, offset, limit)
}

func (s *ArchiveService) Get(ctx context.Context, id uint64) (*domain.Archive, error) {
	return s.repo.FindByID(ctx, id)
}

// Published lists archives inside their publish window
func (s *ArchiveService) Published(ctx context.Context, offset, limit int) ([]domain.Archive, int64, error) {
	return s.repo.ListPublished(ctx, s.now(), offset, limit)
}

func (s *ArchiveService) Create(ctx context.Context, req *domain.ArchiveRequest) (*domain.Archive, error) {
	if err := validatePublishWindow(req.PublishStartAt, req.PublishEndAt); err != nil {
		return nil, err
	}
	a := &domain.Archive{}
	applyArchive(a, req)
	if err := s.repo.Create(ctx, a); err != nil {
		return nil, fmt.Errorf("create archive: %w", err)
	}
	return a, nil
}

func (s *ArchiveService) Update(ctx context.Context, id uint64, req *domain.ArchiveRequest) (*domain.Archive, error) {
	if err := validatePublishWindow(req.PublishStartAt, req.PublishEndAt); err != nil {
		return nil, err
	}
	a, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	applyArchive(a, req)
	if err := s.repo.Update(ctx, a); err != nil {
		return nil, fmt.Errorf("update archive: %w", err)
	}
	return a, nil
}

func (s *ArchiveService) Delete(ctx context.Context, id uint64) error {
	if _, err := s.repo.FindByID(ctx, id); err != nil {
		return err
	}
	return s.repo.Delete(ctx, id)
}

// UploadImage replaces the archive's cover image. The file is validated
// before storage is touched.
func (s *ArchiveService) UploadImage(ctx context.Context, id uint64, f upload.File) (*domain.Archive, error) {
	if err := upload.ArchiveImage.Validate([]upload.File{f}); err != nil {
		return nil, err
	}
	a, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if s.uploader == nil {
		return nil, fmt.Errorf("storage not configured: %w", common.ErrDownstream)
	}
	res, err := upload.Store(ctx, s.uploader, storage.BucketArchives, f)
	if err != nil {
		return nil, fmt.Errorf("upload %s: %v: %w", f.Name, err, common.ErrDownstream)
	}

	oldKey := a.ImageKey
	a.ImageURL = res.URL
	a.ImageKey = res.Key
	if err := s.repo.Update(ctx, a); err != nil {
		return nil, fmt.Errorf("save archive image: %w", err)
	}
	if oldKey != "" {
		if err := s.uploader.Delete(ctx, oldKey); err != nil {
			pkglogger.GetLogger().Warn().Err(err).Str("key", oldKey).Msg("old archive image delete failed")
		}
	}
	return a, nil
}

// VideoTicket checks the declared size and type, then asks the video host
// for a direct-upload URL. The video bytes never pass through this service.
func (s *ArchiveService) VideoTicket(ctx context.Context, req *domain.VideoTicketRequest, contentType string) (*domain.VideoTicket, error) {
	if err := upload.Video.Check(req.Filename, contentType, req.Size); err != nil {
		return nil, err
	}
	if s.video == nil {
		return nil, fmt.Errorf("video host not configured: %w", common.ErrDownstream)
	}
	return s.video.CreateTicket(ctx, req.Filename, req.Size)
}

// FAQService manages the FAQ list
type FAQService struct {
	repo repository.FAQRepository
}

// NewFAQService creates a new FAQService
func NewFAQService(repo repository.FAQRepository) *FAQService {
	return &FAQService{repo: repo}
}

func (s *FAQService) List(ctx context.Context) ([]domain.FAQ, error) {
	return s.repo.List(ctx)
}

func (s *FAQService) Create(ctx context.Context, req *domain.FAQRequest) (*domain.FAQ, error) {
	f := &domain.FAQ{Question: req.Question, Answer: req.Answer, SortOrder: req.SortOrder}
	if err := s.repo.Create(ctx, f); err != nil {
		return nil, fmt.Errorf("create faq: %w", err)
	}
	return f, nil
}

func (s *FAQService) Update(ctx context.Context, id uint64, req *domain.FAQRequest) (*domain.FAQ, error) {
	f, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	f.Question = req.Question
	f.Answer = req.Answer
	f.SortOrder = req.SortOrder
	if err := s.repo.Update(ctx, f); err != nil {
		return nil, fmt.Errorf("update faq: %w", err)
	}
	return f, nil
}

func (s *FAQService) Delete(ctx context.Context, id uint64) error {
	if _, err := s.repo.FindByID(ctx, id); err != nil {
		return err
	}
	return s.repo.Delete(ctx, id)
}

// Reorder sets sort_order from the position in ids; ids must name every FAQ once
func (s *FAQService) Reorder(ctx context.Context, ids []uint64) ([]domain.FAQ, error) {
	current, err := s.repo.List(ctx)
	if err != nil {
		return nil, err
	}
	known := make(map[uint64]bool, len(current))
	for _, f := range current {
		known[f.ID] = true
	}
	seen := make(map[uint64]bool, len(ids))
	for _, id := range ids {
		if !known[id] || seen[id] {
			return nil, fmt.Errorf("faq %d: %w", id, common.ErrInvalidInput)
		}
		seen[id] = true
	}
	if len(ids) != len(current) {
		return nil, fmt.Errorf("reorder needs %d ids, got %d: %w", len(current), len(ids), common.ErrInvalidInput)
	}
	if err := s.repo.Reorder(ctx, ids); err != nil {
		return nil, fmt.Errorf("reorder faqs: %w", err)
	}
	return s.repo.List(ctx)
}
