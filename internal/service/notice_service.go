package service

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/damoang/eventhub-backend/internal/common"
	"github.com/damoang/eventhub-backend/internal/domain"
	"github.com/damoang/eventhub-backend/internal/realtime"
	"github.com/damoang/eventhub-backend/internal/repository"
	"github.com/damoang/eventhub-backend/internal/upload"
	"github.com/damoang/eventhub-backend/pkg/cache"
	pkglogger "github.com/damoang/eventhub-backend/pkg/logger"
	"github.com/damoang/eventhub-backend/pkg/storage"
)

const noticeSearchLimit = 50

var noticeSearchFields = []string{"title^3", "body"}

// NoticeIndexMapping is the index mapping for mirrored notices. The cjk
// analyzer splits Japanese text into bigrams.
var NoticeIndexMapping = map[string]interface{}{
	"mappings": map[string]interface{}{
		"properties": map[string]interface{}{
			"title":            map[string]interface{}{"type": "text", "analyzer": "cjk"},
			"body":             map[string]interface{}{"type": "text", "analyzer": "cjk"},
			"category_id":      map[string]interface{}{"type": "long"},
			"publish_start_at": map[string]interface{}{"type": "date"},
			"publish_end_at":   map[string]interface{}{"type": "date"},
		},
	},
}

// SearchIndex is the full-text index notices are mirrored into
type SearchIndex interface {
	IndexDocument(ctx context.Context, index, docID string, body interface{}) error
	DeleteDocument(ctx context.Context, index, docID string) error
	BulkIndex(ctx context.Context, index string, docs map[string]interface{}) error
	SearchIDs(ctx context.Context, index, text string, fields []string, size int) ([]string, error)
}

type noticeDocument struct {
	Title          string     `json:"title"`
	Body           string     `json:"body"`
	CategoryID     *uint64    `json:"category_id,omitempty"`
	PublishStartAt time.Time  `json:"publish_start_at"`
	PublishEndAt   *time.Time `json:"publish_end_at,omitempty"`
}

func toNoticeDocument(n *domain.Notice) noticeDocument {
	return noticeDocument{
		Title:          n.Title,
		Body:           n.Body,
		CategoryID:     n.CategoryID,
		PublishStartAt: n.PublishStartAt,
		PublishEndAt:   n.PublishEndAt,
	}
}

// NoticeService manages notices, their categories and attachments.
// The search index is optional; without it search runs as SQL LIKE.
type NoticeService struct {
	repo      repository.NoticeRepository
	uploader  upload.Uploader
	index     SearchIndex
	indexName string
	cache     cache.Service
	bus       *realtime.Bus
	now       func() time.Time
}

// NewNoticeService creates a new NoticeService. index may be nil.
func NewNoticeService(repo repository.NoticeRepository, uploader upload.Uploader, index SearchIndex,
	indexName string, c cache.Service, bus *realtime.Bus) *NoticeService {
	return &NoticeService{
		repo:      repo,
		uploader:  uploader,
		index:     index,
		indexName: indexName,
		cache:     c,
		bus:       bus,
		now:       time.Now,
	}
}

func validatePublishWindow(start time.Time, end *time.Time) error {
	if end != nil && !start.Before(*end) {
		return fmt.Errorf("publish %s..%s: %w", start, *end, common.ErrInvalidPublishWindow)
	}
	return nil
}

func (s *NoticeService) applyRequest(n *domain.Notice, req *domain.NoticeRequest) {
	n.Title = req.Title
	n.Body = req.Body
	n.CategoryID = req.CategoryID
	n.PublishStartAt = req.PublishStartAt
	n.PublishEndAt = req.PublishEndAt
}

// List all notices for the admin screen
func (s *NoticeService) List(ctx context.Context, offset, limit int) ([]domain.Notice, int64, error) {
	return s.repo.List(ctx, offset, limit)
}

// Get returns one notice regardless of its publish window
func (s *NoticeService) Get(ctx context.Context, id uint64) (*domain.Notice, error) {
	return s.repo.FindByID(ctx, id)
}

// Create stores a notice
func (s *NoticeService) Create(ctx context.Context, req *domain.NoticeRequest) (*domain.Notice, error) {
	if err := validatePublishWindow(req.PublishStartAt, req.PublishEndAt); err != nil {
		return nil, err
	}
	if err := s.checkCategory(ctx, req.CategoryID); err != nil {
		return nil, err
	}
	n := &domain.Notice{}
	s.applyRequest(n, req)
	if err := s.repo.Create(ctx, n); err != nil {
		return nil, fmt.Errorf("create notice: %w", err)
	}
	s.changed(ctx, n)
	return s.repo.FindByID(ctx, n.ID)
}

// Update replaces a notice's fields
func (s *NoticeService) Update(ctx context.Context, id uint64, req *domain.NoticeRequest) (*domain.Notice, error) {
	if err := validatePublishWindow(req.PublishStartAt, req.PublishEndAt); err != nil {
		return nil, err
	}
	if err := s.checkCategory(ctx, req.CategoryID); err != nil {
		return nil, err
	}
	n, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	s.applyRequest(n, req)
	if err := s.repo.Update(ctx, n); err != nil {
		return nil, fmt.Errorf("update notice: %w", err)
	}
	s.changed(ctx, n)
	return s.repo.FindByID(ctx, id)
}

// Delete soft-deletes a notice and drops it from the index
func (s *NoticeService) Delete(ctx context.Context, id uint64) error {
	if _, err := s.repo.FindByID(ctx, id); err != nil {
		return err
	}
	if err := s.repo.Delete(ctx, id); err != nil {
		return fmt.Errorf("delete notice: %w", err)
	}
	if s.index != nil {
		if err := s.index.DeleteDocument(ctx, s.indexName, strconv.FormatUint(id, 10)); err != nil {
			pkglogger.GetLogger().Warn().Err(err).Uint64("notice_id", id).Msg("notice unindex failed")
		}
	}
	s.bus.Publish(realtime.NoticeChange(id))
	return nil
}

func (s *NoticeService) checkCategory(ctx context.Context, id *uint64) error {
	if id == nil {
		return nil
	}
	if _, err := s.repo.FindCategory(ctx, *id); err != nil {
		if isNotFound(err) {
			return fmt.Errorf("category %d: %w", *id, common.ErrInvalidInput)
		}
		return err
	}
	return nil
}

// changed mirrors n into the index and publishes the change
func (s *NoticeService) changed(ctx context.Context, n *domain.Notice) {
	if s.index != nil {
		if err := s.index.IndexDocument(ctx, s.indexName, strconv.FormatUint(n.ID, 10), toNoticeDocument(n)); err != nil {
			pkglogger.GetLogger().Warn().Err(err).Uint64("notice_id", n.ID).Msg("notice index failed")
		}
	}
	s.bus.Publish(realtime.NoticeChange(n.ID))
}

// AttachFiles validates then stores attachments. Nothing is uploaded when
// any file is rejected.
func (s *NoticeService) AttachFiles(ctx context.Context, id uint64, files []upload.File) ([]domain.NoticeFile, error) {
	n, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := upload.NoticeFiles.Validate(files); err != nil {
		return nil, err
	}
	if total := len(n.Files) + len(files); total > upload.NoticeFiles.MaxFiles {
		return nil, common.WithArgs(fmt.Errorf("%d files: %w", total, common.ErrTooManyFiles), upload.NoticeFiles.MaxFiles)
	}
	if s.uploader == nil {
		return nil, fmt.Errorf("storage not configured: %w", common.ErrDownstream)
	}

	out := make([]domain.NoticeFile, 0, len(files))
	for _, f := range files {
		res, err := upload.Store(ctx, s.uploader, storage.BucketNotices, f)
		if err != nil {
			return out, fmt.Errorf("upload %s: %v: %w", f.Name, err, common.ErrDownstream)
		}
		row := domain.NoticeFile{
			NoticeID:    id,
			Name:        f.Name,
			URL:         res.URL,
			ObjectKey:   res.Key,
			ContentType: f.ContentType,
			Size:        f.Size,
		}
		if err := s.repo.CreateFile(ctx, &row); err != nil {
			return out, fmt.Errorf("save file %s: %w", f.Name, err)
		}
		out = append(out, row)
	}
	s.bus.Publish(realtime.NoticeChange(id))
	return out, nil
}

// DeleteFile soft-deletes an attachment and removes the stored object
func (s *NoticeService) DeleteFile(ctx context.Context, noticeID, fileID uint64) error {
	f, err := s.repo.FindFile(ctx, fileID)
	if err != nil {
		return err
	}
	if f.NoticeID != noticeID {
		return fmt.Errorf("file %d of notice %d: %w", fileID, noticeID, common.ErrNotFound)
	}
	if err := s.repo.DeleteFile(ctx, fileID); err != nil {
		return fmt.Errorf("delete file: %w", err)
	}
	if s.uploader != nil && f.ObjectKey != "" {
		if err := s.uploader.Delete(ctx, f.ObjectKey); err != nil {
			pkglogger.GetLogger().Warn().Err(err).Str("key", f.ObjectKey).Msg("stored object delete failed")
		}
	}
	s.bus.Publish(realtime.NoticeChange(noticeID))
	return nil
}

// 카테고리

func (s *NoticeService) ListCategories(ctx context.Context) ([]domain.NoticeCategory, error) {
	return s.repo.ListCategories(ctx)
}

func (s *NoticeService) CreateCategory(ctx context.Context, req *domain.NoticeCategoryRequest) (*domain.NoticeCategory, error) {
	c := &domain.NoticeCategory{Name: req.Name, SortOrder: req.SortOrder}
	if err := s.repo.CreateCategory(ctx, c); err != nil {
		return nil, fmt.Errorf("create category: %w", err)
	}
	s.bus.Publish(realtime.NoticeChange(0))
	return c, nil
}

func (s *NoticeService) UpdateCategory(ctx context.Context, id uint64, req *domain.NoticeCategoryRequest) (*domain.NoticeCategory, error) {
	c, err := s.repo.FindCategory(ctx, id)
	if err != nil {
		return nil, err
	}
	c.Name = req.Name
	c.SortOrder = req.SortOrder
	if err := s.repo.UpdateCategory(ctx, c); err != nil {
		return nil, fmt.Errorf("update category: %w", err)
	}
	s.bus.Publish(realtime.NoticeChange(0))
	return c, nil
}

func (s *NoticeService) DeleteCategory(ctx context.Context, id uint64) error {
	if _, err := s.repo.FindCategory(ctx, id); err != nil {
		return err
	}
	if err := s.repo.DeleteCategory(ctx, id); err != nil {
		return fmt.Errorf("delete category: %w", err)
	}
	s.bus.Publish(realtime.NoticeChange(0))
	return nil
}

// 회원용

type noticePage struct {
	Notices []domain.Notice `json:"notices"`
	Total   int64           `json:"total"`
}

// Published lists notices inside their publish window, newest first
func (s *NoticeService) Published(ctx context.Context, categoryID *uint64, offset, limit int) ([]domain.Notice, int64, error) {
	cat := "all"
	if categoryID != nil {
		cat = strconv.FormatUint(*categoryID, 10)
	}
	key := fmt.Sprintf("%s%s:%d:%d", cache.PrefixNotices, cat, offset, limit)
	var page noticePage
	if cacheGet(ctx, s.cache, key, &page) {
		return page.Notices, page.Total, nil
	}
	notices, total, err := s.repo.ListPublished(ctx, s.now(), categoryID, offset, limit)
	if err != nil {
		return nil, 0, err
	}
	cacheSet(ctx, s.cache, key, noticePage{Notices: notices, Total: total}, cache.TTLNotices)
	return notices, total, nil
}

// PublishedByID returns a notice only while it is published
func (s *NoticeService) PublishedByID(ctx context.Context, id uint64) (*domain.Notice, error) {
	n, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if !n.PublishedAt(s.now()) {
		return nil, fmt.Errorf("notice %d: %w", id, common.ErrNotFound)
	}
	return n, nil
}

// Search finds published notices. Index failures fall back to LIKE.
func (s *NoticeService) Search(ctx context.Context, term string) ([]domain.Notice, error) {
	term = strings.TrimSpace(term)
	if term == "" {
		return []domain.Notice{}, nil
	}
	now := s.now()
	if s.index != nil {
		notices, err := s.searchIndex(ctx, term, now)
		if err == nil {
			return notices, nil
		}
		pkglogger.GetLogger().Warn().Err(err).Str("term", term).Msg("notice search index failed, using database")
	}
	return s.repo.SearchPublished(ctx, now, term, noticeSearchLimit)
}

func (s *NoticeService) searchIndex(ctx context.Context, term string, now time.Time) ([]domain.Notice, error) {
	raw, err := s.index.SearchIDs(ctx, s.indexName, term, noticeSearchFields, noticeSearchLimit)
	if err != nil {
		return nil, err
	}
	ids := make([]uint64, 0, len(raw))
	for _, r := range raw {
		id, err := strconv.ParseUint(r, 10, 64)
		if err != nil {
			continue
		}
		ids = append(ids, id)
	}
	notices, err := s.repo.FindByIDs(ctx, ids)
	if err != nil {
		return nil, err
	}
	out := make([]domain.Notice, 0, len(notices))
	for i := range notices {
		if notices[i].PublishedAt(now) {
			out = append(out, notices[i])
		}
	}
	return out, nil
}

// Reindex mirrors every live notice into the index
func (s *NoticeService) Reindex(ctx context.Context) (int, error) {
	if s.index == nil {
		return 0, nil
	}
	notices, err := s.repo.ListAll(ctx)
	if err != nil {
		return 0, err
	}
	docs := make(map[string]interface{}, len(notices))
	for i := range notices {
		docs[strconv.FormatUint(notices[i].ID, 10)] = toNoticeDocument(&notices[i])
	}
	if err := s.index.BulkIndex(ctx, s.indexName, docs); err != nil {
		return 0, fmt.Errorf("bulk index notices: %w", err)
	}
	return len(docs), nil
}
