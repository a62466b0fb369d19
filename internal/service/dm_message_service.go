package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/damoang/eventhub-backend/internal/common"
	"github.com/damoang/eventhub-backend/internal/domain"
	"github.com/damoang/eventhub-backend/internal/metrics"
	"github.com/damoang/eventhub-backend/internal/realtime"
	"github.com/damoang/eventhub-backend/internal/repository"
	"github.com/damoang/eventhub-backend/internal/upload"
	pkglogger "github.com/damoang/eventhub-backend/pkg/logger"
	"github.com/damoang/eventhub-backend/pkg/storage"
)

// DMMessageService message pane of a thread
type DMMessageService struct {
	threads  repository.DMThreadRepository
	messages repository.DMMessageRepository
	uploader upload.Uploader
	bus      *realtime.Bus
	pageSize int
	now      func() time.Time
}

// NewDMMessageService creates a new DMMessageService
func NewDMMessageService(threads repository.DMThreadRepository, messages repository.DMMessageRepository,
	uploader upload.Uploader, bus *realtime.Bus, pageSize int) *DMMessageService {
	if pageSize <= 0 {
		pageSize = 20
	}
	return &DMMessageService{
		threads:  threads,
		messages: messages,
		uploader: uploader,
		bus:      bus,
		pageSize: pageSize,
		now:      time.Now,
	}
}

// PageSize is the default number of messages per fetch
func (s *DMMessageService) PageSize() int { return s.pageSize }

// FetchMessages loads messages newest-first from offset and returns them in
// display order (oldest first). HasMore comes from the real total.
func (s *DMMessageService) FetchMessages(ctx context.Context, threadID uint64, offset, limit int) (*domain.MessagePage, error) {
	thread, err := s.threads.FindByID(ctx, threadID)
	if err != nil {
		return nil, err
	}
	return s.fetchPage(ctx, thread, offset, limit)
}

func (s *DMMessageService) fetchPage(ctx context.Context, thread *domain.DMThread, offset, limit int) (*domain.MessagePage, error) {
	if offset < 0 {
		offset = 0
	}
	if limit <= 0 {
		limit = s.pageSize
	}
	total, err := s.messages.CountByThread(ctx, thread.ID)
	if err != nil {
		return nil, fmt.Errorf("count messages: %w", err)
	}
	msgs, err := s.messages.ListNewestFirst(ctx, thread.ID, offset, limit)
	if err != nil {
		return nil, fmt.Errorf("list messages: %w", err)
	}

	// ascending for display
	for i, j := 0, len(msgs)-1; i < j; i, j = i+1, j-1 {
		msgs[i], msgs[j] = msgs[j], msgs[i]
	}
	for i := range msgs {
		msgs[i].IsMine = msgs[i].FromOwner(thread.UserID)
	}
	return &domain.MessagePage{
		Messages: msgs,
		Total:    total,
		Offset:   offset,
		HasMore:  int64(offset+len(msgs)) < total,
	}, nil
}

// SendText posts a staff text message and returns it for optimistic append
func (s *DMMessageService) SendText(ctx context.Context, threadID, adminID uint64, content string) (*domain.DMMessage, error) {
	content = strings.TrimSpace(content)
	if content == "" {
		return nil, fmt.Errorf("empty message: %w", common.ErrInvalidInput)
	}
	thread, err := s.threads.FindByID(ctx, threadID)
	if err != nil {
		return nil, err
	}
	msg, err := s.insert(ctx, thread, adminID, domain.SenderAdmin, content)
	if err != nil {
		return nil, err
	}
	metrics.DMMessagesSent.WithLabelValues(domain.SenderAdmin, "text").Inc()
	return msg, nil
}

// SendImages posts up to three images as one message. Validation runs before
// any storage call. Each image uploads independently; a failed upload or
// image row is logged and reported per file, and the message is kept.
func (s *DMMessageService) SendImages(ctx context.Context, threadID, adminID uint64, files []upload.File) (*domain.ImagePostResult, error) {
	if err := upload.DMImages.Validate(files); err != nil {
		return nil, err
	}
	thread, err := s.threads.FindByID(ctx, threadID)
	if err != nil {
		return nil, err
	}
	if s.uploader == nil {
		return nil, fmt.Errorf("storage not configured: %w", common.ErrDownstream)
	}

	msg, err := s.insert(ctx, thread, adminID, domain.SenderAdmin, "")
	if err != nil {
		return nil, err
	}

	log := pkglogger.GetLogger()
	result := &domain.ImagePostResult{Message: msg, Files: make([]domain.ImageResult, 0, len(files))}
	for _, f := range files {
		res := domain.ImageResult{Filename: f.Name}
		stored, err := upload.Store(ctx, s.uploader, storage.BucketDMAttachments, f)
		if err != nil {
			log.Warn().Err(err).Uint64("message_id", msg.ID).Str("file", f.Name).Msg("dm image upload failed")
			res.Error = "upload failed"
			result.Files = append(result.Files, res)
			continue
		}
		img := &domain.DMMessageImage{
			MessageID:   msg.ID,
			URL:         stored.URL,
			ObjectKey:   stored.Key,
			ContentType: stored.ContentType,
			Size:        stored.Size,
		}
		if err := s.messages.CreateImage(ctx, img); err != nil {
			log.Warn().Err(err).Uint64("message_id", msg.ID).Str("file", f.Name).Msg("dm image row insert failed")
			res.Error = "attach failed"
			result.Files = append(result.Files, res)
			continue
		}
		res.URL = stored.URL
		msg.Images = append(msg.Images, *img)
		result.Files = append(result.Files, res)
	}
	metrics.DMMessagesSent.WithLabelValues(domain.SenderAdmin, "images").Inc()
	return result, nil
}

// PostUserMessage is the member side: the first post opens the thread, and
// every post puts it back at the top of the unread segment.
func (s *DMMessageService) PostUserMessage(ctx context.Context, userID uint64, content string) (*domain.DMMessage, error) {
	content = strings.TrimSpace(content)
	if content == "" {
		return nil, fmt.Errorf("empty message: %w", common.ErrInvalidInput)
	}
	thread, err := s.ensureThread(ctx, userID)
	if err != nil {
		return nil, err
	}
	msg, err := s.insert(ctx, thread, userID, domain.SenderUser, content)
	if err != nil {
		return nil, err
	}
	msg.IsMine = true
	metrics.DMMessagesSent.WithLabelValues(domain.SenderUser, "text").Inc()
	return msg, nil
}

// MyMessages lists the member's own thread and marks staff replies read
func (s *DMMessageService) MyMessages(ctx context.Context, userID uint64, offset, limit int) (*domain.MessagePage, error) {
	thread, err := s.threads.FindByUserID(ctx, userID)
	if err != nil {
		if isNotFound(err) {
			return &domain.MessagePage{Messages: []domain.DMMessage{}}, nil
		}
		return nil, err
	}
	page, err := s.fetchPage(ctx, thread, offset, limit)
	if err != nil {
		return nil, err
	}
	if _, err := s.messages.MarkAdminMessagesRead(ctx, thread.ID); err != nil {
		pkglogger.GetLogger().Warn().Err(err).Uint64("thread_id", thread.ID).Msg("mark admin messages read failed")
	}
	return page, nil
}

func (s *DMMessageService) ensureThread(ctx context.Context, userID uint64) (*domain.DMThread, error) {
	thread, err := s.threads.FindByUserID(ctx, userID)
	if err == nil {
		return thread, nil
	}
	if !isNotFound(err) {
		return nil, err
	}
	thread = &domain.DMThread{UserID: userID}
	if err := s.threads.Create(ctx, thread); err != nil {
		// lost a race with a concurrent first post
		if existing, findErr := s.threads.FindByUserID(ctx, userID); findErr == nil {
			return existing, nil
		}
		return nil, fmt.Errorf("create thread: %w", err)
	}
	return thread, nil
}

func (s *DMMessageService) insert(ctx context.Context, thread *domain.DMThread, senderID uint64, senderType, content string) (*domain.DMMessage, error) {
	now := s.now()
	msg := &domain.DMMessage{
		ThreadID:   thread.ID,
		UserID:     senderID,
		SenderType: senderType,
		Content:    content,
		CreatedAt:  now,
	}
	if err := s.messages.Create(ctx, msg); err != nil {
		return nil, fmt.Errorf("create message: %w", err)
	}
	if err := s.threads.Touch(ctx, thread.ID, now, senderType == domain.SenderUser); err != nil {
		return nil, fmt.Errorf("touch thread: %w", err)
	}
	msg.IsMine = msg.FromOwner(thread.UserID)
	s.bus.Publish(realtime.ThreadEvent(realtime.KindMessageCreated, thread.ID))
	return msg, nil
}
