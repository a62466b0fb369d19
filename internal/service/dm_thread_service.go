package service

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"github.com/damoang/eventhub-backend/internal/domain"
	"github.com/damoang/eventhub-backend/internal/realtime"
	"github.com/damoang/eventhub-backend/internal/repository"
	"github.com/damoang/eventhub-backend/pkg/cache"
)

// DMThreadService admin inbox
type DMThreadService struct {
	threads  repository.DMThreadRepository
	messages repository.DMMessageRepository
	cache    cache.Service
	bus      *realtime.Bus
	pageSize int
}

// NewDMThreadService creates a new DMThreadService. c and bus may be nil.
func NewDMThreadService(threads repository.DMThreadRepository, messages repository.DMMessageRepository,
	c cache.Service, bus *realtime.Bus, pageSize int) *DMThreadService {
	if pageSize <= 0 {
		pageSize = 20
	}
	return &DMThreadService{threads: threads, messages: messages, cache: c, bus: bus, pageSize: pageSize}
}

// FetchMoreThreads returns one page of the inbox: unread threads first, then
// read ones. When the unread segment runs out inside the page, the remainder
// comes from the read segment starting at offset-unreadTotal.
func (s *DMThreadService) FetchMoreThreads(ctx context.Context, offset, limit int) (*domain.ThreadPage, error) {
	if offset < 0 {
		offset = 0
	}
	if limit <= 0 {
		limit = s.pageSize
	}

	key := cache.ThreadsKey(offset, limit)
	var cached domain.ThreadPage
	if cacheGet(ctx, s.cache, key, &cached) {
		return &cached, nil
	}

	unreadTotal, err := s.threads.CountUnread(ctx)
	if err != nil {
		return nil, fmt.Errorf("count unread threads: %w", err)
	}
	total, err := s.threads.Count(ctx)
	if err != nil {
		return nil, fmt.Errorf("count threads: %w", err)
	}

	page := make([]domain.DMThread, 0, limit)
	if int64(offset) < unreadTotal {
		unread, err := s.threads.ListByReadState(ctx, false, offset, limit)
		if err != nil {
			return nil, fmt.Errorf("list unread threads: %w", err)
		}
		page = append(page, unread...)
	}
	if len(page) < limit {
		readOffset := offset - int(unreadTotal)
		if readOffset < 0 {
			readOffset = 0
		}
		read, err := s.threads.ListByReadState(ctx, true, readOffset, limit-len(page))
		if err != nil {
			return nil, fmt.Errorf("list read threads: %w", err)
		}
		page = append(page, read...)
	}

	result := &domain.ThreadPage{
		Threads:     page,
		Total:       total,
		UnreadTotal: unreadTotal,
		Offset:      offset,
		Limit:       limit,
		HasMore:     int64(offset+len(page)) < total,
	}
	cacheSet(ctx, s.cache, key, result, cache.TTLThreads)
	return result, nil
}

// SearchThreadsByUsername bypasses paging and returns every match, unread first
func (s *DMThreadService) SearchThreadsByUsername(ctx context.Context, term string) ([]domain.DMThread, error) {
	term = strings.TrimSpace(term)
	if term == "" {
		return []domain.DMThread{}, nil
	}
	unread, err := s.threads.SearchByUsername(ctx, term, false)
	if err != nil {
		return nil, fmt.Errorf("search unread threads: %w", err)
	}
	read, err := s.threads.SearchByUsername(ctx, term, true)
	if err != nil {
		return nil, fmt.Errorf("search read threads: %w", err)
	}
	return append(unread, read...), nil
}

// UpdateReadStatus marks a thread read or unread for staff. Marking read also
// flags the owner's own messages as read; admin messages and messages from
// anyone else are never touched. Marking unread only resets the triage flag.
func (s *DMThreadService) UpdateReadStatus(ctx context.Context, threadID uint64, read bool) error {
	thread, err := s.threads.FindByID(ctx, threadID)
	if err != nil {
		return err
	}
	if err := s.threads.SetAdminRead(ctx, threadID, read); err != nil {
		return fmt.Errorf("set admin read: %w", err)
	}
	if read {
		if _, err := s.messages.MarkOwnerMessagesRead(ctx, threadID, thread.UserID); err != nil {
			return fmt.Errorf("mark owner messages read: %w", err)
		}
	}
	s.bus.Publish(realtime.ThreadEvent(realtime.KindThreadReadChanged, threadID))
	return nil
}

// FetchThreadByID loads a single thread, used when the selected thread is not on the current page
func (s *DMThreadService) FetchThreadByID(ctx context.Context, id uint64) (*domain.DMThread, error) {
	key := cache.ThreadKey(id)
	var cached domain.DMThread
	if cacheGet(ctx, s.cache, key, &cached) {
		return &cached, nil
	}
	thread, err := s.threads.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	cacheSet(ctx, s.cache, key, thread, cache.TTLThreads)
	return thread, nil
}

// UnreadCount is the badge count of threads staff has not read
func (s *DMThreadService) UnreadCount(ctx context.Context) (int64, error) {
	var n int64
	if cacheGet(ctx, s.cache, cache.PrefixUnread, &n) {
		return n, nil
	}
	n, err := s.threads.CountUnread(ctx)
	if err != nil {
		return 0, err
	}
	cacheSet(ctx, s.cache, cache.PrefixUnread, n, cache.TTLUnread)
	return n, nil
}

// SortThreads re-sorts threads in place into inbox order
func SortThreads(threads []domain.DMThread) {
	sort.SliceStable(threads, func(i, j int) bool {
		return threadLess(&threads[i], &threads[j])
	})
}

func threadLess(a, b *domain.DMThread) bool {
	if a.IsAdminRead != b.IsAdminRead {
		return !a.IsAdminRead
	}
	switch {
	case a.LastSentAt == nil && b.LastSentAt != nil:
		return false
	case a.LastSentAt != nil && b.LastSentAt == nil:
		return true
	case a.LastSentAt != nil && b.LastSentAt != nil && !a.LastSentAt.Equal(*b.LastSentAt):
		return a.LastSentAt.After(*b.LastSentAt)
	}
	return a.ID > b.ID
}
