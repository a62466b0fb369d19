package service

import (
	"context"
	"errors"
	"strconv"
	"testing"
	"time"

	"github.com/damoang/eventhub-backend/internal/common"
	"github.com/damoang/eventhub-backend/internal/domain"
	"github.com/damoang/eventhub-backend/internal/repository"
	"github.com/damoang/eventhub-backend/internal/testutil"
	"github.com/damoang/eventhub-backend/internal/upload"
	"github.com/damoang/eventhub-backend/pkg/storage"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

var noticeNow = time.Date(2026, 10, 19, 12, 0, 0, 0, time.UTC)

func newNoticeService(t *testing.T, uploader upload.Uploader, index SearchIndex) *NoticeService {
	t.Helper()
	db := testutil.NewDB(t)
	svc := NewNoticeService(repository.NewNoticeRepository(db), uploader, index, "notices", nil, nil)
	svc.now = func() time.Time { return noticeNow }
	return svc
}

func TestNoticeService_PublishWindow(t *testing.T) {
	svc := newNoticeService(t, nil, nil)
	ctx := context.Background()

	end := noticeNow
	_, err := svc.Create(ctx, &domain.NoticeRequest{Title: "x", PublishStartAt: noticeNow, PublishEndAt: &end})
	assert.ErrorIs(t, err, common.ErrInvalidPublishWindow)

	expired := noticeNow.Add(-time.Minute)
	live, err := svc.Create(ctx, &domain.NoticeRequest{Title: "live", PublishStartAt: noticeNow.Add(-time.Hour)})
	require.NoError(t, err)
	old, err := svc.Create(ctx, &domain.NoticeRequest{Title: "old", PublishStartAt: noticeNow.Add(-48 * time.Hour), PublishEndAt: &expired})
	require.NoError(t, err)

	list, total, err := svc.Published(ctx, nil, 0, 10)
	require.NoError(t, err)
	assert.EqualValues(t, 1, total)
	require.Len(t, list, 1)
	assert.Equal(t, live.ID, list[0].ID)

	_, err = svc.PublishedByID(ctx, old.ID)
	assert.ErrorIs(t, err, common.ErrNotFound)
	got, err := svc.Get(ctx, old.ID)
	require.NoError(t, err)
	assert.Equal(t, "old", got.Title)
}

func TestNoticeService_UnknownCategory(t *testing.T) {
	svc := newNoticeService(t, nil, nil)
	missing := uint64(999)
	_, err := svc.Create(context.Background(), &domain.NoticeRequest{Title: "x", CategoryID: &missing, PublishStartAt: noticeNow})
	assert.ErrorIs(t, err, common.ErrInvalidInput)
}

func TestNoticeService_SearchFallsBackToDatabase(t *testing.T) {
	index := new(mockIndex)
	svc := newNoticeService(t, nil, index)
	ctx := context.Background()

	index.On("IndexDocument", "notices", mock.Anything).Return(nil)
	n, err := svc.Create(ctx, &domain.NoticeRequest{Title: "Holiday schedule", PublishStartAt: noticeNow.Add(-time.Hour)})
	require.NoError(t, err)

	index.On("SearchIDs", "notices", "holiday").Return(nil, errors.New("cluster red")).Once()
	found, err := svc.Search(ctx, "holiday")
	require.NoError(t, err)
	require.Len(t, found, 1)
	assert.Equal(t, n.ID, found[0].ID)

	index.On("SearchIDs", "notices", "schedule").Return([]string{strconv.FormatUint(n.ID, 10), "junk"}, nil).Once()
	found, err = svc.Search(ctx, "schedule")
	require.NoError(t, err)
	require.Len(t, found, 1)
	index.AssertExpectations(t)
}

func TestNoticeService_AttachFilesValidatesFirst(t *testing.T) {
	uploader := new(mockUploader)
	svc := newNoticeService(t, uploader, nil)
	ctx := context.Background()
	n, err := svc.Create(ctx, &domain.NoticeRequest{Title: "docs", PublishStartAt: noticeNow})
	require.NoError(t, err)

	_, err = svc.AttachFiles(ctx, n.ID, []upload.File{
		fakeFile("ok.pdf", "application/pdf", 100),
		fakeFile("big.pdf", "application/pdf", 11*1024*1024),
	})
	assert.ErrorIs(t, err, common.ErrFileTooLarge)
	uploader.AssertNotCalled(t, "Upload", mock.Anything, mock.Anything, mock.Anything)

	uploader.On("Upload", mock.Anything, "application/pdf", int64(100)).
		Return(&storage.UploadResult{Key: "notices/x.pdf", URL: "https://cdn/x.pdf"}, nil).Once()
	files, err := svc.AttachFiles(ctx, n.ID, []upload.File{fakeFile("ok.pdf", "application/pdf", 100)})
	require.NoError(t, err)
	require.Len(t, files, 1)

	got, err := svc.Get(ctx, n.ID)
	require.NoError(t, err)
	assert.Len(t, got.Files, 1)

	uploader.On("Delete", "notices/x.pdf").Return(nil).Once()
	require.NoError(t, svc.DeleteFile(ctx, n.ID, files[0].ID))
	uploader.AssertExpectations(t)
}

func TestNoticeService_Reindex(t *testing.T) {
	index := new(mockIndex)
	svc := newNoticeService(t, nil, index)
	ctx := context.Background()
	index.On("IndexDocument", "notices", mock.Anything).Return(nil)
	for _, title := range []string{"a", "b"} {
		_, err := svc.Create(ctx, &domain.NoticeRequest{Title: title, PublishStartAt: noticeNow})
		require.NoError(t, err)
	}
	index.On("BulkIndex", "notices", 2).Return(nil).Once()

	n, err := svc.Reindex(ctx)
	require.NoError(t, err)
	assert.Equal(t, 2, n)
	index.AssertExpectations(t)

	n, err = newNoticeService(t, nil, nil).Reindex(ctx)
	require.NoError(t, err)
	assert.Zero(t, n)
}
