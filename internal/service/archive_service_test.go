package service

import (
	"context"
	"testing"
	"time"

	"github.com/damoang/eventhub-backend/internal/common"
	"github.com/damoang/eventhub-backend/internal/domain"
	"github.com/damoang/eventhub-backend/internal/repository"
	"github.com/damoang/eventhub-backend/internal/testutil"
	"github.com/damoang/eventhub-backend/pkg/storage"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func TestArchiveService_UploadImage_TooLargeNeverReachesStorage(t *testing.T) {
	db := testutil.NewDB(t)
	uploader := new(mockUploader)
	svc := NewArchiveService(repository.NewArchiveRepository(db), uploader, nil)
	ctx := context.Background()

	a, err := svc.Create(ctx, &domain.ArchiveRequest{Title: "talk", PublishStartAt: time.Now()})
	require.NoError(t, err)

	_, err = svc.UploadImage(ctx, a.ID, fakeFile("cover.jpg", "image/jpeg", 12*1024*1024))
	assert.ErrorIs(t, err, common.ErrFileTooLarge)
	uploader.AssertNotCalled(t, "Upload", mock.Anything, mock.Anything, mock.Anything)

	var args []interface{}
	var argsErr *common.ArgsError
	if assert.ErrorAs(t, err, &argsErr) {
		args = argsErr.Args
	}
	assert.Equal(t, []interface{}{"10 MiB"}, args)
}

func TestArchiveService_UploadImage_ReplacesOldObject(t *testing.T) {
	db := testutil.NewDB(t)
	uploader := new(mockUploader)
	svc := NewArchiveService(repository.NewArchiveRepository(db), uploader, nil)
	ctx := context.Background()
	a, err := svc.Create(ctx, &domain.ArchiveRequest{Title: "talk", PublishStartAt: time.Now()})
	require.NoError(t, err)

	uploader.On("Upload", mock.Anything, "image/png", int64(500)).
		Return(&storage.UploadResult{Key: "archives/new.png", URL: "https://cdn/new.png"}, nil).Twice()
	uploader.On("Delete", "archives/new.png").Return(nil).Once()

	_, err = svc.UploadImage(ctx, a.ID, fakeFile("a.png", "image/png", 500))
	require.NoError(t, err)
	got, err := svc.UploadImage(ctx, a.ID, fakeFile("b.png", "image/png", 500))
	require.NoError(t, err)
	assert.Equal(t, "https://cdn/new.png", got.ImageURL)
	uploader.AssertExpectations(t)
}

func TestArchiveService_VideoTicket(t *testing.T) {
	db := testutil.NewDB(t)
	video := new(mockVideo)
	svc := NewArchiveService(repository.NewArchiveRepository(db), nil, video)
	ctx := context.Background()

	_, err := svc.VideoTicket(ctx, &domain.VideoTicketRequest{Filename: "huge.mp4", Size: 16 * 1024 * 1024 * 1024}, "video/mp4")
	assert.ErrorIs(t, err, common.ErrFileTooLarge)
	_, err = svc.VideoTicket(ctx, &domain.VideoTicketRequest{Filename: "slides.pdf", Size: 10}, "application/pdf")
	assert.ErrorIs(t, err, common.ErrUnsupportedFileType)
	video.AssertNotCalled(t, "CreateTicket", mock.Anything, mock.Anything)

	want := &domain.VideoTicket{VideoID: "v1", UploadURL: "https://upload/v1"}
	video.On("CreateTicket", "talk.mp4", int64(2<<30)).Return(want, nil)
	got, err := svc.VideoTicket(ctx, &domain.VideoTicketRequest{Filename: "talk.mp4", Size: 2 << 30}, "video/mp4")
	require.NoError(t, err)
	assert.Equal(t, want, got)
}

func TestArchiveService_PublishWindow(t *testing.T) {
	db := testutil.NewDB(t)
	svc := NewArchiveService(repository.NewArchiveRepository(db), nil, nil)
	now := time.Date(2026, 10, 19, 12, 0, 0, 0, time.UTC)
	svc.now = func() time.Time { return now }
	ctx := context.Background()

	before := now.Add(-time.Hour)
	_, err := svc.Create(ctx, &domain.ArchiveRequest{Title: "bad", PublishStartAt: now, PublishEndAt: &before})
	assert.ErrorIs(t, err, common.ErrInvalidPublishWindow)

	_, err = svc.Create(ctx, &domain.ArchiveRequest{Title: "live", PublishStartAt: now.Add(-time.Hour)})
	require.NoError(t, err)
	_, err = svc.Create(ctx, &domain.ArchiveRequest{Title: "future", PublishStartAt: now.Add(time.Hour)})
	require.NoError(t, err)

	list, total, err := svc.Published(ctx, 0, 10)
	require.NoError(t, err)
	assert.EqualValues(t, 1, total)
	require.Len(t, list, 1)
	assert.Equal(t, "live", list[0].Title)
}

func TestFAQService_Reorder(t *testing.T) {
	db := testutil.NewDB(t)
	svc := NewFAQService(repository.NewFAQRepository(db))
	ctx := context.Background()

	var created []uint64
	for _, q := range []string{"q1", "q2", "q3"} {
		f, err := svc.Create(ctx, &domain.FAQRequest{Question: q, Answer: "a"})
		require.NoError(t, err)
		created = append(created, f.ID)
	}

	list, err := svc.Reorder(ctx, []uint64{created[2], created[0], created[1]})
	require.NoError(t, err)
	require.Len(t, list, 3)
	assert.Equal(t, "q3", list[0].Question)
	assert.Equal(t, "q1", list[1].Question)

	_, err = svc.Reorder(ctx, []uint64{created[0], created[0], created[1]})
	assert.ErrorIs(t, err, common.ErrInvalidInput)
	_, err = svc.Reorder(ctx, []uint64{created[0]})
	assert.ErrorIs(t, err, common.ErrInvalidInput)
}
