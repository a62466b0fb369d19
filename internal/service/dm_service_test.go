package service

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/damoang/eventhub-backend/internal/common"
	"github.com/damoang/eventhub-backend/internal/domain"
	"github.com/damoang/eventhub-backend/internal/realtime"
	"github.com/damoang/eventhub-backend/internal/repository"
	"github.com/damoang/eventhub-backend/internal/testutil"
	"github.com/damoang/eventhub-backend/internal/upload"
	"github.com/damoang/eventhub-backend/pkg/storage"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

type recorder struct {
	mu     sync.Mutex
	events []realtime.Event
}

func newRecordingBus() (*realtime.Bus, *recorder) {
	bus := realtime.NewBus(zerolog.Nop())
	rec := &recorder{}
	bus.Subscribe("recorder", func(e realtime.Event) {
		rec.mu.Lock()
		defer rec.mu.Unlock()
		rec.events = append(rec.events, e)
	})
	return bus, rec
}

func (r *recorder) kinds() []realtime.Kind {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]realtime.Kind, len(r.events))
	for i, e := range r.events {
		out[i] = e.Kind
	}
	return out
}

func ids(threads []domain.DMThread) []uint64 {
	out := make([]uint64, len(threads))
	for i := range threads {
		out[i] = threads[i].ID
	}
	return out
}

func newDMServices(db *gorm.DB, uploader upload.Uploader, bus *realtime.Bus) (*DMThreadService, *DMMessageService) {
	threads := repository.NewDMThreadRepository(db)
	messages := repository.NewDMMessageRepository(db)
	return NewDMThreadService(threads, messages, nil, bus, 5),
		NewDMMessageService(threads, messages, uploader, bus, 20)
}

func TestFetchMoreThreads_UnreadFirstThenPadsWithRead(t *testing.T) {
	db := testutil.NewDB(t)
	threadSvc, _ := newDMServices(db, nil, nil)
	ctx := context.Background()
	base := time.Date(2026, 10, 1, 9, 0, 0, 0, time.UTC)

	th := func(name string, read bool, at time.Time) *domain.DMThread {
		return testutil.CreateThread(t, db, testutil.CreateUser(t, db, name).ID, read, at)
	}
	u1 := th("u1", false, base.Add(time.Hour))
	u2 := th("u2", false, base.Add(2*time.Hour))
	u3 := th("u3", false, time.Time{})
	r1 := th("r1", true, base)
	r2 := th("r2", true, base.Add(time.Hour))
	r3 := th("r3", true, base.Add(2*time.Hour))
	r4 := th("r4", true, base.Add(3*time.Hour))

	first, err := threadSvc.FetchMoreThreads(ctx, 0, 5)
	require.NoError(t, err)
	// a read thread newer than every unread one still sorts after them
	assert.Equal(t, []uint64{u2.ID, u1.ID, u3.ID, r4.ID, r3.ID}, ids(first.Threads))
	assert.EqualValues(t, 7, first.Total)
	assert.EqualValues(t, 3, first.UnreadTotal)
	assert.True(t, first.HasMore)

	second, err := threadSvc.FetchMoreThreads(ctx, 5, 5)
	require.NoError(t, err)
	assert.Equal(t, []uint64{r2.ID, r1.ID}, ids(second.Threads))
	assert.False(t, second.HasMore)
}

func TestFetchMoreThreads_PageInsideUnreadSegment(t *testing.T) {
	db := testutil.NewDB(t)
	threadSvc, _ := newDMServices(db, nil, nil)
	base := time.Date(2026, 10, 1, 9, 0, 0, 0, time.UTC)

	var unread []uint64
	for i, name := range []string{"a", "b", "c", "d"} {
		th := testutil.CreateThread(t, db, testutil.CreateUser(t, db, name).ID, false, base.Add(time.Duration(i)*time.Minute))
		unread = append([]uint64{th.ID}, unread...)
	}
	testutil.CreateThread(t, db, testutil.CreateUser(t, db, "z").ID, true, base.Add(time.Hour))

	page, err := threadSvc.FetchMoreThreads(context.Background(), 1, 2)
	require.NoError(t, err)
	assert.Equal(t, unread[1:3], ids(page.Threads))
	assert.True(t, page.HasMore)
}

func TestSortThreads(t *testing.T) {
	base := time.Date(2026, 10, 1, 9, 0, 0, 0, time.UTC)
	later := base.Add(time.Hour)
	threads := []domain.DMThread{
		{ID: 1, IsAdminRead: true, LastSentAt: &later},
		{ID: 2, IsAdminRead: false},
		{ID: 3, IsAdminRead: false, LastSentAt: &base},
		{ID: 4, IsAdminRead: false, LastSentAt: &later},
		{ID: 5, IsAdminRead: false, LastSentAt: &base},
	}
	SortThreads(threads)
	assert.Equal(t, []uint64{4, 5, 3, 2, 1}, ids(threads))
}

func TestSearchThreadsByUsername(t *testing.T) {
	db := testutil.NewDB(t)
	threadSvc, _ := newDMServices(db, nil, nil)
	ctx := context.Background()
	now := time.Date(2026, 10, 1, 9, 0, 0, 0, time.UTC)

	readMatch := testutil.CreateThread(t, db, testutil.CreateUser(t, db, "sato_a").ID, true, now.Add(time.Hour))
	unreadMatch := testutil.CreateThread(t, db, testutil.CreateUser(t, db, "sato_b").ID, false, now)
	testutil.CreateThread(t, db, testutil.CreateUser(t, db, "kato").ID, false, now)

	found, err := threadSvc.SearchThreadsByUsername(ctx, "sato")
	require.NoError(t, err)
	assert.Equal(t, []uint64{unreadMatch.ID, readMatch.ID}, ids(found))

	empty, err := threadSvc.SearchThreadsByUsername(ctx, "  ")
	require.NoError(t, err)
	assert.Empty(t, empty)
}

func TestUpdateReadStatus_OnlyOwnerMessagesOfThatThread(t *testing.T) {
	db := testutil.NewDB(t)
	bus, rec := newRecordingBus()
	threadSvc, _ := newDMServices(db, nil, bus)
	ctx := context.Background()
	now := time.Date(2026, 10, 1, 9, 0, 0, 0, time.UTC)

	owner := testutil.CreateUser(t, db, "owner")
	other := testutil.CreateUser(t, db, "other")
	thread := testutil.CreateThread(t, db, owner.ID, false, now)
	otherThread := testutil.CreateThread(t, db, other.ID, false, now)

	ownMsg := testutil.CreateMessage(t, db, thread.ID, owner.ID, domain.SenderUser, now)
	// staff message whose sender id collides with the owner id
	adminMsg := testutil.CreateMessage(t, db, thread.ID, owner.ID, domain.SenderAdmin, now.Add(time.Second))
	strayMsg := testutil.CreateMessage(t, db, thread.ID, other.ID, domain.SenderUser, now.Add(2*time.Second))
	otherMsg := testutil.CreateMessage(t, db, otherThread.ID, other.ID, domain.SenderUser, now)

	require.NoError(t, threadSvc.UpdateReadStatus(ctx, thread.ID, true))

	isRead := func(id uint64) bool {
		var m domain.DMMessage
		require.NoError(t, db.First(&m, id).Error)
		return m.IsRead
	}
	assert.True(t, isRead(ownMsg.ID))
	assert.False(t, isRead(adminMsg.ID))
	assert.False(t, isRead(strayMsg.ID))
	assert.False(t, isRead(otherMsg.ID))

	var reloaded, untouched domain.DMThread
	require.NoError(t, db.First(&reloaded, thread.ID).Error)
	require.NoError(t, db.First(&untouched, otherThread.ID).Error)
	assert.True(t, reloaded.IsAdminRead)
	assert.False(t, untouched.IsAdminRead)
	assert.Equal(t, []realtime.Kind{realtime.KindThreadReadChanged}, rec.kinds())
}

func TestUpdateReadStatus_UnreadThenSelectEndsRead(t *testing.T) {
	db := testutil.NewDB(t)
	threadSvc, _ := newDMServices(db, nil, nil)
	ctx := context.Background()
	owner := testutil.CreateUser(t, db, "owner")
	thread := testutil.CreateThread(t, db, owner.ID, true, time.Now())
	msg := testutil.CreateMessage(t, db, thread.ID, owner.ID, domain.SenderUser, time.Now())

	require.NoError(t, threadSvc.UpdateReadStatus(ctx, thread.ID, false))
	got, err := threadSvc.FetchThreadByID(ctx, thread.ID)
	require.NoError(t, err)
	assert.False(t, got.IsAdminRead)

	var m domain.DMMessage
	require.NoError(t, db.First(&m, msg.ID).Error)
	assert.False(t, m.IsRead, "marking unread never flips message flags")

	// selecting the thread marks it read again
	require.NoError(t, threadSvc.UpdateReadStatus(ctx, thread.ID, true))
	got, err = threadSvc.FetchThreadByID(ctx, thread.ID)
	require.NoError(t, err)
	assert.True(t, got.IsAdminRead)
}

func TestUpdateReadStatus_NotFound(t *testing.T) {
	db := testutil.NewDB(t)
	threadSvc, _ := newDMServices(db, nil, nil)
	err := threadSvc.UpdateReadStatus(context.Background(), 404, true)
	assert.ErrorIs(t, err, common.ErrNotFound)
}

func TestFetchMessages_PagesByTwentyWithRealTotal(t *testing.T) {
	db := testutil.NewDB(t)
	_, msgSvc := newDMServices(db, nil, nil)
	ctx := context.Background()
	owner := testutil.CreateUser(t, db, "owner")
	thread := testutil.CreateThread(t, db, owner.ID, false, time.Now())
	base := time.Date(2026, 10, 1, 9, 0, 0, 0, time.UTC)
	for i := 0; i < 25; i++ {
		sender := domain.SenderUser
		if i%2 == 1 {
			sender = domain.SenderAdmin
		}
		testutil.CreateMessage(t, db, thread.ID, owner.ID, sender, base.Add(time.Duration(i)*time.Minute))
	}

	first, err := msgSvc.FetchMessages(ctx, thread.ID, 0, msgSvc.PageSize())
	require.NoError(t, err)
	require.Len(t, first.Messages, 20)
	assert.True(t, first.HasMore)
	assert.EqualValues(t, 25, first.Total)
	// ascending display order, newest at the bottom
	assert.Equal(t, base.Add(5*time.Minute), first.Messages[0].CreatedAt.UTC())
	assert.Equal(t, base.Add(24*time.Minute), first.Messages[19].CreatedAt.UTC())
	assert.True(t, first.Messages[19].IsMine)
	assert.False(t, first.Messages[18].IsMine)

	second, err := msgSvc.FetchMessages(ctx, thread.ID, len(first.Messages), msgSvc.PageSize())
	require.NoError(t, err)
	assert.Len(t, second.Messages, 5)
	assert.False(t, second.HasMore)
	assert.Equal(t, base, second.Messages[0].CreatedAt.UTC())
}

func TestSendText_TouchesThread(t *testing.T) {
	db := testutil.NewDB(t)
	bus, rec := newRecordingBus()
	_, msgSvc := newDMServices(db, nil, bus)
	now := time.Date(2026, 10, 5, 12, 0, 0, 0, time.UTC)
	msgSvc.now = func() time.Time { return now }
	owner := testutil.CreateUser(t, db, "owner")
	thread := testutil.CreateThread(t, db, owner.ID, true, time.Time{})

	msg, err := msgSvc.SendText(context.Background(), thread.ID, 7, "  hello  ")
	require.NoError(t, err)
	assert.Equal(t, "hello", msg.Content)
	assert.Equal(t, domain.SenderAdmin, msg.SenderType)
	assert.False(t, msg.IsMine)

	var reloaded domain.DMThread
	require.NoError(t, db.First(&reloaded, thread.ID).Error)
	require.NotNil(t, reloaded.LastSentAt)
	assert.Equal(t, now, reloaded.LastSentAt.UTC())
	assert.True(t, reloaded.IsAdminRead, "staff posts keep the thread read")
	assert.Equal(t, []realtime.Kind{realtime.KindMessageCreated}, rec.kinds())

	_, err = msgSvc.SendText(context.Background(), thread.ID, 7, " ")
	assert.ErrorIs(t, err, common.ErrInvalidInput)
}

func TestSendImages_RejectedBeforeStorage(t *testing.T) {
	db := testutil.NewDB(t)
	uploader := new(mockUploader)
	_, msgSvc := newDMServices(db, uploader, nil)
	thread := testutil.CreateThread(t, db, testutil.CreateUser(t, db, "owner").ID, false, time.Now())
	ctx := context.Background()

	tests := []struct {
		name  string
		files []upload.File
		want  error
	}{
		{"too many", []upload.File{
			fakeFile("1.jpg", "image/jpeg", 10), fakeFile("2.jpg", "image/jpeg", 10),
			fakeFile("3.jpg", "image/jpeg", 10), fakeFile("4.jpg", "image/jpeg", 10),
		}, common.ErrTooManyFiles},
		{"too large", []upload.File{fakeFile("big.jpg", "image/jpeg", 12*1024*1024)}, common.ErrFileTooLarge},
		{"wrong type", []upload.File{fakeFile("a.gif", "image/gif", 10)}, common.ErrUnsupportedFileType},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := msgSvc.SendImages(ctx, thread.ID, 1, tt.files)
			assert.ErrorIs(t, err, tt.want)
		})
	}
	uploader.AssertNotCalled(t, "Upload", mock.Anything, mock.Anything, mock.Anything)

	var count int64
	require.NoError(t, db.Model(&domain.DMMessage{}).Count(&count).Error)
	assert.Zero(t, count)
}

func TestSendImages_PartialFailureKeepsMessage(t *testing.T) {
	db := testutil.NewDB(t)
	uploader := new(mockUploader)
	_, msgSvc := newDMServices(db, uploader, nil)
	thread := testutil.CreateThread(t, db, testutil.CreateUser(t, db, "owner").ID, false, time.Now())

	uploader.On("Upload", mock.Anything, "image/jpeg", int64(100)).
		Return(&storage.UploadResult{Key: "k1", URL: "https://cdn/k1", ContentType: "image/jpeg", Size: 100}, nil).Once()
	uploader.On("Upload", mock.Anything, "image/png", int64(200)).
		Return(nil, errors.New("connection reset")).Once()

	res, err := msgSvc.SendImages(context.Background(), thread.ID, 1, []upload.File{
		fakeFile("a.jpg", "image/jpeg", 100),
		fakeFile("b.png", "image/png", 200),
	})
	require.NoError(t, err)
	require.Len(t, res.Files, 2)
	assert.Equal(t, "https://cdn/k1", res.Files[0].URL)
	assert.Empty(t, res.Files[0].Error)
	assert.Equal(t, "upload failed", res.Files[1].Error)
	require.Len(t, res.Message.Images, 1)
	uploader.AssertExpectations(t)

	var images int64
	require.NoError(t, db.Model(&domain.DMMessageImage{}).Count(&images).Error)
	assert.EqualValues(t, 1, images)
}

func TestPostUserMessage_OpensThreadAsUnread(t *testing.T) {
	db := testutil.NewDB(t)
	_, msgSvc := newDMServices(db, nil, nil)
	ctx := context.Background()
	user := testutil.CreateUser(t, db, "member")

	msg, err := msgSvc.PostUserMessage(ctx, user.ID, "question")
	require.NoError(t, err)
	assert.True(t, msg.IsMine)

	var thread domain.DMThread
	require.NoError(t, db.Where("user_id = ?", user.ID).First(&thread).Error)
	assert.False(t, thread.IsAdminRead)
	require.NotNil(t, thread.LastSentAt)

	// staff reads, member posts again: back to unread
	require.NoError(t, db.Model(&thread).Update("is_admin_read", true).Error)
	_, err = msgSvc.PostUserMessage(ctx, user.ID, "follow-up")
	require.NoError(t, err)
	require.NoError(t, db.First(&thread, thread.ID).Error)
	assert.False(t, thread.IsAdminRead)

	page, err := msgSvc.MyMessages(ctx, user.ID, 0, 20)
	require.NoError(t, err)
	assert.Len(t, page.Messages, 2)
}

func TestMyMessages_NoThreadYet(t *testing.T) {
	db := testutil.NewDB(t)
	_, msgSvc := newDMServices(db, nil, nil)
	page, err := msgSvc.MyMessages(context.Background(), 42, 0, 20)
	require.NoError(t, err)
	assert.Empty(t, page.Messages)
	assert.False(t, page.HasMore)
}
