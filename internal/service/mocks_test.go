package service

import (
	"bytes"
	"context"
	"io"

	"github.com/damoang/eventhub-backend/internal/checkout"
	"github.com/damoang/eventhub-backend/internal/domain"
	"github.com/damoang/eventhub-backend/internal/notify"
	"github.com/damoang/eventhub-backend/internal/upload"
	"github.com/damoang/eventhub-backend/pkg/storage"
	"github.com/stretchr/testify/mock"
)

// --- Mock Uploader ---

type mockUploader struct {
	mock.Mock
}

func (m *mockUploader) Upload(ctx context.Context, key string, body io.Reader, contentType string, size int64) (*storage.UploadResult, error) {
	args := m.Called(key, contentType, size)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*storage.UploadResult), args.Error(1)
}

func (m *mockUploader) Delete(ctx context.Context, key string) error {
	return m.Called(key).Error(0)
}

// --- Mock checkout ---

type mockCheckout struct {
	mock.Mock
}

func (m *mockCheckout) CreateSession(ctx context.Context, req checkout.SessionRequest) (string, error) {
	args := m.Called(req)
	return args.String(0), args.Error(1)
}

// --- Mock notifier ---

type mockNotifier struct {
	mock.Mock
}

func (m *mockNotifier) Notify(ctx context.Context, n notify.Notification) error {
	return m.Called(n.Type, n.UserID, n.EventID).Error(0)
}

func (m *mockNotifier) Close() error { return nil }

// --- Mock video host ---

type mockVideo struct {
	mock.Mock
}

func (m *mockVideo) CreateTicket(ctx context.Context, name string, size int64) (*domain.VideoTicket, error) {
	args := m.Called(name, size)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.VideoTicket), args.Error(1)
}

// --- Mock search index ---

type mockIndex struct {
	mock.Mock
}

func (m *mockIndex) IndexDocument(ctx context.Context, index, docID string, body interface{}) error {
	return m.Called(index, docID).Error(0)
}

func (m *mockIndex) DeleteDocument(ctx context.Context, index, docID string) error {
	return m.Called(index, docID).Error(0)
}

func (m *mockIndex) BulkIndex(ctx context.Context, index string, docs map[string]interface{}) error {
	return m.Called(index, len(docs)).Error(0)
}

func (m *mockIndex) SearchIDs(ctx context.Context, index, text string, fields []string, size int) ([]string, error) {
	args := m.Called(index, text)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]string), args.Error(1)
}

func fakeFile(name, contentType string, size int64) upload.File {
	return upload.File{
		Name:        name,
		ContentType: contentType,
		Size:        size,
		Open: func() (io.ReadCloser, error) {
			return io.NopCloser(bytes.NewReader([]byte("x"))), nil
		},
	}
}
