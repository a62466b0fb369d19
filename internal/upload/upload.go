// Package upload validates user files before they reach object storage.
package upload

import (
	"context"
	"fmt"
	"io"
	"mime"
	"mime/multipart"
	"path/filepath"
	"strings"

	"github.com/damoang/eventhub-backend/internal/common"
	"github.com/damoang/eventhub-backend/internal/metrics"
	"github.com/damoang/eventhub-backend/pkg/storage"
	"github.com/dustin/go-humanize"
	"github.com/gobwas/glob"
)

// Limits
const (
	MaxImageBytes   int64 = 10 * 1024 * 1024
	MaxDMImages           = 3
	MaxVideoBytes   int64 = 15 * 1024 * 1024 * 1024
	MaxNoticeFileMB       = 10
)

// MIME allow-lists
var (
	ImageTypes      = []string{"image/{jpeg,png}"}
	VideoTypes      = []string{"video/*"}
	AttachmentTypes = []string{
		"image/{jpeg,png,gif,webp}",
		"application/pdf",
		"application/zip",
		"text/plain",
		"application/vnd.openxmlformats-officedocument.*",
		"application/{msword,vnd.ms-excel,vnd.ms-powerpoint}",
	}
)

// Uploader stores objects; pkg/storage.S3Client implements it
type Uploader interface {
	Upload(ctx context.Context, key string, body io.Reader, contentType string, size int64) (*storage.UploadResult, error)
	Delete(ctx context.Context, key string) error
}

// File is one incoming file. Open is only called after validation passed.
type File struct {
	Name        string
	ContentType string
	Size        int64
	Open        func() (io.ReadCloser, error)
}

// FromMultipart adapts a multipart header. The declared type wins; the
// extension is the fallback.
func FromMultipart(fh *multipart.FileHeader) File {
	ct := fh.Header.Get("Content-Type")
	if ct == "" || ct == "application/octet-stream" {
		if byExt := mime.TypeByExtension(strings.ToLower(filepath.Ext(fh.Filename))); byExt != "" {
			ct = byExt
		}
	}
	return File{
		Name:        fh.Filename,
		ContentType: ct,
		Size:        fh.Size,
		Open: func() (io.ReadCloser, error) {
			return fh.Open()
		},
	}
}

// Validator checks count, size and MIME type
type Validator struct {
	MaxBytes int64
	MaxFiles int
	patterns []glob.Glob
	raw      []string
}

// NewValidator compiles patterns; MaxFiles 0 means unlimited
func NewValidator(maxBytes int64, maxFiles int, patterns ...string) (*Validator, error) {
	v := &Validator{MaxBytes: maxBytes, MaxFiles: maxFiles, raw: patterns}
	for _, p := range patterns {
		g, err := glob.Compile(p, '/')
		if err != nil {
			return nil, fmt.Errorf("compile mime pattern %q: %w", p, err)
		}
		v.patterns = append(v.patterns, g)
	}
	return v, nil
}

// MustValidator panics on a bad pattern; for package-level presets
func MustValidator(maxBytes int64, maxFiles int, patterns ...string) *Validator {
	v, err := NewValidator(maxBytes, maxFiles, patterns...)
	if err != nil {
		panic(err)
	}
	return v
}

// Presets
var (
	DMImages     = MustValidator(MaxImageBytes, MaxDMImages, ImageTypes...)
	ArchiveImage = MustValidator(MaxImageBytes, 1, ImageTypes...)
	NoticeFiles  = MustValidator(MaxNoticeFileMB*1024*1024, 5, AttachmentTypes...)
	Video        = MustValidator(MaxVideoBytes, 1, VideoTypes...)
)

// Allowed reports whether contentType matches a pattern
func (v *Validator) Allowed(contentType string) bool {
	mt, _, err := mime.ParseMediaType(contentType)
	if err != nil {
		return false
	}
	for _, g := range v.patterns {
		if g.Match(mt) {
			return true
		}
	}
	return false
}

// Validate checks every file; nothing may be stored unless it returns nil
func (v *Validator) Validate(files []File) error {
	if len(files) == 0 {
		return fmt.Errorf("no file: %w", common.ErrInvalidInput)
	}
	if v.MaxFiles > 0 && len(files) > v.MaxFiles {
		metrics.UploadsRejected.WithLabelValues("count").Inc()
		return common.WithArgs(fmt.Errorf("%d files: %w", len(files), common.ErrTooManyFiles), v.MaxFiles)
	}
	for _, f := range files {
		if err := v.Check(f.Name, f.ContentType, f.Size); err != nil {
			return err
		}
	}
	return nil
}

// Check validates one file's declared metadata
func (v *Validator) Check(name, contentType string, size int64) error {
	if size > v.MaxBytes {
		metrics.UploadsRejected.WithLabelValues("size").Inc()
		limit := humanize.IBytes(uint64(v.MaxBytes))
		return common.WithArgs(
			fmt.Errorf("%s is %s, limit %s: %w", name, humanize.IBytes(uint64(size)), limit, common.ErrFileTooLarge),
			limit)
	}
	if size < 0 {
		return fmt.Errorf("%s: negative size: %w", name, common.ErrInvalidInput)
	}
	if !v.Allowed(contentType) {
		metrics.UploadsRejected.WithLabelValues("type").Inc()
		return fmt.Errorf("%s (%s): %w", name, contentType, common.ErrUnsupportedFileType)
	}
	return nil
}

// Store uploads f under bucket and returns the stored object
func Store(ctx context.Context, u Uploader, bucket string, f File) (*storage.UploadResult, error) {
	rc, err := f.Open()
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", f.Name, err)
	}
	defer rc.Close()
	return u.Upload(ctx, storage.GenerateKey(bucket, f.Name), rc, f.ContentType, f.Size)
}
