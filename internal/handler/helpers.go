package handler

import (
	"errors"

	"github.com/damoang/eventhub-backend/internal/common"
	"github.com/damoang/eventhub-backend/internal/upload"
	"github.com/damoang/eventhub-backend/pkg/ginutil"
	"github.com/gin-gonic/gin"
)

const (
	defaultPageSize = 20
	maxPageSize     = 100
)

var errNoFiles = errors.New("no files in request")

// pathID parses a numeric path parameter and answers 400 on failure
func pathID(c *gin.Context, key string) (uint64, bool) {
	id, err := ginutil.ParamUint64(c, key)
	if err != nil || id == 0 {
		common.BadRequest(c, err)
		return 0, false
	}
	return id, true
}

// formFiles collects the multipart files under field. Nothing is opened here.
func formFiles(c *gin.Context, field string) ([]upload.File, error) {
	form, err := c.MultipartForm()
	if err != nil {
		return nil, err
	}
	headers := form.File[field]
	if len(headers) == 0 {
		return nil, errNoFiles
	}
	files := make([]upload.File, 0, len(headers))
	for _, fh := range headers {
		files = append(files, upload.FromMultipart(fh))
	}
	return files, nil
}
