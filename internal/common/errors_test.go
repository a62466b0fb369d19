package common

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/damoang/eventhub-backend/pkg/i18n"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStatusFor(t *testing.T) {
	tests := []struct {
		err  error
		want int
	}{
		{ErrNotFound, http.StatusNotFound},
		{fmt.Errorf("thread 3: %w", ErrNotFound), http.StatusNotFound},
		{ErrCapacityExceeded, http.StatusConflict},
		{ErrDependencyRequired, http.StatusUnprocessableEntity},
		{ErrCheckoutFailed, http.StatusBadGateway},
		{WithArgs(ErrFileTooLarge, "10 MB"), http.StatusRequestEntityTooLarge},
		{ErrUnsupportedFileType, http.StatusUnsupportedMediaType},
		{fmt.Errorf("boom"), http.StatusInternalServerError},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, StatusFor(tt.err), tt.err.Error())
	}
}

func TestFail_LocalizesWithArgs(t *testing.T) {
	gin.SetMode(gin.TestMode)
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Set(LocaleKey, i18n.LocaleEn)

	Fail(c, WithArgs(ErrTooManyFiles, 3))

	assert.Equal(t, http.StatusBadRequest, w.Code)
	var resp Response
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.False(t, resp.Success)
	assert.Equal(t, "BAD_REQUEST", resp.Error.Code)
	assert.Equal(t, "At most 3 files can be sent at once", resp.Error.Message)
}

func TestFail_HidesInternalDetails(t *testing.T) {
	gin.SetMode(gin.TestMode)
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)

	Fail(c, fmt.Errorf("dial tcp: refused"))

	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.NotContains(t, w.Body.String(), "refused")
}

func TestNewMeta(t *testing.T) {
	assert.True(t, NewMeta(0, 20, 20, 25).HasMore)
	assert.False(t, NewMeta(20, 20, 5, 25).HasMore)
}
