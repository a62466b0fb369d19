package common

import (
	"errors"
	"net/http"

	"github.com/damoang/eventhub-backend/pkg/i18n"
	"github.com/gin-gonic/gin"
)

// LocaleKey is the gin context key the I18n middleware stores the locale under
const LocaleKey = "locale"

// Response 표준 응답 형식
type Response struct {
	Success bool        `json:"success"`
	Data    interface{} `json:"data,omitempty"`
	Meta    *Meta       `json:"meta,omitempty"`
	Error   *Error      `json:"error,omitempty"`
}

// Meta 페이지네이션 메타
type Meta struct {
	Offset  int   `json:"offset"`
	Limit   int   `json:"limit"`
	Total   int64 `json:"total"`
	HasMore bool  `json:"has_more"`
}

// Error 에러 응답
type Error struct {
	Code    string      `json:"code"`
	Message string      `json:"message"`
	Details interface{} `json:"details,omitempty"`
}

// NewMeta creates Meta with has_more computed from the real total
func NewMeta(offset, limit, returned int, total int64) *Meta {
	return &Meta{
		Offset:  offset,
		Limit:   limit,
		Total:   total,
		HasMore: int64(offset+returned) < total,
	}
}

// Success returns a success response
func Success(c *gin.Context, data interface{}) {
	c.JSON(http.StatusOK, Response{Success: true, Data: data})
}

// SuccessWithMeta returns a success response with pagination
func SuccessWithMeta(c *gin.Context, data interface{}, meta *Meta) {
	c.JSON(http.StatusOK, Response{Success: true, Data: data, Meta: meta})
}

// Created returns a 201 Created response
func Created(c *gin.Context, data interface{}) {
	c.JSON(http.StatusCreated, Response{Success: true, Data: data})
}

// NoContent returns 204
func NoContent(c *gin.Context) {
	c.Status(http.StatusNoContent)
}

// ErrorResponse returns an error response
func ErrorResponse(c *gin.Context, status int, message string, err error) {
	e := &Error{
		Code:    getErrorCode(status),
		Message: message,
	}
	if err != nil {
		e.Details = err.Error()
	}
	c.AbortWithStatusJSON(status, Response{Success: false, Error: e})
}

// Fail maps err to a status and a localized message
func Fail(c *gin.Context, err error) {
	status := StatusFor(err)
	var args []interface{}
	var ae *ArgsError
	if errors.As(err, &ae) {
		args = ae.Args
	}
	msg := i18n.Default().T(LocaleFrom(c), MessageKey(err), args...)
	if status >= http.StatusInternalServerError && status != http.StatusBadGateway {
		// internals stay in the log
		_ = c.Error(err)
		ErrorResponse(c, status, msg, nil)
		return
	}
	ErrorResponse(c, status, msg, err)
}

// BadRequest reports a binding or parameter error
func BadRequest(c *gin.Context, err error) {
	msg := i18n.Default().T(LocaleFrom(c), "error.bad_request")
	ErrorResponse(c, http.StatusBadRequest, msg, err)
}

// LocaleFrom returns the request locale
func LocaleFrom(c *gin.Context) i18n.Locale {
	if v, ok := c.Get(LocaleKey); ok {
		if l, ok := v.(i18n.Locale); ok {
			return l
		}
	}
	return i18n.DefaultLocale()
}

// getErrorCode generates error code from HTTP status
func getErrorCode(status int) string {
	switch status {
	case http.StatusBadRequest:
		return "BAD_REQUEST"
	case http.StatusUnauthorized:
		return "UNAUTHORIZED"
	case http.StatusForbidden:
		return "FORBIDDEN"
	case http.StatusNotFound:
		return "NOT_FOUND"
	case http.StatusConflict:
		return "CONFLICT"
	case http.StatusRequestEntityTooLarge:
		return "PAYLOAD_TOO_LARGE"
	case http.StatusUnsupportedMediaType:
		return "UNSUPPORTED_MEDIA_TYPE"
	case http.StatusUnprocessableEntity:
		return "UNPROCESSABLE_ENTITY"
	case http.StatusTooManyRequests:
		return "TOO_MANY_REQUESTS"
	case http.StatusBadGateway:
		return "BAD_GATEWAY"
	case http.StatusInternalServerError:
		return "INTERNAL_SERVER_ERROR"
	default:
		return "ERROR"
	}
}
