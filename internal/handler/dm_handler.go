package handler

import (
	"strings"

	"github.com/damoang/eventhub-backend/internal/common"
	"github.com/damoang/eventhub-backend/internal/domain"
	"github.com/damoang/eventhub-backend/internal/middleware"
	"github.com/damoang/eventhub-backend/internal/service"
	"github.com/damoang/eventhub-backend/pkg/ginutil"
	"github.com/gin-gonic/gin"
)

// DMHandler serves the admin inbox and the member message pane
type DMHandler struct {
	threads  *service.DMThreadService
	messages *service.DMMessageService
}

// NewDMHandler creates a new DMHandler
func NewDMHandler(threads *service.DMThreadService, messages *service.DMMessageService) *DMHandler {
	return &DMHandler{threads: threads, messages: messages}
}

// ListThreads godoc
// @Summary      Inbox page (unread first)
// @Tags         dm
// @Produce      json
// @Param        offset  query     int  false  "offset"
// @Param        limit   query     int  false  "page size"
// @Success      200     {object}  common.Response{data=domain.ThreadPage}
// @Router       /admin/dm/threads [get]
func (h *DMHandler) ListThreads(c *gin.Context) {
	offset := ginutil.QueryInt(c, "offset", 0)
	limit := ginutil.QueryInt(c, "limit", 0)
	if limit > maxPageSize {
		limit = maxPageSize
	}
	page, err := h.threads.FetchMoreThreads(c.Request.Context(), offset, limit)
	if err != nil {
		common.Fail(c, err)
		return
	}
	common.Success(c, page)
}

// SearchThreads godoc
// @Summary      Search threads by user name
// @Tags         dm
// @Produce      json
// @Param        q    query     string  true  "name fragment"
// @Success      200  {object}  common.Response{data=[]domain.DMThread}
// @Router       /admin/dm/threads/search [get]
func (h *DMHandler) SearchThreads(c *gin.Context) {
	threads, err := h.threads.SearchThreadsByUsername(c.Request.Context(), strings.TrimSpace(c.Query("q")))
	if err != nil {
		common.Fail(c, err)
		return
	}
	common.Success(c, threads)
}

// GetThread godoc
// @Summary      One thread
// @Tags         dm
// @Produce      json
// @Param        id   path      int  true  "thread id"
// @Success      200  {object}  common.Response{data=domain.DMThread}
// @Failure      404  {object}  common.Response
// @Router       /admin/dm/threads/{id} [get]
func (h *DMHandler) GetThread(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	thread, err := h.threads.FetchThreadByID(c.Request.Context(), id)
	if err != nil {
		common.Fail(c, err)
		return
	}
	common.Success(c, thread)
}

// UpdateReadStatus godoc
// @Summary      Mark a thread read or unread
// @Tags         dm
// @Accept       json
// @Produce      json
// @Param        id       path  int                       true  "thread id"
// @Param        request  body  domain.ReadStatusRequest  true  "read flag"
// @Success      204
// @Router       /admin/dm/threads/{id}/read [patch]
func (h *DMHandler) UpdateReadStatus(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	var req domain.ReadStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		common.BadRequest(c, err)
		return
	}
	if err := h.threads.UpdateReadStatus(c.Request.Context(), id, *req.Read); err != nil {
		common.Fail(c, err)
		return
	}
	common.NoContent(c)
}

// UnreadCount godoc
// @Summary      Unread thread count for the badge
// @Tags         dm
// @Produce      json
// @Success      200  {object}  common.Response
// @Router       /admin/dm/unread-count [get]
func (h *DMHandler) UnreadCount(c *gin.Context) {
	n, err := h.threads.UnreadCount(c.Request.Context())
	if err != nil {
		common.Fail(c, err)
		return
	}
	common.Success(c, gin.H{"unread": n})
}

// ListMessages godoc
// @Summary      Messages of a thread, oldest first
// @Tags         dm
// @Produce      json
// @Param        id      path      int  true   "thread id"
// @Param        offset  query     int  false  "messages already loaded"
// @Param        limit   query     int  false  "page size"
// @Success      200     {object}  common.Response{data=domain.MessagePage}
// @Router       /admin/dm/threads/{id}/messages [get]
func (h *DMHandler) ListMessages(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	offset, limit := ginutil.OffsetLimit(c, h.messages.PageSize(), maxPageSize)
	page, err := h.messages.FetchMessages(c.Request.Context(), id, offset, limit)
	if err != nil {
		common.Fail(c, err)
		return
	}
	common.Success(c, page)
}

// SendText godoc
// @Summary      Post a text message as staff
// @Tags         dm
// @Accept       json
// @Produce      json
// @Param        id       path      int                     true  "thread id"
// @Param        request  body      domain.SendTextRequest  true  "message"
// @Success      201      {object}  common.Response{data=domain.DMMessage}
// @Router       /admin/dm/threads/{id}/messages [post]
func (h *DMHandler) SendText(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	var req domain.SendTextRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		common.BadRequest(c, err)
		return
	}
	msg, err := h.messages.SendText(c.Request.Context(), id, middleware.GetUserID(c), req.Content)
	if err != nil {
		common.Fail(c, err)
		return
	}
	common.Created(c, msg)
}

// SendImages godoc
// @Summary      Post up to three images as staff
// @Tags         dm
// @Accept       multipart/form-data
// @Produce      json
// @Param        id      path      int   true  "thread id"
// @Param        images  formData  file  true  "JPEG or PNG, 10MB each"
// @Success      201     {object}  common.Response{data=domain.ImagePostResult}
// @Failure      413     {object}  common.Response
// @Router       /admin/dm/threads/{id}/images [post]
func (h *DMHandler) SendImages(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	files, err := formFiles(c, "images")
	if err != nil {
		common.BadRequest(c, err)
		return
	}
	result, err := h.messages.SendImages(c.Request.Context(), id, middleware.GetUserID(c), files)
	if err != nil {
		common.Fail(c, err)
		return
	}
	common.Created(c, result)
}

// 회원용

// MyMessages godoc
// @Summary      The member's own conversation with staff
// @Tags         dm
// @Produce      json
// @Param        offset  query     int  false  "messages already loaded"
// @Param        limit   query     int  false  "page size"
// @Success      200     {object}  common.Response{data=domain.MessagePage}
// @Router       /v1/messages [get]
func (h *DMHandler) MyMessages(c *gin.Context) {
	offset, limit := ginutil.OffsetLimit(c, h.messages.PageSize(), maxPageSize)
	page, err := h.messages.MyMessages(c.Request.Context(), middleware.GetUserID(c), offset, limit)
	if err != nil {
		common.Fail(c, err)
		return
	}
	common.Success(c, page)
}

// PostMessage godoc
// @Summary      Send a message to staff
// @Tags         dm
// @Accept       json
// @Produce      json
// @Param        request  body      domain.SendTextRequest  true  "message"
// @Success      201      {object}  common.Response{data=domain.DMMessage}
// @Router       /v1/messages [post]
func (h *DMHandler) PostMessage(c *gin.Context) {
	var req domain.SendTextRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		common.BadRequest(c, err)
		return
	}
	msg, err := h.messages.PostUserMessage(c.Request.Context(), middleware.GetUserID(c), req.Content)
	if err != nil {
		common.Fail(c, err)
		return
	}
	common.Created(c, msg)
}
