package handler

import (
	"github.com/damoang/eventhub-backend/internal/common"
	"github.com/damoang/eventhub-backend/internal/domain"
	"github.com/damoang/eventhub-backend/internal/middleware"
	"github.com/damoang/eventhub-backend/internal/service"
	"github.com/gin-gonic/gin"
)

// DMMetaHandler serves thread labels, tags and memos
type DMMetaHandler struct {
	service *service.DMMetaService
}

// NewDMMetaHandler creates a new DMMetaHandler
func NewDMMetaHandler(service *service.DMMetaService) *DMMetaHandler {
	return &DMMetaHandler{service: service}
}

// 라벨

// ListLabels handles GET /admin/dm/labels
func (h *DMMetaHandler) ListLabels(c *gin.Context) {
	labels, err := h.service.ListLabels(c.Request.Context())
	if err != nil {
		common.Fail(c, err)
		return
	}
	common.Success(c, labels)
}

// CreateLabel handles POST /admin/dm/labels
func (h *DMMetaHandler) CreateLabel(c *gin.Context) {
	var req domain.LabelRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		common.BadRequest(c, err)
		return
	}
	label, err := h.service.CreateLabel(c.Request.Context(), &req)
	if err != nil {
		common.Fail(c, err)
		return
	}
	common.Created(c, label)
}

// UpdateLabel handles PUT /admin/dm/labels/:id
func (h *DMMetaHandler) UpdateLabel(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	var req domain.LabelRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		common.BadRequest(c, err)
		return
	}
	label, err := h.service.UpdateLabel(c.Request.Context(), id, &req)
	if err != nil {
		common.Fail(c, err)
		return
	}
	common.Success(c, label)
}

// DeleteLabel handles DELETE /admin/dm/labels/:id
func (h *DMMetaHandler) DeleteLabel(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	if err := h.service.DeleteLabel(c.Request.Context(), id); err != nil {
		common.Fail(c, err)
		return
	}
	common.NoContent(c)
}

// SetThreadLabel handles PUT /admin/dm/threads/:id/label
func (h *DMMetaHandler) SetThreadLabel(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	var req domain.SetLabelRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		common.BadRequest(c, err)
		return
	}
	thread, err := h.service.SetThreadLabel(c.Request.Context(), id, req.LabelID)
	if err != nil {
		common.Fail(c, err)
		return
	}
	common.Success(c, thread)
}

// 태그

// ListTags handles GET /admin/dm/tags
func (h *DMMetaHandler) ListTags(c *gin.Context) {
	tags, err := h.service.ListTags(c.Request.Context())
	if err != nil {
		common.Fail(c, err)
		return
	}
	common.Success(c, tags)
}

// CreateTag handles POST /admin/dm/tags
func (h *DMMetaHandler) CreateTag(c *gin.Context) {
	var req domain.TagRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		common.BadRequest(c, err)
		return
	}
	tag, err := h.service.CreateTag(c.Request.Context(), &req)
	if err != nil {
		common.Fail(c, err)
		return
	}
	common.Created(c, tag)
}

// DeleteTag handles DELETE /admin/dm/tags/:id
func (h *DMMetaHandler) DeleteTag(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	if err := h.service.DeleteTag(c.Request.Context(), id); err != nil {
		common.Fail(c, err)
		return
	}
	common.NoContent(c)
}

// ThreadTags handles GET /admin/dm/threads/:id/tags
func (h *DMMetaHandler) ThreadTags(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	tags, err := h.service.ThreadTags(c.Request.Context(), id)
	if err != nil {
		common.Fail(c, err)
		return
	}
	common.Success(c, tags)
}

// AttachTag handles PUT /admin/dm/threads/:id/tags/:tag_id
func (h *DMMetaHandler) AttachTag(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	tagID, ok := pathID(c, "tag_id")
	if !ok {
		return
	}
	tags, err := h.service.AttachTag(c.Request.Context(), id, tagID)
	if err != nil {
		common.Fail(c, err)
		return
	}
	common.Success(c, tags)
}

// DetachTag handles DELETE /admin/dm/threads/:id/tags/:tag_id
func (h *DMMetaHandler) DetachTag(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	tagID, ok := pathID(c, "tag_id")
	if !ok {
		return
	}
	tags, err := h.service.DetachTag(c.Request.Context(), id, tagID)
	if err != nil {
		common.Fail(c, err)
		return
	}
	common.Success(c, tags)
}

// 메모

// ListMemos handles GET /admin/dm/threads/:id/memos
func (h *DMMetaHandler) ListMemos(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	memos, err := h.service.ListMemos(c.Request.Context(), id)
	if err != nil {
		common.Fail(c, err)
		return
	}
	common.Success(c, memos)
}

// CreateMemo handles POST /admin/dm/threads/:id/memos
func (h *DMMetaHandler) CreateMemo(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	var req domain.MemoRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		common.BadRequest(c, err)
		return
	}
	memo, err := h.service.CreateMemo(c.Request.Context(), id, middleware.GetUserID(c), &req)
	if err != nil {
		common.Fail(c, err)
		return
	}
	common.Created(c, memo)
}

// UpdateMemo handles PUT /admin/dm/threads/:id/memos/:memo_id
func (h *DMMetaHandler) UpdateMemo(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	memoID, ok := pathID(c, "memo_id")
	if !ok {
		return
	}
	var req domain.MemoRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		common.BadRequest(c, err)
		return
	}
	memo, err := h.service.UpdateMemo(c.Request.Context(), id, memoID, &req)
	if err != nil {
		common.Fail(c, err)
		return
	}
	common.Success(c, memo)
}

// DeleteMemo handles DELETE /admin/dm/threads/:id/memos/:memo_id
func (h *DMMetaHandler) DeleteMemo(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	memoID, ok := pathID(c, "memo_id")
	if !ok {
		return
	}
	if err := h.service.DeleteMemo(c.Request.Context(), id, memoID); err != nil {
		common.Fail(c, err)
		return
	}
	common.NoContent(c)
}
