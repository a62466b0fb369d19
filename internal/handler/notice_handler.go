package handler

import (
	"strconv"

	"github.com/damoang/eventhub-backend/internal/common"
	"github.com/damoang/eventhub-backend/internal/domain"
	"github.com/damoang/eventhub-backend/internal/service"
	"github.com/damoang/eventhub-backend/pkg/ginutil"
	"github.com/gin-gonic/gin"
)

// NoticeHandler serves notices to staff (all) and members (published only)
type NoticeHandler struct {
	service *service.NoticeService
}

// NewNoticeHandler creates a new NoticeHandler
func NewNoticeHandler(service *service.NoticeService) *NoticeHandler {
	return &NoticeHandler{service: service}
}

// ListNotices handles GET /admin/notices
func (h *NoticeHandler) ListNotices(c *gin.Context) {
	offset, limit := ginutil.OffsetLimit(c, defaultPageSize, maxPageSize)
	notices, total, err := h.service.List(c.Request.Context(), offset, limit)
	if err != nil {
		common.Fail(c, err)
		return
	}
	common.SuccessWithMeta(c, notices, common.NewMeta(offset, limit, len(notices), total))
}

// GetNotice handles GET /admin/notices/:id
func (h *NoticeHandler) GetNotice(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	notice, err := h.service.Get(c.Request.Context(), id)
	if err != nil {
		common.Fail(c, err)
		return
	}
	common.Success(c, notice)
}

// CreateNotice godoc
// @Summary      Create a notice
// @Tags         notices
// @Accept       json
// @Produce      json
// @Param        request  body      domain.NoticeRequest  true  "notice"
// @Success      201      {object}  common.Response{data=domain.Notice}
// @Failure      400      {object}  common.Response
// @Router       /admin/notices [post]
func (h *NoticeHandler) CreateNotice(c *gin.Context) {
	var req domain.NoticeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		common.BadRequest(c, err)
		return
	}
	notice, err := h.service.Create(c.Request.Context(), &req)
	if err != nil {
		common.Fail(c, err)
		return
	}
	common.Created(c, notice)
}

// UpdateNotice handles PUT /admin/notices/:id
func (h *NoticeHandler) UpdateNotice(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	var req domain.NoticeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		common.BadRequest(c, err)
		return
	}
	notice, err := h.service.Update(c.Request.Context(), id, &req)
	if err != nil {
		common.Fail(c, err)
		return
	}
	common.Success(c, notice)
}

// DeleteNotice handles DELETE /admin/notices/:id
func (h *NoticeHandler) DeleteNotice(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	if err := h.service.Delete(c.Request.Context(), id); err != nil {
		common.Fail(c, err)
		return
	}
	common.NoContent(c)
}

// AttachFiles godoc
// @Summary      Attach files to a notice
// @Tags         notices
// @Accept       multipart/form-data
// @Produce      json
// @Param        id     path      int   true  "notice id"
// @Param        files  formData  file  true  "attachments, 10MB each"
// @Success      201    {object}  common.Response{data=[]domain.NoticeFile}
// @Failure      413    {object}  common.Response
// @Router       /admin/notices/{id}/files [post]
func (h *NoticeHandler) AttachFiles(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	files, err := formFiles(c, "files")
	if err != nil {
		common.BadRequest(c, err)
		return
	}
	stored, err := h.service.AttachFiles(c.Request.Context(), id, files)
	if err != nil {
		common.Fail(c, err)
		return
	}
	common.Created(c, stored)
}

// DeleteFile handles DELETE /admin/notices/:id/files/:file_id
func (h *NoticeHandler) DeleteFile(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	fileID, ok := pathID(c, "file_id")
	if !ok {
		return
	}
	if err := h.service.DeleteFile(c.Request.Context(), id, fileID); err != nil {
		common.Fail(c, err)
		return
	}
	common.NoContent(c)
}

// Reindex handles POST /admin/notices/reindex
func (h *NoticeHandler) Reindex(c *gin.Context) {
	n, err := h.service.Reindex(c.Request.Context())
	if err != nil {
		common.Fail(c, err)
		return
	}
	common.Success(c, gin.H{"indexed": n})
}

// 카테고리

// ListCategories handles GET /admin/notice-categories and GET /v1/notice-categories
func (h *NoticeHandler) ListCategories(c *gin.Context) {
	categories, err := h.service.ListCategories(c.Request.Context())
	if err != nil {
		common.Fail(c, err)
		return
	}
	common.Success(c, categories)
}

// CreateCategory handles POST /admin/notice-categories
func (h *NoticeHandler) CreateCategory(c *gin.Context) {
	var req domain.NoticeCategoryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		common.BadRequest(c, err)
		return
	}
	category, err := h.service.CreateCategory(c.Request.Context(), &req)
	if err != nil {
		common.Fail(c, err)
		return
	}
	common.Created(c, category)
}

// UpdateCategory handles PUT /admin/notice-categories/:id
func (h *NoticeHandler) UpdateCategory(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	var req domain.NoticeCategoryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		common.BadRequest(c, err)
		return
	}
	category, err := h.service.UpdateCategory(c.Request.Context(), id, &req)
	if err != nil {
		common.Fail(c, err)
		return
	}
	common.Success(c, category)
}

// DeleteCategory handles DELETE /admin/notice-categories/:id
func (h *NoticeHandler) DeleteCategory(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	if err := h.service.DeleteCategory(c.Request.Context(), id); err != nil {
		common.Fail(c, err)
		return
	}
	common.NoContent(c)
}

// 회원용

// PublishedNotices godoc
// @Summary      Notices inside their publish window
// @Tags         notices
// @Produce      json
// @Param        category_id  query     int  false  "category filter"
// @Param        offset       query     int  false  "offset"
// @Param        limit        query     int  false  "page size"
// @Success      200          {object}  common.Response{data=[]domain.Notice}
// @Router       /v1/notices [get]
func (h *NoticeHandler) PublishedNotices(c *gin.Context) {
	offset, limit := ginutil.OffsetLimit(c, defaultPageSize, maxPageSize)
	var categoryID *uint64
	if raw := c.Query("category_id"); raw != "" {
		id, err := strconv.ParseUint(raw, 10, 64)
		if err != nil {
			common.BadRequest(c, err)
			return
		}
		categoryID = &id
	}
	notices, total, err := h.service.Published(c.Request.Context(), categoryID, offset, limit)
	if err != nil {
		common.Fail(c, err)
		return
	}
	common.SuccessWithMeta(c, notices, common.NewMeta(offset, limit, len(notices), total))
}

// PublishedNotice handles GET /v1/notices/:id
func (h *NoticeHandler) PublishedNotice(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	notice, err := h.service.PublishedByID(c.Request.Context(), id)
	if err != nil {
		common.Fail(c, err)
		return
	}
	common.Success(c, notice)
}

// SearchNotices handles GET /v1/notices/search?q=
func (h *NoticeHandler) SearchNotices(c *gin.Context) {
	notices, err := h.service.Search(c.Request.Context(), c.Query("q"))
	if err != nil {
		common.Fail(c, err)
		return
	}
	common.Success(c, notices)
}
