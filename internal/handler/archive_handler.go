package handler

import (
	"github.com/damoang/eventhub-backend/internal/common"
	"github.com/damoang/eventhub-backend/internal/domain"
	"github.com/damoang/eventhub-backend/internal/service"
	"github.com/damoang/eventhub-backend/internal/upload"
	"github.com/damoang/eventhub-backend/pkg/ginutil"
	"github.com/gin-gonic/gin"
)

// ArchiveHandler serves recorded sessions and the FAQ
type ArchiveHandler struct {
	archives *service.ArchiveService
	faqs     *service.FAQService
}

// NewArchiveHandler creates a new ArchiveHandler
func NewArchiveHandler(archives *service.ArchiveService, faqs *service.FAQService) *ArchiveHandler {
	return &ArchiveHandler{archives: archives, faqs: faqs}
}

// ListArchives handles GET /admin/archives
func (h *ArchiveHandler) ListArchives(c *gin.Context) {
	offset, limit := ginutil.OffsetLimit(c, defaultPageSize, maxPageSize)
	archives, total, err := h.archives.List(c.Request.Context(), offset, limit)
	if err != nil {
		common.Fail(c, err)
		return
	}
	common.SuccessWithMeta(c, archives, common.NewMeta(offset, limit, len(archives), total))
}

// GetArchive handles GET /admin/archives/:id
func (h *ArchiveHandler) GetArchive(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	archive, err := h.archives.Get(c.Request.Context(), id)
	if err != nil {
		common.Fail(c, err)
		return
	}
	common.Success(c, archive)
}

// CreateArchive handles POST /admin/archives
func (h *ArchiveHandler) CreateArchive(c *gin.Context) {
	var req domain.ArchiveRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		common.BadRequest(c, err)
		return
	}
	archive, err := h.archives.Create(c.Request.Context(), &req)
	if err != nil {
		common.Fail(c, err)
		return
	}
	common.Created(c, archive)
}

// UpdateArchive handles PUT /admin/archives/:id
func (h *ArchiveHandler) UpdateArchive(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	var req domain.ArchiveRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		common.BadRequest(c, err)
		return
	}
	archive, err := h.archives.Update(c.Request.Context(), id, &req)
	if err != nil {
		common.Fail(c, err)
		return
	}
	common.Success(c, archive)
}

// DeleteArchive handles DELETE /admin/archives/:id
func (h *ArchiveHandler) DeleteArchive(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	if err := h.archives.Delete(c.Request.Context(), id); err != nil {
		common.Fail(c, err)
		return
	}
	common.NoContent(c)
}

// UploadImage godoc
// @Summary      Replace the archive thumbnail
// @Tags         archives
// @Accept       multipart/form-data
// @Produce      json
// @Param        id     path      int   true  "archive id"
// @Param        image  formData  file  true  "JPEG or PNG, 10MB"
// @Success      200    {object}  common.Response{data=domain.Archive}
// @Failure      413    {object}  common.Response
// @Router       /admin/archives/{id}/image [post]
func (h *ArchiveHandler) UploadImage(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	fh, err := c.FormFile("image")
	if err != nil {
		common.BadRequest(c, err)
		return
	}
	archive, err := h.archives.UploadImage(c.Request.Context(), id, upload.FromMultipart(fh))
	if err != nil {
		common.Fail(c, err)
		return
	}
	common.Success(c, archive)
}

// VideoTicket godoc
// @Summary      Direct-upload URL from the video host
// @Tags         archives
// @Accept       json
// @Produce      json
// @Param        request  body      domain.VideoTicketRequest  true  "declared file"
// @Success      200      {object}  common.Response{data=domain.VideoTicket}
// @Failure      413      {object}  common.Response
// @Router       /admin/archives/video-ticket [post]
func (h *ArchiveHandler) VideoTicket(c *gin.Context) {
	var req domain.VideoTicketRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		common.BadRequest(c, err)
		return
	}
	ticket, err := h.archives.VideoTicket(c.Request.Context(), &req, req.ContentType)
	if err != nil {
		common.Fail(c, err)
		return
	}
	common.Success(c, ticket)
}

// PublishedArchives handles GET /v1/archives
func (h *ArchiveHandler) PublishedArchives(c *gin.Context) {
	offset, limit := ginutil.OffsetLimit(c, defaultPageSize, maxPageSize)
	archives, total, err := h.archives.Published(c.Request.Context(), offset, limit)
	if err != nil {
		common.Fail(c, err)
		return
	}
	common.SuccessWithMeta(c, archives, common.NewMeta(offset, limit, len(archives), total))
}

// FAQ

// ListFAQs handles GET /admin/faqs and GET /v1/faqs
func (h *ArchiveHandler) ListFAQs(c *gin.Context) {
	faqs, err := h.faqs.List(c.Request.Context())
	if err != nil {
		common.Fail(c, err)
		return
	}
	common.Success(c, faqs)
}

// CreateFAQ handles POST /admin/faqs
func (h *ArchiveHandler) CreateFAQ(c *gin.Context) {
	var req domain.FAQRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		common.BadRequest(c, err)
		return
	}
	faq, err := h.faqs.Create(c.Request.Context(), &req)
	if err != nil {
		common.Fail(c, err)
		return
	}
	common.Created(c, faq)
}

// UpdateFAQ handles PUT /admin/faqs/:id
func (h *ArchiveHandler) UpdateFAQ(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	var req domain.FAQRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		common.BadRequest(c, err)
		return
	}
	faq, err := h.faqs.Update(c.Request.Context(), id, &req)
	if err != nil {
		common.Fail(c, err)
		return
	}
	common.Success(c, faq)
}

// DeleteFAQ handles DELETE /admin/faqs/:id
func (h *ArchiveHandler) DeleteFAQ(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	if err := h.faqs.Delete(c.Request.Context(), id); err != nil {
		common.Fail(c, err)
		return
	}
	common.NoContent(c)
}

// ReorderFAQs handles PUT /admin/faqs/order
func (h *ArchiveHandler) ReorderFAQs(c *gin.Context) {
	var req domain.ReorderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		common.BadRequest(c, err)
		return
	}
	faqs, err := h.faqs.Reorder(c.Request.Context(), req.IDs)
	if err != nil {
		common.Fail(c, err)
		return
	}
	common.Success(c, faqs)
}
