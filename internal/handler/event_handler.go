package handler

import (
	"github.com/damoang/eventhub-backend/internal/common"
	"github.com/damoang/eventhub-backend/internal/domain"
	"github.com/damoang/eventhub-backend/internal/service"
	"github.com/damoang/eventhub-backend/pkg/ginutil"
	"github.com/gin-gonic/gin"
)

// EventHandler is the staff side of events
type EventHandler struct {
	service *service.EventService
}

// NewEventHandler creates a new EventHandler
func NewEventHandler(service *service.EventService) *EventHandler {
	return &EventHandler{service: service}
}

// ListEvents godoc
// @Summary      List events, newest start first
// @Tags         events
// @Produce      json
// @Param        offset  query     int  false  "offset"
// @Param        limit   query     int  false  "page size"
// @Success      200     {object}  common.Response{data=[]domain.Event}
// @Router       /admin/events [get]
func (h *EventHandler) ListEvents(c *gin.Context) {
	offset, limit := ginutil.OffsetLimit(c, defaultPageSize, maxPageSize)
	events, total, err := h.service.List(c.Request.Context(), offset, limit)
	if err != nil {
		common.Fail(c, err)
		return
	}
	common.SuccessWithMeta(c, events, common.NewMeta(offset, limit, len(events), total))
}

// GetEvent handles GET /admin/events/:id
func (h *EventHandler) GetEvent(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	event, err := h.service.Get(c.Request.Context(), id)
	if err != nil {
		common.Fail(c, err)
		return
	}
	common.Success(c, event)
}

// CreateEvent godoc
// @Summary      Create an event
// @Tags         events
// @Accept       json
// @Produce      json
// @Param        request  body      domain.EventRequest  true  "event"
// @Success      201      {object}  common.Response{data=service.EventWithGroups}
// @Failure      400      {object}  common.Response
// @Router       /admin/events [post]
func (h *EventHandler) CreateEvent(c *gin.Context) {
	var req domain.EventRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		common.BadRequest(c, err)
		return
	}
	event, err := h.service.Create(c.Request.Context(), &req)
	if err != nil {
		common.Fail(c, err)
		return
	}
	common.Created(c, event)
}

// UpdateEvent handles PUT /admin/events/:id
func (h *EventHandler) UpdateEvent(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	var req domain.EventRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		common.BadRequest(c, err)
		return
	}
	event, err := h.service.Update(c.Request.Context(), id, &req)
	if err != nil {
		common.Fail(c, err)
		return
	}
	common.Success(c, event)
}

// SetVisibleGroups handles PUT /admin/events/:id/visible-groups
func (h *EventHandler) SetVisibleGroups(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	var req domain.VisibleGroupsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		common.BadRequest(c, err)
		return
	}
	event, err := h.service.SetVisibleGroups(c.Request.Context(), id, req.GroupIDs)
	if err != nil {
		common.Fail(c, err)
		return
	}
	common.Success(c, event)
}

// DeleteEvent handles DELETE /admin/events/:id
func (h *EventHandler) DeleteEvent(c *gin.Context) {
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

// Attendees handles GET /admin/events/:id/attendees
func (h *EventHandler) Attendees(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	attendees, err := h.service.Attendees(c.Request.Context(), id)
	if err != nil {
		common.Fail(c, err)
		return
	}
	common.Success(c, attendees)
}
