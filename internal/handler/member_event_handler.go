package handler

import (
	"errors"
	"time"

	"github.com/damoang/eventhub-backend/internal/common"
	"github.com/damoang/eventhub-backend/internal/domain"
	"github.com/damoang/eventhub-backend/internal/middleware"
	"github.com/damoang/eventhub-backend/internal/service"
	"github.com/gin-gonic/gin"
)

var errUnknownOffering = errors.New("unknown offering")

// CalendarResponse is one calendar view
type CalendarResponse struct {
	From time.Time            `json:"from"`
	To   time.Time            `json:"to"`
	Days []domain.CalendarDay `json:"days"`
}

// MemberEventHandler is the member side of events: calendar, detail and registration
type MemberEventHandler struct {
	events        *service.EventService
	schedule      *service.ScheduleService
	registrations *service.RegistrationService
}

// NewMemberEventHandler creates a new MemberEventHandler
func NewMemberEventHandler(events *service.EventService, schedule *service.ScheduleService,
	registrations *service.RegistrationService) *MemberEventHandler {
	return &MemberEventHandler{events: events, schedule: schedule, registrations: registrations}
}

// Calendar godoc
// @Summary      Visible events of a month or week, grouped by local day
// @Tags         schedule
// @Produce      json
// @Param        view     query     string  false  "month (default) or week"
// @Param        date     query     string  false  "any day inside the range, YYYY-MM-DD"
// @Param        q        query     string  false  "search term"
// @Param        city     query     string  false  "city"
// @Param        type     query     string  false  "event type"
// @Param        mode     query     string  false  "online or offline"
// @Param        applied  query     bool    false  "only events I registered for"
// @Success      200      {object}  common.Response{data=CalendarResponse}
// @Router       /v1/events/calendar [get]
func (h *MemberEventHandler) Calendar(c *gin.Context) {
	var facets domain.ScheduleFacets
	if err := c.ShouldBindQuery(&facets); err != nil {
		common.BadRequest(c, err)
		return
	}
	loc := h.schedule.Location()
	anchor := time.Now().In(loc)
	if raw := c.Query("date"); raw != "" {
		t, err := time.ParseInLocation(time.DateOnly, raw, loc)
		if err != nil {
			common.BadRequest(c, err)
			return
		}
		anchor = t
	}
	from, to := service.MonthRange(anchor, loc)
	if c.Query("view") == "week" {
		from, to = service.WeekRange(anchor, loc)
	}

	events, err := h.schedule.Calendar(c.Request.Context(), middleware.GetUserID(c), from, to)
	if err != nil {
		common.Fail(c, err)
		return
	}
	common.Success(c, CalendarResponse{
		From: from,
		To:   to,
		Days: service.GroupByDay(service.Filter(events, facets), loc),
	})
}

// GetEvent handles GET /v1/events/:id
func (h *MemberEventHandler) GetEvent(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	event, err := h.events.FindVisible(c.Request.Context(), h.schedule, middleware.GetUserID(c), id)
	if err != nil {
		common.Fail(c, err)
		return
	}
	common.Success(c, event)
}

// Availability godoc
// @Summary      Capacity and mode state for the registration form
// @Tags         registration
// @Produce      json
// @Param        id   path      int  true  "event id"
// @Success      200  {object}  common.Response{data=domain.Availability}
// @Router       /v1/events/{id}/availability [get]
func (h *MemberEventHandler) Availability(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	userID := middleware.GetUserID(c)
	if _, err := h.events.FindVisible(c.Request.Context(), h.schedule, userID, id); err != nil {
		common.Fail(c, err)
		return
	}
	av, err := h.registrations.Availability(c.Request.Context(), id, userID)
	if err != nil {
		common.Fail(c, err)
		return
	}
	common.Success(c, av)
}

// Register godoc
// @Summary      Register for an event and its options
// @Description  Paid options return a checkout redirect URL.
// @Tags         registration
// @Accept       json
// @Produce      json
// @Param        id       path      int                     true  "event id"
// @Param        request  body      domain.RegisterRequest  true  "selection"
// @Success      201      {object}  common.Response{data=domain.RegisterResult}
// @Failure      409      {object}  common.Response
// @Failure      422      {object}  common.Response
// @Failure      502      {object}  common.Response
// @Router       /v1/events/{id}/registrations [post]
func (h *MemberEventHandler) Register(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	var req domain.RegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		common.BadRequest(c, err)
		return
	}
	userID := middleware.GetUserID(c)
	if _, err := h.events.FindVisible(c.Request.Context(), h.schedule, userID, id); err != nil {
		common.Fail(c, err)
		return
	}
	result, err := h.registrations.Register(c.Request.Context(), userID, id, &req)
	if err != nil {
		common.Fail(c, err)
		return
	}
	common.Created(c, result)
}

// Cancel handles DELETE /v1/events/:id/registrations/:offering
func (h *MemberEventHandler) Cancel(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	off := c.Param("offering")
	switch off {
	case domain.OfferingEvent, domain.OfferingGather, domain.OfferingConsultation:
	default:
		common.BadRequest(c, errUnknownOffering)
		return
	}
	if err := h.registrations.Cancel(c.Request.Context(), middleware.GetUserID(c), id, off); err != nil {
		common.Fail(c, err)
		return
	}
	common.NoContent(c)
}

// MyRegistrations handles GET /v1/me/registrations
func (h *MemberEventHandler) MyRegistrations(c *gin.Context) {
	regs, err := h.registrations.MyRegistrations(c.Request.Context(), middleware.GetUserID(c))
	if err != nil {
		common.Fail(c, err)
		return
	}
	common.Success(c, regs)
}
