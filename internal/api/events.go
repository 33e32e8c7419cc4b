package api

import (
	"net/http"

	"game_dashboard/internal/middleware"
	"game_dashboard/internal/model"
	"game_dashboard/internal/service"
	"game_dashboard/pkg/logger"

	"github.com/gin-gonic/gin"
)

type eventRoutes struct {
	service service.EventServiceI
}

type CreateEventRequest struct {
	Title     string  `json:"title" binding:"required"`
	Type      string  `json:"type"`
	StartDate string  `json:"start_date" binding:"required"`
	EndDate   *string `json:"end_date"`
	Priority  string  `json:"priority"`
}

func NewEventRoutes(handler *gin.RouterGroup, svc service.EventServiceI, authz *middleware.Authorization) {
	r := &eventRoutes{service: svc}

	h := handler.Group("/games/:id/events")
	{
		h.GET("", r.listEvents)
		h.POST("", authz.AdminOnly(), r.createEvent)
	}
}

func (r *eventRoutes) listEvents(c *gin.Context) {
	log := logger.Logger()

	id, ok := parseID(c, log, "id")
	if !ok {
		return
	}

	events, err := r.service.ListEvents(c.Request.Context(), id)
	if err != nil {
		respondError(c, log, err, "list events")
		return
	}

	out := make([]EventResponse, len(events))
	for i := range events {
		out[i] = newEventResponse(&events[i])
	}
	c.JSON(http.StatusOK, out)
}

func (r *eventRoutes) createEvent(c *gin.Context) {
	log := logger.Logger()

	id, ok := parseID(c, log, "id")
	if !ok {
		return
	}

	var req CreateEventRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, log, err)
		return
	}
	start, err := parseDate(&req.StartDate)
	if err != nil {
		badRequest(c, log, err)
		return
	}
	end, err := parseDate(req.EndDate)
	if err != nil {
		badRequest(c, log, err)
		return
	}

	event, err := r.service.CreateEvent(c.Request.Context(), &model.GameEvent{
		GameID:    id,
		Title:     req.Title,
		Type:      req.Type,
		StartDate: *start,
		EndDate:   end,
		Priority:  req.Priority,
	})
	if err != nil {
		respondError(c, log, err, "create event")
		return
	}
	c.JSON(http.StatusCreated, newEventResponse(event))
}
