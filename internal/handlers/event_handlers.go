package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/spiral023/eventhorizon-sub000/internal/events"
	"github.com/spiral023/eventhorizon-sub000/internal/models"
)

// CreateEvent handles POST /rooms/:roomId/events.
func CreateEvent(svc *events.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req createEventRequest
		if !bindJSON(c, &req) {
			return
		}
		ev, err := svc.CreateEvent(c.Request.Context(), CurrentActor(c), c.Param("roomId"), req.toInput())
		if err != nil {
			writeError(c, err)
			return
		}
		writeData(c, http.StatusCreated, toEventResponse(ev))
	}
}

// ListRoomEvents handles GET /rooms/:roomId/events.
func ListRoomEvents(svc *events.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		evs, err := svc.ListRoomEvents(c.Request.Context(), CurrentActor(c), c.Param("roomId"))
		if err != nil {
			writeError(c, err)
			return
		}
		ok(c, toEventResponses(evs))
	}
}

// GetEvent handles GET /events/:eventId. The id may also be a short code.
func GetEvent(svc *events.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		ev, err := svc.GetEvent(c.Request.Context(), CurrentActor(c), c.Param("eventId"))
		if err != nil {
			writeError(c, err)
			return
		}
		ok(c, toEventResponse(ev))
	}
}

func UpdateEvent(svc *events.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req updateEventRequest
		if !bindJSON(c, &req) {
			return
		}
		ev, err := svc.UpdateEvent(c.Request.Context(), CurrentActor(c), c.Param("eventId"), req.toInput())
		respondEvent(c, ev, err)
	}
}

func DeleteEvent(svc *events.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		if err := svc.DeleteEvent(c.Request.Context(), CurrentActor(c), c.Param("eventId")); err != nil {
			writeError(c, err)
			return
		}
		ok(c, nil)
	}
}

func SetPhase(svc *events.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req setPhaseRequest
		if !bindJSON(c, &req) {
			return
		}
		ev, err := svc.SetPhase(c.Request.Context(), CurrentActor(c), c.Param("eventId"), models.Phase(req.Phase))
		respondEvent(c, ev, err)
	}
}

// MarkInvitesSent handles POST /events/:eventId/invites-sent.
func MarkInvitesSent(svc *events.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		ev, err := svc.MarkInvitesSent(c.Request.Context(), CurrentActor(c), c.Param("eventId"))
		respondEvent(c, ev, err)
	}
}

// MarkReminderSent handles POST /events/:eventId/reminder-sent.
func MarkReminderSent(svc *events.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		ev, err := svc.MarkReminderSent(c.Request.Context(), CurrentActor(c), c.Param("eventId"))
		respondEvent(c, ev, err)
	}
}

func respondEvent(c *gin.Context, ev *models.Event, err error) {
	if err != nil {
		writeError(c, err)
		return
	}
	ok(c, toEventResponse(ev))
}
