package handlers

import (
	"github.com/gin-gonic/gin"

	"github.com/spiral023/eventhorizon-sub000/internal/events"
)

func AddDateOption(svc *events.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req dateOptionRequest
		if !bindJSON(c, &req) {
			return
		}
		ev, err := svc.AddDateOption(c.Request.Context(), CurrentActor(c), c.Param("eventId"), req.toInput())
		respondEvent(c, ev, err)
	}
}

func DeleteDateOption(svc *events.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		ev, err := svc.DeleteDateOption(c.Request.Context(), CurrentActor(c), c.Param("eventId"), c.Param("optionId"))
		respondEvent(c, ev, err)
	}
}

// RespondToDateOption handles POST /events/:eventId/date-options/:optionId/response.
func RespondToDateOption(svc *events.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req dateResponseRequest
		if !bindJSON(c, &req) {
			return
		}
		ev, err := svc.RespondToDateOption(c.Request.Context(), CurrentActor(c), c.Param("eventId"), c.Param("optionId"), req.toInput())
		respondEvent(c, ev, err)
	}
}

func FinalizeDateOption(svc *events.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req finalizeDateRequest
		if !bindJSON(c, &req) {
			return
		}
		ev, err := svc.FinalizeDateOption(c.Request.Context(), CurrentActor(c), c.Param("eventId"), req.DateOptionID)
		respondEvent(c, ev, err)
	}
}
