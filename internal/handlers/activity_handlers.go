package handlers

import (
	"github.com/gin-gonic/gin"

	"github.com/spiral023/eventhorizon-sub000/internal/events"
)

// RemoveProposedActivity handles
// DELETE /events/:eventId/proposed-activities/:activityId.
func RemoveProposedActivity(svc *events.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		ev, err := svc.RemoveProposedActivity(c.Request.Context(), CurrentActor(c), c.Param("eventId"), c.Param("activityId"))
		respondEvent(c, ev, err)
	}
}

func ExcludeActivity(svc *events.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		ev, err := svc.ExcludeActivity(c.Request.Context(), CurrentActor(c), c.Param("eventId"), c.Param("activityId"))
		respondEvent(c, ev, err)
	}
}

func IncludeActivity(svc *events.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		ev, err := svc.IncludeActivity(c.Request.Context(), CurrentActor(c), c.Param("eventId"), c.Param("activityId"))
		respondEvent(c, ev, err)
	}
}

// VoteOnActivity handles POST /events/:eventId/votes.
func VoteOnActivity(svc *events.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req voteRequest
		if !bindJSON(c, &req) {
			return
		}
		ev, err := svc.VoteOnActivity(c.Request.Context(), CurrentActor(c), c.Param("eventId"), req.ActivityID, parseVote(req.Vote))
		respondEvent(c, ev, err)
	}
}

func SelectWinningActivity(svc *events.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req activityRequest
		if !bindJSON(c, &req) {
			return
		}
		ev, err := svc.SelectWinningActivity(c.Request.Context(), CurrentActor(c), c.Param("eventId"), req.ActivityID)
		respondEvent(c, ev, err)
	}
}
