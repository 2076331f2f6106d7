package handlers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/spiral023/eventhorizon-sub000/internal/apperrors"
	"github.com/spiral023/eventhorizon-sub000/internal/events"
	"github.com/spiral023/eventhorizon-sub000/internal/models"
)

// ListComments handles GET /events/:eventId/comments?phase=&skip=&limit=.
// Listing also marks the comments as read for the caller.
func ListComments(svc *events.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		q := models.CommentQuery{Phase: models.Phase(c.Query("phase"))}
		var err error
		if q.Skip, err = queryInt(c, "skip"); err != nil {
			writeError(c, err)
			return
		}
		if q.Limit, err = queryInt(c, "limit"); err != nil {
			writeError(c, err)
			return
		}

		comments, err := svc.ListComments(c.Request.Context(), CurrentActor(c), c.Param("eventId"), q)
		if err != nil {
			writeError(c, err)
			return
		}
		out := make([]CommentResponse, 0, len(comments))
		for _, cm := range comments {
			out = append(out, toCommentResponse(cm))
		}
		ok(c, out)
	}
}

func AddComment(svc *events.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req commentRequest
		if !bindJSON(c, &req) {
			return
		}
		cm, err := svc.AddComment(c.Request.Context(), CurrentActor(c), c.Param("eventId"), req.Content, models.Phase(req.Phase))
		if err != nil {
			writeError(c, err)
			return
		}
		writeData(c, http.StatusCreated, toCommentResponse(cm))
	}
}

// DeleteComment handles DELETE /events/:eventId/comments/:commentId. Only
// the author may delete.
func DeleteComment(svc *events.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		if err := svc.DeleteComment(c.Request.Context(), CurrentActor(c), c.Param("eventId"), c.Param("commentId")); err != nil {
			writeError(c, err)
			return
		}
		ok(c, nil)
	}
}

func queryInt(c *gin.Context, key string) (int, error) {
	raw := c.Query(key)
	if raw == "" {
		return 0, nil
	}
	n, err := strconv.Atoi(raw)
	if err != nil || n < 0 {
		return 0, apperrors.Newf(apperrors.CodeBadRequest, "%s must be a non-negative integer", key)
	}
	return n, nil
}
