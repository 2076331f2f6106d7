package handlers

import (
	"context"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"

	"github.com/spiral023/eventhorizon-sub000/internal/events"
)

// RouterConfig holds the HTTP-level settings.
type RouterConfig struct {
	JWTSecret      []byte
	JWTIssuer      string
	AllowedOrigins []string
	RequestTimeout time.Duration
}

// NewRouter builds the gin engine with every route of the event API.
func NewRouter(svc *events.Service, cfg RouterConfig) *gin.Engine {
	r := gin.New()
	r.Use(gin.Logger(), gin.Recovery())
	r.Use(cors.New(corsConfig(cfg.AllowedOrigins)))
	if cfg.RequestTimeout > 0 {
		r.Use(requestTimeout(cfg.RequestTimeout))
	}
	r.NoRoute(notFound)

	r.GET("/healthz", func(c *gin.Context) {
		ok(c, gin.H{"status": "ok"})
	})

	api := r.Group("/")
	api.Use(AuthMiddleware(cfg.JWTSecret, cfg.JWTIssuer))

	rooms := api.Group("/rooms/:roomId")
	{
		rooms.GET("/events", ListRoomEvents(svc))
		rooms.POST("/events", CreateEvent(svc))
	}

	ev := api.Group("/events/:eventId")
	{
		ev.GET("", GetEvent(svc))
		ev.PATCH("", UpdateEvent(svc))
		ev.DELETE("", DeleteEvent(svc))
		ev.PATCH("/phase", SetPhase(svc))

		ev.DELETE("/proposed-activities/:activityId", RemoveProposedActivity(svc))
		ev.PATCH("/activities/:activityId/exclude", ExcludeActivity(svc))
		ev.PATCH("/activities/:activityId/include", IncludeActivity(svc))
		ev.POST("/votes", VoteOnActivity(svc))
		ev.POST("/select-activity", SelectWinningActivity(svc))

		ev.POST("/date-options", AddDateOption(svc))
		ev.DELETE("/date-options/:optionId", DeleteDateOption(svc))
		ev.POST("/date-options/:optionId/response", RespondToDateOption(svc))
		ev.POST("/finalize-date", FinalizeDateOption(svc))

		ev.GET("/comments", ListComments(svc))
		ev.POST("/comments", AddComment(svc))
		ev.DELETE("/comments/:commentId", DeleteComment(svc))

		ev.POST("/invites-sent", MarkInvitesSent(svc))
		ev.POST("/reminder-sent", MarkReminderSent(svc))
	}
	return r
}

func corsConfig(origins []string) cors.Config {
	cfg := cors.DefaultConfig()
	cfg.AllowMethods = []string{"GET", "POST", "PATCH", "DELETE", "OPTIONS"}
	cfg.AllowHeaders = []string{"Origin", "Content-Type", "Authorization"}
	if len(origins) == 0 || (len(origins) == 1 && origins[0] == "*") {
		cfg.AllowAllOrigins = true
	} else {
		cfg.AllowOrigins = origins
	}
	return cfg
}

// requestTimeout bounds the store work a single request may do.
func requestTimeout(d time.Duration) gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx, cancel := context.WithTimeout(c.Request.Context(), d)
		defer cancel()
		c.Request = c.Request.WithContext(ctx)
		c.Next()
	}
}
