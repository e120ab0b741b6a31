// Package handlers serves the dashboard page and its JSON API over gin.
package handlers

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"signalboard/database"
	"signalboard/models"
	"signalboard/pipeline"
	"signalboard/render"
)

// Querier answers filtered signal lookups.
type Querier interface {
	Query(ctx context.Context, f database.Filter) ([]models.SignalRow, error)
	Count(ctx context.Context) (int64, error)
}

// Server holds the routes and their dependencies.
type Server struct {
	board  *pipeline.Board
	index  Querier
	engine *gin.Engine
}

// NewServer wires the routes. index may be nil, in which case /api/signals
// answers 503.
func NewServer(board *pipeline.Board, index Querier) *Server {
	s := &Server{board: board, index: index}

	r := gin.New()
	r.Use(gin.Recovery(), requestLogger())
	r.SetHTMLTemplate(render.PageTemplate())

	r.GET("/", func(c *gin.Context) {
		c.Redirect(http.StatusFound, "/dashboard")
	})
	r.GET("/dashboard", s.Dashboard)
	r.GET("/healthz", s.Healthz)

	api := r.Group("/api")
	{
		api.GET("/stats", s.GetStats)
		api.GET("/themes", s.GetThemes)
		api.GET("/signals", s.GetSignals)
		api.GET("/issues", s.GetIssues)
		api.POST("/reload", s.Reload)
	}

	s.engine = r
	return s
}

// Handler returns the http.Handler for the server.
func (s *Server) Handler() http.Handler {
	return s.engine
}

func requestLogger() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		level := slog.LevelDebug
		if c.Writer.Status() >= http.StatusInternalServerError {
			level = slog.LevelWarn
		}
		slog.Log(c.Request.Context(), level, "request",
			"method", c.Request.Method,
			"path", c.Request.URL.Path,
			"status", c.Writer.Status(),
			"elapsed", time.Since(start),
		)
	}
}

// Healthz reports whether a snapshot is loaded.
func (s *Server) Healthz(c *gin.Context) {
	snap := s.board.Snapshot()
	if snap == nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{
			"status": "no_data",
			"error":  pipeline.FailureMessage(s.board.Err()),
		})
		return
	}
	body := gin.H{
		"status":    "ok",
		"load_id":   snap.ID,
		"source":    snap.Source,
		"loaded_at": snap.LoadedAt,
	}
	if s.index != nil {
		n, err := s.index.Count(c.Request.Context())
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
			return
		}
		body["indexed"] = n
	}
	c.JSON(http.StatusOK, body)
}
