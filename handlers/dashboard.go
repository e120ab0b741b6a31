package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"signalboard/pipeline"
)

// Dashboard renders the full page from the current snapshot. Without a
// snapshot it renders only the remediation message.
func (s *Server) Dashboard(c *gin.Context) {
	snap := s.board.Snapshot()
	if snap == nil {
		c.HTML(http.StatusServiceUnavailable, "dashboard", s.board.Page(nil, pipeline.FailureMessage(s.board.Err())))
		return
	}
	c.HTML(http.StatusOK, "dashboard", s.board.Page(snap, ""))
}
