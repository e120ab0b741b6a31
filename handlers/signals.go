package handlers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"signalboard/database"
	"signalboard/models"
	"signalboard/pipeline"
)

// maxLimit caps the limit query parameter.
const maxLimit = 500

func (s *Server) snapshot(c *gin.Context) *pipeline.Snapshot {
	snap := s.board.Snapshot()
	if snap == nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": pipeline.FailureMessage(s.board.Err())})
	}
	return snap
}

// GetStats returns the aggregate statistics of the current snapshot.
func (s *Server) GetStats(c *gin.Context) {
	snap := s.snapshot(c)
	if snap == nil {
		return
	}
	c.JSON(http.StatusOK, snap.Stats)
}

type themeSummary struct {
	Name   string         `json:"name"`
	Total  int            `json:"total"`
	Groups []groupSummary `json:"groups"`
}

type groupSummary struct {
	Label string `json:"label"`
	Count int    `json:"count"`
}

// GetThemes lists themes in dashboard order with their raw group counts.
// ?theme= returns one theme with its signals.
func (s *Server) GetThemes(c *gin.Context) {
	snap := s.snapshot(c)
	if snap == nil {
		return
	}

	if name := c.Query("theme"); name != "" {
		theme := snap.Document.Theme(name)
		if theme == nil {
			c.JSON(http.StatusNotFound, gin.H{"error": "unknown theme: " + name})
			return
		}
		c.JSON(http.StatusOK, theme)
		return
	}

	themes := make([]themeSummary, 0, len(snap.Stats.ThemeCounts))
	for _, tc := range snap.Stats.ThemeCounts {
		ts := themeSummary{Name: tc.Theme, Total: tc.Count, Groups: []groupSummary{}}
		if th := snap.Document.Theme(tc.Theme); th != nil {
			for _, g := range th.Groups {
				ts.Groups = append(ts.Groups, groupSummary{Label: g.Label, Count: g.Count})
			}
		}
		themes = append(themes, ts)
	}
	c.JSON(http.StatusOK, themes)
}

// GetSignals queries the signal index.
func (s *Server) GetSignals(c *gin.Context) {
	if s.index == nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "signal index is disabled"})
		return
	}
	if s.snapshot(c) == nil {
		return
	}

	limit, err := strconv.Atoi(c.DefaultQuery("limit", strconv.Itoa(database.DefaultLimit)))
	if err != nil || limit < 1 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "limit must be a positive integer"})
		return
	}
	if limit > maxLimit {
		limit = maxLimit
	}

	rows, err := s.index.Query(c.Request.Context(), database.Filter{
		Theme:        c.Query("theme"),
		RawLabel:     c.Query("label"),
		Priority:     c.Query("priority"),
		TranscriptID: c.Query("transcript_id"),
		Search:       c.Query("q"),
		Limit:        limit,
	})
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	if rows == nil {
		rows = []models.SignalRow{}
	}
	c.JSON(http.StatusOK, rows)
}

// GetIssues returns the malformed units skipped during the last load.
func (s *Server) GetIssues(c *gin.Context) {
	snap := s.snapshot(c)
	if snap == nil {
		return
	}
	issues := snap.Document.Issues
	if issues == nil {
		issues = []models.Issue{}
	}
	c.JSON(http.StatusOK, issues)
}

// Reload reruns the pipeline.
func (s *Server) Reload(c *gin.Context) {
	snap, err := s.board.Reload(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": pipeline.FailureMessage(err)})
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"load_id": snap.ID,
		"source":  snap.Source,
		"stats":   snap.Stats,
	})
}
