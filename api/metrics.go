package api

import (
	"fmt"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
)

// Metrics summarizes system activity for the dashboard.
type Metrics struct {
	TotalAnalyses   int       `json:"totalAnalyses"`
	AvgResponseTime string    `json:"avgResponseTime"`
	ActiveAgents    int       `json:"activeAgents"`
	LastUpdate      time.Time `json:"lastUpdate"`
}

// GetMetrics derives dashboard metrics from the history ledger and the
// latest poll snapshot.
// GET /api/metrics
func (h *Handler) GetMetrics(c echo.Context) error {
	records := h.ledger.List()

	m := Metrics{
		TotalAnalyses:   len(records),
		AvgResponseTime: "n/a",
		LastUpdate:      time.Now(),
	}

	var total time.Duration
	var counted int
	for _, r := range records {
		if d, err := time.ParseDuration(r.Duration); err == nil {
			total += d
			counted++
		}
	}
	if counted > 0 {
		m.AvgResponseTime = fmt.Sprintf("%.1fs", (total / time.Duration(counted)).Seconds())
	}

	if h.source != nil {
		for _, agent := range h.source.Latest() {
			if agent.Online {
				m.ActiveAgents++
			}
		}
	}

	return c.JSON(http.StatusOK, m)
}
