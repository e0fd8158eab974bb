// Package api provides the HTTP facade the UI consumes.
package api

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/Ak-9647/financial-MAS-Project/domain"
	"github.com/Ak-9647/financial-MAS-Project/health"
	"github.com/Ak-9647/financial-MAS-Project/history"
	"github.com/Ak-9647/financial-MAS-Project/policy"
)

// Submitter submits one analysis query to the coordinator.
type Submitter interface {
	Submit(ctx context.Context, query string) (*domain.AnalysisResult, error)
}

// SnapshotSource provides the latest completed poll snapshot.
type SnapshotSource interface {
	Latest() domain.Snapshot
}

// Handler handles HTTP requests.
type Handler struct {
	monitor health.Prober
	source  SnapshotSource
	gateway Submitter
	ledger  *history.Ledger
	policy  *policy.Engine
	hub     *StatusHub
}

// NewHandler creates a new handler. source and hub may be nil when no
// recurring poller is running.
func NewHandler(monitor health.Prober, source SnapshotSource, gateway Submitter, ledger *history.Ledger, engine *policy.Engine, hub *StatusHub) *Handler {
	return &Handler{
		monitor: monitor,
		source:  source,
		gateway: gateway,
		ledger:  ledger,
		policy:  engine,
		hub:     hub,
	}
}

// RegisterRoutes registers routes with the echo server.
func (h *Handler) RegisterRoutes(e *echo.Echo) {
	e.GET("/api/agents/status", h.AgentStatus)
	e.POST("/api/analysis", h.SubmitAnalysis)
	e.GET("/api/history", h.GetHistory)
	e.DELETE("/api/history/:id", h.DeleteHistory)
	e.GET("/api/metrics", h.GetMetrics)
	if h.hub != nil {
		e.GET("/ws", h.hub.HandleWebSocket)
	}

	e.GET("/health", h.Health)
}

// Health returns health status.
func (h *Handler) Health(c echo.Context) error {
	return c.JSON(http.StatusOK, map[string]string{
		"status":  "healthy",
		"version": "0.1.0",
	})
}

// AgentStatus returns the agent fleet health map.
// GET /api/agents/status
func (h *Handler) AgentStatus(c echo.Context) error {
	if h.source != nil {
		if snapshot := h.source.Latest(); snapshot != nil {
			return c.JSON(http.StatusOK, snapshot)
		}
	}
	// No completed cycle yet; probe on demand.
	return c.JSON(http.StatusOK, h.monitor.PollAll(c.Request().Context()))
}

type analysisRequest struct {
	Query string `json:"query"`
}

// SubmitAnalysis runs one analysis query end to end: policy check,
// submission, history append.
// POST /api/analysis
func (h *Handler) SubmitAnalysis(c echo.Context) error {
	ctx := c.Request().Context()

	var req analysisRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "invalid request body"})
	}

	decision, err := h.policy.Evaluate(ctx, policy.QueryInput{Query: req.Query, Length: len(req.Query)})
	if err != nil {
		log.Printf("ERROR: policy evaluation failed: %v", err)
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": "policy evaluation failed"})
	}
	if decision != "allow" {
		return c.JSON(http.StatusUnprocessableEntity, map[string]string{"error": "query rejected by policy"})
	}

	start := time.Now()
	result, err := h.gateway.Submit(ctx, req.Query)
	duration := fmt.Sprintf("%.1fs", time.Since(start).Seconds())
	if err != nil {
		var reqErr *domain.RequestError
		if errors.As(err, &reqErr) {
			return c.JSON(http.StatusBadGateway, map[string]string{"error": reqErr.Message})
		}
		log.Printf("ERROR: analysis submission failed: %v", err)
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": "analysis submission failed"})
	}

	raw, err := json.Marshal(result)
	if err != nil {
		log.Printf("ERROR: failed to encode result for history: %v", err)
		raw = nil
	}
	record, err := h.ledger.Append(req.Query, raw, duration)
	if err != nil {
		// The analysis itself succeeded; a history write failure must
		// not hide the result from the caller.
		log.Printf("WARN: failed to record analysis in history: %v", err)
	}

	return c.JSON(http.StatusOK, map[string]interface{}{
		"result": result,
		"record": record,
	})
}

// GetHistory returns the persisted history, newest first.
// GET /api/history
func (h *Handler) GetHistory(c echo.Context) error {
	return c.JSON(http.StatusOK, map[string]interface{}{
		"history": h.ledger.List(),
	})
}

// DeleteHistory removes one record by id; an unknown id is a no-op.
// DELETE /api/history/:id
func (h *Handler) DeleteHistory(c echo.Context) error {
	remaining, err := h.ledger.Remove(c.Param("id"))
	if err != nil {
		log.Printf("ERROR: failed to delete history record: %v", err)
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": "failed to delete history record"})
	}
	return c.JSON(http.StatusOK, map[string]interface{}{
		"history": remaining,
	})
}
