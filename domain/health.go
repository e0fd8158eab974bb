// Package domain defines the core domain models for the console.
package domain

import (
	"encoding/json"
	"time"
)

// AgentEndpoint is the static configuration for one backend agent.
// The endpoint set is fixed at process start.
type AgentEndpoint struct {
	Key     string `json:"key" yaml:"key"`
	BaseURL string `json:"base_url" yaml:"base_url"`
}

// AgentHealth is the result of probing one agent during a poll cycle.
// Info is set iff the probe succeeded; Error is set iff it did not.
type AgentHealth struct {
	Online    bool            `json:"online"`
	LastCheck time.Time       `json:"lastCheck"`
	Info      json.RawMessage `json:"info,omitempty"`
	Error     string          `json:"error,omitempty"`
}

// Snapshot maps endpoint keys to their health from one completed cycle.
// A snapshot always carries exactly one entry per configured endpoint and
// is replaced wholesale each cycle, never merged.
type Snapshot map[string]AgentHealth
