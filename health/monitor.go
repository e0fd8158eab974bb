// Package health probes the agent fleet and aggregates per-agent liveness.
package health

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/Ak-9647/financial-MAS-Project/domain"
)

// Monitor probes a fixed set of agent endpoints.
type Monitor struct {
	endpoints []domain.AgentEndpoint
	client    *http.Client
	timeout   time.Duration
}

// NewMonitor creates a monitor for the given endpoint set. probeTimeout
// bounds each individual probe; zero selects the 5s default.
func NewMonitor(endpoints []domain.AgentEndpoint, probeTimeout time.Duration) *Monitor {
	if probeTimeout <= 0 {
		probeTimeout = 5 * time.Second
	}
	eps := make([]domain.AgentEndpoint, len(endpoints))
	copy(eps, endpoints)
	return &Monitor{
		endpoints: eps,
		client:    &http.Client{Timeout: probeTimeout},
		timeout:   probeTimeout,
	}
}

// PollAll probes every configured endpoint concurrently and blocks until
// all probes have settled. It returns exactly one entry per endpoint and
// never fails; probe errors are absorbed into the snapshot.
func (m *Monitor) PollAll(ctx context.Context) domain.Snapshot {
	results := make([]domain.AgentHealth, len(m.endpoints))

	var wg sync.WaitGroup
	for i, ep := range m.endpoints {
		wg.Add(1)
		go func(i int, ep domain.AgentEndpoint) {
			defer wg.Done()
			results[i] = m.probe(ctx, ep)
		}(i, ep)
	}
	wg.Wait()

	snapshot := make(domain.Snapshot, len(m.endpoints))
	for i, ep := range m.endpoints {
		snapshot[ep.Key] = results[i]
	}
	return snapshot
}

// probe fetches the agent card of a single endpoint.
func (m *Monitor) probe(ctx context.Context, ep domain.AgentEndpoint) domain.AgentHealth {
	probeCtx, cancel := context.WithTimeout(ctx, m.timeout)
	defer cancel()

	health := domain.AgentHealth{LastCheck: time.Now()}

	url := strings.TrimSuffix(ep.BaseURL, "/") + "/.well-known/agent.json"
	req, err := http.NewRequestWithContext(probeCtx, http.MethodGet, url, nil)
	if err != nil {
		health.Error = fmt.Sprintf("failed to create probe request: %v", err)
		return health
	}

	resp, err := m.client.Do(req)
	if err != nil {
		health.Error = err.Error()
		return health
	}
	defer resp.Body.Close()

	if resp.StatusCode < http.StatusOK || resp.StatusCode >= http.StatusMultipleChoices {
		health.Error = fmt.Sprintf("agent returned status %d", resp.StatusCode)
		return health
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		health.Error = fmt.Sprintf("failed to read agent card: %v", err)
		return health
	}

	health.Online = true
	health.Info = body
	return health
}
