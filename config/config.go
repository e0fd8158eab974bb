// Package config provides configuration for the console service.
package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/Ak-9647/financial-MAS-Project/domain"
)

// Config holds the console configuration.
type Config struct {
	// Server settings
	HTTPPort int

	// Coordinator
	CoordinatorURL string

	// Database
	DatabaseURL string

	// Agent fleet
	Endpoints []domain.AgentEndpoint

	// Timeouts and intervals
	ProbeTimeout  time.Duration
	PollInterval  time.Duration
	SubmitTimeout time.Duration

	// History
	HistoryLimit int
}

// DefaultEndpoints is the standard five-agent fleet on loopback.
func DefaultEndpoints() []domain.AgentEndpoint {
	return []domain.AgentEndpoint{
		{Key: "orchestrator", BaseURL: "http://localhost:9000"},
		{Key: "dataGathering", BaseURL: "http://localhost:9001"},
		{Key: "quantitative", BaseURL: "http://localhost:9002"},
		{Key: "qualitative", BaseURL: "http://localhost:9003"},
		{Key: "reportGeneration", BaseURL: "http://localhost:9004"},
	}
}

// Load loads configuration from environment variables. AGENTS_CONFIG may
// point at a YAML file overriding the default endpoint set.
func Load() (*Config, error) {
	cfg := &Config{
		HTTPPort:       getEnvInt("HTTP_PORT", 8088),
		CoordinatorURL: getEnv("COORDINATOR_URL", "http://localhost:9000"),
		DatabaseURL:    getEnv("DATABASE_URL", "file:console.db?cache=shared&mode=rwc"),
		Endpoints:      DefaultEndpoints(),
		ProbeTimeout:   time.Duration(getEnvInt("PROBE_TIMEOUT_MS", 5000)) * time.Millisecond,
		PollInterval:   time.Duration(getEnvInt("POLL_INTERVAL_MS", 30000)) * time.Millisecond,
		SubmitTimeout:  time.Duration(getEnvInt("SUBMIT_TIMEOUT_MS", 30000)) * time.Millisecond,
		HistoryLimit:   getEnvInt("HISTORY_LIMIT", 50),
	}

	if path := os.Getenv("AGENTS_CONFIG"); path != "" {
		endpoints, err := loadEndpointsFile(path)
		if err != nil {
			return nil, fmt.Errorf("failed to load agents config: %w", err)
		}
		cfg.Endpoints = endpoints
	}

	return cfg, nil
}

type endpointsFile struct {
	Agents []domain.AgentEndpoint `yaml:"agents"`
}

func loadEndpointsFile(path string) ([]domain.AgentEndpoint, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	var file endpointsFile
	if err := yaml.Unmarshal(data, &file); err != nil {
		return nil, fmt.Errorf("failed to parse %s: %w", path, err)
	}
	if len(file.Agents) == 0 {
		return nil, fmt.Errorf("%s defines no agents", path)
	}
	for _, ep := range file.Agents {
		if ep.Key == "" || ep.BaseURL == "" {
			return nil, fmt.Errorf("%s: agent entries need both key and base_url", path)
		}
	}
	return file.Agents, nil
}

func getEnv(key, defaultVal string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return defaultVal
}

func getEnvInt(key string, defaultVal int) int {
	if val := os.Getenv(key); val != "" {
		if intVal, err := strconv.Atoi(val); err == nil {
			return intVal
		}
	}
	return defaultVal
}
