package domain

import (
	"encoding/json"
	"time"
)

// AnalysisRecord is one persisted history entry. Records are created and
// owned by the history ledger; consumers only read or request deletion.
type AnalysisRecord struct {
	ID        string          `json:"id"`
	Timestamp time.Time       `json:"timestamp"`
	Query     string          `json:"query"`
	Result    json.RawMessage `json:"result,omitempty"`
	Duration  string          `json:"duration"`
}
