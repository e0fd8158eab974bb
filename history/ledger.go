package history

import (
	"encoding/json"
	"fmt"
	"log"
	"sort"
	"time"

	"github.com/google/uuid"

	"github.com/Ak-9647/financial-MAS-Project/domain"
)

// StorageKey names the single KV record holding the history array.
const StorageKey = "analysisHistory"

// DefaultLimit caps the number of retained records.
const DefaultLimit = 50

// Ledger maintains the bounded, newest-first analysis history. It reads
// the backing store in full on every call; no cached copy is assumed
// consistent across instances.
type Ledger struct {
	kv    KV
	limit int
	now   func() time.Time
}

// NewLedger creates a ledger over kv. limit <= 0 selects DefaultLimit.
func NewLedger(kv KV, limit int) *Ledger {
	if limit <= 0 {
		limit = DefaultLimit
	}
	return &Ledger{kv: kv, limit: limit, now: time.Now}
}

// List returns all records ordered by timestamp descending. A corrupt or
// missing backing record reads as empty, never an error.
func (l *Ledger) List() []domain.AnalysisRecord {
	records := l.load()
	sortNewestFirst(records)
	return records
}

// Append records a completed (or failed-but-persisted) analysis run. The
// new record is prepended and the sequence truncated from the tail to the
// retention cap before persisting.
func (l *Ledger) Append(query string, result json.RawMessage, duration string) (domain.AnalysisRecord, error) {
	now := l.now()
	record := domain.AnalysisRecord{
		ID:        fmt.Sprintf("%d-%s", now.UnixMilli(), uuid.New().String()[:8]),
		Timestamp: now,
		Query:     query,
		Result:    result,
		Duration:  duration,
	}

	records := append([]domain.AnalysisRecord{record}, l.load()...)
	if len(records) > l.limit {
		records = records[:l.limit]
	}
	if err := l.persist(records); err != nil {
		return domain.AnalysisRecord{}, err
	}
	return record, nil
}

// Remove deletes the record with the given id if present; an absent id is
// a no-op. It returns the remaining records newest-first.
func (l *Ledger) Remove(id string) ([]domain.AnalysisRecord, error) {
	records := l.load()
	remaining := make([]domain.AnalysisRecord, 0, len(records))
	for _, r := range records {
		if r.ID != id {
			remaining = append(remaining, r)
		}
	}
	if err := l.persist(remaining); err != nil {
		return nil, err
	}
	sortNewestFirst(remaining)
	return remaining, nil
}

func (l *Ledger) load() []domain.AnalysisRecord {
	value, ok := l.kv.Get(StorageKey)
	if !ok || value == "" {
		return nil
	}
	var records []domain.AnalysisRecord
	if err := json.Unmarshal([]byte(value), &records); err != nil {
		log.Printf("WARN: history store unreadable, treating as empty: %v", err)
		return nil
	}
	return records
}

func (l *Ledger) persist(records []domain.AnalysisRecord) error {
	data, err := json.Marshal(records)
	if err != nil {
		return fmt.Errorf("failed to encode history: %w", err)
	}
	if err := l.kv.Set(StorageKey, string(data)); err != nil {
		return fmt.Errorf("failed to persist history: %w", err)
	}
	return nil
}

func sortNewestFirst(records []domain.AnalysisRecord) {
	sort.SliceStable(records, func(i, j int) bool {
		return records[i].Timestamp.After(records[j].Timestamp)
	})
}
