package history

import (
	"path/filepath"
	"testing"
)

func newTestSQLiteKV(t *testing.T) *SQLiteKV {
	t.Helper()
	kv, err := NewSQLiteKV(filepath.Join(t.TempDir(), "console.db"))
	if err != nil {
		t.Fatalf("failed to open sqlite kv: %v", err)
	}
	t.Cleanup(func() { kv.Close() })
	return kv
}

func TestSQLiteKVRoundTrip(t *testing.T) {
	kv := newTestSQLiteKV(t)

	if _, ok := kv.Get("missing"); ok {
		t.Fatal("missing key should not exist")
	}

	if err := kv.Set(StorageKey, `[{"id":"1"}]`); err != nil {
		t.Fatalf("set failed: %v", err)
	}
	value, ok := kv.Get(StorageKey)
	if !ok || value != `[{"id":"1"}]` {
		t.Fatalf("unexpected value: %q (ok=%v)", value, ok)
	}

	// Overwrite replaces the record.
	if err := kv.Set(StorageKey, `[]`); err != nil {
		t.Fatalf("overwrite failed: %v", err)
	}
	value, ok = kv.Get(StorageKey)
	if !ok || value != `[]` {
		t.Fatalf("unexpected value after overwrite: %q", value)
	}
}

func TestLedgerOverSQLite(t *testing.T) {
	kv := newTestSQLiteKV(t)
	l := NewLedger(kv, 2)

	for _, q := range []string{"a", "b", "c"} {
		if _, err := l.Append(q, nil, "1s"); err != nil {
			t.Fatalf("append failed: %v", err)
		}
	}

	records := l.List()
	if len(records) != 2 {
		t.Fatalf("expected cap of 2, got %d", len(records))
	}
	if records[0].Query != "c" || records[1].Query != "b" {
		t.Fatalf("unexpected retained records: %+v", records)
	}
}
