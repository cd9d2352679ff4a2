package util

import (
	"encoding/json"
	"maps"
	"slices"
	"sync"
	"time"

	"github.com/spf13/afero"
)

type (
	// Record is the last known compression result for one file.
	Record struct {
		MD5              string    `json:"md5"`              // digest of the file after compression
		CompressedSize   int64     `json:"compressedSize"`   // size in bytes after compression
		CompressionRatio float64   `json:"compressionRatio"` // percentage saved
		Timestamp        time.Time `json:"timestamp"`        // when the file was compressed
		RunID            string    `json:"runId,omitempty"`  // run that produced the record
	}
	// Ledger maps normalized file paths to their Record. It is safe for
	// concurrent use.
	Ledger struct {
		mu      sync.RWMutex
		records map[string]Record
	}
)

// NewLedger returns an empty ledger.
func NewLedger() *Ledger {
	return &Ledger{records: map[string]Record{}}
}

func (l *Ledger) Get(path string) (Record, bool) {
	l.mu.RLock()
	defer l.mu.RUnlock()
	r, ok := l.records[path]
	return r, ok
}

func (l *Ledger) Set(path string, r Record) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.records[path] = r
}

func (l *Ledger) Len() int {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return len(l.records)
}

// Paths returns the ledger keys in sorted order.
func (l *Ledger) Paths() []string {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return slices.Sorted(maps.Keys(l.records))
}

// Iterate yields entries sorted by path. It works on a snapshot, so the
// ledger may be modified while iterating.
func (l *Ledger) Iterate(yield func(string, Record) bool) {
	l.mu.RLock()
	snapshot := maps.Clone(l.records)
	l.mu.RUnlock()
	for _, p := range slices.Sorted(maps.Keys(snapshot)) {
		if !yield(p, snapshot[p]) {
			return
		}
	}
}

func (l *Ledger) MarshalJSON() ([]byte, error) {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return json.Marshal(l.records)
}

func (l *Ledger) UnmarshalJSON(data []byte) error {
	var records map[string]Record
	if err := json.Unmarshal(data, &records); err != nil {
		return err
	}
	if records == nil {
		records = map[string]Record{}
	}
	l.mu.Lock()
	defer l.mu.Unlock()
	l.records = records
	return nil
}

// RecordStore persists a Ledger as a JSON file.
type RecordStore struct {
	fs   afero.Fs
	path string
}

func NewRecordStore(fsys afero.Fs, path string) *RecordStore {
	return &RecordStore{fs: fsys, path: path}
}

func (s *RecordStore) Path() string {
	return s.path
}

// Load reads the ledger file. A missing, unreadable or corrupt file yields an
// empty ledger.
func (s *RecordStore) Load() *Ledger {
	data, err := afero.ReadFile(s.fs, s.path)
	if err != nil {
		return NewLedger()
	}
	l := NewLedger()
	if err := json.Unmarshal(data, l); err != nil {
		return NewLedger()
	}
	return l
}

// Save overwrites the ledger file with the full contents of l.
func (s *RecordStore) Save(l *Ledger) error {
	if s.path == "" {
		return ErrEmptyRecordPath
	}
	return WriteJSONFile(s.fs, s.path, l)
}
