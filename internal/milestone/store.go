package milestone

import (
	"bufio"
	"encoding/json"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/devflowhq/devflow/internal/log"
	"github.com/devflowhq/devflow/internal/model"
)

// Store persists milestone completion records as JSON Lines. Records
// older than the retention window are purged on every write.
type Store struct {
	path          string
	retentionDays int
	mu            sync.Mutex
}

// NewStore creates a store at ~/.cache/devflow/milestones.jsonl.
func NewStore(retentionDays int) (*Store, error) {
	cacheDir, err := os.UserCacheDir()
	if err != nil {
		return nil, err
	}

	dir := filepath.Join(cacheDir, "devflow")
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, err
	}

	return &Store{
		path:          filepath.Join(dir, "milestones.jsonl"),
		retentionDays: retentionDays,
	}, nil
}

// NewStoreWithPath creates a store at the given path (for testing).
func NewStoreWithPath(path string, retentionDays int) *Store {
	return &Store{path: path, retentionDays: retentionDays}
}

// Append adds a record and purges entries past the retention window.
func (s *Store) Append(record model.CompletionRecord) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	records, err := s.readAll()
	if err != nil {
		log.Debug("could not read analytics log, starting fresh", "error", err)
		records = nil
	}

	records = append(records, record)
	records = s.withinRetention(records)

	return s.writeAll(records)
}

// Recent returns the last n records (or fewer if not enough exist).
func (s *Store) Recent(n int) []model.CompletionRecord {
	s.mu.Lock()
	defer s.mu.Unlock()

	records, err := s.readAll()
	if err != nil {
		return nil
	}

	if len(records) <= n {
		return records
	}
	return records[len(records)-n:]
}

// Purge rewrites the log keeping only records within retention.
func (s *Store) Purge() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	records, err := s.readAll()
	if err != nil {
		return err
	}
	return s.writeAll(s.withinRetention(records))
}

func (s *Store) withinRetention(records []model.CompletionRecord) []model.CompletionRecord {
	cutoff := time.Now().AddDate(0, 0, -s.retentionDays)
	kept := records[:0]
	for _, r := range records {
		if r.Timestamp.After(cutoff) {
			kept = append(kept, r)
		}
	}
	return kept
}

// readAll reads all records from disk.
func (s *Store) readAll() ([]model.CompletionRecord, error) {
	f, err := os.Open(s.path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, err
	}
	defer func() { _ = f.Close() }()

	var records []model.CompletionRecord
	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		line := scanner.Bytes()
		if len(line) == 0 {
			continue
		}
		var record model.CompletionRecord
		if err := json.Unmarshal(line, &record); err != nil {
			continue // skip malformed lines
		}
		records = append(records, record)
	}
	return records, scanner.Err()
}

// writeAll writes all records to disk atomically.
func (s *Store) writeAll(records []model.CompletionRecord) error {
	tmp := s.path + ".tmp"
	f, err := os.Create(tmp)
	if err != nil {
		return err
	}

	w := bufio.NewWriter(f)
	enc := json.NewEncoder(w)
	for _, r := range records {
		if err := enc.Encode(r); err != nil {
			_ = f.Close()
			_ = os.Remove(tmp)
			return err
		}
	}
	if err := w.Flush(); err != nil {
		_ = f.Close()
		_ = os.Remove(tmp)
		return err
	}
	if err := f.Close(); err != nil {
		_ = os.Remove(tmp)
		return err
	}

	return os.Rename(tmp, s.path)
}
