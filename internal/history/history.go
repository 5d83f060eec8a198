// Package history keeps a bounded record of launch attempts. Spawns are
// fire-and-forget, so a record captures the attempt, never the outcome.
package history

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/vuul/spackle-ssh/internal/logging"
)

// DefaultLimit is how many records the file retains.
const DefaultLimit = 200

// Record is one launch attempt.
type Record struct {
	ID        string `json:"id"`
	Session   string `json:"session,omitempty"` // saved session name, when launched by name
	Target    string `json:"target"`            // user@host
	Mode      string `json:"mode"`
	Program   string `json:"program"`
	CreatedAt int64  `json:"createdAt"` // Unix timestamp
}

// historyFile is the on-disk structure, oldest record first.
type historyFile struct {
	Records []Record `json:"records"`
}

// Tracker manages the history file.
type Tracker struct {
	path  string
	limit int
	log   *logging.Logger
}

// NewTracker creates a tracker for the file at path, pruning to limit
// records. A non-positive limit selects DefaultLimit.
func NewTracker(path string, limit int, log *logging.Logger) *Tracker {
	if limit <= 0 {
		limit = DefaultLimit
	}
	if log == nil {
		log = logging.NewNop()
	}
	return &Tracker{path: path, limit: limit, log: log}
}

// load reads the history file. A missing file is empty history; an unreadable
// one starts fresh rather than blocking launches.
func (t *Tracker) load() (*historyFile, error) {
	data, err := os.ReadFile(t.path)
	if err != nil {
		if os.IsNotExist(err) {
			return &historyFile{Records: []Record{}}, nil
		}
		return nil, fmt.Errorf("failed to read history: %w", err)
	}

	var file historyFile
	if err := json.Unmarshal(data, &file); err != nil {
		t.log.Warn("history file unreadable, starting fresh",
			zap.String("path", t.path),
			zap.Error(err))
		return &historyFile{Records: []Record{}}, nil
	}
	return &file, nil
}

func (t *Tracker) save(file *historyFile) error {
	dir := filepath.Dir(t.path)
	if err := os.MkdirAll(dir, 0700); err != nil {
		return fmt.Errorf("failed to create history dir: %w", err)
	}

	data, err := json.MarshalIndent(file, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to encode history: %w", err)
	}
	if err := os.WriteFile(t.path, data, 0600); err != nil {
		return fmt.Errorf("failed to write history: %w", err)
	}
	return nil
}

// Append records a launch attempt, assigning an ID and timestamp when unset,
// and prunes the file to the newest records within the limit.
func (t *Tracker) Append(rec Record) (Record, error) {
	file, err := t.load()
	if err != nil {
		return Record{}, err
	}

	if rec.ID == "" {
		rec.ID = uuid.New().String()
	}
	if rec.CreatedAt == 0 {
		rec.CreatedAt = time.Now().Unix()
	}
	file.Records = append(file.Records, rec)

	if len(file.Records) > t.limit {
		pruned := len(file.Records) - t.limit
		file.Records = file.Records[pruned:]
		t.log.Debug("pruned history records", zap.Int("count", pruned))
	}

	if err := t.save(file); err != nil {
		return Record{}, err
	}
	return rec, nil
}

// Recent returns up to n records, newest first. A non-positive n returns
// everything retained.
func (t *Tracker) Recent(n int) ([]Record, error) {
	file, err := t.load()
	if err != nil {
		return nil, err
	}

	records := file.Records
	if n > 0 && len(records) > n {
		records = records[len(records)-n:]
	}

	out := make([]Record, len(records))
	for i, rec := range records {
		out[len(records)-1-i] = rec
	}
	return out, nil
}

// Clear empties the history file.
func (t *Tracker) Clear() error {
	return t.save(&historyFile{Records: []Record{}})
}
