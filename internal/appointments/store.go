package appointments

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"sync"
	"time"

	"github.com/voxcare-ai/voxcare-server/pkg/logging"
)

// FileStore appends appointment records to a JSON array file. It is the
// append-only persistence sink behind POST /log-appointment: records are
// insertion-ordered and never mutated once written. All writes go through a
// single mutex so overlapping confirmations cannot lose updates during the
// read-modify-write cycle.
type FileStore struct {
	path   string
	logger *logging.Logger

	mu     sync.Mutex
	lastID int64
}

// NewFileStore opens (or initializes) the store file at path. A missing file
// is created holding an empty array. Existing records seed the id sequence so
// ids stay monotonic across restarts.
func NewFileStore(path string, logger *logging.Logger) (*FileStore, error) {
	if path == "" {
		return nil, errors.New("appointments: store path is required")
	}
	if logger == nil {
		logger = logging.Default()
	}
	s := &FileStore{
		path:   path,
		logger: logger,
	}

	records, err := s.read()
	if err != nil {
		if !errors.Is(err, os.ErrNotExist) {
			return nil, err
		}
		if err := s.write(nil); err != nil {
			return nil, err
		}
		records = nil
	}
	for _, rec := range records {
		if rec.ID > s.lastID {
			s.lastID = rec.ID
		}
	}
	return s, nil
}

// Append assigns an id and timestamp to the record and appends it to the file.
func (s *FileStore) Append(ctx context.Context, details Details, sentiment string, confidence float64) (Record, error) {
	if err := ctx.Err(); err != nil {
		return Record{}, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	records, err := s.read()
	if err != nil && !errors.Is(err, os.ErrNotExist) {
		return Record{}, err
	}

	rec := Record{
		ID:          s.nextIDLocked(),
		PatientName: details.PatientName,
		Department:  details.Department,
		DoctorName:  details.DoctorName,
		Symptoms:    details.Symptoms,
		TimeSlot:    details.TimeSlot,
		Sentiment:   sentiment,
		Confidence:  confidence,
		Timestamp:   time.Now().UTC().Format(time.RFC3339),
	}
	records = append(records, rec)

	if err := s.write(records); err != nil {
		return Record{}, err
	}
	s.logger.Debug("appointment record appended", "id", rec.ID, "department", rec.Department)
	return rec, nil
}

// List returns all records in insertion order.
func (s *FileStore) List(ctx context.Context) ([]Record, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	records, err := s.read()
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return []Record{}, nil
		}
		return nil, err
	}
	return records, nil
}

// nextIDLocked derives a time-based id that is strictly greater than any id
// handed out before, even when two confirmations land in the same millisecond.
func (s *FileStore) nextIDLocked() int64 {
	id := time.Now().UnixMilli()
	if id <= s.lastID {
		id = s.lastID + 1
	}
	s.lastID = id
	return id
}

func (s *FileStore) read() ([]Record, error) {
	data, err := os.ReadFile(s.path)
	if err != nil {
		return nil, err
	}
	var records []Record
	if err := json.Unmarshal(data, &records); err != nil {
		return nil, fmt.Errorf("appointments: store file is corrupt: %w", err)
	}
	return records, nil
}

func (s *FileStore) write(records []Record) error {
	if records == nil {
		records = []Record{}
	}
	data, err := json.MarshalIndent(records, "", "  ")
	if err != nil {
		return fmt.Errorf("appointments: failed to encode records: %w", err)
	}
	if err := os.WriteFile(s.path, data, 0o644); err != nil {
		return fmt.Errorf("appointments: failed to write store file: %w", err)
	}
	return nil
}
