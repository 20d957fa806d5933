package store

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log"
	"os"
	"path/filepath"

	"github.com/gofrs/flock"
	"github.com/nakachan-ing/dolist/internal/clock"
	"github.com/nakachan-ing/dolist/internal/model"
)

const (
	SnapshotFile = "tasks.json"
	exportPrefix = "dolist-todos-"
)

var (
	ErrInvalidFormat = errors.New("invalid file format")
	ErrQuotaExceeded = errors.New("storage quota exceeded")
)

// FileStorage keeps the whole task collection as one JSON snapshot.
// Every save overwrites the previous snapshot.
type FileStorage struct {
	path     string
	capacity int64
	flk      *flock.Flock
	clock    clock.Clock
}

func NewFileStorage(dataDir string, capacity int64, clk clock.Clock) (*FileStorage, error) {
	if err := os.MkdirAll(dataDir, 0o755); err != nil {
		return nil, fmt.Errorf("❌ Failed to create data directory: %w", err)
	}
	if capacity <= 0 {
		capacity = model.DefaultCapacityBytes
	}
	if clk == nil {
		clk = clock.RealClock{}
	}
	path := filepath.Join(dataDir, SnapshotFile)
	return &FileStorage{
		path:     path,
		capacity: capacity,
		flk:      flock.New(path + ".lock"),
		clock:    clk,
	}, nil
}

func (s *FileStorage) Path() string { return s.path }

// Load never fails: a missing or unreadable snapshot is an empty collection,
// and malformed records are dropped one by one.
func (s *FileStorage) Load() []model.Task {
	data, err := os.ReadFile(s.path)
	if err != nil {
		if !os.IsNotExist(err) {
			log.Printf("❌ Failed to load todos: %v", err)
		}
		return []model.Task{}
	}
	if len(data) == 0 {
		return []model.Task{}
	}

	tasks, err := decodeTasks(data)
	if err != nil {
		log.Printf("❌ Failed to load todos: %v", err)
		return []model.Task{}
	}
	return tasks
}

// Save logs failures instead of returning them; the in-memory collection
// stays authoritative for the running process.
func (s *FileStorage) Save(tasks []model.Task) {
	if err := s.save(tasks); err != nil {
		log.Printf("❌ Failed to save todos: %v", err)
	}
}

func (s *FileStorage) save(tasks []model.Task) error {
	if tasks == nil {
		tasks = []model.Task{}
	}
	data, err := json.Marshal(tasks)
	if err != nil {
		return fmt.Errorf("failed to convert to JSON: %w", err)
	}
	if int64(len(data)) > s.capacity {
		return fmt.Errorf("%w: snapshot is %d bytes, capacity is %d", ErrQuotaExceeded, len(data), s.capacity)
	}

	if err := s.flk.Lock(); err != nil {
		return fmt.Errorf("failed to lock %s: %w", s.path, err)
	}
	defer func() { _ = s.flk.Unlock() }()

	return writeFileAtomic(s.path, data)
}

func (s *FileStorage) Clear() {
	if err := os.Remove(s.path); err != nil && !os.IsNotExist(err) {
		log.Printf("❌ Failed to clear todos: %v", err)
	}
}

// Export writes an indented copy of tasks to dir and returns the file path.
// The file name carries the current date.
func (s *FileStorage) Export(tasks []model.Task, dir string) (string, error) {
	if tasks == nil {
		tasks = []model.Task{}
	}
	data, err := json.MarshalIndent(tasks, "", "  ")
	if err != nil {
		return "", fmt.Errorf("failed to convert to JSON: %w", err)
	}
	if dir == "" {
		dir = "."
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("failed to create export directory: %w", err)
	}

	path := filepath.Join(dir, exportPrefix+model.DayKey(s.clock.Now())+".json")
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return "", fmt.Errorf("failed to write export file: %w", err)
	}
	return path, nil
}

// Import parses an exported file. Malformed records are dropped; content that
// is not a JSON array at all fails with ErrInvalidFormat.
func (s *FileStorage) Import(r io.Reader) ([]model.Task, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("failed to read file: %w", err)
	}
	return decodeTasks(data)
}

func (s *FileStorage) Stats() model.StorageStats {
	stats := model.StorageStats{CapacityBytes: s.capacity}
	info, err := os.Stat(s.path)
	if err != nil {
		if !os.IsNotExist(err) {
			log.Printf("❌ Failed to get storage stats: %v", err)
		}
		return stats
	}
	stats.UsedBytes = info.Size()
	stats.Percentage = float64(stats.UsedBytes) / float64(s.capacity) * 100
	return stats
}
