package store

import (
	"log"
	"os"
	"path/filepath"
	"sync"
)

const MarkerFileName = "overdue_markers.json"

// MarkerFile remembers, per task id, the last day an overdue notification
// went out. It is kept apart from the task snapshot and re-read before every
// access, so a watcher and a one-shot `remind` share the same markers.
type MarkerFile struct {
	mu      sync.Mutex
	path    string
	markers map[string]string
}

func NewMarkerFile(dataDir string) *MarkerFile {
	m := &MarkerFile{
		path:    filepath.Join(dataDir, MarkerFileName),
		markers: map[string]string{},
	}
	m.refreshLocked()
	return m
}

// refreshLocked keeps the in-memory copy when the file cannot be read.
func (m *MarkerFile) refreshLocked() {
	fresh := map[string]string{}
	if err := LoadJson(m.path, &fresh); err != nil {
		log.Printf("⚠️ Ignoring unreadable overdue markers: %v", err)
		return
	}
	if fresh == nil {
		fresh = map[string]string{}
	}
	m.markers = fresh
}

func (m *MarkerFile) LastNotified(taskID string) (string, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.refreshLocked()
	day, ok := m.markers[taskID]
	return day, ok
}

func (m *MarkerFile) Mark(taskID, day string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.refreshLocked()
	m.markers[taskID] = day
	m.persistLocked()
}

func (m *MarkerFile) Remove(taskID string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.refreshLocked()
	if _, ok := m.markers[taskID]; !ok {
		return
	}
	delete(m.markers, taskID)
	m.persistLocked()
}

func (m *MarkerFile) Clear() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.markers = map[string]string{}
	if err := os.Remove(m.path); err != nil && !os.IsNotExist(err) {
		log.Printf("❌ Failed to clear overdue markers: %v", err)
	}
}

func (m *MarkerFile) Len() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.refreshLocked()
	return len(m.markers)
}

func (m *MarkerFile) persistLocked() {
	if err := SaveJson(m.markers, m.path); err != nil {
		log.Printf("❌ Failed to save overdue markers: %v", err)
	}
}
