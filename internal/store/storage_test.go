package store

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/nakachan-ing/dolist/internal/clock"
	"github.com/nakachan-ing/dolist/internal/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var testNow = time.Date(2026, 10, 16, 9, 30, 0, 0, time.UTC)

func newTestStorage(t *testing.T, capacity int64) (*FileStorage, string) {
	t.Helper()
	dir := t.TempDir()
	s, err := NewFileStorage(dir, capacity, clock.NewFakeClock(testNow))
	require.NoError(t, err)
	return s, dir
}

func sampleTasks() []model.Task {
	due := time.Date(2026, 10, 17, 0, 0, 0, 0, time.UTC)
	return []model.Task{
		{ID: "01A", Title: "Buy milk", Completed: false, Priority: model.PriorityMedium, DueDate: &due, CreatedAt: testNow, UpdatedAt: testNow},
		{ID: "01B", Title: "Write report", Description: "quarterly", Completed: true, Category: "work", CreatedAt: testNow, UpdatedAt: testNow},
	}
}

func TestFileStorage_LoadMissingSnapshot(t *testing.T) {
	s, _ := newTestStorage(t, 0)
	assert.Empty(t, s.Load())
}

func TestFileStorage_SaveThenLoad(t *testing.T) {
	s, _ := newTestStorage(t, 0)
	tasks := sampleTasks()

	s.Save(tasks)
	loaded := s.Load()

	require.Len(t, loaded, 2)
	assert.Equal(t, "01A", loaded[0].ID)
	assert.True(t, loaded[0].DueDate.Equal(*tasks[0].DueDate))
	assert.Equal(t, "work", loaded[1].Category)
}

func TestFileStorage_LoadDropsMalformedRecords(t *testing.T) {
	s, _ := newTestStorage(t, 0)
	snapshot := `[
		{"id": "ok", "title": "valid", "completed": false},
		{"id": 42, "title": "numeric id", "completed": false},
		{"id": "no-title", "completed": true},
		{"id": "bad-completed", "title": "x", "completed": "yes"},
		null,
		"just a string",
		{"id": "bad-due", "title": "x", "completed": false, "dueDate": "tomorrow"},
		{"id": "ok2", "title": "also valid", "completed": true, "extra": "dropped"}
	]`
	require.NoError(t, os.WriteFile(s.Path(), []byte(snapshot), 0o644))

	loaded := s.Load()
	require.Len(t, loaded, 3)
	assert.Equal(t, "ok", loaded[0].ID)
	// an unreadable optional field does not cost the record
	assert.Equal(t, "bad-due", loaded[1].ID)
	assert.Nil(t, loaded[1].DueDate)
	assert.Equal(t, "ok2", loaded[2].ID)
}

func TestFileStorage_LoadUnreadableSnapshotIsEmpty(t *testing.T) {
	s, _ := newTestStorage(t, 0)
	require.NoError(t, os.WriteFile(s.Path(), []byte("{not json"), 0o644))
	assert.Empty(t, s.Load())
}

func TestFileStorage_SaveOverQuotaKeepsPreviousSnapshot(t *testing.T) {
	s, _ := newTestStorage(t, 200)
	small := sampleTasks()[:1]
	s.Save(small)
	before, err := os.ReadFile(s.Path())
	require.NoError(t, err)

	big := append(sampleTasks(), model.Task{ID: "01C", Title: strings.Repeat("x", 500)})
	s.Save(big)

	after, err := os.ReadFile(s.Path())
	require.NoError(t, err)
	assert.Equal(t, before, after)
	assert.ErrorIs(t, s.save(big), ErrQuotaExceeded)
}

func TestFileStorage_Clear(t *testing.T) {
	s, _ := newTestStorage(t, 0)
	s.Save(sampleTasks())
	s.Clear()

	_, err := os.Stat(s.Path())
	assert.True(t, os.IsNotExist(err))
	assert.Empty(t, s.Load())

	// clearing twice is harmless
	s.Clear()
}

func TestFileStorage_ExportImportRoundTrip(t *testing.T) {
	s, _ := newTestStorage(t, 0)
	exportDir := filepath.Join(t.TempDir(), "exports")
	tasks := sampleTasks()

	path, err := s.Export(tasks, exportDir)
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(exportDir, "dolist-todos-2026-10-16.json"), path)

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), "\n  {")

	f, err := os.Open(path)
	require.NoError(t, err)
	defer f.Close()

	imported, err := s.Import(f)
	require.NoError(t, err)
	require.Len(t, imported, len(tasks))
	for i := range tasks {
		assert.Equal(t, tasks[i].ID, imported[i].ID)
		assert.Equal(t, tasks[i].Title, imported[i].Title)
		assert.Equal(t, tasks[i].Description, imported[i].Description)
		assert.Equal(t, tasks[i].Completed, imported[i].Completed)
		assert.Equal(t, tasks[i].Priority, imported[i].Priority)
		assert.Equal(t, tasks[i].Category, imported[i].Category)
		assert.True(t, tasks[i].CreatedAt.Equal(imported[i].CreatedAt))
	}
}

func TestFileStorage_ImportRejectsNonArray(t *testing.T) {
	s, _ := newTestStorage(t, 0)

	for _, content := range []string{`{"id": "x"}`, `garbage`, ``, `null`} {
		_, err := s.Import(strings.NewReader(content))
		assert.ErrorIs(t, err, ErrInvalidFormat, "content %q", content)
	}
}

func TestFileStorage_ImportFiltersInvalidRecords(t *testing.T) {
	s, _ := newTestStorage(t, 0)
	imported, err := s.Import(strings.NewReader(`[{"id":"a","title":"t","completed":false},{"title":"no id","completed":false}]`))
	require.NoError(t, err)
	require.Len(t, imported, 1)
	assert.Equal(t, "a", imported[0].ID)
}

func TestFileStorage_ImportAcceptsDateOnlyDueDate(t *testing.T) {
	s, _ := newTestStorage(t, 0)
	imported, err := s.Import(strings.NewReader(`[
		{"id":"1","title":"Buy milk","completed":false,"dueDate":"2026-10-17","createdAt":"2026-10-16T09:00:00.000Z"},
		{"id":"2","title":"Odd dates","completed":true,"dueDate":"someday","createdAt":"yesterday"}
	]`))
	require.NoError(t, err)
	require.Len(t, imported, 2)

	require.NotNil(t, imported[0].DueDate)
	assert.True(t, imported[0].DueDate.Equal(time.Date(2026, 10, 17, 0, 0, 0, 0, time.Local)))
	assert.True(t, imported[0].CreatedAt.Equal(time.Date(2026, 10, 16, 9, 0, 0, 0, time.UTC)))

	assert.Equal(t, "Odd dates", imported[1].Title)
	assert.Nil(t, imported[1].DueDate)
	assert.True(t, imported[1].CreatedAt.IsZero())
}

func TestFileStorage_ImportDropsDuplicateIDs(t *testing.T) {
	s, _ := newTestStorage(t, 0)
	imported, err := s.Import(strings.NewReader(`[
		{"id":"a","title":"first","completed":false},
		{"id":"a","title":"second","completed":false},
		{"id":"b","title":"third","completed":false}
	]`))
	require.NoError(t, err)
	require.Len(t, imported, 2)
	assert.Equal(t, "first", imported[0].Title)
	assert.Equal(t, "b", imported[1].ID)
}

func TestFileStorage_Stats(t *testing.T) {
	s, _ := newTestStorage(t, 1000)

	empty := s.Stats()
	assert.Zero(t, empty.UsedBytes)
	assert.Equal(t, int64(1000), empty.CapacityBytes)

	s.Save(sampleTasks()[:1])
	info, err := os.Stat(s.Path())
	require.NoError(t, err)

	stats := s.Stats()
	assert.Equal(t, info.Size(), stats.UsedBytes)
	assert.InDelta(t, float64(info.Size())/10, stats.Percentage, 0.0001)
}
