package util

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/nakachan-ing/dolist/internal/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGenerateMetadata_SkipsLocalOnlyFiles(t *testing.T) {
	dir := t.TempDir()
	for _, name := range []string{"tasks.json", "overdue_markers.json", "tasks.json.lock", "watch.lock", MetadataFile, "tasks.json.tmp"} {
		require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte("{}"), 0o644))
	}

	meta, err := GenerateMetadata(dir)
	require.NoError(t, err)

	assert.Len(t, meta, 2)
	assert.Contains(t, meta, "tasks.json")
	assert.Contains(t, meta, "overdue_markers.json")
}

func TestMetadata_SaveLoad(t *testing.T) {
	path := filepath.Join(t.TempDir(), MetadataFile)

	empty, err := LoadMetadata(path)
	require.NoError(t, err)
	assert.Empty(t, empty)

	meta := map[string]string{"tasks.json": "2026-10-16T09:00:00Z"}
	require.NoError(t, SaveMetadata(path, meta))

	loaded, err := LoadMetadata(path)
	require.NoError(t, err)
	assert.Equal(t, meta, loaded)
}

func TestDetectChanges(t *testing.T) {
	local := map[string]string{
		"tasks.json":           "2026-10-16T10:00:00Z",
		"overdue_markers.json": "2026-10-16T08:00:00Z",
		"only_local.json":      "2026-10-16T08:00:00Z",
	}
	remote := map[string]string{
		"tasks.json":           "2026-10-16T09:00:00Z",
		"overdue_markers.json": "2026-10-16T08:00:00Z",
		"only_remote.json":     "2026-10-16T08:00:00Z",
		MetadataFile:           "2026-10-16T08:00:00Z",
	}

	assert.Equal(t, []string{"only_local.json", "tasks.json"}, DetectChanges(local, remote, "local"))
	assert.Equal(t, []string{"only_remote.json"}, DetectChanges(local, remote, "s3"))
}

func TestDetectChanges_WithinOneSecondIsEqual(t *testing.T) {
	local := map[string]string{"tasks.json": "2026-10-16T10:00:01Z"}
	remote := map[string]string{"tasks.json": "2026-10-16T10:00:00Z"}
	assert.Empty(t, DetectChanges(local, remote, "local"))
	assert.Empty(t, DetectChanges(local, remote, "s3"))
}

func TestObjectKey(t *testing.T) {
	assert.Equal(t, "dolist/tasks.json", ObjectKey("dolist", "tasks.json"))
	assert.Equal(t, "tasks.json", ObjectKey("", "tasks.json"))
}

func TestNewS3Client_Disabled(t *testing.T) {
	cfg := model.DefaultConfig()
	_, err := NewS3Client(context.Background(), cfg)
	assert.ErrorIs(t, err, ErrSyncDisabled)
}

func TestLockFile_CreateReadRemove(t *testing.T) {
	path := filepath.Join(t.TempDir(), "watch.lock")

	created, err := CreateLockFile(path)
	require.NoError(t, err)
	assert.Equal(t, os.Getpid(), created.Pid)

	read, err := ReadLockFile(path)
	require.NoError(t, err)
	assert.Equal(t, created, read)

	// the same process may refresh its own lock
	_, err = CreateLockFile(path)
	require.NoError(t, err)

	require.NoError(t, RemoveLockFile(path))
	_, err = os.Stat(path)
	assert.True(t, os.IsNotExist(err))
	assert.NoError(t, RemoveLockFile(path))
}

func TestLockFile_StaleLockIsTakenOver(t *testing.T) {
	path := filepath.Join(t.TempDir(), "watch.lock")
	stale := "id: \"1\"\nuser: someone\npid: 0\ntimestamp: \"2026-10-15T00:00:00Z\"\n"
	require.NoError(t, os.WriteFile(path, []byte(stale), 0o644))

	created, err := CreateLockFile(path)
	require.NoError(t, err)
	assert.Equal(t, os.Getpid(), created.Pid)
}

func TestLockFile_RemoveForeignLockFails(t *testing.T) {
	path := filepath.Join(t.TempDir(), "watch.lock")
	foreign := fmt.Sprintf("id: \"1\"\nuser: someone\npid: %d\ntimestamp: \"2026-10-15T00:00:00Z\"\n", os.Getpid()+1)
	require.NoError(t, os.WriteFile(path, []byte(foreign), 0o644))

	assert.ErrorIs(t, RemoveLockFile(path), ErrLocked)
}

func TestFilterTasks(t *testing.T) {
	d1 := time.Date(2026, 10, 16, 12, 0, 0, 0, time.Local)
	d2 := time.Date(2026, 10, 20, 0, 0, 0, 0, time.Local)
	tasks := []model.Task{
		{ID: "a", Category: "Work", Priority: model.PriorityHigh, DueDate: &d1},
		{ID: "b", Category: "home", Priority: model.PriorityLow, DueDate: &d2},
		{ID: "c", Category: "work", Priority: model.PriorityMedium},
	}
	idsOf := func(ts []model.Task) []string {
		var out []string
		for _, t := range ts {
			out = append(out, t.ID)
		}
		return out
	}

	assert.Equal(t, tasks, FilterTasks(tasks, TaskQuery{}))
	assert.Equal(t, []string{"a", "c"}, idsOf(FilterTasks(tasks, TaskQuery{Categories: []string{"WORK"}})))
	assert.Equal(t, []string{"b"}, idsOf(FilterTasks(tasks, TaskQuery{Priorities: []model.Priority{model.PriorityLow}})))
	assert.Equal(t, []string{"a"}, idsOf(FilterTasks(tasks, TaskQuery{DueFrom: "2026-10-16", DueTo: "2026-10-16"})))
	assert.Equal(t, []string{"b"}, idsOf(FilterTasks(tasks, TaskQuery{DueFrom: "2026-10-17"})))
}

func TestCountCategories(t *testing.T) {
	tasks := []model.Task{
		{ID: "a", Category: "Work"},
		{ID: "b", Category: "work", Completed: true},
		{ID: "c", Category: "home"},
		{ID: "d"},
	}

	assert.Equal(t, []CategoryCount{
		{Name: "home", Open: 1, Total: 1},
		{Name: "Work", Open: 1, Total: 2},
	}, CountCategories(tasks))
	assert.Empty(t, CountCategories(nil))
}
