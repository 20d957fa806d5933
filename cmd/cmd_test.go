package cmd

import (
	"bytes"
	"strings"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/nakachan-ing/dolist/internal/clock"
	"github.com/nakachan-ing/dolist/internal/model"
	"github.com/nakachan-ing/dolist/internal/util"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var cmdNow = time.Date(2026, 10, 16, 9, 0, 0, 0, time.Local)

func testConfig(t *testing.T) model.Config {
	t.Helper()
	cfg := model.DefaultConfig()
	cfg.DataDir = t.TempDir()
	cfg.Notifications.Enable = false
	return cfg
}

func TestOpenApp_WiresStoreAndScheduler(t *testing.T) {
	cfg := testConfig(t)
	cfg.DefaultFilter = "all"
	clk := clock.NewFakeClock(cmdNow)

	a, err := openApp(cfg, clk)
	require.NoError(t, err)
	assert.Equal(t, model.FilterAll, a.store.Filter())

	due := cmdNow.Add(48 * time.Hour)
	task, ok := a.store.AddTask("Buy milk", "", &due)
	require.True(t, ok)
	assert.Equal(t, 4, a.scheduler.Pending(task.ID))

	reopened, err := openApp(cfg, clk)
	require.NoError(t, err)
	assert.Len(t, reopened.store.Tasks(), 1)
}

func TestResolveTask(t *testing.T) {
	a, err := openApp(testConfig(t), clock.NewFakeClock(cmdNow))
	require.NoError(t, err)
	task, _ := a.store.AddTask("first", "", nil)

	got, err := resolveTask(a.store, "1")
	require.NoError(t, err)
	assert.Equal(t, task.ID, got.ID)

	_, err = resolveTask(a.store, "9")
	assert.ErrorContains(t, err, "not found")
}

func TestEditBuffer_PatchFrom(t *testing.T) {
	due := time.Date(2026, 10, 20, 0, 0, 0, 0, time.Local)
	task := model.Task{
		Title:    "Write report",
		Priority: model.PriorityMedium,
		Category: "work",
		DueDate:  &due,
	}
	orig := newEditBuffer(task)
	assert.Equal(t, "2026-10-20", orig.DueDate)

	assert.True(t, orig.patchFrom(orig).IsEmpty())

	edited := orig
	edited.Title = "Write final report"
	edited.Completed = true
	edited.DueDate = ""
	patch := edited.patchFrom(orig)

	require.NotNil(t, patch.Title)
	assert.Equal(t, "Write final report", *patch.Title)
	require.NotNil(t, patch.Completed)
	assert.True(t, *patch.Completed)
	require.NotNil(t, patch.DueDate)
	assert.Equal(t, "", *patch.DueDate)
	assert.Nil(t, patch.Category)
	assert.Nil(t, patch.Priority)

	require.NoError(t, patch.Apply(&task))
	assert.Nil(t, task.DueDate)
	assert.True(t, task.Completed)
}

func TestRenderTaskTable(t *testing.T) {
	past := cmdNow.Add(-time.Hour)
	tasks := []model.Task{
		{ID: "01A", Title: "Buy milk", Priority: model.PriorityHigh},
		{ID: "01B", Title: "File taxes", DueDate: &past},
	}
	var buf bytes.Buffer
	renderTaskTable(&buf, tasks, positionsOf(tasks), cmdNow)

	out := buf.String()
	assert.Contains(t, out, "Buy milk")
	assert.Contains(t, out, "File taxes")
	assert.Contains(t, out, "Overdue")
	assert.Contains(t, out, "Open")
}

func TestRenderStats(t *testing.T) {
	var buf bytes.Buffer
	renderStats(&buf,
		model.TaskStats{Total: 4, Active: 3, Completed: 1, Overdue: 1},
		model.DailyStats{CreatedToday: 2, CompletionRate: 25},
		model.StorageStats{UsedBytes: 2048, CapacityBytes: model.DefaultCapacityBytes, Percentage: 0.04},
		3,
	)
	out := buf.String()
	assert.Contains(t, out, "Completion rate")
	assert.Contains(t, out, "25%")
	assert.Contains(t, out, "2.0 KiB / 5.0 MiB")
	assert.Contains(t, out, "Pending reminders")
}

func TestFormatBytes(t *testing.T) {
	assert.Equal(t, "512 B", formatBytes(512))
	assert.Equal(t, "1.5 KiB", formatBytes(1536))
	assert.Equal(t, "5.0 MiB", formatBytes(model.DefaultCapacityBytes))
}

func TestConfirm(t *testing.T) {
	var out bytes.Buffer
	assert.True(t, confirm(strings.NewReader("y\n"), &out, "sure?"))
	assert.True(t, confirm(strings.NewReader("YES\n"), &out, "sure?"))
	assert.False(t, confirm(strings.NewReader("\n"), &out, "sure?"))
	assert.False(t, confirm(strings.NewReader(""), &out, "sure?"))
}

func TestParseInts(t *testing.T) {
	got, err := parseInts("15, 60,1440")
	require.NoError(t, err)
	assert.Equal(t, []int{15, 60, 1440}, got)
	assert.Equal(t, "15,60,1440", joinInts(got))

	_, err = parseInts("15,soon")
	assert.Error(t, err)
	_, err = parseInts("-5")
	assert.Error(t, err)
}

func TestConfigModel_EditAndSave(t *testing.T) {
	var saved *model.Config
	m := newConfigModel(model.DefaultConfig())
	m.save = func(c model.Config) error {
		saved = &c
		return nil
	}

	enter := tea.KeyMsg{Type: tea.KeyEnter}
	down := tea.KeyMsg{Type: tea.KeyDown}

	// move to Notifications.ReminderMinutes
	for i := 0; i < 6; i++ {
		m.Update(down)
	}
	require.Equal(t, "Notifications.ReminderMinutes", m.fields[m.cursor])

	m.Update(enter)
	require.True(t, m.editMode)
	m.textInput.SetValue("5,30")
	m.Update(enter)
	assert.False(t, m.editMode)
	assert.Equal(t, []int{5, 30}, m.config.Notifications.ReminderMinutes)

	// an unparsable value leaves the field alone
	m.Update(enter)
	m.textInput.SetValue("soon")
	m.Update(enter)
	assert.Equal(t, []int{5, 30}, m.config.Notifications.ReminderMinutes)

	m.cursor = len(m.fields) - 1
	_, cmd := m.Update(enter)
	require.NotNil(t, saved)
	assert.Equal(t, []int{5, 30}, saved.Notifications.ReminderMinutes)
	assert.NotNil(t, cmd)

	assert.Contains(t, m.View(), "Notifications.ReminderMinutes: 5,30")
}

func TestRenderCategoryTable(t *testing.T) {
	var buf bytes.Buffer
	renderCategoryTable(&buf, []util.CategoryCount{{Name: "errands", Open: 2, Total: 3}})
	assert.Contains(t, buf.String(), "errands")
}
