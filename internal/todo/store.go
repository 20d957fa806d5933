package todo

import (
	"io"
	"log"
	"math/rand"
	"slices"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/nakachan-ing/dolist/internal/clock"
	"github.com/nakachan-ing/dolist/internal/model"
	"github.com/oklog/ulid"
)

// Persistence stores the whole collection as one snapshot.
type Persistence interface {
	Load() []model.Task
	Save(tasks []model.Task)
	Clear()
	Export(tasks []model.Task, dir string) (string, error)
	Import(r io.Reader) ([]model.Task, error)
	Stats() model.StorageStats
}

// Reminders arranges and cancels the timed notifications of tasks.
type Reminders interface {
	Arrange(task model.Task, leadMinutes []int)
	Cancel(taskID string)
	CancelAll()
	Forget(taskID string)
	Reset()
	CheckOverdue(tasks []model.Task) int
	Notify(n model.Notification) bool
}

// Store owns the task collection. Every mutation is applied in memory,
// persisted right away and, for tasks with a due date, rescheduled.
type Store struct {
	mu          sync.Mutex
	tasks       []model.Task
	filter      model.Filter
	query       string
	persistence Persistence
	reminders   Reminders
	clock       clock.Clock
	leads       []int
	entropy     io.Reader
}

// Option configures a Store built by New.
type Option func(*Store)

// WithReminderMinutes sets the lead times used when arranging reminders.
func WithReminderMinutes(minutes []int) Option {
	return func(s *Store) {
		s.leads = append([]int(nil), minutes...)
	}
}

// WithFilter sets the initial status filter.
func WithFilter(f model.Filter) Option {
	return func(s *Store) {
		s.filter = f
	}
}

// New loads the persisted snapshot. A nil clock means wall time and nil
// reminders disables scheduling.
func New(persistence Persistence, reminders Reminders, clk clock.Clock, opts ...Option) *Store {
	if clk == nil {
		clk = clock.RealClock{}
	}
	if reminders == nil {
		reminders = nopReminders{}
	}
	s := &Store{
		persistence: persistence,
		reminders:   reminders,
		clock:       clk,
		filter:      model.FilterActive,
		entropy:     ulid.Monotonic(rand.New(rand.NewSource(clk.Now().UnixNano())), 0),
	}
	for _, opt := range opts {
		opt(s)
	}
	s.tasks = persistence.Load()
	return s
}

// TaskOption sets optional fields on a task created by AddTask.
type TaskOption func(*model.Task)

// WithPriority overrides the default medium priority.
func WithPriority(p model.Priority) TaskOption {
	return func(t *model.Task) { t.Priority = p }
}

// WithCategory files the task under c.
func WithCategory(c string) TaskOption {
	return func(t *model.Task) { t.Category = strings.TrimSpace(c) }
}

// AddTask appends a new task. A title that trims to empty is ignored.
func (s *Store) AddTask(title, description string, due *time.Time, opts ...TaskOption) (model.Task, bool) {
	title = strings.TrimSpace(title)
	if title == "" {
		return model.Task{}, false
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.clock.Now()
	task := model.Task{
		ID:          s.newIDLocked(now),
		Title:       title,
		Description: description,
		Completed:   false,
		Priority:    model.PriorityMedium,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if due != nil {
		d := *due
		task.DueDate = &d
	}
	for _, opt := range opts {
		opt(&task)
	}

	s.tasks = append(s.tasks, task)
	s.saveLocked()

	if task.DueDate != nil {
		s.reminders.Arrange(task, s.leads)
	}
	return task, true
}

func (s *Store) newIDLocked(now time.Time) string {
	for {
		id, err := ulid.New(ulid.Timestamp(now), s.entropy)
		if err != nil {
			// monotonic entropy overflowed within this millisecond
			now = now.Add(time.Millisecond)
			continue
		}
		if s.indexLocked(id.String()) < 0 {
			return id.String()
		}
	}
}

// ToggleTask flips the completed flag. Completing a task cancels its
// reminders; reopening it arranges them again.
func (s *Store) ToggleTask(id string) (model.Task, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	i := s.indexLocked(id)
	if i < 0 {
		return model.Task{}, false
	}
	task := &s.tasks[i]
	task.Completed = !task.Completed
	task.Touch(s.clock.Now())
	s.saveLocked()

	if task.Completed {
		s.reminders.Cancel(task.ID)
	} else if task.DueDate != nil {
		s.reminders.Arrange(*task, s.leads)
	}
	return *task, true
}

func (s *Store) DeleteTask(id string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	i := s.indexLocked(id)
	if i < 0 {
		return false
	}
	s.tasks = slices.Delete(s.tasks, i, i+1)
	s.saveLocked()
	s.reminders.Forget(id)
	return true
}

// EditTask merges patch into the task. An invalid patch (such as an empty
// title) is rejected as a whole.
func (s *Store) EditTask(id string, patch model.Patch) (model.Task, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	i := s.indexLocked(id)
	if i < 0 {
		return model.Task{}, false
	}
	before := s.tasks[i]
	updated := before
	if err := patch.Apply(&updated); err != nil {
		log.Printf("⚠️ Rejected edit of task %s: %v", id, err)
		return model.Task{}, false
	}
	updated.Touch(s.clock.Now())
	s.tasks[i] = updated
	s.saveLocked()

	switch {
	case updated.Completed || updated.DueDate == nil:
		s.reminders.Cancel(id)
	case patch.TouchesDueDate(), before.Completed, before.Title != updated.Title:
		s.reminders.Arrange(updated, s.leads)
	}
	return updated, true
}

// ReorderTask moves the source task to the position right before the target.
func (s *Store) ReorderTask(sourceID, targetID string) bool {
	if sourceID == targetID {
		return false
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	si, ti := s.indexLocked(sourceID), s.indexLocked(targetID)
	if si < 0 || ti < 0 {
		return false
	}

	moved := s.tasks[si]
	rest := slices.Delete(slices.Clone(s.tasks), si, si+1)
	ti = slices.IndexFunc(rest, func(t model.Task) bool { return t.ID == targetID })
	s.tasks = slices.Insert(rest, ti, moved)
	s.saveLocked()
	return true
}

func (s *Store) SetFilter(f model.Filter) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.filter = f
}

func (s *Store) Filter() model.Filter {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.filter
}

func (s *Store) SetSearchQuery(q string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.query = q
}

func (s *Store) SearchQuery() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.query
}

func (s *Store) Tasks() []model.Task {
	s.mu.Lock()
	defer s.mu.Unlock()
	return slices.Clone(s.tasks)
}

func (s *Store) Get(id string) (model.Task, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	i := s.indexLocked(id)
	if i < 0 {
		return model.Task{}, false
	}
	return s.tasks[i], true
}

// Resolve finds a task by 1-based position, exact id or unique id prefix.
func (s *Store) Resolve(ref string) (model.Task, bool) {
	ref = strings.TrimSpace(ref)
	if ref == "" {
		return model.Task{}, false
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if i := s.indexLocked(ref); i >= 0 {
		return s.tasks[i], true
	}
	if n, err := strconv.Atoi(ref); err == nil {
		if n >= 1 && n <= len(s.tasks) {
			return s.tasks[n-1], true
		}
		return model.Task{}, false
	}

	upper := strings.ToUpper(ref)
	var found []model.Task
	for _, t := range s.tasks {
		if strings.HasPrefix(strings.ToUpper(t.ID), upper) {
			found = append(found, t)
		}
	}
	if len(found) != 1 {
		return model.Task{}, false
	}
	return found[0], true
}

// FilteredTasks applies the current filter and search query, keeping collection order.
func (s *Store) FilteredTasks() []model.Task {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.clock.Now()
	out := make([]model.Task, 0, len(s.tasks))
	for _, t := range s.tasks {
		if matchesFilter(t, s.filter, now) && t.Matches(s.query) {
			out = append(out, t)
		}
	}
	return out
}

func matchesFilter(t model.Task, f model.Filter, now time.Time) bool {
	switch f {
	case model.FilterActive:
		return !t.Completed
	case model.FilterCompleted:
		return t.Completed
	case model.FilterOverdue:
		return t.IsOverdue(now)
	default:
		return true
	}
}

func (s *Store) TaskStats() model.TaskStats {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.clock.Now()
	stats := model.TaskStats{Total: len(s.tasks)}
	for _, t := range s.tasks {
		if t.Completed {
			stats.Completed++
		} else {
			stats.Active++
		}
		if t.IsOverdue(now) {
			stats.Overdue++
		}
	}
	return stats
}

// DailyStats counts activity on the current calendar day. A completed task
// whose last update happened today counts as completed today.
func (s *Store) DailyStats() model.DailyStats {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.clock.Now()
	y, m, d := now.Date()
	startOfDay := time.Date(y, m, d, 0, 0, 0, 0, now.Location())

	var stats model.DailyStats
	completed := 0
	for _, t := range s.tasks {
		if model.SameDay(now, t.CreatedAt) {
			stats.CreatedToday++
		}
		if t.Completed {
			completed++
			if model.SameDay(now, t.UpdatedAt) {
				stats.CompletedToday++
			}
		}
		if t.DueDate == nil {
			continue
		}
		if model.SameDay(now, *t.DueDate) {
			stats.DueToday++
		}
		if !t.Completed && t.DueDate.Before(startOfDay) {
			stats.OverdueToday++
		}
	}
	if len(s.tasks) > 0 {
		stats.CompletionRate = float64(completed) / float64(len(s.tasks)) * 100
	}
	return stats
}

func (s *Store) StorageStats() model.StorageStats {
	return s.persistence.Stats()
}

func (s *Store) ExportAll(dir string) (string, error) {
	return s.persistence.Export(s.Tasks(), dir)
}

// ImportAll replaces the whole collection with the parsed file. Nothing
// changes when the file cannot be parsed.
func (s *Store) ImportAll(r io.Reader) (int, error) {
	imported, err := s.persistence.Import(r)
	if err != nil {
		return 0, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	s.tasks = imported
	s.saveLocked()
	s.reminders.CancelAll()
	s.scheduleAllLocked()
	return len(imported), nil
}

func (s *Store) ClearAll() {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.tasks = []model.Task{}
	s.persistence.Clear()
	s.reminders.Reset()
}

// Reload replaces the collection with the persisted snapshot. Timers of tasks
// that were deleted, completed or lost their due date elsewhere are cancelled.
func (s *Store) Reload() {
	tasks := s.persistence.Load()

	s.mu.Lock()
	defer s.mu.Unlock()

	live := make(map[string]bool, len(tasks))
	for _, t := range tasks {
		live[t.ID] = !t.Completed && t.DueDate != nil
	}
	for _, t := range s.tasks {
		if !live[t.ID] {
			s.reminders.Cancel(t.ID)
		}
	}
	s.tasks = tasks
}

// ScheduleReminders arranges reminders for one task, or for every open task
// with a due date when taskID is empty.
func (s *Store) ScheduleReminders(taskID string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if taskID == "" {
		s.scheduleAllLocked()
		return
	}
	i := s.indexLocked(taskID)
	if i < 0 || s.tasks[i].Completed {
		return
	}
	s.reminders.Arrange(s.tasks[i], s.leads)
}

func (s *Store) scheduleAllLocked() {
	for _, t := range s.tasks {
		if !t.Completed && t.DueDate != nil {
			s.reminders.Arrange(t, s.leads)
		}
	}
}

func (s *Store) CheckOverdue() int {
	return s.reminders.CheckOverdue(s.Tasks())
}

func (s *Store) TestNotification() bool {
	return s.reminders.Notify(model.Notification{
		Title: "Test notification",
		Body:  "Notifications are working.",
		Kind:  model.KindInfo,
	})
}

func (s *Store) indexLocked(id string) int {
	return slices.IndexFunc(s.tasks, func(t model.Task) bool { return t.ID == id })
}

func (s *Store) saveLocked() {
	s.persistence.Save(slices.Clone(s.tasks))
}

type nopReminders struct{}

func (nopReminders) Arrange(model.Task, []int)      {}
func (nopReminders) Cancel(string)                  {}
func (nopReminders) CancelAll()                     {}
func (nopReminders) Forget(string)                  {}
func (nopReminders) Reset()                         {}
func (nopReminders) CheckOverdue([]model.Task) int  { return 0 }
func (nopReminders) Notify(model.Notification) bool { return false }
