package reminder

import (
	"context"
	"errors"
	"fmt"
	"log"
	"sync"
	"time"

	"github.com/nakachan-ing/dolist/internal/clock"
	"github.com/nakachan-ing/dolist/internal/model"
	"github.com/nakachan-ing/dolist/internal/notify"
)

// MarkerStore remembers the last day an overdue notification was sent for a task.
type MarkerStore interface {
	LastNotified(taskID string) (string, bool)
	Mark(taskID, day string)
	Remove(taskID string)
	Clear()
}

const deadlineKey = "deadline"

type entry struct {
	timer clock.Timer
}

// Scheduler keeps at most one live set of one-shot timers per task id.
type Scheduler struct {
	mu       sync.Mutex
	clock    clock.Clock
	notifier notify.Notifier
	markers  MarkerStore
	leads    []int
	timers   map[string]map[string]*entry
}

func NewScheduler(clk clock.Clock, notifier notify.Notifier, markers MarkerStore, leadMinutes []int) *Scheduler {
	if len(leadMinutes) == 0 {
		leadMinutes = model.DefaultReminderMinutes
	}
	return &Scheduler{
		clock:    clk,
		notifier: notifier,
		markers:  markers,
		leads:    append([]int(nil), leadMinutes...),
		timers:   map[string]map[string]*entry{},
	}
}

// Arrange replaces every pending timer of the task with one timer per lead
// time whose fire instant is still ahead, plus one at the due instant.
// A nil lead list uses the scheduler's defaults.
func (s *Scheduler) Arrange(task model.Task, leadMinutes []int) {
	if task.DueDate == nil {
		return
	}
	if leadMinutes == nil {
		leadMinutes = s.leads
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	s.cancelLocked(task.ID)

	now := s.clock.Now()
	due := *task.DueDate

	seen := make(map[int]bool, len(leadMinutes))
	for _, minutes := range leadMinutes {
		if seen[minutes] {
			continue
		}
		seen[minutes] = true
		fireAt := due.Add(-time.Duration(minutes) * time.Minute)
		if !fireAt.After(now) {
			continue
		}
		s.registerLocked(task.ID, fmt.Sprintf("lead-%d", minutes), fireAt.Sub(now), model.Notification{
			Title:  "Task reminder",
			Body:   fmt.Sprintf("Task %q is due in %s", task.Title, humanizeLead(minutes)),
			TaskID: task.ID,
			Kind:   model.KindReminder,
		})
	}

	if due.After(now) {
		s.registerLocked(task.ID, deadlineKey, due.Sub(now), model.Notification{
			Title:  "Task due",
			Body:   fmt.Sprintf("Task %q is due now", task.Title),
			TaskID: task.ID,
			Kind:   model.KindDeadline,
		})
	}
}

func (s *Scheduler) registerLocked(taskID, key string, d time.Duration, n model.Notification) {
	e := &entry{}
	byKey, ok := s.timers[taskID]
	if !ok {
		byKey = map[string]*entry{}
		s.timers[taskID] = byKey
	}
	if old, ok := byKey[key]; ok {
		old.timer.Stop()
	}
	byKey[key] = e

	e.timer = s.clock.AfterFunc(d, func() {
		s.mu.Lock()
		// a superseded timer must not remove its replacement
		if current, ok := s.timers[taskID][key]; ok && current == e {
			delete(s.timers[taskID], key)
			if len(s.timers[taskID]) == 0 {
				delete(s.timers, taskID)
			}
		}
		s.mu.Unlock()

		s.emit(n)
	})
}

func (s *Scheduler) Cancel(taskID string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.cancelLocked(taskID)
}

func (s *Scheduler) cancelLocked(taskID string) {
	for _, e := range s.timers[taskID] {
		e.timer.Stop()
	}
	delete(s.timers, taskID)
}

func (s *Scheduler) CancelAll() {
	s.mu.Lock()
	defer s.mu.Unlock()
	for taskID := range s.timers {
		s.cancelLocked(taskID)
	}
}

// Forget drops everything the scheduler holds for a deleted task.
func (s *Scheduler) Forget(taskID string) {
	s.Cancel(taskID)
	if s.markers != nil {
		s.markers.Remove(taskID)
	}
}

// Reset cancels every timer and wipes the overdue markers.
func (s *Scheduler) Reset() {
	s.CancelAll()
	if s.markers != nil {
		s.markers.Clear()
	}
}

func (s *Scheduler) Pending(taskID string) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.timers[taskID])
}

func (s *Scheduler) PendingTotal() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	total := 0
	for _, byKey := range s.timers {
		total += len(byKey)
	}
	return total
}

// CheckOverdue sends one overdue notification per open, past-due task per
// calendar day. The marker is stamped even if delivery fails.
func (s *Scheduler) CheckOverdue(tasks []model.Task) int {
	now := s.clock.Now()
	today := model.DayKey(now)
	sent := 0

	for _, task := range tasks {
		if !task.IsOverdue(now) {
			continue
		}
		if s.markers != nil {
			if last, ok := s.markers.LastNotified(task.ID); ok && last == today {
				continue
			}
		}

		if s.emit(model.Notification{
			Title:  "Task overdue",
			Body:   fmt.Sprintf("Task %q is overdue", task.Title),
			TaskID: task.ID,
			Kind:   model.KindDeadline,
		}) {
			sent++
		}
		if s.markers != nil {
			s.markers.Mark(task.ID, today)
		}
	}
	return sent
}

// Notify sends n right away.
func (s *Scheduler) Notify(n model.Notification) bool {
	return s.emit(n)
}

func (s *Scheduler) emit(n model.Notification) bool {
	if s.notifier == nil {
		log.Printf("[Reminder] ⚠️ No notifier configured, skipping %q", n.Title)
		return false
	}
	if err := s.notifier.Notify(context.Background(), n); err != nil {
		if errors.Is(err, notify.ErrUnavailable) {
			log.Printf("[Reminder] ⚠️ Notification permission not granted, skipping %q", n.Title)
		} else {
			log.Printf("[Reminder] ❌ Failed to show notification %q: %v", n.Title, err)
		}
		return false
	}
	return true
}

func humanizeLead(minutes int) string {
	if minutes < 60 {
		if minutes == 1 {
			return "1 minute"
		}
		return fmt.Sprintf("%d minutes", minutes)
	}
	hours := minutes / 60
	if hours == 1 {
		return "1 hour"
	}
	return fmt.Sprintf("%d hours", hours)
}
