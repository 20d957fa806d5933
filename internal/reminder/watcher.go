package reminder

import (
	"context"
	"log"
	"time"
)

// Source is the part of the task store the watcher drives.
type Source interface {
	Reload()
	ScheduleReminders(taskID string)
	CheckOverdue() int
}

// Watcher keeps reminders armed for a long-running process: it reloads the
// snapshot on every tick so edits made by other dolist invocations are picked up.
type Watcher struct {
	source   Source
	interval time.Duration
	ticks    func(time.Duration) (<-chan time.Time, func())
}

func NewWatcher(source Source, interval time.Duration) *Watcher {
	if interval <= 0 {
		interval = time.Minute
	}
	return &Watcher{
		source:   source,
		interval: interval,
		ticks: func(d time.Duration) (<-chan time.Time, func()) {
			ticker := time.NewTicker(d)
			return ticker.C, ticker.Stop
		},
	}
}

// Run blocks until ctx is cancelled.
func (w *Watcher) Run(ctx context.Context) {
	log.Printf("[Reminder] Starting reminder watcher (interval: %s)", w.interval)

	// Run immediately on start
	w.sweep()

	c, stop := w.ticks(w.interval)
	defer stop()

	for {
		select {
		case <-c:
			w.source.Reload()
			w.sweep()
		case <-ctx.Done():
			log.Println("[Reminder] Watcher stopped")
			return
		}
	}
}

func (w *Watcher) sweep() {
	w.source.ScheduleReminders("")
	if n := w.source.CheckOverdue(); n > 0 {
		log.Printf("[Reminder] Sent %d overdue notification(s)", n)
	}
}
