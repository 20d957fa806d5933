package reminder

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

type fakeSource struct {
	mu        sync.Mutex
	reloads   int
	schedules []string
	checks    int
}

func (f *fakeSource) Reload() {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.reloads++
}

func (f *fakeSource) ScheduleReminders(id string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.schedules = append(f.schedules, id)
}

func (f *fakeSource) CheckOverdue() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.checks++
	return 0
}

func (f *fakeSource) counts() (int, int, int) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.reloads, len(f.schedules), f.checks
}

func TestWatcher_SweepsOnStartAndEachTick(t *testing.T) {
	src := &fakeSource{}
	ticks := make(chan time.Time)
	stopped := false

	w := NewWatcher(src, time.Second)
	w.ticks = func(time.Duration) (<-chan time.Time, func()) {
		return ticks, func() { stopped = true }
	}

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		w.Run(ctx)
		close(done)
	}()

	ticks <- time.Now()
	ticks <- time.Now()
	cancel()
	<-done

	reloads, schedules, checks := src.counts()
	assert.Equal(t, 2, reloads)
	assert.Equal(t, 3, schedules)
	assert.Equal(t, 3, checks)
	assert.Equal(t, []string{"", "", ""}, src.schedules)
	assert.True(t, stopped)
}

func TestNewWatcher_DefaultInterval(t *testing.T) {
	w := NewWatcher(&fakeSource{}, 0)
	assert.Equal(t, time.Minute, w.interval)
}
