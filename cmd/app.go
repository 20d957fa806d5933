package cmd

import (
	"fmt"
	"os"
	"time"

	"github.com/nakachan-ing/dolist/internal/clock"
	"github.com/nakachan-ing/dolist/internal/model"
	"github.com/nakachan-ing/dolist/internal/notify"
	"github.com/nakachan-ing/dolist/internal/reminder"
	"github.com/nakachan-ing/dolist/internal/store"
	"github.com/nakachan-ing/dolist/internal/todo"
)

// app is the wired task store of one dolist invocation.
type app struct {
	store     *todo.Store
	scheduler *reminder.Scheduler
	storage   *store.FileStorage
}

func openApp(cfg model.Config, clk clock.Clock) (*app, error) {
	storage, err := store.NewFileStorage(cfg.DataDir, cfg.Storage.CapacityBytes, clk)
	if err != nil {
		return nil, err
	}
	markers := store.NewMarkerFile(cfg.DataDir)
	notifier := notify.FromConfig(cfg.Notifications, os.Stdout)
	scheduler := reminder.NewScheduler(clk, notifier, markers, cfg.Notifications.ReminderMinutes)

	filter, err := model.ParseFilter(cfg.DefaultFilter)
	if err != nil {
		filter = model.FilterActive
	}

	s := todo.New(storage, scheduler, clk,
		todo.WithReminderMinutes(cfg.Notifications.ReminderMinutes),
		todo.WithFilter(filter),
	)
	return &app{store: s, scheduler: scheduler, storage: storage}, nil
}

func loadApp() (*app, error) {
	a, err := openApp(*config, clock.RealClock{})
	if err != nil {
		return nil, fmt.Errorf("❌ Failed to open task store: %w", err)
	}
	return a, nil
}

// resolveTask accepts a 1-based position, a full id or a unique id prefix.
func resolveTask(s *todo.Store, ref string) (model.Task, error) {
	task, ok := s.Resolve(ref)
	if !ok {
		return model.Task{}, fmt.Errorf("❌ Task %q not found (use a list position, an id or a unique id prefix)", ref)
	}
	return task, nil
}

func watchInterval(cfg model.Config) time.Duration {
	return time.Duration(cfg.Notifications.CheckIntervalSeconds) * time.Second
}
