/*
Copyright © 2025 NAME HERE <EMAIL ADDRESS>
*/
package cmd

import (
	"context"
	"errors"
	"fmt"
	"log"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"github.com/nakachan-ing/dolist/internal/reminder"
	"github.com/nakachan-ing/dolist/internal/util"
	"github.com/spf13/cobra"
)

const watchLockFile = "watch.lock"

var remindCmd = &cobra.Command{
	Use:   "remind",
	Short: "Send overdue notifications once (safe to run from cron)",
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := loadApp()
		if err != nil {
			return err
		}
		sent := a.store.CheckOverdue()
		fmt.Printf("🔔 %d overdue notification(s) sent.\n", sent)
		return nil
	},
}

var watchCmd = &cobra.Command{
	Use:   "watch",
	Short: "Keep running and deliver reminders before each due date",
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := loadApp()
		if err != nil {
			return err
		}

		lockPath := filepath.Join(config.DataDir, watchLockFile)
		if _, err := util.CreateLockFile(lockPath); err != nil {
			if errors.Is(err, util.ErrLocked) {
				return fmt.Errorf("❌ Another watcher is already running: %w", err)
			}
			return fmt.Errorf("❌ Failed to create lock file: %w", err)
		}
		defer func() {
			if err := util.RemoveLockFile(lockPath); err != nil {
				log.Printf("⚠️ Failed to remove lock file: %v", err)
			}
		}()

		ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
		defer stop()

		reminder.NewWatcher(a.store, watchInterval(*config)).Run(ctx)
		a.scheduler.CancelAll()
		return nil
	},
}

var notifyCmd = &cobra.Command{
	Use:   "notify",
	Short: "Notification utilities",
}

var notifyTestCmd = &cobra.Command{
	Use:   "test",
	Short: "Send a test notification",
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := loadApp()
		if err != nil {
			return err
		}
		if !a.store.TestNotification() {
			log.Println("⚠️ Notification could not be shown. Check notifications.enable and notifications.backend.")
			return nil
		}
		fmt.Println("✅ Test notification sent.")
		return nil
	},
}

func init() {
	notifyCmd.AddCommand(notifyTestCmd)
	rootCmd.AddCommand(remindCmd, watchCmd, notifyCmd)
}
