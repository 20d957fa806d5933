/*
Copyright © 2025 NAME HERE <EMAIL ADDRESS>
*/
package cmd

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/fatih/color"
	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/jedib0t/go-pretty/v6/text"
	"github.com/nakachan-ing/dolist/internal/model"
	"github.com/spf13/cobra"
)

var clearForce bool

var statsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Show task, daily and storage statistics",
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := loadApp()
		if err != nil {
			return err
		}

		// arm timers only to count what a watcher would have pending
		a.store.ScheduleReminders("")
		pending := a.scheduler.PendingTotal()
		a.scheduler.CancelAll()

		renderStats(os.Stdout, a.store.TaskStats(), a.store.DailyStats(), a.store.StorageStats(), pending)
		fmt.Println("📁 Snapshot:", a.storage.Path())
		return nil
	},
}

func renderStats(w io.Writer, ts model.TaskStats, ds model.DailyStats, ss model.StorageStats, pendingReminders int) {
	t := table.NewWriter()
	t.SetOutputMirror(w)
	t.SetStyle(table.StyleDouble)
	t.AppendHeader(table.Row{text.FgGreen.Sprintf("Tasks"), text.FgGreen.Sprintf("Count")})
	t.AppendRows([]table.Row{
		{"Total", ts.Total},
		{"Active", ts.Active},
		{"Completed", ts.Completed},
		{"Overdue", overdueCell(ts.Overdue)},
	})
	t.AppendSeparator()
	t.AppendRows([]table.Row{
		{"Created today", ds.CreatedToday},
		{"Completed today", ds.CompletedToday},
		{"Due today", ds.DueToday},
		{"Overdue as of today", overdueCell(ds.OverdueToday)},
		{"Completion rate", fmt.Sprintf("%.0f%%", ds.CompletionRate)},
	})
	t.AppendSeparator()
	t.AppendRows([]table.Row{
		{"Pending reminders", pendingReminders},
		{"Storage used", fmt.Sprintf("%s / %s (%.1f%%)", formatBytes(ss.UsedBytes), formatBytes(ss.CapacityBytes), ss.Percentage)},
	})
	t.Render()
}

func overdueCell(n int) string {
	if n > 0 {
		return text.FgHiRed.Sprintf("%d", n)
	}
	return fmt.Sprintf("%d", n)
}

func formatBytes(n int64) string {
	switch {
	case n >= 1024*1024:
		return fmt.Sprintf("%.1f MiB", float64(n)/(1024*1024))
	case n >= 1024:
		return fmt.Sprintf("%.1f KiB", float64(n)/1024)
	default:
		return fmt.Sprintf("%d B", n)
	}
}

var exportCmd = &cobra.Command{
	Use:   "export [dir]",
	Short: "Export all tasks to a dated JSON file",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := loadApp()
		if err != nil {
			return err
		}

		dir := config.ExportDir
		if len(args) == 1 {
			dir = args[0]
		}
		path, err := a.store.ExportAll(dir)
		if err != nil {
			return fmt.Errorf("❌ Export failed: %w", err)
		}
		fmt.Printf("✅ Exported %d tasks to %s\n", len(a.store.Tasks()), path)
		return nil
	},
}

var importCmd = &cobra.Command{
	Use:   "import [file]",
	Short: "Replace all tasks with the contents of an exported file",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := loadApp()
		if err != nil {
			return err
		}

		f, err := os.Open(args[0])
		if err != nil {
			return fmt.Errorf("❌ Failed to open %s: %w", args[0], err)
		}
		defer f.Close()

		n, err := a.store.ImportAll(f)
		if err != nil {
			return fmt.Errorf("❌ Import failed: %w", err)
		}
		fmt.Printf("✅ Imported %d tasks from %s\n", n, args[0])
		return nil
	},
}

var clearCmd = &cobra.Command{
	Use:   "clear",
	Short: "Delete every task and reminder marker",
	RunE: func(cmd *cobra.Command, args []string) error {
		if !clearForce && !confirm(os.Stdin, os.Stdout, "Delete ALL tasks? This cannot be undone.") {
			fmt.Println("Aborted.")
			return nil
		}

		a, err := loadApp()
		if err != nil {
			return err
		}
		a.store.ClearAll()
		fmt.Println("🗑️ All tasks have been deleted.")
		return nil
	},
}

func confirm(r io.Reader, w io.Writer, question string) bool {
	warn := color.New(color.FgYellow).SprintFunc()
	fmt.Fprintf(w, "%s [y/N]: ", warn(question))
	input, _ := bufio.NewReader(r).ReadString('\n')
	switch strings.ToLower(strings.TrimSpace(input)) {
	case "y", "yes":
		return true
	default:
		return false
	}
}

func init() {
	rootCmd.AddCommand(statsCmd, exportCmd, importCmd, clearCmd)
	clearCmd.Flags().BoolVarP(&clearForce, "force", "f", false, "Do not ask for confirmation")
}
