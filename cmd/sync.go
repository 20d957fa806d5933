/*
Copyright © 2025 NAME HERE <EMAIL ADDRESS>
*/
package cmd

import (
	"fmt"
	"log"

	"github.com/spf13/cobra"
)

var syncCmd = &cobra.Command{
	Use:   "sync",
	Short: "Back up and restore the task data with S3",
}

var syncPushCmd = &cobra.Command{
	Use:   "push",
	Short: "Upload local changes to S3",
	RunE: func(cmd *cobra.Command, args []string) error {
		log.Println("🔄 Running `dolist sync push`...")
		if err := SyncWithS3(cmd.Context(), *config, "push"); err != nil {
			return fmt.Errorf("❌ Sync failed: %w", err)
		}
		log.Println("✅ `dolist sync push` completed successfully.")
		return nil
	},
}

var syncPullCmd = &cobra.Command{
	Use:   "pull",
	Short: "Download latest changes from S3",
	RunE: func(cmd *cobra.Command, args []string) error {
		log.Println("🔄 Running `dolist sync pull`...")
		if err := SyncWithS3(cmd.Context(), *config, "pull"); err != nil {
			return fmt.Errorf("❌ Sync failed: %w", err)
		}
		log.Println("✅ `dolist sync pull` completed successfully.")
		return nil
	},
}

var syncStatusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show differences between local and S3 files",
	RunE: func(cmd *cobra.Command, args []string) error {
		return ShowSyncStatus(cmd.Context(), *config)
	},
}

func init() {
	syncCmd.AddCommand(syncPushCmd, syncPullCmd, syncStatusCmd)
	rootCmd.AddCommand(syncCmd)
}
