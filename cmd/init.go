/*
Copyright © 2025 NAME HERE <EMAIL ADDRESS>
*/
package cmd

import (
	"fmt"
	"os"

	"github.com/nakachan-ing/dolist/internal/model"
	"github.com/nakachan-ing/dolist/internal/store"
	"github.com/spf13/cobra"
)

var initForce bool

// initCmd represents the init command
var initCmd = &cobra.Command{
	Use:   "init",
	Short: "Initialize config.yaml and the data directory",
	RunE: func(cmd *cobra.Command, args []string) error {
		configPath, err := store.GetConfigPath()
		if err != nil {
			return fmt.Errorf("❌ Failed to get config path: %w", err)
		}

		if _, err := os.Stat(configPath); err == nil && !initForce {
			fmt.Println("📄 Config file already exists at:", configPath)
			fmt.Println("   Use --force to overwrite it with the defaults.")
			return nil
		}

		if err := store.SaveConfig(model.DefaultConfig()); err != nil {
			return fmt.Errorf("❌ Failed to create config file: %w", err)
		}

		cfg, err := store.LoadConfigFile(configPath)
		if err != nil {
			return fmt.Errorf("❌ Failed to reload config: %w", err)
		}
		if err := os.MkdirAll(cfg.DataDir, 0o755); err != nil {
			return fmt.Errorf("❌ Failed to create data directory: %w", err)
		}

		fmt.Println("✅ dolist initialized successfully!")
		fmt.Println("📄 Config file created at:", configPath)
		fmt.Println("📁 Tasks are stored in:", cfg.DataDir)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(initCmd)
	initCmd.Flags().BoolVarP(&initForce, "force", "f", false, "Overwrite an existing config file")
}
