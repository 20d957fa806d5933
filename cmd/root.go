/*
Copyright © 2025 NAME HERE <EMAIL ADDRESS>
*/
package cmd

import (
	"errors"
	"fmt"
	"io/fs"
	"log"
	"os"

	"github.com/joho/godotenv"
	"github.com/nakachan-ing/dolist/internal/model"
	"github.com/nakachan-ing/dolist/internal/store"
	"github.com/spf13/cobra"
)

// config is loaded once per invocation before any subcommand runs.
var config *model.Config

var rootCmd = &cobra.Command{
	Use:           "dolist",
	Short:         "A to-do list with due-date reminders",
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
			log.Printf("⚠️ Failed to load .env: %v", err)
		}

		c, err := store.LoadConfig()
		if err != nil {
			return fmt.Errorf("❌ Error loading config: %w", err)
		}
		config = c
		return nil
	},
}

func Execute() {
	if err := rootCmd.Execute(); err != nil {
		log.Printf("%v", err)
		os.Exit(1)
	}
}

func init() {
	log.SetFlags(0)
}
