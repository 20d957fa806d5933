/*
Copyright © 2025 NAME HERE <EMAIL ADDRESS>
*/
package cmd

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/jedib0t/go-pretty/v6/text"
	"github.com/nakachan-ing/dolist/internal/model"
	"github.com/nakachan-ing/dolist/internal/util"
	"github.com/spf13/cobra"
)

var categorySearchQuery string

var categoryCmd = &cobra.Command{
	Use:     "category",
	Short:   "Manage task categories",
	Aliases: []string{"cat"},
}

var setCategoryCmd = &cobra.Command{
	Use:     "set [task] [category]",
	Short:   "Put a task in a category",
	Args:    cobra.ExactArgs(2),
	Aliases: []string{"add"},
	RunE: func(cmd *cobra.Command, args []string) error {
		return setCategory(args[0], args[1])
	},
}

var clearCategoryCmd = &cobra.Command{
	Use:     "clear [task]",
	Short:   "Remove the category of a task",
	Args:    cobra.ExactArgs(1),
	Aliases: []string{"rm"},
	RunE: func(cmd *cobra.Command, args []string) error {
		return setCategory(args[0], "")
	},
}

func setCategory(ref, category string) error {
	a, err := loadApp()
	if err != nil {
		return err
	}
	task, err := resolveTask(a.store, ref)
	if err != nil {
		return err
	}

	updated, ok := a.store.EditTask(task.ID, model.Patch{Category: &category})
	if !ok {
		return fmt.Errorf("❌ Task %s was not updated", task.ID)
	}
	if updated.Category == "" {
		fmt.Printf("✅ Category removed from %q\n", updated.Title)
	} else {
		fmt.Printf("✅ %q moved to category '%s'\n", updated.Title, updated.Category)
	}
	return nil
}

var listCategoryCmd = &cobra.Command{
	Use:     "list",
	Short:   "List categories with task counts",
	Aliases: []string{"ls"},
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := loadApp()
		if err != nil {
			return err
		}

		counts := util.CountCategories(a.store.Tasks())
		if categorySearchQuery != "" {
			q := strings.ToLower(categorySearchQuery)
			filtered := counts[:0]
			for _, c := range counts {
				if strings.Contains(strings.ToLower(c.Name), q) {
					filtered = append(filtered, c)
				}
			}
			counts = filtered
		}

		if len(counts) == 0 {
			fmt.Println("No categories found.")
			return nil
		}
		renderCategoryTable(os.Stdout, counts)
		return nil
	},
}

func renderCategoryTable(w io.Writer, counts []util.CategoryCount) {
	t := table.NewWriter()
	t.SetOutputMirror(w)
	t.SetStyle(table.StyleDouble)
	t.AppendHeader(table.Row{
		text.FgGreen.Sprintf("Category"), text.FgGreen.Sprintf("Open"), text.FgGreen.Sprintf("Total"),
	})
	for _, c := range counts {
		t.AppendRow(table.Row{c.Name, c.Open, c.Total})
	}
	t.Render()
}

func init() {
	categoryCmd.AddCommand(setCategoryCmd, clearCategoryCmd, listCategoryCmd)
	rootCmd.AddCommand(categoryCmd)
	listCategoryCmd.Flags().StringVarP(&categorySearchQuery, "search", "q", "", "Search by category name")
}
