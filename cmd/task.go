/*
Copyright © 2025 NAME HERE <EMAIL ADDRESS>
*/
package cmd

import (
	"bufio"
	"fmt"
	"io"
	"log"
	"os"
	"strings"
	"time"

	"github.com/charmbracelet/glamour"
	"github.com/fatih/color"
	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/jedib0t/go-pretty/v6/text"
	"github.com/nakachan-ing/dolist/internal/model"
	"github.com/nakachan-ing/dolist/internal/todo"
	"github.com/nakachan-ing/dolist/internal/util"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"
)

var (
	taskDesc     string
	taskDue      string
	taskPriority string
	taskCategory string

	listFilter     string
	listSearch     string
	listCategories []string
	listPriorities []string
	listFrom       string
	listTo         string
	listPageSize   int

	showMeta bool

	editTitle    string
	editDesc     string
	editDue      string
	editPriority string
	editCategory string
	editClearDue bool
)

var addTaskCmd = &cobra.Command{
	Use:     "add [title]",
	Short:   "Add a new task",
	Args:    cobra.MinimumNArgs(1),
	Aliases: []string{"a", "new"},
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := loadApp()
		if err != nil {
			return err
		}

		var due *time.Time
		if taskDue != "" {
			d, err := model.ParseDueDate(taskDue)
			if err != nil {
				return fmt.Errorf("❌ %w", err)
			}
			due = &d
		}

		var opts []todo.TaskOption
		if taskPriority != "" {
			p, err := model.ParsePriority(taskPriority)
			if err != nil {
				return fmt.Errorf("❌ %w", err)
			}
			opts = append(opts, todo.WithPriority(p))
		}
		if taskCategory != "" {
			opts = append(opts, todo.WithCategory(taskCategory))
		}

		task, ok := a.store.AddTask(strings.Join(args, " "), taskDesc, due, opts...)
		if !ok {
			log.Println("⚠️ Task title must not be empty, nothing added.")
			return nil
		}

		idStyle := color.New(color.FgCyan).SprintFunc()
		fmt.Printf("✅ Task %q has been added. [%s]\n", task.Title, idStyle(task.ID))
		if task.DueDate != nil {
			fmt.Printf("⏰ Due %s\n", model.FormatDueDate(task.DueDate))
		}
		return nil
	},
}

var listTaskCmd = &cobra.Command{
	Use:     "list",
	Short:   "List tasks",
	Aliases: []string{"ls"},
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := loadApp()
		if err != nil {
			return err
		}

		if listFilter != "" {
			f, err := model.ParseFilter(listFilter)
			if err != nil {
				return fmt.Errorf("❌ %w", err)
			}
			a.store.SetFilter(f)
		}
		a.store.SetSearchQuery(listSearch)

		query := util.TaskQuery{Categories: listCategories, DueFrom: listFrom, DueTo: listTo}
		for _, p := range listPriorities {
			parsed, err := model.ParsePriority(p)
			if err != nil {
				return fmt.Errorf("❌ %w", err)
			}
			query.Priorities = append(query.Priorities, parsed)
		}

		tasks := util.FilterTasks(a.store.FilteredTasks(), query)
		positions := positionsOf(a.store.Tasks())
		now := time.Now()

		fmt.Println(strings.Repeat("=", 30))
		fmt.Printf("Tasks (%s): %d shown\n", a.store.Filter(), len(tasks))
		fmt.Println(strings.Repeat("=", 30))

		if len(tasks) == 0 {
			fmt.Println("No tasks to display.")
			return nil
		}

		pageSize := listPageSize
		if pageSize <= 0 {
			pageSize = len(tasks)
		}

		reader := bufio.NewReader(os.Stdin)
		for start := 0; start < len(tasks); start += pageSize {
			end := min(start+pageSize, len(tasks))
			renderTaskTable(os.Stdout, tasks[start:end], positions, now)

			if end >= len(tasks) {
				break
			}
			fmt.Print("\nPress Enter for the next page (q to quit): ")
			input, _ := reader.ReadString('\n')
			if strings.TrimSpace(input) == "q" {
				break
			}
		}
		return nil
	},
}

func positionsOf(tasks []model.Task) map[string]int {
	positions := make(map[string]int, len(tasks))
	for i, t := range tasks {
		positions[t.ID] = i + 1
	}
	return positions
}

func renderTaskTable(w io.Writer, tasks []model.Task, positions map[string]int, now time.Time) {
	t := table.NewWriter()
	t.SetOutputMirror(w)
	t.SetStyle(table.StyleDouble)
	t.Style().Options.SeparateRows = false

	t.AppendHeader(table.Row{
		text.FgGreen.Sprintf("#"), text.FgGreen.Sprintf("ID"),
		text.FgGreen.Sprintf("%s", text.Bold.Sprintf("Title")),
		text.FgGreen.Sprintf("Priority"), text.FgGreen.Sprintf("Category"),
		text.FgGreen.Sprintf("Due"), text.FgGreen.Sprintf("Status"),
	})

	for _, task := range tasks {
		t.AppendRow(table.Row{
			positions[task.ID],
			task.ID,
			task.Title,
			priorityColored(task.Priority),
			task.Category,
			model.FormatDueDate(task.DueDate),
			statusColored(task, now),
		})
	}

	t.Render()
}

func priorityColored(p model.Priority) string {
	switch p {
	case model.PriorityHigh:
		return text.FgHiRed.Sprintf("%s", p)
	case model.PriorityMedium:
		return text.FgHiYellow.Sprintf("%s", p)
	case model.PriorityLow:
		return text.FgHiBlue.Sprintf("%s", p)
	default:
		return ""
	}
}

func statusColored(task model.Task, now time.Time) string {
	switch {
	case task.Completed:
		return text.FgHiGreen.Sprintf("Done")
	case task.IsOverdue(now):
		return text.FgHiRed.Sprintf("Overdue")
	default:
		return text.FgHiYellow.Sprintf("Open")
	}
}

var showTaskCmd = &cobra.Command{
	Use:     "show [task]",
	Short:   "Show task detail",
	Args:    cobra.ExactArgs(1),
	Aliases: []string{"s"},
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := loadApp()
		if err != nil {
			return err
		}
		task, err := resolveTask(a.store, args[0])
		if err != nil {
			return err
		}

		titleStyle := color.New(color.FgCyan, color.Bold).SprintFunc()
		fieldStyle := color.New(color.FgHiGreen).SprintFunc()

		fmt.Printf("[%v] %v\n", titleStyle(task.ID), titleStyle(task.Title))
		fmt.Println(strings.Repeat("-", 50))
		fmt.Printf("Status: %v\n", statusColored(task, time.Now()))
		fmt.Printf("Priority: %v\n", fieldStyle(task.Priority))
		fmt.Printf("Category: %v\n", fieldStyle(task.Category))
		fmt.Printf("Due: %v\n", fieldStyle(model.FormatDueDate(task.DueDate)))
		fmt.Printf("Created at: %v\n", fieldStyle(task.CreatedAt.Local().Format(time.DateTime)))
		fmt.Printf("Updated at: %v\n", fieldStyle(task.UpdatedAt.Local().Format(time.DateTime)))

		if !showMeta && strings.TrimSpace(task.Description) != "" {
			rendered, err := glamour.Render(task.Description, "dark")
			if err != nil {
				log.Printf("⚠️ Failed to render markdown content: %v", err)
				fmt.Println(task.Description)
			} else {
				fmt.Println(rendered)
			}
		}
		return nil
	},
}

var doneTaskCmd = &cobra.Command{
	Use:     "done [task]",
	Short:   "Toggle a task between open and done",
	Args:    cobra.ExactArgs(1),
	Aliases: []string{"toggle"},
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := loadApp()
		if err != nil {
			return err
		}
		task, err := resolveTask(a.store, args[0])
		if err != nil {
			return err
		}

		toggled, ok := a.store.ToggleTask(task.ID)
		if !ok {
			return fmt.Errorf("❌ Task %s not found", task.ID)
		}
		if toggled.Completed {
			fmt.Printf("✅ Task %q marked as done.\n", toggled.Title)
		} else {
			fmt.Printf("🔄 Task %q reopened.\n", toggled.Title)
		}
		return nil
	},
}

var editTaskCmd = &cobra.Command{
	Use:     "edit [task]",
	Short:   "Edit a task with flags or in your editor",
	Args:    cobra.ExactArgs(1),
	Aliases: []string{"e"},
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := loadApp()
		if err != nil {
			return err
		}
		task, err := resolveTask(a.store, args[0])
		if err != nil {
			return err
		}

		patch := patchFromFlags(cmd)
		if patch.IsEmpty() {
			patch, err = editInEditor(task, config.Editor)
			if err != nil {
				return err
			}
			if patch.IsEmpty() {
				fmt.Println("No changes.")
				return nil
			}
		}

		updated, ok := a.store.EditTask(task.ID, patch)
		if !ok {
			return fmt.Errorf("❌ Task %s was not updated", task.ID)
		}
		fmt.Printf("✅ Task %q has been updated.\n", updated.Title)
		return nil
	},
}

func patchFromFlags(cmd *cobra.Command) model.Patch {
	var patch model.Patch
	flags := cmd.Flags()
	if flags.Changed("title") {
		patch.Title = &editTitle
	}
	if flags.Changed("desc") {
		patch.Description = &editDesc
	}
	if flags.Changed("due") {
		patch.DueDate = &editDue
	}
	if editClearDue {
		empty := ""
		patch.DueDate = &empty
	}
	if flags.Changed("priority") {
		patch.Priority = &editPriority
	}
	if flags.Changed("category") {
		patch.Category = &editCategory
	}
	return patch
}

// editBuffer is the YAML document opened in the editor.
type editBuffer struct {
	Title       string `yaml:"title"`
	Description string `yaml:"description"`
	Completed   bool   `yaml:"completed"`
	Priority    string `yaml:"priority"`
	Category    string `yaml:"category"`
	DueDate     string `yaml:"due_date"`
}

func newEditBuffer(task model.Task) editBuffer {
	return editBuffer{
		Title:       task.Title,
		Description: task.Description,
		Completed:   task.Completed,
		Priority:    string(task.Priority),
		Category:    task.Category,
		DueDate:     model.FormatDueDate(task.DueDate),
	}
}

// patchFrom keeps only the fields that differ from orig.
func (b editBuffer) patchFrom(orig editBuffer) model.Patch {
	var patch model.Patch
	if b.Title != orig.Title {
		patch.Title = &b.Title
	}
	if b.Description != orig.Description {
		patch.Description = &b.Description
	}
	if b.Completed != orig.Completed {
		patch.Completed = &b.Completed
	}
	if b.Priority != orig.Priority {
		patch.Priority = &b.Priority
	}
	if b.Category != orig.Category {
		patch.Category = &b.Category
	}
	if strings.TrimSpace(b.DueDate) != orig.DueDate {
		patch.DueDate = &b.DueDate
	}
	return patch
}

func editInEditor(task model.Task, editor string) (model.Patch, error) {
	orig := newEditBuffer(task)
	data, err := yaml.Marshal(orig)
	if err != nil {
		return model.Patch{}, fmt.Errorf("failed to convert to YAML: %w", err)
	}

	tmp, err := os.CreateTemp("", "dolist-*.yaml")
	if err != nil {
		return model.Patch{}, fmt.Errorf("❌ Failed to create edit buffer: %w", err)
	}
	defer os.Remove(tmp.Name())

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return model.Patch{}, fmt.Errorf("❌ Failed to write edit buffer: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return model.Patch{}, fmt.Errorf("❌ Failed to write edit buffer: %w", err)
	}

	if err := util.OpenEditor(tmp.Name(), editor); err != nil {
		return model.Patch{}, fmt.Errorf("❌ %w", err)
	}

	edited, err := os.ReadFile(tmp.Name())
	if err != nil {
		return model.Patch{}, fmt.Errorf("❌ Failed to read edit buffer: %w", err)
	}
	var buf editBuffer
	if err := yaml.Unmarshal(edited, &buf); err != nil {
		return model.Patch{}, fmt.Errorf("❌ Failed to parse edited task: %w", err)
	}
	return buf.patchFrom(orig), nil
}

var removeTaskCmd = &cobra.Command{
	Use:     "rm [task...]",
	Short:   "Delete tasks",
	Args:    cobra.MinimumNArgs(1),
	Aliases: []string{"remove", "delete"},
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := loadApp()
		if err != nil {
			return err
		}

		// resolve everything first: positions shift after each delete
		var tasks []model.Task
		for _, ref := range args {
			task, err := resolveTask(a.store, ref)
			if err != nil {
				return err
			}
			tasks = append(tasks, task)
		}

		for _, task := range tasks {
			if a.store.DeleteTask(task.ID) {
				fmt.Printf("🗑️ Task %q has been deleted.\n", task.Title)
			}
		}
		return nil
	},
}

var moveTaskCmd = &cobra.Command{
	Use:     "move [task] [before-task]",
	Short:   "Move a task right before another one",
	Args:    cobra.ExactArgs(2),
	Aliases: []string{"mv"},
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := loadApp()
		if err != nil {
			return err
		}
		source, err := resolveTask(a.store, args[0])
		if err != nil {
			return err
		}
		target, err := resolveTask(a.store, args[1])
		if err != nil {
			return err
		}

		if !a.store.ReorderTask(source.ID, target.ID) {
			log.Println("⚠️ Nothing to move.")
			return nil
		}
		fmt.Printf("✅ Moved %q before %q.\n", source.Title, target.Title)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(addTaskCmd, listTaskCmd, showTaskCmd, doneTaskCmd, editTaskCmd, removeTaskCmd, moveTaskCmd)

	addTaskCmd.Flags().StringVarP(&taskDesc, "desc", "d", "", "Task description (markdown)")
	addTaskCmd.Flags().StringVar(&taskDue, "due", "", "Due date (YYYY-MM-DD or \"YYYY-MM-DD HH:MM\")")
	addTaskCmd.Flags().StringVarP(&taskPriority, "priority", "p", "", "Priority (high, medium, low)")
	addTaskCmd.Flags().StringVarP(&taskCategory, "category", "c", "", "Category")

	listTaskCmd.Flags().StringVarP(&listFilter, "filter", "f", "", "Status filter (all, active, completed, overdue)")
	listTaskCmd.Flags().StringVarP(&listSearch, "search", "q", "", "Search by title or description")
	listTaskCmd.Flags().StringSliceVarP(&listCategories, "category", "c", []string{}, "Filter by categories")
	listTaskCmd.Flags().StringSliceVarP(&listPriorities, "priority", "p", []string{}, "Filter by priorities")
	listTaskCmd.Flags().StringVar(&listFrom, "from", "", "Filter by due date from (YYYY-MM-DD)")
	listTaskCmd.Flags().StringVar(&listTo, "to", "", "Filter by due date to (YYYY-MM-DD)")
	listTaskCmd.Flags().IntVar(&listPageSize, "limit", 20, "Set the number of tasks to display per page (-1 for all)")

	showTaskCmd.Flags().BoolVar(&showMeta, "meta", false, "Show only metadata without the description")

	editTaskCmd.Flags().StringVar(&editTitle, "title", "", "New title")
	editTaskCmd.Flags().StringVarP(&editDesc, "desc", "d", "", "New description")
	editTaskCmd.Flags().StringVar(&editDue, "due", "", "New due date")
	editTaskCmd.Flags().BoolVar(&editClearDue, "clear-due", false, "Remove the due date")
	editTaskCmd.Flags().StringVarP(&editPriority, "priority", "p", "", "New priority (empty clears)")
	editTaskCmd.Flags().StringVarP(&editCategory, "category", "c", "", "New category (empty clears)")
}
