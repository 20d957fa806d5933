package util

import (
	"sort"
	"strings"
	"time"

	"github.com/nakachan-ing/dolist/internal/model"
)

// TaskQuery narrows a task list beyond the store's status filter and search.
// Empty fields do not filter.
type TaskQuery struct {
	Categories []string
	Priorities []model.Priority
	DueFrom    string // 2006-01-02, inclusive
	DueTo      string // 2006-01-02, inclusive
}

func (q TaskQuery) IsEmpty() bool {
	return len(q.Categories) == 0 && len(q.Priorities) == 0 && q.DueFrom == "" && q.DueTo == ""
}

func FilterTasks(tasks []model.Task, q TaskQuery) []model.Task {
	if q.IsEmpty() {
		return tasks
	}

	var filtered []model.Task
	for _, task := range tasks {
		if len(q.Categories) > 0 && !HasCategory(task.Category, q.Categories) {
			continue
		}
		if len(q.Priorities) > 0 && !hasPriority(task.Priority, q.Priorities) {
			continue
		}
		if !IsWithinDateRange(task.DueDate, q.DueFrom, q.DueTo) {
			continue
		}
		filtered = append(filtered, task)
	}
	return filtered
}

func HasCategory(category string, filterCategories []string) bool {
	for _, c := range filterCategories {
		if strings.EqualFold(category, c) {
			return true
		}
	}
	return false
}

func hasPriority(p model.Priority, filter []model.Priority) bool {
	for _, f := range filter {
		if p == f {
			return true
		}
	}
	return false
}

// IsWithinDateRange compares calendar days in local time. A task without a
// due date only passes when no range is given.
func IsWithinDateRange(due *time.Time, fromDate, toDate string) bool {
	if fromDate == "" && toDate == "" {
		return true
	}
	if due == nil {
		return false
	}

	day := due.Local().Format(model.DateLayout)
	if fromDate != "" {
		if from, err := time.Parse(model.DateLayout, fromDate); err == nil && day < from.Format(model.DateLayout) {
			return false
		}
	}
	if toDate != "" {
		if to, err := time.Parse(model.DateLayout, toDate); err == nil && day > to.Format(model.DateLayout) {
			return false
		}
	}
	return true
}

type CategoryCount struct {
	Name  string
	Open  int
	Total int
}

// CountCategories groups tasks by category, case-insensitively, keeping the
// first spelling seen. Uncategorized tasks are skipped.
func CountCategories(tasks []model.Task) []CategoryCount {
	index := map[string]int{}
	var counts []CategoryCount
	for _, task := range tasks {
		if task.Category == "" {
			continue
		}
		key := strings.ToLower(task.Category)
		i, ok := index[key]
		if !ok {
			i = len(counts)
			index[key] = i
			counts = append(counts, CategoryCount{Name: task.Category})
		}
		counts[i].Total++
		if !task.Completed {
			counts[i].Open++
		}
	}
	sort.SliceStable(counts, func(a, b int) bool {
		return strings.ToLower(counts[a].Name) < strings.ToLower(counts[b].Name)
	})
	return counts
}
