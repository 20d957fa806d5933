package model

import (
	"encoding/json"
	"fmt"
	"strings"
	"time"
)

type Priority string

const (
	PriorityHigh   Priority = "high"
	PriorityMedium Priority = "medium"
	PriorityLow    Priority = "low"
)

func ParsePriority(s string) (Priority, error) {
	switch p := Priority(strings.ToLower(strings.TrimSpace(s))); p {
	case PriorityHigh, PriorityMedium, PriorityLow:
		return p, nil
	default:
		return "", fmt.Errorf("unknown priority %q (want high, medium or low)", s)
	}
}

type Task struct {
	ID          string     `json:"id"` // ULID, time-derived
	Title       string     `json:"title"`
	Description string     `json:"description,omitempty"`
	Completed   bool       `json:"completed"`
	Priority    Priority   `json:"priority,omitempty"`
	Category    string     `json:"category,omitempty"`
	DueDate     *time.Time `json:"dueDate,omitempty"`
	CreatedAt   time.Time  `json:"createdAt"`
	UpdatedAt   time.Time  `json:"updatedAt"`
}

// UnmarshalJSON accepts a due date written as a bare date (local midnight) as
// well as an RFC 3339 instant. Timestamps that cannot be read are left zero
// instead of failing the record.
func (t *Task) UnmarshalJSON(data []byte) error {
	type plain Task
	var rec struct {
		plain
		DueDate   json.RawMessage `json:"dueDate"`
		CreatedAt json.RawMessage `json:"createdAt"`
		UpdatedAt json.RawMessage `json:"updatedAt"`
	}
	if err := json.Unmarshal(data, &rec); err != nil {
		return err
	}

	*t = Task(rec.plain)
	t.DueDate = nil
	if due, ok := parseInstant(rec.DueDate); ok {
		t.DueDate = &due
	}
	t.CreatedAt, _ = parseInstant(rec.CreatedAt)
	t.UpdatedAt, _ = parseInstant(rec.UpdatedAt)
	return nil
}

func parseInstant(raw json.RawMessage) (time.Time, bool) {
	var s string
	if len(raw) == 0 || json.Unmarshal(raw, &s) != nil || strings.TrimSpace(s) == "" {
		return time.Time{}, false
	}
	if ts, err := time.Parse(time.RFC3339Nano, s); err == nil {
		return ts, true
	}
	ts, err := ParseDueDate(s)
	return ts, err == nil
}

// IsOverdue reports whether the task is open and its due instant is strictly before now.
func (t Task) IsOverdue(now time.Time) bool {
	return !t.Completed && t.DueDate != nil && t.DueDate.Before(now)
}

// Matches is the case-insensitive search over title and description.
// An empty query matches everything.
func (t Task) Matches(query string) bool {
	if query == "" {
		return true
	}
	q := strings.ToLower(query)
	return strings.Contains(strings.ToLower(t.Title), q) ||
		strings.Contains(strings.ToLower(t.Description), q)
}

// Touch refreshes UpdatedAt. UpdatedAt must strictly advance even when the
// clock reports the same instant twice.
func (t *Task) Touch(now time.Time) {
	if !now.After(t.UpdatedAt) {
		now = t.UpdatedAt.Add(time.Nanosecond)
	}
	t.UpdatedAt = now
}

// Patch is a partial update. nil means "no change".
// An empty string for DueDate, Category or Priority clears the field.
type Patch struct {
	Title       *string `json:"title,omitempty" yaml:"title,omitempty"`
	Description *string `json:"description,omitempty" yaml:"description,omitempty"`
	Completed   *bool   `json:"completed,omitempty" yaml:"completed,omitempty"`
	Priority    *string `json:"priority,omitempty" yaml:"priority,omitempty"`
	Category    *string `json:"category,omitempty" yaml:"category,omitempty"`
	DueDate     *string `json:"dueDate,omitempty" yaml:"due_date,omitempty"`
}

func (p Patch) TouchesDueDate() bool {
	return p.DueDate != nil
}

func (p Patch) IsEmpty() bool {
	return p.Title == nil && p.Description == nil && p.Completed == nil &&
		p.Priority == nil && p.Category == nil && p.DueDate == nil
}

// Apply merges the patch into t. It validates everything before writing so a
// rejected patch leaves t untouched.
func (p Patch) Apply(t *Task) error {
	var title string
	if p.Title != nil {
		title = strings.TrimSpace(*p.Title)
		if title == "" {
			return ErrEmptyTitle
		}
	}
	var priority Priority
	if p.Priority != nil && *p.Priority != "" {
		parsed, err := ParsePriority(*p.Priority)
		if err != nil {
			return err
		}
		priority = parsed
	}
	var due *time.Time
	if p.DueDate != nil && *p.DueDate != "" {
		parsed, err := ParseDueDate(*p.DueDate)
		if err != nil {
			return err
		}
		due = &parsed
	}

	if p.Title != nil {
		t.Title = title
	}
	if p.Description != nil {
		t.Description = *p.Description
	}
	if p.Completed != nil {
		t.Completed = *p.Completed
	}
	if p.Priority != nil {
		t.Priority = priority
	}
	if p.Category != nil {
		t.Category = strings.TrimSpace(*p.Category)
	}
	if p.DueDate != nil {
		t.DueDate = due
	}
	return nil
}

const (
	DateLayout     = "2006-01-02"
	DateTimeLayout = "2006-01-02 15:04"
)

// ParseDueDate accepts a date ("2006-01-02") or a date with a time of day
// ("2006-01-02 15:04"), both in local time.
func ParseDueDate(s string) (time.Time, error) {
	s = strings.TrimSpace(s)
	for _, layout := range []string{DateLayout, DateTimeLayout, "2006-01-02T15:04"} {
		if t, err := time.ParseInLocation(layout, s, time.Local); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("invalid due date %q (want %s or %q)", s, DateLayout, DateTimeLayout)
}

// FormatDueDate is the inverse of ParseDueDate; midnight is shown as a bare date.
func FormatDueDate(t *time.Time) string {
	if t == nil {
		return ""
	}
	local := t.Local()
	if local.Hour() == 0 && local.Minute() == 0 {
		return local.Format(DateLayout)
	}
	return local.Format(DateTimeLayout)
}

// SameDay is calendar-day equality in a's location.
func SameDay(a, b time.Time) bool {
	b = b.In(a.Location())
	ay, am, ad := a.Date()
	by, bm, bd := b.Date()
	return ay == by && am == bm && ad == bd
}

func DayKey(t time.Time) string {
	return t.Format(DateLayout)
}
