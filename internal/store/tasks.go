package store

import (
	"encoding/json"
	"fmt"
	"log"

	"github.com/nakachan-ing/dolist/internal/model"
)

// taskProbe carries the fields a record must have with the right JSON types.
type taskProbe struct {
	ID        *string `json:"id"`
	Title     *string `json:"title"`
	Completed *bool   `json:"completed"`
}

func decodeTasks(data []byte) ([]model.Task, error) {
	var raw []json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidFormat, err)
	}
	if raw == nil {
		return nil, fmt.Errorf("%w: not a JSON array", ErrInvalidFormat)
	}

	tasks := make([]model.Task, 0, len(raw))
	seen := make(map[string]bool, len(raw))
	for i, rec := range raw {
		var probe taskProbe
		if err := json.Unmarshal(rec, &probe); err != nil ||
			probe.ID == nil || probe.Title == nil || probe.Completed == nil {
			log.Printf("⚠️ Skipping malformed record #%d", i)
			continue
		}
		var task model.Task
		if err := json.Unmarshal(rec, &task); err != nil {
			log.Printf("⚠️ Skipping malformed record #%d: %v", i, err)
			continue
		}
		if seen[task.ID] {
			log.Printf("⚠️ Skipping record #%d: duplicate id %s", i, task.ID)
			continue
		}
		seen[task.ID] = true
		tasks = append(tasks, task)
	}
	return tasks, nil
}
