package model

import "fmt"

type Filter string

const (
	FilterAll       Filter = "all"
	FilterActive    Filter = "active"
	FilterCompleted Filter = "completed"
	FilterOverdue   Filter = "overdue"
)

func ParseFilter(s string) (Filter, error) {
	switch f := Filter(s); f {
	case FilterAll, FilterActive, FilterCompleted, FilterOverdue:
		return f, nil
	default:
		return "", fmt.Errorf("unknown filter %q (want all, active, completed or overdue)", s)
	}
}

type TaskStats struct {
	Total     int `json:"total"`
	Active    int `json:"active"`
	Completed int `json:"completed"`
	Overdue   int `json:"overdue"`
}

type DailyStats struct {
	CreatedToday   int     `json:"todayCreated"`
	CompletedToday int     `json:"todayCompleted"`
	DueToday       int     `json:"todayDue"`
	OverdueToday   int     `json:"todayOverdue"`
	CompletionRate float64 `json:"completionRate"` // percent of all tasks completed
}

type StorageStats struct {
	UsedBytes     int64   `json:"used"`
	CapacityBytes int64   `json:"available"`
	Percentage    float64 `json:"percentage"`
}
