// Package report derives per-day task hours from the session log.
package report

import (
	"cmp"
	"slices"

	"github.com/fakeyudi/studylapse/internal/studytime"
	"github.com/fakeyudi/studylapse/internal/tasklog"
)

// DailyTaskHours sums closed session durations per task for date, in hours.
// Open sessions are skipped. The bool is false when the date has no closed
// sessions at all, which callers must treat as "no data" rather than zero.
func DailyTaskHours(log tasklog.Log, date string) (map[string]float64, bool) {
	sessions, ok := log[date]
	if !ok {
		return nil, false
	}
	hours := make(map[string]float64)
	for _, s := range sessions {
		if s.EndTime == nil {
			continue
		}
		hours[s.TaskName] += s.Duration().Hours()
	}
	if len(hours) == 0 {
		return nil, false
	}
	return hours, true
}

// Row is one task's line in a daily report.
type Row struct {
	Task     string  `json:"task"`
	Hours    float64 `json:"hours"`
	Sessions int     `json:"sessions"`
}

// DailyReport is the renderable summary of one day.
type DailyReport struct {
	Date         string  `json:"date"`
	StudySeconds int64   `json:"study_seconds"`
	TotalHours   float64 `json:"total_hours"`
	Rows         []Row   `json:"tasks"`
	OpenTask     string  `json:"open_task,omitempty"`
}

// Build assembles the report for date. It returns false when the day has no
// closed sessions.
func Build(date string, log tasklog.Log, daily studytime.Daily) (*DailyReport, bool) {
	hours, ok := DailyTaskHours(log, date)
	if !ok {
		return nil, false
	}

	counts := make(map[string]int)
	var open string
	for _, s := range log[date] {
		if s.EndTime == nil {
			open = s.TaskName
			continue
		}
		counts[s.TaskName]++
	}

	r := &DailyReport{
		Date:         date,
		StudySeconds: daily[date],
		OpenTask:     open,
	}
	for task, h := range hours {
		r.Rows = append(r.Rows, Row{Task: task, Hours: h, Sessions: counts[task]})
		r.TotalHours += h
	}
	slices.SortFunc(r.Rows, func(a, b Row) int {
		if c := cmp.Compare(b.Hours, a.Hours); c != 0 {
			return c
		}
		return cmp.Compare(a.Task, b.Task)
	})
	return r, true
}
