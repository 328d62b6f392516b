// Package export writes the session log and study-time history to files for
// use in other tools.
package export

import (
	"cmp"
	"fmt"
	"slices"
	"strings"

	"github.com/fakeyudi/studylapse/internal/studytime"
	"github.com/fakeyudi/studylapse/internal/tasklog"
)

// Record is one flattened session.
type Record struct {
	Date        string
	ID          string
	Task        string
	Start       string
	End         string // empty while open
	DurationSec float64
}

// Flatten orders the log by day then start time.
func Flatten(log tasklog.Log) []Record {
	var out []Record
	for date, sessions := range log {
		for _, s := range sessions {
			r := Record{
				Date:  date,
				ID:    s.ID,
				Task:  s.TaskName,
				Start: s.StartTime.Format(tasklog.TimeLayout),
			}
			if s.EndTime != nil {
				r.End = s.EndTime.Format(tasklog.TimeLayout)
				r.DurationSec = s.Duration().Seconds()
			}
			out = append(out, r)
		}
	}
	slices.SortStableFunc(out, func(a, b Record) int {
		if c := cmp.Compare(a.Date, b.Date); c != 0 {
			return c
		}
		return cmp.Compare(a.Start, b.Start)
	})
	return out
}

// Write exports to path in the given format: "csv", "json" or "sqlite".
func Write(format, path string, log tasklog.Log, daily studytime.Daily) error {
	switch strings.ToLower(format) {
	case "csv":
		return ToCSV(Flatten(log), path)
	case "json":
		return ToJSON(Flatten(log), daily, path)
	case "sqlite", "db":
		return ToSQLite(Flatten(log), daily, path)
	}
	return fmt.Errorf("unknown export format %q (want csv, json or sqlite)", format)
}

func formatDuration(secs float64) string {
	s := int64(secs)
	return fmt.Sprintf("%02d:%02d:%02d", s/3600, (s%3600)/60, s%60)
}
