package export

import (
	"encoding/json"
	"fmt"
	"os"
	"time"

	"github.com/fakeyudi/studylapse/internal/studytime"
)

type jsonExport struct {
	ExportedAt string          `json:"exported_at"`
	Count      int             `json:"count"`
	Sessions   []jsonSession   `json:"sessions"`
	DailyStudy studytime.Daily `json:"daily_study"`
}

type jsonSession struct {
	Date        string  `json:"date"`
	ID          string  `json:"id,omitempty"`
	Task        string  `json:"task"`
	StartTime   string  `json:"start_time"`
	EndTime     *string `json:"end_time"`
	DurationSec float64 `json:"duration_seconds"`
	Duration    string  `json:"duration,omitempty"`
}

func ToJSON(records []Record, daily studytime.Daily, path string) error {
	export := jsonExport{
		ExportedAt: time.Now().Format(time.RFC3339),
		Count:      len(records),
		Sessions:   []jsonSession{},
		DailyStudy: daily,
	}
	if export.DailyStudy == nil {
		export.DailyStudy = studytime.Daily{}
	}

	for _, r := range records {
		s := jsonSession{
			Date:        r.Date,
			ID:          r.ID,
			Task:        r.Task,
			StartTime:   r.Start,
			DurationSec: r.DurationSec,
		}
		if r.End != "" {
			end := r.End
			s.EndTime = &end
			s.Duration = formatDuration(r.DurationSec)
		}
		export.Sessions = append(export.Sessions, s)
	}

	data, err := json.MarshalIndent(export, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal json: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("write json file: %w", err)
	}
	return nil
}
