package export

import (
	"encoding/csv"
	"fmt"
	"os"
	"strconv"
)

func ToCSV(records []Record, path string) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create csv file: %w", err)
	}
	defer f.Close()

	w := csv.NewWriter(f)

	if err := w.Write([]string{"Date", "ID", "Task", "Start", "End", "Duration (s)", "Duration"}); err != nil {
		return err
	}
	for _, r := range records {
		dur := ""
		if r.End != "" {
			dur = formatDuration(r.DurationSec)
		}
		row := []string{
			r.Date,
			r.ID,
			r.Task,
			r.Start,
			r.End,
			strconv.FormatFloat(r.DurationSec, 'f', -1, 64),
			dur,
		}
		if err := w.Write(row); err != nil {
			return err
		}
	}

	w.Flush()
	return w.Error()
}
