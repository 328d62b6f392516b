package tasklog

import (
	"encoding/json"
	"errors"
	"fmt"
	"time"
)

// TimeLayout is the on-disk timestamp format (local time, second precision).
const TimeLayout = "2006-01-02 15:04:05"

// DateLayout is the key format for calendar days (local time).
const DateLayout = "2006-01-02"

// Timestamp is a local wall-clock time encoded as "YYYY-MM-DD HH:MM:SS".
type Timestamp struct {
	time.Time
}

func (ts Timestamp) MarshalJSON() ([]byte, error) {
	return []byte(`"` + ts.In(time.Local).Format(TimeLayout) + `"`), nil
}

func (ts *Timestamp) UnmarshalJSON(data []byte) error {
	if string(data) == "null" {
		return errors.New("timestamp must not be null")
	}
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return fmt.Errorf("invalid timestamp %s: %w", data, err)
	}
	t, err := time.ParseInLocation(TimeLayout, s, time.Local)
	if err != nil {
		return fmt.Errorf("invalid timestamp %q: %w", s, err)
	}
	ts.Time = t
	return nil
}

// Session is one contiguous interval during which a task was current.
// EndTime is nil while the session is open.
type Session struct {
	ID        string     `json:"id,omitempty"`
	TaskName  string     `json:"task_name"`
	StartTime Timestamp  `json:"start_time"`
	EndTime   *Timestamp `json:"end_time"`
}

// Open reports whether the session has not been closed yet.
func (s Session) Open() bool { return s.EndTime == nil }

// Duration returns the recorded length of a closed session, or 0 if open.
func (s Session) Duration() time.Duration {
	if s.EndTime == nil {
		return 0
	}
	return s.EndTime.Sub(s.StartTime.Time)
}

// Totals maps a task name to cumulative seconds across all closed sessions.
type Totals map[string]float64

// Log maps a local calendar day to that day's sessions in start order.
type Log map[string][]Session

// Handle identifies an open session. It is returned by Tracker.Start and
// passed back to Tracker.End.
type Handle struct {
	ID       string    `json:"id"`
	Day      string    `json:"day"`
	TaskName string    `json:"task_name"`
	Start    time.Time `json:"start"`
}

func (l Log) clone() Log {
	out := make(Log, len(l))
	for day, sessions := range l {
		out[day] = cloneSessions(sessions)
	}
	return out
}

func cloneSessions(in []Session) []Session {
	out := make([]Session, len(in))
	for i, s := range in {
		out[i] = s
		if s.EndTime != nil {
			end := *s.EndTime
			out[i].EndTime = &end
		}
	}
	return out
}
