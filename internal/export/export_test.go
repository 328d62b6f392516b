package export

import (
	"database/sql"
	"encoding/csv"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/fakeyudi/studylapse/internal/studytime"
	"github.com/fakeyudi/studylapse/internal/tasklog"
)

func sampleData() (tasklog.Log, studytime.Daily) {
	at := func(day, h, m int) tasklog.Timestamp {
		return tasklog.Timestamp{Time: time.Date(2024, 3, day, h, m, 0, 0, time.Local)}
	}
	end1 := at(15, 10, 0)
	end2 := at(14, 9, 30)

	log := tasklog.Log{
		"2024-03-15": {
			{ID: "s2", TaskName: "Math", StartTime: at(15, 9, 0), EndTime: &end1},
			{ID: "s3", TaskName: "Reading", StartTime: at(15, 11, 0)}, // still running
		},
		"2024-03-14": {
			{TaskName: "Physics", StartTime: at(14, 9, 0), EndTime: &end2},
		},
	}
	daily := studytime.Daily{"2024-03-14": 1800, "2024-03-15": 3600}
	return log, daily
}

func TestFlattenOrdersByDayThenStart(t *testing.T) {
	log, _ := sampleData()
	got := Flatten(log)
	if len(got) != 3 {
		t.Fatalf("expected 3 records, got %d", len(got))
	}
	wantTasks := []string{"Physics", "Math", "Reading"}
	for i, r := range got {
		if r.Task != wantTasks[i] {
			t.Errorf("record %d: got %q, want %q", i, r.Task, wantTasks[i])
		}
	}
	if got[1].DurationSec != 3600 || got[1].End != "2024-03-15 10:00:00" {
		t.Errorf("closed record: %+v", got[1])
	}
	if got[2].End != "" || got[2].DurationSec != 0 {
		t.Errorf("open record should have no end: %+v", got[2])
	}
}

func TestToCSV(t *testing.T) {
	log, _ := sampleData()
	path := filepath.Join(t.TempDir(), "test.csv")

	if err := ToCSV(Flatten(log), path); err != nil {
		t.Fatalf("ToCSV: %v", err)
	}

	f, err := os.Open(path)
	if err != nil {
		t.Fatal(err)
	}
	defer f.Close()

	records, err := csv.NewReader(f).ReadAll()
	if err != nil {
		t.Fatal(err)
	}
	if len(records) != 4 {
		t.Fatalf("expected header + 3 rows, got %d", len(records))
	}
	if records[0][2] != "Task" {
		t.Errorf("unexpected header: %v", records[0])
	}
	if records[2][2] != "Math" || records[2][6] != "01:00:00" {
		t.Errorf("Math row: %v", records[2])
	}
	if records[3][4] != "" || records[3][6] != "" {
		t.Errorf("open row should have empty end: %v", records[3])
	}
}

func TestToJSON(t *testing.T) {
	log, daily := sampleData()
	path := filepath.Join(t.TempDir(), "test.json")

	if err := ToJSON(Flatten(log), daily, path); err != nil {
		t.Fatalf("ToJSON: %v", err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	var got jsonExport
	if err := json.Unmarshal(data, &got); err != nil {
		t.Fatal(err)
	}
	if got.Count != 3 || len(got.Sessions) != 3 {
		t.Errorf("count mismatch: %d / %d", got.Count, len(got.Sessions))
	}
	if got.Sessions[2].EndTime != nil {
		t.Errorf("open session should have null end_time: %+v", got.Sessions[2])
	}
	if got.DailyStudy["2024-03-15"] != 3600 {
		t.Errorf("daily study missing: %v", got.DailyStudy)
	}
}

func TestToJSONEmpty(t *testing.T) {
	path := filepath.Join(t.TempDir(), "empty.json")
	if err := ToJSON(nil, nil, path); err != nil {
		t.Fatal(err)
	}
	data, _ := os.ReadFile(path)
	var got map[string]any
	if err := json.Unmarshal(data, &got); err != nil {
		t.Fatal(err)
	}
	if sessions, ok := got["sessions"].([]any); !ok || len(sessions) != 0 {
		t.Errorf("expected empty sessions array, got %v", got["sessions"])
	}
}

func TestToSQLite(t *testing.T) {
	log, daily := sampleData()
	path := filepath.Join(t.TempDir(), "export.db")

	if err := ToSQLite(Flatten(log), daily, path); err != nil {
		t.Fatalf("ToSQLite: %v", err)
	}
	// Exporting twice replaces the file instead of failing on CREATE TABLE.
	if err := ToSQLite(Flatten(log), daily, path); err != nil {
		t.Fatalf("ToSQLite (again): %v", err)
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		t.Fatal(err)
	}
	defer db.Close()

	var n int
	if err := db.QueryRow(`SELECT COUNT(*) FROM sessions`).Scan(&n); err != nil {
		t.Fatal(err)
	}
	if n != 3 {
		t.Errorf("sessions: got %d rows, want 3", n)
	}

	var hours float64
	if err := db.QueryRow(`SELECT SUM(duration)/3600.0 FROM sessions WHERE task = 'Math'`).Scan(&hours); err != nil {
		t.Fatal(err)
	}
	if hours != 1 {
		t.Errorf("Math hours: got %v", hours)
	}

	var open int
	if err := db.QueryRow(`SELECT COUNT(*) FROM sessions WHERE end_time IS NULL`).Scan(&open); err != nil {
		t.Fatal(err)
	}
	if open != 1 {
		t.Errorf("open sessions: got %d, want 1", open)
	}

	var secs int64
	if err := db.QueryRow(`SELECT seconds FROM daily_study WHERE date = '2024-03-14'`).Scan(&secs); err != nil {
		t.Fatal(err)
	}
	if secs != 1800 {
		t.Errorf("daily_study: got %d", secs)
	}
}

func TestWriteUnknownFormat(t *testing.T) {
	if err := Write("xml", filepath.Join(t.TempDir(), "x"), nil, nil); err == nil {
		t.Error("expected error for unknown format")
	}
}
