package cmd

import (
	"strings"
	"testing"

	"github.com/fakeyudi/studylapse/internal/report"
)

func TestReportNoCompletedSessions(t *testing.T) {
	setupEnv(t)
	mustRun(t, "start", "Math")

	out := mustRun(t, "report")
	if !strings.Contains(out, "No completed sessions") {
		t.Errorf("expected no-data message, got %q", out)
	}
}

func TestReportJSON(t *testing.T) {
	setupEnv(t)
	mustRun(t, "start", "Math")
	mustRun(t, "start", "Physics")
	mustRun(t, "add", "120")

	out := mustRun(t, "report", "--format", "json")
	rep, err := report.ParseJSON([]byte(out))
	if err != nil {
		t.Fatalf("ParseJSON: %v\n%s", err, out)
	}
	if len(rep.Rows) != 1 || rep.Rows[0].Task != "Math" || rep.Rows[0].Sessions != 1 {
		t.Errorf("unexpected rows: %+v", rep.Rows)
	}
	if rep.OpenTask != "Physics" {
		t.Errorf("open task = %q, want Physics", rep.OpenTask)
	}
	if rep.StudySeconds != 120 {
		t.Errorf("study seconds = %d, want 120", rep.StudySeconds)
	}
}

func TestReportMarkdown(t *testing.T) {
	setupEnv(t)
	mustRun(t, "start", "Art")
	mustRun(t, "stop")

	out := mustRun(t, "report", "--format", "markdown")
	if !strings.Contains(out, "# Study report: ") || !strings.Contains(out, "| Art |") {
		t.Errorf("unexpected markdown:\n%s", out)
	}
}

func TestReportUnknownFormat(t *testing.T) {
	setupEnv(t)
	_, err := executeCommand(rootCmd, "report", "--format", "xml")
	if err == nil || !strings.Contains(err.Error(), "unknown report format") {
		t.Errorf("expected unknown format error, got %v", err)
	}
}

func TestReportOtherDayIsEmpty(t *testing.T) {
	setupEnv(t)
	mustRun(t, "start", "Math")
	mustRun(t, "stop")

	out := mustRun(t, "report", "--date", "1999-01-01")
	if !strings.Contains(out, "No completed sessions on 1999-01-01") {
		t.Errorf("unexpected output: %q", out)
	}
}
