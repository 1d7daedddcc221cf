package parser

import (
	"testing"
	"time"

	"github.com/balkashynov/times/internal/timelog"
)

func jst(year int, month time.Month, day, hour, min int) time.Time {
	return time.Date(year, month, day, hour, min, 0, 0, timelog.DisplayZone)
}

func TestParsePlainTaskName(t *testing.T) {
	now := jst(2026, time.August, 31, 10, 0)

	tests := []struct {
		name string
		text string
		want string
	}{
		{"simple", "write docs", "write docs"},
		{"trimmed", "  write docs  ", "write docs"},
		{"multi word", "fix the deploy pipeline", "fix the deploy pipeline"},
		{"malformed clock suffix", "write docs back 9:99", "write docs back 9:99"},
		{"malformed minutes suffix", "write docs back 30m", "write docs back 30m"},
		{"bare back word", "back", "back"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cmd := Parse(tt.text, now)
			if cmd.TaskName != tt.want {
				t.Errorf("task name = %q, want %q", cmd.TaskName, tt.want)
			}
			if cmd.BackDate != nil {
				t.Errorf("expected no back date, got %v", cmd.BackDate)
			}
		})
	}
}

func TestParseBackClock(t *testing.T) {
	tests := []struct {
		name string
		now  time.Time
		text string
		want time.Time
	}{
		{
			name: "not yet occurred today resolves to yesterday",
			now:  jst(2026, time.August, 31, 8, 0),
			text: "write docs back 9:00",
			want: jst(2026, time.August, 30, 9, 0),
		},
		{
			name: "already occurred today resolves to today",
			now:  jst(2026, time.August, 31, 10, 0),
			text: "write docs back 9:00",
			want: jst(2026, time.August, 31, 9, 0),
		},
		{
			name: "late-night notation rolls past midnight",
			now:  jst(2026, time.August, 31, 10, 0),
			text: "incident review back 25:30",
			want: jst(2026, time.August, 31, 1, 30),
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cmd := Parse(tt.text, tt.now)
			if cmd.BackDate == nil {
				t.Fatal("expected a back date")
			}
			if !cmd.BackDate.Equal(tt.want) {
				t.Errorf("back date = %v, want %v", cmd.BackDate, tt.want)
			}
		})
	}
}

func TestParseBackMinutes(t *testing.T) {
	now := jst(2026, time.August, 31, 10, 30)

	cmd := Parse("write docs back 120", now)
	if cmd.TaskName != "write docs" {
		t.Errorf("task name = %q, want %q", cmd.TaskName, "write docs")
	}
	if cmd.BackDate == nil {
		t.Fatal("expected a back date")
	}
	want := jst(2026, time.August, 31, 8, 30)
	if !cmd.BackDate.Equal(want) {
		t.Errorf("back date = %v, want %v", cmd.BackDate, want)
	}
}

func TestParseClockGrammarWinsOverMinutes(t *testing.T) {
	now := jst(2026, time.August, 31, 10, 0)

	// "9:00" matches the clock grammar, never the minutes one.
	cmd := Parse("write docs back 9:00", now)
	if cmd.BackDate == nil {
		t.Fatal("expected a back date")
	}
	if got := cmd.BackDate.In(timelog.DisplayZone).Hour(); got != 9 {
		t.Errorf("hour = %d, want 9", got)
	}
}
