package timelog

import (
	"errors"
	"testing"
	"time"

	"github.com/balkashynov/times/internal/models"
)

var owner = models.Owner{TeamID: "T1", UserID: "U1"}

func at(hour, min int) time.Time {
	return time.Date(2026, time.August, 31, hour, min, 0, 0, DisplayZone)
}

func backDated(t time.Time) models.Command {
	return models.Command{TaskName: "next", BackDate: &t}
}

func TestStartTaskWithNoCurrent(t *testing.T) {
	now := at(10, 0)

	closed, next, err := StartTask(owner, nil, models.Command{TaskName: "write docs"}, now)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if closed != nil {
		t.Errorf("expected nothing closed, got %+v", closed)
	}
	if next.TaskName != "write docs" || !next.StartTime.Equal(now) {
		t.Errorf("next = %+v, want write docs at %v", next, now)
	}
	if next.TeamID != owner.TeamID || next.UserID != owner.UserID {
		t.Errorf("next owner = %s/%s, want %s/%s", next.TeamID, next.UserID, owner.TeamID, owner.UserID)
	}
}

func TestStartTaskClosesCurrentAtNewStart(t *testing.T) {
	current := &models.OpenTask{
		TeamID: "T1", UserID: "U1",
		TaskName:  "write docs",
		StartTime: at(10, 0),
	}
	now := at(11, 30)

	closed, next, err := StartTask(owner, current, models.Command{TaskName: "review"}, now)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if closed == nil {
		t.Fatal("expected the current task to close")
	}
	if closed.TaskName != "write docs" {
		t.Errorf("closed task = %q, want %q", closed.TaskName, "write docs")
	}
	if !closed.EndTime.Equal(next.StartTime) {
		t.Errorf("closed end %v != next start %v", closed.EndTime, next.StartTime)
	}
	if closed.EndTime.Before(closed.StartTime) {
		t.Errorf("closed task runs backwards: %v..%v", closed.StartTime, closed.EndTime)
	}
}

func TestStartTaskBackDatedClosesAtBackDate(t *testing.T) {
	current := &models.OpenTask{
		TeamID: "T1", UserID: "U1",
		TaskName:  "write docs",
		StartTime: at(10, 0),
	}
	back := at(10, 45)
	now := at(11, 0)

	closed, next, err := StartTask(owner, current, backDated(back), now)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !closed.EndTime.Equal(back) {
		t.Errorf("closed end = %v, want %v", closed.EndTime, back)
	}
	if !next.StartTime.Equal(back) {
		t.Errorf("next start = %v, want %v", next.StartTime, back)
	}
}

func TestStartTaskRejectsBackDateBeforeCurrentStart(t *testing.T) {
	current := &models.OpenTask{
		TeamID: "T1", UserID: "U1",
		TaskName:  "write docs",
		StartTime: at(10, 0),
	}
	// now 10:30, back 120 minutes -> effective start 08:30, before 10:00.
	back := at(8, 30)

	closed, _, err := StartTask(owner, current, backDated(back), at(10, 30))
	if !errors.Is(err, ErrInvalidBackDate) {
		t.Fatalf("err = %v, want ErrInvalidBackDate", err)
	}
	if closed != nil {
		t.Errorf("rejected start must close nothing, got %+v", closed)
	}
}

func TestStartTaskBackDateEqualToCurrentStartIsAllowed(t *testing.T) {
	start := at(10, 0)
	current := &models.OpenTask{
		TeamID: "T1", UserID: "U1",
		TaskName:  "write docs",
		StartTime: start,
	}

	closed, _, err := StartTask(owner, current, backDated(start), at(10, 30))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if closed.Duration() != 0 {
		t.Errorf("zero-length close expected, got %v", closed.Duration())
	}
}

func TestClockOut(t *testing.T) {
	t.Run("idle is a no-op", func(t *testing.T) {
		if closed := ClockOut(nil, at(18, 0)); closed != nil {
			t.Errorf("expected nil, got %+v", closed)
		}
	})

	t.Run("closes at now", func(t *testing.T) {
		current := &models.OpenTask{
			TeamID: "T1", UserID: "U1",
			TaskName:  "write docs",
			StartTime: at(10, 0),
		}
		closed := ClockOut(current, at(18, 0))
		if closed == nil {
			t.Fatal("expected a completed task")
		}
		if !closed.EndTime.Equal(at(18, 0)) {
			t.Errorf("end = %v, want %v", closed.EndTime, at(18, 0))
		}
		if closed.Duration() != 8*time.Hour {
			t.Errorf("duration = %v, want 8h", closed.Duration())
		}
	})
}

func TestCurrentTaskName(t *testing.T) {
	if name, ok := CurrentTaskName(nil); ok || name != "" {
		t.Errorf("idle projection = %q/%v, want empty", name, ok)
	}
	current := &models.OpenTask{TaskName: "write docs"}
	if name, ok := CurrentTaskName(current); !ok || name != "write docs" {
		t.Errorf("projection = %q/%v, want write docs", name, ok)
	}
}

func TestStartOfDay(t *testing.T) {
	// 2026-08-31 01:30 UTC is 10:30 the same day in UTC+9.
	utc := time.Date(2026, time.August, 31, 1, 30, 0, 0, time.UTC)
	got := StartOfDay(utc)
	want := time.Date(2026, time.August, 31, 0, 0, 0, 0, DisplayZone)
	if !got.Equal(want) {
		t.Errorf("start of day = %v, want %v", got, want)
	}

	// 2026-08-31 23:30 UTC already belongs to 09-01 in UTC+9.
	utc = time.Date(2026, time.August, 31, 23, 30, 0, 0, time.UTC)
	got = StartOfDay(utc)
	want = time.Date(2026, time.September, 1, 0, 0, 0, 0, DisplayZone)
	if !got.Equal(want) {
		t.Errorf("start of day = %v, want %v", got, want)
	}
}
