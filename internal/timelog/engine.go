// Package timelog implements the task-session state machine: exactly one
// open task per owner, closed when the next task starts or the day is
// clocked out. Pure functions, no I/O; persistence lives in internal/db.
package timelog

import (
	"errors"
	"time"

	"github.com/balkashynov/times/internal/models"
)

// ErrInvalidBackDate is returned when a back-dated start would precede the
// currently open task's own start time.
var ErrInvalidBackDate = errors.New("back date precedes current task start")

// DisplayZone is the wall-clock zone used for day boundaries and
// back-reference resolution.
// TODO: pick this up from the Slack user's profile instead of hardcoding.
var DisplayZone = time.FixedZone("UTC+9", 9*60*60)

// StartTask begins a new task, closing the currently open one if any.
//
// The effective start instant is the command's back date when present,
// otherwise now. When a task is already open it is closed at the effective
// start, so no time is lost and none is counted twice. A back date earlier
// than the open task's own start is rejected with ErrInvalidBackDate and
// nothing changes.
func StartTask(owner models.Owner, current *models.OpenTask, cmd models.Command, now time.Time) (*models.CompletedTask, models.OpenTask, error) {
	start := now
	if cmd.BackDate != nil {
		start = *cmd.BackDate
	}

	var closed *models.CompletedTask
	if current != nil {
		if start.Before(current.StartTime) {
			return nil, models.OpenTask{}, ErrInvalidBackDate
		}
		closed = &models.CompletedTask{
			TeamID:    current.TeamID,
			UserID:    current.UserID,
			TaskName:  current.TaskName,
			StartTime: current.StartTime,
			EndTime:   start,
		}
	}

	next := models.OpenTask{
		TeamID:    owner.TeamID,
		UserID:    owner.UserID,
		TaskName:  cmd.TaskName,
		StartTime: start,
	}
	return closed, next, nil
}

// ClockOut closes the open task at now. Clock-out is never back-dated.
// With no open task it returns nil: an idle clock-out is an empty report,
// not an error.
func ClockOut(current *models.OpenTask, now time.Time) *models.CompletedTask {
	if current == nil {
		return nil
	}
	return &models.CompletedTask{
		TeamID:    current.TeamID,
		UserID:    current.UserID,
		TaskName:  current.TaskName,
		StartTime: current.StartTime,
		EndTime:   now,
	}
}

// CurrentTaskName is the read-only projection behind the empty-text status
// command.
func CurrentTaskName(current *models.OpenTask) (string, bool) {
	if current == nil {
		return "", false
	}
	return current.TaskName, true
}

// StartOfDay returns midnight of t's day in the display zone. This is the
// boundary the clock-out tally and "clear" use.
func StartOfDay(t time.Time) time.Time {
	t = t.In(DisplayZone)
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, DisplayZone)
}
