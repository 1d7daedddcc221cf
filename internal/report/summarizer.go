// Package report aggregates completed tasks into per-name totals for the
// clock-out reply and the web report page.
package report

import (
	"fmt"
	"sort"
	"time"

	"github.com/balkashynov/times/internal/models"
	"github.com/balkashynov/times/internal/timelog"
)

// Window labels for the report page, widest last.
const (
	WindowWeek     = "week"
	WindowMonth    = "month"
	WindowHalfYear = "halfyear"
)

// Summarize accumulates total duration per task name over the tasks that
// started at or after windowStart. Tasks that merely overlap the window but
// started earlier are excluded entirely.
//
// Rate is floor(taskTotal / windowTotal * 100); an empty window yields rate
// 0 for everything rather than dividing by zero. Rows are sorted by task
// name so the output is deterministic. Names are grouped by exact string
// equality; trimming happened in the parser.
func Summarize(completed []models.CompletedTask, windowStart time.Time) []models.SummarizedTask {
	perName := make(map[string]time.Duration)
	var total time.Duration
	for _, task := range completed {
		if task.StartTime.Before(windowStart) {
			continue
		}
		d := task.Duration()
		perName[task.TaskName] += d
		total += d
	}

	result := make([]models.SummarizedTask, 0, len(perName))
	for name, d := range perName {
		rate := 0
		if total > 0 {
			rate = int(d * 100 / total)
		}
		result = append(result, models.SummarizedTask{
			TaskName: name,
			Total:    d,
			Rate:     rate,
		})
	}
	sort.Slice(result, func(i, j int) bool {
		return result[i].TaskName < result[j].TaskName
	})
	return result
}

// WindowStarts returns the report windows resolved against now: last week,
// last month and last half-year, each reset to midnight in the display
// zone. The half-year start doubles as the fetch boundary for the single
// superset query the page summarizes three times.
func WindowStarts(now time.Time) (week, month, halfYear time.Time) {
	week = timelog.StartOfDay(now.AddDate(0, 0, -7))
	month = timelog.StartOfDay(now.AddDate(0, -1, 0))
	halfYear = timelog.StartOfDay(now.AddDate(0, -6, 0))
	return week, month, halfYear
}

// FormatDuration renders a duration for report rows, largest unit first.
func FormatDuration(d time.Duration) string {
	if d.Hours() >= 1 {
		return fmt.Sprintf("%.1fh", d.Hours())
	} else if d.Minutes() >= 1 {
		return fmt.Sprintf("%.0fm", d.Minutes())
	}
	return fmt.Sprintf("%.0fs", d.Seconds())
}
