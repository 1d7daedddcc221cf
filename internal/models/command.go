package models

import "time"

// Command is the parsed form of a slash-command argument string.
type Command struct {
	TaskName string
	// BackDate is the user-requested retroactive start time, nil when the
	// command had no recognized "back" suffix.
	BackDate *time.Time
}

// SummarizedTask is one row of a report: total time spent on a task name
// within a window and its share of the window total.
type SummarizedTask struct {
	TaskName string
	Total    time.Duration
	// Rate is the floor-rounded integer percentage of the window total.
	Rate int
}
