package models

import (
	"time"
)

// Owner identifies the (team, user) pair a session belongs to.
// The core only ever sees this value type, never the full Slack payload.
type Owner struct {
	TeamID string
	UserID string
}

// OpenTask represents the task a user is working on right now.
// At most one open task exists per owner at any moment.
type OpenTask struct {
	ID        uint      `gorm:"primarykey" json:"id"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	TeamID    string    `gorm:"not null;index:idx_open_owner" json:"team_id"`
	UserID    string    `gorm:"not null;index:idx_open_owner" json:"user_id"`
	TaskName  string    `gorm:"not null" json:"task_name"`
	StartTime time.Time `gorm:"not null" json:"start_time"`
}

// Owner returns the composite key of the task.
func (t OpenTask) Owner() Owner {
	return Owner{TeamID: t.TeamID, UserID: t.UserID}
}

// CompletedTask is a closed task with both start and end recorded.
// Immutable once written; kept as history for the report page.
type CompletedTask struct {
	ID        uint      `gorm:"primarykey" json:"id"`
	CreatedAt time.Time `json:"created_at"`

	TeamID    string    `gorm:"not null;index:idx_done_owner" json:"team_id"`
	UserID    string    `gorm:"not null;index:idx_done_owner" json:"user_id"`
	TaskName  string    `gorm:"not null" json:"task_name"`
	StartTime time.Time `gorm:"not null;index" json:"start_time"`
	EndTime   time.Time `gorm:"not null" json:"end_time"`
}

// Duration returns the elapsed time of the completed task.
func (t CompletedTask) Duration() time.Duration {
	return t.EndTime.Sub(t.StartTime)
}
