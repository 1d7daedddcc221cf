package db

import (
	"context"
	"errors"
	"fmt"
	"time"

	"gorm.io/gorm"

	"github.com/balkashynov/times/internal/models"
)

// SessionStore persists open and completed tasks keyed by owner. It is the
// sole mutator of persisted session state; internal/timelog decides what to
// mutate.
type SessionStore struct {
	conn *gorm.DB
}

// NewSessionStore wraps a gorm handle opened with Open.
func NewSessionStore(conn *gorm.DB) *SessionStore {
	return &SessionStore{conn: conn}
}

// sqlite keeps timestamps as text, so every instant is stored in UTC or
// range comparisons across zone offsets would go wrong.
func utcOpen(task models.OpenTask) models.OpenTask {
	task.StartTime = task.StartTime.UTC()
	return task
}

func utcCompleted(task models.CompletedTask) models.CompletedTask {
	task.StartTime = task.StartTime.UTC()
	task.EndTime = task.EndTime.UTC()
	return task
}

// FindLatestOpen returns the owner's open task, or nil when there is none.
func (s *SessionStore) FindLatestOpen(ctx context.Context, owner models.Owner) (*models.OpenTask, error) {
	var task models.OpenTask
	err := s.conn.WithContext(ctx).
		Where("team_id = ? AND user_id = ?", owner.TeamID, owner.UserID).
		Order("start_time DESC").
		First(&task).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to find open task: %w", err)
	}
	return &task, nil
}

// FindAllOpen returns every open record for the owner. In principle that is
// 0 or 1 rows, but clock-out tolerates more so a duplicate can never strand
// an open task.
func (s *SessionStore) FindAllOpen(ctx context.Context, owner models.Owner) ([]models.OpenTask, error) {
	var tasks []models.OpenTask
	err := s.conn.WithContext(ctx).
		Where("team_id = ? AND user_id = ?", owner.TeamID, owner.UserID).
		Order("start_time ASC").
		Find(&tasks).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list open tasks: %w", err)
	}
	return tasks, nil
}

// SaveOpen stores the owner's open task, replacing whatever open row the
// owner had. Calling it twice with the same payload leaves one row, which
// is what makes command retries safe.
func (s *SessionStore) SaveOpen(ctx context.Context, task models.OpenTask) error {
	task = utcOpen(task)
	err := s.conn.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("team_id = ? AND user_id = ?", task.TeamID, task.UserID).
			Delete(&models.OpenTask{}).Error; err != nil {
			return err
		}
		task.ID = 0
		return tx.Create(&task).Error
	})
	if err != nil {
		return fmt.Errorf("failed to save open task: %w", err)
	}
	return nil
}

// RemoveOpen deletes all open rows for the owner. Used once an open task
// has been converted to a completed record, and by discard.
func (s *SessionStore) RemoveOpen(ctx context.Context, owner models.Owner) error {
	err := s.conn.WithContext(ctx).
		Where("team_id = ? AND user_id = ?", owner.TeamID, owner.UserID).
		Delete(&models.OpenTask{}).Error
	if err != nil {
		return fmt.Errorf("failed to remove open tasks: %w", err)
	}
	return nil
}

// AddCompleted bulk-inserts completed records.
func (s *SessionStore) AddCompleted(ctx context.Context, tasks ...models.CompletedTask) error {
	if len(tasks) == 0 {
		return nil
	}
	for i := range tasks {
		tasks[i] = utcCompleted(tasks[i])
	}
	if err := s.conn.WithContext(ctx).Create(&tasks).Error; err != nil {
		return fmt.Errorf("failed to add completed tasks: %w", err)
	}
	return nil
}

// FindCompletedAfter returns the owner's completed tasks that started at or
// after the given instant, oldest first.
func (s *SessionStore) FindCompletedAfter(ctx context.Context, owner models.Owner, after time.Time) ([]models.CompletedTask, error) {
	var tasks []models.CompletedTask
	err := s.conn.WithContext(ctx).
		Where("team_id = ? AND user_id = ? AND start_time >= ?", owner.TeamID, owner.UserID, after.UTC()).
		Order("start_time ASC").
		Find(&tasks).Error
	if err != nil {
		return nil, fmt.Errorf("failed to find completed tasks: %w", err)
	}
	return tasks, nil
}

// DeleteCompletedAfter removes the owner's completed tasks that started at
// or after the given instant. Only the explicit "clear" command reaches
// this; normal flow never deletes history.
func (s *SessionStore) DeleteCompletedAfter(ctx context.Context, owner models.Owner, after time.Time) error {
	err := s.conn.WithContext(ctx).
		Where("team_id = ? AND user_id = ? AND start_time >= ?", owner.TeamID, owner.UserID, after.UTC()).
		Delete(&models.CompletedTask{}).Error
	if err != nil {
		return fmt.Errorf("failed to delete completed tasks: %w", err)
	}
	return nil
}

// CloseOpenAndSave atomically retires the owner's open rows and appends the
// given completed records in one transaction, so a storage failure can
// never leave a half-applied transition visible.
func (s *SessionStore) CloseOpenAndSave(ctx context.Context, owner models.Owner, closed []models.CompletedTask, next *models.OpenTask) error {
	err := s.conn.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("team_id = ? AND user_id = ?", owner.TeamID, owner.UserID).
			Delete(&models.OpenTask{}).Error; err != nil {
			return err
		}
		if len(closed) > 0 {
			for i := range closed {
				closed[i] = utcCompleted(closed[i])
			}
			if err := tx.Create(&closed).Error; err != nil {
				return err
			}
		}
		if next != nil {
			open := utcOpen(*next)
			open.ID = 0
			if err := tx.Create(&open).Error; err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return fmt.Errorf("failed to apply task transition: %w", err)
	}
	return nil
}
