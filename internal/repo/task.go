package repo

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/Skotchmaster/task_manager/internal/models"
	"github.com/Skotchmaster/task_manager/internal/query"
)

var taskSort = query.SortFields{
	Columns: map[string]string{
		"title":            "title",
		"description":      "description",
		"taskDateTime":     "task_date_time",
		"reminderDateTime": "reminder_date_time",
		"isCompleted":      "is_completed",
		"createdAt":        "created_at",
		"updatedAt":        "updated_at",
	},
	Tiebreak: []string{"created_at", "id"},
}

func (r *GormRepo) CreateTask(ctx context.Context, task *models.Task) error {
	return translate(r.DB.WithContext(ctx).Create(task).Error)
}

func (r *GormRepo) GetTask(ctx context.Context, id uuid.UUID) (*models.Task, error) {
	var task models.Task
	if err := r.DB.WithContext(ctx).Where("id = ?", id).First(&task).Error; err != nil {
		return nil, translate(err)
	}
	return &task, nil
}

func (r *GormRepo) ListTasks(ctx context.Context, filter query.TaskFilter, opts query.Options) (*query.Page[models.Task], error) {
	return query.Paginate[models.Task](ctx, r.DB, opts, taskSort, filter.Scope())
}

// UpdateTask loads the task, applies patch and saves it in one transaction.
func (r *GormRepo) UpdateTask(ctx context.Context, id uuid.UUID, patch func(*models.Task)) (*models.Task, error) {
	var task models.Task
	err := r.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("id = ?", id).First(&task).Error; err != nil {
			return err
		}
		patch(&task)
		return tx.Save(&task).Error
	})
	if err != nil {
		return nil, translate(err)
	}
	return &task, nil
}

func (r *GormRepo) DeleteTask(ctx context.Context, id uuid.UUID) error {
	res := r.DB.WithContext(ctx).Where("id = ?", id).Delete(&models.Task{})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}
