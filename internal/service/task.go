package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"

	"github.com/Skotchmaster/task_manager/internal/events"
	"github.com/Skotchmaster/task_manager/internal/logging"
	"github.com/Skotchmaster/task_manager/internal/models"
	"github.com/Skotchmaster/task_manager/internal/query"
	"github.com/Skotchmaster/task_manager/internal/repo"
	"github.com/Skotchmaster/task_manager/internal/transport"
)

const msgTaskNotFound = "Task not found"

type TaskRepo interface {
	CreateTask(ctx context.Context, task *models.Task) error
	GetTask(ctx context.Context, id uuid.UUID) (*models.Task, error)
	ListTasks(ctx context.Context, filter query.TaskFilter, opts query.Options) (*query.Page[models.Task], error)
	UpdateTask(ctx context.Context, id uuid.UUID, patch func(*models.Task)) (*models.Task, error)
	DeleteTask(ctx context.Context, id uuid.UUID) error
}

type TaskService struct {
	Repo   TaskRepo
	Events events.Publisher
}

func NewTaskService(r TaskRepo, pub events.Publisher) *TaskService {
	if pub == nil {
		pub = events.Nop{}
	}
	return &TaskService{Repo: r, Events: pub}
}

func (s *TaskService) CreateTask(ctx context.Context, req transport.CreateTaskRequest) (*models.Task, error) {
	l := logging.FromContext(ctx).With("svc", "task.create")

	task := &models.Task{
		Title:            strings.TrimSpace(req.Title),
		Description:      strings.TrimSpace(req.Description),
		TaskDateTime:     req.TaskDateTime.UTC(),
		ReminderDateTime: req.ReminderDateTime.UTC(),
	}
	if req.IsCompleted != nil {
		task.IsCompleted = *req.IsCompleted
	}
	if err := s.Repo.CreateTask(ctx, task); err != nil {
		l.Error("create_task_failed", "status", 500, "error", err)
		return nil, fmt.Errorf("create task: %w", err)
	}

	s.publish(ctx, task, events.TaskCreated)
	return task, nil
}

func (s *TaskService) ListTasks(ctx context.Context, filter query.TaskFilter, opts query.Options) (*query.Page[models.Task], error) {
	page, err := s.Repo.ListTasks(ctx, filter, opts)
	if err != nil {
		logging.FromContext(ctx).Error("list_tasks_failed", "svc", "task.list", "status", 500, "error", err)
		return nil, fmt.Errorf("list tasks: %w", err)
	}
	return page, nil
}

func (s *TaskService) GetTask(ctx context.Context, id uuid.UUID) (*models.Task, error) {
	task, err := s.Repo.GetTask(ctx, id)
	if err != nil {
		return nil, s.lookupError(ctx, "task.get", id, err)
	}
	return task, nil
}

func (s *TaskService) UpdateTask(ctx context.Context, id uuid.UUID, req transport.UpdateTaskRequest) (*models.Task, error) {
	task, err := s.Repo.UpdateTask(ctx, id, func(t *models.Task) {
		if req.Title != nil {
			t.Title = strings.TrimSpace(*req.Title)
		}
		if req.Description != nil {
			t.Description = strings.TrimSpace(*req.Description)
		}
		if req.TaskDateTime != nil {
			t.TaskDateTime = req.TaskDateTime.UTC()
		}
		if req.ReminderDateTime != nil {
			t.ReminderDateTime = req.ReminderDateTime.UTC()
		}
		if req.IsCompleted != nil {
			t.IsCompleted = *req.IsCompleted
		}
	})
	if err != nil {
		return nil, s.lookupError(ctx, "task.update", id, err)
	}

	s.publish(ctx, task, events.TaskUpdated)
	return task, nil
}

func (s *TaskService) DeleteTask(ctx context.Context, id uuid.UUID) error {
	if err := s.Repo.DeleteTask(ctx, id); err != nil {
		return s.lookupError(ctx, "task.delete", id, err)
	}
	s.publish(ctx, &models.Task{ID: id}, events.TaskDeleted)
	return nil
}

func (s *TaskService) lookupError(ctx context.Context, svc string, id uuid.UUID, err error) error {
	l := logging.FromContext(ctx).With("svc", svc, "task_id", id.String())
	if errors.Is(err, repo.ErrNotFound) {
		l.Warn("task_lookup_failed", "status", 404, "reason", "task not found")
		return NotFound(msgTaskNotFound)
	}
	l.Error("task_lookup_failed", "status", 500, "error", err)
	return fmt.Errorf("%s: %w", svc, err)
}

func (s *TaskService) publish(ctx context.Context, task *models.Task, typ string) {
	if s.Events == nil {
		return
	}
	payload := map[string]any{"task_id": task.ID.String()}
	if typ != events.TaskDeleted {
		payload["title"] = task.Title
		payload["is_completed"] = task.IsCompleted
	}
	if err := s.Events.Publish(ctx, task.ID.String(), events.New(typ, payload)); err != nil {
		logging.FromContext(ctx).Warn("event_publish_failed", "type", typ, "error", err)
	}
}
