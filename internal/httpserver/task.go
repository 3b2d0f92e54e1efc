package httpserver

import (
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"

	"github.com/Skotchmaster/task_manager/internal/logging"
	"github.com/Skotchmaster/task_manager/internal/middleware"
	"github.com/Skotchmaster/task_manager/internal/service"
	"github.com/Skotchmaster/task_manager/internal/transport"
)

type TaskHTTP struct {
	Svc *service.TaskService
	// Location resolves date-only list filters.
	Location *time.Location
}

// handlerLogger tags the request logger with the handler name and the caller.
func handlerLogger(c echo.Context, handler string) *slog.Logger {
	l := logging.FromContext(c.Request().Context()).With("handler", handler)
	if claims, err := middleware.Identity(c); err == nil {
		l = l.With("user_id", claims.Subject)
	}
	return l
}

func taskID(c echo.Context) (uuid.UUID, error) {
	id, err := uuid.Parse(c.Param("taskId"))
	if err != nil {
		return uuid.Nil, &service.Error{
			Kind:    service.ErrValidation,
			Message: "Invalid request",
			Fields:  map[string]string{"taskId": "must be a valid UUID"},
		}
	}
	return id, nil
}

func (h *TaskHTTP) CreateTask(c echo.Context) error {
	ctx := c.Request().Context()
	l := handlerLogger(c, "create_task")

	var req transport.CreateTaskRequest
	if err := bind(c, &req); err != nil {
		l.Warn("create_task_error", "status", 400, "error", err)
		return err
	}

	task, err := h.Svc.CreateTask(ctx, req)
	if err != nil {
		return err
	}
	l.Info("task_created", "task_id", task.ID.String())
	return c.JSON(http.StatusCreated, task)
}

// ListTasks reads filters from the query string, or from a JSON body on POST.
func (h *TaskHTTP) ListTasks(c echo.Context) error {
	ctx := c.Request().Context()
	l := handlerLogger(c, "list_tasks")

	var req transport.ListTasksRequest
	var err error
	if c.Request().Method != http.MethodGet && c.Request().ContentLength == 0 {
		if berr := (&echo.DefaultBinder{}).BindQueryParams(c, &req); berr != nil {
			err = service.Validation(errors.New("invalid query parameters"))
		} else {
			err = service.Validation(req.Validate())
		}
	} else {
		err = bind(c, &req)
	}
	if err != nil {
		l.Warn("list_tasks_error", "status", 400, "error", err)
		return err
	}

	page, err := h.Svc.ListTasks(ctx, req.Filter(h.Location), req.Options())
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, page)
}

func (h *TaskHTTP) GetTask(c echo.Context) error {
	id, err := taskID(c)
	if err != nil {
		return err
	}
	task, err := h.Svc.GetTask(c.Request().Context(), id)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, task)
}

func (h *TaskHTTP) UpdateTask(c echo.Context) error {
	ctx := c.Request().Context()
	l := handlerLogger(c, "update_task")

	id, err := taskID(c)
	if err != nil {
		return err
	}

	var req transport.UpdateTaskRequest
	if err := bind(c, &req); err != nil {
		l.Warn("update_task_error", "status", 400, "task_id", id.String(), "error", err)
		return err
	}

	task, err := h.Svc.UpdateTask(ctx, id, req)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, task)
}

func (h *TaskHTTP) DeleteTask(c echo.Context) error {
	id, err := taskID(c)
	if err != nil {
		return err
	}
	if err := h.Svc.DeleteTask(c.Request().Context(), id); err != nil {
		return err
	}
	handlerLogger(c, "delete_task").Info("task_deleted", "task_id", id.String())
	return c.NoContent(http.StatusNoContent)
}
