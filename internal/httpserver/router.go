package httpserver

import (
	"context"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
	"gorm.io/gorm"

	"github.com/Skotchmaster/task_manager/internal/db"
	"github.com/Skotchmaster/task_manager/internal/logging"
	"github.com/Skotchmaster/task_manager/internal/middleware"
	"github.com/Skotchmaster/task_manager/internal/tokens"
)

const readyTimeout = 2 * time.Second

type Deps struct {
	AuthHandler *AuthHTTP
	TaskHandler *TaskHTTP
	Codec       *tokens.Codec
	DB          *gorm.DB
}

func Register(e *echo.Echo, d *Deps) {
	e.GET("/health/live", func(c echo.Context) error { return c.NoContent(http.StatusOK) })
	e.GET("/health/ready", d.ready)

	v1 := e.Group("/v1")

	auth := v1.Group("/auth")
	auth.POST("/register", d.AuthHandler.Register)
	auth.POST("/login", d.AuthHandler.Login)
	auth.POST("/refresh-tokens", d.AuthHandler.RefreshTokens)
	auth.POST("/logout", d.AuthHandler.Logout)

	authMW := middleware.RequireAccessToken(d.Codec)

	tasks := v1.Group("/tasks", authMW)
	tasks.POST("", d.TaskHandler.CreateTask)
	tasks.GET("", d.TaskHandler.ListTasks)
	tasks.GET("/:taskId", d.TaskHandler.GetTask)
	tasks.PATCH("/:taskId", d.TaskHandler.UpdateTask)
	tasks.DELETE("/:taskId", d.TaskHandler.DeleteTask)

	// route names used by existing clients
	tasks.POST("/createTask", d.TaskHandler.CreateTask)
	tasks.POST("/getTasks", d.TaskHandler.ListTasks)
	tasks.GET("/getTaskById/:taskId", d.TaskHandler.GetTask)
	tasks.PATCH("/updateTask/:taskId", d.TaskHandler.UpdateTask)
	tasks.DELETE("/deleteTask/:taskId", d.TaskHandler.DeleteTask)
}

func (d *Deps) ready(c echo.Context) error {
	if d.DB == nil {
		return c.NoContent(http.StatusOK)
	}
	ctx, cancel := context.WithTimeout(c.Request().Context(), readyTimeout)
	defer cancel()
	if err := db.Ping(ctx, d.DB); err != nil {
		logging.FromContext(ctx).Warn("readiness_failed", "error", err)
		return c.NoContent(http.StatusServiceUnavailable)
	}
	return c.NoContent(http.StatusOK)
}
