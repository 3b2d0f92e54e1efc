package httpserver

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/Skotchmaster/task_manager/internal/logging"
	"github.com/Skotchmaster/task_manager/internal/service"
	"github.com/Skotchmaster/task_manager/internal/transport"
)

type AuthHTTP struct {
	Svc *service.AuthService
}

func (h *AuthHTTP) Register(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "auth_register")

	var req transport.RegisterRequest
	if err := bind(c, &req); err != nil {
		l.Warn("register_error", "status", 400, "error", err)
		return err
	}

	res, err := h.Svc.Register(ctx, req.Name, req.Email, req.Password)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusCreated, res)
}

func (h *AuthHTTP) Login(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "auth_login")

	var req transport.LoginRequest
	if err := bind(c, &req); err != nil {
		l.Warn("login_error", "status", 400, "error", err)
		return err
	}

	res, err := h.Svc.Login(ctx, req.Email, req.Password)
	if err != nil {
		return err
	}
	l.Info("login_successful", "user_id", res.User.ID.String())
	return c.JSON(http.StatusOK, res)
}

func (h *AuthHTTP) RefreshTokens(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "auth_refresh")

	var req transport.RefreshRequest
	if err := bind(c, &req); err != nil {
		l.Warn("refresh_error", "status", 400, "error", err)
		return err
	}

	pair, err := h.Svc.Refresh(ctx, req.RefreshToken)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, pair)
}

func (h *AuthHTTP) Logout(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "auth_logout")

	var req transport.RefreshRequest
	if err := bind(c, &req); err != nil {
		l.Warn("logout_error", "status", 400, "error", err)
		return err
	}

	if err := h.Svc.Logout(ctx, req.RefreshToken); err != nil {
		return err
	}
	l.Info("successful_logout")
	return c.NoContent(http.StatusNoContent)
}
