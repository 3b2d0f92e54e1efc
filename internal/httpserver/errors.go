package httpserver

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/Skotchmaster/task_manager/internal/logging"
	"github.com/Skotchmaster/task_manager/internal/service"
)

type ErrorBody struct {
	Code    int               `json:"code"`
	Message string            `json:"message"`
	Details map[string]string `json:"details,omitempty"`
}

func statusFor(kind error) int {
	switch {
	case errors.Is(kind, service.ErrValidation):
		return http.StatusBadRequest
	case errors.Is(kind, service.ErrUnauthenticated):
		return http.StatusUnauthorized
	case errors.Is(kind, service.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(kind, service.ErrConflict):
		return http.StatusConflict
	default:
		return http.StatusInternalServerError
	}
}

func toBody(err error) ErrorBody {
	var se *service.Error
	if errors.As(err, &se) {
		code := statusFor(se.Kind)
		if code == http.StatusInternalServerError {
			return ErrorBody{Code: code, Message: http.StatusText(code)}
		}
		return ErrorBody{Code: code, Message: se.Message, Details: se.Fields}
	}

	var he *echo.HTTPError
	if errors.As(err, &he) {
		msg, ok := he.Message.(string)
		if !ok || he.Code >= http.StatusInternalServerError {
			msg = http.StatusText(he.Code)
		}
		return ErrorBody{Code: he.Code, Message: msg}
	}

	return ErrorBody{Code: http.StatusInternalServerError, Message: http.StatusText(http.StatusInternalServerError)}
}

// ErrorHandler renders every error as ErrorBody. Unclassified errors become a bare 500.
func ErrorHandler(err error, c echo.Context) {
	if c.Response().Committed {
		return
	}
	body := toBody(err)
	if body.Code >= http.StatusInternalServerError {
		logging.FromContext(c.Request().Context()).Error("unhandled_error", "error", err)
	}

	var werr error
	if c.Request().Method == http.MethodHead {
		werr = c.NoContent(body.Code)
	} else {
		werr = c.JSON(body.Code, body)
	}
	if werr != nil {
		logging.FromContext(c.Request().Context()).Error("write_error_response", "error", werr)
	}
}

type validatable interface {
	Validate() error
}

// bind decodes the request into req and runs its validation rules.
func bind(c echo.Context, req validatable) error {
	if err := c.Bind(req); err != nil {
		return service.Validation(errors.New("invalid request body"))
	}
	return service.Validation(req.Validate())
}
