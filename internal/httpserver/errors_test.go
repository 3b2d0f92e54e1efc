package httpserver

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"

	"github.com/Skotchmaster/task_manager/internal/service"
)

func TestToBody(t *testing.T) {
	cases := []struct {
		name string
		err  error
		want ErrorBody
	}{
		{"unauthenticated", service.Unauthenticated("Please authenticate"), ErrorBody{Code: 401, Message: "Please authenticate"}},
		{"conflict", service.Conflict("Email already taken"), ErrorBody{Code: 409, Message: "Email already taken"}},
		{"not found", service.NotFound("Task not found"), ErrorBody{Code: 404, Message: "Task not found"}},
		{"wrapped", fmt.Errorf("outer: %w", service.NotFound("Task not found")), ErrorBody{Code: 404, Message: "Task not found"}},
		{"echo", echo.NewHTTPError(http.StatusMethodNotAllowed, "Method Not Allowed"), ErrorBody{Code: 405, Message: "Method Not Allowed"}},
		{"echo 5xx hides message", echo.NewHTTPError(http.StatusBadGateway, "upstream said no"), ErrorBody{Code: 502, Message: "Bad Gateway"}},
		{"plain", errors.New("db exploded"), ErrorBody{Code: 500, Message: "Internal Server Error"}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, toBody(tc.err))
		})
	}
}

func TestToBody_ValidationDetails(t *testing.T) {
	err := &service.Error{Kind: service.ErrValidation, Message: "Invalid request", Fields: map[string]string{"title": "cannot be blank"}}
	body := toBody(err)
	assert.Equal(t, http.StatusBadRequest, body.Code)
	assert.Equal(t, "cannot be blank", body.Details["title"])
}
