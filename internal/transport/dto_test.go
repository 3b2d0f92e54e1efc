package transport

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRegisterRequest_Validate(t *testing.T) {
	cases := []struct {
		name string
		req  RegisterRequest
		ok   bool
	}{
		{"valid", RegisterRequest{"Jane", "jane@example.com", "password1"}, true},
		{"blank name", RegisterRequest{"  ", "jane@example.com", "password1"}, false},
		{"bad email", RegisterRequest{"Jane", "jane", "password1"}, false},
		{"short password", RegisterRequest{"Jane", "jane@example.com", "pass1"}, false},
		{"no digit", RegisterRequest{"Jane", "jane@example.com", "password"}, false},
		{"no letter", RegisterRequest{"Jane", "jane@example.com", "12345678"}, false},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			err := tc.req.Validate()
			if tc.ok {
				assert.NoError(t, err)
			} else {
				assert.Error(t, err)
			}
		})
	}
}

func TestUpdateTaskRequest_Validate(t *testing.T) {
	yes, no := true, false
	blank := " "
	title := "new"

	assert.Error(t, UpdateTaskRequest{}.Validate())
	assert.NoError(t, UpdateTaskRequest{Title: &title}.Validate())
	assert.NoError(t, UpdateTaskRequest{IsCompleted: &yes}.Validate())
	assert.Error(t, UpdateTaskRequest{IsCompleted: &no}.Validate())
	assert.Error(t, UpdateTaskRequest{Title: &blank}.Validate())
}

func TestListTasksRequest(t *testing.T) {
	assert.NoError(t, ListTasksRequest{}.Validate())
	assert.NoError(t, ListTasksRequest{SortBy: "title:desc,createdAt", Limit: 5, Page: 2}.Validate())
	assert.Error(t, ListTasksRequest{SortBy: "title:sideways"}.Validate())
	assert.Error(t, ListTasksRequest{Limit: MaxLimit + 1}.Validate())
	assert.Error(t, ListTasksRequest{Page: -1}.Validate())
	assert.Error(t, ListTasksRequest{TaskFrom: "tomorrow"}.Validate())

	loc := time.FixedZone("plus3", 3*3600)
	req := ListTasksRequest{Title: " milk ", TaskFrom: "2026-05-10", TaskTo: "2026-05-12T10:00:00Z"}
	require.NoError(t, req.Validate())

	f := req.Filter(loc)
	assert.Equal(t, "milk", f.Title)
	require.NotNil(t, f.From)
	require.NotNil(t, f.To)
	assert.True(t, f.From.Equal(time.Date(2026, 5, 10, 0, 0, 0, 0, loc)))
	assert.True(t, f.To.Equal(time.Date(2026, 5, 12, 10, 0, 0, 0, time.UTC)))

	only := ListTasksRequest{TaskFrom: "2026-05-10"}.Filter(time.UTC)
	assert.NotNil(t, only.From)
	assert.Nil(t, only.To)
}

func TestParseDate(t *testing.T) {
	_, err := ParseDate("", time.UTC)
	assert.Error(t, err)

	d, err := ParseDate("2026-01-02", nil)
	require.NoError(t, err)
	assert.Equal(t, time.Date(2026, 1, 2, 0, 0, 0, 0, time.UTC), d)
}
