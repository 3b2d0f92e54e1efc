package transport

import (
	"errors"
	"regexp"
	"strings"
	"time"
	"unicode"

	validation "github.com/go-ozzo/ozzo-validation"
	"github.com/go-ozzo/ozzo-validation/is"

	"github.com/Skotchmaster/task_manager/internal/query"
)

const MaxLimit = 100

var sortByPattern = regexp.MustCompile(`^[A-Za-z]+(:(asc|desc))?(,[A-Za-z]+(:(asc|desc))?)*$`)

var errPasswordStrength = errors.New("password must contain at least 1 letter and 1 number")

type RegisterRequest struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

func (r RegisterRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.Name, validation.Required, validation.By(notBlank)),
		validation.Field(&r.Email, validation.Required, is.Email),
		validation.Field(&r.Password, validation.Required, validation.Length(8, 72), validation.By(passwordStrength)),
	)
}

type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

func (r LoginRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.Email, validation.Required),
		validation.Field(&r.Password, validation.Required),
	)
}

// RefreshRequest is the body of refresh-tokens and logout.
type RefreshRequest struct {
	RefreshToken string `json:"refreshToken"`
}

func (r RefreshRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.RefreshToken, validation.Required),
	)
}

type CreateTaskRequest struct {
	Title            string    `json:"title"`
	Description      string    `json:"description"`
	TaskDateTime     time.Time `json:"taskDateTime"`
	ReminderDateTime time.Time `json:"reminderDateTime"`
	IsCompleted      *bool     `json:"isCompleted"`
}

func (r CreateTaskRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.Title, validation.Required, validation.By(notBlank)),
		validation.Field(&r.TaskDateTime, validation.Required),
		validation.Field(&r.ReminderDateTime, validation.Required),
	)
}

// UpdateTaskRequest is a partial update, nil fields are left untouched.
type UpdateTaskRequest struct {
	Title            *string    `json:"title"`
	Description      *string    `json:"description"`
	TaskDateTime     *time.Time `json:"taskDateTime"`
	ReminderDateTime *time.Time `json:"reminderDateTime"`
	IsCompleted      *bool      `json:"isCompleted"`
}

func (r UpdateTaskRequest) Empty() bool {
	return r.Title == nil && r.Description == nil && r.TaskDateTime == nil &&
		r.ReminderDateTime == nil && r.IsCompleted == nil
}

func (r UpdateTaskRequest) Validate() error {
	if r.Empty() {
		return errors.New("must provide at least one field to update")
	}
	return validation.ValidateStruct(&r,
		validation.Field(&r.Title, validation.NilOrNotEmpty, validation.By(notBlank)),
		validation.Field(&r.TaskDateTime, validation.NilOrNotEmpty),
		validation.Field(&r.ReminderDateTime, validation.NilOrNotEmpty),
		// a task can be completed through update but never reopened
		validation.Field(&r.IsCompleted, validation.By(onlyTrue)),
	)
}

// ListTasksRequest binds from the query string on GET and from the body on POST.
type ListTasksRequest struct {
	Title    string `json:"title" query:"title"`
	TaskFrom string `json:"taskFrom" query:"taskFrom"`
	TaskTo   string `json:"taskTo" query:"taskTo"`
	SortBy   string `json:"sortBy" query:"sortBy"`
	Limit    int    `json:"limit" query:"limit"`
	Page     int    `json:"page" query:"page"`
}

func (r ListTasksRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.TaskFrom, validation.By(dateString)),
		validation.Field(&r.TaskTo, validation.By(dateString)),
		validation.Field(&r.SortBy, validation.Match(sortByPattern)),
		validation.Field(&r.Limit, validation.Min(1), validation.Max(MaxLimit)),
		validation.Field(&r.Page, validation.Min(1)),
	)
}

// Filter converts the request into a task filter. Date-only values are read in loc.
// Call Validate first; unparsable dates are ignored here.
func (r ListTasksRequest) Filter(loc *time.Location) query.TaskFilter {
	f := query.TaskFilter{Title: strings.TrimSpace(r.Title), Location: loc}
	if t, err := ParseDate(r.TaskFrom, loc); err == nil {
		f.From = &t
	}
	if t, err := ParseDate(r.TaskTo, loc); err == nil {
		f.To = &t
	}
	return f
}

func (r ListTasksRequest) Options() query.Options {
	return query.Options{SortBy: r.SortBy, Limit: r.Limit, Page: r.Page}
}

// ParseDate accepts RFC 3339 timestamps and plain 2006-01-02 dates.
func ParseDate(s string, loc *time.Location) (time.Time, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return time.Time{}, errors.New("empty date")
	}
	if loc == nil {
		loc = time.UTC
	}
	if t, err := time.Parse(time.RFC3339Nano, s); err == nil {
		return t.In(loc), nil
	}
	return time.ParseInLocation(time.DateOnly, s, loc)
}

func dateString(value interface{}) error {
	s, _ := value.(string)
	if s == "" {
		return nil
	}
	if _, err := ParseDate(s, time.UTC); err != nil {
		return errors.New("must be a date (YYYY-MM-DD) or an RFC 3339 timestamp")
	}
	return nil
}

func notBlank(value interface{}) error {
	var s string
	switch v := value.(type) {
	case string:
		s = v
	case *string:
		if v == nil {
			return nil
		}
		s = *v
	default:
		return nil
	}
	if strings.TrimSpace(s) == "" {
		return errors.New("cannot be blank")
	}
	return nil
}

func passwordStrength(value interface{}) error {
	s, _ := value.(string)
	var letter, digit bool
	for _, r := range s {
		switch {
		case unicode.IsLetter(r):
			letter = true
		case unicode.IsDigit(r):
			digit = true
		}
	}
	if !letter || !digit {
		return errPasswordStrength
	}
	return nil
}

func onlyTrue(value interface{}) error {
	b, ok := value.(*bool)
	if ok && b != nil && !*b {
		return errors.New("can only be set to true")
	}
	return nil
}
