package models

import (
	"time"

	"github.com/Skotchmaster/task_manager/internal/tokens"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

type User struct {
	ID           uuid.UUID `gorm:"type:uuid;primaryKey"   json:"id"`
	Name         string    `gorm:"not null"               json:"name"`
	Email        string    `gorm:"uniqueIndex;not null"   json:"email"`
	PasswordHash string    `gorm:"not null"               json:"-"`
	CreatedAt    time.Time `json:"-"`
	UpdatedAt    time.Time `json:"-"`
}

// RefreshToken is a persisted token record. Token holds the sha256 digest of the signed token.
type RefreshToken struct {
	ID          uint        `gorm:"primaryKey"                   json:"id"`
	Token       string      `gorm:"uniqueIndex;not null"         json:"-"`
	UserID      uuid.UUID   `gorm:"type:uuid;index;not null"     json:"user_id"`
	UserName    string      `gorm:"not null"                     json:"user_name"`
	ExpiresAt   time.Time   `gorm:"not null"                     json:"expires_at"`
	Type        tokens.Type `gorm:"type:varchar(16);not null"    json:"type"`
	Blacklisted bool        `gorm:"not null;default:false"       json:"blacklisted"`
	CreatedAt   time.Time   `json:"created_at"`
}

type Task struct {
	ID               uuid.UUID `gorm:"type:uuid;primaryKey"   json:"id"`
	Title            string    `gorm:"not null"               json:"title"`
	Description      string    `json:"description"`
	TaskDateTime     time.Time `gorm:"not null;index"         json:"taskDateTime"`
	ReminderDateTime time.Time `gorm:"not null"               json:"reminderDateTime"`
	IsCompleted      bool      `gorm:"not null;default:false" json:"isCompleted"`
	CreatedAt        time.Time `gorm:"index"                  json:"-"`
	UpdatedAt        time.Time `json:"-"`
}

func (u *User) BeforeCreate(*gorm.DB) error {
	if u.ID == uuid.Nil {
		u.ID = uuid.New()
	}
	return nil
}

func (t *Task) BeforeCreate(*gorm.DB) error {
	if t.ID == uuid.Nil {
		t.ID = uuid.New()
	}
	if t.TaskDateTime.IsZero() {
		t.TaskDateTime = time.Now().UTC()
	}
	return nil
}

func All() []any {
	return []any{&User{}, &RefreshToken{}, &Task{}}
}
