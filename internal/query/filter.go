package query

import (
	"strings"
	"time"

	"gorm.io/gorm"
)

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

// TaskFilter holds the optional list filters. Dates are only applied when both bounds are set.
type TaskFilter struct {
	Title    string
	From     *time.Time
	To       *time.Time
	Location *time.Location
}

// DayRange widens from/to to [start of from's day, end of to's day] in loc, returned in UTC.
func DayRange(from, to time.Time, loc *time.Location) (time.Time, time.Time) {
	if loc == nil {
		loc = time.UTC
	}
	fy, fm, fd := from.In(loc).Date()
	ty, tm, td := to.In(loc).Date()

	start := time.Date(fy, fm, fd, 0, 0, 0, 0, loc)
	end := time.Date(ty, tm, td, 23, 59, 59, int(999*time.Millisecond), loc)
	return start.UTC(), end.UTC()
}

func (f TaskFilter) Scope() func(*gorm.DB) *gorm.DB {
	return func(db *gorm.DB) *gorm.DB {
		if title := strings.TrimSpace(f.Title); title != "" {
			db = db.Where(`LOWER(title) LIKE LOWER(?) ESCAPE '\'`, "%"+likeEscaper.Replace(title)+"%")
		}
		if f.From != nil && f.To != nil {
			start, end := DayRange(*f.From, *f.To, f.Location)
			db = db.Where("task_date_time >= ? AND task_date_time < ?", start, end)
		}
		return db
	}
}
