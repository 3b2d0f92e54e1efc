package query

import (
	"context"
	"math"
	"strings"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

const (
	DefaultLimit = 10
	DefaultPage  = 1
)

type Options struct {
	SortBy string
	Limit  int
	Page   int
}

// Page is the list envelope returned by every paginated endpoint.
type Page[T any] struct {
	Results      []T   `json:"results"`
	Page         int   `json:"page"`
	Limit        int   `json:"limit"`
	TotalPages   int   `json:"totalPages"`
	TotalResults int64 `json:"totalResults"`
}

// SortFields maps API sort keys to column names. Tiebreak columns are appended in
// ascending order after the requested ones so that equal keys page reproducibly.
type SortFields struct {
	Columns  map[string]string
	Tiebreak []string
}

func Calculate(page, limit int) (offset, size int) {
	if page < 1 {
		page = DefaultPage
	}
	if limit <= 0 {
		limit = DefaultLimit
	}
	// pages past the representable range saturate instead of wrapping negative
	if page-1 > math.MaxInt/limit {
		return math.MaxInt, limit
	}
	offset = (page - 1) * limit
	return offset, limit
}

func TotalPages(total int64, limit int) int {
	if limit <= 0 {
		limit = DefaultLimit
	}
	pages := int((total + int64(limit) - 1) / int64(limit))
	if pages < 1 {
		return 1
	}
	return pages
}

// OrderBy parses "field[:asc|:desc][,field...]". Unknown fields are skipped.
func (s SortFields) OrderBy(sortBy string) []clause.OrderByColumn {
	var (
		out  []clause.OrderByColumn
		used = map[string]bool{}
	)
	for _, part := range strings.Split(sortBy, ",") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		field, dir, _ := strings.Cut(part, ":")
		col, ok := s.Columns[strings.TrimSpace(field)]
		if !ok || used[col] {
			continue
		}
		used[col] = true
		out = append(out, clause.OrderByColumn{
			Column: clause.Column{Name: col},
			Desc:   strings.EqualFold(strings.TrimSpace(dir), "desc"),
		})
	}
	for _, col := range s.Tiebreak {
		if used[col] {
			continue
		}
		used[col] = true
		out = append(out, clause.OrderByColumn{Column: clause.Column{Name: col}})
	}
	return out
}

func Paginate[T any](ctx context.Context, db *gorm.DB, opts Options, sort SortFields, scopes ...func(*gorm.DB) *gorm.DB) (*Page[T], error) {
	page := opts.Page
	if page < 1 {
		page = DefaultPage
	}
	offset, limit := Calculate(page, opts.Limit)

	var total int64
	if err := db.WithContext(ctx).Model(new(T)).Scopes(scopes...).Count(&total).Error; err != nil {
		return nil, err
	}

	pages := TotalPages(total, limit)
	items := make([]T, 0, limit)
	if page <= pages && int64(offset) < total {
		tx := db.WithContext(ctx).Model(new(T)).Scopes(scopes...)
		for _, o := range sort.OrderBy(opts.SortBy) {
			tx = tx.Order(o)
		}
		if err := tx.Offset(offset).Limit(limit).Find(&items).Error; err != nil {
			return nil, err
		}
	}

	return &Page[T]{
		Results:      items,
		Page:         page,
		Limit:        limit,
		TotalPages:   pages,
		TotalResults: total,
	}, nil
}
