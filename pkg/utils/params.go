package utils

import (
	"strconv"
	"time"

	"github.com/labstack/echo/v4"

	apperrors "fixtrack/pkg/errors"
)

func ParseIDParam(ctx echo.Context, name string) (uint64, error) {
	id, err := strconv.ParseUint(ctx.Param(name), 10, 64)
	if err != nil || id == 0 {
		return 0, apperrors.NewValidationError("Некорректный идентификатор")
	}
	return id, nil
}

// ParseDate принимает YYYY-MM-DD или RFC3339.
func ParseDate(value string) (*time.Time, bool) {
	if value == "" {
		return nil, false
	}
	if t, err := time.Parse("2006-01-02", value); err == nil {
		return &t, true
	}
	if t, err := time.Parse(time.RFC3339, value); err == nil {
		return &t, true
	}
	return nil, false
}

// EndOfDay переносит дату на последний момент суток, чтобы фильтр по конечной дате был включительным.
func EndOfDay(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 23, 59, 59, int(999*time.Millisecond), t.Location())
}
