package echoapi

import (
	"strconv"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/trezcool/darasa/core"
	"github.com/trezcool/darasa/core/school"
)

const dateLayout = "2006-01-02"

// parseTime accepts RFC 3339 timestamps and plain dates. An empty value is the zero time.
func parseTime(field, value string) (time.Time, error) {
	if value == "" {
		return time.Time{}, nil
	}
	if t, err := time.Parse(time.RFC3339, value); err == nil {
		return t, nil
	}
	t, err := time.Parse(dateLayout, value)
	if err != nil {
		return time.Time{}, core.NewValidationError(nil, core.FieldError{Field: field, Error: "invalid date"})
	}
	return t, nil
}

func bindCalendarFilter(ctx echo.Context) (school.CalendarFilter, error) {
	from, err := parseTime("from", ctx.QueryParam("from"))
	if err != nil {
		return school.CalendarFilter{}, err
	}
	to, err := parseTime("to", ctx.QueryParam("to"))
	if err != nil {
		return school.CalendarFilter{}, err
	}
	if !to.IsZero() && len(ctx.QueryParam("to")) == len(dateLayout) {
		to = to.Add(24*time.Hour - time.Nanosecond) // whole day
	}
	return school.CalendarFilter{From: from, To: to, Status: ctx.QueryParam("status")}, nil
}

func bindMessageFilter(ctx echo.Context) school.MessageFilter {
	box := ctx.QueryParam("filter")
	if box == "" {
		box = school.BoxAll
	}
	return school.MessageFilter{Box: box, Search: core.CleanString(ctx.QueryParam("search"))}
}

// paramIndex reads the path param name as a list index.
func paramIndex(ctx echo.Context, name string) (int, error) {
	idx, err := strconv.Atoi(ctx.Param(name))
	if err != nil || idx < 0 {
		return 0, core.NewValidationError(nil, core.FieldError{Field: name, Error: "invalid index"})
	}
	return idx, nil
}
