package utils

import (
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"

	"hotel-reservation/apperror"
	"hotel-reservation/models"
)

// ParseDate accepts YYYY-MM-DD or RFC3339 and returns the calendar day at
// midnight UTC.
func ParseDate(field, raw string) (time.Time, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return time.Time{}, apperror.InvalidInput("%s is required", field)
	}
	if t, err := time.Parse("2006-01-02", raw); err == nil {
		return t, nil
	}
	if t, err := time.Parse(time.RFC3339, raw); err == nil {
		return models.DateOnly(t), nil
	}
	return time.Time{}, apperror.InvalidInput("%s must be YYYY-MM-DD", field)
}

// OptionalDate is ParseDate for query filters: blank yields nil.
func OptionalDate(field, raw string) (*time.Time, error) {
	if strings.TrimSpace(raw) == "" {
		return nil, nil
	}
	t, err := ParseDate(field, raw)
	if err != nil {
		return nil, err
	}
	return &t, nil
}

// ParamID reads a positive numeric path parameter.
func ParamID(c *gin.Context, name string) (uint, error) {
	raw := c.Param(name)
	id, err := strconv.ParseUint(raw, 10, 64)
	if err != nil || id == 0 {
		return 0, apperror.InvalidInput("invalid %s: %q", name, raw)
	}
	return uint(id), nil
}

// RequireQuery returns the trimmed query parameter, or writes the 400 and
// reports false when it is blank.
func RequireQuery(c *gin.Context, name string) (string, bool) {
	v := strings.TrimSpace(c.Query(name))
	if v == "" {
		JSONAppError(c, apperror.InvalidInput("%s is required", name))
		return "", false
	}
	return v, true
}
