package utils

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
)

// ParseIDParam reads a positive integer path parameter.
func ParseIDParam(c *gin.Context, name string) (uint, error) {
	raw := c.Param(name)
	id, err := strconv.ParseUint(raw, 10, 64)
	if err != nil || id == 0 {
		return 0, NewValidationError(name, fmt.Sprintf("invalid %s %q", name, raw))
	}
	return uint(id), nil
}

// QueryUint reads an optional positive integer query parameter. Absent or zero gives nil.
func QueryUint(c *gin.Context, name string) (*uint, error) {
	raw := strings.TrimSpace(c.Query(name))
	if raw == "" {
		return nil, nil
	}
	v, err := strconv.ParseUint(raw, 10, 64)
	if err != nil {
		return nil, NewValidationError(name, fmt.Sprintf("invalid %s %q", name, raw))
	}
	if v == 0 {
		return nil, nil
	}
	id := uint(v)
	return &id, nil
}

// QueryInt reads an optional integer query parameter, returning def when absent
// or unparsable. The bool reports whether a usable value was present.
func QueryInt(c *gin.Context, name string, def int) (int, bool) {
	raw := strings.TrimSpace(c.Query(name))
	if raw == "" {
		return def, false
	}
	v, err := strconv.Atoi(raw)
	if err != nil {
		return def, false
	}
	return v, true
}

// QueryBool reads an optional boolean query parameter.
func QueryBool(c *gin.Context, name string, def bool) bool {
	raw := strings.TrimSpace(c.Query(name))
	if raw == "" {
		return def
	}
	v, err := strconv.ParseBool(raw)
	if err != nil {
		return def
	}
	return v
}
