package handler

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/NabirasulA/Galaxy/internal/ledger"
)

func intQuery(c *gin.Context, key string, def int) int {
	if val := c.Query(key); val != "" {
		if i, err := strconv.Atoi(val); err == nil {
			return i
		}
	}
	return def
}

// maxPageLimit matches the cap the repositories apply.
const maxPageLimit = 500

// pageLimit reads limit the way the repositories will apply it, so the
// pagination meta reports the page size actually served.
func pageLimit(c *gin.Context, def int) int {
	limit := intQuery(c, "limit", def)
	if limit <= 0 {
		return def
	}
	if limit > maxPageLimit {
		return maxPageLimit
	}
	return limit
}

// requiredInt64Query parses a mandatory integer query parameter.
func requiredInt64Query(c *gin.Context, key string) (int64, error) {
	val := strings.TrimSpace(c.Query(key))
	if val == "" {
		return 0, fmt.Errorf("%w: %s is required", ledger.ErrInvalidInput, key)
	}
	n, err := strconv.ParseInt(val, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("%w: %s must be an integer", ledger.ErrInvalidInput, key)
	}
	return n, nil
}

func idParam(c *gin.Context) (uint64, error) {
	raw := strings.TrimSpace(c.Param("id"))
	id, err := strconv.ParseUint(raw, 10, 64)
	if err != nil || id == 0 {
		return 0, fmt.Errorf("%w: invalid id %q", ledger.ErrInvalidInput, raw)
	}
	return id, nil
}

func dateQueryPtr(c *gin.Context, key string) (*time.Time, error) {
	val := strings.TrimSpace(c.Query(key))
	if val == "" {
		return nil, nil
	}
	t, err := time.Parse(ledger.DateLayout, val)
	if err != nil {
		return nil, fmt.Errorf("%w: %s must be YYYY-MM-DD", ledger.ErrInvalidInput, key)
	}
	return &t, nil
}

func parseOrder(value string, allow map[string]string) string {
	key := strings.TrimSpace(strings.ToLower(value))
	if key == "" {
		return ""
	}
	if mapped, ok := allow[key]; ok {
		return mapped
	}
	return ""
}

func paginationMeta(limit, offset int, total int64) map[string]any {
	if limit <= 0 {
		limit = 0
	}
	if offset < 0 {
		offset = 0
	}
	hasNext := int64(offset+limit) < total
	return map[string]any{
		"limit":    limit,
		"offset":   offset,
		"total":    total,
		"has_next": hasNext,
	}
}

func boolPtr(v bool) *bool { return &v }
