package admin

import (
	"strconv"
	"strings"
	"time"

	handlershared "github.com/tryon-shop/internal/http/handlers/shared"
	"github.com/tryon-shop/internal/http/response"

	"github.com/gin-gonic/gin"
)

func getAdminID(c *gin.Context) (uint, bool) {
	return handlershared.PrincipalID(c, "admin_id")
}

func parsePagination(c *gin.Context) (int, int) {
	pq := handlershared.ParsePageQuery(c)
	return pq.Page, pq.PageSize
}

func parsePathUint(c *gin.Context, key, notFoundKey string) (uint, bool) {
	id, err := strconv.ParseUint(c.Param(key), 10, 64)
	if err != nil || id == 0 {
		respondError(c, response.CodeNotFound, notFoundKey, nil)
		return 0, false
	}
	return uint(id), true
}

// parseQueryUint 可选的数字查询参数，空串返回 0
func parseQueryUint(c *gin.Context, key string) (uint, error) {
	raw := strings.TrimSpace(c.Query(key))
	if raw == "" {
		return 0, nil
	}
	parsed, err := strconv.ParseUint(raw, 10, 64)
	if err != nil {
		return 0, err
	}
	return uint(parsed), nil
}

// parseQueryBool 可选的布尔查询参数
func parseQueryBool(c *gin.Context, key string) (*bool, error) {
	raw := strings.TrimSpace(c.Query(key))
	if raw == "" {
		return nil, nil
	}
	parsed, err := strconv.ParseBool(raw)
	if err != nil {
		return nil, err
	}
	return &parsed, nil
}

// parseTimeNullable 支持 RFC3339 与 2006-01-02
func parseTimeNullable(raw string) (*time.Time, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return nil, nil
	}
	if parsed, err := time.Parse(time.RFC3339, raw); err == nil {
		return &parsed, nil
	}
	parsed, err := time.ParseInLocation("2006-01-02", raw, time.Local)
	if err != nil {
		return nil, err
	}
	return &parsed, nil
}
