package shared

import (
	"github.com/tryon-shop/internal/http/response"

	"github.com/gin-gonic/gin"
)

// PrincipalID 读取鉴权中间件写入的账号 ID，缺失或为 0 时直接返回 401
func PrincipalID(c *gin.Context, key string) (uint, bool) {
	var id uint
	switch v := c.Value(key).(type) {
	case uint:
		id = v
	case int:
		if v > 0 {
			id = uint(v)
		}
	}
	if id == 0 {
		RespondError(c, response.CodeUnauthorized, "error.unauthorized", nil)
		return 0, false
	}
	return id, true
}
