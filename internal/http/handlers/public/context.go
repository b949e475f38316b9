package public

import (
	"strconv"

	handlershared "github.com/tryon-shop/internal/http/handlers/shared"
	"github.com/tryon-shop/internal/http/response"
	"github.com/tryon-shop/internal/i18n"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

func requestLog(c *gin.Context) *zap.SugaredLogger {
	return handlershared.RequestLog(c)
}

func respondError(c *gin.Context, code int, key string, err error) {
	handlershared.RespondError(c, code, key, err)
}

func getUserID(c *gin.Context) (uint, bool) {
	return handlershared.PrincipalID(c, "user_id")
}

// parsePathUint 解析路径中的数字 ID，非法时按 404 处理
func parsePathUint(c *gin.Context, key, notFoundKey string) (uint, bool) {
	id, err := strconv.ParseUint(c.Param(key), 10, 64)
	if err != nil || id == 0 {
		respondError(c, response.CodeNotFound, notFoundKey, nil)
		return 0, false
	}
	return uint(id), true
}

func parsePagination(c *gin.Context) (int, int) {
	pq := handlershared.ParsePageQuery(c)
	return pq.Page, pq.PageSize
}

// successWithKey 返回带本地化提示的成功响应
func successWithKey(c *gin.Context, key string, data interface{}) {
	response.SuccessWithMsg(c, i18n.T(i18n.ResolveLocale(c), key), data)
}

func createdWithKey(c *gin.Context, key string, data interface{}) {
	response.Created(c, i18n.T(i18n.ResolveLocale(c), key), data)
}

func bindJSON(c *gin.Context, dest interface{}) bool {
	return handlershared.BindJSON(c, dest)
}
