package shared

import (
	"errors"

	"github.com/tryon-shop/internal/http/response"
	"github.com/tryon-shop/internal/i18n"
	"github.com/tryon-shop/internal/logger"
	"github.com/tryon-shop/internal/service"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// MappedError 定义业务错误到接口错误响应的映射关系。
type MappedError struct {
	Target error
	Code   int
	Key    string
}

// localizedError 携带 i18n key 与参数的错误（例如密码策略）。
type localizedError interface {
	Key() string
	Args() []interface{}
}

// RequestLog 提供携带 request_id 的日志实例。
func RequestLog(c *gin.Context) *zap.SugaredLogger {
	if c == nil {
		return logger.S()
	}
	if requestID, ok := c.Get("request_id"); ok {
		if id, ok := requestID.(string); ok && id != "" {
			return logger.SW("request_id", id)
		}
	}
	return logger.S()
}

// RespondError 返回国际化错误响应，并在有原始错误时记录日志。
func RespondError(c *gin.Context, code int, key string, err error) {
	locale := i18n.ResolveLocale(c)
	msg := i18n.T(locale, key)
	writeAppError(c, response.WrapError(code, key, msg, err))
}

// writeAppError 仅在携带原始错误时记录日志，5xx 记 error，其余记 warn
func writeAppError(c *gin.Context, appErr *response.AppError) {
	if appErr.Err != nil {
		log := RequestLog(c).With("code", appErr.Code, "key", appErr.Key, "status", appErr.Status())
		if appErr.Status() >= 500 {
			log.Errorw("handler_error", "error", appErr)
		} else {
			log.Warnw("handler_error", "error", appErr)
		}
	}
	response.Error(c, appErr.Code, appErr.Message)
}

// RespondValidationError 字段错误以 400 返回，data.errors 为字段到文案的映射。
func RespondValidationError(c *gin.Context, verr *service.ValidationError) {
	locale := i18n.ResolveLocale(c)
	fields := make(map[string]string, len(verr.Fields))
	for field, key := range verr.Fields {
		fields[field] = i18n.T(locale, key)
	}
	response.ErrorWithData(c, response.CodeBadRequest, i18n.T(locale, "error.validation_failed"), gin.H{"errors": fields})
}

// RespondServiceError 依次尝试字段错误、带参数的本地化错误与映射表，未命中时按兜底码记录并返回。
func RespondServiceError(c *gin.Context, err error, rules []MappedError, fallbackCode int, fallbackKey string) {
	if verr, ok := service.AsValidationError(err); ok {
		RespondValidationError(c, verr)
		return
	}
	var localized localizedError
	if errors.As(err, &localized) {
		locale := i18n.ResolveLocale(c)
		response.Error(c, response.CodeBadRequest, i18n.Sprintf(locale, localized.Key(), localized.Args()...))
		return
	}
	for _, rule := range rules {
		if errors.Is(err, rule.Target) {
			RespondError(c, rule.Code, rule.Key, nil)
			return
		}
	}
	RespondError(c, fallbackCode, fallbackKey, err)
}

// ConcatMappedErrors 合并多组映射规则，靠前的优先。
func ConcatMappedErrors(groups ...[]MappedError) []MappedError {
	total := 0
	for _, group := range groups {
		total += len(group)
	}
	result := make([]MappedError, 0, total)
	for _, group := range groups {
		result = append(result, group...)
	}
	return result
}
