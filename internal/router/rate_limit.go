package router

import (
	"bytes"
	"encoding/json"
	"io"
	"strconv"
	"strings"

	handlershared "github.com/tryon-shop/internal/http/handlers/shared"
	"github.com/tryon-shop/internal/http/response"
	"github.com/tryon-shop/internal/i18n"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
)

// RateLimitKeyFunc 从请求中取限流维度，返回空串时退回客户端 IP
type RateLimitKeyFunc func(*gin.Context) string

// RateLimitRule 固定窗口限流规则
type RateLimitRule struct {
	Prefix        string
	WindowSeconds int
	MaxRequests   int
	BlockSeconds  int // 超限后封禁时长，不大于窗口时按窗口计
	MessageKey    string
}

func (r RateLimitRule) enabled() bool {
	return r.WindowSeconds > 0 && r.MaxRequests > 0
}

func (r RateLimitRule) key(dimension string) string {
	if r.Prefix == "" {
		return dimension
	}
	return r.Prefix + ":" + dimension
}

// retryAfter 超限时返回需等待的秒数，未超限返回 0
func (r RateLimitRule) retryAfter(count, ttl int64) int {
	if count <= int64(r.MaxRequests) {
		return 0
	}
	switch {
	case ttl > 0:
		return int(ttl)
	case r.WindowSeconds > 0:
		return r.WindowSeconds
	default:
		return 1
	}
}

// KEYS[1]=计数 key, ARGV=窗口秒数, 上限, 封禁秒数
// 第一次超限时把 key 的过期时间延长为封禁时长
var rateLimitScript = redis.NewScript(`
local current = redis.call("INCR", KEYS[1])
if current == 1 then
	redis.call("EXPIRE", KEYS[1], ARGV[1])
elseif current == tonumber(ARGV[2]) + 1 and tonumber(ARGV[3]) > tonumber(ARGV[1]) then
	redis.call("EXPIRE", KEYS[1], ARGV[3])
end
return {current, redis.call("TTL", KEYS[1])}
`)

// RateLimitMiddleware 基于 Redis 的登录/注册限流，未配置 Redis 时放行
func RateLimitMiddleware(client *redis.Client, rule RateLimitRule, keyFunc RateLimitKeyFunc) gin.HandlerFunc {
	msgKey := strings.TrimSpace(rule.MessageKey)
	if msgKey == "" {
		msgKey = "error.too_many_requests"
	}
	return func(c *gin.Context) {
		if client == nil || !rule.enabled() {
			c.Next()
			return
		}
		dimension := ""
		if keyFunc != nil {
			dimension = strings.TrimSpace(keyFunc(c))
		}
		if dimension == "" {
			dimension = c.ClientIP()
		}

		values, err := rateLimitScript.Run(c.Request.Context(), client, []string{rule.key(dimension)},
			rule.WindowSeconds, rule.MaxRequests, rule.BlockSeconds).Int64Slice()
		if err != nil || len(values) < 2 {
			handlershared.RequestLog(c).Errorw("rate_limit_eval_failed", "prefix", rule.Prefix, "error", err)
			response.Error(c, response.CodeInternal, i18n.T(i18n.ResolveLocale(c), "error.internal"))
			c.Abort()
			return
		}
		if wait := rule.retryAfter(values[0], values[1]); wait > 0 {
			c.Header("Retry-After", strconv.Itoa(wait))
			response.Error(c, response.CodeTooManyRequests, i18n.T(i18n.ResolveLocale(c), msgKey))
			c.Abort()
			return
		}
		c.Next()
	}
}

// KeyByIP 按客户端 IP 限流
func KeyByIP(c *gin.Context) string {
	return c.ClientIP()
}

// KeyByIPAndJSONField 按 JSON 字段(小写)+IP 限流，同一 IP 下不同账号互不影响
func KeyByIPAndJSONField(field string) RateLimitKeyFunc {
	return func(c *gin.Context) string {
		value := strings.ToLower(peekJSONString(c, field))
		if value == "" {
			return c.ClientIP()
		}
		return value + "|" + c.ClientIP()
	}
}

// peekJSONString 读取请求体中的字符串字段并还原 Body 供后续绑定
func peekJSONString(c *gin.Context, field string) string {
	if c == nil || c.Request == nil || c.Request.Body == nil {
		return ""
	}
	body, err := io.ReadAll(c.Request.Body)
	c.Request.Body = io.NopCloser(bytes.NewReader(body))
	if err != nil || len(body) == 0 {
		return ""
	}
	var payload map[string]json.RawMessage
	if err := json.Unmarshal(body, &payload); err != nil {
		return ""
	}
	var text string
	if err := json.Unmarshal(payload[field], &text); err != nil {
		return ""
	}
	return strings.TrimSpace(text)
}
