package service

import (
	"strings"
	"unicode"

	"github.com/tryon-shop/internal/config"
)

type passwordPolicyError struct {
	key  string
	args []interface{}
}

func (e passwordPolicyError) Error() string        { return e.key }
func (e passwordPolicyError) Is(target error) bool { return target == ErrWeakPassword }
func (e passwordPolicyError) Key() string          { return e.key }
func (e passwordPolicyError) Args() []interface{}  { return e.args }

func weakPassword(key string, args ...interface{}) error {
	return passwordPolicyError{key: key, args: args}
}

// 常见弱口令，比较时忽略大小写
var commonPasswords = map[string]struct{}{
	"password":  {}, "password1": {}, "password123": {}, "12345678": {}, "123456789": {},
	"qwerty123": {}, "qwertyuiop": {}, "iloveyou": {}, "letmein1": {}, "welcome1": {},
	"admin123":  {}, "abc12345": {}, "shopping1": {}, "fashion1": {},
}

type passwordClasses struct {
	upper, lower, digit, special bool
}

func classifyPassword(password string) passwordClasses {
	var pc passwordClasses
	for _, r := range password {
		switch {
		case unicode.IsUpper(r):
			pc.upper = true
		case unicode.IsLower(r):
			pc.lower = true
		case unicode.IsDigit(r):
			pc.digit = true
		default:
			pc.special = true
		}
	}
	return pc
}

// similarToAttributes 密码包含用户名或邮箱前缀(≥3 字符)即视为过于相似
func similarToAttributes(password string, attrs []string) bool {
	lowered := strings.ToLower(password)
	for _, attr := range attrs {
		attr = strings.ToLower(strings.TrimSpace(attr))
		if at := strings.IndexByte(attr, '@'); at >= 0 {
			attr = attr[:at]
		}
		if len(attr) >= 3 && strings.Contains(lowered, attr) {
			return true
		}
	}
	return false
}

// validatePassword 按配置策略校验，attrs 为用户名、邮箱等账号属性。
// 全数字、常见弱口令与账号属性相似的密码无论策略如何都拒绝。
func validatePassword(policy config.PasswordPolicyConfig, password string, attrs ...string) error {
	if password == "" {
		return weakPassword("error.password_required")
	}
	if policy.MinLength > 0 && len([]rune(password)) < policy.MinLength {
		return weakPassword("error.password_min_length", policy.MinLength)
	}
	if _, ok := commonPasswords[strings.ToLower(password)]; ok {
		return weakPassword("error.password_too_common")
	}
	if similarToAttributes(password, attrs) {
		return weakPassword("error.password_too_similar")
	}

	pc := classifyPassword(password)
	checks := []struct {
		failed bool
		key    string
	}{
		{pc.digit && !pc.upper && !pc.lower && !pc.special, "error.password_all_numeric"},
		{policy.RequireUpper && !pc.upper, "error.password_require_upper"},
		{policy.RequireLower && !pc.lower, "error.password_require_lower"},
		{policy.RequireNumber && !pc.digit, "error.password_require_number"},
		{policy.RequireSpecial && !pc.special, "error.password_require_special"},
	}
	for _, check := range checks {
		if check.failed {
			return weakPassword(check.key)
		}
	}
	return nil
}
