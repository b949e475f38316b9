package shared

import (
	"errors"
	"reflect"
	"strings"
	"sync"

	"github.com/tryon-shop/internal/http/response"
	"github.com/tryon-shop/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
)

var registerOnce sync.Once

// bindingTagKeys 校验 tag 到 i18n key 的映射
var bindingTagKeys = map[string]string{
	"required":    "error.field_required",
	"email":       "error.email_invalid",
	"in_phone":    "error.phone_invalid",
	"postal_code": "error.postal_code_invalid",
	"gt":          "error.positive_number",
	"gte":         "error.positive_number",
}

// RegisterValidators 向 gin 的校验引擎注册自定义规则，并使用 json 字段名报告错误。
func RegisterValidators() {
	registerOnce.Do(func() {
		v, ok := binding.Validator.Engine().(*validator.Validate)
		if !ok {
			return
		}
		v.RegisterTagNameFunc(func(field reflect.StructField) string {
			name := strings.SplitN(field.Tag.Get("json"), ",", 2)[0]
			if name == "-" {
				return ""
			}
			if name == "" {
				return field.Name
			}
			return name
		})
		_ = v.RegisterValidation("in_phone", func(fl validator.FieldLevel) bool {
			return service.ValidPhoneNumber(fl.Field().String())
		})
		_ = v.RegisterValidation("postal_code", func(fl validator.FieldLevel) bool {
			return service.ValidPostalCode(fl.Field().String())
		})
		_ = v.RegisterValidation("csv_option", validateCSVOption)
	})
}

// validateCSVOption 逗号分隔的选项列表，空串合法，每项非空且不超过 50 字符
func validateCSVOption(fl validator.FieldLevel) bool {
	raw := strings.TrimSpace(fl.Field().String())
	if raw == "" {
		return true
	}
	for _, item := range strings.Split(raw, ",") {
		item = strings.TrimSpace(item)
		if item == "" || len(item) > 50 {
			return false
		}
	}
	return true
}

// BindJSON 绑定请求体，校验失败时按字段返回 400。
func BindJSON(c *gin.Context, dest interface{}) bool {
	if err := c.ShouldBindJSON(dest); err != nil {
		RespondBindError(c, err)
		return false
	}
	return true
}

// RespondBindError 将 validator 错误转换为字段错误，其他解析错误按 bad_request 返回。
func RespondBindError(c *gin.Context, err error) {
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		RespondError(c, response.CodeBadRequest, "error.bad_request", nil)
		return
	}
	fields := make(map[string]string, len(verrs))
	for _, fe := range verrs {
		key, ok := bindingTagKeys[fe.Tag()]
		if !ok {
			key = "error.field_invalid"
		}
		fields[fe.Field()] = key
	}
	RespondValidationError(c, &service.ValidationError{Fields: fields})
}
