package response

import "fmt"

// AppError 处理器层错误：业务码、已翻译的文案与原始错误
type AppError struct {
	Code    int
	Key     string
	Message string
	Err     error
}

func (e *AppError) Error() string {
	if e.Err == nil {
		return fmt.Sprintf("%s (%d)", e.Message, e.Code)
	}
	return fmt.Sprintf("%s (%d): %v", e.Message, e.Code, e.Err)
}

func (e *AppError) Unwrap() error { return e.Err }

// Status 对应的 HTTP 状态码
func (e *AppError) Status() int { return HTTPStatus(e.Code) }

// WrapError 包装错误，key 为空表示文案非 i18n 生成
func WrapError(code int, key, message string, err error) *AppError {
	return &AppError{Code: code, Key: key, Message: message, Err: err}
}
