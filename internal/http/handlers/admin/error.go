package admin

import (
	handlershared "github.com/tryon-shop/internal/http/handlers/shared"
	"github.com/tryon-shop/internal/http/response"
	"github.com/tryon-shop/internal/i18n"
	"github.com/tryon-shop/internal/service"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

type mappedHandlerError = handlershared.MappedError

var productErrorRules = []mappedHandlerError{
	{Target: service.ErrProductNotFound, Code: response.CodeNotFound, Key: "error.product_not_found"},
	{Target: service.ErrImageNotFound, Code: response.CodeNotFound, Key: "error.image_not_found"},
	{Target: service.ErrCategoryNotFound, Code: response.CodeBadRequest, Key: "error.category_not_found"},
	{Target: service.ErrBrandNotFound, Code: response.CodeBadRequest, Key: "error.brand_not_found"},
	{Target: service.ErrSlugExists, Code: response.CodeBadRequest, Key: "error.slug_exists"},
	{Target: service.ErrInvalidBulkAction, Code: response.CodeBadRequest, Key: "error.bulk_action_invalid"},
}

var categoryErrorRules = []mappedHandlerError{
	{Target: service.ErrCategoryNotFound, Code: response.CodeNotFound, Key: "error.category_not_found"},
	{Target: service.ErrBrandNotFound, Code: response.CodeNotFound, Key: "error.brand_not_found"},
	{Target: service.ErrSlugExists, Code: response.CodeBadRequest, Key: "error.slug_exists"},
	{Target: service.ErrCategoryInUse, Code: response.CodeBadRequest, Key: "error.category_in_use"},
	{Target: service.ErrBrandInUse, Code: response.CodeBadRequest, Key: "error.brand_in_use"},
}

var orderErrorRules = []mappedHandlerError{
	{Target: service.ErrOrderNotFound, Code: response.CodeNotFound, Key: "error.order_not_found"},
	{Target: service.ErrInvalidOrderStatus, Code: response.CodeBadRequest, Key: "error.order_status_invalid"},
	{Target: service.ErrInvalidPaymentStatus, Code: response.CodeBadRequest, Key: "error.payment_status_invalid"},
	{Target: service.ErrInvalidStatusTransition, Code: response.CodeBadRequest, Key: "error.order_status_transition"},
}

var reviewErrorRules = []mappedHandlerError{
	{Target: service.ErrReviewNotFound, Code: response.CodeNotFound, Key: "error.review_not_found"},
}

var adminAccountErrorRules = []mappedHandlerError{
	{Target: service.ErrInvalidCredentials, Code: response.CodeUnauthorized, Key: "error.invalid_credentials"},
	{Target: service.ErrAdminDisabled, Code: response.CodeUnauthorized, Key: "error.admin_disabled"},
	{Target: service.ErrAdminExists, Code: response.CodeBadRequest, Key: "error.admin_exists"},
	{Target: service.ErrAdminNotFound, Code: response.CodeNotFound, Key: "error.admin_not_found"},
	{Target: service.ErrInvalidRole, Code: response.CodeBadRequest, Key: "error.role_invalid"},
}

var uploadErrorRules = []mappedHandlerError{
	{Target: service.ErrFileTooLarge, Code: response.CodeBadRequest, Key: "error.file_too_large"},
	{Target: service.ErrFileTypeNotAllow, Code: response.CodeBadRequest, Key: "error.file_type_not_allowed"},
	{Target: service.ErrImageInvalid, Code: response.CodeBadRequest, Key: "error.image_invalid"},
	{Target: service.ErrStorageNotReady, Code: response.CodeInternal, Key: "error.storage_unavailable"},
}

func requestLog(c *gin.Context) *zap.SugaredLogger {
	return handlershared.RequestLog(c)
}

func respondError(c *gin.Context, code int, key string, err error) {
	handlershared.RespondError(c, code, key, err)
}

func respondWithMappedError(c *gin.Context, err error, rules []mappedHandlerError, fallbackKey string) {
	handlershared.RespondServiceError(c, err, rules, response.CodeInternal, fallbackKey)
}

func successWithKey(c *gin.Context, key string, data interface{}) {
	response.SuccessWithMsg(c, i18n.T(i18n.ResolveLocale(c), key), data)
}

func bindJSON(c *gin.Context, dest interface{}) bool {
	return handlershared.BindJSON(c, dest)
}

var productUploadErrorRules = handlershared.ConcatMappedErrors(productErrorRules, uploadErrorRules)
