package public

import (
	handlershared "github.com/tryon-shop/internal/http/handlers/shared"
	"github.com/tryon-shop/internal/http/response"
	"github.com/tryon-shop/internal/service"

	"github.com/gin-gonic/gin"
)

type mappedHandlerError = handlershared.MappedError

var catalogErrorRules = []mappedHandlerError{
	{Target: service.ErrProductNotFound, Code: response.CodeNotFound, Key: "error.product_not_found"},
	{Target: service.ErrProductNotAvailable, Code: response.CodeBadRequest, Key: "error.product_not_available"},
	{Target: service.ErrReviewExists, Code: response.CodeBadRequest, Key: "error.review_exists"},
	{Target: service.ErrNotFound, Code: response.CodeNotFound, Key: "error.not_found"},
}

var cartErrorRules = []mappedHandlerError{
	{Target: service.ErrCartItemNotFound, Code: response.CodeNotFound, Key: "error.cart_item_not_found"},
	{Target: service.ErrProductNotFound, Code: response.CodeNotFound, Key: "error.product_not_found"},
	{Target: service.ErrProductNotAvailable, Code: response.CodeBadRequest, Key: "error.product_not_available"},
}

var addressErrorRules = []mappedHandlerError{
	{Target: service.ErrAddressNotFound, Code: response.CodeNotFound, Key: "error.address_not_found"},
}

var orderErrorRules = handlershared.ConcatMappedErrors([]mappedHandlerError{
	{Target: service.ErrCartEmpty, Code: response.CodeBadRequest, Key: "error.cart_empty"},
	{Target: service.ErrCartChanged, Code: response.CodeBadRequest, Key: "error.cart_changed"},
	{Target: service.ErrProductNotAvailable, Code: response.CodeBadRequest, Key: "error.product_not_available"},
	{Target: service.ErrOrderNotFound, Code: response.CodeNotFound, Key: "error.order_not_found"},
	{Target: service.ErrOrderCancelNotAllowed, Code: response.CodeBadRequest, Key: "error.order_cancel_not_allowed"},
}, addressErrorRules)

var authErrorRules = []mappedHandlerError{
	{Target: service.ErrInvalidCredentials, Code: response.CodeUnauthorized, Key: "error.invalid_credentials"},
	{Target: service.ErrUserDisabled, Code: response.CodeUnauthorized, Key: "error.user_disabled"},
	{Target: service.ErrInvalidToken, Code: response.CodeUnauthorized, Key: "error.invalid_token"},
	{Target: service.ErrInvalidPassword, Code: response.CodeBadRequest, Key: "error.password_invalid"},
	{Target: service.ErrPasswordMismatch, Code: response.CodeBadRequest, Key: "error.password_mismatch"},
	{Target: service.ErrUsernameExists, Code: response.CodeBadRequest, Key: "error.username_exists"},
	{Target: service.ErrEmailExists, Code: response.CodeBadRequest, Key: "error.email_exists"},
	{Target: service.ErrInvalidEmail, Code: response.CodeBadRequest, Key: "error.email_invalid"},
	{Target: service.ErrNotFound, Code: response.CodeNotFound, Key: "error.not_found"},
}

var uploadErrorRules = []mappedHandlerError{
	{Target: service.ErrFileTooLarge, Code: response.CodeBadRequest, Key: "error.file_too_large"},
	{Target: service.ErrFileTypeNotAllow, Code: response.CodeBadRequest, Key: "error.file_type_not_allowed"},
	{Target: service.ErrImageInvalid, Code: response.CodeBadRequest, Key: "error.image_invalid"},
	{Target: service.ErrStorageNotReady, Code: response.CodeInternal, Key: "error.storage_unavailable"},
}

func respondWithMappedError(c *gin.Context, err error, rules []mappedHandlerError, fallbackKey string) {
	handlershared.RespondServiceError(c, err, rules, response.CodeInternal, fallbackKey)
}
