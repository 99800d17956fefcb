package public

import (
	"errors"

	"github.com/prepnext/affiliate-api/internal/http/response"
	"github.com/prepnext/affiliate-api/internal/service"

	"github.com/gin-gonic/gin"
)

// mappedHandlerError 定义业务错误到接口错误响应的映射关系。
type mappedHandlerError struct {
	target error
	code   int
	msg    string
}

func respondWithMappedError(c *gin.Context, err error, rules []mappedHandlerError, fallbackCode int, fallbackMsg string) {
	for _, rule := range rules {
		if errors.Is(err, rule.target) {
			respondError(c, rule.code, rule.msg, nil)
			return
		}
	}
	respondError(c, fallbackCode, fallbackMsg, err)
}

var registerErrorRules = []mappedHandlerError{
	{target: service.ErrValidation, code: response.CodeBadRequest, msg: "error.bad_request"},
	{target: service.ErrCustomLinkTaken, code: response.CodeBadRequest, msg: "error.custom_link_taken"},
}

var resolveErrorRules = []mappedHandlerError{
	{target: service.ErrValidation, code: response.CodeBadRequest, msg: "error.bad_request"},
	{target: service.ErrNotFound, code: response.CodeNotFound, msg: "error.referral_code_not_found"},
}

var visitErrorRules = []mappedHandlerError{
	{target: service.ErrValidation, code: response.CodeBadRequest, msg: "error.bad_request"},
	{target: service.ErrNotFound, code: response.CodeNotFound, msg: "error.affiliate_not_found"},
	{target: service.ErrLinkOwnershipMismatch, code: response.CodeBadRequest, msg: "error.link_mismatch"},
}

var orderCompletedErrorRules = []mappedHandlerError{
	{target: service.ErrValidation, code: response.CodeBadRequest, msg: "error.bad_request"},
	{target: service.ErrAmountInvalid, code: response.CodeBadRequest, msg: "error.amount_invalid"},
	{target: service.ErrNotFound, code: response.CodeNotFound, msg: "error.affiliate_not_found"},
}
