package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/hetansh2220/hoperise/internal/ledger"
)

// SuccessResponse 成功响应
func SuccessResponse(c *gin.Context, statusCode int, message string, data interface{}) {
	c.JSON(statusCode, Response{
		Success: true,
		Message: message,
		Data:    data,
	})
}

// ErrorResponse 错误响应
func ErrorResponse(c *gin.Context, statusCode int, message string) {
	c.JSON(statusCode, Response{
		Success: false,
		Message: message,
		Data:    nil,
	})
}

// mutationErrorResponse 变更失败响应：底层消息原样透出，状态码按失败类型映射。
// 不做任何自动重试，用户看到消息后可自行再次发起。
func mutationErrorResponse(c *gin.Context, err error) {
	status := http.StatusInternalServerError

	switch {
	case errors.Is(err, ledger.ErrNoSigner):
		status = http.StatusServiceUnavailable
	case errors.Is(err, ledger.ErrUnauthorized):
		status = http.StatusForbidden
	case errors.Is(err, ledger.ErrNotFound):
		status = http.StatusNotFound
	case errors.Is(err, ledger.ErrGoalNotMet),
		errors.Is(err, ledger.ErrGoalWasMet),
		errors.Is(err, ledger.ErrInsufficientFunds),
		errors.Is(err, ledger.ErrMaxMilestones),
		errors.Is(err, ledger.ErrTargetNotReached),
		errors.Is(err, ledger.ErrRefundAlreadyClaimed),
		errors.Is(err, ledger.ErrCampaignNotActive),
		errors.Is(err, ledger.ErrCampaignEnded):
		status = http.StatusUnprocessableEntity
	}

	var submission *ledger.SubmissionError
	if errors.As(err, &submission) && status == http.StatusInternalServerError {
		// 程序或传输层拒绝但未匹配到已知类型，仍按可重试的提交失败返回
		status = http.StatusBadGateway
	}

	ErrorResponse(c, status, err.Error())
}
