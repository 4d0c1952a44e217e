package ledger

import (
	"errors"
	"fmt"
	"regexp"
	"strconv"
	"strings"
)

var (
	// ErrNotFound 点查未命中。属预期结果而非异常，调用方据此渲染"不存在"状态。
	ErrNotFound = errors.New("record not found")

	// ErrNoSigner 未配置签名密钥，无法发起链上变更
	ErrNoSigner = errors.New("no signing key configured")

	// 链上程序拒绝的典型原因，通过 errors.Is 与 SubmissionError 匹配
	ErrUnauthorized         = errors.New("unauthorized")
	ErrGoalNotMet           = errors.New("funding goal not met")
	ErrGoalWasMet           = errors.New("funding goal was already met")
	ErrInsufficientFunds    = errors.New("insufficient funds")
	ErrMaxMilestones        = errors.New("maximum number of milestones reached")
	ErrTargetNotReached     = errors.New("milestone target not reached")
	ErrRefundAlreadyClaimed = errors.New("refund already claimed")
	ErrCampaignNotActive    = errors.New("campaign is not active")
	ErrCampaignEnded        = errors.New("campaign has ended")
)

// DecodeError 账户原始字节无法解码为实体（身份字段级别的失败，记录不可渲染）
type DecodeError struct {
	Kind   string
	Reason string
}

func (e *DecodeError) Error() string {
	return fmt.Sprintf("decode %s account: %s", e.Kind, e.Reason)
}

// 链上程序错误码表（与程序声明一致，消息原样保留）
const (
	codeUnauthorized              = 6000
	codeCampaignNotActive         = 6001
	codeCampaignStillActive       = 6002
	codeCampaignEnded             = 6003
	codeCampaignNotEnded          = 6004
	codeGoalWasMet                = 6005
	codeGoalNotMet                = 6006
	codeWithdrawalNotAllowed      = 6007
	codeRefundAlreadyClaimed      = 6008
	codeNoContribution            = 6009
	codeMilestoneAlreadyCompleted = 6010
	codeMilestoneTargetNotReached = 6011
	codeMaxMilestonesReached      = 6012
	codeInsufficientFunds         = 6021
)

// SubmissionError 变更请求被链上程序或传输层拒绝。
// Error() 原样返回底层人类可读消息，不追加也不改写；
// Code 为程序错误码（传输层失败时为 0）。
type SubmissionError struct {
	Op   string
	Code uint32
	msg  string
	err  error
}

func (e *SubmissionError) Error() string { return e.msg }

func (e *SubmissionError) Unwrap() error { return e.err }

// Is 按程序错误码匹配类型化的失败原因
func (e *SubmissionError) Is(target error) bool {
	switch target {
	case ErrUnauthorized:
		return e.Code == codeUnauthorized
	case ErrCampaignNotActive:
		return e.Code == codeCampaignNotActive
	case ErrCampaignEnded:
		return e.Code == codeCampaignEnded
	case ErrGoalWasMet:
		return e.Code == codeGoalWasMet
	case ErrGoalNotMet:
		return e.Code == codeGoalNotMet
	case ErrRefundAlreadyClaimed:
		return e.Code == codeRefundAlreadyClaimed
	case ErrTargetNotReached:
		return e.Code == codeMilestoneTargetNotReached
	case ErrMaxMilestones:
		return e.Code == codeMaxMilestonesReached
	case ErrInsufficientFunds:
		// 代币程序的余额不足不会带上本程序的错误码，按消息兜底识别
		return e.Code == codeInsufficientFunds ||
			strings.Contains(strings.ToLower(e.msg), "insufficient funds")
	}
	return false
}

// RPC 返回内容里的两种错误码形态：
//   "custom program error: 0x1776"
//   "Error Number: 6006"
var (
	customErrRe = regexp.MustCompile(`custom program error: 0x([0-9a-fA-F]+)`)
	anchorErrRe = regexp.MustCompile(`Error Number: (\d+)`)
)

// newSubmissionError 把一次提交失败包装成 SubmissionError，并尽量识别程序错误码
func newSubmissionError(op string, err error) *SubmissionError {
	se := &SubmissionError{Op: op, msg: err.Error(), err: err}

	if m := customErrRe.FindStringSubmatch(se.msg); m != nil {
		if code, perr := strconv.ParseUint(m[1], 16, 32); perr == nil {
			se.Code = uint32(code)
		}
	} else if m := anchorErrRe.FindStringSubmatch(se.msg); m != nil {
		if code, perr := strconv.ParseUint(m[1], 10, 32); perr == nil {
			se.Code = uint32(code)
		}
	}

	return se
}
