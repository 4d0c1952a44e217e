package ledger

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSubmissionErrorParsesCustomProgramError(t *testing.T) {
	// 0x1776 = 6006 GoalNotMet
	raw := errors.New(`Transaction simulation failed: Error processing Instruction 0: custom program error: 0x1776`)
	err := newSubmissionError(opWithdrawFunds, raw)

	assert.Equal(t, uint32(6006), err.Code)
	assert.ErrorIs(t, err, ErrGoalNotMet)
	assert.NotErrorIs(t, err, ErrUnauthorized)
	// 底层消息原样透传，不追加不改写
	assert.Equal(t, raw.Error(), err.Error())
}

func TestSubmissionErrorParsesAnchorErrorNumber(t *testing.T) {
	raw := errors.New(`AnchorError caused by account: campaign. Error Code: GoalNotMet. Error Number: 6006. Error Message: Funding goal was not met.`)
	err := newSubmissionError(opClaimRefund, raw)

	assert.Equal(t, uint32(6006), err.Code)
	assert.ErrorIs(t, err, ErrGoalNotMet)
}

func TestSubmissionErrorCodeTable(t *testing.T) {
	cases := []struct {
		code   uint32
		target error
	}{
		{6000, ErrUnauthorized},
		{6001, ErrCampaignNotActive},
		{6003, ErrCampaignEnded},
		{6005, ErrGoalWasMet},
		{6006, ErrGoalNotMet},
		{6008, ErrRefundAlreadyClaimed},
		{6011, ErrTargetNotReached},
		{6012, ErrMaxMilestones},
		{6021, ErrInsufficientFunds},
	}
	for _, tc := range cases {
		err := &SubmissionError{Op: opFundCampaign, Code: tc.code, msg: "rejected"}
		assert.ErrorIs(t, err, tc.target, "code %d", tc.code)
	}
}

func TestSubmissionErrorInsufficientFundsByMessage(t *testing.T) {
	// 代币程序的余额不足不带本程序错误码，按消息识别
	raw := errors.New("Transfer: insufficient funds")
	err := newSubmissionError(opFundCampaign, raw)

	assert.Equal(t, uint32(0), err.Code)
	assert.ErrorIs(t, err, ErrInsufficientFunds)
}

func TestSubmissionErrorTransportFailure(t *testing.T) {
	raw := errors.New("rpc: connection refused")
	err := newSubmissionError(opCreateCampaign, raw)

	assert.Equal(t, uint32(0), err.Code)
	assert.Equal(t, "rpc: connection refused", err.Error())
	for _, target := range []error{ErrUnauthorized, ErrGoalNotMet, ErrCampaignEnded} {
		assert.NotErrorIs(t, err, target)
	}
}

func TestSubmissionErrorUnwrap(t *testing.T) {
	raw := errors.New("underlying")
	err := newSubmissionError(opCloseCampaign, raw)
	require.ErrorIs(t, err, raw)
}
