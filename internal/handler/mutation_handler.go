package handler

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/hetansh2220/hoperise/internal/cache"
	"github.com/hetansh2220/hoperise/internal/ledger"
	"github.com/hetansh2220/hoperise/internal/units"
)

// MutationHandler 活动写接口：组装并提交链上交易，落账后立即失效相关缓存
type MutationHandler struct {
	client *ledger.Client
	store  *cache.Store
}

// NewMutationHandler 创建活动写接口
func NewMutationHandler(client *ledger.Client, store *cache.Store) *MutationHandler {
	return &MutationHandler{
		client: client,
		store:  store,
	}
}

// CreateCampaign 创建活动
func (h *MutationHandler) CreateCampaign(c *gin.Context) {
	var req CreateCampaignRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		ErrorResponse(c, http.StatusBadRequest, err.Error())
		return
	}

	fundingGoal, err := units.ParseDisplay(req.FundingGoal)
	if err != nil {
		ErrorResponse(c, http.StatusBadRequest, "invalid funding goal: "+err.Error())
		return
	}

	sig, campaign, err := h.client.CreateCampaign(c.Request.Context(), ledger.CreateCampaignParams{
		Title:            req.Title,
		ShortDescription: req.ShortDescription,
		Category:         req.Category,
		CoverImageRef:    req.CoverImageRef,
		StoryRef:         req.StoryRef,
		FundingGoal:      fundingGoal,
		DurationDays:     req.DurationDays,
	})
	if err != nil {
		mutationErrorResponse(c, err)
		return
	}

	h.store.InvalidateCampaign(campaign)
	SuccessResponse(c, http.StatusOK, "campaign created", gin.H{
		"signature": sig.String(),
		"campaign":  campaign.String(),
	})
}

// FundCampaign 出资
func (h *MutationHandler) FundCampaign(c *gin.Context) {
	address, ok := campaignParam(c)
	if !ok {
		return
	}

	var req FundCampaignRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		ErrorResponse(c, http.StatusBadRequest, err.Error())
		return
	}
	amount, err := units.ParseDisplay(req.Amount)
	if err != nil {
		ErrorResponse(c, http.StatusBadRequest, "invalid amount: "+err.Error())
		return
	}
	if amount == 0 {
		ErrorResponse(c, http.StatusBadRequest, "amount must be greater than zero")
		return
	}

	sig, err := h.client.FundCampaign(c.Request.Context(), address, amount)
	if err != nil {
		mutationErrorResponse(c, err)
		return
	}

	h.store.InvalidateCampaign(address)
	SuccessResponse(c, http.StatusOK, "contribution submitted", gin.H{"signature": sig.String()})
}

// WithdrawFunds 达标后提取资金
func (h *MutationHandler) WithdrawFunds(c *gin.Context) {
	address, ok := campaignParam(c)
	if !ok {
		return
	}

	sig, err := h.client.WithdrawFunds(c.Request.Context(), address)
	if err != nil {
		mutationErrorResponse(c, err)
		return
	}

	h.store.InvalidateCampaign(address)
	SuccessResponse(c, http.StatusOK, "funds withdrawn", gin.H{"signature": sig.String()})
}

// AddMilestone 追加里程碑
func (h *MutationHandler) AddMilestone(c *gin.Context) {
	address, ok := campaignParam(c)
	if !ok {
		return
	}

	var req AddMilestoneRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		ErrorResponse(c, http.StatusBadRequest, err.Error())
		return
	}
	targetAmount, err := units.ParseDisplay(req.TargetAmount)
	if err != nil {
		ErrorResponse(c, http.StatusBadRequest, "invalid target amount: "+err.Error())
		return
	}

	sig, err := h.client.AddMilestone(c.Request.Context(), address, req.MilestoneIndex, req.Title, targetAmount)
	if err != nil {
		mutationErrorResponse(c, err)
		return
	}

	h.store.InvalidateCampaign(address)
	SuccessResponse(c, http.StatusOK, "milestone added", gin.H{"signature": sig.String()})
}

// CompleteMilestone 标记里程碑达成
func (h *MutationHandler) CompleteMilestone(c *gin.Context) {
	address, ok := campaignParam(c)
	if !ok {
		return
	}
	index, err := strconv.Atoi(c.Param("index"))
	if err != nil {
		ErrorResponse(c, http.StatusBadRequest, "invalid milestone index")
		return
	}

	milestone, _, err := h.client.Deriver().Milestone(address, index)
	if err != nil {
		ErrorResponse(c, http.StatusBadRequest, err.Error())
		return
	}

	sig, err := h.client.CompleteMilestone(c.Request.Context(), address, milestone)
	if err != nil {
		mutationErrorResponse(c, err)
		return
	}

	h.store.InvalidateCampaign(address)
	SuccessResponse(c, http.StatusOK, "milestone completed", gin.H{"signature": sig.String()})
}

// CloseCampaign 关闭活动
func (h *MutationHandler) CloseCampaign(c *gin.Context) {
	address, ok := campaignParam(c)
	if !ok {
		return
	}

	sig, err := h.client.CloseCampaign(c.Request.Context(), address)
	if err != nil {
		mutationErrorResponse(c, err)
		return
	}

	h.store.InvalidateCampaign(address)
	SuccessResponse(c, http.StatusOK, "campaign closed", gin.H{"signature": sig.String()})
}

// LedgerStatus 账本状态：全局计数器是否已初始化、服务端签名身份
func (h *MutationHandler) LedgerStatus(c *gin.Context) {
	initialized, err := h.client.IsInitialized(c.Request.Context())
	if err != nil {
		ErrorResponse(c, http.StatusBadGateway, err.Error())
		return
	}

	signer := ""
	if addr := h.client.SignerAddress(); !addr.IsZero() {
		signer = addr.String()
	}

	SuccessResponse(c, http.StatusOK, "", gin.H{
		"initialized": initialized,
		"signer":      signer,
	})
}

// ClaimRefund 未达标活动申领退款
func (h *MutationHandler) ClaimRefund(c *gin.Context) {
	address, ok := campaignParam(c)
	if !ok {
		return
	}

	sig, err := h.client.ClaimRefund(c.Request.Context(), address)
	if err != nil {
		mutationErrorResponse(c, err)
		return
	}

	h.store.InvalidateCampaign(address)
	SuccessResponse(c, http.StatusOK, "refund claimed", gin.H{"signature": sig.String()})
}
