package handler

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/gagliardetto/solana-go"
	"github.com/gin-gonic/gin"

	"github.com/hetansh2220/hoperise/internal/cache"
	"github.com/hetansh2220/hoperise/internal/ledger"
	"github.com/hetansh2220/hoperise/internal/model"
)

// CampaignHandler 活动读接口
type CampaignHandler struct {
	store    *cache.Store
	resolver resolver
}

// NewCampaignHandler 创建活动读接口
func NewCampaignHandler(store *cache.Store, r resolver) *CampaignHandler {
	return &CampaignHandler{
		store:    store,
		resolver: r,
	}
}

// campaignParam 解析路径里的活动地址
func campaignParam(c *gin.Context) (solana.PublicKey, bool) {
	address, err := solana.PublicKeyFromBase58(c.Param("address"))
	if err != nil {
		ErrorResponse(c, http.StatusBadRequest, "invalid campaign address")
		return solana.PublicKey{}, false
	}
	return address, true
}

// GetCampaigns 获取活动列表，sort 支持 featured（完成度降序）与 latest（创建时间降序）
func (h *CampaignHandler) GetCampaigns(c *gin.Context) {
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "0"))

	var (
		campaigns []model.Campaign
		err       error
	)
	switch c.Query("sort") {
	case "featured":
		campaigns, err = h.store.FeaturedCampaigns(c.Request.Context(), limit)
	case "latest":
		campaigns, err = h.store.LatestCampaigns(c.Request.Context(), limit)
	default:
		campaigns, err = h.store.ListCampaigns(c.Request.Context())
	}
	if err != nil {
		ErrorResponse(c, http.StatusInternalServerError, err.Error())
		return
	}

	now := time.Now()
	views := make([]CampaignView, 0, len(campaigns))
	for i := range campaigns {
		views = append(views, toCampaignView(&campaigns[i], h.resolver, now))
	}

	SuccessResponse(c, http.StatusOK, "", gin.H{"campaigns": views, "total": len(views)})
}

// GetCampaign 获取活动详情。链上无此记录返回 404，这是预期结果而非服务错误。
func (h *CampaignHandler) GetCampaign(c *gin.Context) {
	address, ok := campaignParam(c)
	if !ok {
		return
	}

	campaign, err := h.store.GetCampaign(c.Request.Context(), address)
	if err != nil {
		if errors.Is(err, ledger.ErrNotFound) {
			ErrorResponse(c, http.StatusNotFound, "campaign not found")
			return
		}
		ErrorResponse(c, http.StatusInternalServerError, err.Error())
		return
	}

	SuccessResponse(c, http.StatusOK, "", gin.H{"campaign": toCampaignView(campaign, h.resolver, time.Now())})
}

// GetMilestones 获取活动里程碑，恒按 index 升序
func (h *CampaignHandler) GetMilestones(c *gin.Context) {
	address, ok := campaignParam(c)
	if !ok {
		return
	}

	milestones, err := h.store.ListMilestones(c.Request.Context(), address)
	if err != nil {
		ErrorResponse(c, http.StatusInternalServerError, err.Error())
		return
	}

	views := make([]MilestoneView, 0, len(milestones))
	for i := range milestones {
		views = append(views, toMilestoneView(&milestones[i]))
	}

	SuccessResponse(c, http.StatusOK, "", gin.H{"milestones": views})
}

// GetContributions 获取活动出资记录（实时动态流），恒按出资时间降序
func (h *CampaignHandler) GetContributions(c *gin.Context) {
	address, ok := campaignParam(c)
	if !ok {
		return
	}

	contributions, err := h.store.ListContributions(c.Request.Context(), address)
	if err != nil {
		ErrorResponse(c, http.StatusInternalServerError, err.Error())
		return
	}

	views := make([]ContributionView, 0, len(contributions))
	for i := range contributions {
		views = append(views, toContributionView(&contributions[i]))
	}

	SuccessResponse(c, http.StatusOK, "", gin.H{"contributions": views})
}

// GetContribution 查询某出资人在该活动的出资记录
func (h *CampaignHandler) GetContribution(c *gin.Context) {
	address, ok := campaignParam(c)
	if !ok {
		return
	}
	contributor, err := solana.PublicKeyFromBase58(c.Param("contributor"))
	if err != nil {
		ErrorResponse(c, http.StatusBadRequest, "invalid contributor address")
		return
	}

	contribution, err := h.store.GetContribution(c.Request.Context(), address, contributor)
	if err != nil {
		if errors.Is(err, ledger.ErrNotFound) {
			ErrorResponse(c, http.StatusNotFound, "contribution not found")
			return
		}
		ErrorResponse(c, http.StatusInternalServerError, err.Error())
		return
	}

	SuccessResponse(c, http.StatusOK, "", gin.H{"contribution": toContributionView(contribution)})
}

// WatchCampaign 登记详情页查看，开启该活动的出资动态轮询
func (h *CampaignHandler) WatchCampaign(c *gin.Context) {
	address, ok := campaignParam(c)
	if !ok {
		return
	}
	h.store.Watch(address)
	SuccessResponse(c, http.StatusOK, "watching", nil)
}

// UnwatchCampaign 注销详情页查看，引用归零后轮询停止
func (h *CampaignHandler) UnwatchCampaign(c *gin.Context) {
	address, ok := campaignParam(c)
	if !ok {
		return
	}
	h.store.Unwatch(address)
	SuccessResponse(c, http.StatusOK, "unwatched", nil)
}

// GetStats 获取平台汇总统计
func (h *CampaignHandler) GetStats(c *gin.Context) {
	stats, err := h.store.Stats(c.Request.Context())
	if err != nil {
		ErrorResponse(c, http.StatusInternalServerError, err.Error())
		return
	}
	SuccessResponse(c, http.StatusOK, "", stats)
}
