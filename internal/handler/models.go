package handler

import (
	"time"

	"github.com/hetansh2220/hoperise/internal/model"
	"github.com/hetansh2220/hoperise/internal/units"
)

// 通用响应结构
type Response struct {
	Success bool        `json:"success"`
	Message string      `json:"message"`
	Data    interface{} `json:"data"`
}

// CampaignView 活动展示模型：链上快照加派生字段与已解析的内容地址
type CampaignView struct {
	Address          string  `json:"address"`
	CampaignID       uint64  `json:"campaignId"`
	Creator          string  `json:"creator"`
	Title            string  `json:"title"`
	ShortDescription string  `json:"shortDescription"`
	Category         string  `json:"category"`
	CoverImageURL    string  `json:"coverImageUrl"`
	StoryURL         string  `json:"storyUrl"`
	FundingGoal      string  `json:"fundingGoal"`
	AmountRaised     string  `json:"amountRaised"`
	BackerCount      uint64  `json:"backerCount"`
	ProgressPercent  float64 `json:"progressPercent"`
	DaysLeft         int64   `json:"daysLeft"`
	Deadline         int64   `json:"deadline"`
	CreatedAt        int64   `json:"createdAt"`
	IsActive         bool    `json:"isActive"`
	MilestoneCount   uint8   `json:"milestoneCount"`
}

// MilestoneView 里程碑展示模型
type MilestoneView struct {
	Address        string `json:"address"`
	MilestoneIndex uint8  `json:"milestoneIndex"`
	Title          string `json:"title"`
	TargetAmount   string `json:"targetAmount"`
	IsCompleted    bool   `json:"isCompleted"`
}

// ContributionView 出资记录展示模型
type ContributionView struct {
	Address       string `json:"address"`
	Contributor   string `json:"contributor"`
	Amount        string `json:"amount"`
	ContributedAt int64  `json:"contributedAt"`
	RefundClaimed bool   `json:"refundClaimed"`
}

// resolver 内容引用解析依赖
type resolver interface {
	Resolve(ref string) string
}

// toCampaignView 组装活动展示模型
func toCampaignView(c *model.Campaign, r resolver, now time.Time) CampaignView {
	return CampaignView{
		Address:          c.Address.String(),
		CampaignID:       c.CampaignID,
		Creator:          c.Creator.String(),
		Title:            c.Title,
		ShortDescription: c.ShortDescription,
		Category:         string(c.Category),
		CoverImageURL:    r.Resolve(c.CoverImageRef),
		StoryURL:         r.Resolve(c.StoryRef),
		FundingGoal:      units.FormatDisplay(c.FundingGoal),
		AmountRaised:     units.FormatDisplay(c.AmountRaised),
		BackerCount:      c.BackerCount,
		ProgressPercent:  c.ProgressPercent(),
		DaysLeft:         c.DaysLeft(now),
		Deadline:         c.Deadline,
		CreatedAt:        c.CreatedAt,
		IsActive:         c.IsActive,
		MilestoneCount:   c.MilestoneCount,
	}
}

func toMilestoneView(m *model.Milestone) MilestoneView {
	return MilestoneView{
		Address:        m.Address.String(),
		MilestoneIndex: m.MilestoneIndex,
		Title:          m.Title,
		TargetAmount:   units.FormatDisplay(m.TargetAmount),
		IsCompleted:    m.IsCompleted,
	}
}

func toContributionView(c *model.Contribution) ContributionView {
	return ContributionView{
		Address:       c.Address.String(),
		Contributor:   c.Contributor.String(),
		Amount:        units.FormatDisplay(c.Amount),
		ContributedAt: c.ContributedAt,
		RefundClaimed: c.RefundClaimed,
	}
}

// 请求模型

// CreateCampaignRequest 创建活动请求，金额为展示值字符串
type CreateCampaignRequest struct {
	Title            string `json:"title" binding:"required"`
	ShortDescription string `json:"shortDescription" binding:"required"`
	Category         string `json:"category" binding:"required"`
	CoverImageRef    string `json:"coverImageRef"`
	StoryRef         string `json:"storyRef"`
	FundingGoal      string `json:"fundingGoal" binding:"required"`
	DurationDays     uint64 `json:"durationDays" binding:"required"`
}

// FundCampaignRequest 出资请求
type FundCampaignRequest struct {
	Amount string `json:"amount" binding:"required"`
}

// AddMilestoneRequest 追加里程碑请求
type AddMilestoneRequest struct {
	MilestoneIndex int    `json:"milestoneIndex"`
	Title          string `json:"title" binding:"required"`
	TargetAmount   string `json:"targetAmount" binding:"required"`
}

// PinTextRequest 上传文本内容请求
type PinTextRequest struct {
	Text     string `json:"text" binding:"required"`
	Filename string `json:"filename"`
}
