package model

import (
	"time"

	"github.com/gagliardetto/solana-go"
)

// SecondsPerDay 剩余天数换算用
const SecondsPerDay = 86400

// Campaign 众筹活动（链上账户的只读投影）
// 所有资金字段为 base units（10^6 定点整数），权威状态由链上程序持有。
type Campaign struct {
	Address          solana.PublicKey `json:"address"`
	CampaignID       uint64           `json:"campaign_id"`
	Creator          solana.PublicKey `json:"creator"`
	Title            string           `json:"title"`
	ShortDescription string           `json:"short_description"`
	Category         Category         `json:"category"`
	CoverImageRef    string           `json:"cover_image_ref"`
	StoryRef         string           `json:"story_ref"`
	FundingGoal      uint64           `json:"funding_goal"`
	Deadline         int64            `json:"deadline"`
	AmountRaised     uint64           `json:"amount_raised"`
	BackerCount      uint64           `json:"backer_count"`
	IsActive         bool             `json:"is_active"`
	CreatedAt        int64            `json:"created_at"`
	MilestoneCount   uint8            `json:"milestone_count"`
	Bump             uint8            `json:"bump"`
}

// DaysLeft 距截止时间的整天数，已截止时恒为 0
func (c *Campaign) DaysLeft(now time.Time) int64 {
	remaining := c.Deadline - now.Unix()
	if remaining <= 0 {
		return 0
	}
	return remaining / SecondsPerDay
}

// ProgressPercent 筹款进度百分比，内部不封顶（可超过 100）
func (c *Campaign) ProgressPercent() float64 {
	if c.FundingGoal == 0 {
		return 0
	}
	return float64(c.AmountRaised) / float64(c.FundingGoal) * 100
}

// GoalMet 是否已达成筹款目标
func (c *Campaign) GoalMet() bool {
	return c.AmountRaised >= c.FundingGoal
}

// Ended 是否已过截止时间
func (c *Campaign) Ended(now time.Time) bool {
	return now.Unix() >= c.Deadline
}

// CampaignCounter 全局活动计数器（链上单例）
// 计数值只能读后即用，创建前必须重新拉取，严禁跨一次创建缓存。
type CampaignCounter struct {
	Address   solana.PublicKey `json:"address"`
	Count     uint64           `json:"count"`
	Authority solana.PublicKey `json:"authority"`
	Bump      uint8            `json:"bump"`
}
