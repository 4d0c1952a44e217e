package model

import "github.com/gagliardetto/solana-go"

// MaxMilestonesPerCampaign 单个活动的里程碑上限（链上程序同样约束）
const MaxMilestonesPerCampaign = 10

// Milestone 活动里程碑，按 (campaign, milestone_index) 唯一
// index 从 0 开始且一经分配不变，展示顺序严格按 index 升序。
type Milestone struct {
	Address        solana.PublicKey `json:"address"`
	Campaign       solana.PublicKey `json:"campaign"`
	MilestoneIndex uint8            `json:"milestone_index"`
	Title          string           `json:"title"`
	TargetAmount   uint64           `json:"target_amount"`
	IsCompleted    bool             `json:"is_completed"`
	Bump           uint8            `json:"bump"`
}
