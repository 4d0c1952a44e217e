package cache

import "github.com/gagliardetto/solana-go"

// 缓存键命名空间，层级与查询维度对应
const keyPrefix = "campaigns"

// CampaignListKey 活动列表
func CampaignListKey() string {
	return keyPrefix + ":list"
}

// CampaignDetailKey 活动详情
func CampaignDetailKey(campaign solana.PublicKey) string {
	return keyPrefix + ":detail:" + campaign.String()
}

// MilestonesKey 某活动的里程碑集合
func MilestonesKey(campaign solana.PublicKey) string {
	return keyPrefix + ":milestones:" + campaign.String()
}

// ContributionsKey 某活动的出资记录集合
func ContributionsKey(campaign solana.PublicKey) string {
	return keyPrefix + ":contributions:" + campaign.String()
}
