package ledger

import (
	"bytes"
	"fmt"

	bin "github.com/gagliardetto/binary"
	"github.com/gagliardetto/solana-go"

	"github.com/hetansh2220/hoperise/internal/model"
)

// 账户类型判别前缀（8 字节，取自程序 IDL，读取原始字节时必须跳过）
var (
	campaignDiscriminator        = [8]byte{50, 40, 49, 11, 157, 220, 229, 192}
	campaignCounterDiscriminator = [8]byte{166, 204, 173, 116, 178, 217, 1, 210}
	contributionDiscriminator    = [8]byte{182, 187, 14, 111, 72, 167, 242, 212}
	milestoneDiscriminator       = [8]byte{38, 210, 239, 177, 85, 184, 10, 44}
)

// discriminatorLen 判别前缀长度，子账户扫描的 memcmp 偏移也以此为基准
const discriminatorLen = 8

// 原始账户布局（Borsh，小端），字段顺序与链上程序一致
type rawCampaign struct {
	CampaignID       uint64
	Creator          solana.PublicKey
	Title            string
	ShortDescription string
	Category         uint8
	CoverImageURL    string
	StoryURL         string
	FundingGoal      uint64
	Deadline         int64
	AmountRaised     uint64
	BackerCount      uint64
	IsActive         bool
	CreatedAt        int64
	MilestoneCount   uint8
	Bump             uint8
}

type rawCampaignCounter struct {
	Count     uint64
	Authority solana.PublicKey
	Bump      uint8
}

type rawMilestone struct {
	Campaign       solana.PublicKey
	MilestoneIndex uint8
	Title          string
	TargetAmount   uint64
	IsCompleted    bool
	Bump           uint8
}

type rawContribution struct {
	Campaign      solana.PublicKey
	Contributor   solana.PublicKey
	Amount        uint64
	ContributedAt int64
	RefundClaimed bool
	Bump          uint8
}

// stripDiscriminator 校验并跳过账户类型判别前缀
func stripDiscriminator(kind string, want [8]byte, data []byte) ([]byte, error) {
	if len(data) < discriminatorLen {
		return nil, &DecodeError{Kind: kind, Reason: fmt.Sprintf("account data too short (%d bytes)", len(data))}
	}
	if !bytes.Equal(data[:discriminatorLen], want[:]) {
		return nil, &DecodeError{Kind: kind, Reason: "discriminator mismatch"}
	}
	return data[discriminatorLen:], nil
}

// DecodeCampaign 把活动账户原始字节解码为展示实体。
// 分类未识别时退化为 Unknown 标签而不报错；身份字段解码失败则整条记录不可用。
func DecodeCampaign(address solana.PublicKey, data []byte) (*model.Campaign, error) {
	payload, err := stripDiscriminator("campaign", campaignDiscriminator, data)
	if err != nil {
		return nil, err
	}

	var raw rawCampaign
	if err := bin.NewBorshDecoder(payload).Decode(&raw); err != nil {
		return nil, &DecodeError{Kind: "campaign", Reason: err.Error()}
	}

	return &model.Campaign{
		Address:          address,
		CampaignID:       raw.CampaignID,
		Creator:          raw.Creator,
		Title:            raw.Title,
		ShortDescription: raw.ShortDescription,
		Category:         model.CategoryFromIndex(raw.Category),
		CoverImageRef:    raw.CoverImageURL,
		StoryRef:         raw.StoryURL,
		FundingGoal:      raw.FundingGoal,
		Deadline:         raw.Deadline,
		AmountRaised:     raw.AmountRaised,
		BackerCount:      raw.BackerCount,
		IsActive:         raw.IsActive,
		CreatedAt:        raw.CreatedAt,
		MilestoneCount:   raw.MilestoneCount,
		Bump:             raw.Bump,
	}, nil
}

// DecodeCampaignCounter 解码全局活动计数器账户
func DecodeCampaignCounter(address solana.PublicKey, data []byte) (*model.CampaignCounter, error) {
	payload, err := stripDiscriminator("campaign_counter", campaignCounterDiscriminator, data)
	if err != nil {
		return nil, err
	}

	var raw rawCampaignCounter
	if err := bin.NewBorshDecoder(payload).Decode(&raw); err != nil {
		return nil, &DecodeError{Kind: "campaign_counter", Reason: err.Error()}
	}

	return &model.CampaignCounter{
		Address:   address,
		Count:     raw.Count,
		Authority: raw.Authority,
		Bump:      raw.Bump,
	}, nil
}

// DecodeMilestone 解码里程碑账户
func DecodeMilestone(address solana.PublicKey, data []byte) (*model.Milestone, error) {
	payload, err := stripDiscriminator("milestone", milestoneDiscriminator, data)
	if err != nil {
		return nil, err
	}

	var raw rawMilestone
	if err := bin.NewBorshDecoder(payload).Decode(&raw); err != nil {
		return nil, &DecodeError{Kind: "milestone", Reason: err.Error()}
	}

	return &model.Milestone{
		Address:        address,
		Campaign:       raw.Campaign,
		MilestoneIndex: raw.MilestoneIndex,
		Title:          raw.Title,
		TargetAmount:   raw.TargetAmount,
		IsCompleted:    raw.IsCompleted,
		Bump:           raw.Bump,
	}, nil
}

// DecodeContribution 解码出资记录账户
func DecodeContribution(address solana.PublicKey, data []byte) (*model.Contribution, error) {
	payload, err := stripDiscriminator("contribution", contributionDiscriminator, data)
	if err != nil {
		return nil, err
	}

	var raw rawContribution
	if err := bin.NewBorshDecoder(payload).Decode(&raw); err != nil {
		return nil, &DecodeError{Kind: "contribution", Reason: err.Error()}
	}

	return &model.Contribution{
		Address:       address,
		Campaign:      raw.Campaign,
		Contributor:   raw.Contributor,
		Amount:        raw.Amount,
		ContributedAt: raw.ContributedAt,
		RefundClaimed: raw.RefundClaimed,
		Bump:          raw.Bump,
	}, nil
}
