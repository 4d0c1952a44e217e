// Package pda 计算链上记录的派生地址。
// 与链上程序按字节约定命名空间标签和序列化顺序（整数一律小端），
// 任何偏差都会表现为地址错位（查不到账户），而不是解码失败。
package pda

import (
	"encoding/binary"
	"fmt"

	"github.com/gagliardetto/solana-go"
)

// 命名空间标签，必须与链上程序逐字节一致
const (
	CampaignCounterSeed = "campaign_counter"
	CampaignSeed        = "campaign"
	MilestoneSeed       = "milestone"
	ContributionSeed    = "contribution"
	CampaignVaultSeed   = "campaign_vault"
)

// InvalidInputError 派生输入非法（属调用方编程错误，派生本身不做 I/O 也不会失败）
type InvalidInputError struct {
	Field  string
	Reason string
}

func (e *InvalidInputError) Error() string {
	return fmt.Sprintf("invalid derivation input %s: %s", e.Field, e.Reason)
}

// Deriver 绑定单个程序地址的派生器
type Deriver struct {
	programID solana.PublicKey
}

// New 创建派生器
func New(programID solana.PublicKey) (*Deriver, error) {
	if programID.IsZero() {
		return nil, &InvalidInputError{Field: "programID", Reason: "zero public key"}
	}
	return &Deriver{programID: programID}, nil
}

// ProgramID 返回绑定的程序地址
func (d *Deriver) ProgramID() solana.PublicKey {
	return d.programID
}

// CampaignCounter 全局活动计数器地址（单例，无业务参数）
func (d *Deriver) CampaignCounter() (solana.PublicKey, uint8, error) {
	return solana.FindProgramAddress([][]byte{[]byte(CampaignCounterSeed)}, d.programID)
}

// Campaign 按 (创建者, 创建时序号) 派生活动地址。
// 序号必须是创建时刻重新拉取的计数器值：同一输入永远得到同一地址，
// 重试失败的创建前必须先重新确认计数器，否则会撞到已占用的地址。
func (d *Deriver) Campaign(creator solana.PublicKey, campaignID uint64) (solana.PublicKey, uint8, error) {
	if creator.IsZero() {
		return solana.PublicKey{}, 0, &InvalidInputError{Field: "creator", Reason: "zero public key"}
	}
	var id [8]byte
	binary.LittleEndian.PutUint64(id[:], campaignID)
	return solana.FindProgramAddress(
		[][]byte{[]byte(CampaignSeed), creator.Bytes(), id[:]},
		d.programID,
	)
}

// CampaignVault 活动资金托管账户地址，一个活动一个，与出资人无关
func (d *Deriver) CampaignVault(campaign solana.PublicKey) (solana.PublicKey, uint8, error) {
	if campaign.IsZero() {
		return solana.PublicKey{}, 0, &InvalidInputError{Field: "campaign", Reason: "zero public key"}
	}
	return solana.FindProgramAddress(
		[][]byte{[]byte(CampaignVaultSeed), campaign.Bytes()},
		d.programID,
	)
}

// Contribution 按 (活动, 出资人) 派生出资记录地址。
// 同一对输入永远得到同一地址，链上据此保证每对至多一条记录、重复出资累加。
func (d *Deriver) Contribution(campaign, contributor solana.PublicKey) (solana.PublicKey, uint8, error) {
	if campaign.IsZero() {
		return solana.PublicKey{}, 0, &InvalidInputError{Field: "campaign", Reason: "zero public key"}
	}
	if contributor.IsZero() {
		return solana.PublicKey{}, 0, &InvalidInputError{Field: "contributor", Reason: "zero public key"}
	}
	return solana.FindProgramAddress(
		[][]byte{[]byte(ContributionSeed), campaign.Bytes(), contributor.Bytes()},
		d.programID,
	)
}

// Milestone 按 (活动, 里程碑序号) 派生里程碑地址。
// 序号由调用方从 0 起连续分配，跳号或复用属调用方错误。
func (d *Deriver) Milestone(campaign solana.PublicKey, milestoneIndex int) (solana.PublicKey, uint8, error) {
	if campaign.IsZero() {
		return solana.PublicKey{}, 0, &InvalidInputError{Field: "campaign", Reason: "zero public key"}
	}
	if milestoneIndex < 0 || milestoneIndex > 255 {
		return solana.PublicKey{}, 0, &InvalidInputError{
			Field:  "milestoneIndex",
			Reason: fmt.Sprintf("%d out of range [0,255]", milestoneIndex),
		}
	}
	return solana.FindProgramAddress(
		[][]byte{[]byte(MilestoneSeed), campaign.Bytes(), {byte(milestoneIndex)}},
		d.programID,
	)
}
