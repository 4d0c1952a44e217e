package model

import "github.com/gagliardetto/solana-go"

// Contribution 出资记录，按 (campaign, contributor) 至多一条
// 同一出资人重复出资累加到同一记录，ContributedAt 保持首次出资时间。
type Contribution struct {
	Address       solana.PublicKey `json:"address"`
	Campaign      solana.PublicKey `json:"campaign"`
	Contributor   solana.PublicKey `json:"contributor"`
	Amount        uint64           `json:"amount"`
	ContributedAt int64            `json:"contributed_at"`
	RefundClaimed bool             `json:"refund_claimed"`
	Bump          uint8            `json:"bump"`
}
