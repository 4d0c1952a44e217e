// Package units 负责账本定点整数（base units，10^6 缩放）与展示金额之间的换算。
// 超过 6 位小数的输入按截断处理（只舍不入），这是与链上程序约定的边界行为。
package units

import (
	"errors"
	"fmt"
	"math/big"

	"github.com/shopspring/decimal"
)

// Decimals 账本金额的小数位数（USDC 为 6 位）
const Decimals = 6

var (
	// ErrNegativeAmount 金额不允许为负
	ErrNegativeAmount = errors.New("amount must not be negative")
	// ErrAmountTooLarge 超出账本整数宽度（u64）
	ErrAmountTooLarge = errors.New("amount exceeds ledger integer range")
)

var maxBaseUnits = new(big.Int).SetUint64(^uint64(0))

// ToDisplay 把 base units 换算为展示金额（无损）
func ToDisplay(baseUnits uint64) decimal.Decimal {
	return decimal.NewFromBigInt(new(big.Int).SetUint64(baseUnits), -Decimals)
}

// ToBaseUnits 把展示金额换算为 base units，向零截断。
// 对所有合法的 base units x 满足 ToBaseUnits(ToDisplay(x)) == x；
// 对任意小数反向不保证精确（超过 6 位小数的部分被丢弃）。
func ToBaseUnits(display decimal.Decimal) (uint64, error) {
	if display.IsNegative() {
		return 0, ErrNegativeAmount
	}
	scaled := display.Shift(Decimals).Truncate(0)
	bi := scaled.BigInt()
	if bi.Cmp(maxBaseUnits) > 0 {
		return 0, ErrAmountTooLarge
	}
	return bi.Uint64(), nil
}

// ParseDisplay 解析用户输入的展示金额并换算为 base units
func ParseDisplay(s string) (uint64, error) {
	d, err := decimal.NewFromString(s)
	if err != nil {
		return 0, fmt.Errorf("invalid amount %q: %w", s, err)
	}
	return ToBaseUnits(d)
}

// FormatDisplay 把 base units 格式化为展示字符串
func FormatDisplay(baseUnits uint64) string {
	return ToDisplay(baseUnits).String()
}
