package ledger

import (
	"bytes"
	"testing"

	bin "github.com/gagliardetto/binary"
	"github.com/gagliardetto/solana-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hetansh2220/hoperise/internal/model"
)

var (
	testAddress = solana.MustPublicKeyFromBase58("4Nd1mBQtrMJVYVfKf2PJy9NZUZdTAsp7D4xWLs4gDB4T")
	testCreator = solana.MustPublicKeyFromBase58("9xQeWvG816bUx9EPjHmaT23yvVM2ZWbrrpZb9PusVFin")
)

// encodeAccount 按链上布局拼出账户原始字节：判别前缀 + Borsh 载荷
func encodeAccount(t *testing.T, discriminator [8]byte, v interface{}) []byte {
	t.Helper()
	buf := new(bytes.Buffer)
	buf.Write(discriminator[:])
	require.NoError(t, bin.NewBorshEncoder(buf).Encode(v))
	return buf.Bytes()
}

func TestDecodeCampaign(t *testing.T) {
	data := encodeAccount(t, campaignDiscriminator, rawCampaign{
		CampaignID:       3,
		Creator:          testCreator,
		Title:            "Clean Water for All",
		ShortDescription: "Wells for rural communities",
		Category:         2,
		CoverImageURL:    "ipfs://QmCover",
		StoryURL:         "ipfs://QmStory",
		FundingGoal:      60_000_000000,
		Deadline:         1_760_000_000,
		AmountRaised:     45_000_000000,
		BackerCount:      128,
		IsActive:         true,
		CreatedAt:        1_750_000_000,
		MilestoneCount:   2,
		Bump:             254,
	})

	c, err := DecodeCampaign(testAddress, data)
	require.NoError(t, err)

	assert.Equal(t, testAddress, c.Address)
	assert.Equal(t, uint64(3), c.CampaignID)
	assert.Equal(t, testCreator, c.Creator)
	assert.Equal(t, "Clean Water for All", c.Title)
	assert.Equal(t, model.CategoryHealthcare, c.Category)
	assert.Equal(t, "ipfs://QmCover", c.CoverImageRef)
	assert.Equal(t, uint64(60_000_000000), c.FundingGoal)
	assert.Equal(t, uint64(45_000_000000), c.AmountRaised)
	assert.Equal(t, uint64(128), c.BackerCount)
	assert.True(t, c.IsActive)
	assert.Equal(t, uint8(2), c.MilestoneCount)
}

func TestDecodeCampaignUnknownCategory(t *testing.T) {
	data := encodeAccount(t, campaignDiscriminator, rawCampaign{
		CampaignID:  1,
		Creator:     testCreator,
		Title:       "Mystery",
		Category:    9,
		FundingGoal: 1_000000,
	})

	// 分类未识别不算解码失败，退化为 Unknown 标签
	c, err := DecodeCampaign(testAddress, data)
	require.NoError(t, err)
	assert.Equal(t, model.CategoryUnknown, c.Category)
	assert.Equal(t, "Mystery", c.Title)
}

func TestDecodeRejectsShortData(t *testing.T) {
	_, err := DecodeCampaign(testAddress, []byte{1, 2, 3})

	var decodeErr *DecodeError
	require.ErrorAs(t, err, &decodeErr)
	assert.Equal(t, "campaign", decodeErr.Kind)
}

func TestDecodeRejectsWrongDiscriminator(t *testing.T) {
	// 里程碑账户的字节喂给活动解码器必须报错，不能错位解读
	data := encodeAccount(t, milestoneDiscriminator, rawMilestone{
		Campaign:       testAddress,
		MilestoneIndex: 0,
		Title:          "Phase 1",
		TargetAmount:   10_000_000000,
	})

	_, err := DecodeCampaign(testAddress, data)
	var decodeErr *DecodeError
	require.ErrorAs(t, err, &decodeErr)
	assert.Contains(t, decodeErr.Reason, "discriminator mismatch")
}

func TestDecodeCampaignCounter(t *testing.T) {
	data := encodeAccount(t, campaignCounterDiscriminator, rawCampaignCounter{
		Count:     42,
		Authority: testCreator,
		Bump:      253,
	})

	counter, err := DecodeCampaignCounter(testAddress, data)
	require.NoError(t, err)
	assert.Equal(t, uint64(42), counter.Count)
	assert.Equal(t, testCreator, counter.Authority)
}

func TestDecodeMilestone(t *testing.T) {
	data := encodeAccount(t, milestoneDiscriminator, rawMilestone{
		Campaign:       testAddress,
		MilestoneIndex: 1,
		Title:          "Drill first well",
		TargetAmount:   20_000_000000,
		IsCompleted:    true,
		Bump:           252,
	})

	m, err := DecodeMilestone(testCreator, data)
	require.NoError(t, err)
	assert.Equal(t, testCreator, m.Address)
	assert.Equal(t, testAddress, m.Campaign)
	assert.Equal(t, uint8(1), m.MilestoneIndex)
	assert.Equal(t, uint64(20_000_000000), m.TargetAmount)
	assert.True(t, m.IsCompleted)
}

func TestDecodeContribution(t *testing.T) {
	data := encodeAccount(t, contributionDiscriminator, rawContribution{
		Campaign:      testAddress,
		Contributor:   testCreator,
		Amount:        500_000000,
		ContributedAt: 1_755_000_000,
		RefundClaimed: false,
		Bump:          251,
	})

	c, err := DecodeContribution(testCreator, data)
	require.NoError(t, err)
	assert.Equal(t, testAddress, c.Campaign)
	assert.Equal(t, testCreator, c.Contributor)
	assert.Equal(t, uint64(500_000000), c.Amount)
	assert.Equal(t, int64(1_755_000_000), c.ContributedAt)
	assert.False(t, c.RefundClaimed)
}
