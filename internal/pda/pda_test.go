package pda

import (
	"testing"

	"github.com/gagliardetto/solana-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var (
	testProgramID = solana.MustPublicKeyFromBase58("BAaDjLVffrtNzgKLoUjmM9t1tWBHxMF6UFdnL1NYmQ3J")
	testCreator   = solana.MustPublicKeyFromBase58("4Nd1mBQtrMJVYVfKf2PJy9NZUZdTAsp7D4xWLs4gDB4T")
	testBacker    = solana.MustPublicKeyFromBase58("9xQeWvG816bUx9EPjHmaT23yvVM2ZWbrrpZb9PusVFin")
)

func TestNewRejectsZeroProgramID(t *testing.T) {
	_, err := New(solana.PublicKey{})
	require.Error(t, err)

	var inputErr *InvalidInputError
	require.ErrorAs(t, err, &inputErr)
	assert.Equal(t, "programID", inputErr.Field)
}

func TestCampaignDerivationIsPure(t *testing.T) {
	d, err := New(testProgramID)
	require.NoError(t, err)

	first, bump1, err := d.Campaign(testCreator, 7)
	require.NoError(t, err)
	second, bump2, err := d.Campaign(testCreator, 7)
	require.NoError(t, err)

	assert.Equal(t, first, second)
	assert.Equal(t, bump1, bump2)
	assert.False(t, first.IsZero())
}

func TestCampaignDerivationDistinguishesInputs(t *testing.T) {
	d, err := New(testProgramID)
	require.NoError(t, err)

	byID7, _, err := d.Campaign(testCreator, 7)
	require.NoError(t, err)
	byID8, _, err := d.Campaign(testCreator, 8)
	require.NoError(t, err)
	otherCreator, _, err := d.Campaign(testBacker, 7)
	require.NoError(t, err)

	assert.NotEqual(t, byID7, byID8)
	assert.NotEqual(t, byID7, otherCreator)
}

func TestCampaignRejectsZeroCreator(t *testing.T) {
	d, err := New(testProgramID)
	require.NoError(t, err)

	_, _, err = d.Campaign(solana.PublicKey{}, 1)
	var inputErr *InvalidInputError
	require.ErrorAs(t, err, &inputErr)
	assert.Equal(t, "creator", inputErr.Field)
}

func TestContributionDistinctPerContributor(t *testing.T) {
	d, err := New(testProgramID)
	require.NoError(t, err)

	campaign, _, err := d.Campaign(testCreator, 0)
	require.NoError(t, err)

	a, _, err := d.Contribution(campaign, testCreator)
	require.NoError(t, err)
	b, _, err := d.Contribution(campaign, testBacker)
	require.NoError(t, err)
	assert.NotEqual(t, a, b)
}

func TestMilestoneIndexRange(t *testing.T) {
	d, err := New(testProgramID)
	require.NoError(t, err)

	campaign, _, err := d.Campaign(testCreator, 0)
	require.NoError(t, err)

	_, _, err = d.Milestone(campaign, 0)
	assert.NoError(t, err)
	_, _, err = d.Milestone(campaign, 255)
	assert.NoError(t, err)

	_, _, err = d.Milestone(campaign, -1)
	assert.Error(t, err)
	_, _, err = d.Milestone(campaign, 256)
	assert.Error(t, err)
}

func TestVaultAndCounterIndependentOfContributor(t *testing.T) {
	d, err := New(testProgramID)
	require.NoError(t, err)

	campaign, _, err := d.Campaign(testCreator, 3)
	require.NoError(t, err)

	vault1, _, err := d.CampaignVault(campaign)
	require.NoError(t, err)
	vault2, _, err := d.CampaignVault(campaign)
	require.NoError(t, err)
	assert.Equal(t, vault1, vault2)

	counter1, _, err := d.CampaignCounter()
	require.NoError(t, err)
	counter2, _, err := d.CampaignCounter()
	require.NoError(t, err)
	assert.Equal(t, counter1, counter2)
	assert.NotEqual(t, counter1, vault1)
}
