package ledger

import (
	"context"
	"errors"
	"fmt"

	"github.com/gagliardetto/solana-go"
	"github.com/gagliardetto/solana-go/rpc"

	"github.com/hetansh2220/hoperise/internal/config"
	"github.com/hetansh2220/hoperise/internal/model"
	"github.com/hetansh2220/hoperise/internal/pda"
)

// Client 账本客户端：负责扫描/点查账户原始字节并落到派生地址约定上。
// 权威状态始终在链上程序，这里只持有只读快照和一把可选的提交签名密钥。
type Client struct {
	rpc        *rpc.Client
	deriver    *pda.Deriver
	programID  solana.PublicKey
	usdcMint   solana.PublicKey
	signer     solana.PrivateKey
	commitment rpc.CommitmentType
}

func Init(cfg config.LedgerConfig) (*Client, error) {
	programID, err := solana.PublicKeyFromBase58(cfg.ProgramID)
	if err != nil {
		return nil, fmt.Errorf("failed to parse program id: %w", err)
	}

	usdcMint, err := solana.PublicKeyFromBase58(cfg.USDCMint)
	if err != nil {
		return nil, fmt.Errorf("failed to parse usdc mint: %w", err)
	}

	deriver, err := pda.New(programID)
	if err != nil {
		return nil, err
	}

	var signer solana.PrivateKey
	if cfg.PrivateKey != "" {
		signer, err = solana.PrivateKeyFromBase58(cfg.PrivateKey)
		if err != nil {
			return nil, fmt.Errorf("failed to parse private key: %w", err)
		}
	}

	commitment := rpc.CommitmentConfirmed
	switch cfg.Commitment {
	case "processed":
		commitment = rpc.CommitmentProcessed
	case "finalized":
		commitment = rpc.CommitmentFinalized
	}

	return &Client{
		rpc:        rpc.New(cfg.RPCURL),
		deriver:    deriver,
		programID:  programID,
		usdcMint:   usdcMint,
		signer:     signer,
		commitment: commitment,
	}, nil
}

// Deriver 返回地址派生器
func (c *Client) Deriver() *pda.Deriver {
	return c.deriver
}

// SignerAddress 返回签名身份地址，未配置签名密钥时返回零值
func (c *Client) SignerAddress() solana.PublicKey {
	if c.signer == nil {
		return solana.PublicKey{}
	}
	return c.signer.PublicKey()
}

// fetchAccountData 点查账户原始字节，未命中返回 ErrNotFound
func (c *Client) fetchAccountData(ctx context.Context, address solana.PublicKey) ([]byte, error) {
	out, err := c.rpc.GetAccountInfoWithOpts(ctx, address, &rpc.GetAccountInfoOpts{
		Commitment: c.commitment,
		Encoding:   solana.EncodingBase64,
	})
	if err != nil {
		if errors.Is(err, rpc.ErrNotFound) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to fetch account %s: %w", address, err)
	}
	if out == nil || out.Value == nil {
		return nil, ErrNotFound
	}
	return out.Value.Data.GetBinary(), nil
}

// scanAccounts 按判别前缀扫描程序账户，extra 为附加过滤条件
func (c *Client) scanAccounts(ctx context.Context, discriminator [8]byte, extra ...rpc.RPCFilter) (rpc.GetProgramAccountsResult, error) {
	filters := append([]rpc.RPCFilter{
		{Memcmp: &rpc.RPCFilterMemcmp{Offset: 0, Bytes: solana.Base58(discriminator[:])}},
	}, extra...)

	out, err := c.rpc.GetProgramAccountsWithOpts(ctx, c.programID, &rpc.GetProgramAccountsOpts{
		Commitment: c.commitment,
		Encoding:   solana.EncodingBase64,
		Filters:    filters,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to scan program accounts: %w", err)
	}
	return out, nil
}

// byCampaign 子账户按活动地址过滤（活动引用紧跟判别前缀，偏移 8）
func byCampaign(campaign solana.PublicKey) rpc.RPCFilter {
	return rpc.RPCFilter{
		Memcmp: &rpc.RPCFilterMemcmp{Offset: discriminatorLen, Bytes: solana.Base58(campaign.Bytes())},
	}
}

// FetchCampaign 点查单个活动，未命中返回 ErrNotFound（属预期结果）
func (c *Client) FetchCampaign(ctx context.Context, address solana.PublicKey) (*model.Campaign, error) {
	data, err := c.fetchAccountData(ctx, address)
	if err != nil {
		return nil, err
	}
	return DecodeCampaign(address, data)
}

// FetchAllCampaigns 全量扫描活动账户，不保证顺序，调用方按需排序
func (c *Client) FetchAllCampaigns(ctx context.Context) ([]model.Campaign, error) {
	accounts, err := c.scanAccounts(ctx, campaignDiscriminator)
	if err != nil {
		return nil, err
	}

	campaigns := make([]model.Campaign, 0, len(accounts))
	for _, acc := range accounts {
		campaign, err := DecodeCampaign(acc.Pubkey, acc.Account.Data.GetBinary())
		if err != nil {
			// 身份字段不可解码的记录无法渲染，跳过而不拖垮整个列表
			continue
		}
		campaigns = append(campaigns, *campaign)
	}
	return campaigns, nil
}

// FetchMilestones 扫描某活动的全部里程碑，排序由查询层负责
func (c *Client) FetchMilestones(ctx context.Context, campaign solana.PublicKey) ([]model.Milestone, error) {
	accounts, err := c.scanAccounts(ctx, milestoneDiscriminator, byCampaign(campaign))
	if err != nil {
		return nil, err
	}

	milestones := make([]model.Milestone, 0, len(accounts))
	for _, acc := range accounts {
		milestone, err := DecodeMilestone(acc.Pubkey, acc.Account.Data.GetBinary())
		if err != nil {
			continue
		}
		milestones = append(milestones, *milestone)
	}
	return milestones, nil
}

// FetchContributions 扫描某活动的全部出资记录，排序由查询层负责
func (c *Client) FetchContributions(ctx context.Context, campaign solana.PublicKey) ([]model.Contribution, error) {
	accounts, err := c.scanAccounts(ctx, contributionDiscriminator, byCampaign(campaign))
	if err != nil {
		return nil, err
	}

	contributions := make([]model.Contribution, 0, len(accounts))
	for _, acc := range accounts {
		contribution, err := DecodeContribution(acc.Pubkey, acc.Account.Data.GetBinary())
		if err != nil {
			continue
		}
		contributions = append(contributions, *contribution)
	}
	return contributions, nil
}

// FetchContribution 点查某出资人在某活动的出资记录
func (c *Client) FetchContribution(ctx context.Context, campaign, contributor solana.PublicKey) (*model.Contribution, error) {
	address, _, err := c.deriver.Contribution(campaign, contributor)
	if err != nil {
		return nil, err
	}
	data, err := c.fetchAccountData(ctx, address)
	if err != nil {
		return nil, err
	}
	return DecodeContribution(address, data)
}

// FetchCounter 拉取全局活动计数器。
// 计数值只能读后即用：每次创建前都必须重新调用，不得复用上次结果。
func (c *Client) FetchCounter(ctx context.Context) (*model.CampaignCounter, error) {
	address, _, err := c.deriver.CampaignCounter()
	if err != nil {
		return nil, err
	}
	data, err := c.fetchAccountData(ctx, address)
	if err != nil {
		return nil, err
	}
	return DecodeCampaignCounter(address, data)
}

// IsInitialized 探测全局计数器是否已初始化
func (c *Client) IsInitialized(ctx context.Context) (bool, error) {
	_, err := c.FetchCounter(ctx)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return false, nil
		}
		return false, err
	}
	return true, nil
}
