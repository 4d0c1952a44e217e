package ledger

import (
	"bytes"
	"context"
	"crypto/sha256"
	"errors"
	"fmt"

	bin "github.com/gagliardetto/binary"
	"github.com/gagliardetto/solana-go"
	associatedtokenaccount "github.com/gagliardetto/solana-go/programs/associated-token-account"
	"github.com/gagliardetto/solana-go/rpc"

	"github.com/hetansh2220/hoperise/internal/logger"
	"github.com/hetansh2220/hoperise/internal/model"
)

// 程序入口名称，全局 sighash 由此计算
const (
	opInitialize        = "initialize"
	opCreateCampaign    = "create_campaign"
	opFundCampaign      = "fund_campaign"
	opWithdrawFunds     = "withdraw_funds"
	opAddMilestone      = "add_milestone"
	opCompleteMilestone = "complete_milestone"
	opCloseCampaign     = "close_campaign"
	opClaimRefund       = "claim_refund"
)

// 提交前的本地长度校验，与链上程序约束一致
const (
	maxTitleLen            = 80
	maxShortDescriptionLen = 200
	maxRefLen              = 200
	maxMilestoneTitleLen   = 100
	minDurationDays        = 1
	maxDurationDays        = 90
)

// instructionData 指令负载：前 8 字节为入口 sighash，其后为 Borsh 序列化的参数
func instructionData(op string, args interface{}) ([]byte, error) {
	h := sha256.Sum256([]byte("global:" + op))
	buf := bytes.NewBuffer(h[:8])
	if args != nil {
		if err := bin.NewBorshEncoder(buf).Encode(args); err != nil {
			return nil, fmt.Errorf("failed to encode %s args: %w", op, err)
		}
	}
	return buf.Bytes(), nil
}

// submit 构建、签名并提交单笔交易。
// 单次逻辑尝试，绝不自动重试：资金类操作静默重试可能导致重复提交。
func (c *Client) submit(ctx context.Context, op string, instructions []solana.Instruction) (solana.Signature, error) {
	if c.signer == nil {
		return solana.Signature{}, ErrNoSigner
	}

	recent, err := c.rpc.GetLatestBlockhash(ctx, c.commitment)
	if err != nil {
		return solana.Signature{}, newSubmissionError(op, err)
	}

	tx, err := solana.NewTransaction(
		instructions,
		recent.Value.Blockhash,
		solana.TransactionPayer(c.signer.PublicKey()),
	)
	if err != nil {
		return solana.Signature{}, newSubmissionError(op, err)
	}

	if _, err := tx.Sign(func(key solana.PublicKey) *solana.PrivateKey {
		if key.Equals(c.signer.PublicKey()) {
			return &c.signer
		}
		return nil
	}); err != nil {
		return solana.Signature{}, newSubmissionError(op, err)
	}

	sig, err := c.rpc.SendTransactionWithOpts(ctx, tx, rpc.TransactionOpts{
		PreflightCommitment: c.commitment,
	})
	if err != nil {
		return solana.Signature{}, newSubmissionError(op, err)
	}

	logger.Info("Submitted %s transaction: %s", op, sig)
	return sig, nil
}

// Initialize 初始化全局活动计数器（一次性操作，重复提交会被程序拒绝）
func (c *Client) Initialize(ctx context.Context) (solana.Signature, error) {
	if c.signer == nil {
		return solana.Signature{}, ErrNoSigner
	}

	counter, _, err := c.deriver.CampaignCounter()
	if err != nil {
		return solana.Signature{}, err
	}

	data, err := instructionData(opInitialize, nil)
	if err != nil {
		return solana.Signature{}, err
	}

	instruction := solana.NewInstruction(c.programID, solana.AccountMetaSlice{
		solana.Meta(counter).WRITE(),
		solana.Meta(c.signer.PublicKey()).WRITE().SIGNER(),
		solana.Meta(solana.SystemProgramID),
	}, data)

	return c.submit(ctx, opInitialize, []solana.Instruction{instruction})
}

// CreateCampaignParams 创建活动参数，金额为 base units
type CreateCampaignParams struct {
	Title            string
	ShortDescription string
	Category         string
	CoverImageRef    string
	StoryRef         string
	FundingGoal      uint64
	DurationDays     uint64
}

type createCampaignArgs struct {
	Title            string
	ShortDescription string
	Category         uint8
	CoverImageURL    string
	StoryURL         string
	FundingGoal      uint64
	DurationDays     uint64
}

func (p *CreateCampaignParams) validate() (uint8, error) {
	if p.Title == "" || len(p.Title) > maxTitleLen {
		return 0, fmt.Errorf("title must be 1-%d characters", maxTitleLen)
	}
	if len(p.ShortDescription) > maxShortDescriptionLen {
		return 0, fmt.Errorf("short description exceeds %d characters", maxShortDescriptionLen)
	}
	if len(p.CoverImageRef) > maxRefLen || len(p.StoryRef) > maxRefLen {
		return 0, fmt.Errorf("content reference exceeds %d characters", maxRefLen)
	}
	if p.FundingGoal == 0 {
		return 0, errors.New("funding goal must be greater than zero")
	}
	if p.DurationDays < minDurationDays || p.DurationDays > maxDurationDays {
		return 0, fmt.Errorf("duration must be %d-%d days", minDurationDays, maxDurationDays)
	}
	// 创建路径严格校验分类，绝不静默回退到默认值
	category, ok := model.ParseCategory(p.Category)
	if !ok {
		return 0, fmt.Errorf("unknown category %q", p.Category)
	}
	idx, _ := category.Index()
	return idx, nil
}

// CreateCampaign 创建活动。
// 计数器不存在时先自动初始化；序号在派生前重新拉取，避免旧值撞地址。
func (c *Client) CreateCampaign(ctx context.Context, params CreateCampaignParams) (solana.Signature, solana.PublicKey, error) {
	if c.signer == nil {
		return solana.Signature{}, solana.PublicKey{}, ErrNoSigner
	}

	categoryIdx, err := params.validate()
	if err != nil {
		return solana.Signature{}, solana.PublicKey{}, err
	}

	counter, err := c.FetchCounter(ctx)
	if errors.Is(err, ErrNotFound) {
		// 计数器未初始化，先补一笔初始化交易再重新拉取
		if _, err := c.Initialize(ctx); err != nil {
			return solana.Signature{}, solana.PublicKey{}, err
		}
		counter, err = c.FetchCounter(ctx)
	}
	if err != nil {
		return solana.Signature{}, solana.PublicKey{}, err
	}

	creator := c.signer.PublicKey()
	campaign, _, err := c.deriver.Campaign(creator, counter.Count)
	if err != nil {
		return solana.Signature{}, solana.PublicKey{}, err
	}

	data, err := instructionData(opCreateCampaign, &createCampaignArgs{
		Title:            params.Title,
		ShortDescription: params.ShortDescription,
		Category:         categoryIdx,
		CoverImageURL:    params.CoverImageRef,
		StoryURL:         params.StoryRef,
		FundingGoal:      params.FundingGoal,
		DurationDays:     params.DurationDays,
	})
	if err != nil {
		return solana.Signature{}, solana.PublicKey{}, err
	}

	instruction := solana.NewInstruction(c.programID, solana.AccountMetaSlice{
		solana.Meta(campaign).WRITE(),
		solana.Meta(counter.Address).WRITE(),
		solana.Meta(creator).WRITE().SIGNER(),
		solana.Meta(solana.SystemProgramID),
	}, data)

	sig, err := c.submit(ctx, opCreateCampaign, []solana.Instruction{instruction})
	if err != nil {
		return solana.Signature{}, solana.PublicKey{}, err
	}
	return sig, campaign, nil
}

type fundCampaignArgs struct {
	Amount uint64
}

// fundCampaignAccounts fund_campaign 的账户表，程序按位置绑定，恰好 8 个、以系统程序收尾
func fundCampaignAccounts(campaign, vault, contribution, contributor, tokenAccount, mint solana.PublicKey) solana.AccountMetaSlice {
	return solana.AccountMetaSlice{
		solana.Meta(campaign).WRITE(),
		solana.Meta(vault).WRITE(),
		solana.Meta(contribution).WRITE(),
		solana.Meta(contributor).WRITE().SIGNER(),
		solana.Meta(tokenAccount).WRITE(),
		solana.Meta(mint),
		solana.Meta(solana.TokenProgramID),
		solana.Meta(solana.SystemProgramID),
	}
}

// FundCampaign 出资。出资人的代币账户不存在时在同一笔交易里先行创建。
func (c *Client) FundCampaign(ctx context.Context, campaign solana.PublicKey, amount uint64) (solana.Signature, error) {
	if c.signer == nil {
		return solana.Signature{}, ErrNoSigner
	}
	if amount == 0 {
		return solana.Signature{}, errors.New("contribution amount must be greater than zero")
	}

	contributor := c.signer.PublicKey()

	contribution, _, err := c.deriver.Contribution(campaign, contributor)
	if err != nil {
		return solana.Signature{}, err
	}
	vault, _, err := c.deriver.CampaignVault(campaign)
	if err != nil {
		return solana.Signature{}, err
	}
	tokenAccount, _, err := solana.FindAssociatedTokenAddress(contributor, c.usdcMint)
	if err != nil {
		return solana.Signature{}, err
	}

	var instructions []solana.Instruction

	// 前置子步骤：代币账户缺失时自动创建
	if _, err := c.fetchAccountData(ctx, tokenAccount); err != nil {
		if !errors.Is(err, ErrNotFound) {
			return solana.Signature{}, err
		}
		instructions = append(instructions,
			associatedtokenaccount.NewCreateInstruction(contributor, contributor, c.usdcMint).Build())
	}

	data, err := instructionData(opFundCampaign, &fundCampaignArgs{Amount: amount})
	if err != nil {
		return solana.Signature{}, err
	}

	instructions = append(instructions, solana.NewInstruction(c.programID,
		fundCampaignAccounts(campaign, vault, contribution, contributor, tokenAccount, c.usdcMint), data))

	return c.submit(ctx, opFundCampaign, instructions)
}

// WithdrawFunds 创建者提取托管资金（要求目标已达成，由程序校验）
func (c *Client) WithdrawFunds(ctx context.Context, campaign solana.PublicKey) (solana.Signature, error) {
	if c.signer == nil {
		return solana.Signature{}, ErrNoSigner
	}

	creator := c.signer.PublicKey()

	vault, _, err := c.deriver.CampaignVault(campaign)
	if err != nil {
		return solana.Signature{}, err
	}
	tokenAccount, _, err := solana.FindAssociatedTokenAddress(creator, c.usdcMint)
	if err != nil {
		return solana.Signature{}, err
	}

	data, err := instructionData(opWithdrawFunds, nil)
	if err != nil {
		return solana.Signature{}, err
	}

	instruction := solana.NewInstruction(c.programID, solana.AccountMetaSlice{
		solana.Meta(campaign).WRITE(),
		solana.Meta(vault).WRITE(),
		solana.Meta(creator).WRITE().SIGNER(),
		solana.Meta(tokenAccount).WRITE(),
		solana.Meta(c.usdcMint),
		solana.Meta(solana.TokenProgramID),
		solana.Meta(solana.SPLAssociatedTokenAccountProgramID),
		solana.Meta(solana.SystemProgramID),
	}, data)

	return c.submit(ctx, opWithdrawFunds, []solana.Instruction{instruction})
}

type addMilestoneArgs struct {
	Title        string
	TargetAmount uint64
}

// AddMilestone 追加里程碑，序号由调用方从 0 起连续分配
func (c *Client) AddMilestone(ctx context.Context, campaign solana.PublicKey, milestoneIndex int, title string, targetAmount uint64) (solana.Signature, error) {
	if c.signer == nil {
		return solana.Signature{}, ErrNoSigner
	}
	if title == "" || len(title) > maxMilestoneTitleLen {
		return solana.Signature{}, fmt.Errorf("milestone title must be 1-%d characters", maxMilestoneTitleLen)
	}
	if milestoneIndex >= model.MaxMilestonesPerCampaign {
		return solana.Signature{}, &SubmissionError{
			Op:   opAddMilestone,
			Code: codeMaxMilestonesReached,
			msg:  fmt.Sprintf("maximum number of milestones (%d) reached", model.MaxMilestonesPerCampaign),
		}
	}

	milestone, _, err := c.deriver.Milestone(campaign, milestoneIndex)
	if err != nil {
		return solana.Signature{}, err
	}

	data, err := instructionData(opAddMilestone, &addMilestoneArgs{Title: title, TargetAmount: targetAmount})
	if err != nil {
		return solana.Signature{}, err
	}

	instruction := solana.NewInstruction(c.programID, solana.AccountMetaSlice{
		solana.Meta(campaign).WRITE(),
		solana.Meta(milestone).WRITE(),
		solana.Meta(c.signer.PublicKey()).WRITE().SIGNER(),
		solana.Meta(solana.SystemProgramID),
	}, data)

	return c.submit(ctx, opAddMilestone, []solana.Instruction{instruction})
}

// CompleteMilestone 标记里程碑完成（要求筹款已达到里程碑目标，由程序校验）
func (c *Client) CompleteMilestone(ctx context.Context, campaign, milestone solana.PublicKey) (solana.Signature, error) {
	if c.signer == nil {
		return solana.Signature{}, ErrNoSigner
	}

	data, err := instructionData(opCompleteMilestone, nil)
	if err != nil {
		return solana.Signature{}, err
	}

	instruction := solana.NewInstruction(c.programID, solana.AccountMetaSlice{
		solana.Meta(campaign),
		solana.Meta(milestone).WRITE(),
		solana.Meta(c.signer.PublicKey()).SIGNER(),
	}, data)

	return c.submit(ctx, opCompleteMilestone, []solana.Instruction{instruction})
}

// CloseCampaign 创建者关闭活动（isActive 置 false，不可逆）
func (c *Client) CloseCampaign(ctx context.Context, campaign solana.PublicKey) (solana.Signature, error) {
	if c.signer == nil {
		return solana.Signature{}, ErrNoSigner
	}

	data, err := instructionData(opCloseCampaign, nil)
	if err != nil {
		return solana.Signature{}, err
	}

	instruction := solana.NewInstruction(c.programID, solana.AccountMetaSlice{
		solana.Meta(campaign).WRITE(),
		solana.Meta(c.signer.PublicKey()).SIGNER(),
	}, data)

	return c.submit(ctx, opCloseCampaign, []solana.Instruction{instruction})
}

// ClaimRefund 未达标且已截止时出资人领取退款
func (c *Client) ClaimRefund(ctx context.Context, campaign solana.PublicKey) (solana.Signature, error) {
	if c.signer == nil {
		return solana.Signature{}, ErrNoSigner
	}

	contributor := c.signer.PublicKey()

	contribution, _, err := c.deriver.Contribution(campaign, contributor)
	if err != nil {
		return solana.Signature{}, err
	}
	vault, _, err := c.deriver.CampaignVault(campaign)
	if err != nil {
		return solana.Signature{}, err
	}
	tokenAccount, _, err := solana.FindAssociatedTokenAddress(contributor, c.usdcMint)
	if err != nil {
		return solana.Signature{}, err
	}

	data, err := instructionData(opClaimRefund, nil)
	if err != nil {
		return solana.Signature{}, err
	}

	instruction := solana.NewInstruction(c.programID, solana.AccountMetaSlice{
		solana.Meta(campaign).WRITE(),
		solana.Meta(vault).WRITE(),
		solana.Meta(contribution).WRITE(),
		solana.Meta(contributor).WRITE().SIGNER(),
		solana.Meta(tokenAccount).WRITE(),
		solana.Meta(c.usdcMint),
		solana.Meta(solana.TokenProgramID),
		solana.Meta(solana.SPLAssociatedTokenAccountProgramID),
		solana.Meta(solana.SystemProgramID),
	}, data)

	return c.submit(ctx, opClaimRefund, []solana.Instruction{instruction})
}
