package cache

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/gagliardetto/solana-go"
	"github.com/panjf2000/ants/v2"

	"github.com/hetansh2220/hoperise/internal/config"
	"github.com/hetansh2220/hoperise/internal/ledger"
	"github.com/hetansh2220/hoperise/internal/logger"
	"github.com/hetansh2220/hoperise/internal/model"
)

// Ledger 查询层依赖的账本读取面
type Ledger interface {
	FetchCampaign(ctx context.Context, address solana.PublicKey) (*model.Campaign, error)
	FetchAllCampaigns(ctx context.Context) ([]model.Campaign, error)
	FetchMilestones(ctx context.Context, campaign solana.PublicKey) ([]model.Milestone, error)
	FetchContributions(ctx context.Context, campaign solana.PublicKey) ([]model.Contribution, error)
	FetchContribution(ctx context.Context, campaign, contributor solana.PublicKey) (*model.Contribution, error)
}

// Windows 各实体类别的新鲜度/保留窗口
type Windows struct {
	CampaignFresh      time.Duration
	CampaignRetain     time.Duration
	MilestoneFresh     time.Duration
	MilestoneRetain    time.Duration
	ContributionFresh  time.Duration
	ContributionRetain time.Duration
}

// WindowsFromConfig 从配置换算窗口
func WindowsFromConfig(cfg config.CacheConfig) Windows {
	return Windows{
		CampaignFresh:      time.Duration(cfg.CampaignFresh) * time.Second,
		CampaignRetain:     time.Duration(cfg.CampaignRetain) * time.Second,
		MilestoneFresh:     time.Duration(cfg.MilestoneFresh) * time.Second,
		MilestoneRetain:    time.Duration(cfg.MilestoneRetain) * time.Second,
		ContributionFresh:  time.Duration(cfg.ContributionFresh) * time.Second,
		ContributionRetain: time.Duration(cfg.ContributionRetain) * time.Second,
	}
}

// refreshTimeout 后台刷新的单次拉取上限
const refreshTimeout = 30 * time.Second

// Store 查询层：读走缓存，未命中或失效时回源账本，
// 旧值仍在保留窗口内时先返回旧值并丢一个后台刷新到协程池。
type Store struct {
	ledger  Ledger
	cache   *Cache
	windows Windows
	pool    *ants.Pool

	mu       sync.Mutex
	inflight map[string]bool          // 去重后台刷新
	watched  map[solana.PublicKey]int // 详情页打开中的活动及其引用计数
}

// NewStore 创建查询层
func NewStore(l Ledger, windows Windows, refreshWorkers int) (*Store, error) {
	if refreshWorkers <= 0 {
		refreshWorkers = 4
	}
	pool, err := ants.NewPool(refreshWorkers)
	if err != nil {
		return nil, err
	}
	return &Store{
		ledger:   l,
		cache:    New(),
		windows:  windows,
		pool:     pool,
		inflight: make(map[string]bool),
		watched:  make(map[solana.PublicKey]int),
	}, nil
}

// Close 释放后台刷新协程池
func (s *Store) Close() {
	s.pool.Release()
}

// Cache 暴露底层缓存（订阅、清理用）
func (s *Store) Cache() *Cache {
	return s.cache
}

// scheduleRefresh 丢一个后台刷新任务，同一个键同时只跑一个
func (s *Store) scheduleRefresh(key string, fetch func(ctx context.Context) error) {
	s.mu.Lock()
	if s.inflight[key] {
		s.mu.Unlock()
		return
	}
	s.inflight[key] = true
	s.mu.Unlock()

	err := s.pool.Submit(func() {
		defer func() {
			s.mu.Lock()
			delete(s.inflight, key)
			s.mu.Unlock()
		}()

		ctx, cancel := context.WithTimeout(context.Background(), refreshTimeout)
		defer cancel()
		if err := fetch(ctx); err != nil {
			// 后台刷新失败只记日志，旧值继续服务到保留窗口结束
			logger.Warn("Background refresh for %s failed: %v", key, err)
		}
	})
	if err != nil {
		s.mu.Lock()
		delete(s.inflight, key)
		s.mu.Unlock()
		logger.Warn("Failed to schedule refresh for %s: %v", key, err)
	}
}

// ListCampaigns 活动列表，全量扫描结果不保证顺序，调用方按需排序
func (s *Store) ListCampaigns(ctx context.Context) ([]model.Campaign, error) {
	key := CampaignListKey()
	if v, state := s.cache.Get(key); state != Miss {
		if state == Stale {
			s.scheduleRefresh(key, func(ctx context.Context) error {
				_, err := s.refreshCampaignList(ctx)
				return err
			})
		}
		return v.([]model.Campaign), nil
	}

	// 回源结果直接返回，不回读缓存：并发失效可能已把刚写入的条目标脏
	return s.refreshCampaignList(ctx)
}

func (s *Store) refreshCampaignList(ctx context.Context) ([]model.Campaign, error) {
	campaigns, err := s.ledger.FetchAllCampaigns(ctx)
	if err != nil {
		return nil, err
	}
	s.cache.Put(CampaignListKey(), campaigns, s.windows.CampaignFresh, s.windows.CampaignRetain)
	return campaigns, nil
}

// GetCampaign 活动详情点查。未命中链上记录时透传 ledger.ErrNotFound，
// 这是预期结果而非异常，调用方据此渲染"不存在"状态。
func (s *Store) GetCampaign(ctx context.Context, address solana.PublicKey) (*model.Campaign, error) {
	key := CampaignDetailKey(address)
	if v, state := s.cache.Get(key); state != Miss {
		if state == Stale {
			s.scheduleRefresh(key, func(ctx context.Context) error {
				_, err := s.refreshCampaign(ctx, address)
				return err
			})
		}
		c := v.(model.Campaign)
		return &c, nil
	}

	return s.refreshCampaign(ctx, address)
}

func (s *Store) refreshCampaign(ctx context.Context, address solana.PublicKey) (*model.Campaign, error) {
	campaign, err := s.ledger.FetchCampaign(ctx, address)
	if err != nil {
		return nil, err
	}
	s.cache.Put(CampaignDetailKey(address), *campaign, s.windows.CampaignFresh, s.windows.CampaignRetain)
	return campaign, nil
}

// ListMilestones 某活动的里程碑，恒按 index 升序返回，与底层扫描顺序无关
func (s *Store) ListMilestones(ctx context.Context, campaign solana.PublicKey) ([]model.Milestone, error) {
	key := MilestonesKey(campaign)
	if v, state := s.cache.Get(key); state != Miss {
		if state == Stale {
			s.scheduleRefresh(key, func(ctx context.Context) error {
				_, err := s.refreshMilestones(ctx, campaign)
				return err
			})
		}
		return v.([]model.Milestone), nil
	}

	return s.refreshMilestones(ctx, campaign)
}

func (s *Store) refreshMilestones(ctx context.Context, campaign solana.PublicKey) ([]model.Milestone, error) {
	milestones, err := s.ledger.FetchMilestones(ctx, campaign)
	if err != nil {
		return nil, err
	}
	sort.Slice(milestones, func(i, j int) bool {
		return milestones[i].MilestoneIndex < milestones[j].MilestoneIndex
	})
	s.cache.Put(MilestonesKey(campaign), milestones, s.windows.MilestoneFresh, s.windows.MilestoneRetain)
	return milestones, nil
}

// ListContributions 某活动的出资记录，恒按出资时间降序（最新在前）。
// 这个顺序是实时动态流的依赖，必须与底层扫描顺序无关地成立。
func (s *Store) ListContributions(ctx context.Context, campaign solana.PublicKey) ([]model.Contribution, error) {
	key := ContributionsKey(campaign)
	if v, state := s.cache.Get(key); state != Miss {
		if state == Stale {
			s.scheduleRefresh(key, func(ctx context.Context) error {
				return s.RefreshContributions(ctx, campaign)
			})
		}
		return v.([]model.Contribution), nil
	}

	return s.refreshContributions(ctx, campaign)
}

// RefreshContributions 强制回源出资记录（轮询任务也走这里）
func (s *Store) RefreshContributions(ctx context.Context, campaign solana.PublicKey) error {
	_, err := s.refreshContributions(ctx, campaign)
	return err
}

func (s *Store) refreshContributions(ctx context.Context, campaign solana.PublicKey) ([]model.Contribution, error) {
	contributions, err := s.ledger.FetchContributions(ctx, campaign)
	if err != nil {
		return nil, err
	}
	sort.Slice(contributions, func(i, j int) bool {
		return contributions[i].ContributedAt > contributions[j].ContributedAt
	})
	s.cache.Put(ContributionsKey(campaign), contributions, s.windows.ContributionFresh, s.windows.ContributionRetain)
	return contributions, nil
}

// GetContribution 点查某出资人在某活动的出资记录，不走缓存
func (s *Store) GetContribution(ctx context.Context, campaign, contributor solana.PublicKey) (*model.Contribution, error) {
	return s.ledger.FetchContribution(ctx, campaign, contributor)
}

// FeaturedCampaigns 精选活动：按筹款完成度降序取前 N
func (s *Store) FeaturedCampaigns(ctx context.Context, limit int) ([]model.Campaign, error) {
	campaigns, err := s.ListCampaigns(ctx)
	if err != nil {
		return nil, err
	}
	sorted := make([]model.Campaign, len(campaigns))
	copy(sorted, campaigns)
	sort.Slice(sorted, func(i, j int) bool {
		return sorted[i].ProgressPercent() > sorted[j].ProgressPercent()
	})
	if limit > 0 && len(sorted) > limit {
		sorted = sorted[:limit]
	}
	return sorted, nil
}

// LatestCampaigns 最新活动：按创建时间降序取前 N
func (s *Store) LatestCampaigns(ctx context.Context, limit int) ([]model.Campaign, error) {
	campaigns, err := s.ListCampaigns(ctx)
	if err != nil {
		return nil, err
	}
	sorted := make([]model.Campaign, len(campaigns))
	copy(sorted, campaigns)
	sort.Slice(sorted, func(i, j int) bool {
		return sorted[i].CreatedAt > sorted[j].CreatedAt
	})
	if limit > 0 && len(sorted) > limit {
		sorted = sorted[:limit]
	}
	return sorted, nil
}

// Stats 平台汇总统计，基于当前活动列表快照
func (s *Store) Stats(ctx context.Context) (map[string]interface{}, error) {
	campaigns, err := s.ListCampaigns(ctx)
	if err != nil {
		return nil, err
	}

	var totalRaised, totalBackers uint64
	var activeCampaigns int
	for _, c := range campaigns {
		totalRaised += c.AmountRaised
		totalBackers += c.BackerCount
		if c.IsActive {
			activeCampaigns++
		}
	}

	return map[string]interface{}{
		"totalCampaigns":  len(campaigns),
		"activeCampaigns": activeCampaigns,
		"totalRaised":     totalRaised,
		"totalBackers":    totalBackers,
	}, nil
}

// InvalidateCampaign 成功变更后的失效步骤：
// 在 UI 视为"已落定"之前，把该活动的详情、出资记录和列表一并标脏，
// 保证随后的读取重新拉取而不是回放变更前的快照。
func (s *Store) InvalidateCampaign(campaign solana.PublicKey) {
	s.cache.Invalidate(CampaignDetailKey(campaign))
	s.cache.Invalidate(ContributionsKey(campaign))
	s.cache.Invalidate(MilestonesKey(campaign))
	s.cache.Invalidate(CampaignListKey())
}

// Watch 登记一个正在被查看的活动（详情页打开），轮询任务据此拉取动态
func (s *Store) Watch(campaign solana.PublicKey) {
	s.mu.Lock()
	s.watched[campaign]++
	s.mu.Unlock()
}

// Unwatch 注销查看，引用归零后该活动的轮询随之停止
func (s *Store) Unwatch(campaign solana.PublicKey) {
	s.mu.Lock()
	if s.watched[campaign] > 0 {
		s.watched[campaign]--
	}
	if s.watched[campaign] == 0 {
		delete(s.watched, campaign)
	}
	s.mu.Unlock()
}

// Watched 当前被查看中的活动集合
func (s *Store) Watched() []solana.PublicKey {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]solana.PublicKey, 0, len(s.watched))
	for c := range s.watched {
		out = append(out, c)
	}
	return out
}

// 确保具体账本客户端满足查询层依赖
var _ Ledger = (*ledger.Client)(nil)
