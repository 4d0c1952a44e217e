package task

import (
	"context"
	"time"

	"github.com/go-co-op/gocron/v2"

	"github.com/hetansh2220/hoperise/internal/cache"
	"github.com/hetansh2220/hoperise/internal/config"
	"github.com/hetansh2220/hoperise/internal/logger"
)

// ContributionPollJob 出资动态轮询任务。
// 只轮询被登记为"查看中"的活动，详情页关闭（注销）后轮询随之停止。
type ContributionPollJob struct {
	store  *cache.Store
	config *config.Config
}

// NewContributionPollJob 创建出资动态轮询任务
func NewContributionPollJob(store *cache.Store, cfg *config.Config) *ContributionPollJob {
	return &ContributionPollJob{
		store:  store,
		config: cfg,
	}
}

// GetName 获取任务名称
func (j *ContributionPollJob) GetName() string {
	return "contribution_poller"
}

// GetSchedule 获取调度配置
func (j *ContributionPollJob) GetSchedule() gocron.JobDefinition {
	return gocron.DurationJob(time.Duration(j.config.Cache.PollInterval) * time.Second)
}

// Execute 执行任务
func (j *ContributionPollJob) Execute() {
	watched := j.store.Watched()
	if len(watched) == 0 {
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	for _, campaign := range watched {
		if err := j.store.RefreshContributions(ctx, campaign); err != nil {
			logger.Warn("Failed to poll contributions for %s: %v", campaign, err)
		}
	}
}
