package task

import (
	"time"

	"github.com/go-co-op/gocron/v2"

	"github.com/hetansh2220/hoperise/internal/cache"
	"github.com/hetansh2220/hoperise/internal/logger"
)

// CacheSweepJob 缓存清理任务：周期回收超出保留窗口的条目
type CacheSweepJob struct {
	store *cache.Store
}

// NewCacheSweepJob 创建缓存清理任务
func NewCacheSweepJob(store *cache.Store) *CacheSweepJob {
	return &CacheSweepJob{store: store}
}

// GetName 获取任务名称
func (j *CacheSweepJob) GetName() string {
	return "cache_sweeper"
}

// GetSchedule 获取调度配置
func (j *CacheSweepJob) GetSchedule() gocron.JobDefinition {
	return gocron.DurationJob(time.Minute)
}

// Execute 执行任务
func (j *CacheSweepJob) Execute() {
	if removed := j.store.Cache().Sweep(); removed > 0 {
		logger.Debug("Cache sweep removed %d expired entries", removed)
	}
}
