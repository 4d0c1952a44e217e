package config

import (
	"github.com/hetansh2220/hoperise/internal/logger"
	"github.com/spf13/viper"
)

type Config struct {
	Server  ServerConfig  `mapstructure:"server"`
	Ledger  LedgerConfig  `mapstructure:"ledger"`
	Gateway GatewayConfig `mapstructure:"gateway"`
	Cache   CacheConfig   `mapstructure:"cache"`
	Log     LogConfig     `mapstructure:"log"`
}

type ServerConfig struct {
	Port string `mapstructure:"port"`
	Mode string `mapstructure:"mode"`
}

// LedgerConfig 链上账本配置
type LedgerConfig struct {
	RPCURL     string `mapstructure:"rpc_url"`     // RPC节点URL
	ProgramID  string `mapstructure:"program_id"`  // 众筹程序地址
	USDCMint   string `mapstructure:"usdc_mint"`   // USDC铸币地址
	Commitment string `mapstructure:"commitment"`  // 确认级别: processed, confirmed, finalized
	PrivateKey string `mapstructure:"private_key"` // 签名私钥（base58，只读部署可留空）
}

// GatewayConfig 内容网关配置（ipfs:// 引用解析与固定）
type GatewayConfig struct {
	Prefix      string `mapstructure:"prefix"`       // 网关前缀，替换 ipfs:// 得到可抓取地址
	PinEndpoint string `mapstructure:"pin_endpoint"` // 固定服务上传端点
	PinJWT      string `mapstructure:"pin_jwt"`      // 固定服务令牌（留空则上传返回占位引用）
	Retry       bool   `mapstructure:"retry"`        // 上传失败是否重试
}

// CacheConfig 缓存新鲜度窗口（秒）
type CacheConfig struct {
	CampaignFresh      int `mapstructure:"campaign_fresh"`      // 活动列表/详情新鲜窗口
	CampaignRetain     int `mapstructure:"campaign_retain"`     // 活动保留窗口
	MilestoneFresh     int `mapstructure:"milestone_fresh"`     // 里程碑新鲜窗口
	MilestoneRetain    int `mapstructure:"milestone_retain"`    // 里程碑保留窗口
	ContributionFresh  int `mapstructure:"contribution_fresh"`  // 出资记录新鲜窗口
	ContributionRetain int `mapstructure:"contribution_retain"` // 出资记录保留窗口
	PollInterval       int `mapstructure:"poll_interval"`       // 详情页出资记录轮询间隔
	RefreshWorkers     int `mapstructure:"refresh_workers"`     // 后台刷新协程池大小
}

type LogConfig struct {
	Level  string `mapstructure:"level"`  // 日志级别: debug, info, warn, error, fatal
	Output string `mapstructure:"output"` // 输出目标: stdout, stderr, file
	File   string `mapstructure:"file"`   // 日志文件路径（当output为file时使用）
}

// GetLevel 实现 logger.LogConfig 接口
func (l LogConfig) GetLevel() string {
	return l.Level
}

// GetOutput 实现 logger.LogConfig 接口
func (l LogConfig) GetOutput() string {
	return l.Output
}

// GetFile 实现 logger.LogConfig 接口
func (l LogConfig) GetFile() string {
	return l.File
}

func Load() *Config {
	viper.SetConfigName("config")
	viper.SetConfigType("yaml")
	viper.AddConfigPath(".")
	viper.AddConfigPath("./config")
	viper.AddConfigPath("/etc/hoperise")

	// 设置默认值
	viper.SetDefault("server.port", "8080")
	viper.SetDefault("server.mode", "debug")
	viper.SetDefault("ledger.rpc_url", "https://api.devnet.solana.com")
	viper.SetDefault("ledger.program_id", "BAaDjLVffrtNzgKLoUjmM9t1tWBHxMF6UFdnL1NYmQ3J")
	viper.SetDefault("ledger.usdc_mint", "Gh9ZwEmdLJ8DscKNTkTqPbNwLNNBjuSzaG9Vp2KGtKJr")
	viper.SetDefault("ledger.commitment", "confirmed")
	viper.SetDefault("gateway.prefix", "https://gateway.pinata.cloud/ipfs/")
	viper.SetDefault("gateway.pin_endpoint", "https://api.pinata.cloud/pinning/pinFileToIPFS")
	viper.SetDefault("cache.campaign_fresh", 300)
	viper.SetDefault("cache.campaign_retain", 600)
	viper.SetDefault("cache.milestone_fresh", 120)
	viper.SetDefault("cache.milestone_retain", 300)
	viper.SetDefault("cache.contribution_fresh", 30)
	viper.SetDefault("cache.contribution_retain", 120)
	viper.SetDefault("cache.poll_interval", 10)
	viper.SetDefault("cache.refresh_workers", 4)
	viper.SetDefault("log.level", "info")
	viper.SetDefault("log.output", "stdout")
	viper.SetDefault("log.file", "logs/app.log")

	// 自动读取环境变量
	viper.AutomaticEnv()

	if err := viper.ReadInConfig(); err != nil {
		logger.Warn("Warning: Could not read config file: %v", err)
	}

	var config Config
	if err := viper.Unmarshal(&config); err != nil {
		logger.Fatal("Unable to decode config into struct: %v", err)
	}

	return &config
}
