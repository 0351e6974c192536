package config

import (
	"os"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// 默认值
const (
	DefaultBaseURL      = "https://finance.yahoo.com"
	DefaultUserAgent    = "Mozilla/5.0 (Macintosh; Intel Mac OS X 10_15_7) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/120.0.0.0 Safari/537.36"
	DefaultSelector     = "h3"
	DefaultTimeout      = 10
	DefaultMaxHeadlines = 20
	DefaultDelay        = 1
	DefaultProvider     = "lexicon"
	DefaultOllamaURL    = "http://localhost:11434"
	DefaultOllamaModel  = "mistral"
)

// Config 项目配置结构体
type Config struct {
	Fetcher     FetcherConfig     `yaml:"fetcher"`
	Classifier  ClassifierConfig  `yaml:"classifier"`
	LLM         LLMConfig         `yaml:"llm"`
	Ollama      OllamaConfig      `yaml:"ollama"`
	Concurrency ConcurrencyConfig `yaml:"concurrency"`
	Chart       ChartConfig       `yaml:"chart"`
	Log         LogConfig         `yaml:"log"`
	Schedule    string            `yaml:"schedule"` // cron 表达式，为空则只运行一次
}

// FetcherConfig 新闻页抓取配置
type FetcherConfig struct {
	BaseURL      string `yaml:"base_url"`
	UserAgent    string `yaml:"user_agent"`
	Timeout      int    `yaml:"timeout"` // 秒
	Selector     string `yaml:"selector"`
	MaxHeadlines int    `yaml:"max_headlines"`
	Delay        int    `yaml:"delay"` // 两次抓取之间的最小间隔（秒）
}

// ClassifierConfig 情感分类器配置
type ClassifierConfig struct {
	Provider string `yaml:"provider"` // lexicon / openai / ollama
}

// LLMConfig LLM 相关配置
type LLMConfig struct {
	BaseURL string `yaml:"base_url"`
	APIKey  string `yaml:"api_key"`
	Model   string `yaml:"model"`
}

// OllamaConfig 本地 Ollama 配置
type OllamaConfig struct {
	BaseURL string `yaml:"base_url"`
	Model   string `yaml:"model"`
	Timeout int    `yaml:"timeout"`
}

// ConcurrencyConfig 并发控制配置
type ConcurrencyConfig struct {
	QPS int `yaml:"qps"`
	RPM int `yaml:"rpm"`
}

// ChartConfig 图表输出配置
type ChartConfig struct {
	Enabled *bool  `yaml:"enabled"`
	Dir     string `yaml:"dir"`
	Open    bool   `yaml:"open"`
}

// LogConfig 日志相关配置
type LogConfig struct {
	Level string `yaml:"level"`
	File  string `yaml:"file"`
}

// LoadConfig 从指定路径加载配置，并补齐默认值
func LoadConfig(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, err
	}
	cfg.ApplyDefaults()

	return &cfg, nil
}

// Default 返回全部使用默认值的配置
func Default() *Config {
	cfg := &Config{}
	cfg.ApplyDefaults()
	return cfg
}

// ApplyDefaults 为未设置的字段填充默认值
func (c *Config) ApplyDefaults() {
	if c.Fetcher.BaseURL == "" {
		c.Fetcher.BaseURL = DefaultBaseURL
	}
	if c.Fetcher.UserAgent == "" {
		c.Fetcher.UserAgent = DefaultUserAgent
	}
	if c.Fetcher.Timeout <= 0 {
		c.Fetcher.Timeout = DefaultTimeout
	}
	if c.Fetcher.Selector == "" {
		c.Fetcher.Selector = DefaultSelector
	}
	if c.Fetcher.MaxHeadlines <= 0 {
		c.Fetcher.MaxHeadlines = DefaultMaxHeadlines
	}
	if c.Fetcher.Delay < 0 {
		c.Fetcher.Delay = 0
	} else if c.Fetcher.Delay == 0 {
		c.Fetcher.Delay = DefaultDelay
	}
	if c.Classifier.Provider == "" {
		c.Classifier.Provider = DefaultProvider
	}
	if c.Ollama.BaseURL == "" {
		c.Ollama.BaseURL = DefaultOllamaURL
	}
	if c.Ollama.Model == "" {
		c.Ollama.Model = DefaultOllamaModel
	}
	if c.Ollama.Timeout <= 0 {
		c.Ollama.Timeout = 90
	}
	if c.Concurrency.QPS <= 0 {
		c.Concurrency.QPS = 1
	}
	if c.Concurrency.RPM <= 0 {
		c.Concurrency.RPM = 60
	}
	if c.Chart.Enabled == nil {
		enabled := true
		c.Chart.Enabled = &enabled
	}
	if c.Chart.Dir == "" {
		c.Chart.Dir = "."
	}
	if c.Log.Level == "" {
		c.Log.Level = "info"
	}
}

// ApplyEnv 加载 .env（不存在则忽略）并用环境变量覆盖敏感配置
func (c *Config) ApplyEnv(files ...string) {
	_ = godotenv.Load(files...)

	if v := os.Getenv("LLM_API_KEY"); v != "" {
		c.LLM.APIKey = v
	}
	if v := os.Getenv("LLM_BASE_URL"); v != "" {
		c.LLM.BaseURL = v
	}
	if v := os.Getenv("LLM_MODEL"); v != "" {
		c.LLM.Model = v
	}
	if v := os.Getenv("OLLAMA_BASE_URL"); v != "" {
		c.Ollama.BaseURL = v
	}
}

// ChartEnabled 是否输出图表
func (c *Config) ChartEnabled() bool {
	return c.Chart.Enabled == nil || *c.Chart.Enabled
}

// FetchTimeout 抓取超时
func (f FetcherConfig) FetchTimeout() time.Duration {
	return time.Duration(f.Timeout) * time.Second
}

// FetchDelay 两次抓取之间的最小间隔
func (f FetcherConfig) FetchDelay() time.Duration {
	return time.Duration(f.Delay) * time.Second
}
