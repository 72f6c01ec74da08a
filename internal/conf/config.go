package conf

import (
	"fmt"
	"strings"

	"github.com/spf13/viper"
)

type Config struct {
	Server    ServerConfig
	Log       LogConfig
	News      NewsConfig
	Reddit    RedditConfig
	Bluesky   BlueskyConfig
	AI        AIConfig
	Search    SearchConfig
	Extractor ExtractorConfig
}

type ServerConfig struct {
	Host string `mapstructure:"host"`
	Port int    `mapstructure:"port"`
}

type LogConfig struct {
	Level            string        `mapstructure:"level"`
	Format           string        `mapstructure:"format"`
	Output           string        `mapstructure:"output"`
	File             FileLogConfig `mapstructure:"file"`
	EnableCaller     bool          `mapstructure:"enablecaller"`
	EnableStacktrace bool          `mapstructure:"enablestacktrace"`
}

type FileLogConfig struct {
	Filename   string `mapstructure:"filename"`
	MaxSize    int    `mapstructure:"maxsize"`
	MaxAge     int    `mapstructure:"maxage"`
	MaxBackups int    `mapstructure:"maxbackups"`
	Compress   bool   `mapstructure:"compress"`
}

type NewsConfig struct {
	APIHost string `mapstructure:"api_host"`
	APIKey  string `mapstructure:"api_key"`
	Timeout int    `mapstructure:"timeout"` // seconds
}

type RedditConfig struct {
	AuthHost     string `mapstructure:"auth_host"`
	APIHost      string `mapstructure:"api_host"`
	ClientID     string `mapstructure:"client_id"`
	ClientSecret string `mapstructure:"client_secret"`
	UserAgent    string `mapstructure:"user_agent"`
	Timeout      int    `mapstructure:"timeout"`
}

type BlueskyConfig struct {
	APIHost     string `mapstructure:"api_host"`
	Handle      string `mapstructure:"handle"`
	AppPassword string `mapstructure:"app_password"`
	Timeout     int    `mapstructure:"timeout"`
}

type AIConfig struct {
	BaseURL string `mapstructure:"base_url"`
	APIKey  string `mapstructure:"api_key"`
	Model   string `mapstructure:"model"`
	Timeout int    `mapstructure:"timeout"`

	// Label used when the bias classifier fails or answers off-contract.
	BiasFallback string `mapstructure:"bias_fallback"`
}

type SearchConfig struct {
	SocialLimit  int    `mapstructure:"social_limit"`  // per social source
	NewsPageSize int    `mapstructure:"news_page_size"`
	QuotaPerBias int    `mapstructure:"quota_per_bias"`
	NewsCap      int    `mapstructure:"news_cap"`
	CacheSize    int    `mapstructure:"cache_size"`
	RedditScope  string `mapstructure:"reddit_scope"`
	RedditSort   string `mapstructure:"reddit_sort"`
	BlueskySort  string `mapstructure:"bluesky_sort"`
	Workers      int    `mapstructure:"workers"` // bias classification pool
}

// ExtractorConfig governs article-page fetches for full-text extraction.
type ExtractorConfig struct {
	UserAgent string `mapstructure:"user_agent"`
}

func LoadConfig(path string) (*Config, error) {
	viper.SetConfigFile(path)
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	viper.AutomaticEnv()

	setDefaults()

	if err := viper.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("failed to read config: %w", err)
	}

	var config Config
	if err := viper.Unmarshal(&config); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	return &config, nil
}

func setDefaults() {
	viper.SetDefault("server.host", "0.0.0.0")
	viper.SetDefault("server.port", 8000)

	viper.SetDefault("log.level", "info")
	viper.SetDefault("log.format", "json")
	viper.SetDefault("log.output", "console")
	viper.SetDefault("log.file.filename", "logs/app.log")
	viper.SetDefault("log.file.maxsize", 100)
	viper.SetDefault("log.file.maxage", 30)
	viper.SetDefault("log.file.maxbackups", 10)
	viper.SetDefault("log.file.compress", true)

	viper.SetDefault("news.api_host", "https://newsapi.org")
	viper.SetDefault("news.api_key", "")
	viper.SetDefault("news.timeout", 30)

	viper.SetDefault("reddit.auth_host", "https://www.reddit.com")
	viper.SetDefault("reddit.api_host", "https://oauth.reddit.com")
	viper.SetDefault("reddit.client_id", "")
	viper.SetDefault("reddit.client_secret", "")
	viper.SetDefault("reddit.user_agent", "polaryx/0.1")
	viper.SetDefault("reddit.timeout", 30)

	viper.SetDefault("bluesky.api_host", "https://bsky.social")
	viper.SetDefault("bluesky.handle", "")
	viper.SetDefault("bluesky.app_password", "")
	viper.SetDefault("bluesky.timeout", 30)

	viper.SetDefault("ai.base_url", "https://api.openai.com/v1")
	viper.SetDefault("ai.api_key", "")
	viper.SetDefault("ai.model", "gpt-4o-mini")
	viper.SetDefault("ai.timeout", 60)
	viper.SetDefault("ai.bias_fallback", "left")

	viper.SetDefault("search.social_limit", 20)
	viper.SetDefault("search.news_page_size", 100)
	viper.SetDefault("search.quota_per_bias", 20)
	viper.SetDefault("search.news_cap", 50)
	viper.SetDefault("search.cache_size", 1024)
	viper.SetDefault("search.reddit_scope", "all")
	viper.SetDefault("search.reddit_sort", "hot")
	viper.SetDefault("search.bluesky_sort", "top")
	viper.SetDefault("search.workers", 16)

	// News sites serve different markup (or a block page) to unknown
	// agents; default to a browser string.
	viper.SetDefault("extractor.user_agent",
		"Mozilla/5.0 (X11; Linux x86_64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/120.0.0.0 Safari/537.36")
}
