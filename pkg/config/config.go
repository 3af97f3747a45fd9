package config

import (
	"fmt"
	"strings"

	"github.com/spf13/viper"
)

type Config struct {
	Server    ServerConfig
	LLM       LLMConfig
	Storage   StorageConfig
	Analytics AnalyticsConfig
	Wordcloud WordcloudConfig
	RateLimit RateLimitConfig
	Logging   LoggingConfig
}

type ServerConfig struct {
	Host         string
	Port         int
	ReadTimeout  int
	WriteTimeout int
	BodyLimit    int
}

type LLMConfig struct {
	BaseURL     string
	APIKey      string
	Model       string
	Temperature float32
	MaxTokens   int
	TimeoutSec  int
}

type StorageConfig struct {
	CompaniesPath string
	BackupPath    string
	LogPath       string
}

type AnalyticsConfig struct {
	TopK      int
	Stopwords []string
}

type WordcloudConfig struct {
	FontPath string
	Width    int
	Height   int
}

type RateLimitConfig struct {
	MaxRequestsPerMinute int
}

type LoggingConfig struct {
	Level      string
	Format     string
	OutputPath string
}

func Load() (*Config, error) {
	viper.SetConfigName("config")
	viper.SetConfigType("yaml")
	viper.AddConfigPath(".")
	viper.AddConfigPath("./config")
	viper.AddConfigPath("/etc/chatbot")

	viper.SetEnvPrefix("CHATBOT")
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	viper.AutomaticEnv()

	setDefaults()

	if err := viper.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
	}

	var config Config
	if err := viper.Unmarshal(&config); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	return &config, nil
}

func setDefaults() {
	viper.SetDefault("server.host", "0.0.0.0")
	viper.SetDefault("server.port", 8080)
	viper.SetDefault("server.readTimeout", 30)
	viper.SetDefault("server.writeTimeout", 30)
	viper.SetDefault("server.bodyLimit", 1048576)

	// LM Studio style local endpoint.
	viper.SetDefault("llm.baseURL", "http://localhost:1234/v1")
	viper.SetDefault("llm.apiKey", "lm-studio")
	viper.SetDefault("llm.model", "deepseek-r1-distill-qwen-7b")
	viper.SetDefault("llm.temperature", 0.5)
	viper.SetDefault("llm.maxTokens", 1000)
	viper.SetDefault("llm.timeoutSec", 60)

	viper.SetDefault("storage.companiesPath", "./data/company_data.json")
	viper.SetDefault("storage.backupPath", "./data/deleted_companies.json")
	viper.SetDefault("storage.logPath", "./log/chat_log.csv")

	viper.SetDefault("analytics.topK", 20)
	viper.SetDefault("analytics.stopwords", []string{})

	viper.SetDefault("wordcloud.fontPath", "./assets/DejaVuSans.ttf")
	viper.SetDefault("wordcloud.width", 1024)
	viper.SetDefault("wordcloud.height", 768)

	viper.SetDefault("ratelimit.maxRequestsPerMinute", 120)

	viper.SetDefault("logging.level", "info")
	viper.SetDefault("logging.format", "json")
	viper.SetDefault("logging.outputPath", "stdout")
}
