package config

import (
	"fmt"
	"os"

	"go.yaml.in/yaml/v4"
)

type Config struct {
	Database  DatabaseConfig  `yaml:"database"`
	Kafka     KafkaConfig     `yaml:"kafka"`
	Redis     RedisConfig     `yaml:"redis"`
	Shopify   ShopifyConfig   `yaml:"shopify"`
	Carriers  CarriersConfig  `yaml:"carriers"`
	TrackPage TrackPageConfig `yaml:"trackpage"`
}

type DatabaseConfig struct {
	Host     string `yaml:"host"`
	Port     int    `yaml:"port"`
	Username string `yaml:"username"`
	Password string `yaml:"password"`
	DBName   string `yaml:"name"`
	SSLMode  string `yaml:"ssl_mode"`
}

type KafkaConfig struct {
	Host                    string `yaml:"host"`
	Port                    int    `yaml:"port"`
	LookupRecordedTopicName string `yaml:"lookup_recorded_topic_name"`
}

type RedisConfig struct {
	Host string `yaml:"host"`
	Port int    `yaml:"port"`
}

type ShopifyConfig struct {
	// BaseURL переопределяет хост магазина (тесты, прокси). Пустой — боевой
	// admin API на домене магазина.
	BaseURL    string `yaml:"base_url"`
	APIVersion string `yaml:"api_version"`
}

// Ключ не задан — интеграция перевозчика выключена, работаем через fallback.
type CarriersConfig struct {
	UPSAPIKey    string `yaml:"ups_api_key"`
	UPSBaseURL   string `yaml:"ups_base_url"`
	FedExAPIKey  string `yaml:"fedex_api_key"`
	FedExBaseURL string `yaml:"fedex_base_url"`
	USPSAPIKey   string `yaml:"usps_api_key"`
	USPSBaseURL  string `yaml:"usps_base_url"`
	DHLAPIKey    string `yaml:"dhl_api_key"`
	DHLBaseURL   string `yaml:"dhl_base_url"`
}

type TrackPageConfig struct {
	HTTPAddr                 string `yaml:"http_addr"`
	KafkaConsumerGroup       string `yaml:"kafka_consumer_group"`
	ShopCacheTTLSeconds      int    `yaml:"shop_cache_ttl_seconds"`
	LookupRateLimitPerMinute int    `yaml:"lookup_rate_limit_per_minute"`

	WorkerHTTPAddr string `yaml:"worker_http_addr"`
}

func LoadConfig(filename string) (*Config, error) {
	data, err := os.ReadFile(filename)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	var config Config
	err = yaml.Unmarshal(data, &config)
	if err != nil {
		return nil, fmt.Errorf("failed to unmarshal YAML: %w", err)
	}

	return &config, nil
}
