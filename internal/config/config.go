package config

import (
	"errors"
	"os"
	"strconv"
	"strings"
	"time"
)

// Config holds all service settings, populated from environment variables.
type Config struct {
	HTTPAddr        string
	LogLevel        string
	LogFormat       string
	ShutdownTimeout time.Duration

	// Feed stream configuration.
	FeedURL         string
	FeedBearerToken string
	FeedEnabled     bool

	// Kafka replay source configuration.
	KafkaEnabled     bool
	KafkaBrokers     []string
	KafkaSourceTopic string
	KafkaGroupID     string

	EmojiDataPath string

	AnalyzerPollInterval time.Duration
	ReportInterval       time.Duration
	ReportTopK           int
	SnapshotPath         string

	// StoreBackend selects the enriched-record store: "sync" (keyed,
	// concurrent-safe) or "list" (append-only, single writer).
	StoreBackend string
}

// Load reads configuration from environment variables, applying defaults where unset.
func Load() (*Config, error) {
	shutdownTimeout, err := parsePositiveDuration("SHUTDOWN_TIMEOUT", "10s")
	if err != nil {
		return nil, err
	}

	pollInterval, err := parsePositiveDuration("ANALYZER_POLL_INTERVAL", "100ms")
	if err != nil {
		return nil, err
	}

	reportInterval, err := parsePositiveDuration("REPORT_INTERVAL", "10s")
	if err != nil {
		return nil, err
	}

	topK, err := parseTopK()
	if err != nil {
		return nil, err
	}

	feedToken := os.Getenv("FEED_BEARER_TOKEN")
	feedEnabled := feedToken != ""
	if v := os.Getenv("FEED_ENABLED"); v != "" {
		feedEnabled = v == "true"
	}

	kafkaEnabled := os.Getenv("KAFKA_ENABLED") == "true"

	cfg := &Config{
		HTTPAddr:        envOrDefault("HTTP_ADDR", ":8080"),
		LogLevel:        envOrDefault("LOG_LEVEL", "info"),
		LogFormat:       envOrDefault("LOG_FORMAT", "json"),
		ShutdownTimeout: shutdownTimeout,

		FeedURL: envOrDefault("FEED_URL",
			"https://api.twitter.com/2/tweets/sample/stream?tweet.fields=attachments,created_at,entities&expansions=attachments.media_keys"),
		FeedBearerToken: feedToken,
		FeedEnabled:     feedEnabled,

		KafkaEnabled:     kafkaEnabled,
		KafkaBrokers:     parseBrokers(envOrDefault("KAFKA_BROKERS", "localhost:9092")),
		KafkaSourceTopic: envOrDefault("KAFKA_SOURCE_TOPIC", "raw-feed-messages"),
		KafkaGroupID:     envOrDefault("KAFKA_GROUP_ID", "feed-signal-sampler"),

		EmojiDataPath: envOrDefault("EMOJI_DATA_PATH", "emoji.json"),

		AnalyzerPollInterval: pollInterval,
		ReportInterval:       reportInterval,
		ReportTopK:           topK,
		SnapshotPath:         os.Getenv("SNAPSHOT_PATH"),

		StoreBackend: envOrDefault("STORE_BACKEND", "sync"),
	}

	if cfg.FeedEnabled && cfg.FeedBearerToken == "" {
		return nil, errors.New("FEED_ENABLED is true but FEED_BEARER_TOKEN is not set")
	}
	if cfg.FeedURL == "" {
		return nil, errors.New("FEED_URL is required")
	}
	if cfg.KafkaEnabled && len(cfg.KafkaBrokers) == 0 {
		return nil, errors.New("KAFKA_BROKERS is required when KAFKA_ENABLED is true")
	}
	if cfg.KafkaEnabled && cfg.KafkaSourceTopic == "" {
		return nil, errors.New("KAFKA_SOURCE_TOPIC is required when KAFKA_ENABLED is true")
	}
	if cfg.StoreBackend != "sync" && cfg.StoreBackend != "list" {
		return nil, errors.New("invalid STORE_BACKEND: must be \"sync\" or \"list\"")
	}

	return cfg, nil
}

func envOrDefault(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func parsePositiveDuration(key, fallback string) (time.Duration, error) {
	s := envOrDefault(key, fallback)
	d, err := time.ParseDuration(s)
	if err != nil || d <= 0 {
		return 0, errors.New("invalid " + key + ": must be a positive duration")
	}
	return d, nil
}

func parseTopK() (int, error) {
	s := os.Getenv("REPORT_TOP_K")
	if s == "" {
		return 5, nil
	}
	n, err := strconv.Atoi(s)
	if err != nil || n < 1 || n > 100 {
		return 0, errors.New("invalid REPORT_TOP_K: must be 1-100")
	}
	return n, nil
}

func parseBrokers(value string) []string {
	parts := strings.Split(value, ",")
	brokers := make([]string, 0, len(parts))
	for _, part := range parts {
		trimmed := strings.TrimSpace(part)
		if trimmed != "" {
			brokers = append(brokers, trimmed)
		}
	}
	return brokers
}
