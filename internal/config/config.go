package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"time"

	sharedcfg "github.com/couchcryptid/storm-data-shared/config"
)

// Sink names accepted by SINK.
const (
	SinkLog   = "log"
	SinkFile  = "file"
	SinkKafka = "kafka"
)

// Config holds all service settings, populated from environment variables.
type Config struct {
	DataDir      string
	ParseWorkers int
	AliasFile    string

	Sink         string
	OutputPath   string
	KafkaBrokers []string
	KafkaTopic   string
	BatchSize    int

	HTTPAddr        string
	RunOnce         bool
	LogLevel        string
	LogFormat       string
	ShutdownTimeout time.Duration

	// Kakao Local geocoding configuration.
	KakaoAPIKey      string
	GeocodeEnabled   bool
	GeocodeTimeout   time.Duration
	GeocodeCacheSize int
	GeocodeRate      float64
}

// Load reads configuration from environment variables, applying defaults where unset.
func Load() (*Config, error) {
	shutdownTimeout, err := sharedcfg.ParseShutdownTimeout()
	if err != nil {
		return nil, err
	}

	batchSize, err := sharedcfg.ParseBatchSize()
	if err != nil {
		return nil, err
	}

	geocodeTimeout, err := time.ParseDuration(sharedcfg.EnvOrDefault("GEOCODE_TIMEOUT", "5s"))
	if err != nil || geocodeTimeout <= 0 {
		return nil, errors.New("invalid GEOCODE_TIMEOUT")
	}

	workers, err := positiveInt("PARSE_WORKERS", 4)
	if err != nil {
		return nil, err
	}
	cacheSize, err := positiveInt("GEOCODE_CACHE_SIZE", 1000)
	if err != nil {
		return nil, err
	}

	rate, err := strconv.ParseFloat(sharedcfg.EnvOrDefault("GEOCODE_RATE_PER_SEC", "10"), 64)
	if err != nil || rate <= 0 {
		return nil, errors.New("invalid GEOCODE_RATE_PER_SEC")
	}

	runOnce, err := strconv.ParseBool(sharedcfg.EnvOrDefault("RUN_ONCE", "false"))
	if err != nil {
		return nil, errors.New("invalid RUN_ONCE")
	}

	kakaoKey := os.Getenv("KAKAO_REST_API_KEY")
	geocodeEnabled := kakaoKey != ""
	if v := os.Getenv("GEOCODE_ENABLED"); v != "" {
		geocodeEnabled = v == "true"
	}

	cfg := &Config{
		DataDir:      sharedcfg.EnvOrDefault("SHELTER_DATA_DIR", "data/raw_data/shelters"),
		ParseWorkers: workers,
		AliasFile:    os.Getenv("ALIAS_FILE"),

		Sink:         sharedcfg.EnvOrDefault("SINK", SinkLog),
		OutputPath:   sharedcfg.EnvOrDefault("OUTPUT_PATH", "data/shelters.json"),
		KafkaBrokers: sharedcfg.ParseBrokers(sharedcfg.EnvOrDefault("KAFKA_BROKERS", "localhost:9092")),
		KafkaTopic:   sharedcfg.EnvOrDefault("KAFKA_TOPIC", "normalized-shelters"),
		BatchSize:    batchSize,

		HTTPAddr:        sharedcfg.EnvOrDefault("HTTP_ADDR", ":8080"),
		RunOnce:         runOnce,
		LogLevel:        sharedcfg.EnvOrDefault("LOG_LEVEL", "info"),
		LogFormat:       sharedcfg.EnvOrDefault("LOG_FORMAT", "json"),
		ShutdownTimeout: shutdownTimeout,

		KakaoAPIKey:      kakaoKey,
		GeocodeEnabled:   geocodeEnabled,
		GeocodeTimeout:   geocodeTimeout,
		GeocodeCacheSize: cacheSize,
		GeocodeRate:      rate,
	}

	if cfg.DataDir == "" {
		return nil, errors.New("SHELTER_DATA_DIR is required")
	}
	switch cfg.Sink {
	case SinkLog:
	case SinkFile:
		if cfg.OutputPath == "" {
			return nil, errors.New("OUTPUT_PATH is required when SINK=file")
		}
	case SinkKafka:
		if len(cfg.KafkaBrokers) == 0 {
			return nil, errors.New("KAFKA_BROKERS is required when SINK=kafka")
		}
		if cfg.KafkaTopic == "" {
			return nil, errors.New("KAFKA_TOPIC is required when SINK=kafka")
		}
	default:
		return nil, fmt.Errorf("invalid SINK %q: want %s, %s or %s", cfg.Sink, SinkLog, SinkFile, SinkKafka)
	}
	if cfg.GeocodeEnabled && cfg.KakaoAPIKey == "" {
		return nil, errors.New("GEOCODE_ENABLED is true but KAKAO_REST_API_KEY is not set")
	}

	return cfg, nil
}

func positiveInt(key string, def int) (int, error) {
	s := os.Getenv(key)
	if s == "" {
		return def, nil
	}
	n, err := strconv.Atoi(s)
	if err != nil || n <= 0 {
		return 0, fmt.Errorf("invalid %s", key)
	}
	return n, nil
}
