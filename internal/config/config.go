package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Sink names accepted by SINK.
const (
	SinkNone  = "none"
	SinkKafka = "kafka"
	SinkNATS  = "nats"
)

// Config holds all batch settings, populated from environment variables.
type Config struct {
	InputDir         string
	TmpDirName       string
	RawDirName       string
	OutputDirName    string
	KeepIntermediate bool
	FailFast         bool
	Fields           FieldSource

	HTTPAddr        string
	LogLevel        string
	LogFormat       string
	ShutdownTimeout time.Duration

	// Schedule is a standard 5-field cron spec; empty runs the batch once.
	Schedule string

	// Summary publishing.
	Sink         string
	KafkaBrokers []string
	KafkaTopic   string
	NATSURL      string
	NATSSubject  string
}

// Load reads configuration from the environment, applying defaults where
// unset. A .env file in the working directory is loaded first if present.
func Load() (*Config, error) {
	_ = godotenv.Load()

	shutdownTimeout, err := parseDuration("SHUTDOWN_TIMEOUT", "10s")
	if err != nil {
		return nil, err
	}
	keep, err := parseBool("KEEP_INTERMEDIATE", false)
	if err != nil {
		return nil, err
	}
	failFast, err := parseBool("FAIL_FAST", false)
	if err != nil {
		return nil, err
	}

	cfg := &Config{
		InputDir:         os.Getenv("INPUT_DIR"),
		TmpDirName:       envOrDefault("TMP_DIR_NAME", "tmp"),
		RawDirName:       envOrDefault("RAW_DIR_NAME", "raw"),
		OutputDirName:    envOrDefault("OUTPUT_DIR_NAME", "izlaz"),
		KeepIntermediate: keep,
		FailFast:         failFast,
		Fields:           FieldSourceFromPath(os.Getenv("FIELDS_CONFIG")),

		HTTPAddr:        os.Getenv("HTTP_ADDR"),
		LogLevel:        envOrDefault("LOG_LEVEL", "info"),
		LogFormat:       envOrDefault("LOG_FORMAT", "json"),
		ShutdownTimeout: shutdownTimeout,

		Schedule: strings.TrimSpace(os.Getenv("SCHEDULE")),

		Sink:         strings.ToLower(envOrDefault("SINK", SinkNone)),
		KafkaBrokers: parseList(envOrDefault("KAFKA_BROKERS", "localhost:9092")),
		KafkaTopic:   envOrDefault("KAFKA_TOPIC", "hourly-wind"),
		NATSURL:      envOrDefault("NATS_URL", "nats://localhost:4222"),
		NATSSubject:  envOrDefault("NATS_SUBJECT", "hourly-wind"),
	}

	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) validate() error {
	for name, v := range map[string]string{
		"TMP_DIR_NAME":    c.TmpDirName,
		"RAW_DIR_NAME":    c.RawDirName,
		"OUTPUT_DIR_NAME": c.OutputDirName,
	} {
		if strings.ContainsAny(v, `/\`) {
			return fmt.Errorf("%s must be a plain directory name, got %q", name, v)
		}
	}
	if c.TmpDirName == c.RawDirName || c.TmpDirName == c.OutputDirName || c.RawDirName == c.OutputDirName {
		return errors.New("TMP_DIR_NAME, RAW_DIR_NAME and OUTPUT_DIR_NAME must differ")
	}

	switch c.Sink {
	case SinkNone:
	case SinkKafka:
		if len(c.KafkaBrokers) == 0 {
			return errors.New("KAFKA_BROKERS is required when SINK=kafka")
		}
		if c.KafkaTopic == "" {
			return errors.New("KAFKA_TOPIC is required when SINK=kafka")
		}
	case SinkNATS:
		if c.NATSURL == "" {
			return errors.New("NATS_URL is required when SINK=nats")
		}
		if c.NATSSubject == "" {
			return errors.New("NATS_SUBJECT is required when SINK=nats")
		}
	default:
		return fmt.Errorf("invalid SINK %q: want none, kafka or nats", c.Sink)
	}

	switch c.LogFormat {
	case "json", "text":
	default:
		return fmt.Errorf("invalid LOG_FORMAT %q: want json or text", c.LogFormat)
	}
	return nil
}

func envOrDefault(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func parseDuration(key, fallback string) (time.Duration, error) {
	d, err := time.ParseDuration(envOrDefault(key, fallback))
	if err != nil || d <= 0 {
		return 0, fmt.Errorf("invalid %s", key)
	}
	return d, nil
}

func parseBool(key string, fallback bool) (bool, error) {
	s := os.Getenv(key)
	if s == "" {
		return fallback, nil
	}
	v, err := strconv.ParseBool(s)
	if err != nil {
		return false, fmt.Errorf("invalid %s: %w", key, err)
	}
	return v, nil
}

func parseList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
