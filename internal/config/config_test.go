package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	cfg, err := Load()
	require.NoError(t, err)

	assert.Empty(t, cfg.InputDir)
	assert.Equal(t, "tmp", cfg.TmpDirName)
	assert.Equal(t, "raw", cfg.RawDirName)
	assert.Equal(t, "izlaz", cfg.OutputDirName)
	assert.False(t, cfg.KeepIntermediate)
	assert.False(t, cfg.FailFast)
	assert.True(t, cfg.Fields.IsDefault())
	assert.Empty(t, cfg.HTTPAddr)
	assert.Equal(t, "info", cfg.LogLevel)
	assert.Equal(t, "json", cfg.LogFormat)
	assert.Equal(t, 10*time.Second, cfg.ShutdownTimeout)
	assert.Empty(t, cfg.Schedule)
	assert.Equal(t, SinkNone, cfg.Sink)
	assert.Equal(t, []string{"localhost:9092"}, cfg.KafkaBrokers)
	assert.Equal(t, "hourly-wind", cfg.KafkaTopic)
	assert.Equal(t, "nats://localhost:4222", cfg.NATSURL)
	assert.Equal(t, "hourly-wind", cfg.NATSSubject)
}

func TestLoad_CustomEnv(t *testing.T) {
	t.Setenv("INPUT_DIR", "/data/stations")
	t.Setenv("TMP_DIR_NAME", "scratch")
	t.Setenv("RAW_DIR_NAME", "snapshots")
	t.Setenv("OUTPUT_DIR_NAME", "hourly")
	t.Setenv("KEEP_INTERMEDIATE", "true")
	t.Setenv("FAIL_FAST", "true")
	t.Setenv("FIELDS_CONFIG", "/etc/fields.yaml")
	t.Setenv("HTTP_ADDR", ":9090")
	t.Setenv("LOG_LEVEL", "debug")
	t.Setenv("LOG_FORMAT", "text")
	t.Setenv("SHUTDOWN_TIMEOUT", "30s")
	t.Setenv("SCHEDULE", "0 * * * *")
	t.Setenv("SINK", "kafka")
	t.Setenv("KAFKA_BROKERS", "broker1:9092, broker2:9092")
	t.Setenv("KAFKA_TOPIC", "wind")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "/data/stations", cfg.InputDir)
	assert.Equal(t, "scratch", cfg.TmpDirName)
	assert.Equal(t, "snapshots", cfg.RawDirName)
	assert.Equal(t, "hourly", cfg.OutputDirName)
	assert.True(t, cfg.KeepIntermediate)
	assert.True(t, cfg.FailFast)
	assert.False(t, cfg.Fields.IsDefault())
	assert.Equal(t, "/etc/fields.yaml", cfg.Fields.Path())
	assert.Equal(t, ":9090", cfg.HTTPAddr)
	assert.Equal(t, "debug", cfg.LogLevel)
	assert.Equal(t, "text", cfg.LogFormat)
	assert.Equal(t, 30*time.Second, cfg.ShutdownTimeout)
	assert.Equal(t, "0 * * * *", cfg.Schedule)
	assert.Equal(t, SinkKafka, cfg.Sink)
	assert.Equal(t, []string{"broker1:9092", "broker2:9092"}, cfg.KafkaBrokers)
	assert.Equal(t, "wind", cfg.KafkaTopic)
}

func TestLoad_InvalidShutdownTimeout(t *testing.T) {
	t.Setenv("SHUTDOWN_TIMEOUT", "not-a-duration")
	_, err := Load()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "SHUTDOWN_TIMEOUT")
}

func TestLoad_NegativeShutdownTimeout(t *testing.T) {
	t.Setenv("SHUTDOWN_TIMEOUT", "-1s")
	_, err := Load()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "SHUTDOWN_TIMEOUT")
}

func TestLoad_InvalidBool(t *testing.T) {
	t.Setenv("FAIL_FAST", "sometimes")
	_, err := Load()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "FAIL_FAST")
}

func TestLoad_InvalidSink(t *testing.T) {
	t.Setenv("SINK", "carrier-pigeon")
	_, err := Load()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "SINK")
}

func TestLoad_NATSSink(t *testing.T) {
	t.Setenv("SINK", "NATS")
	t.Setenv("NATS_URL", "nats://broker:4222")
	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, SinkNATS, cfg.Sink)
	assert.Equal(t, "nats://broker:4222", cfg.NATSURL)
}

func TestLoad_DirectoryNamesMustDiffer(t *testing.T) {
	t.Setenv("RAW_DIR_NAME", "tmp")
	_, err := Load()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "must differ")
}

func TestLoad_DirectoryNameWithSeparator(t *testing.T) {
	t.Setenv("OUTPUT_DIR_NAME", "out/hourly")
	_, err := Load()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "OUTPUT_DIR_NAME")
}

func TestLoad_InvalidLogFormat(t *testing.T) {
	t.Setenv("LOG_FORMAT", "xml")
	_, err := Load()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "LOG_FORMAT")
}
