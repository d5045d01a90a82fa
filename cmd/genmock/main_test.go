package main

import (
	"bytes"
	"strings"
	"testing"
	"time"

	"github.com/couchcryptid/station-wind-etl/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testConfig() genConfig {
	return genConfig{
		station:      "Test",
		start:        time.Date(2023, 1, 1, 22, 0, 0, 0, time.UTC),
		step:         30 * time.Minute,
		count:        8,
		seed:         7,
		sentinelRate: 0.25,
	}
}

func TestColumnLine_DefaultLayout(t *testing.T) {
	assert.Equal(t, "SS mm DD mj GG ssbr PRS mxbr MXS", columnLine(domain.DefaultFieldWidths()))
}

func TestDataLine_MidnightIsHour24(t *testing.T) {
	values := map[string]int{
		domain.FieldSpeed:          100,
		domain.FieldBearing:        90,
		domain.FieldMaxGust:        150,
		domain.FieldMaxGustBearing: 95,
	}

	line, midnight := dataLine(time.Date(2023, 3, 1, 0, 0, 0, 0, time.UTC), values)
	assert.True(t, midnight)
	assert.Equal(t, "24 00 28 02 23 0100 090 0150 095", line)

	line, midnight = dataLine(time.Date(2023, 3, 1, 0, 30, 0, 0, time.UTC), values)
	assert.False(t, midnight)
	assert.Equal(t, "00 30 01 03 23 0100 090 0150 095", line)
}

func TestGenerate_ParsesBack(t *testing.T) {
	var buf bytes.Buffer
	stats, err := generate(testConfig(), &buf)
	require.NoError(t, err)

	lines := strings.Split(strings.TrimRight(buf.String(), "\n"), "\n")
	require.Len(t, lines, 3+8)
	assert.Equal(t, "Station: Test", lines[0])
	assert.Equal(t, "Period: 2023-01-01T22:00 - 2023-01-02T01:30", lines[1])
	assert.Equal(t, 8, stats.lines)
	assert.Equal(t, 1, stats.midnights)
	assert.True(t, strings.HasPrefix(lines[7], "24 00 01 01 23 "), lines[7])
}

func TestGenerate_IsReproducible(t *testing.T) {
	var a, b bytes.Buffer
	_, err := generate(testConfig(), &a)
	require.NoError(t, err)
	_, err = generate(testConfig(), &b)
	require.NoError(t, err)

	assert.Equal(t, a.String(), b.String())
}

func TestGenerate_AllMissing(t *testing.T) {
	cfg := testConfig()
	cfg.sentinelRate = 1

	var buf bytes.Buffer
	stats, err := generate(cfg, &buf)
	require.NoError(t, err)
	assert.Equal(t, 4*cfg.count, stats.sentinels)
	assert.Contains(t, buf.String(), " 9999 999 9999 999\n")
}

func TestGenConfig_Validate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*genConfig)
	}{
		{"zero step", func(c *genConfig) { c.step = 0 }},
		{"zero count", func(c *genConfig) { c.count = 0 }},
		{"rate above one", func(c *genConfig) { c.sentinelRate = 1.5 }},
		{"before 2000", func(c *genConfig) { c.start = time.Date(1999, 12, 31, 0, 0, 0, 0, time.UTC) }},
		{"past 2099", func(c *genConfig) { c.start = time.Date(2099, 12, 31, 23, 0, 0, 0, time.UTC) }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := testConfig()
			tt.mutate(&cfg)
			assert.Error(t, cfg.validate())
		})
	}
	assert.NoError(t, testConfig().validate())
}
