package schedule

import (
	"bytes"
	"context"
	"errors"
	"io"
	"log/slog"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func TestNew_InvalidSpec(t *testing.T) {
	for _, spec := range []string{"", "not a schedule", "* * *", "61 * * * *"} {
		t.Run(spec, func(t *testing.T) {
			_, err := New(spec, func(context.Context) error { return nil }, discardLogger())
			assert.Error(t, err)
		})
	}
}

func TestNew_ValidSpecs(t *testing.T) {
	for _, spec := range []string{"0 * * * *", "*/15 * * * *", "@hourly", "@every 1s"} {
		t.Run(spec, func(t *testing.T) {
			_, err := New(spec, func(context.Context) error { return nil }, discardLogger())
			assert.NoError(t, err)
		})
	}
}

func TestRunner_RunsJobUntilCancelled(t *testing.T) {
	var runs atomic.Int32
	job := func(context.Context) error {
		runs.Add(1)
		return errors.New("logged, not fatal")
	}
	r, err := New("@every 1s", job, discardLogger())
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- r.Start(ctx) }()

	assert.Eventually(t, func() bool { return runs.Load() >= 2 }, 5*time.Second, 50*time.Millisecond)
	cancel()

	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("runner did not stop after cancellation")
	}
}

func TestCronLogger_AppendsError(t *testing.T) {
	var buf bytes.Buffer
	l := cronLogger{logger: slog.New(slog.NewTextHandler(&buf, nil))}

	l.Error(errors.New("boom"), "panic", "entry", 1)
	assert.Contains(t, buf.String(), "cron: panic")
	assert.Contains(t, buf.String(), "error=boom")
}
