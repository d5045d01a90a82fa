package nats

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/couchcryptid/station-wind-etl/internal/config"
	"github.com/couchcryptid/station-wind-etl/internal/domain"
	natsgo "github.com/nats-io/nats.go"
)

// conn is the subset of *natsgo.Conn the publisher uses.
type conn interface {
	Publish(subject string, data []byte) error
	FlushWithContext(ctx context.Context) error
	Drain() error
}

// Publisher sends hourly wind rows to a NATS subject, one subject per station.
// It implements pipeline.SummaryLoader.
type Publisher struct {
	nc      conn
	subject string
	logger  *slog.Logger
}

// NewPublisher connects to the configured NATS server.
func NewPublisher(cfg *config.Config, logger *slog.Logger) (*Publisher, error) {
	nc, err := natsgo.Connect(cfg.NATSURL,
		natsgo.Name("station-wind-etl"),
		natsgo.Timeout(5*time.Second),
		natsgo.MaxReconnects(10),
		natsgo.DisconnectErrHandler(func(_ *natsgo.Conn, err error) {
			if err != nil {
				logger.Warn("nats disconnected", "error", err)
			}
		}),
		natsgo.ReconnectHandler(func(c *natsgo.Conn) {
			logger.Info("nats reconnected", "url", c.ConnectedUrl())
		}),
	)
	if err != nil {
		return nil, fmt.Errorf("connect to nats %s: %w", cfg.NATSURL, err)
	}
	return newPublisher(nc, cfg.NATSSubject, logger), nil
}

func newPublisher(nc conn, subject string, logger *slog.Logger) *Publisher {
	return &Publisher{nc: nc, subject: subject, logger: logger}
}

// LoadSummary publishes every hourly row of one station and waits for the
// server to acknowledge the flush.
func (p *Publisher) LoadSummary(ctx context.Context, station string, summary domain.HourlySummary) error {
	if len(summary.Rows) == 0 {
		return nil
	}
	subject := StationSubject(p.subject, station)
	for _, row := range domain.NewHourlyWindMessages(station, summary) {
		data, err := domain.SerializeHourlyWind(row)
		if err != nil {
			return err
		}
		if err := p.nc.Publish(subject, data); err != nil {
			return fmt.Errorf("publish to %s: %w", subject, err)
		}
	}
	if err := p.nc.FlushWithContext(ctx); err != nil {
		return fmt.Errorf("flush %s: %w", subject, err)
	}
	p.logger.Debug("summary published", "station", station, "messages", len(summary.Rows), "subject", subject)
	return nil
}

// Close drains pending messages and closes the connection.
func (p *Publisher) Close() error {
	return p.nc.Drain()
}

// StationSubject appends the station as the last subject token. Characters
// NATS treats as separators or wildcards are replaced with "_".
func StationSubject(base, station string) string {
	token := strings.Map(func(r rune) rune {
		switch r {
		case '.', '*', '>', ' ', '\t', '\r', '\n':
			return '_'
		}
		return r
	}, station)
	if token == "" {
		token = "_"
	}
	return base + "." + token
}
