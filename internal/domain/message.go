package domain

import (
	"encoding/json"
	"fmt"
	"time"
)

// HourlyWindMessage is the published form of one hourly summary row.
// Missing values are encoded as null.
type HourlyWindMessage struct {
	Station     string    `json:"station"`
	BucketStart time.Time `json:"bucket_start"`
	Bearing     *int      `json:"bearing"`
	Speed       *float64  `json:"speed"`
	ProcessedAt time.Time `json:"processed_at"`
}

// Key identifies a message by station and bucket so that republishing the
// same file produces the same keys.
func (m HourlyWindMessage) Key() string {
	return m.Station + "|" + m.BucketStart.Format(time.RFC3339)
}

// NewHourlyWindMessages converts a summary into publishable messages stamped
// with the package clock.
func NewHourlyWindMessages(station string, summary HourlySummary) []HourlyWindMessage {
	now := clock.Now().UTC()
	msgs := make([]HourlyWindMessage, 0, len(summary.Rows))
	for _, row := range summary.Rows {
		msg := HourlyWindMessage{
			Station:     station,
			BucketStart: row.Start,
			ProcessedAt: now,
		}
		if row.Bearing.Valid {
			b := int(row.Bearing.Value)
			msg.Bearing = &b
		}
		if row.Speed.Valid {
			s := row.Speed.Value
			msg.Speed = &s
		}
		msgs = append(msgs, msg)
	}
	return msgs
}

// SerializeHourlyWind marshals a message for a sink.
func SerializeHourlyWind(msg HourlyWindMessage) ([]byte, error) {
	data, err := json.Marshal(msg)
	if err != nil {
		return nil, fmt.Errorf("serialize hourly wind: %w", err)
	}
	return data, nil
}
