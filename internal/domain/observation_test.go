package domain

import (
	"errors"
	"math"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func makeWindRecord(ss, mm, ssbr, prs int) RawRecord {
	rec := makeTimeRecord(23, 1, 1, ss, mm)
	rec.Set(FieldSpeed, ssbr)
	rec.Set(FieldBearing, prs)
	return rec
}

func TestBuildObservationTable(t *testing.T) {
	records := []RawRecord{
		makeWindRecord(0, 0, 100, 90),
		makeWindRecord(0, 10, 100, 270),
	}

	table, err := BuildObservationTable(records)
	require.NoError(t, err)
	require.Len(t, table.Rows, 2)
	assert.Equal(t, []string{"SS", "mm", "DD", "mj", "GG", "ssbr", "PRS"}, table.Columns)
	assert.Zero(t, table.Missing)

	first := table.Rows[0]
	assert.Equal(t, time.Date(2023, 1, 1, 0, 0, 0, 0, time.UTC), first.Time)
	assert.Equal(t, Present(10), first.Speed)
	assert.Equal(t, Present(90), first.Bearing)
	assert.InDelta(t, 0, first.BearingRad.Value, 1e-12)
	assert.Equal(t, Present(10), first.X)
	assert.Equal(t, 0.0, first.Y.Value)

	second := table.Rows[1]
	assert.InDelta(t, math.Pi, second.BearingRad.Value, 1e-12)
	assert.Equal(t, -10.0, second.X.Value)
	assert.Equal(t, 0.0, second.Y.Value)
}

func TestBuildObservationTable_Sentinels(t *testing.T) {
	withGust := makeWindRecord(0, 20, 100, 90)
	withGust.Set(FieldMaxGust, 9999)

	records := []RawRecord{
		makeWindRecord(0, 0, 100, 90),
		makeWindRecord(0, 10, 100, 999),
		makeWindRecord(0, 15, 9999, 90),
		withGust,
	}

	table, err := BuildObservationTable(records)
	require.NoError(t, err)
	assert.Equal(t, 3, table.Missing)

	assert.False(t, table.Rows[1].Bearing.Valid)
	assert.False(t, table.Rows[1].X.Valid)
	assert.False(t, table.Rows[2].Speed.Valid)
	assert.False(t, table.Rows[2].Y.Valid)
	assert.False(t, table.Rows[3].Fields[FieldMaxGust].Valid)
	assert.True(t, table.Rows[3].X.Valid)
}

func TestBuildObservationTable_SentinelInTimeFieldsStillDerivesTime(t *testing.T) {
	// minute 999 is not a sentinel for time derivation; it is an invalid minute
	_, err := BuildObservationTable([]RawRecord{makeWindRecord(0, 999, 100, 90)})
	var calErr *CalendarError
	require.True(t, errors.As(err, &calErr))
	assert.Equal(t, 0, calErr.Row)
}

func TestBuildObservationTable_CalendarErrorCarriesRow(t *testing.T) {
	records := []RawRecord{
		makeWindRecord(0, 0, 100, 90),
		makeWindRecord(25, 0, 100, 90),
	}
	_, err := BuildObservationTable(records)
	var calErr *CalendarError
	require.True(t, errors.As(err, &calErr))
	assert.Equal(t, 1, calErr.Row)
	assert.Equal(t, 25, calErr.Hour)
}

func TestBuildObservationTable_MissingColumn(t *testing.T) {
	rec := makeTimeRecord(23, 1, 1, 0, 0)
	rec.Set(FieldSpeed, 100)
	_, err := BuildObservationTable([]RawRecord{rec})
	assert.ErrorIs(t, err, ErrMissingColumn)
	assert.Contains(t, err.Error(), FieldBearing)
}

func TestBuildObservationTable_Empty(t *testing.T) {
	table, err := BuildObservationTable(nil)
	require.NoError(t, err)
	assert.Empty(t, table.Rows)
	assert.Empty(t, table.Columns)
}

func TestMeanIgnoringMissing(t *testing.T) {
	assert.Equal(t, Present(2), MeanIgnoringMissing([]Reading{Present(1), Missing, Present(3)}))
	assert.Equal(t, Missing, MeanIgnoringMissing([]Reading{Missing, Missing}))
	assert.Equal(t, Missing, MeanIgnoringMissing(nil))
}

func TestIsSentinel(t *testing.T) {
	assert.True(t, IsSentinel(999))
	assert.True(t, IsSentinel(9999))
	assert.False(t, IsSentinel(99))
	assert.False(t, IsSentinel(998))
	assert.False(t, ReadingFromRaw(9999).Valid)
	assert.Equal(t, Present(42), ReadingFromRaw(42))
}
