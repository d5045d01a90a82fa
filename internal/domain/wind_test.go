package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCompassMathRoundTrip(t *testing.T) {
	for _, b := range []float64{0, 90, 180, 270, 37, 284} {
		assert.Equal(t, b, CompassToMath(MathToCompass(b)), "bearing %v", b)
		assert.Equal(t, b, MathToCompass(CompassToMath(b)), "bearing %v", b)
	}
}

func TestCompassToMath(t *testing.T) {
	tests := []struct {
		bearing  float64
		expected float64
	}{
		{0, 90},
		{90, 0},
		{180, 270},
		{270, 180},
		{360, 90},
		{45, 45},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.expected, CompassToMath(tt.bearing), "bearing %v", tt.bearing)
	}
}

func TestComponents(t *testing.T) {
	tests := []struct {
		name    string
		bearing float64
		speed   float64
		x, y    float64
	}{
		{"east", 90, 10, 10, 0},
		{"west", 270, 10, -10, 0},
		{"north", 0, 5, 0, 5},
		{"south", 180, 5, 0, -5},
		{"north-east", 45, 10, 7.1, 7.1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			x, y := Components(Present(tt.bearing), Present(tt.speed))
			assert.True(t, x.Valid)
			assert.True(t, y.Valid)
			assert.InDelta(t, tt.x, x.Value, 1e-9)
			assert.InDelta(t, tt.y, y.Value, 1e-9)
		})
	}

	t.Run("missing input", func(t *testing.T) {
		x, y := Components(Missing, Present(10))
		assert.False(t, x.Valid)
		assert.False(t, y.Valid)
		x, y = Components(Present(90), Missing)
		assert.False(t, x.Valid)
		assert.False(t, y.Valid)
	})
}

func TestRecompose(t *testing.T) {
	tests := []struct {
		name    string
		x, y    float64
		bearing float64
		speed   float64
	}{
		{"east", 10, 0, 90, 10},
		{"south", 0, -5, 180, 5},
		{"south-west", -3, -3, 225, 4.2},
		{"just east of north", 0.1, 10, 1, 10},
		{"rounds up to 360", -0.1, 20, 360, 20},
		{"exactly north", 0, 20, 0, 20},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			b, s := Recompose(Present(tt.x), Present(tt.y))
			assert.True(t, b.Valid)
			assert.Equal(t, tt.bearing, b.Value)
			assert.InDelta(t, tt.speed, s.Value, 1e-9)
		})
	}

	t.Run("zero vector has no bearing", func(t *testing.T) {
		b, s := Recompose(Present(0), Present(0))
		assert.False(t, b.Valid)
		assert.True(t, s.Valid)
		assert.Equal(t, 0.0, s.Value)
	})

	t.Run("missing component", func(t *testing.T) {
		b, s := Recompose(Missing, Present(1))
		assert.False(t, b.Valid)
		assert.False(t, s.Valid)
	})
}

func TestComponentsRecomposeRoundTrip(t *testing.T) {
	for _, bearing := range []float64{0, 37, 90, 180, 270, 284} {
		x, y := Components(Present(bearing), Present(20))
		b, s := Recompose(x, y)
		assert.Equal(t, bearing, b.Value, "bearing %v", bearing)
		assert.InDelta(t, 20.0, s.Value, 0.1)
	}
}

func TestRound1(t *testing.T) {
	assert.Equal(t, 0.2, Round1(0.25))
	assert.Equal(t, 0.4, Round1(0.35))
	assert.Equal(t, -7.1, Round1(-7.0710678))
	assert.Equal(t, 10.0, Round1(10))
}
