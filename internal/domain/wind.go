package domain

import "math"

// mod360 is the floored modulus, always in [0, 360).
func mod360(deg float64) float64 {
	m := math.Mod(deg, 360)
	if m < 0 {
		m += 360
	}
	return m
}

// CompassToMath converts a compass bearing (0 = north, clockwise) to a
// math-convention angle (0 = +x axis, counter-clockwise), in degrees.
func CompassToMath(bearing float64) float64 {
	return mod360(90 - bearing)
}

// MathToCompass is the inverse of CompassToMath. The conversion is its own
// inverse.
func MathToCompass(deg float64) float64 {
	return mod360(90 - deg)
}

// Components decomposes a compass bearing and speed into Cartesian x/y
// components, each rounded to one decimal. Either input missing yields
// missing components.
func Components(bearing, speed Reading) (x, y Reading) {
	if !bearing.Valid || !speed.Valid {
		return Missing, Missing
	}
	theta := CompassToMath(bearing.Value) * math.Pi / 180
	return Present(Round1(math.Cos(theta) * speed.Value)),
		Present(Round1(math.Sin(theta) * speed.Value))
}

// Recompose converts mean x/y components back into a compass bearing rounded
// to a whole degree in [0, 360] and a speed rounded to one decimal. The bearing is
// missing when the vector is missing or its magnitude rounds to zero, since
// a zero vector has no direction.
func Recompose(x, y Reading) (bearing, speed Reading) {
	if !x.Valid || !y.Valid {
		return Missing, Missing
	}
	s := Round1(math.Sqrt(x.Value*x.Value + y.Value*y.Value))
	if s == 0 {
		return Missing, Present(0)
	}
	deg := math.Atan2(y.Value, x.Value) * 180 / math.Pi
	// Rounding happens after the wrap, so just west of north reads 360.
	b := math.RoundToEven(MathToCompass(deg))
	return Present(b), Present(s)
}
