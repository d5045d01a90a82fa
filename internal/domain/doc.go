// Package domain models fixed-width meteorological station exports and the
// hourly wind summary derived from them.
//
// # Station File Layout
//
// Station exports are plain text, one observation per line:
//
//	line 1-2  free-form header (station name, period), kept as metadata
//	line 3    column-name line, e.g. "SS mm DD mj GG ssbr PRS mxbr MXS"
//	line 4+   fixed-width data records
//
// Field offsets are not configured. Each configured field name is located
// literally inside the column-name line and its string index becomes the
// offset of that field in every data line. A configured field whose name is
// absent from the column-name line is dropped from the file's schema; see
// [BuildSchema].
//
// # Field Conventions
//
//	SS    hour slot (0-24, where 24 means 00 of the next day)
//	mm    minute
//	DD    day of month
//	mj    month
//	GG    two-digit year, offset by 2000
//	ssbr  wind speed in tenths of the physical unit (0100 = 10.0)
//	PRS   wind bearing, compass degrees (0 = north, clockwise)
//	mxbr  maximum gust, tenths
//	MXS   bearing of the maximum gust
//
// Unknown values:
//
//	999 and 9999 are the sensor sentinels for "data unavailable" in any
//	column. They are replaced with a missing [Reading] before any arithmetic.
//
// # Wind Averaging
//
// Bearings wrap at 360, so averaging them directly is wrong (359 and 1 would
// average to 180). Each observation is decomposed into Cartesian components
//
//	theta = radians((90 - bearing) mod 360)
//	x = round(cos(theta) * speed, 1)
//	y = round(sin(theta) * speed, 1)
//
// the components are averaged per 60-minute bucket, and bearing and speed are
// recomposed from the mean vector with the inverse conversion. The recomposed
// speed is the resultant magnitude, which shrinks under directional spread.
// Rounding is half-to-even at one decimal place at every stage listed above.
package domain
