// Package energy holds the pure range and charging arithmetic used by the
// planner. Nothing here performs I/O; every function is deterministic in
// its inputs.
package energy

import "math"

// Optimal battery temperature band and decay coefficients.
const (
	optimalTempMinC = 18.0
	optimalTempMaxC = 22.0
	alphaCold       = 0.015
	alphaHot        = 0.01
	betaExponent    = 1.5
)

// TemperatureWeight returns the range multiplier for an ambient temperature.
// Inside the optimal band the weight is exactly 1.0; outside it decays as
// 1/(1+alpha*deviation^1.5), with a steeper alpha below the band than above
// it. The result is in (0, 1] and strictly decreases with band deviation.
func TemperatureWeight(tempC float64) float64 {
	if tempC >= optimalTempMinC && tempC <= optimalTempMaxC {
		return 1.0
	}

	var deviation, alpha float64
	if tempC < optimalTempMinC {
		deviation = optimalTempMinC - tempC
		alpha = alphaCold
	} else {
		deviation = tempC - optimalTempMaxC
		alpha = alphaHot
	}

	return 1.0 / (1.0 + alpha*math.Pow(deviation, betaExponent))
}
