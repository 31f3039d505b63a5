// Package stats aggregates per-match metrics across a player's history:
// winsorized means, linear rating trends, and trend classification.
package stats

import "sort"

// Trend labels the direction of a metric across recent matches.
type Trend string

const (
	TrendImproving Trend = "improving"
	TrendWorsening Trend = "worsening"
	TrendStable    Trend = "stable"
)

// WinsorizedMean trims 10% of the sorted values from each tail before
// averaging, damping single-outlier distortion. Below 3 samples there is
// nothing meaningful to trim and the plain mean is returned.
func WinsorizedMean(values []float64) float64 {
	n := len(values)
	if n == 0 {
		return 0
	}
	if n < 3 {
		return Mean(values)
	}

	sorted := append([]float64(nil), values...)
	sort.Float64s(sorted)

	trim := int(float64(n) * 0.1)
	if trim < 1 {
		trim = 1
	}
	return Mean(sorted[trim : n-trim])
}

// Mean is the plain arithmetic mean; zero for an empty slice.
func Mean(values []float64) float64 {
	if len(values) == 0 {
		return 0
	}
	var sum float64
	for _, v := range values {
		sum += v
	}
	return sum / float64(len(values))
}

// Slope fits a simple least-squares line over (index, value) pairs and
// returns its slope in value units per sample. Zero for fewer than 2 samples.
func Slope(values []float64) float64 {
	n := float64(len(values))
	if n < 2 {
		return 0
	}

	var sumX, sumY, sumXY, sumXX float64
	for i, y := range values {
		x := float64(i)
		sumX += x
		sumY += y
		sumXY += x * y
		sumXX += x * x
	}
	denom := n*sumXX - sumX*sumX
	if denom == 0 {
		return 0
	}
	return (n*sumXY - sumX*sumY) / denom
}

// ClassifyAgeUpTrend compares the mean of the most recent window of age-up
// times against the mean of the preceding window. Lower is better; only a
// difference beyond the threshold (seconds) flips the label off stable.
// Values must be ordered oldest first.
func ClassifyAgeUpTrend(values []float64, window int, thresholdSecs float64) Trend {
	if window <= 0 || len(values) < 2*window {
		return TrendStable
	}
	recent := Mean(values[len(values)-window:])
	previous := Mean(values[len(values)-2*window : len(values)-window])
	diff := recent - previous
	switch {
	case diff < -thresholdSecs:
		return TrendImproving
	case diff > thresholdSecs:
		return TrendWorsening
	default:
		return TrendStable
	}
}

// ClassifyRatingTrend classifies a rating series by its least-squares slope.
// Higher is better; slopes within the threshold (points per game) are stable.
// Values must be ordered oldest first.
func ClassifyRatingTrend(values []float64, window int, threshold float64) Trend {
	if window > 0 && len(values) > window {
		values = values[len(values)-window:]
	}
	slope := Slope(values)
	switch {
	case slope > threshold:
		return TrendImproving
	case slope < -threshold:
		return TrendWorsening
	default:
		return TrendStable
	}
}
