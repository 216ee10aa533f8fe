package analysis

import (
	"math"
	"strconv"
)

// PercentageLevel classifies a percentage for narrative generation.
type PercentageLevel string

const (
	LevelHigh   PercentageLevel = "high"
	LevelMedium PercentageLevel = "medium"
	LevelLow    PercentageLevel = "low"
)

// RatingLevel classifies an average rating for narrative generation.
type RatingLevel string

const (
	RatingExcellent RatingLevel = "excellent"
	RatingGood      RatingLevel = "good"
	RatingFair      RatingLevel = "fair"
	RatingPoor      RatingLevel = "poor"
)

// ClassifyPercentage maps a percentage to its interpretation level. The
// thresholds are a contract relied on by downstream narrative generation.
func ClassifyPercentage(percentage float64) PercentageLevel {
	switch {
	case percentage >= 70:
		return LevelHigh
	case percentage >= 40:
		return LevelMedium
	default:
		return LevelLow
	}
}

// ClassifyRating maps an average rating to its interpretation level.
func ClassifyRating(average float64) RatingLevel {
	switch {
	case average >= 4.5:
		return RatingExcellent
	case average >= 3.5:
		return RatingGood
	case average >= 2.5:
		return RatingFair
	default:
		return RatingPoor
	}
}

// FormatPercentage renders a percentage rounded to 1 decimal place, without
// trailing zeroes ("40%", "66.7%"). Reports and prompts interpolate this
// form directly.
func FormatPercentage(value float64) string {
	rounded := round1(value)
	return strconv.FormatFloat(rounded, 'f', -1, 64) + "%"
}

// FormatNumber renders a number with a fixed count of decimals.
func FormatNumber(value float64, decimals int) string {
	return strconv.FormatFloat(value, 'f', decimals, 64)
}

func round1(v float64) float64 {
	return math.Round(v*10) / 10
}
