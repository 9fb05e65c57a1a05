package heuristics

import (
	"math"
	"regexp"
	"strconv"
	"strings"
)

// DefaultMood is used when no mood score can be extracted.
const DefaultMood = 7.5

const (
	minMood = 0.0
	maxMood = 10.0
)

var moodNumber = regexp.MustCompile(`\d+\.?\d*`)

// ParseMood extracts the first integer or decimal number from a mood
// evaluation such as "8.5", "(7, 'happy')" or "score: 6". Values are clamped
// to [0, 10]. ok is false when no number is present.
func ParseMood(evaluation string) (score float64, ok bool) {
	m := moodNumber.FindString(evaluation)
	if m == "" {
		return 0, false
	}
	v, err := strconv.ParseFloat(strings.TrimSuffix(m, "."), 64)
	if err != nil {
		return 0, false
	}
	return math.Min(maxMood, math.Max(minMood, v)), true
}

// MoodOrDefault returns ParseMood's score or DefaultMood.
func MoodOrDefault(evaluation string) float64 {
	if v, ok := ParseMood(evaluation); ok {
		return v
	}
	return DefaultMood
}

// Round1 rounds half up to one decimal place.
func Round1(v float64) float64 {
	return math.Floor(v*10+0.5) / 10
}
