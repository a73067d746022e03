// Package stats contains typing result calculations and reporting.
package stats

import (
	"math"
	"strings"
	"time"
)

const (
	sparkChars = " .:-=+*#%@"
	// charsPerWord is the usual normalization for words-per-minute.
	charsPerWord = 5.0
)

// Result captures a finished typing round.
type Result struct {
	Elapsed  time.Duration
	WPM      float64
	CPM      float64
	Mistakes int
	Words    int
	// Accuracy is a percentage in [0, 100].
	Accuracy float64
}

// NewResult derives a Result from the target length, mistakes and elapsed time.
func NewResult(chars, mistakes, words int, elapsed time.Duration) Result {
	wpm, cpm := Rates(chars, elapsed)
	return Result{
		Elapsed:  elapsed,
		WPM:      wpm,
		CPM:      cpm,
		Mistakes: mistakes,
		Words:    words,
		Accuracy: Accuracy(mistakes, chars),
	}
}

// Passes reports whether the result meets the minimum accuracy. A nil
// minimum always passes.
func (r Result) Passes(minAccuracy *float64) bool {
	if minAccuracy == nil {
		return true
	}
	return r.Accuracy >= *minAccuracy
}

// Accuracy returns 100 - 100*mistakes/chars clamped to [0, 100].
func Accuracy(mistakes, chars int) float64 {
	if chars <= 0 {
		if mistakes > 0 {
			return 0
		}
		return 100
	}
	acc := 100 - float64(mistakes)/float64(chars)*100
	return math.Max(0, math.Min(100, acc))
}

// Rates computes words and characters per minute for chars typed over elapsed.
func Rates(chars int, elapsed time.Duration) (wpm, cpm float64) {
	seconds := elapsed.Seconds()
	if seconds <= 0 {
		return 0, 0
	}
	cpm = float64(chars) * (60.0 / seconds)
	wpm = cpm / charsPerWord
	return wpm, cpm
}

// Sparkline renders a single-line ASCII sparkline for the values.
func Sparkline(values []float64) string {
	if len(values) == 0 {
		return ""
	}
	minVal := values[0]
	maxVal := values[0]
	for _, v := range values[1:] {
		minVal = math.Min(minVal, v)
		maxVal = math.Max(maxVal, v)
	}
	if math.Abs(maxVal-minVal) < 1e-9 {
		return strings.Repeat(string(sparkChars[len(sparkChars)/2]), len(values))
	}
	var b strings.Builder
	for _, v := range values {
		pos := (v - minVal) / (maxVal - minVal)
		idx := int(math.Round(pos * float64(len(sparkChars)-1)))
		idx = max(0, min(idx, len(sparkChars)-1))
		b.WriteByte(sparkChars[idx])
	}
	return b.String()
}
