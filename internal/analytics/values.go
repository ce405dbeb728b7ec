package analytics

import (
	"strconv"
	"strings"

	"github.com/abhisek/banksort/internal/textnorm"
)

// zeroValue is what empty metric cells become.
const zeroValue = "0"

// fullCredit is the partial-credit percentage at which an answer counts as
// correct.
const fullCredit = 99.9

// CleanPercentage normalizes a percentage-like cell: "84,21 %" -> "84.21".
func CleanPercentage(v string) string {
	v = strings.TrimSpace(textnorm.Fold(v))
	if v == "" {
		return zeroValue
	}
	v = strings.ReplaceAll(v, ",", ".")
	v = strings.ReplaceAll(v, "%", "")
	v = strings.TrimSpace(v)
	if v == "" {
		return zeroValue
	}
	return v
}

// ParseCount parses an integer count cell such as "1 204" or "37,0".
// Unparseable input yields 0.
func ParseCount(v string) int {
	v = strings.ReplaceAll(textnorm.Fold(v), " ", "")
	v = strings.ReplaceAll(v, ",", ".")
	if v == "" {
		return 0
	}
	if n, err := strconv.Atoi(v); err == nil {
		return n
	}
	f, err := strconv.ParseFloat(v, 64)
	if err != nil {
		return 0
	}
	return int(f)
}

// ParseMetric parses a cleaned or raw metric cell, returning 0 when the
// value is not numeric.
func ParseMetric(v string) float64 {
	f, err := strconv.ParseFloat(CleanPercentage(v), 64)
	if err != nil {
		return 0
	}
	return f
}

// DominantWrongAnswer returns the index of the most frequently chosen answer
// that did not earn full credit, or -1 when every answer is correct. The
// earliest listed answer wins ties.
func DominantWrongAnswer(answers []Answer) int {
	best := -1
	for i, a := range answers {
		if ParseMetric(a.PartialCredit) >= fullCredit {
			continue
		}
		if best == -1 || a.Count > answers[best].Count {
			best = i
		}
	}
	return best
}
