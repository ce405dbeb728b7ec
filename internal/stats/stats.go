// Package stats computes descriptive statistics over analytics questions.
package stats

import (
	"math"
	"sort"

	"github.com/abhisek/banksort/internal/analytics"
	"github.com/abhisek/banksort/internal/qtype"
)

// Level boundaries on the difficulty percentage.
const (
	EasyLevel = 70.0
	HardLevel = 40.0
)

// Reliability floor for attempt counts.
const MinReliableAttempts = 30

// LowDiscriminationFloor is on the fraction scale.
const LowDiscriminationFloor = 0.3

const previewRunes = 150

// Balance labels.
const (
	BalanceBalanced     = "balanced"
	BalanceSkewedEasy   = "skewed-easy"
	BalanceSkewedHard   = "skewed-hard"
	BalanceImbalanced   = "imbalanced"
	BalanceInsufficient = "insufficient data"
)

// Flagged is a question listed in a summary.
type Flagged struct {
	ID             string  `json:"id"`
	DisplayID      string  `json:"display_id"`
	Type           string  `json:"type,omitempty"`
	Difficulty     float64 `json:"difficulty"`
	Discrimination float64 `json:"discrimination"`
	Attempts       int     `json:"attempts,omitempty"`
	Title          string  `json:"title,omitempty"`
}

// Summary describes the difficulty distribution of a question set.
type Summary struct {
	Total  int `json:"total"`
	Easy   int `json:"easy"`
	Medium int `json:"medium"`
	Hard   int `json:"hard"`

	EasyPercent   float64 `json:"easy_percent"`
	MediumPercent float64 `json:"medium_percent"`
	HardPercent   float64 `json:"hard_percent"`

	MeanDifficulty     float64 `json:"mean_difficulty"`
	MeanDiscrimination float64 `json:"mean_discrimination"`

	Types             map[string]int `json:"types"`
	LowDiscrimination []Flagged      `json:"low_discrimination"`
	LowAttempts       []Flagged      `json:"low_attempts"`
	Balance           string         `json:"balance"`
}

// Level classifies a difficulty percentage.
func Level(difficulty float64) string {
	switch {
	case difficulty >= EasyLevel:
		return "easy"
	case difficulty >= HardLevel:
		return "medium"
	default:
		return "hard"
	}
}

// Summarize computes the summary over the sub-items of qs.
func Summarize(qs []analytics.Question) Summary {
	s := Summary{Types: map[string]int{}, LowDiscrimination: []Flagged{}, LowAttempts: []Flagged{}}
	var sumDiff, sumDisc float64
	for _, q := range analytics.SubItems(qs) {
		s.Total++
		d, disc := q.DifficultyValue(), q.DiscriminationValue()
		sumDiff += d
		sumDisc += disc

		switch Level(d) {
		case "easy":
			s.Easy++
		case "medium":
			s.Medium++
		default:
			s.Hard++
		}
		if !qtype.IsRandom(q.Type) {
			s.Types[q.Type]++
		}
		if disc < LowDiscriminationFloor {
			s.LowDiscrimination = append(s.LowDiscrimination, Flagged{
				ID:             q.ID,
				DisplayID:      q.Label(),
				Type:           q.Type,
				Difficulty:     d,
				Discrimination: disc,
				Title:          preview(q.Title),
			})
		}
		if q.Attempts > 0 && q.Attempts < MinReliableAttempts {
			s.LowAttempts = append(s.LowAttempts, Flagged{
				ID:             q.ID,
				DisplayID:      q.Label(),
				Difficulty:     d,
				Discrimination: disc,
				Attempts:       q.Attempts,
			})
		}
	}
	if s.Total == 0 {
		s.Balance = BalanceInsufficient
		return s
	}
	n := float64(s.Total)
	s.EasyPercent = float64(s.Easy) / n * 100
	s.MediumPercent = float64(s.Medium) / n * 100
	s.HardPercent = float64(s.Hard) / n * 100
	s.MeanDifficulty = sumDiff / n
	s.MeanDiscrimination = sumDisc / n
	s.Balance = balance(s.EasyPercent, s.MediumPercent, s.HardPercent)
	return s
}

func balance(easy, medium, hard float64) string {
	switch {
	case medium >= 40:
		return BalanceBalanced
	case easy > 50:
		return BalanceSkewedEasy
	case hard > 50:
		return BalanceSkewedHard
	default:
		return BalanceImbalanced
	}
}

func preview(title string) string {
	r := []rune(title)
	if len(r) <= previewRunes {
		return title
	}
	return string(r[:previewRunes]) + "..."
}

// Percentile returns the p-th percentile of xs with linear interpolation
// between closest ranks. xs is not modified. An empty input yields NaN.
func Percentile(xs []float64, p float64) float64 {
	if len(xs) == 0 {
		return math.NaN()
	}
	sorted := append([]float64(nil), xs...)
	sort.Float64s(sorted)
	pos := p / 100 * float64(len(sorted)-1)
	lo := int(math.Floor(pos))
	hi := int(math.Ceil(pos))
	if lo < 0 {
		return sorted[0]
	}
	if hi >= len(sorted) {
		return sorted[len(sorted)-1]
	}
	frac := pos - float64(lo)
	return sorted[lo] + frac*(sorted[hi]-sorted[lo])
}
