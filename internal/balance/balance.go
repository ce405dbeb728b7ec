// Package balance scores how closely a question set matches target type and
// difficulty-level distributions (the KBTB coefficient).
package balance

import (
	"math"

	"github.com/abhisek/banksort/internal/analytics"
	"github.com/abhisek/banksort/internal/categorize"
	"github.com/abhisek/banksort/internal/qtype"
	"github.com/abhisek/banksort/internal/stats"
)

// Penalty weights.
const (
	weightType   = 0.3
	weightLevel  = 0.3
	weightRework = 0.2
	weightCount  = 0.2
)

// Labels.
const (
	LabelExcellent   = "excellent"
	LabelGood        = "good"
	LabelImbalanced  = "imbalanced"
	LabelNeedsRework = "needs rework"
	LabelNoData      = "no data"
)

// Targets are percentages; each group is normalized to sum to 1 before use.
type Targets struct {
	Open   float64 `json:"open"`
	Closed float64 `json:"closed"`
	Easy   float64 `json:"easy"`
	Medium float64 `json:"medium"`
	Hard   float64 `json:"hard"`
	// MinQuestions is the question-count floor; 0 disables the penalty.
	MinQuestions int `json:"min_questions"`
}

// DefaultTargets returns 40/60 open/closed and 30/50/20 easy/medium/hard.
func DefaultTargets() Targets {
	return Targets{Open: 40, Closed: 60, Easy: 30, Medium: 50, Hard: 20}
}

// Shares are proportions in [0,1].
type Shares struct {
	Open   float64 `json:"open"`
	Closed float64 `json:"closed"`
	Easy   float64 `json:"easy"`
	Medium float64 `json:"medium"`
	Hard   float64 `json:"hard"`
}

// normalized turns target percentages into shares. A group whose sum is not
// positive falls back to the default split.
func (t Targets) normalized() Shares {
	var s Shares
	if sum := t.Open + t.Closed; sum > 0 {
		s.Open, s.Closed = t.Open/sum, t.Closed/sum
	} else {
		s.Open, s.Closed = 0.4, 0.6
	}
	if sum := t.Easy + t.Medium + t.Hard; sum > 0 {
		s.Easy, s.Medium, s.Hard = t.Easy/sum, t.Medium/sum, t.Hard/sum
	} else {
		s.Easy, s.Medium, s.Hard = 0.3, 0.5, 0.2
	}
	return s
}

// Breakdown counts a question set by dimension. Open/Closed and the three
// levels count the non-revision questions only.
type Breakdown struct {
	N      int `json:"n"`
	Rework int `json:"rework"`
	Open   int `json:"open"`
	Closed int `json:"closed"`
	Easy   int `json:"easy"`
	Medium int `json:"medium"`
	Hard   int `json:"hard"`
}

// Result is a scored question set.
type Result struct {
	KBTB  float64 `json:"kbtb"`
	Label string  `json:"label"`

	DType   float64 `json:"d_type"`
	DLevel  float64 `json:"d_level"`
	PRework float64 `json:"p_rework"`
	PCount  float64 `json:"p_count"`

	Actual Shares `json:"actual"`
	Target Shares `json:"target"`

	ReworkRatio float64   `json:"rework_ratio"`
	Breakdown   Breakdown `json:"breakdown"`
}

// Config selects the revision rules and level boundaries used by Compute.
type Config struct {
	DiscriminationFloor float64
	EasiestShare        float64
	EasyLevel           float64
	HardLevel           float64
}

// DefaultConfig mirrors the categorization defaults.
func DefaultConfig() Config {
	c := categorize.DefaultConfig()
	return Config{
		DiscriminationFloor: c.DiscriminationFloor,
		EasiestShare:        c.EasiestShare,
		EasyLevel:           stats.EasyLevel,
		HardLevel:           stats.HardLevel,
	}
}

// Compute scores the sub-items of qs. The revision set uses the
// discrimination floor and the easiest-share rule over the whole set.
func Compute(qs []analytics.Question, t Targets, cfg Config) Result {
	return Score(Tally(qs, cfg), t)
}

// Tally counts the sub-items of qs into a Breakdown.
func Tally(qs []analytics.Question, cfg Config) Breakdown {
	subs := analytics.SubItems(qs)
	b := Breakdown{N: len(subs)}

	rework := make(map[int]bool)
	diffs := make([]float64, len(subs))
	for i, q := range subs {
		diffs[i] = q.DifficultyValue()
		if q.DiscriminationValue() < cfg.DiscriminationFloor {
			rework[i] = true
		}
	}
	for _, i := range categorize.EasiestIndexes(diffs, cfg.EasiestShare) {
		rework[i] = true
	}
	b.Rework = len(rework)

	for i, q := range subs {
		if rework[i] {
			continue
		}
		if qtype.IsOpen(q.Type) {
			b.Open++
		} else {
			b.Closed++
		}
		switch d := diffs[i]; {
		case d >= cfg.EasyLevel:
			b.Easy++
		case d >= cfg.HardLevel:
			b.Medium++
		default:
			b.Hard++
		}
	}
	return b
}

// Score computes the coefficient from a breakdown.
func Score(b Breakdown, t Targets) Result {
	target := t.normalized()
	res := Result{Target: target, Breakdown: b}

	if b.N == 0 {
		res.Label = LabelNoData
		if t.MinQuestions > 0 {
			res.PCount = 1
		}
		return res
	}

	actual := Shares{Open: 0.5, Closed: 0.5, Easy: target.Easy, Medium: target.Medium, Hard: target.Hard}
	if kept := b.N - b.Rework; kept > 0 {
		n := float64(kept)
		actual.Open = float64(b.Open) / n
		actual.Closed = 1 - actual.Open
		actual.Easy = float64(b.Easy) / n
		actual.Medium = float64(b.Medium) / n
		actual.Hard = float64(b.Hard) / n
	}
	res.Actual = actual

	res.DType = 0.5 * (math.Abs(actual.Open-target.Open) + math.Abs(actual.Closed-target.Closed))
	res.DLevel = 0.5 * (math.Abs(actual.Easy-target.Easy) +
		math.Abs(actual.Medium-target.Medium) +
		math.Abs(actual.Hard-target.Hard))

	res.ReworkRatio = float64(b.Rework) / float64(b.N)
	res.PRework = 1 - math.Exp(-3*res.ReworkRatio)

	if t.MinQuestions > 0 && b.N < t.MinQuestions {
		res.PCount = 1 - float64(b.N)/float64(t.MinQuestions)
	}

	k := 1 - weightType*res.DType - weightLevel*res.DLevel - weightRework*res.PRework - weightCount*res.PCount
	res.KBTB = clamp01(k)
	res.Label = label(res.KBTB)
	return res
}

func label(k float64) string {
	switch {
	case k >= 0.85:
		return LabelExcellent
	case k >= 0.70:
		return LabelGood
	case k >= 0.50:
		return LabelImbalanced
	default:
		return LabelNeedsRework
	}
}

func clamp01(v float64) float64 {
	return math.Max(0, math.Min(1, v))
}
