package categorize

import (
	"math"
	"sort"

	"github.com/abhisek/banksort/internal/matching"
	"github.com/abhisek/banksort/internal/stats"
)

// BatchStats are the batch-wide inputs of the revision rules. They must be
// computed once over the whole matched set before any question is
// classified.
type BatchStats struct {
	Easiest       map[string]bool
	AttemptsFloor float64
}

// ComputeBatchStats derives the easiest set and the attempts floor of ms.
func ComputeBatchStats(ms []matching.Matched, cfg Config) BatchStats {
	diffs := make([]float64, len(ms))
	for i, m := range ms {
		diffs[i] = m.Difficulty
	}
	easiest := make(map[string]bool)
	for _, i := range EasiestIndexes(diffs, cfg.EasiestShare) {
		easiest[ms[i].Bank.Name] = true
	}

	var attempts []float64
	for _, m := range ms {
		if m.IsMatched() && m.Attempts > 0 {
			attempts = append(attempts, float64(m.Attempts))
		}
	}
	return BatchStats{Easiest: easiest, AttemptsFloor: AttemptsFloor(attempts, cfg.MinAttemptsFloor)}
}

// EasiestIndexes returns the indexes of the ceil(share*n) highest
// difficulties, highest first. Equal difficulties keep input order.
func EasiestIndexes(difficulties []float64, share float64) []int {
	n := len(difficulties)
	k := int(math.Ceil(float64(n)*share - 1e-9))
	if k > n {
		k = n
	}
	if k <= 0 {
		return nil
	}
	idx := make([]int, n)
	for i := range idx {
		idx[i] = i
	}
	sort.SliceStable(idx, func(a, b int) bool {
		return difficulties[idx[a]] > difficulties[idx[b]]
	})
	return idx[:k]
}

// AttemptsFloor is max(floor, lower quartile of attempts).
func AttemptsFloor(attempts []float64, floor float64) float64 {
	if len(attempts) == 0 {
		return floor
	}
	return math.Max(floor, stats.Percentile(attempts, 25))
}

// RevisionRule flags a question for revision.
type RevisionRule interface {
	Reason() Reason
	Applies(m matching.Matched, s BatchStats, cfg Config) bool
}

// DefaultRules returns the revision rules in reporting order.
func DefaultRules() []RevisionRule {
	return []RevisionRule{
		lowDiscrimination{},
		easiest{},
		lowAttempts{},
	}
}

type lowDiscrimination struct{}

func (lowDiscrimination) Reason() Reason { return ReasonLowDiscrimination }

func (lowDiscrimination) Applies(m matching.Matched, _ BatchStats, cfg Config) bool {
	return m.Discrimination < cfg.DiscriminationFloor
}

type easiest struct{}

func (easiest) Reason() Reason { return ReasonEasiest }

func (easiest) Applies(m matching.Matched, s BatchStats, _ Config) bool {
	return s.Easiest[m.Bank.Name]
}

// lowAttempts only judges questions with real statistics; defaults carry
// zero attempts by construction.
type lowAttempts struct{}

func (lowAttempts) Reason() Reason { return ReasonLowAttempts }

func (lowAttempts) Applies(m matching.Matched, s BatchStats, _ Config) bool {
	return m.IsMatched() && float64(m.Attempts) < s.AttemptsFloor
}
