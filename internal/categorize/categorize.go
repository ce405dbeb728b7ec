package categorize

import (
	"github.com/abhisek/banksort/internal/bank"
	"github.com/abhisek/banksort/internal/matching"
	"github.com/abhisek/banksort/internal/qtype"
)

// Classify places one question given precomputed batch statistics. Every
// applicable revision reason is reported; any reason at all wins over the
// difficulty split.
func Classify(m matching.Matched, s BatchStats, cfg Config) Item {
	item := Item{Matched: m}
	for _, r := range DefaultRules() {
		if r.Applies(m, s, cfg) {
			item.Reasons = append(item.Reasons, r.Reason())
		}
	}

	open := qtype.IsOpen(m.Type)
	switch {
	case len(item.Reasons) > 0:
		item.Bucket = Revision
	case m.Difficulty >= cfg.EasyThreshold && open:
		item.Bucket = EasyOpen
	case m.Difficulty >= cfg.EasyThreshold:
		item.Bucket = EasyClosed
	case open:
		item.Bucket = MediumHardOpen
	default:
		item.Bucket = MediumHardClosed
	}
	return item
}

// Categorize partitions ms into buckets.
func Categorize(ms []matching.Matched, cfg Config) Result {
	s := ComputeBatchStats(ms, cfg)

	res := Result{
		Items:         make([]Item, 0, len(ms)),
		Buckets:       make(map[Bucket][]Item, len(Order)),
		Easiest:       []string{},
		LowAttempts:   []string{},
		AttemptsFloor: s.AttemptsFloor,
	}
	for _, b := range Order {
		res.Buckets[b] = []Item{}
	}

	diffs := make([]float64, len(ms))
	for i, m := range ms {
		diffs[i] = m.Difficulty
	}
	for _, i := range EasiestIndexes(diffs, cfg.EasiestShare) {
		res.Easiest = append(res.Easiest, ms[i].Bank.Name)
	}

	for _, m := range ms {
		item := Classify(m, s, cfg)
		res.Items = append(res.Items, item)
		res.Buckets[item.Bucket] = append(res.Buckets[item.Bucket], item)
		for _, r := range item.Reasons {
			if r == ReasonLowAttempts {
				res.LowAttempts = append(res.LowAttempts, m.Bank.Name)
			}
		}
	}
	return res
}

// Sections lists the buckets in output order for the bank generator.
func (r Result) Sections() []bank.Section {
	out := make([]bank.Section, 0, len(Order))
	for _, b := range Order {
		sec := bank.Section{Name: b.Title()}
		for _, item := range r.Buckets[b] {
			sec.Questions = append(sec.Questions, item.Bank)
		}
		out = append(out, sec)
	}
	return out
}
