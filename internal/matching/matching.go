// Package matching pairs bank questions with analytics questions by
// normalized text similarity.
package matching

import (
	"sort"
	"strings"

	"github.com/pmezard/go-difflib/difflib"

	"github.com/abhisek/banksort/internal/analytics"
	"github.com/abhisek/banksort/internal/bank"
	"github.com/abhisek/banksort/internal/qtype"
	"github.com/abhisek/banksort/internal/textnorm"
)

// Statistics given to bank questions without an analytics counterpart.
const (
	DefaultDifficulty     = 50.0
	DefaultDiscrimination = 0.5
)

// NotFound is the report placeholder for an unmatched bank question.
const NotFound = "not found"

// Config controls matching.
type Config struct {
	// Threshold is the minimum similarity ratio, inclusive.
	Threshold float64
}

// DefaultConfig returns the standard matching configuration.
func DefaultConfig() Config {
	return Config{Threshold: 0.90}
}

// Matched is a bank question with the statistics used to categorize it.
type Matched struct {
	Bank       bank.Question       `json:"bank"`
	Analysis   *analytics.Question `json:"analysis,omitempty"`
	Similarity float64             `json:"similarity"`

	Difficulty     float64 `json:"difficulty"`     // percentage
	Discrimination float64 `json:"discrimination"` // fraction
	Type           string  `json:"type"`
	Attempts       int     `json:"attempts"`
}

// IsMatched reports whether an analytics question was found.
func (m Matched) IsMatched() bool { return m.Analysis != nil }

// ReportRow is one line of the matching report.
type ReportRow struct {
	BankID      string `json:"bank_id"`
	AnalyticsID string `json:"analytics_id"`
	// SharedWith lists the other bank questions matched to the same
	// analytics question, sorted and comma-joined.
	SharedWith string `json:"shared_with,omitempty"`
}

// Result is the outcome of Match.
type Result struct {
	Questions []Matched   `json:"questions"`
	Unmatched []string    `json:"unmatched"`
	Report    []ReportRow `json:"report"`
}

// ExtractBody returns the question text of a bank body: everything after
// the second "::" up to the first "{". Bodies with fewer than two markers
// yield "".
func ExtractBody(text string) string {
	parts := strings.Split(text, "::")
	if len(parts) < 3 {
		return ""
	}
	rest := strings.Join(parts[2:], "::")
	if i := strings.Index(rest, "{"); i >= 0 {
		rest = rest[:i]
	}
	return strings.TrimSpace(rest)
}

// Similarity is the sequence-matcher ratio of the normalized forms of a and
// b, or 0 when either normalizes to nothing.
func Similarity(a, b string) float64 {
	na, nb := textnorm.Normalize(a), textnorm.Normalize(b)
	if na == "" || nb == "" {
		return 0
	}
	return difflib.NewMatcher(runes(na), runes(nb)).Ratio()
}

// candidate is an analytics question prepared for repeated comparison.
type candidate struct {
	q *analytics.Question
	m *difflib.SequenceMatcher
}

// Match pairs every bank question with the most similar analytics sub-item.
// A pair is accepted when its ratio reaches the threshold and beats every
// earlier candidate, so ties go to the first candidate in qs. Bank questions
// are never dropped; unmatched ones carry the default statistics.
func Match(questions []bank.Question, qs []analytics.Question, cfg Config) Result {
	var cands []candidate
	for i := range qs {
		q := &qs[i]
		if q.IsMainQuestion || strings.TrimSpace(q.Title) == "" {
			continue
		}
		norm := textnorm.Normalize(q.Title)
		if norm == "" {
			continue
		}
		cands = append(cands, candidate{q: q, m: difflib.NewMatcher(nil, runes(norm))})
	}

	res := Result{
		Questions: make([]Matched, 0, len(questions)),
		Unmatched: []string{},
	}
	for _, bq := range questions {
		best, score := bestMatch(bq, cands, cfg.Threshold)
		res.Questions = append(res.Questions, resolve(bq, best, score))
		if best == nil {
			res.Unmatched = append(res.Unmatched, bq.Name)
		}
	}
	res.Report = buildReport(res.Questions)
	return res
}

func bestMatch(bq bank.Question, cands []candidate, threshold float64) (*analytics.Question, float64) {
	body := textnorm.Normalize(ExtractBody(bq.Text))
	if body == "" {
		return nil, 0
	}
	seq := runes(body)

	var best *analytics.Question
	bestScore := 0.0
	for _, c := range cands {
		c.m.SetSeq1(seq)
		// Cheap upper bounds first; a candidate that cannot reach the
		// threshold or beat the current best is skipped.
		if ub := c.m.RealQuickRatio(); ub < threshold || ub <= bestScore {
			continue
		}
		if ub := c.m.QuickRatio(); ub < threshold || ub <= bestScore {
			continue
		}
		if r := c.m.Ratio(); r >= threshold && r > bestScore {
			best, bestScore = c.q, r
		}
	}
	return best, bestScore
}

func resolve(bq bank.Question, aq *analytics.Question, score float64) Matched {
	bankType := bq.Type
	if bankType == "" {
		bankType = qtype.Default
	}
	if aq == nil {
		return Matched{
			Bank:           bq,
			Difficulty:     DefaultDifficulty,
			Discrimination: DefaultDiscrimination,
			Type:           bankType,
		}
	}
	typ := aq.Type
	if qtype.IsRandom(typ) {
		typ = bankType
	}
	return Matched{
		Bank:           bq,
		Analysis:       aq,
		Similarity:     score,
		Difficulty:     aq.DifficultyValue(),
		Discrimination: aq.DiscriminationValue(),
		Type:           typ,
		Attempts:       aq.Attempts,
	}
}

func buildReport(ms []Matched) []ReportRow {
	byAnalytics := make(map[string][]string)
	for _, m := range ms {
		if m.IsMatched() && m.Analysis.ID != "" {
			byAnalytics[m.Analysis.ID] = append(byAnalytics[m.Analysis.ID], m.Bank.Label())
		}
	}

	rows := make([]ReportRow, 0, len(ms))
	for _, m := range ms {
		row := ReportRow{BankID: m.Bank.Label(), AnalyticsID: NotFound}
		if m.IsMatched() && m.Analysis.ID != "" {
			row.AnalyticsID = m.Analysis.ID
			var others []string
			for _, id := range byAnalytics[m.Analysis.ID] {
				if id != row.BankID {
					others = append(others, id)
				}
			}
			sort.Strings(others)
			row.SharedWith = strings.Join(others, ", ")
		}
		rows = append(rows, row)
	}
	return rows
}

// runes splits s into one-rune strings, the element type the matcher
// compares.
func runes(s string) []string {
	out := make([]string, 0, len(s))
	for _, r := range s {
		out = append(out, string(r))
	}
	return out
}
