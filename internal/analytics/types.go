// Package analytics parses exported question statistics into canonical
// Question and Answer records. Two physical encodings are supported: the
// nested-table markup report and flat tabular rows.
package analytics

import "strings"

// Format identifies the encoding an export was read from.
type Format string

const (
	FormatMarkup Format = "markup"
	FormatFlat   Format = "flat"
)

// Answer is one row of a question's answer-statistics table.
type Answer struct {
	Part          string `json:"part,omitempty"`
	ModelAnswer   string `json:"model_answer"`
	ActualAnswer  string `json:"actual_answer"`
	PartialCredit string `json:"partial_credit"` // percentage, >= 99.9 is fully correct
	Count         int    `json:"count"`
	Frequency     string `json:"frequency"`
}

// Question is one row of the question-statistics table.
//
// Metric fields keep the cleaned source text ("84.21") rather than a parsed
// number so identity signatures see exactly what the export carried.
type Question struct {
	ID              string   `json:"id"`
	Type            string   `json:"type"`
	Title           string   `json:"title"`
	Attempts        int      `json:"attempts"`
	Difficulty      string   `json:"difficulty"`
	Discrimination  string   `json:"discrimination"`
	Efficiency      string   `json:"efficiency"`
	Weight          string   `json:"weight"`
	EffectiveWeight string   `json:"effective_weight"`
	StdDev          string   `json:"std_dev"`
	GuessProb       string   `json:"guess_prob"`
	Answers         []Answer `json:"answers"`
	IsMainQuestion  bool     `json:"is_main_question"`
	DuplicateIDs    []string `json:"duplicate_ids,omitempty"`
	DisplayID       string   `json:"display_id,omitempty"`
}

// IsSubItem reports whether id marks a gradable sub-item ("1.1") rather than
// a structural row ("1").
func IsSubItem(id string) bool {
	return strings.Contains(id, ".")
}

// SubItems returns the gradable questions of qs, preserving order.
func SubItems(qs []Question) []Question {
	out := make([]Question, 0, len(qs))
	for _, q := range qs {
		if !q.IsMainQuestion {
			out = append(out, q)
		}
	}
	return out
}

// Label returns DisplayID when deduplication set one, otherwise ID.
func (q Question) Label() string {
	if q.DisplayID != "" {
		return q.DisplayID
	}
	return q.ID
}

// DifficultyValue is the facility index as a percentage (0-100).
func (q Question) DifficultyValue() float64 {
	return ParseMetric(q.Difficulty)
}

// DiscriminationValue is the discrimination index on the fraction scale.
// Exports carry it as a percentage, so "45" becomes 0.45.
func (q Question) DiscriminationValue() float64 {
	return ParseMetric(q.Discrimination) / 100
}

// Export is the parsed content of one analytics artifact.
type Export struct {
	Format    Format     `json:"format"`
	Questions []Question `json:"questions"`
}
