// Package bank reads and writes the plain-text question-bank format:
// "::name::" question bodies, "$CATEGORY:" directives and
// "// question: <id>  name: <label>" comments.
package bank

// DefaultBaseCategory names the root when a bank declares no category.
const DefaultBaseCategory = "Вопросы"

// Question is one question of a bank file.
type Question struct {
	ID              string `json:"id,omitempty"`
	Name            string `json:"name"`
	NameFromComment string `json:"name_from_comment,omitempty"`
	Category        string `json:"category,omitempty"`
	// Text is the opener line and every body line after it.
	Text string `json:"text"`
	Type string `json:"type"`
	// RawText is the exact source of the question, including the comment,
	// category and blank lines buffered in front of it.
	RawText string `json:"raw_text"`
}

// Label identifies q in reports: the bank id, then the comment name, then
// "?".
func (q Question) Label() string {
	switch {
	case q.ID != "":
		return q.ID
	case q.NameFromComment != "":
		return q.NameFromComment
	default:
		return "?"
	}
}

// Bank is a parsed bank file.
type Bank struct {
	BaseCategory string     `json:"base_category"`
	Questions    []Question `json:"questions"`
}
