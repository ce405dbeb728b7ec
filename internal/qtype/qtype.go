// Package qtype holds the question-type vocabulary shared by the analytics
// exports and the bank format.
package qtype

import "strings"

// Type labels as they appear in analytics exports. The bank parser infers
// the same labels from answer syntax so both sides compare directly.
const (
	Numerical    = "Числовой ответ"
	ShortAnswer  = "Короткий ответ"
	TrueFalse    = "Верно/Неверно"
	Matching     = "На соответствие"
	MultiChoice  = "Множественный выбор"
	RandomPseudo = "Случайный"
	Default      = MultiChoice
)

// openTypes are answered by free input rather than by picking an option.
var openTypes = map[string]bool{
	strings.ToLower(Numerical):   true,
	strings.ToLower(ShortAnswer): true,
	"numerical":                  true,
	"short answer":               true,
	"shortanswer":                true,
}

// randomTypes mark random-selection slots. They describe how a question was
// drawn, not what kind of question it is.
var randomTypes = map[string]bool{
	"случайный":        true,
	"случайный вопрос": true,
	"random":           true,
	"":                 true,
}

// IsOpen reports whether t is an open (free input) question type.
func IsOpen(t string) bool {
	return openTypes[strings.ToLower(strings.TrimSpace(t))]
}

// IsRandom reports whether t is the random-selection pseudo-type or empty.
func IsRandom(t string) bool {
	return randomTypes[strings.ToLower(strings.TrimSpace(t))]
}
