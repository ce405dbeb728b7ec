package bank

import (
	"regexp"
	"strings"

	"github.com/abhisek/banksort/internal/qtype"
)

var (
	numericRe     = regexp.MustCompile(`\{#.*?\}`)
	shortPctRe    = regexp.MustCompile(`\{%.*?%`)
	shortHashRe   = regexp.MustCompile(`\{#.*?:`)
	matchingPairs = regexp.MustCompile(`\{.*?=.*?->`)
)

// typeRule recognizes one question type from a single body line.
type typeRule struct {
	Type  string
	Match func(line string) bool
}

// typeRules are checked in order; the patterns overlap, so a numeric
// "{#...}" body must be seen before the short-answer "{#...:" form.
var typeRules = []typeRule{
	{qtype.Numerical, numericRe.MatchString},
	{qtype.ShortAnswer, func(l string) bool { return shortPctRe.MatchString(l) || shortHashRe.MatchString(l) }},
	{qtype.TrueFalse, func(l string) bool { return strings.Contains(l, "{TRUE}") || strings.Contains(l, "{FALSE}") }},
	{qtype.Matching, func(l string) bool { return strings.Contains(l, "->") || matchingPairs.MatchString(l) }},
	{qtype.MultiChoice, func(l string) bool {
		return strings.Contains(l, "{") && (strings.Contains(l, "=") || strings.Contains(l, "~"))
	}},
}

// DetectType returns the type revealed by line and true, or "" and false
// when the line carries no answer syntax.
func DetectType(line string) (string, bool) {
	for _, r := range typeRules {
		if r.Match(line) {
			return r.Type, true
		}
	}
	return "", false
}
