// Package textnorm canonicalizes free text coming from analytics exports and
// bank files so that the two sides can be compared.
package textnorm

import (
	"regexp"
	"strings"
	"unicode"

	"golang.org/x/net/html"
	"golang.org/x/text/unicode/norm"
)

// bankEscapes resolves the bank format's backslash escapes. A literal "\n"
// inside a body is a line break, which collapses to a space here.
var bankEscapes = strings.NewReplacer(
	`\:`, ":",
	`\;`, ";",
	`\=`, "=",
	`\n`, " ",
	"&nbsp;", " ",
)

var (
	cellRe     = regexp.MustCompile(`(?is)<(td|th|caption)[^>]*>(.*?)</(td|th|caption)>`)
	breakRe    = regexp.MustCompile(`(?i)<br\s*/?>`)
	tagRe      = regexp.MustCompile(`<[^>]+>`)
	htmlBlock  = regexp.MustCompile(`(?is)\[html\].*?\[/html\]`)
	htmlMarker = regexp.MustCompile(`(?i)\[/?html\]`)
)

// CleanMarkup strips markup from s while keeping the text content of table
// cells and captions, resolves bank escapes and entities, and collapses
// whitespace.
func CleanMarkup(s string) string {
	if s == "" {
		return ""
	}
	s = bankEscapes.Replace(s)
	s = cellRe.ReplaceAllString(s, " $2 ")
	s = breakRe.ReplaceAllString(s, " ")
	s = tagRe.ReplaceAllString(s, "")
	s = htmlBlock.ReplaceAllString(s, "")
	s = htmlMarker.ReplaceAllString(s, "")
	s = html.UnescapeString(s)
	return CollapseSpace(s)
}

// Normalize produces the comparison form of a title or body: markup removed,
// lower-cased and whitespace-collapsed, then punctuation dropped. Spaces
// around removed punctuation are kept, so "a - b" becomes "a  b".
func Normalize(s string) string {
	if s == "" {
		return ""
	}
	s = CollapseSpace(strings.ToLower(Fold(CleanMarkup(s))))
	s = strings.Map(func(r rune) rune {
		if unicode.IsLetter(r) || unicode.IsNumber(r) || r == '_' || unicode.IsSpace(r) {
			return r
		}
		return -1
	}, s)
	return strings.TrimSpace(s)
}

// Fold applies NFC composition and turns non-breaking spaces into plain ones.
func Fold(s string) string {
	s = norm.NFC.String(s)
	return strings.Map(func(r rune) rune {
		switch r {
		case '\u00a0', '\u2007', '\u202f':
			return ' '
		}
		return r
	}, s)
}

// CollapseSpace trims s and replaces every whitespace run with one space.
func CollapseSpace(s string) string {
	return strings.Join(strings.Fields(s), " ")
}

var headerQuotes = strings.NewReplacer(`"`, "", `'`, "", "«", "", "»", "")

// HeaderKey is the lookup form of a column label: folded spaces, quotes
// removed, collapsed, lower-cased.
func HeaderKey(s string) string {
	s = headerQuotes.Replace(Fold(s))
	return strings.ToLower(CollapseSpace(s))
}

// bodyTidy is applied in order; later pairs see the output of earlier ones.
var bodyTidy = [][2]string{
	{" :", ":"},
	{": ", ":"},
	{":.", ":"},
	{": .", ":"},
	{"( ", "("},
	{" )", ")"},
	{"[ ", "["},
	{" ]", "]"},
}

// TidyBody cleans question text recovered from an export's body block.
// Extraction joins text nodes with spaces, which leaves gaps around
// punctuation that the original rendering did not have.
func TidyBody(s string) string {
	s = CollapseSpace(s)
	for _, p := range bodyTidy {
		s = strings.ReplaceAll(s, p[0], p[1])
	}
	return CollapseSpace(s)
}
