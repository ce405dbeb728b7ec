package bank

import (
	"strings"
)

const (
	coursePrefix = "$course$/top/"
	switchMarker = "Switch category to"
)

// Section is one category of generated output.
type Section struct {
	Name      string
	Questions []Question
}

// Generate writes a bank with a root category named base and one
// subcategory per non-empty section, in the given order. Question raw text
// is copied verbatim except that category control lines are dropped, so a
// re-import does not create stray nested categories.
func Generate(base string, sections []Section) string {
	if base == "" {
		base = DefaultBaseCategory
	}
	var lines []string
	lines = appendSwitch(lines, base)
	for _, sec := range sections {
		if len(sec.Questions) == 0 {
			continue
		}
		lines = appendSwitch(lines, base+"/"+sec.Name)
		for _, q := range sec.Questions {
			body := StripControlLines(q.RawText)
			if len(body) == 0 {
				continue
			}
			lines = append(lines, body...)
			lines = append(lines, "", "")
		}
	}
	return strings.Join(lines, "\n")
}

func appendSwitch(lines []string, path string) []string {
	return append(lines,
		"// question: 0  name: "+switchMarker+" "+coursePrefix+path,
		categoryPrefix+" "+coursePrefix+path,
		"",
		"",
	)
}

// StripControlLines splits raw into lines and drops category directives and
// category-switch comments.
func StripControlLines(raw string) []string {
	if raw == "" {
		return nil
	}
	var out []string
	for _, l := range strings.Split(raw, "\n") {
		if isControlLine(l) {
			continue
		}
		out = append(out, l)
	}
	return out
}

func isControlLine(line string) bool {
	s := strings.TrimSpace(line)
	if strings.HasPrefix(s, categoryPrefix) {
		return true
	}
	return strings.HasPrefix(s, commentPrefix) && strings.Contains(s, switchMarker)
}
