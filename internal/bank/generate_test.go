package bank

import (
	"strings"
	"testing"
)

func TestGenerate_Layout(t *testing.T) {
	q := Question{RawText: "// question: 9  name: A\n::A::body {=x ~y}"}
	got := Generate("Персонал", []Section{
		{Name: "1.1 Легкие/Открытые"},
		{Name: "1.2 Легкие/Закрытые", Questions: []Question{q}},
	})

	want := strings.Join([]string{
		"// question: 0  name: Switch category to $course$/top/Персонал",
		"$CATEGORY: $course$/top/Персонал",
		"",
		"",
		"// question: 0  name: Switch category to $course$/top/Персонал/1.2 Легкие/Закрытые",
		"$CATEGORY: $course$/top/Персонал/1.2 Легкие/Закрытые",
		"",
		"",
		"// question: 9  name: A",
		"::A::body {=x ~y}",
		"",
		"",
	}, "\n")
	if got != want {
		t.Errorf("Generate output mismatch\ngot:\n%s\nwant:\n%s", got, want)
	}
}

func TestGenerate_DefaultBase(t *testing.T) {
	got := Generate("", nil)
	if !strings.Contains(got, "$CATEGORY: $course$/top/"+DefaultBaseCategory) {
		t.Errorf("missing default base category in %q", got)
	}
}

func TestGenerate_SkipsEmptyRawText(t *testing.T) {
	only := Question{RawText: "$CATEGORY: $course$/top/X"}
	got := Generate("B", []Section{{Name: "S", Questions: []Question{{}, only}}})
	if strings.Count(got, "$CATEGORY:") != 2 {
		t.Errorf("want root and section directives only, got %q", got)
	}
	if strings.HasSuffix(got, "\n\n\n\n") {
		t.Errorf("skipped questions must not add separators: %q", got)
	}
}

func TestStripControlLines(t *testing.T) {
	raw := strings.Join([]string{
		"// question: 0  name: Switch category to $course$/top/X",
		"  $CATEGORY: $course$/top/X",
		"// question: 12  name: Kept",
		"",
		"::Kept::body",
	}, "\n")
	got := StripControlLines(raw)
	want := []string{"// question: 12  name: Kept", "", "::Kept::body"}
	if strings.Join(got, "|") != strings.Join(want, "|") {
		t.Errorf("StripControlLines = %q, want %q", got, want)
	}
	if StripControlLines("") != nil {
		t.Error("empty raw text should yield nil")
	}
}

func TestRoundTrip(t *testing.T) {
	b, _ := loadBank(t)

	out := Generate(b.BaseCategory, []Section{
		{Name: "2.2 Средние+Сложные/Закрытые", Questions: b.Questions[:2]},
		{Name: "3 На переделку", Questions: b.Questions[2:]},
	})

	for _, q := range b.Questions {
		body := strings.Join(StripControlLines(q.RawText), "\n")
		if !strings.Contains(out, body) {
			t.Errorf("question %q body not preserved verbatim", q.Name)
		}
	}

	again, err := ParseString(out)
	if err != nil {
		t.Fatal(err)
	}
	if again.BaseCategory != b.BaseCategory {
		t.Errorf("BaseCategory = %q, want %q", again.BaseCategory, b.BaseCategory)
	}
	if len(again.Questions) != len(b.Questions) {
		t.Fatalf("reparsed %d questions, want %d", len(again.Questions), len(b.Questions))
	}
	for i, q := range again.Questions {
		orig := b.Questions[i]
		if q.Name != orig.Name || q.ID != orig.ID || q.Type != orig.Type {
			t.Errorf("question %d changed: got {%q %q %q}, want {%q %q %q}",
				i, q.Name, q.ID, q.Type, orig.Name, orig.ID, orig.Type)
		}
		if strings.TrimRight(q.Text, "\n") != strings.TrimRight(orig.Text, "\n") {
			t.Errorf("question %d text changed:\ngot  %q\nwant %q", i, q.Text, orig.Text)
		}
	}
	if got := again.Questions[3].Category; got != "$course$/top/Персонал/3 На переделку" {
		t.Errorf("Category = %q", got)
	}
}
