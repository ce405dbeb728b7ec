package textnorm

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCleanMarkup(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{"plain", "  Hello   world ", "Hello world"},
		{"paragraph", "<p>Сколько <b>будет</b> 2+2?</p>", "Сколько будет 2+2?"},
		{"table cells kept", "<table><tr><td>a</td><td>b</td></tr></table>", "a b"},
		{"line breaks", "one<br/>two<BR>three", "one two three"},
		{"escapes", `Time\: 10\; ratio\=2`, "Time: 10; ratio=2"},
		{"html marker", "[html]<p>text</p>", "text"},
		{"entities", "a &amp; b&nbsp;c", "a & b c"},
		{"empty", "", ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, CleanMarkup(tt.in))
		})
	}
}

func TestNormalize(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"<p>Что такое ПЕРСОНАЛ?</p>", "что такое персонал"},
		{"Formula: H2O, (water).", "formula h2o water"},
		{"snake_case stays", "snake_case stays"},
		{"a - b", "a  b"},
		{"Итог: -", "итог"},
		{"    spaced out ", "spaced out"},
		{"", ""},
	}
	for _, tc := range tests {
		if got := Normalize(tc.in); got != tc.want {
			t.Errorf("Normalize(%q) = %q, want %q", tc.in, got, tc.want)
		}
	}
}

func TestHeaderKey(t *testing.T) {
	assert.Equal(t, "индекс легкости", HeaderKey("  Индекс  \"легкости\" "))
	assert.Equal(t, "тип вопроса", HeaderKey("«Тип вопроса»"))
}

func TestTidyBody(t *testing.T) {
	assert.Equal(t, "Ответ:(1) [a]", TidyBody("Ответ : ( 1 ) [ a ]"))
	assert.Equal(t, "Итог:", TidyBody("Итог :."))
}
