package identity

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/abhisek/banksort/internal/analytics"
)

func question(id, title, metric string) analytics.Question {
	return analytics.Question{
		ID:              id,
		Type:            "Короткий ответ",
		Title:           title,
		Attempts:        40,
		Difficulty:      metric,
		StdDev:          metric,
		GuessProb:       metric,
		Weight:          metric,
		EffectiveWeight: metric,
		Discrimination:  metric,
		Efficiency:      metric,
	}
}

func TestNormalizeMetric(t *testing.T) {
	tests := []struct {
		in, want string
	}{
		{"84,21%", "84.21"},
		{"84.21", "84.21"},
		{" 84.21 ", "84.21"},
		{"84.2", "84.20"},
		{"", ""},
		{"N/A", "n/a"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, NormalizeMetric(tt.in), "input %q", tt.in)
	}
}

func TestSignature_FormattingNoise(t *testing.T) {
	a := Signature(question("1.1", "Что такое <b>персонал</b>?", "84,21%"))
	b := Signature(question("2.1", "что такое персонал", "84.21"))
	c := Signature(question("3.1", "  Что  такое персонал!", " 84.21 "))
	assert.Equal(t, a, b)
	assert.Equal(t, a, c)
}

func TestSignature_RandomTypeIgnored(t *testing.T) {
	q := question("1.1", "x", "1")
	r := q
	r.Type = "Случайный вопрос"
	e := q
	e.Type = ""
	assert.Equal(t, Signature(e), Signature(r))
	assert.NotEqual(t, Signature(q), Signature(r))
}

func TestSignature_TypeCaseKept(t *testing.T) {
	q := question("1.1", "x", "1")
	lower := q
	lower.Type = "короткий ответ"
	padded := q
	padded.Type = " Короткий ответ "
	assert.NotEqual(t, Signature(q), Signature(lower))
	assert.Equal(t, Signature(q), Signature(padded))

	random := q
	random.Type = "СЛУЧАЙНЫЙ ВОПРОС"
	assert.Equal(t, Signature(random), Signature(func() analytics.Question { e := q; e.Type = ""; return e }()))
}

func TestSignature_DistinctMetrics(t *testing.T) {
	q := question("1.1", "x", "50")
	o := q
	o.Efficiency = "51"
	assert.NotEqual(t, Signature(q), Signature(o))
}

func TestDeduplicate(t *testing.T) {
	qs := []analytics.Question{
		{ID: "1", Title: "Категория", IsMainQuestion: true},
		question("1.1", "Персонал", "84,21%"),
		question("1.2", "Другой вопрос", "50"),
		{ID: "2", Title: "Категория", IsMainQuestion: true},
		question("2.1", "персонал", "84.21"),
		question("3.1", "Персонал", " 84.21 "),
	}

	out, groups := Deduplicate(qs)
	require.Len(t, out, 4)
	assert.Equal(t, []string{"1", "1.1", "1.2", "2"}, ids(out))

	rep := out[1]
	assert.Equal(t, []string{"2.1", "3.1"}, rep.DuplicateIDs)
	assert.Equal(t, "1.1 (2.1, 3.1)", rep.DisplayID)
	assert.Equal(t, "1.2", out[2].DisplayID)
	assert.Empty(t, out[0].DisplayID, "structural rows keep no display id")

	require.Len(t, groups, 1)
	assert.Equal(t, []string{"1.1", "2.1", "3.1"}, groups[0].IDs)
}

func TestDeduplicate_Idempotent(t *testing.T) {
	qs := []analytics.Question{
		question("1.1", "a", "1"),
		question("2.1", "a", "1"),
		question("2.2", "b", "1"),
	}
	once, _ := Deduplicate(qs)
	twice, groups := Deduplicate(once)
	assert.Equal(t, once, twice)
	require.Len(t, groups, 1)
	assert.Equal(t, []string{"1.1", "2.1"}, groups[0].IDs)
}

func TestDeduplicate_DoesNotMutateInput(t *testing.T) {
	qs := []analytics.Question{question("1.1", "a", "1"), question("2.1", "a", "1")}
	Deduplicate(qs)
	assert.Empty(t, qs[0].DuplicateIDs)
	assert.Empty(t, qs[0].DisplayID)
}

func ids(qs []analytics.Question) []string {
	out := make([]string, len(qs))
	for i, q := range qs {
		out[i] = q.ID
	}
	return out
}
