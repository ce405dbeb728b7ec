package analytics

import (
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func readFixture(t *testing.T, name string) []byte {
	t.Helper()
	data, err := os.ReadFile("testdata/" + name)
	require.NoError(t, err)
	return data
}

func TestParseMarkup(t *testing.T) {
	qs, err := ParseMarkup(readFixture(t, "report.html"))
	require.NoError(t, err)
	require.Len(t, qs, 4)

	main := qs[0]
	assert.Equal(t, "1", main.ID)
	assert.True(t, main.IsMainQuestion)
	assert.Equal(t, "0", main.GuessProb, "empty cells become the zero string")

	q := qs[1]
	assert.Equal(t, "1.1", q.ID)
	assert.False(t, q.IsMainQuestion)
	assert.Equal(t, "Короткий ответ", q.Type)
	assert.Equal(t, 40, q.Attempts)
	assert.Equal(t, "84.21", q.Difficulty)
	assert.Equal(t, "45.10", q.Discrimination)
	assert.Equal(t, "9.12", q.EffectiveWeight)
	assert.Contains(t, q.Title, "Что такое персонал предприятия?", "full text replaces the truncated title")

	require.Len(t, q.Answers, 2, "the table nested in the body block is skipped")
	assert.Equal(t, "совокупность работников", q.Answers[0].ModelAnswer)
	assert.Equal(t, "100.00", q.Answers[0].PartialCredit)
	assert.Equal(t, 30, q.Answers[0].Count)
	assert.Equal(t, "25.00", q.Answers[1].Frequency)

	q2 := qs[2]
	assert.Equal(t, "Выберите (верный) ответ:", q2.Title)
	require.Len(t, q2.Answers, 3, "short rows are dropped")
	assert.Equal(t, "Б", q2.Answers[1].ActualAnswer)
	assert.Equal(t, 12, q2.Answers[1].Count)

	q3 := qs[3]
	assert.Equal(t, "Short", q3.Title, "no body block left, the row title stays")
	assert.Empty(t, q3.Answers)
}

func TestParseMarkup_NoAnchorTable(t *testing.T) {
	qs, err := ParseMarkup([]byte("<html><body><table><tr><th>Other</th></tr></table></body></html>"))
	require.NoError(t, err)
	assert.NotNil(t, qs)
	assert.Empty(t, qs)
}

func TestParseMarkup_StopsAtAnswerRows(t *testing.T) {
	doc := `<table>
<tr><th>№</th><th>Тип вопроса</th><th>Название вопроса</th></tr>
<tr><td>1.1</td><td>t</td><td>a</td><td>1</td><td>1</td><td>1</td><td>1</td><td>1</td><td>1</td><td>1</td><td>1</td></tr>
<tr><td>Модель ответа</td><td>x</td><td>x</td><td>x</td><td>x</td><td>x</td><td>x</td><td>x</td><td>x</td><td>x</td><td>x</td></tr>
<tr><td>1.2</td><td>t</td><td>b</td><td>1</td><td>1</td><td>1</td><td>1</td><td>1</td><td>1</td><td>1</td><td>1</td></tr>
</table>`
	qs, err := ParseMarkup([]byte(doc))
	require.NoError(t, err)
	require.Len(t, qs, 1)
	assert.Equal(t, "1.1", qs[0].ID)
}
