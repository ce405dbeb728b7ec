package analytics

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseFlat(t *testing.T) {
	rows, err := ReadRows(string(readFixture(t, "report.csv")))
	require.NoError(t, err)

	qs := ParseFlat(rows)
	require.Len(t, qs, 3, "non-numeric ids are skipped")

	assert.Equal(t, "1", qs[0].ID)
	assert.True(t, qs[0].IsMainQuestion)
	assert.Empty(t, qs[0].Answers)

	q := qs[1]
	assert.Equal(t, "1.1", q.ID)
	assert.False(t, q.IsMainQuestion)
	assert.Equal(t, "Что такое персонал", q.Title)
	assert.Equal(t, "84.21", q.Difficulty)
	assert.Equal(t, "45.10", q.Discrimination)
	assert.Equal(t, "52.00", q.Efficiency)
	require.Len(t, q.Answers, 2)
	assert.Equal(t, "совокупность", q.Answers[0].ModelAnswer)
	assert.Equal(t, 10, q.Answers[1].Count)

	q2 := qs[2]
	require.Len(t, q2.Answers, 2)
	assert.Equal(t, "А", q2.Answers[0].ModelAnswer)
	assert.Equal(t, "55.26", q2.Answers[0].Frequency)
	assert.Equal(t, "Б", q2.Answers[1].Part, "a part label alone keeps the row")
	assert.Equal(t, 12, q2.Answers[1].Count)
}

func TestParseFlat_NoHeader(t *testing.T) {
	qs := ParseFlat([][]string{{"a", "b"}, {"1.1", "x"}})
	assert.NotNil(t, qs)
	assert.Empty(t, qs)
}

func TestReadRows_SniffsDelimiter(t *testing.T) {
	tests := []struct {
		name string
		text string
		want []string
	}{
		{"comma", "a,b,c\n", []string{"a", "b", "c"}},
		{"semicolon", "a;b,c;d\n", []string{"a", "b,c", "d"}},
		{"tab", "\n\na\tb\tc\n", []string{"a", "b", "c"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rows, err := ReadRows(tt.text)
			require.NoError(t, err)
			require.NotEmpty(t, rows)
			assert.Equal(t, tt.want, rows[0])
		})
	}
}

func TestResolveColumns_Fuzzy(t *testing.T) {
	headers := []string{"№", "Тип вопроса:", "Название вопроса", "Discrimination index, %", "Эффективность дискр."}
	cols := resolveColumns(headers, questionColumns)

	assert.Equal(t, 0, cols[FieldNumber])
	assert.Equal(t, 1, cols[FieldType])
	assert.Equal(t, 2, cols[FieldTitle])
	assert.Equal(t, 3, cols[FieldDiscrimination], "efficiency headers never resolve as discrimination")
	assert.Equal(t, 4, cols[FieldEfficiency])
	assert.False(t, cols.has(FieldAttempts))
}

func TestResolveColumns_FirstHeaderWins(t *testing.T) {
	cols := resolveColumns([]string{"Частота", "частота", "Модель ответа"}, answerColumns)
	assert.Equal(t, 0, cols[FieldFreq])
	assert.Equal(t, 2, cols[FieldModel])
}
