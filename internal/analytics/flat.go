package analytics

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/abhisek/banksort/internal/textnorm"
)

// ReadRows splits flat tabular text into rows. The delimiter is sniffed from
// the first non-empty line; rows may be ragged.
func ReadRows(text string) ([][]string, error) {
	r := csv.NewReader(strings.NewReader(text))
	r.Comma = sniffDelimiter(text)
	r.FieldsPerRecord = -1
	r.LazyQuotes = true

	var rows [][]string
	for {
		rec, err := r.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("read rows: %w", err)
		}
		rows = append(rows, rec)
	}
	return rows, nil
}

func sniffDelimiter(text string) rune {
	line := text
	for _, l := range strings.Split(text, "\n") {
		if strings.TrimSpace(l) != "" {
			line = l
			break
		}
	}
	best, bestN := ',', strings.Count(line, ",")
	for _, d := range []rune{';', '\t'} {
		if n := strings.Count(line, string(d)); n > bestN {
			best, bestN = d, n
		}
	}
	return best
}

// ParseFlat parses flat tabular rows. Question rows follow the header row
// until the first answer section; answer blocks that follow are attached to
// sub-items by position. Rows without a recognizable header yield an empty
// slice.
func ParseFlat(rows [][]string) []Question {
	header := findQuestionHeader(rows)
	if header < 0 {
		return []Question{}
	}
	cols := resolveColumns(rows[header], questionColumns)
	if !cols.has(FieldNumber) {
		cols[FieldNumber] = 0
	}

	questions := []Question{}
	for _, row := range rows[header+1:] {
		if containsLabel(row, answerSectionLabels...) {
			break
		}
		id := cols.cell(row, FieldNumber)
		if id == "" || !isNumericID(id) {
			continue
		}
		q := questionFromRow(row, cols)
		q.IsMainQuestion = !IsSubItem(id)
		questions = append(questions, q)
	}

	blocks := ParseAnswerBlocks(rows)
	sub := 0
	for i := range questions {
		if questions[i].IsMainQuestion {
			continue
		}
		if sub < len(blocks) {
			questions[i].Answers = blocks[sub]
		}
		sub++
	}
	return questions
}

// findQuestionHeader returns the index of the first row whose joined text
// carries a number marker plus the type and title anchors, or -1.
func findQuestionHeader(rows [][]string) int {
	for i, row := range rows {
		joined := textnorm.HeaderKey(strings.Join(row, " "))
		if !containsAny(joined, numberAnchors) {
			continue
		}
		if containsAny(joined, typeAnchors) && containsAny(joined, titleAnchors) {
			return i
		}
	}
	return -1
}

func containsAny(s string, subs []string) bool {
	for _, sub := range subs {
		if strings.Contains(s, textnorm.HeaderKey(sub)) {
			return true
		}
	}
	return false
}

// isNumericID accepts "1" and "1.2" style numbering.
func isNumericID(id string) bool {
	digits := strings.ReplaceAll(id, ".", "")
	if digits == "" {
		return false
	}
	for _, r := range digits {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}

func questionFromRow(row []string, cols columnMap) Question {
	return Question{
		ID:              cols.cell(row, FieldNumber),
		Type:            cols.cell(row, FieldType),
		Title:           cols.cell(row, FieldTitle),
		Attempts:        ParseCount(cols.cell(row, FieldAttempts)),
		Difficulty:      CleanPercentage(cols.cell(row, FieldDifficulty)),
		Discrimination:  CleanPercentage(cols.cell(row, FieldDiscrimination)),
		Efficiency:      CleanPercentage(cols.cell(row, FieldEfficiency)),
		Weight:          CleanPercentage(cols.cell(row, FieldWeight)),
		EffectiveWeight: CleanPercentage(cols.cell(row, FieldEffectiveWeight)),
		StdDev:          CleanPercentage(cols.cell(row, FieldStdDev)),
		GuessProb:       CleanPercentage(cols.cell(row, FieldGuessProb)),
		Answers:         []Answer{},
	}
}

// ParseAnswerBlocks collects the repeating answer-statistics blocks of a
// flat export. Each header row starts a new block with its own column map.
func ParseAnswerBlocks(rows [][]string) [][]Answer {
	var (
		blocks  [][]Answer
		current []Answer
		cols    columnMap
		open    bool
	)
	flush := func() {
		if open && len(current) > 0 {
			blocks = append(blocks, current)
		}
		current = nil
	}

	for _, row := range rows {
		if isAnswerHeader(row) {
			flush()
			cols = resolveColumns(row, answerColumns)
			open = cols.has(FieldModel) || cols.has(FieldCount) || cols.has(FieldFreq)
			continue
		}
		if !open {
			continue
		}
		if cols.cell(row, FieldModel) == "" && cols.cell(row, FieldPart) == "" {
			continue
		}
		current = append(current, answerFromRow(row, cols))
	}
	flush()
	return blocks
}

// isAnswerHeader matches rows pairing an answer-model or question-part label
// with a frequency label.
func isAnswerHeader(row []string) bool {
	return containsLabel(row, answerSectionLabels...) && containsLabel(row, frequencyLabels...)
}
