package analytics

import (
	"strings"

	"github.com/abhisek/banksort/internal/textnorm"
)

// Field names a canonical column of an export table.
type Field string

const (
	FieldNumber          Field = "number"
	FieldType            Field = "type"
	FieldTitle           Field = "title"
	FieldAttempts        Field = "attempts"
	FieldDifficulty      Field = "difficulty"
	FieldStdDev          Field = "std_dev"
	FieldGuessProb       Field = "guess_prob"
	FieldWeight          Field = "weight"
	FieldEffectiveWeight Field = "effective_weight"
	FieldDiscrimination  Field = "discrimination"
	FieldEfficiency      Field = "efficiency"

	FieldPart   Field = "part"
	FieldModel  Field = "model_answer"
	FieldActual Field = "actual_answer"
	FieldCredit Field = "partial_credit"
	FieldCount  Field = "count"
	FieldFreq   Field = "frequency"
)

// tokenRule matches a header containing every token in All and none in None.
type tokenRule struct {
	All  []string
	None []string
}

func (r tokenRule) match(key string) bool {
	for _, t := range r.All {
		if !strings.Contains(key, t) {
			return false
		}
	}
	for _, t := range r.None {
		if strings.Contains(key, t) {
			return false
		}
	}
	return true
}

// columnSpec resolves one field: exact alias match first, then token rules
// in order.
type columnSpec struct {
	Field   Field
	Aliases []string
	Tokens  []tokenRule
}

// questionColumns is the header vocabulary of the question-statistics table,
// in the order the markup report lays the cells out.
var questionColumns = []columnSpec{
	{Field: FieldNumber, Aliases: []string{"№", "no", "n", "q#", "#"}},
	{Field: FieldType, Aliases: []string{"тип вопроса", "question type"},
		Tokens: []tokenRule{{All: []string{"тип", "вопрос"}}, {All: []string{"type"}}}},
	{Field: FieldTitle, Aliases: []string{"название вопроса", "question name"},
		Tokens: []tokenRule{{All: []string{"назв", "вопрос"}}, {All: []string{"question", "name"}}}},
	{Field: FieldAttempts, Aliases: []string{"попытки", "attempts"},
		Tokens: []tokenRule{{All: []string{"попыт"}}, {All: []string{"attempt"}}}},
	{Field: FieldDifficulty, Aliases: []string{"индекс легкости", "индекс лёгкости", "facility index"},
		Tokens: []tokenRule{{All: []string{"индекс", "легк"}}, {All: []string{"facility"}}}},
	{Field: FieldStdDev, Aliases: []string{"стандартное отклонение", "standard deviation"},
		Tokens: []tokenRule{{All: []string{"стандартн", "отклон"}}, {All: []string{"deviation"}}}},
	{Field: FieldGuessProb, Aliases: []string{"вероятность угадывания", "random guess score"},
		Tokens: []tokenRule{{All: []string{"угадыв"}}, {All: []string{"guess"}}}},
	{Field: FieldWeight, Aliases: []string{"предполагаемый вес", "intended weight"},
		Tokens: []tokenRule{{All: []string{"предполагаем", "вес"}}, {All: []string{"intended", "weight"}}}},
	{Field: FieldEffectiveWeight, Aliases: []string{"эффективный вес", "effective weight"},
		Tokens: []tokenRule{{All: []string{"эффективн", "вес"}}, {All: []string{"effective", "weight"}}}},
	{Field: FieldDiscrimination, Aliases: []string{"индекс дискриминации", "discrimination index"},
		Tokens: []tokenRule{{All: []string{"дискр"}, None: []string{"эффект"}}, {All: []string{"discrimination"}}}},
	{Field: FieldEfficiency, Aliases: []string{"эффективность дискриминации", "discriminative efficiency"},
		Tokens: []tokenRule{{All: []string{"эффект", "дискр"}}, {All: []string{"discriminative"}}}},
}

// answerColumns is the header vocabulary of answer-statistics tables.
var answerColumns = []columnSpec{
	{Field: FieldPart, Aliases: []string{"часть вопроса", "part of question"}},
	{Field: FieldModel, Aliases: []string{"модель ответа", "model response"}},
	{Field: FieldActual, Aliases: []string{"фактический ответ", "actual response"}},
	{Field: FieldCredit, Aliases: []string{"частичный кредит", "частичная оценка", "partial credit"}},
	{Field: FieldCount, Aliases: []string{"количество ответов", "количество", "count"}},
	{Field: FieldFreq, Aliases: []string{"частота", "frequency"}},
}

// Anchor labels identify the question-statistics header.
var (
	numberAnchors = []string{"№", "q#"}
	typeAnchors   = []string{"тип вопроса", "question type"}
	titleAnchors  = []string{"название вопроса", "question name"}
)

// columnMap maps a resolved field to its cell index.
type columnMap map[Field]int

// resolveColumns builds a columnMap for headers. Lookups are on HeaderKey;
// the first header carrying a given key wins.
func resolveColumns(headers []string, specs []columnSpec) columnMap {
	keys := make([]string, len(headers))
	index := make(map[string]int, len(headers))
	for i, h := range headers {
		k := textnorm.HeaderKey(h)
		keys[i] = k
		if _, ok := index[k]; !ok && k != "" {
			index[k] = i
		}
	}

	cols := make(columnMap, len(specs))
	for _, spec := range specs {
		if i, ok := lookupAlias(index, spec.Aliases); ok {
			cols[spec.Field] = i
			continue
		}
		if i, ok := lookupTokens(keys, spec.Tokens); ok {
			cols[spec.Field] = i
		}
	}
	return cols
}

func lookupAlias(index map[string]int, aliases []string) (int, bool) {
	for _, a := range aliases {
		if i, ok := index[textnorm.HeaderKey(a)]; ok {
			return i, true
		}
	}
	return 0, false
}

func lookupTokens(keys []string, rules []tokenRule) (int, bool) {
	for _, r := range rules {
		for i, k := range keys {
			if k != "" && r.match(k) {
				return i, true
			}
		}
	}
	return 0, false
}

// cell returns the trimmed cell for f, or "" when the column is absent or
// the row is short.
func (c columnMap) cell(row []string, f Field) string {
	i, ok := c[f]
	if !ok || i < 0 || i >= len(row) {
		return ""
	}
	return strings.TrimSpace(row[i])
}

func (c columnMap) has(f Field) bool {
	_, ok := c[f]
	return ok
}

// containsLabel reports whether any cell's HeaderKey is one of labels.
func containsLabel(cells []string, labels ...string) bool {
	for _, c := range cells {
		k := textnorm.HeaderKey(c)
		for _, l := range labels {
			if k == textnorm.HeaderKey(l) {
				return true
			}
		}
	}
	return false
}

// answerSectionLabels start an answer-statistics section.
var answerSectionLabels = []string{"модель ответа", "часть вопроса", "model response", "part of question"}

// frequencyLabels close the pair that marks a flat answer header row.
var frequencyLabels = []string{"частота", "frequency"}
