package analytics

import (
	"bytes"
	"fmt"
	"strings"

	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"

	"github.com/abhisek/banksort/internal/textnorm"
)

// questionCellCount is the number of cells in a question-statistics row of
// the markup report.
const questionCellCount = 11

// questionTextClass marks the body blocks that hold full question text.
const questionTextClass = "questiontext"

// ParseMarkup parses the nested-table markup report. A document without the
// question-statistics table yields an empty slice and no error.
func ParseMarkup(data []byte) ([]Question, error) {
	doc, err := html.Parse(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("parse markup: %w", err)
	}
	d := newMarkupDoc(doc)

	table := d.questionTable()
	if table == nil {
		return []Question{}, nil
	}

	rows := findAll(table, atom.Tr)
	if len(rows) > 0 {
		rows = rows[1:]
	}

	var questions []Question
	sub := 0
	for _, row := range rows {
		cells := cellTexts(findAll(row, atom.Td))
		if containsLabel(cells, answerSectionLabels...) {
			break
		}
		if len(cells) < questionCellCount {
			continue
		}
		q := questionFromCells(cells)
		if !IsSubItem(q.ID) {
			q.IsMainQuestion = true
			questions = append(questions, q)
			continue
		}
		if block := d.block(sub); block != nil {
			if text := textnorm.TidyBody(nodeText(block)); text != "" {
				q.Title = text
			}
			q.Answers = d.answersAfter(block)
		}
		questions = append(questions, q)
		sub++
	}
	if questions == nil {
		questions = []Question{}
	}
	return questions, nil
}

// questionFromCells maps the fixed cell order of the markup report.
func questionFromCells(c []string) Question {
	return Question{
		ID:              strings.TrimSpace(c[0]),
		Type:            strings.TrimSpace(c[1]),
		Title:           strings.TrimSpace(c[2]),
		Attempts:        ParseCount(c[3]),
		Difficulty:      CleanPercentage(c[4]),
		StdDev:          CleanPercentage(c[5]),
		GuessProb:       CleanPercentage(c[6]),
		Weight:          CleanPercentage(c[7]),
		EffectiveWeight: CleanPercentage(c[8]),
		Discrimination:  CleanPercentage(c[9]),
		Efficiency:      CleanPercentage(c[10]),
		Answers:         []Answer{},
	}
}

// markupDoc indexes a parsed document in document order.
type markupDoc struct {
	order  map[*html.Node]int
	tables []*html.Node
	blocks []*html.Node
}

func newMarkupDoc(root *html.Node) *markupDoc {
	d := &markupDoc{order: make(map[*html.Node]int)}
	var walk func(n *html.Node)
	walk = func(n *html.Node) {
		d.order[n] = len(d.order)
		if n.Type == html.ElementNode {
			switch {
			case n.DataAtom == atom.Table:
				d.tables = append(d.tables, n)
			case n.DataAtom == atom.Div && hasClass(n, questionTextClass):
				d.blocks = append(d.blocks, n)
			}
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	walk(root)
	return d
}

// questionTable returns the first table whose header cells carry the number,
// type and title anchors.
func (d *markupDoc) questionTable() *html.Node {
	for _, t := range d.tables {
		headers := cellTexts(findAll(t, atom.Th))
		if len(headers) == 0 {
			continue
		}
		if containsLabel(headers, numberAnchors...) &&
			containsLabel(headers, typeAnchors...) &&
			containsLabel(headers, titleAnchors...) {
			return t
		}
	}
	return nil
}

func (d *markupDoc) block(i int) *html.Node {
	if i < 0 || i >= len(d.blocks) {
		return nil
	}
	return d.blocks[i]
}

// answersAfter finds the first answer-statistics table following block in
// document order, skipping tables nested inside the block itself.
func (d *markupDoc) answersAfter(block *html.Node) []Answer {
	start := d.order[block]
	for _, t := range d.tables {
		if d.order[t] <= start || isDescendant(t, block) {
			continue
		}
		headers := cellTexts(findAll(t, atom.Th))
		if len(headers) == 0 {
			continue
		}
		cols := resolveColumns(headers, answerColumns)
		if len(cols) == 0 {
			continue
		}
		return answersFromTable(t, headers, cols)
	}
	return []Answer{}
}

func answersFromTable(t *html.Node, headers []string, cols columnMap) []Answer {
	rows := findAll(t, atom.Tr)
	if len(rows) > 0 {
		rows = rows[1:]
	}
	answers := []Answer{}
	for _, row := range rows {
		cells := cellTexts(findAll(row, atom.Td))
		if len(cells) < len(headers) {
			continue
		}
		answers = append(answers, answerFromRow(cells, cols))
	}
	return answers
}

// answerFromRow applies the shared value cleaning to one answer row.
func answerFromRow(cells []string, cols columnMap) Answer {
	return Answer{
		Part:          cols.cell(cells, FieldPart),
		ModelAnswer:   cols.cell(cells, FieldModel),
		ActualAnswer:  cols.cell(cells, FieldActual),
		PartialCredit: CleanPercentage(cols.cell(cells, FieldCredit)),
		Count:         ParseCount(cols.cell(cells, FieldCount)),
		Frequency:     CleanPercentage(cols.cell(cells, FieldFreq)),
	}
}

func findAll(n *html.Node, a atom.Atom) []*html.Node {
	var out []*html.Node
	var walk func(*html.Node)
	walk = func(n *html.Node) {
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			if c.Type == html.ElementNode && c.DataAtom == a {
				out = append(out, c)
			}
			walk(c)
		}
	}
	walk(n)
	return out
}

func cellTexts(nodes []*html.Node) []string {
	out := make([]string, len(nodes))
	for i, n := range nodes {
		out[i] = nodeText(n)
	}
	return out
}

// nodeText joins the trimmed text nodes below n with single spaces.
func nodeText(n *html.Node) string {
	var parts []string
	var walk func(*html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.TextNode {
			if s := strings.TrimSpace(n.Data); s != "" {
				parts = append(parts, s)
			}
			return
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	walk(n)
	return strings.Join(parts, " ")
}

func hasClass(n *html.Node, class string) bool {
	for _, a := range n.Attr {
		if a.Key != "class" {
			continue
		}
		for _, c := range strings.Fields(a.Val) {
			if c == class {
				return true
			}
		}
	}
	return false
}

func isDescendant(n, ancestor *html.Node) bool {
	for p := n.Parent; p != nil; p = p.Parent {
		if p == ancestor {
			return true
		}
	}
	return false
}
