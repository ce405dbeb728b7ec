package bank

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"regexp"
	"strings"

	"github.com/abhisek/banksort/internal/qtype"
)

const (
	categoryPrefix = "$CATEGORY:"
	commentPrefix  = "// question:"
	markerDelim    = "::"
)

var (
	openerRe      = regexp.MustCompile(`^::(.+?)::`)
	commentIDRe   = regexp.MustCompile(`question:\s*(\d+)`)
	commentNameRe = regexp.MustCompile(`name:\s*(.+)`)
)

// state is the parser's position relative to question bodies.
type state int

const (
	// stateIdle: no question open and nothing buffered.
	stateIdle state = iota
	// stateCategoryBuffer: control lines are buffered for the next question.
	stateCategoryBuffer
	// stateQuestionBody: a question is open and collects body lines.
	stateQuestionBody
)

// parser is a line-driven state machine. Control lines always go to the
// pending buffer, even while a question is open, and become the prefix of
// the next question's raw text.
type parser struct {
	state state
	bank  Bank

	category string
	baseSet  bool

	pending     []string
	pendingID   string
	pendingName string

	cur      *Question
	curLines []string
	curRaw   []string
	typed    bool
}

// Parse reads a bank file. Lines are split on "\n" only, so carriage
// returns and trailing whitespace survive in Text and RawText.
func Parse(r io.Reader) (*Bank, error) {
	p := &parser{bank: Bank{Questions: []Question{}}}
	br := bufio.NewReader(r)
	for {
		chunk, err := br.ReadString('\n')
		if err != nil && !errors.Is(err, io.EOF) {
			return nil, fmt.Errorf("read bank: %w", err)
		}
		if err == nil {
			p.line(strings.TrimSuffix(chunk, "\n"))
			continue
		}
		p.line(chunk)
		break
	}
	p.seal()
	if p.bank.BaseCategory == "" {
		p.bank.BaseCategory = DefaultBaseCategory
	}
	return &p.bank, nil
}

// ParseString parses bank text held in memory.
func ParseString(text string) (*Bank, error) {
	return Parse(strings.NewReader(text))
}

func (p *parser) line(raw string) {
	s := strings.TrimSpace(raw)
	switch {
	case strings.HasPrefix(s, categoryPrefix):
		p.directive(raw, s)
	case strings.HasPrefix(s, commentPrefix):
		p.comment(raw, s)
	case isOpener(s):
		p.open(raw, s)
	case p.state == stateQuestionBody:
		p.body(raw, s)
	case s == "" && p.state == stateCategoryBuffer:
		p.pending = append(p.pending, raw)
	}
	// Anything else before the first opener is dropped.
}

func isOpener(s string) bool {
	return strings.HasPrefix(s, markerDelim) &&
		strings.Contains(s[len(markerDelim):], markerDelim) &&
		openerRe.MatchString(s)
}

func (p *parser) buffer(raw string) {
	p.pending = append(p.pending, raw)
	if p.state == stateIdle {
		p.state = stateCategoryBuffer
	}
}

func (p *parser) directive(raw, s string) {
	path := strings.TrimSpace(strings.ReplaceAll(s, categoryPrefix, ""))
	if !p.baseSet {
		parts := strings.Split(path, "/")
		p.bank.BaseCategory = parts[len(parts)-1]
		p.baseSet = true
	}
	p.category = path
	p.buffer(raw)
}

func (p *parser) comment(raw, s string) {
	p.pendingID = ""
	if m := commentIDRe.FindStringSubmatch(s); m != nil {
		p.pendingID = m[1]
	}
	p.pendingName = ""
	if m := commentNameRe.FindStringSubmatch(s); m != nil {
		p.pendingName = strings.TrimSpace(m[1])
	}
	p.buffer(raw)
}

func (p *parser) open(raw, s string) {
	p.seal()
	p.cur = &Question{
		ID:              p.pendingID,
		Name:            openerRe.FindStringSubmatch(s)[1],
		NameFromComment: p.pendingName,
		Category:        p.category,
	}
	p.curRaw = append(append([]string(nil), p.pending...), raw)
	p.curLines = []string{raw}
	p.typed = false
	p.detect(s)

	p.pending = nil
	p.pendingID, p.pendingName = "", ""
	p.state = stateQuestionBody
}

func (p *parser) body(raw, s string) {
	p.curLines = append(p.curLines, raw)
	p.curRaw = append(p.curRaw, raw)
	p.detect(s)
}

// detect sets the type from the first line that reveals one.
func (p *parser) detect(s string) {
	if p.typed {
		return
	}
	if t, ok := DetectType(s); ok {
		p.cur.Type = t
		p.typed = true
	}
}

func (p *parser) seal() {
	if p.cur == nil {
		return
	}
	if !p.typed {
		p.cur.Type = qtype.Default
	}
	p.cur.Text = strings.Join(p.curLines, "\n")
	p.cur.RawText = strings.Join(p.curRaw, "\n")
	p.bank.Questions = append(p.bank.Questions, *p.cur)
	p.cur, p.curLines, p.curRaw = nil, nil, nil
	if len(p.pending) > 0 {
		p.state = stateCategoryBuffer
	} else {
		p.state = stateIdle
	}
}
