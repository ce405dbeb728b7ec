package pipeline

import (
	"bytes"
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/abhisek/banksort/internal/analytics"
	"github.com/abhisek/banksort/internal/balance"
	"github.com/abhisek/banksort/internal/bank"
	"github.com/abhisek/banksort/internal/categorize"
	"github.com/abhisek/banksort/internal/identity"
	"github.com/abhisek/banksort/internal/matching"
	"github.com/abhisek/banksort/internal/stats"
)

// Pipeline runs inputs with fixed parameters.
type Pipeline struct {
	params Params
	cache  Cache
	log    *zap.Logger
	now    func() time.Time
}

// Option configures a Pipeline.
type Option func(*Pipeline)

// WithCache reuses results for repeated inputs.
func WithCache(c Cache) Option {
	return func(p *Pipeline) { p.cache = c }
}

// WithLogger sets the logger; the default discards.
func WithLogger(l *zap.Logger) Option {
	return func(p *Pipeline) { p.log = l }
}

// WithClock overrides the time source.
func WithClock(now func() time.Time) Option {
	return func(p *Pipeline) { p.now = now }
}

// New creates a Pipeline.
func New(params Params, opts ...Option) *Pipeline {
	if params.MaxInputBytes <= 0 {
		params.MaxInputBytes = DefaultMaxInputBytes
	}
	p := &Pipeline{params: params, log: zap.NewNop(), now: time.Now}
	for _, o := range opts {
		o(p)
	}
	return p
}

// Params returns the effective parameters.
func (p *Pipeline) Params() Params { return p.params }

// Run processes in. Without a bank only the parse, dedup, summary and
// balance stages run.
func (p *Pipeline) Run(ctx context.Context, in Input) (*Result, error) {
	if err := p.checkSize(in.ExportName, in.Export); err != nil {
		return nil, err
	}
	if err := p.checkSize(in.BankName, in.Bank); err != nil {
		return nil, err
	}

	fp := Fingerprint(in, p.params)
	log := p.log.With(zap.String("fingerprint", fp[:12]))
	if p.cache != nil {
		cached, err := p.cache.Get(ctx, fp)
		if err != nil {
			log.Warn("cache lookup failed", zap.Error(err))
		} else if cached != nil {
			log.Debug("cache hit", zap.String("run_id", cached.RunID))
			return cached, nil
		}
		log.Debug("cache miss")
	}

	exp, err := analytics.Load(in.ExportName, in.Export)
	if err != nil {
		return nil, fmt.Errorf("load export: %w", err)
	}
	qs, groups := identity.Deduplicate(exp.Questions)
	log.Info("export parsed",
		zap.String("format", string(exp.Format)),
		zap.Int("rows", len(exp.Questions)),
		zap.Int("questions", len(analytics.SubItems(qs))),
		zap.Int("duplicate_groups", len(groups)),
	)
	for _, g := range groups {
		log.Debug("merged duplicates", zap.Strings("ids", g.IDs))
	}

	res := &Result{
		RunID:       uuid.NewString(),
		Fingerprint: fp,
		CreatedAt:   p.now().UTC(),
		ExportName:  in.ExportName,
		BankName:    in.BankName,
		Format:      exp.Format,
		Questions:   qs,
		Groups:      groups,
		Summary:     stats.Summarize(qs),
		Balance:     balance.Compute(qs, p.params.Targets, p.params.Balance),
	}
	if res.Groups == nil {
		res.Groups = []identity.Group{}
	}

	if in.HasBank() {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		if err := p.runBank(in, res, log); err != nil {
			return nil, err
		}
	}

	if p.cache != nil {
		if err := p.cache.Put(ctx, res); err != nil {
			log.Warn("cache store failed", zap.Error(err))
		}
	}
	return res, nil
}

func (p *Pipeline) runBank(in Input, res *Result, log *zap.Logger) error {
	text, err := analytics.DecodeText(bytes.TrimPrefix(in.Bank, []byte{0xEF, 0xBB, 0xBF}))
	if err != nil {
		return fmt.Errorf("decode bank: %w", err)
	}
	b, err := bank.ParseString(text)
	if err != nil {
		return fmt.Errorf("parse bank: %w", err)
	}
	log.Info("bank parsed",
		zap.String("base_category", b.BaseCategory),
		zap.Int("questions", len(b.Questions)),
	)

	m := matching.Match(b.Questions, res.Questions, p.params.Matching)
	if len(m.Unmatched) > 0 {
		log.Warn("bank questions without analytics", zap.Strings("names", m.Unmatched))
	}
	c := categorize.Categorize(m.Questions, p.params.Categorize)
	for _, bk := range categorize.Order {
		log.Debug("bucket", zap.String("bucket", string(bk)), zap.Int("count", c.Count(bk)))
	}

	res.Bank = b
	res.Matching = &m
	res.Categories = &c
	res.Generated = bank.Generate(b.BaseCategory, c.Sections())
	return nil
}

func (p *Pipeline) checkSize(name string, data []byte) error {
	if int64(len(data)) > p.params.MaxInputBytes {
		return fmt.Errorf("%s: %d bytes exceeds %d: %w", name, len(data), p.params.MaxInputBytes, ErrInputTooLarge)
	}
	return nil
}
