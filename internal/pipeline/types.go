// Package pipeline runs one analytics export, and optionally one bank file,
// through parsing, deduplication, matching, categorization and scoring.
package pipeline

import (
	"errors"
	"time"

	"github.com/abhisek/banksort/internal/analytics"
	"github.com/abhisek/banksort/internal/balance"
	"github.com/abhisek/banksort/internal/bank"
	"github.com/abhisek/banksort/internal/categorize"
	"github.com/abhisek/banksort/internal/identity"
	"github.com/abhisek/banksort/internal/matching"
	"github.com/abhisek/banksort/internal/stats"
)

// DefaultMaxInputBytes bounds each input artifact.
const DefaultMaxInputBytes = 32 << 20

// ErrInputTooLarge is returned when an artifact exceeds Params.MaxInputBytes.
var ErrInputTooLarge = errors.New("pipeline: input too large")

// Params are the effective settings of a run. They are part of the cache
// key, so two runs over the same bytes with different thresholds do not
// share a result.
type Params struct {
	Categorize    categorize.Config `json:"categorize"`
	Matching      matching.Config   `json:"matching"`
	Targets       balance.Targets   `json:"targets"`
	Balance       balance.Config    `json:"balance"`
	MaxInputBytes int64             `json:"-"`
}

// DefaultParams returns the standard settings.
func DefaultParams() Params {
	return Params{
		Categorize:    categorize.DefaultConfig(),
		Matching:      matching.DefaultConfig(),
		Targets:       balance.DefaultTargets(),
		Balance:       balance.DefaultConfig(),
		MaxInputBytes: DefaultMaxInputBytes,
	}
}

// Input is the artifacts of one run. The bank is optional.
type Input struct {
	ExportName string
	Export     []byte
	BankName   string
	Bank       []byte
}

// HasBank reports whether a bank file was supplied.
func (in Input) HasBank() bool { return in.BankName != "" || len(in.Bank) > 0 }

// Result is everything a run produces.
type Result struct {
	RunID       string    `json:"run_id"`
	Fingerprint string    `json:"fingerprint"`
	CreatedAt   time.Time `json:"created_at"`
	ExportName  string    `json:"export_name"`
	BankName    string    `json:"bank_name,omitempty"`

	Format    analytics.Format     `json:"format"`
	Questions []analytics.Question `json:"questions"`
	Groups    []identity.Group     `json:"groups"`
	Summary   stats.Summary        `json:"summary"`
	Balance   balance.Result       `json:"balance"`

	Bank       *bank.Bank         `json:"bank,omitempty"`
	Matching   *matching.Result   `json:"matching,omitempty"`
	Categories *categorize.Result `json:"categories,omitempty"`
	// Generated is the regenerated bank text.
	Generated string `json:"generated,omitempty"`
}
