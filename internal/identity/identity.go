// Package identity collapses analytics questions that are the same question
// appearing at several positions, e.g. when a random pool draws one item into
// more than one slot.
package identity

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/abhisek/banksort/internal/analytics"
	"github.com/abhisek/banksort/internal/qtype"
	"github.com/abhisek/banksort/internal/textnorm"
)

// Group is a set of sub-item ids sharing one signature. IDs[0] is the
// representative kept in the deduplicated list.
type Group struct {
	Signature string   `json:"signature"`
	IDs       []string `json:"ids"`
}

// NormalizeMetric canonicalizes one metric cell so that "84,21%", "84.21"
// and " 84.21 " compare equal. Non-numeric values are lower-cased.
func NormalizeMetric(v string) string {
	s := strings.TrimSpace(textnorm.Fold(v))
	s = strings.ReplaceAll(s, ",", ".")
	s = strings.ReplaceAll(s, "%", "")
	if f, err := strconv.ParseFloat(strings.TrimSpace(s), 64); err == nil {
		return strconv.FormatFloat(f, 'f', 2, 64)
	}
	return strings.ToLower(s)
}

// Signature is the identity key of q: its normalized title followed by the
// type and the nine statistics fields.
func Signature(q analytics.Question) string {
	typ := strings.TrimSpace(q.Type)
	if qtype.IsRandom(typ) {
		typ = ""
	}
	parts := []string{
		textnorm.Normalize(q.Title),
		typ,
		NormalizeMetric(strconv.Itoa(q.Attempts)),
		NormalizeMetric(q.Difficulty),
		NormalizeMetric(q.StdDev),
		NormalizeMetric(q.GuessProb),
		NormalizeMetric(q.Weight),
		NormalizeMetric(q.EffectiveWeight),
		NormalizeMetric(q.Discrimination),
		NormalizeMetric(q.Efficiency),
	}
	return strings.Join(parts, "|")
}

// Deduplicate keeps the first sub-item of every signature group and drops
// the rest, recording their ids on the representative. Structural rows pass
// through untouched and the relative order of survivors is preserved.
//
// Only groups with more than one member are returned. Running Deduplicate
// on its own output is a no-op.
func Deduplicate(qs []analytics.Question) ([]analytics.Question, []Group) {
	out := make([]analytics.Question, 0, len(qs))
	pos := make(map[string]int)
	var order []string
	for _, q := range qs {
		if q.IsMainQuestion {
			out = append(out, q)
			continue
		}
		sig := Signature(q)
		if i, seen := pos[sig]; seen {
			rep := &out[i]
			rep.DuplicateIDs = append(rep.DuplicateIDs, q.ID)
			rep.DuplicateIDs = append(rep.DuplicateIDs, q.DuplicateIDs...)
			continue
		}
		q.DuplicateIDs = append([]string(nil), q.DuplicateIDs...)
		pos[sig] = len(out)
		order = append(order, sig)
		out = append(out, q)
	}

	var groups []Group
	for _, sig := range order {
		rep := &out[pos[sig]]
		rep.DisplayID = displayID(rep.ID, rep.DuplicateIDs)
		if len(rep.DuplicateIDs) > 0 {
			ids := append([]string{rep.ID}, rep.DuplicateIDs...)
			groups = append(groups, Group{Signature: sig, IDs: ids})
		}
	}
	return out, groups
}

func displayID(id string, dups []string) string {
	if len(dups) == 0 {
		return id
	}
	return fmt.Sprintf("%s (%s)", id, strings.Join(dups, ", "))
}
