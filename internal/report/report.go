// Package report renders pipeline results for the terminal.
package report

import (
	"fmt"
	"io"
	"sort"
	"strings"

	"charm.land/lipgloss/v2"

	"github.com/abhisek/banksort/internal/balance"
	"github.com/abhisek/banksort/internal/categorize"
	"github.com/abhisek/banksort/internal/identity"
	"github.com/abhisek/banksort/internal/matching"
	"github.com/abhisek/banksort/internal/stats"
	"github.com/abhisek/banksort/internal/store"
)

// Printer writes styled sections to w.
type Printer struct {
	w  io.Writer
	th theme
}

// New returns a Printer. With color false the output is plain text.
func New(w io.Writer, color bool) *Printer {
	return &Printer{w: w, th: newTheme(color)}
}

func (p *Printer) println(a ...any) {
	fmt.Fprintln(p.w, a...)
}

func (p *Printer) printf(format string, a ...any) {
	fmt.Fprintf(p.w, format, a...)
}

func (p *Printer) field(name string, value any) {
	p.printf("  %s %s\n", p.th.label.Render(name+":"), p.th.value.Render(fmt.Sprint(value)))
}

func (p *Printer) section(title string) {
	p.println()
	p.println(p.th.title.Render(title))
}

// Summary prints the descriptive statistics of an export.
func (p *Printer) Summary(s stats.Summary) {
	p.section("Summary")
	p.field("questions", s.Total)
	if s.Total == 0 {
		p.field("balance", s.Balance)
		return
	}
	p.field("easy", fmt.Sprintf("%d (%.1f%%)", s.Easy, s.EasyPercent))
	p.field("medium", fmt.Sprintf("%d (%.1f%%)", s.Medium, s.MediumPercent))
	p.field("hard", fmt.Sprintf("%d (%.1f%%)", s.Hard, s.HardPercent))
	p.field("mean difficulty", fmt.Sprintf("%.2f", s.MeanDifficulty))
	p.field("mean discrimination", fmt.Sprintf("%.2f", s.MeanDiscrimination))
	p.field("balance", p.balanceStyle(s.Balance).Render(s.Balance))

	if len(s.Types) > 0 {
		names := make([]string, 0, len(s.Types))
		for name := range s.Types {
			names = append(names, name)
		}
		sort.Strings(names)
		p.println(p.th.heading.Render("  Types"))
		for _, name := range names {
			label := name
			if label == "" {
				label = "(none)"
			}
			p.printf("    %-24s %d\n", label, s.Types[name])
		}
	}

	if len(s.LowDiscrimination) > 0 {
		p.println(p.th.heading.Render(fmt.Sprintf("  Low discrimination (%d)", len(s.LowDiscrimination))))
		for _, f := range s.LowDiscrimination {
			p.printf("    %-12s %6.2f  %s\n", f.DisplayID, f.Discrimination, p.th.hint.Render(f.Title))
		}
	}
	if len(s.LowAttempts) > 0 {
		p.println(p.th.heading.Render(fmt.Sprintf("  Low attempts (%d)", len(s.LowAttempts))))
		for _, f := range s.LowAttempts {
			p.printf("    %-12s %d\n", f.DisplayID, f.Attempts)
		}
	}
}

func (p *Printer) balanceStyle(label string) lipgloss.Style {
	switch label {
	case stats.BalanceBalanced, balance.LabelExcellent, balance.LabelGood:
		return p.th.good
	case balance.LabelNeedsRework:
		return p.th.bad
	default:
		return p.th.warn
	}
}

// Duplicates prints the merged duplicate groups.
func (p *Printer) Duplicates(groups []identity.Group) {
	p.section(fmt.Sprintf("Duplicates (%d)", len(groups)))
	if len(groups) == 0 {
		p.println(p.th.hint.Render("  none"))
		return
	}
	for _, g := range groups {
		p.printf("  %s\n", strings.Join(g.IDs, ", "))
	}
}

// Matching prints the matching report.
func (p *Printer) Matching(m *matching.Result) {
	matched := len(m.Questions) - len(m.Unmatched)
	p.section(fmt.Sprintf("Matching (%d/%d)", matched, len(m.Questions)))
	p.println("  " + p.th.label.Render(fmt.Sprintf("%-16s %-16s %s", "bank", "analytics", "shared with")))
	for _, r := range m.Report {
		id := fmt.Sprintf("%-16s", r.AnalyticsID)
		if r.AnalyticsID == matching.NotFound {
			id = p.th.bad.Render(id)
		}
		p.printf("  %-16s %s %s\n", r.BankID, id, r.SharedWith)
	}
	if len(m.Unmatched) > 0 {
		p.field("unmatched", strings.Join(m.Unmatched, ", "))
	}
}

// Categories prints every bucket with its questions and revision reasons.
func (p *Printer) Categories(c *categorize.Result) {
	p.section("Categories")
	p.field("attempts floor", fmt.Sprintf("%.1f", c.AttemptsFloor))
	for _, b := range categorize.Order {
		items := c.Buckets[b]
		p.println(p.th.heading.Render(fmt.Sprintf("  %s (%d)", b.Title(), len(items))))
		for _, it := range items {
			line := fmt.Sprintf("    %-16s %6.2f  %5.2f  %s", it.Bank.Label(), it.Difficulty, it.Discrimination, it.Type)
			if len(it.Reasons) > 0 {
				reasons := make([]string, len(it.Reasons))
				for i, r := range it.Reasons {
					reasons[i] = string(r)
				}
				line += "  " + p.th.warn.Render(strings.Join(reasons, ", "))
			}
			if !it.IsMatched() {
				line += "  " + p.th.hint.Render(matching.NotFound)
			}
			p.println(line)
		}
	}
}

// Balance prints the KBTB coefficient and its components.
func (p *Printer) Balance(r balance.Result) {
	p.section("Balance")
	p.println(p.th.card.Render(fmt.Sprintf("KBTB %.3f  %s", r.KBTB, p.balanceStyle(r.Label).Render(r.Label))))
	if r.Breakdown.N == 0 {
		return
	}
	p.field("type deviation", fmt.Sprintf("%.3f", r.DType))
	p.field("level deviation", fmt.Sprintf("%.3f", r.DLevel))
	p.field("rework penalty", fmt.Sprintf("%.3f", r.PRework))
	p.field("count penalty", fmt.Sprintf("%.3f", r.PCount))
	p.field("rework", fmt.Sprintf("%d of %d", r.Breakdown.Rework, r.Breakdown.N))

	p.println("  " + p.th.label.Render(fmt.Sprintf("%-8s %8s %8s", "", "actual", "target")))
	rows := []struct {
		name           string
		actual, target float64
	}{
		{"open", r.Actual.Open, r.Target.Open},
		{"closed", r.Actual.Closed, r.Target.Closed},
		{"easy", r.Actual.Easy, r.Target.Easy},
		{"medium", r.Actual.Medium, r.Target.Medium},
		{"hard", r.Actual.Hard, r.Target.Hard},
	}
	for _, row := range rows {
		p.printf("  %-8s %7.1f%% %7.1f%%\n", row.name, row.actual*100, row.target*100)
	}
}

// Runs lists stored runs.
func (p *Printer) Runs(runs []store.RunRecord) {
	p.section(fmt.Sprintf("Runs (%d)", len(runs)))
	for _, r := range runs {
		name := r.ExportName
		if r.BankName != "" {
			name += " + " + r.BankName
		}
		p.printf("  %s  %s  %3d questions  KBTB %.3f  %s\n",
			r.CreatedAt.Local().Format("2006-01-02 15:04"), r.ID[:min(8, len(r.ID))], r.Questions, r.KBTB, name)
	}
}
