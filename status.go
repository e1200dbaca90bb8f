package main

import (
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"upgrade_diff/internal/upgrade"
)

// statusPrinter writes one colored status line per outcome, and the patch itself when printPatches is set.
type statusPrinter struct {
	out          io.Writer
	highlighter  *SyntaxHighlighter
	printPatches bool
	quiet        bool
}

func newStatusPrinter(out io.Writer, printPatches, quiet bool) *statusPrinter {
	return &statusPrinter{
		out:          out,
		highlighter:  NewSyntaxHighlighter(),
		printPatches: printPatches,
		quiet:        quiet,
	}
}

// Report implements upgrade.Reporter.
func (p *statusPrinter) Report(o upgrade.Outcome) {
	if p.quiet && o.Kind != upgrade.OutcomeFailed {
		return
	}
	fmt.Fprintln(p.out, outcomeStyle(o.Kind).Render(o.String()))
	if p.printPatches && o.Kind == upgrade.OutcomeWritten {
		fmt.Fprint(p.out, p.highlighter.RenderPatch(o.Patch, o.Entry.Working))
	}
}

// Summary writes the closing line of a run.
func (p *statusPrinter) Summary(s upgrade.Summary) {
	fmt.Fprintln(p.out, summaryStyle.Render(formatSummary(s)))
}

func formatSummary(s upgrade.Summary) string {
	parts := []string{
		plural(s.Entries, "entry", "entries"),
		fmt.Sprintf("%d new", s.New),
		fmt.Sprintf("%d unchanged", s.Unchanged),
		plural(s.Written, "patch", "patches") + " written",
	}
	if s.Failed > 0 {
		parts = append(parts, fmt.Sprintf("%d failed", s.Failed))
	}
	return fmt.Sprintf("%s (+%d -%d)", strings.Join(parts, ", "), s.Added, s.Removed)
}

func outcomeStyle(kind upgrade.OutcomeKind) lipgloss.Style {
	switch kind {
	case upgrade.OutcomeNew:
		return newFileStyle
	case upgrade.OutcomeWritten:
		return writtenStyle
	case upgrade.OutcomeFailed:
		return failedStyle
	default:
		return unchangedStyle
	}
}
