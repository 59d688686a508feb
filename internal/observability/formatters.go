// Package observability provides formatted output utilities for verbose CLI mode.
package observability

import (
	"fmt"
	"io"
	"strings"

	"github.com/priya/group-scout/internal/types"
)

const (
	// boxWidth is the default width for formatted output boxes
	boxWidth = 60
	// maxItemsToShow is the default number of items to display in lists
	maxItemsToShow = 5
)

// Printer handles formatted output for verbose mode
type Printer struct {
	out io.Writer
}

// NewPrinter creates a new Printer that writes to the given writer
func NewPrinter(out io.Writer) *Printer {
	return &Printer{out: out}
}

// printBox prints a formatted box with a title and content
//
//nolint:errcheck // writing to stdout; errors are not recoverable
func (p *Printer) printBox(title string, content string) {
	border := strings.Repeat("─", boxWidth-2)
	fmt.Fprintf(p.out, "┌%s┐\n", border)
	fmt.Fprintf(p.out, "│ %-*s │\n", boxWidth-4, title)
	fmt.Fprintf(p.out, "├%s┤\n", border)

	lines := strings.Split(content, "\n")
	for _, line := range lines {
		fmt.Fprintf(p.out, "│ %-*s │\n", boxWidth-4, truncate(line, boxWidth-4))
	}

	fmt.Fprintf(p.out, "└%s┘\n", border)
}

// truncate shortens a line to max runes, never splitting a multibyte character.
func truncate(s string, max int) string {
	runes := []rune(s)
	if len(runes) <= max {
		return s
	}
	return string(runes[:max-3]) + "..."
}

// PrintRunSummary outputs the per-entry outcomes of a pipeline run.
func (p *Printer) PrintRunSummary(report *types.RunReport) {
	if report == nil {
		return
	}

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("Entries:    %d\n", len(report.Entries)))
	sb.WriteString(fmt.Sprintf("Resolved:   %d\n", report.Resolved))
	sb.WriteString(fmt.Sprintf("Unresolved: %d\n", report.Unresolved))
	sb.WriteString(fmt.Sprintf("Failed:     %d\n", report.Failed))

	unresolved := 0
	for _, entry := range report.Entries {
		if entry.Resolution == nil || entry.Resolution.Resolved() {
			continue
		}
		if unresolved == 0 {
			sb.WriteString("\nUnresolved entries:\n")
		}
		unresolved++
		if unresolved > maxItemsToShow {
			continue
		}
		sb.WriteString(fmt.Sprintf("  • %s (%s)\n", entry.Entry.StudentName, entry.Resolution.Reason))
	}
	if unresolved > maxItemsToShow {
		sb.WriteString(fmt.Sprintf("  ... and %d more\n", unresolved-maxItemsToShow))
	}

	p.printBox("RUN SUMMARY", strings.TrimSuffix(sb.String(), "\n"))
}

// PrintTraitVectors outputs one line per scored student.
func (p *Printer) PrintTraitVectors(vectors []types.TraitVector) {
	if len(vectors) == 0 {
		return
	}

	var sb strings.Builder
	for i, tv := range vectors {
		name := truncate(tv.StudentName, 20)
		sb.WriteString(fmt.Sprintf("%-20s tech %5.1f extra %5.1f consc %5.1f\n",
			name,
			tv.Score(types.TraitTechnical),
			tv.Score(types.TraitExtraversion),
			tv.Score(types.TraitConscientiousness)))
		if tv.Archetype != "" {
			sb.WriteString(fmt.Sprintf("%-20s [%s]\n", "", tv.Archetype))
		}
		if i < len(vectors)-1 {
			sb.WriteString("\n")
		}
	}

	p.printBox("TRAIT VECTORS", strings.TrimSuffix(sb.String(), "\n"))
}

// PrintGroupFit outputs the pairwise scores, group score, and any flags.
func (p *Printer) PrintGroupFit(result *types.GroupFitResult) {
	if result == nil || len(result.Pairwise) == 0 {
		return
	}

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("Group score: %.1f\n\n", result.GroupScore))

	count := min(len(result.Pairwise), maxItemsToShow)
	for i := 0; i < count; i++ {
		pair := result.Pairwise[i]
		sb.WriteString(fmt.Sprintf("%.1f  %s + %s\n", pair.Score, pair.Pair.A, pair.Pair.B))
	}
	if len(result.Pairwise) > maxItemsToShow {
		sb.WriteString(fmt.Sprintf("... and %d more pairs\n", len(result.Pairwise)-maxItemsToShow))
	}

	if len(result.Flags) > 0 {
		sb.WriteString("\nFlags:\n")
		for _, flag := range result.Flags {
			sb.WriteString(fmt.Sprintf("  ⚠ %s\n", flag))
		}
	}

	p.printBox("GROUP FIT", strings.TrimSuffix(sb.String(), "\n"))
}
