// Package observability provides formatted output utilities for verbose CLI mode.
package observability

import (
	"fmt"
	"io"
	"strings"

	"github.com/jonathan/talent-allocator/internal/types"
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
		// Truncate long lines
		if len(line) > boxWidth-4 {
			line = line[:boxWidth-7] + "..."
		}
		fmt.Fprintf(p.out, "│ %-*s │\n", boxWidth-4, line)
	}

	fmt.Fprintf(p.out, "└%s┘\n", border)
}

// PrintAssignments outputs a human-readable summary of a role-assignment run.
//
//nolint:errcheck // writing to stdout; errors are not recoverable
func (p *Printer) PrintAssignments(results []types.AssignmentResult) {
	if len(results) == 0 {
		fmt.Fprintf(p.out, "┌%s┐\n", strings.Repeat("─", boxWidth-2))
		fmt.Fprintf(p.out, "│ %-*s │\n", boxWidth-4, "NO ROLES ASSIGNED")
		fmt.Fprintf(p.out, "└%s┘\n", strings.Repeat("─", boxWidth-2))
		return
	}

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("Assigned %d roles:\n\n", len(results)))

	count := min(len(results), maxItemsToShow)
	for i := 0; i < count; i++ {
		r := results[i]
		sb.WriteString(fmt.Sprintf("%s → %s\n", r.RoleName, r.EmployeeName))
		sb.WriteString(fmt.Sprintf("    Score: %.2f (%d evaluations)\n", r.Score, r.Evaluations))
		if i < count-1 {
			sb.WriteString("\n")
		}
	}

	if len(results) > maxItemsToShow {
		sb.WriteString(fmt.Sprintf("\n... and %d more roles", len(results)-maxItemsToShow))
	}

	p.printBox("ROLE ASSIGNMENTS", sb.String())
}

// PrintPathResult outputs the optimized learning path with level contents.
func (p *Printer) PrintPathResult(result *types.PathOptimizationResult) {
	if result == nil {
		return
	}

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("Path:     %s\n", result.PathName))
	sb.WriteString(fmt.Sprintf("Score:    %.2f (%d evaluations)\n", result.Score, result.Evaluations))
	if result.EstimatedHours > 0 {
		sb.WriteString(fmt.Sprintf("Estimate: %.0f hours, %.2f cost\n", result.EstimatedHours, result.EstimatedCost))
	}
	sb.WriteString("\n")

	for _, level := range result.Levels {
		sb.WriteString(fmt.Sprintf("%s (%d certificates)\n", level.Name, len(level.CertificateIDs)))
		count := min(len(level.CertificateIDs), 3)
		for i := 0; i < count; i++ {
			sb.WriteString(fmt.Sprintf("  • %s\n", level.CertificateIDs[i]))
		}
		if len(level.CertificateIDs) > 3 {
			sb.WriteString(fmt.Sprintf("  ... and %d more\n", len(level.CertificateIDs)-3))
		}
	}

	p.printBox("OPTIMIZED LEARNING PATH", strings.TrimSuffix(sb.String(), "\n"))
}

// PrintRankings outputs the top consensus certificate rankings.
func (p *Printer) PrintRankings(rankings []types.CertificateRanking) {
	if len(rankings) == 0 {
		return
	}

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("Total certificates ranked: %d\n\n", len(rankings)))

	count := min(len(rankings), maxItemsToShow)
	for i := 0; i < count; i++ {
		r := rankings[i]
		sb.WriteString(fmt.Sprintf("#%d  %s\n", i+1, r.Certificate.CourseName))
		sb.WriteString(fmt.Sprintf("    Score: %.2f  Level: %d  Difficulty: %.1f\n",
			r.Score, r.SuggestedLevel, r.Difficulty))
		if i < count-1 {
			sb.WriteString("\n")
		}
	}

	if len(rankings) > maxItemsToShow {
		sb.WriteString(fmt.Sprintf("\n... and %d more certificates", len(rankings)-maxItemsToShow))
	}

	p.printBox("TOP RANKED CERTIFICATES", sb.String())
}
