// Package observability provides formatted output utilities for the CLI.
package observability

import (
	"fmt"
	"io"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/jonathan/cv-fit-analyzer/internal/scoring"
	"github.com/jonathan/cv-fit-analyzer/internal/types"
)

const (
	// boxWidth is the default width for formatted output boxes
	boxWidth = 72
	// maxItemsToShow is the default number of items to display in lists
	maxItemsToShow = 5
	// excerptLength bounds the job description excerpt
	excerptLength = 300
)

// Printer handles formatted output for the analyze command
type Printer struct {
	out io.Writer
}

// NewPrinter creates a new Printer that writes to the given writer
func NewPrinter(out io.Writer) *Printer {
	return &Printer{out: out}
}

// printBox prints a formatted box with a title and word-wrapped content
//
//nolint:errcheck // writing to stdout; errors are not recoverable
func (p *Printer) printBox(title string, content string) {
	inner := boxWidth - 4
	border := strings.Repeat("─", boxWidth-2)
	fmt.Fprintf(p.out, "┌%s┐\n", border)
	fmt.Fprintf(p.out, "│ %s │\n", pad(title, inner))
	fmt.Fprintf(p.out, "├%s┤\n", border)

	for _, line := range strings.Split(content, "\n") {
		for _, wrapped := range wrap(line, inner) {
			fmt.Fprintf(p.out, "│ %s │\n", pad(wrapped, inner))
		}
	}

	fmt.Fprintf(p.out, "└%s┘\n", border)
}

// PrintStep outputs a one-line progress marker.
//
//nolint:errcheck // writing to stdout; errors are not recoverable
func (p *Printer) PrintStep(step, message string, d time.Duration) {
	if d > 0 {
		fmt.Fprintf(p.out, "✓ %-18s %s (%s)\n", step, message, d.Round(time.Millisecond))
		return
	}
	fmt.Fprintf(p.out, "✓ %-18s %s\n", step, message)
}

// PrintJobDescription outputs where the job description came from and an excerpt of it.
func (p *Printer) PrintJobDescription(job *types.JobDescription) {
	if job == nil {
		return
	}

	var sb strings.Builder
	fmt.Fprintf(&sb, "Source:   %s\n", job.Source)
	if job.URL != "" {
		fmt.Fprintf(&sb, "URL:      %s\n", job.URL)
	}
	if job.Platform != "" {
		fmt.Fprintf(&sb, "Platform: %s\n", job.Platform)
	}
	sb.WriteString("\n")
	sb.WriteString(truncate(job.Text, excerptLength))

	p.printBox("JOB DESCRIPTION", sb.String())
}

// PrintBreakdown outputs the components of the deterministic fit score.
func (p *Printer) PrintBreakdown(res scoring.Result) {
	var sb strings.Builder
	fmt.Fprintf(&sb, "Skills:     %5.1f%%  (weight 40%%)\n", res.Skill)
	fmt.Fprintf(&sb, "Experience: %5.1f%%  (weight 30%%, %d of %d years)\n", res.Experience, res.CVYears, res.JobYears)
	fmt.Fprintf(&sb, "Keywords:   %5.1f%%  (weight 30%%)\n", res.Keyword)

	if len(res.MatchedSkills) > 0 {
		fmt.Fprintf(&sb, "\nMatched: %s", listItems(res.MatchedSkills))
	}
	if len(res.MissingSkills) > 0 {
		fmt.Fprintf(&sb, "\nMissing: %s", listItems(res.MissingSkills))
	}

	p.printBox(fmt.Sprintf("FIT SCORE %d%%", res.Score), strings.TrimSuffix(sb.String(), "\n"))
}

// PrintAssessment outputs the model narrative and both scores.
func (p *Printer) PrintAssessment(assessment *types.FitAssessment) {
	if assessment == nil {
		return
	}

	title := fmt.Sprintf("ANALYSIS (fit %d%%", assessment.FitPercentage)
	if assessment.ModelScore != nil {
		title += fmt.Sprintf(", model %d%%", *assessment.ModelScore)
	}
	title += ")"

	p.printBox(title, assessment.Narrative)
}

func listItems(items []string) string {
	if len(items) <= maxItemsToShow {
		return strings.Join(items, ", ")
	}
	return fmt.Sprintf("%s ... and %d more", strings.Join(items[:maxItemsToShow], ", "), len(items)-maxItemsToShow)
}

// wrap splits line into pieces of at most width runes, breaking on spaces where possible.
func wrap(line string, width int) []string {
	if utf8.RuneCountInString(line) <= width {
		return []string{line}
	}

	var lines []string
	var current []rune
	for _, word := range strings.Fields(line) {
		w := []rune(word)
		for len(w) > width {
			if len(current) > 0 {
				lines = append(lines, string(current))
				current = nil
			}
			lines = append(lines, string(w[:width]))
			w = w[width:]
		}
		switch {
		case len(current) == 0:
			current = w
		case len(current)+1+len(w) <= width:
			current = append(append(current, ' '), w...)
		default:
			lines = append(lines, string(current))
			current = w
		}
	}
	if len(current) > 0 {
		lines = append(lines, string(current))
	}
	return lines
}

func pad(s string, width int) string {
	n := utf8.RuneCountInString(s)
	if n >= width {
		return s
	}
	return s + strings.Repeat(" ", width-n)
}

func truncate(s string, limit int) string {
	r := []rune(s)
	if len(r) <= limit {
		return s
	}
	return string(r[:limit-3]) + "..."
}
