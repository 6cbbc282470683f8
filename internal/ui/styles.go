// Package ui centralizes terminal styling for devctl output.
// Even with a single default theme, this keeps all colors in one place
// and makes future theme support trivial.
package ui

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"

	"github.com/acoustix/devctl/internal/history"
)

var (
	styleFailed  = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#FF0000"))
	styleDone    = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#00FF00"))
	styleHeader  = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#61AFEF"))
	styleDim     = lipgloss.NewStyle().Foreground(lipgloss.Color("#888888"))
	styleSkipped = lipgloss.NewStyle().Foreground(lipgloss.Color("#E5C07B"))
)

// DoneMarker is the terminal status line emitted exactly once per invocation,
// on every exit path.
func DoneMarker() string {
	return styleDone.Render("devctl: done")
}

// FailureBanner is the one-line failure report printed before a non-zero exit.
func FailureBanner(pipelineName, stepName string) string {
	return styleFailed.Render(fmt.Sprintf("devctl: pipeline %s failed at step %s", pipelineName, stepName))
}

// RenderHistory formats recent runs as a compact table with per-step detail.
func RenderHistory(runs []history.RunRecord) string {
	if len(runs) == 0 {
		return styleDim.Render("no recorded runs") + "\n"
	}

	var b strings.Builder
	for _, run := range runs {
		header := fmt.Sprintf("%s  %s  %s  (%s)",
			run.Started.Local().Format("2006-01-02 15:04:05"),
			run.Pipeline,
			run.Outcome,
			run.Finished.Sub(run.Started).Round(10*time.Millisecond),
		)
		if run.Outcome == history.OutcomeFailure {
			b.WriteString(styleFailed.Render(header))
		} else {
			b.WriteString(styleHeader.Render(header))
		}
		b.WriteString("\n")

		for _, step := range run.Steps {
			line := fmt.Sprintf("  %-28s %s", step.Name, step.Status)
			if step.Error != "" {
				line += "  " + step.Error
			}
			switch step.Status {
			case "failed":
				b.WriteString(styleFailed.Render(line))
			case "skipped", "not_reached":
				b.WriteString(styleSkipped.Render(line))
			default:
				b.WriteString(styleDim.Render(line))
			}
			b.WriteString("\n")
		}
	}
	return b.String()
}
