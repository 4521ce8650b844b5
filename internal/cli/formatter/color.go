package formatter

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/ebrandel/tempo/internal/domain"
	"github.com/ebrandel/tempo/internal/scheduler"
)

// Gruvbox-inspired color palette.
var (
	ColorGreen  = lipgloss.Color("#8ec07c")
	ColorYellow = lipgloss.Color("#fabd2f")
	ColorRed    = lipgloss.Color("#fb4934")
	ColorBlue   = lipgloss.Color("#83a598")
	ColorPurple = lipgloss.Color("#d3869b")
	ColorDim    = lipgloss.Color("#928374")
	ColorFg     = lipgloss.Color("#ebdbb2")
	ColorHeader = lipgloss.Color("#fe8019")
)

// Predefined lipgloss styles.
var (
	StyleGreen  = lipgloss.NewStyle().Foreground(ColorGreen)
	StyleYellow = lipgloss.NewStyle().Foreground(ColorYellow)
	StyleRed    = lipgloss.NewStyle().Foreground(ColorRed)
	StyleBlue   = lipgloss.NewStyle().Foreground(ColorBlue)
	StylePurple = lipgloss.NewStyle().Foreground(ColorPurple)
	StyleDim    = lipgloss.NewStyle().Foreground(ColorDim)
	StyleFg     = lipgloss.NewStyle().Foreground(ColorFg)
	StyleHeader = lipgloss.NewStyle().Foreground(ColorHeader).Bold(true)
	StyleBold   = lipgloss.NewStyle().Foreground(ColorFg).Bold(true)
)

// RoutineStatusPill returns a colored status indicator for a routine.
func RoutineStatusPill(status domain.RoutineStatus) string {
	switch status {
	case domain.RoutineRunning:
		return StyleGreen.Render("● RUNNING")
	case domain.RoutinePaused:
		return StyleYellow.Render("● PAUSED")
	case domain.RoutineCompleted:
		return StyleBlue.Render("● COMPLETED")
	case domain.RoutineAbandoned:
		return StyleRed.Render("● ABANDONED")
	default:
		return StyleDim.Render("● PENDING")
	}
}

// WorkItemStatusPill returns a colored status indicator for a work item.
func WorkItemStatusPill(status domain.WorkItemStatus) string {
	switch status {
	case domain.WorkItemDone:
		return StyleGreen.Render("done")
	case domain.WorkItemScheduled:
		return StyleBlue.Render("scheduled")
	case domain.WorkItemCancelled:
		return StyleRed.Render("cancelled")
	case domain.WorkItemArchived:
		return StyleDim.Render("archived")
	default:
		return StyleYellow.Render("pending")
	}
}

// VerdictIndicator colors an estimate verdict.
func VerdictIndicator(v scheduler.Verdict) string {
	switch v.Kind {
	case scheduler.VerdictDeviationFlag:
		return StyleYellow.Render(fmt.Sprintf("⚠ history says ~%s", FormatMinutes(v.SuggestedMin)))
	case scheduler.VerdictWithinTolerance:
		return StyleGreen.Render("✓ estimate looks right")
	default:
		return StyleDim.Render("not enough history")
	}
}

// Header renders a section header with the orange header style and an underline.
func Header(text string) string {
	upper := strings.ToUpper(text)
	line := strings.Repeat("─", len(upper))
	return fmt.Sprintf("%s\n%s", StyleHeader.Render(upper), StyleDim.Render(line))
}

// Dim renders text in the muted/dim color.
func Dim(text string) string {
	return StyleDim.Render(text)
}

// Bold renders text in bold with the foreground color.
func Bold(text string) string {
	return StyleBold.Render(text)
}
