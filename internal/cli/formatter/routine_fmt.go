package formatter

import (
	"fmt"
	"strings"

	"github.com/ebrandel/tempo/internal/contract"
	"github.com/ebrandel/tempo/internal/domain"
)

// FormatRoutine renders a routine as a timeline, one block per line.
func FormatRoutine(r *domain.DailyRoutine) string {
	var b strings.Builder

	b.WriteString(fmt.Sprintf("%s  %s\n", Bold(r.Date.Format("Monday, Jan 2")), RoutineStatusPill(r.Status)))
	b.WriteString(fmt.Sprintf("  %s  energy %d%%  buffer %s  planned %s\n\n",
		Dim("id "+TruncID(r.ID)),
		r.EnergyPct,
		FormatMinutes(r.BufferMin),
		FormatMinutes(r.TotalPlannedMin),
	))

	for _, block := range r.Blocks {
		b.WriteString("  " + formatBlockLine(block) + "\n")
	}
	return b.String()
}

func formatBlockLine(b domain.Block) string {
	span := Dim(ClockRange(b.Start, b.DurationMin))
	title := b.Title
	if b.Skipped {
		return fmt.Sprintf("%s  %s %s", span, StyleDim.Strikethrough(true).Render(title), Dim("(skipped)"))
	}

	var marker string
	switch b.Kind {
	case domain.BlockFixedEvent:
		marker = StylePurple.Render("◆")
		title = StylePurple.Render(title)
	case domain.BlockTask:
		marker = StyleBlue.Render("▪")
	case domain.BlockBuffer:
		marker = StyleDim.Render("·")
		title = Dim(title)
	default:
		marker = StyleGreen.Render("○")
	}

	line := fmt.Sprintf("%s %s  %s %s", span, marker, title, Dim(FormatMinutes(b.DurationMin)))
	if b.Optional {
		line += " " + Dim("(optional)")
	}
	if b.EstimateFlag != nil && !b.EstimateFlag.Applied {
		line += " " + StyleYellow.Render(fmt.Sprintf("⚠ ~%s?", FormatMinutes(b.EstimateFlag.SuggestedMin)))
	}
	return line
}

// FormatPlanResponse renders the full planning outcome: the routine plus
// warnings and whatever could not be scheduled.
func FormatPlanResponse(resp *contract.PlanDayResponse) string {
	var b strings.Builder
	b.WriteString(FormatRoutine(&resp.Routine))

	if len(resp.Unscheduled) > 0 {
		b.WriteString("\n" + Header("did not fit") + "\n")
		for _, u := range resp.Unscheduled {
			b.WriteString(fmt.Sprintf("  %s %s  %s\n", StyleRed.Render("✗"), u.Title, Dim(u.Reason)))
		}
	}
	for _, w := range resp.Warnings {
		b.WriteString("\n" + StyleYellow.Render("! "+w))
	}
	if len(resp.Warnings) > 0 {
		b.WriteString("\n")
	}
	return b.String()
}

// FormatTradeOffs renders the option list offered after an overrun.
func FormatTradeOffs(delayMin int, options []domain.TradeOffOption) string {
	var b strings.Builder
	b.WriteString(fmt.Sprintf("%s the day is %s behind\n\n",
		StyleRed.Render("▲"), Bold(FormatMinutes(delayMin))))

	for i, opt := range options {
		var desc string
		switch opt.Action {
		case domain.TradeOffSkipStep:
			desc = fmt.Sprintf("skip %s", Bold(opt.StepTitle))
		case domain.TradeOffReduceStep:
			desc = fmt.Sprintf("shorten %s by %s", Bold(opt.StepTitle), FormatMinutes(opt.SavedMin))
		case domain.TradeOffAcceptDelay:
			desc = fmt.Sprintf("accept the %s delay", FormatMinutes(delayMin))
		}
		saved := ""
		if opt.SavedMin > 0 {
			saved = Dim(fmt.Sprintf("  recovers %s", FormatMinutes(opt.SavedMin)))
		}
		b.WriteString(fmt.Sprintf("  %d. %s%s\n", i+1, desc, saved))
	}
	return b.String()
}
