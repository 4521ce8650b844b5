package formatter

import (
	"fmt"
	"strings"

	"github.com/ebrandel/tempo/internal/domain"
	"github.com/ebrandel/tempo/internal/scheduler"
)

// FormatScores renders the priority ranking as a table, highest first.
// Items must already be ordered; titles come from the lookup map.
func FormatScores(scores []scheduler.PriorityScore, titles map[string]string, explain bool) string {
	headers := []string{"RANK", "SCORE", "ITEM", "U", "I", "S", "T"}
	rows := make([][]string, 0, len(scores))
	for _, s := range scores {
		title := titles[s.WorkItemID]
		if title == "" {
			title = TruncID(s.WorkItemID)
		}
		rows = append(rows, []string{
			rankCell(s.Rank),
			fmt.Sprintf("%.2f", s.Composite),
			title,
			fmt.Sprintf("%.2f", s.Sub.Urgency),
			fmt.Sprintf("%.2f", s.Sub.Importance),
			fmt.Sprintf("%.2f", s.Sub.Staleness),
			fmt.Sprintf("%.2f", s.Sub.Type),
		})
	}

	out := RenderTable(headers, rows)
	if !explain {
		return out
	}

	var b strings.Builder
	b.WriteString(out)
	for _, s := range scores {
		if len(s.Reasons) == 0 {
			continue
		}
		title := titles[s.WorkItemID]
		if title == "" {
			title = TruncID(s.WorkItemID)
		}
		b.WriteString("\n" + Bold(title) + "\n")
		for _, r := range s.Reasons {
			b.WriteString(fmt.Sprintf("  %s %s\n", Dim("·"), r.Message))
		}
	}
	return b.String()
}

func rankCell(rank int) string {
	cell := fmt.Sprintf("%d", rank)
	switch {
	case rank <= 2:
		return StyleRed.Render(cell)
	case rank <= 5:
		return StyleYellow.Render(cell)
	default:
		return StyleDim.Render(cell)
	}
}

// FormatPattern renders one learned estimation pattern.
func FormatPattern(p *domain.EstimationPattern) string {
	tendency := string(p.Tendency)
	switch p.Tendency {
	case domain.TendencyUnderestimates:
		tendency = StyleYellow.Render(tendency)
	case domain.TendencyOverestimates:
		tendency = StyleBlue.Render(tendency)
	default:
		tendency = StyleGreen.Render(tendency)
	}
	return fmt.Sprintf("%s  %s  %d samples, actual ~%s (confidence %.0f%%)",
		Bold(p.Category),
		tendency,
		p.SampleCount,
		FormatMinutes(int(p.MeanActualMin)),
		p.Confidence*100,
	)
}
