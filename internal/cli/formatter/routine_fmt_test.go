package formatter

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/ebrandel/tempo/internal/contract"
	"github.com/ebrandel/tempo/internal/domain"
	"github.com/ebrandel/tempo/internal/scheduler"
)

func sampleRoutine() *domain.DailyRoutine {
	day := time.Date(2026, 4, 2, 0, 0, 0, 0, time.UTC)
	return &domain.DailyRoutine{
		ID:              "r-123456789",
		Date:            day,
		Status:          domain.RoutineRunning,
		EnergyPct:       85,
		BufferMin:       30,
		TotalPlannedMin: 95,
		Blocks: []domain.Block{
			{Kind: domain.BlockMorningStep, Title: "stretch", Start: day.Add(7 * time.Hour), DurationMin: 20},
			{Kind: domain.BlockMorningStep, Title: "journal", Start: day.Add(7*time.Hour + 20*time.Minute), DurationMin: 10, Optional: true, Skipped: true},
			{Kind: domain.BlockFixedEvent, Title: "standup", Start: day.Add(11 * time.Hour), DurationMin: 30},
			{
				Kind: domain.BlockTask, Title: "write report",
				Start: day.Add(8 * time.Hour), DurationMin: 45,
				EstimateFlag: &domain.EstimateFlag{SuggestedMin: 60, Confidence: 0.8},
			},
		},
	}
}

func TestFormatRoutine_TimelineContents(t *testing.T) {
	out := FormatRoutine(sampleRoutine())

	assert.Contains(t, out, "Thursday, Apr 2")
	assert.Contains(t, out, "RUNNING")
	assert.Contains(t, out, "energy 85%")
	assert.Contains(t, out, "07:00-07:20")
	assert.Contains(t, out, "stretch")
	assert.Contains(t, out, "standup")
	assert.Contains(t, out, "(skipped)")
	assert.Contains(t, out, "~1h?")
	assert.Contains(t, out, "1h35m")
}

func TestFormatPlanResponse_UnscheduledAndWarnings(t *testing.T) {
	resp := &contract.PlanDayResponse{
		Routine: *sampleRoutine(),
		Unscheduled: []scheduler.UnscheduledTask{
			{WorkItemID: "wi-1", Title: "deep cleaning", Reason: "no slot large enough before day end"},
		},
		Warnings: []string{"wellness service unavailable, using baseline energy"},
	}

	out := FormatPlanResponse(resp)
	assert.Contains(t, out, "DID NOT FIT")
	assert.Contains(t, out, "deep cleaning")
	assert.Contains(t, out, "no slot large enough")
	assert.Contains(t, out, "wellness service unavailable")
}

func TestFormatTradeOffs(t *testing.T) {
	options := []domain.TradeOffOption{
		{ID: "opt-1", Action: domain.TradeOffSkipStep, StepTitle: "journal", SavedMin: 10},
		{ID: "opt-2", Action: domain.TradeOffReduceStep, StepTitle: "stretch", SavedMin: 12},
		{ID: "opt-3", Action: domain.TradeOffAcceptDelay},
	}

	out := FormatTradeOffs(12, options)
	assert.Contains(t, out, "12m behind")
	assert.Contains(t, out, "1. skip")
	assert.Contains(t, out, "journal")
	assert.Contains(t, out, "2. shorten")
	assert.Contains(t, out, "3. accept the 12m delay")
	assert.Contains(t, out, "recovers 10m")
}

func TestFormatScores_ExplainListsReasons(t *testing.T) {
	scores := []scheduler.PriorityScore{
		{
			WorkItemID: "wi-1",
			Composite:  0.82,
			Rank:       1,
			Sub:        scheduler.SubScores{Urgency: 1.0, Importance: 0.8, Staleness: 0.2, Type: 0.9},
			Reasons: []scheduler.ScoreReason{
				{Code: scheduler.ReasonDueToday, Message: "due today"},
			},
		},
	}
	titles := map[string]string{"wi-1": "tax filing"}

	out := FormatScores(scores, titles, true)
	assert.Contains(t, out, "tax filing")
	assert.Contains(t, out, "0.82")
	assert.Contains(t, out, "due today")

	plain := FormatScores(scores, titles, false)
	assert.NotContains(t, plain, "due today")
}
