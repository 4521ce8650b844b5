package execution

import (
	"fmt"
	"time"

	"github.com/ebrandel/tempo/internal/domain"
	"github.com/google/uuid"
)

// minReducedBlockMin is the floor a reduce option leaves on a shortened step.
const minReducedBlockMin = 5

// reduceEligibleMin is the duration above which a step offers a reduce option.
const reduceEligibleMin = 10

// generateOptions builds the ordered trade-off list for a delay: skip options
// for remaining optional steps that absorb it fully, reduce options for longer
// steps, and always the accept-delay fallback so the operation never dead-ends.
func generateOptions(routine *domain.DailyRoutine, delayMin int, now time.Time) []domain.TradeOffOption {
	var options []domain.TradeOffOption

	for _, b := range remainingAdjustable(routine, now) {
		if b.Optional && b.DurationMin >= delayMin {
			options = append(options, domain.TradeOffOption{
				ID:        uuid.New().String(),
				Action:    domain.TradeOffSkipStep,
				BlockID:   b.ID,
				StepTitle: b.Title,
				SavedMin:  b.DurationMin,
			})
		}
	}

	for _, b := range remainingAdjustable(routine, now) {
		if b.DurationMin <= reduceEligibleMin {
			continue
		}
		saved := delayMin
		if limit := b.DurationMin - minReducedBlockMin; saved > limit {
			saved = limit
		}
		if saved <= 0 {
			continue
		}
		options = append(options, domain.TradeOffOption{
			ID:        uuid.New().String(),
			Action:    domain.TradeOffReduceStep,
			BlockID:   b.ID,
			StepTitle: b.Title,
			SavedMin:  saved,
		})
	}

	options = append(options, domain.TradeOffOption{
		ID:        uuid.New().String(),
		Action:    domain.TradeOffAcceptDelay,
		StepTitle: fmt.Sprintf("accept %d-minute delay", delayMin),
		SavedMin:  0,
	})
	return options
}

// remainingAdjustable lists blocks that have not finished yet and are not
// immovable fixed events, in chronological order.
func remainingAdjustable(routine *domain.DailyRoutine, now time.Time) []domain.Block {
	var out []domain.Block
	for _, b := range routine.Blocks {
		if b.Kind == domain.BlockFixedEvent || b.Skipped {
			continue
		}
		if b.End().Before(now) {
			continue
		}
		out = append(out, b)
	}
	return out
}

// applyOption mutates the routine per the chosen option. Accepting the delay
// leaves the blocks untouched; the recorded interruption carries the slip.
func applyOption(routine *domain.DailyRoutine, opt domain.TradeOffOption) {
	switch opt.Action {
	case domain.TradeOffSkipStep:
		if b := routine.BlockByID(opt.BlockID); b != nil {
			b.Skipped = true
			routine.TotalPlannedMin -= b.DurationMin
		}
	case domain.TradeOffReduceStep:
		if b := routine.BlockByID(opt.BlockID); b != nil {
			b.DurationMin -= opt.SavedMin
			if b.DurationMin < minReducedBlockMin {
				b.DurationMin = minReducedBlockMin
			}
			routine.TotalPlannedMin -= opt.SavedMin
		}
	case domain.TradeOffAcceptDelay:
		// Nothing to adjust.
	}
	if routine.TotalPlannedMin < 0 {
		routine.TotalPlannedMin = 0
	}
}
