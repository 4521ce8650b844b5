package scheduler

import (
	"fmt"
	"math/rand"
	"testing"
	"time"

	"github.com/ebrandel/tempo/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// randomInput generates a valid build input from a seeded source so failures
// are reproducible.
func randomInput(rng *rand.Rand) BuildInput {
	date := time.Date(2026, 4, 1+rng.Intn(28), 0, 0, 0, 0, time.UTC)

	steps := make([]domain.TemplateStep, 1+rng.Intn(4))
	for i := range steps {
		steps[i] = domain.TemplateStep{
			Name:       fmt.Sprintf("step-%d", i),
			NominalMin: 5 + rng.Intn(40),
			Optional:   rng.Intn(3) == 0,
		}
	}

	// Non-overlapping fixed events laid out left to right.
	var events []domain.FixedEvent
	cursor := at(date, 9, 0)
	for i := 0; i < rng.Intn(4); i++ {
		start := cursor.Add(time.Duration(rng.Intn(90)) * time.Minute)
		end := start.Add(time.Duration(15+rng.Intn(60)) * time.Minute)
		events = append(events, domain.FixedEvent{
			ID:    fmt.Sprintf("ev-%d", i),
			Title: fmt.Sprintf("event %d", i),
			Start: start,
			End:   end,
		})
		cursor = end
	}

	var tasks []domain.WorkItem
	for i := 0; i < rng.Intn(8); i++ {
		task := domain.WorkItem{
			ID:           fmt.Sprintf("wi-%d", i),
			Title:        fmt.Sprintf("task %d", i),
			EstimateMin:  15 + rng.Intn(120),
			ContractType: domain.ContractFlexible,
			CreatedAt:    date.AddDate(0, 0, -rng.Intn(40)),
		}
		if rng.Intn(2) == 0 {
			due := date.AddDate(0, 0, rng.Intn(20)-5)
			task.DueDate = &due
		}
		tasks = append(tasks, task)
	}

	return BuildInput{
		Date:        date,
		Template:    domain.RoutineTemplate{ID: "tpl", Name: "gen", Steps: steps},
		FixedEvents: events,
		Tasks:       tasks,
		Energy:      domain.EnergyContext{EnergyPercentage: 50 + rng.Intn(100)},
		Profile:     domain.DefaultProfile(),
	}
}

// Building twice from identical input yields an identical ordered block list.
func TestBuild_Idempotent(t *testing.T) {
	for seed := int64(0); seed < 50; seed++ {
		in := randomInput(rand.New(rand.NewSource(seed)))

		first, err := Build(in)
		require.NoError(t, err, "seed %d", seed)
		second, err := Build(in)
		require.NoError(t, err, "seed %d", seed)

		assert.Equal(t, first.Routine.Blocks, second.Routine.Blocks, "seed %d", seed)
		assert.Equal(t, first.Unscheduled, second.Unscheduled, "seed %d", seed)
	}
}

func TestBuild_Invariants(t *testing.T) {
	for seed := int64(0); seed < 50; seed++ {
		in := randomInput(rand.New(rand.NewSource(seed)))

		result, err := Build(in)
		require.NoError(t, err, "seed %d", seed)
		r := result.Routine

		// Chronological order and positive durations.
		for i, b := range r.Blocks {
			assert.Positive(t, b.DurationMin, "seed %d block %d", seed, i)
			assert.Equal(t, i, b.OrderIndex, "seed %d", seed)
			if i > 0 {
				assert.False(t, b.Start.Before(r.Blocks[i-1].Start), "seed %d: blocks out of order", seed)
			}
		}

		// Task blocks never overlap anything.
		for i, b := range r.Blocks {
			if b.Kind != domain.BlockTask {
				continue
			}
			for j, other := range r.Blocks {
				if i == j {
					continue
				}
				overlap := b.Start.Before(other.End()) && other.Start.Before(b.End())
				assert.False(t, overlap, "seed %d: task block %q overlaps %q", seed, b.Title, other.Title)
			}
		}

		// Every task is either placed or reported, never lost.
		placed := make(map[string]bool)
		for _, b := range r.Blocks {
			if b.Kind == domain.BlockTask {
				placed[b.WorkItemID] = true
			}
		}
		for _, u := range result.Unscheduled {
			assert.False(t, placed[u.WorkItemID], "seed %d: task both placed and unscheduled", seed)
			placed[u.WorkItemID] = true
		}
		assert.Len(t, placed, len(in.Tasks), "seed %d: task lost", seed)

		// Buffer minutes are never negative.
		assert.GreaterOrEqual(t, r.BufferMin, 0, "seed %d", seed)
	}
}
