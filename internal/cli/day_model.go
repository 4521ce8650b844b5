package cli

import (
	"fmt"
	"time"

	"github.com/charmbracelet/bubbles/progress"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/ebrandel/tempo/internal/cli/formatter"
	"github.com/ebrandel/tempo/internal/domain"
)

const dayRefreshInterval = 30 * time.Second

type dayTickMsg time.Time

type dayRoutineMsg struct {
	routine *domain.DailyRoutine
	err     error
}

// dayModel is the bubbletea model behind "tempo day watch". It re-reads the
// routine on an interval so changes made from another terminal show up.
type dayModel struct {
	app      *App
	routine  *domain.DailyRoutine
	now      time.Time
	err      error
	quitting bool
	prog     progress.Model
}

func newDayModel(app *App) dayModel {
	prog := progress.New(
		progress.WithSolidFill(string(formatter.ColorGreen)),
		progress.WithoutPercentage(),
	)
	return dayModel{app: app, now: time.Now(), prog: prog}
}

func (m dayModel) Init() tea.Cmd {
	return tea.Batch(m.fetchRoutine, dayTick())
}

func (m dayModel) fetchRoutine() tea.Msg {
	routine, err := currentRoutine(m.app)
	return dayRoutineMsg{routine: routine, err: err}
}

func dayTick() tea.Cmd {
	return tea.Tick(dayRefreshInterval, func(t time.Time) tea.Msg {
		return dayTickMsg(t)
	})
}

func (m dayModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c", "esc":
			m.quitting = true
			return m, tea.Quit
		case "r":
			return m, m.fetchRoutine
		}

	case dayTickMsg:
		m.now = time.Time(msg)
		return m, tea.Batch(m.fetchRoutine, dayTick())

	case dayRoutineMsg:
		m.routine = msg.routine
		m.err = msg.err
		return m, nil
	}
	return m, nil
}

func (m dayModel) View() string {
	if m.quitting {
		return ""
	}
	if m.err != nil {
		return formatter.StyleRed.Render("error: "+m.err.Error()) + "\n"
	}
	if m.routine == nil {
		return formatter.Dim("No routine for today. Plan one with 'tempo plan'.") + "\n"
	}

	out := formatter.FormatRoutine(m.routine)
	out += "\n" + m.statusLine() + "\n"
	if bar := m.progressBar(); bar != "" {
		out += bar + "\n"
	}
	out += formatter.Dim("q quit · r refresh") + "\n"
	return out
}

// progressBar renders how much of the planned day is behind the clock.
func (m dayModel) progressBar() string {
	if m.prog.Width == 0 {
		return ""
	}
	totalMin, doneMin := 0, 0
	for _, b := range m.routine.Blocks {
		if b.Skipped {
			continue
		}
		totalMin += b.DurationMin
		elapsed := int(m.now.Sub(b.Start).Minutes())
		if elapsed > b.DurationMin {
			elapsed = b.DurationMin
		}
		if elapsed > 0 {
			doneMin += elapsed
		}
	}
	if totalMin == 0 {
		return ""
	}
	return m.prog.ViewAs(float64(doneMin) / float64(totalMin))
}

// statusLine names the block the clock is inside and how long it has left,
// or the time until the next one.
func (m dayModel) statusLine() string {
	if m.routine.Status.Terminal() {
		return formatter.Dim("The day is over.")
	}

	if b := activeBlock(m.routine, m.now); b != nil {
		left := int(b.End().Sub(m.now).Minutes())
		return fmt.Sprintf("%s %s %s",
			formatter.StyleGreen.Render("▶"),
			formatter.Bold(b.Title),
			formatter.Dim(fmt.Sprintf("%s left", formatter.FormatMinutes(left))))
	}

	if b := nextBlock(m.routine, m.now); b != nil {
		until := int(b.Start.Sub(m.now).Minutes())
		return fmt.Sprintf("%s in %s", formatter.Bold(b.Title), formatter.FormatMinutes(until))
	}
	return formatter.Dim("Nothing left on the plan.")
}

func activeBlock(r *domain.DailyRoutine, now time.Time) *domain.Block {
	for i := range r.Blocks {
		b := &r.Blocks[i]
		if b.Skipped {
			continue
		}
		if !now.Before(b.Start) && now.Before(b.End()) {
			return b
		}
	}
	return nil
}

func nextBlock(r *domain.DailyRoutine, now time.Time) *domain.Block {
	var next *domain.Block
	for i := range r.Blocks {
		b := &r.Blocks[i]
		if b.Skipped || !b.Start.After(now) {
			continue
		}
		if next == nil || b.Start.Before(next.Start) {
			next = b
		}
	}
	return next
}
