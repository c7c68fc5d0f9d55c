package cli

import (
	"fmt"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/matzehuels/asciiwipe/pkg/playback"
	"github.com/matzehuels/asciiwipe/pkg/sequence"
)

var (
	playTextStyle   = lipgloss.NewStyle().Foreground(colorCyan)
	playStatusStyle = lipgloss.NewStyle().Foreground(colorDim)
	playFaultStyle  = lipgloss.NewStyle().Foreground(colorRed)
)

// =============================================================================
// PlayModel - Terminal playback
// =============================================================================

// tickMsg is a refresh tick. Ticks from an older generation are dropped.
type tickMsg struct {
	gen int
	now time.Time
}

// delayDoneMsg ends a phase pause started in generation gen.
type delayDoneMsg struct{ gen int }

// PlayModel is the bubbletea model that walks a program with playback.Step.
// The generation counter plays the role of the scheduler's: pausing bumps it
// so pending ticks and pause timers become no-ops.
type PlayModel struct {
	program sequence.Program
	cfg     playback.Config
	state   playback.State
	period  time.Duration
	gen     int
	text    string
	title   string
	fault   bool
	hold    bool
}

// NewPlayModel creates a model for p. period is the refresh interval; with
// hold set the model keeps showing the last frame after playback stops
// instead of quitting.
func NewPlayModel(p sequence.Program, cfg playback.Config, period time.Duration, title string, hold bool) PlayModel {
	if period <= 0 {
		period = time.Second / playback.DefaultRefreshRate
	}
	return PlayModel{
		program: p,
		cfg:     cfg,
		state:   playback.Initial(cfg.StartPaused),
		period:  period,
		title:   title,
		hold:    hold,
	}
}

func (m PlayModel) Init() tea.Cmd {
	if m.state.Paused {
		return nil
	}
	return m.tick()
}

func (m PlayModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c", "esc":
			return m, tea.Quit
		case " ", "p":
			return m.togglePause()
		}
	case tickMsg:
		if msg.gen != m.gen {
			return m, nil
		}
		return m.step(msg.now)
	case delayDoneMsg:
		if msg.gen != m.gen || !m.state.InDelay {
			return m, nil
		}
		m.state = playback.EndDelay(m.state)
		return m, m.tick()
	}
	return m, nil
}

func (m PlayModel) step(now time.Time) (tea.Model, tea.Cmd) {
	next, effects := playback.Step(m.state, m.cfg, m.program, now)
	m.state = next

	var cmds []tea.Cmd
	for _, e := range effects {
		switch e.Kind {
		case playback.EffectRender:
			m.text = e.Text
		case playback.EffectSchedule:
			cmds = append(cmds, m.tick())
		case playback.EffectDelay:
			gen := m.gen
			cmds = append(cmds, tea.Tick(e.Duration, func(time.Time) tea.Msg { return delayDoneMsg{gen: gen} }))
		case playback.EffectStop:
			if !m.hold {
				cmds = append(cmds, tea.Quit)
			}
		case playback.EffectFault:
			m.fault = true
		}
	}
	return m, tea.Batch(cmds...)
}

func (m PlayModel) togglePause() (tea.Model, tea.Cmd) {
	if m.state.Stopped || m.fault {
		return m, nil
	}
	m.gen++
	if m.state.Paused {
		m.state = playback.Resume(m.state)
		return m, m.tick()
	}
	m.state = playback.Pause(m.state)
	return m, nil
}

func (m PlayModel) tick() tea.Cmd {
	gen := m.gen
	return tea.Tick(m.period, func(t time.Time) tea.Msg { return tickMsg{gen: gen, now: t} })
}

// State returns the current playback state.
func (m PlayModel) State() playback.State { return m.state }

// Text returns the text of the last rendered frame.
func (m PlayModel) Text() string { return m.text }

func (m PlayModel) View() string {
	var b strings.Builder
	b.WriteString(playTextStyle.Render(m.text))
	b.WriteString("\n\n")
	if m.fault {
		b.WriteString(playFaultStyle.Render("no frame at the current position"))
		b.WriteString("\n")
	}
	b.WriteString(playStatusStyle.Render(m.status()))
	b.WriteString("\n")
	return b.String()
}

func (m PlayModel) status() string {
	parts := []string{}
	if m.title != "" {
		parts = append(parts, m.title)
	}
	if n := m.program.Len(); n > 0 {
		parts = append(parts, fmt.Sprintf("entry %d/%d", m.state.AnimationIndex+1, n))
	}
	parts = append(parts, fmt.Sprintf("pass %d", m.state.Iteration))
	switch {
	case m.state.Stopped:
		parts = append(parts, "done")
	case m.state.Paused:
		parts = append(parts, "paused")
	}
	parts = append(parts, "space pause · q quit")
	return strings.Join(parts, " · ")
}
