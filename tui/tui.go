// Package tui renders a running scene as a terminal dashboard.
package tui

import (
	"fmt"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/guptarohit/asciigraph"

	"github.com/MinRegret/brax"
	"github.com/MinRegret/brax/body"
)

const historyCapacity = 240

var (
	headerStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("86")).Bold(true).MarginBottom(1)
	labelStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("245")).Width(10)
	valueStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("252"))
	graphStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("49")).Padding(1, 0)
	alertStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("203")).Bold(true)
	helpStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("240")).MarginTop(1)
)

// TickMsg advances the simulation one frame.
type TickMsg time.Time

// Model steps a System on a frame ticker and plots one body's height.
type Model struct {
	sys     *brax.System
	scene   string
	tracked int

	qp      body.QP
	action  []float64
	step    int
	running bool
	history []float64
	err     error
}

// NewModel tracks the named body, or the first body when the name is
// unknown. The scene starts at its default state with a zero action.
func NewModel(sys *brax.System, scene, tracked string) Model {
	idx, ok := sys.BodyIndex(tracked)
	if !ok {
		idx = 0
	}
	qp := sys.DefaultQP()
	return Model{
		sys:     sys,
		scene:   scene,
		tracked: idx,
		qp:      qp,
		action:  make([]float64, sys.ActionSize()),
		running: true,
		history: []float64{qp.Pos[idx].Z()},
	}
}

func (m Model) Init() tea.Cmd {
	return tick()
}

func tick() tea.Cmd {
	return tea.Tick(time.Second/30, func(t time.Time) tea.Msg { return TickMsg(t) })
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c":
			return m, tea.Quit
		case " ":
			m.running = !m.running
		case "r":
			m.qp = m.sys.DefaultQP()
			m.step = 0
			m.history = []float64{m.qp.Pos[m.tracked].Z()}
			m.err = nil
		}
	case TickMsg:
		if m.running && m.err == nil {
			qp, _, err := m.sys.Step(m.qp, m.action)
			if err != nil {
				m.err = err
			} else {
				m.qp = qp
				m.step++
				m.history = append(m.history, qp.Pos[m.tracked].Z())
				if len(m.history) > historyCapacity {
					m.history = m.history[1:]
				}
			}
		}
		return m, tick()
	}
	return m, nil
}

func (m Model) View() string {
	var b strings.Builder
	b.WriteString(headerStyle.Render("brax " + m.scene))
	b.WriteByte('\n')

	pos := m.qp.Pos[m.tracked]
	rows := []struct{ label, value string }{
		{"body", m.sys.BodyName(m.tracked)},
		{"step", fmt.Sprintf("%d", m.step)},
		{"time", fmt.Sprintf("%.3fs", float64(m.step)*m.sys.Dt())},
		{"pos", fmt.Sprintf("(%.3f, %.3f, %.3f)", pos.X(), pos.Y(), pos.Z())},
	}
	for _, r := range rows {
		b.WriteString(labelStyle.Render(r.label))
		b.WriteString(valueStyle.Render(r.value))
		b.WriteByte('\n')
	}

	if len(m.history) > 1 {
		chart := asciigraph.Plot(m.history,
			asciigraph.Height(8),
			asciigraph.Width(60),
			asciigraph.Caption("height"))
		b.WriteString(graphStyle.Render(chart))
		b.WriteByte('\n')
	}
	switch {
	case m.err != nil:
		b.WriteString(alertStyle.Render("error: " + m.err.Error()))
		b.WriteByte('\n')
	case !m.running:
		b.WriteString(alertStyle.Render("paused"))
		b.WriteByte('\n')
	}
	b.WriteString(helpStyle.Render("space pause  r reset  q quit"))
	return b.String()
}

// Run drives the scene in the terminal until the user quits.
func Run(sys *brax.System, scene, tracked string) error {
	_, err := tea.NewProgram(NewModel(sys, scene, tracked)).Run()
	return err
}
