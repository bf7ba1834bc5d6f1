// Package viz is the live terminal operator console. It owns presentation
// concerns only: bounded history retention, plotting and key handling.
// The simulation core never depends on it.
package viz

import (
	"fmt"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/guptarohit/asciigraph"

	"github.com/Tex6298/levimage-sim/internal/levi"
	"github.com/Tex6298/levimage-sim/internal/sim"
)

const (
	graphWidth      = 70
	graphHeight     = 8
	historyCapacity = 600
)

var (
	headerStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("86")).Bold(true).MarginBottom(1)
	labelStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("245")).Width(14)
	valueStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("252"))
	graphStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("49")).Padding(1, 0)
	helpStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("240")).MarginTop(1)

	modeStyles = map[levi.Mode]lipgloss.Style{
		levi.ModeIdle:   lipgloss.NewStyle().Foreground(lipgloss.Color("245")).Bold(true),
		levi.ModeSpinup: lipgloss.NewStyle().Foreground(lipgloss.Color("220")).Bold(true),
		levi.ModeHold:   lipgloss.NewStyle().Foreground(lipgloss.Color("82")).Bold(true),
		levi.ModeBrake:  lipgloss.NewStyle().Foreground(lipgloss.Color("208")).Bold(true),
		levi.ModeFault:  lipgloss.NewStyle().Foreground(lipgloss.Color("196")).Bold(true).Blink(true),
	}
)

type TickMsg time.Time

// Model drives the simulator at a fixed frame rate and renders rpm and
// coil temperature strips plus a stats panel.
type Model struct {
	drv           *sim.Simulator
	frameRate     int
	ticksPerFrame int
	paused        bool
	interlockOpen bool

	last    levi.Telemetry
	rpmHist []float64
	tmpHist []float64
}

// NewModel wraps a configured simulator for live viewing.
func NewModel(drv *sim.Simulator, frameRate int) Model {
	if frameRate <= 0 {
		frameRate = 30
	}
	ticks := int(1.0 / (float64(frameRate) * drv.Params().Dt))
	if ticks < 1 {
		ticks = 1
	}
	return Model{
		drv:           drv,
		frameRate:     frameRate,
		ticksPerFrame: ticks,
		rpmHist:       make([]float64, 0, historyCapacity),
		tmpHist:       make([]float64, 0, historyCapacity),
	}
}

func (m Model) Init() tea.Cmd {
	return m.tick()
}

func (m Model) tick() tea.Cmd {
	return tea.Tick(time.Second/time.Duration(m.frameRate), func(t time.Time) tea.Msg {
		return TickMsg(t)
	})
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c":
			return m, tea.Quit
		case " ":
			m.paused = !m.paused
		case "s":
			m.drv.SubmitCommand(levi.CommandStart)
		case "b":
			m.drv.SubmitCommand(levi.CommandBrake)
		case "x":
			m.drv.SubmitCommand(levi.CommandStop)
		case "f":
			m.drv.SubmitCommand(levi.CommandResetFault)
		case "i":
			m.interlockOpen = !m.interlockOpen
			m.drv.SetInterlockOpen(m.interlockOpen)
		case "r":
			m.drv.Reset()
			m.rpmHist = m.rpmHist[:0]
			m.tmpHist = m.tmpHist[:0]
			m.last = levi.Telemetry{}
		}
	case TickMsg:
		if !m.paused {
			for i := 0; i < m.ticksPerFrame; i++ {
				m.last = m.drv.Tick()
			}
			m.rpmHist = push(m.rpmHist, m.last.RPM)
			m.tmpHist = push(m.tmpHist, m.last.Temperature)
		}
		return m, m.tick()
	}
	return m, nil
}

// push appends with display-only trimming to the history cap.
func push(hist []float64, v float64) []float64 {
	hist = append(hist, v)
	if len(hist) > historyCapacity {
		hist = hist[len(hist)-historyCapacity:]
	}
	return hist
}

func (m Model) View() string {
	var b strings.Builder

	b.WriteString(headerStyle.Render("levimag — pulsed-drive rotor"))
	b.WriteString("\n")

	badge := modeStyles[m.last.Mode].Render("● " + m.last.Mode.String())
	if m.paused {
		badge += helpStyle.Render("  (paused)")
	}
	if m.interlockOpen {
		badge += modeStyles[levi.ModeFault].Render("  interlock chain OPEN")
	}
	b.WriteString(badge)
	b.WriteString("\n")

	b.WriteString(graphStyle.Render(plot(m.rpmHist, "rpm")))
	b.WriteString("\n")
	b.WriteString(graphStyle.Render(plot(m.tmpHist, "coil [K]")))
	b.WriteString("\n\n")

	rows := []struct {
		label string
		value string
	}{
		{"time", fmt.Sprintf("%.2f s", m.last.Time)},
		{"rpm", fmt.Sprintf("%.1f / %.0f", m.last.RPM, m.drv.Params().RPMTarget)},
		{"coil temp", fmt.Sprintf("%.2f K (limit %.1f)", m.last.Temperature, m.drv.Params().TLimit)},
		{"current", fmt.Sprintf("%.3f A", m.last.Current)},
		{"duty", fmt.Sprintf("%.4f", m.last.Duty)},
		{"loss power", fmt.Sprintf("%.4g W", m.last.Losses.Total())},
		{"joule power", fmt.Sprintf("%.4g W", m.last.JoulePower)},
	}
	for _, row := range rows {
		b.WriteString(labelStyle.Render(row.label))
		b.WriteString(valueStyle.Render(row.value))
		b.WriteString("\n")
	}

	b.WriteString(helpStyle.Render("s start · b brake · x stop · f reset fault · i interlocks · space pause · r reset · q quit"))
	b.WriteString("\n")
	return b.String()
}

func plot(hist []float64, caption string) string {
	if len(hist) < 2 {
		return caption + ": waiting for samples"
	}
	return asciigraph.Plot(hist,
		asciigraph.Height(graphHeight),
		asciigraph.Width(graphWidth),
		asciigraph.Caption(caption),
	)
}

// Run starts the live view and blocks until the user quits.
func Run(drv *sim.Simulator, frameRate int) error {
	p := tea.NewProgram(NewModel(drv, frameRate))
	_, err := p.Run()
	return err
}
