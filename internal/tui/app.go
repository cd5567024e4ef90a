// Package tui hosts a sandbox controller in the terminal. Terminal cells are
// scaled onto the world rectangle so mouse input lands on the same controls
// and objects a pixel host would hit.
package tui

import (
	"errors"
	"fmt"
	"log"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/jakecoffman/cp"
	"github.com/san-kum/sandbox/internal/dynamo"
	"github.com/san-kum/sandbox/internal/sandbox"
)

var (
	cyan    = lipgloss.NewStyle().Foreground(lipgloss.Color("86"))
	white   = lipgloss.NewStyle().Foreground(lipgloss.Color("255"))
	dim     = lipgloss.NewStyle().Foreground(lipgloss.Color("242"))
	dimmer  = lipgloss.NewStyle().Foreground(lipgloss.Color("238"))
	green   = lipgloss.NewStyle().Foreground(lipgloss.Color("82"))
	yellow  = lipgloss.NewStyle().Foreground(lipgloss.Color("220"))
	magenta = lipgloss.NewStyle().Foreground(lipgloss.Color("213"))
)

const (
	headerRows = 2
	chartRows  = 9
	footerRows = 2
	canvasLeft = 1

	defaultWidth  = 120
	defaultHeight = 48
	minCanvasCols = 60
	minCanvasRows = 20
)

type tickMsg time.Time

func tick() tea.Cmd {
	return tea.Tick(16*time.Millisecond, func(t time.Time) tea.Msg {
		return tickMsg(t)
	})
}

type model struct {
	ctrl  *sandbox.Controller
	world dynamo.World
	dt    float64

	width  int
	height int
	held   bool
	paused bool
	status string
}

func newModel(ctrl *sandbox.Controller, dt float64) model {
	return model{
		ctrl:   ctrl,
		world:  ctrl.State().Config().World,
		dt:     dt,
		width:  defaultWidth,
		height: defaultHeight,
	}
}

func (m model) Init() tea.Cmd {
	return tick()
}

func (m model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKey(msg)
	case tea.MouseMsg:
		return m.handleMouse(msg)
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		return m, tea.ClearScreen
	case tickMsg:
		if !m.paused {
			if err := m.ctrl.Tick(m.dt); err != nil {
				m = m.report(err)
			}
		}
		return m, tick()
	}
	return m, nil
}

func (m model) handleKey(msg tea.KeyMsg) (model, tea.Cmd) {
	switch msg.String() {
	case "ctrl+c":
		return m, tea.Quit
	case " ", "space":
		m.paused = !m.paused
		return m, nil
	case "esc":
		return m.send(sandbox.KeyDown{Key: sandbox.KeyEscape})
	}
	if msg.Type == tea.KeyRunes && len(msg.Runes) == 1 {
		return m.send(sandbox.KeyDown{Key: msg.Runes[0]})
	}
	return m, nil
}

func (m model) handleMouse(msg tea.MouseMsg) (model, tea.Cmd) {
	pos, ok := m.toWorld(msg.X, msg.Y)
	if !ok {
		return m, nil
	}
	button, known := mouseButton(msg.Button)

	switch msg.Action {
	case tea.MouseActionPress:
		if !known {
			return m, nil
		}
		if button == sandbox.MousePrimary {
			m.held = true
		}
		return m.send(sandbox.PointerDown{Pos: pos, Button: button})
	case tea.MouseActionRelease:
		// Most terminals report releases without the button.
		if !known {
			button = sandbox.MousePrimary
			if !m.held {
				button = sandbox.MouseSecondary
			}
		}
		m.held = false
		return m.send(sandbox.PointerUp{Pos: pos, Button: button})
	case tea.MouseActionMotion:
		return m.send(sandbox.PointerMove{Pos: pos, Held: m.held})
	}
	return m, nil
}

func mouseButton(b tea.MouseButton) (sandbox.MouseButton, bool) {
	switch b {
	case tea.MouseButtonLeft:
		return sandbox.MousePrimary, true
	case tea.MouseButtonRight:
		return sandbox.MouseSecondary, true
	}
	return sandbox.MousePrimary, false
}

func (m model) send(ev sandbox.Event) (model, tea.Cmd) {
	err := m.ctrl.Handle(ev)
	if errors.Is(err, sandbox.ErrQuit) {
		return m, tea.Quit
	}
	if err != nil {
		return m.report(err), nil
	}
	m.status = ""
	return m, nil
}

func (m model) report(err error) model {
	log.Printf("tui: %v", err)
	m.status = err.Error()
	return m
}

func (m model) canvasSize() (cols, rows int) {
	cols = max(m.width-2*canvasLeft, minCanvasCols)
	rows = max(m.height-headerRows-chartRows-footerRows, minCanvasRows)
	return cols, rows
}

// toWorld maps a terminal cell to the world point at its centre.
func (m model) toWorld(x, y int) (cp.Vector, bool) {
	cols, rows := m.canvasSize()
	cx, cy := x-canvasLeft, y-headerRows
	if cx < 0 || cy < 0 || cx >= cols || cy >= rows {
		return cp.Vector{}, false
	}
	return cp.Vector{
		X: (float64(cx) + 0.5) * m.world.Width / float64(cols),
		Y: (float64(cy) + 0.5) * m.world.Height / float64(rows),
	}, true
}

// toCell maps a world point to canvas coordinates.
func (m model) toCell(p cp.Vector) (int, int) {
	cols, rows := m.canvasSize()
	return int(p.X * float64(cols) / m.world.Width), int(p.Y * float64(rows) / m.world.Height)
}

// Run hosts the controller until the user quits, stepping it by dt on every
// frame.
func Run(ctrl *sandbox.Controller, dt float64) error {
	if dt <= 0 {
		return fmt.Errorf("tui: dt must be positive, got %g", dt)
	}
	p := tea.NewProgram(newModel(ctrl, dt), tea.WithAltScreen(), tea.WithMouseAllMotion())
	_, err := p.Run()
	return err
}
