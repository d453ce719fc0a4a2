package main

import (
	"fmt"
	"os"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/rs/zerolog/log"

	"qevolve"
)

// focus represents which panel/mode has keyboard input.
type focus int

const (
	focusCircuit focus = iota
	focusMenu
)

// Model represents the TUI application state.
type Model struct {
	session  *session
	selected int                 // index of the displayed entry
	dag      *qevolve.CircuitDAG // schedule of the displayed circuit

	numQubits     int
	cursorStep    int
	viewStartStep int // First step currently visible in the view
	width         int
	height        int
	qasmView      viewport.Model
	help          help.Model
	focus         focus
	statusMsg     string // transient status message (e.g. save confirmation)
	outputPath    string

	// Simulation of the displayed circuit
	probs       []qevolve.QubitProbability
	expectation float64
	simErr      error

	// Menu state
	menu     []menuCategory
	menuCat  int
	menuItem int
}

func initialModel(s *session, outputPath string) Model {
	vp := viewport.New(40, 20)
	vp.KeyMap = qasmKeyMap()

	m := Model{
		session:    s,
		numQubits:  s.numQubits(),
		qasmView:   vp,
		help:       help.New(),
		focus:      focusCircuit,
		outputPath: outputPath,
		menu:       buildMenu(s.entries),
	}
	m.selectEntry(0)
	return m
}

// selectEntry displays entry i: reschedules, re-simulates and refreshes the QASM.
func (m *Model) selectEntry(i int) {
	m.selected = i
	entry := m.session.entries[i]

	m.dag = qevolve.FromCircuit(entry.circuit)
	m.cursorStep = min(m.cursorStep, max(m.dag.MaxStep(), 0))
	m.clampView()

	m.qasmView.SetContent(entry.circuit.ToQASM())
	m.qasmView.GotoTop()

	m.probs = nil
	state, v, err := m.session.expectation(i)
	m.expectation, m.simErr = v, err
	if state != nil {
		m.probs = state.GetQubitProbabilities()
	}
	if err != nil {
		log.Debug().Err(err).Str("circuit", entry.name).Msg("Simulation failed")
	}
}

// clampView keeps the cursor step inside the visible window.
func (m *Model) clampView() {
	steps := visibleSteps(m.circuitWidth())
	if m.cursorStep < m.viewStartStep {
		m.viewStartStep = m.cursorStep
	}
	if m.cursorStep >= m.viewStartStep+steps {
		m.viewStartStep = m.cursorStep - steps + 1
	}
}

func (m Model) circuitWidth() int {
	if m.width == 0 {
		return 80
	}
	return m.width - m.width/3 - 4
}

func (m *Model) save() {
	qasm := m.session.entries[m.selected].circuit.ToQASM()
	if err := os.WriteFile(m.outputPath, []byte(qasm), 0644); err != nil {
		m.statusMsg = fmt.Sprintf("Save error: %v", err)
		return
	}
	m.statusMsg = "Saved " + m.outputPath
	log.Info().Str("path", m.outputPath).Str("circuit", m.session.entries[m.selected].name).Msg("Circuit saved")
}

// ──────────────────────────── Init / Update ────────────────────────────

func (m Model) Init() tea.Cmd {
	return nil
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmds []tea.Cmd

	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.help.Width = msg.Width - 8
		m.qasmView.Width = max(msg.Width/3-6, 20)
		ctrlH := 6
		circH := msg.Height - ctrlH - 4
		m.qasmView.Height = max(circH-6, 4)
		m.clampView()

	case tea.KeyMsg:
		m.statusMsg = ""

		if msg.String() == "ctrl+c" {
			return m, tea.Quit
		}

		switch m.focus {
		case focusCircuit:
			switch {
			case key.Matches(msg, keys.Quit):
				return m, tea.Quit
			case key.Matches(msg, keys.Picker):
				m.focus = focusMenu
				m.menuCat, m.menuItem = menuPosition(m.menu, m.selected)
			case key.Matches(msg, keys.Save):
				m.save()
			case key.Matches(msg, keys.Up):
				if m.selected > 0 {
					m.selectEntry(m.selected - 1)
				}
			case key.Matches(msg, keys.Down):
				if m.selected < len(m.session.entries)-1 {
					m.selectEntry(m.selected + 1)
				}
			case key.Matches(msg, keys.Left):
				if m.cursorStep > 0 {
					m.cursorStep--
					m.clampView()
				}
			case key.Matches(msg, keys.Right):
				if m.cursorStep < m.dag.MaxStep() {
					m.cursorStep++
					m.clampView()
				}
			default:
				var cmd tea.Cmd
				m.qasmView, cmd = m.qasmView.Update(msg)
				cmds = append(cmds, cmd)
			}

		case focusMenu:
			switch {
			case key.Matches(msg, keys.Back), key.Matches(msg, keys.Picker):
				m.focus = focusCircuit
			case key.Matches(msg, keys.Up):
				if m.menuItem > 0 {
					m.menuItem--
				}
			case key.Matches(msg, keys.Down):
				if m.menuItem < len(m.menu[m.menuCat].items)-1 {
					m.menuItem++
				}
			case key.Matches(msg, keys.Left):
				if m.menuCat > 0 {
					m.menuCat--
					m.menuItem = 0
				}
			case key.Matches(msg, keys.Right):
				if m.menuCat < len(m.menu)-1 {
					m.menuCat++
					m.menuItem = 0
				}
			case key.Matches(msg, keys.Select):
				m.selectEntry(m.menu[m.menuCat].items[m.menuItem].entry)
				m.focus = focusCircuit
			}
		}
	}

	return m, tea.Batch(cmds...)
}

// View renders the UI.
func (m Model) View() string {
	if m.width == 0 {
		return "Loading..."
	}

	qasmWidth := m.width / 3
	circuitWidth := m.circuitWidth()
	controlsHeight := 6
	circuitHeight := max(m.height-controlsHeight-2, 6)

	circuitPanel := m.renderCircuitPanel(circuitWidth, circuitHeight)
	qasmPanel := m.renderQASMPanel(qasmWidth, circuitHeight)
	controlsPanel := m.renderControlsPanel(m.width-4, controlsHeight-2)

	topRow := lipgloss.JoinHorizontal(lipgloss.Top, circuitPanel, qasmPanel)
	frame := lipgloss.JoinVertical(lipgloss.Left, topRow, controlsPanel)

	// Render menu overlay when in menu mode
	if m.focus == focusMenu {
		frame = overlayAt(frame, m.renderMenu(), 2, 2)
	}

	return frame
}
