package main

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/x/ansi"

	"qevolve"
)

// ──────────────────────────── Rendering helpers ────────────────────────────

// padCenter centres a string within the given width.
func padCenter(s string, width int) string {
	if len(s) >= width {
		return s[:width]
	}
	total := width - len(s)
	left := total / 2
	right := total - left
	return strings.Repeat(" ", left) + s + strings.Repeat(" ", right)
}

// controlSymbol returns the wire symbol for the control qubit of a two-qubit gate.
func controlSymbol(gateType string) string {
	if gateType == "SWAP" {
		return "×"
	}
	return "●"
}

// targetSymbol returns the wire symbol for the target qubit of a two-qubit gate.
func targetSymbol(gateType string) string {
	switch gateType {
	case "CZ":
		return "●"
	case "SWAP":
		return "×"
	default:
		return "⊕"
	}
}

// ──────────────────────────── Cell rendering ────────────────────────────

// cellInfo describes what occupies one (step, qubit) cell of the grid.
type cellInfo struct {
	gate        *qevolve.Gate
	isControl   bool
	isTarget    bool
	passThrough bool // a two-qubit gate's connector crosses this wire
	vertAbove   bool
	vertBelow   bool
}

// cellAt inspects the scheduled gates at step for the cell on qubit.
func cellAt(dag *qevolve.CircuitDAG, step, qubit int) cellInfo {
	var info cellInfo
	for _, node := range dag.GetNodesAtStep(step) {
		g := node.Gate
		if g.Control < 0 {
			if g.Target == qubit {
				info.gate = &g
			}
			continue
		}
		lo, hi := min(g.Control, g.Target), max(g.Control, g.Target)
		switch {
		case qubit == g.Control || qubit == g.Target:
			info.gate = &g
			info.isControl = qubit == g.Control
			info.isTarget = qubit == g.Target
			info.vertAbove = qubit > lo
			info.vertBelow = qubit < hi
		case qubit > lo && qubit < hi:
			info.passThrough = true
		}
	}
	return info
}

type cellHighlight int

const (
	hlNone cellHighlight = iota
	hlCursor
)

// renderCell returns 3 lines (top, mid, bot) for a single cell.
// Each line is exactly cellW (11) visual characters wide.
func renderCell(info cellInfo, hl cellHighlight) (top, mid, bot string) {
	emptyRow := strings.Repeat(" ", cellW)
	halfW := cellW / 2
	vertRow := strings.Repeat(" ", halfW) + "│" + strings.Repeat(" ", cellW-halfW-1)

	// ── Highlighted cell (cursor column) ──
	if hl == hlCursor {
		bdr := cursorBoxStyle
		innerW := cellW - 2
		dashL := (innerW - 1) / 2
		dashR := innerW - dashL - 1

		top = bdr.Render("╔" + strings.Repeat("═", innerW) + "╗")
		bot = bdr.Render("╚" + strings.Repeat("═", innerW) + "╝")

		switch {
		case info.gate != nil && info.isControl:
			sym := controlSymbol(info.gate.Type)
			mid = bdr.Render("║") + strings.Repeat("─", dashL) + gateStyle.Render(sym) + strings.Repeat("─", dashR) + bdr.Render("║")
		case info.gate != nil && info.isTarget:
			sym := targetSymbol(info.gate.Type)
			mid = bdr.Render("║") + strings.Repeat("─", dashL) + gateStyle.Render(sym) + strings.Repeat("─", dashR) + bdr.Render("║")
		case info.gate != nil:
			name := padCenter(info.gate.Type, gateNameW)
			mid = bdr.Render("║") + "─┤" + gateStyle.Render(name) + "├─" + bdr.Render("║")
		case info.passThrough:
			mid = bdr.Render("║") + strings.Repeat("─", dashL) + "┼" + strings.Repeat("─", dashR) + bdr.Render("║")
		default:
			mid = bdr.Render("║") + strings.Repeat("─", innerW) + bdr.Render("║")
		}
		return
	}

	// ── Normal (non-highlighted) cells ──
	dashL := (cellW - 1) / 2
	dashR := cellW - dashL - 1

	switch {
	case info.gate != nil && (info.isControl || info.isTarget):
		top = emptyRow
		if info.vertAbove {
			top = vertRow
		}
		sym := targetSymbol(info.gate.Type)
		if info.isControl {
			sym = controlSymbol(info.gate.Type)
		}
		mid = strings.Repeat("─", dashL) + gateStyle.Render(sym) + strings.Repeat("─", dashR)
		bot = emptyRow
		if info.vertBelow {
			bot = vertRow
		}

	case info.gate != nil:
		margin := (cellW - gateBoxW) / 2
		rightMargin := cellW - margin - gateBoxW
		name := padCenter(info.gate.Type, gateNameW)

		top = strings.Repeat(" ", margin) + gateStyle.Render("┌"+strings.Repeat("─", gateNameW)+"┐") + strings.Repeat(" ", rightMargin)
		mid = strings.Repeat("─", margin) + gateStyle.Render("┤"+name+"├") + strings.Repeat("─", rightMargin)
		bot = strings.Repeat(" ", margin) + gateStyle.Render("└"+strings.Repeat("─", gateNameW)+"┘") + strings.Repeat(" ", rightMargin)

	case info.passThrough:
		top = vertRow
		mid = strings.Repeat("─", dashL) + "┼" + strings.Repeat("─", dashR)
		bot = vertRow

	default:
		// Empty wire
		top = emptyRow
		mid = strings.Repeat("─", cellW)
		bot = emptyRow
	}

	return
}

// ──────────────────────────── Panel rendering ────────────────────────────

// visibleSteps returns how many step columns fit in a circuit panel of width.
func visibleSteps(width int) int {
	return max((width-labelVisualW-4)/cellW, 1)
}

// renderCircuitPanel renders the circuit grid panel.
func (m Model) renderCircuitPanel(width, height int) string {
	var sb strings.Builder

	entry := m.session.entries[m.selected]
	sb.WriteString(titleStyle.Render(entry.name))
	if entry.derivative {
		sb.WriteString(dimStyle.Render(fmt.Sprintf("  factor %+.6g", entry.factor)))
	}
	fmt.Fprintf(&sb, "%s\n\n", dimStyle.Render(fmt.Sprintf("  %d gates, depth %d", entry.circuit.Len(), m.dag.Depth())))

	displaySteps := visibleSteps(width)
	startStep := m.viewStartStep

	if startStep > 0 {
		fmt.Fprintf(&sb, "  ◀ showing steps %d–%d\n", startStep, startStep+displaySteps-1)
	}

	// Step number header
	header := strings.Repeat(" ", labelVisualW)
	for step := startStep; step < startStep+displaySteps; step++ {
		header += dimStyle.Render(padCenter(fmt.Sprintf("%d", step), cellW))
	}
	sb.WriteString(header + "\n")

	// Render each qubit as 3 lines
	for qubit := 0; qubit < m.numQubits; qubit++ {
		topLine := strings.Repeat(" ", labelVisualW)
		label := fmt.Sprintf("q[%d]", qubit)
		midLine := qubitLabelStyle.Render(fmt.Sprintf("%-5s", label)) + "──"
		botLine := strings.Repeat(" ", labelVisualW)

		for step := startStep; step < startStep+displaySteps; step++ {
			hl := hlNone
			if step == m.cursorStep && m.focus == focusCircuit {
				hl = hlCursor
			}
			top, mid, bot := renderCell(cellAt(m.dag, step, qubit), hl)
			topLine += top
			midLine += mid
			botLine += bot
		}

		sb.WriteString(topLine + "\n")
		sb.WriteString(midLine + "\n")
		sb.WriteString(botLine + "\n")
	}

	// Gates at the cursor
	var here []string
	for _, node := range m.dag.GetNodesAtStep(m.cursorStep) {
		here = append(here, node.Gate.String())
	}
	fmt.Fprintf(&sb, "\n  Step %d: %s", m.cursorStep, activeGateStyle.Render(strings.Join(here, "  ")))
	if m.statusMsg != "" {
		fmt.Fprintf(&sb, "  │  %s", activeGateStyle.Render(m.statusMsg))
	}
	sb.WriteString("\n\n")
	sb.WriteString(m.renderState())

	return circuitStyle.Width(width).Height(height).Render(sb.String())
}

// renderState renders <observable> and the per-qubit |1> probabilities.
func (m Model) renderState() string {
	if m.simErr != nil {
		return errorStyle.Render("Simulation: " + m.simErr.Error())
	}

	var sb strings.Builder
	fmt.Fprintf(&sb, "  %s = %s", qubitLabelStyle.Render("<"+m.session.observable.String()+">"),
		activeGateStyle.Render(fmt.Sprintf("%.6f", m.expectation)))
	if entry := m.session.entries[m.selected]; entry.derivative {
		fmt.Fprintf(&sb, "   weighted %s", activeGateStyle.Render(fmt.Sprintf("%.6f", entry.factor*m.expectation)))
	}
	sb.WriteString("\n")

	for q, p := range m.probs {
		filled := int(p.Prob1*probBarW + 0.5)
		bar := probFillStyle.Render(strings.Repeat("█", filled)) +
			probEmptyStyle.Render(strings.Repeat("░", probBarW-filled))
		fmt.Fprintf(&sb, "  %s %s P(1)=%.3f\n", qubitLabelStyle.Render(fmt.Sprintf("q[%d]", q)), bar, p.Prob1)
	}
	return sb.String()
}

// renderQASMPanel renders the read-only QASM panel.
func (m Model) renderQASMPanel(width, height int) string {
	var sb strings.Builder

	sb.WriteString(titleStyle.Render("OpenQASM"))
	sb.WriteString(dimStyle.Render(fmt.Sprintf("  %3.f%%", m.qasmView.ScrollPercent()*100)))
	sb.WriteString("\n\n")
	sb.WriteString(m.qasmView.View())

	return qasmStyle.Width(width).Height(height).Render(sb.String())
}

// renderControlsPanel renders the bottom help/controls bar.
func (m Model) renderControlsPanel(width, height int) string {
	var sb strings.Builder

	sb.WriteString(activeGateStyle.Render("H = "))
	sb.WriteString(m.session.hamiltonian.String())
	fmt.Fprintf(&sb, "   t = %g   trotter order %d\n", m.session.time, m.session.order)
	sb.WriteString(m.help.View(keys))

	return controlsStyle.Width(width).Height(height).Render(sb.String())
}

// ──────────────────────────── Overlay helpers ────────────────────────────

// overlayAt composites the overlay string on top of the background at position (x, y).
// It handles ANSI escape sequences by tracking visible column positions.
func overlayAt(bg, overlay string, x, y int) string {
	bgLines := strings.Split(bg, "\n")
	ovLines := strings.Split(overlay, "\n")

	for i, ovLine := range ovLines {
		bgIdx := y + i
		if bgIdx < 0 || bgIdx >= len(bgLines) {
			continue
		}
		bgLines[bgIdx] = spliceLineAt(bgLines[bgIdx], ovLine, x)
	}
	return strings.Join(bgLines, "\n")
}

// isEscEnd reports whether r terminates a CSI escape sequence.
func isEscEnd(r rune) bool {
	return (r >= 'A' && r <= 'Z') || (r >= 'a' && r <= 'z')
}

// spliceLineAt replaces visible columns starting at position x in bgLine with overlay content.
// Escape sequences in the background are copied, never counted.
func spliceLineAt(bgLine, overlay string, x int) string {
	runes := []rune(bgLine)
	ovWidth := ansi.StringWidth(overlay)

	var prefix strings.Builder
	col, i := 0, 0

	// Collect prefix: everything up to visible column x
	for i < len(runes) && col < x {
		if runes[i] == '\x1b' {
			prefix.WriteRune(runes[i])
			i++
			for i < len(runes) {
				r := runes[i]
				prefix.WriteRune(r)
				i++
				if r != '[' && isEscEnd(r) {
					break
				}
			}
			continue
		}
		prefix.WriteRune(runes[i])
		col++
		i++
	}

	// Pad prefix if bg line is shorter than x
	for ; col < x; col++ {
		prefix.WriteRune(' ')
	}

	// Skip over ovWidth visible columns in the background
	for skipped := 0; i < len(runes) && skipped < ovWidth; {
		if runes[i] == '\x1b' {
			i++
			for i < len(runes) {
				r := runes[i]
				i++
				if r != '[' && isEscEnd(r) {
					break
				}
			}
			continue
		}
		skipped++
		i++
	}

	// Reset styling so the overlay's colours do not bleed into the suffix.
	return prefix.String() + overlay + "\x1b[0m" + string(runes[i:])
}
