package main

import (
	"fmt"
	"strings"
)

// pickerRows is the number of circuit rows shown at once.
const pickerRows = 12

// menuItem represents a single circuit choice in the picker.
type menuItem struct {
	name   string
	symbol string // factor applied to the circuit's expectation value
	entry  int    // index into the session entries
}

// menuCategory groups related circuits under a tab.
type menuCategory struct {
	name  string
	items []menuItem
}

// buildMenu splits the session entries into the picker's tabs.
func buildMenu(entries []circuitEntry) []menuCategory {
	evolution := menuCategory{name: "Evolution"}
	derivatives := menuCategory{name: "Derivatives"}
	for i, e := range entries {
		item := menuItem{name: e.name, entry: i}
		if e.derivative {
			item.symbol = fmt.Sprintf("× %+.4g", e.factor)
			derivatives.items = append(derivatives.items, item)
		} else {
			evolution.items = append(evolution.items, item)
		}
	}
	menu := []menuCategory{evolution}
	if len(derivatives.items) > 0 {
		menu = append(menu, derivatives)
	}
	return menu
}

// menuPosition returns the tab and row holding the given entry.
func menuPosition(menu []menuCategory, entry int) (cat, item int) {
	for c, category := range menu {
		for i, it := range category.items {
			if it.entry == entry {
				return c, i
			}
		}
	}
	return 0, 0
}

// renderMenu renders the floating circuit-picker popup.
func (m Model) renderMenu() string {
	var sb strings.Builder

	sb.WriteString(titleStyle.Render("Circuits"))
	sb.WriteString("\n")

	// Category tabs
	for i, cat := range m.menu {
		name := fmt.Sprintf(" %s (%d) ", cat.name, len(cat.items))
		if i == m.menuCat {
			sb.WriteString(activeGateStyle.Render(name))
		} else {
			sb.WriteString(dimStyle.Render(name))
		}
		if i < len(m.menu)-1 {
			sb.WriteString(dimStyle.Render("│"))
		}
	}
	sb.WriteString("\n")
	sb.WriteString(dimStyle.Render(strings.Repeat("─", 42)))
	sb.WriteString("\n")

	// Items in the selected category, scrolled to keep the selection visible
	cat := m.menu[m.menuCat]
	start := max(0, min(m.menuItem-pickerRows/2, len(cat.items)-pickerRows))
	end := min(len(cat.items), start+pickerRows)
	if start > 0 {
		sb.WriteString(dimStyle.Render(fmt.Sprintf("   ▲ %d more", start)))
		sb.WriteString("\n")
	}
	for i := start; i < end; i++ {
		item := cat.items[i]
		if i == m.menuItem {
			sb.WriteString(menuSelectedStyle.Render(" ▸ "))
			sb.WriteString(menuSelectedStyle.Render(fmt.Sprintf("%-26s", item.name)))
			sb.WriteString(gateStyle.Render(item.symbol))
		} else {
			sb.WriteString("   ")
			sb.WriteString(menuNormalStyle.Render(fmt.Sprintf("%-26s", item.name)))
			sb.WriteString(dimStyle.Render(item.symbol))
		}
		if item.entry == m.selected {
			sb.WriteString(activeGateStyle.Render(" ●"))
		}
		sb.WriteString("\n")
	}
	if end < len(cat.items) {
		sb.WriteString(dimStyle.Render(fmt.Sprintf("   ▼ %d more", len(cat.items)-end)))
		sb.WriteString("\n")
	}
	sb.WriteString(dimStyle.Render(" ↑↓ Select  ←→ Tab  ⏎ Open  Esc ✕"))

	return menuBorderStyle.Render(sb.String())
}
