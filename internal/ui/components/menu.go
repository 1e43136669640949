package components

import (
	"strings"

	tea "charm.land/bubbletea/v2"
)

// MenuItem represents a single item in a navigation menu.
type MenuItem struct {
	Label string

	// Value is shown after the label, e.g. the current language.
	Value string

	Action func() tea.Cmd

	// Cycle is called with -1 or +1 on left/right. Items without it ignore
	// those keys.
	Cycle func(delta int) tea.Cmd
}

// Menu is a vertical navigation menu.
type Menu struct {
	Items    []MenuItem
	Selected int
}

// NewMenu creates a new menu with the given items.
func NewMenu(items []MenuItem) Menu {
	return Menu{Items: items}
}

// Update handles keyboard navigation.
func (m Menu) Update(msg tea.Msg) (Menu, tea.Cmd) {
	kmsg, ok := msg.(tea.KeyMsg)
	if !ok || len(m.Items) == 0 {
		return m, nil
	}

	item := m.Items[m.Selected]
	switch kmsg.String() {
	case "up", "k":
		m.Selected = (m.Selected + len(m.Items) - 1) % len(m.Items)
	case "down", "j", "tab":
		m.Selected = (m.Selected + 1) % len(m.Items)
	case "left", "h":
		if item.Cycle != nil {
			return m, item.Cycle(-1)
		}
	case "right", "l":
		if item.Cycle != nil {
			return m, item.Cycle(1)
		}
	case "enter", "space":
		if item.Action != nil {
			return m, item.Action()
		}
		if item.Cycle != nil {
			return m, item.Cycle(1)
		}
	}
	return m, nil
}

// Labels returns the rendered label of every item.
func (m Menu) Labels() []string {
	labels := make([]string, len(m.Items))
	for i, item := range m.Items {
		if item.Value == "" {
			labels[i] = item.Label
			continue
		}
		labels[i] = item.Label + ": ◂ " + item.Value + " ▸"
	}
	return labels
}

// View renders the menu as a column of arcade buttons of the given width.
func (m Menu) View(buttonWidth int) string {
	buttons := make([]string, 0, len(m.Items))
	for i, label := range m.Labels() {
		buttons = append(buttons, ArcadeButton(label, i == m.Selected, buttonWidth))
	}
	return strings.Join(buttons, "\n")
}
