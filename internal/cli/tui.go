package cli

import (
	"fmt"
	"os"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/matzehuels/semtree/pkg/provider"
)

// List styles
var (
	listSelectedStyle = lipgloss.NewStyle().Bold(true).Foreground(colorCyan)
	listNormalStyle   = lipgloss.NewStyle().Foreground(colorWhite)
	listDimStyle      = lipgloss.NewStyle().Foreground(colorDim)
)

// =============================================================================
// VariantListModel - Interactive variant selection
// =============================================================================

// VariantListModel is the bubbletea model for interactive variant selection.
type VariantListModel struct {
	Variants []provider.Variant
	Cursor   int
	Selected *provider.Variant
}

// NewVariantListModel creates a variant list with the cursor on the named
// variant, if present.
func NewVariantListModel(variants []provider.Variant, current string) VariantListModel {
	m := VariantListModel{Variants: variants}
	for i, v := range variants {
		if v.Name == current {
			m.Cursor = i
		}
	}
	return m
}

func (m VariantListModel) Init() tea.Cmd {
	return nil
}

func (m VariantListModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	if msg, ok := msg.(tea.KeyMsg); ok {
		switch msg.String() {
		case "q", "ctrl+c", "esc":
			return m, tea.Quit
		case "up", "k":
			if m.Cursor > 0 {
				m.Cursor--
			}
		case "down", "j":
			if m.Cursor < len(m.Variants)-1 {
				m.Cursor++
			}
		case "enter":
			if len(m.Variants) == 0 {
				return m, tea.Quit
			}
			v := m.Variants[m.Cursor]
			m.Selected = &v
			return m, tea.Quit
		}
	}
	return m, nil
}

func (m VariantListModel) View() string {
	var b strings.Builder

	b.WriteString(StyleTitle.Render("Select Variant"))
	b.WriteString("\n")
	b.WriteString(listDimStyle.Render("↑/↓ navigate  ⏎ select  q quit"))
	b.WriteString("\n\n")

	for i, v := range m.Variants {
		cursor := "  "
		if i == m.Cursor {
			cursor = "▸ "
		}
		line := fmt.Sprintf("%s%-12s %s", cursor, v.Name, listDimStyle.Render(v.Description))
		if i == m.Cursor {
			b.WriteString(listSelectedStyle.Render(line))
		} else {
			b.WriteString(listNormalStyle.Render(line))
		}
		b.WriteString("\n")
	}

	if m.Cursor < len(m.Variants) {
		v := m.Variants[m.Cursor]
		b.WriteString("\n")
		b.WriteString(listDimStyle.Render(fmt.Sprintf("  features: %s  recurse: %d  links: %d  threshold: %d",
			v.Features, v.MaxRecurse, v.MaxLinks, v.BranchThreshold)))
		b.WriteString("\n")
	}
	return b.String()
}

// pickVariant lets the user choose a variant. It returns "" when the picker
// was left without a choice.
func pickVariant(reg *provider.Registry, current string) (string, error) {
	p := tea.NewProgram(NewVariantListModel(reg.All(), current), tea.WithOutput(os.Stderr))
	final, err := p.Run()
	if err != nil {
		return "", err
	}
	fm, ok := final.(VariantListModel)
	if !ok || fm.Selected == nil {
		return "", nil
	}
	return fm.Selected.Name, nil
}
