package dashboard

import (
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/charmbracelet/lipgloss"

	"github.com/cruzluna/reclaim-cli/internal/api"
	"github.com/cruzluna/reclaim-cli/internal/ui"
)

// dashboardHint is the idle footer line listing the key bindings.
var dashboardHint = strings.Join([]string{
	"j/k move",
	"g/G jump",
	"r refresh",
	"s sort  f filter",
	"? help",
	":q/Esc/Ctrl+C quit",
}, "  "+ui.IconPipe+"  ")

// ─── Top-level renderer ─────────────────────────────────────────────────────

func (m Model) renderView() string {
	w := m.width
	if w < 60 {
		w = 60
	}
	h := m.height
	if h < 16 {
		h = 16
	}

	visible := m.visible()

	var s strings.Builder
	s.WriteString(m.renderHeader(visible, w))
	s.WriteString("\n")

	bodyHeight := h - 4
	if m.showHelp {
		s.WriteString(m.renderHelp(w, bodyHeight))
	} else {
		s.WriteString(m.renderBody(visible, w, bodyHeight))
	}

	s.WriteString("\n")
	s.WriteString(m.renderFooter(w))
	return s.String()
}

// ─── Header ──────────────────────────────────────────────────────────────────

func (m Model) renderHeader(visible []api.Task, w int) string {
	label := m.filter.Label()
	if m.completion != api.CompletionAny {
		label += "/" + m.completion.String()
	}
	plural := "s"
	if len(visible) == 1 {
		plural = ""
	}

	title := lipgloss.NewStyle().
		Bold(true).
		Foreground(ui.ColorPrimary).
		Render("Reclaim Task Dashboard")

	counts := lipgloss.NewStyle().
		Foreground(ui.ColorTextDim).
		Render(fmt.Sprintf("  %s  %d task%s (%s)", ui.IconPipe, len(visible), plural, label))

	divider := lipgloss.NewStyle().
		Foreground(ui.ColorMuted).
		Render(strings.Repeat("─", w))

	return title + counts + "\n" + divider
}

// ─── Body ────────────────────────────────────────────────────────────────────

func (m Model) renderBody(visible []api.Task, w, h int) string {
	listWidth := w * 45 / 100
	detailWidth := w - listWidth

	list := renderPanel("Tasks", m.renderTaskRows(visible, listWidth-4), listWidth, h)
	details := renderPanel("Details", m.detailLines(visible), detailWidth, h)
	return lipgloss.JoinHorizontal(lipgloss.Top, list, details)
}

func renderPanel(title string, lines []string, w, h int) string {
	heading := lipgloss.NewStyle().
		Bold(true).
		Foreground(ui.ColorSecondary).
		Render(title)

	return lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(ui.ColorMuted).
		Padding(0, 1).
		Width(w - 2).
		Height(h - 2).
		Render(heading + "\n" + strings.Join(lines, "\n"))
}

func (m Model) renderTaskRows(visible []api.Task, rowWidth int) []string {
	if len(visible) == 0 {
		empty := lipgloss.NewStyle().
			Foreground(ui.ColorMuted).
			Italic(true).
			Render("No tasks found for this filter.")
		return []string{empty}
	}

	offset := m.offset
	if offset >= len(visible) {
		offset = len(visible) - 1
	}
	if offset < 0 {
		offset = 0
	}
	end := offset + m.viewportRows()
	if end > len(visible) {
		end = len(visible)
	}

	selected := lipgloss.NewStyle().
		Bold(true).
		Foreground(ui.ColorWarning)

	rows := make([]string, 0, end-offset)
	for i := offset; i < end; i++ {
		task := visible[i]
		row := fmt.Sprintf("#%-6d [%-10s] %s (due: %s)",
			task.ID, task.StatusOr("UNKNOWN"), task.Title, task.DueOr("-"))
		row = truncate(row, rowWidth-3)
		if i == m.cursor {
			rows = append(rows, selected.Render(">> "+row))
		} else {
			rows = append(rows, "   "+row)
		}
	}
	return rows
}

func (m Model) detailLines(visible []api.Task) []string {
	if m.cursor < 0 || m.cursor >= len(visible) {
		muted := lipgloss.NewStyle().Foreground(ui.ColorMuted).Italic(true)
		return []string{
			muted.Render("No task selected."),
			muted.Render("Try pressing r to refresh from the API."),
		}
	}

	task := visible[m.cursor]
	lines := []string{
		lipgloss.NewStyle().Bold(true).Render(fmt.Sprintf("#%d %s", task.ID, task.Title)),
		"status: " + task.StatusOr("UNKNOWN"),
		"priority: " + task.PriorityOr("-"),
		"due: " + task.DueOr("-"),
	}

	if task.Notes != nil && strings.TrimSpace(*task.Notes) != "" {
		lines = append(lines, "", "notes:")
		for _, noteLine := range strings.Split(strings.TrimRight(*task.Notes, "\n"), "\n") {
			lines = append(lines, "  "+strings.TrimSuffix(noteLine, "\r"))
		}
	}
	return lines
}

// ─── Footer ──────────────────────────────────────────────────────────────────

// renderFooter shows, in priority order: the command buffer being typed, the
// last status message, or the idle key hint.
func (m Model) renderFooter(w int) string {
	divider := lipgloss.NewStyle().
		Foreground(ui.ColorMuted).
		Render(strings.Repeat("─", w))

	var line string
	switch {
	case m.commandBuffer != "":
		line = lipgloss.NewStyle().
			Foreground(ui.ColorWarning).
			Render("Command: " + m.commandBuffer)
	case m.status != "" && m.statusIsError:
		line = lipgloss.NewStyle().
			Foreground(ui.ColorError).
			Render(ui.IconError + " " + m.status)
	case m.status != "":
		line = lipgloss.NewStyle().
			Foreground(ui.ColorTextDim).
			Render(m.status)
	default:
		line = lipgloss.NewStyle().
			Foreground(ui.ColorMuted).
			Italic(true).
			Render(dashboardHint)
	}

	return divider + "\n" + line
}

// ─── Help panel ──────────────────────────────────────────────────────────────

func (m Model) renderHelp(w, h int) string {
	heading := lipgloss.NewStyle().
		Bold(true).
		Render("Dashboard key bindings")

	closing := lipgloss.NewStyle().
		Foreground(ui.ColorMuted).
		Italic(true).
		Render("Press ? or Enter to close this panel.")

	panel := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(ui.ColorSecondary).
		Padding(1, 2).
		Render(heading + "\n\n" + m.help.View(m.keys) + "\n\n" + closing)

	return lipgloss.Place(w, h, lipgloss.Center, lipgloss.Center, panel)
}

func truncate(s string, width int) string {
	if width < 1 {
		return ""
	}
	if utf8.RuneCountInString(s) <= width {
		return s
	}
	runes := []rune(s)
	return string(runes[:width-1]) + "…"
}
