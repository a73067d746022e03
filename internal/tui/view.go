package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/mattn/go-runewidth"

	"github.com/verte-zerg/codetype/internal/session"
	"github.com/verte-zerg/codetype/internal/stats"
)

const (
	idlePrompt     = "Press any key to start"
	tryAgainPrompt = "Try again? Y(es) | N(o) | R(etry same words)"
)

var (
	correctStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("#F0F0F0"))
	incorrectStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("#FF4D4F"))
	skippedStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("#5A5A5A"))
	overSpaceStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("#D9A441"))
	pendingStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("#8C8C8C"))
	currentWordStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#6CA0DC"))
	cursorStyle      = pendingStyle.Underline(true)
	footerStyle      = lipgloss.NewStyle().Foreground(lipgloss.Color("#6E6E6E"))
)

// View implements tea.Model.
func (m *Model) View() string {
	switch st := m.session.State().(type) {
	case session.Idle:
		return m.place(idlePrompt)
	case session.Running:
		return m.viewRunning()
	case session.Finished:
		lines := resultLines(st.Result, m.config.MinAccuracy, m.width)
		return m.place(strings.Join(lines, "\n"))
	}
	return ""
}

func (m *Model) place(content string) string {
	if m.width == 0 || m.height == 0 {
		return content
	}
	return lipgloss.Place(m.width, m.height, lipgloss.Center, lipgloss.Center, content)
}

func (m *Model) viewRunning() string {
	target := m.session.TargetRunes()
	if len(target) == 0 {
		return ""
	}
	cursorIndex := -1
	if m.session.Cursor() < len(target) {
		cursorIndex = m.session.Cursor()
	}
	styledRunes := buildStyledRunes(target, m.session.Diff(), cursorIndex)
	if m.width == 0 || m.height == 0 {
		return renderStyledRunes(styledRunes)
	}
	contentWidth := textWidth(m.width)
	wrapped := wrapStyledRunes(styledRunes, contentWidth)
	content := lipgloss.NewStyle().Width(contentWidth).Render(wrapped)
	if !hasFooter(m.height) {
		return lipgloss.Place(m.width, m.height, lipgloss.Center, lipgloss.Center, content)
	}
	body := lipgloss.Place(m.width, m.height-1, lipgloss.Center, lipgloss.Center, content)
	footer := lipgloss.Place(m.width, 1, lipgloss.Center, lipgloss.Center, m.renderFooter())
	return body + "\n" + footer
}

// TextCapacity is the number of cells the running view wraps text into in a
// width x height window. It is 0 when either side is unknown.
func TextCapacity(width, height int) int {
	if width <= 0 || height <= 0 {
		return 0
	}
	rows := height
	if hasFooter(height) {
		rows--
	}
	return textWidth(width) * rows
}

// textWidth is 70% of the window width.
func textWidth(width int) int {
	return max(width*7/10, 1)
}

func hasFooter(height int) bool {
	return height >= 3
}

func (m *Model) renderFooter() string {
	total := m.session.Len()
	if total == 0 {
		return ""
	}
	progress := m.session.Cursor() * 100 / total
	segments := []string{
		footerStyle.Render(fmt.Sprintf("Progress %d%%", progress)),
		m.help.ShortHelpView(m.keys.runningHelp()),
	}
	if m.source != "" {
		segments = append(segments, footerStyle.Render(m.source))
	}
	return strings.Join(segments, "  ")
}

// resultLines renders a finished round. Lines wider than width are split on
// their '|' separators.
func resultLines(res stats.Result, minAccuracy *float64, width int) []string {
	summary := fmt.Sprintf(
		"time: %d seconds | wpm: %d (cpm: %d) | mistakes: %d | accuracy: %.2f%% | word count: %d",
		int(res.Elapsed.Seconds()), int(res.WPM), int(res.CPM), res.Mistakes, res.Accuracy, res.Words,
	)
	if !res.Passes(minAccuracy) {
		summary = fmt.Sprintf("Accuracy too low (%.2f%%)", res.Accuracy)
	}
	lines := fitLine(summary, width)
	lines = append(lines, "")
	return append(lines, fitLine(tryAgainPrompt, width)...)
}

func fitLine(line string, width int) []string {
	if width <= 0 || runewidth.StringWidth(line) <= width {
		return []string{line}
	}
	parts := strings.Split(line, "|")
	for i, p := range parts {
		parts[i] = strings.TrimSpace(p)
	}
	return parts
}
