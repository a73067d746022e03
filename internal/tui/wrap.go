package tui

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/mattn/go-runewidth"

	"github.com/verte-zerg/codetype/internal/session"
)

type styledRune struct {
	s       string
	width   int
	isSpace bool
}

// buildStyledRunes styles every target rune against the typed cells. A typed
// space over a letter marks it skipped; a wrong rune over a target space is
// shown as typed so the stray character stays visible.
func buildStyledRunes(target []rune, cells []session.Cell, cursorIndex int) []styledRune {
	current := wordAt(target, cursorIndex)

	out := make([]styledRune, 0, len(target))
	for i, want := range target {
		shown := want
		var style lipgloss.Style
		switch {
		case i < len(cells) && cells[i].Correct:
			style = correctStyle
		case i < len(cells) && cells[i].Rune == ' ':
			style = skippedStyle
		case i < len(cells) && want == ' ':
			shown = cells[i].Rune
			style = overSpaceStyle
		case i < len(cells):
			style = incorrectStyle
		case i == cursorIndex:
			style = cursorStyle
		case want != ' ' && i >= current.start && i < current.end:
			style = currentWordStyle
		default:
			style = pendingStyle
		}
		out = append(out, styledRune{
			s:       style.Render(string(shown)),
			width:   runewidth.RuneWidth(shown),
			isSpace: want == ' ',
		})
	}
	return out
}

type wordRange struct {
	start int
	end   int
}

// wordAt returns the word containing idx, or the next word when idx sits on
// a space. A negative idx yields an empty range.
func wordAt(target []rune, idx int) wordRange {
	if idx < 0 || idx >= len(target) {
		return wordRange{}
	}
	start := idx
	for start < len(target) && target[start] == ' ' {
		start++
	}
	for start > 0 && target[start-1] != ' ' {
		start--
	}
	end := start
	for end < len(target) && target[end] != ' ' {
		end++
	}
	return wordRange{start: start, end: end}
}

func renderStyledRunes(runes []styledRune) string {
	var b strings.Builder
	for _, item := range runes {
		b.WriteString(item.s)
	}
	return b.String()
}

// wrapStyledRunes breaks lines at the last space that fits, or mid-word when
// a single word is wider than width.
func wrapStyledRunes(runes []styledRune, width int) string {
	if width <= 0 {
		return renderStyledRunes(runes)
	}
	var out strings.Builder
	line := make([]styledRune, 0, len(runes))
	lineWidth := 0
	lastSpace := -1

	for i := 0; i < len(runes); {
		item := runes[i]
		if lineWidth+item.width > width && len(line) > 0 {
			if lastSpace >= 0 {
				out.WriteString(renderStyledRunes(line[:lastSpace]))
				line = append([]styledRune{}, line[lastSpace+1:]...)
			} else {
				out.WriteString(renderStyledRunes(line))
				line = line[:0]
			}
			out.WriteRune('\n')
			lineWidth, lastSpace = measure(line)
			continue
		}
		line = append(line, item)
		lineWidth += item.width
		if item.isSpace {
			lastSpace = len(line) - 1
		}
		i++
	}
	out.WriteString(renderStyledRunes(line))
	return out.String()
}

// measure returns the display width of line and the index of its last space.
func measure(line []styledRune) (width, lastSpace int) {
	lastSpace = -1
	for i, item := range line {
		width += item.width
		if item.isSpace {
			lastSpace = i
		}
	}
	return width, lastSpace
}
