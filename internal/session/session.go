// Package session implements the keystroke-scoring typing session.
package session

import (
	"slices"
	"strings"
	"time"

	"github.com/verte-zerg/codetype/internal/stats"
)

// Clock returns the current time.
type Clock func() time.Time

// State is one of Idle, Running or Finished.
type State interface {
	isState()
}

// Idle is a session waiting for an explicit start.
type Idle struct{}

// Running is a session with its timer started at Start.
type Running struct {
	Start time.Time
}

// Finished holds the result computed when the session completed.
type Finished struct {
	Result stats.Result
}

func (Idle) isState()     {}
func (Running) isState()  {}
func (Finished) isState() {}

// Options configures a Session.
type Options struct {
	// Strict requires an exact match to finish.
	Strict bool
	// SkipWordOnSpace lets a space typed mid-word jump to the next word.
	SkipWordOnSpace bool
	// Idle makes the session wait for Start instead of running immediately.
	Idle bool
	// Clock defaults to time.Now.
	Clock Clock
}

// Cell is one typed rune and whether it matched the target.
type Cell struct {
	Rune    rune
	Correct bool
}

// Session scores typed runes against a fixed target text.
type Session struct {
	target    []rune
	input     []rune
	mistakes  int
	wordCount int
	strict    bool
	skipWord  bool
	clock     Clock
	state     State
}

// New builds a session over words joined by single spaces.
func New(words []string, opts Options) *Session {
	clock := opts.Clock
	if clock == nil {
		clock = time.Now
	}
	s := &Session{
		target:    []rune(strings.Join(words, " ")),
		wordCount: len(words),
		strict:    opts.Strict,
		skipWord:  opts.SkipWordOnSpace,
		clock:     clock,
	}
	if opts.Idle {
		s.state = Idle{}
	} else {
		s.state = Running{Start: clock()}
	}
	return s
}

// State returns the current lifecycle state.
func (s *Session) State() State { return s.state }

// Target returns the text to reproduce.
func (s *Session) Target() string { return string(s.target) }

// TargetRunes returns a copy of the target text as runes.
func (s *Session) TargetRunes() []rune { return slices.Clone(s.target) }

// Input returns what has been typed so far.
func (s *Session) Input() string { return string(s.input) }

// Cursor is the index of the next target rune to type.
func (s *Session) Cursor() int { return len(s.input) }

// Len is the target length in runes.
func (s *Session) Len() int { return len(s.target) }

// Mistakes returns the running mistake count.
func (s *Session) Mistakes() int { return s.mistakes }

// WordCount returns the number of target words.
func (s *Session) WordCount() int { return s.wordCount }

// Diff pairs each typed rune with whether it matches the target at that index.
func (s *Session) Diff() []Cell {
	cells := make([]Cell, len(s.input))
	for i, r := range s.input {
		cells[i] = Cell{Rune: r, Correct: i < len(s.target) && r == s.target[i]}
	}
	return cells
}

// Start moves an idle or running session to Running now. Finished sessions
// are left untouched; callers build a new session instead.
func (s *Session) Start() {
	switch s.state.(type) {
	case Idle, Running:
		s.state = Running{Start: s.clock()}
	case Finished:
	}
}

// Push records one typed rune.
func (s *Session) Push(c rune) {
	if s.finished() {
		return
	}
	if len(s.input) == 0 {
		s.state = Running{Start: s.clock()}
	}

	pos := len(s.input)
	if s.skipWord && c == ' ' && pos < len(s.target) && s.target[pos] != ' ' {
		if pos == 0 || s.target[pos-1] == ' ' {
			// Nothing typed in this word yet.
			return
		}
		s.skipCurrentWord(pos)
		return
	}

	s.input = append(s.input, c)
	next := len(s.input)
	shouldQuit := !s.strict && next > len(s.target) && c == ' '
	if !shouldQuit && (next > len(s.target) || c != s.target[next-1]) {
		s.mistakes++
	}
	if shouldQuit || slices.Equal(s.input, s.target) {
		s.finish()
	}
	if len(s.input) > len(s.target) {
		s.input = s.input[:len(s.target)]
	}
}

// skipCurrentWord fills the rest of the word at pos and its trailing space
// with spaces, each counted as a mistake.
func (s *Session) skipCurrentWord(pos int) {
	end := pos
	for end < len(s.target) && s.target[end] != ' ' {
		end++
	}
	end = min(end+1, len(s.target))
	for i := pos; i < end; i++ {
		s.input = append(s.input, ' ')
	}
	s.mistakes += end - pos
	if !s.strict && len(s.input) >= len(s.target) {
		s.finish()
	}
}

// Pop removes the last typed rune, or the whole trailing run of spaces.
func (s *Session) Pop() {
	if s.finished() || len(s.input) == 0 {
		return
	}
	if s.input[len(s.input)-1] != ' ' {
		s.input = s.input[:len(s.input)-1]
		return
	}
	s.input = s.input[:trimRight(s.input, len(s.input), isSpace)]
}

// PopWord removes trailing spaces and then the word before them.
func (s *Session) PopWord() {
	if s.finished() {
		return
	}
	end := trimRight(s.input, len(s.input), isSpace)
	end = trimRight(s.input, end, func(r rune) bool { return !isSpace(r) })
	s.input = s.input[:end]
}

func (s *Session) finished() bool {
	switch s.state.(type) {
	case Finished:
		return true
	case Idle, Running:
		return false
	}
	return false
}

func (s *Session) finish() {
	switch st := s.state.(type) {
	case Idle, Finished:
	case Running:
		elapsed := s.clock().Sub(st.Start)
		s.state = Finished{Result: stats.NewResult(len(s.target), s.mistakes, s.wordCount, elapsed)}
	}
}

func trimRight(runes []rune, end int, drop func(rune) bool) int {
	for end > 0 && drop(runes[end-1]) {
		end--
	}
	return end
}

func isSpace(r rune) bool { return r == ' ' }
