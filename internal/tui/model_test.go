package tui

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/verte-zerg/codetype/internal/corpus"
	"github.com/verte-zerg/codetype/internal/metrics"
	"github.com/verte-zerg/codetype/internal/model"
	"github.com/verte-zerg/codetype/internal/session"
)

type fakeSampler struct {
	samples []corpus.Sample
	err     error
	calls   []int
}

func (f *fakeSampler) Sample(_ context.Context, _ model.Config, maxChars int) (corpus.Sample, error) {
	f.calls = append(f.calls, maxChars)
	if f.err != nil {
		return corpus.Sample{}, f.err
	}
	s := f.samples[0]
	f.samples = f.samples[1:]
	return s, nil
}

func stepClock() session.Clock {
	now := time.Unix(0, 0)
	return func() time.Time {
		now = now.Add(time.Second)
		return now
	}
}

func newTestModel(cfg model.Config, sampler *fakeSampler) (*Model, *metrics.Recorder) {
	rec := metrics.New()
	m := NewModel(cfg, corpus.Sample{Words: []string{"ab", "cd"}, File: "main.rs"}, Options{
		Sampler:  sampler,
		Metrics:  rec,
		Clock:    stepClock(),
		MaxChars: 500,
	})
	return m, rec
}

func keyRunes(s string) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

func typeText(m *Model, text string) {
	for _, r := range text {
		if r == ' ' {
			m.Update(tea.KeyMsg{Type: tea.KeySpace, Runes: []rune{' '}})
			continue
		}
		m.Update(keyRunes(string(r)))
	}
}

func counterValue(t *testing.T, rec *metrics.Recorder, name string) float64 {
	t.Helper()
	families, err := rec.Registry().Gather()
	if err != nil {
		t.Fatalf("gather: %v", err)
	}
	total := 0.0
	for _, f := range families {
		if f.GetName() != name {
			continue
		}
		for _, metric := range f.GetMetric() {
			total += metric.GetCounter().GetValue()
		}
	}
	return total
}

func isQuit(cmd tea.Cmd) bool {
	if cmd == nil {
		return false
	}
	_, ok := cmd().(tea.QuitMsg)
	return ok
}

func TestModelStartsIdle(t *testing.T) {
	m, _ := newTestModel(model.Config{}, &fakeSampler{})
	if _, ok := m.Session().State().(session.Idle); !ok {
		t.Fatalf("expected idle session, got %T", m.Session().State())
	}
	if m.View() != idlePrompt {
		t.Fatalf("expected idle prompt, got %q", m.View())
	}

	m.Update(keyRunes("x"))
	if _, ok := m.Session().State().(session.Running); !ok {
		t.Fatalf("expected running session, got %T", m.Session().State())
	}
	if m.Session().Input() != "" {
		t.Fatalf("start key must not be typed, got %q", m.Session().Input())
	}
}

func TestModelEnterStarts(t *testing.T) {
	m, _ := newTestModel(model.Config{}, &fakeSampler{})
	m.Update(tea.KeyMsg{Type: tea.KeyEnter})
	if _, ok := m.Session().State().(session.Running); !ok {
		t.Fatalf("expected running session, got %T", m.Session().State())
	}
}

func TestModelFinishesRound(t *testing.T) {
	m, rec := newTestModel(model.Config{}, &fakeSampler{})
	m.Update(keyRunes("x"))
	typeText(m, "ab cd")

	if _, ok := m.Session().State().(session.Finished); !ok {
		t.Fatalf("expected finished session, got %T", m.Session().State())
	}
	if len(m.Results()) != 1 {
		t.Fatalf("expected 1 result, got %d", len(m.Results()))
	}
	if got := counterValue(t, rec, "codetype_keystrokes_total"); got != 5 {
		t.Fatalf("expected 5 keystrokes, got %v", got)
	}
	if got := counterValue(t, rec, "codetype_rounds_finished_total"); got != 1 {
		t.Fatalf("expected 1 finished round, got %v", got)
	}
	if !containsAll(m.View(), []string{"word count: 2", tryAgainPrompt}) {
		t.Fatalf("unexpected finished view: %q", m.View())
	}
}

func TestModelLowAccuracyHidesResult(t *testing.T) {
	minAccuracy := 100.0
	m, rec := newTestModel(model.Config{MinAccuracy: &minAccuracy}, &fakeSampler{})
	m.Update(keyRunes("x"))
	typeText(m, "ax cd ")

	if _, ok := m.Session().State().(session.Finished); !ok {
		t.Fatalf("expected finished session, got %T", m.Session().State())
	}
	if !containsAll(m.View(), []string{"Accuracy too low (80.00%)"}) {
		t.Fatalf("unexpected finished view: %q", m.View())
	}
	if got := counterValue(t, rec, "codetype_mistakes_total"); got != 1 {
		t.Fatalf("expected 1 mistake, got %v", got)
	}
}

func TestModelEditKeys(t *testing.T) {
	m, _ := newTestModel(model.Config{}, &fakeSampler{})
	m.Update(keyRunes("x"))

	typeText(m, "ab")
	m.Update(tea.KeyMsg{Type: tea.KeyBackspace})
	if got := m.Session().Input(); got != "a" {
		t.Fatalf("backspace: got %q", got)
	}
	m.Update(tea.KeyMsg{Type: tea.KeyCtrlH})
	if got := m.Session().Input(); got != "" {
		t.Fatalf("ctrl+h: got %q", got)
	}

	typeText(m, "ab c")
	m.Update(tea.KeyMsg{Type: tea.KeyCtrlW})
	if got := m.Session().Input(); got != "ab " {
		t.Fatalf("ctrl+w: got %q", got)
	}
	m.Update(tea.KeyMsg{Type: tea.KeyBackspace, Alt: true})
	if got := m.Session().Input(); got != "" {
		t.Fatalf("alt+backspace: got %q", got)
	}
}

func TestModelRetryKeepsWords(t *testing.T) {
	m, _ := newTestModel(model.Config{}, &fakeSampler{})
	m.Update(keyRunes("x"))
	typeText(m, "ab cd")

	if _, cmd := m.Update(keyRunes("r")); cmd != nil {
		t.Fatalf("retry must not return a command")
	}
	if _, ok := m.Session().State().(session.Running); !ok {
		t.Fatalf("expected running session, got %T", m.Session().State())
	}
	if m.Session().Target() != "ab cd" || m.Session().Input() != "" {
		t.Fatalf("unexpected retry session %q / %q", m.Session().Target(), m.Session().Input())
	}
	if len(m.Results()) != 1 {
		t.Fatalf("expected results to be kept, got %d", len(m.Results()))
	}
}

func TestModelResampleUsesViewport(t *testing.T) {
	sampler := &fakeSampler{samples: []corpus.Sample{
		{Words: []string{"ef", "gh"}, File: "lib.rs"},
		{Words: []string{"ij"}, File: "mod.rs"},
	}}
	m, rec := newTestModel(model.Config{}, sampler)
	m.Update(keyRunes("x"))
	typeText(m, "ab cd")

	m.Update(keyRunes("y"))
	if m.Session().Target() != "ef gh" {
		t.Fatalf("expected resampled words, got %q", m.Session().Target())
	}
	if _, ok := m.Session().State().(session.Running); !ok {
		t.Fatalf("expected running session, got %T", m.Session().State())
	}

	m.Update(tea.WindowSizeMsg{Width: 80, Height: 24})
	typeText(m, "ef gh")
	m.Update(keyRunes("Y"))

	if len(sampler.calls) != 2 || sampler.calls[0] != 500 || sampler.calls[1] != TextCapacity(80, 24) {
		t.Fatalf("unexpected sample sizes %v", sampler.calls)
	}
	if got := counterValue(t, rec, "codetype_samples_total"); got != 2 {
		t.Fatalf("expected 2 samples, got %v", got)
	}
}

func TestModelResampleErrorQuits(t *testing.T) {
	errBoom := errors.New("boom")
	m, _ := newTestModel(model.Config{}, &fakeSampler{err: errBoom})
	m.Update(keyRunes("x"))
	typeText(m, "ab cd")

	_, cmd := m.Update(keyRunes("y"))
	if !isQuit(cmd) {
		t.Fatalf("expected quit after failed resample")
	}
	if !errors.Is(m.Err(), errBoom) {
		t.Fatalf("expected resample error, got %v", m.Err())
	}
}

func TestModelQuitKeys(t *testing.T) {
	m, _ := newTestModel(model.Config{}, &fakeSampler{})
	if _, cmd := m.Update(tea.KeyMsg{Type: tea.KeyCtrlC}); !isQuit(cmd) {
		t.Fatalf("expected ctrl+c to quit while idle")
	}

	m.Update(keyRunes("x"))
	if _, cmd := m.Update(keyRunes("n")); cmd != nil {
		t.Fatalf("n must be typed while running")
	}
	if m.Session().Input() != "n" {
		t.Fatalf("expected n in input, got %q", m.Session().Input())
	}

	m.Update(tea.KeyMsg{Type: tea.KeyBackspace})
	typeText(m, "ab cd")
	if _, cmd := m.Update(keyRunes("n")); !isQuit(cmd) {
		t.Fatalf("expected n to quit when finished")
	}
	if m.Err() != nil {
		t.Fatalf("unexpected error %v", m.Err())
	}
}

func TestModelSampleAtCapacityFitsWindow(t *testing.T) {
	const width, height = 20, 5
	words := strings.Fields(strings.Repeat("a ", 28))
	sampler := &fakeSampler{samples: []corpus.Sample{{Words: words, File: "lib.rs"}}}
	m, _ := newTestModel(model.Config{}, sampler)
	m.Update(tea.WindowSizeMsg{Width: width, Height: height})
	m.Update(keyRunes("x"))
	typeText(m, "ab cd")
	m.Update(keyRunes("y"))

	if len(sampler.calls) != 1 || sampler.calls[0] != 14*4 {
		t.Fatalf("unexpected sample sizes %v", sampler.calls)
	}
	if got := m.Session().Len(); got > sampler.calls[0] {
		t.Fatalf("sample of %d runes exceeds capacity %d", got, sampler.calls[0])
	}
	if lines := strings.Count(m.View(), "\n") + 1; lines > height {
		t.Fatalf("view has %d lines, window height is %d", lines, height)
	}
}

func TestModelDeleteKeyIsIgnored(t *testing.T) {
	m, _ := newTestModel(model.Config{}, &fakeSampler{})
	m.Update(keyRunes("x"))
	typeText(m, "ab")
	m.Update(tea.KeyMsg{Type: tea.KeyDelete})
	if got := m.Session().Input(); got != "ab" {
		t.Fatalf("delete: got %q", got)
	}
}
