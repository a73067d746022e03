// Package tui provides the Bubble Tea typing interface.
package tui

import (
	"context"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/google/uuid"

	"github.com/verte-zerg/codetype/internal/corpus"
	"github.com/verte-zerg/codetype/internal/logger"
	"github.com/verte-zerg/codetype/internal/metrics"
	"github.com/verte-zerg/codetype/internal/model"
	"github.com/verte-zerg/codetype/internal/session"
	"github.com/verte-zerg/codetype/internal/stats"
)

// Sampler draws the words for a new round.
type Sampler interface {
	Sample(ctx context.Context, cfg model.Config, maxChars int) (corpus.Sample, error)
}

// Options wires the collaborators of a Model.
type Options struct {
	Sampler Sampler
	Metrics *metrics.Recorder
	Logger  logger.Logger
	Clock   session.Clock
	// MaxChars sizes resamples until the first window size is known.
	MaxChars int
	Context  context.Context
}

// Model implements the Bubble Tea typing UI.
type Model struct {
	ctx     context.Context
	config  model.Config
	sampler Sampler
	metrics *metrics.Recorder
	log     logger.Logger
	clock   session.Clock

	session *session.Session
	words   []string
	source  string
	roundID uuid.UUID
	results []stats.Result
	err     error

	width    int
	height   int
	maxChars int

	keys keyMap
	help help.Model
}

// NewModel constructs a typing TUI model around an already drawn sample. The
// first round waits for a key press before the timer runs.
func NewModel(cfg model.Config, sample corpus.Sample, opts Options) *Model {
	m := &Model{
		ctx:      opts.Context,
		config:   cfg,
		sampler:  opts.Sampler,
		metrics:  opts.Metrics,
		log:      opts.Logger,
		clock:    opts.Clock,
		source:   sample.File,
		maxChars: opts.MaxChars,
		keys:     defaultKeyMap(),
		help:     help.New(),
	}
	if m.ctx == nil {
		m.ctx = context.Background()
	}
	if m.metrics == nil {
		m.metrics = metrics.New()
	}
	if m.log == nil {
		m.log = logger.Nop()
	}
	m.log = m.log.Named("tui")
	m.startRound(sample.Words, true)
	return m
}

// Init implements tea.Model.
func (m *Model) Init() tea.Cmd {
	return nil
}

// Update implements tea.Model.
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.help.Width = msg.Width
		return m, nil
	case tea.KeyMsg:
		if key.Matches(msg, m.keys.Quit) {
			return m, tea.Quit
		}
		switch m.session.State().(type) {
		case session.Idle:
			m.updateIdle(msg)
		case session.Running:
			m.updateRunning(msg)
		case session.Finished:
			return m, m.updateFinished(msg)
		}
		return m, nil
	default:
		return m, nil
	}
}

// Results returns the results of every finished round in order.
func (m *Model) Results() []stats.Result {
	return m.results
}

// Err returns the error that stopped the program, if any.
func (m *Model) Err() error {
	return m.err
}

// Session returns the current round.
func (m *Model) Session() *session.Session {
	return m.session
}

func (m *Model) updateIdle(msg tea.KeyMsg) {
	switch msg.Type {
	case tea.KeyRunes, tea.KeySpace, tea.KeyEnter:
		m.session.Start()
	}
}

func (m *Model) updateRunning(msg tea.KeyMsg) {
	before := m.session.Mistakes()
	switch {
	case key.Matches(msg, m.keys.Pop):
		m.session.Pop()
	case key.Matches(msg, m.keys.PopWord):
		m.session.PopWord()
	case msg.Type == tea.KeySpace:
		m.push([]rune{' '})
	case msg.Type == tea.KeyRunes && !msg.Alt:
		m.push(msg.Runes)
	}
	m.metrics.Mistakes(m.session.Mistakes() - before)

	if st, ok := m.session.State().(session.Finished); ok {
		m.finishRound(st.Result)
	}
}

func (m *Model) push(runes []rune) {
	pushed := 0
	for _, r := range runes {
		if _, done := m.session.State().(session.Finished); done {
			break
		}
		m.session.Push(r)
		pushed++
	}
	m.metrics.Keystrokes(pushed)
}

func (m *Model) updateFinished(msg tea.KeyMsg) tea.Cmd {
	switch {
	case key.Matches(msg, m.keys.Resample):
		return m.resample()
	case key.Matches(msg, m.keys.Retry):
		m.startRound(m.words, false)
	case key.Matches(msg, m.keys.Exit):
		return tea.Quit
	}
	return nil
}

func (m *Model) resample() tea.Cmd {
	sample, err := m.sampler.Sample(m.ctx, m.config, m.capacity())
	m.metrics.Sampled(sample, err)
	if err != nil {
		m.err = err
		m.log.Error(m.ctx, "resample failed", logger.String("round", m.roundID.String()), logger.Error(err))
		return tea.Quit
	}
	m.source = sample.File
	m.startRound(sample.Words, false)
	return nil
}

// capacity is the number of cells the text may fill.
func (m *Model) capacity() int {
	if m.width > 0 && m.height > 0 {
		return TextCapacity(m.width, m.height)
	}
	return m.maxChars
}

func (m *Model) startRound(words []string, idle bool) {
	m.words = words
	m.roundID = uuid.New()
	m.session = session.New(words, session.Options{
		Strict:          m.config.Strict,
		SkipWordOnSpace: m.config.SkipWordOnSpace,
		Idle:            idle,
		Clock:           m.clock,
	})
	m.log.Debug(m.ctx, "round started",
		logger.String("round", m.roundID.String()),
		logger.String("file", m.source),
		logger.Int("words", len(words)),
	)
}

func (m *Model) finishRound(res stats.Result) {
	passed := res.Passes(m.config.MinAccuracy)
	m.results = append(m.results, res)
	m.metrics.RoundFinished(res, passed)
	m.log.Info(m.ctx, "round finished",
		logger.String("round", m.roundID.String()),
		logger.Float64("wpm", res.WPM),
		logger.Float64("accuracy", res.Accuracy),
		logger.Int("mistakes", res.Mistakes),
		logger.Bool("passed", passed),
	)
}
