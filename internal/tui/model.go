// Package tui is the bubbletea front end. It draws render structures from
// session snapshots and turns key presses into controller calls.
package tui

import (
	"context"
	"strconv"
	"time"

	tea "charm.land/bubbletea/v2"
	"github.com/rs/zerolog"

	"github.com/gokatarajesh/quiz-desk/internal/logging"
	"github.com/gokatarajesh/quiz-desk/internal/render"
	"github.com/gokatarajesh/quiz-desk/internal/session"
)

// Session is the controller surface the UI drives.
type Session interface {
	Snapshot() session.Snapshot
	Subscribe() (<-chan struct{}, func())
	StartQuiz(ctx context.Context)
	SelectOption(questionID, optionID string, multi bool)
	Navigate(delta int)
	Submit(ctx context.Context) error
	Retake()
}

// Config carries the start-screen numbers and the context for backend calls.
type Config struct {
	QuestionCount int
	TimeLimit     time.Duration
	Styles        *Styles
}

type stateChangedMsg struct{}

type submitFailedMsg struct{ err error }

// Model is the bubbletea model.
type Model struct {
	ctx     context.Context
	sess    Session
	cfg     Config
	styles  Styles
	logger  zerolog.Logger
	updates <-chan struct{}
	cancel  func()

	snap      session.Snapshot
	cursor    int
	lastIndex int
	scroll    int
	width     int
	height    int
	status    string
}

// New builds the model. The logger comes from ctx (see logging.IntoContext).
func New(ctx context.Context, sess Session, cfg Config) Model {
	logger := logging.FromContext(ctx)
	styles := DefaultStyles()
	if cfg.Styles != nil {
		styles = *cfg.Styles
	}
	updates, cancel := sess.Subscribe()
	return Model{
		ctx:     ctx,
		sess:    sess,
		cfg:     cfg,
		styles:  styles,
		logger:  logger.With().Str("component", "tui").Logger(),
		updates: updates,
		cancel:  cancel,
		snap:    sess.Snapshot(),
	}
}

func (m Model) Init() tea.Cmd {
	return waitForChange(m.updates)
}

func waitForChange(updates <-chan struct{}) tea.Cmd {
	return func() tea.Msg {
		if _, ok := <-updates; !ok {
			return nil
		}
		return stateChangedMsg{}
	}
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width, m.height = msg.Width, msg.Height
		return m, nil

	case stateChangedMsg:
		m.refresh()
		return m, waitForChange(m.updates)

	case submitFailedMsg:
		m.status = "Nộp bài thất bại: " + msg.err.Error()
		return m, nil

	case tea.KeyPressMsg:
		return m.handleKey(msg.String())
	}
	return m, nil
}

func (m *Model) refresh() {
	prev := m.snap
	m.snap = m.sess.Snapshot()
	if m.snap.CurrentQuestionIndex != m.lastIndex || m.snap.Phase != prev.Phase {
		m.cursor = 0
		m.lastIndex = m.snap.CurrentQuestionIndex
	}
	if m.snap.Phase != session.Results {
		m.scroll = 0
	}
	if m.snap.Phase != session.Submitting {
		m.status = ""
	}
}

func (m Model) handleKey(key string) (tea.Model, tea.Cmd) {
	if key == "ctrl+c" || key == "q" {
		m.cancel()
		return m, tea.Quit
	}

	switch m.snap.Phase {
	case session.NotStarted:
		return m.handleStartKey(key)
	case session.InProgress, session.Submitting:
		return m.handleQuizKey(key)
	case session.Results:
		return m.handleResultsKey(key)
	}
	return m, nil
}

func (m Model) handleStartKey(key string) (tea.Model, tea.Cmd) {
	switch key {
	case "enter", "space", " ", "s":
		ctx, sess := m.ctx, m.sess
		return m, func() tea.Msg {
			sess.StartQuiz(ctx)
			return nil
		}
	}
	return m, nil
}

func (m Model) handleQuizKey(key string) (tea.Model, tea.Cmd) {
	q, ok := m.snap.CurrentQuestion()
	if !ok {
		return m, nil
	}
	screen := render.BuildQuizScreen(*m.snap.Quiz, m.snap.CurrentQuestionIndex, m.snap.TimeLeft, m.snap.Answers)

	switch key {
	case "up", "k":
		if m.cursor > 0 {
			m.cursor--
		}
	case "down", "j":
		if m.cursor < len(q.Options)-1 {
			m.cursor++
		}
	case "enter", "space", " ":
		m.activate(screen.Card, m.cursor)
	case "left", "h":
		if screen.Nav.Prev {
			m.sess.Navigate(-1)
		}
	case "right", "l":
		if screen.Nav.Next {
			m.sess.Navigate(1)
		}
	case "s":
		if screen.Nav.Submit && m.snap.Phase == session.InProgress {
			ctx, sess := m.ctx, m.sess
			return m, func() tea.Msg {
				if err := sess.Submit(ctx); err != nil {
					return submitFailedMsg{err: err}
				}
				return nil
			}
		}
	default:
		if n, err := strconv.Atoi(key); err == nil {
			m.cursor = min(max(n-1, 0), len(q.Options)-1)
			m.activate(screen.Card, n-1)
		}
	}
	return m, nil
}

func (m Model) activate(card render.QuestionCard, i int) {
	if ev, ok := card.Activate(i); ok {
		m.sess.SelectOption(ev.QuestionID, ev.OptionID, ev.IsMultipleChoice)
	}
}

func (m Model) handleResultsKey(key string) (tea.Model, tea.Cmd) {
	switch key {
	case "up", "k":
		if m.scroll > 0 {
			m.scroll--
		}
	case "down", "j":
		if m.scroll < m.maxScroll() {
			m.scroll++
		}
	case "r":
		m.sess.Retake()
	}
	return m, nil
}

func (m Model) View() tea.View {
	v := tea.NewView(m.Render())
	v.AltScreen = true
	return v
}
