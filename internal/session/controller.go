// Package session owns the quiz-taking state machine:
// NotStarted → Loading → InProgress → Submitting → Results → NotStarted.
package session

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"github.com/gokatarajesh/quiz-desk/internal/backend"
	"github.com/gokatarajesh/quiz-desk/internal/journal"
	"github.com/gokatarajesh/quiz-desk/internal/quiz"
)

// Observer receives session events for instrumentation.
type Observer interface {
	FetchDone(elapsed time.Duration, err error)
	SubmitDone(elapsed time.Duration, auto bool, err error)
	Selection(multi bool)
	Scored(res quiz.ScoringResult)
}

type nopObserver struct{}

func (nopObserver) FetchDone(time.Duration, error)        {}
func (nopObserver) SubmitDone(time.Duration, bool, error) {}
func (nopObserver) Selection(bool)                        {}
func (nopObserver) Scored(quiz.ScoringResult)             {}

// Options tunes a Controller. Zero values take the defaults.
type Options struct {
	QuestionCount int
	TimeLimit     time.Duration
	TickInterval  time.Duration
	NewTicker     TickerFactory
	Observer      Observer
	Journal       journal.Recorder
	Now           func() time.Time
}

func (o Options) withDefaults() Options {
	if o.QuestionCount <= 0 {
		o.QuestionCount = quiz.DefaultQuestionCount
	}
	if o.TimeLimit <= 0 {
		o.TimeLimit = 600 * time.Second
	}
	if o.TickInterval <= 0 {
		o.TickInterval = time.Second
	}
	if o.NewTicker == nil {
		o.NewTicker = NewStdTicker
	}
	if o.Observer == nil {
		o.Observer = nopObserver{}
	}
	if o.Journal == nil {
		o.Journal = journal.Nop{}
	}
	if o.Now == nil {
		o.Now = time.Now
	}
	return o
}

// Controller is the single owner of session state. Methods are safe for
// concurrent use; gateway calls run without holding the lock.
type Controller struct {
	gw     backend.Gateway
	opts   Options
	logger zerolog.Logger

	mu          sync.Mutex
	phase       Phase
	quiz        *quiz.Quiz
	answers     quiz.AnswerMap
	results     *quiz.ScoringResult
	timeLeft    int
	index       int
	startedAt   time.Time
	epoch       uint64
	timerCancel context.CancelFunc
	closed      bool

	subMu sync.Mutex
	subs  map[chan struct{}]struct{}
}

func New(gw backend.Gateway, opts Options, logger zerolog.Logger) *Controller {
	opts = opts.withDefaults()
	c := &Controller{
		gw:     gw,
		opts:   opts,
		logger: logger.With().Str("component", "session").Logger(),
		subs:   make(map[chan struct{}]struct{}),
	}
	c.resetLocked()
	return c
}

func (c *Controller) limitSeconds() int {
	return int(c.opts.TimeLimit / time.Second)
}

// resetLocked restores the initial state. Caller holds c.mu or owns c.
func (c *Controller) resetLocked() {
	c.phase = NotStarted
	c.quiz = nil
	c.answers = quiz.AnswerMap{}
	c.results = nil
	c.timeLeft = c.limitSeconds()
	c.index = 0
	c.startedAt = time.Time{}
}

// StartQuiz moves NotStarted → Loading and fetches a quiz. It blocks until
// the fetch finishes. A failed fetch is logged and leaves the session in
// Loading with no quiz.
func (c *Controller) StartQuiz(ctx context.Context) {
	c.mu.Lock()
	if c.closed || c.phase != NotStarted {
		c.mu.Unlock()
		return
	}
	c.phase = Loading
	epoch := c.epoch
	c.mu.Unlock()
	c.notify()

	c.fetchQuiz(ctx, epoch)
}

func (c *Controller) fetchQuiz(ctx context.Context, epoch uint64) {
	start := c.opts.Now()
	q, err := c.gw.GetRandomQuizData(ctx, c.opts.QuestionCount)
	if err == nil {
		err = q.Validate()
	}
	c.opts.Observer.FetchDone(c.opts.Now().Sub(start), err)
	if err != nil {
		c.logger.Error().Err(err).Int("count", c.opts.QuestionCount).Msg("failed to fetch quiz")
		return
	}

	c.mu.Lock()
	if c.epoch != epoch || c.phase != Loading {
		c.mu.Unlock()
		c.logger.Debug().Msg("discarding quiz fetched for an abandoned session")
		return
	}
	c.quiz = &q
	c.index = 0
	c.timeLeft = c.limitSeconds()
	c.startedAt = c.opts.Now()
	c.phase = InProgress
	c.startTimerLocked()
	c.mu.Unlock()

	c.logger.Info().Str("title", q.Title).Int("questions", len(q.Questions)).Msg("quiz started")
	c.notify()
}

// SelectOption records a choice. Single-select replaces the entry; multi-select
// toggles the option, keeping insertion order. Ignored unless a quiz is on
// screen.
func (c *Controller) SelectOption(questionID, optionID string, multi bool) {
	c.mu.Lock()
	if c.phase != InProgress && c.phase != Submitting {
		c.mu.Unlock()
		return
	}
	current := c.answers[questionID]
	if multi {
		c.answers[questionID] = toggle(current, optionID)
	} else {
		c.answers[questionID] = []string{optionID}
	}
	c.mu.Unlock()

	c.opts.Observer.Selection(multi)
	c.notify()
}

func toggle(selected []string, optionID string) []string {
	next := make([]string, 0, len(selected)+1)
	removed := false
	for _, id := range selected {
		if id == optionID {
			removed = true
			continue
		}
		next = append(next, id)
	}
	if !removed {
		next = append(next, optionID)
	}
	return next
}

// Navigate moves the current index by delta, clamped to the question range.
func (c *Controller) Navigate(delta int) {
	c.mu.Lock()
	if c.quiz == nil || (c.phase != InProgress && c.phase != Submitting) {
		c.mu.Unlock()
		return
	}
	last := len(c.quiz.Questions) - 1
	next := min(max(c.index+delta, 0), last)
	changed := next != c.index
	c.index = next
	c.mu.Unlock()

	if changed {
		c.notify()
	}
}

func (c *Controller) Next() { c.Navigate(1) }
func (c *Controller) Prev() { c.Navigate(-1) }

// Submit stops the timer and sends the answers for scoring. Only valid from
// InProgress. On failure the session stays in Submitting.
func (c *Controller) Submit(ctx context.Context) error {
	return c.submit(ctx, false)
}

func (c *Controller) submit(ctx context.Context, auto bool) error {
	c.mu.Lock()
	if c.phase != InProgress {
		c.mu.Unlock()
		return ErrNotInProgress
	}
	c.stopTimerLocked()
	c.phase = Submitting
	answers := c.answers.Clone()
	q := *c.quiz
	startedAt := c.startedAt
	epoch := c.epoch
	c.mu.Unlock()
	c.notify()

	start := c.opts.Now()
	res, err := c.gw.SubmitAnswers(ctx, answers, len(q.Questions))
	c.opts.Observer.SubmitDone(c.opts.Now().Sub(start), auto, err)
	if err != nil {
		c.logger.Error().Err(err).Bool("auto", auto).Msg("failed to submit answers")
		return fmt.Errorf("submit answers: %w", err)
	}

	c.mu.Lock()
	if c.epoch != epoch || c.phase != Submitting {
		c.mu.Unlock()
		c.logger.Debug().Msg("discarding score for an abandoned session")
		return nil
	}
	c.results = &res
	c.phase = Results
	c.mu.Unlock()

	c.logger.Info().
		Int("score", res.Score).
		Int("total", res.TotalQuestions).
		Str("percentage", res.PercentageCorrect.String()).
		Bool("auto", auto).
		Msg("quiz scored")
	c.opts.Observer.Scored(res)
	c.notify()

	attempt := journal.NewAttempt(q, answers, res, startedAt, c.opts.Now(), auto)
	if err := c.opts.Journal.Record(ctx, attempt); err != nil {
		c.logger.Warn().Err(err).Str("attempt_id", attempt.ID.String()).Msg("journal write failed")
	}
	return nil
}

// Tick advances the countdown by one step. At zero it submits once.
func (c *Controller) Tick(ctx context.Context) {
	c.mu.Lock()
	if c.phase != InProgress {
		c.mu.Unlock()
		return
	}
	if c.timeLeft > 0 {
		c.timeLeft--
	}
	expired := c.timeLeft == 0
	c.mu.Unlock()
	c.notify()

	if !expired {
		return
	}
	c.logger.Info().Msg("time is up, submitting")
	if err := c.submit(ctx, true); err != nil && !errors.Is(err, ErrNotInProgress) {
		c.logger.Warn().Err(err).Msg("automatic submission failed")
	}
}

// Retake clears every field and returns to the start screen without refetching.
func (c *Controller) Retake() {
	c.mu.Lock()
	c.stopTimerLocked()
	c.epoch++
	c.resetLocked()
	c.mu.Unlock()

	c.notify()
}

// Snapshot copies the current state.
func (c *Controller) Snapshot() Snapshot {
	c.mu.Lock()
	defer c.mu.Unlock()

	return Snapshot{
		Phase:                c.phase,
		Quiz:                 c.quiz,
		Answers:              c.answers.Clone(),
		Results:              c.results,
		TimeLeft:             c.timeLeft,
		TimerActive:          c.phase == InProgress,
		CurrentQuestionIndex: c.index,
	}
}

// Subscribe returns a channel that receives a value after state changes.
// Notifications coalesce: a slow reader sees at least one pending signal,
// never a backlog. The returned func unsubscribes and closes the channel.
func (c *Controller) Subscribe() (<-chan struct{}, func()) {
	ch := make(chan struct{}, 1)

	c.subMu.Lock()
	c.subs[ch] = struct{}{}
	c.subMu.Unlock()

	cancel := func() {
		c.subMu.Lock()
		if _, ok := c.subs[ch]; ok {
			delete(c.subs, ch)
			close(ch)
		}
		c.subMu.Unlock()
	}
	return ch, cancel
}

func (c *Controller) notify() {
	c.subMu.Lock()
	defer c.subMu.Unlock()

	for ch := range c.subs {
		select {
		case ch <- struct{}{}:
		default:
		}
	}
}

// Close stops the timer, discards in-flight results and closes subscriptions.
func (c *Controller) Close() {
	c.mu.Lock()
	c.stopTimerLocked()
	c.epoch++
	c.closed = true
	c.mu.Unlock()

	c.subMu.Lock()
	for ch := range c.subs {
		delete(c.subs, ch)
		close(ch)
	}
	c.subMu.Unlock()
}
