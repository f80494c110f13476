package session

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/gokatarajesh/quiz-desk/internal/journal"
	"github.com/gokatarajesh/quiz-desk/internal/quiz"
)

type mockGateway struct {
	mock.Mock
}

func (m *mockGateway) GetRandomQuizData(ctx context.Context, count int) (quiz.Quiz, error) {
	args := m.Called(ctx, count)
	return args.Get(0).(quiz.Quiz), args.Error(1)
}

func (m *mockGateway) SubmitAnswers(ctx context.Context, answers quiz.AnswerMap, totalQuestions int) (quiz.ScoringResult, error) {
	args := m.Called(ctx, answers, totalQuestions)
	return args.Get(0).(quiz.ScoringResult), args.Error(1)
}

// manualTicker fires only when the test sends on ch.
type manualTicker struct {
	ch      chan time.Time
	stopped atomic.Bool
}

func (t *manualTicker) C() <-chan time.Time { return t.ch }
func (t *manualTicker) Stop()               { t.stopped.Store(true) }

type tickerRecorder struct {
	mu      sync.Mutex
	tickers []*manualTicker
}

func (r *tickerRecorder) factory(time.Duration) Ticker {
	r.mu.Lock()
	defer r.mu.Unlock()
	t := &manualTicker{ch: make(chan time.Time)}
	r.tickers = append(r.tickers, t)
	return t
}

func (r *tickerRecorder) last() *manualTicker {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.tickers[len(r.tickers)-1]
}

type recordingJournal struct {
	mu       sync.Mutex
	attempts []journal.Attempt
	err      error
}

func (j *recordingJournal) Record(_ context.Context, a journal.Attempt) error {
	j.mu.Lock()
	defer j.mu.Unlock()
	j.attempts = append(j.attempts, a)
	return j.err
}

func (j *recordingJournal) Recent(context.Context, int) ([]journal.Attempt, error) {
	return nil, nil
}

func sampleQuiz() quiz.Quiz {
	return quiz.Quiz{
		Title: "Go basics",
		Questions: []quiz.Question{
			{ID: "q1", Text: "Zero value of int?", Options: []quiz.Option{{ID: "a", Text: "0"}, {ID: "b", Text: "nil"}}, CorrectOptionIDs: []string{"a"}},
			{ID: "q2", Text: "Reference types?", Options: []quiz.Option{{ID: "a", Text: "map"}, {ID: "b", Text: "int"}, {ID: "c", Text: "chan"}}, CorrectOptionIDs: []string{"a", "c"}},
		},
	}
}

func sampleResult() quiz.ScoringResult {
	return quiz.ScoringResult{
		Score:             2,
		TotalQuestions:    2,
		PercentageCorrect: 100,
		Results: []quiz.QuestionResult{
			{QuestionID: "q1", IsCorrect: true, SubmittedAnswers: []string{"a"}},
			{QuestionID: "q2", IsCorrect: true, SubmittedAnswers: []string{"c", "a"}},
		},
	}
}

var fixedNow = time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC)

func newTestController(t *testing.T, gw *mockGateway, opts Options) (*Controller, *tickerRecorder) {
	t.Helper()
	tickers := &tickerRecorder{}
	if opts.NewTicker == nil {
		opts.NewTicker = tickers.factory
	}
	if opts.Now == nil {
		opts.Now = func() time.Time { return fixedNow }
	}
	c := New(gw, opts, zerolog.Nop())
	t.Cleanup(c.Close)
	return c, tickers
}

func startedController(t *testing.T, opts Options) (*Controller, *mockGateway, *tickerRecorder) {
	t.Helper()
	gw := new(mockGateway)
	gw.On("GetRandomQuizData", mock.Anything, quiz.DefaultQuestionCount).Return(sampleQuiz(), nil).Once()
	c, tickers := newTestController(t, gw, opts)
	c.StartQuiz(context.Background())
	require.Equal(t, InProgress, c.Snapshot().Phase)
	return c, gw, tickers
}

func TestInitialSnapshot(t *testing.T) {
	c, _ := newTestController(t, new(mockGateway), Options{})
	snap := c.Snapshot()

	assert.Equal(t, NotStarted, snap.Phase)
	assert.Nil(t, snap.Quiz)
	assert.Nil(t, snap.Results)
	assert.Empty(t, snap.Answers)
	assert.Equal(t, 600, snap.TimeLeft)
	assert.False(t, snap.TimerActive)
	assert.False(t, snap.QuizStarted())
	assert.False(t, snap.QuizSubmitted())
}

func TestStartQuizLoadsQuiz(t *testing.T) {
	c, gw, tickers := startedController(t, Options{})
	snap := c.Snapshot()

	assert.Equal(t, "Go basics", snap.Quiz.Title)
	assert.Equal(t, 0, snap.CurrentQuestionIndex)
	assert.Equal(t, 600, snap.TimeLeft)
	assert.True(t, snap.TimerActive)
	assert.True(t, snap.QuizStarted())
	assert.False(t, snap.QuizSubmitted())
	assert.Len(t, tickers.tickers, 1)

	q, ok := snap.CurrentQuestion()
	require.True(t, ok)
	assert.Equal(t, "q1", q.ID)
	gw.AssertExpectations(t)
}

func TestStartQuizIgnoredOutsideNotStarted(t *testing.T) {
	c, gw, _ := startedController(t, Options{})
	c.StartQuiz(context.Background())

	gw.AssertNumberOfCalls(t, "GetRandomQuizData", 1)
	assert.Equal(t, InProgress, c.Snapshot().Phase)
}

func TestStartQuizUsesConfiguredCount(t *testing.T) {
	gw := new(mockGateway)
	gw.On("GetRandomQuizData", mock.Anything, 5).Return(sampleQuiz(), nil).Once()
	c, _ := newTestController(t, gw, Options{QuestionCount: 5, TimeLimit: 90 * time.Second})

	c.StartQuiz(context.Background())
	assert.Equal(t, 90, c.Snapshot().TimeLeft)
	gw.AssertExpectations(t)
}

func TestFetchFailureLeavesLoading(t *testing.T) {
	gw := new(mockGateway)
	gw.On("GetRandomQuizData", mock.Anything, mock.Anything).Return(quiz.Quiz{}, errors.New("connection refused"))
	c, tickers := newTestController(t, gw, Options{})

	c.StartQuiz(context.Background())
	snap := c.Snapshot()
	assert.Equal(t, Loading, snap.Phase)
	assert.Nil(t, snap.Quiz)
	assert.False(t, snap.TimerActive)
	assert.True(t, snap.QuizStarted())
	assert.Empty(t, tickers.tickers)
}

func TestEmptyQuizLeavesLoading(t *testing.T) {
	gw := new(mockGateway)
	gw.On("GetRandomQuizData", mock.Anything, mock.Anything).Return(quiz.Quiz{Title: "empty"}, nil)
	c, _ := newTestController(t, gw, Options{})

	c.StartQuiz(context.Background())
	assert.Equal(t, Loading, c.Snapshot().Phase)
	assert.Nil(t, c.Snapshot().Quiz)
}

func TestSelectOptionSingleReplaces(t *testing.T) {
	c, _, _ := startedController(t, Options{})

	c.SelectOption("q1", "a", false)
	c.SelectOption("q1", "b", false)

	assert.Equal(t, quiz.AnswerMap{"q1": {"b"}}, c.Snapshot().Answers)
}

func TestSelectOptionMultiToggles(t *testing.T) {
	c, _, _ := startedController(t, Options{})

	c.SelectOption("q2", "c", true)
	c.SelectOption("q2", "a", true)
	assert.Equal(t, []string{"c", "a"}, c.Snapshot().Answers["q2"])

	c.SelectOption("q2", "c", true)
	assert.Equal(t, []string{"a"}, c.Snapshot().Answers["q2"])

	c.SelectOption("q2", "a", true)
	assert.Empty(t, c.Snapshot().Answers["q2"])
}

func TestSelectOptionOnlyTouchesTarget(t *testing.T) {
	c, _, _ := startedController(t, Options{})
	c.SelectOption("q1", "a", false)
	c.SelectOption("q2", "c", true)

	c.SelectOption("q2", "a", true)
	assert.Equal(t, []string{"a"}, c.Snapshot().Answers["q1"])
}

func TestSelectOptionIgnoredBeforeStart(t *testing.T) {
	c, _ := newTestController(t, new(mockGateway), Options{})
	c.SelectOption("q1", "a", false)
	assert.Empty(t, c.Snapshot().Answers)
}

func TestSnapshotAnswersAreCopies(t *testing.T) {
	c, _, _ := startedController(t, Options{})
	c.SelectOption("q2", "a", true)

	snap := c.Snapshot()
	snap.Answers["q2"][0] = "b"
	snap.Answers["q9"] = []string{"x"}

	assert.Equal(t, quiz.AnswerMap{"q2": {"a"}}, c.Snapshot().Answers)
}

func TestNavigateClamps(t *testing.T) {
	c, _, _ := startedController(t, Options{})

	c.Prev()
	assert.Equal(t, 0, c.Snapshot().CurrentQuestionIndex)

	c.Next()
	assert.Equal(t, 1, c.Snapshot().CurrentQuestionIndex)

	c.Next()
	assert.Equal(t, 1, c.Snapshot().CurrentQuestionIndex)

	c.Navigate(-5)
	assert.Equal(t, 0, c.Snapshot().CurrentQuestionIndex)
}

func TestNavigationKeepsAnswersAndTimer(t *testing.T) {
	c, _, _ := startedController(t, Options{})
	c.SelectOption("q1", "a", false)
	c.Tick(context.Background())

	c.Next()
	c.Prev()

	snap := c.Snapshot()
	assert.Equal(t, []string{"a"}, snap.Answers["q1"])
	assert.Equal(t, 599, snap.TimeLeft)
}

func TestSubmitSendsAnswersVerbatim(t *testing.T) {
	j := &recordingJournal{}
	c, gw, tickers := startedController(t, Options{Journal: j})
	c.SelectOption("q1", "a", false)
	c.SelectOption("q2", "c", true)
	c.SelectOption("q2", "a", true)

	expected := quiz.AnswerMap{"q1": {"a"}, "q2": {"c", "a"}}
	gw.On("SubmitAnswers", mock.Anything, expected, 2).Return(sampleResult(), nil).Once()

	require.NoError(t, c.Submit(context.Background()))

	snap := c.Snapshot()
	assert.Equal(t, Results, snap.Phase)
	require.NotNil(t, snap.Results)
	assert.Equal(t, 2, snap.Results.Score)
	assert.False(t, snap.TimerActive)
	assert.True(t, snap.QuizSubmitted())
	require.Eventually(t, tickers.last().stopped.Load, time.Second, 5*time.Millisecond)
	gw.AssertExpectations(t)

	require.Len(t, j.attempts, 1)
	assert.Equal(t, "Go basics", j.attempts[0].QuizTitle)
	assert.Equal(t, 2, j.attempts[0].Answered)
	assert.False(t, j.attempts[0].AutoSubmitted)
}

func TestSubmitWithNoAnswers(t *testing.T) {
	c, gw, _ := startedController(t, Options{})
	gw.On("SubmitAnswers", mock.Anything, quiz.AnswerMap{}, 2).Return(quiz.ScoringResult{TotalQuestions: 2}, nil).Once()

	require.NoError(t, c.Submit(context.Background()))
	assert.Equal(t, Results, c.Snapshot().Phase)
}

func TestSubmitFailureStaysSubmitting(t *testing.T) {
	c, gw, _ := startedController(t, Options{})
	gw.On("SubmitAnswers", mock.Anything, mock.Anything, 2).Return(quiz.ScoringResult{}, errors.New("scorer down")).Once()

	err := c.Submit(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "scorer down")

	snap := c.Snapshot()
	assert.Equal(t, Submitting, snap.Phase)
	assert.True(t, snap.QuizStarted())
	assert.False(t, snap.QuizSubmitted())
	assert.Nil(t, snap.Results)
	assert.False(t, snap.TimerActive)

	c.Tick(context.Background())
	assert.Equal(t, 600, c.Snapshot().TimeLeft)
	assert.ErrorIs(t, c.Submit(context.Background()), ErrNotInProgress)
	gw.AssertNumberOfCalls(t, "SubmitAnswers", 1)
}

func TestSubmitRejectedBeforeStart(t *testing.T) {
	c, _ := newTestController(t, new(mockGateway), Options{})
	assert.ErrorIs(t, c.Submit(context.Background()), ErrNotInProgress)
}

func TestDoubleSubmitRejected(t *testing.T) {
	c, gw, _ := startedController(t, Options{})
	release := make(chan struct{})
	gw.On("SubmitAnswers", mock.Anything, mock.Anything, 2).
		Run(func(mock.Arguments) { <-release }).
		Return(sampleResult(), nil).Once()

	done := make(chan error, 1)
	go func() { done <- c.Submit(context.Background()) }()

	require.Eventually(t, func() bool { return c.Snapshot().Phase == Submitting }, time.Second, 5*time.Millisecond)
	assert.ErrorIs(t, c.Submit(context.Background()), ErrNotInProgress)

	close(release)
	require.NoError(t, <-done)
	assert.Equal(t, Results, c.Snapshot().Phase)
	gw.AssertNumberOfCalls(t, "SubmitAnswers", 1)
}

func TestTimerExpiryAutoSubmitsOnce(t *testing.T) {
	j := &recordingJournal{}
	c, gw, _ := startedController(t, Options{Journal: j})
	c.SelectOption("q1", "b", false)
	gw.On("SubmitAnswers", mock.Anything, quiz.AnswerMap{"q1": {"b"}}, 2).Return(sampleResult(), nil).Once()

	for i := 0; i < 599; i++ {
		c.Tick(context.Background())
	}
	snap := c.Snapshot()
	assert.Equal(t, 1, snap.TimeLeft)
	assert.Equal(t, InProgress, snap.Phase)
	gw.AssertNotCalled(t, "SubmitAnswers", mock.Anything, mock.Anything, mock.Anything)

	c.Tick(context.Background())
	snap = c.Snapshot()
	assert.Equal(t, 0, snap.TimeLeft)
	assert.Equal(t, Results, snap.Phase)

	for i := 0; i < 5; i++ {
		c.Tick(context.Background())
	}
	assert.Equal(t, 0, c.Snapshot().TimeLeft)
	gw.AssertNumberOfCalls(t, "SubmitAnswers", 1)

	require.Len(t, j.attempts, 1)
	assert.True(t, j.attempts[0].AutoSubmitted)
}

func TestTickerDrivesCountdown(t *testing.T) {
	c, gw, tickers := startedController(t, Options{TimeLimit: 2 * time.Second})
	gw.On("SubmitAnswers", mock.Anything, mock.Anything, 2).Return(sampleResult(), nil).Once()
	ticker := tickers.last()

	ticker.ch <- fixedNow
	require.Eventually(t, func() bool { return c.Snapshot().TimeLeft == 1 }, time.Second, 5*time.Millisecond)

	ticker.ch <- fixedNow
	require.Eventually(t, func() bool { return c.Snapshot().Phase == Results }, time.Second, 5*time.Millisecond)
	require.Eventually(t, ticker.stopped.Load, time.Second, 5*time.Millisecond)
	gw.AssertExpectations(t)
}

func TestRetakeResetsWithoutRefetch(t *testing.T) {
	c, gw, tickers := startedController(t, Options{})
	c.SelectOption("q1", "a", false)
	c.Next()
	c.Tick(context.Background())
	gw.On("SubmitAnswers", mock.Anything, mock.Anything, 2).Return(sampleResult(), nil).Once()
	require.NoError(t, c.Submit(context.Background()))

	c.Retake()

	snap := c.Snapshot()
	assert.Equal(t, NotStarted, snap.Phase)
	assert.Nil(t, snap.Quiz)
	assert.Nil(t, snap.Results)
	assert.Empty(t, snap.Answers)
	assert.Equal(t, 600, snap.TimeLeft)
	assert.Equal(t, 0, snap.CurrentQuestionIndex)
	assert.False(t, snap.TimerActive)
	require.Eventually(t, tickers.last().stopped.Load, time.Second, 5*time.Millisecond)
	gw.AssertNumberOfCalls(t, "GetRandomQuizData", 1)
}

func TestRetakeDuringInProgressStopsTimer(t *testing.T) {
	c, _, tickers := startedController(t, Options{})
	c.Retake()

	require.Eventually(t, tickers.last().stopped.Load, time.Second, 5*time.Millisecond)
	c.Tick(context.Background())
	assert.Equal(t, 600, c.Snapshot().TimeLeft)
}

func TestStaleFetchIsDiscarded(t *testing.T) {
	gw := new(mockGateway)
	release := make(chan struct{})
	gw.On("GetRandomQuizData", mock.Anything, mock.Anything).
		Run(func(mock.Arguments) { <-release }).
		Return(sampleQuiz(), nil).Once()
	c, tickers := newTestController(t, gw, Options{})

	done := make(chan struct{})
	go func() {
		c.StartQuiz(context.Background())
		close(done)
	}()
	require.Eventually(t, func() bool { return c.Snapshot().Phase == Loading }, time.Second, 5*time.Millisecond)

	c.Retake()
	close(release)
	<-done

	snap := c.Snapshot()
	assert.Equal(t, NotStarted, snap.Phase)
	assert.Nil(t, snap.Quiz)
	assert.Empty(t, tickers.tickers)
}

type countingObserver struct {
	mu                         sync.Mutex
	fetches, submits, selected int
	autoSubmits                int
	scored                     []quiz.ScoringResult
}

func (o *countingObserver) FetchDone(time.Duration, error) {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.fetches++
}

func (o *countingObserver) SubmitDone(_ time.Duration, auto bool, _ error) {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.submits++
	if auto {
		o.autoSubmits++
	}
}

func (o *countingObserver) Selection(bool) {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.selected++
}

func (o *countingObserver) Scored(res quiz.ScoringResult) {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.scored = append(o.scored, res)
}

func TestObserverSeesSessionEvents(t *testing.T) {
	obs := &countingObserver{}
	c, gw, _ := startedController(t, Options{Observer: obs, TimeLimit: time.Second})
	gw.On("SubmitAnswers", mock.Anything, mock.Anything, 2).Return(sampleResult(), nil).Once()

	c.SelectOption("q1", "a", false)
	c.Tick(context.Background())

	assert.Equal(t, 1, obs.fetches)
	assert.Equal(t, 1, obs.selected)
	assert.Equal(t, 1, obs.submits)
	assert.Equal(t, 1, obs.autoSubmits)
	assert.Len(t, obs.scored, 1)
}

func TestJournalFailureDoesNotAffectResults(t *testing.T) {
	j := &recordingJournal{err: errors.New("redis down")}
	c, gw, _ := startedController(t, Options{Journal: j})
	gw.On("SubmitAnswers", mock.Anything, mock.Anything, 2).Return(sampleResult(), nil).Once()

	require.NoError(t, c.Submit(context.Background()))
	assert.Equal(t, Results, c.Snapshot().Phase)
}

func TestSubscribeCoalesces(t *testing.T) {
	c, _, _ := startedController(t, Options{})
	updates, cancel := c.Subscribe()

	c.SelectOption("q1", "a", false)
	c.SelectOption("q1", "b", false)
	c.Next()

	select {
	case <-updates:
	default:
		t.Fatal("expected a pending notification")
	}
	select {
	case <-updates:
		t.Fatal("notifications should coalesce")
	default:
	}

	cancel()
	_, open := <-updates
	assert.False(t, open)
	cancel()
}

func TestCloseClosesSubscriptions(t *testing.T) {
	c, _, tickers := startedController(t, Options{})
	updates, _ := c.Subscribe()

	c.Close()

	_, open := <-updates
	assert.False(t, open)
	require.Eventually(t, tickers.last().stopped.Load, time.Second, 5*time.Millisecond)
	c.StartQuiz(context.Background())
}

func TestPhaseString(t *testing.T) {
	assert.Equal(t, "in_progress", InProgress.String())
	assert.Equal(t, "unknown", Phase(42).String())
	text, err := Results.MarshalText()
	require.NoError(t, err)
	assert.Equal(t, "results", string(text))
}
