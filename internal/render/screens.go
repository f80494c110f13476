package render

import (
	"time"

	"github.com/gokatarajesh/quiz-desk/internal/quiz"
)

// StartScreen is shown before a quiz is requested.
type StartScreen struct {
	Title  string
	Body   string
	Luck   string
	Action string
}

// BuildStartScreen fills the welcome copy with the session's limits.
func BuildStartScreen(questions int, limit time.Duration) StartScreen {
	return StartScreen{
		Title:  WelcomeTitle,
		Body:   welcomeBody(int(limit/time.Minute), questions),
		Luck:   WelcomeLuck,
		Action: StartLabel,
	}
}

// Navigation lists the controls offered for the current index. Bounds live
// here: prev only past the first question, next only before the last one,
// submit only on the last one.
type Navigation struct {
	Prev   bool
	Next   bool
	Submit bool
}

// NavigationFor computes the controls for index within total questions.
func NavigationFor(index, total int) Navigation {
	last := total - 1
	return Navigation{
		Prev:   index > 0,
		Next:   index < last,
		Submit: index == last,
	}
}

// QuizScreen is the in-progress view.
type QuizScreen struct {
	Title string
	Timer string
	Card  QuestionCard
	Nav   Navigation
}

// BuildQuizScreen projects the in-progress state. The quiz must hold at
// least one question.
func BuildQuizScreen(q quiz.Quiz, index, timeLeft int, answers quiz.AnswerMap) QuizScreen {
	total := len(q.Questions)
	return QuizScreen{
		Title: q.Title,
		Timer: timerLine(timeLeft),
		Card:  BuildQuestionCard(q.Questions[index], index, total, answers),
		Nav:   NavigationFor(index, total),
	}
}
