package tui

import (
	"strconv"
	"strings"

	"charm.land/lipgloss/v2"

	"github.com/gokatarajesh/quiz-desk/internal/markup"
	"github.com/gokatarajesh/quiz-desk/internal/render"
	"github.com/gokatarajesh/quiz-desk/internal/session"
)

const lowTimeSeconds = 60

// Render draws the current screen as a string.
func (m Model) Render() string {
	var body string
	switch {
	case m.snap.Phase == session.NotStarted:
		body = m.renderStart()
	case m.snap.Phase == session.Results && m.snap.Results != nil && m.snap.Quiz != nil:
		body = m.renderResults()
	case m.snap.Quiz == nil || len(m.snap.Quiz.Questions) == 0:
		body = render.LoadingText
	default:
		body = m.renderQuiz()
	}
	return m.styles.Frame.Render(body)
}

func (m Model) renderStart() string {
	screen := render.BuildStartScreen(m.cfg.QuestionCount, m.cfg.TimeLimit)
	var b strings.Builder
	b.WriteString(m.styles.Title.Render(screen.Title) + "\n\n")
	b.WriteString(m.styles.Prose.Render(screen.Body) + "\n")
	b.WriteString(m.styles.Prose.Render(screen.Luck) + "\n\n")
	b.WriteString(m.styles.NavActive.Render(screen.Action) + "\n\n")
	b.WriteString(m.styles.Help.Render("enter: bắt đầu • q: thoát"))
	return b.String()
}

func (m Model) renderBlocks(b *strings.Builder, blocks []markup.Segment) {
	for _, seg := range blocks {
		switch seg.Kind {
		case markup.Code:
			if seg.Language != "" {
				b.WriteString(m.styles.CodeLang.Render(seg.Language) + "\n")
			}
			b.WriteString(m.styles.Code.Render(seg.Text) + "\n")
		default:
			if text := strings.TrimSpace(seg.Text); text != "" {
				b.WriteString(m.styles.Prose.Render(seg.Text) + "\n")
			}
		}
	}
}

func (m Model) renderQuiz() string {
	screen := render.BuildQuizScreen(*m.snap.Quiz, m.snap.CurrentQuestionIndex, m.snap.TimeLeft, m.snap.Answers)
	var b strings.Builder

	b.WriteString(m.styles.Title.Render(screen.Title) + "\n")
	timer := m.styles.Timer
	if m.snap.TimeLeft <= lowTimeSeconds {
		timer = m.styles.TimerLow
	}
	b.WriteString(timer.Render(screen.Timer) + "\n\n")

	b.WriteString(m.styles.Header.Render(screen.Card.Header) + "\n")
	m.renderBlocks(&b, screen.Card.Blocks)
	if screen.Card.Hint != "" {
		b.WriteString(m.styles.Hint.Render(screen.Card.Hint) + "\n")
	}
	b.WriteString("\n")

	for i, opt := range screen.Card.Options {
		pointer := "  "
		if i == m.cursor {
			pointer = m.styles.Cursor.Render("> ")
		}
		line := opt.Label + ". " + opt.Text
		style := m.styles.Option
		if opt.Selected {
			line += " " + opt.Mark()
			style = m.styles.Selected
		}
		b.WriteString(pointer + style.Render(line) + "\n")
	}
	b.WriteString("\n")

	var nav []string
	if screen.Nav.Prev {
		nav = append(nav, m.styles.NavActive.Render("← "+render.PrevLabel))
	}
	if screen.Nav.Next {
		nav = append(nav, m.styles.NavActive.Render(render.NextLabel+" →"))
	}
	if screen.Nav.Submit {
		style := m.styles.NavActive
		if m.snap.Phase == session.Submitting {
			style = m.styles.NavMuted
		}
		nav = append(nav, style.Render("s: "+render.SubmitLabel))
	}
	b.WriteString(strings.Join(nav, "  ") + "\n")

	if m.status != "" {
		b.WriteString(m.styles.Status.Render(m.status) + "\n")
	}
	b.WriteString(m.styles.Help.Render("↑/↓ chọn • enter/space đánh dấu • ←/→ chuyển câu • q thoát"))
	return b.String()
}

func (m Model) renderResults() string {
	lines := window(m.resultLines(), m.scroll, m.resultsHeight())
	footer := m.styles.NavActive.Render("r: "+render.RetakeLabel) + "\n" +
		m.styles.Help.Render("↑/↓ cuộn • q thoát")
	return strings.Join(lines, "\n") + "\n" + footer
}

func (m Model) resultLines() []string {
	report := render.BuildResultsReport(*m.snap.Quiz, *m.snap.Results)
	var b strings.Builder

	b.WriteString(m.styles.Title.Render(report.Heading) + "\n")
	b.WriteString(m.styles.Header.Render(report.ScoreLine) + "\n")
	b.WriteString(m.styles.Header.Render(report.PercentLine) + "\n\n")
	b.WriteString(m.styles.Header.Render(report.Details) + "\n")

	for i, q := range report.Questions {
		b.WriteString("\n" + m.styles.Header.Render(strings.TrimSpace(
			strings.Join([]string{strconv.Itoa(i + 1) + ".", q.Title, q.Marker}, " "))) + "\n")
		m.renderBlocks(&b, q.Blocks)
		for _, opt := range q.Options {
			b.WriteString("  " + m.outcomeStyle(opt.Status).Render(opt.Line()) + "\n")
		}
		if q.CorrectAnswers != "" {
			b.WriteString(m.styles.Missed.Render(q.CorrectAnswers) + "\n")
		}
	}
	return strings.Split(b.String(), "\n")
}

// resultsHeight leaves room for the footer.
func (m Model) resultsHeight() int {
	return m.height - 4
}

// maxScroll is the largest offset that still fills the window.
func (m Model) maxScroll() int {
	height := m.resultsHeight()
	if height <= 0 || m.snap.Quiz == nil || m.snap.Results == nil {
		return 0
	}
	return max(len(m.resultLines())-height, 0)
}

func (m Model) outcomeStyle(status render.OptionStatus) lipgloss.Style {
	switch status {
	case render.CorrectSubmitted:
		return m.styles.Correct
	case render.CorrectMissed:
		return m.styles.Missed
	case render.WrongSubmitted:
		return m.styles.Wrong
	default:
		return m.styles.Neutral
	}
}

// window returns at most height lines starting at offset. A non-positive
// height means the terminal size is unknown and everything is shown.
func window(lines []string, offset, height int) []string {
	if height <= 0 {
		return lines
	}
	offset = min(max(offset, 0), max(len(lines)-height, 0))
	end := min(offset+height, len(lines))
	return lines[offset:end]
}
