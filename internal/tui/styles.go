package tui

import "charm.land/lipgloss/v2"

// Styles holds the lipgloss styles for every screen.
type Styles struct {
	Frame     lipgloss.Style
	Title     lipgloss.Style
	Header    lipgloss.Style
	Timer     lipgloss.Style
	TimerLow  lipgloss.Style
	Prose     lipgloss.Style
	Code      lipgloss.Style
	CodeLang  lipgloss.Style
	Hint      lipgloss.Style
	Option    lipgloss.Style
	Cursor    lipgloss.Style
	Selected  lipgloss.Style
	NavActive lipgloss.Style
	NavMuted  lipgloss.Style
	Correct   lipgloss.Style
	Wrong     lipgloss.Style
	Missed    lipgloss.Style
	Neutral   lipgloss.Style
	Status    lipgloss.Style
	Help      lipgloss.Style
}

var (
	colorAccent  = lipgloss.Color("#7D56F4")
	colorText    = lipgloss.Color("#E4E4E7")
	colorDim     = lipgloss.Color("#71717A")
	colorSuccess = lipgloss.Color("#22C55E")
	colorError   = lipgloss.Color("#EF4444")
	colorWarn    = lipgloss.Color("#F59E0B")
	colorCodeBg  = lipgloss.Color("#27272A")
)

// DefaultStyles returns the standard palette.
func DefaultStyles() Styles {
	return Styles{
		Frame:     lipgloss.NewStyle().Padding(1, 2),
		Title:     lipgloss.NewStyle().Foreground(colorAccent).Bold(true),
		Header:    lipgloss.NewStyle().Foreground(colorText).Bold(true),
		Timer:     lipgloss.NewStyle().Foreground(colorDim),
		TimerLow:  lipgloss.NewStyle().Foreground(colorError).Bold(true),
		Prose:     lipgloss.NewStyle().Foreground(colorText),
		Code:      lipgloss.NewStyle().Foreground(colorText).Background(colorCodeBg).Padding(0, 1),
		CodeLang:  lipgloss.NewStyle().Foreground(colorDim).Italic(true),
		Hint:      lipgloss.NewStyle().Foreground(colorWarn).Italic(true),
		Option:    lipgloss.NewStyle().Foreground(colorText),
		Cursor:    lipgloss.NewStyle().Foreground(colorAccent).Bold(true),
		Selected:  lipgloss.NewStyle().Foreground(colorSuccess).Bold(true),
		NavActive: lipgloss.NewStyle().Foreground(colorAccent).Border(lipgloss.RoundedBorder()).BorderForeground(colorAccent).Padding(0, 1),
		NavMuted:  lipgloss.NewStyle().Foreground(colorDim).Border(lipgloss.RoundedBorder()).BorderForeground(colorDim).Padding(0, 1),
		Correct:   lipgloss.NewStyle().Foreground(colorSuccess).Bold(true),
		Wrong:     lipgloss.NewStyle().Foreground(colorError).Bold(true),
		Missed:    lipgloss.NewStyle().Foreground(colorWarn),
		Neutral:   lipgloss.NewStyle().Foreground(colorDim),
		Status:    lipgloss.NewStyle().Foreground(colorWarn),
		Help:      lipgloss.NewStyle().Foreground(colorDim),
	}
}

// PlainStyles renders without colors or borders, for tests and dumb terminals.
func PlainStyles() Styles {
	plain := lipgloss.NewStyle()
	return Styles{
		Frame: plain, Title: plain, Header: plain, Timer: plain, TimerLow: plain,
		Prose: plain, Code: plain, CodeLang: plain, Hint: plain, Option: plain,
		Cursor: plain, Selected: plain, NavActive: plain, NavMuted: plain,
		Correct: plain, Wrong: plain, Missed: plain, Neutral: plain,
		Status: plain, Help: plain,
	}
}
