package cli

import (
	"fmt"
	"strconv"
	"time"

	"charm.land/lipgloss/v2"
	"charm.land/lipgloss/v2/table"
	"github.com/spf13/cobra"

	"github.com/gokatarajesh/quiz-desk/internal/app"
	"github.com/gokatarajesh/quiz-desk/internal/config"
	"github.com/gokatarajesh/quiz-desk/internal/journal"
)

// NewHistoryCmd lists recently recorded attempts.
func NewHistoryCmd() *cobra.Command {
	var limit int
	cmd := &cobra.Command{
		Use:   "history",
		Short: "Show recent quiz attempts from the journal",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load()
			if err != nil {
				return err
			}
			if cfg.Journal.Driver == journal.DriverNone {
				fmt.Fprintln(cmd.OutOrStdout(), "journal disabled; set JOURNAL_DRIVER=redis or postgres")
				return nil
			}

			rec, closeJournal, err := app.OpenJournal(cmd.Context(), cfg)
			if err != nil {
				return err
			}
			defer closeJournal()

			attempts, err := rec.Recent(cmd.Context(), limit)
			if err != nil {
				return err
			}
			if len(attempts) == 0 {
				fmt.Fprintln(cmd.OutOrStdout(), "no attempts recorded yet")
				return nil
			}
			fmt.Fprintln(cmd.OutOrStdout(), attemptsTable(attempts))
			return nil
		},
	}
	cmd.Flags().IntVar(&limit, "limit", 10, "number of attempts to show")
	return cmd
}

func attemptsTable(attempts []journal.Attempt) string {
	t := table.New().
		Border(lipgloss.NormalBorder()).
		Headers("Finished", "Quiz", "Score", "%", "Answered", "Time", "Auto")
	for _, a := range attempts {
		auto := ""
		if a.AutoSubmitted {
			auto = "yes"
		}
		t.Row(
			a.FinishedAt.Local().Format(time.DateTime),
			a.QuizTitle,
			fmt.Sprintf("%d/%d", a.Score, a.TotalQuestions),
			strconv.FormatFloat(a.Percentage, 'f', 2, 64),
			strconv.Itoa(a.Answered),
			a.Duration().Round(time.Second).String(),
			auto,
		)
	}
	return t.String()
}
