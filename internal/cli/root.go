// Package cli holds the quizdesk cobra commands.
package cli

import (
	"context"

	"github.com/spf13/cobra"
)

// Execute runs the CLI.
func Execute(ctx context.Context) error {
	return NewRootCmd().ExecuteContext(ctx)
}

// NewRootCmd builds the command tree. Bare `quizdesk` behaves like `quizdesk run`.
func NewRootCmd() *cobra.Command {
	flags := &runFlags{}
	cmd := &cobra.Command{
		Use:           "quizdesk",
		Short:         "Take timed multiple-choice quizzes in the terminal",
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runQuiz(cmd, flags)
		},
	}
	flags.bind(cmd)

	cmd.AddCommand(NewRunCmd())
	cmd.AddCommand(NewHistoryCmd())
	cmd.AddCommand(NewMigrateCmd())
	return cmd
}
