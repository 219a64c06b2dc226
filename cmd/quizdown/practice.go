package main

import (
	"time"

	"github.com/spf13/cobra"

	"github.com/jjfiv/quizdown/internal/practice"
)

func newPracticeCmd(a *app) *cobra.Command {
	var (
		shuffle    bool
		seed       int64
		noFeedback bool
	)
	cmd := &cobra.Command{
		Use:   "practice INPUT",
		Short: "Answer a quiz in the terminal",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			src, err := a.readInput(args[0])
			if err != nil {
				return err
			}
			orch, err := a.orchestrator()
			if err != nil {
				return err
			}
			q, err := orch.Parse(cmd.Context(), src)
			if err != nil {
				return err
			}

			opts := []practice.Option{
				practice.WithPromptDriver(practice.NewSurveyDriver(a.stdout)),
				practice.WithFeedback(!noFeedback),
			}
			if shuffle {
				if !cmd.Flags().Changed("seed") {
					seed = time.Now().UnixNano()
				}
				opts = append(opts, practice.WithShuffle(seed))
			}
			result, err := practice.New(opts...).Run(cmd.Context(), q)
			if err != nil {
				return err
			}
			a.logger.Debug("practice finished", "quiz", result.Quiz, "score", result.Score, "total", result.Total)
			return nil
		},
	}
	cmd.Flags().BoolVar(&shuffle, "shuffle", false, "shuffle the options of unordered questions")
	cmd.Flags().Int64Var(&seed, "seed", 0, "shuffle seed; random when unset")
	cmd.Flags().BoolVar(&noFeedback, "no-feedback", false, "do not reveal answers after each question")
	return cmd
}
