package main

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"interviewer/internal/apiclient"
)

func newGenerateCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "generate <session-id>",
		Short: "Generate a new question round for a session",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return ctx.withClient(func(client *apiclient.Client) error {
				round, err := client.GenerateRound(cmd.Context(), args[0])
				if err != nil {
					return err
				}
				stdout := cmd.OutOrStdout()
				fmt.Fprintf(stdout, "Generated round %d with %d questions\n", round.RoundIndex, round.QuestionsCount)
				for _, question := range round.Questions {
					fmt.Fprintf(stdout, "  %d. %s\n", question.QuestionIndex, question.Question)
				}
				return nil
			})
		},
	}
}

func newAskCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "ask <round-id>",
		Short: "Show the next unanswered question in a round",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return ctx.withClient(func(client *apiclient.Client) error {
				current, err := client.CurrentQuestion(cmd.Context(), args[0])
				if apiclient.IsNotFound(err) {
					fmt.Fprintln(cmd.OutOrStdout(), "No unanswered questions remain in this round")
					return nil
				}
				if err != nil {
					return err
				}
				stdout := cmd.OutOrStdout()
				fmt.Fprintf(stdout, "Question %d of round %d (%d remaining)\n", current.Question.QuestionIndex, current.Round.RoundIndex, current.Remaining)
				fmt.Fprintln(stdout, current.Question.Question)
				return nil
			})
		},
	}
}

func newAnswerCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "answer <round-id> <question-index> <answer>",
		Short: "Record the candidate's answer to a question",
		Args:  cobra.ExactArgs(3),
		RunE: func(cmd *cobra.Command, args []string) error {
			index, err := strconv.Atoi(args[1])
			if err != nil || index < 0 {
				return fmt.Errorf("question index must be a non-negative integer, got %q", args[1])
			}
			return ctx.withClient(func(client *apiclient.Client) error {
				question, err := client.SaveAnswer(cmd.Context(), args[0], index, args[2])
				if err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Recorded answer for question %d\n", question.QuestionIndex)
				return nil
			})
		},
	}
}

func newCompleteCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "complete <session-id> <round-index>",
		Short: "Mark a round complete once all questions are answered",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			index, err := strconv.Atoi(args[1])
			if err != nil || index < 0 {
				return fmt.Errorf("round index must be a non-negative integer, got %q", args[1])
			}
			return ctx.withClient(func(client *apiclient.Client) error {
				round, err := client.CompleteRound(cmd.Context(), args[0], index)
				if err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Round %d is %s\n", round.RoundIndex, round.Status)
				return nil
			})
		},
	}
}

func newAnalysisCommand(ctx *commandContext) *cobra.Command {
	var asJSON bool

	cmd := &cobra.Command{
		Use:   "analysis <session-id> <round-index>",
		Short: "Show the answered question record for a round",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			index, err := strconv.Atoi(args[1])
			if err != nil || index < 0 {
				return fmt.Errorf("round index must be a non-negative integer, got %q", args[1])
			}
			return ctx.withClient(func(client *apiclient.Client) error {
				analysis, err := client.Analysis(cmd.Context(), args[0], index)
				if err != nil {
					return err
				}
				if asJSON {
					return writeJSON(cmd, analysis)
				}
				stdout := cmd.OutOrStdout()
				fmt.Fprintf(stdout, "Round %d of session %s\n", analysis.RoundIndex, analysis.SessionID)
				for _, item := range analysis.Items {
					fmt.Fprintf(stdout, "\nQ%d: %s\n", item.QuestionIndex, item.Question)
					fmt.Fprintf(stdout, "A:  %s\n", item.Answer)
				}
				return nil
			})
		},
	}

	cmd.Flags().BoolVar(&asJSON, "json", false, "Emit machine-readable JSON")
	return cmd
}
