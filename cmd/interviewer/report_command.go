package main

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"interviewer/internal/apiclient"
)

func newReportCommand(ctx *commandContext) *cobra.Command {
	var asJSON bool

	cmd := &cobra.Command{
		Use:   "report <session-id> <round-index>",
		Short: "Generate an evaluation report for a completed round",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			index, err := strconv.Atoi(args[1])
			if err != nil || index < 0 {
				return fmt.Errorf("round index must be a non-negative integer, got %q", args[1])
			}
			return ctx.withClient(func(client *apiclient.Client) error {
				report, err := client.GenerateReport(cmd.Context(), args[0], index)
				if err != nil {
					return err
				}
				if asJSON {
					return writeJSON(cmd, report)
				}
				printReport(cmd, report)
				return nil
			})
		},
	}

	cmd.Flags().BoolVar(&asJSON, "json", false, "Emit machine-readable JSON")
	return cmd
}

func printReport(cmd *cobra.Command, report apiclient.Report) {
	stdout := cmd.OutOrStdout()
	fmt.Fprintf(stdout, "Evaluation report for round %d of %s\n", report.RoundIndex, report.SessionName)
	fmt.Fprintf(stdout, "Grade: %s (%.1f/10 over %d questions)\n\n", report.OverallGrade, report.TotalScore, report.TotalQuestions)
	if report.Evaluation == nil {
		return
	}
	fmt.Fprintln(stdout, report.Evaluation.Summary)
	if report.Evaluation.Suggestions != "" {
		fmt.Fprintf(stdout, "\nSuggestions: %s\n", report.Evaluation.Suggestions)
	}

	scores := report.Evaluation.Scores
	rows := [][]string{
		{"Content completeness", strconv.Itoa(scores.ContentCompleteness)},
		{"Highlight prominence", strconv.Itoa(scores.HighlightProminence)},
		{"Logical clarity", strconv.Itoa(scores.LogicalClarity)},
		{"Expression ability", strconv.Itoa(scores.ExpressionAbility)},
		{"Position matching", strconv.Itoa(scores.PositionMatching)},
	}
	fmt.Fprintln(stdout, renderTable([]string{"Dimension", "Score"}, rows, 2))

	for _, review := range report.Evaluation.Questions {
		fmt.Fprintf(stdout, "\nQ%d tests: %s\n", review.QuestionIndex, review.KeyPoints)
		if review.Suggestions != "" {
			fmt.Fprintf(stdout, "  Improve: %s\n", review.Suggestions)
		}
	}
}
