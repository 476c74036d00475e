package main

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"interviewer/internal/apiclient"
)

func newSessionsCommand(ctx *commandContext) *cobra.Command {
	sessionsCmd := &cobra.Command{
		Use:   "sessions",
		Short: "Manage interview sessions",
	}

	var listJSON bool
	listCmd := &cobra.Command{
		Use:   "list <room-id>",
		Short: "List sessions in a room",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return ctx.withClient(func(client *apiclient.Client) error {
				sessions, err := client.ListSessions(cmd.Context(), args[0])
				if err != nil {
					return err
				}
				if listJSON {
					return writeJSON(cmd, sessions)
				}
				stdout := cmd.OutOrStdout()
				if len(sessions) == 0 {
					fmt.Fprintln(stdout, "No sessions")
					return nil
				}
				rows := make([][]string, 0, len(sessions))
				for _, session := range sessions {
					rows = append(rows, []string{
						session.ID,
						session.Name,
						session.Status,
						strconv.Itoa(session.Rounds),
						strconv.Itoa(session.Questions),
					})
				}
				fmt.Fprintln(stdout, renderTable([]string{"ID", "Name", "Status", "Rounds", "Questions"}, rows, 4, 5))
				return nil
			})
		},
	}
	listCmd.Flags().BoolVar(&listJSON, "json", false, "Emit machine-readable JSON")

	var createName string
	createCmd := &cobra.Command{
		Use:   "create <room-id>",
		Short: "Start a new session in a room",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return ctx.withClient(func(client *apiclient.Client) error {
				session, err := client.CreateSession(cmd.Context(), args[0], createName)
				if err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Created session %s (%s)\n", session.ID, session.Name)
				return nil
			})
		},
	}
	createCmd.Flags().StringVar(&createName, "name", "", "Display name for the session")

	var showJSON bool
	showCmd := &cobra.Command{
		Use:   "show <session-id>",
		Short: "Show a session with its rounds and questions",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return ctx.withClient(func(client *apiclient.Client) error {
				detail, err := client.GetSession(cmd.Context(), args[0])
				if err != nil {
					return err
				}
				if showJSON {
					return writeJSON(cmd, detail)
				}

				stdout := cmd.OutOrStdout()
				fmt.Fprintf(stdout, "Session: %s (%s)\n", detail.ID, detail.Name)
				fmt.Fprintf(stdout, "Status:  %s\n", detail.Status)
				if len(detail.RoundDetails) == 0 {
					fmt.Fprintln(stdout, "No rounds yet; run `interviewer generate` to create one")
					return nil
				}
				for _, round := range detail.RoundDetails {
					answered := 0
					for _, question := range round.Questions {
						if question.Answered {
							answered++
						}
					}
					fmt.Fprintf(stdout, "\nRound %d [%s] %d/%d answered\n", round.RoundIndex, round.Status, answered, round.QuestionsCount)
					for _, question := range round.Questions {
						marker := " "
						if question.Answered {
							marker = "x"
						}
						fmt.Fprintf(stdout, "  [%s] %d. %s\n", marker, question.QuestionIndex, question.Question)
					}
				}
				return nil
			})
		},
	}
	showCmd.Flags().BoolVar(&showJSON, "json", false, "Emit machine-readable JSON")

	deleteCmd := &cobra.Command{
		Use:   "delete <session-id>",
		Short: "Delete a session and its rounds",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return ctx.withClient(func(client *apiclient.Client) error {
				if err := client.DeleteSession(cmd.Context(), args[0]); err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Deleted session %s\n", args[0])
				return nil
			})
		},
	}

	sessionsCmd.AddCommand(listCmd, createCmd, showCmd, deleteCmd)
	return sessionsCmd
}
