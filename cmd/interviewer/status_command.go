package main

import (
	"fmt"
	"strconv"
	"time"

	"github.com/spf13/cobra"

	"interviewer/internal/apiclient"
)

func newStatusCommand(ctx *commandContext) *cobra.Command {
	var asJSON bool

	cmd := &cobra.Command{
		Use:   "status",
		Short: "Show daemon, database, storage, and generator status",
		RunE: func(cmd *cobra.Command, args []string) error {
			return ctx.withClient(func(client *apiclient.Client) error {
				status, err := client.Status(cmd.Context())
				if err != nil {
					return err
				}
				if asJSON {
					return writeJSON(cmd, status)
				}

				stdout := cmd.OutOrStdout()
				colorize := shouldColorize(stdout)

				fmt.Fprintln(stdout, renderSectionHeader("Daemon", colorize))
				running := statusError
				runningDetail := "not running"
				if status.Running {
					running = statusOK
					runningDetail = fmt.Sprintf("pid %d, up %s", status.PID, (time.Duration(status.UptimeSeconds) * time.Second).String())
				}
				fmt.Fprintln(stdout, renderStatusLine("Process", running, runningDetail, colorize))

				dbDetail := status.Database.Path
				if status.Database.Error != "" {
					dbDetail = status.Database.Error
				}
				fmt.Fprintln(stdout, renderStatusLine("Database", boolStatus(status.Database.Readable && status.Database.IntegrityCheck), dbDetail, colorize))

				storageDetail := status.Storage.Backend
				if status.Storage.Fallback {
					storageDetail += " (fallback to local)"
				}
				if status.Storage.Detail != "" {
					storageDetail += ": " + status.Storage.Detail
				}
				storageKind := boolStatus(status.Storage.Healthy)
				if status.Storage.Healthy && status.Storage.Fallback {
					storageKind = statusWarn
				}
				fmt.Fprintln(stdout, renderStatusLine("Storage", storageKind, storageDetail, colorize))

				llmDetail := "reachable"
				if status.LLM.Error != "" {
					llmDetail = status.LLM.Error
				}
				fmt.Fprintln(stdout, renderStatusLine("Generator", boolStatus(status.LLM.Healthy), llmDetail, colorize))

				fmt.Fprintln(stdout)
				fmt.Fprintln(stdout, renderSectionHeader("Inventory", colorize))
				rows := [][]string{
					{"Rooms", strconv.Itoa(status.Stats.Rooms)},
					{"Sessions", strconv.Itoa(status.Stats.Sessions)},
					{"Rounds", strconv.Itoa(status.Stats.Rounds)},
					{"Questions", strconv.Itoa(status.Stats.Questions)},
				}
				fmt.Fprintln(stdout, renderTable([]string{"Kind", "Count"}, rows, 2))
				return nil
			})
		},
	}

	cmd.Flags().BoolVar(&asJSON, "json", false, "Emit machine-readable JSON")
	return cmd
}
