package main

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"interviewer/internal/apiclient"
)

func newRoomsCommand(ctx *commandContext) *cobra.Command {
	roomsCmd := &cobra.Command{
		Use:   "rooms",
		Short: "Manage interview rooms",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runRoomsList(cmd, ctx, false)
		},
	}

	var listJSON bool
	listCmd := &cobra.Command{
		Use:   "list",
		Short: "List all rooms",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runRoomsList(cmd, ctx, listJSON)
		},
	}
	listCmd.Flags().BoolVar(&listJSON, "json", false, "Emit machine-readable JSON")

	var createName string
	createCmd := &cobra.Command{
		Use:   "create",
		Short: "Create a new interview room",
		RunE: func(cmd *cobra.Command, args []string) error {
			return ctx.withClient(func(client *apiclient.Client) error {
				room, err := client.CreateRoom(cmd.Context(), createName)
				if err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Created room %s (%s)\n", room.ID, room.Name)
				return nil
			})
		},
	}
	createCmd.Flags().StringVar(&createName, "name", "", "Display name for the room")

	showCmd := &cobra.Command{
		Use:   "show <room-id>",
		Short: "Show one room with its sessions",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return ctx.withClient(func(client *apiclient.Client) error {
				room, err := client.GetRoom(cmd.Context(), args[0])
				if err != nil {
					return err
				}
				sessions, err := client.ListSessions(cmd.Context(), room.ID)
				if err != nil {
					return err
				}

				stdout := cmd.OutOrStdout()
				fmt.Fprintf(stdout, "Room:      %s\n", room.ID)
				fmt.Fprintf(stdout, "Name:      %s\n", room.Name)
				fmt.Fprintf(stdout, "Memory ID: %s\n", room.MemoryID)
				fmt.Fprintf(stdout, "Resume:    %s\n", yesNo(room.HasResume))
				if room.JDID != "" {
					fmt.Fprintf(stdout, "JD:        %s\n", room.JDID)
				}
				if len(sessions) == 0 {
					fmt.Fprintln(stdout, "No sessions yet")
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
				fmt.Fprintln(stdout, renderTable([]string{"Session", "Name", "Status", "Rounds", "Questions"}, rows, 4, 5))
				return nil
			})
		},
	}

	deleteCmd := &cobra.Command{
		Use:   "delete <room-id>",
		Short: "Delete a room, its sessions, and its stored documents",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return ctx.withClient(func(client *apiclient.Client) error {
				if err := client.DeleteRoom(cmd.Context(), args[0]); err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Deleted room %s\n", args[0])
				return nil
			})
		},
	}

	var resumeFile string
	resumeCmd := &cobra.Command{
		Use:   "resume <room-id>",
		Short: "Attach a candidate resume from a JSON file or stdin",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			resume, err := readResume(cmd.InOrStdin(), resumeFile)
			if err != nil {
				return err
			}
			return ctx.withClient(func(client *apiclient.Client) error {
				if err := client.PutResume(cmd.Context(), args[0], resume); err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Resume attached to room %s\n", args[0])
				return nil
			})
		},
	}
	resumeCmd.Flags().StringVarP(&resumeFile, "file", "f", "", "Path to a resume JSON file (default: stdin)")

	var jdFile string
	var jdText string
	jdCmd := &cobra.Command{
		Use:   "jd <room-id>",
		Short: "Attach a job description to a room",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			text := strings.TrimSpace(jdText)
			if text == "" && jdFile != "" {
				raw, err := os.ReadFile(jdFile)
				if err != nil {
					return fmt.Errorf("read jd file: %w", err)
				}
				text = strings.TrimSpace(string(raw))
			}
			if text == "" {
				return fmt.Errorf("provide the job description with --text or --file")
			}
			return ctx.withClient(func(client *apiclient.Client) error {
				jd, err := client.PutJD(cmd.Context(), args[0], text)
				if err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Job description %s attached to room %s\n", jd.ID, args[0])
				return nil
			})
		},
	}
	jdCmd.Flags().StringVarP(&jdFile, "file", "f", "", "Path to a job description text file")
	jdCmd.Flags().StringVar(&jdText, "text", "", "Job description text")

	roomsCmd.AddCommand(listCmd, createCmd, showCmd, deleteCmd, resumeCmd, jdCmd)
	return roomsCmd
}

func runRoomsList(cmd *cobra.Command, ctx *commandContext, asJSON bool) error {
	return ctx.withClient(func(client *apiclient.Client) error {
		rooms, err := client.ListRooms(cmd.Context())
		if err != nil {
			return err
		}
		if asJSON {
			return writeJSON(cmd, rooms)
		}
		stdout := cmd.OutOrStdout()
		if len(rooms) == 0 {
			fmt.Fprintln(stdout, "No rooms")
			return nil
		}
		rows := make([][]string, 0, len(rooms))
		for _, room := range rooms {
			rows = append(rows, []string{
				room.ID,
				room.Name,
				yesNo(room.HasResume),
				strconv.Itoa(room.Sessions),
				strconv.Itoa(room.Rounds),
			})
		}
		fmt.Fprintln(stdout, renderTable([]string{"ID", "Name", "Resume", "Sessions", "Rounds"}, rows, 4, 5))
		return nil
	})
}

func readResume(stdin io.Reader, path string) (apiclient.Resume, error) {
	var raw []byte
	var err error
	if strings.TrimSpace(path) != "" {
		raw, err = os.ReadFile(path)
		if err != nil {
			return apiclient.Resume{}, fmt.Errorf("read resume file: %w", err)
		}
	} else {
		raw, err = io.ReadAll(stdin)
		if err != nil {
			return apiclient.Resume{}, fmt.Errorf("read resume from stdin: %w", err)
		}
	}

	var resume apiclient.Resume
	if err := json.Unmarshal(raw, &resume); err != nil {
		// Plain text resumes are accepted verbatim.
		resume = apiclient.Resume{RawText: strings.TrimSpace(string(raw))}
	}
	if resume.Name == "" && resume.Summary == "" && resume.RawText == "" &&
		len(resume.Skills) == 0 && len(resume.Projects) == 0 {
		return apiclient.Resume{}, fmt.Errorf("resume is empty")
	}
	return resume, nil
}
