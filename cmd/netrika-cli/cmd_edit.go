package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/netrika/netrika/client"
)

func newEditCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "edit",
		Short: "Inspect and resolve pending edits",
	}
	cmd.AddCommand(newEditShowCmd())
	cmd.AddCommand(newEditApproveCmd())
	cmd.AddCommand(newEditDenyCmd())
	return cmd
}

func newEditShowCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "show <id>",
		Short: "Fetch a pending edit by ID",
		Args:  cobra.ExactArgs(1),
		Run: func(cmd *cobra.Command, args []string) {
			edit, err := apiClient.Edits.Get(context.Background(), args[0])
			if err != nil {
				fatal("get edit", err)
			}
			output(edit, edit.ID)
		},
	}
}

func newEditApproveCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "approve <id>",
		Short: "Approve a pending edit and apply it",
		Args:  cobra.ExactArgs(1),
		Run: func(cmd *cobra.Command, args []string) {
			result, err := apiClient.Edits.Approve(context.Background(), args[0])
			if err != nil {
				fatal("approve edit", err)
			}
			output(result, result.EntityID)
		},
	}
}

func newEditDenyCmd() *cobra.Command {
	var reason string
	cmd := &cobra.Command{
		Use:   "deny <id>",
		Short: "Deny a pending edit with feedback",
		Args:  cobra.ExactArgs(1),
		Run: func(cmd *cobra.Command, args []string) {
			if err := apiClient.Edits.Deny(context.Background(), args[0], reason); err != nil {
				fatal("deny edit", err)
			}
			output(map[string]string{"edit_id": args[0], "status": "denied"}, args[0])
		},
	}
	cmd.Flags().StringVar(&reason, "reason", "", "Feedback for the proposer")
	return cmd
}

func newPendingCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "pending",
		Short: "Work the pending edit queue",
	}
	cmd.AddCommand(newPendingListCmd())
	return cmd
}

func newPendingListCmd() *cobra.Command {
	var (
		entityType string
		page       int
		pageSize   int
	)
	cmd := &cobra.Command{
		Use:   "list",
		Short: "List edits awaiting moderation",
		Run: func(cmd *cobra.Command, args []string) {
			opts := &client.PendingListOptions{
				EntityType: entityType,
				Page:       page,
				PageSize:   pageSize,
			}
			edits, total, err := apiClient.Edits.ListPending(context.Background(), opts)
			if err != nil {
				fatal("list pending edits", err)
			}
			if flagFmt == "table" {
				printEditTable(edits)
				fmt.Printf("%d pending total\n", total)
				return
			}
			output(map[string]any{"edits": edits, "total": total}, strconv.Itoa(total))
		},
	}
	cmd.Flags().StringVar(&entityType, "type", "", "Filter by entity type")
	cmd.Flags().IntVar(&page, "page", 1, "Page number")
	cmd.Flags().IntVar(&pageSize, "page-size", 20, "Edits per page")
	return cmd
}

func printEditTable(edits []client.PendingEdit) {
	rows := make([][]string, 0, len(edits))
	for _, e := range edits {
		target := "(new)"
		if e.EntityID != nil {
			target = *e.EntityID
		}
		rows = append(rows, []string{
			e.ID,
			e.EntityType,
			target,
			e.Status,
			e.ProposerID,
			e.CreatedAt.Format("2006-01-02 15:04"),
		})
	}
	formatTable([]string{"ID", "TYPE", "TARGET", "STATUS", "PROPOSER", "CREATED"}, rows)
}

func newProposeCmd() *cobra.Command {
	var (
		entityType string
		entityID   string
		dataFile   string
		reason     string
	)
	cmd := &cobra.Command{
		Use:   "propose",
		Short: "Submit a change for moderation",
		Long: `Submit a proposed entity or field patch for moderation.

The proposed payload is read from --data (a file path, or "-" for stdin).
Without --entity-id the payload must be a complete new entity; with it,
the payload is a partial field patch against the existing record.`,
		Run: func(cmd *cobra.Command, args []string) {
			data, err := readPayload(dataFile)
			if err != nil {
				fatal("read payload", err)
			}
			req := &client.ProposeRequest{
				EntityType:   entityType,
				Data:         data,
				ChangeReason: reason,
			}
			if entityID != "" {
				req.EntityID = &entityID
			}
			edit, err := apiClient.Edits.Propose(context.Background(), req)
			if err != nil {
				fatal("propose edit", err)
			}
			output(edit, edit.ID)
		},
	}
	cmd.Flags().StringVar(&entityType, "type", "politician", "Entity type")
	cmd.Flags().StringVar(&entityID, "entity-id", "", "Target entity for a field patch (omit for a new entity)")
	cmd.Flags().StringVar(&dataFile, "data", "", "Path to the JSON payload, or - for stdin")
	cmd.Flags().StringVar(&reason, "reason", "", "Why this change is being proposed")
	_ = cmd.MarkFlagRequired("data")
	return cmd
}

func readPayload(path string) (json.RawMessage, error) {
	var (
		raw []byte
		err error
	)
	if path == "-" {
		raw, err = io.ReadAll(os.Stdin)
	} else {
		raw, err = os.ReadFile(path)
	}
	if err != nil {
		return nil, err
	}
	if !json.Valid(raw) {
		return nil, fmt.Errorf("payload is not valid JSON")
	}
	return json.RawMessage(raw), nil
}
