package main

import (
	"context"
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/netrika/netrika/client"
)

func newPoliticianCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "politician",
		Short: "Inspect politician records",
	}
	cmd.AddCommand(newPoliticianGetCmd())
	cmd.AddCommand(newPoliticianListCmd())
	cmd.AddCommand(newPoliticianHistoryCmd())
	return cmd
}

func newPoliticianGetCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "get <id>",
		Short: "Fetch a single politician by ID",
		Args:  cobra.ExactArgs(1),
		Run: func(cmd *cobra.Command, args []string) {
			p, err := apiClient.Politicians.Get(context.Background(), args[0])
			if err != nil {
				fatal("get politician", err)
			}
			output(p, p.ID)
		},
	}
}

func newPoliticianListCmd() *cobra.Command {
	var (
		party  string
		query  string
		limit  int
		offset int
	)
	cmd := &cobra.Command{
		Use:   "list",
		Short: "List approved politicians",
		Run: func(cmd *cobra.Command, args []string) {
			opts := &client.PoliticianListOptions{
				Party:  party,
				Query:  query,
				Limit:  limit,
				Offset: offset,
			}
			politicians, hasMore, err := apiClient.Politicians.List(context.Background(), opts)
			if err != nil {
				fatal("list politicians", err)
			}
			if flagFmt == "table" {
				rows := make([][]string, 0, len(politicians))
				for _, p := range politicians {
					rows = append(rows, []string{p.ID, p.FullName, p.Party, p.Constituency})
				}
				formatTable([]string{"ID", "NAME", "PARTY", "CONSTITUENCY"}, rows)
				if hasMore {
					fmt.Println("(more results available)")
				}
				return
			}
			output(map[string]any{"politicians": politicians, "has_more": hasMore}, strconv.Itoa(len(politicians)))
		},
	}
	cmd.Flags().StringVar(&party, "party", "", "Filter by party")
	cmd.Flags().StringVar(&query, "query", "", "Name search filter")
	cmd.Flags().IntVar(&limit, "limit", 20, "Max results to return")
	cmd.Flags().IntVar(&offset, "offset", 0, "Results to skip")
	return cmd
}

func newPoliticianHistoryCmd() *cobra.Command {
	var (
		limit  int
		offset int
		edits  bool
	)
	cmd := &cobra.Command{
		Use:   "history <id>",
		Short: "Show revision history (or edit history with --edits)",
		Args:  cobra.ExactArgs(1),
		Run: func(cmd *cobra.Command, args []string) {
			ctx := context.Background()
			if edits {
				list, hasMore, err := apiClient.Politicians.EditHistory(ctx, args[0], limit, offset)
				if err != nil {
					fatal("edit history", err)
				}
				if flagFmt == "table" {
					printEditTable(list)
					if hasMore {
						fmt.Println("(more results available)")
					}
					return
				}
				output(map[string]any{"edits": list, "has_more": hasMore}, strconv.Itoa(len(list)))
				return
			}
			revisions, hasMore, err := apiClient.Politicians.Revisions(ctx, args[0], limit, offset)
			if err != nil {
				fatal("revision history", err)
			}
			if flagFmt == "table" {
				rows := make([][]string, 0, len(revisions))
				for _, r := range revisions {
					editID := ""
					if r.EditID != nil {
						editID = *r.EditID
					}
					rows = append(rows, []string{
						strconv.FormatInt(r.ID, 10),
						r.ApproverID,
						editID,
						r.CreatedAt.Format("2006-01-02 15:04"),
					})
				}
				formatTable([]string{"REV", "APPROVER", "EDIT", "CREATED"}, rows)
				if hasMore {
					fmt.Println("(more results available)")
				}
				return
			}
			output(map[string]any{"revisions": revisions, "has_more": hasMore}, strconv.Itoa(len(revisions)))
		},
	}
	cmd.Flags().IntVar(&limit, "limit", 20, "Max results to return")
	cmd.Flags().IntVar(&offset, "offset", 0, "Results to skip")
	cmd.Flags().BoolVar(&edits, "edits", false, "Show proposed edits instead of applied revisions")
	return cmd
}
