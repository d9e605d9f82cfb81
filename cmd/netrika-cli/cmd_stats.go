package main

import (
	"context"
	"strconv"

	"github.com/spf13/cobra"
)

func newStatsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "stats",
		Short: "Show moderation and registry counters",
		Run: func(cmd *cobra.Command, args []string) {
			stats, err := apiClient.Stats(context.Background())
			if err != nil {
				fatal("fetch stats", err)
			}
			if flagFmt == "table" {
				formatTable([]string{"METRIC", "COUNT"}, [][]string{
					{"politicians", strconv.Itoa(stats.Politicians)},
					{"pending_edits", strconv.Itoa(stats.PendingEdits)},
					{"approved_edits", strconv.Itoa(stats.ApprovedEdits)},
					{"denied_edits", strconv.Itoa(stats.DeniedEdits)},
					{"revisions", strconv.Itoa(stats.Revisions)},
				})
				return
			}
			output(stats, strconv.Itoa(stats.PendingEdits))
		},
	}
}
