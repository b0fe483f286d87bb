// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/meshintel/scribe/internal/store"
	"github.com/meshintel/scribe/internal/workflow"
)

var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "List, show, or delete completed research sessions",
}

var historyListCmd = &cobra.Command{
	Use:   "list",
	Short: "List completed research sessions",
	RunE: func(cmd *cobra.Command, args []string) error {
		stores := store.Open(loadConfig().Store, os.Stderr)
		defer stores.Close()

		recs, err := stores.Research.List(cmd.Context())
		if err != nil {
			return err
		}
		if len(recs) == 0 {
			fmt.Println("No completed research.")
			return nil
		}

		fmt.Fprintf(os.Stdout, "%-36s  %-40s  %-5s  %s\n", "ID", "Title", "Steps", "Query")
		fmt.Fprintln(os.Stdout, strings.Repeat("-", 100))
		for _, rec := range recs {
			title := rec.TaskPlan.Title
			if len(title) > 40 {
				title = title[:37] + "..."
			}
			query := rec.OriginalQuery
			if len(query) > 30 {
				query = query[:27] + "..."
			}
			fmt.Fprintf(os.Stdout, "%-36s  %-40s  %-5d  %s\n", rec.ID, title, len(rec.ResearchResults), query)
		}
		return nil
	},
}

var historyShowCmd = &cobra.Command{
	Use:   "show <research-id>",
	Short: "Show a completed research session",
	Long: `Show loads a completed research session the way the workflow does: the
record is taken verbatim, no generation call is made, and the document is
printed. Use --json for the full record including mind map and sources.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		stores := store.Open(loadConfig().Store, os.Stderr)
		defer stores.Close()

		rec, err := stores.Research.Get(cmd.Context(), args[0])
		if err != nil {
			return err
		}

		if jsonOut, _ := cmd.Flags().GetBool("json"); jsonOut {
			enc := json.NewEncoder(os.Stdout)
			enc.SetIndent("", "  ")
			return enc.Encode(rec)
		}

		sess := workflow.NewSession(nil, workflow.Options{})
		sess.LoadCompleted(rec)
		fmt.Fprintf(os.Stdout, "# %s\n\n", rec.TaskPlan.Title)
		if outline := sess.Outline(); outline != "" {
			fmt.Fprintf(os.Stdout, "%s\n\n---\n\n", outline)
		}
		fmt.Fprintln(os.Stdout, sess.Content())
		return nil
	},
}

var historyDeleteCmd = &cobra.Command{
	Use:   "delete <research-id>",
	Short: "Delete a completed research session",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		stores := store.Open(loadConfig().Store, os.Stderr)
		defer stores.Close()

		if err := stores.Research.Delete(cmd.Context(), args[0]); err != nil {
			return err
		}
		fmt.Fprintf(os.Stdout, "Deleted %s\n", args[0])
		return nil
	},
}

func init() {
	historyShowCmd.Flags().Bool("json", false, "output the full record as JSON")

	historyCmd.AddCommand(historyListCmd, historyShowCmd, historyDeleteCmd)
	rootCmd.AddCommand(historyCmd)
}
