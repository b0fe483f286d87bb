// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/meshintel/scribe/internal/backend"
	"github.com/meshintel/scribe/internal/store"
)

var finalizeCmd = &cobra.Command{
	Use:   "finalize <research-id>",
	Short: "Finalize a completed document (deducts credits)",
	Long: `Finalize records the document with the backend and deducts credits. It is
a billing operation: it runs only when you invoke it, the request is sent
exactly once, and a failure is never retried automatically — run the
command again if you are sure the charge did not go through.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg := loadConfig()

		stores := store.Open(cfg.Store, os.Stderr)
		defer stores.Close()

		rec, err := stores.Research.Get(cmd.Context(), args[0])
		if err != nil {
			return err
		}

		title, _ := cmd.Flags().GetString("title")
		if title == "" {
			title = rec.TaskPlan.Title
		}

		if yes, _ := cmd.Flags().GetBool("yes"); !yes {
			if !confirm(fmt.Sprintf("Finalize %q? This deducts credits.", title)) {
				fmt.Fprintln(os.Stdout, "Cancelled. No credits were deducted.")
				return nil
			}
		}

		client := backend.New(cfg.Backend)
		res, err := client.FinalizeDocument(cmd.Context(), rec.WrittenContent, title)
		if err != nil {
			return fmt.Errorf("finalize failed — credits were NOT deducted and the document was NOT recorded: %w", err)
		}

		fmt.Fprintf(os.Stdout, "Finalized %q: %d words, %d credits remaining.\n",
			title, res.WordCount, res.RemainingCredits)
		if res.Message != "" {
			fmt.Fprintln(os.Stdout, res.Message)
		}
		return nil
	},
}

func init() {
	finalizeCmd.Flags().String("title", "", "document title (defaults to the plan title)")
	finalizeCmd.Flags().Bool("yes", false, "skip the confirmation prompt")
	rootCmd.AddCommand(finalizeCmd)
}
