// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/meshintel/scribe/internal/store"
	"github.com/meshintel/scribe/internal/versions"
)

var versionsCmd = &cobra.Command{
	Use:   "versions",
	Short: "List, restore, or diff content versions of a research session",
	Long: `Versions are append-only snapshots of a session's content and outline,
recorded when the plan is edited, when writing completes, and on manual
saves. Restoring prints a version's content; it never rewrites history.`,
}

var versionsListCmd = &cobra.Command{
	Use:   "list <research-id>",
	Short: "List a session's versions, newest first",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		stores := store.Open(loadConfig().Store, os.Stderr)
		defer stores.Close()

		list, err := versions.NewManager(stores.Versions).List(cmd.Context(), args[0])
		if err != nil {
			return err
		}
		if len(list) == 0 {
			fmt.Println("No versions recorded.")
			return nil
		}

		fmt.Fprintf(os.Stdout, "%-36s  %-25s  %s\n", "Version", "Timestamp", "Comment")
		fmt.Fprintln(os.Stdout, strings.Repeat("-", 90))
		for _, v := range list {
			fmt.Fprintf(os.Stdout, "%-36s  %-25s  %s\n",
				v.VersionID, v.Timestamp.Format("2006-01-02 15:04:05"), v.Comment)
		}
		return nil
	},
}

var versionsRestoreCmd = &cobra.Command{
	Use:   "restore <research-id> <version-id>",
	Short: "Print the content and outline stored in a version",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		stores := store.Open(loadConfig().Store, os.Stderr)
		defer stores.Close()

		content, outline, err := versions.NewManager(stores.Versions).Restore(cmd.Context(), args[0], args[1])
		if err != nil {
			return err
		}
		if outline != "" {
			fmt.Fprintf(os.Stdout, "%s\n\n---\n\n", outline)
		}
		fmt.Fprintln(os.Stdout, content)
		return nil
	},
}

var versionsDiffCmd = &cobra.Command{
	Use:   "diff <research-id> <from-version> <to-version>",
	Short: "Show a unified diff of the content between two versions",
	Args:  cobra.ExactArgs(3),
	RunE: func(cmd *cobra.Command, args []string) error {
		stores := store.Open(loadConfig().Store, os.Stderr)
		defer stores.Close()

		diff, err := versions.NewManager(stores.Versions).Diff(cmd.Context(), args[0], args[1], args[2])
		if err != nil {
			return err
		}
		if diff == "" {
			fmt.Println("No differences.")
			return nil
		}
		fmt.Fprint(os.Stdout, diff)
		return nil
	},
}

func init() {
	versionsCmd.AddCommand(versionsListCmd, versionsRestoreCmd, versionsDiffCmd)
	rootCmd.AddCommand(versionsCmd)
}
