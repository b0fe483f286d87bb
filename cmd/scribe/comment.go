// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"fmt"
	"os"
	"time"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/meshintel/scribe/internal/store"
	"github.com/meshintel/scribe/pkg/types"
)

var commentCmd = &cobra.Command{
	Use:   "comment",
	Short: "Annotate a research session's document",
}

var commentAddCmd = &cobra.Command{
	Use:   "add <research-id>",
	Short: "Add a comment anchored to a document position",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		text, _ := cmd.Flags().GetString("text")
		if text == "" {
			return fmt.Errorf("--text is required")
		}
		position, _ := cmd.Flags().GetInt("position")
		author, _ := cmd.Flags().GetString("author")

		stores := store.Open(loadConfig().Store, os.Stderr)
		defer stores.Close()

		c := types.Comment{
			ID:         uuid.NewString(),
			ResearchID: args[0],
			Position:   position,
			Text:       text,
			Author:     author,
			Timestamp:  time.Now(),
		}
		if err := stores.Comments.Create(cmd.Context(), c); err != nil {
			return err
		}
		fmt.Fprintf(os.Stdout, "Added comment %s\n", c.ID)
		return nil
	},
}

var commentListCmd = &cobra.Command{
	Use:   "list <research-id>",
	Short: "List a session's comments",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		stores := store.Open(loadConfig().Store, os.Stderr)
		defer stores.Close()

		comments, err := stores.Comments.List(cmd.Context(), args[0])
		if err != nil {
			return err
		}
		if len(comments) == 0 {
			fmt.Println("No comments.")
			return nil
		}

		for _, c := range comments {
			status := " "
			if c.Resolved {
				status = "x"
			}
			author := c.Author
			if author == "" {
				author = "anonymous"
			}
			text := c.Text
			if len(text) > 60 {
				text = text[:57] + "..."
			}
			fmt.Fprintf(os.Stdout, "[%s] %s  @%-6d  %-14s  %s\n", status, c.ID, c.Position, author, text)
		}
		return nil
	},
}

var commentResolveCmd = &cobra.Command{
	Use:   "resolve <comment-id>",
	Short: "Mark a comment as resolved",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		stores := store.Open(loadConfig().Store, os.Stderr)
		defer stores.Close()

		if err := stores.Comments.Resolve(cmd.Context(), args[0]); err != nil {
			return err
		}
		fmt.Fprintf(os.Stdout, "Resolved %s\n", args[0])
		return nil
	},
}

var commentDeleteCmd = &cobra.Command{
	Use:   "delete <comment-id>",
	Short: "Delete a comment",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		stores := store.Open(loadConfig().Store, os.Stderr)
		defer stores.Close()

		if err := stores.Comments.Delete(cmd.Context(), args[0]); err != nil {
			return err
		}
		fmt.Fprintf(os.Stdout, "Deleted %s\n", args[0])
		return nil
	},
}

func init() {
	commentAddCmd.Flags().String("text", "", "comment text")
	commentAddCmd.Flags().Int("position", 0, "character offset anchor in the document")
	commentAddCmd.Flags().String("author", "", "comment author")

	commentCmd.AddCommand(commentAddCmd, commentListCmd, commentResolveCmd, commentDeleteCmd)
	rootCmd.AddCommand(commentCmd)
}
