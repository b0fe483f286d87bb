// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/meshintel/scribe/internal/render"
	"github.com/meshintel/scribe/internal/store"
	"github.com/meshintel/scribe/pkg/types"
)

var renderCmd = &cobra.Command{
	Use:   "render <research-id>",
	Short: "Render a session's document as HTML",
	Long: `Render converts the stored document — markdown headings, emphasis, and
inline citation tokens — into HTML. Citation tokens resolve against the
session's collected sources; generated text is escaped before any markup
is emitted.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		stores := store.Open(loadConfig().Store, os.Stderr)
		defer stores.Close()

		rec, err := stores.Research.Get(cmd.Context(), args[0])
		if err != nil {
			return err
		}

		var sources []types.AcademicSource
		for _, result := range rec.ResearchResults {
			sources = append(sources, result.Sources...)
		}

		fmt.Fprint(os.Stdout, render.ToHTML(rec.WrittenContent, sources))
		return nil
	},
}

func init() {
	rootCmd.AddCommand(renderCmd)
}
