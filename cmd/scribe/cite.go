// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.yaml.in/yaml/v3"

	"github.com/meshintel/scribe/internal/citation"
	"github.com/meshintel/scribe/internal/store"
	"github.com/meshintel/scribe/pkg/types"
)

var citeCmd = &cobra.Command{
	Use:   "cite <research-id>",
	Short: "Format a session's sources as a bibliography",
	Long: `Cite collects every source from a completed research session and prints
a bibliography in the chosen style: abnt, apa, or vancouver. With --sources
a YAML file of sources is formatted instead of a stored session.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		style, _ := cmd.Flags().GetString("style")
		sourcesFile, _ := cmd.Flags().GetString("sources")

		sources, err := collectSources(cmd, args, sourcesFile)
		if err != nil {
			return err
		}
		if len(sources) == 0 {
			fmt.Println("No sources to cite.")
			return nil
		}

		for i, src := range sources {
			article := citation.FromSource(src)
			switch style {
			case "abnt":
				fmt.Fprintln(os.Stdout, citation.FormatABNT(article))
			case "apa":
				fmt.Fprintln(os.Stdout, citation.FormatAPA(article))
			case "vancouver":
				fmt.Fprintln(os.Stdout, citation.FormatVancouver(article, i+1))
			default:
				return fmt.Errorf("unknown style %q: use abnt, apa, or vancouver", style)
			}
		}
		return nil
	},
}

// collectSources loads sources from a YAML file or from a stored session.
func collectSources(cmd *cobra.Command, args []string, sourcesFile string) ([]types.AcademicSource, error) {
	if sourcesFile != "" {
		data, err := os.ReadFile(sourcesFile)
		if err != nil {
			return nil, fmt.Errorf("reading sources file: %w", err)
		}
		var sources []types.AcademicSource
		if err := yaml.Unmarshal(data, &sources); err != nil {
			return nil, fmt.Errorf("parsing sources file: %w", err)
		}
		return sources, nil
	}

	if len(args) == 0 {
		return nil, fmt.Errorf("provide a research id or --sources file")
	}

	stores := store.Open(loadConfig().Store, os.Stderr)
	defer stores.Close()

	rec, err := stores.Research.Get(cmd.Context(), args[0])
	if err != nil {
		return nil, err
	}

	var sources []types.AcademicSource
	for _, result := range rec.ResearchResults {
		sources = append(sources, result.Sources...)
	}
	return sources, nil
}

func init() {
	citeCmd.Flags().String("style", "abnt", "citation style: abnt, apa, vancouver")
	citeCmd.Flags().String("sources", "", "YAML file of sources to format instead of a stored session")
	rootCmd.AddCommand(citeCmd)
}
