// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/meshintel/scribe/internal/template"
)

var templateCmd = &cobra.Command{
	Use:   "template",
	Short: "List document templates or build a prompt from one",
}

var templateListCmd = &cobra.Command{
	Use:   "list",
	Short: "List available templates and their fields",
	RunE: func(cmd *cobra.Command, args []string) error {
		templates, err := template.LoadCatalog(loadConfig().Templates.CatalogPath)
		if err != nil {
			return err
		}

		for _, t := range templates {
			fmt.Fprintf(os.Stdout, "%s — %s\n", t.ID, t.Name)
			fmt.Fprintf(os.Stdout, "    %s\n", t.Description)
			for _, f := range t.Fields {
				required := ""
				if f.Required {
					required = " (required)"
				}
				options := ""
				if len(f.Options) > 0 {
					options = " [" + strings.Join(f.Options, ", ") + "]"
				}
				fmt.Fprintf(os.Stdout, "    %-16s %s%s%s\n", f.Key, f.Kind, options, required)
			}
		}
		return nil
	},
}

var templateFillCmd = &cobra.Command{
	Use:   "fill <template-id>",
	Short: "Build the generation prompt from a template and field values",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		templates, err := template.LoadCatalog(loadConfig().Templates.CatalogPath)
		if err != nil {
			return err
		}
		tmpl, ok := template.Find(templates, args[0])
		if !ok {
			return fmt.Errorf("unknown template %q", args[0])
		}

		fieldFlags, _ := cmd.Flags().GetStringArray("field")
		values, err := parseFieldValues(tmpl, fieldFlags)
		if err != nil {
			return err
		}

		prompt, err := template.BuildPrompt(tmpl, values)
		if err != nil {
			return err
		}
		fmt.Fprintln(os.Stdout, prompt)
		return nil
	},
}

func init() {
	templateFillCmd.Flags().StringArray("field", nil, "field value as key=value (repeatable)")

	templateCmd.AddCommand(templateListCmd, templateFillCmd)
	rootCmd.AddCommand(templateCmd)
}
