// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"bufio"
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/meshintel/scribe/internal/autosave"
	"github.com/meshintel/scribe/internal/backend"
	"github.com/meshintel/scribe/internal/store"
	"github.com/meshintel/scribe/internal/template"
	"github.com/meshintel/scribe/internal/versions"
	"github.com/meshintel/scribe/internal/workflow"
	"github.com/meshintel/scribe/pkg/types"
)

var runCmd = &cobra.Command{
	Use:   "run [query]",
	Short: "Run the research-and-writing workflow for a query",
	Long: `Run executes the full workflow: generate a plan and mind map, perform the
research steps in order, draft an outline, and stream the document. Between
phases the workflow pauses for your approval unless --approve-all is set.

Instead of a free-form query you can start from a template with --template
and fill its fields with repeated --field key=value flags.`,
	RunE: runWorkflow,
}

func init() {
	runCmd.Flags().String("template", "", "start from a document template (see 'scribe template list')")
	runCmd.Flags().StringArray("field", nil, "template field value as key=value (repeatable; tags fields take comma-separated values)")
	runCmd.Flags().Bool("approve-all", false, "skip approval prompts and run all phases")
	rootCmd.AddCommand(runCmd)
}

func runWorkflow(cmd *cobra.Command, args []string) error {
	cfg := loadConfig()
	ctx := cmd.Context()

	query, err := resolveQuery(cmd, args, cfg)
	if err != nil {
		return err
	}

	client := backend.New(cfg.Backend)
	stores := store.Open(cfg.Store, os.Stderr)
	defer stores.Close()

	saver := autosave.New(
		&autosave.FileSaver{Dir: filepath.Join(cfg.Store.DataDir, "drafts")},
		cfg.AutoSave,
		func(err error) { fmt.Fprintf(os.Stderr, "warning: auto-save failed: %v\n", err) },
	)

	sess := workflow.NewSession(workflow.APIBackend{Client: client}, workflow.Options{
		Versions: versions.NewManager(stores.Versions),
		Research: stores.Research,
		AutoSave: saver,
		Progress: os.Stdout,
		Warn:     os.Stderr,
	})
	defer sess.Close()

	fmt.Fprintf(os.Stdout, "Generating research plan for: %s\n", query)
	plan, err := client.GeneratePlan(ctx, query)
	if err != nil {
		return err
	}
	printPlan(plan)

	if err := sess.Start(ctx, query, plan); err != nil {
		return err
	}

	approveAll, _ := cmd.Flags().GetBool("approve-all")

	gates := []struct {
		prompt  string
		approve func(context.Context) error
	}{
		{"Approve plan and start research?", sess.ApprovePlan},
		{"Approve research and generate outline?", sess.ApproveResearch},
		{"Approve outline and write the document?", sess.ApproveOutline},
	}

	for _, gate := range gates {
		if !approveAll && !confirm(gate.prompt) {
			fmt.Fprintln(os.Stdout, "Stopped. Session not completed.")
			return nil
		}
		if err := gate.approve(ctx); err != nil {
			return err
		}
	}

	rec := sess.CompletedRecord()
	fmt.Fprintf(os.Stdout, "\n%s\n\nResearch complete: %s (%d research steps)\n",
		rec.WrittenContent, rec.ID, len(rec.ResearchResults))
	fmt.Fprintf(os.Stdout, "Finalize with 'scribe finalize %s --title %q' when ready (deducts credits).\n",
		rec.ID, rec.TaskPlan.Title)
	return nil
}

// resolveQuery returns the free-text query, building it from a template
// when --template is set.
func resolveQuery(cmd *cobra.Command, args []string, cfg types.WorkflowConfig) (string, error) {
	templateID, _ := cmd.Flags().GetString("template")

	if templateID == "" {
		if len(args) == 0 {
			return "", fmt.Errorf("provide a query argument or --template")
		}
		return strings.Join(args, " "), nil
	}

	templates, err := template.LoadCatalog(cfg.Templates.CatalogPath)
	if err != nil {
		return "", err
	}
	tmpl, ok := template.Find(templates, templateID)
	if !ok {
		return "", fmt.Errorf("unknown template %q", templateID)
	}

	fieldFlags, _ := cmd.Flags().GetStringArray("field")
	values, err := parseFieldValues(tmpl, fieldFlags)
	if err != nil {
		return "", err
	}
	return template.BuildPrompt(tmpl, values)
}

// parseFieldValues turns repeated key=value flags into typed field values
// for the template. Tags fields take comma-separated values.
func parseFieldValues(tmpl types.Template, flags []string) (map[string]types.FieldValue, error) {
	kinds := make(map[string]types.FieldKind, len(tmpl.Fields))
	for _, f := range tmpl.Fields {
		kinds[f.Key] = f.Kind
	}

	values := make(map[string]types.FieldValue)
	for _, f := range flags {
		key, value, ok := strings.Cut(f, "=")
		if !ok {
			return nil, fmt.Errorf("invalid --field %q: expected key=value", f)
		}
		kind, known := kinds[key]
		if !known {
			return nil, fmt.Errorf("template has no field %q", key)
		}
		if kind == types.FieldTags {
			values[key] = types.FieldValue{Tags: strings.Split(value, ",")}
			continue
		}
		values[key] = types.FieldValue{Text: value}
	}
	return values, nil
}

func printPlan(plan types.TaskPlan) {
	fmt.Fprintf(os.Stdout, "\nPlan: %s\n", plan.Title)
	fmt.Fprintf(os.Stdout, "  type: %s, audience: %s, style: %s, target: %d words\n",
		plan.Description.Type, plan.Description.Audience, plan.Description.Style,
		plan.Description.WordCountTarget)
	for i, step := range plan.ExecutionPlan.ResearchSteps {
		fmt.Fprintf(os.Stdout, "  research %d. %s\n", i+1, step)
	}
}

// confirm asks a y/N question on stdin.
func confirm(prompt string) bool {
	fmt.Fprintf(os.Stdout, "%s [y/N] ", prompt)
	reader := bufio.NewReader(os.Stdin)
	line, err := reader.ReadString('\n')
	if err != nil {
		return false
	}
	answer := strings.ToLower(strings.TrimSpace(line))
	return answer == "y" || answer == "yes"
}
