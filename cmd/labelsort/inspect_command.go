package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/gardar/labelsort/pkg/config"
	"github.com/gardar/labelsort/pkg/labels"
	"github.com/gardar/labelsort/pkg/pdftext"
)

func newInspectCommand(opts *globalOptions) *cobra.Command {
	var pdfPath string

	cmd := &cobra.Command{
		Use:   "inspect",
		Short: "Show how each page of a PDF is read and classified",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := opts.loadConfig()
			if err != nil {
				return err
			}
			doc, err := pdftext.Load(pdfPath)
			if err != nil {
				return err
			}
			rows, err := inspectRows(cfg, doc)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "%s: %d pages\n", pdfPath, doc.PageCount())
			fmt.Fprintln(out, renderTable(
				[]string{"Page", "Size (pt)", "Label", "Order", "Guide refs"},
				rows,
				[]columnAlignment{alignRight, alignLeft, alignLeft, alignLeft, alignRight},
			))
			for _, w := range doc.Warnings {
				fmt.Fprintln(out, "Warning:", w)
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&pdfPath, "pdf", "", "PDF to inspect (required)")
	_ = cmd.MarkFlagRequired("pdf")
	return cmd
}

// inspectRows classifies doc the way a sort run would, one row per page.
func inspectRows(cfg *config.Config, doc *pdftext.Document) ([][]string, error) {
	labelOpts, err := cfg.LabelOptions()
	if err != nil {
		return nil, err
	}
	guideMatcher, err := cfg.GuideMatcher()
	if err != nil {
		return nil, err
	}
	indexer := labels.NewIndexer(labelOpts, nil)

	row := func(i int, label, order string) []string {
		p, _ := doc.Page(i)
		text, ok := doc.Text(i)
		refs := "-"
		if ok {
			n := 0
			for _, c := range guideMatcher.FindAll(text) {
				if c.OK {
					n++
				}
			}
			refs = fmt.Sprint(n)
		}
		return []string{fmt.Sprint(p.Number), fmt.Sprintf("%.0f x %.0f", p.Width, p.Height), label, order, refs}
	}

	var rows [][]string
	for i := 0; i < doc.PageCount(); {
		step := indexer.Classify(doc, i)
		rows = append(rows, row(i, step.Outcome.String(), step.ID.String()))
		if step.Outcome == labels.FoundLookahead {
			rows = append(rows, row(i+1, "metadata", step.Raw))
		}
		i += step.Advance
	}
	return rows, nil
}
