package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/gardar/labelsort/pkg/assemble"
	"github.com/gardar/labelsort/pkg/config"
	"github.com/gardar/labelsort/pkg/labelsort"
	"github.com/gardar/labelsort/pkg/progress"
)

type sortFlags struct {
	paths            labelsort.FilePaths
	includeRemainder bool
	prefix           string
	noPrefix         bool
	unidentified     string
	lookaheadFirst   bool
	verticalOffset   float64
	overwrite        bool
	noColor          bool
}

func newSortCommand(opts *globalOptions) *cobra.Command {
	var f sortFlags

	cmd := &cobra.Command{
		Use:   "sort",
		Short: "Re-order and stamp labels to follow the guide",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := opts.loadConfig()
			if err != nil {
				return err
			}
			if err := f.apply(cmd, cfg); err != nil {
				return err
			}

			logger, closeLog, err := opts.openLogger(cfg)
			if err != nil {
				return err
			}
			defer closeLog()

			console := progress.NewConsole(cmd.OutOrStdout())
			if f.noColor {
				console.SetColor(false)
			}

			runner := &labelsort.Runner{Config: cfg, Sink: console, Logger: logger}
			res, err := runner.RunFiles(cmd.Context(), f.paths)
			if err != nil {
				return err
			}

			fmt.Fprintln(cmd.OutOrStdout())
			fmt.Fprint(cmd.OutOrStdout(), renderSummary(res.Report))
			return nil
		},
	}

	cmd.Flags().StringVar(&f.paths.Guide, "guide", "", "Guide PDF listing the orders to ship (required)")
	cmd.Flags().StringVar(&f.paths.Source, "source", "", "PDF export holding the labels (required)")
	cmd.Flags().StringVar(&f.paths.Marker, "marker", "", "Marker image stamped on every label")
	cmd.Flags().StringVarP(&f.paths.Output, "output", "o", "", "Output PDF path (required)")
	cmd.Flags().BoolVar(&f.includeRemainder, "include-remainder", false, "Append pages that are not labels after the extras")
	cmd.Flags().StringVar(&f.prefix, "prefix", "", "Order prefix applied to every identifier")
	cmd.Flags().BoolVar(&f.noPrefix, "no-prefix", false, "Compare identifiers without a prefix")
	cmd.Flags().StringVar(&f.unidentified, "unidentified", "", "Labels without a readable order: drop, extra or remainder")
	cmd.Flags().BoolVar(&f.lookaheadFirst, "lookahead-first", false, "Read the page after a label before the label itself")
	cmd.Flags().Float64Var(&f.verticalOffset, "vertical-offset", 0, "Vertical offset of the marker image")
	cmd.Flags().BoolVar(&f.overwrite, "overwrite", false, "Overwrite the output PDF if it already exists")
	cmd.Flags().BoolVar(&f.noColor, "no-color", false, "Disable coloured progress output")

	_ = cmd.MarkFlagRequired("guide")
	_ = cmd.MarkFlagRequired("source")
	_ = cmd.MarkFlagRequired("output")
	cmd.MarkFlagsMutuallyExclusive("prefix", "no-prefix")

	return cmd
}

// apply overrides config values with the flags given on the command line.
func (f *sortFlags) apply(cmd *cobra.Command, cfg *config.Config) error {
	flags := cmd.Flags()
	if flags.Changed("include-remainder") {
		cfg.Output.IncludeRemainderPages = f.includeRemainder
	}
	if flags.Changed("prefix") {
		cfg.Identifier.InjectPrefix = f.prefix
		cfg.Identifier.PrefixMarker = strings.TrimRight(f.prefix, "-")
	}
	if f.noPrefix {
		cfg.Identifier.InjectPrefix = config.NoPrefix
	}
	if flags.Changed("unidentified") {
		cfg.Labels.UnidentifiedPolicy = f.unidentified
	}
	if flags.Changed("lookahead-first") {
		cfg.Labels.LookaheadFirst = f.lookaheadFirst
	}
	if flags.Changed("vertical-offset") {
		cfg.Overlay.VerticalOffset = f.verticalOffset
	}
	if flags.Changed("overwrite") {
		cfg.Output.Overwrite = f.overwrite
	}
	return cfg.Validate()
}

func renderSummary(r assemble.Report) string {
	var b strings.Builder

	if r.Success() {
		fmt.Fprintf(&b, "Total success: %d orders matched, %d pages written\n", len(r.Matched), r.PagesWritten)
	} else {
		fmt.Fprintf(&b, "%d of %d orders missing (%d boxes), %d pages written\n",
			len(r.Missing), len(r.Missing)+len(r.Matched), r.MissingBoxes(), r.PagesWritten)
	}

	var rows [][]string
	for _, m := range r.Missing {
		rows = append(rows, []string{"missing", m.ID.String(), fmt.Sprint(m.Count)})
	}
	for _, id := range r.Extras {
		rows = append(rows, []string{"extra", id.String(), "1"})
	}
	for _, p := range r.Unidentified {
		rows = append(rows, []string{"unreadable", fmt.Sprintf("page %d", p), ""})
	}
	if len(rows) > 0 {
		b.WriteString(renderTable([]string{"Status", "Order", "Boxes"}, rows, []columnAlignment{alignLeft, alignLeft, alignRight}))
		b.WriteString("\n")
	}
	return b.String()
}
