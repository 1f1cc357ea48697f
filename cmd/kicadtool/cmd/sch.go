package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/kicad-go/eda-importers/pkg/schematic"
)

var schCmd = &cobra.Command{
	Use:   "sch",
	Short: "Schematic (.kicad_sch) commands",
}

var schParseCmd = &cobra.Command{
	Use:   "parse <file>",
	Short: "Parse a schematic file and print a summary",
	Args:  cobra.ExactArgs(1),
	RunE:  runSchParse,
}

func init() {
	schCmd.AddCommand(schParseCmd)
}

func runSchParse(cmd *cobra.Command, args []string) error {
	f, err := os.Open(args[0])
	if err != nil {
		return fmt.Errorf("open %q: %w", args[0], err)
	}
	defer f.Close()

	opts := schematic.DefaultOptions()
	if cfg.MaxSchematicVersion > 0 {
		opts.MaxSupportedVersion = cfg.MaxSchematicVersion
	}
	opts.Locale = localeFor(cfg.NumericLocale)

	slice := newSink()
	obs := newCtxObserver(cmd.Context(), logger)

	sch, _, err := schematic.ParseWithOptions(f, opts, diagSink(slice), obs)
	if err != nil {
		return fmt.Errorf("parse %q: %w", args[0], err)
	}

	fmt.Printf("version:    %d\n", sch.Version)
	fmt.Printf("generator:  %s %s\n", sch.Generator, sch.GeneratorVer)
	fmt.Printf("paper:      %s (%.1fx%.1fmm)\n", sch.Paper, sch.PaperW, sch.PaperH)
	if sch.TitleBlock.Title != "" {
		fmt.Printf("title:      %s\n", sch.TitleBlock.Title)
	}
	fmt.Printf("symbols:      %d\n", len(sch.Symbols))
	fmt.Printf("wires:        %d\n", len(sch.Wires))
	fmt.Printf("buses:        %d\n", len(sch.Buses))
	fmt.Printf("labels:       %d\n", len(sch.Labels)+len(sch.GlobalLabels)+len(sch.HierLabels))
	fmt.Printf("sheets:       %d\n", len(sch.Sheets))

	for _, w := range slice.Warnings {
		fmt.Fprintf(os.Stderr, "warning: %s\n", w.Error())
	}
	return nil
}
