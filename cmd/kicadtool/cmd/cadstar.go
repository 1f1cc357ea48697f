package cmd

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/kicad-go/eda-importers/pkg/cadstar"
	"github.com/kicad-go/eda-importers/pkg/cadstarimport"
)

var cadstarCmd = &cobra.Command{
	Use:   "cadstar",
	Short: "CADSTAR PCB archive commands",
}

var dumpBoard bool

var cadstarImportCmd = &cobra.Command{
	Use:   "import <archive.json>",
	Short: "Import a CADSTAR PCB archive and print a summary",
	Long: `Reads a CADSTAR PCB archive already materialized as JSON (the
native CADSTAR archive format is parsed upstream of this tool) and runs
the CADSTAR-to-KiCad PCB importer pipeline against it.`,
	Args: cobra.ExactArgs(1),
	RunE: runCadstarImport,
}

func init() {
	cadstarImportCmd.Flags().BoolVar(&dumpBoard, "dump", false, "print the resulting board as JSON instead of a summary")
	cadstarCmd.AddCommand(cadstarImportCmd)
}

func runCadstarImport(cmd *cobra.Command, args []string) error {
	data, err := os.ReadFile(args[0])
	if err != nil {
		return fmt.Errorf("read %q: %w", args[0], err)
	}

	var archive cadstar.Archive
	if err := json.Unmarshal(data, &archive); err != nil {
		return fmt.Errorf("decode %q: %w", args[0], err)
	}

	opts := cadstarimport.DefaultOptions()
	opts.RemapLayers = func(unresolved []cadstarimport.UnresolvedLayer) map[string]string {
		for _, u := range unresolved {
			if logger != nil {
				logger.Warn("unresolved CADSTAR layer, using fallback",
					zap.String("id", u.ID), zap.String("name", u.Name))
			}
		}
		return cfg.LayerRemap
	}

	slice := newSink()
	obs := newCtxObserver(cmd.Context(), logger)

	board, _, err := cadstarimport.Import(&archive, opts, diagSink(slice), obs)
	if err != nil {
		return fmt.Errorf("import %q: %w", args[0], err)
	}

	if dumpBoard {
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(board)
	}

	fmt.Printf("generator:  %s %s\n", board.Generator, board.GeneratorVer)
	fmt.Printf("footprints: %d\n", len(board.Footprints))
	fmt.Printf("tracks:     %d\n", len(board.Tracks))
	fmt.Printf("vias:       %d\n", len(board.Vias))
	fmt.Printf("zones:      %d\n", len(board.Zones))
	fmt.Printf("groups:     %d\n", len(board.Groups))
	fmt.Printf("stackup:    %d layers, %.3fmm thick\n", len(board.Stackup), board.General.Thickness)

	for _, w := range slice.Warnings {
		fmt.Fprintf(os.Stderr, "warning: %s\n", w.Error())
	}
	return nil
}
