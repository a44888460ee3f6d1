package cmd

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/OpenTraceLab/OpenTraceCAM/internal/watch"
	"github.com/OpenTraceLab/OpenTraceCAM/pkg/export"
)

var (
	outputDir            string
	watchDesign          bool
	legacyCopperAperture bool
)

var exportCmd = &cobra.Command{
	Use:   "export <design-file>",
	Short: "Generate Gerber and drill files for a design",
	Long: `Parse a design and write its manufacturing files: one Gerber file per
layer (outline, top/bottom copper, top/bottom silkscreen; bottom layers only
for boards with two or more layers) and an Excellon drill program.

A file that cannot be written is reported and the remaining files are still
generated; the command then exits non-zero.

Examples:
  otcam export blinky.cs
  otcam export -o fab board.kicad_pcb
  otcam export --legacy-copper-aperture blinky.cs
  otcam export --watch blinky.cs`,
	Args: cobra.ExactArgs(1),
	RunE: runExport,
}

func init() {
	rootCmd.AddCommand(exportCmd)

	exportCmd.Flags().StringVarP(&outputDir, "output", "o", "",
		"output directory (default from config, else ./gerber)")
	exportCmd.Flags().BoolVarP(&watchDesign, "watch", "w", false,
		"re-export whenever the design file changes")
	exportCmd.Flags().BoolVar(&legacyCopperAperture, "legacy-copper-aperture", false,
		"omit the D10 aperture select on copper layers")
}

func runExport(cmd *cobra.Command, args []string) error {
	filename := args[0]

	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	logger := newLogger(cfg, cmd.ErrOrStderr())

	exportCfg := cfg.ExportOptions(logger)
	if outputDir != "" {
		exportCfg.OutputDir = outputDir
	}
	if legacyCopperAperture {
		exportCfg.LegacyCopperAperture = true
	}

	out := cmd.OutOrStdout()
	if !watchDesign {
		return exportOnce(out, filename, exportCfg, logger)
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := exportOnce(out, filename, exportCfg, logger); err != nil {
		logger.Error().Err(err).Msg("initial export failed")
	}

	w, err := watch.New(filename, func(context.Context) error {
		return exportOnce(out, filename, exportCfg, logger)
	}, watch.WithLogger(logger))
	if err != nil {
		return err
	}
	return w.Run(ctx)
}

// exportOnce loads the design, writes every artifact and prints a summary
func exportOnce(out io.Writer, filename string, cfg export.Config, logger zerolog.Logger) error {
	if verbose {
		fmt.Fprintf(out, "Exporting design: %s\n\n", filename)
	}

	b, err := loadBoard(filename, logger)
	if err != nil {
		return err
	}
	defer b.Release()

	result, err := export.Run(b, cfg)
	if err != nil {
		return err
	}

	fmt.Fprintf(out, "Wrote %d file(s) to %s\n", len(result.Files), cfg.OutputDir)
	for _, path := range result.Files {
		fmt.Fprintf(out, "  ✓ %s\n", path)
	}
	for _, fe := range result.Failed {
		fmt.Fprintf(out, "  ✗ %s (%s): %v\n", fe.Path, fe.Kind, fe.Err)
	}

	if len(result.Failed) > 0 {
		return fmt.Errorf("%d of %d artifact(s) failed: %w",
			len(result.Failed), len(result.Files)+len(result.Failed), result.Err())
	}
	return nil
}
