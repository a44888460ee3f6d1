package cmd

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/OpenTraceLab/OpenTraceCAM/internal/config"
	"github.com/OpenTraceLab/OpenTraceCAM/pkg/board"
	"github.com/OpenTraceLab/OpenTraceCAM/pkg/circuitscript"
	"github.com/OpenTraceLab/OpenTraceCAM/pkg/kicad"
)

// Version is the release reported by --version and otcam version
const Version = "0.3.0"

var (
	// Global flags
	verbose    bool
	configPath string
)

var rootCmd = &cobra.Command{
	Use:   "otcam",
	Short: "OpenTraceCAM - PCB manufacturing file generator",
	Long: `OpenTraceCAM (otcam) turns board designs into fabrication outputs:
  - Gerber layer files (outline, copper, silkscreen)
  - an Excellon drill program

Designs are read from CircuitScript sources (.cs) or KiCad boards (.kicad_pcb).

Examples:
  otcam export blinky.cs                   # Write ./gerber/blinky-*.gbr and blinky.drl
  otcam export board.kicad_pcb -o fab      # Export a KiCad board into ./fab
  otcam export blinky.cs --watch           # Re-export on every save
  otcam info blinky.cs                     # Show what an export would produce`,
	Version:       Version,
	SilenceUsage:  true,
	SilenceErrors: true,
}

// Execute runs the root command
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "verbose output")
	rootCmd.PersistentFlags().StringVarP(&configPath, "config", "c", "",
		"config file (default "+config.DefaultFile+" if present)")
}

// loadConfig reads --config, or the default file when it exists
func loadConfig() (*config.Config, error) {
	if configPath != "" {
		return config.Load(configPath)
	}
	return config.LoadWithFallback(config.DefaultFile)
}

// newLogger builds the stderr logger described by cfg
func newLogger(cfg *config.Config, w io.Writer) zerolog.Logger {
	level, err := cfg.LogLevel()
	if err != nil {
		level = zerolog.InfoLevel
	}
	if verbose {
		level = zerolog.DebugLevel
	}

	if cfg.Logging.Format == "json" {
		return zerolog.New(w).Level(level).With().Timestamp().Logger()
	}
	output := zerolog.ConsoleWriter{Out: w, TimeFormat: time.RFC3339}
	return zerolog.New(output).Level(level).With().Timestamp().Logger()
}

// Design formats
const (
	FormatCircuitScript = "circuitscript"
	FormatKiCad         = "kicad"
)

// designFormat picks a loader by file extension
func designFormat(path string) string {
	if strings.EqualFold(filepath.Ext(path), ".kicad_pcb") {
		return FormatKiCad
	}
	return FormatCircuitScript
}

// loadBoard parses a design file into a board. The caller releases it.
func loadBoard(path string, logger zerolog.Logger) (*board.Board, error) {
	format := designFormat(path)
	logger.Debug().Str("file", path).Str("format", format).Msg("loading design")

	var (
		b   *board.Board
		err error
	)
	switch format {
	case FormatKiCad:
		b, err = kicad.ParseFile(path, kicad.WithLogger(logger))
	default:
		b, err = circuitscript.LoadFile(path)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load design: %w", err)
	}
	return b, nil
}
