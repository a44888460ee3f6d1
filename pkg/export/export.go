// Package export sequences the manufacturing writers for one board: it
// prepares the output directory, writes the Gerber layers and the drill
// program, and collects what was produced.
package export

import (
	"fmt"

	"github.com/rs/zerolog"

	"github.com/OpenTraceLab/OpenTraceCAM/pkg/artifact"
	"github.com/OpenTraceLab/OpenTraceCAM/pkg/board"
	"github.com/OpenTraceLab/OpenTraceCAM/pkg/excellon"
	"github.com/OpenTraceLab/OpenTraceCAM/pkg/gerber"
)

// ErrNilBoard is returned when Run is called without a board
var ErrNilBoard = gerber.ErrNilBoard

// Config controls where and how artifacts are written
type Config struct {
	OutputDir            string // Directory for all artifacts
	DefaultName          string // File base name when the board has none
	GerberExt            string // Layer file extension
	DrillExt             string // Drill file extension
	LegacyCopperAperture bool   // Omit D10 before copper flashes (byte-compatible output)

	Logger zerolog.Logger
}

// DefaultConfig returns a Config writing into ./gerber with the standard
// extensions
func DefaultConfig() Config {
	return Config{
		OutputDir:   "gerber",
		DefaultName: board.DefaultName,
		GerberExt:   gerber.DefaultExtension,
		DrillExt:    excellon.DefaultExtension,
		Logger:      zerolog.Nop(),
	}
}

// Validate fills empty fields with defaults and rejects unusable values
func (c *Config) Validate() error {
	def := DefaultConfig()
	if c.OutputDir == "" {
		c.OutputDir = def.OutputDir
	}
	if c.DefaultName == "" {
		c.DefaultName = def.DefaultName
	}
	if c.GerberExt == "" {
		c.GerberExt = def.GerberExt
	}
	if c.DrillExt == "" {
		c.DrillExt = def.DrillExt
	}
	if c.GerberExt == c.DrillExt {
		return fmt.Errorf("gerber and drill extensions must differ (both %q)", c.GerberExt)
	}
	return nil
}

// Artifact describes one file a board export will produce
type Artifact struct {
	Kind string
	Path string
}

// Plan lists the artifacts Run would write for b, in order
func Plan(b *board.Board, cfg Config) ([]Artifact, error) {
	if b == nil {
		return nil, ErrNilBoard
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	base := b.FileName(cfg.DefaultName)
	var plan []Artifact
	for _, layer := range gerber.LayersFor(b.Layers) {
		plan = append(plan, Artifact{
			Kind: layer.String(),
			Path: artifact.Path(cfg.OutputDir, base, layer.Suffix(), cfg.GerberExt),
		})
	}
	plan = append(plan, Artifact{
		Kind: "drill",
		Path: artifact.Path(cfg.OutputDir, base, "", cfg.DrillExt),
	})
	return plan, nil
}

// Run writes all manufacturing artifacts for b. Per-file failures are
// reported in the result, not as an error; check Result.Err.
func Run(b *board.Board, cfg Config) (*artifact.Result, error) {
	if b == nil {
		cfg.Logger.Error().Msg("no board data to export")
		return nil, ErrNilBoard
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid export config: %w", err)
	}

	artifact.EnsureDir(cfg.OutputDir, cfg.Logger)

	result := &artifact.Result{}

	layers, err := gerber.GenerateLayerFiles(b, cfg.OutputDir,
		gerber.WithExtension(cfg.GerberExt),
		gerber.WithDefaultName(cfg.DefaultName),
		gerber.WithLegacyCopperAperture(cfg.LegacyCopperAperture),
		gerber.WithLogger(cfg.Logger),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to generate Gerber files: %w", err)
	}
	result.Merge(layers)

	drill, err := excellon.GenerateDrillFile(b, cfg.OutputDir,
		excellon.WithExtension(cfg.DrillExt),
		excellon.WithDefaultName(cfg.DefaultName),
		excellon.WithLogger(cfg.Logger),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to generate drill file: %w", err)
	}
	result.Merge(drill)

	cfg.Logger.Info().
		Int("written", len(result.Files)).
		Int("failed", len(result.Failed)).
		Str("dir", cfg.OutputDir).
		Msg("export complete")
	return result, nil
}
