// Package excellon writes the NC drill program for a board.
//
// Coordinates are written as millimeters with three decimals. Unlike the
// Gerber layers there is no integer fixed-point step: the value is
// formatted directly and rounded by the formatter.
package excellon

import (
	"bufio"
	"errors"
	"fmt"
	"io"

	"github.com/rs/zerolog"

	"github.com/OpenTraceLab/OpenTraceCAM/pkg/artifact"
	"github.com/OpenTraceLab/OpenTraceCAM/pkg/board"
)

// DefaultExtension is the drill file extension
const DefaultExtension = "drl"

// ToolDiameter is the single tool used for every hole, in mm
const ToolDiameter = 1.0

// ErrNilBoard is returned when there is no board to export
var ErrNilBoard = errors.New("no board data to generate drill files from")

type options struct {
	ext         string
	defaultName string
	logger      zerolog.Logger
}

// Option configures GenerateDrillFile
type Option func(*options)

// WithExtension sets the drill file extension (without the dot)
func WithExtension(ext string) Option {
	return func(o *options) { o.ext = ext }
}

// WithDefaultName sets the file base name used when the board has no name
func WithDefaultName(name string) Option {
	return func(o *options) { o.defaultName = name }
}

// WithLogger sets the logger for progress and diagnostics
func WithLogger(logger zerolog.Logger) Option {
	return func(o *options) { o.logger = logger }
}

// GenerateDrillFile writes <name>.<ext> into outputDir with one hole per
// pin of every placement, on both sides. A nil board fails immediately;
// a file that cannot be written is recorded in the result.
func GenerateDrillFile(b *board.Board, outputDir string, opts ...Option) (*artifact.Result, error) {
	o := options{
		ext:         DefaultExtension,
		defaultName: board.DefaultName,
		logger:      zerolog.Nop(),
	}
	for _, opt := range opts {
		opt(&o)
	}

	if b == nil {
		o.logger.Error().Msg("no board data to generate drill files")
		return nil, ErrNilBoard
	}

	artifact.EnsureDir(outputDir, o.logger)

	path := artifact.Path(outputDir, b.FileName(o.defaultName), "", o.ext)
	err := artifact.WriteFile(path, func(w *bufio.Writer) error {
		return Write(w, b, o.logger)
	})
	if err != nil {
		o.logger.Error().Err(err).Str("path", path).Msg("failed to create Excellon drill file")
	} else {
		o.logger.Info().Str("path", path).Msg("generated Excellon drill file")
	}

	result := &artifact.Result{}
	result.Add("drill", path, err)
	return result, nil
}

// Write emits the complete drill program for b to w
func Write(w io.Writer, b *board.Board, logger zerolog.Logger) error {
	p := &printer{w: w}

	// Header
	p.printf("M48\n")
	p.printf("METRIC,TZ\n")
	p.printf("T1C%.3f\n", ToolDiameter)
	p.printf("%%\n")
	p.printf("G90\n")
	p.printf("G05\n")
	p.printf("T1\n")

	for _, pl := range b.Placements.All() {
		c, ok := b.LookupComponent(pl.ComponentName)
		if !ok {
			logger.Warn().
				Str("component", pl.ComponentName).
				Str("placement", pl.Ref).
				Msg("component not found for placement, no drill holes")
			continue
		}
		for _, pt := range board.PinPositions(pl, c.Pins.Len()) {
			p.printf("X%.3fY%.3f\n", pt.X, pt.Y)
		}
	}

	// Footer
	p.printf("T0\n")
	p.printf("M30\n")

	return p.err
}

type printer struct {
	w   io.Writer
	err error
}

func (p *printer) printf(format string, args ...any) {
	if p.err != nil {
		return
	}
	_, p.err = fmt.Fprintf(p.w, format, args...)
}
