package gerber

import (
	"bufio"
	"errors"

	"github.com/rs/zerolog"

	"github.com/OpenTraceLab/OpenTraceCAM/pkg/artifact"
	"github.com/OpenTraceLab/OpenTraceCAM/pkg/board"
)

// DefaultExtension is the layer file extension
const DefaultExtension = "gbr"

// ErrNilBoard is returned when there is no board to export
var ErrNilBoard = errors.New("no board data to generate files from")

type options struct {
	ext                  string
	defaultName          string
	legacyCopperAperture bool
	logger               zerolog.Logger
}

// Option configures GenerateLayerFiles
type Option func(*options)

// WithExtension sets the layer file extension (without the dot)
func WithExtension(ext string) Option {
	return func(o *options) { o.ext = ext }
}

// WithDefaultName sets the file base name used when the board has no name
func WithDefaultName(name string) Option {
	return func(o *options) { o.defaultName = name }
}

// WithLegacyCopperAperture omits the aperture selection before copper
// flashes, matching files written by CircuitScript 1.0 byte for byte.
func WithLegacyCopperAperture(legacy bool) Option {
	return func(o *options) { o.legacyCopperAperture = legacy }
}

// WithLogger sets the logger for progress and diagnostics
func WithLogger(logger zerolog.Logger) Option {
	return func(o *options) { o.logger = logger }
}

func buildOptions(opts []Option) options {
	o := options{
		ext:         DefaultExtension,
		defaultName: board.DefaultName,
		logger:      zerolog.Nop(),
	}
	for _, opt := range opts {
		opt(&o)
	}
	return o
}

// GenerateLayerFiles writes the outline, copper and silkscreen layer files
// for b into outputDir. A file that cannot be written is recorded in the
// result and the remaining layers are still generated; only a nil board
// fails the whole call.
func GenerateLayerFiles(b *board.Board, outputDir string, opts ...Option) (*artifact.Result, error) {
	o := buildOptions(opts)
	if b == nil {
		o.logger.Error().Msg("no board data to generate Gerber files")
		return nil, ErrNilBoard
	}

	artifact.EnsureDir(outputDir, o.logger)

	base := b.FileName(o.defaultName)
	result := &artifact.Result{}
	for _, layer := range LayersFor(b.Layers) {
		path := artifact.Path(outputDir, base, layer.Suffix(), o.ext)
		err := artifact.WriteFile(path, func(bw *bufio.Writer) error {
			return writeLayer(bw, b, layer, o)
		})
		if err != nil {
			o.logger.Error().Err(err).Str("layer", layer.String()).Str("path", path).Msg("failed to create Gerber file")
		} else {
			o.logger.Info().Str("layer", layer.String()).Str("path", path).Msg("generated Gerber layer")
		}
		result.Add(layer.String(), path, err)
	}

	o.logger.Info().Int("files", len(result.Files)).Msg("Gerber files generation complete")
	return result, nil
}

func writeLayer(bw *bufio.Writer, b *board.Board, layer Layer, o options) error {
	w := NewWriter(bw)
	w.Header(layer.FileFunction())

	switch layer {
	case LayerOutline:
		writeOutline(w, b)
	case LayerTopCopper, LayerBottomCopper:
		writeCopper(w, b, layer.Top(), !o.legacyCopperAperture, o.logger)
	case LayerTopSilkscreen, LayerBottomSilkscreen:
		writeSilkscreen(w, b, layer.Top())
	}

	w.Footer()
	return w.Err()
}
