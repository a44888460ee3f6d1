package gerber

import (
	"github.com/rs/zerolog"

	"github.com/OpenTraceLab/OpenTraceCAM/pkg/board"
)

// writeOutline draws the board profile as a rectangle from the origin
func writeOutline(w *Writer, b *board.Board) {
	w.LinearMode()
	w.SelectAperture(ApertureID)
	w.Rect(board.Point{}, board.Point{X: b.Width, Y: b.Height})
}

// writeCopper flashes one pad per pin for every placement on the given
// side. Placements whose component does not resolve are skipped.
func writeCopper(w *Writer, b *board.Board, top, selectAperture bool, logger zerolog.Logger) {
	if selectAperture {
		w.SelectAperture(ApertureID)
	}

	for _, p := range b.Placements.All() {
		if p.TopSide != top {
			continue
		}

		c, ok := b.LookupComponent(p.ComponentName)
		if !ok {
			logger.Warn().
				Str("component", p.ComponentName).
				Str("placement", p.Ref).
				Msg("component not found for placement")
			continue
		}

		for _, pt := range board.PinPositions(p, c.Pins.Len()) {
			w.Flash(pt)
		}
	}
}

// writeSilkscreen draws a fixed-size box around every placement on the
// given side and moves to its centre, where a reference label would go.
func writeSilkscreen(w *Writer, b *board.Board, top bool) {
	w.LinearMode()
	w.SelectAperture(ApertureID)

	for _, p := range b.Placements.All() {
		if p.TopSide != top {
			continue
		}

		c := p.Position
		w.Rect(
			board.Point{X: c.X - SilkHalfWidth, Y: c.Y - SilkHalfHeight},
			board.Point{X: c.X + SilkHalfWidth, Y: c.Y + SilkHalfHeight},
		)
		w.Move(c) // label anchor, no glyphs
	}
}
