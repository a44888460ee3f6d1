// Package gerber writes RS-274X photoplotter layer files for a board.
package gerber

import (
	"fmt"
	"io"

	"github.com/OpenTraceLab/OpenTraceCAM/pkg/board"
)

// Fixed header values. They never depend on the clock so repeated runs
// produce identical files.
const (
	CreationDate       = "20230101T120000"
	GenerationSoftware = "CircuitScript,1.0"
	ApertureID         = 10
	CoordScale         = 1_000_000 // mm to 4.6 fixed-point integer units
)

// Silkscreen placeholder outline, in mm from the placement centre
const (
	SilkHalfWidth  = 5.0
	SilkHalfHeight = 2.5
)

// Opcode is a Gerber D-code operation
type Opcode int

const (
	OpDraw  Opcode = 1 // D01: pen down
	OpMove  Opcode = 2 // D02: pen up
	OpFlash Opcode = 3 // D03: aperture flash
)

// Coord converts millimeters to file units by truncating toward zero.
// Rounding would change the output bytes for inexact inputs.
func Coord(mm float64) int64 {
	return int64(mm * CoordScale)
}

// Writer emits Gerber statements. The first write error is kept and
// reported by Err; later statements are dropped.
type Writer struct {
	w   io.Writer
	err error
}

// NewWriter creates a Writer on w
func NewWriter(w io.Writer) *Writer {
	return &Writer{w: w}
}

// Err returns the first write error
func (w *Writer) Err() error {
	return w.err
}

func (w *Writer) printf(format string, args ...any) {
	if w.err != nil {
		return
	}
	_, w.err = fmt.Fprintf(w.w, format, args...)
}

// Header writes the format, unit and attribute block followed by the
// aperture table. Apertures are declared in inches, then units return to mm.
func (w *Writer) Header(fileFunction string) {
	w.printf("%%FSLAX46Y46*%%\n")
	w.printf("%%MOMM*%%\n")
	w.printf("%%TF.FileFunction,%s*%%\n", fileFunction)
	w.printf("%%TF.Part,Single*%%\n")
	w.printf("%%TF.CreationDate,%s*%%\n", CreationDate)
	w.printf("%%TF.GenerationSoftware,%s*%%\n", GenerationSoftware)
	w.printf("%%MOIN*%%\n")
	w.printf("%%ADD%dC,0.010*%%\n", ApertureID)
	w.printf("%%MOMM*%%\n")
}

// Footer writes the end-of-file marker
func (w *Writer) Footer() {
	w.printf("M02*\n")
}

// LinearMode selects linear interpolation (G01)
func (w *Writer) LinearMode() {
	w.printf("G01*\n")
}

// SelectAperture makes id the current aperture
func (w *Writer) SelectAperture(id int) {
	w.printf("D%d*\n", id)
}

// Op writes one coordinate statement in file units
func (w *Writer) Op(x, y int64, op Opcode) {
	w.printf("X%dY%dD%02d*\n", x, y, int(op))
}

// Move moves the pen up to p
func (w *Writer) Move(p board.Point) {
	w.Op(Coord(p.X), Coord(p.Y), OpMove)
}

// Flash flashes the current aperture at p
func (w *Writer) Flash(p board.Point) {
	w.Op(Coord(p.X), Coord(p.Y), OpFlash)
}

// Rect draws a closed rectangle: a move to min, then four draws
// counter-clockwise back to min.
func (w *Writer) Rect(min, max board.Point) {
	x1, y1 := Coord(min.X), Coord(min.Y)
	x2, y2 := Coord(max.X), Coord(max.Y)

	w.Op(x1, y1, OpMove)
	w.Op(x2, y1, OpDraw)
	w.Op(x2, y2, OpDraw)
	w.Op(x1, y2, OpDraw)
	w.Op(x1, y1, OpDraw)
}
