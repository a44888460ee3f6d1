// Package kicad imports KiCad .kicad_pcb boards into the board model.
//
// Footprints become components and placements, pad nets become nets and the
// Edge.Cuts outline sets the board size. Coordinates are shifted so the
// outline's lower-left corner is the origin and Y grows upward.
package kicad

import (
	"fmt"
	"io"
	"math"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/rs/zerolog"

	"github.com/OpenTraceLab/OpenTraceCAM/pkg/board"
	"github.com/OpenTraceLab/OpenTraceCAM/pkg/kicad/sexp"
)

// Minimum supported KiCad version (6.0 = 20211014)
const MinSupportedVersion = 20211014

// Layer names
const (
	OutlineLayer     = "Edge.Cuts"
	BottomCopperName = "B.Cu"
)

// Option configures an import
type Option func(*importer)

// WithLogger sets the logger for skipped and merged items
func WithLogger(logger zerolog.Logger) Option {
	return func(im *importer) {
		im.log = logger
	}
}

// ParseFile reads a KiCad board file. A board without a title block title
// is named after the file.
func ParseFile(filename string, opts ...Option) (*board.Board, error) {
	file, err := os.Open(filename)
	if err != nil {
		return nil, fmt.Errorf("failed to open file: %w", err)
	}
	defer file.Close()

	b, err := Parse(file, opts...)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", filename, err)
	}
	if b.Name == "" {
		base := filepath.Base(filename)
		b.Name = strings.TrimSuffix(base, filepath.Ext(base))
	}
	return b, nil
}

// Parse reads a KiCad board from r
func Parse(r io.Reader, opts ...Option) (*board.Board, error) {
	nodes, err := sexp.Parse(r)
	if err != nil {
		return nil, fmt.Errorf("failed to parse s-expression: %w", err)
	}
	if len(nodes) == 0 {
		return nil, fmt.Errorf("empty file or no valid s-expressions found")
	}

	root, ok := nodes[0].(*sexp.List)
	if !ok || root.Name() != "kicad_pcb" {
		return nil, fmt.Errorf("not a KiCad PCB file: expected 'kicad_pcb', got '%s'", nodes[0])
	}

	im := &importer{
		log:      zerolog.Nop(),
		root:     root,
		netIndex: make(map[string]int),
		seen:     make(map[string]bool),
	}
	for _, opt := range opts {
		opt(im)
	}
	return im.run()
}

type footprint struct {
	lib   string
	ref   string
	layer string
	x, y  float64
	angle float64
	pads  []pad
}

type pad struct {
	number string
	kind   string
	net    string
}

type importer struct {
	log  zerolog.Logger
	root *sexp.List

	nets     []*board.Net
	netIndex map[string]int
	seen     map[string]bool
}

func (im *importer) run() (*board.Board, error) {
	version, ok := im.root.Find("version")
	if !ok {
		return nil, fmt.Errorf("missing required 'version' field")
	}
	ver, err := version.Int(1)
	if err != nil {
		return nil, fmt.Errorf("failed to parse version: %w", err)
	}
	if ver < MinSupportedVersion {
		return nil, fmt.Errorf("unsupported KiCad version: %d (minimum required: %d / KiCad 6.0)", ver, MinSupportedVersion)
	}

	b := board.New()
	b.Name = im.title()
	b.Layers = im.copperLayers()

	tableNames := im.netTable()
	for _, name := range tableNames {
		im.net(name)
	}

	var footprints []footprint
	for _, node := range im.root.FindAll("footprint") {
		fp, err := parseFootprint(node)
		if err != nil {
			return nil, err
		}
		footprints = append(footprints, fp)
	}

	box := im.outline()
	if !box.ok {
		for _, fp := range footprints {
			box.expand(fp.x, fp.y)
		}
		im.log.Warn().Msg("no Edge.Cuts outline, sizing board from footprint positions")
	}
	b.Width = box.maxX - box.minX
	b.Height = box.maxY - box.minY

	for _, fp := range footprints {
		im.addFootprint(b, fp, box)
	}

	for _, n := range im.nets {
		b.AddNet(n)
	}

	im.log.Debug().
		Str("board", b.Name).
		Int("layers", b.Layers).
		Int("components", b.Components.Len()).
		Int("placements", b.Placements.Len()).
		Int("nets", b.Nets.Len()).
		Msg("imported KiCad board")

	return b, nil
}

func (im *importer) title() string {
	tb, ok := im.root.Find("title_block")
	if !ok {
		return ""
	}
	title, ok := tb.Find("title")
	if !ok {
		return ""
	}
	s, _ := title.Str(1)
	return s
}

// copperLayers counts (layers) entries of a copper type
func (im *importer) copperLayers() int {
	layers, ok := im.root.Find("layers")
	if !ok {
		return board.DefaultLayers
	}
	count := 0
	for _, item := range layers.Items[1:] {
		entry, ok := item.(*sexp.List)
		if !ok {
			continue
		}
		switch kind, _ := entry.Str(2); kind {
		case "signal", "power", "mixed", "jumper":
			count++
		}
	}
	if count == 0 {
		return board.DefaultLayers
	}
	return count
}

// netTable returns the board-level net names in declaration order
func (im *importer) netTable() []string {
	var names []string
	for _, node := range im.root.FindAll("net") {
		if name, _ := node.Str(2); name != "" {
			names = append(names, name)
		}
	}
	return names
}

func (im *importer) net(name string) *board.Net {
	if i, ok := im.netIndex[name]; ok {
		return im.nets[i]
	}
	im.netIndex[name] = len(im.nets)
	n := board.NewNet(name)
	im.nets = append(im.nets, n)
	return n
}

func (im *importer) addFootprint(b *board.Board, fp footprint, box bounds) {
	if !im.seen[fp.lib] {
		im.seen[fp.lib] = true
		c := board.NewComponent(fp.lib)
		if i := strings.IndexByte(fp.lib, ':'); i >= 0 {
			c.Package = fp.lib[i+1:]
		} else {
			c.Package = fp.lib
		}
		for i, pd := range fp.pads {
			number, err := strconv.Atoi(pd.number)
			if err != nil {
				number = i + 1
			}
			c.AddPin(board.Pin{Number: number, Name: pd.number, Function: pd.kind})
		}
		b.AddComponent(c)
	}

	p := board.NewPlacement()
	p.Ref = fp.ref
	p.ComponentName = fp.lib
	p.Position = board.Point{X: fp.x - box.minX, Y: box.maxY - fp.y}
	p.Rotation = int(math.Round(fp.angle))
	p.TopSide = fp.layer != BottomCopperName
	b.AddPlacement(p)

	for _, pd := range fp.pads {
		if pd.net == "" {
			continue
		}
		number := board.NoPinNumber
		if v, err := strconv.Atoi(pd.number); err == nil {
			number = v
		}
		im.net(pd.net).AddConnection(board.PinReference{
			Instance:  fp.ref,
			PinName:   pd.number,
			PinNumber: number,
		})
	}
}

func parseFootprint(node *sexp.List) (footprint, error) {
	var fp footprint
	lib, err := node.Str(1)
	if err != nil {
		return fp, fmt.Errorf("failed to parse footprint name: %w", err)
	}
	fp.lib = lib

	if layer, ok := node.Find("layer"); ok {
		fp.layer, _ = layer.Str(1)
	}

	at, ok := node.Find("at")
	if !ok {
		return fp, fmt.Errorf("line %d: footprint %q: missing required 'at' position", node.Line, lib)
	}
	if fp.x, err = at.Float(1); err != nil {
		return fp, fmt.Errorf("failed to parse X position: %w", err)
	}
	if fp.y, err = at.Float(2); err != nil {
		return fp, fmt.Errorf("failed to parse Y position: %w", err)
	}
	if at.Len() > 3 {
		fp.angle, _ = at.Float(3)
	}

	for _, prop := range node.FindAll("property") {
		if name, _ := prop.Str(1); name == "Reference" {
			fp.ref, _ = prop.Str(2)
		}
	}
	if fp.ref == "" {
		for _, text := range node.FindAll("fp_text") {
			if kind, _ := text.Str(1); kind == "reference" {
				fp.ref, _ = text.Str(2)
			}
		}
	}

	for _, pn := range node.FindAll("pad") {
		number, _ := pn.Str(1)
		if number == "" {
			continue // mounting holes
		}
		kind, _ := pn.Str(2)
		fp.pads = append(fp.pads, pad{number: number, kind: kind, net: padNet(pn)})
	}
	return fp, nil
}

// padNet reads (net 3 "GND") or (net "GND")
func padNet(pn *sexp.List) string {
	n, ok := pn.Find("net")
	if !ok {
		return ""
	}
	if n.Len() >= 3 {
		name, _ := n.Str(2)
		return name
	}
	name, _ := n.Str(1)
	if _, err := strconv.Atoi(name); err == nil {
		return ""
	}
	return name
}

type bounds struct {
	minX, minY, maxX, maxY float64
	ok                     bool
}

func (bb *bounds) expand(x, y float64) {
	if !bb.ok {
		*bb = bounds{minX: x, minY: y, maxX: x, maxY: y, ok: true}
		return
	}
	bb.minX = math.Min(bb.minX, x)
	bb.minY = math.Min(bb.minY, y)
	bb.maxX = math.Max(bb.maxX, x)
	bb.maxY = math.Max(bb.maxY, y)
}

func (bb *bounds) expandNode(node *sexp.List, key string) {
	pt, ok := node.Find(key)
	if !ok {
		return
	}
	x, errX := pt.Float(1)
	y, errY := pt.Float(2)
	if errX == nil && errY == nil {
		bb.expand(x, y)
	}
}

// outline is the bounding box of the Edge.Cuts graphics. Arcs use their
// three defining points.
func (im *importer) outline() bounds {
	var box bounds
	for _, item := range im.root.Items[1:] {
		node, ok := item.(*sexp.List)
		if !ok || !onLayer(node, OutlineLayer) {
			continue
		}
		switch node.Name() {
		case "gr_line", "gr_rect":
			box.expandNode(node, "start")
			box.expandNode(node, "end")
		case "gr_arc":
			box.expandNode(node, "start")
			box.expandNode(node, "mid")
			box.expandNode(node, "end")
		case "gr_circle":
			im.expandCircle(&box, node)
		case "gr_poly":
			if pts, ok := node.Find("pts"); ok {
				for _, xy := range pts.FindAll("xy") {
					x, errX := xy.Float(1)
					y, errY := xy.Float(2)
					if errX == nil && errY == nil {
						box.expand(x, y)
					}
				}
			}
		}
	}
	return box
}

func (im *importer) expandCircle(box *bounds, node *sexp.List) {
	center, okC := node.Find("center")
	end, okE := node.Find("end")
	if !okC || !okE {
		im.log.Warn().Int("line", node.Line).Msg("gr_circle without center or end, skipped")
		return
	}
	cx, _ := center.Float(1)
	cy, _ := center.Float(2)
	ex, _ := end.Float(1)
	ey, _ := end.Float(2)
	r := math.Hypot(ex-cx, ey-cy)
	box.expand(cx-r, cy-r)
	box.expand(cx+r, cy+r)
}

func onLayer(node *sexp.List, name string) bool {
	layer, ok := node.Find("layer")
	if !ok {
		return false
	}
	s, _ := layer.Str(1)
	return s == name
}
