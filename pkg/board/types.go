// Package board holds the intermediate PCB model that design parsers
// populate and the manufacturing writers read.
package board

// Layout constants
const (
	PinPitch      = 2.54 // Placeholder pin spacing in mm (100 mil)
	DefaultLayers = 2    // Layer count of a new board
	NoPinNumber   = -1   // PinReference.PinNumber when only a pin name was given
)

// Point is a 2D coordinate in millimeters
type Point struct {
	X float64
	Y float64
}

// Pin is one pin of a component definition
type Pin struct {
	Number   int    // Pin number as declared
	Name     string // Pin name (e.g., "VCC")
	Function string // Functional role (e.g., "power", "passive")
}

// Component is a named part definition. Names are not required to be
// unique; lookups return the first match.
type Component struct {
	Name         string
	Package      string
	Manufacturer string
	MPN          string   // Manufacturer part number
	Pins         Seq[Pin] // Ordered; position j sets the pin's layout offset
}

// Placement is one instance of a component on the board
type Placement struct {
	Ref           string // Reference designator (e.g., "U1")
	ComponentName string // Weak reference to Component.Name, resolved at export
	Position      Point  // Position in mm
	Rotation      int    // Degrees
	TopSide       bool   // false = bottom side
}

// PinReference identifies a pin on a placed instance
type PinReference struct {
	Instance  string // Reference designator of the placement
	PinName   string
	PinNumber int // NoPinNumber if not specified
}

// Net is a named electrical connection
type Net struct {
	Name        string
	Connections Seq[PinReference]
}

// Board is the aggregate root of the model
type Board struct {
	Name       string
	Width      float64 // mm
	Height     float64 // mm
	Layers     int
	Components Seq[Component]
	Placements Seq[Placement]
	Nets       Seq[Net]
}
