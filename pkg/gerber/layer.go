package gerber

// Layer identifies one layer file
type Layer int

const (
	LayerOutline Layer = iota
	LayerTopCopper
	LayerBottomCopper
	LayerTopSilkscreen
	LayerBottomSilkscreen
)

func (l Layer) String() string {
	switch l {
	case LayerOutline:
		return "outline"
	case LayerTopCopper:
		return "top copper"
	case LayerBottomCopper:
		return "bottom copper"
	case LayerTopSilkscreen:
		return "top silkscreen"
	case LayerBottomSilkscreen:
		return "bottom silkscreen"
	}
	return "unknown layer"
}

// Suffix returns the file name suffix (KiCad layer naming)
func (l Layer) Suffix() string {
	switch l {
	case LayerOutline:
		return "-Edge_Cuts"
	case LayerTopCopper:
		return "-F_Cu"
	case LayerBottomCopper:
		return "-B_Cu"
	case LayerTopSilkscreen:
		return "-F_Silkscreen"
	case LayerBottomSilkscreen:
		return "-B_Silkscreen"
	}
	return ""
}

// FileFunction returns the value of the %TF.FileFunction attribute
func (l Layer) FileFunction() string {
	switch l {
	case LayerOutline:
		return "Profile,NP"
	case LayerTopCopper:
		return "Copper,L1,Top"
	case LayerBottomCopper:
		return "Copper,L2,Bot"
	case LayerTopSilkscreen:
		return "Legend,Top"
	case LayerBottomSilkscreen:
		return "Legend,Bot"
	}
	return ""
}

// Top reports whether the layer belongs to the top side
func (l Layer) Top() bool {
	return l == LayerTopCopper || l == LayerTopSilkscreen
}

// LayersFor returns the layer files generated for a board with the given
// number of layers, in generation order. Bottom layers need at least two.
func LayersFor(layerCount int) []Layer {
	layers := []Layer{LayerOutline, LayerTopCopper}
	if layerCount >= 2 {
		layers = append(layers, LayerBottomCopper)
	}
	layers = append(layers, LayerTopSilkscreen)
	if layerCount >= 2 {
		layers = append(layers, LayerBottomSilkscreen)
	}
	return layers
}
