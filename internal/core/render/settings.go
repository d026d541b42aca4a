package render

// Settings configures RenderMap's canvas and styling. It carries no
// behavior of its own; the renderer reads it once per call.
type Settings struct {
	Width, Height float64
	Padding       float64
	LineWidth     float64
	StopRadius    float64

	BusLabelFontSize int
	BusLabelOffset   Point

	StopLabelFontSize int
	StopLabelOffset   Point

	UnderlayerColor Color
	UnderlayerWidth float64

	// ColorPalette is cycled in route iteration order; must be non-empty for
	// RenderMap to produce colored lines.
	ColorPalette []Color
}
