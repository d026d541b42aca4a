// Package codec persists a catalogue, its render settings, and a built
// router to a single binary file, and restores them without re-running
// shortest-path preprocessing.
package codec

import (
	"bufio"
	"encoding/gob"
	"os"

	"github.com/samirrijal/transitcat/internal/core/catalogue"
	"github.com/samirrijal/transitcat/internal/core/domain"
	"github.com/samirrijal/transitcat/internal/core/render"
	"github.com/samirrijal/transitcat/internal/core/router"
)

// formatVersion is the leading byte every blob carries; Deserialize rejects
// anything it doesn't recognize instead of guessing at a schema.
const formatVersion byte = 1

type stopRecord struct {
	Name string
	Lat  float64
	Lng  float64
}

type routeRecord struct {
	Name        string
	Type        int
	StopIndexes []int
}

type distanceRecord struct {
	FromIndex int
	ToIndex   int
	Meters    int
}

// colorKind tags which render.Color variant a colorRecord carries.
type colorKind int

const (
	colorKindNone colorKind = iota
	colorKindNamed
	colorKindRGB
	colorKindRGBA
)

type colorRecord struct {
	Kind    colorKind
	Name    string
	R, G, B uint8
	Opacity float64
}

func toColorRecord(c render.Color) colorRecord {
	switch v := c.(type) {
	case render.Named:
		return colorRecord{Kind: colorKindNamed, Name: string(v)}
	case render.RGB:
		return colorRecord{Kind: colorKindRGB, R: v.R, G: v.G, B: v.B}
	case render.RGBA:
		return colorRecord{Kind: colorKindRGBA, R: v.R, G: v.G, B: v.B, Opacity: v.Opacity}
	default:
		return colorRecord{Kind: colorKindNone}
	}
}

func (r colorRecord) toColor() render.Color {
	switch r.Kind {
	case colorKindNamed:
		return render.Named(r.Name)
	case colorKindRGB:
		return render.RGB{R: r.R, G: r.G, B: r.B}
	case colorKindRGBA:
		return render.RGBA{R: r.R, G: r.G, B: r.B, Opacity: r.Opacity}
	default:
		return render.None{}
	}
}

type renderSettingsRecord struct {
	Width, Height     float64
	Padding           float64
	LineWidth         float64
	StopRadius        float64
	BusLabelFontSize  int
	BusLabelOffsetX   float64
	BusLabelOffsetY   float64
	StopLabelFontSize int
	StopLabelOffsetX  float64
	StopLabelOffsetY  float64
	UnderlayerColor   colorRecord
	UnderlayerWidth   float64
	ColorPalette      []colorRecord
}

func toRenderSettingsRecord(s render.Settings) renderSettingsRecord {
	palette := make([]colorRecord, len(s.ColorPalette))
	for i, c := range s.ColorPalette {
		palette[i] = toColorRecord(c)
	}
	return renderSettingsRecord{
		Width: s.Width, Height: s.Height,
		Padding: s.Padding, LineWidth: s.LineWidth, StopRadius: s.StopRadius,
		BusLabelFontSize: s.BusLabelFontSize,
		BusLabelOffsetX:  s.BusLabelOffset.X, BusLabelOffsetY: s.BusLabelOffset.Y,
		StopLabelFontSize: s.StopLabelFontSize,
		StopLabelOffsetX:  s.StopLabelOffset.X, StopLabelOffsetY: s.StopLabelOffset.Y,
		UnderlayerColor: toColorRecord(s.UnderlayerColor), UnderlayerWidth: s.UnderlayerWidth,
		ColorPalette: palette,
	}
}

func (r renderSettingsRecord) toSettings() render.Settings {
	palette := make([]render.Color, len(r.ColorPalette))
	for i, c := range r.ColorPalette {
		palette[i] = c.toColor()
	}
	return render.Settings{
		Width: r.Width, Height: r.Height,
		Padding: r.Padding, LineWidth: r.LineWidth, StopRadius: r.StopRadius,
		BusLabelFontSize:  r.BusLabelFontSize,
		BusLabelOffset:    render.Point{X: r.BusLabelOffsetX, Y: r.BusLabelOffsetY},
		StopLabelFontSize: r.StopLabelFontSize,
		StopLabelOffset:   render.Point{X: r.StopLabelOffsetX, Y: r.StopLabelOffsetY},
		UnderlayerColor:   r.UnderlayerColor.toColor(), UnderlayerWidth: r.UnderlayerWidth,
		ColorPalette: palette,
	}
}

type routingSettingsRecord struct {
	WaitTime int
	Velocity float64
}

type graphRecord struct {
	Edges       []router.EdgeRecord
	Table       []router.TableEntryRecord
	VertexCount int
}

// blob is the single gob-encoded value persisted after the leading
// format-version byte.
type blob struct {
	Stops     []stopRecord
	Routes    []routeRecord
	Distances []distanceRecord

	HasRenderSettings bool
	RenderSettings    renderSettingsRecord

	HasRoutingSettings bool
	RoutingSettings    routingSettingsRecord

	HasGraph bool
	Graph    graphRecord
}

// Serialize writes cat, an optional render.Settings, and an optional
// *router.Router to path as a single self-describing blob. The router is
// only written if non-nil, and is initialized first if it has not been;
// renderSettings is only written if non-nil.
func Serialize(cat *catalogue.Catalogue, renderSettings *render.Settings, rtr *router.Router, path string) error {
	b := blob{
		Stops:     make([]stopRecord, cat.StopCount()),
		Distances: make([]distanceRecord, 0),
	}
	for i, s := range cat.Stops() {
		b.Stops[i] = stopRecord{Name: s.Name, Lat: s.Coordinates.Lat, Lng: s.Coordinates.Lng}
	}

	b.Routes = make([]routeRecord, len(cat.Routes()))
	for i, route := range cat.Routes() {
		indexes := make([]int, len(route.Stops))
		for j, id := range route.Stops {
			indexes[j] = int(id)
		}
		b.Routes[i] = routeRecord{Name: route.Name, Type: int(route.Type), StopIndexes: indexes}
	}

	for _, d := range cat.Distances() {
		b.Distances = append(b.Distances, distanceRecord{FromIndex: int(d.From), ToIndex: int(d.To), Meters: d.Meters})
	}

	if renderSettings != nil {
		b.HasRenderSettings = true
		b.RenderSettings = toRenderSettingsRecord(*renderSettings)
	}

	if rtr != nil {
		b.HasRoutingSettings = true
		b.RoutingSettings = routingSettingsRecord{WaitTime: rtr.Settings().WaitTime, Velocity: rtr.Settings().Velocity}

		edges, table, n := rtr.Export()
		b.HasGraph = true
		b.Graph = graphRecord{Edges: edges, Table: table, VertexCount: n}
	}

	f, err := os.Create(path)
	if err != nil {
		return domain.IOError("opening serialize target", err)
	}
	defer f.Close()

	w := bufio.NewWriter(f)
	if _, err := w.Write([]byte{formatVersion}); err != nil {
		return domain.IOError("writing format version", err)
	}
	if err := gob.NewEncoder(w).Encode(b); err != nil {
		return domain.IOError("encoding catalogue blob", err)
	}
	if err := w.Flush(); err != nil {
		return domain.IOError("flushing serialize target", err)
	}
	return nil
}

// Result is the full set of state Deserialize can restore. RenderSettings
// and Router are nil when the blob did not carry them.
type Result struct {
	Catalogue      *catalogue.Catalogue
	RenderSettings *render.Settings
	Router         *router.Router
}

// Deserialize reads a blob written by Serialize and rebuilds the catalogue,
// optional render settings, and optional router (marked Initialized
// directly, without re-running Dijkstra) in that order.
func Deserialize(path string) (*Result, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, domain.IOError("opening serialized blob", err)
	}
	defer f.Close()

	r := bufio.NewReader(f)
	version, err := r.ReadByte()
	if err != nil {
		return nil, domain.IOError("reading format version", err)
	}
	if version != formatVersion {
		return nil, domain.SchemaError("unrecognized format version", nil)
	}

	var b blob
	if err := gob.NewDecoder(r).Decode(&b); err != nil {
		return nil, domain.SchemaError("decoding catalogue blob", err)
	}

	cat := catalogue.New()
	for _, s := range b.Stops {
		cat.AddStop(s.Name, domain.Coordinates{Lat: s.Lat, Lng: s.Lng})
	}
	for _, rt := range b.Routes {
		stops := make([]domain.StopID, len(rt.StopIndexes))
		for i, idx := range rt.StopIndexes {
			stops[i] = domain.StopID(idx)
		}
		cat.AddRouteByID(rt.Name, domain.RouteType(rt.Type), stops)
	}
	for _, d := range b.Distances {
		cat.SetDistanceByID(domain.StopID(d.FromIndex), domain.StopID(d.ToIndex), d.Meters)
	}

	result := &Result{Catalogue: cat}

	if b.HasRenderSettings {
		settings := b.RenderSettings.toSettings()
		result.RenderSettings = &settings
	}

	if b.HasRoutingSettings {
		settings := router.Settings{WaitTime: b.RoutingSettings.WaitTime, Velocity: b.RoutingSettings.Velocity}
		if b.HasGraph {
			result.Router = router.Restore(cat, settings, b.Graph.Edges, b.Graph.Table, b.Graph.VertexCount)
		} else {
			result.Router = router.New(cat, settings)
		}
	}

	return result, nil
}
