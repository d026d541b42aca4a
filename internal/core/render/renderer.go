// Package render draws a catalogue's routes and stops onto an SVG canvas.
package render

import (
	"math"
	"sort"

	"github.com/samirrijal/transitcat/internal/core/catalogue"
	"github.com/samirrijal/transitcat/internal/core/domain"
)

const zeroEpsilon = 1e-6

func isZero(v float64) bool {
	return math.Abs(v) < zeroEpsilon
}

// fieldSize is the geographic bounding box of the stops the map actually
// draws: those served by at least one route.
type fieldSize struct {
	minLat, minLng float64
	maxLat, maxLng float64
}

// mapRenderer carries the catalogue and settings through one RenderMap call
// so the per-stage render functions don't each need their own parameter
// list of lookups.
type mapRenderer struct {
	cat      *catalogue.Catalogue
	settings Settings
	field    fieldSize
}

// RenderMap draws every route and route-served stop in cat onto an SVG
// document per settings, and returns the rendered document text.
func RenderMap(cat *catalogue.Catalogue, settings Settings) string {
	r := &mapRenderer{cat: cat, settings: settings, field: computeFieldSize(cat)}

	routes := sortedRoutes(cat)
	stops := sortedStops(cat)

	doc := NewDocument()
	r.renderLines(doc, routes)
	r.renderRouteNames(doc, routes)
	r.renderStops(doc, stops)
	r.renderStopNames(doc, stops)
	return doc.Render()
}

func sortedRoutes(cat *catalogue.Catalogue) []domain.Route {
	routes := append([]domain.Route(nil), cat.Routes()...)
	sort.Slice(routes, func(i, j int) bool { return routes[i].Name < routes[j].Name })
	return routes
}

type namedStop struct {
	id   domain.StopID
	stop domain.Stop
}

func sortedStops(cat *catalogue.Catalogue) []namedStop {
	all := cat.Stops()
	stops := make([]namedStop, len(all))
	for i, s := range all {
		stops[i] = namedStop{id: domain.StopID(i), stop: s}
	}
	sort.Slice(stops, func(i, j int) bool { return stops[i].stop.Name < stops[j].stop.Name })
	return stops
}

func computeFieldSize(cat *catalogue.Catalogue) fieldSize {
	field := fieldSize{minLat: 90, minLng: 180, maxLat: -90, maxLng: -180}
	for i, stop := range cat.Stops() {
		if !cat.HasBuses(domain.StopID(i)) {
			continue
		}
		c := stop.Coordinates
		if c.Lat < field.minLat {
			field.minLat = c.Lat
		}
		if c.Lat > field.maxLat {
			field.maxLat = c.Lat
		}
		if c.Lng < field.minLng {
			field.minLng = c.Lng
		}
		if c.Lng > field.maxLng {
			field.maxLng = c.Lng
		}
	}
	return field
}

// relativePoint projects a geographic coordinate into canvas space using the
// zoom coefficient that fits both axes of r.field; either axis collapsing to
// zero falls back to the other axis's coefficient, and both collapsing
// yields zero zoom (every point maps to the padding corner).
func (r *mapRenderer) relativePoint(coord domain.Coordinates) Point {
	fieldWidth := r.field.maxLng - r.field.minLng
	fieldHeight := r.field.maxLat - r.field.minLat
	s := r.settings

	var zoom float64
	switch {
	case isZero(fieldWidth) && isZero(fieldHeight):
		zoom = 0
	case isZero(fieldWidth):
		zoom = (s.Height - 2*s.Padding) / fieldHeight
	case isZero(fieldHeight):
		zoom = (s.Width - 2*s.Padding) / fieldWidth
	default:
		zoom = math.Min((s.Height-2*s.Padding)/fieldHeight, (s.Width-2*s.Padding)/fieldWidth)
	}

	return Point{
		X: (coord.Lng-r.field.minLng)*zoom + s.Padding,
		Y: (r.field.maxLat-coord.Lat)*zoom + s.Padding,
	}
}

func (r *mapRenderer) renderLines(doc *Document, routes []domain.Route) {
	if len(r.settings.ColorPalette) == 0 {
		return
	}
	colorIndex := 0
	for _, route := range routes {
		if len(route.Stops) == 0 {
			continue
		}
		line := NewPolyline().
			SetStrokeColor(r.settings.ColorPalette[colorIndex%len(r.settings.ColorPalette)]).
			SetFillColor(None{}).
			SetStrokeWidth(r.settings.LineWidth).
			SetStrokeLineCap("round").
			SetStrokeLineJoin("round")

		for _, stopID := range route.Stops {
			line.AddPoint(r.relativePoint(r.cat.Stop(stopID).Coordinates))
		}
		if route.Type == domain.RouteTypeLinear {
			for i := len(route.Stops) - 2; i >= 0; i-- {
				line.AddPoint(r.relativePoint(r.cat.Stop(route.Stops[i]).Coordinates))
			}
		}
		doc.Add(line)
		colorIndex++
	}
}

func (r *mapRenderer) renderRouteNames(doc *Document, routes []domain.Route) {
	if len(r.settings.ColorPalette) == 0 {
		return
	}
	colorIndex := 0
	for _, route := range routes {
		if len(route.Stops) == 0 {
			continue
		}
		first := route.Stops[0]
		last := route.Stops[len(route.Stops)-1]

		r.addRouteLabel(doc, route.Name, first, r.settings.ColorPalette[colorIndex%len(r.settings.ColorPalette)])
		if route.Type == domain.RouteTypeLinear && last != first {
			r.addRouteLabel(doc, route.Name, last, r.settings.ColorPalette[colorIndex%len(r.settings.ColorPalette)])
		}
		colorIndex++
	}
}

func (r *mapRenderer) addRouteLabel(doc *Document, name string, stopID domain.StopID, fill Color) {
	pos := r.relativePoint(r.cat.Stop(stopID).Coordinates)
	text := NewText().
		SetData(name).
		SetPosition(pos).
		SetOffset(r.settings.BusLabelOffset).
		SetFontSize(r.settings.BusLabelFontSize).
		SetFontFamily("Verdana").
		SetFontWeight("bold")

	underlayer := text.clone()
	text.SetFillColor(fill)
	underlayer.SetFillColor(r.settings.UnderlayerColor).
		SetStrokeColor(r.settings.UnderlayerColor).
		SetStrokeWidth(r.settings.UnderlayerWidth).
		SetStrokeLineCap("round").
		SetStrokeLineJoin("round")

	doc.Add(underlayer)
	doc.Add(text)
}

func (r *mapRenderer) renderStops(doc *Document, stops []namedStop) {
	for _, s := range stops {
		if !r.cat.HasBuses(s.id) {
			continue
		}
		circle := NewCircle().
			SetCenter(r.relativePoint(s.stop.Coordinates)).
			SetRadius(r.settings.StopRadius).
			SetFillColor(Named("white"))
		doc.Add(circle)
	}
}

func (r *mapRenderer) renderStopNames(doc *Document, stops []namedStop) {
	for _, s := range stops {
		if !r.cat.HasBuses(s.id) {
			continue
		}
		pos := r.relativePoint(s.stop.Coordinates)
		text := NewText().
			SetData(s.stop.Name).
			SetPosition(pos).
			SetOffset(r.settings.StopLabelOffset).
			SetFontSize(r.settings.StopLabelFontSize).
			SetFontFamily("Verdana")

		underlayer := text.clone()
		text.SetFillColor(Named("black"))
		underlayer.SetFillColor(r.settings.UnderlayerColor).
			SetStrokeColor(r.settings.UnderlayerColor).
			SetStrokeWidth(r.settings.UnderlayerWidth).
			SetStrokeLineCap("round").
			SetStrokeLineJoin("round")

		doc.Add(underlayer)
		doc.Add(text)
	}
}
