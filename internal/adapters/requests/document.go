// Package requests implements the JSON request/response adapter: parsing
// the make_base/process_requests document shapes, populating a catalogue
// from them, and answering stat_requests against a catalogue, router, and
// renderer.
package requests

import (
	"encoding/json"

	"github.com/samirrijal/transitcat/internal/core/catalogue"
	"github.com/samirrijal/transitcat/internal/core/domain"
	"github.com/samirrijal/transitcat/internal/core/render"
	"github.com/samirrijal/transitcat/internal/core/router"
)

// kmhToMetersPerMinute converts an external km/h velocity into the router's
// internal meters-per-minute unit.
const kmhToMetersPerMinute = 1000.0 / 60.0

type baseRequestJSON struct {
	Type          string         `json:"type"`
	Name          string         `json:"name"`
	Latitude      float64        `json:"latitude"`
	Longitude     float64        `json:"longitude"`
	RoadDistances map[string]int `json:"road_distances"`
	IsRoundtrip   bool           `json:"is_roundtrip"`
	Stops         []string       `json:"stops"`
}

type renderSettingsJSON struct {
	Width             float64     `json:"width"`
	Height            float64     `json:"height"`
	Padding           float64     `json:"padding"`
	LineWidth         float64     `json:"line_width"`
	StopRadius        float64     `json:"stop_radius"`
	BusLabelFontSize  int         `json:"bus_label_font_size"`
	BusLabelOffset    [2]float64  `json:"bus_label_offset"`
	StopLabelFontSize int         `json:"stop_label_font_size"`
	StopLabelOffset   [2]float64  `json:"stop_label_offset"`
	UnderlayerColor   colorJSON   `json:"underlayer_color"`
	UnderlayerWidth   float64     `json:"underlayer_width"`
	ColorPalette      []colorJSON `json:"color_palette"`
}

func (s renderSettingsJSON) toSettings() render.Settings {
	palette := make([]render.Color, len(s.ColorPalette))
	for i, c := range s.ColorPalette {
		palette[i] = c.color
	}
	return render.Settings{
		Width:             s.Width,
		Height:            s.Height,
		Padding:           s.Padding,
		LineWidth:         s.LineWidth,
		StopRadius:        s.StopRadius,
		BusLabelFontSize:  s.BusLabelFontSize,
		BusLabelOffset:    render.Point{X: s.BusLabelOffset[0], Y: s.BusLabelOffset[1]},
		StopLabelFontSize: s.StopLabelFontSize,
		StopLabelOffset:   render.Point{X: s.StopLabelOffset[0], Y: s.StopLabelOffset[1]},
		UnderlayerColor:   s.UnderlayerColor.color,
		UnderlayerWidth:   s.UnderlayerWidth,
		ColorPalette:      palette,
	}
}

type routingSettingsJSON struct {
	BusWaitTime int     `json:"bus_wait_time"`
	BusVelocity float64 `json:"bus_velocity"`
}

func (s routingSettingsJSON) toSettings() router.Settings {
	return router.Settings{
		WaitTime: s.BusWaitTime,
		Velocity: s.BusVelocity * kmhToMetersPerMinute,
	}
}

type serializationSettingsJSON struct {
	File string `json:"file"`
}

type statRequestJSON struct {
	ID   int    `json:"id"`
	Type string `json:"type"`
	Name string `json:"name,omitempty"`
	From string `json:"from,omitempty"`
	To   string `json:"to,omitempty"`
}

type document struct {
	BaseRequests          []baseRequestJSON          `json:"base_requests"`
	RenderSettings        *renderSettingsJSON        `json:"render_settings"`
	RoutingSettings       *routingSettingsJSON       `json:"routing_settings"`
	SerializationSettings *serializationSettingsJSON `json:"serialization_settings"`
	StatRequests          []statRequestJSON          `json:"stat_requests"`
}

// Document is a parsed request document (either make_base.json or
// process_requests.json share this one shape; each phase simply reads the
// sections it needs).
type Document struct {
	doc document
}

// Parse decodes a request document from raw JSON bytes.
func Parse(data []byte) (*Document, error) {
	var doc document
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, domain.SchemaError("invalid request document", err)
	}
	return &Document{doc: doc}, nil
}

// LoadInto populates cat from the document's base_requests, in the
// stops-then-routes-then-distances order the routes/distances lookups
// require. A Stop request without a road_distances object fails with
// InvalidArgument.
func (d *Document) LoadInto(cat *catalogue.Catalogue) error {
	for _, req := range d.doc.BaseRequests {
		if req.Type != "Stop" {
			continue
		}
		if req.RoadDistances == nil {
			return domain.InvalidArgument("stop \"" + req.Name + "\" has no road_distances object")
		}
		cat.AddStop(req.Name, domain.Coordinates{Lat: req.Latitude, Lng: req.Longitude})
	}
	for _, req := range d.doc.BaseRequests {
		if req.Type != "Bus" {
			continue
		}
		routeType := domain.RouteTypeLinear
		if req.IsRoundtrip {
			routeType = domain.RouteTypeCircle
		}
		if err := cat.AddRoute(req.Name, routeType, req.Stops); err != nil {
			return err
		}
	}
	for _, req := range d.doc.BaseRequests {
		if req.Type != "Stop" {
			continue
		}
		for to, meters := range req.RoadDistances {
			if err := cat.SetDistance(req.Name, to, meters); err != nil {
				return err
			}
		}
	}
	return nil
}

// RenderSettings returns the document's render_settings, if present.
func (d *Document) RenderSettings() (render.Settings, bool) {
	if d.doc.RenderSettings == nil {
		return render.Settings{}, false
	}
	return d.doc.RenderSettings.toSettings(), true
}

// RoutingSettings returns the document's routing_settings, if present.
func (d *Document) RoutingSettings() (router.Settings, bool) {
	if d.doc.RoutingSettings == nil {
		return router.Settings{}, false
	}
	return d.doc.RoutingSettings.toSettings(), true
}

// SerializationPath returns the document's serialization_settings.file, if
// present.
func (d *Document) SerializationPath() (string, bool) {
	if d.doc.SerializationSettings == nil || d.doc.SerializationSettings.File == "" {
		return "", false
	}
	return d.doc.SerializationSettings.File, true
}

// HasStatRequests reports whether the document carries any stat_requests.
func (d *Document) HasStatRequests() bool {
	return len(d.doc.StatRequests) > 0
}
