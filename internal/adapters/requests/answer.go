package requests

import (
	"github.com/samirrijal/transitcat/internal/core/catalogue"
	"github.com/samirrijal/transitcat/internal/core/domain"
	"github.com/samirrijal/transitcat/internal/core/render"
	"github.com/samirrijal/transitcat/internal/core/router"
)

// AnswerRequests dispatches every stat_request in d by its type tag and
// returns the ordered array of response objects. Unknown request types are
// skipped silently. rtr may be nil if the document carries no routing
// settings; Route requests then fail per-request rather than panicking.
func AnswerRequests(d *Document, cat *catalogue.Catalogue, renderSettings render.Settings, rtr *router.Router) ([]interface{}, error) {
	results := make([]interface{}, 0, len(d.doc.StatRequests))
	for _, req := range d.doc.StatRequests {
		var answer interface{}
		var err error

		switch req.Type {
		case "Bus":
			answer, err = answerBus(req, cat)
		case "Stop":
			answer, err = answerStop(req, cat)
		case "Map":
			answer, err = answerMap(req, cat, renderSettings)
		case "Route":
			answer, err = answerRoute(req, rtr)
		default:
			continue
		}
		if err != nil {
			return nil, err
		}
		results = append(results, answer)
	}
	return results, nil
}

func errorAnswer(id int) (interface{}, error) {
	return NewBuilder().
		StartDict().
		Key("request_id").Value(id).
		Key("error_message").Value("not found").
		EndDict().
		Build()
}

func answerBus(req statRequestJSON, cat *catalogue.Catalogue) (interface{}, error) {
	info, err := cat.GetRouteInfo(req.Name)
	if err != nil {
		return errorAnswer(req.ID)
	}
	return NewBuilder().
		StartDict().
		Key("request_id").Value(req.ID).
		Key("curvature").Value(info.Curvature).
		Key("route_length").Value(info.RouteLength).
		Key("stop_count").Value(info.StopCount).
		Key("unique_stop_count").Value(info.UniqueStopCount).
		EndDict().
		Build()
}

func answerStop(req statRequestJSON, cat *catalogue.Catalogue) (interface{}, error) {
	buses, err := cat.GetBusesOnStop(req.Name)
	if err != nil {
		return errorAnswer(req.ID)
	}
	b := NewBuilder().StartDict().
		Key("request_id").Value(req.ID).
		Key("buses").StartArray()
	for _, name := range buses {
		b = b.Value(name)
	}
	return b.EndArray().EndDict().Build()
}

func answerMap(req statRequestJSON, cat *catalogue.Catalogue, settings render.Settings) (interface{}, error) {
	svg := render.RenderMap(cat, settings)
	return NewBuilder().
		StartDict().
		Key("request_id").Value(req.ID).
		Key("map").Value(svg).
		EndDict().
		Build()
}

func answerRoute(req statRequestJSON, rtr *router.Router) (interface{}, error) {
	if rtr == nil {
		return errorAnswer(req.ID)
	}
	route, err := rtr.BuildRoute(req.From, req.To)
	if err != nil {
		if domain.KindOf(err) == domain.ErrorKindNotFound {
			return errorAnswer(req.ID)
		}
		return nil, err
	}
	if route == nil {
		return errorAnswer(req.ID)
	}

	waitTime := rtr.Settings().WaitTime
	b := NewBuilder().StartDict().
		Key("request_id").Value(req.ID).
		Key("total_time").Value(route.TotalTime).
		Key("items").StartArray()
	for _, leg := range route.Legs {
		wait, werr := NewBuilder().StartDict().
			Key("type").Value("Wait").
			Key("stop_name").Value(leg.StopFromName).
			Key("time").Value(waitTime).
			EndDict().
			Build()
		if werr != nil {
			return nil, werr
		}
		ride, rerr := NewBuilder().StartDict().
			Key("type").Value("Bus").
			Key("bus").Value(leg.BusName).
			Key("span_count").Value(leg.SpanCount).
			Key("time").Value(leg.TotalTimeInclWait - float64(waitTime)).
			EndDict().
			Build()
		if rerr != nil {
			return nil, rerr
		}
		b = b.Value(wait).Value(ride)
	}
	return b.EndArray().EndDict().Build()
}
