// Package catalogue holds the in-memory transport-catalogue store: stops,
// routes, and stop-to-stop distances, plus the derived read queries
// (route statistics, per-stop bus lists) computed over them.
package catalogue

import (
	"fmt"
	"sort"

	"github.com/samirrijal/transitcat/internal/core/domain"
)

// distanceKey is the ordered (from, to) pair a directed Distance is keyed by.
type distanceKey struct {
	from domain.StopID
	to   domain.StopID
}

// Catalogue is the arena-backed store of stops and routes. Stops and routes
// are appended to slices and referenced by dense integer id (domain.StopID),
// never by pointer, so the arena may grow without invalidating references
// held by routes or the router's graph.
type Catalogue struct {
	stops        []domain.Stop
	stopIDByName map[string]domain.StopID

	routes        []domain.Route
	routeIDByName map[string]int

	distances map[distanceKey]int

	// busesOnStop maps a stop to the lexicographically sorted, duplicate-free
	// set of route names that traverse it.
	busesOnStop map[domain.StopID][]string
}

// New returns an empty Catalogue.
func New() *Catalogue {
	return &Catalogue{
		stopIDByName:  make(map[string]domain.StopID),
		routeIDByName: make(map[string]int),
		distances:     make(map[distanceKey]int),
		busesOnStop:   make(map[domain.StopID][]string),
	}
}

// AddStop appends a stop to the catalogue. Callers must supply unique names;
// duplicates are not policed here.
func (c *Catalogue) AddStop(name string, coords domain.Coordinates) domain.StopID {
	id := domain.StopID(len(c.stops))
	c.stops = append(c.stops, domain.Stop{Name: name, Coordinates: coords})
	c.stopIDByName[name] = id
	return id
}

// AddRoute resolves stopNames against the catalogue and appends a route.
// Fails with NotFound if any name is absent, or InvalidArgument if
// routeType is CIRCLE and the first and last names differ.
func (c *Catalogue) AddRoute(name string, routeType domain.RouteType, stopNames []string) error {
	ids := make([]domain.StopID, len(stopNames))
	for i, stopName := range stopNames {
		id, ok := c.stopIDByName[stopName]
		if !ok {
			return domain.NotFound(fmt.Sprintf("stop %q referenced by route %q", stopName, name))
		}
		ids[i] = id
	}

	if routeType == domain.RouteTypeCircle && len(stopNames) > 0 && stopNames[0] != stopNames[len(stopNames)-1] {
		return domain.InvalidArgument(fmt.Sprintf("circle route %q must start and end at the same stop", name))
	}

	routeIdx := len(c.routes)
	c.routes = append(c.routes, domain.Route{Name: name, Type: routeType, Stops: ids})
	c.routeIDByName[name] = routeIdx

	seen := make(map[domain.StopID]bool, len(ids))
	for _, id := range ids {
		if seen[id] {
			continue
		}
		seen[id] = true
		c.insertBusOnStop(id, name)
	}
	return nil
}

func (c *Catalogue) insertBusOnStop(stop domain.StopID, routeName string) {
	names := c.busesOnStop[stop]
	i := sort.SearchStrings(names, routeName)
	if i < len(names) && names[i] == routeName {
		return
	}
	names = append(names, "")
	copy(names[i+1:], names[i:])
	names[i] = routeName
	c.busesOnStop[stop] = names
}

// SetDistance stores the forward distance from `from` to `to`. Fails with
// NotFound if either stop is absent. Last write wins.
func (c *Catalogue) SetDistance(from, to string, meters int) error {
	fromID, ok := c.stopIDByName[from]
	if !ok {
		return domain.NotFound(fmt.Sprintf("stop %q", from))
	}
	toID, ok := c.stopIDByName[to]
	if !ok {
		return domain.NotFound(fmt.Sprintf("stop %q", to))
	}
	c.distances[distanceKey{from: fromID, to: toID}] = meters
	return nil
}

// AddRouteByID appends a route whose stops are already resolved to ids,
// skipping name lookup. Used by the codec to restore a route without
// re-validating stop names that are known-good from the original Serialize.
func (c *Catalogue) AddRouteByID(name string, routeType domain.RouteType, stops []domain.StopID) {
	routeIdx := len(c.routes)
	c.routes = append(c.routes, domain.Route{Name: name, Type: routeType, Stops: stops})
	c.routeIDByName[name] = routeIdx

	seen := make(map[domain.StopID]bool, len(stops))
	for _, id := range stops {
		if seen[id] {
			continue
		}
		seen[id] = true
		c.insertBusOnStop(id, name)
	}
}

// SetDistanceByID stores the forward distance between two already-resolved
// stop ids, skipping name lookup.
func (c *Catalogue) SetDistanceByID(from, to domain.StopID, meters int) {
	c.distances[distanceKey{from: from, to: to}] = meters
}

// DistanceEntry is one directed distance, as stored (not reverse-resolved).
type DistanceEntry struct {
	From, To domain.StopID
	Meters   int
}

// Distances returns every stored directed distance, in unspecified order.
func (c *Catalogue) Distances() []DistanceEntry {
	entries := make([]DistanceEntry, 0, len(c.distances))
	for k, meters := range c.distances {
		entries = append(entries, DistanceEntry{From: k.from, To: k.to, Meters: meters})
	}
	return entries
}

// GetDistance returns the forward distance from `from` to `to` if set, else
// the reverse distance, else NotFound.
func (c *Catalogue) GetDistance(from, to string) (int, error) {
	fromID, ok := c.stopIDByName[from]
	if !ok {
		return 0, domain.NotFound(fmt.Sprintf("stop %q", from))
	}
	toID, ok := c.stopIDByName[to]
	if !ok {
		return 0, domain.NotFound(fmt.Sprintf("stop %q", to))
	}
	return c.getDistanceByID(fromID, toID)
}

func (c *Catalogue) getDistanceByID(from, to domain.StopID) (int, error) {
	if d, ok := c.distances[distanceKey{from: from, to: to}]; ok {
		return d, nil
	}
	if d, ok := c.distances[distanceKey{from: to, to: from}]; ok {
		return d, nil
	}
	return 0, domain.NotFound(fmt.Sprintf("distance between %q and %q", c.stops[from].Name, c.stops[to].Name))
}

// GetBusesOnStop returns the sorted, duplicate-free list of route names that
// traverse the named stop. Fails with NotFound if the stop is absent; a stop
// served by no route returns an empty (non-nil) slice.
func (c *Catalogue) GetBusesOnStop(name string) ([]string, error) {
	id, ok := c.stopIDByName[name]
	if !ok {
		return nil, domain.NotFound(fmt.Sprintf("stop %q", name))
	}
	if buses, ok := c.busesOnStop[id]; ok {
		return buses, nil
	}
	return []string{}, nil
}

// GetRouteInfo computes the RouteInfo for the named route. Fails with
// NotFound if the route is absent, or if any required consecutive-stop
// distance is missing.
func (c *Catalogue) GetRouteInfo(name string) (domain.RouteInfo, error) {
	idx, ok := c.routeIDByName[name]
	if !ok {
		return domain.RouteInfo{}, domain.NotFound(fmt.Sprintf("route %q", name))
	}
	route := c.routes[idx]

	info := domain.RouteInfo{
		Name: route.Name,
		Type: route.Type,
	}
	if route.Type == domain.RouteTypeCircle {
		info.StopCount = len(route.Stops)
	} else {
		info.StopCount = 2*len(route.Stops) - 1
	}

	unique := make(map[domain.StopID]bool, len(route.Stops))
	for _, id := range route.Stops {
		unique[id] = true
	}
	info.UniqueStopCount = len(unique)

	roadLength, err := c.routeRoadLength(route)
	if err != nil {
		return domain.RouteInfo{}, err
	}
	info.RouteLength = roadLength

	geoLength := c.routeGeographicLength(route)
	if geoLength > 0 {
		info.Curvature = float64(roadLength) / geoLength
	}

	return info, nil
}

func (c *Catalogue) routeRoadLength(route domain.Route) (int, error) {
	total := 0
	for i := 0; i+1 < len(route.Stops); i++ {
		d, err := c.getDistanceByID(route.Stops[i], route.Stops[i+1])
		if err != nil {
			return 0, err
		}
		total += d
	}
	if route.Type == domain.RouteTypeLinear {
		for i := len(route.Stops) - 1; i > 0; i-- {
			d, err := c.getDistanceByID(route.Stops[i], route.Stops[i-1])
			if err != nil {
				return 0, err
			}
			total += d
		}
	}
	return total, nil
}

func (c *Catalogue) routeGeographicLength(route domain.Route) float64 {
	total := 0.0
	for i := 0; i+1 < len(route.Stops); i++ {
		a := c.stops[route.Stops[i]].Coordinates
		b := c.stops[route.Stops[i+1]].Coordinates
		total += domain.ComputeDistance(a, b)
	}
	if route.Type == domain.RouteTypeLinear {
		total *= 2
	}
	return total
}

// StopByName returns the stop with the given name.
func (c *Catalogue) StopByName(name string) (domain.Stop, domain.StopID, bool) {
	id, ok := c.stopIDByName[name]
	if !ok {
		return domain.Stop{}, 0, false
	}
	return c.stops[id], id, true
}

// Stop returns the stop stored at id. id must have come from this catalogue.
func (c *Catalogue) Stop(id domain.StopID) domain.Stop {
	return c.stops[id]
}

// StopCount returns the number of stops in the catalogue.
func (c *Catalogue) StopCount() int {
	return len(c.stops)
}

// Stops returns every stop in insertion order; a stop's index in the slice
// is its StopID. The returned slice must not be mutated.
func (c *Catalogue) Stops() []domain.Stop {
	return c.stops
}

// Routes returns every route in insertion order. The returned slice must not
// be mutated.
func (c *Catalogue) Routes() []domain.Route {
	return c.routes
}

// HasBuses reports whether the stop is traversed by at least one route.
func (c *Catalogue) HasBuses(id domain.StopID) bool {
	buses, ok := c.busesOnStop[id]
	return ok && len(buses) > 0
}
