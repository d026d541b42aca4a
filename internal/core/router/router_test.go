package router

import (
	"testing"

	"github.com/samirrijal/transitcat/internal/core/catalogue"
	"github.com/samirrijal/transitcat/internal/core/domain"
)

func buildSampleCatalogue(t *testing.T) *catalogue.Catalogue {
	t.Helper()
	c := catalogue.New()
	c.AddStop("Biryulyovo Zapadnoye", domain.Coordinates{Lat: 55.574371, Lng: 37.6517})
	c.AddStop("Biryusinka", domain.Coordinates{Lat: 55.581065, Lng: 37.64839})
	c.AddStop("Universam", domain.Coordinates{Lat: 55.587655, Lng: 37.645687})
	c.AddStop("Biryulyovo Tovarnaya", domain.Coordinates{Lat: 55.592028, Lng: 37.653656})
	c.AddStop("Biryulyovo Passazhirskaya", domain.Coordinates{Lat: 55.580999, Lng: 37.659164})

	circleStops := []string{
		"Biryulyovo Zapadnoye", "Biryusinka", "Universam", "Biryulyovo Tovarnaya",
		"Biryulyovo Passazhirskaya", "Biryulyovo Zapadnoye",
	}
	if err := c.AddRoute("256", domain.RouteTypeCircle, circleStops); err != nil {
		t.Fatal(err)
	}

	linearStops := []string{"Biryulyovo Zapadnoye", "Biryusinka"}
	if err := c.AddRoute("750", domain.RouteTypeLinear, linearStops); err != nil {
		t.Fatal(err)
	}

	distances := []struct {
		from, to string
		meters   int
	}{
		{"Biryulyovo Zapadnoye", "Biryusinka", 1800},
		{"Biryusinka", "Universam", 1700},
		{"Universam", "Biryulyovo Tovarnaya", 900},
		{"Biryulyovo Tovarnaya", "Biryulyovo Passazhirskaya", 1300},
		{"Biryulyovo Passazhirskaya", "Biryulyovo Zapadnoye", 1200},
	}
	for _, d := range distances {
		if err := c.SetDistance(d.from, d.to, d.meters); err != nil {
			t.Fatal(err)
		}
	}
	return c
}

func TestBuildRouteSameStopIsEmpty(t *testing.T) {
	c := buildSampleCatalogue(t)
	r := New(c, Settings{WaitTime: 6, Velocity: 600})

	route, err := r.BuildRoute("Biryusinka", "Biryusinka")
	if err != nil {
		t.Fatal(err)
	}
	if route == nil || len(route.Legs) != 0 || route.TotalTime != 0 {
		t.Fatalf("expected empty route, got %+v", route)
	}
}

func TestBuildRouteUnknownStop(t *testing.T) {
	c := buildSampleCatalogue(t)
	r := New(c, Settings{WaitTime: 6, Velocity: 600})

	_, err := r.BuildRoute("missing", "Universam")
	if domain.KindOf(err) != domain.ErrorKindNotFound {
		t.Fatalf("expected NotFound, got %v", err)
	}
}

func TestBuildRouteDirectLeg(t *testing.T) {
	c := buildSampleCatalogue(t)
	r := New(c, Settings{WaitTime: 6, Velocity: 600})

	route, err := r.BuildRoute("Biryulyovo Zapadnoye", "Universam")
	if err != nil {
		t.Fatal(err)
	}
	if route == nil {
		t.Fatal("expected a route, got nil (no path)")
	}
	if len(route.Legs) != 1 {
		t.Fatalf("expected a single-leg ride along route 256, got %d legs", len(route.Legs))
	}
	leg := route.Legs[0]
	if leg.BusName != "256" {
		t.Errorf("BusName = %q, want 256", leg.BusName)
	}
	if leg.SpanCount != 2 {
		t.Errorf("SpanCount = %d, want 2", leg.SpanCount)
	}
	wantTime := 6.0 + 1800.0/600.0 + 1700.0/600.0
	if leg.TotalTimeInclWait != wantTime {
		t.Errorf("TotalTimeInclWait = %f, want %f", leg.TotalTimeInclWait, wantTime)
	}
	if route.TotalTime != wantTime {
		t.Errorf("route.TotalTime = %f, want %f", route.TotalTime, wantTime)
	}
}

func TestBuildRouteLinearReverseEdge(t *testing.T) {
	c := buildSampleCatalogue(t)
	r := New(c, Settings{WaitTime: 6, Velocity: 600})

	route, err := r.BuildRoute("Biryusinka", "Biryulyovo Zapadnoye")
	if err != nil {
		t.Fatal(err)
	}
	if route == nil || len(route.Legs) == 0 {
		t.Fatal("expected a reachable route back along the linear route")
	}
	// Either the 750 reverse edge or a longer ride around the 256 circle
	// could win; both exist, so just check the result is internally
	// consistent and uses a known bus.
	for _, leg := range route.Legs {
		if leg.BusName != "750" && leg.BusName != "256" {
			t.Errorf("unexpected bus %q in route", leg.BusName)
		}
	}
}

func TestBuildRouteInitIsIdempotent(t *testing.T) {
	c := buildSampleCatalogue(t)
	r := New(c, Settings{WaitTime: 6, Velocity: 600})

	r.InitRouter()
	r.InitRouter()

	route, err := r.BuildRoute("Biryulyovo Zapadnoye", "Biryusinka")
	if err != nil {
		t.Fatal(err)
	}
	if route == nil || len(route.Legs) != 1 {
		t.Fatalf("expected a single direct leg, got %+v", route)
	}
}
