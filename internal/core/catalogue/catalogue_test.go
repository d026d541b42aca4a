package catalogue

import (
	"errors"
	"testing"

	"github.com/samirrijal/transitcat/internal/core/domain"
)

func coords(lat, lng float64) domain.Coordinates {
	return domain.Coordinates{Lat: lat, Lng: lng}
}

func TestAddRouteUnknownStop(t *testing.T) {
	c := New()
	c.AddStop("Tolstopaltsevo", coords(55.611087, 37.20829))

	err := c.AddRoute("256", domain.RouteTypeCircle, []string{"Tolstopaltsevo", "Marushkino"})
	if !errors.Is(err, domain.NotFound("")) {
		t.Fatalf("expected NotFound, got %v", err)
	}
}

func TestAddRouteCircleMismatchedEndpoints(t *testing.T) {
	c := New()
	c.AddStop("A", coords(1, 1))
	c.AddStop("B", coords(2, 2))

	err := c.AddRoute("14", domain.RouteTypeCircle, []string{"A", "B"})
	if !errors.Is(err, domain.InvalidArgument("")) {
		t.Fatalf("expected InvalidArgument, got %v", err)
	}
}

func TestGetRouteInfoCircle(t *testing.T) {
	c := New()
	c.AddStop("Biryulyovo Zapadnoye", coords(55.574371, 37.6517))
	c.AddStop("Biryusinka", coords(55.581065, 37.64839))
	c.AddStop("Universam", coords(55.587655, 37.645687))
	c.AddStop("Biryulyovo Tovarnaya", coords(55.592028, 37.653656))
	c.AddStop("Biryulyovo Passazhirskaya", coords(55.580999, 37.659164))

	stops := []string{
		"Biryulyovo Zapadnoye", "Biryusinka", "Universam", "Biryulyovo Tovarnaya",
		"Biryulyovo Passazhirskaya", "Biryulyovo Zapadnoye",
	}
	if err := c.AddRoute("256", domain.RouteTypeCircle, stops); err != nil {
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

	info, err := c.GetRouteInfo("256")
	if err != nil {
		t.Fatal(err)
	}
	if info.StopCount != 6 {
		t.Errorf("StopCount = %d, want 6", info.StopCount)
	}
	if info.UniqueStopCount != 5 {
		t.Errorf("UniqueStopCount = %d, want 5", info.UniqueStopCount)
	}
	if info.RouteLength != 6900 {
		t.Errorf("RouteLength = %d, want 6900", info.RouteLength)
	}
	if info.Curvature <= 1.0 {
		t.Errorf("Curvature = %f, want > 1.0 (road should exceed geographic distance)", info.Curvature)
	}
}

func TestGetRouteInfoLinearDistanceFallback(t *testing.T) {
	c := New()
	c.AddStop("A", coords(1, 1))
	c.AddStop("B", coords(2, 2))
	if err := c.AddRoute("750", domain.RouteTypeLinear, []string{"A", "B"}); err != nil {
		t.Fatal(err)
	}
	// Only the forward distance is set; the reverse leg must fall back to it.
	if err := c.SetDistance("A", "B", 1000); err != nil {
		t.Fatal(err)
	}

	info, err := c.GetRouteInfo("750")
	if err != nil {
		t.Fatal(err)
	}
	if info.StopCount != 3 {
		t.Errorf("StopCount = %d, want 3", info.StopCount)
	}
	if info.RouteLength != 2000 {
		t.Errorf("RouteLength = %d, want 2000 (forward distance reused for the back leg)", info.RouteLength)
	}
}

func TestGetRouteInfoMissingDistance(t *testing.T) {
	c := New()
	c.AddStop("A", coords(1, 1))
	c.AddStop("B", coords(2, 2))
	if err := c.AddRoute("750", domain.RouteTypeLinear, []string{"A", "B"}); err != nil {
		t.Fatal(err)
	}

	_, err := c.GetRouteInfo("750")
	if !errors.Is(err, domain.NotFound("")) {
		t.Fatalf("expected NotFound, got %v", err)
	}
}

func TestGetRouteInfoUnknownRoute(t *testing.T) {
	c := New()
	if _, err := c.GetRouteInfo("missing"); !errors.Is(err, domain.NotFound("")) {
		t.Fatalf("expected NotFound, got %v", err)
	}
}

func TestGetBusesOnStop(t *testing.T) {
	c := New()
	c.AddStop("Biryulyovo Zapadnoye", coords(1, 1))
	c.AddStop("Universam", coords(2, 2))
	c.AddStop("Prazhskaya", coords(3, 3))

	mustAddRoute(t, c, "256", domain.RouteTypeCircle, []string{"Biryulyovo Zapadnoye", "Universam", "Biryulyovo Zapadnoye"})
	mustAddRoute(t, c, "828", domain.RouteTypeLinear, []string{"Biryulyovo Zapadnoye", "Universam", "Prazhskaya"})

	buses, err := c.GetBusesOnStop("Universam")
	if err != nil {
		t.Fatal(err)
	}
	want := []string{"256", "828"}
	if len(buses) != len(want) || buses[0] != want[0] || buses[1] != want[1] {
		t.Errorf("GetBusesOnStop(Universam) = %v, want %v", buses, want)
	}
}

func TestGetBusesOnStopUnservedIsEmptyNotError(t *testing.T) {
	c := New()
	c.AddStop("Lonely", coords(1, 1))

	buses, err := c.GetBusesOnStop("Lonely")
	if err != nil {
		t.Fatal(err)
	}
	if len(buses) != 0 {
		t.Errorf("GetBusesOnStop(Lonely) = %v, want empty", buses)
	}
}

func TestGetBusesOnStopUnknownStop(t *testing.T) {
	c := New()
	if _, err := c.GetBusesOnStop("missing"); !errors.Is(err, domain.NotFound("")) {
		t.Fatalf("expected NotFound, got %v", err)
	}
}

func TestGetDistanceReverseFallback(t *testing.T) {
	c := New()
	c.AddStop("A", coords(1, 1))
	c.AddStop("B", coords(2, 2))
	if err := c.SetDistance("A", "B", 500); err != nil {
		t.Fatal(err)
	}

	d, err := c.GetDistance("B", "A")
	if err != nil {
		t.Fatal(err)
	}
	if d != 500 {
		t.Errorf("GetDistance(B, A) = %d, want 500 (reverse fallback)", d)
	}
}

func TestSetDistanceLastWriteWins(t *testing.T) {
	c := New()
	c.AddStop("A", coords(1, 1))
	c.AddStop("B", coords(2, 2))
	if err := c.SetDistance("A", "B", 500); err != nil {
		t.Fatal(err)
	}
	if err := c.SetDistance("A", "B", 700); err != nil {
		t.Fatal(err)
	}

	d, err := c.GetDistance("A", "B")
	if err != nil {
		t.Fatal(err)
	}
	if d != 700 {
		t.Errorf("GetDistance(A, B) = %d, want 700", d)
	}
}

func mustAddRoute(t *testing.T, c *Catalogue, name string, routeType domain.RouteType, stops []string) {
	t.Helper()
	if err := c.AddRoute(name, routeType, stops); err != nil {
		t.Fatalf("AddRoute(%q): %v", name, err)
	}
}
