// Package router builds a directed graph over a catalogue's stops and
// routes and answers shortest-total-time queries between stops.
package router

import (
	"container/heap"

	"github.com/samirrijal/transitcat/internal/core/catalogue"
	"github.com/samirrijal/transitcat/internal/core/domain"
)

// Settings configures edge weights. Velocity is meters per minute; a
// caller converting from km/h must multiply by 1000.0/60.0 before storing it
// here.
type Settings struct {
	WaitTime int
	Velocity float64
}

// edgeWeight is the non-commutative per-edge label: summation along a path
// only accumulates TotalTime, discarding BusName/SpanCount, which are
// instead recovered per-edge from the winning prevEdge chain at query time.
type edgeWeight struct {
	busName   string
	spanCount int
	totalTime float64
}

type edge struct {
	from, to int
	weight   edgeWeight
}

// state is the router's Uninitialized -> Initialized lifecycle.
type state int

const (
	stateUninitialized state = iota
	stateInitialized
)

// tableEntry is an optional {total_time, prev_edge} cell of the all-pairs
// table. ok is false when no path exists between the row's source and the
// column's vertex.
type tableEntry struct {
	ok        bool
	totalTime float64
	prevEdge  int // index into edges; -1 if this vertex is the source itself
}

// Router builds, once, a directed graph of a catalogue's routes and
// precomputes all-pairs shortest travel time so BuildRoute answers are O(path
// length) lookups.
type Router struct {
	cat      *catalogue.Catalogue
	settings Settings
	state    state

	vertexOfStop map[domain.StopID]int
	stopOfVertex []domain.StopID

	edges     []edge
	incidence [][]int // incidence[v] = indices into edges of edges leaving v

	// table[from*n+to] is the shortest-path entry from vertex from to vertex to.
	table []tableEntry
	n     int
}

// New returns an uninitialized router over cat. Call InitRouter (directly or
// implicitly via BuildRoute) before querying.
func New(cat *catalogue.Catalogue, settings Settings) *Router {
	return &Router{cat: cat, settings: settings, state: stateUninitialized}
}

// EdgeRecord is the codec's plain-data mirror of a graph edge.
type EdgeRecord struct {
	From, To  int
	BusName   string
	SpanCount int
	TotalTime float64
}

// TableEntryRecord is the codec's plain-data mirror of an all-pairs table
// cell.
type TableEntryRecord struct {
	OK        bool
	TotalTime float64
	PrevEdge  int
}

// Export returns the router's graph edges and all-pairs table in
// codec-friendly form, initializing the router first if needed. n is the
// vertex count, so the codec can reconstruct the table's row stride.
func (r *Router) Export() (edges []EdgeRecord, table []TableEntryRecord, n int) {
	r.InitRouter()

	edges = make([]EdgeRecord, len(r.edges))
	for i, e := range r.edges {
		edges[i] = EdgeRecord{From: e.from, To: e.to, BusName: e.weight.busName, SpanCount: e.weight.spanCount, TotalTime: e.weight.totalTime}
	}

	table = make([]TableEntryRecord, len(r.table))
	for i, e := range r.table {
		table[i] = TableEntryRecord{OK: e.ok, TotalTime: e.totalTime, PrevEdge: e.prevEdge}
	}

	return edges, table, r.n
}

// Restore rebuilds a Router directly into the Initialized state from a
// previously Exported graph and table, skipping Dijkstra preprocessing.
func Restore(cat *catalogue.Catalogue, settings Settings, edges []EdgeRecord, table []TableEntryRecord, n int) *Router {
	r := &Router{cat: cat, settings: settings}
	r.assignVertices()
	r.n = n

	r.edges = make([]edge, len(edges))
	for i, e := range edges {
		r.edges[i] = edge{from: e.From, to: e.To, weight: edgeWeight{busName: e.BusName, spanCount: e.SpanCount, totalTime: e.TotalTime}}
	}
	r.buildIncidence()

	r.table = make([]tableEntry, len(table))
	for i, e := range table {
		r.table[i] = tableEntry{ok: e.OK, totalTime: e.TotalTime, prevEdge: e.PrevEdge}
	}

	r.state = stateInitialized
	return r
}

// Settings returns the routing settings this router was built with.
func (r *Router) Settings() Settings {
	return r.settings
}

// InitRouter builds the graph and the all-pairs shortest-time table. Calling
// it more than once is a no-op.
func (r *Router) InitRouter() {
	if r.state == stateInitialized {
		return
	}
	r.assignVertices()
	r.buildEdges()
	r.buildIncidence()
	r.preprocess()
	r.state = stateInitialized
}

func (r *Router) assignVertices() {
	stops := r.cat.Stops()
	r.n = len(stops)
	r.vertexOfStop = make(map[domain.StopID]int, r.n)
	r.stopOfVertex = make([]domain.StopID, r.n)
	for i := range stops {
		r.vertexOfStop[domain.StopID(i)] = i
		r.stopOfVertex[i] = domain.StopID(i)
	}
}

// buildEdges walks every route and, for every ordered pair of indices (i, j)
// with i < j, emits one directed edge spanning stops[i]..stops[j] whose
// total_time is wait_time plus the incremental travel time accumulated as j
// advances. LINEAR routes mirror the same accumulation over the reverse
// traversal using the index reflection i_back = n-1-i, j_back = n-1-j.
func (r *Router) buildEdges() {
	for _, route := range r.cat.Routes() {
		n := len(route.Stops)
		for i := 0; i < n-1; i++ {
			routeTime := float64(r.settings.WaitTime)
			routeTimeBack := float64(r.settings.WaitTime)
			for j := i + 1; j < n; j++ {
				step := r.travelTime(route.Stops[j-1], route.Stops[j])
				routeTime += step
				r.addEdge(route.Stops[i], route.Stops[j], route.Name, j-i, routeTime)

				if route.Type == domain.RouteTypeLinear {
					iBack := n - 1 - i
					jBack := n - 1 - j
					stepBack := r.travelTime(route.Stops[jBack+1], route.Stops[jBack])
					routeTimeBack += stepBack
					r.addEdge(route.Stops[iBack], route.Stops[jBack], route.Name, iBack-jBack, routeTimeBack)
				}
			}
		}
	}
}

func (r *Router) travelTime(from, to domain.StopID) float64 {
	meters, err := r.cat.GetDistance(r.cat.Stop(from).Name, r.cat.Stop(to).Name)
	if err != nil {
		return 0
	}
	return float64(meters) / r.settings.Velocity
}

func (r *Router) addEdge(from, to domain.StopID, busName string, spanCount int, totalTime float64) {
	r.edges = append(r.edges, edge{
		from: r.vertexOfStop[from],
		to:   r.vertexOfStop[to],
		weight: edgeWeight{
			busName:   busName,
			spanCount: spanCount,
			totalTime: totalTime,
		},
	})
}

func (r *Router) buildIncidence() {
	r.incidence = make([][]int, r.n)
	for i, e := range r.edges {
		r.incidence[e.from] = append(r.incidence[e.from], i)
	}
}

// preprocess runs Dijkstra from every vertex, filling table[src*n+v] with
// the shortest total_time to v and the index of the last edge on that path.
func (r *Router) preprocess() {
	r.table = make([]tableEntry, r.n*r.n)
	for src := 0; src < r.n; src++ {
		r.dijkstraFrom(src)
	}
}

func (r *Router) dijkstraFrom(src int) {
	dist := make([]float64, r.n)
	visited := make([]bool, r.n)
	prevEdge := make([]int, r.n)
	for i := range dist {
		dist[i] = -1
		prevEdge[i] = -1
	}
	dist[src] = 0

	pq := &priorityQueue{{vertex: src, priority: 0}}
	heap.Init(pq)

	for pq.Len() > 0 {
		item := heap.Pop(pq).(*pqItem)
		v := item.vertex
		if visited[v] {
			continue
		}
		visited[v] = true

		for _, edgeIdx := range r.incidence[v] {
			e := r.edges[edgeIdx]
			candidate := dist[v] + e.weight.totalTime
			if dist[e.to] == -1 || candidate < dist[e.to] {
				dist[e.to] = candidate
				prevEdge[e.to] = edgeIdx
				heap.Push(pq, &pqItem{vertex: e.to, priority: candidate})
			}
		}
	}

	base := src * r.n
	for v := 0; v < r.n; v++ {
		if dist[v] == -1 {
			continue
		}
		r.table[base+v] = tableEntry{ok: true, totalTime: dist[v], prevEdge: prevEdge[v]}
	}
}

// Leg is one segment of a BuildRoute answer: the bus traveled, the stops it
// spans, the span count, and the total time for the leg including wait_time.
type Leg struct {
	BusName           string
	StopFromName      string
	StopToName        string
	SpanCount         int
	TotalTimeInclWait float64
}

// Route is the answer to BuildRoute: the overall shortest total_time (the
// sum of each leg's TotalTimeInclWait) plus the ordered legs that make it up.
// An empty Route (TotalTime 0, no legs) means from == to.
type Route struct {
	TotalTime float64
	Legs      []Leg
}

// BuildRoute returns the shortest-total-time path from `from` to `to`.
// Returns (&Route{}, nil) if from == to. Returns (nil, nil) if the stops
// exist but no path connects them. Returns a NotFound error if either stop
// name is absent from the catalogue.
func (r *Router) BuildRoute(from, to string) (*Route, error) {
	if from == to {
		return &Route{}, nil
	}
	r.InitRouter()

	_, fromID, ok := r.cat.StopByName(from)
	if !ok {
		return nil, domain.NotFound("stop \"" + from + "\"")
	}
	_, toID, ok := r.cat.StopByName(to)
	if !ok {
		return nil, domain.NotFound("stop \"" + to + "\"")
	}

	fromVertex := r.vertexOfStop[fromID]
	toVertex := r.vertexOfStop[toID]

	entry := r.table[fromVertex*r.n+toVertex]
	if !entry.ok {
		return nil, nil
	}

	var reversed []Leg
	cur := toVertex
	for cur != fromVertex {
		e := r.edges[r.table[fromVertex*r.n+cur].prevEdge]
		reversed = append(reversed, Leg{
			BusName:           e.weight.busName,
			StopFromName:      r.cat.Stop(r.stopOfVertex[e.from]).Name,
			StopToName:        r.cat.Stop(r.stopOfVertex[e.to]).Name,
			SpanCount:         e.weight.spanCount,
			TotalTimeInclWait: e.weight.totalTime,
		})
		cur = e.from
	}

	legs := make([]Leg, len(reversed))
	for i, leg := range reversed {
		legs[len(reversed)-1-i] = leg
	}
	return &Route{TotalTime: entry.totalTime, Legs: legs}, nil
}

// priorityQueue is a binary min-heap over pending Dijkstra frontier items,
// following the corpus's own container/heap idiom for this domain.
type priorityQueue []*pqItem

type pqItem struct {
	vertex   int
	priority float64
}

func (pq priorityQueue) Len() int           { return len(pq) }
func (pq priorityQueue) Less(i, j int) bool { return pq[i].priority < pq[j].priority }
func (pq priorityQueue) Swap(i, j int)      { pq[i], pq[j] = pq[j], pq[i] }

func (pq *priorityQueue) Push(x interface{}) {
	*pq = append(*pq, x.(*pqItem))
}

func (pq *priorityQueue) Pop() interface{} {
	old := *pq
	n := len(old)
	item := old[n-1]
	*pq = old[:n-1]
	return item
}
