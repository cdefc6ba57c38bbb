// Package planar builds a planar network of line strings. Directed edges are
// exposed through a small interface; gonum's graph types do the storage and
// routing underneath and stay swappable.
package planar

import (
	"errors"
	"math"
	"sort"

	"gonum.org/v1/gonum/graph"
	"gonum.org/v1/gonum/graph/path"
	"gonum.org/v1/gonum/graph/simple"

	"geoportray/internal/geom"
)

var (
	ErrDegenerateLine = errors.New("planar: line needs at least two coordinates")
	ErrUnknownNode    = errors.New("planar: no node at coordinate")
	ErrNoPath         = errors.New("planar: no path between nodes")
)

// Node is a distinct line endpoint.
type Node struct {
	id    int64
	Coord geom.Coord
	out   []*edge
}

// ID implements graph.Node.
func (n *Node) ID() int64 { return n.id }

// Degree is the number of directed edges leaving n.
func (n *Node) Degree() int { return len(n.out) }

// DirectedEdge is one direction of travel along a network line.
type DirectedEdge interface {
	From() *Node
	To() *Node
	// DirectionPoint is the next coordinate after From along the line; it
	// fixes the edge's angle at its origin.
	DirectionPoint() geom.Coord
	// EdgeDirection is true when the edge follows the line's coordinate
	// order.
	EdgeDirection() bool
	// Angle is measured counter-clockwise from the positive x axis, in
	// [0, 2π).
	Angle() float64
	// Quadrant is 0 (NE), 1 (NW), 2 (SW) or 3 (SE).
	Quadrant() int
	// Sym is the edge running the other way along the same line.
	Sym() DirectedEdge
	Line() geom.LineString
	Length() float64
	UserData() any
}

type edge struct {
	from, to *Node
	dirPt    geom.Coord
	forward  bool
	line     geom.LineString
	length   float64
	data     any
	sym      *edge
}

func (e *edge) From() *Node                { return e.from }
func (e *edge) To() *Node                  { return e.to }
func (e *edge) DirectionPoint() geom.Coord { return e.dirPt }
func (e *edge) EdgeDirection() bool        { return e.forward }
func (e *edge) Sym() DirectedEdge          { return e.sym }
func (e *edge) Line() geom.LineString      { return e.line }
func (e *edge) Length() float64            { return e.length }
func (e *edge) UserData() any              { return e.data }

func (e *edge) Angle() float64 {
	a := math.Atan2(e.dirPt.Y-e.from.Coord.Y, e.dirPt.X-e.from.Coord.X)
	if a < 0 {
		a += 2 * math.Pi
	}
	return a
}

func (e *edge) Quadrant() int {
	dx := e.dirPt.X - e.from.Coord.X
	dy := e.dirPt.Y - e.from.Coord.Y
	switch {
	case dx >= 0 && dy >= 0:
		return 0
	case dx < 0 && dy >= 0:
		return 1
	case dx < 0:
		return 2
	}
	return 3
}

// weighted adapts an edge to gonum's graph.WeightedEdge.
type weighted struct{ e *edge }

func (w weighted) From() graph.Node         { return w.e.from }
func (w weighted) To() graph.Node           { return w.e.to }
func (w weighted) ReversedEdge() graph.Edge { return weighted{w.e.sym} }
func (w weighted) Weight() float64          { return w.e.length }

// Network is a planar graph of line strings.
type Network struct {
	g     *simple.WeightedDirectedGraph
	nodes map[geom.Coord]*Node
	edges []*edge
}

func NewNetwork() *Network {
	return &Network{
		g:     simple.NewWeightedDirectedGraph(0, math.Inf(1)),
		nodes: make(map[geom.Coord]*Node),
	}
}

// AddLine adds ls as a pair of directed edges between its endpoints and
// returns the forward edge.
func (n *Network) AddLine(ls geom.LineString, userData any) (DirectedEdge, error) {
	if len(ls) < 2 {
		return nil, ErrDegenerateLine
	}
	from := n.node(ls[0])
	to := n.node(ls[len(ls)-1])
	length := geom.Length(ls)
	fwd := &edge{from: from, to: to, dirPt: ls[1], forward: true, line: ls, length: length, data: userData}
	rev := &edge{from: to, to: from, dirPt: ls[len(ls)-2], forward: false, line: ls, length: length, data: userData}
	fwd.sym, rev.sym = rev, fwd
	from.out = append(from.out, fwd)
	to.out = append(to.out, rev)
	n.edges = append(n.edges, fwd, rev)

	if from != to {
		n.setShorter(fwd)
		n.setShorter(rev)
	}
	return fwd, nil
}

// setShorter keeps the cheapest of parallel edges for routing, since the
// simple graph holds one edge per ordered node pair.
func (n *Network) setShorter(e *edge) {
	if cur := n.g.WeightedEdge(e.from.id, e.to.id); cur != nil && cur.Weight() <= e.length {
		return
	}
	n.g.SetWeightedEdge(weighted{e})
}

func (n *Network) node(c geom.Coord) *Node {
	if nd, ok := n.nodes[c]; ok {
		return nd
	}
	nd := &Node{id: n.g.NewNode().ID(), Coord: c}
	n.g.AddNode(nd)
	n.nodes[c] = nd
	return nd
}

// Node returns the node at c.
func (n *Network) Node(c geom.Coord) (*Node, bool) {
	nd, ok := n.nodes[c]
	return nd, ok
}

// NumNodes returns the number of distinct endpoints.
func (n *Network) NumNodes() int { return len(n.nodes) }

// NumEdges returns the number of directed edges, two per line.
func (n *Network) NumEdges() int { return len(n.edges) }

// OutEdges returns the edges leaving nd ordered counter-clockwise by angle.
func (n *Network) OutEdges(nd *Node) []DirectedEdge {
	sorted := make([]*edge, len(nd.out))
	copy(sorted, nd.out)
	sort.SliceStable(sorted, func(i, j int) bool { return sorted[i].Angle() < sorted[j].Angle() })
	out := make([]DirectedEdge, len(sorted))
	for i, e := range sorted {
		out[i] = e
	}
	return out
}

// ShortestPath returns the edges of the shortest route between the nodes at
// from and to, weighted by line length.
func (n *Network) ShortestPath(from, to geom.Coord) ([]DirectedEdge, float64, error) {
	src, ok := n.nodes[from]
	if !ok {
		return nil, 0, ErrUnknownNode
	}
	dst, ok := n.nodes[to]
	if !ok {
		return nil, 0, ErrUnknownNode
	}
	if src == dst {
		return nil, 0, nil
	}
	nodes, cost := path.DijkstraFrom(src, n.g).To(dst.id)
	if len(nodes) == 0 {
		return nil, 0, ErrNoPath
	}
	route := make([]DirectedEdge, 0, len(nodes)-1)
	for i := 1; i < len(nodes); i++ {
		e := n.g.WeightedEdge(nodes[i-1].ID(), nodes[i].ID())
		route = append(route, e.(weighted).e)
	}
	return route, cost, nil
}
