package scene

import (
	"image"
	"image/color"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/segmentio/ksuid"
)

// Kind tells renderers how to draw a node
type Kind int

const (
	KindMesh        Kind = iota // textured model
	KindPlaceholder             // flat box standing in for a missing model
	KindCar
)

func (k Kind) String() string {
	switch k {
	case KindMesh:
		return "mesh"
	case KindPlaceholder:
		return "placeholder"
	case KindCar:
		return "car"
	}
	return "unknown"
}

// Node is a renderable placed in the world. Position is the centre of its footprint.
type Node struct {
	ID       string
	Kind     Kind
	Asset    string // model name, empty for procedural nodes
	Position mgl64.Vec3
	Size     mgl64.Vec3 // width (x), height (y), length (z)
	Yaw      float64
	Roll     float64
	Color    color.RGBA  // flat colour, or tint for textured nodes
	Texture  image.Image // nil unless Kind is KindMesh or a textured car
}

// NewBox creates the minimal procedural stand-in for a model
func NewBox(pos, size mgl64.Vec3, clr color.RGBA) *Node {
	return &Node{
		ID:       ksuid.New().String(),
		Kind:     KindPlaceholder,
		Position: pos,
		Size:     size,
		Color:    clr,
	}
}

// NewMesh creates a textured node for a loaded model
func NewMesh(asset string, tex image.Image, pos, size mgl64.Vec3, tint color.RGBA) *Node {
	return &Node{
		ID:       ksuid.New().String(),
		Kind:     KindMesh,
		Asset:    asset,
		Position: pos,
		Size:     size,
		Color:    tint,
		Texture:  tex,
	}
}

// Graph is the set of nodes currently placed in the world
type Graph struct {
	nodes []*Node
	index map[string]int
}

// NewGraph creates an empty scene graph
func NewGraph() *Graph {
	return &Graph{
		nodes: make([]*Node, 0),
		index: make(map[string]int),
	}
}

// Add places a node. Adding the same node twice is a no-op.
func (g *Graph) Add(n *Node) {
	if n == nil {
		return
	}
	if _, ok := g.index[n.ID]; ok {
		return
	}
	g.index[n.ID] = len(g.nodes)
	g.nodes = append(g.nodes, n)
}

// Remove takes a node out of the world, reporting whether it was present
func (g *Graph) Remove(n *Node) bool {
	if n == nil {
		return false
	}
	i, ok := g.index[n.ID]
	if !ok {
		return false
	}
	g.nodes = append(g.nodes[:i], g.nodes[i+1:]...)
	delete(g.index, n.ID)
	for j := i; j < len(g.nodes); j++ {
		g.index[g.nodes[j].ID] = j
	}
	return true
}

// Nodes returns the placed nodes in insertion order
func (g *Graph) Nodes() []*Node {
	return g.nodes
}

// Len returns the number of placed nodes
func (g *Graph) Len() int {
	return len(g.nodes)
}

// Contains reports whether n is placed
func (g *Graph) Contains(n *Node) bool {
	if n == nil {
		return false
	}
	_, ok := g.index[n.ID]
	return ok
}

// Fog fades distant nodes linearly into Color between Near and Far
type Fog struct {
	Color color.RGBA
	Near  float64
	Far   float64
}

// DefaultFog matches the sky so the road dissolves into the horizon
func DefaultFog() Fog {
	return Fog{Color: color.RGBA{0x87, 0xCE, 0xEB, 0xff}, Near: 10, Far: 100}
}

// Factor returns how much of the fog colour covers a point at distance d:
// 0 before Near, 1 beyond Far
func (f Fog) Factor(d float64) float64 {
	if f.Far <= f.Near {
		return 0
	}
	t := (d - f.Near) / (f.Far - f.Near)
	if t < 0 {
		return 0
	}
	if t > 1 {
		return 1
	}
	return t
}
