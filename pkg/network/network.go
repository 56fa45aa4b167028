// Package network provides the mapping network: a directed graph whose nodes
// are representations (language or orthography identifiers) and whose edges
// carry the Correspondence converting one into the other.
//
// A Network is built once and never mutated afterwards, so it can be shared
// by concurrent conversions without locking.
package network

import (
	"fmt"
	"sort"

	"github.com/soghomon-b/g2p/pkg/core"
	"github.com/soghomon-b/g2p/pkg/mapping"
)

// Edge is one mapping step between two representations.
type Edge struct {
	From string
	To   string
	// Name labels the mapping, typically its display name or source file.
	Name           string
	Correspondence *mapping.Correspondence
}

func (e *Edge) String() string {
	return e.From + "->" + e.To
}

// Network is an immutable mapping network.
type Network struct {
	nodes   map[string]bool
	order   []string           // node ids in definition order
	edges   map[string][]*Edge // from -> outgoing edges in definition order
	parents map[string][]string
}

// Builder accumulates nodes and edges for a Network.
// The first edge defined between two nodes has priority in path lookup.
type Builder struct {
	n     *Network
	built bool
}

// NewBuilder creates an empty builder.
func NewBuilder() *Builder {
	return &Builder{n: &Network{
		nodes:   make(map[string]bool),
		edges:   make(map[string][]*Edge),
		parents: make(map[string][]string),
	}}
}

// AddNode adds a node. Adding an existing node is a no-op.
func (b *Builder) AddNode(id string) error {
	if b.built {
		return fmt.Errorf("network already built")
	}
	if id == "" {
		return fmt.Errorf("node id is required")
	}
	if !b.n.nodes[id] {
		b.n.nodes[id] = true
		b.n.order = append(b.n.order, id)
	}
	return nil
}

// AddEdge adds a directed edge, creating its endpoints as needed.
func (b *Builder) AddEdge(e *Edge) error {
	if b.built {
		return fmt.Errorf("network already built")
	}
	if e == nil || e.Correspondence == nil {
		return fmt.Errorf("edge %v has no correspondence", e)
	}
	if e.From == e.To {
		return fmt.Errorf("self-loop detected: %s", e.From)
	}
	if err := b.AddNode(e.From); err != nil {
		return err
	}
	if err := b.AddNode(e.To); err != nil {
		return err
	}

	b.n.edges[e.From] = append(b.n.edges[e.From], e)
	if !contains(b.n.parents[e.To], e.From) {
		b.n.parents[e.To] = append(b.n.parents[e.To], e.From)
	}
	return nil
}

// Build returns the finished network. The builder cannot be used afterwards.
func (b *Builder) Build() *Network {
	b.built = true
	return b.n
}

// HasNode reports whether id is a node of the network.
func (n *Network) HasNode(id string) bool {
	return n.nodes[id]
}

// Nodes returns all node ids, sorted.
func (n *Network) Nodes() []string {
	nodes := make([]string, len(n.order))
	copy(nodes, n.order)
	sort.Strings(nodes)
	return nodes
}

// Edges returns the outgoing edges of id in priority order.
func (n *Network) Edges(id string) []*Edge {
	return n.edges[id]
}

// NodeCount returns the number of nodes in the network.
func (n *Network) NodeCount() int {
	return len(n.nodes)
}

// EdgeCount returns the number of edges in the network.
func (n *Network) EdgeCount() int {
	count := 0
	for _, out := range n.edges {
		count += len(out)
	}
	return count
}

// FindPath returns the shortest edge sequence leading from src to dst.
// Among equally short paths the one using earlier-defined edges wins.
// It returns *core.UnknownNodeError if either node is absent and
// *core.NoPathError if dst is unreachable from src.
func (n *Network) FindPath(src, dst string) ([]*Edge, error) {
	if err := n.known(src, dst); err != nil {
		return nil, err
	}
	if src == dst {
		return []*Edge{}, nil
	}

	// via records the edge that first reached each node.
	via := map[string]*Edge{src: nil}
	queue := []string{src}
	for len(queue) > 0 {
		id := queue[0]
		queue = queue[1:]

		for _, e := range n.edges[id] {
			if _, seen := via[e.To]; seen {
				continue
			}
			via[e.To] = e
			if e.To == dst {
				return tracePath(via, dst), nil
			}
			queue = append(queue, e.To)
		}
	}

	return nil, &core.NoPathError{From: src, To: dst}
}

// Descendants returns every node reachable from id, sorted.
func (n *Network) Descendants(id string) ([]string, error) {
	if err := n.known(id); err != nil {
		return nil, err
	}

	reached := make(map[string]bool)
	var visit func(nodeID string)
	visit = func(nodeID string) {
		for _, e := range n.edges[nodeID] {
			if !reached[e.To] {
				reached[e.To] = true
				visit(e.To)
			}
		}
	}
	visit(id)
	delete(reached, id)

	return sortedKeys(reached), nil
}

// Ancestors returns every node from which id is reachable, sorted.
func (n *Network) Ancestors(id string) ([]string, error) {
	if err := n.known(id); err != nil {
		return nil, err
	}

	upstream := make(map[string]bool)
	var visit func(nodeID string)
	visit = func(nodeID string) {
		for _, parentID := range n.parents[nodeID] {
			if !upstream[parentID] {
				upstream[parentID] = true
				visit(parentID)
			}
		}
	}
	visit(id)
	delete(upstream, id)

	return sortedKeys(upstream), nil
}

func (n *Network) known(ids ...string) error {
	for _, id := range ids {
		if !n.nodes[id] {
			return &core.UnknownNodeError{Node: id}
		}
	}
	return nil
}

func tracePath(via map[string]*Edge, dst string) []*Edge {
	var path []*Edge
	for e := via[dst]; e != nil; e = via[e.From] {
		path = append(path, e)
	}
	for i, j := 0, len(path)-1; i < j; i, j = i+1, j-1 {
		path[i], path[j] = path[j], path[i]
	}
	return path
}

func sortedKeys(set map[string]bool) []string {
	result := make([]string, 0, len(set))
	for id := range set {
		result = append(result, id)
	}
	sort.Strings(result)
	return result
}

// contains checks if a slice contains a string.
func contains(slice []string, str string) bool {
	for _, s := range slice {
		if s == str {
			return true
		}
	}
	return false
}
