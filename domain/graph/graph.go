package graph

import (
	"fmt"

	"godag/domain/core"
)

// Edge is a weighted directed edge between two node indices
type Edge struct {
	From   int     `json:"from"`
	To     int     `json:"to"`
	Weight float64 `json:"weight"`
}

// Graph is a directed graph estimate over named nodes. Solvers guarantee
// acyclicity of the estimates they emit; the type itself stores any
// directed graph so that constraint sets can reuse it.
type Graph struct {
	Nodes []string `json:"nodes"`
	Edges []Edge   `json:"edges"`
}

// New creates an empty graph over the given node labels
func New(nodes []string) *Graph {
	return &Graph{Nodes: nodes}
}

// NumNodes returns the node count
func (g *Graph) NumNodes() int { return len(g.Nodes) }

// NumEdges returns the edge count
func (g *Graph) NumEdges() int { return len(g.Edges) }

// HasEdge reports whether the edge from -> to is present
func (g *Graph) HasEdge(from, to int) bool {
	for _, e := range g.Edges {
		if e.From == from && e.To == to {
			return true
		}
	}
	return false
}

// AddEdge appends an edge without acyclicity checks
func (g *Graph) AddEdge(from, to int, weight float64) {
	g.Edges = append(g.Edges, Edge{From: from, To: to, Weight: weight})
}

// Parents returns the incoming edges of node k
func (g *Graph) Parents(k int) []Edge {
	var parents []Edge
	for _, e := range g.Edges {
		if e.To == k {
			parents = append(parents, e)
		}
	}
	return parents
}

// children builds an adjacency list of outgoing neighbors
func (g *Graph) children() [][]int {
	adj := make([][]int, len(g.Nodes))
	for _, e := range g.Edges {
		adj[e.From] = append(adj[e.From], e.To)
	}
	return adj
}

// CreatesCycle reports whether adding the edge from -> to would close a
// directed cycle, i.e. whether "to" already reaches "from".
func (g *Graph) CreatesCycle(from, to int) bool {
	if from == to {
		return true
	}
	adj := g.children()
	visited := make([]bool, len(g.Nodes))
	stack := []int{to}
	for len(stack) > 0 {
		node := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		if node == from {
			return true
		}
		if visited[node] {
			continue
		}
		visited[node] = true
		stack = append(stack, adj[node]...)
	}
	return false
}

// TopologicalOrder returns a topological ordering of the nodes, failing if
// the graph contains a cycle.
func (g *Graph) TopologicalOrder() ([]int, error) {
	indegree := make([]int, len(g.Nodes))
	adj := g.children()
	for _, e := range g.Edges {
		indegree[e.To]++
	}

	var queue []int
	for i, d := range indegree {
		if d == 0 {
			queue = append(queue, i)
		}
	}

	order := make([]int, 0, len(g.Nodes))
	for len(queue) > 0 {
		node := queue[0]
		queue = queue[1:]
		order = append(order, node)
		for _, child := range adj[node] {
			indegree[child]--
			if indegree[child] == 0 {
				queue = append(queue, child)
			}
		}
	}

	if len(order) != len(g.Nodes) {
		return nil, fmt.Errorf("%w: graph contains a directed cycle", core.ErrInvalidConstraint)
	}
	return order, nil
}

// Clone returns a deep copy of the graph
func (g *Graph) Clone() *Graph {
	nodes := make([]string, len(g.Nodes))
	copy(nodes, g.Nodes)
	edges := make([]Edge, len(g.Edges))
	copy(edges, g.Edges)
	return &Graph{Nodes: nodes, Edges: edges}
}

// EdgeLabel formats an edge using node names, for reports and logs
func (g *Graph) EdgeLabel(e Edge) string {
	return fmt.Sprintf("%s -> %s", g.Nodes[e.From], g.Nodes[e.To])
}
