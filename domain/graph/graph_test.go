package graph

import (
	"testing"

	"godag/domain/core"
	"godag/domain/dataset"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCreatesCycle(t *testing.T) {
	g := New([]string{"A", "B", "C"})
	g.AddEdge(0, 1, 1.0)
	g.AddEdge(1, 2, 1.0)

	assert.True(t, g.CreatesCycle(2, 0), "closing the chain is a cycle")
	assert.True(t, g.CreatesCycle(1, 0), "reversing an edge through a path is a cycle")
	assert.False(t, g.CreatesCycle(0, 2), "shortcut along the chain is acyclic")
	assert.True(t, g.CreatesCycle(0, 0), "self loop")
}

func TestTopologicalOrder(t *testing.T) {
	g := New([]string{"A", "B", "C", "D"})
	g.AddEdge(0, 1, 1.0)
	g.AddEdge(1, 2, 1.0)
	g.AddEdge(0, 3, 1.0)

	order, err := g.TopologicalOrder()
	require.NoError(t, err)
	require.Len(t, order, 4)

	pos := make(map[int]int)
	for i, node := range order {
		pos[node] = i
	}
	for _, e := range g.Edges {
		assert.Less(t, pos[e.From], pos[e.To])
	}

	g.AddEdge(2, 0, 1.0)
	_, err = g.TopologicalOrder()
	assert.Error(t, err)
}

func TestSolutionPathValidate(t *testing.T) {
	g := New([]string{"A"})

	valid := SolutionPath{
		{Lambda: 1.0, Graph: g},
		{Lambda: 0.5, Graph: g},
		{Lambda: 0.1, Graph: g},
	}
	assert.NoError(t, valid.Validate())

	assert.ErrorIs(t, SolutionPath{}.Validate(), core.ErrEmptyLambdaGrid)

	unordered := SolutionPath{
		{Lambda: 0.5, Graph: g},
		{Lambda: 0.5, Graph: g},
	}
	assert.ErrorIs(t, unordered.Validate(), core.ErrUnorderedLambdaGrid)
}

func TestLambdaGrid(t *testing.T) {
	grid, err := LambdaGrid(2.0, 0.001, 20)
	require.NoError(t, err)
	require.Len(t, grid, 20)

	assert.InDelta(t, 2.0, grid[0], 1e-12)
	assert.InDelta(t, 2.0*0.001, grid[19], 1e-9)
	for i := 1; i < len(grid); i++ {
		assert.Less(t, grid[i], grid[i-1])
	}

	_, err = LambdaGrid(2.0, 0.001, 0)
	assert.ErrorIs(t, err, core.ErrEmptyLambdaGrid)

	_, err = LambdaGrid(-1.0, 0.001, 5)
	assert.Error(t, err)

	_, err = LambdaGrid(2.0, 1.5, 5)
	assert.Error(t, err)

	single, err := LambdaGrid(2.0, 0.5, 1)
	require.NoError(t, err)
	assert.Equal(t, []float64{2.0}, single)
}

func TestMaxLambda(t *testing.T) {
	perfect := &dataset.Dataset{
		Rows: [][]float64{
			{1, 2, 5},
			{2, 4, 3},
			{3, 6, 4},
			{4, 8, 1},
		},
		Columns: []string{"X1", "X2", "X3"},
		Type:    dataset.TypeContinuous,
	}
	assert.InDelta(t, 1.0, MaxLambda(perfect), 1e-9, "perfectly correlated pair dominates")

	constant := &dataset.Dataset{
		Rows: [][]float64{
			{1, 1},
			{1, 1},
			{1, 1},
		},
		Columns: []string{"X1", "X2"},
		Type:    dataset.TypeContinuous,
	}
	assert.Equal(t, 1.0, MaxLambda(constant), "degenerate data falls back to 1")
}

func TestConstraintsValidate(t *testing.T) {
	nodes := []string{"A", "B", "C"}

	t.Run("valid", func(t *testing.T) {
		c := Constraints{
			Whitelist: []EdgeConstraint{{From: 0, To: 1}},
			Blacklist: []EdgeConstraint{{From: 2, To: 0}},
		}
		assert.NoError(t, c.Validate(nodes))
	})

	t.Run("out of range", func(t *testing.T) {
		c := Constraints{Blacklist: []EdgeConstraint{{From: 0, To: 9}}}
		assert.ErrorIs(t, c.Validate(nodes), core.ErrInvalidConstraint)
	})

	t.Run("self loop", func(t *testing.T) {
		c := Constraints{Whitelist: []EdgeConstraint{{From: 1, To: 1}}}
		assert.ErrorIs(t, c.Validate(nodes), core.ErrInvalidConstraint)
	})

	t.Run("whitelist and blacklist overlap", func(t *testing.T) {
		c := Constraints{
			Whitelist: []EdgeConstraint{{From: 0, To: 1}},
			Blacklist: []EdgeConstraint{{From: 0, To: 1}},
		}
		assert.ErrorIs(t, c.Validate(nodes), core.ErrInvalidConstraint)
	})

	t.Run("cyclic whitelist", func(t *testing.T) {
		c := Constraints{
			Whitelist: []EdgeConstraint{{From: 0, To: 1}, {From: 1, To: 2}, {From: 2, To: 0}},
		}
		assert.ErrorIs(t, c.Validate(nodes), core.ErrCyclicWhitelist)
	})
}
