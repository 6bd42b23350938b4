package access

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGraph_EmptyEmployeeYieldsEmptySets(t *testing.T) {
	g := newFakeGraph()
	graph := NewGraph(g)
	ctx := context.Background()

	reports, err := graph.DirectReports(ctx, "")
	require.NoError(t, err)
	assert.NotNil(t, reports)
	assert.Empty(t, reports)

	tasks, err := graph.TasksOfProjects(ctx, IDSet{})
	require.NoError(t, err)
	assert.Empty(t, tasks)
	assert.Zero(t, g.calls)
}

func TestGraph_DirectReportsIsSingleHop(t *testing.T) {
	g := newFakeGraph()
	g.addEmployee("top", "")
	g.addEmployee("mid", "top")
	g.addEmployee("low", "mid")

	reports, err := NewGraph(g).DirectReports(context.Background(), "top")
	require.NoError(t, err)
	assert.Equal(t, []string{"mid"}, reports.Slice())
}

func TestGraph_ManagerChain(t *testing.T) {
	g := newFakeGraph()
	g.addEmployee("a", "")
	g.addEmployee("b", "a")
	g.addEmployee("c", "b")

	chain, err := NewGraph(g).ManagerChain(context.Background(), "c")
	require.NoError(t, err)
	assert.Equal(t, []string{"b", "a"}, chain)
}

func TestGraph_ManagerChainTerminatesOnExistingCycle(t *testing.T) {
	g := newFakeGraph()
	g.addEmployee("a", "c")
	g.addEmployee("b", "a")
	g.addEmployee("c", "b")

	chain, err := NewGraph(g).ManagerChain(context.Background(), "a")
	require.NoError(t, err)
	assert.Equal(t, []string{"c", "b"}, chain)
}

func TestGraph_WouldCreateCycle(t *testing.T) {
	g := newFakeGraph()
	g.addEmployee("a", "")
	g.addEmployee("b", "a")
	g.addEmployee("c", "b")
	g.addEmployee("x", "")
	graph := NewGraph(g)
	ctx := context.Background()

	tests := []struct {
		name      string
		employee  string
		manager   string
		wantCycle bool
	}{
		{"self", "a", "a", true},
		{"direct loop", "a", "b", true},
		{"transitive loop", "a", "c", true},
		{"downward move", "c", "a", false},
		{"unrelated", "x", "c", false},
		{"clear manager", "c", "", false},
		{"unknown manager", "a", "ghost", false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := graph.WouldCreateCycle(ctx, tt.employee, tt.manager)
			require.NoError(t, err)
			assert.Equal(t, tt.wantCycle, got)
		})
	}
}
