package report

import (
	"testing"

	"godag/app"
	"godag/domain/core"
	"godag/domain/dataset"
	"godag/domain/graph"
	"godag/domain/hyper"
	"godag/domain/run"

	"github.com/stretchr/testify/assert"
)

func chainResult() *app.DAGResult {
	empty := graph.New([]string{"X1", "X2", "X3"})
	dense := empty.Clone()
	dense.AddEdge(0, 1, 1.48)
	dense.AddEdge(1, 2, 1.52)

	return &app.DAGResult{
		RunID:  core.RunID(core.NewID()),
		Family: dataset.FamilyGaussian,
		Hyper:  hyper.Resolve(hyper.Request{}, 3),
		Path: graph.SolutionPath{
			{Lambda: 0.9, Graph: empty, NEdges: 0},
			{Lambda: 0.4, Graph: dense, NEdges: 2},
		},
	}
}

func TestMarkdown(t *testing.T) {
	md := Markdown(chainResult())

	assert.Contains(t, md, "# Estimation run")
	assert.Contains(t, md, "- Family: gaussian")
	assert.Contains(t, md, "| 1 | 0.900000 | 0 |")
	assert.Contains(t, md, "| 2 | 0.400000 | 2 |")
	assert.Contains(t, md, "X1 -> X2 (1.4800)")
	assert.Contains(t, md, "X2 -> X3 (1.5200)")
}

func TestMarkdownEmptyDensest(t *testing.T) {
	result := chainResult()
	result.Path = result.Path[:1]

	md := Markdown(result)
	assert.Contains(t, md, "(empty graph)")
}

func TestRecordMarkdown(t *testing.T) {
	result := chainResult()
	record := run.NewRecord("estimate_dag", result.Family.String(), 200, 3, result.Hyper, result.Path, 12)

	md := RecordMarkdown(record)
	assert.Contains(t, md, "- Operation: estimate_dag")
	assert.Contains(t, md, "- Data: 200 rows, 3 variables")
	assert.Contains(t, md, "| 2 | 0.400000 | 2 |")
}

func TestHTML(t *testing.T) {
	out := string(HTML(Markdown(chainResult())))

	assert.Contains(t, out, "<h1")
	assert.Contains(t, out, "<table>")
	assert.Contains(t, out, "X1 -&gt; X2")
}
