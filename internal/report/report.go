// Package report renders estimation results as markdown and HTML summaries.
package report

import (
	"fmt"
	"strings"

	"godag/app"
	"godag/domain/run"

	"github.com/gomarkdown/markdown"
	"github.com/gomarkdown/markdown/html"
	"github.com/gomarkdown/markdown/parser"
)

// Markdown summarizes a DAG estimation run as a markdown document with a
// per-lambda table and the edge list of the densest estimate.
func Markdown(result *app.DAGResult) string {
	var b strings.Builder

	fmt.Fprintf(&b, "# Estimation run %s\n\n", result.RunID)
	fmt.Fprintf(&b, "- Family: %s\n", result.Family)
	fmt.Fprintf(&b, "- Alpha: %g\n", result.Hyper.Alpha)
	fmt.Fprintf(&b, "- Gamma: %g\n", result.Hyper.Gamma)
	fmt.Fprintf(&b, "- Path length: %d\n\n", len(result.Path))

	b.WriteString("## Solution path\n\n")
	b.WriteString("| # | Lambda | Edges |\n")
	b.WriteString("|---|--------|-------|\n")
	for i, entry := range result.Path {
		fmt.Fprintf(&b, "| %d | %.6f | %d |\n", i+1, entry.Lambda, entry.NEdges)
	}

	if len(result.Path) > 0 {
		last := result.Path[len(result.Path)-1]
		fmt.Fprintf(&b, "\n## Edges at lambda %.6f\n\n", last.Lambda)
		if last.NEdges == 0 {
			b.WriteString("(empty graph)\n")
		}
		for _, edge := range last.Graph.Edges {
			fmt.Fprintf(&b, "- %s (%.4f)\n", last.Graph.EdgeLabel(edge), edge.Weight)
		}
	}

	return b.String()
}

// RecordMarkdown summarizes a persisted run manifest, which carries the
// path shape but not the graphs themselves.
func RecordMarkdown(record *run.Record) string {
	var b strings.Builder

	fmt.Fprintf(&b, "# Estimation run %s\n\n", record.ID)
	fmt.Fprintf(&b, "- Operation: %s\n", record.Operation)
	fmt.Fprintf(&b, "- Family: %s\n", record.Family)
	fmt.Fprintf(&b, "- Data: %d rows, %d variables\n", record.Rows, record.Vars)
	fmt.Fprintf(&b, "- Alpha: %g\n", record.Hyper.Alpha)
	fmt.Fprintf(&b, "- Runtime: %d ms\n\n", record.RuntimeMs)

	b.WriteString("## Solution path\n\n")
	b.WriteString("| # | Lambda | Edges |\n")
	b.WriteString("|---|--------|-------|\n")
	for i, lambda := range record.Lambdas {
		edges := 0
		if i < len(record.EdgeCounts) {
			edges = record.EdgeCounts[i]
		}
		fmt.Fprintf(&b, "| %d | %.6f | %d |\n", i+1, lambda, edges)
	}

	return b.String()
}

// HTML renders a markdown summary to HTML
func HTML(md string) []byte {
	p := parser.NewWithExtensions(parser.CommonExtensions | parser.Tables)
	renderer := html.NewRenderer(html.RendererOptions{Flags: html.CommonFlags})
	return markdown.ToHTML([]byte(md), p, renderer)
}
