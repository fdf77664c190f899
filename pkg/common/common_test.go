package common

import "testing"

func testGraph() Graph {
	return Graph{
		Nodes: []Node{
			{ID: "dataset-1", Labels: []string{"Dataset"}},
			{ID: "file-1", Labels: []string{"FileObject"}},
			{ID: "file-2", Labels: []string{"FileObject"}},
		},
		Edges: []Edge{
			{ID: "dataset-1_distribution_file-1", Type: "distribution", Source: "dataset-1", Target: "file-1"},
			{ID: "dataset-1_distribution_file-2", Type: "distribution", Source: "dataset-1", Target: "file-2"},
		},
	}
}

func TestNodeByID(t *testing.T) {
	g := testGraph()

	if n := g.NodeByID("file-1"); n == nil || n.ID != "file-1" {
		t.Fatalf("expected node file-1, got %v", n)
	}
	if n := g.NodeByID("missing"); n != nil {
		t.Fatalf("expected nil for unknown id, got %v", n)
	}
}

func TestOutgoingEdges(t *testing.T) {
	g := testGraph()

	out := g.OutgoingEdges("dataset-1")
	if len(out) != 2 {
		t.Fatalf("expected 2 outgoing edges, got %d", len(out))
	}
	if out[0].Target != "file-1" || out[1].Target != "file-2" {
		t.Errorf("edge order not preserved: %v", out)
	}

	if out := g.OutgoingEdges("file-1"); out != nil {
		t.Errorf("expected no outgoing edges for leaf node, got %v", out)
	}
}
