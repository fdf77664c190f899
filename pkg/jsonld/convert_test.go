package jsonld

import (
	"encoding/json"
	"errors"
	"reflect"
	"strings"
	"testing"

	"github.com/google/uuid"
)

func TestConvert_Structural(t *testing.T) {
	doc := map[string]any{
		"@context": "https://schema.org/",
		"@type":    "Dataset",
		"@id":      "dataset-1",
		"name":     "My Dataset",
		"distribution": map[string]any{
			"@type": "FileObject",
			"@id":   "file-1",
			"name":  "data.csv",
		},
	}

	env, err := Convert(doc, DefaultConvertOptions())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if len(env.Graph.Nodes) != 2 {
		t.Fatalf("expected 2 nodes, got %d", len(env.Graph.Nodes))
	}
	if len(env.Graph.Edges) != 1 {
		t.Fatalf("expected 1 edge, got %d", len(env.Graph.Edges))
	}

	root := env.Graph.Nodes[0]
	if root.ID != "dataset-1" {
		t.Fatalf("expected root node first, got %s", root.ID)
	}
	if !reflect.DeepEqual(root.Labels, []string{"Dataset"}) {
		t.Fatalf("unexpected root labels: %v", root.Labels)
	}
	if !reflect.DeepEqual(root.Properties, map[string]any{"name": "My Dataset"}) {
		t.Fatalf("unexpected root properties: %v", root.Properties)
	}

	file := env.Graph.Nodes[1]
	if file.ID != "file-1" {
		t.Fatalf("expected file-1 second, got %s", file.ID)
	}
	if !reflect.DeepEqual(file.Labels, []string{"FileObject"}) {
		t.Fatalf("unexpected file labels: %v", file.Labels)
	}
	if !reflect.DeepEqual(file.Properties, map[string]any{"name": "data.csv"}) {
		t.Fatalf("unexpected file properties: %v", file.Properties)
	}

	edge := env.Graph.Edges[0]
	if edge.Type != "distribution" || edge.Source != "dataset-1" || edge.Target != "file-1" {
		t.Fatalf("unexpected edge: %+v", edge)
	}
	if edge.ID != "dataset-1_distribution_file-1" {
		t.Fatalf("unexpected edge id: %s", edge.ID)
	}

	md := env.Metadata
	if md.SourceFormat != "JSON-LD" || md.NodeCount != 2 || md.EdgeCount != 1 || md.RootNode != "dataset-1" {
		t.Fatalf("unexpected metadata: %+v", md)
	}
	if md.Context != nil {
		t.Fatalf("context must not appear in metadata by default: %v", md.Context)
	}
}

func TestConvert_Idempotent(t *testing.T) {
	doc := map[string]any{
		"@context": "https://schema.org/",
		"@type":    "Dataset",
		"name":     "Unidentified Dataset",
		"distribution": []any{
			map[string]any{"@type": "FileObject", "name": "a.csv"},
			map[string]any{"@type": "FileObject", "name": "b.csv"},
		},
	}

	first, err := Convert(doc, DefaultConvertOptions())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	second, err := Convert(doc, DefaultConvertOptions())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if !reflect.DeepEqual(first, second) {
		t.Fatal("repeated conversions of the same document must be identical")
	}

	a, _ := json.Marshal(first)
	b, _ := json.Marshal(second)
	if string(a) != string(b) {
		t.Fatal("serialized envelopes differ between conversions")
	}
}

func TestConvert_UniqueIDsAndEdgeEndpoints(t *testing.T) {
	doc := map[string]any{
		"@context": "https://schema.org/",
		"@type":    "Dataset",
		"@id":      "dataset-1",
		"distribution": []any{
			map[string]any{"@type": "FileObject", "@id": "file-1"},
			map[string]any{"@type": "FileObject", "name": "generated.csv"},
		},
		"recordSet": []any{
			map[string]any{
				"@type": "RecordSet",
				"field": []any{map[string]any{"@type": "Field", "name": "col"}},
			},
		},
	}

	env, err := Convert(doc, DefaultConvertOptions())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	ids := make(map[string]bool)
	for _, n := range env.Graph.Nodes {
		if ids[n.ID] {
			t.Fatalf("duplicate node id %s", n.ID)
		}
		ids[n.ID] = true
	}
	for _, e := range env.Graph.Edges {
		if !ids[e.Source] || !ids[e.Target] {
			t.Fatalf("edge %s references a node outside the graph", e.ID)
		}
	}
}

func TestConvert_ArrayOfObjects(t *testing.T) {
	doc := map[string]any{
		"@context": "https://schema.org/",
		"@type":    "Dataset",
		"@id":      "dataset-1",
		"distribution": []any{
			map[string]any{"@type": "FileObject", "@id": "file-1", "name": "data1.csv"},
			map[string]any{"@type": "FileObject", "@id": "file-2", "name": "data2.csv"},
		},
	}
	env, err := Convert(doc, DefaultConvertOptions())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(env.Graph.Nodes) != 3 || len(env.Graph.Edges) != 2 {
		t.Fatalf("expected 3 nodes and 2 edges, got %d/%d", len(env.Graph.Nodes), len(env.Graph.Edges))
	}
}

func TestConvert_DuplicateReferences(t *testing.T) {
	file := map[string]any{"@type": "FileObject", "@id": "file-1", "name": "data.csv"}
	doc := map[string]any{
		"@context":     "https://schema.org/",
		"@type":        "Dataset",
		"@id":          "dataset-1",
		"distribution": []any{file, file},
	}
	env, err := Convert(doc, DefaultConvertOptions())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	// One node, but one edge per reference.
	if len(env.Graph.Nodes) != 2 {
		t.Fatalf("expected 2 nodes, got %d", len(env.Graph.Nodes))
	}
	if len(env.Graph.Edges) != 2 {
		t.Fatalf("expected 2 edges, got %d", len(env.Graph.Edges))
	}
}

func TestConvert_MergeByID(t *testing.T) {
	doc := map[string]any{
		"@context": "https://schema.org/",
		"@type":    "Dataset",
		"@id":      "dataset-1",
		"primary": map[string]any{
			"@id":    "shared-1",
			"@type":  "FileObject",
			"name":   "first.csv",
			"format": "text/csv",
		},
		"secondary": map[string]any{
			"@id":   "shared-1",
			"@type": "Archive",
			"name":  "second.csv",
		},
	}

	env, err := Convert(doc, DefaultConvertOptions())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if len(env.Graph.Nodes) != 2 {
		t.Fatalf("expected the shared node to merge, got %d nodes", len(env.Graph.Nodes))
	}

	shared := env.Graph.NodeByID("shared-1")
	if shared == nil {
		t.Fatal("shared node missing")
	}
	// Labels are the union in first-seen order; keys walk alphabetically so
	// "primary" is processed before "secondary".
	if !reflect.DeepEqual(shared.Labels, []string{"FileObject", "Archive"}) {
		t.Fatalf("unexpected merged labels: %v", shared.Labels)
	}
	// Later-seen values win on conflicting keys; unique keys survive.
	if shared.Properties["name"] != "second.csv" {
		t.Fatalf("expected last write to win, got %v", shared.Properties["name"])
	}
	if shared.Properties["format"] != "text/csv" {
		t.Fatalf("expected first occurrence keys to survive, got %v", shared.Properties)
	}

	if len(env.Graph.Edges) != 2 {
		t.Fatalf("expected one edge per reference, got %d", len(env.Graph.Edges))
	}
}

func TestConvert_GeneratedIDs(t *testing.T) {
	doc := map[string]any{
		"@context": "https://schema.org/",
		"@type":    "Dataset",
		"name":     "Test Dataset",
	}

	env, err := Convert(doc, DefaultConvertOptions())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	id := env.Graph.Nodes[0].ID
	if _, err := uuid.Parse(id); err != nil {
		t.Fatalf("generated id %q is not a UUID: %v", id, err)
	}

	again, err := Convert(doc, DefaultConvertOptions())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if again.Graph.Nodes[0].ID != id {
		t.Fatalf("generated ids must be stable, got %s then %s", id, again.Graph.Nodes[0].ID)
	}
}

func TestConvert_MissingIDFails(t *testing.T) {
	doc := map[string]any{
		"@context": "https://schema.org/",
		"@type":    "Dataset",
		"@id":      "dataset-1",
		"distribution": map[string]any{
			"@type": "FileObject",
			"name":  "data.csv",
		},
	}

	_, err := Convert(doc, ConvertOptions{GenerateIDs: false})
	if err == nil {
		t.Fatal("expected conversion to fail without id generation")
	}
	var merr *MissingIdentifierError
	if !errors.As(err, &merr) {
		t.Fatalf("expected MissingIdentifierError, got %T: %v", err, err)
	}
	if merr.Path != "$.distribution" {
		t.Fatalf("expected the offending path, got %q", merr.Path)
	}
	if !strings.Contains(err.Error(), "missing @id") {
		t.Fatalf("error should name the missing @id: %v", err)
	}

	// Same input succeeds when generation is enabled.
	if _, err := Convert(doc, DefaultConvertOptions()); err != nil {
		t.Fatalf("expected success with generated ids, got %v", err)
	}
}

func TestConvert_IncludeContext(t *testing.T) {
	context := map[string]any{"@vocab": "https://schema.org/"}
	doc := map[string]any{
		"@context": context,
		"@type":    "Dataset",
		"@id":      "dataset-1",
	}

	env, err := Convert(doc, ConvertOptions{IncludeContext: true, GenerateIDs: true})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !reflect.DeepEqual(env.Metadata.Context, context) {
		t.Fatalf("expected context in metadata, got %v", env.Metadata.Context)
	}
	for _, n := range env.Graph.Nodes {
		if _, ok := n.Properties["@context"]; ok {
			t.Fatal("context must never appear in node properties")
		}
	}
}

func TestConvert_ScalarArrayProperty(t *testing.T) {
	doc := map[string]any{
		"@context": "https://schema.org/",
		"@type":    "Dataset",
		"@id":      "dataset-1",
		"keywords": []any{"test", "data", "example"},
	}
	env, err := Convert(doc, DefaultConvertOptions())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	got := env.Graph.Nodes[0].Properties["keywords"]
	if !reflect.DeepEqual(got, []any{"test", "data", "example"}) {
		t.Fatalf("unexpected keywords property: %v", got)
	}
}

func TestConvert_MixedArray(t *testing.T) {
	doc := map[string]any{
		"@context": "https://schema.org/",
		"@type":    "Dataset",
		"@id":      "dataset-1",
		"items": []any{
			map[string]any{"@type": "FileObject", "@id": "file-1"},
			"loose-value",
		},
	}
	env, err := Convert(doc, DefaultConvertOptions())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(env.Graph.Edges) != 1 {
		t.Fatalf("expected one edge for the nested object, got %d", len(env.Graph.Edges))
	}
	got := env.Graph.Nodes[0].Properties["items"]
	if !reflect.DeepEqual(got, []any{"loose-value"}) {
		t.Fatalf("scalar stragglers should fold into a property list, got %v", got)
	}
}

func TestConvert_NamespaceCleaning(t *testing.T) {
	doc := map[string]any{
		"@context": "https://schema.org/",
		"@type":    "sc:Dataset",
		"@id":      "dataset-1",
		"cr:distribution": map[string]any{
			"@type": "cr:FileObject",
			"@id":   "file-1",
		},
	}
	env, err := Convert(doc, DefaultConvertOptions())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !reflect.DeepEqual(env.Graph.Nodes[0].Labels, []string{"Dataset"}) {
		t.Fatalf("unexpected labels: %v", env.Graph.Nodes[0].Labels)
	}
	if env.Graph.Edges[0].Type != "distribution" {
		t.Fatalf("edge type should be namespace-stripped, got %s", env.Graph.Edges[0].Type)
	}
}

func TestConvert_NestedEntityWithoutTypeOrID(t *testing.T) {
	doc := map[string]any{
		"@context": "https://schema.org/",
		"@type":    "Dataset",
		"@id":      "dataset-1",
		"publisher": map[string]any{
			"name": "Example Org",
		},
	}
	env, err := Convert(doc, DefaultConvertOptions())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(env.Graph.Nodes) != 2 {
		t.Fatalf("nested relationship targets become nodes, got %d nodes", len(env.Graph.Nodes))
	}
	publisher := env.Graph.Nodes[1]
	if len(publisher.Labels) != 0 {
		t.Fatalf("untyped entities carry no labels, got %v", publisher.Labels)
	}
	if publisher.Properties["name"] != "Example Org" {
		t.Fatalf("unexpected publisher properties: %v", publisher.Properties)
	}
}

func TestConvert_TooDeep(t *testing.T) {
	doc := map[string]any{"@context": "https://schema.org/", "@type": "Thing"}
	leaf := doc
	for i := 0; i < 10; i++ {
		child := map[string]any{"@type": "Thing", "n": i}
		leaf["child"] = child
		leaf = child
	}

	_, err := Convert(doc, ConvertOptions{GenerateIDs: true, MaxDepth: 3})
	var derr *TooDeepError
	if !errors.As(err, &derr) {
		t.Fatalf("expected TooDeepError, got %T: %v", err, err)
	}

	if _, err := Convert(doc, DefaultConvertOptions()); err != nil {
		t.Fatalf("default depth should accommodate the document, got %v", err)
	}
}

func TestConvert_NilDocument(t *testing.T) {
	if _, err := Convert(nil, DefaultConvertOptions()); err == nil {
		t.Fatal("expected error for nil document")
	}
}

func TestConvert_EmptyGraphShape(t *testing.T) {
	env, err := Convert(map[string]any{"@context": "https://schema.org/", "@type": "Dataset", "@id": "d1"}, DefaultConvertOptions())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	raw, err := json.Marshal(env)
	if err != nil {
		t.Fatalf("marshal failed: %v", err)
	}
	if !strings.Contains(string(raw), `"edges":[]`) {
		t.Fatalf("edges must serialize as an empty array, got %s", raw)
	}
}
