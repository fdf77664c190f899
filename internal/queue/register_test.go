package queue

import (
	"reflect"
	"testing"

	"github.com/datagems-eu/dmm/backend/pkg/jsonld"
)

func registeredDoc() map[string]any {
	return map[string]any{
		"@context": map[string]any{
			"@vocab": "https://schema.org/",
			"cr":     "http://mlcommons.org/croissant/",
		},
		"@type": "sc:Dataset",
		"name":  "Weather observations",
		"distribution": []any{
			map[string]any{"@type": "cr:FileObject", "name": "data.csv"},
		},
	}
}

func TestConvertRegistered_KeepsContext(t *testing.T) {
	doc := registeredDoc()

	env, err := convertRegistered(doc)
	if err != nil {
		t.Fatalf("conversion failed: %v", err)
	}

	if env.Metadata.Context == nil {
		t.Fatalf("envelope metadata carries no context")
	}
	if !reflect.DeepEqual(env.Metadata.Context, doc["@context"]) {
		t.Errorf("metadata context = %v, want %v", env.Metadata.Context, doc["@context"])
	}
}

func TestConvertRegistered_EnvelopeReverseConverts(t *testing.T) {
	doc := registeredDoc()

	// A dataset fetched after the worker re-saved its graph must still
	// reconstruct without a caller-supplied context.
	env, err := convertRegistered(doc)
	if err != nil {
		t.Fatalf("conversion failed: %v", err)
	}

	rebuilt, err := jsonld.ConvertToJSONLD(env, nil)
	if err != nil {
		t.Fatalf("reverse conversion failed: %v", err)
	}

	if !reflect.DeepEqual(rebuilt["@context"], doc["@context"]) {
		t.Errorf("rebuilt context = %v, want %v", rebuilt["@context"], doc["@context"])
	}
	if rebuilt["name"] != "Weather observations" {
		t.Errorf("rebuilt name = %v, want Weather observations", rebuilt["name"])
	}
}

func TestConvertRegistered_RejectsInvalidDocument(t *testing.T) {
	doc := map[string]any{"name": "no context"}

	if _, err := convertRegistered(doc); err == nil {
		t.Fatal("expected validation error for document without @context")
	}
}
