package jsonld

import (
	"reflect"
	"testing"
)

func TestDeriveLabels(t *testing.T) {
	cases := []struct {
		name string
		in   any
		want []string
	}{
		{"nil", nil, nil},
		{"plain string", "Dataset", []string{"Dataset"}},
		{"prefixed string", "sc:Dataset", []string{"Dataset"}},
		{"iri", "https://schema.org/Dataset", []string{"Dataset"}},
		{"array", []any{"sc:Dataset", "cr:FileObject"}, []string{"Dataset", "FileObject"}},
		{"array with duplicates", []any{"sc:Dataset", "Dataset"}, []string{"Dataset"}},
		{"array with non-strings", []any{"sc:Dataset", 42}, []string{"Dataset"}},
		{"wrong type", 42, nil},
		{"empty string", "", nil},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got := DeriveLabels(tc.in)
			if !reflect.DeepEqual(got, tc.want) {
				t.Fatalf("DeriveLabels(%v) = %v, want %v", tc.in, got, tc.want)
			}
		})
	}
}

func TestStripNamespace(t *testing.T) {
	cases := map[string]string{
		"sc:Dataset":                  "Dataset",
		"Dataset":                     "Dataset",
		"https://schema.org/Dataset":  "Dataset",
		"cr:recordSet":                "recordSet",
		"  sc:FileObject ":            "FileObject",
	}
	for in, want := range cases {
		if got := StripNamespace(in); got != want {
			t.Fatalf("StripNamespace(%q) = %q, want %q", in, got, want)
		}
	}
}
