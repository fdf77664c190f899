package jsonld

import "strings"

// DeriveLabels maps a JSON-LD @type annotation to namespace-stripped node
// labels. It accepts a single string or an array of strings, preserves
// input order, and drops empty or duplicate results. Absent or wrong-typed
// annotations degrade to no labels instead of erroring, so the graph
// builder stays tolerant of malformed nested entities.
func DeriveLabels(typeValue any) []string {
	var raw []string
	switch t := typeValue.(type) {
	case nil:
		return nil
	case string:
		raw = []string{t}
	case []string:
		raw = t
	case []any:
		for _, item := range t {
			if s, ok := item.(string); ok {
				raw = append(raw, s)
			}
		}
	default:
		return nil
	}

	var labels []string
	seen := make(map[string]struct{}, len(raw))
	for _, term := range raw {
		label := StripNamespace(term)
		if label == "" {
			continue
		}
		if _, dup := seen[label]; dup {
			continue
		}
		seen[label] = struct{}{}
		labels = append(labels, label)
	}
	return labels
}

// StripNamespace removes the vocabulary portion of a term: the path of a
// full IRI ("https://schema.org/Dataset" -> "Dataset") or a prefix
// ("sc:Dataset" -> "Dataset"). Terms without either separator pass through
// unchanged.
func StripNamespace(term string) string {
	term = strings.TrimSpace(term)
	if idx := strings.LastIndex(term, "/"); idx != -1 {
		return term[idx+1:]
	}
	if idx := strings.LastIndex(term, ":"); idx != -1 {
		return term[idx+1:]
	}
	return term
}
