package jsonld

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/google/uuid"
)

// idResolver produces stable node identifiers for one conversion. All of
// its state is local to a single Convert call, so concurrent conversions
// never share counters or maps.
type idResolver struct {
	generate bool

	// owner maps an assigned id to the canonical content that claimed it,
	// so identical objects collapse to one id while genuinely different
	// objects that hash alike get a numeric suffix.
	owner map[string]string
}

func newIDResolver(generate bool) *idResolver {
	return &idResolver{
		generate: generate,
		owner:    make(map[string]string),
	}
}

// Resolve returns the identifier for a node-like object: the declared @id
// verbatim (trimmed) when present, otherwise a deterministic UUIDv5 of the
// object's canonical JSON. Re-converting an unchanged document therefore
// yields the same generated ids.
func (r *idResolver) Resolve(obj map[string]any, path string) (string, error) {
	if raw, ok := obj["@id"]; ok {
		if s, ok := raw.(string); ok {
			if id := strings.TrimSpace(s); id != "" {
				return id, nil
			}
		}
	}

	if !r.generate {
		return "", &MissingIdentifierError{Path: path}
	}

	content, err := json.Marshal(obj)
	if err != nil {
		// Unmarshalable trees only occur with hand-built input; fall back
		// to the path so the id is still deterministic.
		content = []byte(path)
	}

	id := uuid.NewSHA1(uuid.NameSpaceDNS, content).String()
	base := id
	for n := 2; ; n++ {
		prev, taken := r.owner[id]
		if !taken {
			r.owner[id] = string(content)
			return id, nil
		}
		if prev == string(content) {
			return id, nil
		}
		id = fmt.Sprintf("%s-%d", base, n)
	}
}
