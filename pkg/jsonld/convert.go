package jsonld

import (
	"errors"
	"fmt"
	"sort"
	"strings"

	"github.com/datagems-eu/dmm/backend/pkg/common"
)

// SourceFormat is the metadata constant identifying converted documents.
const SourceFormat = "JSON-LD"

// DefaultMaxDepth bounds the depth-first walk when ConvertOptions does not
// set its own limit.
const DefaultMaxDepth = 64

// ConvertOptions controls a single JSON-LD to PG-JSON conversion.
type ConvertOptions struct {
	// IncludeContext copies the document's @context into the envelope
	// metadata. It never places the context inside node properties.
	IncludeContext bool

	// GenerateIDs derives deterministic identifiers for objects without a
	// declared @id. When disabled, such objects abort the conversion.
	GenerateIDs bool

	// MaxDepth limits nesting depth; zero means DefaultMaxDepth.
	MaxDepth int
}

// DefaultConvertOptions returns the options used by the registration flow:
// generated ids enabled, context excluded.
func DefaultConvertOptions() ConvertOptions {
	return ConvertOptions{GenerateIDs: true, MaxDepth: DefaultMaxDepth}
}

// Convert walks a parsed JSON-LD document depth-first and emits a property
// graph envelope. The same document and options always produce the same
// envelope, node and edge order included. Conversion is all-or-nothing:
// on error no partial graph is returned.
func Convert(doc map[string]any, opts ConvertOptions) (*common.Envelope, error) {
	if doc == nil {
		return nil, errors.New("input must be a JSON object")
	}
	if opts.MaxDepth <= 0 {
		opts.MaxDepth = DefaultMaxDepth
	}

	b := &builder{
		opts:  opts,
		ids:   newIDResolver(opts.GenerateIDs),
		arena: make(map[string]*common.Node),
		edges: make([]common.Edge, 0),
	}

	rootID, err := b.walk(doc, "$", 0)
	if err != nil {
		return nil, err
	}

	nodes := make([]common.Node, 0, len(b.order))
	for _, id := range b.order {
		nodes = append(nodes, *b.arena[id])
	}

	env := &common.Envelope{
		Graph: common.Graph{
			Nodes: nodes,
			Edges: b.edges,
		},
		Metadata: common.Metadata{
			SourceFormat: SourceFormat,
			NodeCount:    len(nodes),
			EdgeCount:    len(b.edges),
			RootNode:     rootID,
		},
	}
	if opts.IncludeContext {
		if ctx, ok := doc[keyContext]; ok && ctx != nil {
			env.Metadata.Context = ctx
		}
	}
	return env, nil
}

// builder accumulates the graph during one conversion. Nodes live in an
// arena keyed by id so positions sharing an @id merge into one node, while
// order preserves first-discovery order for the output.
type builder struct {
	opts  ConvertOptions
	ids   *idResolver
	arena map[string]*common.Node
	order []string
	edges []common.Edge
}

// nestedRel is a relationship-valued key: every nested mapping under it
// becomes a child node connected by one edge.
type nestedRel struct {
	key      string
	children []map[string]any
	fromList bool
}

func (b *builder) walk(obj map[string]any, path string, depth int) (string, error) {
	if depth > b.opts.MaxDepth {
		return "", &TooDeepError{Path: path, Depth: b.opts.MaxDepth}
	}

	id, err := b.ids.Resolve(obj, path)
	if err != nil {
		return "", err
	}

	node, revisit := b.arena[id]
	if !revisit {
		labels := DeriveLabels(obj[keyType])
		if labels == nil {
			labels = []string{}
		}
		node = &common.Node{
			ID:         id,
			Labels:     labels,
			Properties: make(map[string]any),
		}
		b.arena[id] = node
		b.order = append(b.order, id)
	} else {
		node.Labels = mergeLabels(node.Labels, DeriveLabels(obj[keyType]))
	}

	// Map iteration order is randomized; sort keys so property folding and
	// edge emission are deterministic across calls and restarts.
	keys := make([]string, 0, len(obj))
	for k := range obj {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	var nested []nestedRel
	for _, key := range keys {
		if strings.HasPrefix(key, "@") {
			continue
		}
		switch v := obj[key].(type) {
		case map[string]any:
			nested = append(nested, nestedRel{key: key, children: []map[string]any{v}})
		case []any:
			var children []map[string]any
			var scalars []any
			for _, item := range v {
				if m, ok := item.(map[string]any); ok {
					children = append(children, m)
				} else {
					scalars = append(scalars, item)
				}
			}
			if len(children) > 0 {
				nested = append(nested, nestedRel{key: key, children: children, fromList: true})
			}
			if len(scalars) > 0 {
				node.Properties[key] = scalars
			}
		default:
			node.Properties[key] = v
		}
	}

	for _, rel := range nested {
		for i, child := range rel.children {
			childPath := fmt.Sprintf("%s.%s", path, rel.key)
			if rel.fromList {
				childPath = fmt.Sprintf("%s[%d]", childPath, i)
			}
			childID, err := b.walk(child, childPath, depth+1)
			if err != nil {
				return "", err
			}
			b.edges = append(b.edges, common.Edge{
				ID:         fmt.Sprintf("%s_%s_%s", id, rel.key, childID),
				Type:       StripNamespace(rel.key),
				Source:     id,
				Target:     childID,
				Properties: make(map[string]any),
			})
		}
	}

	return id, nil
}

// mergeLabels unions two label sets, preserving the order of first
// occurrence.
func mergeLabels(existing, incoming []string) []string {
	seen := make(map[string]struct{}, len(existing))
	for _, l := range existing {
		seen[l] = struct{}{}
	}
	for _, l := range incoming {
		if _, dup := seen[l]; dup {
			continue
		}
		seen[l] = struct{}{}
		existing = append(existing, l)
	}
	return existing
}
