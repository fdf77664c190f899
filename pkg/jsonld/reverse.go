package jsonld

import (
	"errors"
	"fmt"

	"github.com/datagems-eu/dmm/backend/pkg/common"
)

// ConvertToJSONLD rebuilds a JSON-LD document from a PG-JSON envelope.
// A non-nil context argument overrides the context recorded in the
// envelope metadata; when neither is available the conversion fails.
//
// The root node comes from metadata; when absent it is inferred as the
// single node without incoming edges. Outgoing edges are grouped by type:
// one target nests as an object, several as an array. A node reached a
// second time collapses to an {"@id": ...} reference so shared targets do
// not recurse forever.
func ConvertToJSONLD(env *common.Envelope, context any) (map[string]any, error) {
	if env == nil {
		return nil, errors.New("input must be a PG-JSON envelope")
	}

	if context == nil {
		context = env.Metadata.Context
	}
	if context == nil {
		return nil, errors.New("no context provided in argument or metadata")
	}

	rootID := env.Metadata.RootNode
	if rootID == "" {
		inferred, err := inferRootNode(&env.Graph)
		if err != nil {
			return nil, err
		}
		rootID = inferred
	}
	if env.Graph.NodeByID(rootID) == nil {
		return nil, fmt.Errorf("root node '%s' not present in graph", rootID)
	}

	visited := make(map[string]bool)
	doc := assembleNode(&env.Graph, rootID, visited)
	doc[keyContext] = context
	return doc, nil
}

// inferRootNode finds the unique node with no incoming edges.
func inferRootNode(g *common.Graph) (string, error) {
	incoming := make(map[string]int, len(g.Nodes))
	for _, n := range g.Nodes {
		incoming[n.ID] = 0
	}
	for _, e := range g.Edges {
		incoming[e.Target]++
	}

	var roots []string
	for _, n := range g.Nodes {
		if incoming[n.ID] == 0 {
			roots = append(roots, n.ID)
		}
	}
	if len(roots) != 1 {
		return "", fmt.Errorf("ambiguous root node: %d candidate(s) without incoming edges", len(roots))
	}
	return roots[0], nil
}

func assembleNode(g *common.Graph, id string, visited map[string]bool) map[string]any {
	node := g.NodeByID(id)
	if node == nil || visited[id] {
		return map[string]any{keyID: id}
	}
	visited[id] = true

	doc := map[string]any{keyID: id}
	switch len(node.Labels) {
	case 0:
	case 1:
		doc[keyType] = node.Labels[0]
	default:
		types := make([]any, 0, len(node.Labels))
		for _, l := range node.Labels {
			types = append(types, l)
		}
		doc[keyType] = types
	}
	for k, v := range node.Properties {
		doc[k] = v
	}

	// Group outgoing edges by type, keeping first-appearance order.
	var relOrder []string
	targets := make(map[string][]string)
	for _, e := range g.OutgoingEdges(id) {
		if _, ok := targets[e.Type]; !ok {
			relOrder = append(relOrder, e.Type)
		}
		targets[e.Type] = append(targets[e.Type], e.Target)
	}

	for _, rel := range relOrder {
		ids := targets[rel]
		if len(ids) == 1 {
			doc[rel] = assembleNode(g, ids[0], visited)
			continue
		}
		children := make([]any, 0, len(ids))
		for _, target := range ids {
			children = append(children, assembleNode(g, target, visited))
		}
		doc[rel] = children
	}

	return doc
}
