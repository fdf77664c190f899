package common

// Node represents a single entity in a property graph. Each node carries
// a unique identifier, one or more labels derived from the entity's type
// annotation, and a flat map of scalar properties.
//
// Nested values that describe relationships to other entities are never
// stored in Properties; they are expressed as Edges instead.
type Node struct {
	ID         string         `json:"id"`
	Labels     []string       `json:"labels"`
	Properties map[string]any `json:"properties"`
}

// Edge represents a directed relationship between two nodes. The edge ID
// is derived from the source ID, the relation name, and the target ID, so
// repeated conversions of the same document produce identical edge IDs.
//
// Structural edges carry no data of their own; Properties is normally empty.
type Edge struct {
	ID         string         `json:"id"`
	Type       string         `json:"type"`
	Source     string         `json:"source"`
	Target     string         `json:"target"`
	Properties map[string]any `json:"properties"`
}

// Graph is an ordered collection of nodes and edges. Node order follows
// first discovery during conversion, edge order follows emission order.
type Graph struct {
	Nodes []Node `json:"nodes"`
	Edges []Edge `json:"edges"`
}

// Metadata describes the provenance and shape of a converted graph.
// Context is only populated when the conversion was asked to carry the
// original @context along; it never appears inside node properties.
type Metadata struct {
	SourceFormat string `json:"source_format"`
	NodeCount    int    `json:"node_count"`
	EdgeCount    int    `json:"edge_count"`
	RootNode     string `json:"root_node"`
	Context      any    `json:"@context,omitempty"`
}

// Envelope is the PG-JSON document handed to downstream consumers:
// the graph itself plus its metadata. The JSON shape is a stable contract
// for the persistence layer and the HTTP API.
type Envelope struct {
	Graph    Graph    `json:"graph"`
	Metadata Metadata `json:"metadata"`
}

// NodeByID returns the node with the given ID, or nil when absent.
func (g *Graph) NodeByID(id string) *Node {
	for i := range g.Nodes {
		if g.Nodes[i].ID == id {
			return &g.Nodes[i]
		}
	}
	return nil
}

// OutgoingEdges returns the edges whose source is the given node ID,
// preserving emission order.
func (g *Graph) OutgoingEdges(id string) []Edge {
	var out []Edge
	for _, e := range g.Edges {
		if e.Source == id {
			out = append(out, e)
		}
	}
	return out
}
