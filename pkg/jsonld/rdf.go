package jsonld

import (
	"strings"

	"github.com/piprate/json-gold/ld"
)

// checkTriples expands the document to N-Quads with json-gold and fails
// when expansion errors or yields no triples. Expansion may fetch remote
// contexts, which is why this check is opt-in (ValidateOptions.CheckTriples).
func checkTriples(doc map[string]any) error {
	proc := ld.NewJsonLdProcessor()
	options := ld.NewJsonLdOptions("")
	options.Format = "application/n-quads"

	serialized, err := proc.ToRDF(doc, options)
	if err != nil {
		return newValidationError(InvalidRDF, "", "JSON-LD to RDF conversion error: %v", err)
	}

	nquads, _ := serialized.(string)
	if strings.TrimSpace(nquads) == "" {
		return newValidationError(InvalidRDF, "", "JSON-LD document produced no RDF triples")
	}
	return nil
}
