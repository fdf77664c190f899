package jsonld

import (
	"fmt"
	"strings"

	"github.com/google/uuid"
)

// Reserved JSON-LD keys.
const (
	keyContext = "@context"
	keyType    = "@type"
	keyID      = "@id"
)

// ValidateOptions controls how strictly a document is checked.
type ValidateOptions struct {
	// Strict additionally requires @type and enables the dataset profile
	// checks when the type annotation names a dataset.
	Strict bool

	// CheckTriples expands the document to RDF and fails when it yields no
	// triples. This may resolve remote contexts, so it is opt-in and never
	// part of the default gate.
	CheckTriples bool
}

// Validate checks a parsed JSON-LD document for structural conformance and
// returns the same document on success. The input is never mutated.
//
// The default gate requires @context and checks the shape of @context,
// @type and @id when present. Dataset profile fields (distribution,
// recordSet) are checked when the context mentions the Croissant
// vocabulary, or in strict mode when @type names a dataset. Nested
// entities are not validated here; the converter tolerates malformed
// nested shapes by design.
func Validate(doc map[string]any, opts ValidateOptions) (map[string]any, error) {
	if doc == nil {
		return nil, newValidationError(MissingContext, keyContext, "document must be a JSON object containing '@context'")
	}

	ctx, hasContext := doc[keyContext]
	if !hasContext {
		return nil, newValidationError(MissingContext, keyContext, "document must contain '@context'")
	}
	if err := checkContext(ctx); err != nil {
		return nil, err
	}

	typeValue, hasType := doc[keyType]
	if opts.Strict && !hasType {
		return nil, newValidationError(MissingType, keyType, "document must contain '@type' in strict mode")
	}
	if hasType {
		if err := checkType(typeValue); err != nil {
			return nil, err
		}
	}

	if raw, ok := doc[keyID]; ok {
		if err := checkDeclaredID(raw, keyID); err != nil {
			return nil, err
		}
	}

	if isCroissantContext(ctx) || (opts.Strict && typeNamesDataset(typeValue)) {
		if err := checkDatasetProfile(doc); err != nil {
			return nil, err
		}
	}

	if opts.CheckTriples {
		if err := checkTriples(doc); err != nil {
			return nil, err
		}
	}

	return doc, nil
}

func checkContext(ctx any) error {
	switch c := ctx.(type) {
	case string, map[string]any:
		return nil
	case []any:
		for i, item := range c {
			switch item.(type) {
			case string, map[string]any:
			default:
				return newValidationError(InvalidContextType, fmt.Sprintf("@context[%d]", i),
					"'@context' entries must be strings or objects, got %T", item)
			}
		}
		return nil
	default:
		return newValidationError(InvalidContextType, keyContext,
			"'@context' must be a string, object, or array, got %T", ctx)
	}
}

func checkType(typeValue any) error {
	switch t := typeValue.(type) {
	case string:
		return nil
	case []any:
		for i, item := range t {
			if _, ok := item.(string); !ok {
				return newValidationError(InvalidTypeType, fmt.Sprintf("@type[%d]", i),
					"'@type' entries must be strings, got %T", item)
			}
		}
		return nil
	default:
		return newValidationError(InvalidTypeType, keyType,
			"'@type' must be a string or array of strings, got %T", typeValue)
	}
}

func checkDeclaredID(raw any, field string) error {
	s, ok := raw.(string)
	if !ok {
		return newValidationError(InvalidID, field, "'@id' must be a string, got %T", raw)
	}
	if _, err := uuid.Parse(s); err != nil {
		return newValidationError(InvalidID, field, "'@id' must be a valid UUID, got '%s'", s)
	}
	return nil
}

// isCroissantContext reports whether a mapping @context references the
// Croissant vocabulary.
func isCroissantContext(ctx any) bool {
	m, ok := ctx.(map[string]any)
	if !ok {
		return false
	}
	for _, v := range m {
		if s, ok := v.(string); ok && strings.Contains(strings.ToLower(s), "croissant") {
			return true
		}
	}
	return false
}

func typeNamesDataset(typeValue any) bool {
	for _, label := range DeriveLabels(typeValue) {
		if strings.Contains(label, "Dataset") {
			return true
		}
	}
	return false
}

// checkDatasetProfile verifies the dataset-description fields when
// present: distribution must resolve to file-object-shaped entities and
// recordSet entries must carry field sequences.
func checkDatasetProfile(doc map[string]any) error {
	if dist, ok := doc["distribution"]; ok {
		switch d := dist.(type) {
		case map[string]any:
			if err := checkDistributionItem(d, "distribution"); err != nil {
				return err
			}
		case []any:
			for i, item := range d {
				field := fmt.Sprintf("distribution[%d]", i)
				m, ok := item.(map[string]any)
				if !ok {
					return newValidationError(InvalidDistribution, field,
						"distribution entries must be objects, got %T", item)
				}
				if err := checkDistributionItem(m, field); err != nil {
					return err
				}
			}
		default:
			return newValidationError(InvalidDistribution, "distribution",
				"'distribution' must be an object or array of objects, got %T", dist)
		}
	}

	if rs, ok := doc["recordSet"]; ok {
		items, ok := rs.([]any)
		if !ok {
			return newValidationError(InvalidRecordSet, "recordSet",
				"'recordSet' must be an array, got %T", rs)
		}
		for i, item := range items {
			field := fmt.Sprintf("recordSet[%d]", i)
			m, ok := item.(map[string]any)
			if !ok {
				return newValidationError(InvalidRecordSet, field,
					"recordSet entries must be objects, got %T", item)
			}
			if err := checkRecordSetFields(m, field); err != nil {
				return err
			}
		}
	}

	return nil
}

func checkDistributionItem(item map[string]any, field string) error {
	if raw, ok := item[keyID]; ok {
		s, ok := raw.(string)
		if !ok {
			return newValidationError(InvalidDistribution, field+".@id",
				"'@id' must be a string, got %T", raw)
		}
		if _, err := uuid.Parse(s); err != nil {
			return newValidationError(InvalidDistribution, field+".@id",
				"'@id' must be a valid UUID, got '%s'", s)
		}
	}
	return nil
}

func checkRecordSetFields(record map[string]any, field string) error {
	raw, ok := record["field"]
	if !ok {
		return newValidationError(InvalidField, field+".field",
			"recordSet entries must contain a 'field' array")
	}
	fields, ok := raw.([]any)
	if !ok {
		return newValidationError(InvalidField, field+".field",
			"'field' must be an array, got %T", raw)
	}
	for i, item := range fields {
		if _, ok := item.(map[string]any); !ok {
			return newValidationError(InvalidField, fmt.Sprintf("%s.field[%d]", field, i),
				"field entries must be objects, got %T", item)
		}
	}
	return nil
}
