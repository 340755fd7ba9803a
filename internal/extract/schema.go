package extract

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/santhosh-tekuri/jsonschema/v5"

	"litgraph/internal/domain"
)

// BuildGraphJSONSchema returns the extraction target schema as a JSON-Schema
// (draft 2020-12 subset) generic map. It is used locally to flag model
// output that drifts from the contract; validation is advisory, never fatal.
func BuildGraphJSONSchema(relationTypes []string) map[string]any {
	evidenceSpans := map[string]any{
		"type":     "array",
		"minItems": 1,
		"maxItems": domain.MaxEvidenceSpans,
		"items":    map[string]any{"type": "string"},
	}

	node := map[string]any{
		"type":     "object",
		"required": []string{"id", "type", "name", "evidence_spans"},
		"properties": map[string]any{
			"id":   map[string]any{"type": "string", "minLength": 1},
			"type": map[string]any{"enum": []string{"PERSON", "PLACE", "OBJECT", "EVENT"}},
			"name": map[string]any{"type": "string", "minLength": 1},
			"aliases": map[string]any{
				"type":  "array",
				"items": map[string]any{"type": "string"},
			},
			"attrs":          map[string]any{"type": "object"},
			"evidence_spans": evidenceSpans,
		},
	}

	edge := map[string]any{
		"type":     "object",
		"required": []string{"src", "dst", "attrs", "evidence_spans"},
		"properties": map[string]any{
			"src":  map[string]any{"type": "string", "minLength": 1},
			"dst":  map[string]any{"type": "string", "minLength": 1},
			"type": map[string]any{"const": domain.EdgeTypeRelation},
			"attrs": map[string]any{
				"type":     "object",
				"required": []string{"relation_type"},
				"properties": map[string]any{
					"relation_type": map[string]any{"enum": relationTypes},
					"confidence":    map[string]any{"type": "number", "minimum": 0.0, "maximum": 1.0},
				},
			},
			"evidence_spans": evidenceSpans,
		},
	}

	span := map[string]any{
		"type":     "object",
		"required": []string{"id", "text"},
		"properties": map[string]any{
			"id":        map[string]any{"type": "string", "minLength": 1},
			"text":      map[string]any{"type": "string"},
			"chapter":   map[string]any{"type": "string"},
			"paragraph": map[string]any{"type": "integer"},
			"sentence":  map[string]any{"type": "integer"},
		},
	}

	return map[string]any{
		"type":     "object",
		"required": []string{"nodes", "edges", "spans"},
		"properties": map[string]any{
			"nodes": map[string]any{"type": "array", "maxItems": domain.MaxNodes, "items": node},
			"edges": map[string]any{"type": "array", "maxItems": domain.MaxEdges, "items": edge},
			"spans": map[string]any{"type": "array", "maxItems": domain.MaxSpans, "items": span},
		},
	}
}

// SchemaValidator checks extracted graphs against the contract schema.
type SchemaValidator struct {
	schema *jsonschema.Schema
}

// NewSchemaValidator compiles the graph contract schema.
func NewSchemaValidator() (*SchemaValidator, error) {
	raw, err := json.Marshal(BuildGraphJSONSchema(domain.RelationTypes()))
	if err != nil {
		return nil, fmt.Errorf("marshal graph schema: %w", err)
	}
	compiler := jsonschema.NewCompiler()
	if err := compiler.AddResource("graph.json", bytes.NewReader(raw)); err != nil {
		return nil, fmt.Errorf("add graph schema resource: %w", err)
	}
	schema, err := compiler.Compile("graph.json")
	if err != nil {
		return nil, fmt.Errorf("compile graph schema: %w", err)
	}
	return &SchemaValidator{schema: schema}, nil
}

// Check returns human-readable violations; an empty slice means the graph
// matches the contract.
func (v *SchemaValidator) Check(raw json.RawMessage) []string {
	var doc any
	if err := json.Unmarshal(raw, &doc); err != nil {
		return []string{fmt.Sprintf("decode graph: %v", err)}
	}
	err := v.schema.Validate(doc)
	if err == nil {
		return nil
	}
	var ve *jsonschema.ValidationError
	if errors.As(err, &ve) {
		out := make([]string, 0, 8)
		for _, cause := range ve.BasicOutput().Errors {
			if cause.Error == "" {
				continue
			}
			out = append(out, cause.InstanceLocation+": "+cause.Error)
		}
		if len(out) > 0 {
			return out
		}
	}
	return []string{err.Error()}
}
