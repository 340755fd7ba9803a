package extract

import (
	"encoding/json"
	"strings"
	"testing"
)

func mustValidator(t *testing.T) *SchemaValidator {
	t.Helper()
	v, err := NewSchemaValidator()
	if err != nil {
		t.Fatalf("NewSchemaValidator returned error: %v", err)
	}
	return v
}

func TestSchemaValidatorAcceptsContractGraph(t *testing.T) {
	v := mustValidator(t)
	graph := `{
		"nodes": [
			{"id":"person:suk-hee","type":"PERSON","name":"숙희","aliases":["숙"],"attrs":{},"evidence_spans":["s1"]},
			{"id":"place:seoul","type":"PLACE","name":"서울","aliases":[],"attrs":{},"evidence_spans":["s2"]}
		],
		"edges": [
			{"src":"person:suk-hee","dst":"place:seoul","type":"RELATION","attrs":{"relation_type":"거주지","confidence":0.8},"evidence_spans":["s1","s2"]}
		],
		"spans": [
			{"id":"s1","text":"숙희는 서울에 산다.","chapter":"1","paragraph":1,"sentence":1},
			{"id":"s2","text":"서울의 밤.","chapter":"1","paragraph":2,"sentence":1}
		]
	}`
	if issues := v.Check(json.RawMessage(graph)); len(issues) != 0 {
		t.Fatalf("violations = %v, want none", issues)
	}
}

func TestSchemaValidatorFlagsForeignRelationType(t *testing.T) {
	v := mustValidator(t)
	graph := `{
		"nodes": [{"id":"a","type":"PERSON","name":"A","evidence_spans":["s1"]}],
		"edges": [{"src":"a","dst":"a","attrs":{"relation_type":"friendship","confidence":0.5},"evidence_spans":["s1"]}],
		"spans": [{"id":"s1","text":"x"}]
	}`
	issues := v.Check(json.RawMessage(graph))
	if len(issues) == 0 {
		t.Fatal("expected violation for relation_type outside the vocabulary")
	}
}

func TestSchemaValidatorFlagsTooManyEvidenceSpans(t *testing.T) {
	v := mustValidator(t)
	graph := `{
		"nodes": [{"id":"a","type":"PERSON","name":"A","evidence_spans":["s1","s2","s3","s4"]}],
		"edges": [],
		"spans": [{"id":"s1","text":"x"}]
	}`
	if issues := v.Check(json.RawMessage(graph)); len(issues) == 0 {
		t.Fatal("expected violation for more than 3 evidence spans")
	}
}

func TestSchemaValidatorFlagsNodeOverflow(t *testing.T) {
	v := mustValidator(t)
	var nodes []string
	for i := 0; i < 9; i++ {
		nodes = append(nodes, `{"id":"n`+string(rune('a'+i))+`","type":"PERSON","name":"x","evidence_spans":["s1"]}`)
	}
	graph := `{"nodes":[` + strings.Join(nodes, ",") + `],"edges":[],"spans":[{"id":"s1","text":"x"}]}`
	if issues := v.Check(json.RawMessage(graph)); len(issues) == 0 {
		t.Fatal("expected violation for more than 8 nodes")
	}
}

func TestSchemaValidatorReportsDecodeFailure(t *testing.T) {
	v := mustValidator(t)
	if issues := v.Check(json.RawMessage(`{broken`)); len(issues) == 0 {
		t.Fatal("expected decode issue")
	}
}
