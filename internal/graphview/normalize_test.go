package graphview

import (
	"encoding/json"
	"reflect"
	"testing"
)

func decode(t *testing.T, raw string) any {
	t.Helper()
	var v any
	if err := json.Unmarshal([]byte(raw), &v); err != nil {
		t.Fatalf("decode fixture: %v", err)
	}
	return v
}

func TestNormalizeDropsEdgeWithMissingEndpointOnly(t *testing.T) {
	envelope := decode(t, `{
		"ok": true,
		"graph": {
			"nodes": [{"id":"a","name":"A"}],
			"edges": [
				{"src":"a","dst":"missing"},
				{"src":"a"}
			]
		}
	}`)

	got := Normalize(envelope)

	wantNodes := []Node{{ID: "a", Label: "A", Description: ""}}
	if !reflect.DeepEqual(got.Nodes, wantNodes) {
		t.Fatalf("nodes = %+v, want %+v", got.Nodes, wantNodes)
	}
	// Endpoints are checked for presence, not for existence among the
	// normalized nodes: the dangling edge to "missing" survives, the edge
	// with no target does not.
	wantLinks := []Link{{Source: "a", Target: "missing", Label: ""}}
	if !reflect.DeepEqual(got.Links, wantLinks) {
		t.Fatalf("links = %+v, want %+v", got.Links, wantLinks)
	}
}

func TestNormalizeNotOKOrNilReturnsEmpty(t *testing.T) {
	for _, input := range []any{
		nil,
		decode(t, `{"ok": false, "graph": {"nodes":[{"id":"a"}]}}`),
		decode(t, `{"graph": {"nodes":[{"id":"a"}]}}`),
		"not an object",
		decode(t, `[1,2,3]`),
	} {
		got := Normalize(input)
		if len(got.Nodes) != 0 || len(got.Links) != 0 {
			t.Fatalf("Normalize(%v) = %+v, want empty", input, got)
		}
		if got.Nodes == nil || got.Links == nil {
			t.Fatal("empty graph must carry non-nil slices for rendering")
		}
	}
}

func TestNormalizeKoreanAliases(t *testing.T) {
	envelope := decode(t, `{
		"ok": true,
		"graph": {
			"노드": [
				{"이름":"숙희","설명":"주인공"},
				{"이름":"오빠"}
			],
			"간선": [
				{"출발":"숙희","도착":"오빠","관계":"형제자매"}
			]
		}
	}`)

	got := Normalize(envelope)

	wantNodes := []Node{
		{ID: "숙희", Label: "숙희", Description: "주인공"},
		{ID: "오빠", Label: "오빠", Description: ""},
	}
	if !reflect.DeepEqual(got.Nodes, wantNodes) {
		t.Fatalf("nodes = %+v, want %+v", got.Nodes, wantNodes)
	}
	wantLinks := []Link{{Source: "숙희", Target: "오빠", Label: "형제자매"}}
	if !reflect.DeepEqual(got.Links, wantLinks) {
		t.Fatalf("links = %+v, want %+v", got.Links, wantLinks)
	}
}

func TestNormalizeEdgeLabelPrefersRelationType(t *testing.T) {
	envelope := decode(t, `{
		"ok": true,
		"graph": {
			"nodes": [{"id":"a"},{"id":"b"}],
			"edges": [
				{"src":"a","dst":"b","attrs":{"relation_type":"친구"},"label":"ignored"},
				{"source":"b","target":"a","label":"fallback"}
			]
		}
	}`)

	got := Normalize(envelope)
	if got.Links[0].Label != "친구" {
		t.Fatalf("label = %q, want attrs.relation_type preferred", got.Links[0].Label)
	}
	if got.Links[1].Label != "fallback" {
		t.Fatalf("label = %q, want label fallback", got.Links[1].Label)
	}
}

func TestNormalizeEnvelopeWithoutGraphKey(t *testing.T) {
	envelope := decode(t, `{
		"ok": true,
		"nodes": [{"id":"a"}],
		"edges": [{"from":"a","to":"a"}]
	}`)

	got := Normalize(envelope)
	if len(got.Nodes) != 1 || len(got.Links) != 1 {
		t.Fatalf("graph = %+v, want envelope treated as payload", got)
	}
}

func TestNormalizeRawStringFallback(t *testing.T) {
	envelope := decode(t, `{
		"ok": true,
		"graph": {},
		"raw": "{\"graph\":{\"nodes\":[{\"id\":\"a\"}],\"edges\":[]}}"
	}`)

	got := Normalize(envelope)
	if len(got.Nodes) != 1 || got.Nodes[0].ID != "a" {
		t.Fatalf("nodes = %+v, want raw payload parsed", got.Nodes)
	}
}

func TestNormalizeSyntheticIDsAndDedup(t *testing.T) {
	envelope := decode(t, `{
		"ok": true,
		"graph": {
			"nodes": [
				{"description":"anonymous"},
				{"id":"a","name":"first"},
				{"id":"a","name":"second"},
				42
			]
		}
	}`)

	got := Normalize(envelope)
	wantNodes := []Node{
		{ID: "n0", Label: "n0", Description: "anonymous"},
		{ID: "a", Label: "first", Description: ""},
	}
	if !reflect.DeepEqual(got.Nodes, wantNodes) {
		t.Fatalf("nodes = %+v, want %+v", got.Nodes, wantNodes)
	}
}

func TestNormalizeNumericIdentifiers(t *testing.T) {
	envelope := decode(t, `{
		"ok": true,
		"graph": {
			"nodes": [{"id": 1, "name": "one"}],
			"edges": [{"src": 1, "dst": 1}]
		}
	}`)

	got := Normalize(envelope)
	if got.Nodes[0].ID != "1" {
		t.Fatalf("id = %q, want numeric id coerced", got.Nodes[0].ID)
	}
	if got.Links[0].Source != "1" || got.Links[0].Target != "1" {
		t.Fatalf("links = %+v, want numeric endpoints coerced", got.Links)
	}
}

func TestDecodeResultUnwrapsRepeatedEncoding(t *testing.T) {
	inner := map[string]any{"ok": true, "graph": map[string]any{"nodes": []any{}}}
	once, err := json.Marshal(inner)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	twice, err := json.Marshal(string(once))
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}

	for _, stored := range []string{string(once), string(twice)} {
		got, err := DecodeResult(stored)
		if err != nil {
			t.Fatalf("DecodeResult(%q) error: %v", stored, err)
		}
		m, ok := got.(map[string]any)
		if !ok {
			t.Fatalf("DecodeResult(%q) = %T, want object", stored, got)
		}
		if okFlag, _ := m["ok"].(bool); !okFlag {
			t.Fatalf("decoded envelope lost ok flag: %v", m)
		}
	}
}

func TestDecodeResultPlainStringStops(t *testing.T) {
	got, err := DecodeResult(`"just a note"`)
	if err != nil {
		t.Fatalf("DecodeResult error: %v", err)
	}
	if got != "just a note" {
		t.Fatalf("got %v, want the terminal string", got)
	}
}

func TestDecodeResultInvalidJSON(t *testing.T) {
	if _, err := DecodeResult("{broken"); err == nil {
		t.Fatal("expected error for invalid stored result")
	}
}

func TestNormalizeThenDecodeRoundTrip(t *testing.T) {
	stored := `{"ok":true,"graph":{"nodes":[{"id":"person:a","type":"PERSON","name":"A"}],"edges":[{"src":"person:a","dst":"person:b","attrs":{"relation_type":"연인","confidence":0.7}}],"spans":[]}}`
	decoded, err := DecodeResult(stored)
	if err != nil {
		t.Fatalf("DecodeResult error: %v", err)
	}

	got := Normalize(decoded)
	if len(got.Nodes) != 1 || got.Nodes[0].Label != "A" {
		t.Fatalf("nodes = %+v", got.Nodes)
	}
	if len(got.Links) != 1 || got.Links[0].Label != "연인" {
		t.Fatalf("links = %+v", got.Links)
	}
}
