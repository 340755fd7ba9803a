// Package graphview converts arbitrary graph-shaped extraction results into
// the strict structure the renderer consumes. The upstream model answer may
// use inconsistent key naming, including Korean field names, so every
// logical field resolves through an ordered list of accepted aliases.
// Normalization is best-effort display preparation, not validation: it never
// fails and never checks relation labels against the closed vocabulary.
package graphview

import (
	"encoding/json"
	"fmt"
	"strconv"
)

// Node is a display node.
type Node struct {
	ID          string `json:"id"`
	Label       string `json:"label"`
	Description string `json:"description"`
}

// Link is a display edge with resolved endpoints.
type Link struct {
	Source string `json:"source"`
	Target string `json:"target"`
	Label  string `json:"label"`
}

// Graph is the renderable structure.
type Graph struct {
	Nodes []Node `json:"nodes"`
	Links []Link `json:"links"`
}

// Accepted key aliases, tried in order.
var (
	nodeArrayKeys = []string{"nodes", "노드", "node"}
	edgeArrayKeys = []string{"edges", "간선", "edge"}

	nodeIDKeys    = []string{"id", "name", "이름"}
	nodeLabelKeys = []string{"label", "name", "이름"}
	nodeDescKeys  = []string{"description", "설명"}

	edgeSourceKeys = []string{"src", "source", "출발", "출발점", "from"}
	edgeTargetKeys = []string{"dst", "target", "도착", "도착점", "to"}
	edgeLabelKeys  = []string{"설명", "관계", "label"}
)

// Normalize turns a decoded result envelope into a renderable graph. Input
// that is nil, not an object, or lacks an ok:true flag yields an empty
// graph. Edges whose source or target cannot be resolved are dropped
// silently; endpoints are not cross-checked against the normalized node id
// set, so a link may reference an id absent from Nodes.
func Normalize(envelope any) Graph {
	out := Graph{Nodes: []Node{}, Links: []Link{}}

	env, ok := envelope.(map[string]any)
	if !ok {
		return out
	}
	if okFlag, _ := env["ok"].(bool); !okFlag {
		return out
	}

	payload := env
	if g, ok := env["graph"].(map[string]any); ok {
		payload = g
	}

	rawNodes := firstArray(payload, nodeArrayKeys)
	rawEdges := firstArray(payload, edgeArrayKeys)

	// A payload with no recognizable arrays may still carry the graph as an
	// undecoded string elsewhere in the envelope; parse it once and retry.
	if rawNodes == nil && rawEdges == nil {
		if raw, ok := env["raw"].(string); ok {
			var parsed any
			if err := json.Unmarshal([]byte(raw), &parsed); err == nil {
				if m, ok := parsed.(map[string]any); ok {
					payload = m
					if g, ok := m["graph"].(map[string]any); ok {
						payload = g
					}
					rawNodes = firstArray(payload, nodeArrayKeys)
					rawEdges = firstArray(payload, edgeArrayKeys)
				}
			}
		}
	}

	seen := make(map[string]struct{}, len(rawNodes))
	for idx, item := range rawNodes {
		n, ok := item.(map[string]any)
		if !ok {
			continue
		}
		id := firstString(n, nodeIDKeys)
		if id == "" {
			id = "n" + strconv.Itoa(idx)
		}
		if _, dup := seen[id]; dup {
			continue
		}
		seen[id] = struct{}{}

		label := firstString(n, nodeLabelKeys)
		if label == "" {
			label = id
		}
		out.Nodes = append(out.Nodes, Node{
			ID:          id,
			Label:       label,
			Description: firstString(n, nodeDescKeys),
		})
	}

	for _, item := range rawEdges {
		e, ok := item.(map[string]any)
		if !ok {
			continue
		}
		source := firstString(e, edgeSourceKeys)
		target := firstString(e, edgeTargetKeys)
		if source == "" || target == "" {
			continue
		}
		out.Links = append(out.Links, Link{
			Source: source,
			Target: target,
			Label:  edgeLabel(e),
		})
	}

	return out
}

// DecodeResult unwraps a stored job result until a non-string JSON value is
// reached. Results may be string-encoded more than once depending on which
// path wrote them.
func DecodeResult(stored string) (any, error) {
	var v any
	if err := json.Unmarshal([]byte(stored), &v); err != nil {
		return nil, fmt.Errorf("decode result: %w", err)
	}
	for {
		s, ok := v.(string)
		if !ok {
			return v, nil
		}
		var next any
		if err := json.Unmarshal([]byte(s), &next); err != nil {
			// A string payload that is not itself JSON is the final value.
			return v, nil
		}
		v = next
	}
}

func edgeLabel(e map[string]any) string {
	if attrs, ok := e["attrs"].(map[string]any); ok {
		if label := asString(attrs["relation_type"]); label != "" {
			return label
		}
	}
	return firstString(e, edgeLabelKeys)
}

func firstArray(m map[string]any, keys []string) []any {
	for _, key := range keys {
		if arr, ok := m[key].([]any); ok && len(arr) > 0 {
			return arr
		}
	}
	return nil
}

func firstString(m map[string]any, keys []string) string {
	for _, key := range keys {
		if s := asString(m[key]); s != "" {
			return s
		}
	}
	return ""
}

// asString accepts the value shapes loose JSON actually produces for
// identifier-ish fields.
func asString(v any) string {
	switch t := v.(type) {
	case string:
		return t
	case float64:
		return strconv.FormatFloat(t, 'f', -1, 64)
	default:
		return ""
	}
}
