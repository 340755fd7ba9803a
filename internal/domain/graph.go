package domain

import "encoding/json"

// NodeType enumerates the entity categories the extractor may emit.
type NodeType string

const (
	NodePerson NodeType = "PERSON"
	NodePlace  NodeType = "PLACE"
	NodeObject NodeType = "OBJECT"
	NodeEvent  NodeType = "EVENT"
)

// EdgeTypeRelation is the only edge type; the semantic classification lives
// in the edge attrs.
const EdgeTypeRelation = "RELATION"

// Hard upper bounds for one extraction, enforced by the model prompt and
// checked (softly) against its output.
const (
	MaxNodes         = 8
	MaxEdges         = 16
	MaxSpans         = 40
	MaxEvidenceSpans = 3
)

// Node is one extracted entity.
type Node struct {
	ID            string         `json:"id"`
	Type          NodeType       `json:"type"`
	Name          string         `json:"name"`
	Aliases       []string       `json:"aliases"`
	Attrs         map[string]any `json:"attrs"`
	EvidenceSpans []string       `json:"evidence_spans"`
}

// EdgeAttrs classifies an edge. RelationType must be one of the closed
// vocabulary labels; Confidence ranges over [0.0, 1.0].
type EdgeAttrs struct {
	RelationType string  `json:"relation_type"`
	Confidence   float64 `json:"confidence"`
}

// Edge is a typed relation between two declared node ids.
type Edge struct {
	Src           string    `json:"src"`
	Dst           string    `json:"dst"`
	Type          string    `json:"type"`
	Attrs         EdgeAttrs `json:"attrs"`
	EvidenceSpans []string  `json:"evidence_spans"`
}

// Span is a representative source sentence cited as evidence.
type Span struct {
	ID        string `json:"id"`
	Text      string `json:"text"`
	Chapter   string `json:"chapter"`
	Paragraph int    `json:"paragraph"`
	Sentence  int    `json:"sentence"`
}

// Graph is the extraction target schema.
type Graph struct {
	Nodes []Node `json:"nodes"`
	Edges []Edge `json:"edges"`
	Spans []Span `json:"spans"`
}

// ResultEnvelope is the value JSON-encoded into ExtractionJob.Result on
// success. Graph stays raw so the object extracted from the model answer is
// stored verbatim.
type ResultEnvelope struct {
	OK    bool            `json:"ok"`
	Graph json.RawMessage `json:"graph"`
}

// EmptyGraphJSON is the fallback payload when the model answer yields no
// parsable JSON object.
func EmptyGraphJSON() json.RawMessage {
	return json.RawMessage(`{"nodes":[],"edges":[],"spans":[]}`)
}
