package extract

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/rs/zerolog"

	"litgraph/internal/domain"
	"litgraph/internal/providers/genai"
)

// TextGenerator is the surface the extractor needs from a model client.
type TextGenerator interface {
	GenerateText(ctx context.Context, req genai.GenerateRequest) (string, error)
}

// ExtractorOptions tune how the model is called.
type ExtractorOptions struct {
	Temperature     float64
	MaxOutputTokens int
	Validator       *SchemaValidator
	Logger          zerolog.Logger
}

// Extractor turns source text into a graph result envelope through one
// model call. An unparsable answer degrades to an empty graph; only a
// failed model call is an error.
type Extractor struct {
	model           TextGenerator
	temperature     float64
	maxOutputTokens int
	validator       *SchemaValidator
	logger          zerolog.Logger
}

// NewExtractor constructs an extractor with defaults favoring deterministic,
// schema-adherent output.
func NewExtractor(model TextGenerator, opts ExtractorOptions) *Extractor {
	if opts.Temperature <= 0 {
		opts.Temperature = 0.2
	}
	if opts.MaxOutputTokens <= 0 {
		opts.MaxOutputTokens = 8192
	}
	return &Extractor{
		model:           model,
		temperature:     opts.Temperature,
		maxOutputTokens: opts.MaxOutputTokens,
		validator:       opts.Validator,
		logger:          opts.Logger,
	}
}

// ExtractGraph calls the model and packages its answer into a result
// envelope. The returned error wraps domain.ErrModelInvocation only when the
// call itself failed; a malformed answer still yields an ok envelope with an
// empty graph.
func (e *Extractor) ExtractGraph(ctx context.Context, text string) (*domain.ResultEnvelope, error) {
	answer, err := e.model.GenerateText(ctx, genai.GenerateRequest{
		Prompt:          BuildPrompt(text),
		Temperature:     e.temperature,
		MaxOutputTokens: e.maxOutputTokens,
	})
	if err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrModelInvocation, err)
	}

	graph, err := ExtractJSONObject(answer)
	if err != nil {
		e.logger.Warn().Err(err).Int("answer_chars", len(answer)).
			Msg("extract: model answer not parsable, falling back to empty graph")
		graph = domain.EmptyGraphJSON()
	} else if e.validator != nil {
		if issues := e.validator.Check(graph); len(issues) > 0 {
			e.logger.Warn().Strs("violations", issues).
				Msg("extract: graph deviates from contract, storing as-is")
		}
	}

	return &domain.ResultEnvelope{OK: true, Graph: graph}, nil
}

// ExtractJSONObject pulls the first top-level JSON object out of a raw model
// answer by taking the substring between the first '{' and the last '}'.
// Models sometimes wrap the object in explanatory text despite instructions
// not to.
func ExtractJSONObject(answer string) (json.RawMessage, error) {
	start := strings.Index(answer, "{")
	end := strings.LastIndex(answer, "}")
	if start < 0 || end < start {
		return nil, domain.ErrModelOutputParse
	}
	candidate := answer[start : end+1]
	if !json.Valid([]byte(candidate)) {
		return nil, domain.ErrModelOutputParse
	}
	return json.RawMessage(candidate), nil
}
