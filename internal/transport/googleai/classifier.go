// Package googleai implements the category classifier contract over a
// Gemini model. The provider is untrusted: every response shape it may
// produce is collapsed here into the typed classify.Outcome variant, so the
// rest of the system never sees raw LLM output.
package googleai

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/tmc/langchaingo/llms"
	"github.com/tmc/langchaingo/llms/googleai"
	"go.uber.org/zap"

	"github.com/kailas-cloud/prodfind/internal/domain/catalog"
	"github.com/kailas-cloud/prodfind/internal/domain/classify"
	"github.com/kailas-cloud/prodfind/internal/metrics"
)

// Classifier picks the single best category candidate via a Gemini model.
type Classifier struct {
	llm     llms.Model
	model   string
	timeout time.Duration
	logger  *zap.Logger
}

// Config holds the classifier settings.
type Config struct {
	APIKey  string
	Model   string
	Timeout time.Duration
	Logger  *zap.Logger
}

// New creates a Gemini-backed classifier.
func New(ctx context.Context, cfg *Config) (*Classifier, error) {
	llm, err := googleai.New(ctx,
		googleai.WithAPIKey(cfg.APIKey),
		googleai.WithDefaultModel(cfg.Model),
	)
	if err != nil {
		return nil, fmt.Errorf("create gemini client: %w", err)
	}

	return &Classifier{
		llm:     llm,
		model:   cfg.Model,
		timeout: cfg.Timeout,
		logger:  cfg.Logger,
	}, nil
}

// NewWithModel creates a classifier over an existing model (tests).
func NewWithModel(llm llms.Model, model string, timeout time.Duration, logger *zap.Logger) *Classifier {
	return &Classifier{llm: llm, model: model, timeout: timeout, logger: logger}
}

// Classify asks the model to pick one candidate. The returned outcome names
// one of the offered candidates or carries a no-match reason; transport and
// model failures are returned as errors for the caller to degrade on.
func (c *Classifier) Classify(ctx context.Context, query string, candidates []catalog.Candidate) (classify.Outcome, error) {
	if len(candidates) == 0 {
		return classify.NoMatch("no candidates offered"), nil
	}

	prompt, err := buildPrompt(query, candidates)
	if err != nil {
		return classify.Outcome{}, fmt.Errorf("build prompt: %w", err)
	}

	if c.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, c.timeout)
		defer cancel()
	}

	start := time.Now()

	response, err := llms.GenerateFromSinglePrompt(ctx, c.llm, prompt,
		llms.WithTemperature(0.0),
		llms.WithJSONMode(),
	)

	metrics.ClassifierRequestDuration.WithLabelValues(c.model).Observe(time.Since(start).Seconds())

	if err != nil {
		metrics.ClassifierRequestsTotal.WithLabelValues(c.model, "error").Inc()
		return classify.Outcome{}, fmt.Errorf("classifier call: %w", err)
	}

	outcome := parseOutcome(response, candidates)
	if _, ok := outcome.Matched(); ok {
		metrics.ClassifierRequestsTotal.WithLabelValues(c.model, "matched").Inc()
	} else {
		metrics.ClassifierRequestsTotal.WithLabelValues(c.model, "no_match").Inc()
		c.logger.Debug("classifier declined candidates",
			zap.String("query", query),
			zap.String("reason", outcome.Reason()),
		)
	}
	return outcome, nil
}

// buildPrompt renders the candidate list and instructions for the model.
func buildPrompt(query string, candidates []catalog.Candidate) (string, error) {
	contextJSON, err := json.MarshalIndent(candidates, "", "  ")
	if err != nil {
		return "", fmt.Errorf("marshal candidates: %w", err)
	}

	return fmt.Sprintf(`You are an expert classification system. Your task is to analyze a user's request and select the single most appropriate subcategory from a pre-filtered list of relevant options.

Here is the pre-filtered list of the MOST RELEVANT subcategories based on a hybrid (semantic + keyword) search. You MUST choose from this list only.
%s

User's request: %q

Instructions:
1. From the JSON list above, identify the SINGLE BEST matching subcategory for the user's request.
2. Respond ONLY with a JSON object copied directly from the list.
3. If even among these options none are a good fit, respond with: {"error": "No suitable category found."}`,
		string(contextJSON), query), nil
}

// choice is the shape a well-behaved response carries.
type choice struct {
	CategoryName    string `json:"category_name"`
	SubcategoryName string `json:"subcategory_name"`
	SubcategoryURL  string `json:"subcategory_url"`
	Error           string `json:"error"`
}

// parseOutcome collapses whatever the model answered with into an Outcome.
// Accepted shapes: a single object, a one-or-more element array (first
// element wins), either optionally wrapped in a markdown code fence, and an
// explicit {"error": ...} object. Anything else is a no-match.
func parseOutcome(response string, candidates []catalog.Candidate) classify.Outcome {
	text := stripCodeFence(response)

	var picked choice
	if err := json.Unmarshal([]byte(text), &picked); err != nil {
		var list []choice
		if err := json.Unmarshal([]byte(text), &list); err != nil || len(list) == 0 {
			return classify.NoMatch("unparseable response")
		}
		picked = list[0]
	}

	if picked.Error != "" {
		return classify.NoMatch(picked.Error)
	}
	if picked.SubcategoryName == "" {
		return classify.NoMatch("response missing subcategory_name")
	}

	// The match must name an offered candidate; return the offered copy so
	// the retriever's score survives.
	for _, cand := range candidates {
		if cand.SubcategoryName == picked.SubcategoryName &&
			(picked.SubcategoryURL == "" || cand.SubcategoryURL == picked.SubcategoryURL) {
			return classify.Match(cand)
		}
	}
	return classify.NoMatch("response named a candidate outside the offered list")
}

// stripCodeFence removes a surrounding markdown code fence, if present.
func stripCodeFence(s string) string {
	s = strings.TrimSpace(s)
	if !strings.HasPrefix(s, "```") {
		return s
	}
	s = strings.TrimPrefix(s, "```json")
	s = strings.TrimPrefix(s, "```")
	s = strings.TrimSuffix(strings.TrimSpace(s), "```")
	return strings.TrimSpace(s)
}
