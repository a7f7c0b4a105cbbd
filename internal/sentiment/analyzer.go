package sentiment

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/voxcare-ai/voxcare-server/pkg/logging"
)

// Label classifies the patient's affect across a conversation.
type Label string

const (
	LabelHappy   Label = "Happy"
	LabelNeutral Label = "Neutral"
	LabelAnxious Label = "Anxious"
	LabelAngry   Label = "Angry"
	LabelUnknown Label = "Unknown"
)

// Result is one sentiment classification with its confidence in [0,1].
type Result struct {
	Sentiment  Label   `json:"sentiment"`
	Confidence float64 `json:"confidence"`
}

// Fallback is the result used when analysis fails. It never blocks the
// booking path.
func Fallback() Result {
	return Result{Sentiment: LabelUnknown, Confidence: 0}
}

// Completer runs a single constrained completion against the remote model.
type Completer interface {
	Complete(ctx context.Context, system, prompt string) (string, error)
}

const analyzerInstruction = `You classify the emotional state of a hospital patient from an appointment-booking transcript.

Return strictly one JSON object and nothing else:
{"sentiment": "Happy|Neutral|Anxious|Angry", "confidence": 0.0}

confidence is a number between 0 and 1. Do not add explanations.`

// Analyzer runs a best-effort sentiment pass over a full transcript.
type Analyzer struct {
	completer Completer
	timeout   time.Duration
	logger    *logging.Logger
}

// NewAnalyzer creates a sentiment analyzer.
func NewAnalyzer(completer Completer, timeout time.Duration, logger *logging.Logger) *Analyzer {
	if completer == nil {
		panic("sentiment: completer cannot be nil")
	}
	if logger == nil {
		logger = logging.Default()
	}
	return &Analyzer{
		completer: completer,
		timeout:   timeout,
		logger:    logger,
	}
}

// Analyze classifies the transcript. Any transport or parse failure is an
// error; callers fall back to Fallback().
func (a *Analyzer) Analyze(ctx context.Context, transcript string) (Result, error) {
	if strings.TrimSpace(transcript) == "" {
		return Result{}, errors.New("sentiment: transcript is empty")
	}
	if a.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, a.timeout)
		defer cancel()
	}

	raw, err := a.completer.Complete(ctx, analyzerInstruction, "Transcript:\n"+transcript)
	if err != nil {
		return Result{}, fmt.Errorf("sentiment: analysis call failed: %w", err)
	}
	return parseResult(raw)
}

func parseResult(raw string) (Result, error) {
	text := extractJSONObject(stripCodeFence(raw))
	if text == "" {
		return Result{}, errors.New("sentiment: empty analysis response")
	}

	var payload struct {
		Sentiment  string  `json:"sentiment"`
		Confidence float64 `json:"confidence"`
	}
	if err := json.Unmarshal([]byte(text), &payload); err != nil {
		return Result{}, fmt.Errorf("sentiment: malformed analysis response: %w", err)
	}

	label, ok := normalizeLabel(payload.Sentiment)
	if !ok {
		return Result{}, fmt.Errorf("sentiment: unrecognized label %q", payload.Sentiment)
	}
	return Result{
		Sentiment:  label,
		Confidence: clampConfidence(payload.Confidence),
	}, nil
}

func normalizeLabel(raw string) (Label, bool) {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "happy":
		return LabelHappy, true
	case "neutral":
		return LabelNeutral, true
	case "anxious":
		return LabelAnxious, true
	case "angry":
		return LabelAngry, true
	default:
		return "", false
	}
}

func clampConfidence(c float64) float64 {
	if c < 0 {
		return 0
	}
	if c > 1 {
		return 1
	}
	return c
}

func stripCodeFence(text string) string {
	text = strings.TrimSpace(text)
	text = strings.TrimPrefix(text, "```json")
	text = strings.TrimPrefix(text, "```")
	text = strings.TrimSuffix(text, "```")
	return strings.TrimSpace(text)
}

func extractJSONObject(text string) string {
	if strings.HasPrefix(text, "{") {
		return text
	}
	start := strings.Index(text, "{")
	end := strings.LastIndex(text, "}")
	if start >= 0 && end > start {
		return text[start : end+1]
	}
	return text
}
