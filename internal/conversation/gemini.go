package conversation

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/generative-ai-go/genai"
	"google.golang.org/api/option"
)

// GeminiConfig configures the Gemini-backed session factory.
type GeminiConfig struct {
	APIKey  string
	ModelID string
}

// GeminiProvider implements SessionFactory on top of Google's Gemini API.
// It also serves one-shot completions for the sentiment analyzer.
type GeminiProvider struct {
	client  *genai.Client
	modelID string
}

// NewGeminiProvider creates a new Gemini provider.
func NewGeminiProvider(ctx context.Context, cfg GeminiConfig) (*GeminiProvider, error) {
	if strings.TrimSpace(cfg.APIKey) == "" {
		return nil, errors.New("conversation: gemini api key is required")
	}
	modelID := strings.TrimSpace(cfg.ModelID)
	if modelID == "" {
		modelID = "gemini-2.5-flash"
	}

	client, err := genai.NewClient(ctx, option.WithAPIKey(cfg.APIKey))
	if err != nil {
		return nil, fmt.Errorf("conversation: failed to create gemini client: %w", err)
	}

	return &GeminiProvider{
		client:  client,
		modelID: modelID,
	}, nil
}

// NewSession starts a chat session with the booking persona, the declared
// tool set, and the language configuration fixed for the session's lifetime.
func (p *GeminiProvider) NewSession(_ context.Context, language string) (LLMSession, error) {
	model := p.client.GenerativeModel(p.modelID)
	model.SystemInstruction = genai.NewUserContent(genai.Text(systemInstruction(language)))
	model.Tools = []*genai.Tool{bookingTool()}
	return &geminiSession{chat: model.StartChat()}, nil
}

// Complete runs a single constrained completion outside any chat session.
func (p *GeminiProvider) Complete(ctx context.Context, system, prompt string) (string, error) {
	model := p.client.GenerativeModel(p.modelID)
	if strings.TrimSpace(system) != "" {
		model.SystemInstruction = genai.NewUserContent(genai.Text(system))
	}
	resp, err := model.GenerateContent(ctx, genai.Text(prompt))
	if err != nil {
		return "", fmt.Errorf("conversation: gemini completion failed: %w", err)
	}
	reply, err := replyFromResponse(resp)
	if err != nil {
		return "", err
	}
	return reply.Text, nil
}

// Close releases resources held by the Gemini client.
func (p *GeminiProvider) Close() error {
	if p.client != nil {
		return p.client.Close()
	}
	return nil
}

type geminiSession struct {
	chat *genai.ChatSession
}

func (s *geminiSession) Send(ctx context.Context, text string) (ModelReply, error) {
	resp, err := s.chat.SendMessage(ctx, genai.Text(text))
	if err != nil {
		return ModelReply{}, fmt.Errorf("conversation: gemini send failed: %w", err)
	}
	return replyFromResponse(resp)
}

func (s *geminiSession) SendToolResult(ctx context.Context, name string, result map[string]any) (ModelReply, error) {
	resp, err := s.chat.SendMessage(ctx, genai.FunctionResponse{
		Name:     name,
		Response: result,
	})
	if err != nil {
		return ModelReply{}, fmt.Errorf("conversation: gemini tool result send failed: %w", err)
	}
	return replyFromResponse(resp)
}

func (s *geminiSession) Close() error {
	// Chat sessions hold no resources of their own; the provider owns the
	// underlying client.
	return nil
}

func replyFromResponse(resp *genai.GenerateContentResponse) (ModelReply, error) {
	if resp == nil || len(resp.Candidates) == 0 {
		return ModelReply{}, errors.New("conversation: gemini returned no candidates")
	}

	candidate := resp.Candidates[0]
	if candidate.Content == nil || len(candidate.Content.Parts) == 0 {
		return ModelReply{}, errors.New("conversation: gemini returned empty content")
	}

	var reply ModelReply
	var text strings.Builder
	for _, part := range candidate.Content.Parts {
		switch v := part.(type) {
		case genai.Text:
			text.WriteString(string(v))
		case genai.FunctionCall:
			reply.ToolCalls = append(reply.ToolCalls, ToolCall{
				Name: v.Name,
				Args: stringArgs(v.Args),
			})
		}
	}
	reply.Text = strings.TrimSpace(text.String())
	return reply, nil
}

// stringArgs flattens the model's loosely typed arguments into the
// string-valued map the dispatcher consumes.
func stringArgs(args map[string]any) map[string]string {
	out := make(map[string]string, len(args))
	for key, value := range args {
		switch v := value.(type) {
		case string:
			out[key] = v
		case nil:
			out[key] = ""
		default:
			out[key] = fmt.Sprintf("%v", v)
		}
	}
	return out
}

func bookingTool() *genai.Tool {
	return &genai.Tool{
		FunctionDeclarations: []*genai.FunctionDeclaration{
			{
				Name:        ToolGetAvailability,
				Description: "Look up available appointment slots for a hospital department, optionally narrowed to a doctor or date.",
				Parameters: &genai.Schema{
					Type: genai.TypeObject,
					Properties: map[string]*genai.Schema{
						"department": {Type: genai.TypeString, Description: "Hospital department, e.g. Cardiology"},
						"doctorName": {Type: genai.TypeString, Description: "Preferred doctor, if the patient named one"},
						"date":       {Type: genai.TypeString, Description: "Requested date, if the patient mentioned one"},
					},
					Required: []string{"department"},
				},
			},
			{
				Name:        ToolConfirmAppointment,
				Description: "Confirm and book the appointment once the patient has chosen a slot and given their name.",
				Parameters: &genai.Schema{
					Type: genai.TypeObject,
					Properties: map[string]*genai.Schema{
						"patientName": {Type: genai.TypeString, Description: "Patient's full name"},
						"department":  {Type: genai.TypeString, Description: "Hospital department"},
						"doctorName":  {Type: genai.TypeString, Description: "Doctor for the appointment, if any"},
						"symptoms":    {Type: genai.TypeString, Description: "Patient's reported symptoms"},
						"timeSlot":    {Type: genai.TypeString, Description: "Chosen time slot"},
					},
					Required: []string{"patientName", "department", "symptoms", "timeSlot"},
				},
			},
		},
	}
}
