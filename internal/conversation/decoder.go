package conversation

import (
	"encoding/json"
	"strings"
)

// Reply is the decoded user-facing output of one turn.
type Reply struct {
	DisplayText string `json:"displayText"`
	SpeechText  string `json:"speechText"`
}

// DecodeReply converts raw model text into a Reply. It strips code-fence
// markers and attempts a strict parse of the two-field contract; on any
// failure the raw text is used verbatim for both fields. A broken contract
// from the model must never block the conversation, so no error is surfaced.
func DecodeReply(raw string) Reply {
	candidate := extractJSONObject(stripCodeFence(raw))

	var reply Reply
	if err := json.Unmarshal([]byte(candidate), &reply); err == nil {
		reply.DisplayText = strings.TrimSpace(reply.DisplayText)
		reply.SpeechText = strings.TrimSpace(reply.SpeechText)
		if reply.DisplayText != "" || reply.SpeechText != "" {
			if reply.DisplayText == "" {
				reply.DisplayText = reply.SpeechText
			}
			if reply.SpeechText == "" {
				reply.SpeechText = reply.DisplayText
			}
			return reply
		}
	}

	fallback := strings.TrimSpace(raw)
	return Reply{DisplayText: fallback, SpeechText: fallback}
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
