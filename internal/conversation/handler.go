package conversation

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	"github.com/voxcare-ai/voxcare-server/pkg/logging"
)

// TurnService is the slice of the orchestration service the HTTP layer needs.
type TurnService interface {
	ProcessUtterance(ctx context.Context, text, language string) (TurnResult, error)
	SwitchLanguage(language string)
	Transcript(ctx context.Context) ([]TranscriptEntry, error)
}

// Handler wires HTTP requests to the conversation service.
type Handler struct {
	service TurnService
	logger  *logging.Logger
}

// NewHandler creates a conversation handler.
func NewHandler(service TurnService, logger *logging.Logger) *Handler {
	if logger == nil {
		logger = logging.Default()
	}
	return &Handler{
		service: service,
		logger:  logger,
	}
}

// UtteranceRequest is one finalized spoken or typed utterance.
type UtteranceRequest struct {
	Text     string `json:"text"`
	Language string `json:"language,omitempty"`
}

// UtteranceResponse carries the decoded reply and turn status.
type UtteranceResponse struct {
	DisplayText string `json:"displayText"`
	SpeechText  string `json:"speechText"`
	Status      string `json:"status"`
	Language    string `json:"language"`
}

// LanguageRequest selects the session language.
type LanguageRequest struct {
	Language string `json:"language"`
}

// Utterance handles POST /conversations/utterance.
func (h *Handler) Utterance(w http.ResponseWriter, r *http.Request) {
	var req UtteranceRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.logger.Error("failed to decode utterance request", "error", err)
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	result, err := h.service.ProcessUtterance(r.Context(), req.Text, req.Language)
	if err != nil {
		if errors.Is(err, ErrEmptyUtterance) {
			http.Error(w, "Utterance text is required", http.StatusBadRequest)
			return
		}
		h.logger.Error("failed to process utterance", "error", err)
		http.Error(w, "Failed to process utterance", http.StatusInternalServerError)
		return
	}

	h.writeJSON(w, http.StatusOK, UtteranceResponse{
		DisplayText: result.Reply.DisplayText,
		SpeechText:  result.Reply.SpeechText,
		Status:      string(result.Status),
		Language:    result.Language,
	})
}

// Language handles POST /conversations/language.
func (h *Handler) Language(w http.ResponseWriter, r *http.Request) {
	var req LanguageRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.logger.Error("failed to decode language request", "error", err)
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}
	if req.Language == "" {
		http.Error(w, "Language tag is required", http.StatusBadRequest)
		return
	}

	h.service.SwitchLanguage(req.Language)
	h.writeJSON(w, http.StatusOK, map[string]string{"language": req.Language})
}

// Transcript handles GET /conversations/transcript.
func (h *Handler) Transcript(w http.ResponseWriter, r *http.Request) {
	entries, err := h.service.Transcript(r.Context())
	if err != nil {
		h.logger.Error("failed to load transcript", "error", err)
		http.Error(w, "Failed to load transcript", http.StatusInternalServerError)
		return
	}
	h.writeJSON(w, http.StatusOK, map[string][]TranscriptEntry{"entries": entries})
}

func (h *Handler) writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		h.logger.Error("failed to write JSON response", "error", err)
	}
}
