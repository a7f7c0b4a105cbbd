package conversation

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

type stubTurnService struct {
	result     TurnResult
	err        error
	gotText    string
	gotLang    string
	switchedTo string
	entries    []TranscriptEntry
}

func (s *stubTurnService) ProcessUtterance(_ context.Context, text, language string) (TurnResult, error) {
	s.gotText = text
	s.gotLang = language
	return s.result, s.err
}

func (s *stubTurnService) SwitchLanguage(language string) {
	s.switchedTo = language
}

func (s *stubTurnService) Transcript(context.Context) ([]TranscriptEntry, error) {
	return s.entries, nil
}

func TestHandler_Utterance(t *testing.T) {
	stub := &stubTurnService{result: TurnResult{
		Reply:    Reply{DisplayText: "Which department?", SpeechText: "Which department do you need?"},
		Status:   StatusOK,
		Language: "en-IN",
	}}
	h := NewHandler(stub, nil)

	req := httptest.NewRequest(http.MethodPost, "/conversations/utterance",
		strings.NewReader(`{"text": "hello", "language": "en-IN"}`))
	rec := httptest.NewRecorder()
	h.Utterance(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	require.Equal(t, "hello", stub.gotText)
	require.Equal(t, "en-IN", stub.gotLang)

	var resp UtteranceResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	require.Equal(t, "Which department?", resp.DisplayText)
	require.Equal(t, "Which department do you need?", resp.SpeechText)
	require.Equal(t, "ok", resp.Status)
	require.Equal(t, "en-IN", resp.Language)
}

func TestHandler_UtteranceEmptyText(t *testing.T) {
	stub := &stubTurnService{err: ErrEmptyUtterance}
	h := NewHandler(stub, nil)

	req := httptest.NewRequest(http.MethodPost, "/conversations/utterance",
		strings.NewReader(`{"text": ""}`))
	rec := httptest.NewRecorder()
	h.Utterance(rec, req)

	require.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestHandler_UtteranceBadJSON(t *testing.T) {
	h := NewHandler(&stubTurnService{}, nil)

	req := httptest.NewRequest(http.MethodPost, "/conversations/utterance",
		strings.NewReader(`{not json`))
	rec := httptest.NewRecorder()
	h.Utterance(rec, req)

	require.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestHandler_UtteranceModelUnavailableStillOK(t *testing.T) {
	stub := &stubTurnService{result: TurnResult{
		Reply:    unavailableReply(),
		Status:   StatusModelUnavailable,
		Language: "en-IN",
	}}
	h := NewHandler(stub, nil)

	req := httptest.NewRequest(http.MethodPost, "/conversations/utterance",
		strings.NewReader(`{"text": "hello"}`))
	rec := httptest.NewRecorder()
	h.Utterance(rec, req)

	// Degraded turns are still HTTP 200; the status field carries the state.
	require.Equal(t, http.StatusOK, rec.Code)

	var resp UtteranceResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	require.Equal(t, "model_unavailable", resp.Status)
	require.NotEmpty(t, resp.SpeechText)
}

func TestHandler_Language(t *testing.T) {
	stub := &stubTurnService{}
	h := NewHandler(stub, nil)

	req := httptest.NewRequest(http.MethodPost, "/conversations/language",
		strings.NewReader(`{"language": "te-IN"}`))
	rec := httptest.NewRecorder()
	h.Language(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	require.Equal(t, "te-IN", stub.switchedTo)
}

func TestHandler_LanguageMissingTag(t *testing.T) {
	stub := &stubTurnService{}
	h := NewHandler(stub, nil)

	req := httptest.NewRequest(http.MethodPost, "/conversations/language",
		strings.NewReader(`{}`))
	rec := httptest.NewRecorder()
	h.Language(rec, req)

	require.Equal(t, http.StatusBadRequest, rec.Code)
	require.Empty(t, stub.switchedTo)
}

func TestHandler_Transcript(t *testing.T) {
	stub := &stubTurnService{entries: []TranscriptEntry{
		{Speaker: SpeakerUser, Text: "hello"},
		{Speaker: SpeakerAssistant, Text: "hi"},
	}}
	h := NewHandler(stub, nil)

	req := httptest.NewRequest(http.MethodGet, "/conversations/transcript", nil)
	rec := httptest.NewRecorder()
	h.Transcript(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)

	var resp map[string][]TranscriptEntry
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	require.Len(t, resp["entries"], 2)
	require.Equal(t, SpeakerUser, resp["entries"][0].Speaker)
}
