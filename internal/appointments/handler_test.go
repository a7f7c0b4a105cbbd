package appointments

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"testing"
)

func newTestHandler(t *testing.T) *Handler {
	t.Helper()
	store, err := NewFileStore(filepath.Join(t.TempDir(), "appointments.json"), nil)
	if err != nil {
		t.Fatalf("failed to create store: %v", err)
	}
	return NewHandler(store, nil)
}

func TestHandler_LogAppointment(t *testing.T) {
	handler := newTestHandler(t)

	payload := LogRequest{
		PatientName: "John Doe",
		Department:  "Cardiology",
		Symptoms:    "headache",
		TimeSlot:    "10 AM",
		Sentiment:   "Happy",
		Confidence:  0.92,
	}
	body, _ := json.Marshal(payload)

	req := httptest.NewRequest(http.MethodPost, "/log-appointment", bytes.NewReader(body))
	w := httptest.NewRecorder()

	handler.LogAppointment(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("expected %d, got %d", http.StatusOK, w.Code)
	}

	var resp LogResponse
	if err := json.NewDecoder(w.Body).Decode(&resp); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if !resp.Success {
		t.Fatal("expected success response")
	}
	if resp.ID == 0 {
		t.Fatal("expected server-assigned id")
	}
}

func TestHandler_LogAppointment_MissingFields(t *testing.T) {
	handler := newTestHandler(t)

	payload := LogRequest{Department: "Cardiology"}
	body, _ := json.Marshal(payload)

	req := httptest.NewRequest(http.MethodPost, "/log-appointment", bytes.NewReader(body))
	w := httptest.NewRecorder()

	handler.LogAppointment(w, req)

	if w.Code != http.StatusBadRequest {
		t.Fatalf("expected %d, got %d", http.StatusBadRequest, w.Code)
	}

	var resp LogResponse
	if err := json.NewDecoder(w.Body).Decode(&resp); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if resp.Success {
		t.Fatal("expected success=false for invalid record")
	}
}

func TestHandler_LogAppointment_InvalidJSON(t *testing.T) {
	handler := newTestHandler(t)

	req := httptest.NewRequest(http.MethodPost, "/log-appointment", strings.NewReader("{"))
	w := httptest.NewRecorder()

	handler.LogAppointment(w, req)

	if w.Code != http.StatusBadRequest {
		t.Fatalf("expected %d, got %d", http.StatusBadRequest, w.Code)
	}
}

func TestHandler_ListAppointments(t *testing.T) {
	handler := newTestHandler(t)

	for _, name := range []string{"A", "B"} {
		payload := LogRequest{
			PatientName: name,
			Department:  "ENT",
			Symptoms:    "sore throat",
			TimeSlot:    "2:30 PM",
		}
		body, _ := json.Marshal(payload)
		w := httptest.NewRecorder()
		handler.LogAppointment(w, httptest.NewRequest(http.MethodPost, "/log-appointment", bytes.NewReader(body)))
		if w.Code != http.StatusOK {
			t.Fatalf("seed append failed with status %d", w.Code)
		}
	}

	req := httptest.NewRequest(http.MethodGet, "/appointments", nil)
	w := httptest.NewRecorder()

	handler.ListAppointments(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("expected %d, got %d", http.StatusOK, w.Code)
	}

	var records []Record
	if err := json.NewDecoder(w.Body).Decode(&records); err != nil {
		t.Fatalf("failed to decode records: %v", err)
	}
	if len(records) != 2 {
		t.Fatalf("expected 2 records, got %d", len(records))
	}
	if records[0].PatientName != "A" || records[1].PatientName != "B" {
		t.Fatalf("expected insertion order preserved, got %v", records)
	}
	if records[0].Sentiment != "Unknown" {
		t.Fatalf("expected missing sentiment to default to Unknown, got %q", records[0].Sentiment)
	}
}
