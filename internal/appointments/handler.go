package appointments

import (
	"encoding/json"
	"net/http"

	"github.com/voxcare-ai/voxcare-server/pkg/logging"
)

// Handler exposes the persistence sink contract over HTTP.
type Handler struct {
	store  *FileStore
	logger *logging.Logger
}

// NewHandler creates an appointments handler.
func NewHandler(store *FileStore, logger *logging.Logger) *Handler {
	if logger == nil {
		logger = logging.Default()
	}
	return &Handler{
		store:  store,
		logger: logger,
	}
}

// LogRequest is the body of POST /log-appointment.
type LogRequest struct {
	PatientName string  `json:"patientName"`
	Department  string  `json:"department"`
	DoctorName  string  `json:"doctorName"`
	Symptoms    string  `json:"symptoms"`
	TimeSlot    string  `json:"timeSlot"`
	Sentiment   string  `json:"sentiment"`
	Confidence  float64 `json:"confidence"`
}

// LogResponse is the sink's reply: {success, id} or {success: false}.
type LogResponse struct {
	Success bool  `json:"success"`
	ID      int64 `json:"id,omitempty"`
}

// LogAppointment handles POST /log-appointment.
func (h *Handler) LogAppointment(w http.ResponseWriter, r *http.Request) {
	var req LogRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.logger.Error("failed to decode log-appointment request", "error", err)
		h.writeJSON(w, http.StatusBadRequest, LogResponse{Success: false})
		return
	}

	details := Details{
		PatientName: req.PatientName,
		Department:  req.Department,
		DoctorName:  req.DoctorName,
		Symptoms:    req.Symptoms,
		TimeSlot:    req.TimeSlot,
	}
	if details.DoctorName == "" {
		details.DoctorName = DefaultDoctor
	}
	if err := details.Validate(); err != nil {
		h.logger.Error("rejected appointment record", "error", err)
		h.writeJSON(w, http.StatusBadRequest, LogResponse{Success: false})
		return
	}

	sentiment := req.Sentiment
	if sentiment == "" {
		sentiment = "Unknown"
	}

	rec, err := h.store.Append(r.Context(), details, sentiment, req.Confidence)
	if err != nil {
		h.logger.Error("failed to append appointment record", "error", err)
		h.writeJSON(w, http.StatusInternalServerError, LogResponse{Success: false})
		return
	}

	h.writeJSON(w, http.StatusOK, LogResponse{Success: true, ID: rec.ID})
}

// ListAppointments handles GET /appointments.
func (h *Handler) ListAppointments(w http.ResponseWriter, r *http.Request) {
	records, err := h.store.List(r.Context())
	if err != nil {
		h.logger.Error("failed to list appointment records", "error", err)
		http.Error(w, "Failed to list appointments", http.StatusInternalServerError)
		return
	}
	h.writeJSON(w, http.StatusOK, records)
}

func (h *Handler) writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		h.logger.Error("failed to write JSON response", "error", err)
	}
}
