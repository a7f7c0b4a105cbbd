package appointments

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"
)

// Client posts enriched appointment records to the persistence sink over its
// fixed HTTP contract. The sink may be this process or a separate deployment.
type Client struct {
	baseURL string
	http    *http.Client
}

// NewClient creates a sink client for the given base URL.
func NewClient(baseURL string, timeout time.Duration) *Client {
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		http:    &http.Client{Timeout: timeout},
	}
}

// LogAppointment performs one POST /log-appointment and returns the
// server-assigned id. It is attempted exactly once; retries are the caller's
// decision (and the recorder deliberately never retries).
func (c *Client) LogAppointment(ctx context.Context, details Details, sentiment string, confidence float64) (int64, error) {
	payload := LogRequest{
		PatientName: details.PatientName,
		Department:  details.Department,
		DoctorName:  details.DoctorName,
		Symptoms:    details.Symptoms,
		TimeSlot:    details.TimeSlot,
		Sentiment:   sentiment,
		Confidence:  confidence,
	}
	body, err := json.Marshal(payload)
	if err != nil {
		return 0, fmt.Errorf("appointments: failed to encode sink payload: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/log-appointment", bytes.NewReader(body))
	if err != nil {
		return 0, fmt.Errorf("appointments: failed to build sink request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return 0, fmt.Errorf("appointments: sink unreachable: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return 0, fmt.Errorf("appointments: sink rejected record: status %d", resp.StatusCode)
	}

	var out LogResponse
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return 0, fmt.Errorf("appointments: failed to decode sink response: %w", err)
	}
	if !out.Success {
		return 0, fmt.Errorf("appointments: sink reported failure")
	}
	return out.ID, nil
}
