package appointments

import (
	"fmt"
	"strings"
)

// DefaultDoctor is used when the caller never named a preferred doctor.
const DefaultDoctor = "General"

// Details captures the booking fields collected by the dialogue agent.
// All fields except DoctorName are required.
type Details struct {
	PatientName string `json:"patientName"`
	Department  string `json:"department"`
	DoctorName  string `json:"doctorName"`
	Symptoms    string `json:"symptoms"`
	TimeSlot    string `json:"timeSlot"`
}

// Record is one persisted appointment enriched with its sentiment analysis.
// The id and timestamp are assigned by the store, never by the caller.
type Record struct {
	ID          int64   `json:"id"`
	PatientName string  `json:"patientName"`
	Department  string  `json:"department"`
	DoctorName  string  `json:"doctorName"`
	Symptoms    string  `json:"symptoms"`
	TimeSlot    string  `json:"timeSlot"`
	Sentiment   string  `json:"sentiment"`
	Confidence  float64 `json:"confidence"`
	Timestamp   string  `json:"timestamp"`
}

// DetailsFromArgs builds Details from string-valued tool call arguments.
// DoctorName falls back to DefaultDoctor; any other missing field is an error.
func DetailsFromArgs(args map[string]string) (Details, error) {
	d := Details{
		PatientName: strings.TrimSpace(args["patientName"]),
		Department:  strings.TrimSpace(args["department"]),
		DoctorName:  strings.TrimSpace(args["doctorName"]),
		Symptoms:    strings.TrimSpace(args["symptoms"]),
		TimeSlot:    strings.TrimSpace(args["timeSlot"]),
	}
	if d.DoctorName == "" {
		d.DoctorName = DefaultDoctor
	}
	if err := d.Validate(); err != nil {
		return Details{}, err
	}
	return d, nil
}

// Validate reports the required fields that are missing.
func (d Details) Validate() error {
	var missing []string
	if strings.TrimSpace(d.PatientName) == "" {
		missing = append(missing, "patientName")
	}
	if strings.TrimSpace(d.Department) == "" {
		missing = append(missing, "department")
	}
	if strings.TrimSpace(d.Symptoms) == "" {
		missing = append(missing, "symptoms")
	}
	if strings.TrimSpace(d.TimeSlot) == "" {
		missing = append(missing, "timeSlot")
	}
	if len(missing) > 0 {
		return fmt.Errorf("appointments: missing required fields: %s", strings.Join(missing, ", "))
	}
	return nil
}
