package conversation

import (
	"fmt"
	"strings"
)

// Candidate slots offered by the stand-in scheduling backend.
const (
	slotMorning   = "10:00 AM"
	slotAfternoon = "2:30 PM"
)

// AvailabilitySource answers get_doctor_availability lookups.
type AvailabilitySource interface {
	Lookup(department, doctorName, date string) string
}

// StaticAvailability is the stand-in availability backend. It answers every
// lookup with the same two candidate slots and never fails.
type StaticAvailability struct{}

func (StaticAvailability) Lookup(department, doctorName, date string) string {
	doctor := strings.TrimSpace(doctorName)
	if doctor == "" {
		doctor = "the doctor on duty"
	} else {
		doctor = "Dr. " + doctor
	}
	when := strings.TrimSpace(date)
	if when == "" {
		when = "tomorrow"
	}
	return fmt.Sprintf("%s has two open slots %s with %s: %s and %s. Ask the patient which slot they prefer.",
		strings.TrimSpace(department), when, doctor, slotMorning, slotAfternoon)
}
