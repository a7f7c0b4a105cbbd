package conversation

import (
	"strings"
	"testing"
)

func TestStaticAvailability_Lookup(t *testing.T) {
	src := StaticAvailability{}

	got := src.Lookup("Cardiology", "Mehta", "2026-09-02")
	for _, want := range []string{"Cardiology", "Dr. Mehta", "2026-09-02", "10:00 AM", "2:30 PM"} {
		if !strings.Contains(got, want) {
			t.Errorf("Lookup result missing %q: %s", want, got)
		}
	}
}

func TestStaticAvailability_Defaults(t *testing.T) {
	src := StaticAvailability{}

	got := src.Lookup("ENT", "", "")
	if !strings.Contains(got, "the doctor on duty") {
		t.Errorf("expected duty-doctor fallback, got: %s", got)
	}
	if !strings.Contains(got, "tomorrow") {
		t.Errorf("expected date fallback, got: %s", got)
	}
}
