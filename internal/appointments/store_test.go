package appointments

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

func testDetails() Details {
	return Details{
		PatientName: "John Doe",
		Department:  "Cardiology",
		DoctorName:  "General",
		Symptoms:    "headache",
		TimeSlot:    "10 AM",
	}
}

func TestFileStore_InitializesEmptyArray(t *testing.T) {
	path := filepath.Join(t.TempDir(), "appointments.json")

	_, err := NewFileStore(path, nil)
	require.NoError(t, err)

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	require.JSONEq(t, "[]", string(data))
}

func TestFileStore_AppendAssignsMonotonicIDs(t *testing.T) {
	path := filepath.Join(t.TempDir(), "appointments.json")
	store, err := NewFileStore(path, nil)
	require.NoError(t, err)

	ctx := context.Background()
	seen := make(map[int64]bool)
	var last int64
	for i := 0; i < 25; i++ {
		rec, err := store.Append(ctx, testDetails(), "Neutral", 0.5)
		require.NoError(t, err)
		require.Greater(t, rec.ID, last, "ids must be strictly increasing")
		require.False(t, seen[rec.ID], "ids must be unique")
		require.NotEmpty(t, rec.Timestamp)
		seen[rec.ID] = true
		last = rec.ID
	}

	records, err := store.List(ctx)
	require.NoError(t, err)
	require.Len(t, records, 25)
	for i := 1; i < len(records); i++ {
		require.Greater(t, records[i].ID, records[i-1].ID, "listing must preserve insertion order")
	}
}

func TestFileStore_SeedsIDSequenceFromExistingFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "appointments.json")
	ctx := context.Background()

	store, err := NewFileStore(path, nil)
	require.NoError(t, err)
	first, err := store.Append(ctx, testDetails(), "Happy", 0.9)
	require.NoError(t, err)

	reopened, err := NewFileStore(path, nil)
	require.NoError(t, err)
	second, err := reopened.Append(ctx, testDetails(), "Neutral", 0.4)
	require.NoError(t, err)

	require.Greater(t, second.ID, first.ID)

	records, err := reopened.List(ctx)
	require.NoError(t, err)
	require.Len(t, records, 2)
}

func TestFileStore_CorruptFileIsAnError(t *testing.T) {
	path := filepath.Join(t.TempDir(), "appointments.json")
	require.NoError(t, os.WriteFile(path, []byte("not json"), 0o644))

	_, err := NewFileStore(path, nil)
	require.Error(t, err)
}

func TestDetailsFromArgs(t *testing.T) {
	tests := []struct {
		name    string
		args    map[string]string
		wantErr bool
		doctor  string
	}{
		{
			name: "all fields",
			args: map[string]string{
				"patientName": "Jane",
				"department":  "Neurology",
				"doctorName":  "Rao",
				"symptoms":    "migraine",
				"timeSlot":    "2:30 PM",
			},
			doctor: "Rao",
		},
		{
			name: "doctor defaults",
			args: map[string]string{
				"patientName": "Jane",
				"department":  "Neurology",
				"symptoms":    "migraine",
				"timeSlot":    "2:30 PM",
			},
			doctor: DefaultDoctor,
		},
		{
			name: "missing patient name",
			args: map[string]string{
				"department": "Neurology",
				"symptoms":   "migraine",
				"timeSlot":   "2:30 PM",
			},
			wantErr: true,
		},
		{
			name: "whitespace-only symptoms",
			args: map[string]string{
				"patientName": "Jane",
				"department":  "Neurology",
				"symptoms":    "   ",
				"timeSlot":    "2:30 PM",
			},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			d, err := DetailsFromArgs(tt.args)
			if tt.wantErr {
				require.Error(t, err)
				return
			}
			require.NoError(t, err)
			require.Equal(t, tt.doctor, d.DoctorName)
		})
	}
}
