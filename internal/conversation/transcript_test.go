package conversation

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestMemoryTranscript(t *testing.T) {
	store := NewMemoryTranscript()
	ctx := context.Background()

	require.NoError(t, store.Append(ctx,
		TranscriptEntry{Speaker: SpeakerUser, Text: "hello"},
		TranscriptEntry{Speaker: SpeakerAssistant, Text: "hi"},
	))

	entries, err := store.Snapshot(ctx)
	require.NoError(t, err)
	require.Len(t, entries, 2)

	// The snapshot is a copy; mutating it leaves the store untouched.
	entries[0].Text = "mutated"
	again, err := store.Snapshot(ctx)
	require.NoError(t, err)
	require.Equal(t, "hello", again[0].Text)

	require.NoError(t, store.Clear(ctx))
	entries, err = store.Snapshot(ctx)
	require.NoError(t, err)
	require.Empty(t, entries)
}

func TestFormatTranscript(t *testing.T) {
	got := FormatTranscript([]TranscriptEntry{
		{Speaker: SpeakerUser, Text: "I need an appointment"},
		{Speaker: SpeakerAssistant, Text: "Which department?"},
	})
	require.Equal(t, "User: I need an appointment\nAssistant: Which department?\n", got)
}

func TestFormatTranscript_Empty(t *testing.T) {
	require.Empty(t, FormatTranscript(nil))
}
