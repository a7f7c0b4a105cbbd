package conversation

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"
)

// Speaker identifies who produced a transcript entry.
type Speaker string

const (
	SpeakerUser      Speaker = "user"
	SpeakerAssistant Speaker = "assistant"
)

// TranscriptEntry is one turn's display text, tagged by speaker.
type TranscriptEntry struct {
	Speaker Speaker   `json:"speaker"`
	Text    string    `json:"text"`
	At      time.Time `json:"at"`
}

// TranscriptStore owns the authoritative, synchronously updated transcript of
// one session. Any UI-facing copy is a derived, read-only projection of it.
type TranscriptStore interface {
	Append(ctx context.Context, entries ...TranscriptEntry) error
	Snapshot(ctx context.Context) ([]TranscriptEntry, error)
	Clear(ctx context.Context) error
}

// MemoryTranscript is the default in-process transcript store.
type MemoryTranscript struct {
	mu      sync.Mutex
	entries []TranscriptEntry
}

// NewMemoryTranscript creates an empty in-memory transcript.
func NewMemoryTranscript() *MemoryTranscript {
	return &MemoryTranscript{}
}

func (m *MemoryTranscript) Append(_ context.Context, entries ...TranscriptEntry) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.entries = append(m.entries, entries...)
	return nil
}

func (m *MemoryTranscript) Snapshot(_ context.Context) ([]TranscriptEntry, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]TranscriptEntry, len(m.entries))
	copy(out, m.entries)
	return out, nil
}

func (m *MemoryTranscript) Clear(_ context.Context) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.entries = nil
	return nil
}

// FormatTranscript serializes an ordered transcript for the sentiment pass.
func FormatTranscript(entries []TranscriptEntry) string {
	var b strings.Builder
	for _, e := range entries {
		label := "User"
		if e.Speaker == SpeakerAssistant {
			label = "Assistant"
		}
		fmt.Fprintf(&b, "%s: %s\n", label, e.Text)
	}
	return b.String()
}
