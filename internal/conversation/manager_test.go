package conversation

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestManager_SessionReuse(t *testing.T) {
	factory := &fakeFactory{}
	m := NewManager(factory, nil, "en-IN", 0, nil)

	first := m.Session("")
	require.NotNil(t, first)
	require.Equal(t, "en-IN", first.Language())

	// Empty language keeps the active session regardless of the default.
	require.Same(t, first, m.Session(""))
	require.Same(t, first, m.Session("en-IN"))
}

func TestManager_LanguageChangeInvalidates(t *testing.T) {
	factory := &fakeFactory{}
	m := NewManager(factory, nil, "en-IN", 0, nil)

	first := m.Session("en-IN")
	_, err := first.Submit(context.Background(), "hello")
	require.NoError(t, err)
	require.NoError(t, first.AppendTurn(context.Background(), "hello", "hi"))

	second := m.Session("ta-IN")
	require.NotSame(t, first, second)
	require.Equal(t, "ta-IN", second.Language())
	require.True(t, factory.created[0].closed)

	entries, err := second.Transcript(context.Background())
	require.NoError(t, err)
	require.Empty(t, entries)
}

func TestManager_SetLanguageAlwaysResets(t *testing.T) {
	factory := &fakeFactory{}
	m := NewManager(factory, nil, "en-IN", 0, nil)

	first := m.Session("hi-IN")
	_, err := first.Submit(context.Background(), "namaste")
	require.NoError(t, err)
	require.NoError(t, first.AppendTurn(context.Background(), "namaste", "namaste"))

	// Re-selecting the same tag still starts over.
	second := m.SetLanguage("hi-IN")
	require.NotSame(t, first, second)

	entries, err := second.Transcript(context.Background())
	require.NoError(t, err)
	require.Empty(t, entries)
}

func TestManager_Close(t *testing.T) {
	factory := &fakeFactory{}
	m := NewManager(factory, nil, "en-IN", 0, nil)

	s := m.Session("")
	_, err := s.Submit(context.Background(), "hello")
	require.NoError(t, err)

	m.Close()
	require.Nil(t, m.Current())
	require.True(t, factory.created[0].closed)
}
