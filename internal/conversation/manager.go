package conversation

import (
	"sync"
	"time"

	"github.com/voxcare-ai/voxcare-server/pkg/logging"
)

// Manager hands out at most one active session per language selection.
// Switching the language tears the previous session down entirely: history
// is discarded and the next utterance starts a fresh session.
type Manager struct {
	factory         SessionFactory
	newStore        func() TranscriptStore
	defaultLanguage string
	timeout         time.Duration
	logger          *logging.Logger

	mu      sync.Mutex
	current *Session
}

// NewManager creates a session manager. newStore is invoked once per session
// to give each session its own transcript store; nil means in-memory.
func NewManager(factory SessionFactory, newStore func() TranscriptStore, defaultLanguage string, timeout time.Duration, logger *logging.Logger) *Manager {
	if factory == nil {
		panic("conversation: session factory cannot be nil")
	}
	if newStore == nil {
		newStore = func() TranscriptStore { return NewMemoryTranscript() }
	}
	if defaultLanguage == "" {
		defaultLanguage = "en-IN"
	}
	if logger == nil {
		logger = logging.Default()
	}
	return &Manager{
		factory:         factory,
		newStore:        newStore,
		defaultLanguage: defaultLanguage,
		timeout:         timeout,
		logger:          logger,
	}
}

// Session returns the active session for the language, creating one on
// demand. An empty language means "keep the current selection" (or the
// default when nothing is active yet). A different language invalidates the
// prior session.
func (m *Manager) Session(language string) *Session {
	m.mu.Lock()
	defer m.mu.Unlock()

	if language == "" {
		if m.current != nil {
			return m.current
		}
		language = m.defaultLanguage
	}
	if m.current != nil && m.current.Language() == language {
		return m.current
	}
	return m.resetLocked(language)
}

// SetLanguage forces a fresh session for the language, discarding any
// existing one even if the tag is unchanged.
func (m *Manager) SetLanguage(language string) *Session {
	m.mu.Lock()
	defer m.mu.Unlock()

	if language == "" {
		language = m.defaultLanguage
	}
	return m.resetLocked(language)
}

// Current returns the active session or nil.
func (m *Manager) Current() *Session {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.current
}

// Close tears down the active session, if any.
func (m *Manager) Close() {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.current != nil {
		m.current.Close()
		m.current = nil
	}
}

func (m *Manager) resetLocked(language string) *Session {
	if m.current != nil {
		m.logger.Info("discarding session", "language", m.current.Language())
		m.current.Close()
	}
	m.current = NewSession(language, m.factory, m.newStore(), m.timeout, m.logger)
	m.logger.Info("session created", "language", language)
	return m.current
}
