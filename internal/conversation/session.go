package conversation

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/voxcare-ai/voxcare-server/pkg/logging"
)

// Session owns one ongoing multi-turn exchange with the remote model for a
// single language selection. The underlying model session is established
// lazily on the first submit. Submits are single-flight: a mutex guarantees
// no two turns overlap on the same session.
//
// The session also owns the authoritative transcript. A turn is recorded only
// after the model exchange succeeds, so a transport failure leaves history
// exactly as it was and a retry cannot duplicate entries.
type Session struct {
	language string
	factory  SessionFactory
	store    TranscriptStore
	timeout  time.Duration
	logger   *logging.Logger

	mu  sync.Mutex
	llm LLMSession
}

// NewSession creates a session bound to a language tag.
func NewSession(language string, factory SessionFactory, store TranscriptStore, timeout time.Duration, logger *logging.Logger) *Session {
	if factory == nil {
		panic("conversation: session factory cannot be nil")
	}
	if store == nil {
		store = NewMemoryTranscript()
	}
	if logger == nil {
		logger = logging.Default()
	}
	return &Session{
		language: language,
		factory:  factory,
		store:    store,
		timeout:  timeout,
		logger:   logger,
	}
}

// Language returns the fixed language tag this session was created with.
func (s *Session) Language() string {
	return s.language
}

// Submit sends one user utterance to the model and returns the raw reply.
// Transport failures surface as ErrModelUnavailable.
func (s *Session) Submit(ctx context.Context, text string) (ModelReply, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.exchange(ctx, func(ctx context.Context, llm LLMSession) (ModelReply, error) {
		return llm.Send(ctx, text)
	})
}

// SubmitToolResult feeds a tool's serialized result back into the session as
// the next turn.
func (s *Session) SubmitToolResult(ctx context.Context, name string, result map[string]any) (ModelReply, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.exchange(ctx, func(ctx context.Context, llm LLMSession) (ModelReply, error) {
		return llm.SendToolResult(ctx, name, result)
	})
}

// AppendTurn records a completed user/assistant turn pair in the transcript.
func (s *Session) AppendTurn(ctx context.Context, userText, assistantText string) error {
	now := time.Now().UTC()
	return s.store.Append(ctx,
		TranscriptEntry{Speaker: SpeakerUser, Text: userText, At: now},
		TranscriptEntry{Speaker: SpeakerAssistant, Text: assistantText, At: now},
	)
}

// Transcript returns the full ordered transcript so far.
func (s *Session) Transcript(ctx context.Context) ([]TranscriptEntry, error) {
	return s.store.Snapshot(ctx)
}

// Close tears the session down and discards its history.
func (s *Session) Close() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.llm != nil {
		if err := s.llm.Close(); err != nil {
			s.logger.Warn("failed to close model session", "error", err)
		}
		s.llm = nil
	}
	if err := s.store.Clear(context.Background()); err != nil {
		s.logger.Warn("failed to clear transcript", "error", err)
	}
}

func (s *Session) exchange(ctx context.Context, send func(context.Context, LLMSession) (ModelReply, error)) (ModelReply, error) {
	if err := s.ensureLLMLocked(ctx); err != nil {
		return ModelReply{}, err
	}
	if s.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, s.timeout)
		defer cancel()
	}
	reply, err := send(ctx, s.llm)
	if err != nil {
		return ModelReply{}, fmt.Errorf("%w: %v", ErrModelUnavailable, err)
	}
	return reply, nil
}

func (s *Session) ensureLLMLocked(ctx context.Context) error {
	if s.llm != nil {
		return nil
	}
	llm, err := s.factory.NewSession(ctx, s.language)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrModelUnavailable, err)
	}
	s.llm = llm
	s.logger.Debug("model session established", "language", s.language)
	return nil
}
