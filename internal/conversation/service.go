package conversation

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/voxcare-ai/voxcare-server/internal/appointments"
	"github.com/voxcare-ai/voxcare-server/internal/observability/metrics"
	"github.com/voxcare-ai/voxcare-server/pkg/logging"
)

// ErrEmptyUtterance rejects blank input before it reaches the model.
var ErrEmptyUtterance = errors.New("conversation: utterance is empty")

// BookingRecorder schedules post-confirmation enrichment and persistence.
// Implementations must not block: booking confirmation is synchronous and
// enrichment runs behind it.
type BookingRecorder interface {
	Record(details appointments.Details, transcript string)
}

// TurnResult is the user-facing outcome of one dialogue turn.
type TurnResult struct {
	Reply    Reply
	Status   TurnStatus
	Language string
}

// Service runs the per-turn pipeline: utterance in, session submit, tool
// dispatch, reply decode, transcript append, enrichment scheduling. One
// service instance serves one device/UI; turns are sequential by contract
// (the session itself enforces single-flight as a backstop).
type Service struct {
	manager    *Manager
	dispatcher *Dispatcher
	recorder   BookingRecorder
	stream     *StreamHub
	metrics    *metrics.ConversationMetrics
	logger     *logging.Logger
}

// NewService creates the orchestration service. recorder, stream and m may
// be nil; the corresponding steps are skipped.
func NewService(manager *Manager, dispatcher *Dispatcher, recorder BookingRecorder, stream *StreamHub, m *metrics.ConversationMetrics, logger *logging.Logger) *Service {
	if manager == nil {
		panic("conversation: manager cannot be nil")
	}
	if dispatcher == nil {
		panic("conversation: dispatcher cannot be nil")
	}
	if logger == nil {
		logger = logging.Default()
	}
	return &Service{
		manager:    manager,
		dispatcher: dispatcher,
		recorder:   recorder,
		stream:     stream,
		metrics:    m,
		logger:     logger,
	}
}

// ProcessUtterance runs one full dialogue turn. Model failures never
// propagate as errors: the user gets a spoken apology and a status the UI
// can indicate, and the session stays intact for retry.
func (s *Service) ProcessUtterance(ctx context.Context, text, language string) (TurnResult, error) {
	text = strings.TrimSpace(text)
	if text == "" {
		return TurnResult{}, ErrEmptyUtterance
	}

	start := time.Now()
	sess := s.manager.Session(language)

	reply, err := sess.Submit(ctx, text)
	if err != nil {
		return s.finishTurn(sess, start, s.failedTurn(sess, err)), nil
	}

	outcome, err := s.dispatcher.Dispatch(ctx, sess, reply)
	if err != nil {
		// The availability result could not be fed back to the model.
		return s.finishTurn(sess, start, s.failedTurn(sess, err)), nil
	}
	if !outcome.Handled {
		outcome.Reply = DecodeReply(reply.Text)
		outcome.Status = StatusOK
	}

	if err := sess.AppendTurn(ctx, text, outcome.Reply.DisplayText); err != nil {
		s.logger.Warn("failed to record turn in transcript", "error", err)
	}
	s.broadcastTurn(text, outcome.Reply.DisplayText)

	if outcome.Booking != nil {
		s.scheduleEnrichment(ctx, sess, *outcome.Booking)
	}

	return s.finishTurn(sess, start, TurnResult{
		Reply:  outcome.Reply,
		Status: outcome.Status,
	}), nil
}

// SwitchLanguage discards the active session and its transcript; the next
// utterance starts a fresh session with no memory of prior turns.
func (s *Service) SwitchLanguage(language string) {
	s.manager.SetLanguage(language)
}

// Transcript returns the UI projection of the active session's transcript.
func (s *Service) Transcript(ctx context.Context) ([]TranscriptEntry, error) {
	sess := s.manager.Current()
	if sess == nil {
		return []TranscriptEntry{}, nil
	}
	return sess.Transcript(ctx)
}

func (s *Service) failedTurn(sess *Session, err error) TurnResult {
	s.logger.Error("model turn failed", "language", sess.Language(), "error", err)
	return TurnResult{
		Reply:  unavailableReply(),
		Status: StatusModelUnavailable,
	}
}

func (s *Service) finishTurn(sess *Session, start time.Time, result TurnResult) TurnResult {
	result.Language = sess.Language()
	s.metrics.ObserveTurn(string(result.Status), time.Since(start).Seconds())
	return result
}

// scheduleEnrichment snapshots the authoritative transcript, including the
// turn just recorded, and hands it to the recorder. The confirmation reply
// has already been produced; nothing here delays it.
func (s *Service) scheduleEnrichment(ctx context.Context, sess *Session, details appointments.Details) {
	if s.recorder == nil {
		return
	}
	entries, err := sess.Transcript(ctx)
	if err != nil {
		s.logger.Warn("enrichment proceeding with empty transcript", "error", err)
	}
	s.recorder.Record(details, FormatTranscript(entries))
}

func (s *Service) broadcastTurn(userText, assistantText string) {
	if s.stream == nil {
		return
	}
	now := time.Now().UTC()
	s.stream.Broadcast(
		TranscriptEntry{Speaker: SpeakerUser, Text: userText, At: now},
		TranscriptEntry{Speaker: SpeakerAssistant, Text: assistantText, At: now},
	)
}
