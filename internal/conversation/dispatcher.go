package conversation

import (
	"context"
	"fmt"

	"github.com/voxcare-ai/voxcare-server/internal/appointments"
	"github.com/voxcare-ai/voxcare-server/internal/observability/metrics"
	"github.com/voxcare-ai/voxcare-server/pkg/logging"
)

// Tool names declared to the remote model.
const (
	ToolGetAvailability    = "get_doctor_availability"
	ToolConfirmAppointment = "confirm_appointment"
)

// TurnStatus classifies the outcome of a dialogue turn for the UI.
type TurnStatus string

const (
	StatusOK               TurnStatus = "ok"
	StatusModelUnavailable TurnStatus = "model_unavailable"
	StatusInvalidToolCall  TurnStatus = "invalid_tool_call"
)

// DispatchOutcome is the result of routing one model reply through the
// dispatcher.
type DispatchOutcome struct {
	// Handled is false when the reply carried no tool call and should go
	// straight to the decoder.
	Handled bool
	Reply   Reply
	Status  TurnStatus
	// Booking is set when a confirm_appointment call validated; the caller
	// schedules enrichment once the turn's transcript entries are recorded.
	Booking *appointments.Details
}

// Dispatcher interprets a model reply that requests a tool call and executes
// it. When the model returns several tool calls only the first is honored;
// the excess calls are ignored. That mirrors the documented behavior of the
// dialogue contract rather than an attempt to process batches.
type Dispatcher struct {
	availability AvailabilitySource
	metrics      *metrics.ConversationMetrics
	logger       *logging.Logger
}

// NewDispatcher creates a tool dispatcher.
func NewDispatcher(availability AvailabilitySource, m *metrics.ConversationMetrics, logger *logging.Logger) *Dispatcher {
	if availability == nil {
		availability = StaticAvailability{}
	}
	if logger == nil {
		logger = logging.Default()
	}
	return &Dispatcher{
		availability: availability,
		metrics:      m,
		logger:       logger,
	}
}

// Dispatch executes the first tool call of reply, if any. For availability
// lookups the result is resubmitted to the session and the follow-up reply is
// decoded; for confirmations a canned reply is synthesized immediately so the
// booking feels instantaneous regardless of enrichment latency. The only
// error returned is a transport failure on the follow-up exchange.
func (d *Dispatcher) Dispatch(ctx context.Context, sess *Session, reply ModelReply) (DispatchOutcome, error) {
	if len(reply.ToolCalls) == 0 {
		return DispatchOutcome{}, nil
	}
	call := reply.ToolCalls[0]
	if len(reply.ToolCalls) > 1 {
		d.logger.Warn("model returned multiple tool calls; honoring the first only",
			"honored", call.Name,
			"ignored", len(reply.ToolCalls)-1,
		)
	}

	switch call.Name {
	case ToolGetAvailability:
		return d.dispatchAvailability(ctx, sess, call)
	case ToolConfirmAppointment:
		return d.dispatchConfirmation(call), nil
	default:
		d.logger.Warn("model requested unknown tool", "tool", call.Name)
		d.metrics.ObserveToolCall(call.Name, "unknown")
		return DispatchOutcome{
			Handled: true,
			Reply:   apologyReply(),
			Status:  StatusInvalidToolCall,
		}, nil
	}
}

func (d *Dispatcher) dispatchAvailability(ctx context.Context, sess *Session, call ToolCall) (DispatchOutcome, error) {
	result := d.availability.Lookup(call.Args["department"], call.Args["doctorName"], call.Args["date"])
	d.logger.Info("availability lookup", "department", call.Args["department"])
	d.metrics.ObserveToolCall(ToolGetAvailability, "ok")

	follow, err := sess.SubmitToolResult(ctx, call.Name, map[string]any{"availability": result})
	if err != nil {
		return DispatchOutcome{}, err
	}
	return DispatchOutcome{
		Handled: true,
		Reply:   DecodeReply(follow.Text),
		Status:  StatusOK,
	}, nil
}

func (d *Dispatcher) dispatchConfirmation(call ToolCall) DispatchOutcome {
	details, err := appointments.DetailsFromArgs(call.Args)
	if err != nil {
		// Well-formed model output never gets here, but a missing required
		// field must not silently become a booking.
		d.logger.Error("confirm_appointment call rejected", "error", err)
		d.metrics.ObserveToolCall(ToolConfirmAppointment, "invalid")
		return DispatchOutcome{
			Handled: true,
			Reply:   apologyReply(),
			Status:  StatusInvalidToolCall,
		}
	}

	d.logger.Info("appointment confirmed",
		"department", details.Department,
		"doctor", details.DoctorName,
		"slot", details.TimeSlot,
	)
	d.metrics.ObserveToolCall(ToolConfirmAppointment, "ok")
	return DispatchOutcome{
		Handled: true,
		Reply:   confirmationReply(details),
		Status:  StatusOK,
		Booking: &details,
	}
}

func confirmationReply(d appointments.Details) Reply {
	text := fmt.Sprintf("Your appointment is confirmed, %s: %s with Dr. %s at %s. Please arrive ten minutes early.",
		d.PatientName, d.Department, d.DoctorName, d.TimeSlot)
	return Reply{DisplayText: text, SpeechText: text}
}

func apologyReply() Reply {
	const text = "I'm sorry, I couldn't complete that booking. Could we try again?"
	return Reply{DisplayText: text, SpeechText: text}
}

func unavailableReply() Reply {
	const text = "I'm sorry, I'm having trouble reaching our scheduling assistant right now. Please try again in a moment."
	return Reply{DisplayText: text, SpeechText: text}
}
