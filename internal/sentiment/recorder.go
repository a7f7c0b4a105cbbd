package sentiment

import (
	"context"
	"sync"

	"github.com/voxcare-ai/voxcare-server/internal/appointments"
	"github.com/voxcare-ai/voxcare-server/pkg/logging"
)

// State tracks one recording job through its lifecycle:
// Idle -> Analyzing -> {Persisted | Failed}. Failed (analysis) still proceeds
// to persistence with the fallback result.
type State string

const (
	StateIdle      State = "idle"
	StateAnalyzing State = "analyzing"
	StatePersisted State = "persisted"
	StateFailed    State = "failed"
)

// Sink persists one enriched appointment record. It is attempted exactly
// once per confirmation.
type Sink interface {
	LogAppointment(ctx context.Context, details appointments.Details, sentiment string, confidence float64) (int64, error)
}

// Outcome reports how one recording job ended. State is the final state of
// the job: StatePersisted once the single POST has been attempted, whether or
// not it succeeded. AnalysisErr set means the fallback result was persisted;
// PersistErr set means the record is lost from the system's point of view
// for that confirmation.
type Outcome struct {
	Details       appointments.Details
	Result        Result
	State         State
	AppointmentID int64
	AnalysisErr   error
	PersistErr    error
}

type job struct {
	details    appointments.Details
	transcript string
}

// Recorder runs post-booking enrichment as a detached background task. Jobs
// queue onto a buffered channel consumed by a single worker goroutine, which
// serializes sink writes across rapid confirmations. Every job's outcome is
// published on Outcomes so failures are observable rather than silently
// dropped, even when nothing subscribes.
type Recorder struct {
	analyzer *Analyzer
	sink     Sink
	logger   *logging.Logger

	jobs     chan job
	outcomes chan Outcome
	quit     chan struct{}
	done     chan struct{}
	once     sync.Once
}

// NewRecorder creates a recorder and starts its worker.
func NewRecorder(analyzer *Analyzer, sink Sink, buffer int, logger *logging.Logger) *Recorder {
	if analyzer == nil {
		panic("sentiment: analyzer cannot be nil")
	}
	if sink == nil {
		panic("sentiment: sink cannot be nil")
	}
	if buffer <= 0 {
		buffer = 16
	}
	if logger == nil {
		logger = logging.Default()
	}
	r := &Recorder{
		analyzer: analyzer,
		sink:     sink,
		logger:   logger,
		jobs:     make(chan job, buffer),
		outcomes: make(chan Outcome, buffer),
		quit:     make(chan struct{}),
		done:     make(chan struct{}),
	}
	go r.run()
	return r
}

// Record schedules enrichment and persistence for a confirmed booking. It
// never blocks the caller: when the buffer is full the handoff moves to a
// goroutine of its own.
func (r *Recorder) Record(details appointments.Details, transcript string) {
	j := job{details: details, transcript: transcript}
	select {
	case <-r.quit:
		return
	case r.jobs <- j:
	default:
		go func() {
			select {
			case <-r.quit:
			case r.jobs <- j:
			}
		}()
	}
}

// Outcomes exposes the completion/failure channel. It is closed when the
// recorder shuts down.
func (r *Recorder) Outcomes() <-chan Outcome {
	return r.outcomes
}

// Close stops accepting jobs, drains what is queued, and waits for the
// worker to finish.
func (r *Recorder) Close() {
	r.once.Do(func() {
		close(r.quit)
		<-r.done
	})
}

func (r *Recorder) run() {
	defer close(r.done)
	defer close(r.outcomes)
	for {
		select {
		case <-r.quit:
			for {
				select {
				case j := <-r.jobs:
					r.process(j)
				default:
					return
				}
			}
		case j := <-r.jobs:
			r.process(j)
		}
	}
}

func (r *Recorder) process(j job) {
	ctx := context.Background()
	out := Outcome{Details: j.details, State: StateAnalyzing}

	result, err := r.analyzer.Analyze(ctx, j.transcript)
	if err != nil {
		out.State = StateFailed
		out.AnalysisErr = err
		result = Fallback()
		r.logger.Warn("sentiment analysis failed; using fallback",
			"error", err,
			"department", j.details.Department,
		)
	}
	out.Result = result

	// Failed analysis still proceeds to persistence: exactly one POST is
	// attempted, and a POST failure is terminal.
	id, err := r.sink.LogAppointment(ctx, j.details, string(result.Sentiment), result.Confidence)
	out.State = StatePersisted
	if err != nil {
		out.PersistErr = err
		r.logger.Error("appointment persistence failed",
			"error", err,
			"department", j.details.Department,
			"slot", j.details.TimeSlot,
		)
	} else {
		out.AppointmentID = id
		r.logger.Info("appointment persisted",
			"id", id,
			"sentiment", result.Sentiment,
			"confidence", result.Confidence,
		)
	}

	r.publish(out)
}

func (r *Recorder) publish(out Outcome) {
	select {
	case r.outcomes <- out:
	default:
		r.logger.Debug("outcome channel full; dropping oldest subscriber signal")
	}
}
