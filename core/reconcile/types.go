package reconcile

import (
	"time"

	"m3u-guardian/core/streams"

	"github.com/google/uuid"
)

// ProbeResult is the outcome of one liveness probe.
type ProbeResult struct {
	// URL is the probed candidate URL.
	URL string

	// Alive is true when the candidate answered with a qualifying status.
	Alive bool

	// Status is the HTTP status of the deciding request, 0 on transport failure.
	Status int

	// Method is the HTTP method of the deciding request (HEAD or GET).
	Method string

	// Elapsed is the wall time spent probing.
	Elapsed time.Duration

	// Err carries the transport error, if any. It is informational only.
	Err error
}

// Selection is the candidate chosen to represent a channel group.
type Selection struct {
	// Key is the channel group key.
	Key string

	// Candidate is the chosen stream source.
	Candidate streams.Candidate

	// Alive is false when no candidate answered and the most recent one was
	// kept as a fallback.
	Alive bool

	// Probed counts how many candidates were probed before deciding.
	Probed int
}

// PublishResult is the outcome of the change detection step.
type PublishResult struct {
	// Changed is true when the new document differs from the persisted one.
	Changed bool `json:"changed"`

	// PreviousFound is false when no document had been persisted yet.
	PreviousFound bool `json:"previous_found"`

	// Written is true when the new document reached storage.
	Written bool `json:"written"`

	// Published is true when the publish collaborator accepted the document.
	Published bool `json:"published"`

	// Entries is the number of channels in the document.
	Entries int `json:"entries"`

	// ReadErr, WriteErr and PublishErr record failures of each stage.
	ReadErr    error `json:"-"`
	WriteErr   error `json:"-"`
	PublishErr error `json:"-"`
}

// CycleReport summarises one reconciliation tick.
type CycleReport struct {
	StartedAt  time.Time          `json:"started_at"`
	Duration   time.Duration      `json:"duration"`
	LoadStatus streams.LoadStatus `json:"load_status"`
	Groups     int                `json:"groups"`
	Candidates int                `json:"candidates"`
	Selected   int                `json:"selected"`
	Alive      int                `json:"alive"`
	Dead       int                `json:"dead"`
	Probes     int                `json:"probes"`
	Publish    PublishResult      `json:"publish"`
}

// Phase is the scheduler lifecycle state.
type Phase string

const (
	PhaseIdle    Phase = "idle"
	PhaseRunning Phase = "running"
	PhaseStopped Phase = "stopped"
)

// StopReason explains why a session ended.
type StopReason string

const (
	StopMaxDuration StopReason = "max_duration"
	StopCancelled   StopReason = "cancelled"
)

// SessionState is threaded through the scheduler for one run.
type SessionState struct {
	ID         string      `json:"id"`
	Phase      Phase       `json:"phase"`
	StartedAt  time.Time   `json:"started_at"`
	StoppedAt  time.Time   `json:"stopped_at,omitempty"`
	Ticks      int         `json:"ticks"`
	Publishes  int         `json:"publishes"`
	LastTick   CycleReport `json:"last_tick"`
	StopReason StopReason  `json:"stop_reason,omitempty"`
}

// NewSessionState returns an idle session with a fresh id.
func NewSessionState() SessionState {
	return SessionState{ID: uuid.NewString(), Phase: PhaseIdle}
}

// Elapsed returns the time since the session started, as seen at now.
func (s SessionState) Elapsed(now time.Time) time.Duration {
	if s.StartedAt.IsZero() {
		return 0
	}
	return now.Sub(s.StartedAt)
}
