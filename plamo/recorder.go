package plamo

import "time"

// Outcomes passed to Recorder.ObserveCompletion.
const (
	OutcomeOK             = "ok"
	OutcomeTransportError = "transport_error"
	OutcomeProtocolError  = "protocol_error"
)

// Recorder receives instrumentation events from a Client.
type Recorder interface {
	ObserveCompletion(outcome string, elapsed time.Duration)
	IncRetry()
}

type nopRecorder struct{}

func (nopRecorder) ObserveCompletion(string, time.Duration) {}
func (nopRecorder) IncRetry()                               {}
