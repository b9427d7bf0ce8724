package backoff

import "errors"

// Status is the outcome of NextBackoff.
type Status uint8

const (
	// Success means a delay was computed and the attempt counted.
	Success Status = iota
	// RNGFailure means the random source returned a negative value. Nothing changed.
	RNGFailure
	// RetriesExhausted means the attempt budget is spent.
	RetriesExhausted
)

var (
	// ErrRNGFailure is the error form of RNGFailure.
	ErrRNGFailure = errors.New("random number generator failed")
	// ErrRetriesExhausted is the error form of RetriesExhausted.
	ErrRetriesExhausted = errors.New("retry attempts exhausted")
)

// String returns a lower case name for logging.
func (s Status) String() string {
	switch s {
	case Success:
		return "success"
	case RNGFailure:
		return "rng failure"
	case RetriesExhausted:
		return "retries exhausted"
	default:
		return "unknown"
	}
}

// Err returns the sentinel error for s, nil for Success.
func (s Status) Err() error {
	switch s {
	case Success:
		return nil
	case RNGFailure:
		return ErrRNGFailure
	case RetriesExhausted:
		return ErrRetriesExhausted
	default:
		return errors.New("unknown backoff status")
	}
}
