package backoff

import (
	"errors"
	"time"
)

// RetryForever is the max attempts value that disables the attempt limit.
const RetryForever uint32 = 0

// RandomFunc returns a non-negative random number, or a negative value if the generator failed.
//
// A true random number generator seeded from an entropy source is recommended.
type RandomFunc func() int32

// Context holds the state of one retry sequence.
//
// A Context is not safe for concurrent use. Create one per retry sequence or
// guard a shared one with a lock.
type Context struct {
	// maxBackoffDelay caps every computed delay, in milliseconds.
	maxBackoffDelay uint16
	// attemptsDone counts successful NextBackoff calls.
	attemptsDone uint32
	// nextJitterCeiling is the upper bound of the next jitter window, in milliseconds.
	nextJitterCeiling uint16
	// maxRetryAttempts is the attempt budget. RetryForever disables it.
	maxRetryAttempts uint32
	// rf produces the random values for the jitter draw.
	rf RandomFunc
	// backoffBase is kept so Reset can restore the first window.
	backoffBase uint16
}

// Initialize (re)populates c. Any previous state is discarded.
//
// backoffBase is the first jitter ceiling, maxBackoff caps every delay and
// maxAttempts limits the number of retries, RetryForever meaning no limit.
// A base above maxBackoff starts the window at maxBackoff.
func Initialize(c *Context, backoffBase, maxBackoff uint16, maxAttempts uint32, rf RandomFunc) {
	c.Init(backoffBase, maxBackoff, maxAttempts, rf)
}

// Init is the method form of Initialize.
func (c *Context) Init(backoffBase, maxBackoff uint16, maxAttempts uint32, rf RandomFunc) {
	*c = Context{
		maxBackoffDelay:   maxBackoff,
		nextJitterCeiling: min(backoffBase, maxBackoff),
		maxRetryAttempts:  maxAttempts,
		rf:                rf,
		backoffBase:       backoffBase,
	}
}

// Reset starts a new retry sequence with the parameters last given to Init.
func (c *Context) Reset() {
	c.Init(c.backoffBase, c.maxBackoffDelay, c.maxRetryAttempts, c.rf)
}

// NextBackoff returns the delay in milliseconds to wait before the next retry.
//
// The delay is drawn from [0, ceiling] where ceiling doubles on each successful
// call up to the configured maximum. The returned delay is only meaningful
// when the status is Success. On RNGFailure the context is left untouched and
// the call may be repeated. RetriesExhausted is returned for every call once
// the attempt budget is spent.
func (c *Context) NextBackoff() (uint16, Status) {
	if c.maxRetryAttempts != RetryForever && c.attemptsDone >= c.maxRetryAttempts {
		return 0, RetriesExhausted
	}

	if c.rf == nil {
		return 0, RNGFailure
	}

	r := c.rf()
	if r < 0 {
		return 0, RNGFailure
	}

	next := uint16(uint32(r) % (uint32(c.nextJitterCeiling) + 1))

	c.attemptsDone++

	ceiling := uint32(c.nextJitterCeiling) * 2
	if ceiling > uint32(c.maxBackoffDelay) {
		ceiling = uint32(c.maxBackoffDelay)
	}
	c.nextJitterCeiling = uint16(ceiling)

	return next, Success
}

// Next is NextBackoff with the delay as a time.Duration and the status as an error.
func (c *Context) Next() (time.Duration, error) {
	ms, status := c.NextBackoff()
	if err := status.Err(); err != nil {
		return 0, err
	}

	return time.Duration(ms) * time.Millisecond, nil
}

// AttemptsDone returns the number of successful NextBackoff calls.
func (c *Context) AttemptsDone() uint32 {
	return c.attemptsDone
}

// JitterCeiling returns the upper bound of the next jitter window in milliseconds.
func (c *Context) JitterCeiling() uint16 {
	return c.nextJitterCeiling
}

// MaxBackoffDelay returns the configured delay cap in milliseconds.
func (c *Context) MaxBackoffDelay() uint16 {
	return c.maxBackoffDelay
}

// MaxRetryAttempts returns the configured attempt budget.
func (c *Context) MaxRetryAttempts() uint32 {
	return c.maxRetryAttempts
}

// Validate checks the configuration for values that make the context useless.
// Init never calls it.
func (c *Context) Validate() error {
	if c.rf == nil {
		return errors.New("random function cannot be nil")
	}
	if c.maxBackoffDelay == 0 {
		return errors.New("maximum backoff must be greater than zero")
	}
	if c.backoffBase > c.maxBackoffDelay {
		return errors.New("maximum backoff must not be less than backoff base")
	}

	return nil
}
