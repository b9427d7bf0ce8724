package backoff

type Option func(p *params)

type params struct {
	backoffBase uint16
	maxBackoff  uint16
	maxAttempts uint32
	rf          RandomFunc
}

// Default configuration values
const (
	DefaultBackoffBase uint16 = 500
	DefaultMaxBackoff  uint16 = 5000
	DefaultMaxAttempts        = RetryForever
)

// WithBackoffBase sets the first jitter ceiling in milliseconds. Default is 500.
func WithBackoffBase(ms uint16) Option {
	return func(p *params) {
		p.backoffBase = ms
	}
}

// WithMaxBackoff sets the maximum delay in milliseconds. Default is 5000.
func WithMaxBackoff(ms uint16) Option {
	return func(p *params) {
		p.maxBackoff = ms
	}
}

// WithMaxAttempts sets the number of retries before the sequence is exhausted.
// RetryForever disables the limit, which is the default.
func WithMaxAttempts(n uint32) Option {
	return func(p *params) {
		p.maxAttempts = n
	}
}

// WithRandomFunc sets the random source used for the jitter draw.
func WithRandomFunc(rf RandomFunc) Option {
	return func(p *params) {
		p.rf = rf
	}
}

// New creates an initialized context with the default configuration.
func New(options ...Option) *Context {
	p := params{
		backoffBase: DefaultBackoffBase,
		maxBackoff:  DefaultMaxBackoff,
		maxAttempts: DefaultMaxAttempts,
	}
	for _, o := range options {
		o(&p)
	}
	if p.rf == nil {
		p.rf = DefaultRandomFunc()
	}

	c := &Context{}
	c.Init(p.backoffBase, p.maxBackoff, p.maxAttempts, p.rf)

	return c
}
