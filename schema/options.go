package schema

type options struct {
	failFast    bool
	concurrency int
}

// Option configures a validation call.
type Option func(*options)

// WithFailFast stops at the first failure instead of collecting all of them.
func WithFailFast() Option {
	return func(o *options) {
		o.failFast = true
	}
}

// WithConcurrency validates sequence entries with up to n workers. Values
// below 2 validate sequentially.
func WithConcurrency(n int) Option {
	return func(o *options) {
		o.concurrency = n
	}
}

func newOptions(opts []Option) *options {
	o := &options{}
	for _, opt := range opts {
		opt(o)
	}
	return o
}
