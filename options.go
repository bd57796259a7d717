package async2

import "github.com/rs/zerolog"

// Option configures a Loop at construction time, in the functional-options
// style used throughout the retrieved pack's service constructors.
type Option func(*Loop)

// WithLogger installs a zerolog.Logger the loop reports lifecycle events
// to. The default is zerolog.Nop(), matching the ambient rule that
// observability is opt-in for a library this size.
func WithLogger(l zerolog.Logger) Option {
	return func(lp *Loop) { lp.logger = l }
}

// WithInitialCapacity pre-reserves room for n scheduled tasks, avoiding the
// first few growth reallocations for a loop whose expected load is known
// up front.
func WithInitialCapacity(n int) Option {
	return func(lp *Loop) {
		lp.events.Reserve(n)
		lp.vacant.Reserve(n)
	}
}
