package hypergraph

import "log/slog"

// Option configures store construction behavior.
type Option func(*config)

// config holds internal configuration for a HyperGraph.
type config struct {
	logger   *slog.Logger
	validate bool
}

// WithLogger enables debug logging for store operations.
//
// When set, the store logs detailed information about:
//   - Atom interning and vertex allocation
//   - Pattern insertion (width, child count)
//   - In-place pattern replacement and range factoring
//
// Pass nil to disable logging (the default).
func WithLogger(logger *slog.Logger) Option {
	return func(cfg *config) {
		cfg.logger = logger
	}
}

// WithValidation enables post-mutation invariant checking.
//
// After every mutation the touched vertex is re-checked for width
// closure and back-edge consistency; a violation panics, because it
// means an invariant of the store has been lost. Intended for tests and
// debug builds; the checks walk every decomposition of the touched
// vertex and are not free.
func WithValidation() Option {
	return func(cfg *config) {
		cfg.validate = true
	}
}
