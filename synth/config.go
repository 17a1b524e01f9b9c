package synth

// Config configures Synthesize's DFS over the virtual product.
//
// spec.md §5 notes that the core has no cancellation contract but "an
// implementation may interpose a cooperative abort callback checked at each
// outer DFS iteration" — Abort/AbortEvery are that hook, following the
// teacher's dfa/lazy.Config idiom of a plain struct plus DefaultConfig and
// fluent With* setters.
type Config struct {
	// AbortEvery is how many DFS pops occur between checks of Abort. Zero
	// disables abort checking.
	AbortEvery int

	// Abort, if non-nil, is polled every AbortEvery DFS pops; if it returns
	// true, Synthesize stops exploring and materialises whatever has been
	// kept so far. Aborting early is not part of the contract in spec.md §5
	// and the resulting automaton is not guaranteed maximal.
	Abort func() bool

	// MaterializeHint pre-sizes the kept-state map to reduce rehashing for
	// callers who know roughly how many states will survive synthesis.
	// Zero means no hint.
	MaterializeHint int
}

// DefaultConfig returns a Config with abort checking disabled and no
// materialisation size hint.
func DefaultConfig() Config {
	return Config{
		AbortEvery:      0,
		Abort:           nil,
		MaterializeHint: 0,
	}
}

// Validate checks that c's fields are internally consistent.
func (c *Config) Validate() error {
	if c.AbortEvery < 0 {
		return newError(InvalidConfig, "AbortEvery must be >= 0")
	}
	if c.Abort != nil && c.AbortEvery <= 0 {
		return newError(InvalidConfig, "AbortEvery must be > 0 when Abort is set")
	}
	if c.MaterializeHint < 0 {
		return newError(InvalidConfig, "MaterializeHint must be >= 0")
	}
	return nil
}

// WithAbortEvery returns a new config with the specified abort-check
// interval.
func (c Config) WithAbortEvery(n int) Config {
	c.AbortEvery = n
	return c
}

// WithAbort returns a new config with the specified abort hook.
func (c Config) WithAbort(f func() bool) Config {
	c.Abort = f
	return c
}

// WithMaterializeHint returns a new config with the specified materialise
// size hint.
func (c Config) WithMaterializeHint(n int) Config {
	c.MaterializeHint = n
	return c
}
