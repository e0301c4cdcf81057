package runtime

import "sync"

// Config holds coordinator construction parameters, applied once at lazy
// init. Grounded on the functional-options pattern used throughout the
// retrieved pack (see _examples/joeycumines-go-utilpkg/eventloop/options.go).
type Config struct {
	// Workers overrides the worker pool size; 0 means GOMAXPROCS - 1,
	// floor 1.
	Workers int
	// FiberCap overrides the hard live-fiber limit; 0 means the spec's
	// default of 15,000.
	FiberCap int
}

// Option configures the coordinator before its first use.
type Option func(*Config)

// WithWorkers overrides the worker pool size.
func WithWorkers(n int) Option {
	return func(c *Config) { c.Workers = n }
}

// WithFiberCap overrides the hard live-fiber cap.
func WithFiberCap(n int) Option {
	return func(c *Config) { c.FiberCap = n }
}

var (
	configMu      sync.Mutex
	pendingConfig Config
)

// Configure applies options to the configuration used by the next lazy
// coordinator construction. Calling it after the coordinator has already
// been constructed is a programming error (spec §7 category 1): the
// coordinator is a process-wide singleton and its worker pool size is
// fixed at startup.
func Configure(opts ...Option) {
	configMu.Lock()
	defer configMu.Unlock()
	if constructedCoordinator() != nil {
		fatalf("Configure", "Configure called after the coordinator was already constructed")
		return
	}
	for _, opt := range opts {
		opt(&pendingConfig)
	}
}

func currentConfig() Config {
	configMu.Lock()
	defer configMu.Unlock()
	return pendingConfig
}
