// File: api/schemas/module.go
package schemas

import "context"

// Module is the capability contract every processing unit must satisfy to be
// composed into a pipeline. Implementations are constructed by a Factory,
// initialized exactly once, and then invoked any number of times by the
// dispatcher. A module owns whatever private mutable state it carries (for
// example counters); no other module can reach it.
type Module interface {
	// Name returns the module's registered name. It is set by the factory
	// from the descriptor and used for logging and config scoping.
	Name() string

	// Initialize is called exactly once, after construction and before the
	// first Process call. An error here makes the module unavailable.
	Initialize() error

	// Process transforms an input payload into an output payload. The input
	// contains a read-only state snapshot under KeyAgentState; the output
	// may contain a state-update fragment under KeyAgentStateUpdate.
	// Returning an error isolates the failure to this module: the pipeline
	// continues with the payload unchanged.
	Process(ctx context.Context, input Payload) (Payload, error)

	// Shutdown releases any resources the module holds. Called when the
	// module is unloaded or the registry is closed.
	Shutdown() error
}

// Factory constructs a configured module instance. The config mapping is the
// module-scoped slice of the global configuration, keyed by module name.
type Factory func(name string, config map[string]any) Module

// Descriptor identifies a discoverable module implementation: a unique name
// and the factory that builds it. Descriptors are assembled into a
// registration list at compile time; there is no runtime code scanning.
type Descriptor struct {
	Name string
	New  Factory
}
