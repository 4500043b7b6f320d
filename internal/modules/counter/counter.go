// File: internal/modules/counter/counter.go
package counter

import (
	"context"
	"fmt"

	"github.com/xkilldash9x/conduit/api/schemas"
)

type moduleConfig struct {
	StateKey string `json:"state_key"`
}

// Module counts its own invocations in a private field that survives across
// pipeline runs, and publishes the running total both in the payload and as
// a state-update fragment. It demonstrates (and tests rely on) instance
// identity: the registry hands out the same instance every time, so the
// count is cumulative.
type Module struct {
	name     string
	config   map[string]any
	stateKey string

	// count is private mutable state. Only this instance touches it; the
	// dispatcher serializes invocations, so no lock is needed.
	count int
}

// New is the module factory registered under "counter".
func New(name string, config map[string]any) schemas.Module {
	return &Module{name: name, config: config}
}

func (m *Module) Name() string { return m.name }

func (m *Module) Initialize() error {
	cfg := moduleConfig{StateKey: "counter_total"}
	if err := schemas.RemarshalConfig(m.config, &cfg); err != nil {
		return fmt.Errorf("invalid counter config: %w", err)
	}
	m.stateKey = cfg.StateKey
	return nil
}

func (m *Module) Process(_ context.Context, input schemas.Payload) (schemas.Payload, error) {
	m.count++

	out := input.Clone()
	out["result"] = m.count
	out[schemas.KeyAgentStateUpdate] = map[string]any{m.stateKey: m.count}
	return out, nil
}

func (m *Module) Shutdown() error { return nil }
