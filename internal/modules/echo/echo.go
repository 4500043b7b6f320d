// File: internal/modules/echo/echo.go
package echo

import (
	"context"
	"fmt"

	"github.com/xkilldash9x/conduit/api/schemas"
)

// moduleConfig is the typed shape of this module's config slice.
type moduleConfig struct {
	Suffix string `json:"suffix"`
	Key    string `json:"key"`
}

// Module echoes a payload field back under "result", with a configurable
// suffix. It exists mostly as the smallest possible worked example of the
// module contract, and as the workhorse of the end-to-end tests.
type Module struct {
	name   string
	config map[string]any
	suffix string
	key    string
}

// New is the module factory registered under "echo".
func New(name string, config map[string]any) schemas.Module {
	return &Module{name: name, config: config}
}

func (m *Module) Name() string { return m.name }

func (m *Module) Initialize() error {
	cfg := moduleConfig{Suffix: "!", Key: "text"}
	if err := schemas.RemarshalConfig(m.config, &cfg); err != nil {
		return fmt.Errorf("invalid echo config: %w", err)
	}
	m.suffix = cfg.Suffix
	m.key = cfg.Key
	return nil
}

func (m *Module) Process(_ context.Context, input schemas.Payload) (schemas.Payload, error) {
	text := input.String(m.key)
	if text == "" {
		// The interactive shell feeds lines under "user_input".
		text = input.String("user_input")
	}

	out := input.Clone()
	out["result"] = text + m.suffix
	return out, nil
}

func (m *Module) Shutdown() error { return nil }
