// File: internal/modules/stamp/stamp.go
package stamp

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/xkilldash9x/conduit/api/schemas"
)

// Module annotates each payload with a unique id and an RFC3339 timestamp.
// Placed at the head of a pipeline it gives downstream modules (and the
// caller) a correlation handle that survives the whole run.
type Module struct {
	name string
}

// New is the module factory registered under "stamp".
func New(name string, _ map[string]any) schemas.Module {
	return &Module{name: name}
}

func (m *Module) Name() string { return m.name }

func (m *Module) Initialize() error { return nil }

func (m *Module) Process(_ context.Context, input schemas.Payload) (schemas.Payload, error) {
	out := input.Clone()
	out["id"] = uuid.New().String()
	out["stamped_at"] = time.Now().UTC().Format(time.RFC3339)
	return out, nil
}

func (m *Module) Shutdown() error { return nil }
