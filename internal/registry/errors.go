// File: internal/registry/errors.go
package registry

import (
	"errors"
	"fmt"
)

// ErrDiscovery reports that the module registration source was unusable.
// It is fatal to startup; a registry that cannot discover anything cannot
// serve a dispatcher.
var ErrDiscovery = errors.New("module discovery failed")

// ErrUnknownModule reports a module name with no matching descriptor. It is
// fatal to any pipeline run that references the name.
var ErrUnknownModule = errors.New("unknown module")

// InitError wraps a module's Initialize failure. In strict preload mode it
// aborts startup; in lenient mode it is logged and the module is left
// unavailable.
type InitError struct {
	Module string
	Err    error
}

func (e *InitError) Error() string {
	return fmt.Sprintf("module %q failed to initialize: %v", e.Module, e.Err)
}

func (e *InitError) Unwrap() error { return e.Err }
