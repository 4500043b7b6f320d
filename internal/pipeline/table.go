// File: internal/pipeline/table.go
package pipeline

import (
	"errors"
	"fmt"
	"sort"
	"sync"
)

// ErrUnknownPipeline reports a pipeline name with no registered definition.
var ErrUnknownPipeline = errors.New("unknown pipeline")

// PositionEnd appends a module at the end of a pipeline when passed to Add.
const PositionEnd = -1

// Table is the in-memory mapping from pipeline name to an ordered sequence
// of module names. Duplicate module names in a pipeline are permitted and
// order is significant. Registration performs no validation of module
// existence; that is deferred to execution, which allows forward-declared
// pipelines referencing modules loaded later.
type Table struct {
	mu        sync.RWMutex
	pipelines map[string][]string
}

// NewTable creates an empty pipeline table.
func NewTable() *Table {
	return &Table{pipelines: make(map[string][]string)}
}

// Register inserts or overwrites a pipeline definition. The module list is
// copied, so the caller keeps ownership of its slice.
func (t *Table) Register(name string, modules []string) {
	t.mu.Lock()
	defer t.mu.Unlock()

	def := make([]string, len(modules))
	copy(def, modules)
	t.pipelines[name] = def
}

// Add inserts a module name into an existing pipeline at the given position.
// PositionEnd (or any out-of-range position) appends. Adding to an
// unregistered pipeline is an error; pipelines are created only through
// Register.
func (t *Table) Add(moduleName, pipelineName string, position int) error {
	t.mu.Lock()
	defer t.mu.Unlock()

	def, ok := t.pipelines[pipelineName]
	if !ok {
		return fmt.Errorf("%w: %q", ErrUnknownPipeline, pipelineName)
	}

	if position < 0 || position >= len(def) {
		t.pipelines[pipelineName] = append(def, moduleName)
		return nil
	}

	def = append(def, "")
	copy(def[position+1:], def[position:])
	def[position] = moduleName
	t.pipelines[pipelineName] = def
	return nil
}

// Remove deletes occurrences of a module name from a pipeline: the first one
// by default, every one when all is set. A module name absent from the
// pipeline is a no-op, not an error; a missing pipeline is an error.
func (t *Table) Remove(moduleName, pipelineName string, all bool) error {
	t.mu.Lock()
	defer t.mu.Unlock()

	def, ok := t.pipelines[pipelineName]
	if !ok {
		return fmt.Errorf("%w: %q", ErrUnknownPipeline, pipelineName)
	}

	out := def[:0]
	removed := false
	for _, m := range def {
		if m == moduleName && (all || !removed) {
			removed = true
			continue
		}
		out = append(out, m)
	}
	t.pipelines[pipelineName] = out
	return nil
}

// Resolve returns a copy of the ordered module list for a pipeline.
func (t *Table) Resolve(name string) ([]string, error) {
	t.mu.RLock()
	defer t.mu.RUnlock()

	def, ok := t.pipelines[name]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownPipeline, name)
	}
	out := make([]string, len(def))
	copy(out, def)
	return out, nil
}

// Has reports whether a pipeline is registered.
func (t *Table) Has(name string) bool {
	t.mu.RLock()
	defer t.mu.RUnlock()
	_, ok := t.pipelines[name]
	return ok
}

// Names returns the registered pipeline names, sorted for stable output.
func (t *Table) Names() []string {
	t.mu.RLock()
	defer t.mu.RUnlock()

	names := make([]string, 0, len(t.pipelines))
	for name := range t.pipelines {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
