// File: internal/registry/registry.go
// Description: Discovers module implementations from a compile-time
// registration list, instantiates them with module-scoped configuration, and
// caches the live instances for the lifetime of the dispatcher.

package registry

import (
	"fmt"
	"sync"

	"go.uber.org/zap"

	"github.com/xkilldash9x/conduit/api/schemas"
	"github.com/xkilldash9x/conduit/internal/config"
)

// Registry owns every live module instance. Instantiation is idempotent:
// repeated Get calls for the same name return the identical instance, so a
// module's private state persists across pipeline runs.
type Registry struct {
	cfg    *config.Config
	logger *zap.Logger

	mu          sync.Mutex
	descriptors map[string]schemas.Descriptor
	// order preserves discovery order for auto-discovered pipelines.
	order     []string
	instances map[string]schemas.Module
}

// New creates an empty registry. Discover must run before the registry can
// serve instances.
func New(cfg *config.Config, logger *zap.Logger) *Registry {
	return &Registry{
		cfg:         cfg,
		logger:      logger.Named("registry"),
		descriptors: make(map[string]schemas.Descriptor),
		instances:   make(map[string]schemas.Module),
	}
}

// Discover populates the registry from a registration list. A malformed
// descriptor (empty name or nil factory) is skipped with a warning rather
// than failing discovery as a whole; a nil registration list is fatal. A
// duplicate name overwrites the earlier descriptor and keeps its position in
// discovery order.
func (r *Registry) Discover(descriptors []schemas.Descriptor) error {
	if descriptors == nil {
		return fmt.Errorf("%w: nil registration list", ErrDiscovery)
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	for _, d := range descriptors {
		if d.Name == "" || d.New == nil {
			r.logger.Warn("Skipping malformed module descriptor",
				zap.String("name", d.Name),
				zap.Bool("has_factory", d.New != nil))
			continue
		}
		if _, exists := r.descriptors[d.Name]; !exists {
			r.order = append(r.order, d.Name)
		}
		r.descriptors[d.Name] = d
	}

	r.logger.Info("Module discovery complete", zap.Int("count", len(r.descriptors)))
	return nil
}

// Names returns the known module names in discovery order.
func (r *Registry) Names() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]string, len(r.order))
	copy(out, r.order)
	return out
}

// Known reports whether a descriptor exists for name. It never instantiates.
func (r *Registry) Known(name string) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	_, ok := r.descriptors[name]
	return ok
}

// Get returns the cached instance for name, constructing and initializing it
// on first use. The instance receives its own copy of the module-scoped
// configuration slice, so one module can never see or mutate another's
// config.
func (r *Registry) Get(name string) (schemas.Module, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.getLocked(name)
}

func (r *Registry) getLocked(name string) (schemas.Module, error) {
	if inst, ok := r.instances[name]; ok {
		return inst, nil
	}

	desc, ok := r.descriptors[name]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownModule, name)
	}

	moduleCfg := map[string]any(schemas.Payload(r.cfg.ModuleConfig(name)).Clone())
	inst := desc.New(name, moduleCfg)
	if err := inst.Initialize(); err != nil {
		return nil, &InitError{Module: name, Err: err}
	}

	r.instances[name] = inst
	r.logger.Info("Loaded module", zap.String("module", name))
	return inst, nil
}

// Preload eagerly initializes the named modules, in order. In lenient mode a
// failure is logged and the remaining names still load; in strict mode the
// first failure aborts and is returned.
func (r *Registry) Preload(names []string, strict bool) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, name := range names {
		if _, err := r.getLocked(name); err != nil {
			if strict {
				return fmt.Errorf("strict preload aborted: %w", err)
			}
			r.logger.Error("Failed to preload module",
				zap.String("module", name), zap.Error(err))
		}
	}
	return nil
}

// Unload shuts down and evicts a single instance. The descriptor stays
// registered, so a later Get builds a fresh instance.
func (r *Registry) Unload(name string) {
	r.mu.Lock()
	defer r.mu.Unlock()

	inst, ok := r.instances[name]
	if !ok {
		return
	}
	if err := inst.Shutdown(); err != nil {
		r.logger.Warn("Module shutdown returned an error",
			zap.String("module", name), zap.Error(err))
	}
	delete(r.instances, name)
	r.logger.Info("Unloaded module", zap.String("module", name))
}

// Close shuts down every live instance, in discovery order.
func (r *Registry) Close() {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, name := range r.order {
		inst, ok := r.instances[name]
		if !ok {
			continue
		}
		if err := inst.Shutdown(); err != nil {
			r.logger.Warn("Module shutdown returned an error",
				zap.String("module", name), zap.Error(err))
		}
		delete(r.instances, name)
	}
	r.logger.Info("All modules unloaded")
}
