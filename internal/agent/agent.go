// File: internal/agent/agent.go
// Description: Thin façade owning the shared state object and the
// dispatcher. All pipeline topology mutation and all state access for the
// rest of the application goes through here.

package agent

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/xkilldash9x/conduit/api/schemas"
	"github.com/xkilldash9x/conduit/internal/config"
	"github.com/xkilldash9x/conduit/internal/dispatcher"
	"github.com/xkilldash9x/conduit/internal/pipeline"
	"github.com/xkilldash9x/conduit/internal/registry"
)

// DefaultPipeline is the pipeline used when Process is called without a
// name. When it is not registered, the dispatcher's auto-discovery fallback
// applies instead.
const DefaultPipeline = "default"

// ErrNotRunning reports a Process call before Initialize or after Shutdown.
var ErrNotRunning = errors.New("agent is not running; call Initialize first")

// Agent coordinates module execution and maintains state across Process
// calls. Process runs one pipeline to completion at a time; the state mutex
// makes concurrent Process calls safe, but they serialize rather than
// interleave.
type Agent struct {
	cfg        *config.Config
	logger     *zap.Logger
	dispatcher *dispatcher.Dispatcher

	mu      sync.Mutex
	state   schemas.Payload
	running bool
}

// New wires an agent with a fresh registry, pipeline table, and dispatcher.
func New(cfg *config.Config, logger *zap.Logger) *Agent {
	reg := registry.New(cfg, logger)
	table := pipeline.NewTable()
	return &Agent{
		cfg:        cfg,
		logger:     logger.Named("agent"),
		dispatcher: dispatcher.New(cfg, logger, reg, table),
		state:      schemas.Payload{},
	}
}

// Initialize discovers modules from the registration list, registers the
// configured pipelines, and preloads the configured module names. It must
// run before the first Process call.
func (a *Agent) Initialize(descriptors []schemas.Descriptor) error {
	a.mu.Lock()
	defer a.mu.Unlock()

	a.logger.Info("Initializing agent")

	reg := a.dispatcher.Registry()
	if err := reg.Discover(descriptors); err != nil {
		return err
	}
	a.logger.Info("Discovered modules", zap.Strings("modules", reg.Names()))

	for name, modules := range a.cfg.Pipelines {
		a.dispatcher.Table().Register(name, modules)
		a.logger.Info("Registered pipeline from config",
			zap.String("pipeline", name), zap.Strings("modules", modules))
	}

	if err := reg.Preload(a.cfg.Runtime.PreloadModules, a.cfg.Runtime.StrictPreload); err != nil {
		return fmt.Errorf("preload failed: %w", err)
	}

	a.running = true
	a.logger.Info("Agent initialized")
	return nil
}

// Process runs input through the named pipeline, or through the default
// pipeline when no name is given. Resolution errors (unknown pipeline or
// module) surface to the caller; individual module failures are isolated
// inside the dispatcher and appear only in logs.
func (a *Agent) Process(ctx context.Context, input schemas.Payload, pipelineName string) (schemas.Payload, error) {
	a.mu.Lock()
	defer a.mu.Unlock()

	if !a.running {
		return nil, ErrNotRunning
	}

	// Leave the name empty for auto-discovery unless a default pipeline is
	// actually registered.
	if pipelineName == "" && a.dispatcher.Table().Has(DefaultPipeline) {
		pipelineName = DefaultPipeline
	}

	enriched := input.Clone()
	if enriched == nil {
		enriched = schemas.Payload{}
	}
	enriched[schemas.KeyTimestamp] = float64(time.Now().UnixNano()) / float64(time.Second)

	return a.dispatcher.Execute(ctx, pipelineName, enriched, a.state)
}

// State returns a deep copy of the current agent state.
func (a *Agent) State() schemas.Payload {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.state.Clone()
}

// UpdateState merges a partial mapping into the live state, last write wins.
// The update is visible to the next Process call.
func (a *Agent) UpdateState(partial map[string]any) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.state.Merge(partial)
}

// RegisterPipeline inserts or overwrites a pipeline definition.
func (a *Agent) RegisterPipeline(name string, modules []string) {
	a.dispatcher.Table().Register(name, modules)
	a.logger.Info("Registered pipeline",
		zap.String("pipeline", name), zap.Strings("modules", modules))
}

// AddModuleToPipeline appends a module to an existing pipeline.
func (a *Agent) AddModuleToPipeline(moduleName, pipelineName string) error {
	if err := a.dispatcher.Table().Add(moduleName, pipelineName, pipeline.PositionEnd); err != nil {
		return err
	}
	a.logger.Info("Added module to pipeline",
		zap.String("module", moduleName), zap.String("pipeline", pipelineName))
	return nil
}

// RemoveModuleFromPipeline removes a module from a pipeline. Whether one or
// every occurrence is removed follows runtime.remove_all_occurrences.
func (a *Agent) RemoveModuleFromPipeline(moduleName, pipelineName string) error {
	if err := a.dispatcher.Table().Remove(moduleName, pipelineName, a.cfg.Runtime.RemoveAllOccurrences); err != nil {
		return err
	}
	a.logger.Info("Removed module from pipeline",
		zap.String("module", moduleName), zap.String("pipeline", pipelineName))
	return nil
}

// Pipelines lists the registered pipeline names.
func (a *Agent) Pipelines() []string {
	return a.dispatcher.Table().Names()
}

// ResolvePipeline returns the current ordered module list for a pipeline.
func (a *Agent) ResolvePipeline(name string) ([]string, error) {
	return a.dispatcher.Table().Resolve(name)
}

// Modules lists the discovered module names in discovery order.
func (a *Agent) Modules() []string {
	return a.dispatcher.Registry().Names()
}

// Shutdown stops the agent and releases every module. Safe to call more
// than once.
func (a *Agent) Shutdown() {
	a.mu.Lock()
	defer a.mu.Unlock()

	if !a.running {
		return
	}
	a.logger.Info("Shutting down agent")
	a.dispatcher.Registry().Close()
	a.running = false
}
