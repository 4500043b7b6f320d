// File: internal/dispatcher/dispatcher.go
// Description: Turns a pipeline name and an input payload into an executed
// module chain. Resolution failures abort the run; per-module runtime
// failures are contained, logged, and skipped.

package dispatcher

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/xkilldash9x/conduit/api/schemas"
	"github.com/xkilldash9x/conduit/internal/config"
	"github.com/xkilldash9x/conduit/internal/pipeline"
	"github.com/xkilldash9x/conduit/internal/registry"
)

// ErrNoPipeline reports that no pipeline name was given and no fallback was
// available (auto-discovery disabled, or enabled with no known modules).
var ErrNoPipeline = errors.New("no pipeline specified and no fallback available")

// Dispatcher owns the module registry and the pipeline table, and executes
// resolved pipelines as a sequential fold over a shared state mapping.
// Modules never see the live state: each invocation receives a deep snapshot
// and returns an explicit update fragment that the dispatcher merges.
type Dispatcher struct {
	cfg      *config.Config
	logger   *zap.Logger
	registry *registry.Registry
	table    *pipeline.Table
}

// New creates a dispatcher over an already-constructed registry and table.
func New(cfg *config.Config, logger *zap.Logger, reg *registry.Registry, table *pipeline.Table) *Dispatcher {
	return &Dispatcher{
		cfg:      cfg,
		logger:   logger.Named("dispatcher"),
		registry: reg,
		table:    table,
	}
}

// Registry exposes the dispatcher's module registry to the owning agent.
func (d *Dispatcher) Registry() *registry.Registry { return d.registry }

// Table exposes the dispatcher's pipeline table to the owning agent.
func (d *Dispatcher) Table() *pipeline.Table { return d.table }

// Execute runs the named pipeline against the input payload and the live
// state mapping. An empty pipelineName falls back to an ad-hoc pipeline of
// all known modules in discovery order when auto-discovery is enabled.
//
// Every module name is validated against the registry before any module
// runs, so an unknown name aborts the run with nothing executed. After
// validation, one module's failure (error or panic) no longer aborts the
// run: the failure is logged, its output is discarded, and the unchanged
// payload flows to the next module. If every module fails, the input payload
// is returned unchanged rather than raising: callers can distinguish that
// case from the logs, and it keeps the isolation contract symmetrical.
//
// State is mutated only here: after each successful call the module's
// state-update fragment, if any, is merged into state last-write-wins.
func (d *Dispatcher) Execute(ctx context.Context, pipelineName string, input, state schemas.Payload) (schemas.Payload, error) {
	names, err := d.resolveNames(pipelineName)
	if err != nil {
		return nil, err
	}

	// Validate all names before running anything. Predictability beats
	// partial execution: a pipeline with a typo in its last module should
	// not run its first four.
	for _, name := range names {
		if !d.registry.Known(name) {
			return nil, fmt.Errorf("pipeline %q: %w: %q", displayName(pipelineName), registry.ErrUnknownModule, name)
		}
	}

	runID := uuid.New().String()
	logger := d.logger.With(
		zap.String("run_id", runID),
		zap.String("pipeline", displayName(pipelineName)))
	logger.Info("Executing pipeline", zap.Strings("modules", names))

	payload := input.Clone()
	if payload == nil {
		payload = schemas.Payload{}
	}
	payload[schemas.KeyRunID] = runID

	failed := 0
	for _, name := range names {
		inst, err := d.registry.Get(name)
		if err != nil {
			if errors.Is(err, registry.ErrUnknownModule) {
				// A concurrent unload between validation and execution.
				return nil, err
			}
			// Lazy initialization failed; the module is unavailable. That is
			// a per-module fault, isolated like a Process failure.
			logger.Error("Module unavailable, skipping", zap.String("module", name), zap.Error(err))
			failed++
			continue
		}

		output, err := d.invoke(ctx, logger, inst, payload, state)
		if err != nil {
			logger.Warn("Module failed, continuing with payload unchanged",
				zap.String("module", name), zap.Error(err))
			failed++
			continue
		}

		if frag, ok := output.StateUpdate(); ok {
			state.Merge(frag)
			logger.Debug("Merged state update fragment",
				zap.String("module", name), zap.Int("keys", len(frag)))
		}

		delete(output, schemas.KeyAgentState)
		delete(output, schemas.KeyAgentStateUpdate)
		payload = output
	}

	if len(names) > 0 && failed == len(names) {
		logger.Warn("Every module in the pipeline failed; returning input unchanged")
		return input.Clone(), nil
	}

	return payload, nil
}

// resolveNames maps a pipeline name to its ordered module list, or
// synthesizes the auto-discovery fallback.
func (d *Dispatcher) resolveNames(pipelineName string) ([]string, error) {
	if pipelineName != "" {
		return d.table.Resolve(pipelineName)
	}
	if !d.cfg.Runtime.AutoDiscover {
		return nil, ErrNoPipeline
	}
	names := d.registry.Names()
	if len(names) == 0 {
		return nil, fmt.Errorf("%w: auto-discovery found no modules", ErrNoPipeline)
	}
	return names, nil
}

// invoke runs a single module call: snapshot injection, optional timeout,
// and panic containment. The timeout is cooperative; a module that ignores
// its context still blocks the pipeline, which is the documented tradeoff of
// the single-threaded execution model.
func (d *Dispatcher) invoke(ctx context.Context, logger *zap.Logger, inst schemas.Module, payload, state schemas.Payload) (out schemas.Payload, err error) {
	moduleInput := payload.Clone()
	moduleInput[schemas.KeyAgentState] = map[string]any(state.Clone())

	callCtx := ctx
	if d.cfg.Runtime.ModuleTimeout > 0 {
		var cancel context.CancelFunc
		callCtx, cancel = context.WithTimeout(ctx, d.cfg.Runtime.ModuleTimeout)
		defer cancel()
	}

	defer func() {
		if r := recover(); r != nil {
			out = nil
			err = fmt.Errorf("module %q panicked: %v", inst.Name(), r)
		}
	}()

	logger.Debug("Invoking module", zap.String("module", inst.Name()))
	out, err = inst.Process(callCtx, moduleInput)
	if err != nil {
		return nil, err
	}
	if out == nil {
		out = schemas.Payload{}
	}
	return out, nil
}

func displayName(pipelineName string) string {
	if pipelineName == "" {
		return "(auto)"
	}
	return pipelineName
}
