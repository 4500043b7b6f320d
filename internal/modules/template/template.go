// File: internal/modules/template/template.go
package template

import (
	"context"
	"fmt"
	"strings"
	"text/template"

	"github.com/xkilldash9x/conduit/api/schemas"
)

type moduleConfig struct {
	Template  string `json:"template"`
	OutputKey string `json:"output_key"`
}

// Module renders a configured text/template against each input payload. The
// payload (including the injected state snapshot) is the template's data, so
// templates can reference both caller input and agent state:
//
//	"{{.text}} seen {{index ._agent_state \"counter_total\"}} times"
//
// The template is parsed once during Initialize; an invalid template makes
// the module unavailable rather than failing every run.
type Module struct {
	name   string
	config map[string]any

	tmpl      *template.Template
	outputKey string
}

// New is the module factory registered under "template".
func New(name string, config map[string]any) schemas.Module {
	return &Module{name: name, config: config}
}

func (m *Module) Name() string { return m.name }

func (m *Module) Initialize() error {
	cfg := moduleConfig{OutputKey: "result"}
	if err := schemas.RemarshalConfig(m.config, &cfg); err != nil {
		return fmt.Errorf("invalid template config: %w", err)
	}
	if cfg.Template == "" {
		return fmt.Errorf("template module %q requires a 'template' config value", m.name)
	}

	tmpl, err := template.New(m.name).Option("missingkey=zero").Parse(cfg.Template)
	if err != nil {
		return fmt.Errorf("failed to parse template: %w", err)
	}

	m.tmpl = tmpl
	m.outputKey = cfg.OutputKey
	return nil
}

func (m *Module) Process(_ context.Context, input schemas.Payload) (schemas.Payload, error) {
	var sb strings.Builder
	if err := m.tmpl.Execute(&sb, map[string]any(input)); err != nil {
		return nil, fmt.Errorf("template execution failed: %w", err)
	}

	out := input.Clone()
	out[m.outputKey] = sb.String()
	return out, nil
}

func (m *Module) Shutdown() error { return nil }
