// File: internal/modules/builtin.go
// Package modules holds the built-in module implementations and the
// registration list the registry discovers them from. Adding a module means
// adding its package and one line here; there is no runtime code scanning.
package modules

import (
	"github.com/xkilldash9x/conduit/api/schemas"
	"github.com/xkilldash9x/conduit/internal/modules/counter"
	"github.com/xkilldash9x/conduit/internal/modules/echo"
	"github.com/xkilldash9x/conduit/internal/modules/httpfetch"
	"github.com/xkilldash9x/conduit/internal/modules/stamp"
	"github.com/xkilldash9x/conduit/internal/modules/template"
)

// Builtins returns the registration list of every built-in module, in
// discovery order. Auto-discovered pipelines execute in exactly this order.
func Builtins() []schemas.Descriptor {
	return []schemas.Descriptor{
		{Name: "stamp", New: stamp.New},
		{Name: "echo", New: echo.New},
		{Name: "counter", New: counter.New},
		{Name: "template", New: template.New},
		{Name: "httpfetch", New: httpfetch.New},
	}
}
