// File: api/schemas/payload.go
package schemas

import (
	jsoniter "github.com/json-iterator/go"
)

// json is the package-wide jsoniter instance, configured to behave like the
// standard library so payloads round-trip predictably.
var json = jsoniter.ConfigCompatibleWithStandardLibrary

// Reserved payload keys. Modules communicate with the runtime exclusively
// through these keys; everything else in a payload belongs to the modules.
const (
	// KeyAgentState carries a read-only snapshot of the agent's shared state
	// into each module invocation. It is injected by the dispatcher and
	// stripped before the payload is handed back to the caller.
	KeyAgentState = "_agent_state"

	// KeyAgentStateUpdate is the output-only fragment a module returns when
	// it wants keys merged into the agent's shared state. The dispatcher
	// merges and strips it; it never survives into the final output.
	KeyAgentStateUpdate = "_agent_state_update"

	// KeyTimestamp is the Unix timestamp (float seconds) injected into the
	// initial payload of every Process call.
	KeyTimestamp = "_timestamp"

	// KeyRunID is the unique identifier of a single pipeline execution,
	// injected alongside the timestamp.
	KeyRunID = "_run_id"
)

// Payload is the unit of data flowing through a pipeline. It is passed by
// value between the dispatcher and modules, but the map itself is shared, so
// the runtime always hands modules a deep clone of anything it must not let
// them mutate.
type Payload map[string]any

// Clone returns a deep copy of the payload. Nested maps and slices are
// copied recursively; scalar values are shared, which is safe because the
// runtime treats them as immutable.
func (p Payload) Clone() Payload {
	if p == nil {
		return nil
	}
	out := make(Payload, len(p))
	for k, v := range p {
		out[k] = cloneValue(v)
	}
	return out
}

func cloneValue(v any) any {
	switch val := v.(type) {
	case Payload:
		return val.Clone()
	case map[string]any:
		out := make(map[string]any, len(val))
		for k, inner := range val {
			out[k] = cloneValue(inner)
		}
		return out
	case []any:
		out := make([]any, len(val))
		for i, inner := range val {
			out[i] = cloneValue(inner)
		}
		return out
	default:
		return v
	}
}

// Merge copies every key from other into p, overwriting existing keys.
// Last write wins; this is the primitive behind state-fragment merging.
func (p Payload) Merge(other map[string]any) {
	for k, v := range other {
		p[k] = v
	}
}

// StateUpdate extracts the state-update fragment from a module's output, if
// present. The second return reports whether a well-formed fragment existed.
// A fragment of the wrong type is treated as absent; the caller decides
// whether that is worth a log line.
func (p Payload) StateUpdate() (map[string]any, bool) {
	raw, ok := p[KeyAgentStateUpdate]
	if !ok {
		return nil, false
	}
	switch frag := raw.(type) {
	case map[string]any:
		return frag, true
	case Payload:
		return frag, true
	default:
		return nil, false
	}
}

// String returns the string value stored under key, or "" when the key is
// missing or holds a non-string.
func (p Payload) String(key string) string {
	s, _ := p[key].(string)
	return s
}

// MarshalPayload serializes a payload with stable, human-readable
// indentation for CLI output and logs.
func MarshalPayload(p Payload) ([]byte, error) {
	return json.MarshalIndent(p, "", "  ")
}

// UnmarshalPayload parses raw JSON into a payload.
func UnmarshalPayload(data []byte) (Payload, error) {
	var p Payload
	if err := json.Unmarshal(data, &p); err != nil {
		return nil, err
	}
	return p, nil
}

// RemarshalConfig converts a generic module configuration mapping into a
// typed struct by round-tripping it through JSON. Modules use this to give
// their config slice a concrete shape without depending on the config loader.
func RemarshalConfig(config map[string]any, v any) error {
	if config == nil {
		return nil
	}
	data, err := json.Marshal(config)
	if err != nil {
		return err
	}
	return json.Unmarshal(data, v)
}
