package querysql

import (
	"fmt"

	"github.com/roach88/sqlgen/internal/queryir"
)

// paramRegistry deduplicates and renames parameter placeholders within one
// generation call.
//
// Two placeholders sharing a name collapse onto one binding only when
// their store type and value converter are identical. A same-named
// placeholder with a different mapping gets a fresh unique name
// ("name_1", "name_2", ...) and its own binding, so differently-typed
// occurrences never collide under one binding.
//
// The registry is call-local (reset by construction per Generate call) and
// must never be shared across invocations.
type paramRegistry struct {
	entries map[string][]paramEntry
}

type paramEntry struct {
	assigned string
	mapping  queryir.TypeMapping
}

func newParamRegistry() *paramRegistry {
	return &paramRegistry{entries: make(map[string][]paramEntry)}
}

// Register resolves the binding name for a placeholder. It returns the
// assigned name and whether this occurrence introduces a new binding that
// the caller must record.
func (r *paramRegistry) Register(name string, mapping queryir.TypeMapping) (string, bool) {
	existing := r.entries[name]
	for _, e := range existing {
		if e.mapping.Same(mapping) {
			return e.assigned, false
		}
	}
	assigned := name
	if n := len(existing); n > 0 {
		assigned = fmt.Sprintf("%s_%d", name, n)
	}
	r.entries[name] = append(existing, paramEntry{assigned: assigned, mapping: mapping})
	return assigned, true
}
