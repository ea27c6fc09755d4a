/*
Package heavy tracks which on-screen elements currently hold expensive
resources: decoded frame caches, streaming players, animation handles.

Elements register when they create their first heavy resource and are
checked out at the exact transition where the resource is dropped, so
the registry can serve as the roster for a global unload sweep under
memory pressure.

Entries are keyed by an arena-style ID rather than held as raw element
references, so a stale ID is a harmless no-op instead of a dangling
pointer. The registry is mutated only on the UI goroutine.
*/
package heavy

import "github.com/rs/zerolog"

// Part is an element able to report and release heavy resources.
type Part interface {
	// HasHeavyPart reports whether the element currently holds any
	// heavy resource.
	HasHeavyPart() bool
	// UnloadHeavyPart releases every heavy resource the element holds.
	// The element must remain paintable afterwards.
	UnloadHeavyPart()
}

// ID indexes a registered part. The zero ID is never issued.
type ID int64

// Registry is the process-wide set of elements holding heavy parts.
type Registry struct {
	// Log receives sweep diagnostics. Defaults to a disabled logger.
	Log zerolog.Logger

	parts map[ID]Part
	next  ID
}

// NewRegistry returns an empty registry.
func NewRegistry() *Registry {
	return &Registry{
		Log:   zerolog.Nop(),
		parts: make(map[ID]Part),
	}
}

// Register records p, which must currently be heavy, and returns its ID.
func (r *Registry) Register(p Part) ID {
	r.next++
	r.parts[r.next] = p
	return r.next
}

// Check drops the entry for id if its part no longer reports a heavy
// resource. Call at every point where an element may have shed its last
// heavy part. Unknown IDs are ignored.
func (r *Registry) Check(id ID) {
	p, ok := r.parts[id]
	if !ok {
		return
	}
	if !p.HasHeavyPart() {
		delete(r.parts, id)
	}
}

// Registered reports whether id is currently tracked.
func (r *Registry) Registered(id ID) bool {
	_, ok := r.parts[id]
	return ok
}

// UnloadAll asks every registered part to release its heavy resources
// and empties the registry.
func (r *Registry) UnloadAll() {
	n := len(r.parts)
	for id, p := range r.parts {
		p.UnloadHeavyPart()
		delete(r.parts, id)
	}
	if n > 0 {
		r.Log.Debug().Int("parts", n).Msg("unloaded heavy view parts")
	}
}

// Len reports how many parts currently hold heavy resources.
func (r *Registry) Len() int { return len(r.parts) }
