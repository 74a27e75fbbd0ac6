package keymap

import "slices"

// Resolver maps key strings to bindings. When two bindings claim the same
// key the earlier one wins and the key is reported by Conflicts.
type Resolver struct {
	byKey     map[string]Binding
	conflicts []string
}

// NewResolver indexes bindings by key.
func NewResolver(bindings []Binding) *Resolver {
	r := &Resolver{byKey: make(map[string]Binding)}
	for _, b := range bindings {
		for _, key := range b.Keys {
			prev, taken := r.byKey[key]
			if !taken {
				r.byKey[key] = b
				continue
			}
			if prev.Action != b.Action && !slices.Contains(r.conflicts, key) {
				r.conflicts = append(r.conflicts, key)
			}
		}
	}
	return r
}

// Resolve returns the action for a key, or empty string if not bound.
func (r *Resolver) Resolve(key string) Action {
	return r.byKey[key].Action
}

// Lookup returns the binding that owns key.
func (r *Resolver) Lookup(key string) (Binding, bool) {
	b, ok := r.byKey[key]
	return b, ok
}

// Conflicts lists keys claimed by more than one action, in binding order.
func (r *Resolver) Conflicts() []string {
	return r.conflicts
}
