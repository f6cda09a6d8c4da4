package keymap

import "slices"

// Resolver turns key strings from the terminal into actions. When two
// bindings claim the same key the later one wins.
type Resolver struct {
	actions map[string]Action
	keys    map[Action][]string
}

func NewResolver(bindings []Binding) *Resolver {
	r := &Resolver{
		actions: make(map[string]Action),
		keys:    make(map[Action][]string),
	}
	for _, b := range bindings {
		for _, k := range b.Keys {
			r.actions[k] = b.Action
			if !slices.Contains(r.keys[b.Action], k) {
				r.keys[b.Action] = append(r.keys[b.Action], k)
			}
		}
	}
	return r
}

// Resolve returns the bound action, or "" for an unbound key.
func (r *Resolver) Resolve(key string) Action {
	return r.actions[key]
}

// KeysFor lists the keys bound to action in binding order.
func (r *Resolver) KeysFor(action Action) []string {
	return slices.Clone(r.keys[action])
}
