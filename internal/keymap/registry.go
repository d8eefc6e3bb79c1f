// Package keymap resolves key presses to commands per input context and
// applies user overrides from the config file.
package keymap

import (
	"slices"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
)

// Registry holds the active bindings.
type Registry struct {
	bindings  map[string][]Binding // by context, in declaration order
	overrides map[string]Command   // sidebar key -> command
}

// NewRegistry creates a registry loaded with DefaultBindings.
func NewRegistry() *Registry {
	r := &Registry{
		bindings:  make(map[string][]Binding),
		overrides: make(map[string]Command),
	}
	for _, b := range DefaultBindings() {
		r.bindings[b.Context] = append(r.bindings[b.Context], b)
	}
	return r
}

// SetUserOverride binds keyStr to cmd in the sidebar context, shadowing any
// default binding of that key.
func (r *Registry) SetUserOverride(keyStr string, cmd Command) {
	r.overrides[keyStr] = cmd
}

// Lookup returns the command bound to msg in context. Global bindings apply
// in every context.
func (r *Registry) Lookup(msg tea.KeyMsg, context string) (Command, bool) {
	if context == ContextSidebar {
		if cmd, ok := r.overrides[msg.String()]; ok {
			return cmd, true
		}
	}
	for _, ctx := range []string{context, ContextGlobal} {
		for _, b := range r.bindings[ctx] {
			if key.Matches(msg, key.NewBinding(key.WithKeys(b.Key))) {
				return b.Command, true
			}
		}
	}
	return "", false
}

// Keys returns the keys bound to cmd in context, overrides first.
func (r *Registry) Keys(cmd Command, context string) []string {
	var keys []string
	if context == ContextSidebar {
		for k, c := range r.overrides {
			if c == cmd {
				keys = append(keys, k)
			}
		}
		slices.Sort(keys)
	}
	for _, b := range r.bindings[context] {
		if b.Command == cmd && !slices.Contains(keys, b.Key) {
			if _, shadowed := r.overrides[b.Key]; shadowed && context == ContextSidebar {
				continue
			}
			keys = append(keys, b.Key)
		}
	}
	return keys
}

// Help returns one key.Binding per documented command of context, for the
// help overlay and footer hints.
func (r *Registry) Help(context string) []key.Binding {
	var out []key.Binding
	seen := make(map[Command]bool)
	for _, b := range r.bindings[context] {
		if b.Help == "" || seen[b.Command] {
			continue
		}
		seen[b.Command] = true
		keys := r.Keys(b.Command, context)
		if len(keys) == 0 {
			continue
		}
		out = append(out, key.NewBinding(
			key.WithKeys(keys...),
			key.WithHelp(displayKey(keys[0]), b.Help),
		))
	}
	return out
}

func displayKey(k string) string {
	if k == " " {
		return "space"
	}
	return k
}
