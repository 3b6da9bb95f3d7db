package runtime

import "sort"

// Environment is one lexical scope frame: a name-to-value mapping plus a
// reference to the enclosing frame. Closures keep a shared reference to the
// frame that was live at their definition site, which extends that frame's
// lifetime past the block that created it.
type Environment struct {
	values    map[string]Value
	enclosing *Environment
}

// NewEnvironment creates a frame enclosed by parent. A nil parent makes a
// global frame.
func NewEnvironment(parent *Environment) *Environment {
	return &Environment{
		values:    make(map[string]Value),
		enclosing: parent,
	}
}

// Define binds name in this frame, shadowing any outer binding.
func (e *Environment) Define(name string, value Value) {
	e.values[name] = value
}

// Get looks name up through the enclosing chain.
func (e *Environment) Get(name string) (Value, bool) {
	for env := e; env != nil; env = env.enclosing {
		if value, ok := env.values[name]; ok {
			return value, true
		}
	}
	return nil, false
}

// Assign rebinds an existing name through the enclosing chain. It reports
// false when the name was never declared; assignment never creates bindings.
func (e *Environment) Assign(name string, value Value) bool {
	for env := e; env != nil; env = env.enclosing {
		if _, ok := env.values[name]; ok {
			env.values[name] = value
			return true
		}
	}
	return false
}

// GetAt reads name exactly distance frames out. The resolver guarantees the
// binding exists at that frame.
func (e *Environment) GetAt(distance int, name string) Value {
	return e.ancestor(distance).values[name]
}

// AssignAt writes name exactly distance frames out.
func (e *Environment) AssignAt(distance int, name string, value Value) {
	e.ancestor(distance).values[name] = value
}

func (e *Environment) ancestor(distance int) *Environment {
	env := e
	for i := 0; i < distance; i++ {
		env = env.enclosing
	}
	return env
}

// Names returns this frame's bound names in sorted order. The REPL completer
// uses it to offer globals.
func (e *Environment) Names() []string {
	names := make([]string, 0, len(e.values))
	for name := range e.values {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
