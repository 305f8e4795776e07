package model

import (
	"fmt"
	"sync"

	"github.com/conduit-lang/hostbridge/runtime/hosttype"
)

// Instance is an object of a model class.
type Instance struct {
	class *Class

	mu     sync.RWMutex
	values map[*Field]any
}

// Class returns the runtime class of the instance.
func (i *Instance) Class() *Class { return i.class }

// String implements fmt.Stringer.
func (i *Instance) String() string {
	return fmt.Sprintf("%s@%p", i.class.name, i)
}

func (i *Instance) get(f *Field) any {
	i.mu.RLock()
	defer i.mu.RUnlock()
	return i.values[f]
}

func (i *Instance) set(f *Field, v any) {
	i.mu.Lock()
	i.values[f] = v
	i.mu.Unlock()
}

// Conforms reports whether the Go value v is a valid native value of type t.
//
// Primitive values are Go scalars (int, int64, float64, bool), host.String
// values are Go strings and host.Integer values are Go ints. Reference types
// accept nil. Arrays are []any whose elements conform to the component type.
func Conforms(t hosttype.Type, v any) bool {
	c, ok := t.(*Class)
	if !ok {
		return false
	}
	switch c {
	case Int:
		_, ok := v.(int)
		return ok
	case Long:
		_, ok := v.(int64)
		return ok
	case Double:
		_, ok := v.(float64)
		return ok
	case Boolean:
		_, ok := v.(bool)
		return ok
	case Void:
		return v == nil
	}
	if v == nil {
		return !c.primitive
	}
	switch c {
	case Object:
		return true
	case String:
		_, ok := v.(string)
		return ok
	case Integer, Number:
		_, ok := v.(int)
		return ok
	}
	if c.elem != nil {
		items, ok := v.([]any)
		if !ok {
			return false
		}
		for _, it := range items {
			if !Conforms(c.elem, it) {
				return false
			}
		}
		return true
	}
	inst, ok := v.(*Instance)
	return ok && c.AssignableFrom(inst.class)
}
