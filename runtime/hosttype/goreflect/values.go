package goreflect

import (
	"fmt"
	"math"
	"reflect"

	"github.com/conduit-lang/hostbridge/runtime/hosttype"
)

// signature describes a Go func as a host call: parameters, the result type
// and whether a trailing error result is split off.
type signature struct {
	params    []hosttype.Type
	ins       []reflect.Type
	variadic  bool
	outs      []reflect.Type
	errResult bool
	ret       hosttype.Type
}

// signatureOf describes ft, skipping the first skip parameters (the
// receiver of a method expression).
func (p *Provider) signatureOf(ft reflect.Type, skip int) signature {
	s := signature{variadic: ft.IsVariadic()}
	for i := skip; i < ft.NumIn(); i++ {
		s.ins = append(s.ins, ft.In(i))
		s.params = append(s.params, p.Type(ft.In(i)))
	}
	for i := 0; i < ft.NumOut(); i++ {
		s.outs = append(s.outs, ft.Out(i))
	}
	if n := len(s.outs); n > 0 && s.outs[n-1] == errorType {
		s.errResult = true
		s.outs = s.outs[:n-1]
	}
	switch len(s.outs) {
	case 0:
		s.ret = p.Void()
	case 1:
		s.ret = p.Type(s.outs[0])
	default:
		s.ret = p.Type(listType)
	}
	return s
}

// call converts args, calls fn and folds the results: nothing, one value, or
// a []any for several. A non-nil trailing error is returned as is.
func (s signature) call(name string, fn reflect.Value, args []any) (result any, err error) {
	if len(args) != len(s.ins) {
		return nil, fmt.Errorf("%w: %s expects %d arguments, got %d",
			hosttype.ErrIllegalArgument, name, len(s.ins), len(args))
	}
	in := make([]reflect.Value, len(args))
	for i, a := range args {
		v, err := native(a, s.ins[i])
		if err != nil {
			return nil, fmt.Errorf("%s: argument %d: %w", name, i, err)
		}
		in[i] = v
	}

	defer func() {
		if r := recover(); r != nil {
			result, err = nil, fmt.Errorf("goreflect: %s panicked: %v", name, r)
		}
	}()

	var out []reflect.Value
	if s.variadic {
		out = fn.CallSlice(in)
	} else {
		out = fn.Call(in)
	}
	if s.errResult {
		last := out[len(out)-1]
		if !last.IsNil() {
			return nil, last.Interface().(error)
		}
		out = out[:len(out)-1]
	}

	switch len(out) {
	case 0:
		return nil, nil
	case 1:
		return out[0].Interface(), nil
	}
	list := make([]any, len(out))
	for i, o := range out {
		list[i] = o.Interface()
	}
	return list, nil
}

// native converts a host value to a value of Go type rt. Slices accept []any
// element by element, and numbers convert when no precision is lost.
func native(v any, rt reflect.Type) (reflect.Value, error) {
	if v == nil {
		switch rt.Kind() {
		case reflect.Pointer, reflect.Interface, reflect.Slice, reflect.Map, reflect.Func, reflect.Chan:
			return reflect.Zero(rt), nil
		}
		return reflect.Value{}, fmt.Errorf("%w: nil for %s", hosttype.ErrIllegalArgument, rt)
	}

	val := reflect.ValueOf(v)
	switch {
	case val.Type().AssignableTo(rt):
		return val, nil
	case rt.Kind() == reflect.Struct && val.Kind() == reflect.Pointer && val.Type().Elem() == rt:
		if val.IsNil() {
			break
		}
		return val.Elem(), nil
	case rt.Kind() == reflect.Slice || rt.Kind() == reflect.Array:
		items, ok := v.([]any)
		if !ok {
			break
		}
		var out reflect.Value
		if rt.Kind() == reflect.Slice {
			out = reflect.MakeSlice(rt, len(items), len(items))
		} else {
			if len(items) != rt.Len() {
				break
			}
			out = reflect.New(rt).Elem()
		}
		for i, it := range items {
			ev, err := native(it, rt.Elem())
			if err != nil {
				return reflect.Value{}, fmt.Errorf("element %d: %w", i, err)
			}
			out.Index(i).Set(ev)
		}
		return out, nil
	case isFloat(val.Kind()) && isFloat(rt.Kind()) && nonFinite(val.Float()):
		// NaN never compares equal to itself; it and the infinities survive narrowing
		return val.Convert(rt), nil
	case isNumber(val.Kind()) && isNumber(rt.Kind()):
		if isUnsigned(rt.Kind()) && val.CanInt() && val.Int() < 0 {
			break
		}
		c := val.Convert(rt)
		if c.Convert(val.Type()).Interface() == v {
			return c, nil
		}
	case val.Kind() == rt.Kind() && val.Type().ConvertibleTo(rt):
		// Named types over the same underlying kind, e.g. a string enum
		return val.Convert(rt), nil
	}
	return reflect.Value{}, fmt.Errorf("%w: %T is not a %s", hosttype.ErrIllegalArgument, v, rt)
}

func isNumber(k reflect.Kind) bool {
	switch k {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64,
		reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64,
		reflect.Float32, reflect.Float64:
		return true
	}
	return false
}

func isFloat(k reflect.Kind) bool {
	return k == reflect.Float32 || k == reflect.Float64
}

func nonFinite(f float64) bool {
	return math.IsNaN(f) || math.IsInf(f, 0)
}

func isUnsigned(k reflect.Kind) bool {
	switch k {
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		return true
	}
	return false
}
