// Package interop provides reference implementations of the value
// collaborators the bridge consumes: a Coercer from script values to host
// values, a Wrapper from host values to script values, and a Dispatcher that
// picks an overload at call time.
//
// Script values are the Go values a dynamically typed engine would hold:
// float64, int, string, bool, nil, []any, and *HostObject for wrapped host
// objects.
package interop

import (
	"errors"
	"fmt"
	"math"
	"reflect"

	"github.com/spf13/cast"

	"github.com/conduit-lang/hostbridge/runtime/hosttype"
)

// ErrCoercion is returned when a script value cannot be converted.
var ErrCoercion = errors.New("interop: value cannot be coerced")

type converter func(any) (any, error)

func conv[T any](f func(any) (T, error)) converter {
	return func(v any) (any, error) { return f(v) }
}

// integral rejects floating point values with a fractional part.
func integral[T any](f func(any) (T, error)) converter {
	return func(v any) (any, error) {
		switch n := v.(type) {
		case float64:
			if n != math.Trunc(n) {
				return nil, fmt.Errorf("%v is not an integer", n)
			}
		case float32:
			if float64(n) != math.Trunc(float64(n)) {
				return nil, fmt.Errorf("%v is not an integer", n)
			}
		}
		return f(v)
	}
}

// bounded is integral with a range check: cast converts out-of-range
// numbers with a plain Go conversion, which wraps.
func bounded[T any](f func(any) (T, error), lo int64, hi uint64) converter {
	return integral(func(v any) (T, error) {
		if !inRange(v, lo, hi) {
			var zero T
			return zero, fmt.Errorf("%v overflows %T", v, zero)
		}
		return f(v)
	})
}

func inRange(v any, lo int64, hi uint64) bool {
	rv := reflect.ValueOf(v)
	switch {
	case rv.CanInt():
		n := rv.Int()
		return n >= lo && (n < 0 || uint64(n) <= hi)
	case rv.CanUint():
		return rv.Uint() <= hi
	}
	f, err := cast.ToFloat64E(v)
	if err != nil {
		// Left to the converter to report
		return true
	}
	// float64(hi)+1 is exclusive: it rounds to 2^63 or 2^64 for the wide types
	return f >= float64(lo) && f < float64(hi)+1
}

// converters maps primitive host type names to conversions. Names cover the
// model provider (int, long, double, boolean, host.String) and the goreflect
// provider (Go builtin type names).
var converters = map[string]converter{
	"int":          bounded(cast.ToIntE, math.MinInt, math.MaxInt),
	"host.Integer": bounded(cast.ToIntE, math.MinInt, math.MaxInt),
	"host.Number":  bounded(cast.ToIntE, math.MinInt, math.MaxInt),
	"long":         bounded(cast.ToInt64E, math.MinInt64, math.MaxInt64),
	"int64":        bounded(cast.ToInt64E, math.MinInt64, math.MaxInt64),
	"int32":        bounded(cast.ToInt32E, math.MinInt32, math.MaxInt32),
	"int16":        bounded(cast.ToInt16E, math.MinInt16, math.MaxInt16),
	"int8":         bounded(cast.ToInt8E, math.MinInt8, math.MaxInt8),
	"uint":         bounded(cast.ToUintE, 0, math.MaxUint),
	"uint64":       bounded(cast.ToUint64E, 0, math.MaxUint64),
	"uint32":       bounded(cast.ToUint32E, 0, math.MaxUint32),
	"uint16":       bounded(cast.ToUint16E, 0, math.MaxUint16),
	"uint8":        bounded(cast.ToUint8E, 0, math.MaxUint8),
	"double":       conv(cast.ToFloat64E),
	"float64":      conv(cast.ToFloat64E),
	"float32":      conv(cast.ToFloat32E),
	"boolean":      conv(cast.ToBoolE),
	"bool":         conv(cast.ToBoolE),
	"host.String":  conv(cast.ToStringE),
	"string":       conv(cast.ToStringE),
}

// nullable names the converter targets that are references and accept nil.
var nullable = map[string]bool{
	"host.String":  true,
	"host.Integer": true,
	"host.Number":  true,
}

// Coercer converts script values to host values with spf13/cast.
type Coercer struct{}

// NewCoercer returns a Coercer.
func NewCoercer() *Coercer { return &Coercer{} }

// Coerce converts value to a native value of target.
func (c *Coercer) Coerce(value any, target hosttype.Type) (any, error) {
	if h, ok := value.(*HostObject); ok {
		if h.Type != nil && !target.AssignableFrom(h.Type) && !isPrimitiveName(target.Name()) {
			return nil, coercionError(value, target)
		}
		value = h.Value
	}
	if target.IsVoid() {
		if value == nil {
			return nil, nil
		}
		return nil, coercionError(value, target)
	}

	name := target.Name()
	if f, ok := converters[name]; ok {
		if value == nil {
			if nullable[name] {
				return nil, nil
			}
			return nil, coercionError(value, target)
		}
		v, err := f(value)
		if err != nil {
			return nil, fmt.Errorf("%w: %v", coercionError(value, target), err)
		}
		return v, nil
	}

	if target.IsArray() {
		if items, ok := value.([]any); ok {
			out := make([]any, len(items))
			for i, it := range items {
				v, err := c.Coerce(it, target.Elem())
				if err != nil {
					return nil, fmt.Errorf("element %d: %w", i, err)
				}
				out[i] = v
			}
			return out, nil
		}
	}

	// References pass through; the provider checks the concrete type
	return value, nil
}

func isPrimitiveName(name string) bool {
	_, ok := converters[name]
	return ok
}

func coercionError(value any, target hosttype.Type) error {
	return fmt.Errorf("%w: %s to %s", ErrCoercion, typeName(value), hosttype.TypeSignature(target))
}

func typeName(v any) string {
	if v == nil {
		return "null"
	}
	return fmt.Sprintf("%T", v)
}
