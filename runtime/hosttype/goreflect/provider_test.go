package goreflect

import (
	"errors"
	"fmt"
	"math"
	"reflect"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/conduit-lang/hostbridge/runtime/hosttype"
)

type Shape interface {
	Area() float64
}

type Base struct {
	ID     int
	secret string
}

func (b *Base) Describe() string { return fmt.Sprintf("base %d", b.ID) }
func (b *Base) GetName() string  { return "base" }

type Circle struct {
	Base
	Radius float64
	Unit   string `hostbridge:"final"`
	title  string
}

func NewCircle(r float64) *Circle { return &Circle{Radius: r, Unit: "cm"} }

func (c *Circle) Area() float64     { return 3 * c.Radius * c.Radius }
func (c *Circle) GetTitle() string  { return c.title }
func (c *Circle) SetTitle(s string) { c.title = s }

func (c *Circle) Bounds() (float64, float64) { return -c.Radius, c.Radius }

func (c *Circle) Scale(f float64) (*Circle, error) {
	if f <= 0 {
		return nil, errors.New("scale must be positive")
	}
	return &Circle{Radius: c.Radius * f}, nil
}

func (c *Circle) Sum(xs ...int) int {
	total := 0
	for _, x := range xs {
		total += x
	}
	return total
}

func names[T hosttype.Member](members []T) []string {
	out := make([]string, len(members))
	for i, m := range members {
		out[i] = m.Name()
	}
	return out
}

func findMethod(t *testing.T, typ *Type, name string) hosttype.Method {
	t.Helper()
	methods, err := typ.Methods()
	require.NoError(t, err)
	for _, m := range methods {
		if m.Name() == name {
			return m
		}
	}
	t.Fatalf("no method %s on %s", name, typ.Name())
	return nil
}

func findField(t *testing.T, typ *Type, name string) hosttype.Field {
	t.Helper()
	fields, err := typ.DeclaredFields()
	require.NoError(t, err)
	for _, f := range fields {
		if f.Name() == name {
			return f
		}
	}
	t.Fatalf("no field %s on %s", name, typ.Name())
	return nil
}

func TestTypeInterning(t *testing.T) {
	p := New()

	circle := p.TypeOf(&Circle{})
	assert.Same(t, circle, p.TypeOf(Circle{}))
	assert.Same(t, circle, p.Type(reflect.TypeOf(Circle{})))
	assert.Equal(t, "Circle", circle.SimpleName())
	assert.True(t, strings.HasSuffix(circle.Name(), "/goreflect.Circle"))

	assert.Same(t, p.Any(), p.TypeOf(nil))
	assert.Equal(t, "int", p.TypeOf(3).Name())

	list := p.TypeOf([]string{})
	assert.True(t, list.IsArray())
	assert.Equal(t, "string[]", list.Name())
	assert.Equal(t, hosttype.Type(p.TypeOf("")), list.Elem())
	assert.Equal(t, "string[]", hosttype.TypeSignature(list))

	assert.True(t, p.Void().IsVoid())
	assert.Nil(t, p.TypeOf(1).Elem())
}

func TestHierarchy(t *testing.T) {
	p := New()
	require.NoError(t, p.RegisterInterface((*Shape)(nil)))
	require.NoError(t, p.RegisterInterface((*Shape)(nil)))

	circle := p.TypeOf(&Circle{})
	base := p.TypeOf(&Base{})
	shape := p.Type(reflect.TypeOf((*Shape)(nil)).Elem())

	assert.Equal(t, hosttype.Type(base), circle.Super())
	assert.Nil(t, base.Super())
	assert.Equal(t, []hosttype.Type{shape}, circle.Interfaces())
	assert.Empty(t, base.Interfaces())

	assert.True(t, shape.IsInterface())
	assert.True(t, shape.AssignableFrom(circle))
	assert.False(t, shape.AssignableFrom(base))
	assert.True(t, base.AssignableFrom(circle))
	assert.False(t, circle.AssignableFrom(base))
	assert.True(t, p.Any().AssignableFrom(circle))
	assert.False(t, circle.AssignableFrom(New().TypeOf(&Circle{})))

	assert.Error(t, p.RegisterInterface(42))
	assert.Error(t, p.RegisterInterface(Circle{}))
}

func TestModifiersAndExport(t *testing.T) {
	p := New()
	assert.True(t, p.TypeOf(&Circle{}).Modifiers().IsPublic())
	assert.True(t, p.TypeOf(&Circle{}).Exported())
	assert.True(t, p.TypeOf(1).Modifiers().IsPublic())

	type local struct{}
	assert.False(t, p.TypeOf(local{}).Modifiers().IsPublic())

	assert.True(t, isInternal("internal/foo"))
	assert.True(t, isInternal("example.com/x/internal"))
	assert.True(t, isInternal("example.com/x/internal/y"))
	assert.False(t, isInternal("example.com/internals"))
	assert.False(t, isInternal(""))
}

func TestMethods(t *testing.T) {
	p := New()
	circle := p.TypeOf(&Circle{})
	base := p.TypeOf(&Base{})

	declared, err := circle.DeclaredMethods()
	require.NoError(t, err)
	assert.Equal(t, []string{"area", "bounds", "getTitle", "scale", "setTitle", "sum"}, names(declared))

	all, err := circle.Methods()
	require.NoError(t, err)
	assert.Contains(t, names(all), "describe")
	assert.Contains(t, names(all), "getName")

	describe := findMethod(t, circle, "describe")
	assert.Equal(t, hosttype.Type(base), describe.DeclaringType())

	assert.Equal(t, hosttype.Type(p.TypeOf(0.0)), findMethod(t, circle, "area").Return())
	assert.True(t, findMethod(t, circle, "setTitle").Return().IsVoid())
	assert.Equal(t, hosttype.Type(circle), findMethod(t, circle, "scale").Return())
	assert.Equal(t, "interface {}[]", findMethod(t, circle, "bounds").Return().Name())
	assert.Equal(t, "(int[])", hosttype.ParamSignature(findMethod(t, circle, "sum").Params()))
}

func TestInterfaceMethods(t *testing.T) {
	p := New()
	shape := p.Type(reflect.TypeOf((*Shape)(nil)).Elem())

	methods, err := shape.Methods()
	require.NoError(t, err)
	require.Len(t, methods, 1)
	assert.Empty(t, methods[0].Params())

	v, err := methods[0].Invoke(NewCircle(1), nil)
	require.NoError(t, err)
	assert.Equal(t, 3.0, v)
}

func TestInvoke(t *testing.T) {
	p := New()
	circle := p.TypeOf(&Circle{})
	c := NewCircle(2)

	v, err := findMethod(t, circle, "area").Invoke(c, nil)
	require.NoError(t, err)
	assert.Equal(t, 12.0, v)

	v, err = findMethod(t, circle, "describe").Invoke(c, nil)
	require.NoError(t, err)
	assert.Equal(t, "base 0", v)

	v, err = findMethod(t, circle, "sum").Invoke(c, []any{[]any{1, 2, 3}})
	require.NoError(t, err)
	assert.Equal(t, 6, v)

	v, err = findMethod(t, circle, "bounds").Invoke(c, nil)
	require.NoError(t, err)
	assert.Equal(t, []any{-2.0, 2.0}, v)

	v, err = findMethod(t, circle, "scale").Invoke(c, []any{2.0})
	require.NoError(t, err)
	assert.Equal(t, 4.0, v.(*Circle).Radius)

	// A struct value receiver still reaches pointer methods
	v, err = findMethod(t, circle, "area").Invoke(*c, nil)
	require.NoError(t, err)
	assert.Equal(t, 12.0, v)
}

func TestInvokeErrors(t *testing.T) {
	p := New()
	circle := p.TypeOf(&Circle{})
	c := NewCircle(2)

	_, err := findMethod(t, circle, "scale").Invoke(c, []any{0.0})
	assert.EqualError(t, err, "scale must be positive")

	_, err = findMethod(t, circle, "scale").Invoke(c, []any{"x"})
	assert.True(t, errors.Is(err, hosttype.ErrIllegalArgument))

	_, err = findMethod(t, circle, "scale").Invoke(c, nil)
	assert.True(t, errors.Is(err, hosttype.ErrIllegalArgument))

	_, err = findMethod(t, circle, "area").Invoke(&Base{}, nil)
	assert.True(t, errors.Is(err, hosttype.ErrIllegalArgument))

	_, err = findMethod(t, circle, "area").Invoke(nil, nil)
	assert.True(t, errors.Is(err, hosttype.ErrIllegalArgument))

	// Panics surface as errors
	_, err = findMethod(t, circle, "area").Invoke((*Circle)(nil), nil)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "panicked")
}

func TestFields(t *testing.T) {
	p := New()
	circle := p.TypeOf(&Circle{})

	declared, err := circle.DeclaredFields()
	require.NoError(t, err)
	assert.Equal(t, []string{"radius", "unit", "title"}, names(declared))
	assert.Equal(t, hosttype.Public, declared[0].Modifiers())
	assert.Equal(t, hosttype.Public|hosttype.Final, declared[1].Modifiers())
	assert.Equal(t, hosttype.Private, declared[2].Modifiers())

	public, err := circle.Fields()
	require.NoError(t, err)
	assert.Equal(t, []string{"radius", "unit", "id"}, names(public))
}

func TestFieldAccess(t *testing.T) {
	p := New()
	circle := p.TypeOf(&Circle{})
	base := p.TypeOf(&Base{})
	c := NewCircle(2)

	radius := findField(t, circle, "radius")
	v, err := radius.Get(c)
	require.NoError(t, err)
	assert.Equal(t, 2.0, v)

	require.NoError(t, radius.Set(c, 3.0))
	assert.Equal(t, 3.0, c.Radius)
	require.NoError(t, radius.Set(c, 4))
	assert.Equal(t, 4.0, c.Radius)

	// Inherited fields take the derived receiver
	require.NoError(t, findField(t, base, "id").Set(c, 7))
	assert.Equal(t, 7, c.ID)

	err = findField(t, circle, "unit").Set(c, "mm")
	assert.True(t, errors.Is(err, hosttype.ErrIllegalAccess))
	v, err = findField(t, circle, "unit").Get(c)
	require.NoError(t, err)
	assert.Equal(t, "cm", v)

	err = radius.Set(c, "wide")
	assert.True(t, errors.Is(err, hosttype.ErrIllegalArgument))
	err = findField(t, base, "id").Set(c, 1.5)
	assert.True(t, errors.Is(err, hosttype.ErrIllegalArgument))

	err = radius.Set(*c, 1.0)
	assert.True(t, errors.Is(err, hosttype.ErrIllegalArgument))

	_, err = radius.Get(&Base{})
	assert.True(t, errors.Is(err, hosttype.ErrIllegalArgument))
}

func TestOpenPrivateField(t *testing.T) {
	p := New()
	c := NewCircle(1)
	title := findField(t, p.TypeOf(&Circle{}), "title")

	_, err := title.Get(c)
	assert.True(t, errors.Is(err, hosttype.ErrIllegalAccess))

	opener, ok := title.(hosttype.Opener)
	require.True(t, ok)
	require.NoError(t, opener.Open())

	require.NoError(t, title.Set(c, "opened"))
	assert.Equal(t, "opened", c.GetTitle())

	v, err := title.Get(*c)
	require.NoError(t, err)
	assert.Equal(t, "opened", v)
}

func TestStrictAccess(t *testing.T) {
	p := New(WithStrictAccess())
	assert.True(t, p.StrictReflectiveAccess())
	assert.False(t, New().StrictReflectiveAccess())

	title := findField(t, p.TypeOf(&Circle{}), "title")
	err := title.(hosttype.Opener).Open()
	assert.True(t, errors.Is(err, hosttype.ErrAccessDenied))

	// Public fields need no opening
	assert.NoError(t, findField(t, p.TypeOf(&Circle{}), "radius").(hosttype.Opener).Open())
}

var circleCount = 0

func TestRegisteredStatics(t *testing.T) {
	p := New()
	require.NoError(t, p.Static((*Circle)(nil), "unit", func() *Circle { return NewCircle(1) }))
	require.NoError(t, p.Static((*Circle)(nil), "unit", func(r float64) *Circle { return NewCircle(r) }))
	require.NoError(t, p.StaticConst((*Circle)(nil), "SIDES", 0))
	require.NoError(t, p.StaticVar((*Circle)(nil), "count", &circleCount))

	circle := p.TypeOf(&Circle{})
	methods, err := circle.Methods()
	require.NoError(t, err)
	var statics []hosttype.Method
	for _, m := range methods {
		if m.Modifiers().IsStatic() {
			statics = append(statics, m)
		}
	}
	require.Len(t, statics, 2)
	v, err := statics[1].Invoke(nil, []any{5.0})
	require.NoError(t, err)
	assert.Equal(t, 5.0, v.(*Circle).Radius)

	sides := findField(t, circle, "SIDES")
	assert.True(t, sides.Modifiers().IsFinal())
	v, err = sides.Get(nil)
	require.NoError(t, err)
	assert.Equal(t, 0, v)
	assert.True(t, errors.Is(sides.Set(nil, 1), hosttype.ErrIllegalAccess))

	count := findField(t, circle, "count")
	require.NoError(t, count.Set(nil, 3))
	assert.Equal(t, 3, circleCount)
	v, err = count.Get(nil)
	require.NoError(t, err)
	assert.Equal(t, 3, v)

	assert.Error(t, p.Static(3, "x", func() {}))
	assert.Error(t, p.Static((*Circle)(nil), "x", 3))
	assert.Error(t, p.StaticVar((*Circle)(nil), "x", 3))
	assert.Error(t, p.StaticConst((*Circle)(nil), "x", nil))
	assert.Error(t, p.StaticVar(nil, "x", &circleCount))
}

func TestConstructors(t *testing.T) {
	p := New()
	require.NoError(t, p.Constructor(NewCircle))
	require.NoError(t, p.Constructor(func() Circle { return Circle{Unit: "in"} }))

	ctors, err := p.TypeOf(&Circle{}).Constructors()
	require.NoError(t, err)
	require.Len(t, ctors, 2)
	assert.Equal(t, "Circle", ctors[0].Name())

	v, err := ctors[0].New([]any{2.0})
	require.NoError(t, err)
	assert.Equal(t, 2.0, v.(*Circle).Radius)

	v, err = ctors[1].New(nil)
	require.NoError(t, err)
	assert.Equal(t, "in", v.(*Circle).Unit)

	// Without registrations a struct has an implicit zero constructor
	implicit, err := p.TypeOf(&Base{}).DeclaredConstructors()
	require.NoError(t, err)
	require.Len(t, implicit, 1)
	assert.Empty(t, implicit[0].Params())
	v, err = implicit[0].New(nil)
	require.NoError(t, err)
	assert.IsType(t, &Base{}, v)
	_, err = implicit[0].New([]any{1})
	assert.True(t, errors.Is(err, hosttype.ErrIllegalArgument))

	again, err := p.TypeOf(&Base{}).Constructors()
	require.NoError(t, err)
	assert.Same(t, implicit[0], again[0])

	assert.Error(t, p.Constructor(42))
	assert.Error(t, p.Constructor(func() int { return 1 }))
}

func TestNative(t *testing.T) {
	tests := []struct {
		name  string
		value any
		typ   reflect.Type
		want  any
		ok    bool
	}{
		{"assignable", "s", reflect.TypeOf(""), "s", true},
		{"lossless float to int", 3.0, reflect.TypeOf(0), 3, true},
		{"lossy float to int", 3.5, reflect.TypeOf(0), nil, false},
		{"negative to unsigned", -1, reflect.TypeOf(uint(0)), nil, false},
		{"nil pointer", nil, reflect.TypeOf(&Circle{}), (*Circle)(nil), true},
		{"nil int", nil, reflect.TypeOf(0), nil, false},
		{"list to slice", []any{1, 2}, reflect.TypeOf([]int{}), []int{1, 2}, true},
		{"list to array", []any{1, 2}, reflect.TypeOf([2]int{}), [2]int{1, 2}, true},
		{"short array", []any{1}, reflect.TypeOf([2]int{}), nil, false},
		{"pointer to struct", &Base{ID: 1}, reflect.TypeOf(Base{}), Base{ID: 1}, true},
		{"wrong kind", "s", reflect.TypeOf(0), nil, false},
		{"infinity to float32", math.Inf(1), reflect.TypeOf(float32(0)), float32(math.Inf(1)), true},
		{"negative infinity to float32", math.Inf(-1), reflect.TypeOf(float32(0)), float32(math.Inf(-1)), true},
		{"lossy float64 to float32", 0.1, reflect.TypeOf(float32(0)), nil, false},
		{"infinity to int", math.Inf(1), reflect.TypeOf(0), nil, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			v, err := native(tt.value, tt.typ)
			if !tt.ok {
				assert.True(t, errors.Is(err, hosttype.ErrIllegalArgument))
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, v.Interface())
		})
	}
}

func TestNativeNaN(t *testing.T) {
	v, err := native(math.NaN(), reflect.TypeOf(float32(0)))
	require.NoError(t, err)
	assert.True(t, math.IsNaN(float64(v.Interface().(float32))))

	v, err = native(float32(math.NaN()), reflect.TypeOf(0.0))
	require.NoError(t, err)
	assert.True(t, math.IsNaN(v.Float()))

	_, err = native(math.NaN(), reflect.TypeOf(0))
	assert.True(t, errors.Is(err, hosttype.ErrIllegalArgument))
}
