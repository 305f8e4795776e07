package hosttype

import "strings"

// ArrayDims decomposes an array type into its innermost component type and
// its number of dimensions. Non-array types return themselves and zero.
func ArrayDims(t Type) (Type, int) {
	dims := 0
	for t != nil && t.IsArray() {
		dims++
		t = t.Elem()
	}
	return t, dims
}

// TypeSignature returns the canonical textual form of a type: its fully
// qualified name followed by "[]" once per array dimension.
func TypeSignature(t Type) string {
	elem, dims := ArrayDims(t)
	if elem == nil {
		return ""
	}
	if dims == 0 {
		return elem.Name()
	}
	return elem.Name() + strings.Repeat("[]", dims)
}

// ParamSignature returns the canonical parameter list signature, e.g.
// "(int,host.String[])". An empty list renders as "()".
func ParamSignature(params []Type) string {
	if len(params) == 0 {
		return "()"
	}
	var b strings.Builder
	b.WriteByte('(')
	for i, p := range params {
		if i > 0 {
			b.WriteByte(',')
		}
		b.WriteString(TypeSignature(p))
	}
	b.WriteByte(')')
	return b.String()
}

// SameParams reports whether two parameter lists are identical type for type.
func SameParams(a, b []Type) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

// IsAncestor reports whether anc appears on t's superclass chain, t included.
func IsAncestor(anc, t Type) bool {
	for c := t; c != nil; c = c.Super() {
		if c == anc {
			return true
		}
	}
	return false
}
