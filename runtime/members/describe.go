package members

import (
	"github.com/conduit-lang/hostbridge/runtime/hosttype"
)

// EntryInfo is a printable summary of one table entry.
type EntryInfo struct {
	Name       string    `json:"name"`
	Kind       EntryKind `json:"kind"`
	Type       string    `json:"type,omitempty"`
	Modifiers  string    `json:"modifiers,omitempty"`
	Signatures []string  `json:"signatures,omitempty"`
	Readable   bool      `json:"readable"`
	Writable   bool      `json:"writable"`
}

// Describe summarizes the direct entries of one side, sorted by name.
func (t *Table) Describe(isStatic bool) []EntryInfo {
	ids := t.IDs(isStatic)
	out := make([]EntryInfo, 0, len(ids))
	for _, name := range ids {
		e := t.half(isStatic).entries[name]
		info := EntryInfo{Name: name, Kind: e.Kind}
		switch e.Kind {
		case KindField:
			describeField(&info, e.Field)
		case KindMethods:
			info.Signatures = methodSignatures(e.Group)
			info.Readable = true
		case KindFieldAndMethods:
			describeField(&info, e.Field)
			info.Signatures = methodSignatures(e.Group)
		case KindBean:
			info.Type = hosttype.TypeSignature(e.Bean.Type())
			info.Readable = e.Bean.Getter != nil
			info.Writable = e.Bean.Setter != nil
			if e.Bean.Getter != nil {
				info.Signatures = append(info.Signatures, methodSignature(e.Bean.Getter))
			}
			if e.Bean.Setters != nil {
				info.Signatures = append(info.Signatures, methodSignatures(e.Bean.Setters)...)
			} else if e.Bean.Setter != nil {
				info.Signatures = append(info.Signatures, methodSignature(e.Bean.Setter))
			}
		}
		out = append(out, info)
	}
	return out
}

func describeField(info *EntryInfo, f hosttype.Field) {
	info.Type = hosttype.TypeSignature(f.Type())
	info.Modifiers = f.Modifiers().String()
	info.Readable = true
	info.Writable = !f.Modifiers().IsFinal()
}

func methodSignatures(g *CallableGroup) []string {
	out := make([]string, 0, g.Len())
	for _, m := range g.methods {
		out = append(out, methodSignature(m))
	}
	return out
}

// methodSignature renders a method as "ret name(params)".
func methodSignature(m hosttype.Method) string {
	ret := "void"
	if r := m.Return(); r != nil {
		ret = hosttype.TypeSignature(r)
	}
	return ret + " " + m.Name() + hosttype.ParamSignature(m.Params())
}
