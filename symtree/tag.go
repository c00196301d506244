// Package symtree keeps a per-document symbol tree in sync with freshly
// parsed tag lists without rebuilding it.
package symtree

import (
	"fmt"
	"strings"
)

// TagType is the kind of a tag. Values are bit flags so a layout can map
// several kinds onto one category with a mask.
type TagType uint32

const (
	TypeUndefined  TagType = 0
	TypeClass      TagType = 1 << (iota - 1)
	TypeEnum
	TypeEnumerator
	TypeField
	TypeFunction
	TypeInterface
	TypeMember
	TypeMethod
	TypeNamespace
	TypePackage
	TypePrototype
	TypeStruct
	TypeTypedef
	TypeUnion
	TypeVariable
	TypeExternVar
	TypeMacro
	TypeMacroWithArg
	TypeLocalVar
	TypeOther
)

// TypeAny matches every tag type.
const TypeAny TagType = TypeOther<<1 - 1

var typeNames = []struct {
	t    TagType
	name string
}{
	{TypeClass, "class"},
	{TypeEnum, "enum"},
	{TypeEnumerator, "enumerator"},
	{TypeField, "field"},
	{TypeFunction, "function"},
	{TypeInterface, "interface"},
	{TypeMember, "member"},
	{TypeMethod, "method"},
	{TypeNamespace, "namespace"},
	{TypePackage, "package"},
	{TypePrototype, "prototype"},
	{TypeStruct, "struct"},
	{TypeTypedef, "typedef"},
	{TypeUnion, "union"},
	{TypeVariable, "variable"},
	{TypeExternVar, "externvar"},
	{TypeMacro, "macro"},
	{TypeMacroWithArg, "macro_with_arg"},
	{TypeLocalVar, "local"},
	{TypeOther, "other"},
}

func (t TagType) String() string {
	for _, tn := range typeNames {
		if tn.t == t {
			return tn.name
		}
	}
	if t == TypeUndefined {
		return "undefined"
	}
	return fmt.Sprintf("TagType(%d)", uint32(t))
}

// ParseTagType resolves a type name as printed by TagType.String.
func ParseTagType(s string) (TagType, error) {
	s = strings.ToLower(s)
	for _, tn := range typeNames {
		if tn.name == s {
			return tn.t, nil
		}
	}
	return TypeUndefined, fmt.Errorf("unknown tag type %q", s)
}

func (t TagType) MarshalText() ([]byte, error) {
	return []byte(t.String()), nil
}

func (t *TagType) UnmarshalText(text []byte) error {
	v, err := ParseTagType(string(text))
	if err != nil {
		return err
	}
	*t = v
	return nil
}

// Tag is a parsed symbol occurrence.
type Tag struct {
	Name        string  `json:"name"`
	Type        TagType `json:"type"`
	Scope       string  `json:"scope,omitempty"`
	Arglist     string  `json:"arglist,omitempty"`
	VarType     string  `json:"var_type,omitempty"`
	Inheritance string  `json:"inheritance,omitempty"`
	Access      string  `json:"access,omitempty"`
	Impl        string  `json:"impl,omitempty"`
	Line        int     `json:"line"`
	EndLine     int     `json:"end_line,omitempty"` // 0 when unknown
	File        string  `json:"file,omitempty"`
}

// identity is the key under which two tags count as the same symbol
// across re-parses. Line drift does not change it.
type identity struct {
	typ     TagType
	name    string
	scope   string
	arglist string
}

func (t *Tag) identity() identity {
	return identity{typ: t.Type, name: t.Name, scope: t.Scope, arglist: t.Arglist}
}

// SameSymbol reports whether a and b share type, name, scope and arglist.
func SameSymbol(a, b *Tag) bool {
	return a.identity() == b.identity()
}

// Equal reports whether every attribute of a and b matches.
func Equal(a, b *Tag) bool {
	if a == b {
		return true
	}
	return *a == *b
}

func (t *Tag) String() string {
	var sb strings.Builder
	sb.WriteString(t.Type.String())
	sb.WriteByte(' ')
	if t.Scope != "" {
		sb.WriteString(t.Scope)
		sb.WriteByte(':')
	}
	sb.WriteString(t.Name)
	sb.WriteString(t.Arglist)
	fmt.Fprintf(&sb, " @%d", t.Line)
	return sb.String()
}
