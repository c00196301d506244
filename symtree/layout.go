package symtree

import (
	"fmt"
	"strings"
	"unicode"
	"unicode/utf8"
)

// Group is one top-level category of the symbol tree.
type Group struct {
	Name  string
	Types TagType
}

// Layout describes how a language's tags are arranged in the tree.
type Layout struct {
	// Name identifies the layout, usually the language name.
	Name string

	// Separator joins a scope and a name, e.g. "::" or ".".
	Separator string

	// FullScope is set when the parser emits the complete scope path
	// ("ns::Outer::Inner") rather than just the innermost name.
	FullScope bool

	// ReturnTypeLast renders tooltips as "name(args) type" instead of
	// "type name(args)".
	ReturnTypeLast bool

	// Groups lists the categories in display order. A tag goes to the
	// first group whose mask contains its type.
	Groups []Group

	// ScopeTypes are the tag types that can enclose source lines.
	ScopeTypes TagType
}

// OtherGroup is the catch-all category for types no group claims.
const OtherGroup = "Other"

// DefaultLayout is a C/C++ style layout with fully qualified scopes.
var DefaultLayout = &Layout{
	Name:      "default",
	Separator: "::",
	FullScope: true,
	Groups: []Group{
		{Name: "Namespaces", Types: TypeNamespace | TypePackage},
		{Name: "Classes", Types: TypeClass},
		{Name: "Interfaces", Types: TypeInterface},
		{Name: "Functions", Types: TypeFunction | TypePrototype},
		{Name: "Methods", Types: TypeMethod},
		{Name: "Members", Types: TypeMember | TypeField},
		{Name: "Structs", Types: TypeStruct | TypeUnion | TypeEnum | TypeTypedef},
		{Name: "Macros", Types: TypeMacro | TypeMacroWithArg},
		{Name: "Variables", Types: TypeVariable | TypeExternVar | TypeEnumerator},
	},
	ScopeTypes: TypeClass | TypeInterface | TypeNamespace | TypeStruct | TypeUnion |
		TypeEnum | TypeFunction | TypeMethod,
}

// Validate checks that the layout can back a tree.
func (l *Layout) Validate() error {
	if l.Separator == "" {
		return fmt.Errorf("layout %q: empty separator", l.Name)
	}
	seen := make(map[string]struct{}, len(l.Groups))
	for _, g := range l.Groups {
		if g.Name == "" {
			return fmt.Errorf("layout %q: unnamed group", l.Name)
		}
		if _, dup := seen[g.Name]; dup {
			return fmt.Errorf("layout %q: duplicate group %q", l.Name, g.Name)
		}
		seen[g.Name] = struct{}{}
	}
	return nil
}

// ParentName returns the name under which t acts as a scope for other
// tags, or "" if it cannot parent anything.
func (l *Layout) ParentName(t *Tag) string {
	switch {
	case t.Scope == "":
		return t.Name
	case !l.FullScope:
		// Foo::Foo must not become its own parent.
		if t.Scope == t.Name {
			return ""
		}
		return t.Name
	default:
		return t.Scope + l.Separator + t.Name
	}
}

// Label is the text shown for t. The scope is only prepended when the tag
// is not nested under its scope node.
func (l *Layout) Label(t *Tag, includeScope bool) string {
	var sb strings.Builder
	if includeScope && startsWithWordChar(t.Scope) {
		sb.WriteString(t.Scope)
		sb.WriteString(l.Separator)
	}
	sb.WriteString(t.Name)
	fmt.Fprintf(&sb, " [%d]", t.Line)
	return sb.String()
}

const variableTypes = TypeField | TypeMember | TypeVariable | TypeExternVar | TypeLocalVar

// Tooltip renders the signature of callables and the type of variables.
func (l *Layout) Tooltip(t *Tag) string {
	switch {
	case t.Arglist != "":
		call := t.Name + t.Arglist
		if t.VarType == "" {
			return call
		}
		if l.ReturnTypeLast {
			return call + " " + t.VarType
		}
		return t.VarType + " " + call
	case t.VarType != "" && t.Type&variableTypes != 0:
		if l.ReturnTypeLast {
			return t.Name + " " + t.VarType
		}
		return t.VarType + " " + t.Name
	}
	return ""
}

func startsWithWordChar(s string) bool {
	if s == "" {
		return false
	}
	r, _ := utf8.DecodeRuneInString(s)
	return r == '_' || unicode.IsLetter(r) || unicode.IsDigit(r)
}
