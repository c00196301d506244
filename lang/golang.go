package lang

import (
	_ "embed"
	"strings"

	sitter "github.com/smacker/go-tree-sitter"
	golang "github.com/smacker/go-tree-sitter/golang"

	"github.com/arjunmahishi/symtree/symtree"
)

//go:embed queries/go/tags.scm
var goTagsQuery string

var goLayout = &symtree.Layout{
	Name:           "go",
	Separator:      ".",
	ReturnTypeLast: true,
	Groups: []symtree.Group{
		{Name: "Package", Types: symtree.TypePackage},
		{Name: "Functions", Types: symtree.TypeFunction},
		{Name: "Interfaces", Types: symtree.TypeInterface},
		{Name: "Structs", Types: symtree.TypeStruct},
		{Name: "Types", Types: symtree.TypeTypedef},
		{Name: "Methods", Types: symtree.TypeMethod},
		{Name: "Members", Types: symtree.TypeMember},
		{Name: "Constants", Types: symtree.TypeMacro},
		{Name: "Variables", Types: symtree.TypeVariable},
	},
	ScopeTypes: symtree.TypeFunction | symtree.TypeMethod | symtree.TypeStruct | symtree.TypeInterface,
}

// Go implements the Language interface for Go source code.
type Go struct{}

func init() {
	Register(&Go{})
}

func (g *Go) Name() string {
	return "go"
}

func (g *Go) Extensions() []string {
	return []string{".go"}
}

func (g *Go) TreeSitterLang() *sitter.Language {
	return golang.GetLanguage()
}

func (g *Go) TagsQuery() string {
	return goTagsQuery
}

func (g *Go) Layout() *symtree.Layout {
	return goLayout
}

func (g *Go) Describe(def *sitter.Node, tag *symtree.Tag, source []byte) bool {
	switch tag.Type {
	case symtree.TypeFunction:
		tag.Arglist = fieldText(def, "parameters", source)
		tag.VarType = fieldText(def, "result", source)

	case symtree.TypeMethod:
		tag.Arglist = fieldText(def, "parameters", source)
		tag.VarType = fieldText(def, "result", source)
		if recv := def.ChildByFieldName("receiver"); recv != nil {
			tag.Scope = goReceiverType(recv, source)
		}

	case symtree.TypeTypedef:
		if typ := def.ChildByFieldName("type"); typ != nil {
			switch typ.Type() {
			case "struct_type":
				tag.Type = symtree.TypeStruct
			case "interface_type":
				tag.Type = symtree.TypeInterface
			default:
				tag.VarType = CollapseWhitespace(NodeText(typ, source))
			}
		}

	case symtree.TypeMember:
		tag.VarType = fieldText(def, "type", source)
		if spec := goEnclosing(def, "type_spec"); spec != nil {
			tag.Scope = fieldText(spec, "name", source)
		}

	case symtree.TypeMacro, symtree.TypeVariable:
		if goEnclosing(def, "function_declaration", "method_declaration", "func_literal") != nil {
			return false
		}
		tag.VarType = fieldText(def, "type", source)
	}
	return true
}

// goReceiverType extracts "T" from receivers like "(t *T)" or "(l List[E])".
func goReceiverType(recv *sitter.Node, source []byte) string {
	for i := 0; i < int(recv.NamedChildCount()); i++ {
		param := recv.NamedChild(i)
		if param.Type() != "parameter_declaration" {
			continue
		}
		typ := fieldText(param, "type", source)
		typ = strings.TrimPrefix(typ, "*")
		if j := strings.IndexByte(typ, '['); j >= 0 {
			typ = typ[:j]
		}
		return typ
	}
	return ""
}

func goEnclosing(node *sitter.Node, types ...string) *sitter.Node {
	for p := node.Parent(); p != nil; p = p.Parent() {
		for _, t := range types {
			if p.Type() == t {
				return p
			}
		}
	}
	return nil
}
