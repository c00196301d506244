package lang

import (
	_ "embed"
	"strings"

	sitter "github.com/smacker/go-tree-sitter"
	"github.com/smacker/go-tree-sitter/python"

	"github.com/arjunmahishi/symtree/symtree"
)

//go:embed queries/python/tags.scm
var pythonTagsQuery string

var pythonLayout = &symtree.Layout{
	Name:      "python",
	Separator: ".",
	FullScope: true,
	Groups: []symtree.Group{
		{Name: "Classes", Types: symtree.TypeClass},
		{Name: "Functions", Types: symtree.TypeFunction},
		{Name: "Methods", Types: symtree.TypeMethod},
		{Name: "Variables", Types: symtree.TypeVariable},
	},
	ScopeTypes: symtree.TypeClass | symtree.TypeFunction | symtree.TypeMethod,
}

// Python implements the Language interface for Python source code.
type Python struct{}

func init() {
	Register(&Python{})
}

func (p *Python) Name() string {
	return "python"
}

func (p *Python) Extensions() []string {
	return []string{".py", ".pyi"}
}

func (p *Python) TreeSitterLang() *sitter.Language {
	return python.GetLanguage()
}

func (p *Python) TagsQuery() string {
	return pythonTagsQuery
}

func (p *Python) Layout() *symtree.Layout {
	return pythonLayout
}

// Describe scopes a definition by the chain of classes and functions
// around it. Functions directly inside a class body become methods.
func (p *Python) Describe(def *sitter.Node, tag *symtree.Tag, source []byte) bool {
	var chain []string
	var inner string
	for n := def.Parent(); n != nil; n = n.Parent() {
		switch n.Type() {
		case "class_definition", "function_definition":
			if inner == "" {
				inner = n.Type()
			}
			chain = append(chain, fieldText(n, "name", source))
		}
	}
	for i, j := 0, len(chain)-1; i < j; i, j = i+1, j-1 {
		chain[i], chain[j] = chain[j], chain[i]
	}
	tag.Scope = strings.Join(chain, ".")

	switch tag.Type {
	case symtree.TypeClass:
		tag.Inheritance = strings.Trim(fieldText(def, "superclasses", source), "()")
	case symtree.TypeFunction:
		if inner == "class_definition" {
			tag.Type = symtree.TypeMethod
		}
		tag.Arglist = fieldText(def, "parameters", source)
		tag.VarType = fieldText(def, "return_type", source)
	case symtree.TypeVariable:
		tag.VarType = fieldText(def, "type", source)
	}
	return true
}
