package analyzer

import (
	sitter "github.com/smacker/go-tree-sitter"
	"github.com/zby/classpairs/pkg/models"
	"github.com/zby/classpairs/pkg/parser"
)

// extractPythonDecls collects class definitions from a Python AST. Only
// class nesting contributes to the qualified name; classes defined inside
// functions keep the enclosing class chain of the function's owner.
func extractPythonDecls(result *parser.ParseResult) []models.DeclRecord {
	var out []models.DeclRecord
	for _, node := range parser.FindNodesByType(result.Tree.RootNode(), result.Source, "class_definition") {
		name := pythonClassName(node, result.Source)
		if name == "" {
			continue
		}
		out = append(out, models.DeclRecord{
			Name:      name,
			Enclosing: enclosingDecls(node, result.Source, isPythonClass, pythonClassName),
			Parents:   pythonSuperclasses(node, result.Source),
			Source:    parser.GetNodeText(node, result.Source),
		})
	}
	return out
}

func isPythonClass(node *sitter.Node) bool {
	return node.Type() == "class_definition"
}

func pythonClassName(node *sitter.Node, src []byte) string {
	return parser.GetNodeText(node.ChildByFieldName("name"), src)
}

// pythonSuperclasses reads the base-class list of a class_definition.
// Bare names and dotted attribute chains are taken as written; keyword
// arguments (metaclass=...) and subscripted generics are skipped, matching
// a best-effort rather than full symbol resolution.
func pythonSuperclasses(node *sitter.Node, src []byte) []string {
	argsNode := node.ChildByFieldName("superclasses")
	if argsNode == nil {
		return nil
	}

	var parents []string
	for i := range int(argsNode.NamedChildCount()) {
		child := argsNode.NamedChild(i)
		switch child.Type() {
		case "identifier", "attribute":
			if name := parser.GetNodeText(child, src); name != "" {
				parents = append(parents, name)
			}
		}
	}
	return parents
}
