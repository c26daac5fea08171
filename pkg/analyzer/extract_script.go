package analyzer

import (
	sitter "github.com/smacker/go-tree-sitter"
	"github.com/zby/classpairs/pkg/models"
	"github.com/zby/classpairs/pkg/parser"
)

// extractScriptDecls collects class declarations from a TypeScript, TSX, or
// JavaScript AST. Anonymous class expressions are skipped; there is nothing
// to register them under.
func extractScriptDecls(result *parser.ParseResult) []models.DeclRecord {
	var out []models.DeclRecord
	for _, node := range scriptClassNodes(result.Tree.RootNode(), result.Source) {
		name := scriptClassName(node, result.Source)
		if name == "" {
			continue
		}
		out = append(out, models.DeclRecord{
			Name:      name,
			Enclosing: enclosingDecls(node, result.Source, isScriptClass, scriptClassName),
			Parents:   scriptHeritage(node, result.Source),
			Source:    parser.GetNodeText(node, result.Source),
		})
	}
	return out
}

// scriptClassNodes returns class declaration and class expression nodes in
// source order.
func scriptClassNodes(root *sitter.Node, src []byte) []*sitter.Node {
	var nodes []*sitter.Node
	parser.Walk(root, src, func(node *sitter.Node, _ []byte) bool {
		if isScriptClass(node) {
			nodes = append(nodes, node)
		}
		return true
	})
	return nodes
}

func isScriptClass(node *sitter.Node) bool {
	t := node.Type()
	return t == "class_declaration" || t == "class"
}

func scriptClassName(node *sitter.Node, src []byte) string {
	return parser.GetNodeText(node.ChildByFieldName("name"), src)
}

// scriptHeritage reads the extends clause of a class node. TypeScript wraps
// it in an extends_clause inside class_heritage; JavaScript puts the parent
// expression directly inside class_heritage. Only plain identifiers and
// dotted member expressions are taken; mixin calls like `extends mix(Base)`
// are not resolvable by name and are skipped.
func scriptHeritage(node *sitter.Node, src []byte) []string {
	var parents []string
	for i := range int(node.ChildCount()) {
		heritage := node.Child(i)
		if heritage.Type() != "class_heritage" {
			continue
		}

		scope := heritage
		for j := range int(heritage.NamedChildCount()) {
			if c := heritage.NamedChild(j); c.Type() == "extends_clause" {
				scope = c
				break
			}
		}

		for j := range int(scope.NamedChildCount()) {
			child := scope.NamedChild(j)
			switch child.Type() {
			case "identifier", "member_expression", "type_identifier", "nested_type_identifier":
				if name := parser.GetNodeText(child, src); name != "" {
					parents = append(parents, name)
				}
			}
		}
	}
	return parents
}
