package analyzer

import (
	"strings"

	sitter "github.com/smacker/go-tree-sitter"
	"github.com/zby/classpairs/pkg/models"
	"github.com/zby/classpairs/pkg/parser"
)

// extractRubyDecls collects class and module definitions from a Ruby AST.
// Scope-resolved names (Foo::Bar) are normalized to the dotted convention
// so one naming scheme covers every language.
func extractRubyDecls(result *parser.ParseResult) []models.DeclRecord {
	var out []models.DeclRecord
	for _, node := range rubyClassNodes(result.Tree.RootNode(), result.Source) {
		name := rubyConstantName(node, result.Source)
		if name == "" {
			continue
		}
		out = append(out, models.DeclRecord{
			Name:      name,
			Enclosing: enclosingDecls(node, result.Source, isRubyClass, rubyConstantName),
			Parents:   rubySuperclass(node, result.Source),
			Source:    parser.GetNodeText(node, result.Source),
		})
	}
	return out
}

// rubyClassNodes returns class and module nodes in source order.
func rubyClassNodes(root *sitter.Node, src []byte) []*sitter.Node {
	var nodes []*sitter.Node
	parser.Walk(root, src, func(node *sitter.Node, _ []byte) bool {
		if isRubyClass(node) {
			nodes = append(nodes, node)
		}
		return true
	})
	return nodes
}

func isRubyClass(node *sitter.Node) bool {
	t := node.Type()
	return t == "class" || t == "module"
}

// rubyConstantName finds the constant (or namespaced constant) naming a
// class/module node.
func rubyConstantName(node *sitter.Node, src []byte) string {
	if nameNode := node.ChildByFieldName("name"); nameNode != nil {
		return normalizeRubyScope(parser.GetNodeText(nameNode, src))
	}
	// Fall back to the first constant child for grammar versions without
	// the name field.
	for i := range int(node.ChildCount()) {
		child := node.Child(i)
		if child.Type() == "constant" || child.Type() == "scope_resolution" {
			return normalizeRubyScope(parser.GetNodeText(child, src))
		}
	}
	return ""
}

// rubySuperclass reads the `< Parent` clause of a class node, if present.
// Modules have no superclass.
func rubySuperclass(node *sitter.Node, src []byte) []string {
	superNode := node.ChildByFieldName("superclass")
	if superNode == nil {
		return nil
	}
	for i := range int(superNode.NamedChildCount()) {
		child := superNode.NamedChild(i)
		if child.Type() == "constant" || child.Type() == "scope_resolution" {
			return []string{normalizeRubyScope(parser.GetNodeText(child, src))}
		}
	}
	return nil
}

func normalizeRubyScope(name string) string {
	return strings.ReplaceAll(name, "::", ".")
}
