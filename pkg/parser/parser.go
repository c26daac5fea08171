package parser

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	sitter "github.com/smacker/go-tree-sitter"
	"github.com/smacker/go-tree-sitter/javascript"
	"github.com/smacker/go-tree-sitter/python"
	"github.com/smacker/go-tree-sitter/ruby"
	"github.com/smacker/go-tree-sitter/typescript/tsx"
	"github.com/smacker/go-tree-sitter/typescript/typescript"
)

// Language represents a supported programming language.
type Language string

const (
	LangPython     Language = "python"
	LangRuby       Language = "ruby"
	LangTypeScript Language = "typescript"
	LangTSX        Language = "tsx"
	LangJavaScript Language = "javascript"
	LangUnknown    Language = "unknown"
)

// Parser wraps tree-sitter for multi-language parsing.
type Parser struct {
	parser *sitter.Parser
}

// ParseResult contains the parsed AST and metadata.
type ParseResult struct {
	Tree     *sitter.Tree
	Language Language
	Source   []byte
	Path     string
}

// New creates a new parser instance.
func New() *Parser {
	return &Parser{
		parser: sitter.NewParser(),
	}
}

// ParseFile parses a source file and returns the AST.
func (p *Parser) ParseFile(path string) (*ParseResult, error) {
	source, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read file: %w", err)
	}

	lang := DetectLanguage(path)
	if lang == LangUnknown {
		return nil, fmt.Errorf("unsupported language for file: %s", path)
	}

	return p.Parse(source, lang, path)
}

// Parse parses source code with a specified language.
func (p *Parser) Parse(source []byte, lang Language, path string) (*ParseResult, error) {
	tsLang, err := GetTreeSitterLanguage(lang)
	if err != nil {
		return nil, err
	}

	p.parser.SetLanguage(tsLang)
	tree, err := p.parser.ParseCtx(context.Background(), nil, source)
	if err != nil {
		return nil, fmt.Errorf("failed to parse: %w", err)
	}

	return &ParseResult{
		Tree:     tree,
		Language: lang,
		Source:   source,
		Path:     path,
	}, nil
}

// GetTreeSitterLanguage returns the tree-sitter language for a Language enum.
func GetTreeSitterLanguage(lang Language) (*sitter.Language, error) {
	switch lang {
	case LangPython:
		return python.GetLanguage(), nil
	case LangRuby:
		return ruby.GetLanguage(), nil
	case LangTypeScript:
		return typescript.GetLanguage(), nil
	case LangTSX:
		return tsx.GetLanguage(), nil
	case LangJavaScript:
		return javascript.GetLanguage(), nil
	default:
		return nil, fmt.Errorf("unsupported language: %s", lang)
	}
}

// DetectLanguage determines the language from a file path.
func DetectLanguage(path string) Language {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".py", ".pyw", ".pyi":
		return LangPython
	case ".rb":
		return LangRuby
	case ".ts":
		return LangTypeScript
	case ".tsx":
		return LangTSX
	case ".jsx":
		return LangTSX // Use TSX parser for JSX
	case ".js", ".mjs", ".cjs":
		return LangJavaScript
	default:
		return LangUnknown
	}
}

// Close releases parser resources.
func (p *Parser) Close() {
	p.parser.Close()
}

// NodeVisitor is a function that visits AST nodes.
type NodeVisitor func(node *sitter.Node, source []byte) bool

// Walk traverses the AST calling visitor for each node.
func Walk(node *sitter.Node, source []byte, visitor NodeVisitor) {
	if node == nil {
		return
	}

	if !visitor(node, source) {
		return
	}

	for i := range int(node.ChildCount()) {
		Walk(node.Child(i), source, visitor)
	}
}

// FindNodesByType returns all nodes of a specific type.
func FindNodesByType(root *sitter.Node, source []byte, nodeType string) []*sitter.Node {
	var results []*sitter.Node
	Walk(root, source, func(node *sitter.Node, _ []byte) bool {
		if node.Type() == nodeType {
			results = append(results, node)
		}
		return true
	})
	return results
}

// GetNodeText extracts the source text for a node.
// Returns empty string if node is nil or byte offsets are out of bounds.
func GetNodeText(node *sitter.Node, source []byte) string {
	if node == nil {
		return ""
	}
	start := node.StartByte()
	end := node.EndByte()
	if start > end || end > uint32(len(source)) {
		return ""
	}
	return string(source[start:end])
}
