package analyzer

import (
	"fmt"
	"sort"

	sitter "github.com/smacker/go-tree-sitter"
	"github.com/zby/classpairs/pkg/graph"
	"github.com/zby/classpairs/pkg/models"
	"github.com/zby/classpairs/pkg/parser"
)

// UnitError records a source unit that contributed nothing to the graph.
type UnitError struct {
	Unit string
	Err  error
}

func (e UnitError) Error() string {
	return fmt.Sprintf("%s: %v", e.Unit, e.Err)
}

// Result is the outcome of one build run: the populated graph plus the
// units that failed to parse. Failed units are skipped, never fatal.
type Result struct {
	Graph  *graph.Graph
	Errors []UnitError
}

// InheritanceAnalyzer extracts class declarations from source units and
// registers them into an inheritance graph.
type InheritanceAnalyzer struct {
	workers int
}

// Option is a functional option for configuring InheritanceAnalyzer.
type Option func(*InheritanceAnalyzer)

// WithWorkers sets the parse worker count (0 = default).
func WithWorkers(n int) Option {
	return func(a *InheritanceAnalyzer) {
		a.workers = n
	}
}

// NewInheritanceAnalyzer creates a new analyzer.
func NewInheritanceAnalyzer(opts ...Option) *InheritanceAnalyzer {
	a := &InheritanceAnalyzer{}
	for _, opt := range opts {
		opt(a)
	}
	return a
}

// unitDecls holds one parsed unit's contribution before registration.
type unitDecls struct {
	path    string
	text    string
	records []models.DeclRecord
	err     error
}

// AnalyzeProject parses all files and builds the inheritance graph.
func (a *InheritanceAnalyzer) AnalyzeProject(files []string) (*Result, error) {
	return a.AnalyzeProjectWithProgress(files, nil)
}

// AnalyzeProjectWithProgress builds the graph with an optional progress
// callback. Parsing runs in parallel; registration is a single serial pass
// over units sorted by path, so the graph contents do not depend on
// filesystem traversal order and name-collision overwrites resolve
// deterministically (last path in sort order wins).
func (a *InheritanceAnalyzer) AnalyzeProjectWithProgress(files []string, onProgress ProgressFunc) (*Result, error) {
	units := mapFiles(files, a.workers, func(psr *parser.Parser, path string) (unitDecls, error) {
		result, err := psr.ParseFile(path)
		if err != nil {
			return unitDecls{path: path, err: err}, nil
		}
		return unitDecls{
			path:    path,
			text:    string(result.Source),
			records: ExtractDecls(result),
		}, nil
	}, onProgress)

	sort.Slice(units, func(i, j int) bool { return units[i].path < units[j].path })

	res := &Result{Graph: graph.New()}
	for _, u := range units {
		if u.err != nil {
			res.Errors = append(res.Errors, UnitError{Unit: u.path, Err: u.err})
			continue
		}
		for _, rec := range u.records {
			res.Graph.Register(rec.QualifiedName(), rec.Parents, rec.Source, u.path, u.text)
		}
	}
	return res, nil
}

// ExtractDecls pulls class-like declarations out of a parsed unit, in
// source order. Parent references are kept exactly as written in the source
// (a bare name and a qualified spelling of the same class are not unified).
func ExtractDecls(result *parser.ParseResult) []models.DeclRecord {
	switch result.Language {
	case parser.LangPython:
		return extractPythonDecls(result)
	case parser.LangRuby:
		return extractRubyDecls(result)
	case parser.LangTypeScript, parser.LangTSX, parser.LangJavaScript:
		return extractScriptDecls(result)
	}
	return nil
}

// enclosingDecls collects the names of the class-like declarations lexically
// enclosing node, outermost first, by following parent links. isDecl selects
// the node types that contribute to the qualified name and nameOf reads a
// declaration's own name.
func enclosingDecls(node *sitter.Node, src []byte, isDecl func(*sitter.Node) bool, nameOf func(*sitter.Node, []byte) string) []string {
	var chain []string
	for p := node.Parent(); p != nil; p = p.Parent() {
		if !isDecl(p) {
			continue
		}
		if name := nameOf(p, src); name != "" {
			chain = append(chain, name)
		}
	}
	for i, j := 0, len(chain)-1; i < j; i, j = i+1, j-1 {
		chain[i], chain[j] = chain[j], chain[i]
	}
	return chain
}
