package analyzer

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/zby/classpairs/pkg/models"
	"github.com/zby/classpairs/pkg/parser"
)

func parseSource(t *testing.T, src string, lang parser.Language) *parser.ParseResult {
	t.Helper()
	p := parser.New()
	defer p.Close()
	result, err := p.Parse([]byte(src), lang, "test."+string(lang))
	require.NoError(t, err)
	return result
}

func writeTree(t *testing.T, files map[string]string) (string, []string) {
	t.Helper()
	dir := t.TempDir()
	var paths []string
	for name, content := range files {
		path := filepath.Join(dir, name)
		require.NoError(t, os.MkdirAll(filepath.Dir(path), 0755))
		require.NoError(t, os.WriteFile(path, []byte(content), 0644))
		paths = append(paths, path)
	}
	return dir, paths
}

func TestExtractPythonClasses(t *testing.T) {
	src := `class Animal:
    pass

class Dog(Animal):
    def bark(self):
        pass

class Puppy(Dog, abc.ABC, metaclass=Meta):
    pass
`
	result := parseSource(t, src, parser.LangPython)
	decls := ExtractDecls(result)
	require.Len(t, decls, 3)

	assert.Equal(t, "Animal", decls[0].Name)
	assert.Empty(t, decls[0].Parents)
	assert.Contains(t, decls[0].Source, "class Animal")

	assert.Equal(t, "Dog", decls[1].Name)
	assert.Equal(t, []string{"Animal"}, decls[1].Parents)

	assert.Equal(t, "Puppy", decls[2].Name)
	assert.Equal(t, []string{"Dog", "abc.ABC"}, decls[2].Parents, "dotted base kept, metaclass skipped")
}

func TestExtractPythonNestedClasses(t *testing.T) {
	src := `class Outer:
    class Inner(Outer):
        class Deepest:
            pass

def factory():
    class Local:
        pass
    return Local
`
	result := parseSource(t, src, parser.LangPython)
	decls := ExtractDecls(result)
	require.Len(t, decls, 4)

	names := make([]string, len(decls))
	for i, d := range decls {
		names[i] = d.QualifiedName()
	}
	assert.Equal(t, []string{"Outer", "Outer.Inner", "Outer.Inner.Deepest", "Local"}, names)
}

func TestExtractRubyClasses(t *testing.T) {
	src := `module Billing
  class Charge < Stripe::Charge
  end

  class Refund < Charge
  end
end

class Plain
end
`
	result := parseSource(t, src, parser.LangRuby)
	decls := ExtractDecls(result)
	require.Len(t, decls, 4)

	assert.Equal(t, "Billing", decls[0].QualifiedName())
	assert.Empty(t, decls[0].Parents, "modules have no superclass")

	assert.Equal(t, "Billing.Charge", decls[1].QualifiedName())
	assert.Equal(t, []string{"Stripe.Charge"}, decls[1].Parents)

	assert.Equal(t, "Billing.Refund", decls[2].QualifiedName())
	assert.Equal(t, []string{"Charge"}, decls[2].Parents)

	assert.Equal(t, "Plain", decls[3].QualifiedName())
}

func TestExtractTypeScriptClasses(t *testing.T) {
	src := `class Widget {}

class Button extends Widget implements Clickable {
  press(): void {}
}

class Fancy extends ui.Panel {}
`
	result := parseSource(t, src, parser.LangTypeScript)
	decls := ExtractDecls(result)
	require.Len(t, decls, 3)

	assert.Empty(t, decls[0].Parents)
	assert.Equal(t, []string{"Widget"}, decls[1].Parents, "implements clause ignored")
	assert.Equal(t, []string{"ui.Panel"}, decls[2].Parents)
}

func TestExtractJavaScriptClasses(t *testing.T) {
	src := `class Base {}
class Child extends Base {}
const Anon = class extends Base {};
`
	result := parseSource(t, src, parser.LangJavaScript)
	decls := ExtractDecls(result)
	require.Len(t, decls, 2, "anonymous class expression skipped")
	assert.Equal(t, "Base", decls[0].Name)
	assert.Equal(t, []string{"Base"}, decls[1].Parents)
}

func TestAnalyzeProjectBuildsGraph(t *testing.T) {
	_, paths := writeTree(t, map[string]string{
		"base.py": "class Base:\n    pass\n",
		"sub.py":  "class Mid(Base):\n    pass\n\nclass Leaf(Mid):\n    pass\n",
	})

	a := NewInheritanceAnalyzer()
	res, err := a.AnalyzeProject(paths)
	require.NoError(t, err)
	require.Empty(t, res.Errors)

	g := res.Graph
	assert.Equal(t, 3, g.Len())
	assert.True(t, g.IsAncestor("Base", "Leaf"))

	pairs := g.AllPairs()
	want := []models.Pair{
		{Ancestor: "Base", Descendant: "Leaf"},
		{Ancestor: "Base", Descendant: "Mid"},
		{Ancestor: "Mid", Descendant: "Leaf"},
	}
	assert.Equal(t, want, pairs)

	assert.Contains(t, g.Unit("Base"), "base.py")
	assert.Contains(t, g.Unit("Leaf"), "sub.py")
	assert.Equal(t, "class Base:\n    pass\n", g.UnitText(g.Unit("Base")))
}

func TestAnalyzeProjectUnreadableUnitSkipped(t *testing.T) {
	_, paths := writeTree(t, map[string]string{
		"good.py": "class Animal:\n    pass\n\nclass Dog(Animal):\n    pass\n",
	})
	paths = append(paths, filepath.Join(t.TempDir(), "missing.py"))

	a := NewInheritanceAnalyzer()
	res, err := a.AnalyzeProject(paths)
	require.NoError(t, err)

	require.Len(t, res.Errors, 1)
	assert.Contains(t, res.Errors[0].Unit, "missing.py")

	// The healthy unit still contributes.
	assert.Equal(t, []models.Pair{{Ancestor: "Animal", Descendant: "Dog"}}, res.Graph.AllPairs())
}

func TestAnalyzeProjectCollisionLastPathWins(t *testing.T) {
	_, paths := writeTree(t, map[string]string{
		"a_first.py": "class Thing:\n    x = 1\n",
		"z_last.py":  "class Thing:\n    x = 2\n",
	})

	a := NewInheritanceAnalyzer(WithWorkers(4))
	res, err := a.AnalyzeProject(paths)
	require.NoError(t, err)

	require.Equal(t, 1, res.Graph.Len())
	assert.Contains(t, res.Graph.Unit("Thing"), "z_last.py")
	assert.Contains(t, res.Graph.Source("Thing"), "x = 2")
}
