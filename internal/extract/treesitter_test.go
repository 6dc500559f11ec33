package extract

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const goSource = `package sample

// Add returns the sum of a and b.
func Add(a, b int) int {
	return a + b
}

type Greeter struct {
	Name string
}

func (g *Greeter) Hello() string {
	return "hello " + g.Name
}

type Shape interface {
	Area() float64
}
`

func TestGoGrammarExtractsSymbolsAndContainment(t *testing.T) {
	g := newTreeSitterGrammar(goSpec)
	symbols, rels, err := g.Extract(context.Background(), "sample.go", []byte(goSource))
	require.NoError(t, err)

	byName := map[string]*Symbol{}
	for _, s := range symbols {
		byName[s.Name] = s
	}

	require.Contains(t, byName, "Add")
	assert.Equal(t, KindFunction, byName["Add"].Kind)
	assert.Equal(t, "func Add(a, b int) int", byName["Add"].Signature)

	require.Contains(t, byName, "Greeter")
	assert.Equal(t, KindStruct, byName["Greeter"].Kind)

	require.Contains(t, byName, "Hello")
	assert.Equal(t, KindMethod, byName["Hello"].Kind)

	require.Contains(t, byName, "Shape")
	assert.Equal(t, KindInterface, byName["Shape"].Kind)

	require.Contains(t, byName, "Name")
	assert.Equal(t, KindField, byName["Name"].Kind)
	assert.Equal(t, byName["Greeter"].ID, byName["Name"].ContainingSymbolID)

	var containsGreeterField bool
	for _, r := range rels {
		if r.Type == RelContains && r.SourceSymbolID == byName["Greeter"].ID && r.TargetSymbolID == byName["Name"].ID {
			containsGreeterField = true
		}
	}
	assert.True(t, containsGreeterField, "expected a contains edge from Greeter to its Name field")
}

func TestGoGrammarIsDeterministic(t *testing.T) {
	g := newTreeSitterGrammar(goSpec)
	s1, _, err := g.Extract(context.Background(), "sample.go", []byte(goSource))
	require.NoError(t, err)
	s2, _, err := g.Extract(context.Background(), "sample.go", []byte(goSource))
	require.NoError(t, err)

	require.Equal(t, len(s1), len(s2))
	for i := range s1 {
		assert.Equal(t, s1[i].ID, s2[i].ID)
		assert.Equal(t, s1[i].Name, s2[i].Name)
	}
}

const pythonSource = `class Greeter:
    def hello(self):
        return "hi"


def standalone():
    return 1
`

func TestPythonGrammarPromotesNestedFunctionToMethod(t *testing.T) {
	g := newTreeSitterGrammar(pythonSpec)
	symbols, _, err := g.Extract(context.Background(), "sample.py", []byte(pythonSource))
	require.NoError(t, err)

	byName := map[string]*Symbol{}
	for _, s := range symbols {
		byName[s.Name] = s
	}

	require.Contains(t, byName, "hello")
	assert.Equal(t, KindMethod, byName["hello"].Kind)

	require.Contains(t, byName, "standalone")
	assert.Equal(t, KindFunction, byName["standalone"].Kind)
}
