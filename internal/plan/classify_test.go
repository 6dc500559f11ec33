package plan

import "testing"

func TestLooksLikeSymbolDetectsIdentifierShapes(t *testing.T) {
	cases := map[string]bool{
		"getUserById":     true,
		"HttpClient":      true,
		"max_retry_count": true,
		"MAX_RETRY_COUNT": true,
		"List<T>":         true,
		"hello":           false,
		"the quick fox":   false,
	}
	for term, want := range cases {
		if got := looksLikeSymbol(term); got != want {
			t.Errorf("looksLikeSymbol(%q) = %v, want %v", term, got, want)
		}
	}
}

func TestClassifyRoutesPurePhraseToTextOnly(t *testing.T) {
	c := classify("how do I connect to the database")
	if !c.runText || c.runSymbol || c.runLiteral {
		t.Fatalf("got %+v, want text-only", c)
	}
}

func TestClassifyRoutesIdentifierToSymbolAndText(t *testing.T) {
	c := classify("parseConfigFile")
	if !c.runText || !c.runSymbol {
		t.Fatalf("got %+v, want both symbol and text", c)
	}
}

func TestClassifyRoutesGenericsToSymbol(t *testing.T) {
	c := classify("Map<String, List<Integer>>")
	if !c.runSymbol {
		t.Fatalf("got %+v, want symbol branch for generics", c)
	}
}

func TestClassifyRoutesSyntacticCharsToLiteral(t *testing.T) {
	c := classify("foo(bar, baz)")
	if !c.runLiteral {
		t.Fatalf("got %+v, want literal branch for syntactic query", c)
	}
}

func TestClassifyEmptyQueryRunsTextOnly(t *testing.T) {
	c := classify("   ")
	if !c.runText || c.runSymbol || c.runLiteral {
		t.Fatalf("got %+v, want text-only for empty query", c)
	}
}
