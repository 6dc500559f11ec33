package extract

import "testing"

func TestRegistryLookupKnownExtensions(t *testing.T) {
	r := NewRegistry()

	cases := map[string]string{
		".go":  "go",
		".ts":  "typescript",
		".tsx": "tsx",
		".js":  "javascript",
		".jsx": "jsx",
		".py":  "python",
	}
	for ext, wantLang := range cases {
		g, ok := r.Lookup(ext)
		if !ok {
			t.Fatalf("expected dedicated grammar for %s", ext)
		}
		if g.Language() != wantLang {
			t.Fatalf("%s: got language %q, want %q", ext, g.Language(), wantLang)
		}
	}
}

func TestRegistryFallsBackToGenericForUnknownExtension(t *testing.T) {
	r := NewRegistry()
	g, ok := r.Lookup(".rs")
	if ok {
		t.Fatal("expected no dedicated grammar for .rs")
	}
	if g.Language() != "text" {
		t.Fatalf("expected generic grammar, got %q", g.Language())
	}
}

func TestRegistryLookupNormalizesCaseAndMissingDot(t *testing.T) {
	r := NewRegistry()
	g, ok := r.Lookup("GO")
	if !ok || g.Language() != "go" {
		t.Fatalf("expected normalized lookup to find go grammar, got %q ok=%v", g.Language(), ok)
	}
}
