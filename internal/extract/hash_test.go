package extract

import "testing"

func TestFileHashIsStableAndWide(t *testing.T) {
	a := FileHash([]byte("package main\n"))
	b := FileHash([]byte("package main\n"))
	if a != b {
		t.Fatalf("FileHash not stable: %q != %q", a, b)
	}
	if len(a) != 64 {
		t.Fatalf("expected 64 hex chars (32 bytes), got %d", len(a))
	}
}

func TestFileHashDiffersOnContentChange(t *testing.T) {
	a := FileHash([]byte("package main\n"))
	b := FileHash([]byte("package other\n"))
	if a == b {
		t.Fatal("expected different hashes for different content")
	}
}

func TestSymbolIDStableAndContentAddressed(t *testing.T) {
	a := SymbolID("a.go", "Foo", 10, KindFunction)
	b := SymbolID("a.go", "Foo", 10, KindFunction)
	if a != b {
		t.Fatalf("SymbolID not stable: %q != %q", a, b)
	}

	c := SymbolID("a.go", "Foo", 11, KindFunction)
	if a == c {
		t.Fatal("expected different id when start line differs")
	}
}
