package fat

import "testing"

func mustName11(t *testing.T, g *ShortNameGenerator, longName string) string {
	t.Helper()
	n, err := g.Generate(longName)
	if err != nil {
		t.Fatalf("Generate(%q): %v", longName, err)
	}
	var se ShortEntry
	copy(se.raw.buf[dirNameOff:dirNameOff+11], n[:])
	return se.Name()
}

func TestShortNameGeneratorCleanNamePassesThrough(t *testing.T) {
	g := NewShortNameGenerator(nil)
	got := mustName11(t, g, "README.TXT")
	if got != "README.TXT" {
		t.Fatalf("Generate(README.TXT) = %q, want README.TXT (no tail needed)", got)
	}
}

func TestShortNameGeneratorDropsNonASCIIAndForcesTail(t *testing.T) {
	g := NewShortNameGenerator(nil)
	got := mustName11(t, g, "My Résumé.docx")
	if got != "MYRSUM~1.DOC" {
		t.Fatalf("Generate(My Résumé.docx) = %q, want MYRSUM~1.DOC", got)
	}
}

func TestShortNameGeneratorIllegalASCIIBecomesUnderscore(t *testing.T) {
	g := NewShortNameGenerator(nil)
	got := mustName11(t, g, "a+b=c.txt")
	want := "A_B_C~1.TXT"
	if got != want {
		t.Fatalf("Generate(a+b=c.txt) = %q, want %q", got, want)
	}
}

func TestShortNameGeneratorCollisionBumpsTail(t *testing.T) {
	var used [11]byte
	copy(used[:], "LONGNA~1TXT"[:11])
	g := NewShortNameGenerator([][11]byte{used})
	got := mustName11(t, g, "longname-one.txt")
	if got != "LONGNA~2.TXT" {
		t.Fatalf("Generate with collision = %q, want LONGNA~2.TXT", got)
	}
}

func TestShortNameGeneratorExhaustion(t *testing.T) {
	var usedSet [][11]byte
	// Build a used-set covering every possible ~N tail for this base.
	for n := 1; n <= 99998; n++ {
		se := &ShortEntry{}
		name11, err := NewShortNameGenerator(usedSet).Generate("averylongname.txt")
		if err != nil {
			t.Fatalf("unexpected exhaustion at n=%d: %v", n, err)
		}
		copy(se.raw.buf[dirNameOff:dirNameOff+11], name11[:])
		usedSet = append(usedSet, name11)
	}
	if _, err := NewShortNameGenerator(usedSet).Generate("averylongname.txt"); err == nil {
		t.Fatal("expected ErrShortNameExhausted once every ~N tail is taken")
	} else if e, ok := err.(*Error); !ok || e.Kind != ErrShortNameExhausted {
		t.Fatalf("expected ErrShortNameExhausted, got %v", err)
	}
}

// B4: a filename starting with '.' splits into an empty base and an
// extension taken from everything after the dot.
func TestSplitBaseExtLeadingDot(t *testing.T) {
	base, ext := splitBaseExt(".bashrc")
	if base != "" || ext != "bashrc" {
		t.Fatalf("splitBaseExt(.bashrc) = (%q, %q), want (\"\", bashrc)", base, ext)
	}
}

// B1: a clean name whose base is exactly 8 chars needs no tilde suffix.
func TestShortNameGeneratorExactly8CharsNoTilde(t *testing.T) {
	g := NewShortNameGenerator(nil)
	got := mustName11(t, g, "ABCDEFGH.TXT")
	if got != "ABCDEFGH.TXT" {
		t.Fatalf("Generate(ABCDEFGH.TXT) = %q, want ABCDEFGH.TXT (no tilde)", got)
	}
}

// B2: a clean 9-char base forces a ~1 suffix with the prefix trimmed to 6.
func TestShortNameGeneratorNineCharsForcesTrimmedTilde(t *testing.T) {
	g := NewShortNameGenerator(nil)
	got := mustName11(t, g, "ABCDEFGHI.TXT")
	if got != "ABCDEF~1.TXT" {
		t.Fatalf("Generate(ABCDEFGHI.TXT) = %q, want ABCDEF~1.TXT", got)
	}
}

// B4: a filename starting with '.' treats everything before the dot as an
// empty base (which falls back to "_") and takes the extension from what
// follows the dot, truncated to 3 bytes; the empty-base fallback forces a
// numeric tail (the extension truncation plays no part in that).
func TestShortNameGeneratorLeadingDotFilename(t *testing.T) {
	base, ext := splitBaseExt(".bashrc")
	if base != "" || ext != "bashrc" {
		t.Fatalf("splitBaseExt(.bashrc) = (%q, %q), want (\"\", bashrc)", base, ext)
	}
	g := NewShortNameGenerator(nil)
	got := mustName11(t, g, ".bashrc")
	if got != "_~1.BAS" {
		t.Fatalf("Generate(.bashrc) = %q, want _~1.BAS", got)
	}
}

// S4: renaming onto a short name already present in the used-set forces the
// numeric-tail collision path, same as a fresh insert would.
func TestShortNameGeneratorRenameCollisionForcesTilde(t *testing.T) {
	var used [11]byte
	copy(used[:], "NEWNAME TXT"[:11])
	g := NewShortNameGenerator([][11]byte{used})
	got := mustName11(t, g, "NewName.txt")
	if got != "NEWNAM~1.TXT" {
		t.Fatalf("Generate(NewName.txt) with NEWNAME.TXT taken = %q, want NEWNAM~1.TXT", got)
	}
}
