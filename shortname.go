package fat

import (
	"fmt"
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// shortNameUpper is the Unicode-aware uppercaser used ahead of ASCII
// legality checks (spec §4.D). The FAT 8.3 charset is itself ASCII-only,
// but folding case before the legality pass means an accented lowercase
// letter that later gets dropped (see tidySegment) still goes through
// the same case-folding path as everything else, rather than a bespoke
// ASCII-only toupper bolted on next to it.
var shortNameUpper = cases.Upper(language.Und)

// ShortNameGenerator produces a unique 8.3 ShortEntry name for a long name,
// per spec §4.D. It holds an immutable snapshot of the 11-byte "NAMEEXT"
// forms already present in a directory at construction time: Generate does
// not observe names inserted after the snapshot was taken, so callers must
// build a fresh generator (or otherwise account for the new name) after each
// successful insert into the same directory.
type ShortNameGenerator struct {
	used map[[11]byte]struct{}
}

// NewShortNameGenerator snapshots existing, the 11-byte padded name fields
// already occupied in the target directory.
func NewShortNameGenerator(existing [][11]byte) *ShortNameGenerator {
	g := &ShortNameGenerator{used: make(map[[11]byte]struct{}, len(existing))}
	for _, n := range existing {
		g.used[n] = struct{}{}
	}
	return g
}

func isLegal8dot3(b byte) bool {
	switch {
	case b >= 'A' && b <= 'Z':
		return true
	case b >= '0' && b <= '9':
		return true
	default:
		return strings.IndexByte(legal8dot3Symbols, b) >= 0
	}
}

// tidySegment uppercases and filters one base-or-extension segment: '.' and
// space are skip-chars (dropped, not substituted); any rune above the ASCII
// range is dropped outright since there is no OEM codepage table to
// transliterate it through; any other illegal ASCII byte is replaced with
// '_'. Reports whether the segment was altered by a skip, drop, or
// substitution — plain case folding alone does not count, since a
// lowercase-only name still maps losslessly onto the same 8.3 name.
func tidySegment(seg string) (out string, altered bool) {
	upper := shortNameUpper.String(seg)
	var b strings.Builder
	for _, r := range upper {
		switch {
		case r == '.' || r == ' ':
			altered = true
		case r > 127:
			altered = true
		case r < 128 && isLegal8dot3(byte(r)):
			b.WriteByte(byte(r))
		default:
			altered = true
			b.WriteByte('_')
		}
	}
	return b.String(), altered
}

// splitBaseExt splits name at its last '.', including a '.' in the first
// position: a filename starting with '.' is treated as an empty base with
// the extension taken from everything after the dot (spec §8 B4).
func splitBaseExt(name string) (base, ext string) {
	i := strings.LastIndexByte(name, '.')
	if i < 0 {
		return name, ""
	}
	return name[:i], name[i+1:]
}

func pack11(base, ext string) [11]byte {
	var out [11]byte
	for i := range out {
		out[i] = ' '
	}
	copy(out[0:8], base)
	copy(out[8:11], ext)
	return out
}

// Generate produces a unique 11-byte "NAMEEXT" short name for longName,
// per spec §4.D: tidy + truncate the base to 8 and extension to 3 bytes,
// then — if the base portion was altered (skip/drop/substitution, an empty
// base, or a base longer than 8 chars), or the bare tidied name collides
// with an existing entry — append a decimal "~N" numeric tail, trying
// N = 1, 2, 3, ... up to 99998 before giving up with ErrShortNameExhausted.
// Whether the extension needed tidying or truncating to 3 bytes plays no
// part in this decision: force_suffix is derived from the name portion
// alone (spec §4.D step 2).
func (g *ShortNameGenerator) Generate(longName string) ([11]byte, error) {
	rawBase, rawExt := splitBaseExt(longName)
	base, altered := tidySegment(rawBase)
	ext, _ := tidySegment(rawExt)

	if len(base) > 8 {
		base = base[:8]
		altered = true
	}
	if len(ext) > 3 {
		ext = ext[:3]
	}
	if base == "" {
		base = "_"
		altered = true
	}

	candidate := pack11(base, ext)
	if !altered {
		if _, collides := g.used[candidate]; !collides {
			return candidate, nil
		}
	}

	for n := 1; n <= 99998; n++ {
		suffix := fmt.Sprintf("~%d", n)
		baseLen := 8 - len(suffix)
		if baseLen < 1 {
			baseLen = 1
		}
		tailBase := base
		if len(tailBase) > baseLen {
			tailBase = tailBase[:baseLen]
		}
		candidate = pack11(tailBase+suffix, ext)
		if _, collides := g.used[candidate]; !collides {
			return candidate, nil
		}
	}
	return [11]byte{}, errKind(ErrShortNameExhausted, "no free numeric tail for %q", longName)
}
