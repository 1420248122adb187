package fat

// Byte offsets shared by ShortEntry and LfnEntry views over a RawEntry.
// Naming follows the teacher's bpb*/dir* offset-constant convention in tables.go.
const (
	dirNameOff       = 0x00 // 8-byte name, space padded.
	dirExtOff        = 0x08 // 3-byte extension, space padded.
	dirAttrOff       = 0x0B // attribute byte.
	dirNTresOff      = 0x0C // lower-case (NT) reserved flags, unused by the core.
	dirCrtTimeTenth  = 0x0D // unused: creation time fine resolution.
	dirCrtTimeOff    = 0x0E // creation time.
	dirCrtDateOff    = 0x10 // creation date.
	dirLstAccDateOff = 0x12 // last access date.
	dirFstClusHIOff  = 0x14 // high 16 bits of start cluster (FAT32 only).
	dirModTimeOff    = 0x16 // last modified time.
	dirModDateOff    = 0x18 // last modified date.
	dirFstClusLOOff  = 0x1A // low 16 bits of start cluster.
	dirFileSizeOff   = 0x1C // file length in bytes.

	ldirOrdOff        = 0x00 // sequence byte.
	ldirName1Off      = 0x01 // UCS-2 chars 1..5.
	ldirAttrOff       = 0x0B // always 0x0F.
	ldirTypeOff       = 0x0C // always 0.
	ldirChksumOff     = 0x0D // short-name checksum.
	ldirName2Off      = 0x0E // UCS-2 chars 6..11.
	ldirFstClusLO_Off = 0x1A // always 0.
	ldirName3Off      = 0x1C // UCS-2 chars 12..13.
)

// Attribute bits of byte 0x0B. Naming matches the teacher's am* constants.
const (
	amRDO  = 0x01 // READONLY
	amHID  = 0x02 // HIDDEN
	amSYS  = 0x04 // SYSTEM
	amVOL  = 0x08 // VOLUME_LABEL
	amDIR  = 0x10 // DIRECTORY
	amARC  = 0x20 // ARCHIVE
	amLFN  = amRDO | amHID | amSYS | amVOL
	amMASK = amRDO | amHID | amSYS | amVOL | amDIR | amARC
)

const (
	nameFree      = 0x00 // byte 0: free-and-terminal.
	nameDeleted   = 0xE5 // byte 0: deleted.
	nameEscapedE5 = 0x05 // byte 0: escaped 0xE5.
)

// entryKind classifies a RawEntry without interpreting name/time/cluster
// fields — the codec-level classification of spec §4.A.
type entryKind uint8

const (
	kindFree entryKind = iota
	kindDeleted
	kindLfn
	kindShort
)

func (k entryKind) String() string {
	switch k {
	case kindFree:
		return "free"
	case kindDeleted:
		return "deleted"
	case kindLfn:
		return "lfn"
	case kindShort:
		return "short"
	default:
		return "unknown"
	}
}

// rawEntry is the fixed 32-byte on-disk directory record. It carries no
// semantics beyond field boundaries: interpreting the name, timestamps,
// attributes, and cluster pointer fields is the job of ShortEntry and the
// LFN helpers in lfn.go. A rawEntry's dirty bit and parent back-reference exist purely
// to propagate mutation up to the owning DirectoryTable, per spec §4.A/§9.
type rawEntry struct {
	buf    [32]byte
	dirty  bool
	parent *DirectoryTable // non-owning; used only to call markDirty.
}

// bytes returns the raw 32-byte buffer for serialization.
func (r *rawEntry) bytes() *[32]byte { return &r.buf }

// load deserializes a 32-byte buffer into the entry.
func (r *rawEntry) load(b *[32]byte) {
	r.buf = *b
	r.dirty = false
}

func (r *rawEntry) readFlagByte() byte   { return r.buf[dirAttrOff] }
func (r *rawEntry) writeFlagByte(v byte) { r.buf[dirAttrOff] = v; r.markDirty() }

func (r *rawEntry) markDirty() {
	r.dirty = true
	if r.parent != nil {
		r.parent.markDirty()
	}
}

// classify implements the codec-level classifier of spec §4.A and P4: any
// entry whose attribute byte is exactly the LFN mask (0x0F) is Lfn
// regardless of the name byte (a deleted LFN slot still reads 0xE5 in byte
// 0, but callers that need to distinguish a deleted LFN slot check name
// byte separately — see lfnChainAssembler).
func (r *rawEntry) classify() entryKind {
	return classifyBytes(r.buf[:])
}
