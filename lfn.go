package fat

import (
	"encoding/binary"

	"github.com/gofatfs/fatfs/internal/utf16x"
)

// lfnCharOffsets gives the byte offset of each of the 13 UCS-2 code units
// within a raw LFN record, in logical (name) order. The 1-to-5/6-to-11/12-to-13
// split and the offset jump at the 9->14 and 24->28 boundaries reproduces the
// teacher's dirLfnOffsets layout in tables.go.
var lfnCharOffsets = [13]int{
	ldirName1Off + 0, ldirName1Off + 2, ldirName1Off + 4, ldirName1Off + 6, ldirName1Off + 8,
	ldirName2Off + 0, ldirName2Off + 2, ldirName2Off + 4, ldirName2Off + 6, ldirName2Off + 8, ldirName2Off + 10,
	ldirName3Off + 0, ldirName3Off + 2,
}

const (
	lfnCharsPerSlot = 13
	lfnMaxSlots     = 20 // 20*13 = 260 UCS-2 units, matches the ~255 char FAT LFN ceiling.
	lfnLastFlag     = 0x40
	lfnOrdMask      = 0x1F
	lfnPad          = 0xFFFF
	lfnTerm         = 0x0000
)

// shortNameChecksum computes the 8-bit checksum spec §4.C ties every LFN
// slot to its anchor ShortEntry with: sum = ((sum>>1)|((sum&1)<<7)) + S[i],
// accumulated over the anchor's 11-byte space-padded "NAMEEXT" field. This is
// arithmetically identical to the teacher's sum_sfn (sum = (sum>>1)+(sum<<7)+
// sfn[i]) under byte wraparound — sum<<7 mod 256 only ever retains bit 0 of
// sum in bit 7, so (sum>>1)+(sum<<7) and (sum>>1)|((sum&1)<<7) coincide — but
// is written out per the spec's literal form since that's the wire contract.
func shortNameChecksum(name11 [11]byte) byte {
	var sum byte
	for _, b := range name11 {
		sum = ((sum >> 1) | ((sum & 1) << 7)) + b
	}
	return sum
}

// encodeLongName converts a long name into UCS-2 code units and splits it
// into the 13-unit slots spec §4.C lays out: a single 0x0000 terminator is
// appended unless the encoded length is already a multiple of 13, and the
// final slot is padded to 13 units with 0xFFFF. Returns ErrUnsupportedName
// if any rune falls outside the UCS-2 BMP or the name needs more than
// lfnMaxSlots slots.
func encodeLongName(name string) ([][lfnCharsPerSlot]uint16, byte, error) {
	units := make([]uint16, 0, len(name))
	for _, r := range name {
		if r > 0xFFFF {
			return nil, 0, errKind(ErrUnsupportedName, "rune %U outside UCS-2 BMP", r)
		}
		var buf [2]byte
		utf16x.EncodeRune(buf[:], r, binary.LittleEndian)
		units = append(units, binary.LittleEndian.Uint16(buf[:]))
	}
	if len(units)%lfnCharsPerSlot != 0 {
		units = append(units, lfnTerm)
	}
	k := len(units) / lfnCharsPerSlot
	if len(units)%lfnCharsPerSlot != 0 {
		k++
	}
	if k == 0 {
		k = 1 // an empty name still occupies one slot, all 0xFFFF padding (0 is a multiple of 13, so no terminator).
	}
	if k > lfnMaxSlots {
		return nil, 0, errKind(ErrUnsupportedName, "name requires %d LFN slots, max %d", k, lfnMaxSlots)
	}
	slots := make([][lfnCharsPerSlot]uint16, k)
	for i := 0; i < k*lfnCharsPerSlot; i++ {
		var v uint16 = lfnPad
		if i < len(units) {
			v = units[i]
		}
		slots[i/lfnCharsPerSlot][i%lfnCharsPerSlot] = v
	}
	return slots, byte(k), nil
}

// buildLfnChain disassembles name into k LfnEntry raw records plus the
// anchor's matching checksum, in disk order (highest ordinal, carrying the
// 0x40 last-in-chain flag, first). Each returned *rawEntry is a fresh,
// unparented record; the caller (DirectoryTable.insert) is responsible for
// placing them into consecutive slots ahead of the anchor.
func buildLfnChain(name string, shortName11 [11]byte) ([]*rawEntry, error) {
	slots, k, err := encodeLongName(name)
	if err != nil {
		return nil, err
	}
	sum := shortNameChecksum(shortName11)
	entries := make([]*rawEntry, k)
	for logical := 0; logical < int(k); logical++ {
		ord := byte(logical + 1)
		r := &rawEntry{}
		r.buf[ldirOrdOff] = ord
		if ord == k {
			r.buf[ldirOrdOff] |= lfnLastFlag
		}
		r.buf[ldirAttrOff] = amLFN
		r.buf[ldirTypeOff] = 0
		r.buf[ldirChksumOff] = sum
		binary.LittleEndian.PutUint16(r.buf[ldirFstClusLO_Off:], 0)
		for i, off := range lfnCharOffsets {
			binary.LittleEndian.PutUint16(r.buf[off:], slots[logical][i])
		}
		// Disk order is highest ordinal first; entries[0] is the first slot
		// physically preceding the anchor.
		entries[int(k)-1-logical] = r
	}
	return entries, nil
}

// lfnChainAssembler consumes rawEntry records in disk order (the order
// DirectoryTable.parse walks them) and reassembles a long name from the LFN
// slots that precede a terminal ShortEntry anchor. It implements the
// assembly half of spec §4.C: verifying decrementing sequence numbers and a
// consistent checksum, and reporting a broken chain rather than panicking or
// silently fabricating a name.
type lfnChainAssembler struct {
	active   bool
	nextOrd  byte // ordinal expected next, counting down from k.
	checksum byte
	slots    [][lfnCharsPerSlot]uint16
}

func (a *lfnChainAssembler) reset() {
	a.active = false
	a.nextOrd = 0
	a.checksum = 0
	a.slots = nil
}

// feed processes one Lfn-classified raw entry. It returns broken=true when
// this entry invalidates (and implicitly resets) a chain already in
// progress, so the caller can log the break per spec's failure semantics.
func (a *lfnChainAssembler) feed(r *rawEntry) (broken bool) {
	b0 := r.buf[ldirOrdOff]
	if r.buf[dirNameOff] == nameDeleted {
		broken = a.active
		a.reset()
		return broken
	}
	ord := b0 & lfnOrdMask
	last := b0&lfnLastFlag != 0
	chksum := r.buf[ldirChksumOff]

	if last {
		broken = a.active
		a.reset()
		if ord == 0 || int(ord) > lfnMaxSlots {
			a.reset()
			return broken
		}
		a.active = true
		a.nextOrd = ord
		a.checksum = chksum
		a.slots = make([][lfnCharsPerSlot]uint16, ord)
		a.fillSlot(ord, r)
		a.nextOrd--
		return broken
	}

	if !a.active || ord != a.nextOrd || chksum != a.checksum {
		broken = a.active
		a.reset()
		return broken
	}
	a.fillSlot(ord, r)
	a.nextOrd--
	return false
}

func (a *lfnChainAssembler) fillSlot(ord byte, r *rawEntry) {
	idx := int(ord) - 1
	var slot [lfnCharsPerSlot]uint16
	for i, off := range lfnCharOffsets {
		slot[i] = binary.LittleEndian.Uint16(r.buf[off:])
	}
	a.slots[idx] = slot
}

// finish is called upon reaching the anchor ShortEntry. It verifies the
// buffered chain (if any) is complete (nextOrd reached 0) and its checksum
// matches the anchor's own 11-byte name field, then decodes the UCS-2
// units back to UTF-8, cutting at the first 0x0000 terminator. ok is false
// whenever there was no complete, checksum-matching chain in progress —
// the anchor then keeps only its short name, per spec's broken-chain
// failure semantics.
func (a *lfnChainAssembler) finish(anchorName11 [11]byte) (name string, ok bool) {
	defer a.reset()
	if !a.active || a.nextOrd != 0 {
		return "", false
	}
	if a.checksum != shortNameChecksum(anchorName11) {
		return "", false
	}
	units := make([]uint16, 0, len(a.slots)*lfnCharsPerSlot)
	for _, slot := range a.slots {
		units = append(units, slot[:]...)
	}
	cut := len(units)
	for i, u := range units {
		if u == lfnTerm {
			cut = i
			break
		}
	}
	units = units[:cut]
	buf := make([]byte, len(units)*2)
	for i, u := range units {
		binary.LittleEndian.PutUint16(buf[i*2:], u)
	}
	out := make([]byte, len(buf)*3) // utf8.UTFMax per unit, generous upper bound.
	n, err := utf16x.ToUTF8(out, buf, binary.LittleEndian)
	if err != nil {
		return "", false
	}
	return string(out[:n]), true
}
