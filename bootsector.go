package fat

import (
	"encoding/binary"

	"github.com/gofatfs/fatfs/internal/mbr"
)

// Boot sector / BPB field offsets, reproduced from the teacher's tables.go
// bpb*/bs* constants — a subset; bpbTotSec16/bpbTotSec32 are listed but not read.
const (
	bpbBytsPerSec = 11 // Sector size [byte] (WORD)
	bpbSecPerClus = 13 // Cluster size [sector] (BYTE)
	bpbRsvdSecCnt = 14 // Size of reserved area [sector] (WORD)
	bpbNumFATs    = 16 // Number of FATs (BYTE)
	bpbRootEntCnt = 17 // Size of root directory area for FAT12/16 [entry] (WORD)
	bpbTotSec16   = 19 // Volume size (16-bit) [sector] (WORD)
	bpbFATSz16    = 22 // FAT size (16-bit) [sector] (WORD)
	bpbTotSec32   = 32 // Volume size (32-bit) [sector] (DWORD)
	bpbFATSz32    = 36 // FAT32: FAT size [sector] (DWORD)
	bpbRootClus32 = 44 // FAT32: Root directory cluster (DWORD)
	bs55AA        = 510
)

// BootSector wraps a 512-byte BIOS Parameter Block, giving the directory
// subsystem's callers (BootSector.RootDirRegion) just enough of the volume
// layout to locate the root directory's byte region — full boot-sector
// parsing, validation, and formatting is the block-device/volume-mount
// layer's job (spec §1/§6), out of scope here.
type BootSector struct {
	data [512]byte
}

// ReadBootSector reads and sanity-checks a 512-byte BPB, either directly at
// lba 0 (a non-partitioned image) or, if that sector carries an MBR
// partition table instead of a 0x55AA-signed BPB, through the first
// FAT-typed MBR partition entry — exercising internal/mbr for the first
// time in this codebase.
func ReadBootSector(bd BlockDevice, blockSize int) (*BootSector, error) {
	bs := &BootSector{}
	if err := readSector(bd, blockSize, 0, bs.data[:]); err != nil {
		return nil, err
	}
	if binary.LittleEndian.Uint16(bs.data[bs55AA:]) == mbr.BootSignature && looksLikeBPB(bs.data[:]) {
		return bs, nil
	}
	part, err := findFATPartition(bs.data[:])
	if err != nil {
		return nil, err
	}
	if err := readSector(bd, blockSize, int64(part.StartLBA()), bs.data[:]); err != nil {
		return nil, err
	}
	return bs, nil
}

func readSector(bd BlockDevice, blockSize int, lba int64, dst []byte) error {
	n, err := bd.ReadBlocks(dst, lba)
	if err != nil {
		return wrapDiskErr(ErrCorrupt, err, "reading boot sector at lba %d", lba)
	}
	if n != len(dst) {
		return errKind(ErrCorrupt, "short read of boot sector at lba %d: got %d want %d", lba, n, len(dst))
	}
	return nil
}

// looksLikeBPB rejects the degenerate case of an MBR whose bootstrap code
// happens to leave bpbBytsPerSec looking nonzero; a real BPB's sector size
// is always a power of two between 512 and 4096.
func looksLikeBPB(data []byte) bool {
	ss := binary.LittleEndian.Uint16(data[bpbBytsPerSec:])
	switch ss {
	case 512, 1024, 2048, 4096:
		return true
	default:
		return false
	}
}

func findFATPartition(mbrData []byte) (mbr.PartitionTableEntry, error) {
	sector, err := mbr.ToBootSector(mbrData)
	if err != nil {
		return mbr.PartitionTableEntry{}, wrapDiskErr(ErrCorrupt, err, "parsing MBR")
	}
	if sector.BootSignature() != mbr.BootSignature {
		return mbr.PartitionTableEntry{}, errKind(ErrCorrupt, "no BPB signature and no valid MBR signature")
	}
	for i := 0; i < 4; i++ {
		pte := sector.PartitionTable(i)
		switch pte.PartitionType() {
		case mbr.PartitionTypeFAT12, mbr.PartitionTypeFAT16, mbr.PartitionTypeFAT32CHS, mbr.PartitionTypeFAT32LBA:
			return pte, nil
		}
	}
	return mbr.PartitionTableEntry{}, errKind(ErrCorrupt, "no FAT partition entry found in MBR")
}

func (bs *BootSector) sectorSize() int  { return int(binary.LittleEndian.Uint16(bs.data[bpbBytsPerSec:])) }
func (bs *BootSector) rootEntCnt() int  { return int(binary.LittleEndian.Uint16(bs.data[bpbRootEntCnt:])) }
func (bs *BootSector) fatSize() uint32 {
	if v := binary.LittleEndian.Uint16(bs.data[bpbFATSz16:]); v != 0 {
		return uint32(v)
	}
	return binary.LittleEndian.Uint32(bs.data[bpbFATSz32:])
}
func (bs *BootSector) numFATs() int { return int(bs.data[bpbNumFATs]) }
func (bs *BootSector) reservedSectors() int {
	return int(binary.LittleEndian.Uint16(bs.data[bpbRsvdSecCnt:]))
}

// IsFAT32 reports whether this is a FAT32 BPB (root entry count of zero is
// the defining tell — FAT32 has no fixed-size root region at all).
func (bs *BootSector) IsFAT32() bool { return bs.rootEntCnt() == 0 }

// RootDirRegion returns the starting LBA and byte length of the fixed-size
// FAT12/16 root directory region. For FAT32, whose root directory is an
// ordinary resizable cluster chain addressed by RootCluster instead,
// byteLen is 0 and startLBA is where the data region begins.
func (bs *BootSector) RootDirRegion() (startLBA int64, byteLen int) {
	rootStart := bs.reservedSectors() + bs.numFATs()*int(bs.fatSize())
	byteLen = bs.rootEntCnt() * 32
	return int64(rootStart), byteLen
}

// RootCluster returns the FAT32 root directory's starting cluster.
func (bs *BootSector) RootCluster() uint32 {
	return binary.LittleEndian.Uint32(bs.data[bpbRootClus32:])
}

// SectorsPerCluster returns the number of sectors per cluster.
func (bs *BootSector) SectorsPerCluster() int { return int(bs.data[bpbSecPerClus]) }
