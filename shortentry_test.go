package fat

import (
	"encoding/binary"
	"testing"
)

func TestShortEntryNameRoundTrip(t *testing.T) {
	var se ShortEntry
	se.SetName("README.TXT")
	if got := se.Name(); got != "README.TXT" {
		t.Fatalf("Name() = %q, want README.TXT", got)
	}

	var noExt ShortEntry
	noExt.SetName("VOLUME")
	if got := noExt.Name(); got != "VOLUME" {
		t.Fatalf("Name() = %q, want VOLUME", got)
	}
}

func TestShortEntryE5Escape(t *testing.T) {
	var se ShortEntry
	se.SetName("\xE5BC.TXT")
	if se.raw.buf[dirNameOff] != nameEscapedE5 {
		t.Fatalf("expected stored byte0 to be the 0x05 escape, got %#x", se.raw.buf[dirNameOff])
	}
	got := se.Name()
	want := "\xE5BC.TXT"
	if got != want {
		t.Fatalf("Name() = %q, want %q", got, want)
	}
}

func TestShortEntryAttributeBits(t *testing.T) {
	var se ShortEntry
	se.SetReadOnly(true)
	se.SetHidden(true)
	if !se.IsReadOnly() || !se.IsHidden() {
		t.Fatal("expected both RDO and HID set")
	}
	if se.IsArchive() {
		t.Fatal("ARC should still be clear")
	}
	se.SetArchive(true)
	if !se.IsReadOnly() || !se.IsHidden() || !se.IsArchive() {
		t.Fatal("SetArchive should OR in its bit, not clear previously set bits")
	}
}

func TestShortEntrySetDirectoryReplacesAttrByte(t *testing.T) {
	var se ShortEntry
	se.SetReadOnly(true)
	se.SetDirectory()
	if se.Attr() != amDIR {
		t.Fatalf("SetDirectory should replace the whole attribute byte, got %#x", se.Attr())
	}
	if !se.IsDirectory() {
		t.Fatal("expected IsDirectory true")
	}
}

func TestShortEntrySetLabelReplacesAttrByte(t *testing.T) {
	var se ShortEntry
	se.SetArchive(true)
	se.SetLabel()
	if se.Attr() != amVOL {
		t.Fatalf("SetLabel should replace the whole attribute byte, got %#x", se.Attr())
	}
	if !se.IsVolumeLabel() {
		t.Fatal("expected IsVolumeLabel true")
	}
}

func TestShortEntryTimestampClampByDefault(t *testing.T) {
	var se ShortEntry
	if err := se.SetCreatedTime(25, 70, 61, 1979, 13, 40); err != nil {
		t.Fatalf("clamp mode should not error: %v", err)
	}
	hour, min, sec, year, month, day := se.CreatedTime()
	if hour != 23 || min != 59 || sec != 58 {
		t.Fatalf("time clamp: got %02d:%02d:%02d", hour, min, sec)
	}
	if year != 1980 || month != 12 || day != 31 {
		t.Fatalf("date clamp: got %04d-%02d-%02d", year, month, day)
	}
}

func TestShortEntryTimestampStrictRejects(t *testing.T) {
	dir := NewDirectoryTable(false, true)
	dir.StrictTimestamps = true
	se, err := dir.Insert("FILE.TXT", amARC)
	if err != nil {
		t.Fatalf("Insert: %v", err)
	}
	err = se.SetCreatedTime(24, 0, 0, 2000, 1, 1)
	if err == nil {
		t.Fatal("expected ErrTimestampRange for an out-of-range hour under StrictTimestamps")
	}
	if e, ok := err.(*Error); !ok || e.Kind != ErrTimestampRange {
		t.Fatalf("expected ErrTimestampRange, got %v", err)
	}
}

func TestShortEntryStartClusterFAT16Overflow(t *testing.T) {
	dir := NewDirectoryTable(false, true)
	se, err := dir.Insert("FILE.TXT", amARC)
	if err != nil {
		t.Fatalf("Insert: %v", err)
	}
	if err := se.SetStartCluster(0x10000); err == nil {
		t.Fatal("expected ErrInvalidCluster for a >16-bit cluster on a non-FAT32 directory")
	}
	dir.FAT32 = true
	if err := se.SetStartCluster(0x10000); err != nil {
		t.Fatalf("FAT32 should accept a 32-bit cluster: %v", err)
	}
	if got := se.StartCluster(); got != 0x10000 {
		t.Fatalf("StartCluster() = %#x, want 0x10000", got)
	}
}

// B6: DOS time 00:00:00 on 1980-01-01 (the packed-format epoch) encodes to
// the packed values (0x0000, 0x0021).
func TestShortEntryEpochTimestampEncoding(t *testing.T) {
	var se ShortEntry
	if err := se.SetCreatedTime(0, 0, 0, 1980, 1, 1); err != nil {
		t.Fatalf("SetCreatedTime: %v", err)
	}
	gotTime := binary.LittleEndian.Uint16(se.raw.buf[dirCrtTimeOff:])
	gotDate := binary.LittleEndian.Uint16(se.raw.buf[dirCrtDateOff:])
	if gotTime != 0x0000 {
		t.Fatalf("packed time = %#04x, want 0x0000", gotTime)
	}
	if gotDate != 0x0021 {
		t.Fatalf("packed date = %#04x, want 0x0021", gotDate)
	}
}
