package rom

import (
	"github.com/strotlog/smmusic/internal/addr"
	"github.com/strotlog/smmusic/internal/spcerr"
)

// tablePointerBus is the bus address inside the vanilla "handle music
// queue" routine holding the embedded 24-bit pointer to the master
// song-set table.
const tablePointerBus = "$80:8f73"

// LocateTable reads the pointer embedded at tablePointerBus and returns
// the ROM file offset of the master song-set table it points to.
func LocateTable(data []byte) (int, error) {
	bus, err := addr.ParseBus(tablePointerBus)
	if err != nil {
		return 0, err
	}
	off := int(bus.Rom())
	if off+3 > len(data) {
		return 0, spcerr.New(spcerr.PreconditionFailed, "table pointer at %s out of range", tablePointerBus)
	}
	low, high, bank := data[off], data[off+1], data[off+2]
	tableBus := addr.Bus{Bank: int(bank), Offset: int(high)<<8 | int(low)}
	return int(tableBus.Rom()), nil
}

// maxSongSets bounds the table walk so a corrupt or truncated ROM can't
// send it scanning off the end of the file; vanilla Super Metroid never
// has anywhere near this many song sets.
const maxSongSets = 256

// SongSetEntry is one valid slot in the master song-set pointer table.
type SongSetEntry struct {
	ID  int
	Bus addr.Bus
}

// entryValid reports whether a 24-bit little-endian table entry
// (low, high, bank) addresses a real song set, per spec.md §4.3: the bank
// and the high byte of the offset must both be in the upper half
// ($80-$ff), which is how the original data distinguishes populated
// slots from trailing zero-fill.
func entryValid(low, high, bank byte) bool {
	return bank >= 0x80 && high >= 0x80
}

// WalkTable reads consecutive 3-byte pointer entries starting at
// tableFileAddr and returns one SongSetEntry per valid slot, stopping at
// the first invalid entry or after maxSongSets entries.
func WalkTable(data []byte, tableFileAddr int) []SongSetEntry {
	var entries []SongSetEntry
	for i := 0; i < maxSongSets; i++ {
		off := tableFileAddr + i*3
		if off+3 > len(data) {
			break
		}
		low, high, bank := data[off], data[off+1], data[off+2]
		if !entryValid(low, high, bank) {
			break
		}
		entries = append(entries, SongSetEntry{
			ID:  i * 3, // byte offset from table start, per spec.md §4.3
			Bus: addr.Bus{Bank: int(bank), Offset: int(high)<<8 | int(low)},
		})
	}
	return entries
}
