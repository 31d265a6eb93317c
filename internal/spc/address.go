package spc

import (
	"fmt"

	"github.com/strotlog/smmusic/internal/addr"
)

// AddressTriple is the fully-addressed form attached to every emitted
// note: its position in the reconstructed SPC RAM image, the equivalent
// SNES bus address, and the ROM file offset the byte actually lives at.
// SpcRam and Rom are "0x"-prefixed hex strings, not numbers, matching
// the source's address_tuple (hex(addr), ..., hex(romaddr)); the
// modifier parses Rom back with strconv.ParseInt(..., 0, ...), which
// reads the "0x" prefix as base 16, per
// spec.md §6's "seeks to each note's address.rom, parsed as hexadecimal".
type AddressTriple struct {
	SpcRam string `json:"spcRam"`
	Snes   string `json:"snes"`
	Rom    string `json:"rom"`
}

// AddressContext carries the anchors BlockLoader recorded for one song
// set's RAM image, needed to translate a command's SPC address into its
// ROM offset per spec.md §3's address-triple rule.
type AddressContext struct {
	SpcStartAddr           int
	RomEquivOfSpcStartAddr int
	SpcEngineBeginRomAddr  int
}

// Resolve computes the address triple for a command at spcAddr.
func (c AddressContext) Resolve(spcAddr int) AddressTriple {
	var rom int
	if spcAddr >= c.SpcStartAddr {
		rom = (spcAddr - c.SpcStartAddr) + c.RomEquivOfSpcStartAddr
	} else {
		rom = (spcAddr - 0x1500) + c.SpcEngineBeginRomAddr
	}
	bus := addr.BusOf(addr.Rom(rom))
	return AddressTriple{
		SpcRam: fmt.Sprintf("0x%x", spcAddr),
		Snes:   bus.String(),
		Rom:    fmt.Sprintf("0x%x", rom),
	}
}
