// Package addr converts among the three address spaces the music engine
// data is scattered across: a ROM file offset, a SNES cartridge bus
// address ("$bb:hhll"), and a sound-CPU (SPC) RAM address. Only the first
// two have a general conversion; SPC addresses are translated by the
// caller using the song-set-specific anchors recorded while loading a
// song set (see internal/rom).
package addr

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/strotlog/smmusic/internal/spcerr"
)

// Rom is a byte offset into the ROM image.
type Rom int

// Bus is a SNES cartridge bus address: a bank and an offset within it.
// This spec assumes a LoROM layout, so Offset is always in [0x8000, 0xFFFF]
// and Bank is always >= 0x80.
type Bus struct {
	Bank   int
	Offset int
}

const (
	bankBase   = 0x80
	bankSize   = 0x8000
	offsetBase = 0x8000
)

// ParseBus parses the textual form "$bb:hhll" (leading "$" optional).
// Failure returns a spcerr.AddressFormat error.
func ParseBus(s string) (Bus, error) {
	trimmed := strings.TrimPrefix(s, "$")
	bankStr, offsetStr, ok := strings.Cut(trimmed, ":")
	if !ok {
		return Bus{}, spcerr.New(spcerr.AddressFormat, "bus address %q missing ':'", s)
	}
	bank, err := strconv.ParseInt(bankStr, 16, 32)
	if err != nil {
		return Bus{}, spcerr.Wrap(spcerr.AddressFormat, fmt.Errorf("bus address %q: bad bank: %w", s, err))
	}
	offset, err := strconv.ParseInt(offsetStr, 16, 32)
	if err != nil {
		return Bus{}, spcerr.Wrap(spcerr.AddressFormat, fmt.Errorf("bus address %q: bad offset: %w", s, err))
	}
	return Bus{Bank: int(bank), Offset: int(offset)}, nil
}

// String renders the exact downstream-compatible textual form: lowercase
// hex, the bank with no leading-zero padding, the offset as 4 digits.
func (b Bus) String() string {
	return fmt.Sprintf("$%x:%04x", b.Bank, b.Offset)
}

// Rom converts a bus address to its ROM file offset.
func (b Bus) Rom() Rom {
	return Rom((b.Bank-bankBase)*bankSize + (b.Offset - offsetBase))
}

// RomOf is the free-function form of Bus.Rom, for call sites that parsed a
// string immediately before converting.
func RomOf(b Bus) Rom { return b.Rom() }

// BusOf converts a ROM file offset to its bus address.
func BusOf(r Rom) Bus {
	bank := int(r) / bankSize
	offset := int(r) % bankSize
	return Bus{Bank: bank + bankBase, Offset: offset + offsetBase}
}

// RomOfString parses s and returns its ROM offset in one step.
func RomOfString(s string) (Rom, error) {
	b, err := ParseBus(s)
	if err != nil {
		return 0, err
	}
	return b.Rom(), nil
}
