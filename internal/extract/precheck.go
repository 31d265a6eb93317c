// Package extract orchestrates the full extraction pipeline -- table
// walk, per-song-set block loading, pointer-tree discovery, boundary
// finding, decoding, reorganization, and JSON emission -- and gates it
// behind a ROM-integrity precondition check.
package extract

import (
	"crypto/sha1"
	"encoding/hex"

	"github.com/strotlog/smmusic/internal/addr"
	"github.com/strotlog/smmusic/internal/spcerr"
)

type guardedRegion struct {
	bus    string
	length int
}

// guardedRegions are the three "handle music queue" code slices whose
// combined hash must match vanilla Super Metroid before extraction is
// trusted to run, per spec.md §6/§8 seed scenario 6.
var guardedRegions = []guardedRegion{
	{bus: "$80:8f0c", length: 24},
	{bus: "$80:8f2a", length: 73},
	{bus: "$80:8f7c", length: 39},
}

const expectedHandlerSHA1 = "a5b4992b133ff9847b1219b54b6f370249b62f78"

// CheckPrecondition hashes the guarded regions and returns
// PreconditionFailed if the result doesn't match vanilla.
func CheckPrecondition(rom []byte) error {
	h := sha1.New()
	for _, region := range guardedRegions {
		bus, err := addr.ParseBus(region.bus)
		if err != nil {
			return spcerr.Wrap(spcerr.PreconditionFailed, err)
		}
		offset := int(bus.Rom())
		if offset < 0 || offset+region.length > len(rom) {
			return spcerr.New(spcerr.PreconditionFailed, "guarded region %s is out of range for this ROM", region.bus)
		}
		h.Write(rom[offset : offset+region.length])
	}
	got := hex.EncodeToString(h.Sum(nil))
	if got != expectedHandlerSHA1 {
		return spcerr.New(spcerr.PreconditionFailed, "music-handler code hash %s does not match vanilla %s; ROM may be hacked or from a different release", got, expectedHandlerSHA1)
	}
	return nil
}
