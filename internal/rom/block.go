package rom

import (
	"bytes"

	"github.com/strotlog/smmusic/internal/spcerr"
)

// terminator is the 4-byte sequence that must immediately follow a song
// set's final (plain-mode) data block.
var terminator = []byte{0x00, 0x00, 0x00, 0x15}

const (
	engineDest     = 0x1500
	globalListDest = 0x5820
	ramSize        = 0x10000
	numSetupBlocks = 4
)

// SongSetImage is the sound-CPU RAM image assembled for one song set,
// along with the two mapping anchors needed to translate SPC addresses
// back to ROM offsets (see internal/addr and spec.md §3).
type SongSetImage struct {
	Ram                    []byte // always len(ramSize), zero elsewhere
	SpcStartAddr           int
	RomEquivOfSpcStartAddr int
	SpcEngineBeginRomAddr  int
}

// blockHeader reads the {length, dest} header at fileAddr and returns the
// offset of its payload. Bounds/parse failures are reported as
// InvalidSongSet, since they only ever occur while walking a song set's
// block chain.
func blockHeader(data []byte, fileAddr int) (length int, dest int, payloadStart int, err error) {
	if fileAddr < 0 || fileAddr+4 > len(data) {
		return 0, 0, 0, spcerr.New(spcerr.InvalidSongSet, "block header at %#x out of range", fileAddr)
	}
	length = int(ReadWord(data, fileAddr))
	dest = int(ReadWord(data, fileAddr+2))
	payloadStart = fileAddr + 4
	if payloadStart+length > len(data) {
		return 0, 0, 0, spcerr.New(spcerr.InvalidSongSet, "block payload at %#x (len %d) out of range", payloadStart, length)
	}
	return length, dest, payloadStart, nil
}

// LoadSongSet reads the chain of data blocks starting at fileAddr and
// assembles the sound-CPU RAM image for one song set, per spec.md §4.2.
//
// The four "setup" blocks are always read in full (unlike a literal
// transliteration of the original script, which could stop scanning them
// early the instant both special blocks were seen — a control-flow
// accident of that implementation, not a documented requirement; reading
// all four is equivalent for vanilla data, where the two special blocks
// always fall within the first four, and is simpler to reason about).
func LoadSongSet(data []byte, fileAddr int) (SongSetImage, error) {
	cur := fileAddr
	var engine, globalList []byte
	var engineRomAddr, globalListRomAddr int
	haveEngine, haveGlobalList := false, false

	for i := 0; i < numSetupBlocks; i++ {
		length, dest, payloadStart, err := blockHeader(data, cur)
		if err != nil {
			return SongSetImage{}, err
		}
		payload := data[payloadStart : payloadStart+length]
		switch dest {
		case engineDest:
			engine = payload
			engineRomAddr = payloadStart
			haveEngine = true
		case globalListDest:
			globalList = payload
			globalListRomAddr = payloadStart
			haveGlobalList = true
		}
		cur += 4 + length
	}

	musicLen, musicDest, musicPayloadStart, err := blockHeader(data, cur)
	if err != nil {
		return SongSetImage{}, err
	}
	musicPayload := data[musicPayloadStart : musicPayloadStart+musicLen]

	if haveEngine && haveGlobalList {
		return buildComposite(engine, engineRomAddr, globalList, globalListRomAddr, musicDest, musicPayload)
	}

	afterMusic := cur + 4 + musicLen
	if afterMusic+4 > len(data) || !bytes.Equal(data[afterMusic:afterMusic+4], terminator) {
		return SongSetImage{}, spcerr.New(spcerr.InvalidSongSet, "missing terminator after block at %#x", cur)
	}

	ram := make([]byte, ramSize)
	copy(ram[musicDest:], musicPayload)
	return SongSetImage{
		Ram:                    ram,
		SpcStartAddr:           musicDest,
		RomEquivOfSpcStartAddr: musicPayloadStart,
		SpcEngineBeginRomAddr:  0,
	}, nil
}

func buildComposite(engine []byte, engineRomAddr int, globalList []byte, globalListRomAddr int, musicDest int, musicPayload []byte) (SongSetImage, error) {
	spcStartAddr := globalListDest
	if spcStartAddr < engineDest+len(engine) {
		return SongSetImage{}, spcerr.New(spcerr.EngineOverlap, "engine (len %#x) overruns music area start %#x", len(engine), spcStartAddr)
	}
	ram := make([]byte, ramSize)
	copy(ram[engineDest:], engine)
	copy(ram[globalListDest:], globalList)
	copy(ram[musicDest:], musicPayload)
	return SongSetImage{
		Ram:                    ram,
		SpcStartAddr:           spcStartAddr,
		RomEquivOfSpcStartAddr: globalListRomAddr,
		SpcEngineBeginRomAddr:  engineRomAddr,
	}, nil
}
