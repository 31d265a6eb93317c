package extract

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/strotlog/smmusic/internal/rom"
)

// buildPlainModeImage hand-assembles a SongSetImage the way
// rom.LoadSongSet would for a single-song, single-section, single-voice
// song set anchored at musicDest.
func buildPlainModeImage(musicDest int) rom.SongSetImage {
	ram := make([]byte, 0x10000)
	songPtr := musicDest + 2   // song pointer table is one word, pointing here
	sectionPtr := songPtr + 4 // section pointer list is one word + 0 terminator
	voicePtr := sectionPtr + 16

	putWord(ram, musicDest, uint16(songPtr))

	putWord(ram, songPtr, uint16(sectionPtr))
	putWord(ram, songPtr+2, 0) // terminator

	putWord(ram, sectionPtr, uint16(voicePtr))
	for slot := 1; slot < 8; slot++ {
		putWord(ram, sectionPtr+slot*2, 0) // unused voice slots
	}

	// trivial voice: rest then terminator (spec.md §8 seed scenario 2)
	ram[voicePtr] = 0xC9
	ram[voicePtr+1] = 0x00

	return rom.SongSetImage{
		Ram:                    ram,
		SpcStartAddr:           musicDest,
		RomEquivOfSpcStartAddr: 0x8000,
		SpcEngineBeginRomAddr:  0,
	}
}

func putWord(b []byte, off int, v uint16) {
	b[off] = byte(v)
	b[off+1] = byte(v >> 8)
}

func TestBuildSongSetDocSingleVoiceSingleSection(t *testing.T) {
	image := buildPlainModeImage(0x1600) // below globalSongAreaBoundary
	doc, err := buildSongSetDoc(image, 0x06)
	require.NoError(t, err)
	assert.Equal(t, "06", doc.ID)
	assert.Equal(t, "Zebes Asleep", doc.VanillaMatchingSongSetName)
	require.Len(t, doc.Songs, 1)

	song := doc.Songs[0]
	assert.Equal(t, "00", song.ID) // songPtr <= 0x5820, no +5 offset
	require.Len(t, song.Voices, 1) // trailing unused voices trimmed

	voice := song.Voices[0]
	assert.Equal(t, 0, voice.ID)
	require.Len(t, voice.Sections, 1)
	assert.Equal(t, "song0600voice0section0", voice.Sections[0].SectionID)
	require.Len(t, voice.Sections[0].Notes, 1)

	raw, err := json.Marshal(doc)
	require.NoError(t, err)
	assert.Contains(t, string(raw), `"tie":true`)
	assert.Contains(t, string(raw), `"vanillaMatchingSongSetName":"Zebes Asleep"`)
}

func TestBuildSongSetDocOmitsUnknownVanillaName(t *testing.T) {
	image := buildPlainModeImage(0x6000)
	doc, err := buildSongSetDoc(image, 0x99)
	require.NoError(t, err)
	raw, err := json.Marshal(doc)
	require.NoError(t, err)
	assert.NotContains(t, string(raw), "vanillaMatchingSongSetName")
}

func TestSongIDStringAppliesGlobalSongOffset(t *testing.T) {
	assert.Equal(t, "00", songIDString(0, 0x5000))
	assert.Equal(t, "05", songIDString(0, 0x5900)) // past global boundary: +5
	assert.Equal(t, "06", songIDString(1, 0x5900))
}

func TestSectionDocMarshalsEmptyVariant(t *testing.T) {
	raw, err := json.Marshal(SectionDoc{Empty: true})
	require.NoError(t, err)
	assert.JSONEq(t, `{"empty":true}`, string(raw))
}
