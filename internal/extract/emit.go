package extract

import (
	"encoding/json"
	"fmt"

	"github.com/strotlog/smmusic/internal/spc"
)

// globalSongAreaBoundary is the dest address (0x5820) separating the
// four global songs bundled with the engine from song-set-local songs,
// per spec.md §4.8. Mirrors internal/rom's unexported globalListDest.
const globalSongAreaBoundary = 0x5820

// vanillaSongSetNames labels the song-set ids shipped in an unmodified
// ROM, per spec.md §4.8/§6 appendix. Grounded on
// original_source/extractmusic.py's standard_song_sets table.
var vanillaSongSetNames = map[int]string{
	0x00: "Default",
	0x03: "Title",
	0x06: "Zebes Asleep",
	0x09: "Crateria Indoor",
	0x0C: "Crateria Outdoor with Power Bombs",
	0x0F: "Green Brinstar",
	0x12: "Red Brinstar",
	0x15: "Upper Norfair",
	0x18: "Lower Norfair",
	0x1B: "Maridia",
	0x1E: "Tourian",
	0x21: "Mother Brain",
	0x24: "Ridley etc",
	0x27: "Kraid etc",
	0x2A: "Botwoon/Spore",
	0x2D: "Ceres",
	0x30: "Wrecked Ship",
	0x33: "Zebes Exploding",
	0x36: "Intro",
	0x39: "Death Cry",
	0x3C: "Credits",
	0x3F: "VFX intro 1",
	0x42: "VFX intro 2",
	0x45: "Tourian version of Enemy Incoming and Kraid",
	0x48: "Tourian version of Crateria Outdoor with Power Bombs",
}

// Document is the root of the emitted JSON tree, per spec.md §4.8/§6.
type Document struct {
	RomName     string       `json:"romname"`
	RomSHA1Hash string       `json:"romsha1hash"`
	SongSets    []SongSetDoc `json:"songsets"`
}

type SongSetDoc struct {
	ID                         string    `json:"id"`
	VanillaMatchingSongSetName string    `json:"vanillaMatchingSongSetName,omitempty"`
	Songs                      []SongDoc `json:"songs"`
}

type SongDoc struct {
	ID     string     `json:"id"`
	Voices []VoiceDoc `json:"voices"`
}

type VoiceDoc struct {
	ID       int          `json:"id"`
	Sections []SectionDoc `json:"sections"`
}

// SectionDoc is either a populated section ({sectionId, notes}) or an
// unused voice slot ({empty: true}); MarshalJSON below projects whichever
// shape applies instead of emitting both key sets together.
type SectionDoc struct {
	SectionID string
	Notes     []spc.Record
	Empty     bool
}

func (s SectionDoc) MarshalJSON() ([]byte, error) {
	if s.Empty {
		return []byte(`{"empty":true}`), nil
	}
	type populated struct {
		SectionID string       `json:"sectionId"`
		Notes     []spc.Record `json:"notes"`
	}
	return json.Marshal(populated{SectionID: s.SectionID, Notes: s.Notes})
}

// songSetIDString formats a byte-offset song-set id as two lowercase hex
// digits, per spec.md §4.3.
func songSetIDString(id int) string {
	return fmt.Sprintf("%02x", id)
}

// songIDString computes a song's id (song-set-local index, +5 when the
// song lives past the four global songs bundled with the engine) and
// formats it as two lowercase hex digits, per spec.md §4.8.
func songIDString(songIndex, songPtr int) string {
	id := songIndex
	if songPtr > globalSongAreaBoundary {
		id += 5
	}
	return fmt.Sprintf("%02x", id)
}

// sectionID composes "song<SS><ID>voice<V>section<N>" per spec.md §4.8.
func sectionID(songSetID, songID string, voiceIndex, sectionIndex int) string {
	return fmt.Sprintf("song%s%svoice%dsection%d", songSetID, songID, voiceIndex, sectionIndex)
}
