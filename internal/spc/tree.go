package spc

import "github.com/strotlog/smmusic/internal/spcerr"

// VoiceRecord is one voice slot of a Section. StartPtr == -1 marks the
// "0000-v#i" unused-slot sentinel of spec.md §3; EndPtr == -1 means not
// yet resolved by FindVoiceEnd.
type VoiceRecord struct {
	StartPtr int
	Slot     int
	EndPtr   int
}

// Section is one horizontal slice of a Song: exactly 8 voice slots, in
// slot order.
type Section struct {
	Ptr    int
	Voices []VoiceRecord
}

// Song is a list of Sections played in sequence, in discovery order.
type Song struct {
	Ptr      int
	Sections []Section
}

// SongSet is a list of Songs, in discovery order.
type SongSet struct {
	Songs []Song
}

func readWord(ram []byte, offset int) int {
	return int(ram[offset]) | int(ram[offset+1])<<8
}

// BuildTree discovers the song/section/voice pointer tree from an
// assembled RAM image starting at spcStartAddr, per spec.md §4.4, and
// returns the set of all non-zero voice start pointers alongside it
// (VoiceStartBoundaries -- spec.md §3).
func BuildTree(ram []byte, spcStartAddr int) (SongSet, map[int]bool, error) {
	var songSet SongSet
	seen := make(map[int]bool)
	voiceStarts := make(map[int]bool)

	pos := spcStartAddr
	for {
		// The song pointer table has no explicit terminator: it simply
		// ends where actual song data begins, which vanilla data lines
		// up so that the current scan position eventually coincides
		// with the start pointer of a song already discovered. Checking
		// pos (not the word about to be read there) against previously
		// discovered values is what makes that coincidence the stop
		// condition, per original_source/extractmusic.py's
		// `spc_address_of_next_pointer_to_a_song in songset_...`.
		if seen[pos] {
			break
		}
		if pos+2 > len(ram) {
			return SongSet{}, nil, spcerr.New(spcerr.InvalidSongSet, "song pointer table runs past end of RAM image at %#x", pos)
		}
		ptr := readWord(ram, pos)
		seen[ptr] = true
		song, err := buildSong(ram, ptr, voiceStarts)
		if err != nil {
			return SongSet{}, nil, err
		}
		songSet.Songs = append(songSet.Songs, song)
		pos += 2
	}
	return songSet, voiceStarts, nil
}

func buildSong(ram []byte, songPtr int, voiceStarts map[int]bool) (Song, error) {
	song := Song{Ptr: songPtr}
	pos := songPtr
	for {
		if pos+2 > len(ram) {
			return Song{}, spcerr.New(spcerr.InvalidSongSet, "section pointer list runs past end of RAM image at %#x", pos)
		}
		word := readWord(ram, pos)
		if word == 0 {
			break
		}
		if word == 0x00FF {
			pos += 4
			continue
		}
		section, err := buildSection(ram, word)
		if err != nil {
			return Song{}, err
		}
		for _, v := range section.Voices {
			if v.StartPtr != -1 {
				voiceStarts[v.StartPtr] = true
			}
		}
		song.Sections = append(song.Sections, section)
		pos += 2
	}
	return song, nil
}

func buildSection(ram []byte, sectionPtr int) (Section, error) {
	section := Section{Ptr: sectionPtr}
	for slot := 0; slot < 8; slot++ {
		off := sectionPtr + slot*2
		if off+2 > len(ram) {
			return Section{}, spcerr.New(spcerr.InvalidSongSet, "voice slot table runs past end of RAM image at %#x", off)
		}
		v := readWord(ram, off)
		if v == 0 {
			section.Voices = append(section.Voices, VoiceRecord{StartPtr: -1, Slot: slot, EndPtr: -1})
			continue
		}
		section.Voices = append(section.Voices, VoiceRecord{StartPtr: v, Slot: slot, EndPtr: -1})
	}
	return section, nil
}
