// Package extract orchestrates the full extraction pipeline -- table
// walk, per-song-set block loading, pointer-tree discovery, boundary
// finding, decoding, reorganization, and JSON emission -- and gates it
// behind a ROM-integrity precondition check.
package extract

import (
	"crypto/sha1"
	"encoding/hex"
	"errors"

	"github.com/strotlog/smmusic/internal/rom"
	"github.com/strotlog/smmusic/internal/spc"
	"github.com/strotlog/smmusic/internal/spcerr"
)

// Run performs the full extraction pipeline over rom data named romName
// and returns the emitted document. InvalidSongSet on any one song set
// ends table enumeration and returns what was already collected; every
// other error is fatal, per spec.md §7.
func Run(data []byte, romName string) (Document, error) {
	if err := CheckPrecondition(data); err != nil {
		return Document{}, err
	}

	tableAddr, err := rom.LocateTable(data)
	if err != nil {
		return Document{}, err
	}

	sum := sha1.Sum(data)
	doc := Document{
		RomName:     romName,
		RomSHA1Hash: hex.EncodeToString(sum[:]),
	}

	for _, entry := range rom.WalkTable(data, tableAddr) {
		image, err := rom.LoadSongSet(data, int(entry.Bus.Rom()))
		if err != nil {
			var se *spcerr.Error
			if errors.As(err, &se) && se.Kind == spcerr.InvalidSongSet {
				break
			}
			return Document{}, err
		}

		songSetDoc, err := buildSongSetDoc(image, entry.ID)
		if err != nil {
			var se *spcerr.Error
			if errors.As(err, &se) && se.Kind == spcerr.InvalidSongSet {
				break
			}
			return Document{}, err
		}
		doc.SongSets = append(doc.SongSets, songSetDoc)
	}

	return doc, nil
}

func buildSongSetDoc(image rom.SongSetImage, songSetIDNum int) (SongSetDoc, error) {
	ctx := spc.AddressContext{
		SpcStartAddr:           image.SpcStartAddr,
		RomEquivOfSpcStartAddr: image.RomEquivOfSpcStartAddr,
		SpcEngineBeginRomAddr:  image.SpcEngineBeginRomAddr,
	}

	tree, voiceStarts, err := spc.BuildTree(image.Ram, image.SpcStartAddr)
	if err != nil {
		return SongSetDoc{}, err
	}

	songPtrs := make(map[int]bool, len(tree.Songs))
	for _, song := range tree.Songs {
		songPtrs[song.Ptr] = true
	}

	if err := resolveVoiceEnds(image.Ram, tree, voiceStarts, songPtrs); err != nil {
		return SongSetDoc{}, err
	}

	songSetID := songSetIDString(songSetIDNum)
	doc := SongSetDoc{
		ID:                         songSetID,
		VanillaMatchingSongSetName: vanillaSongSetNames[songSetIDNum],
	}

	for songIndex, song := range tree.Songs {
		songID := songIDString(songIndex, song.Ptr)
		songDoc, err := buildSongDoc(image.Ram, ctx, song, songSetID, songID)
		if err != nil {
			return SongSetDoc{}, err
		}
		doc.Songs = append(doc.Songs, songDoc)
	}
	return doc, nil
}

// resolveVoiceEnds fills in VoiceRecord.EndPtr for every used voice slot
// across every section of every song, via the boundary-only light parse
// (spc.FindVoiceEnd), per spec.md §4.5.
func resolveVoiceEnds(ram []byte, tree spc.SongSet, voiceStarts, songPtrs map[int]bool) error {
	for si, song := range tree.Songs {
		for ci, section := range song.Sections {
			for vi, voice := range section.Voices {
				if voice.StartPtr == -1 {
					continue
				}
				end, err := spc.FindVoiceEnd(ram, voice.StartPtr, voiceStarts, songPtrs)
				if err != nil {
					return err
				}
				tree.Songs[si].Sections[ci].Voices[vi].EndPtr = end
			}
		}
	}
	return nil
}

func buildSongDoc(ram []byte, ctx spc.AddressContext, song spc.Song, songSetID, songID string) (SongDoc, error) {
	doc := SongDoc{ID: songID}
	for voiceIndex, voiceSections := range spc.Reorganize(song) {
		voiceDoc := VoiceDoc{ID: voiceIndex}
		state := spc.NewState()
		for sectionIndex, sv := range voiceSections.Sections {
			if sv.Voice.StartPtr == -1 {
				voiceDoc.Sections = append(voiceDoc.Sections, SectionDoc{Empty: true})
				continue
			}
			notes, err := spc.DecodeRun(ram, sv.Voice.StartPtr, sv.Voice.EndPtr, state, ctx)
			if err != nil {
				return SongDoc{}, err
			}
			voiceDoc.Sections = append(voiceDoc.Sections, SectionDoc{
				SectionID: sectionID(songSetID, songID, voiceIndex, sectionIndex),
				Notes:     notes,
			})
		}
		doc.Voices = append(doc.Voices, voiceDoc)
	}
	return doc, nil
}
