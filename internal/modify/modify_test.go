package modify

import (
	"fmt"
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeRomFile is an in-memory io.WriterAt standing in for an opened ROM
// file, sized generously so offsets used across tests never collide.
type fakeRomFile struct {
	bytes []byte
}

func newFakeRomFile(size int) *fakeRomFile {
	return &fakeRomFile{bytes: make([]byte, size)}
}

func (f *fakeRomFile) WriteAt(p []byte, off int64) (int, error) {
	copy(f.bytes[off:], p)
	return len(p), nil
}

func noteAt(name string, romOffset string) note {
	return note{Note: name, Address: &address{Rom: romOffset}}
}

func TestPitchedNotesFlattensSubsectionsAndSkipsNonPitched(t *testing.T) {
	v := voice{
		Sections: []section{
			{Empty: true},
			{Notes: []note{
				noteAt("C4", "0x100"),
				{Address: &address{Rom: "0x101"}}, // tie/rest/percussion: no "note" field
				{Subsection: &subsection{Notes: []note{
					noteAt("D4", "0x200"),
					{Address: &address{Rom: "0x201"}},
				}}},
			}},
		},
	}
	notes := pitchedNotes(v)
	require.Len(t, notes, 2)
	assert.Equal(t, "C4", notes[0].Note)
	assert.Equal(t, "D4", notes[1].Note)
}

func TestParseDocumentRoundTrips(t *testing.T) {
	data := []byte(`{"songsets":[{"songs":[{"voices":[{"sections":[{"empty":true},{"notes":[{"note":"C4","address":{"rom":"0x100"}}]}]}]}]}]}`)
	doc, err := ParseDocument(data)
	require.NoError(t, err)
	require.Len(t, doc.SongSets, 1)
	notes := pitchedNotes(doc.SongSets[0].Songs[0].Voices[0])
	require.Len(t, notes, 1)
	assert.Equal(t, "C4", notes[0].Note)
}

func TestRewriteIntervalFirstNotePassesThroughUnchanged(t *testing.T) {
	notes := []*note{{Note: "C4"}, {Note: "G4"}}
	rng := rand.New(rand.NewSource(1))
	out, err := rewriteInterval(notes, rng)
	require.NoError(t, err)
	require.Len(t, out, 2)
	assert.Equal(t, byte(0x80+(4-1)*12+0), out[0]) // C4, unshifted
}

func TestRewriteIntervalStaysInPitchRange(t *testing.T) {
	notes := []*note{{Note: "C1"}, {Note: "B7"}, {Note: "C1"}, {Note: "B7"}}
	rng := rand.New(rand.NewSource(42))
	out, err := rewriteInterval(notes, rng)
	require.NoError(t, err)
	for _, b := range out {
		assert.GreaterOrEqual(t, int(b), pitchLow)
		assert.Less(t, int(b), pitchHigh)
	}
}

func TestRewriteReverseMirrorsPitches(t *testing.T) {
	notes := []*note{{Note: "C4"}, {Note: "D4"}, {Note: "E4"}}
	out, err := rewriteReverse(notes)
	require.NoError(t, err)
	first, _ := rewriteReverse([]*note{{Note: "E4"}})
	last, _ := rewriteReverse([]*note{{Note: "C4"}})
	assert.Equal(t, first[0], out[0])
	assert.Equal(t, last[0], out[2])
}

func TestApplyIntervalOnlyTouchesFirstFourVoices(t *testing.T) {
	voices := make([]voice, 6)
	for i := range voices {
		base := 0x1000 + i*0x10
		voices[i] = voice{Sections: []section{{Notes: []note{
			noteAt("C4", fmt.Sprintf("%#x", base)), noteAt("D4", fmt.Sprintf("%#x", base+1)),
		}}}}
	}
	doc := document{SongSets: []songSet{{Songs: []song{{Voices: voices}}}}}
	rom := newFakeRomFile(0x2000)
	rng := rand.New(rand.NewSource(7))
	require.NoError(t, Apply(ModeInterval, doc, rom, rng))
	for i := range voices {
		base := 0x1000 + i*0x10
		if i < intervalVoiceLimit {
			// touched voices' first byte must equal C4's command byte unmodified
			assert.Equal(t, byte(0x80+(4-1)*12), rom.bytes[base], "voice %d", i)
		} else {
			// voices past the limit are never written
			assert.Equal(t, byte(0), rom.bytes[base], "voice %d", i)
		}
	}
}

func TestApplyUnknownModeErrors(t *testing.T) {
	err := Apply(Mode("bogus"), document{}, newFakeRomFile(0), rand.New(rand.NewSource(1)))
	assert.Error(t, err)
}
