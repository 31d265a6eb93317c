package spc

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPitchInvertibility(t *testing.T) {
	for n := 0; n <= 71; n++ {
		b := byte(0x80 + n)
		name := NoteName(b)
		got, err := NoteByte(name)
		require.NoError(t, err, "note %s", name)
		assert.Equal(t, b, got, "round trip for n=%d (%s)", n, name)
	}
}

func TestNoteNameKnownExamples(t *testing.T) {
	assert.Equal(t, "C1", NoteName(0x80))
	assert.Equal(t, "E2", NoteName(0x90)) // n=16 -> E, octave 2 (seed scenario 3)
}

func TestTrivialVoiceRestThenTerminator(t *testing.T) {
	ram := make([]byte, 0x10000)
	v := 0x6000
	ram[v] = 0xC9
	ram[v+1] = 0x00

	end, err := FindVoiceEnd(ram, v, map[int]bool{}, map[int]bool{})
	require.NoError(t, err)
	assert.Equal(t, v+1, end)

	st := NewState()
	ctx := AddressContext{SpcStartAddr: v, RomEquivOfSpcStartAddr: 0x1000}
	records, err := DecodeRun(ram, v, end, st, ctx)
	require.NoError(t, err)
	require.Len(t, records, 1)
	rest, ok := records[0].(RestNote)
	require.True(t, ok)
	assert.True(t, rest.Tie)
	ntics, _ := rest.Properties.Get("note_length_tics")
	assert.Equal(t, byte(1), ntics)
	ticSec, _ := rest.Properties.Get("tic_length_seconds")
	assert.Equal(t, 0.1, ticSec)
}

func TestPackedDurationVolume(t *testing.T) {
	ram := make([]byte, 0x10000)
	v := 0x7000
	ram[v] = 0x20
	ram[v+1] = 0x7F
	ram[v+2] = 0x90 // E2 per seed scenario 3
	ram[v+3] = 0x00

	end, err := FindVoiceEnd(ram, v, map[int]bool{}, map[int]bool{})
	require.NoError(t, err)
	assert.Equal(t, v+3, end)

	st := NewState()
	ctx := AddressContext{SpcStartAddr: v, RomEquivOfSpcStartAddr: 0}
	records, err := DecodeRun(ram, v, end, st, ctx)
	require.NoError(t, err)
	require.Len(t, records, 1)

	assert.Equal(t, byte(0x20), st.NoteLengthTics)
	assert.Equal(t, ringTable[7], st.RingLength)
	assert.Equal(t, volumeTable[15], st.Volume)

	note, ok := records[0].(PitchedNote)
	require.True(t, ok)
	assert.Equal(t, "E2", note.Note)
}

func TestSubsectionWrapsNotesAndConsumesFourBytes(t *testing.T) {
	ram := make([]byte, 0x10000)
	v := 0x8000
	ram[v] = 0xEF
	ram[v+1] = 0x00
	ram[v+2] = 0x60
	ram[v+3] = 0x00 // ignored third operand byte, per spec.md §9
	ram[0x6000] = 0x95
	ram[0x6001] = 0x00

	st := NewState()
	ctx := AddressContext{SpcStartAddr: v, RomEquivOfSpcStartAddr: 0}
	rec, length, err := ClassifyAndAdvance(ram, v, st, true, ctx)
	require.NoError(t, err)
	assert.Equal(t, 4, length)
	sub, ok := rec.(Subsection)
	require.True(t, ok)
	require.Len(t, sub.Notes, 1)
	_, ok = sub.Notes[0].(PitchedNote)
	assert.True(t, ok)
}

func TestEndCommandMatchingAndTolerantStray(t *testing.T) {
	ram := make([]byte, 0x10000)
	v := 0x9000
	ram[v] = 0xE3
	ram[v+1] = 0xAA
	ram[v+2] = 0xBB
	ram[v+3] = 0xCC
	ram[v+4] = 0xE4 // end command for e3
	ram[v+5] = 0x00

	st := NewState()
	ctx := AddressContext{}
	pos := v
	for pos < v+5 {
		_, length, err := ClassifyAndAdvance(ram, pos, st, true, ctx)
		require.NoError(t, err)
		pos += length
	}
	_, ok := st.Simple.Get("e3")
	assert.False(t, ok, "e3 removed by matching e4")

	// a stray end command with no matching set command is tolerated
	st2 := NewState()
	_, length, err := ClassifyAndAdvance(ram, v+4, st2, true, ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, length)
}

func TestMultiByteModalOperandSerializesAsJSONArray(t *testing.T) {
	ram := make([]byte, 0x10000)
	v := 0x9100
	ram[v] = 0xE3
	ram[v+1] = 0xAA
	ram[v+2] = 0xBB
	ram[v+3] = 0xCC

	st := NewState()
	_, length, err := ClassifyAndAdvance(ram, v, st, true, AddressContext{})
	require.NoError(t, err)
	assert.Equal(t, 4, length)

	out, err := st.Simple.MarshalJSON()
	require.NoError(t, err)
	assert.Equal(t, `{"e3":[170,187,204]}`, string(out), "operands must serialize as a JSON array of ints, not a base64 string")
}

func TestUninitializedPercussionFails(t *testing.T) {
	ram := make([]byte, 0x10000)
	v := 0xA000
	ram[v] = 0xCA

	st := NewState()
	_, _, err := ClassifyAndAdvance(ram, v, st, true, AddressContext{})
	require.Error(t, err)
}

func TestBoundaryStopsAtVoiceStartCollision(t *testing.T) {
	ram := make([]byte, 0x10000)
	v1, v2 := 0xB000, 0xB001
	ram[v1] = 0xC9 // rest, length 1, would otherwise run right into v2
	ram[v2] = 0xC9 // v2's own stream, not a zero terminator

	end, err := FindVoiceEnd(ram, v1, map[int]bool{v2: true}, map[int]bool{})
	require.NoError(t, err)
	assert.Equal(t, v1+1, end)
}

func TestReorganizeTrimsTrailingUnusedVoices(t *testing.T) {
	song := Song{
		Ptr: 0x100,
		Sections: []Section{
			{
				Ptr: 0x200,
				Voices: []VoiceRecord{
					{StartPtr: 0x300, Slot: 0}, {StartPtr: -1, Slot: 1, EndPtr: -1},
					{StartPtr: -1, Slot: 2, EndPtr: -1}, {StartPtr: -1, Slot: 3, EndPtr: -1},
					{StartPtr: -1, Slot: 4, EndPtr: -1}, {StartPtr: -1, Slot: 5, EndPtr: -1},
					{StartPtr: -1, Slot: 6, EndPtr: -1}, {StartPtr: -1, Slot: 7, EndPtr: -1},
				},
			},
			{
				Ptr: 0x210,
				Voices: []VoiceRecord{
					{StartPtr: 0x310, Slot: 0}, {StartPtr: 0x320, Slot: 1},
					{StartPtr: -1, Slot: 2, EndPtr: -1}, {StartPtr: -1, Slot: 3, EndPtr: -1},
					{StartPtr: -1, Slot: 4, EndPtr: -1}, {StartPtr: -1, Slot: 5, EndPtr: -1},
					{StartPtr: -1, Slot: 6, EndPtr: -1}, {StartPtr: -1, Slot: 7, EndPtr: -1},
				},
			},
		},
	}
	voices := Reorganize(song)
	require.Len(t, voices, 2) // max used 1-based index is 2 (slot index 1)
	assert.Len(t, voices[0].Sections, 2)
	assert.Len(t, voices[1].Sections, 2)
	assert.Equal(t, 0x310, voices[0].Sections[1].Voice.StartPtr)
	assert.Equal(t, 0x320, voices[1].Sections[1].Voice.StartPtr)
}

func TestOrderedPropsPreservesInsertionOrderInJSON(t *testing.T) {
	p := NewOrderedProps()
	p.Set("b", 1)
	p.Set("a", 2)
	p.Set("b", 3) // update keeps original position
	out, err := p.MarshalJSON()
	require.NoError(t, err)
	assert.Equal(t, `{"b":3,"a":2}`, string(out))
}
