package spc

import (
	"encoding/json"
	"fmt"
	"math"

	"github.com/strotlog/smmusic/internal/spcerr"
)

// ringTable and volumeTable decode the packed (ring, volume) operand
// byte that can follow a set-note-duration command, per spec.md §4.6.
var ringTable = [8]byte{0x32, 0x65, 0x7F, 0x98, 0xB2, 0xCB, 0xE5, 0xFC}
var volumeTable = [16]byte{
	0x19, 0x32, 0x4C, 0x65, 0x72, 0x7F, 0x9C, 0x98,
	0xA5, 0xB2, 0xBF, 0xCB, 0xD8, 0xE5, 0xF2, 0xFC,
}

// simpleCommandLengths is the table of operand-carrying modal commands,
// keyed by command byte, valued by total instruction length (opcode
// byte included).
var simpleCommandLengths = map[byte]int{
	0xE0: 2, 0xE1: 2, 0xE2: 3, 0xE3: 4, 0xE5: 2, 0xE6: 3, 0xE7: 2, 0xE8: 3,
	0xE9: 2, 0xEA: 2, 0xEB: 3, 0xED: 2, 0xEE: 3, 0xF0: 2, 0xF1: 4, 0xF2: 4,
	0xF4: 2, 0xF5: 4, 0xF7: 4, 0xF8: 4, 0xF9: 4, 0xFA: 2, 0xFB: 2, 0xFC: 1,
	0xFD: 1, 0xFE: 1,
}

func isSimpleEndCommand(b byte) bool {
	switch b {
	case 0xE4, 0xEC, 0xF6:
		return true
	}
	return false
}

// Record is the tagged-variant interface implemented by every decoded
// note/subsection shape (spec.md §9 "heterogeneous note records").
type Record interface{ isRecord() }

type PitchedNote struct {
	Note            string        `json:"note"`
	DurationSecAppx float64       `json:"duration_sec_appx"`
	Properties      OrderedProps  `json:"properties"`
	Address         AddressTriple `json:"address"`
}

func (PitchedNote) isRecord() {}

type PercussionNote struct {
	Percussion       bool          `json:"percussion"`
	DurationSecAppx  float64       `json:"duration_sec_appx"`
	InstrumentInfoV1 string        `json:"instrumentinfoV1"`
	Properties       OrderedProps  `json:"properties"`
	Address          AddressTriple `json:"address"`
}

func (PercussionNote) isRecord() {}

type TieNote struct {
	Tie             bool          `json:"tie"`
	DurationSecAppx float64       `json:"duration_sec_appx"`
	Properties      OrderedProps  `json:"properties"`
	Address         AddressTriple `json:"address"`
}

func (TieNote) isRecord() {}

// RestNote still serializes tie: true, preserving the source's apparent
// bug (spec.md §9 "Rest vs tie") rather than correcting it. Kept as a
// distinct type so a future `rest: true` variant is a one-line change.
type RestNote struct {
	Tie             bool          `json:"tie"`
	DurationSecAppx float64       `json:"duration_sec_appx"`
	Properties      OrderedProps  `json:"properties"`
	Address         AddressTriple `json:"address"`
}

func (RestNote) isRecord() {}

// Subsection wraps the records produced by a play-subsection excursion.
// It marshals as the container shape {"subsection": {"notes": [...]}},
// not as a bare notes array, per spec.md §4.8.
type Subsection struct {
	Notes []Record `json:"notes"`
}

func (Subsection) isRecord() {}

func (s Subsection) MarshalJSON() ([]byte, error) {
	type inner struct {
		Notes []Record `json:"notes"`
	}
	return json.Marshal(struct {
		Subsection inner `json:"subsection"`
	}{Subsection: inner{Notes: s.Notes}})
}

func round1(f float64) float64 {
	return math.Round(f*10) / 10
}

// ClassifyAndAdvance classifies the single command at ram[addr],
// optionally mutating st and producing a Record. With emit == false
// (the boundary pass) it only ever returns a length, never touching st
// or building a record, per spec.md §4.5.
func ClassifyAndAdvance(ram []byte, addr int, st *State, emit bool, ctx AddressContext) (Record, int, error) {
	b := ram[addr]
	switch {
	case b == 0x00:
		return nil, 0, spcerr.New(spcerr.UnknownCommand, "end-of-stream byte classified at %#x", addr)
	case b < 0x80:
		return classifySetDuration(ram, addr, st, emit)
	case b < 0xC8:
		return classifyPitchedNote(ram, addr, b, st, emit, ctx)
	case b == 0xC8:
		return classifyTie(addr, st, emit, ctx)
	case b == 0xC9:
		return classifyRest(addr, st, emit, ctx)
	case b < 0xE0:
		return classifyPercussion(addr, b, st, emit, ctx)
	case b == 0xEF:
		return classifySubsection(ram, addr, st, emit, ctx)
	case b == 0xFF:
		return nil, 0, spcerr.New(spcerr.UnknownCommand, "command byte 0xff at %#x", addr)
	case b == 0xF3:
		if emit {
			st.Simple.Delete("f1")
			st.Simple.Delete("f2")
		}
		return nil, 1, nil
	case isSimpleEndCommand(b):
		if emit {
			st.Simple.Delete(fmt.Sprintf("%02x", b-1))
		}
		return nil, 1, nil
	default:
		if length, ok := simpleCommandLengths[b]; ok {
			return classifySimpleCommand(ram, addr, b, length, st, emit)
		}
		return nil, 0, spcerr.New(spcerr.UnknownCommand, "unrecognized command byte %#02x at %#x", b, addr)
	}
}

func classifySetDuration(ram []byte, addr int, st *State, emit bool) (Record, int, error) {
	b := ram[addr]
	length := 1
	var operand byte
	hasOperand := false
	if addr+1 < len(ram) && ram[addr+1] < 0x80 {
		length = 2
		operand = ram[addr+1]
		hasOperand = true
	}
	if emit {
		st.NoteLengthTics = b
		if hasOperand {
			st.RingLength = ringTable[(operand&0x70)>>4]
			st.Volume = volumeTable[operand&0x0F]
		}
	}
	return nil, length, nil
}

func instrumentOperand(st *State) byte {
	v, ok := st.Simple.Get("e0")
	if !ok {
		return 0
	}
	b, _ := v.(byte)
	return b
}

func classifyPitchedNote(ram []byte, addr int, b byte, st *State, emit bool, ctx AddressContext) (Record, int, error) {
	if !emit {
		return nil, 1, nil
	}
	props := NewOrderedProps()
	props.Set("instrumentInfov1", Instrument(int(instrumentOperand(st))))
	props.Set("volume", st.Volume)
	props.Set("note_length_tics", st.NoteLengthTics)
	props.Set("tic_length_seconds", st.TicLengthSeconds)
	appendSimpleProps(props, st.Simple)
	return PitchedNote{
		Note:            NoteName(b),
		DurationSecAppx: round1(float64(st.NoteLengthTics) * st.TicLengthSeconds),
		Properties:      *props,
		Address:         ctx.Resolve(addr),
	}, 1, nil
}

func classifyTie(addr int, st *State, emit bool, ctx AddressContext) (Record, int, error) {
	if !emit {
		return nil, 1, nil
	}
	props := NewOrderedProps()
	props.Set("volume", st.Volume)
	props.Set("note_length_tics", st.NoteLengthTics)
	props.Set("tic_length_seconds", st.TicLengthSeconds)
	return TieNote{
		Tie:             true,
		DurationSecAppx: round1(float64(st.NoteLengthTics) * st.TicLengthSeconds),
		Properties:      *props,
		Address:         ctx.Resolve(addr),
	}, 1, nil
}

func classifyRest(addr int, st *State, emit bool, ctx AddressContext) (Record, int, error) {
	if !emit {
		return nil, 1, nil
	}
	props := NewOrderedProps()
	props.Set("note_length_tics", st.NoteLengthTics)
	props.Set("tic_length_seconds", st.TicLengthSeconds)
	return RestNote{
		Tie:             true,
		DurationSecAppx: round1(float64(st.NoteLengthTics) * st.TicLengthSeconds),
		Properties:      *props,
		Address:         ctx.Resolve(addr),
	}, 1, nil
}

func classifyPercussion(addr int, b byte, st *State, emit bool, ctx AddressContext) (Record, int, error) {
	if !emit {
		return nil, 1, nil
	}
	baseVal, ok := st.Simple.Get("fa")
	if !ok {
		return nil, 0, spcerr.New(spcerr.UninitializedPercussion, "percussion command %#02x at %#x with no prior 0xfa", b, addr)
	}
	base, _ := baseVal.(byte)
	id := int(b-0xCA) + int(base)
	props := NewOrderedProps()
	props.Set("volume", st.Volume)
	props.Set("note_length_tics", st.NoteLengthTics)
	props.Set("tic_length_seconds", st.TicLengthSeconds)
	appendSimpleProps(props, st.Simple)
	return PercussionNote{
		Percussion:       true,
		DurationSecAppx:  round1(float64(st.NoteLengthTics) * st.TicLengthSeconds),
		InstrumentInfoV1: Instrument(id),
		Properties:       *props,
		Address:          ctx.Resolve(addr),
	}, 1, nil
}

// classifySubsection handles the 0xEF play-subsection command. Only the
// low 16 bits of the 3-byte operand form the target SPC address; the
// third byte is consumed but never used for addressing, preserving the
// source's behavior (spec.md §9 open question).
func classifySubsection(ram []byte, addr int, st *State, emit bool, ctx AddressContext) (Record, int, error) {
	if !emit {
		return nil, 4, nil
	}
	target := int(ram[addr+1]) | int(ram[addr+2])<<8
	notes, err := DecodeRun(ram, target, -1, st, ctx)
	if err != nil {
		return nil, 0, err
	}
	return Subsection{Notes: notes}, 4, nil
}

func classifySimpleCommand(ram []byte, addr int, b byte, length int, st *State, emit bool) (Record, int, error) {
	if addr+length > len(ram) {
		return nil, 0, spcerr.New(spcerr.UnknownCommand, "command %#02x at %#x truncated", b, addr)
	}
	if emit {
		key := fmt.Sprintf("%02x", b)
		if length == 2 {
			st.Simple.Set(key, ram[addr+1])
		} else {
			// encoding/json special-cases []byte as a base64 string, not
			// a JSON array, so the multi-byte operand list is stored as
			// []int to serialize as spec.md §4.6's plain list of ints.
			operands := make([]int, length-1)
			for i, operand := range ram[addr+1 : addr+length] {
				operands[i] = int(operand)
			}
			st.Simple.Set(key, operands)
		}
	}
	return nil, length, nil
}

// DecodeRun decodes commands starting at start, in the RAM image ram,
// threading st across the run. With end >= 0 it stops exactly at that
// address (the caller already resolved it, e.g. via FindVoiceEnd); with
// end == -1 it stops at the first zero byte, the zero-terminated shape
// used by play-subsection recursion (spec.md §4.6, §9).
func DecodeRun(ram []byte, start, end int, st *State, ctx AddressContext) ([]Record, error) {
	var records []Record
	pos := start
	for {
		if end >= 0 {
			if pos >= end {
				break
			}
		} else if ram[pos] == 0x00 {
			break
		}
		rec, length, err := ClassifyAndAdvance(ram, pos, st, true, ctx)
		if err != nil {
			return nil, err
		}
		if rec != nil {
			records = append(records, rec)
		}
		pos += length
	}
	return records, nil
}
