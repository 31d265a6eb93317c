package spc

import (
	"fmt"
	"strconv"
	"strings"
)

// noteNames is the chromatic scale spelling, grounded on
// original_source/notes.py's NOTE_NAMES tuple.
var noteNames = [12]string{"C", "Db", "D", "Eb", "E", "F", "Gb", "G", "Ab", "A", "Bb", "B"}

var noteIndex = map[string]int{
	"C": 0, "Db": 1, "D": 2, "Eb": 3, "E": 4, "F": 5,
	"Gb": 6, "G": 7, "Ab": 8, "A": 9, "Bb": 10, "B": 11,
}

// NoteName renders the pitched-note command byte b (0x80 <= b < 0xC8) in
// its "name+octave" textual form, e.g. "C7".
func NoteName(b byte) string {
	n := int(b) - 0x80
	name := noteNames[n%12]
	octave := n/12 + 1
	return fmt.Sprintf("%s%d", name, octave)
}

// NoteByte is the inverse of NoteName, recovering the command byte for a
// "name+octave" string. Grounded on original_source/notes.py's
// bytevalue function.
func NoteByte(noteName string) (byte, error) {
	i := strings.IndexFunc(noteName, func(r rune) bool { return r >= '0' && r <= '9' })
	if i <= 0 {
		return 0, fmt.Errorf("unrecognized note name %q", noteName)
	}
	name, octaveStr := noteName[:i], noteName[i:]
	idx, ok := noteIndex[name]
	if !ok {
		return 0, fmt.Errorf("unrecognized note name %q", noteName)
	}
	octave, err := strconv.Atoi(octaveStr)
	if err != nil {
		return 0, fmt.Errorf("unrecognized note name %q: %w", noteName, err)
	}
	n := (octave-1)*12 + idx
	if n < 0 || n > 71 {
		return 0, fmt.Errorf("note %q out of range", noteName)
	}
	return byte(0x80 + n), nil
}

// Instrument renders an instrument or percussion base index per
// spec.md §4.6: below 0x18 it names one of the built-in instruments
// bundled with the engine, at or above it names a custom per-song-set
// instrument.
func Instrument(id int) string {
	if id < 0x18 {
		return fmt.Sprintf("global0x%x", id)
	}
	return fmt.Sprintf("custom0x%x", id)
}
