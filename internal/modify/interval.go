package modify

import (
	"math/rand"

	"github.com/strotlog/smmusic/internal/spc"
)

// intervalVoiceLimit is the number of voices per song interval-rando
// touches, grounded on intervalrando.py's `if i >= 4: break`.
const intervalVoiceLimit = 4

// pitchLow and pitchHigh bound the pitched-note command byte range
// (spec.md §4.6's b < 0xC8 pitched-note class starts at 0x80).
const (
	pitchLow  = 0x80
	pitchHigh = 0xC8
)

// rewriteInterval applies the interval-preserving randomization rule to
// one voice's flattened pitched notes: each note after the first is
// shifted by its original interval from the previous note, sign-flipped
// by a coin flip, with the flip reapplied if that would carry the
// running pitch out of range, and a fixed fallback pitch if it still
// would. Grounded on intervalrando.py.
func rewriteInterval(notes []*note, rng *rand.Rand) ([]byte, error) {
	out := make([]byte, len(notes))
	if len(notes) == 0 {
		return out, nil
	}
	first, err := spc.NoteByte(notes[0].Note)
	if err != nil {
		return nil, err
	}
	prevOriginal := int(first)
	prevModified := prevOriginal
	out[0] = first

	for i := 1; i < len(notes); i++ {
		orig, err := spc.NoteByte(notes[i].Note)
		if err != nil {
			return nil, err
		}
		origInterval := int(orig) - prevOriginal
		sign := 1
		if rng.Intn(2) == 0 {
			sign = -1
		}
		newInterval := sign * origInterval
		if prevModified+newInterval >= pitchHigh || prevModified+newInterval < pitchLow {
			newInterval = -newInterval
		}
		prevOriginal = int(orig)
		prevModified += newInterval
		if prevModified >= pitchHigh || prevModified < pitchLow {
			prevModified = (pitchLow + pitchHigh) / 2
		}
		out[i] = byte(prevModified)
	}
	return out, nil
}
