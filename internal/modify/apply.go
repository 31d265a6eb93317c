package modify

import (
	"io"
	"math/rand"
	"strconv"

	"github.com/strotlog/smmusic/internal/spcerr"
)

// Mode selects which rewrite rule Apply uses.
type Mode string

const (
	ModeInterval Mode = "interval"
	ModeReverse  Mode = "reverse"
)

// Apply rewrites rom in place: for every song, the first K voices
// (K depending on mode) have their pitched-note bytes replaced per the
// selected rule, each note written at its own address.rom offset.
func Apply(mode Mode, doc document, rom io.WriterAt, rng *rand.Rand) error {
	limit, err := voiceLimit(mode)
	if err != nil {
		return err
	}
	for _, ss := range doc.SongSets {
		for _, sg := range ss.Songs {
			for i, v := range sg.Voices {
				if i >= limit {
					break
				}
				if err := applyVoice(mode, v, rom, rng); err != nil {
					return err
				}
			}
		}
	}
	return nil
}

func voiceLimit(mode Mode) (int, error) {
	switch mode {
	case ModeInterval:
		return intervalVoiceLimit, nil
	case ModeReverse:
		return reverseVoiceLimit, nil
	default:
		return 0, spcerr.New(spcerr.PreconditionFailed, "unknown modify mode %q", mode)
	}
}

func applyVoice(mode Mode, v voice, rom io.WriterAt, rng *rand.Rand) error {
	notes := pitchedNotes(v)
	if len(notes) == 0 {
		return nil
	}

	var newBytes []byte
	var err error
	switch mode {
	case ModeInterval:
		newBytes, err = rewriteInterval(notes, rng)
	case ModeReverse:
		newBytes, err = rewriteReverse(notes)
	default:
		return spcerr.New(spcerr.PreconditionFailed, "unknown modify mode %q", mode)
	}
	if err != nil {
		return err
	}

	for i, n := range notes {
		offset, err := strconv.ParseInt(n.Address.Rom, 0, 64)
		if err != nil {
			return spcerr.Wrap(spcerr.AddressFormat, err)
		}
		if _, err := rom.WriteAt(newBytes[i:i+1], offset); err != nil {
			return err
		}
	}
	return nil
}
