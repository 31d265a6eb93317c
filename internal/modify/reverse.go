package modify

import "github.com/strotlog/smmusic/internal/spc"

// reverseVoiceLimit is the number of voices per song reverse-rando
// touches, grounded on reverserando.py's `if i >= 3: break`.
const reverseVoiceLimit = 3

// rewriteReverse returns, for each address in notes (in order), the
// pitch byte of the note at the mirrored position from the end of the
// same voice -- notes[i] is overwritten with the pitch originally at
// notes[len(notes)-1-i]. Grounded on reverserando.py's
// `zip(voice_notes, reversed(voice_notes))`.
func rewriteReverse(notes []*note) ([]byte, error) {
	out := make([]byte, len(notes))
	for i := range notes {
		source := notes[len(notes)-1-i]
		b, err := spc.NoteByte(source.Note)
		if err != nil {
			return nil, err
		}
		out[i] = b
	}
	return out, nil
}
