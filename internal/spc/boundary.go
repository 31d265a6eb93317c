package spc

// FindVoiceEnd performs the "light parse" of a voice stream: classify
// and advance with recording disabled, stopping at whichever of the
// three documented conditions comes first (spec.md §4.5). It neither
// mutates decoder state nor builds any Record.
func FindVoiceEnd(ram []byte, voiceStart int, voiceStarts map[int]bool, songPtrs map[int]bool) (int, error) {
	scratch := NewState()
	pos := voiceStart
	for {
		if ram[pos] == 0x00 {
			return pos, nil
		}
		if pos != voiceStart && voiceStarts[pos] {
			return pos, nil
		}
		if songPtrs[pos] {
			return pos, nil
		}
		_, length, err := ClassifyAndAdvance(ram, pos, scratch, false, AddressContext{})
		if err != nil {
			return 0, err
		}
		pos += length
	}
}
