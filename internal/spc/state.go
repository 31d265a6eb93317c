// Package spc builds and decodes the nested song/section/voice pointer
// tree and its bytecode command streams, from an assembled sound-CPU RAM
// image (see internal/rom for how that image is assembled).
package spc

import (
	"bytes"
	"encoding/json"
)

// State is the per-voice decoder state threaded through a voice's
// section streams and any play-subsection excursions it makes. Sections
// within a voice share one State; it is never reset between them.
type State struct {
	Volume           byte
	RingLength       byte
	NoteLengthTics   byte
	TicLengthSeconds float64
	Simple           *OrderedProps
}

// NewState returns the initial state for a fresh voice.
func NewState() *State {
	return &State{
		NoteLengthTics:   1,
		TicLengthSeconds: 0.1,
		Simple:           NewOrderedProps(),
	}
}

type propEntry struct {
	Key   string
	Value any
}

// OrderedProps is an insertion-ordered string-keyed map. Nothing in the
// retrieval pack defines one, and a plain Go map does not preserve
// iteration order, so this stands in for the source's dictionaries
// wherever emitted JSON must preserve first-seen key order.
type OrderedProps struct {
	entries []propEntry
	index   map[string]int
}

func NewOrderedProps() *OrderedProps {
	return &OrderedProps{index: make(map[string]int)}
}

// Set inserts key, or updates it in place if already present.
func (p *OrderedProps) Set(key string, value any) {
	if i, ok := p.index[key]; ok {
		p.entries[i].Value = value
		return
	}
	p.index[key] = len(p.entries)
	p.entries = append(p.entries, propEntry{Key: key, Value: value})
}

// Delete removes key if present and reports whether it was present.
func (p *OrderedProps) Delete(key string) bool {
	i, ok := p.index[key]
	if !ok {
		return false
	}
	p.entries = append(p.entries[:i], p.entries[i+1:]...)
	delete(p.index, key)
	for k, idx := range p.index {
		if idx > i {
			p.index[k] = idx - 1
		}
	}
	return true
}

func (p *OrderedProps) Get(key string) (any, bool) {
	i, ok := p.index[key]
	if !ok {
		return nil, false
	}
	return p.entries[i].Value, true
}

// Entries returns the live key-value pairs in insertion order. Callers
// must not mutate the returned slice.
func (p *OrderedProps) Entries() []propEntry { return p.entries }

// MarshalJSON emits the entries as a JSON object in insertion order,
// which encoding/json's native map handling cannot do.
func (p OrderedProps) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, e := range p.entries {
		if i > 0 {
			buf.WriteByte(',')
		}
		keyJSON, err := json.Marshal(e.Key)
		if err != nil {
			return nil, err
		}
		buf.Write(keyJSON)
		buf.WriteByte(':')
		valJSON, err := json.Marshal(e.Value)
		if err != nil {
			return nil, err
		}
		buf.Write(valJSON)
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

// appendSimpleProps copies src's entries onto the end of dst, in src's
// order, used to splice a voice's currently-active modal commands onto a
// note's fixed properties.
func appendSimpleProps(dst, src *OrderedProps) {
	for _, e := range src.Entries() {
		dst.Set(e.Key, e.Value)
	}
}
