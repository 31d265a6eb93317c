// Package modify rewrites pitched-note bytes directly in a ROM file
// according to the decoded note tree previously extracted to JSON,
// following one of two rewrite rules: interval-preserving randomization
// or voice-order reversal.
package modify

import "encoding/json"

// document mirrors just the fields this package needs from the shape
// internal/extract.Document serializes, decoded generically rather than
// through extract's own types since only note/address survive the round
// trip through music.json.
type document struct {
	SongSets []songSet `json:"songsets"`
}

type songSet struct {
	Songs []song `json:"songs"`
}

type song struct {
	Voices []voice `json:"voices"`
}

type voice struct {
	Sections []section `json:"sections"`
}

type section struct {
	Empty bool   `json:"empty"`
	Notes []note `json:"notes"`
}

type note struct {
	Note       string      `json:"note"`
	Address    *address    `json:"address"`
	Subsection *subsection `json:"subsection"`
}

type subsection struct {
	Notes []note `json:"notes"`
}

type address struct {
	Rom string `json:"rom"`
}

// ParseDocument decodes music.json's content.
func ParseDocument(data []byte) (document, error) {
	var doc document
	if err := json.Unmarshal(data, &doc); err != nil {
		return document{}, err
	}
	return doc, nil
}

// pitchedNotes flattens a voice's sections into the ordered list of its
// pitched notes, descending into subsections at the point the
// play-subsection note appears. Ties, rests, and percussion notes carry
// no "note" field and are skipped at both levels, consistently -- unlike
// the source tools this is grounded on, one of which (reverserando.py)
// collects subsection entries unconditionally and would panic on a
// non-pitched subsection note. See DESIGN.md.
func pitchedNotes(v voice) []*note {
	var out []*note
	for _, sec := range v.Sections {
		if sec.Empty {
			continue
		}
		for i := range sec.Notes {
			n := &sec.Notes[i]
			if n.Note != "" {
				out = append(out, n)
			}
			if n.Subsection != nil {
				for j := range n.Subsection.Notes {
					sn := &n.Subsection.Notes[j]
					if sn.Note != "" {
						out = append(out, sn)
					}
				}
			}
		}
	}
	return out
}
