// Package spcerr defines the error taxonomy shared by the extractor and
// modifier: a small set of sentinel kinds, each wrapping the error that
// triggered it.
package spcerr

import "fmt"

// Kind classifies why an extraction or modification step failed.
type Kind int

const (
	// PreconditionFailed covers a missing CLI argument or a ROM whose
	// guarded "handle music queue" code does not match vanilla.
	PreconditionFailed Kind = iota
	// AddressFormat covers a malformed "$bb:hhll" bus address string.
	AddressFormat
	// InvalidSongSet covers a terminator or block-count mismatch while
	// loading a song set's RAM image. Recoverable: ends song-set
	// enumeration, keeps what was already collected.
	InvalidSongSet
	// EngineOverlap covers composite-mode arithmetic placing the SPC
	// engine block past the start of the music area.
	EngineOverlap
	// UnknownCommand covers command byte 0xFF or any byte outside every
	// known classification, in either the boundary or decode pass.
	UnknownCommand
	// UninitializedPercussion covers a percussion note played before any
	// 0xFA (percussion base index) command.
	UninitializedPercussion
)

func (k Kind) String() string {
	switch k {
	case PreconditionFailed:
		return "PreconditionFailed"
	case AddressFormat:
		return "AddressFormat"
	case InvalidSongSet:
		return "InvalidSongSet"
	case EngineOverlap:
		return "EngineOverlap"
	case UnknownCommand:
		return "UnknownCommand"
	case UninitializedPercussion:
		return "UninitializedPercussion"
	default:
		return "Unknown"
	}
}

// Error is a Kind-tagged error. Wrap with Unwrap intact so callers can
// still errors.Is/errors.As against the underlying cause.
type Error struct {
	Kind Kind
	Err  error
}

func New(kind Kind, format string, args ...any) *Error {
	return &Error{Kind: kind, Err: fmt.Errorf(format, args...)}
}

func Wrap(kind Kind, err error) *Error {
	return &Error{Kind: kind, Err: err}
}

func (e *Error) Error() string {
	if e.Err == nil {
		return e.Kind.String()
	}
	return fmt.Sprintf("%s: %v", e.Kind, e.Err)
}

func (e *Error) Unwrap() error { return e.Err }

// Is lets errors.Is match any *Error target of the same Kind, so a
// zero-valued *Error carrying just that Kind (see Sentinel) matches it.
func (e *Error) Is(target error) bool {
	other, ok := target.(*Error)
	if !ok {
		return false
	}
	return e.Kind == other.Kind
}

// Sentinel markers usable with errors.Is(err, spcerr.Sentinel(spcerr.InvalidSongSet)).
func Sentinel(kind Kind) error { return &Error{Kind: kind} }
