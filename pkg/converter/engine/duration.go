package engine

import (
	"math"

	"github.com/james-see/mxl2mei/pkg/mei"
	"github.com/james-see/mxl2mei/pkg/musicxml"
)

// MaxDots is the largest number of augmentation dots considered when inferring a written duration
const MaxDots = 3

// relative tolerance when matching raw durations against note values
const durationTolerance = 1e-9

// noteTypeQuarters returns the value of a note type in quarter notes
func noteTypeQuarters(t musicxml.NoteType) float64 {
	// maxima is 32 quarters, each following type halves it
	return math.Ldexp(32, -int(t-musicxml.NoteMaxima))
}

// dotFactor returns the length multiplier for n augmentation dots: 1, 1.5, 1.75, 1.875, ...
func dotFactor(dots int) float64 {
	if dots <= 0 {
		return 1
	}
	return 2 - math.Ldexp(1, -dots)
}

// NoteTypeToDivisions returns the raw length of a note type with the given dots
func NoteTypeToDivisions(t musicxml.NoteType, dots int, divisions float64) float64 {
	return noteTypeQuarters(t) * divisions * dotFactor(dots)
}

// InferNoteType finds the written note type and dot count that reproduce a raw duration.
// Fewer dots win over more, then longer base values over shorter ones. ok is false when no
// combination of up to MaxDots dots matches.
func InferNoteType(duration, divisions float64) (t musicxml.NoteType, dots int, ok bool) {
	if divisions <= 0 || duration <= 0 {
		return 0, 0, false
	}
	for d := 0; d <= MaxDots; d++ {
		for _, nt := range musicxml.NoteTypes {
			want := NoteTypeToDivisions(nt, d, divisions)
			if math.Abs(want-duration) <= durationTolerance*math.Max(want, duration) {
				return nt, d, true
			}
		}
	}
	return 0, 0, false
}

// MEIDuration maps a written note type to an MEI duration
func MEIDuration(t musicxml.NoteType) mei.Duration {
	switch t {
	case musicxml.NoteMaxima, musicxml.NoteLong:
		return mei.DurationLong
	case musicxml.NoteBreve:
		return mei.DurationBreve
	case musicxml.NoteWhole:
		return mei.Duration1
	case musicxml.NoteHalf:
		return mei.Duration2
	case musicxml.NoteQuarter:
		return mei.Duration4
	case musicxml.NoteEighth:
		return mei.Duration8
	case musicxml.Note16th:
		return mei.Duration16
	case musicxml.Note32nd:
		return mei.Duration32
	case musicxml.Note64th:
		return mei.Duration64
	case musicxml.Note128th:
		return mei.Duration128
	case musicxml.Note256th:
		return mei.Duration256
	case musicxml.Note512th:
		return mei.Duration512
	case musicxml.Note1024th:
		return mei.Duration1024
	}
	return mei.DurationNone
}

// writtenDuration resolves the written duration of an event: the explicit type when the
// source has one, else the type inferred from the raw duration
func writtenDuration(note *musicxml.Note, ctx *Context) (mei.Duration, int, bool) {
	if note.Type != nil {
		return MEIDuration(*note.Type), note.Dots, true
	}
	if note.Duration == nil {
		return mei.DurationNone, 0, false
	}
	t, dots, ok := InferNoteType(*note.Duration, ctx.Divisions())
	if !ok {
		ctx.Warn(WarnDuration, "no written duration matches %g divisions at %g per quarter", *note.Duration, ctx.Divisions())
		return mei.DurationNone, 0, false
	}
	return MEIDuration(t), dots, true
}

// gesturalDuration copies the raw duration verbatim
func gesturalDuration(note *musicxml.Note) *float64 {
	if note.Duration == nil {
		return nil
	}
	d := *note.Duration
	return &d
}
