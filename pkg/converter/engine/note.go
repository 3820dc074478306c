package engine

import (
	"math"
	"strings"

	"github.com/james-see/mxl2mei/pkg/mei"
	"github.com/james-see/mxl2mei/pkg/musicxml"
)

// ConvertNote maps a pitched note to an MEI note
func ConvertNote(note *musicxml.Note, ctx *Context) *mei.Note {
	n := &mei.Note{ID: ctx.GenerateIDWithSuffix("note")}
	if note.ID != "" {
		ctx.MapID(note.ID, n.ID)
	}

	if p := note.Pitch; p != nil {
		n.PName = strings.ToLower(string(p.Step))
		oct := p.Octave
		n.Oct = &oct
		if p.Alter != nil {
			n.AccidGes = gesturalAccidental(*p.Alter, ctx)
		}
	}

	n.Dur, n.Dots, _ = writtenDuration(note, ctx)
	n.DurPPQ = gesturalDuration(note)
	n.Grace = grace(note)
	n.Cue = note.Cue

	if note.Accidental != nil {
		n.Accid = ConvertAccidental(note.Accidental, ctx)
	}

	if note.Stem != nil {
		n.StemDir = stemDirection(*note.Stem, ctx)
	}

	return n
}

// ConvertRest maps a rest to an MEI rest
func ConvertRest(note *musicxml.Note, ctx *Context) *mei.Rest {
	r := &mei.Rest{ID: ctx.GenerateIDWithSuffix("rest")}
	if note.ID != "" {
		ctx.MapID(note.ID, r.ID)
	}
	r.Dur, r.Dots, _ = writtenDuration(note, ctx)
	r.DurPPQ = gesturalDuration(note)
	r.Cue = note.Cue
	return r
}

// ConvertMeasureRest maps a whole-measure rest to an MEI mRest, which has no written duration
func ConvertMeasureRest(note *musicxml.Note, ctx *Context) *mei.MRest {
	r := &mei.MRest{ID: ctx.GenerateIDWithSuffix("mrest")}
	if note.ID != "" {
		ctx.MapID(note.ID, r.ID)
	}
	r.DurPPQ = gesturalDuration(note)
	r.Cue = note.Cue
	return r
}

// ConvertChord maps a root note and its chord continuations to an MEI chord. Duration,
// grace and cue come from the root note.
func ConvertChord(notes []*musicxml.Note, ctx *Context) *mei.Chord {
	c := &mei.Chord{ID: ctx.GenerateIDWithSuffix("chord")}
	if len(notes) == 0 {
		return c
	}
	root := notes[0]
	c.Dur, c.Dots, _ = writtenDuration(root, ctx)
	c.DurPPQ = gesturalDuration(root)
	c.Grace = grace(root)
	c.Cue = root.Cue
	for _, n := range notes {
		c.Notes = append(c.Notes, ConvertNote(n, ctx))
	}
	return c
}

// gesturalAccidental rounds an alteration to the nearest semitone; anything beyond a
// double sharp or flat sounds as natural
func gesturalAccidental(alter float64, ctx *Context) mei.AccidentalGestural {
	switch int(math.Round(alter)) {
	case -2:
		return mei.AccidGesDoubleFlat
	case -1:
		return mei.AccidGesFlat
	case 0:
		return mei.AccidGesNatural
	case 1:
		return mei.AccidGesSharp
	case 2:
		return mei.AccidGesDoubleSharp
	}
	ctx.Warn(WarnAlteration, "alteration %g written as natural", alter)
	return mei.AccidGesNatural
}

func grace(note *musicxml.Note) mei.Grace {
	switch {
	case note.Grace == nil:
		return mei.GraceNone
	case note.Grace.Slash:
		return mei.GraceUnacc
	default:
		return mei.GraceAcc
	}
}

func stemDirection(s musicxml.Stem, ctx *Context) mei.StemDirection {
	switch s {
	case musicxml.StemUp:
		return mei.StemUp
	case musicxml.StemDown:
		return mei.StemDown
	case musicxml.StemDouble, musicxml.StemNone:
		ctx.Warn(WarnStem, "stem %s written as up", s)
		return mei.StemUp
	}
	return mei.StemNone
}
