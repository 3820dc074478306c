package engine

import (
	"github.com/james-see/mxl2mei/pkg/mei"
	"github.com/james-see/mxl2mei/pkg/musicxml"
)

func fptr(v float64) *float64 { return &v }

func typ(t musicxml.NoteType) *musicxml.NoteType { return &t }

func pitched(step musicxml.Step, oct int, dur float64) *musicxml.Note {
	return &musicxml.Note{
		Pitch:    &musicxml.Pitch{Step: step, Octave: oct},
		Duration: fptr(dur),
	}
}

func chordNote(step musicxml.Step, oct int, dur float64) *musicxml.Note {
	n := pitched(step, oct, dur)
	n.Chord = true
	return n
}

func rest(dur float64) *musicxml.Note {
	return &musicxml.Note{Rest: &musicxml.Rest{}, Duration: fptr(dur)}
}

func divisions(d float64) *musicxml.Attributes {
	return &musicxml.Attributes{Divisions: fptr(d)}
}

func measure(number string, content ...musicxml.MeasureContent) *musicxml.Measure {
	return &musicxml.Measure{Number: number, Content: content}
}

func scorePart(id, name string) *musicxml.ScorePart {
	return &musicxml.ScorePart{ID: id, Name: name}
}

func groupStart(number string) *musicxml.PartGroup {
	return &musicxml.PartGroup{Type: musicxml.Start, Number: number}
}

func groupStop(number string) *musicxml.PartGroup {
	return &musicxml.PartGroup{Type: musicxml.Stop, Number: number}
}

// singlePartScore wraps measures in a one-part score with a matching declaration
func singlePartScore(measures ...*musicxml.Measure) *musicxml.Score {
	return &musicxml.Score{
		PartList: musicxml.PartList{Items: []musicxml.PartListItem{scorePart("P1", "Piano")}},
		Parts:    []*musicxml.Part{{ID: "P1", Measures: measures}},
	}
}

// countTree returns the number of groups and staff definitions below g
func countTree(g *mei.StaffGrp) (groups, leaves int) {
	for _, c := range g.Children {
		switch c := c.(type) {
		case *mei.StaffDef:
			leaves++
		case *mei.StaffGrp:
			gs, ls := countTree(c)
			groups += gs + 1
			leaves += ls
		}
	}
	return groups, leaves
}
