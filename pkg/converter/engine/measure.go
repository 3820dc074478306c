package engine

import (
	"strconv"

	"github.com/james-see/mxl2mei/pkg/mei"
	"github.com/james-see/mxl2mei/pkg/musicxml"
)

// ConvertSection turns the part-major measures of the score into measure-major MEI
// measures, one staff per part. The first part decides how many measures there are and
// supplies the measure attributes.
func ConvertSection(score *musicxml.Score, ctx *Context) (*mei.Section, error) {
	if err := checkDeclarations(score); err != nil {
		return nil, err
	}

	section := &mei.Section{}
	if len(score.Parts) == 0 {
		return section, nil
	}

	count := len(score.Parts[0].Measures)
	for _, p := range score.Parts[1:] {
		if len(p.Measures) > count {
			ctx.SetPart(p.ID)
			ctx.Warn(WarnSkippedContent, "%d measures beyond the first part's %d are dropped", len(p.Measures)-count, count)
		}
	}

	for i := 0; i < count; i++ {
		section.Measures = append(section.Measures, ConvertMeasure(score, i, ctx))
	}
	return section, nil
}

func checkDeclarations(score *musicxml.Score) error {
	declared := make(map[string]bool)
	for _, sp := range score.PartList.ScoreParts() {
		declared[sp.ID] = true
	}
	for _, p := range score.Parts {
		if !declared[p.ID] {
			return &MissingPartError{PartID: p.ID}
		}
	}
	return nil
}

// ConvertMeasure builds the MEI measure at index idx across all parts
func ConvertMeasure(score *musicxml.Score, idx int, ctx *Context) *mei.Measure {
	m := &mei.Measure{}

	if len(score.Parts) > 0 && idx < len(score.Parts[0].Measures) {
		src := score.Parts[0].Measures[idx]
		convertMeasureAttributes(src, m, ctx)
		ctx.SetMeasure(src.Number)
	}

	for i, part := range score.Parts {
		staffN := i + 1
		ctx.SetPart(part.ID)
		ctx.SetStaff(staffN)

		if idx >= len(part.Measures) {
			ctx.Warn(WarnMissingMeasure, "part has only %d measures", len(part.Measures))
			continue
		}

		layer, events := ConvertLayer(part.Measures[idx], 1, ctx)
		m.Staves = append(m.Staves, &mei.Staff{N: staffN, Layers: []*mei.Layer{layer}})
		m.ControlEvents = append(m.ControlEvents, events...)
	}

	return m
}

func convertMeasureAttributes(src *musicxml.Measure, m *mei.Measure, ctx *Context) {
	m.N = src.Number
	if src.Implicit {
		metcon := false
		m.Metcon = &metcon
	}
	if src.Width != nil {
		m.Width = strconv.FormatFloat(*src.Width, 'f', -1, 64) + "vu"
	}
	if src.ID != "" {
		m.ID = ctx.GenerateIDWithSuffix("measure")
		ctx.MapID(src.ID, m.ID)
	}
	if src.NonControlling {
		control := false
		m.Control = &control
	}
}

// ConvertLayer walks one part's measure in document order, tracking the beat position,
// grouping chords and emitting layer events plus the control events of its directions
func ConvertLayer(src *musicxml.Measure, n int, ctx *Context) (*mei.Layer, []mei.ControlEvent) {
	layer := &mei.Layer{N: n}
	ctx.SetLayer(n)
	ctx.ResetBeatPosition()

	var notes []*musicxml.Note
	for _, c := range src.Content {
		if note, ok := c.(*musicxml.Note); ok {
			notes = append(notes, note)
		}
	}
	grouped := make([]bool, len(notes))

	var events []mei.ControlEvent
	ni := -1
	for _, c := range src.Content {
		switch c := c.(type) {
		case *musicxml.Note:
			ni++
			if grouped[ni] {
				continue
			}
			if c.IsChord() {
				ctx.Warn(WarnSkippedContent, "chord note without a preceding root note")
				continue
			}

			if c.IsRest() {
				if c.IsMeasureRest() {
					layer.Elements = append(layer.Elements, ConvertMeasureRest(c, ctx))
				} else {
					layer.Elements = append(layer.Elements, ConvertRest(c, ctx))
				}
				ctx.AdvanceBeatPosition(c.DurationValue())
				continue
			}

			chord := []*musicxml.Note{c}
			for j := ni + 1; j < len(notes); j++ {
				if !notes[j].IsChord() || notes[j].IsRest() {
					break
				}
				chord = append(chord, notes[j])
				grouped[j] = true
			}

			if len(chord) > 1 {
				layer.Elements = append(layer.Elements, ConvertChord(chord, ctx))
			} else {
				layer.Elements = append(layer.Elements, ConvertNote(c, ctx))
			}

			if !c.IsGrace() {
				ctx.AdvanceBeatPosition(c.DurationValue())
			}

		case *musicxml.Attributes:
			applyAttributes(c, ctx)

		case *musicxml.Backup:
			ctx.AdvanceBeatPosition(-c.Duration)

		case *musicxml.Forward:
			ctx.AdvanceBeatPosition(c.Duration)

		case *musicxml.Direction:
			events = append(events, ConvertDirection(c, ctx)...)
		}
	}

	return layer, events
}
