package engine

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/james-see/mxl2mei/pkg/mei"
	"github.com/james-see/mxl2mei/pkg/musicxml"
)

// ConvertDirection maps the dynamics, wedges, metronome marks and words of a direction to
// measure-level control events placed at the current beat position
func ConvertDirection(dir *musicxml.Direction, ctx *Context) []mei.ControlEvent {
	tstamp := timestamp(dir, ctx)
	// each part is a single MEI staff, so a direction's own <staff> is not consulted
	staff := ctx.Position().Staff

	var events []mei.ControlEvent
	for _, dt := range dir.Types {
		switch dt := dt.(type) {
		case *musicxml.Dynamics:
			events = append(events, &mei.Dynam{
				ID:     ctx.GenerateIDWithSuffix("dynam"),
				Tstamp: tstamp,
				Staff:  staff,
				Text:   strings.Join(dt.Marks, ""),
			})

		case *musicxml.Wedge:
			if h := convertWedge(dt, tstamp, staff, ctx); h != nil {
				events = append(events, h)
			}

		case *musicxml.Metronome:
			events = append(events, convertMetronome(dt, tstamp, staff, ctx))

		case *musicxml.Words:
			events = append(events, &mei.Dir{
				ID:     ctx.GenerateIDWithSuffix("dir"),
				Tstamp: tstamp,
				Staff:  staff,
				Text:   dt.Text,
			})
		}
	}
	return events
}

// timestamp converts the beat position, shifted by the direction's offset, to a 1-based
// MEI tstamp counted in quarter notes
func timestamp(dir *musicxml.Direction, ctx *Context) float64 {
	div := ctx.Divisions()
	if div <= 0 {
		div = 1
	}
	pos := ctx.BeatPosition()
	if dir.Offset != nil {
		pos += *dir.Offset
	}
	return pos/div + 1
}

// convertWedge returns nil for stop and continue wedges
func convertWedge(w *musicxml.Wedge, tstamp float64, staff int, ctx *Context) *mei.Hairpin {
	var form string
	switch w.Type {
	case musicxml.WedgeCrescendo:
		form = "cres"
	case musicxml.WedgeDiminuendo:
		form = "dim"
	default:
		return nil
	}
	h := &mei.Hairpin{
		ID:     ctx.GenerateIDWithSuffix("hairpin"),
		Tstamp: tstamp,
		Staff:  staff,
		Form:   form,
		Niente: w.Niente,
	}
	if w.ID != "" {
		ctx.MapID(w.ID, h.ID)
	}
	return h
}

func convertMetronome(m *musicxml.Metronome, tstamp float64, staff int, ctx *Context) *mei.Tempo {
	t := &mei.Tempo{
		ID:     ctx.GenerateIDWithSuffix("tempo"),
		Tstamp: tstamp,
		Staff:  staff,
	}
	if m.IsMetricModulation() {
		t.Func = "metricmod"
		t.Text = fmt.Sprintf("%s = %s", beatUnitText(m.BeatUnit, m.BeatUnitDots), beatUnitText(m.BeatUnit2, m.BeatUnit2Dots))
		return t
	}

	t.Func = "instantaneous"
	t.MMDots = m.BeatUnitDots
	if nt, ok := musicxml.ParseNoteType(m.BeatUnit); ok {
		t.MMUnit = MEIDuration(nt)
	}
	if mm, err := strconv.ParseFloat(strings.TrimSpace(m.PerMinute), 64); err == nil {
		t.MM = &mm
	}
	if m.PerMinute == "" {
		t.Text = beatUnitText(m.BeatUnit, m.BeatUnitDots)
	} else {
		t.Text = fmt.Sprintf("%s = %s", beatUnitText(m.BeatUnit, m.BeatUnitDots), m.PerMinute)
	}
	return t
}

func beatUnitText(unit string, dots int) string {
	return unit + strings.Repeat(".", dots)
}
