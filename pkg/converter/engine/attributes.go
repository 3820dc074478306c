package engine

import (
	"strconv"

	"github.com/james-see/mxl2mei/pkg/mei"
	"github.com/james-see/mxl2mei/pkg/musicxml"
)

// KeySig maps circle-of-fifths position to an MEI keysig value: "0", "3s", "2f"
func KeySig(fifths int) string {
	switch {
	case fifths == 0:
		return "0"
	case fifths > 0:
		return strconv.Itoa(fifths) + "s"
	default:
		return strconv.Itoa(-fifths) + "f"
	}
}

// applyAttributes updates the context from a mid-measure attributes change
func applyAttributes(attrs *musicxml.Attributes, ctx *Context) {
	if attrs.Divisions != nil {
		ctx.SetDivisions(*attrs.Divisions)
	}
}

// applyInitialAttributes copies the first attributes of a part onto its staff definition
func applyInitialAttributes(def *mei.StaffDef, attrs *musicxml.Attributes, ctx *Context) {
	applyAttributes(attrs, ctx)
	if attrs.Divisions != nil {
		def.PPQ = *attrs.Divisions
	}

	if len(attrs.Keys) > 0 {
		def.KeySig = KeySig(attrs.Keys[0].Fifths)
	}

	if len(attrs.Times) > 0 {
		def.MeterCount, def.MeterUnit, def.MeterSym = meter(attrs.Times[0])
	}

	if clef, ok := clefForStaff(attrs.Clefs, def.N); ok {
		applyClef(def, clef)
	}
}

func meter(t musicxml.Time) (count, unit, sym string) {
	if t.SenzaMisura {
		return "", "", "open"
	}
	switch t.Symbol {
	case "common":
		sym = "common"
	case "cut":
		sym = "cut"
	}
	return t.Beats, t.BeatType, sym
}

// clefForStaff prefers the clef bound to the staff number, then an unbound clef, then the first clef
func clefForStaff(clefs []musicxml.Clef, staff int) (musicxml.Clef, bool) {
	for _, c := range clefs {
		if c.Number == 0 || c.Number == staff {
			return c, true
		}
	}
	if len(clefs) > 0 {
		return clefs[0], true
	}
	return musicxml.Clef{}, false
}

func applyClef(def *mei.StaffDef, c musicxml.Clef) {
	switch c.Sign {
	case "G", "jianpu":
		def.ClefShape = "G"
	case "F":
		def.ClefShape = "F"
	case "C":
		def.ClefShape = "C"
	case "percussion":
		def.ClefShape = "perc"
	case "TAB":
		def.ClefShape = "TAB"
	default:
		// "none" and unknown signs keep the default clef
		return
	}
	if c.Line > 0 {
		def.ClefLine = c.Line
	}
	def.ClefDis = 0
	def.ClefDisPlace = ""
	if c.OctaveChange != 0 {
		change := c.OctaveChange
		place := "above"
		if change < 0 {
			change = -change
			place = "below"
		}
		def.ClefDis = change*7 + 1
		def.ClefDisPlace = place
	}
}

// firstAttributes returns the first attributes element of a part's first measure
func firstAttributes(part *musicxml.Part) *musicxml.Attributes {
	if part == nil || len(part.Measures) == 0 {
		return nil
	}
	for _, c := range part.Measures[0].Content {
		if attrs, ok := c.(*musicxml.Attributes); ok {
			return attrs
		}
	}
	return nil
}
