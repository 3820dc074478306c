package engine

import (
	"github.com/james-see/mxl2mei/pkg/mei"
	"github.com/james-see/mxl2mei/pkg/musicxml"
)

// ConvertAccidental maps a written accidental to an MEI accid
func ConvertAccidental(acc *musicxml.Accidental, ctx *Context) *mei.Accid {
	a := &mei.Accid{
		ID:    ctx.GenerateIDWithSuffix("accid"),
		Accid: BasicAccidental(acc.Value),
	}
	if acc.Cautionary {
		a.Func = mei.FuncCaution
	}
	if acc.Editorial {
		a.Func = mei.FuncEdit
	}
	if acc.Parentheses {
		a.Enclose = mei.EncloseParen
	}
	if acc.Bracket {
		a.Enclose = mei.EncloseBrack
	}
	return a
}

// BasicAccidental collapses microtonal, arrow, slash and regional accidentals to the nearest
// basic accidental
func BasicAccidental(v musicxml.AccidentalValue) mei.AccidentalWritten {
	switch v {
	case musicxml.AccidentalSharp,
		musicxml.AccidentalQuarterSharp,
		musicxml.AccidentalSharpUp,
		musicxml.AccidentalSharpDown,
		musicxml.AccidentalSlashQuarterSharp,
		musicxml.AccidentalSlashSharp,
		musicxml.AccidentalSharp1,
		musicxml.AccidentalSharp2,
		musicxml.AccidentalSharp3,
		musicxml.AccidentalSharp5,
		musicxml.AccidentalSori:
		return mei.AccidSharp

	case musicxml.AccidentalFlat,
		musicxml.AccidentalQuarterFlat,
		musicxml.AccidentalFlatUp,
		musicxml.AccidentalFlatDown,
		musicxml.AccidentalSlashFlat,
		musicxml.AccidentalDoubleSlashFlat,
		musicxml.AccidentalFlat1,
		musicxml.AccidentalFlat2,
		musicxml.AccidentalFlat3,
		musicxml.AccidentalFlat4,
		musicxml.AccidentalKoron:
		return mei.AccidFlat

	case musicxml.AccidentalNatural,
		musicxml.AccidentalNaturalUp,
		musicxml.AccidentalNaturalDown,
		musicxml.AccidentalArrowUp,
		musicxml.AccidentalArrowDown,
		musicxml.AccidentalOther:
		return mei.AccidNatural

	case musicxml.AccidentalDoubleSharp,
		musicxml.AccidentalSharpSharp,
		musicxml.AccidentalDoubleSharpUp,
		musicxml.AccidentalDoubleSharpDown,
		musicxml.AccidentalThreeQuartersSharp:
		return mei.AccidDoubleSharp

	case musicxml.AccidentalFlatFlat,
		musicxml.AccidentalFlatFlatUp,
		musicxml.AccidentalFlatFlatDown,
		musicxml.AccidentalThreeQuartersFlat:
		return mei.AccidDoubleFlat

	case musicxml.AccidentalNaturalSharp:
		return mei.AccidNaturalSharp
	case musicxml.AccidentalNaturalFlat:
		return mei.AccidNaturalFlat
	case musicxml.AccidentalTripleSharp:
		return mei.AccidTripleSharp
	case musicxml.AccidentalTripleFlat:
		return mei.AccidTripleFlat
	}
	return mei.AccidNatural
}
