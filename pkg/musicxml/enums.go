package musicxml

import "fmt"

// NoteType is the written note value
type NoteType int

// Note types from longest to shortest
const (
	NoteMaxima NoteType = iota
	NoteLong
	NoteBreve
	NoteWhole
	NoteHalf
	NoteQuarter
	NoteEighth
	Note16th
	Note32nd
	Note64th
	Note128th
	Note256th
	Note512th
	Note1024th
)

// NoteTypes lists every note type from longest to shortest
var NoteTypes = []NoteType{
	NoteMaxima, NoteLong, NoteBreve, NoteWhole, NoteHalf, NoteQuarter, NoteEighth,
	Note16th, Note32nd, Note64th, Note128th, Note256th, Note512th, Note1024th,
}

var noteTypeNames = map[NoteType]string{
	NoteMaxima:  "maxima",
	NoteLong:    "long",
	NoteBreve:   "breve",
	NoteWhole:   "whole",
	NoteHalf:    "half",
	NoteQuarter: "quarter",
	NoteEighth:  "eighth",
	Note16th:    "16th",
	Note32nd:    "32nd",
	Note64th:    "64th",
	Note128th:   "128th",
	Note256th:   "256th",
	Note512th:   "512th",
	Note1024th:  "1024th",
}

func (t NoteType) String() string {
	if name, ok := noteTypeNames[t]; ok {
		return name
	}
	return fmt.Sprintf("NoteType(%d)", int(t))
}

// ParseNoteType parses a <type> value
func ParseNoteType(s string) (NoteType, bool) {
	for t, name := range noteTypeNames {
		if name == s {
			return t, true
		}
	}
	return 0, false
}

// Step is a diatonic pitch name
type Step string

const (
	StepA Step = "A"
	StepB Step = "B"
	StepC Step = "C"
	StepD Step = "D"
	StepE Step = "E"
	StepF Step = "F"
	StepG Step = "G"
)

// Valid reports whether the step is one of A-G
func (s Step) Valid() bool {
	switch s {
	case StepA, StepB, StepC, StepD, StepE, StepF, StepG:
		return true
	}
	return false
}

// Stem is a stem direction
type Stem int

const (
	StemUp Stem = iota
	StemDown
	StemDouble
	StemNone
)

// ParseStem parses a <stem> value
func ParseStem(s string) (Stem, bool) {
	switch s {
	case "up":
		return StemUp, true
	case "down":
		return StemDown, true
	case "double":
		return StemDouble, true
	case "none":
		return StemNone, true
	}
	return 0, false
}

func (s Stem) String() string {
	switch s {
	case StemUp:
		return "up"
	case StemDown:
		return "down"
	case StemDouble:
		return "double"
	case StemNone:
		return "none"
	}
	return fmt.Sprintf("Stem(%d)", int(s))
}

// GroupSymbol is the symbol drawn for a part group
type GroupSymbol int

const (
	SymbolNone GroupSymbol = iota
	SymbolBrace
	SymbolLine
	SymbolBracket
	SymbolSquare
)

// ParseGroupSymbol parses a <group-symbol> value
func ParseGroupSymbol(s string) (GroupSymbol, bool) {
	switch s {
	case "none":
		return SymbolNone, true
	case "brace":
		return SymbolBrace, true
	case "line":
		return SymbolLine, true
	case "bracket":
		return SymbolBracket, true
	case "square":
		return SymbolSquare, true
	}
	return 0, false
}

// GroupBarline is the barline policy of a part group
type GroupBarline int

const (
	BarlineYes GroupBarline = iota
	BarlineNo
	BarlineMensurstrich
)

// ParseGroupBarline parses a <group-barline> value
func ParseGroupBarline(s string) (GroupBarline, bool) {
	switch s {
	case "yes":
		return BarlineYes, true
	case "no":
		return BarlineNo, true
	case "Mensurstrich":
		return BarlineMensurstrich, true
	}
	return 0, false
}

// AccidentalValue is a written accidental glyph
type AccidentalValue int

const (
	AccidentalSharp AccidentalValue = iota
	AccidentalNatural
	AccidentalFlat
	AccidentalDoubleSharp
	AccidentalSharpSharp
	AccidentalFlatFlat
	AccidentalNaturalSharp
	AccidentalNaturalFlat
	AccidentalQuarterFlat
	AccidentalQuarterSharp
	AccidentalThreeQuartersFlat
	AccidentalThreeQuartersSharp
	AccidentalSharpDown
	AccidentalSharpUp
	AccidentalNaturalDown
	AccidentalNaturalUp
	AccidentalFlatDown
	AccidentalFlatUp
	AccidentalDoubleSharpDown
	AccidentalDoubleSharpUp
	AccidentalFlatFlatDown
	AccidentalFlatFlatUp
	AccidentalArrowDown
	AccidentalArrowUp
	AccidentalTripleSharp
	AccidentalTripleFlat
	AccidentalSlashQuarterSharp
	AccidentalSlashSharp
	AccidentalSlashFlat
	AccidentalDoubleSlashFlat
	AccidentalSharp1
	AccidentalSharp2
	AccidentalSharp3
	AccidentalSharp5
	AccidentalFlat1
	AccidentalFlat2
	AccidentalFlat3
	AccidentalFlat4
	AccidentalSori
	AccidentalKoron
	AccidentalOther
)

var accidentalNames = []string{
	AccidentalSharp:              "sharp",
	AccidentalNatural:            "natural",
	AccidentalFlat:               "flat",
	AccidentalDoubleSharp:        "double-sharp",
	AccidentalSharpSharp:         "sharp-sharp",
	AccidentalFlatFlat:           "flat-flat",
	AccidentalNaturalSharp:       "natural-sharp",
	AccidentalNaturalFlat:        "natural-flat",
	AccidentalQuarterFlat:        "quarter-flat",
	AccidentalQuarterSharp:       "quarter-sharp",
	AccidentalThreeQuartersFlat:  "three-quarters-flat",
	AccidentalThreeQuartersSharp: "three-quarters-sharp",
	AccidentalSharpDown:          "sharp-down",
	AccidentalSharpUp:            "sharp-up",
	AccidentalNaturalDown:        "natural-down",
	AccidentalNaturalUp:          "natural-up",
	AccidentalFlatDown:           "flat-down",
	AccidentalFlatUp:             "flat-up",
	AccidentalDoubleSharpDown:    "double-sharp-down",
	AccidentalDoubleSharpUp:      "double-sharp-up",
	AccidentalFlatFlatDown:       "flat-flat-down",
	AccidentalFlatFlatUp:         "flat-flat-up",
	AccidentalArrowDown:          "arrow-down",
	AccidentalArrowUp:            "arrow-up",
	AccidentalTripleSharp:        "triple-sharp",
	AccidentalTripleFlat:         "triple-flat",
	AccidentalSlashQuarterSharp:  "slash-quarter-sharp",
	AccidentalSlashSharp:         "slash-sharp",
	AccidentalSlashFlat:          "slash-flat",
	AccidentalDoubleSlashFlat:    "double-slash-flat",
	AccidentalSharp1:             "sharp-1",
	AccidentalSharp2:             "sharp-2",
	AccidentalSharp3:             "sharp-3",
	AccidentalSharp5:             "sharp-5",
	AccidentalFlat1:              "flat-1",
	AccidentalFlat2:              "flat-2",
	AccidentalFlat3:              "flat-3",
	AccidentalFlat4:              "flat-4",
	AccidentalSori:               "sori",
	AccidentalKoron:              "koron",
	AccidentalOther:              "other",
}

// AccidentalValues lists every written accidental value
func AccidentalValues() []AccidentalValue {
	values := make([]AccidentalValue, len(accidentalNames))
	for i := range accidentalNames {
		values[i] = AccidentalValue(i)
	}
	return values
}

func (a AccidentalValue) String() string {
	if a >= 0 && int(a) < len(accidentalNames) {
		return accidentalNames[a]
	}
	return fmt.Sprintf("AccidentalValue(%d)", int(a))
}

// ParseAccidentalValue parses an <accidental> value
func ParseAccidentalValue(s string) (AccidentalValue, bool) {
	for i, name := range accidentalNames {
		if name == s {
			return AccidentalValue(i), true
		}
	}
	return 0, false
}
