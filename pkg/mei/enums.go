package mei

import "fmt"

// Duration is a written duration value ("long", "breve", "1", "2", "4", ... "1024")
type Duration string

const (
	DurationNone  Duration = ""
	DurationLong  Duration = "long"
	DurationBreve Duration = "breve"
	Duration1     Duration = "1"
	Duration2     Duration = "2"
	Duration4     Duration = "4"
	Duration8     Duration = "8"
	Duration16    Duration = "16"
	Duration32    Duration = "32"
	Duration64    Duration = "64"
	Duration128   Duration = "128"
	Duration256   Duration = "256"
	Duration512   Duration = "512"
	Duration1024  Duration = "1024"
)

// Quarters returns the duration's length in quarter notes, or zero when unset
func (d Duration) Quarters() float64 {
	switch d {
	case DurationLong:
		return 16
	case DurationBreve:
		return 8
	case Duration1:
		return 4
	case Duration2:
		return 2
	case Duration4:
		return 1
	case Duration8:
		return 0.5
	case Duration16:
		return 0.25
	case Duration32:
		return 0.125
	case Duration64:
		return 1.0 / 16
	case Duration128:
		return 1.0 / 32
	case Duration256:
		return 1.0 / 64
	case Duration512:
		return 1.0 / 128
	case Duration1024:
		return 1.0 / 256
	}
	return 0
}

// AccidentalGestural is a sounding accidental
type AccidentalGestural int

const (
	AccidGesNone AccidentalGestural = iota
	AccidGesDoubleFlat
	AccidGesFlat
	AccidGesNatural
	AccidGesSharp
	AccidGesDoubleSharp
)

func (a AccidentalGestural) String() string {
	switch a {
	case AccidGesNone:
		return ""
	case AccidGesDoubleFlat:
		return "ff"
	case AccidGesFlat:
		return "f"
	case AccidGesNatural:
		return "n"
	case AccidGesSharp:
		return "s"
	case AccidGesDoubleSharp:
		return "ss"
	}
	return fmt.Sprintf("AccidentalGestural(%d)", int(a))
}

// Semitones returns the pitch offset of the gestural accidental
func (a AccidentalGestural) Semitones() int {
	switch a {
	case AccidGesDoubleFlat:
		return -2
	case AccidGesFlat:
		return -1
	case AccidGesSharp:
		return 1
	case AccidGesDoubleSharp:
		return 2
	}
	return 0
}

// AccidentalWritten is a basic written accidental
type AccidentalWritten int

const (
	AccidSharp AccidentalWritten = iota
	AccidFlat
	AccidNatural
	AccidDoubleSharp
	AccidDoubleFlat
	AccidNaturalSharp
	AccidNaturalFlat
	AccidTripleSharp
	AccidTripleFlat
)

// AccidentalsWritten lists every basic written accidental
var AccidentalsWritten = []AccidentalWritten{
	AccidSharp, AccidFlat, AccidNatural, AccidDoubleSharp, AccidDoubleFlat,
	AccidNaturalSharp, AccidNaturalFlat, AccidTripleSharp, AccidTripleFlat,
}

func (a AccidentalWritten) String() string {
	switch a {
	case AccidSharp:
		return "s"
	case AccidFlat:
		return "f"
	case AccidNatural:
		return "n"
	case AccidDoubleSharp:
		return "x"
	case AccidDoubleFlat:
		return "ff"
	case AccidNaturalSharp:
		return "ns"
	case AccidNaturalFlat:
		return "nf"
	case AccidTripleSharp:
		return "ts"
	case AccidTripleFlat:
		return "tf"
	}
	return fmt.Sprintf("AccidentalWritten(%d)", int(a))
}

// AccidFunc is the editorial function of a written accidental
type AccidFunc int

const (
	FuncNone AccidFunc = iota
	FuncCaution
	FuncEdit
)

func (f AccidFunc) String() string {
	switch f {
	case FuncCaution:
		return "caution"
	case FuncEdit:
		return "edit"
	}
	return ""
}

// Enclosure is the bracketing drawn around an accidental
type Enclosure int

const (
	EncloseNone Enclosure = iota
	EncloseParen
	EncloseBrack
)

func (e Enclosure) String() string {
	switch e {
	case EncloseParen:
		return "paren"
	case EncloseBrack:
		return "brack"
	}
	return ""
}

// Grace is the grace-note flavour of an event
type Grace int

const (
	GraceNone Grace = iota
	GraceAcc
	GraceUnacc
)

func (g Grace) String() string {
	switch g {
	case GraceAcc:
		return "acc"
	case GraceUnacc:
		return "unacc"
	}
	return ""
}

// StemDirection is the drawn stem direction
type StemDirection int

const (
	StemNone StemDirection = iota
	StemUp
	StemDown
)

func (s StemDirection) String() string {
	switch s {
	case StemUp:
		return "up"
	case StemDown:
		return "down"
	}
	return ""
}

// StaffGrpSymbol is the symbol drawn at the start of a staff group
type StaffGrpSymbol int

const (
	SymbolUnset StaffGrpSymbol = iota
	SymbolNone
	SymbolBrace
	SymbolBracket
	SymbolBracketSq
	SymbolLine
)

func (s StaffGrpSymbol) String() string {
	switch s {
	case SymbolNone:
		return "none"
	case SymbolBrace:
		return "brace"
	case SymbolBracket:
		return "bracket"
	case SymbolBracketSq:
		return "bracketsq"
	case SymbolLine:
		return "line"
	}
	return ""
}
