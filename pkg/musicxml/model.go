// Package musicxml provides an in-memory model of partwise MusicXML scores and a reader for them
package musicxml

// Score represents a score-partwise document
type Score struct {
	Version        string
	Work           *Work
	MovementNumber string
	MovementTitle  string
	Identification *Identification
	PartList       PartList
	Parts          []*Part
}

// Work holds the work-level metadata
type Work struct {
	Number string
	Title  string
}

// Identification holds creator and encoding metadata
type Identification struct {
	Creators []Creator
	Rights   []string
}

// Creator is a named contributor with an optional role (composer, lyricist, ...)
type Creator struct {
	Type string
	Name string
}

// PartList is the ordered list of part declarations and group markers
type PartList struct {
	Items []PartListItem
}

// PartListItem is either a *ScorePart or a *PartGroup
type PartListItem interface {
	partListItem()
}

// ScorePart declares a part
type ScorePart struct {
	ID              string
	Name            string
	Abbreviation    string
	InstrumentNames []string
}

func (*ScorePart) partListItem() {}

// StartStop marks the opening or closing of a spanning construct
type StartStop int

const (
	Start StartStop = iota
	Stop
)

// PartGroup is a start or stop marker paired by Number
type PartGroup struct {
	Type         StartStop
	Number       string
	Name         string
	Abbreviation string
	Symbol       *GroupSymbol
	Barline      *GroupBarline
}

func (*PartGroup) partListItem() {}

// Part is an identified sequence of measures
type Part struct {
	ID       string
	Measures []*Measure
}

// Measure is one bar of a part
type Measure struct {
	Number         string
	Implicit       bool
	NonControlling bool
	Width          *float64
	ID             string
	Content        []MeasureContent
}

// MeasureContent is one item of a measure's ordered content
type MeasureContent interface {
	measureContent()
}

// Note is a pitched note, unpitched note, or rest
type Note struct {
	ID         string
	Pitch      *Pitch
	Rest       *Rest
	Unpitched  bool
	Duration   *float64
	Type       *NoteType
	Dots       int
	Chord      bool
	Grace      *Grace
	Cue        bool
	Accidental *Accidental
	Stem       *Stem
	Voice      string
	Staff      int
}

func (*Note) measureContent() {}

// IsRest reports whether the note is a rest
func (n *Note) IsRest() bool { return n.Rest != nil }

// IsChord reports whether the note continues the preceding chord
func (n *Note) IsChord() bool { return n.Chord }

// IsGrace reports whether the note is a grace note
func (n *Note) IsGrace() bool { return n.Grace != nil }

// IsMeasureRest reports whether the note is a whole-measure rest
func (n *Note) IsMeasureRest() bool { return n.Rest != nil && n.Rest.Measure }

// DurationValue returns the raw duration, or zero if none was given
func (n *Note) DurationValue() float64 {
	if n.Duration == nil {
		return 0
	}
	return *n.Duration
}

// Pitch is a step, octave and optional fractional alteration
type Pitch struct {
	Step   Step
	Alter  *float64
	Octave int
}

// Rest marks a note as a rest
type Rest struct {
	Measure       bool
	DisplayStep   string
	DisplayOctave *int
}

// Grace marks a note as a grace note
type Grace struct {
	Slash bool
}

// Accidental is a written accidental
type Accidental struct {
	Value       AccidentalValue
	Cautionary  bool
	Editorial   bool
	Parentheses bool
	Bracket     bool
}

// Attributes is a mid-measure change of divisions, key, time or clef
type Attributes struct {
	Divisions *float64
	Keys      []Key
	Times     []Time
	Clefs     []Clef
	Staves    int
}

func (*Attributes) measureContent() {}

// Key is a traditional key signature
type Key struct {
	Fifths int
	Mode   string
}

// Time is a time signature
type Time struct {
	Beats       string
	BeatType    string
	Symbol      string
	SenzaMisura bool
}

// Clef is a clef definition, optionally bound to a staff number
type Clef struct {
	Number       int
	Sign         string
	Line         int
	OctaveChange int
}

// Backup moves the beat position backward
type Backup struct {
	Duration float64
}

func (*Backup) measureContent() {}

// Forward moves the beat position forward
type Forward struct {
	Duration float64
}

func (*Forward) measureContent() {}

// Direction is a placed musical direction
type Direction struct {
	Types  []DirectionType
	Offset *float64
}

func (*Direction) measureContent() {}

// DirectionType is one of *Dynamics, *Wedge, *Metronome, *Words
type DirectionType interface {
	directionType()
}

// Dynamics is a set of dynamic marks such as "p" or "sfz"
type Dynamics struct {
	Marks []string
}

func (*Dynamics) directionType() {}

// WedgeType is the kind of a wedge marker
type WedgeType int

const (
	WedgeCrescendo WedgeType = iota
	WedgeDiminuendo
	WedgeStop
	WedgeContinue
)

// Wedge is a crescendo or diminuendo hairpin marker
type Wedge struct {
	Type   WedgeType
	Number string
	Niente bool
	ID     string
}

func (*Wedge) directionType() {}

// Metronome is a beat-unit = per-minute marking, or a metric modulation
// when BeatUnit2 is set and PerMinute is empty
type Metronome struct {
	BeatUnit      string
	BeatUnitDots  int
	PerMinute     string
	BeatUnit2     string
	BeatUnit2Dots int
}

// IsMetricModulation reports whether the mark equates two beat units
func (m *Metronome) IsMetricModulation() bool {
	return m.PerMinute == "" && m.BeatUnit2 != ""
}

func (*Metronome) directionType() {}

// Words is a textual direction
type Words struct {
	Text string
}

func (*Words) directionType() {}

// Other is any measure content the model does not represent
type Other struct {
	Name string
}

func (*Other) measureContent() {}

// FindPart returns the part with the given id
func (s *Score) FindPart(id string) (*Part, bool) {
	for _, p := range s.Parts {
		if p.ID == id {
			return p, true
		}
	}
	return nil, false
}

// ScoreParts returns the part declarations of the part list in order
func (pl PartList) ScoreParts() []*ScorePart {
	var parts []*ScorePart
	for _, item := range pl.Items {
		if sp, ok := item.(*ScorePart); ok {
			parts = append(parts, sp)
		}
	}
	return parts
}

// AlterValue returns the alteration in semitones, zero when absent
func (p *Pitch) AlterValue() float64 {
	if p.Alter == nil {
		return 0
	}
	return *p.Alter
}
