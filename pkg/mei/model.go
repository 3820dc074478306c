// Package mei provides an in-memory model of MEI documents and a serializer for them
package mei

// Version is the MEI version written on the root element
const Version = "6.0-dev"

// Namespace is the MEI XML namespace
const Namespace = "http://www.music-encoding.org/ns/mei"

// Mei is the document root
type Mei struct {
	MeiVersion string
	Head       *MeiHead
	Music      *Music
}

// MeiHead is the metadata header
type MeiHead struct {
	FileDesc     FileDesc
	EncodingDesc *EncodingDesc
}

// FileDesc describes the encoded file
type FileDesc struct {
	Title   string
	PubStmt PubStmt
}

// PubStmt is the publication statement; the converter leaves it empty
type PubStmt struct {
	Publisher string
}

// EncodingDesc records how the file was produced
type EncodingDesc struct {
	Applications []Application
}

// Application identifies software involved in the encoding
type Application struct {
	ID      string
	Version string
	Name    string
}

// Music holds the musical body
type Music struct {
	Body Body
}

// Body holds the movements
type Body struct {
	Mdivs []*Mdiv
}

// Mdiv is a movement
type Mdiv struct {
	ID    string
	Score *Score
}

// Score is the content of a movement
type Score struct {
	ScoreDef ScoreDef
	Sections []*Section
}

// ScoreDef holds score-wide definitions
type ScoreDef struct {
	ID       string
	StaffGrp *StaffGrp
}

// StaffGrpChild is either a *StaffDef or a nested *StaffGrp
type StaffGrpChild interface {
	staffGrpChild()
}

// StaffGrp groups staff definitions
type StaffGrp struct {
	ID        string
	Symbol    StaffGrpSymbol
	BarThru   *bool
	Label     string
	LabelAbbr string
	Children  []StaffGrpChild
}

func (*StaffGrp) staffGrpChild() {}

// StaffDefs returns every staff definition below the group in document order
func (g *StaffGrp) StaffDefs() []*StaffDef {
	var defs []*StaffDef
	for _, c := range g.Children {
		switch c := c.(type) {
		case *StaffDef:
			defs = append(defs, c)
		case *StaffGrp:
			defs = append(defs, c.StaffDefs()...)
		}
	}
	return defs
}

// Groups returns the directly nested groups
func (g *StaffGrp) Groups() []*StaffGrp {
	var groups []*StaffGrp
	for _, c := range g.Children {
		if sg, ok := c.(*StaffGrp); ok {
			groups = append(groups, sg)
		}
	}
	return groups
}

// StaffDef declares a staff
type StaffDef struct {
	ID           string
	N            int
	Lines        int
	ClefShape    string
	ClefLine     int
	ClefDis      int
	ClefDisPlace string
	KeySig       string
	MeterCount   string
	MeterUnit    string
	MeterSym     string
	PPQ          float64
	Label        string
	LabelAbbr    string
}

func (*StaffDef) staffGrpChild() {}

// Section is a sequence of measures
type Section struct {
	ID       string
	Measures []*Measure
}

// Measure is one bar across all staves
type Measure struct {
	ID            string
	N             string
	Metcon        *bool
	Control       *bool
	Width         string
	Staves        []*Staff
	ControlEvents []ControlEvent
}

// Staff holds the layers of one staff in a measure
type Staff struct {
	N      int
	Layers []*Layer
}

// Layer is one voice of a staff
type Layer struct {
	N        int
	Elements []LayerElement
}

// LayerElement is one of *Note, *Rest, *MRest, *Chord
type LayerElement interface {
	layerElement()
}

// Note is a single pitched event
type Note struct {
	ID       string
	PName    string
	Oct      *int
	Dur      Duration
	Dots     int
	DurPPQ   *float64
	AccidGes AccidentalGestural
	Grace    Grace
	StemDir  StemDirection
	Cue      bool
	Accid    *Accid
}

func (*Note) layerElement() {}

// Rest is a rest with a written duration
type Rest struct {
	ID     string
	Dur    Duration
	Dots   int
	DurPPQ *float64
	Cue    bool
}

func (*Rest) layerElement() {}

// MRest is a rest filling the whole measure
type MRest struct {
	ID     string
	DurPPQ *float64
	Cue    bool
}

func (*MRest) layerElement() {}

// Chord is a set of simultaneous notes sharing a duration
type Chord struct {
	ID     string
	Dur    Duration
	Dots   int
	DurPPQ *float64
	Grace  Grace
	Cue    bool
	Notes  []*Note
}

func (*Chord) layerElement() {}

// Accid is a written accidental attached to a note
type Accid struct {
	ID      string
	Accid   AccidentalWritten
	Func    AccidFunc
	Enclose Enclosure
}

// ControlEvent is one of *Dynam, *Hairpin, *Tempo, *Dir
type ControlEvent interface {
	controlEvent()
}

// Dynam is a dynamic marking
type Dynam struct {
	ID     string
	Tstamp float64
	Staff  int
	Text   string
}

func (*Dynam) controlEvent() {}

// Hairpin is a crescendo or diminuendo wedge
type Hairpin struct {
	ID     string
	Tstamp float64
	Staff  int
	Form   string
	Niente bool
}

func (*Hairpin) controlEvent() {}

// Tempo is a tempo indication
type Tempo struct {
	ID     string
	Tstamp float64
	Staff  int
	Func   string
	MM     *float64
	MMUnit Duration
	MMDots int
	Text   string
}

func (*Tempo) controlEvent() {}

// Dir is a textual directive
type Dir struct {
	ID     string
	Tstamp float64
	Staff  int
	Text   string
}

func (*Dir) controlEvent() {}

// Sections returns every section of the first movement
func (m *Mei) Sections() []*Section {
	if m.Music == nil || len(m.Music.Body.Mdivs) == 0 || m.Music.Body.Mdivs[0].Score == nil {
		return nil
	}
	return m.Music.Body.Mdivs[0].Score.Sections
}

// ScoreDef returns the score definition of the first movement
func (m *Mei) ScoreDef() *ScoreDef {
	if m.Music == nil || len(m.Music.Body.Mdivs) == 0 || m.Music.Body.Mdivs[0].Score == nil {
		return nil
	}
	return &m.Music.Body.Mdivs[0].Score.ScoreDef
}
