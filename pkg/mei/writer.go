package mei

import (
	"errors"
	"strconv"

	xml "github.com/subchen/go-xmldom"
)

// ErrEmptyDocument is returned when marshalling a nil document
var ErrEmptyDocument = errors.New("empty MEI document")

// Marshal serializes the document as indented MEI XML
func Marshal(doc *Mei) ([]byte, error) {
	if doc == nil {
		return nil, ErrEmptyDocument
	}
	return []byte(toDOM(doc).XMLPretty()), nil
}

// MarshalCompact serializes the document without indentation
func MarshalCompact(doc *Mei) ([]byte, error) {
	if doc == nil {
		return nil, ErrEmptyDocument
	}
	return []byte(toDOM(doc).XML()), nil
}

func toDOM(doc *Mei) *xml.Document {
	d := xml.NewDocument("mei")
	root := d.Root
	root.SetAttributeValue("xmlns", Namespace)
	version := doc.MeiVersion
	if version == "" {
		version = Version
	}
	root.SetAttributeValue("meiversion", version)

	if doc.Head != nil {
		writeHead(root.CreateNode("meiHead"), doc.Head)
	}
	if doc.Music != nil {
		writeMusic(root.CreateNode("music"), doc.Music)
	}
	return d
}

func writeHead(n *xml.Node, h *MeiHead) {
	fd := n.CreateNode("fileDesc")
	ts := fd.CreateNode("titleStmt")
	ts.CreateNode("title").Text = h.FileDesc.Title
	ps := fd.CreateNode("pubStmt")
	if h.FileDesc.PubStmt.Publisher != "" {
		ps.CreateNode("publisher").Text = h.FileDesc.PubStmt.Publisher
	}

	if h.EncodingDesc == nil || len(h.EncodingDesc.Applications) == 0 {
		return
	}
	ai := n.CreateNode("encodingDesc").CreateNode("appInfo")
	for _, app := range h.EncodingDesc.Applications {
		an := ai.CreateNode("application")
		setAttr(an, "xml:id", app.ID)
		setAttr(an, "version", app.Version)
		an.CreateNode("name").Text = app.Name
	}
}

func writeMusic(n *xml.Node, m *Music) {
	body := n.CreateNode("body")
	for _, md := range m.Body.Mdivs {
		mn := body.CreateNode("mdiv")
		setAttr(mn, "xml:id", md.ID)
		if md.Score != nil {
			writeScore(mn.CreateNode("score"), md.Score)
		}
	}
}

func writeScore(n *xml.Node, s *Score) {
	sd := n.CreateNode("scoreDef")
	setAttr(sd, "xml:id", s.ScoreDef.ID)
	if s.ScoreDef.StaffGrp != nil {
		writeStaffGrp(sd.CreateNode("staffGrp"), s.ScoreDef.StaffGrp)
	}
	for _, sec := range s.Sections {
		writeSection(n.CreateNode("section"), sec)
	}
}

func writeStaffGrp(n *xml.Node, g *StaffGrp) {
	setAttr(n, "xml:id", g.ID)
	setAttr(n, "symbol", g.Symbol.String())
	setBool(n, "bar.thru", g.BarThru)
	if g.Label != "" {
		n.CreateNode("label").Text = g.Label
	}
	if g.LabelAbbr != "" {
		n.CreateNode("labelAbbr").Text = g.LabelAbbr
	}
	for _, c := range g.Children {
		switch c := c.(type) {
		case *StaffDef:
			writeStaffDef(n.CreateNode("staffDef"), c)
		case *StaffGrp:
			writeStaffGrp(n.CreateNode("staffGrp"), c)
		}
	}
}

func writeStaffDef(n *xml.Node, d *StaffDef) {
	setAttr(n, "xml:id", d.ID)
	setInt(n, "n", d.N)
	setInt(n, "lines", d.Lines)
	setAttr(n, "clef.shape", d.ClefShape)
	setInt(n, "clef.line", d.ClefLine)
	setInt(n, "clef.dis", d.ClefDis)
	setAttr(n, "clef.dis.place", d.ClefDisPlace)
	setAttr(n, "keysig", d.KeySig)
	setAttr(n, "meter.count", d.MeterCount)
	setAttr(n, "meter.unit", d.MeterUnit)
	setAttr(n, "meter.sym", d.MeterSym)
	if d.PPQ > 0 {
		setFloat(n, "ppq", &d.PPQ)
	}
	if d.Label != "" {
		n.CreateNode("label").Text = d.Label
	}
	if d.LabelAbbr != "" {
		n.CreateNode("labelAbbr").Text = d.LabelAbbr
	}
}

func writeSection(n *xml.Node, s *Section) {
	setAttr(n, "xml:id", s.ID)
	for _, m := range s.Measures {
		writeMeasure(n.CreateNode("measure"), m)
	}
}

func writeMeasure(n *xml.Node, m *Measure) {
	setAttr(n, "xml:id", m.ID)
	setAttr(n, "n", m.N)
	setBool(n, "metcon", m.Metcon)
	setBool(n, "control", m.Control)
	setAttr(n, "width", m.Width)

	for _, st := range m.Staves {
		sn := n.CreateNode("staff")
		setInt(sn, "n", st.N)
		for _, l := range st.Layers {
			ln := sn.CreateNode("layer")
			setInt(ln, "n", l.N)
			for _, e := range l.Elements {
				writeLayerElement(ln, e)
			}
		}
	}

	for _, ce := range m.ControlEvents {
		writeControlEvent(n, ce)
	}
}

func writeLayerElement(parent *xml.Node, e LayerElement) {
	switch e := e.(type) {
	case *Note:
		writeNote(parent.CreateNode("note"), e)
	case *Rest:
		n := parent.CreateNode("rest")
		setAttr(n, "xml:id", e.ID)
		setAttr(n, "dur", string(e.Dur))
		setInt(n, "dots", e.Dots)
		setFloat(n, "dur.ppq", e.DurPPQ)
		setFlag(n, "cue", e.Cue)
	case *MRest:
		n := parent.CreateNode("mRest")
		setAttr(n, "xml:id", e.ID)
		setFloat(n, "dur.ppq", e.DurPPQ)
		setFlag(n, "cue", e.Cue)
	case *Chord:
		n := parent.CreateNode("chord")
		setAttr(n, "xml:id", e.ID)
		setAttr(n, "dur", string(e.Dur))
		setInt(n, "dots", e.Dots)
		setFloat(n, "dur.ppq", e.DurPPQ)
		setAttr(n, "grace", e.Grace.String())
		setFlag(n, "cue", e.Cue)
		for _, note := range e.Notes {
			writeNote(n.CreateNode("note"), note)
		}
	}
}

func writeNote(n *xml.Node, note *Note) {
	setAttr(n, "xml:id", note.ID)
	setAttr(n, "pname", note.PName)
	if note.Oct != nil {
		n.SetAttributeValue("oct", strconv.Itoa(*note.Oct))
	}
	setAttr(n, "dur", string(note.Dur))
	setInt(n, "dots", note.Dots)
	setFloat(n, "dur.ppq", note.DurPPQ)
	setAttr(n, "accid.ges", note.AccidGes.String())
	setAttr(n, "grace", note.Grace.String())
	setAttr(n, "stem.dir", note.StemDir.String())
	setFlag(n, "cue", note.Cue)
	if a := note.Accid; a != nil {
		an := n.CreateNode("accid")
		setAttr(an, "xml:id", a.ID)
		setAttr(an, "accid", a.Accid.String())
		setAttr(an, "func", a.Func.String())
		setAttr(an, "enclose", a.Enclose.String())
	}
}

func writeControlEvent(parent *xml.Node, ce ControlEvent) {
	switch ce := ce.(type) {
	case *Dynam:
		n := parent.CreateNode("dynam")
		writeTimestamp(n, ce.ID, ce.Tstamp, ce.Staff)
		n.Text = ce.Text
	case *Hairpin:
		n := parent.CreateNode("hairpin")
		writeTimestamp(n, ce.ID, ce.Tstamp, ce.Staff)
		setAttr(n, "form", ce.Form)
		setFlag(n, "niente", ce.Niente)
	case *Tempo:
		n := parent.CreateNode("tempo")
		writeTimestamp(n, ce.ID, ce.Tstamp, ce.Staff)
		setAttr(n, "func", ce.Func)
		setFloat(n, "mm", ce.MM)
		setAttr(n, "mm.unit", string(ce.MMUnit))
		setInt(n, "mm.dots", ce.MMDots)
		n.Text = ce.Text
	case *Dir:
		n := parent.CreateNode("dir")
		writeTimestamp(n, ce.ID, ce.Tstamp, ce.Staff)
		n.Text = ce.Text
	}
}

func writeTimestamp(n *xml.Node, id string, tstamp float64, staff int) {
	setAttr(n, "xml:id", id)
	setFloat(n, "tstamp", &tstamp)
	setInt(n, "staff", staff)
}

func setAttr(n *xml.Node, name, value string) {
	if value != "" {
		n.SetAttributeValue(name, value)
	}
}

func setInt(n *xml.Node, name string, value int) {
	if value != 0 {
		n.SetAttributeValue(name, strconv.Itoa(value))
	}
}

func setFloat(n *xml.Node, name string, value *float64) {
	if value != nil {
		n.SetAttributeValue(name, strconv.FormatFloat(*value, 'f', -1, 64))
	}
}

func setBool(n *xml.Node, name string, value *bool) {
	if value != nil {
		n.SetAttributeValue(name, strconv.FormatBool(*value))
	}
}

func setFlag(n *xml.Node, name string, value bool) {
	if value {
		n.SetAttributeValue(name, "true")
	}
}
