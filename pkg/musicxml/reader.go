package musicxml

import (
	"bytes"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/antchfx/xmlquery"
	"github.com/antchfx/xpath"
)

var (
	rootExpr     = xpath.MustCompile("/score-partwise | /score-timewise")
	partListExpr = xpath.MustCompile("part-list/*")
	partExpr     = xpath.MustCompile("part")
	measureExpr  = xpath.MustCompile("measure")
	creatorExpr  = xpath.MustCompile("identification/creator")
	rightsExpr   = xpath.MustCompile("identification/rights")
)

// ParseFile reads and parses a MusicXML file, unpacking .mxl containers
func ParseFile(filename string) (*Score, error) {
	data, err := os.ReadFile(filename)
	if err != nil {
		return nil, fmt.Errorf("failed to read MusicXML file: %w", err)
	}
	return ParseBytes(data)
}

// ParseBytes parses MusicXML data, either plain XML or a compressed .mxl container
func ParseBytes(data []byte) (*Score, error) {
	if IsContainer(data) {
		return ReadContainer(data)
	}
	return Parse(bytes.NewReader(data))
}

// Parse parses an uncompressed score-partwise document
func Parse(r io.Reader) (*Score, error) {
	doc, err := xmlquery.Parse(r)
	if err != nil {
		return nil, &ParseError{Message: "malformed XML", Err: err}
	}

	root := xmlquery.QuerySelector(doc, rootExpr)
	if root == nil {
		return nil, &ParseError{Message: "no score-partwise root element"}
	}
	if root.Data == "score-timewise" {
		return nil, &UnsupportedError{Feature: "score-timewise", Reason: "only partwise scores are read"}
	}

	score := &Score{Version: root.SelectAttr("version")}
	readHeader(root, score)

	for _, n := range xmlquery.QuerySelectorAll(root, partListExpr) {
		item, err := readPartListItem(n)
		if err != nil {
			return nil, err
		}
		if item != nil {
			score.PartList.Items = append(score.PartList.Items, item)
		}
	}

	for _, pn := range xmlquery.QuerySelectorAll(root, partExpr) {
		part, err := readPart(pn)
		if err != nil {
			return nil, err
		}
		score.Parts = append(score.Parts, part)
	}

	return score, nil
}

func readHeader(root *xmlquery.Node, score *Score) {
	if w := child(root, "work"); w != nil {
		score.Work = &Work{
			Number: childText(w, "work-number"),
			Title:  childText(w, "work-title"),
		}
	}
	score.MovementNumber = childText(root, "movement-number")
	score.MovementTitle = childText(root, "movement-title")

	creators := xmlquery.QuerySelectorAll(root, creatorExpr)
	rights := xmlquery.QuerySelectorAll(root, rightsExpr)
	if len(creators) == 0 && len(rights) == 0 {
		return
	}
	ident := &Identification{}
	for _, c := range creators {
		ident.Creators = append(ident.Creators, Creator{
			Type: c.SelectAttr("type"),
			Name: strings.TrimSpace(c.InnerText()),
		})
	}
	for _, r := range rights {
		ident.Rights = append(ident.Rights, strings.TrimSpace(r.InnerText()))
	}
	score.Identification = ident
}

func readPartListItem(n *xmlquery.Node) (PartListItem, error) {
	switch n.Data {
	case "score-part":
		sp := &ScorePart{
			ID:           n.SelectAttr("id"),
			Name:         childText(n, "part-name"),
			Abbreviation: childText(n, "part-abbreviation"),
		}
		if sp.ID == "" {
			return nil, &ParseError{Path: "part-list/score-part", Message: "missing id attribute"}
		}
		for _, si := range children(n, "score-instrument") {
			if name := childText(si, "instrument-name"); name != "" {
				sp.InstrumentNames = append(sp.InstrumentNames, name)
			}
		}
		return sp, nil

	case "part-group":
		pg := &PartGroup{
			Number:       n.SelectAttr("number"),
			Name:         childText(n, "group-name"),
			Abbreviation: childText(n, "group-abbreviation"),
		}
		switch n.SelectAttr("type") {
		case "start":
			pg.Type = Start
		case "stop":
			pg.Type = Stop
		default:
			return nil, &ParseError{Path: "part-list/part-group", Message: fmt.Sprintf("invalid type %q", n.SelectAttr("type"))}
		}
		if s, ok := ParseGroupSymbol(childText(n, "group-symbol")); ok {
			pg.Symbol = &s
		}
		if b, ok := ParseGroupBarline(childText(n, "group-barline")); ok {
			pg.Barline = &b
		}
		return pg, nil
	}
	return nil, nil
}

func readPart(pn *xmlquery.Node) (*Part, error) {
	part := &Part{ID: pn.SelectAttr("id")}
	if part.ID == "" {
		return nil, &ParseError{Path: "part", Message: "missing id attribute"}
	}

	for _, mn := range xmlquery.QuerySelectorAll(pn, measureExpr) {
		path := fmt.Sprintf("part[%s]/measure[%s]", part.ID, mn.SelectAttr("number"))
		m, err := readMeasure(mn, path)
		if err != nil {
			return nil, err
		}
		part.Measures = append(part.Measures, m)
	}
	return part, nil
}

func readMeasure(mn *xmlquery.Node, path string) (*Measure, error) {
	m := &Measure{
		Number:         mn.SelectAttr("number"),
		Implicit:       mn.SelectAttr("implicit") == "yes",
		NonControlling: mn.SelectAttr("non-controlling") == "yes",
		ID:             mn.SelectAttr("id"),
	}
	if w := mn.SelectAttr("width"); w != "" {
		width, err := parseFloat(w)
		if err != nil {
			return nil, &ParseError{Path: path, Message: "invalid width", Err: err}
		}
		m.Width = &width
	}

	for c := mn.FirstChild; c != nil; c = c.NextSibling {
		if c.Type != xmlquery.ElementNode {
			continue
		}
		item, err := readContent(c, path+"/"+c.Data)
		if err != nil {
			return nil, err
		}
		m.Content = append(m.Content, item)
	}
	return m, nil
}

func readContent(n *xmlquery.Node, path string) (MeasureContent, error) {
	switch n.Data {
	case "note":
		return readNote(n, path)
	case "attributes":
		return readAttributes(n, path)
	case "backup":
		d, err := requiredFloat(n, "duration", path)
		if err != nil {
			return nil, err
		}
		return &Backup{Duration: d}, nil
	case "forward":
		d, err := requiredFloat(n, "duration", path)
		if err != nil {
			return nil, err
		}
		return &Forward{Duration: d}, nil
	case "direction":
		return readDirection(n, path)
	}
	return &Other{Name: n.Data}, nil
}

func readNote(n *xmlquery.Node, path string) (*Note, error) {
	note := &Note{
		ID:    n.SelectAttr("id"),
		Chord: child(n, "chord") != nil,
		Cue:   child(n, "cue") != nil,
		Voice: childText(n, "voice"),
		Dots:  len(children(n, "dot")),
	}

	if g := child(n, "grace"); g != nil {
		note.Grace = &Grace{Slash: g.SelectAttr("slash") == "yes"}
	}

	if p := child(n, "pitch"); p != nil {
		pitch := &Pitch{Step: Step(childText(p, "step"))}
		if !pitch.Step.Valid() {
			return nil, &ParseError{Path: path, Message: fmt.Sprintf("invalid step %q", pitch.Step)}
		}
		oct, err := strconv.Atoi(childText(p, "octave"))
		if err != nil {
			return nil, &ParseError{Path: path, Message: "invalid octave", Err: err}
		}
		pitch.Octave = oct
		if a := childText(p, "alter"); a != "" {
			alter, err := parseFloat(a)
			if err != nil {
				return nil, &ParseError{Path: path, Message: "invalid alter", Err: err}
			}
			pitch.Alter = &alter
		}
		note.Pitch = pitch
	} else if r := child(n, "rest"); r != nil {
		rest := &Rest{
			Measure:     r.SelectAttr("measure") == "yes",
			DisplayStep: childText(r, "display-step"),
		}
		if o, err := strconv.Atoi(childText(r, "display-octave")); err == nil {
			rest.DisplayOctave = &o
		}
		note.Rest = rest
	} else if child(n, "unpitched") != nil {
		note.Unpitched = true
	}

	if d := childText(n, "duration"); d != "" {
		dur, err := parseFloat(d)
		if err != nil {
			return nil, &ParseError{Path: path, Message: "invalid duration", Err: err}
		}
		note.Duration = &dur
	}

	if t, ok := ParseNoteType(childText(n, "type")); ok {
		note.Type = &t
	}

	if a := child(n, "accidental"); a != nil {
		value, ok := ParseAccidentalValue(strings.TrimSpace(a.InnerText()))
		if !ok {
			value = AccidentalOther
		}
		note.Accidental = &Accidental{
			Value:       value,
			Cautionary:  a.SelectAttr("cautionary") == "yes",
			Editorial:   a.SelectAttr("editorial") == "yes",
			Parentheses: a.SelectAttr("parentheses") == "yes",
			Bracket:     a.SelectAttr("bracket") == "yes",
		}
	}

	if s, ok := ParseStem(childText(n, "stem")); ok {
		note.Stem = &s
	}

	if s := childText(n, "staff"); s != "" {
		staff, err := strconv.Atoi(s)
		if err != nil {
			return nil, &ParseError{Path: path, Message: "invalid staff", Err: err}
		}
		note.Staff = staff
	}

	return note, nil
}

func readAttributes(n *xmlquery.Node, path string) (*Attributes, error) {
	attrs := &Attributes{}

	if d := childText(n, "divisions"); d != "" {
		div, err := parseFloat(d)
		if err != nil {
			return nil, &ParseError{Path: path, Message: "invalid divisions", Err: err}
		}
		attrs.Divisions = &div
	}

	for _, k := range children(n, "key") {
		f := childText(k, "fifths")
		if f == "" {
			// non-traditional keys are not modelled
			continue
		}
		fifths, err := strconv.Atoi(f)
		if err != nil {
			return nil, &ParseError{Path: path, Message: "invalid fifths", Err: err}
		}
		attrs.Keys = append(attrs.Keys, Key{Fifths: fifths, Mode: childText(k, "mode")})
	}

	for _, t := range children(n, "time") {
		attrs.Times = append(attrs.Times, Time{
			Beats:       childText(t, "beats"),
			BeatType:    childText(t, "beat-type"),
			Symbol:      t.SelectAttr("symbol"),
			SenzaMisura: child(t, "senza-misura") != nil,
		})
	}

	for _, c := range children(n, "clef") {
		clef := Clef{Sign: childText(c, "sign")}
		if v, err := strconv.Atoi(c.SelectAttr("number")); err == nil {
			clef.Number = v
		}
		if v, err := strconv.Atoi(childText(c, "line")); err == nil {
			clef.Line = v
		}
		if v, err := strconv.Atoi(childText(c, "clef-octave-change")); err == nil {
			clef.OctaveChange = v
		}
		attrs.Clefs = append(attrs.Clefs, clef)
	}

	if s, err := strconv.Atoi(childText(n, "staves")); err == nil {
		attrs.Staves = s
	}

	return attrs, nil
}

// readMetronome reads a beat-unit = per-minute mark, or a beat-unit = beat-unit
// equivalence. Each beat-unit-dot belongs to the beat-unit before it.
func readMetronome(n *xmlquery.Node) *Metronome {
	m := &Metronome{}
	units := 0
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		if c.Type != xmlquery.ElementNode {
			continue
		}
		switch c.Data {
		case "beat-unit":
			units++
			switch units {
			case 1:
				m.BeatUnit = strings.TrimSpace(c.InnerText())
			case 2:
				m.BeatUnit2 = strings.TrimSpace(c.InnerText())
			}
		case "beat-unit-dot":
			switch units {
			case 1:
				m.BeatUnitDots++
			case 2:
				m.BeatUnit2Dots++
			}
		case "per-minute":
			m.PerMinute = strings.TrimSpace(c.InnerText())
		}
	}
	if m.BeatUnit == "" {
		return nil
	}
	return m
}

func readDirection(n *xmlquery.Node, path string) (*Direction, error) {
	dir := &Direction{}

	if o := childText(n, "offset"); o != "" {
		offset, err := parseFloat(o)
		if err != nil {
			return nil, &ParseError{Path: path, Message: "invalid offset", Err: err}
		}
		dir.Offset = &offset
	}
	var words []string
	for _, dt := range children(n, "direction-type") {
		for c := dt.FirstChild; c != nil; c = c.NextSibling {
			if c.Type != xmlquery.ElementNode {
				continue
			}
			switch c.Data {
			case "dynamics":
				dir.Types = append(dir.Types, readDynamics(c))
			case "wedge":
				if w := readWedge(c); w != nil {
					dir.Types = append(dir.Types, w)
				}
			case "metronome":
				if m := readMetronome(c); m != nil {
					dir.Types = append(dir.Types, m)
				}
			case "words":
				if text := strings.TrimSpace(c.InnerText()); text != "" {
					words = append(words, text)
				}
			}
		}
	}
	if len(words) > 0 {
		dir.Types = append(dir.Types, &Words{Text: strings.Join(words, " ")})
	}

	return dir, nil
}

func readDynamics(n *xmlquery.Node) *Dynamics {
	d := &Dynamics{}
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		if c.Type != xmlquery.ElementNode {
			continue
		}
		if c.Data == "other-dynamics" {
			d.Marks = append(d.Marks, strings.TrimSpace(c.InnerText()))
			continue
		}
		d.Marks = append(d.Marks, c.Data)
	}
	return d
}

func readWedge(n *xmlquery.Node) *Wedge {
	w := &Wedge{
		Number: n.SelectAttr("number"),
		Niente: n.SelectAttr("niente") == "yes",
		ID:     n.SelectAttr("id"),
	}
	switch n.SelectAttr("type") {
	case "crescendo":
		w.Type = WedgeCrescendo
	case "diminuendo":
		w.Type = WedgeDiminuendo
	case "stop":
		w.Type = WedgeStop
	case "continue":
		w.Type = WedgeContinue
	default:
		return nil
	}
	return w
}

func child(n *xmlquery.Node, name string) *xmlquery.Node {
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		if c.Type == xmlquery.ElementNode && c.Data == name {
			return c
		}
	}
	return nil
}

func children(n *xmlquery.Node, name string) []*xmlquery.Node {
	var out []*xmlquery.Node
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		if c.Type == xmlquery.ElementNode && c.Data == name {
			out = append(out, c)
		}
	}
	return out
}

func childText(n *xmlquery.Node, name string) string {
	c := child(n, name)
	if c == nil {
		return ""
	}
	return strings.TrimSpace(c.InnerText())
}

func requiredFloat(n *xmlquery.Node, name, path string) (float64, error) {
	s := childText(n, name)
	if s == "" {
		return 0, &ParseError{Path: path, Message: "missing " + name}
	}
	v, err := parseFloat(s)
	if err != nil {
		return 0, &ParseError{Path: path, Message: "invalid " + name, Err: err}
	}
	return v, nil
}

func parseFloat(s string) (float64, error) {
	return strconv.ParseFloat(strings.TrimSpace(s), 64)
}
