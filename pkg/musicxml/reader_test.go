package musicxml

import (
	"archive/zip"
	"bytes"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const sampleScore = `<?xml version="1.0" encoding="UTF-8"?>
<!DOCTYPE score-partwise PUBLIC "-//Recordare//DTD MusicXML 4.0 Partwise//EN" "http://www.musicxml.org/dtds/partwise.dtd">
<score-partwise version="4.0">
  <work><work-number>Op. 1</work-number><work-title>Test Symphony</work-title></work>
  <movement-title>Allegro</movement-title>
  <identification>
    <creator type="composer">A. Composer</creator>
    <rights>Public domain</rights>
  </identification>
  <part-list>
    <part-group type="start" number="1">
      <group-name>Winds</group-name>
      <group-symbol>bracket</group-symbol>
      <group-barline>yes</group-barline>
    </part-group>
    <score-part id="P1">
      <part-name>Flute</part-name>
      <part-abbreviation>Fl.</part-abbreviation>
      <score-instrument id="P1-I1"><instrument-name>Flute</instrument-name></score-instrument>
    </score-part>
    <part-group type="stop" number="1"/>
  </part-list>
  <part id="P1">
    <measure number="1" width="180.5" id="m1">
      <attributes>
        <divisions>4</divisions>
        <key><fifths>-2</fifths><mode>major</mode></key>
        <time symbol="common"><beats>4</beats><beat-type>4</beat-type></time>
        <clef><sign>G</sign><line>2</line></clef>
      </attributes>
      <direction>
        <direction-type><dynamics><m/><f/></dynamics></direction-type>
        <direction-type><words>dolce</words></direction-type>
        <offset>2</offset>
        <staff>1</staff>
      </direction>
      <note id="n1">
        <pitch><step>B</step><alter>-1</alter><octave>4</octave></pitch>
        <duration>4</duration>
        <voice>1</voice>
        <type>quarter</type>
        <accidental cautionary="yes" parentheses="yes">flat</accidental>
        <stem>down</stem>
      </note>
      <note>
        <chord/>
        <pitch><step>D</step><octave>5</octave></pitch>
        <duration>4</duration>
        <type>quarter</type>
      </note>
      <backup><duration>4</duration></backup>
      <forward><duration>4</duration></forward>
      <note>
        <grace slash="yes"/>
        <pitch><step>C</step><octave>5</octave></pitch>
        <type>eighth</type>
      </note>
      <note>
        <rest/>
        <duration>6</duration>
        <type>quarter</type>
        <dot/>
      </note>
      <direction>
        <direction-type><wedge type="crescendo" niente="yes" id="w1"/></direction-type>
      </direction>
      <direction>
        <direction-type>
          <metronome><beat-unit>quarter</beat-unit><beat-unit-dot/><per-minute>72</per-minute></metronome>
        </direction-type>
      </direction>
      <barline location="right"><bar-style>light-heavy</bar-style></barline>
    </measure>
    <measure number="2" implicit="yes" non-controlling="yes">
      <note><rest measure="yes"/><duration>16</duration></note>
    </measure>
  </part>
</score-partwise>`

func TestParse(t *testing.T) {
	score, err := Parse(strings.NewReader(sampleScore))
	require.NoError(t, err)

	assert.Equal(t, "4.0", score.Version)
	require.NotNil(t, score.Work)
	assert.Equal(t, "Test Symphony", score.Work.Title)
	assert.Equal(t, "Op. 1", score.Work.Number)
	assert.Equal(t, "Allegro", score.MovementTitle)
	require.NotNil(t, score.Identification)
	assert.Equal(t, []Creator{{Type: "composer", Name: "A. Composer"}}, score.Identification.Creators)
	assert.Equal(t, []string{"Public domain"}, score.Identification.Rights)

	require.Len(t, score.PartList.Items, 3)
	start, ok := score.PartList.Items[0].(*PartGroup)
	require.True(t, ok)
	assert.Equal(t, Start, start.Type)
	assert.Equal(t, "Winds", start.Name)
	require.NotNil(t, start.Symbol)
	assert.Equal(t, SymbolBracket, *start.Symbol)
	require.NotNil(t, start.Barline)
	assert.Equal(t, BarlineYes, *start.Barline)

	parts := score.PartList.ScoreParts()
	require.Len(t, parts, 1)
	assert.Equal(t, "Fl.", parts[0].Abbreviation)
	assert.Equal(t, []string{"Flute"}, parts[0].InstrumentNames)

	require.Len(t, score.Parts, 1)
	part, ok := score.FindPart("P1")
	require.True(t, ok)
	require.Len(t, part.Measures, 2)
}

func TestParseMeasureContent(t *testing.T) {
	score, err := Parse(strings.NewReader(sampleScore))
	require.NoError(t, err)
	m := score.Parts[0].Measures[0]

	assert.Equal(t, "1", m.Number)
	assert.Equal(t, "m1", m.ID)
	require.NotNil(t, m.Width)
	assert.Equal(t, 180.5, *m.Width)
	require.Len(t, m.Content, 11)

	attrs := m.Content[0].(*Attributes)
	require.NotNil(t, attrs.Divisions)
	assert.Equal(t, 4.0, *attrs.Divisions)
	assert.Equal(t, []Key{{Fifths: -2, Mode: "major"}}, attrs.Keys)
	assert.Equal(t, []Time{{Beats: "4", BeatType: "4", Symbol: "common"}}, attrs.Times)
	assert.Equal(t, []Clef{{Sign: "G", Line: 2}}, attrs.Clefs)

	dir := m.Content[1].(*Direction)
	require.NotNil(t, dir.Offset)
	assert.Equal(t, 2.0, *dir.Offset)
	require.Len(t, dir.Types, 2)
	assert.Equal(t, &Dynamics{Marks: []string{"m", "f"}}, dir.Types[0])
	assert.Equal(t, &Words{Text: "dolce"}, dir.Types[1])

	note := m.Content[2].(*Note)
	assert.Equal(t, "n1", note.ID)
	require.NotNil(t, note.Pitch)
	assert.Equal(t, StepB, note.Pitch.Step)
	assert.Equal(t, -1.0, note.Pitch.AlterValue())
	assert.Equal(t, 4, note.Pitch.Octave)
	assert.Equal(t, 4.0, note.DurationValue())
	require.NotNil(t, note.Type)
	assert.Equal(t, NoteQuarter, *note.Type)
	assert.Equal(t, "1", note.Voice)
	require.NotNil(t, note.Accidental)
	assert.Equal(t, AccidentalFlat, note.Accidental.Value)
	assert.True(t, note.Accidental.Cautionary)
	assert.True(t, note.Accidental.Parentheses)
	require.NotNil(t, note.Stem)
	assert.Equal(t, StemDown, *note.Stem)

	chord := m.Content[3].(*Note)
	assert.True(t, chord.IsChord())
	assert.Nil(t, chord.Pitch.Alter)

	assert.Equal(t, &Backup{Duration: 4}, m.Content[4])
	assert.Equal(t, &Forward{Duration: 4}, m.Content[5])

	grace := m.Content[6].(*Note)
	assert.True(t, grace.IsGrace())
	assert.True(t, grace.Grace.Slash)
	assert.Nil(t, grace.Duration)

	rest := m.Content[7].(*Note)
	assert.True(t, rest.IsRest())
	assert.False(t, rest.IsMeasureRest())
	assert.Equal(t, 1, rest.Dots)

	wedge := m.Content[8].(*Direction).Types[0].(*Wedge)
	assert.Equal(t, WedgeCrescendo, wedge.Type)
	assert.True(t, wedge.Niente)
	assert.Equal(t, "w1", wedge.ID)

	metronome := m.Content[9].(*Direction).Types[0].(*Metronome)
	assert.Equal(t, &Metronome{BeatUnit: "quarter", BeatUnitDots: 1, PerMinute: "72"}, metronome)

	assert.Equal(t, &Other{Name: "barline"}, m.Content[10])

	second := score.Parts[0].Measures[1]
	assert.True(t, second.Implicit)
	assert.True(t, second.NonControlling)
	assert.True(t, second.Content[0].(*Note).IsMeasureRest())
}

func TestParseMetronome(t *testing.T) {
	tests := []struct {
		name     string
		xml      string
		expected *Metronome
		modulate bool
	}{
		{
			name:     "per minute",
			xml:      `<beat-unit>half</beat-unit><per-minute>60</per-minute>`,
			expected: &Metronome{BeatUnit: "half", PerMinute: "60"},
		},
		{
			name:     "metric modulation",
			xml:      `<beat-unit>quarter</beat-unit><beat-unit>half</beat-unit>`,
			expected: &Metronome{BeatUnit: "quarter", BeatUnit2: "half"},
			modulate: true,
		},
		{
			name:     "dots follow their beat unit",
			xml:      `<beat-unit>quarter</beat-unit><beat-unit>eighth</beat-unit><beat-unit-dot/><beat-unit-dot/>`,
			expected: &Metronome{BeatUnit: "quarter", BeatUnit2: "eighth", BeatUnit2Dots: 2},
			modulate: true,
		},
		{
			name:     "no beat unit",
			xml:      `<per-minute>60</per-minute>`,
			expected: nil,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			doc := `<score-partwise><part id="P1"><measure number="1"><direction><direction-type><metronome>` +
				tt.xml + `</metronome></direction-type></direction></measure></part></score-partwise>`
			score, err := Parse(strings.NewReader(doc))
			require.NoError(t, err)

			dir := score.Parts[0].Measures[0].Content[0].(*Direction)
			if tt.expected == nil {
				assert.Empty(t, dir.Types)
				return
			}
			require.Len(t, dir.Types, 1)
			m := dir.Types[0].(*Metronome)
			assert.Equal(t, tt.expected, m)
			assert.Equal(t, tt.modulate, m.IsMetricModulation())
		})
	}
}

func TestParseErrors(t *testing.T) {
	tests := []struct {
		name   string
		input  string
		target error
	}{
		{"malformed", "<score-partwise><part-list>", ErrInvalidInput},
		{"wrong root", "<mei/>", ErrInvalidInput},
		{"timewise", `<score-timewise version="4.0"/>`, ErrUnsupported},
		{"part without id", `<score-partwise><part-list/><part/></score-partwise>`, ErrInvalidInput},
		{"bad duration", `<score-partwise><part id="P1"><measure number="1"><note><rest/><duration>x</duration></note></measure></part></score-partwise>`, ErrInvalidInput},
		{"bad step", `<score-partwise><part id="P1"><measure number="1"><note><pitch><step>H</step><octave>4</octave></pitch></note></measure></part></score-partwise>`, ErrInvalidInput},
		{"backup without duration", `<score-partwise><part id="P1"><measure number="1"><backup/></measure></part></score-partwise>`, ErrInvalidInput},
		{"bad group type", `<score-partwise><part-list><part-group type="middle"/></part-list></score-partwise>`, ErrInvalidInput},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Parse(strings.NewReader(tt.input))
			require.Error(t, err)
			assert.True(t, errors.Is(err, tt.target), "got %v", err)
		})
	}
}

func TestParseErrorPath(t *testing.T) {
	_, err := Parse(strings.NewReader(`<score-partwise><part id="P1"><measure number="3"><note><rest/><duration>x</duration></note></measure></part></score-partwise>`))

	var perr *ParseError
	require.True(t, errors.As(err, &perr))
	assert.Equal(t, "part[P1]/measure[3]/note", perr.Path)
}

func TestParseLenientEnums(t *testing.T) {
	score, err := Parse(strings.NewReader(`<score-partwise><part-list><score-part id="P1"/></part-list><part id="P1"><measure number="1">
		<note><pitch><step>C</step><octave>4</octave></pitch><duration>1</duration><type>semibreve</type><stem>sideways</stem><accidental>funny</accidental></note>
	</measure></part></score-partwise>`))
	require.NoError(t, err)

	note := score.Parts[0].Measures[0].Content[0].(*Note)
	assert.Nil(t, note.Type)
	assert.Nil(t, note.Stem)
	assert.Equal(t, AccidentalOther, note.Accidental.Value)
}

func buildContainer(t *testing.T, files map[string]string) []byte {
	t.Helper()
	var buf bytes.Buffer
	zw := zip.NewWriter(&buf)
	for name, content := range files {
		w, err := zw.Create(name)
		require.NoError(t, err)
		_, err = w.Write([]byte(content))
		require.NoError(t, err)
	}
	require.NoError(t, zw.Close())
	return buf.Bytes()
}

func TestParseBytesContainer(t *testing.T) {
	tests := []struct {
		name  string
		files map[string]string
	}{
		{
			name: "with manifest",
			files: map[string]string{
				"META-INF/container.xml": `<?xml version="1.0"?><container><rootfiles><rootfile full-path="scores/piece.musicxml" media-type="application/vnd.recordare.musicxml+xml"/></rootfiles></container>`,
				"scores/piece.musicxml":  sampleScore,
			},
		},
		{
			name:  "without manifest",
			files: map[string]string{"piece.xml": sampleScore},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			data := buildContainer(t, tt.files)
			require.True(t, IsContainer(data))

			score, err := ParseBytes(data)
			require.NoError(t, err)
			assert.Equal(t, "Test Symphony", score.Work.Title)
		})
	}
}

func TestParseBytesContainerErrors(t *testing.T) {
	t.Run("missing rootfile", func(t *testing.T) {
		data := buildContainer(t, map[string]string{
			"META-INF/container.xml": `<container><rootfiles><rootfile full-path="gone.xml"/></rootfiles></container>`,
		})
		_, err := ParseBytes(data)
		assert.True(t, errors.Is(err, ErrInvalidInput))
	})

	t.Run("no score entry", func(t *testing.T) {
		data := buildContainer(t, map[string]string{"readme.txt": "hi"})
		_, err := ParseBytes(data)
		assert.True(t, errors.Is(err, ErrInvalidInput))
	})

	t.Run("truncated archive", func(t *testing.T) {
		_, err := ParseBytes([]byte("PK\x03\x04garbage"))
		assert.True(t, errors.Is(err, ErrInvalidInput))
	})
}

func TestParseFileMissing(t *testing.T) {
	_, err := ParseFile("does-not-exist.musicxml")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to read MusicXML file")
}
