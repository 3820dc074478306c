package converter

import (
	"archive/zip"
	"bytes"
	"errors"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/antchfx/xmlquery"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/james-see/mxl2mei/pkg/converter/engine"
	"github.com/james-see/mxl2mei/pkg/musicxml"
)

func quietConverter(opts ...Option) *Converter {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	return New(append([]Option{WithLogger(logger)}, opts...)...)
}

func readFixture(t *testing.T, name string) []byte {
	t.Helper()
	data, err := os.ReadFile(filepath.Join("testdata", name))
	require.NoError(t, err)
	return data
}

func TestDetectFormat(t *testing.T) {
	tests := []struct {
		filename string
		expected Format
	}{
		{"score.musicxml", FormatMusicXML},
		{"score.xml", FormatMusicXML},
		{"SCORE.XML", FormatMusicXML},
		{"score.mxl", FormatMXL},
		{"score.mei", FormatMEI},
		{"test.mid", FormatMIDI},
		{"test.midi", FormatMIDI},
		{"test.txt", FormatUnknown},
		{"test", FormatUnknown},
	}

	for _, tt := range tests {
		t.Run(tt.filename, func(t *testing.T) {
			result := DetectFormat(tt.filename)
			if result != tt.expected {
				t.Errorf("DetectFormat(%q) = %v, want %v", tt.filename, result, tt.expected)
			}
		})
	}
}

func TestDetectFormatFromContent(t *testing.T) {
	tests := []struct {
		name     string
		data     []byte
		expected Format
	}{
		{"MIDI file", []byte("MThd\x00\x00\x00\x06"), FormatMIDI},
		{"zip container", []byte("PK\x03\x04\x14\x00"), FormatMXL},
		{"partwise", []byte(`<?xml version="1.0"?><score-partwise version="4.0">`), FormatMusicXML},
		{"timewise", []byte(`<score-timewise>`), FormatMusicXML},
		{"MEI", []byte(`<?xml version="1.0"?><mei xmlns="http://www.music-encoding.org/ns/mei">`), FormatMEI},
		{"Short data", []byte{0x00, 0x01}, FormatUnknown},
		{"text", []byte("hello world"), FormatUnknown},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := DetectFormatFromContent(tt.data)
			if result != tt.expected {
				t.Errorf("DetectFormatFromContent() = %v, want %v", result, tt.expected)
			}
		})
	}
}

func TestConverterNew(t *testing.T) {
	conv := New()
	require.NotNil(t, conv)
	assert.Equal(t, engine.DefaultIDPrefix, conv.IDPrefix())
	assert.Equal(t, uint16(480), conv.MIDI().ticksPerQuarter)

	conv = New(WithIDPrefix("x"), WithMIDI(960, 64))
	assert.Equal(t, "x", conv.IDPrefix())
	assert.Equal(t, uint16(960), conv.MIDI().ticksPerQuarter)
	assert.Equal(t, uint8(64), conv.MIDI().velocity)
}

func TestMusicXMLToMEI(t *testing.T) {
	conv := quietConverter(WithIDPrefix("duet"))
	out, result, err := conv.MusicXMLToMEI(readFixture(t, "duet.musicxml"))
	require.NoError(t, err)

	assert.Equal(t, "Test Symphony", result.Title)
	assert.Equal(t, 2, result.Parts)
	assert.Equal(t, 2, result.Measures)
	assert.Empty(t, result.Warnings)
	assert.Equal(t, "staff-1", result.IDMap["P1"])
	assert.True(t, strings.HasPrefix(result.IDMap["v1"], "duet-note-"))

	doc, err := xmlquery.Parse(bytes.NewReader(out))
	require.NoError(t, err)

	assert.Equal(t, "Test Symphony", xmlquery.FindOne(doc, "//titleStmt/title").InnerText())
	assert.Len(t, xmlquery.Find(doc, "//scoreDef/staffGrp/staffGrp/staffDef"), 2)
	assert.Equal(t, "bracket", xmlquery.FindOne(doc, "//scoreDef/staffGrp/staffGrp").SelectAttr("symbol"))
	assert.Len(t, xmlquery.Find(doc, "//section/measure"), 2)
	assert.Len(t, xmlquery.Find(doc, "//measure[@n='2']/staff[@n='1']/layer/chord/note"), 2)
	assert.NotNil(t, xmlquery.FindOne(doc, "//measure[@n='2']/staff[@n='2']/layer/mRest"))
	assert.Equal(t, "s", xmlquery.FindOne(doc, "//chord/note[@pname='f']").SelectAttr("accid.ges"))
	assert.Equal(t, "90", xmlquery.FindOne(doc, "//measure[@n='1']/tempo").SelectAttr("mm"))
	assert.Equal(t, "p", xmlquery.FindOne(doc, "//measure[@n='1']/dynam").InnerText())

	// inferred durations on notes without <type>
	notes := xmlquery.Find(doc, "//measure[@n='1']/staff[@n='1']/layer/note")
	require.Len(t, notes, 4)
	for _, n := range notes {
		assert.Equal(t, "4", n.SelectAttr("dur"))
	}
}

func TestMusicXMLToMEIFromContainer(t *testing.T) {
	var buf bytes.Buffer
	zw := zip.NewWriter(&buf)
	w, err := zw.Create("duet.musicxml")
	require.NoError(t, err)
	_, err = w.Write(readFixture(t, "duet.musicxml"))
	require.NoError(t, err)
	require.NoError(t, zw.Close())

	_, result, err := quietConverter().MusicXMLToMEI(buf.Bytes())
	require.NoError(t, err)
	assert.Equal(t, 2, result.Measures)
}

func TestMusicXMLToMEIErrors(t *testing.T) {
	conv := quietConverter()

	_, _, err := conv.MusicXMLToMEI([]byte("not xml at all <"))
	require.Error(t, err)
	assert.True(t, errors.Is(err, musicxml.ErrInvalidInput))

	_, _, err = conv.MusicXMLToMEI([]byte(`<score-timewise version="4.0"/>`))
	assert.True(t, errors.Is(err, musicxml.ErrUnsupported))

	_, _, err = conv.MusicXMLToMEI([]byte(`<score-partwise><part-list/><part id="P1"><measure number="1"/></part></score-partwise>`))
	assert.True(t, errors.Is(err, engine.ErrMissingPart))
}

func TestMusicXMLToMEIWarnings(t *testing.T) {
	data := []byte(`<score-partwise><part-list><part-group type="stop" number="3"/><score-part id="P1"/></part-list>
	<part id="P1"><measure number="1"><attributes><divisions>3</divisions></attributes>
	<note><pitch><step>C</step><octave>4</octave></pitch><duration>1</duration></note></measure></part></score-partwise>`)

	_, result, err := quietConverter().MusicXMLToMEI(data)
	require.NoError(t, err)

	var codes []engine.WarningCode
	for _, w := range result.Warnings {
		codes = append(codes, w.Code)
	}
	assert.Equal(t, []engine.WarningCode{engine.WarnUnmatchedGroupStop, engine.WarnDuration}, codes)
}

func TestConvertFile(t *testing.T) {
	dir := t.TempDir()
	input := filepath.Join("testdata", "duet.musicxml")

	tests := []struct {
		output string
		magic  string
	}{
		{"duet.mei", "<?xml"},
		{"duet.mid", "MThd"},
	}

	for _, tt := range tests {
		t.Run(tt.output, func(t *testing.T) {
			out := filepath.Join(dir, tt.output)
			result, err := quietConverter().ConvertFile(input, out)
			require.NoError(t, err)
			assert.Equal(t, 2, result.Measures)

			data, err := os.ReadFile(out)
			require.NoError(t, err)
			assert.True(t, bytes.HasPrefix(data, []byte(tt.magic)), "unexpected prefix %q", data[:8])
		})
	}
}

func TestConvertFileErrors(t *testing.T) {
	dir := t.TempDir()
	conv := quietConverter()
	input := filepath.Join("testdata", "duet.musicxml")

	_, err := conv.ConvertFile(filepath.Join(dir, "missing.musicxml"), filepath.Join(dir, "out.mei"))
	assert.ErrorContains(t, err, "failed to read input file")

	_, err = conv.ConvertFile(input, filepath.Join(dir, "out.txt"))
	assert.ErrorContains(t, err, "cannot determine output format")

	_, err = conv.ConvertFile(input, filepath.Join(dir, "out.musicxml"))
	assert.True(t, errors.Is(err, ErrUnsupportedConversion))
}

func TestConvertFileDetectsContent(t *testing.T) {
	dir := t.TempDir()
	input := filepath.Join(dir, "score.dat")
	require.NoError(t, os.WriteFile(input, readFixture(t, "duet.musicxml"), 0644))

	_, err := quietConverter().ConvertFile(input, filepath.Join(dir, "score.mei"))
	assert.NoError(t, err)
}

func TestOutputPath(t *testing.T) {
	assert.Equal(t, "dir/score.mei", OutputPath("dir/score.musicxml", FormatMEI))
	assert.Equal(t, "score.mid", OutputPath("score.mxl", FormatMIDI))
	assert.Equal(t, "score.mei", OutputPath("score", FormatMEI))
}

func TestGetSupportedConversions(t *testing.T) {
	conversions := GetSupportedConversions()
	assert.Contains(t, conversions, "musicxml -> mei")
	assert.Contains(t, conversions, "mxl -> midi")
}
