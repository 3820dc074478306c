package converter

import (
	"bytes"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/james-see/mxl2mei/pkg/converter/engine"
	"github.com/james-see/mxl2mei/pkg/mei"
	"github.com/james-see/mxl2mei/pkg/musicxml"
)

// Format represents a file format
type Format string

const (
	FormatMusicXML Format = "musicxml"
	FormatMXL      Format = "mxl"
	FormatMEI      Format = "mei"
	FormatMIDI     Format = "midi"
	FormatUnknown  Format = "unknown"
)

// ErrUnsupportedConversion is returned for format pairs the converter cannot handle
var ErrUnsupportedConversion = errors.New("unsupported conversion")

// IsMusicXML reports whether the format is read by the MusicXML reader
func (f Format) IsMusicXML() bool {
	return f == FormatMusicXML || f == FormatMXL
}

// Extension returns the preferred file extension of the format
func (f Format) Extension() string {
	switch f {
	case FormatMusicXML:
		return ".musicxml"
	case FormatMXL:
		return ".mxl"
	case FormatMEI:
		return ".mei"
	case FormatMIDI:
		return ".mid"
	}
	return ""
}

// DetectFormat detects the format of a file based on its extension
func DetectFormat(filename string) Format {
	ext := strings.ToLower(filepath.Ext(filename))
	switch ext {
	case ".musicxml", ".xml":
		return FormatMusicXML
	case ".mxl":
		return FormatMXL
	case ".mei":
		return FormatMEI
	case ".mid", ".midi":
		return FormatMIDI
	default:
		return FormatUnknown
	}
}

// DetectFormatFromContent detects format from file content
func DetectFormatFromContent(data []byte) Format {
	if len(data) < 4 {
		return FormatUnknown
	}

	if musicxml.IsContainer(data) {
		return FormatMXL
	}

	// Standard MIDI file signature
	if string(data[:4]) == "MThd" {
		return FormatMIDI
	}

	head := data
	if len(head) > 1024 {
		head = head[:1024]
	}
	switch {
	case bytes.Contains(head, []byte("<score-partwise")), bytes.Contains(head, []byte("<score-timewise")):
		return FormatMusicXML
	case bytes.Contains(head, []byte("<mei")):
		return FormatMEI
	}
	return FormatUnknown
}

// Convert parses MusicXML (plain or .mxl) and converts it to an in-memory MEI document
func (c *Converter) Convert(data []byte) (*mei.Mei, *Result, error) {
	score, err := musicxml.ParseBytes(data)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to parse MusicXML: %w", err)
	}

	ctx := engine.NewContext(engine.WithIDPrefix(c.opts.IDPrefix))
	doc, err := engine.ConvertWithContext(score, ctx)
	if err != nil {
		return nil, nil, err
	}

	result := &Result{
		Title:    engine.Title(score),
		Parts:    len(score.Parts),
		Warnings: ctx.Warnings(),
		IDMap:    ctx.IDMap(),
	}
	for _, s := range doc.Sections() {
		result.Measures += len(s.Measures)
	}
	c.logResult(result)
	return doc, result, nil
}

func (c *Converter) logResult(r *Result) {
	log := c.opts.Logger
	for _, w := range r.Warnings {
		log.Debug("conversion warning",
			"code", string(w.Code),
			"message", w.Message,
			"part", w.Position.PartID,
			"measure", w.Position.Measure,
		)
	}
	log.Info("converted score",
		"title", r.Title,
		"parts", r.Parts,
		"measures", r.Measures,
		"warnings", len(r.Warnings),
	)
}

// MusicXMLToMEI converts MusicXML data to serialized MEI
func (c *Converter) MusicXMLToMEI(data []byte) ([]byte, *Result, error) {
	doc, result, err := c.Convert(data)
	if err != nil {
		return nil, nil, err
	}
	out, err := mei.Marshal(doc)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to write MEI: %w", err)
	}
	return out, result, nil
}

// MusicXMLToMIDI converts MusicXML data to a MIDI preview of its MEI rendering
func (c *Converter) MusicXMLToMIDI(data []byte) ([]byte, *Result, error) {
	doc, result, err := c.Convert(data)
	if err != nil {
		return nil, nil, err
	}
	out, err := c.midi.GenerateMIDI(doc)
	if err != nil {
		return nil, nil, err
	}
	return out, result, nil
}

// ConvertFile converts a file from one format to another
func (c *Converter) ConvertFile(inputPath, outputPath string) (*Result, error) {
	data, err := os.ReadFile(inputPath)
	if err != nil {
		return nil, fmt.Errorf("failed to read input file: %w", err)
	}

	inputFormat := DetectFormat(inputPath)
	if inputFormat == FormatUnknown {
		inputFormat = DetectFormatFromContent(data)
	}

	outputFormat := DetectFormat(outputPath)
	if outputFormat == FormatUnknown {
		return nil, errors.New("cannot determine output format from filename")
	}

	var (
		outputData []byte
		result     *Result
	)
	switch {
	case inputFormat.IsMusicXML() && outputFormat == FormatMEI:
		outputData, result, err = c.MusicXMLToMEI(data)
	case inputFormat.IsMusicXML() && outputFormat == FormatMIDI:
		outputData, result, err = c.MusicXMLToMIDI(data)
	default:
		return nil, fmt.Errorf("%w: %s to %s", ErrUnsupportedConversion, inputFormat, outputFormat)
	}

	if err != nil {
		return nil, fmt.Errorf("conversion failed: %w", err)
	}

	if err := os.WriteFile(outputPath, outputData, 0644); err != nil {
		return nil, fmt.Errorf("failed to write output file: %w", err)
	}

	return result, nil
}

// OutputPath derives an output filename from the input by swapping the extension
func OutputPath(inputPath string, target Format) string {
	ext := filepath.Ext(inputPath)
	return strings.TrimSuffix(inputPath, ext) + target.Extension()
}

// GetSupportedConversions returns a list of supported conversion paths
func GetSupportedConversions() []string {
	return []string{
		"musicxml -> mei",
		"mxl -> mei",
		"musicxml -> midi",
		"mxl -> midi",
	}
}
