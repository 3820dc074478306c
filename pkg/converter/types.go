// Package converter converts MusicXML scores to MEI documents and MIDI previews
package converter

import (
	"log/slog"

	"github.com/james-see/mxl2mei/pkg/converter/engine"
	"github.com/james-see/mxl2mei/pkg/logging"
)

// Options configures a Converter
type Options struct {
	IDPrefix        string
	Logger          *slog.Logger
	TicksPerQuarter uint16
	Velocity        uint8
}

// Option sets a Converter option
type Option func(*Options)

// WithIDPrefix sets the prefix of generated MEI ids
func WithIDPrefix(prefix string) Option {
	return func(o *Options) { o.IDPrefix = prefix }
}

// WithLogger sets the logger used for conversion summaries and warnings
func WithLogger(l *slog.Logger) Option {
	return func(o *Options) { o.Logger = l }
}

// WithMIDI sets the resolution and note velocity of MIDI previews
func WithMIDI(ticksPerQuarter uint16, velocity uint8) Option {
	return func(o *Options) {
		o.TicksPerQuarter = ticksPerQuarter
		o.Velocity = velocity
	}
}

// Result describes one conversion run
type Result struct {
	Title    string
	Parts    int
	Measures int
	Warnings []engine.Warning
	IDMap    map[string]string
}

// ConversionResult holds the outcome of a file conversion
type ConversionResult struct {
	Filename string
	Format   Format
	Result   *Result
	Error    error
}

// Converter handles format conversions
type Converter struct {
	opts Options
	midi *MIDIConverter
}

// New creates a new Converter
func New(opts ...Option) *Converter {
	o := Options{IDPrefix: engine.DefaultIDPrefix}
	for _, opt := range opts {
		opt(&o)
	}
	if o.Logger == nil {
		o.Logger = logging.GetLogger()
	}

	midi := NewMIDIConverter()
	if o.TicksPerQuarter > 0 {
		midi.ticksPerQuarter = o.TicksPerQuarter
	}
	if o.Velocity > 0 && o.Velocity <= 127 {
		midi.velocity = o.Velocity
	}

	return &Converter{opts: o, midi: midi}
}

// IDPrefix returns the prefix of generated MEI ids
func (c *Converter) IDPrefix() string {
	return c.opts.IDPrefix
}

// MIDI returns the MIDI preview generator
func (c *Converter) MIDI() *MIDIConverter {
	return c.midi
}
