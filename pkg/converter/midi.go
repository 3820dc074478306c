package converter

import (
	"bytes"
	"errors"
	"fmt"
	"sort"
	"unicode/utf8"

	"gitlab.com/gomidi/midi/v2"
	"gitlab.com/gomidi/midi/v2/smf"

	"github.com/james-see/mxl2mei/pkg/mei"
)

// MIDIConverter renders MEI documents as Standard MIDI Files
type MIDIConverter struct {
	ticksPerQuarter uint16
	tempo           float64
	velocity        uint8
}

// MIDISummary describes a Standard MIDI File
type MIDISummary struct {
	Tracks          int
	Notes           int
	TicksPerQuarter uint16
	Tempo           float64
	Length          int64 // ticks of the longest track
}

// NewMIDIConverter creates a new MIDI converter
func NewMIDIConverter() *MIDIConverter {
	return &MIDIConverter{
		ticksPerQuarter: 480,
		tempo:           120.0,
		velocity:        96,
	}
}

// pitch class offsets of the diatonic steps from C
var stepSemitones = map[string]int{
	"c": 0, "d": 2, "e": 4, "f": 5, "g": 7, "a": 9, "b": 11,
}

// MIDIKey returns the MIDI key number of an MEI note; ok is false for unpitched or out of range notes
func MIDIKey(n *mei.Note) (uint8, bool) {
	step, found := stepSemitones[n.PName]
	if !found || n.Oct == nil {
		return 0, false
	}
	key := (*n.Oct+1)*12 + step + n.AccidGes.Semitones()
	if key < 0 || key > 127 {
		return 0, false
	}
	return uint8(key), true
}

type noteEvent struct {
	tick uint32
	key  uint8
	on   bool
}

// GenerateMIDI renders the first movement of an MEI document, one track per staff
func (m *MIDIConverter) GenerateMIDI(doc *mei.Mei) ([]byte, error) {
	if doc == nil {
		return nil, errors.New("nil document")
	}

	defs := staffDefs(doc)
	if len(defs) == 0 {
		return nil, errors.New("document has no staves")
	}

	s := smf.New()
	s.TimeFormat = smf.MetricTicks(m.ticksPerQuarter)

	// Conductor track: tempo and time signature
	var conductor smf.Track
	microsecondsPerBeat := tempoMicroseconds(m.documentTempo(doc))
	conductor.Add(0, smf.Message([]byte{
		0xFF, 0x51, 0x03,
		byte(microsecondsPerBeat >> 16),
		byte(microsecondsPerBeat >> 8),
		byte(microsecondsPerBeat),
	}))
	conductor.Close(0)
	if err := s.Add(conductor); err != nil {
		return nil, fmt.Errorf("failed to add track: %w", err)
	}

	events := m.staffEvents(doc, defs)
	for i, def := range defs {
		track := m.buildTrack(def, channelFor(i), events[def.N])
		if err := s.Add(track); err != nil {
			return nil, fmt.Errorf("failed to add track: %w", err)
		}
	}

	var buf bytes.Buffer
	if _, err := s.WriteTo(&buf); err != nil {
		return nil, fmt.Errorf("failed to write MIDI: %w", err)
	}
	return buf.Bytes(), nil
}

// maxMetaText keeps the track-name length within a single-byte variable length quantity
const maxMetaText = 127

// maxTempo is the largest value of the 24-bit tempo meta field
const maxTempo = 0xFFFFFF

// tempoMicroseconds converts beats per minute to the tempo meta value, clamped to 24 bits
func tempoMicroseconds(bpm float64) uint32 {
	if bpm <= 0 {
		return maxTempo
	}
	us := 60000000.0 / bpm
	switch {
	case us >= maxTempo:
		return maxTempo
	case us < 1:
		return 1
	}
	return uint32(us)
}

// truncateName cuts name to at most n bytes without splitting a UTF-8 sequence
func truncateName(name string, n int) string {
	if len(name) <= n {
		return name
	}
	cut := n
	for cut > 0 && !utf8.RuneStart(name[cut]) {
		cut--
	}
	return name[:cut]
}

// channelFor spreads staves over the melodic channels, skipping the percussion channel 10
func channelFor(i int) uint8 {
	ch := uint8(i % 15)
	if ch >= 9 {
		ch++
	}
	return ch
}

func (m *MIDIConverter) buildTrack(def *mei.StaffDef, channel uint8, events []noteEvent) smf.Track {
	var track smf.Track

	name := def.Label
	if name == "" {
		name = fmt.Sprintf("Staff %d", def.N)
	}
	name = truncateName(name, maxMetaText)
	track.Add(0, smf.Message(append([]byte{0xFF, 0x03, byte(len(name))}, name...)))

	// note-offs sort before note-ons at the same tick so repeated keys retrigger
	sort.SliceStable(events, func(i, j int) bool {
		if events[i].tick != events[j].tick {
			return events[i].tick < events[j].tick
		}
		return !events[i].on && events[j].on
	})

	var current uint32
	for _, ev := range events {
		delta := ev.tick - current
		if ev.on {
			track.Add(delta, midi.NoteOn(channel, ev.key, m.velocity))
		} else {
			track.Add(delta, midi.NoteOff(channel, ev.key))
		}
		current = ev.tick
	}

	track.Close(0)
	return track
}

// staffEvents lays out every staff on a shared measure grid: each measure lasts as long as
// its longest staff so staves stay aligned when one of them is short or missing
func (m *MIDIConverter) staffEvents(doc *mei.Mei, defs []*mei.StaffDef) map[int][]noteEvent {
	ppq := make(map[int]float64, len(defs))
	for _, d := range defs {
		ppq[d.N] = d.PPQ
	}

	events := make(map[int][]noteEvent)
	var measureStart uint32
	for _, section := range doc.Sections() {
		for _, measure := range section.Measures {
			var longest uint32
			for _, staff := range measure.Staves {
				for _, layer := range staff.Layers {
					evs, length := m.layerEvents(layer, measureStart, ppq[staff.N])
					events[staff.N] = append(events[staff.N], evs...)
					if length > longest {
						longest = length
					}
				}
			}
			measureStart += longest
		}
	}
	return events
}

func (m *MIDIConverter) layerEvents(layer *mei.Layer, start uint32, ppq float64) ([]noteEvent, uint32) {
	var events []noteEvent
	pos := start

	sound := func(n *mei.Note, length uint32) {
		key, ok := MIDIKey(n)
		if !ok || length == 0 {
			return
		}
		events = append(events,
			noteEvent{tick: pos, key: key, on: true},
			noteEvent{tick: pos + length, key: key},
		)
	}

	for _, e := range layer.Elements {
		switch e := e.(type) {
		case *mei.Note:
			if e.Grace != mei.GraceNone {
				continue
			}
			length := m.ticks(e.Dur, e.Dots, e.DurPPQ, ppq)
			sound(e, length)
			pos += length
		case *mei.Chord:
			if e.Grace != mei.GraceNone {
				continue
			}
			length := m.ticks(e.Dur, e.Dots, e.DurPPQ, ppq)
			for _, n := range e.Notes {
				sound(n, length)
			}
			pos += length
		case *mei.Rest:
			pos += m.ticks(e.Dur, e.Dots, e.DurPPQ, ppq)
		case *mei.MRest:
			pos += m.ticks(mei.DurationNone, 0, e.DurPPQ, ppq)
		}
	}
	return events, pos - start
}

// ticks converts a written duration to MIDI ticks, falling back to the gestural duration
// scaled by the staff's divisions per quarter
func (m *MIDIConverter) ticks(dur mei.Duration, dots int, durPPQ *float64, ppq float64) uint32 {
	tpq := float64(m.ticksPerQuarter)
	if q := dur.Quarters(); q > 0 {
		total, add := q, q
		for i := 0; i < dots; i++ {
			add /= 2
			total += add
		}
		return uint32(total*tpq + 0.5)
	}
	if durPPQ != nil && ppq > 0 {
		return uint32(*durPPQ/ppq*tpq + 0.5)
	}
	return 0
}

// documentTempo returns the first metronome mark in quarter notes per minute
func (m *MIDIConverter) documentTempo(doc *mei.Mei) float64 {
	for _, section := range doc.Sections() {
		for _, measure := range section.Measures {
			for _, ce := range measure.ControlEvents {
				t, ok := ce.(*mei.Tempo)
				if !ok || t.MM == nil || *t.MM <= 0 {
					continue
				}
				bpm := *t.MM
				if q := t.MMUnit.Quarters(); q > 0 {
					unit, add := q, q
					for i := 0; i < t.MMDots; i++ {
						add /= 2
						unit += add
					}
					bpm *= unit
				}
				return bpm
			}
		}
	}
	return m.tempo
}

func staffDefs(doc *mei.Mei) []*mei.StaffDef {
	sd := doc.ScoreDef()
	if sd == nil || sd.StaffGrp == nil {
		return nil
	}
	return sd.StaffGrp.StaffDefs()
}

// ParseMIDI summarizes MIDI data: tracks, sounding notes, resolution and tempo
func (m *MIDIConverter) ParseMIDI(data []byte) (*MIDISummary, error) {
	s, err := smf.ReadFrom(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("failed to parse MIDI: %w", err)
	}

	summary := &MIDISummary{Tracks: len(s.Tracks), Tempo: m.tempo}
	if mt, ok := s.TimeFormat.(smf.MetricTicks); ok {
		summary.TicksPerQuarter = mt.Resolution()
	}

	tempoSeen := false
	for _, track := range s.Tracks {
		var tick int64
		for _, ev := range track {
			tick += int64(ev.Delta)
			msg := ev.Message

			// Tempo meta message (FF 51 03 ...)
			if !tempoSeen && len(msg) >= 6 && msg[0] == 0xFF && msg[1] == 0x51 && msg[2] == 0x03 {
				microsecondsPerBeat := uint32(msg[3])<<16 | uint32(msg[4])<<8 | uint32(msg[5])
				if microsecondsPerBeat > 0 {
					summary.Tempo = 60000000.0 / float64(microsecondsPerBeat)
					tempoSeen = true
				}
			}

			// Note On (0x90-0x9F) with non-zero velocity
			if len(msg) >= 3 && msg[0] >= 0x90 && msg[0] <= 0x9F && msg[2] > 0 {
				summary.Notes++
			}
		}
		if tick > summary.Length {
			summary.Length = tick
		}
	}
	return summary, nil
}
