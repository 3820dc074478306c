package engine

import (
	"fmt"
	"strconv"
)

// DefaultIDPrefix is the prefix of generated element ids
const DefaultIDPrefix = "mxl2mei"

// Position is the part/measure/staff/layer currently being converted
type Position struct {
	PartID  string
	Measure string
	Staff   int
	Layer   int
}

func (p Position) String() string {
	return fmt.Sprintf("part %s, measure %s, staff %d, layer %d", p.PartID, p.Measure, p.Staff, p.Layer)
}

// WarningCode classifies a lossy degradation
type WarningCode string

const (
	WarnUnmatchedGroupStop WarningCode = "unmatched-group-stop"
	WarnUnclosedGroup      WarningCode = "unclosed-group"
	WarnAlteration         WarningCode = "alteration-out-of-range"
	WarnStem               WarningCode = "stem-collapsed"
	WarnDuration           WarningCode = "unrepresentable-duration"
	WarnMissingMeasure     WarningCode = "missing-measure"
	WarnSkippedContent     WarningCode = "skipped-content"
)

// Warning records input that was converted with loss or skipped
type Warning struct {
	Code     WarningCode
	Message  string
	Position Position
}

func (w Warning) String() string {
	return fmt.Sprintf("%s: %s (%s)", w.Code, w.Message, w.Position)
}

// Context is the mutable state of one conversion run. A Context must not be shared
// between concurrent runs.
type Context struct {
	prefix       string
	divisions    float64
	beatPosition float64
	position     Position
	idCounter    uint64
	ids          map[string]string
	reverseIDs   map[string]string
	partDivs     map[string]float64
	warnings     []Warning
}

// Option configures a Context
type Option func(*Context)

// WithIDPrefix sets the prefix of generated element ids
func WithIDPrefix(prefix string) Option {
	return func(c *Context) {
		if prefix != "" {
			c.prefix = prefix
		}
	}
}

// NewContext creates a Context with divisions 1 and an empty id map
func NewContext(opts ...Option) *Context {
	c := &Context{prefix: DefaultIDPrefix}
	for _, opt := range opts {
		opt(c)
	}
	c.Reset()
	return c
}

// Reset clears all run state; the id prefix is kept
func (c *Context) Reset() {
	c.divisions = 1
	c.beatPosition = 0
	c.position = Position{}
	c.idCounter = 0
	c.ids = make(map[string]string)
	c.reverseIDs = make(map[string]string)
	c.partDivs = make(map[string]float64)
	c.warnings = nil
}

// IDPrefix returns the prefix of generated ids
func (c *Context) IDPrefix() string { return c.prefix }

// SetDivisions sets the number of divisions per quarter note for the current part
func (c *Context) SetDivisions(v float64) {
	c.divisions = v
	if c.position.PartID != "" {
		c.partDivs[c.position.PartID] = v
	}
}

// Divisions returns the number of divisions per quarter note in effect
func (c *Context) Divisions() float64 { return c.divisions }

// AdvanceBeatPosition moves the beat position by delta divisions; delta may be negative
func (c *Context) AdvanceBeatPosition(delta float64) { c.beatPosition += delta }

// ResetBeatPosition moves the beat position to the start of the measure
func (c *Context) ResetBeatPosition() { c.beatPosition = 0 }

// BeatPosition returns the offset from the start of the measure in divisions
func (c *Context) BeatPosition() float64 { return c.beatPosition }

// SetPart makes id the current part and restores the divisions last set for it
func (c *Context) SetPart(id string) {
	c.position.PartID = id
	if v, ok := c.partDivs[id]; ok {
		c.divisions = v
	}
}

// SetMeasure records the current measure number
func (c *Context) SetMeasure(n string) { c.position.Measure = n }

// SetStaff records the current staff number
func (c *Context) SetStaff(n int) { c.position.Staff = n }

// SetLayer records the current layer number
func (c *Context) SetLayer(n int) { c.position.Layer = n }

// Position returns the current part/measure/staff/layer
func (c *Context) Position() Position { return c.position }

// GenerateIDWithSuffix returns a new run-unique id of the form "<prefix>-<kind>-<n>"
func (c *Context) GenerateIDWithSuffix(kind string) string {
	c.idCounter++
	return c.prefix + "-" + kind + "-" + strconv.FormatUint(c.idCounter, 10)
}

// MapID records that source id maps to target id. A later mapping for the same source replaces it.
func (c *Context) MapID(source, target string) {
	if old, ok := c.ids[source]; ok && c.reverseIDs[old] == source {
		delete(c.reverseIDs, old)
	}
	c.ids[source] = target
	c.reverseIDs[target] = source
}

// MEIID returns the target id recorded for a source id
func (c *Context) MEIID(source string) (string, bool) {
	id, ok := c.ids[source]
	return id, ok
}

// MusicXMLID returns the source id a target id was generated for
func (c *Context) MusicXMLID(target string) (string, bool) {
	id, ok := c.reverseIDs[target]
	return id, ok
}

// IDMap returns a copy of the source to target id map
func (c *Context) IDMap() map[string]string {
	out := make(map[string]string, len(c.ids))
	for k, v := range c.ids {
		out[k] = v
	}
	return out
}

// Warn records a lossy conversion at the current position
func (c *Context) Warn(code WarningCode, format string, args ...any) {
	c.warnings = append(c.warnings, Warning{
		Code:     code,
		Message:  fmt.Sprintf(format, args...),
		Position: c.position,
	})
}

// Warnings returns the warnings recorded so far
func (c *Context) Warnings() []Warning {
	return c.warnings
}
