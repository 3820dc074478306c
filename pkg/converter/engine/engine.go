// Package engine converts an in-memory MusicXML score into an in-memory MEI document.
//
// The engine performs no I/O. Conversion state lives in a Context that is created per run;
// separate runs may proceed concurrently as long as each has its own Context.
package engine

import (
	"fmt"

	"github.com/james-see/mxl2mei/pkg/mei"
	"github.com/james-see/mxl2mei/pkg/musicxml"
)

// Convert converts a score using a fresh Context
func Convert(score *musicxml.Score, opts ...Option) (*mei.Mei, error) {
	return ConvertWithContext(score, NewContext(opts...))
}

// ConvertWithContext converts a score using a caller-supplied Context, which can be
// inspected afterwards for id mappings and warnings
func ConvertWithContext(score *musicxml.Score, ctx *Context) (*mei.Mei, error) {
	if score == nil {
		return nil, ErrNilScore
	}

	doc := &mei.Mei{
		MeiVersion: mei.Version,
		Head:       ConvertHeader(score, ctx),
	}

	meiScore, err := ConvertScore(score, ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to convert score: %w", err)
	}

	doc.Music = &mei.Music{
		Body: mei.Body{Mdivs: []*mei.Mdiv{{Score: meiScore}}},
	}
	return doc, nil
}

// ConvertScore builds the scoreDef and section of the single movement
func ConvertScore(score *musicxml.Score, ctx *Context) (*mei.Score, error) {
	grp := ConvertStaffGrp(score, ctx)

	section, err := ConvertSection(score, ctx)
	if err != nil {
		return nil, err
	}

	return &mei.Score{
		ScoreDef: mei.ScoreDef{StaffGrp: grp},
		Sections: []*mei.Section{section},
	}, nil
}
