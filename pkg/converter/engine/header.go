package engine

import (
	"github.com/james-see/mxl2mei/pkg/mei"
	"github.com/james-see/mxl2mei/pkg/musicxml"
)

// UntitledTitle is used when the score names neither work nor movement
const UntitledTitle = "Untitled"

// ApplicationName is recorded in the encoding description of every document
const ApplicationName = "mxl2mei MusicXML to MEI converter"

// ConvertHeader builds the MEI header: title statement and application info
func ConvertHeader(score *musicxml.Score, ctx *Context) *mei.MeiHead {
	return &mei.MeiHead{
		FileDesc: mei.FileDesc{Title: Title(score)},
		EncodingDesc: &mei.EncodingDesc{
			Applications: []mei.Application{{
				ID:   ctx.IDPrefix(),
				Name: ApplicationName,
			}},
		},
	}
}

// Title picks the work title, then the movement title, then UntitledTitle
func Title(score *musicxml.Score) string {
	if score.Work != nil && score.Work.Title != "" {
		return score.Work.Title
	}
	if score.MovementTitle != "" {
		return score.MovementTitle
	}
	return UntitledTitle
}
