package musicxml

import (
	"archive/zip"
	"bytes"
	"fmt"
	"path"
	"strings"

	"github.com/antchfx/xmlquery"
	"github.com/antchfx/xpath"
)

const containerManifest = "META-INF/container.xml"

var rootfileExpr = xpath.MustCompile("//rootfile")

// IsContainer reports whether data looks like a compressed .mxl archive
func IsContainer(data []byte) bool {
	return len(data) >= 4 && bytes.Equal(data[:4], []byte("PK\x03\x04"))
}

// ReadContainer parses the root score of a compressed .mxl archive
func ReadContainer(data []byte) (*Score, error) {
	zr, err := zip.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return nil, &ParseError{Message: "invalid .mxl archive", Err: err}
	}

	name, err := rootfileName(zr)
	if err != nil {
		return nil, err
	}

	f, err := zr.Open(name)
	if err != nil {
		return nil, &ParseError{Path: name, Message: "rootfile missing from archive", Err: err}
	}
	defer func() { _ = f.Close() }()

	return Parse(f)
}

// rootfileName resolves the score entry from the container manifest, falling back
// to the first top-level XML entry for archives without one
func rootfileName(zr *zip.Reader) (string, error) {
	for _, f := range zr.File {
		if f.Name != containerManifest {
			continue
		}
		rc, err := f.Open()
		if err != nil {
			return "", &ParseError{Path: containerManifest, Message: "unreadable manifest", Err: err}
		}
		defer func() { _ = rc.Close() }()

		doc, err := xmlquery.Parse(rc)
		if err != nil {
			return "", &ParseError{Path: containerManifest, Message: "malformed manifest", Err: err}
		}
		if rf := xmlquery.QuerySelector(doc, rootfileExpr); rf != nil {
			if name := strings.TrimSpace(rf.SelectAttr("full-path")); name != "" {
				return name, nil
			}
		}
		return "", &ParseError{Path: containerManifest, Message: "no rootfile declared"}
	}

	for _, f := range zr.File {
		if strings.Contains(f.Name, "/") {
			continue
		}
		switch strings.ToLower(path.Ext(f.Name)) {
		case ".xml", ".musicxml":
			return f.Name, nil
		}
	}
	return "", &ParseError{Message: fmt.Sprintf("no score found among %d archive entries", len(zr.File))}
}
