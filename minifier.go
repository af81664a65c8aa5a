package pageopt

import (
	"bytes"
	"errors"
	"mime"
	"strings"

	"github.com/aofei/mimesniffer"
	"github.com/tdewolff/minify"
	"github.com/tdewolff/minify/css"
	"github.com/tdewolff/minify/html"
	"github.com/tdewolff/minify/json"
	"github.com/tdewolff/minify/svg"
	"github.com/tdewolff/minify/xml"

	"github.com/aofei/pageopt/jsmin"
)

// minifier dispatches content to a minifier by its MIME type.
//
// Every MIME type except the JavaScript ones ("text/javascript" and
// "application/javascript") is handled by github.com/tdewolff/minify,
// lazily registered on first use. The JavaScript branches go through
// the jsmin scanner, a heuristic minifier that tracks token context so
// whitespace removal does not change what the program means.
type minifier struct {
	toolkit *Toolkit
	m       *minify.M
}

// newMinifier returns a new instance of the minifier for t.
func newMinifier(t *Toolkit) *minifier {
	return &minifier{
		toolkit: t,
		m:       minify.New(),
	}
}

// minify minifies b according to mimeType. When mimeType is empty, it
// is sniffed from b's content via mimesniffer.Sniff.
func (m *minifier) minify(mimeType string, b []byte) ([]byte, error) {
	if !m.toolkit.Config.MinifierEnabled {
		return b, nil
	}

	if mimeType == "" {
		mimeType, _, _ = mime.ParseMediaType(mimesniffer.Sniff(b))
	}

	if ss := strings.Split(mimeType, ";"); len(ss) > 1 {
		mimeType = ss[0]
	}

	if !stringSliceContains(m.toolkit.Config.MinifierMIMETypes, mimeType) {
		return b, nil
	}

	switch mimeType {
	case "text/javascript", "application/javascript":
		if m.toolkit.Config.MinifierCollapseStrings {
			return jsmin.MinifyCollapseStrings(b)
		}
		return jsmin.Minify(b)
	}

	buf := &bytes.Buffer{}
	if err := m.m.Minify(
		mimeType,
		buf,
		bytes.NewReader(b),
	); err == minify.ErrNotExist {
		switch mimeType {
		case "text/html":
			m.m.Add(mimeType, html.DefaultMinifier)
		case "text/css":
			m.m.Add(mimeType, css.DefaultMinifier)
		case "application/json":
			m.m.Add(mimeType, json.DefaultMinifier)
		case "text/xml":
			m.m.Add(mimeType, xml.DefaultMinifier)
		case "image/svg+xml":
			m.m.Add(mimeType, svg.DefaultMinifier)
		default:
			return nil, errors.New("pageopt: unsupported mime type")
		}
		return m.minify(mimeType, b)
	} else if err != nil {
		return nil, err
	}

	return buf.Bytes(), nil
}

// stringSliceContains reports whether ss contains s.
func stringSliceContains(ss []string, s string) bool {
	for _, v := range ss {
		if v == s {
			return true
		}
	}
	return false
}
