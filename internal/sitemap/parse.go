// Package sitemap downloads sitemap documents, extracts their page URLs and
// samples bounded subsets of them.
package sitemap

import (
	"bytes"
	"encoding/xml"
	"errors"
	"fmt"
	"io"
	"strings"

	"golang.org/x/net/html/charset"
)

// Namespace is the XML namespace defined by the sitemap protocol.
const Namespace = "http://www.sitemaps.org/schemas/sitemap/0.9"

// ErrEmptyDocument is returned when the body contains no root element.
var ErrEmptyDocument = errors.New("no element found")

// Parse returns the text of every namespace-qualified <loc> element in the
// document, at any depth, in document order. The whole document must be
// well-formed with exactly one root element; locs in other namespaces are
// ignored.
func Parse(r io.Reader) ([]string, error) {
	dec := xml.NewDecoder(r)
	dec.CharsetReader = charset.NewReaderLabel

	var (
		urls     []string
		depth    int
		rootDone bool
		sawRoot  bool
		inLoc    bool
		locText  strings.Builder
	)
	for {
		tok, err := dec.Token()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("decode sitemap: %w", err)
		}
		switch t := tok.(type) {
		case xml.StartElement:
			if rootDone {
				return nil, outsideRoot(dec, "junk after document element")
			}
			sawRoot = true
			depth++
			if isLoc(t.Name) {
				inLoc = true
				locText.Reset()
			}
		case xml.CharData:
			if depth == 0 {
				if len(bytes.TrimSpace(t)) == 0 {
					continue
				}
				if rootDone {
					return nil, outsideRoot(dec, "junk after document element")
				}
				return nil, outsideRoot(dec, "text before document element")
			}
			if inLoc {
				locText.Write(t)
			}
		case xml.EndElement:
			depth--
			if depth == 0 {
				rootDone = true
			}
			if inLoc && isLoc(t.Name) {
				inLoc = false
				if loc := strings.TrimSpace(locText.String()); loc != "" {
					urls = append(urls, loc)
				}
			}
		}
	}
	if !sawRoot {
		return nil, ErrEmptyDocument
	}
	return urls, nil
}

func outsideRoot(dec *xml.Decoder, msg string) error {
	line, _ := dec.InputPos()
	return fmt.Errorf("decode sitemap: %w", &xml.SyntaxError{Msg: msg, Line: line})
}

// ParseBytes is Parse over an in-memory body.
func ParseBytes(body []byte) ([]string, error) {
	return Parse(bytes.NewReader(body))
}

func isLoc(name xml.Name) bool {
	return name.Local == "loc" && name.Space == Namespace
}
