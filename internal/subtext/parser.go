package subtext

import (
	"compress/gzip"
	"encoding/xml"
	"fmt"
	"io"
	"os"
	"strings"
)

// Parse reads a tokenized sentence document and returns the stream it holds.
// Files ending in .gz are transparently decompressed.
//
// The expected shape is a flat sequence of <s id="..."> elements containing
// <w> token elements and optional <time value="HH:MM:SS,mmm"/> markers. A
// running character offset across the whole document gives each sentence its
// span and each marker its position; interpolation in timesync depends on
// these offsets.
func Parse(path string) (*Stream, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open stream: %w", err)
	}
	defer f.Close()

	var reader io.Reader = f
	if strings.HasSuffix(path, ".gz") {
		gz, err := gzip.NewReader(f)
		if err != nil {
			return nil, fmt.Errorf("open gzip stream: %w", err)
		}
		defer gz.Close()
		reader = gz
	}

	stream, err := ParseReader(reader)
	if err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}
	stream.Path = path
	return stream, nil
}

// ParseReader parses a tokenized sentence document from r.
func ParseReader(r io.Reader) (*Stream, error) {
	decoder := xml.NewDecoder(r)

	stream := &Stream{Frequency: make(map[string]int)}
	var current *Sentence
	var inWord bool
	charPos := 0

	for {
		tok, err := decoder.Token()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("decode token: %w", err)
		}

		switch elem := tok.(type) {
		case xml.StartElement:
			switch elem.Name.Local {
			case "s":
				current = &Sentence{
					ID:       attrValue(elem, "id"),
					Index:    len(stream.Sentences),
					StartPos: charPos,
				}
				if current.ID == "" {
					return nil, fmt.Errorf("sentence %d missing id attribute", current.Index)
				}
			case "w":
				inWord = current != nil
			case "time":
				if current == nil {
					continue
				}
				value := attrValue(elem, "value")
				seconds, err := ParseTimestamp(value)
				if err != nil {
					return nil, fmt.Errorf("sentence %s: %w", current.ID, err)
				}
				marker := &Marker{Time: seconds, Pos: charPos}
				// The earliest marker is the sentence's first; any later
				// marker supersedes the last.
				if current.First == nil {
					current.First = marker
				} else {
					current.Last = marker
				}
			}
		case xml.EndElement:
			switch elem.Name.Local {
			case "s":
				if current != nil {
					current.EndPos = charPos
					stream.Sentences = append(stream.Sentences, current)
					current = nil
				}
			case "w":
				inWord = false
			}
		case xml.CharData:
			if !inWord || current == nil {
				continue
			}
			word := strings.TrimSpace(string(elem))
			if word == "" {
				continue
			}
			current.Tokens = append(current.Tokens, word)
			stream.Frequency[strings.ToLower(word)]++
			charPos += len(word) + 1
		}
	}

	if len(stream.Sentences) == 0 {
		return nil, fmt.Errorf("no sentences found")
	}
	return stream, nil
}

func attrValue(elem xml.StartElement, name string) string {
	for _, attr := range elem.Attr {
		if attr.Name.Local == name {
			return strings.TrimSpace(attr.Value)
		}
	}
	return ""
}
