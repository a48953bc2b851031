// Package xces renders alignments as XCES cesAlign documents, the exchange
// format downstream bitext tooling consumes.
package xces

import (
	"encoding/xml"
	"fmt"
	"io"
	"strings"

	"subalign/internal/align"
)

const header = `<?xml version="1.0" encoding="utf-8"?>
<!DOCTYPE cesAlign PUBLIC "-//CES//DTD XML cesAlign//EN" "">
<cesAlign version="1.0">
`

// Write renders one link group for a document pair. Each link's xtargets
// holds the space-joined source ids and target ids separated by " ; ";
// either side may be empty for insertion and deletion links.
func Write(w io.Writer, fromDoc, toDoc string, links []align.Link) error {
	var sb strings.Builder
	sb.WriteString(header)
	sb.WriteString(fmt.Sprintf("<linkGrp targType=\"s\" fromDoc=%s toDoc=%s>\n",
		quoteAttr(fromDoc), quoteAttr(toDoc)))

	for i, link := range links {
		sb.WriteString(fmt.Sprintf("<link id=\"SL%d\" xtargets=%s />\n",
			i+1, quoteAttr(link.String())))
	}

	sb.WriteString("</linkGrp>\n</cesAlign>\n")
	if _, err := io.WriteString(w, sb.String()); err != nil {
		return fmt.Errorf("write alignment: %w", err)
	}
	return nil
}

func quoteAttr(value string) string {
	var sb strings.Builder
	if err := xml.EscapeText(&sb, []byte(value)); err != nil {
		return `"` + value + `"`
	}
	return `"` + sb.String() + `"`
}
