package extract

import (
	"archive/zip"
	"bytes"
	"encoding/xml"
	"errors"
	"fmt"
	"io"
	"strings"
)

const docxBody = "word/document.xml"

// maxDocumentXML bounds how much of word/document.xml is decompressed.
const maxDocumentXML = 32 << 20

// DOCX returns the paragraph text of a Word document, one paragraph per
// line.
func DOCX(data []byte) (string, error) {
	zr, err := zip.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return "", fmt.Errorf("%w: docx: %v", ErrNoText, err)
	}

	f, err := zr.Open(docxBody)
	if err != nil {
		return "", fmt.Errorf("%w: docx: %v", ErrNoText, err)
	}
	defer f.Close()

	return docxParagraphs(io.LimitReader(f, maxDocumentXML))
}

// docxParagraphs walks WordprocessingML, collecting <w:t> runs and
// breaking lines at </w:p>. Tabs and breaks inside a paragraph become
// whitespace.
func docxParagraphs(r io.Reader) (string, error) {
	dec := xml.NewDecoder(r)

	var (
		out    strings.Builder
		para   strings.Builder
		inText bool
	)
	flush := func() {
		if s := strings.TrimSpace(para.String()); s != "" {
			if out.Len() > 0 {
				out.WriteByte('\n')
			}
			out.WriteString(s)
		}
		para.Reset()
	}

	for {
		tok, err := dec.Token()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return "", fmt.Errorf("%w: docx: %v", ErrNoText, err)
		}

		switch t := tok.(type) {
		case xml.StartElement:
			switch t.Name.Local {
			case "t":
				inText = true
			case "tab":
				para.WriteByte('\t')
			case "br", "cr":
				para.WriteByte(' ')
			}
		case xml.EndElement:
			switch t.Name.Local {
			case "t":
				inText = false
			case "p":
				flush()
			}
		case xml.CharData:
			if inText {
				para.Write(t)
			}
		}
	}
	flush()

	return out.String(), nil
}
