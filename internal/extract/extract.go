// Package extract pulls plain text out of uploaded documents: PDF, DOCX
// and plain text. Extraction never panics; unreadable input is reported
// as ErrNoText or ErrUnsupported.
package extract

import (
	"errors"
	"fmt"
	"log/slog"
	"mime"
	"strings"
	"unicode/utf8"

	"github.com/gabriel-vasile/mimetype"
)

// Document MIME types.
const (
	MIMEPDF   = "application/pdf"
	MIMEDOCX  = "application/vnd.openxmlformats-officedocument.wordprocessingml.document"
	MIMEText  = "text/plain"
	mimeOctet = "application/octet-stream"
)

var (
	// ErrNoText means the document was readable but held no text, or
	// could not be read at all.
	ErrNoText = errors.New("no text found in document")

	// ErrUnsupported means the document type is not one we extract.
	ErrUnsupported = errors.New("unsupported document type")
)

// Detect sniffs the MIME type of data, without parameters.
func Detect(data []byte) string {
	m := mimetype.Detect(data)
	switch {
	case m.Is(MIMEPDF):
		return MIMEPDF
	case m.Is(MIMEDOCX):
		return MIMEDOCX
	}
	for p := m; p != nil; p = p.Parent() {
		if p.Is(MIMEText) {
			return MIMEText
		}
	}
	return baseType(m.String())
}

// Document extracts text from data. declared is the MIME type the
// uploader claimed; when it is empty or generic the type is sniffed.
func Document(data []byte, declared string) (string, error) {
	kind := baseType(declared)
	if kind == "" || kind == mimeOctet {
		kind = Detect(data)
	}

	var (
		text string
		err  error
	)
	switch {
	case kind == MIMEPDF:
		text, err = PDF(data)
	case kind == MIMEDOCX:
		text, err = DOCX(data)
	case strings.HasPrefix(kind, "text/"):
		text, err = Plain(data)
	default:
		return "", fmt.Errorf("%w: %s", ErrUnsupported, kind)
	}
	if err != nil {
		return "", err
	}

	text = strings.TrimSpace(text)
	if text == "" {
		return "", ErrNoText
	}
	return text, nil
}

// Text is Document with the failure folded into ok.
func Text(data []byte, declared string) (string, bool) {
	text, err := Document(data, declared)
	if err != nil {
		slog.Debug("text extraction failed", "mime", declared, "size", len(data), "error", err)
		return "", false
	}
	return text, true
}

// Plain returns data as text. It must be valid UTF-8.
func Plain(data []byte) (string, error) {
	if !utf8.Valid(data) {
		return "", fmt.Errorf("%w: text is not valid UTF-8", ErrNoText)
	}
	return string(data), nil
}

func baseType(s string) string {
	s = strings.TrimSpace(s)
	if s == "" {
		return ""
	}
	mt, _, err := mime.ParseMediaType(s)
	if err != nil {
		return strings.ToLower(s)
	}
	return mt
}
