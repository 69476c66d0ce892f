// Package decode converts report documents from their published character
// encoding to UTF-8 before parsing.
package decode

import (
	"bytes"
	"fmt"
	"io"
	"strings"

	"github.com/saintfish/chardet"
	"golang.org/x/net/html/charset"
	"golang.org/x/text/encoding/charmap"
)

// Encoding labels understood by NewReader besides any WHATWG label
const (
	Latin1 = "latin-1"
	UTF8   = "utf-8"
	Auto   = "auto"
)

// isLatin1 reports whether label names ISO-8859-1 itself. The WHATWG table
// maps these labels to windows-1252, which reads 0x80-0x9F as punctuation
// instead of the C1 control characters.
func isLatin1(label string) bool {
	switch strings.ToLower(label) {
	case Latin1, "latin1", "iso-8859-1", "iso8859-1", "iso_8859-1", "l1":
		return true
	}
	return false
}

// fromLabel wraps r in a decoder for label
func fromLabel(r io.Reader, label string) (io.Reader, error) {
	if isLatin1(label) {
		return charmap.ISO8859_1.NewDecoder().Reader(r), nil
	}
	return charset.NewReaderLabel(label, r)
}

// DetectCharset detects and returns the charset label of data, falling back to UTF-8
func DetectCharset(data []byte) string {
	detector := chardet.NewTextDetector()
	result, err := detector.DetectBest(data)
	if err != nil || result == nil {
		return UTF8
	}
	return strings.ToLower(result.Charset)
}

// NewReader returns a reader that yields the contents of r as UTF-8.
// label names the source encoding; Auto reads r completely and detects it.
func NewReader(r io.Reader, label string) (io.Reader, error) {
	label = strings.TrimSpace(label)
	if label == "" {
		label = UTF8
	}

	if strings.EqualFold(label, Auto) {
		data, err := io.ReadAll(r)
		if err != nil {
			return nil, fmt.Errorf("reading input: %w", err)
		}
		detected := DetectCharset(data)
		utf8Reader, err := fromLabel(bytes.NewReader(data), detected)
		if err != nil {
			// chardet knows charsets the WHATWG table does not
			return bytes.NewReader(data), nil
		}
		return utf8Reader, nil
	}

	utf8Reader, err := fromLabel(r, label)
	if err != nil {
		return nil, fmt.Errorf("unsupported encoding %q: %w", label, err)
	}
	return utf8Reader, nil
}
