package analytics

import (
	"bytes"
	"errors"
	"fmt"
	"path/filepath"
	"strings"
	"unicode/utf8"

	"golang.org/x/text/encoding/charmap"
	"golang.org/x/text/transform"
)

// ErrUnknownFormat is returned when an artifact is not text at all. A text
// artifact without the expected header is not an error; it parses to an
// empty question list.
var ErrUnknownFormat = errors.New("analytics: unrecognized export format")

var utf8BOM = []byte{0xEF, 0xBB, 0xBF}

// Load parses an analytics export, choosing the encoding from the file name
// and falling back to content sniffing.
func Load(name string, data []byte) (*Export, error) {
	data = bytes.TrimPrefix(data, utf8BOM)
	if bytes.IndexByte(data, 0) >= 0 {
		return nil, fmt.Errorf("%s: %w", name, ErrUnknownFormat)
	}

	text, err := DecodeText(data)
	if err != nil {
		return nil, err
	}

	if isMarkup(name, data) {
		qs, err := ParseMarkup([]byte(text))
		if err != nil {
			return nil, err
		}
		return &Export{Format: FormatMarkup, Questions: qs}, nil
	}

	rows, err := ReadRows(text)
	if err != nil {
		return nil, err
	}
	return &Export{Format: FormatFlat, Questions: ParseFlat(rows)}, nil
}

func isMarkup(name string, data []byte) bool {
	switch strings.ToLower(filepath.Ext(name)) {
	case ".html", ".htm", ".xhtml":
		return true
	case ".csv", ".tsv", ".txt":
		return false
	}
	head := data
	if len(head) > 1024 {
		head = head[:1024]
	}
	lower := bytes.ToLower(bytes.TrimSpace(head))
	return bytes.HasPrefix(lower, []byte("<!doctype html")) ||
		bytes.HasPrefix(lower, []byte("<html")) ||
		bytes.Contains(lower, []byte("<table"))
}

// DecodeText returns data as UTF-8, treating input that is not valid UTF-8
// as Windows-1251.
func DecodeText(data []byte) (string, error) {
	if utf8.Valid(data) {
		return string(data), nil
	}
	out, _, err := transform.Bytes(charmap.Windows1251.NewDecoder(), data)
	if err != nil {
		return "", fmt.Errorf("decode windows-1251: %w", err)
	}
	return string(out), nil
}
