// Package extract turns uploaded files into the plain text the analyzer
// consumes. It is a pre-processing collaborator: everything downstream only
// ever sees text.
package extract

import (
	"bytes"
	"errors"
	"fmt"
	"path/filepath"
	"regexp"
	"strings"
	"unicode/utf8"

	"github.com/PuerkitoBio/goquery"
)

var (
	// ErrUnsupportedFormat reports a file extension this build cannot parse.
	ErrUnsupportedFormat = errors.New("unsupported file format")
	// ErrEmptyFile reports an upload with no usable content.
	ErrEmptyFile = errors.New("empty file")
)

var whitespacePattern = regexp.MustCompile(`\s+`)

// FromFile extracts plain text from an uploaded file based on its extension.
// Supported: .txt, .html, .htm. Binary formats (.pdf, .docx, .doc) need an
// external converter and are reported as unsupported.
func FromFile(filename string, content []byte) (string, error) {
	if len(content) == 0 {
		return "", ErrEmptyFile
	}

	switch strings.ToLower(filepath.Ext(filename)) {
	case ".txt":
		return fromText(content)
	case ".html", ".htm":
		return fromHTML(content)
	case ".pdf", ".docx", ".doc":
		return "", fmt.Errorf("%w: %s files are not supported, convert to .txt or paste the text directly", ErrUnsupportedFormat, filepath.Ext(filename))
	default:
		return "", fmt.Errorf("%w: %s (supported: .txt, .html)", ErrUnsupportedFormat, filepath.Ext(filename))
	}
}

func fromText(content []byte) (string, error) {
	var text string
	if utf8.Valid(content) {
		text = string(content)
	} else {
		text = decodeLatin1(content)
	}

	text = strings.TrimSpace(text)
	if text == "" {
		return "", ErrEmptyFile
	}
	return text, nil
}

func fromHTML(content []byte) (string, error) {
	doc, err := goquery.NewDocumentFromReader(bytes.NewReader(content))
	if err != nil {
		return "", fmt.Errorf("failed to parse HTML: %w", err)
	}

	doc.Find("script, style, nav, footer, header, aside").Each(func(i int, s *goquery.Selection) {
		s.Remove()
	})

	text := doc.Find("body").Text()
	if text == "" {
		text = doc.Text()
	}
	text = whitespacePattern.ReplaceAllString(text, " ")
	text = strings.TrimSpace(text)
	if text == "" {
		return "", ErrEmptyFile
	}
	return text, nil
}

// Title recovers a display name from HTML content, for uploads without a
// useful filename.
func Title(content []byte) string {
	doc, err := goquery.NewDocumentFromReader(bytes.NewReader(content))
	if err != nil {
		return ""
	}

	title := strings.TrimSpace(doc.Find("title").First().Text())
	if title == "" {
		title = strings.TrimSpace(doc.Find("h1").First().Text())
	}
	return title
}

// decodeLatin1 maps each byte onto the matching rune. Text files that are
// not valid UTF-8 are read as latin-1 rather than rejected.
func decodeLatin1(content []byte) string {
	runes := make([]rune, len(content))
	for i, b := range content {
		runes[i] = rune(b)
	}
	return string(runes)
}
