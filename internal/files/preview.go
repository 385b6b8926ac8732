package files

import (
	"bytes"
	"fmt"
	"io"
	"strings"
	"unicode/utf8"

	"github.com/gabriel-vasile/mimetype"
	"github.com/ledongthuc/pdf"
	"golang.org/x/net/html"
)

// maxPreviewRunes caps the stored text excerpt.
const maxPreviewRunes = 280

// DetectType sniffs the media type of data, without parameters.
func DetectType(data []byte) string {
	return baseType(mimetype.Detect(data).String())
}

// DetectFileType sniffs the media type of the file at path.
func DetectFileType(path string) (string, error) {
	m, err := mimetype.DetectFile(path)
	if err != nil {
		return "", err
	}
	return baseType(m.String()), nil
}

func baseType(m string) string {
	t, _, _ := strings.Cut(m, ";")
	return strings.TrimSpace(t)
}

// Preview extracts a short plain-text excerpt from PDFs, HTML and text
// files. It returns "" for other types or unreadable content.
func Preview(mediaType string, data []byte) string {
	var text string
	switch {
	case mediaType == "application/pdf":
		t, err := pdfText(data)
		if err != nil {
			return ""
		}
		text = t
	case mediaType == "text/html":
		t, err := htmlText(data)
		if err != nil {
			return ""
		}
		text = t
	case strings.HasPrefix(mediaType, "text/"), mediaType == "application/json":
		if !utf8.Valid(data) {
			return ""
		}
		text = string(data)
	default:
		return ""
	}
	return excerpt(text)
}

func pdfText(data []byte) (text string, err error) {
	// The PDF reader panics on some malformed inputs.
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("reading pdf: %v", r)
		}
	}()

	r, err := pdf.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return "", fmt.Errorf("opening pdf: %w", err)
	}
	plain, err := r.GetPlainText()
	if err != nil {
		return "", fmt.Errorf("extracting pdf text: %w", err)
	}
	b, err := io.ReadAll(io.LimitReader(plain, 64*1024))
	if err != nil {
		return "", fmt.Errorf("reading pdf text: %w", err)
	}
	return string(b), nil
}

// htmlText returns the visible text of an HTML document. Script and style
// contents are skipped.
func htmlText(data []byte) (string, error) {
	doc, err := html.Parse(bytes.NewReader(data))
	if err != nil {
		return "", fmt.Errorf("parsing html: %w", err)
	}
	var sb strings.Builder
	var walk func(n *html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.ElementNode && (n.Data == "script" || n.Data == "style") {
			return
		}
		if n.Type == html.TextNode {
			sb.WriteString(n.Data)
			sb.WriteByte(' ')
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	walk(doc)
	return sb.String(), nil
}

func excerpt(s string) string {
	s = strings.Join(strings.Fields(s), " ")
	if utf8.RuneCountInString(s) <= maxPreviewRunes {
		return s
	}
	runes := []rune(s)
	return string(runes[:maxPreviewRunes])
}
