package files

import (
	"encoding/base64"
	"errors"
	"fmt"
	"strings"
)

// Category is the folder a file is filed under.
type Category string

const (
	Work     Category = "Work"
	Personal Category = "Personal"
	Projects Category = "Projects"
	Archive  Category = "Archive"
)

// Categories lists every category in display order.
var Categories = []Category{Work, Personal, Projects, Archive}

// ParseCategory validates s as a Category. Matching is case-insensitive.
func ParseCategory(s string) (Category, error) {
	for _, c := range Categories {
		if strings.EqualFold(string(c), s) {
			return c, nil
		}
	}
	return "", fmt.Errorf("invalid category %q (want Work, Personal, Projects or Archive)", s)
}

// DefaultInlineLimit is the size below which a file's bytes are kept inline.
const DefaultInlineLimit = 1 << 20

var (
	// ErrNoPayload is returned when a file was stored without its bytes.
	ErrNoPayload = errors.New("file has no stored payload")

	// ErrBadPayload is returned when a stored payload is not a base64 data URL.
	ErrBadPayload = errors.New("malformed payload")
)

// FileItem is one entry in the vault.
type FileItem struct {
	ID         string   `json:"id" validate:"required"`
	Name       string   `json:"name" validate:"notblank"`
	Size       int64    `json:"size" validate:"gte=0"`
	Type       string   `json:"type"`
	Category   Category `json:"category" validate:"oneof=Work Personal Projects Archive"`
	UploadedAt int64    `json:"uploadedAt"`
	// Data is a base64 data URL, present only for files under the inline limit.
	Data string `json:"data,omitempty"`
	// Preview is a short text excerpt for PDFs and text files.
	Preview string `json:"preview,omitempty"`
}

func (f FileItem) RecordID() string { return f.ID }

// HasPayload reports whether the file's bytes are stored.
func (f FileItem) HasPayload() bool { return f.Data != "" }

// Payload decodes the stored bytes.
func (f FileItem) Payload() ([]byte, error) {
	if !f.HasPayload() {
		return nil, ErrNoPayload
	}
	return DecodeDataURL(f.Data)
}

// EncodeDataURL renders data as a base64 data URL with the given media type.
func EncodeDataURL(mediaType string, data []byte) string {
	if mediaType == "" {
		mediaType = "application/octet-stream"
	}
	return "data:" + mediaType + ";base64," + base64.StdEncoding.EncodeToString(data)
}

// DecodeDataURL returns the bytes of a base64 data URL.
func DecodeDataURL(s string) ([]byte, error) {
	rest, ok := strings.CutPrefix(s, "data:")
	if !ok {
		return nil, fmt.Errorf("%w: missing data: scheme", ErrBadPayload)
	}
	_, encoded, ok := strings.Cut(rest, ";base64,")
	if !ok {
		return nil, fmt.Errorf("%w: not base64 encoded", ErrBadPayload)
	}
	b, err := base64.StdEncoding.DecodeString(encoded)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrBadPayload, err)
	}
	return b, nil
}
