package openapi

import (
	"embed"
	"errors"
	"fmt"
	"os"
)

//go:embed spec/cats.yaml
var embeddedSpec embed.FS

const embeddedSpecPath = "spec/cats.yaml"

// SourceKind enumerates where a document was read from.
type SourceKind string

const (
	SourceKindEmbedded SourceKind = "embedded"
	SourceKindFile     SourceKind = "file"
	SourceKindBytes    SourceKind = "bytes"
)

// Document wraps the raw OpenAPI payload and its origin so kin-openapi types
// stay out of the public API.
type Document struct {
	kind     SourceKind
	location string
	raw      []byte
}

// NewDocument constructs a Document from an in-memory payload.
func NewDocument(location string, raw []byte) (Document, error) {
	if len(raw) == 0 {
		return Document{}, errors.New("openapi: raw document is empty")
	}
	return Document{
		kind:     SourceKindBytes,
		location: location,
		raw:      append([]byte(nil), raw...),
	}, nil
}

// DefaultDocument returns the embedded cats document.
func DefaultDocument() (Document, error) {
	raw, err := embeddedSpec.ReadFile(embeddedSpecPath)
	if err != nil {
		return Document{}, fmt.Errorf("openapi: read embedded document: %w", err)
	}
	return Document{kind: SourceKindEmbedded, location: embeddedSpecPath, raw: raw}, nil
}

// DocumentFromFile reads a document from disk.
func DocumentFromFile(path string) (Document, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return Document{}, fmt.Errorf("openapi: read %s: %w", path, err)
	}
	if len(raw) == 0 {
		return Document{}, fmt.Errorf("openapi: %s is empty", path)
	}
	return Document{kind: SourceKindFile, location: path, raw: raw}, nil
}

// Kind reports the document origin.
func (d Document) Kind() SourceKind { return d.kind }

// Location returns the path or name the document was read from.
func (d Document) Location() string { return d.location }

// Raw returns a defensive copy of the payload.
func (d Document) Raw() []byte {
	return append([]byte(nil), d.raw...)
}
