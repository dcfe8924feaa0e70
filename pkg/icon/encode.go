package icon

import (
	"bytes"
	"encoding/json"
	"fmt"
)

// Encode serializes the document as indented JSON. HTML escaping is disabled
// so the SVG markup stays readable in the file.
func Encode(doc *ExportDocument) ([]byte, error) {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", "  ")
	if err := enc.Encode(doc); err != nil {
		return nil, fmt.Errorf("encoding export document: %w", err)
	}
	return buf.Bytes(), nil
}

// Decode parses a document written by Encode.
func Decode(data []byte) (*ExportDocument, error) {
	var doc ExportDocument
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("decoding export document: %w", err)
	}
	return &doc, nil
}
