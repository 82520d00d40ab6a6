// Package unifi reads UniFi switch exports: the JSON document holding the
// expected_system_cfg property list, and the VLAN/port model derived from it.
package unifi

import (
	"encoding/json"
	"errors"
	"fmt"
)

const linesField = "expected_system_cfg"

// Document is the part of a UniFi device export the converter consumes
type Document struct {
	ExpectedSystemCfg []string `json:"expected_system_cfg"`
}

// FormatError reports input that cannot be read as a UniFi JSON export
type FormatError struct {
	Err error
}

func (e *FormatError) Error() string {
	return "invalid JSON format: " + e.Err.Error()
}

func (e *FormatError) Unwrap() error {
	return e.Err
}

func formatErrorf(format string, args ...any) error {
	return &FormatError{Err: fmt.Errorf(format, args...)}
}

// Parse accepts JSON text (string, []byte, json.RawMessage) or an already
// decoded value (map[string]any, Document) and returns the property lines.
// A missing expected_system_cfg field yields an empty document.
func Parse(input any) (*Document, error) {
	switch v := input.(type) {
	case string:
		return decode([]byte(v))
	case []byte:
		return decode(v)
	case json.RawMessage:
		return decode(v)
	case map[string]any:
		return fromMap(v)
	case Document:
		return &Document{ExpectedSystemCfg: append([]string(nil), v.ExpectedSystemCfg...)}, nil
	case *Document:
		if v == nil {
			return nil, formatErrorf("document is nil")
		}
		return &Document{ExpectedSystemCfg: append([]string(nil), v.ExpectedSystemCfg...)}, nil
	default:
		return nil, formatErrorf("unsupported input type %T", input)
	}
}

func decode(data []byte) (*Document, error) {
	var fields map[string]json.RawMessage
	if err := json.Unmarshal(data, &fields); err != nil {
		return nil, &FormatError{Err: err}
	}
	if fields == nil {
		return nil, &FormatError{Err: errors.New("top-level value must be a JSON object")}
	}

	doc := &Document{}
	raw, ok := fields[linesField]
	if !ok {
		return doc, nil
	}
	if err := json.Unmarshal(raw, &doc.ExpectedSystemCfg); err != nil {
		return nil, &FormatError{Err: fmt.Errorf("%s: %w", linesField, err)}
	}
	return doc, nil
}

func fromMap(fields map[string]any) (*Document, error) {
	doc := &Document{}
	switch lines := fields[linesField].(type) {
	case nil:
	case []string:
		doc.ExpectedSystemCfg = append([]string(nil), lines...)
	case []any:
		doc.ExpectedSystemCfg = make([]string, 0, len(lines))
		for i, item := range lines {
			line, ok := item.(string)
			if !ok {
				return nil, formatErrorf("%s[%d] is %T, expected string", linesField, i, item)
			}
			doc.ExpectedSystemCfg = append(doc.ExpectedSystemCfg, line)
		}
	default:
		return nil, formatErrorf("%s is %T, expected an array of strings", linesField, lines)
	}
	return doc, nil
}
