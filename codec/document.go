/*
 * Copyright © 2025 Suparena Software Inc., All rights reserved.
 */

package codec

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"gopkg.in/yaml.v3"
)

// Format selects the encoding of an export document.
type Format string

const (
	FormatJSON Format = "json"
	FormatYAML Format = "yaml"
)

// ParseFormat accepts "json", "yaml" or "yml" in any case. The empty string
// selects JSON.
func ParseFormat(s string) (Format, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "json":
		return FormatJSON, nil
	case "yaml", "yml":
		return FormatYAML, nil
	default:
		return "", fmt.Errorf("unsupported format: %s", s)
	}
}

// Document is the bulk export of every record of one data set. Records hold
// boundary JSON, one entry per key, in ascending key order.
type Document struct {
	Store   string            `json:"store"`
	Records []json.RawMessage `json:"records"`
}

// WriteDocument encodes doc to w.
func WriteDocument(w io.Writer, format Format, doc Document) error {
	if doc.Records == nil {
		doc.Records = []json.RawMessage{}
	}

	switch format {
	case FormatJSON, "":
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		if err := enc.Encode(doc); err != nil {
			return fmt.Errorf("write json document: %w", err)
		}
		return nil

	case FormatYAML:
		// YAML goes through the generic JSON form so field names stay identical.
		data, err := json.Marshal(doc)
		if err != nil {
			return fmt.Errorf("write yaml document: %w", err)
		}
		var generic map[string]any
		if err := json.Unmarshal(data, &generic); err != nil {
			return fmt.Errorf("write yaml document: %w", err)
		}
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(generic); err != nil {
			return fmt.Errorf("write yaml document: %w", err)
		}
		return enc.Close()

	default:
		return fmt.Errorf("unsupported format: %s", format)
	}
}

// ReadDocument decodes a document written by WriteDocument. Each record is
// returned as JSON regardless of the source format.
func ReadDocument(r io.Reader, format Format) (Document, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return Document{}, fmt.Errorf("read document: %w", err)
	}

	switch format {
	case FormatJSON, "":
		var doc Document
		if err := json.Unmarshal(data, &doc); err != nil {
			return Document{}, fmt.Errorf("parse json document: %w", err)
		}
		return doc, nil

	case FormatYAML:
		var generic struct {
			Store   string `yaml:"store"`
			Records []any  `yaml:"records"`
		}
		if err := yaml.Unmarshal(data, &generic); err != nil {
			return Document{}, fmt.Errorf("parse yaml document: %w", err)
		}

		doc := Document{Store: generic.Store, Records: make([]json.RawMessage, 0, len(generic.Records))}
		for i, rec := range generic.Records {
			raw, err := json.Marshal(rec)
			if err != nil {
				return Document{}, fmt.Errorf("convert yaml record %d: %w", i, err)
			}
			doc.Records = append(doc.Records, raw)
		}
		return doc, nil

	default:
		return Document{}, fmt.Errorf("unsupported format: %s", format)
	}
}
