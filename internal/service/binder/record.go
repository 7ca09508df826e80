package binder

import (
	"encoding/json"
	"fmt"
	"strings"

	"gopkg.in/yaml.v3"

	"inkwell/internal/domain"
	models "inkwell/internal/domain/models/binder"
)

// Format is an import/export encoding.
type Format string

const (
	FormatJSON Format = "json"
	FormatYAML Format = "yaml"
)

// ParseFormat accepts a format name or file extension; "" means JSON.
func ParseFormat(s string) (Format, error) {
	switch strings.ToLower(strings.TrimPrefix(strings.TrimSpace(s), ".")) {
	case "", "json":
		return FormatJSON, nil
	case "yaml", "yml":
		return FormatYAML, nil
	}
	return "", &domain.ValidationError{Message: fmt.Sprintf("unsupported format %q", s)}
}

// ContentType returns the MIME type of the format.
func (f Format) ContentType() string {
	if f == FormatYAML {
		return "application/yaml"
	}
	return "application/json"
}

// EncodeRecord serializes a project record.
func EncodeRecord(rec *models.ProjectRecord, f Format) ([]byte, error) {
	var (
		data []byte
		err  error
	)
	switch f {
	case FormatYAML:
		data, err = yaml.Marshal(rec)
	default:
		data, err = json.MarshalIndent(rec, "", "  ")
	}
	if err != nil {
		return nil, fmt.Errorf("encode project record: %w", err)
	}
	return data, nil
}

// DecodeRecord parses a project record. Syntax errors wrap
// domain.ErrMalformedBundle; content checks happen on import.
func DecodeRecord(data []byte, f Format) (*models.ProjectRecord, error) {
	var rec models.ProjectRecord
	var err error
	switch f {
	case FormatYAML:
		err = yaml.Unmarshal(data, &rec)
	default:
		err = json.Unmarshal(data, &rec)
	}
	if err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrMalformedBundle, err)
	}
	return &rec, nil
}
