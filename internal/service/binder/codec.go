package binder

import (
	"encoding/json"
	"fmt"

	"inkwell/internal/domain"
	models "inkwell/internal/domain/models/binder"
)

// bundleRecord is the persisted form of a Bundle.
type bundleRecord struct {
	Version int             `json:"version"`
	Tree    models.Tree     `json:"tree"`
	Threads []models.Thread `json:"threads"`
	Notes   []models.Note   `json:"notes"`
}

// EncodeBundle serializes a bundle for the KV store.
func EncodeBundle(b models.Bundle) ([]byte, error) {
	rec := bundleRecord{
		Version: models.RecordVersion,
		Tree:    b.Tree,
		Threads: b.Threads,
		Notes:   b.Notes,
	}
	if rec.Tree == nil {
		rec.Tree = models.Tree{}
	}
	if rec.Threads == nil {
		rec.Threads = []models.Thread{}
	}
	if rec.Notes == nil {
		rec.Notes = []models.Note{}
	}
	data, err := json.Marshal(rec)
	if err != nil {
		return nil, fmt.Errorf("encode bundle: %w", err)
	}
	return data, nil
}

// DecodeBundle parses and validates a persisted bundle. Every failure wraps
// domain.ErrMalformedBundle.
func DecodeBundle(data []byte) (models.Bundle, error) {
	var rec bundleRecord
	if err := json.Unmarshal(data, &rec); err != nil {
		return models.Bundle{}, fmt.Errorf("%w: %v", domain.ErrMalformedBundle, err)
	}
	if rec.Version != models.RecordVersion {
		return models.Bundle{}, fmt.Errorf("%w: unsupported version %d", domain.ErrMalformedBundle, rec.Version)
	}
	b := models.Bundle{Tree: rec.Tree, Threads: rec.Threads, Notes: rec.Notes}
	if err := ValidateBundle(b); err != nil {
		return models.Bundle{}, fmt.Errorf("%w: %v", domain.ErrMalformedBundle, err)
	}
	return b, nil
}

// ValidateBundle checks the tree invariants and that thread ids are unique.
func ValidateBundle(b models.Bundle) error {
	if err := Validate(b.Tree); err != nil {
		return err
	}
	seen := make(map[string]struct{}, len(b.Threads))
	for _, th := range b.Threads {
		if th.ID == "" {
			return fmt.Errorf("thread %q has no id", th.Name)
		}
		if _, dup := seen[th.ID]; dup {
			return fmt.Errorf("duplicate thread id %s", th.ID)
		}
		seen[th.ID] = struct{}{}
	}
	return nil
}
