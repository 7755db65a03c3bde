package io

import (
	"path/filepath"
	"strings"

	errs "github.com/matzehuels/treemenu/pkg/errors"
	"github.com/matzehuels/treemenu/pkg/menu"
)

// Format is a tree file encoding.
type Format string

// Supported formats.
const (
	FormatJSON Format = "json"
	FormatYAML Format = "yaml"
	FormatTOML Format = "toml"
)

// Document is the content of a tree file.
type Document struct {
	ID    int64     `json:"id,omitempty" yaml:"id,omitempty" toml:"id,omitempty"`
	Slug  string    `json:"slug,omitempty" yaml:"slug,omitempty" toml:"slug,omitempty"`
	Title string    `json:"title,omitempty" yaml:"title,omitempty" toml:"title,omitempty"`
	Items menu.Tree `json:"items" yaml:"items" toml:"items"`
}

// Validate checks the document's identifiers.
func (d *Document) Validate() error {
	if d.ID < 0 {
		return errs.New(errs.ErrCodeInvalidInput, "menu id must not be negative, got %d", d.ID)
	}
	if d.Slug != "" {
		if err := errs.ValidateSlug(d.Slug); err != nil {
			return err
		}
	}
	return nil
}

// FormatFromPath returns the format matching the file extension of path.
func FormatFromPath(path string) (Format, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".json":
		return FormatJSON, nil
	case ".yaml", ".yml":
		return FormatYAML, nil
	case ".toml":
		return FormatTOML, nil
	}
	return "", errs.New(errs.ErrCodeUnsupported, "unsupported tree file %q (want .json, .yaml, .yml or .toml)", path)
}
