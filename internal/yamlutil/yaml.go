// Package yamlutil is the one place repo2pdf touches the YAML library.
// Config files, layout blocks, preset overrides and the Pandoc defaults
// file all go through it, so they share limits and error wording.
package yamlutil

import (
	"bytes"
	"errors"
	"fmt"

	"github.com/goccy/go-yaml"
)

// MaxInputSize bounds a single document. Config files are a few hundred
// bytes; anything near this is a mistake.
const MaxInputSize = 1 << 20

var (
	ErrEmptyInput     = errors.New("yamlutil: empty input")
	ErrNilDestination = errors.New("yamlutil: nil destination pointer")
	ErrInputTooLarge  = errors.New("yamlutil: input exceeds maximum size")
)

// decode checks the input, then unmarshals with opts.
func decode(data []byte, v any, opts ...yaml.DecodeOption) error {
	switch {
	case len(bytes.TrimSpace(data)) == 0:
		return ErrEmptyInput
	case len(data) > MaxInputSize:
		return fmt.Errorf("%w: %d bytes (max %d)", ErrInputTooLarge, len(data), MaxInputSize)
	case v == nil:
		return ErrNilDestination
	}
	if err := yaml.UnmarshalWithOptions(data, v, opts...); err != nil {
		return fmt.Errorf("yamlutil: %w", err)
	}
	return nil
}

// Unmarshal decodes data into v. Unknown keys are ignored.
func Unmarshal(data []byte, v any) error {
	return decode(data, v)
}

// UnmarshalStrict decodes data into v and fails on keys v has no field for,
// which is how config typos surface.
func UnmarshalStrict(data []byte, v any) error {
	return decode(data, v, yaml.Strict())
}

// Marshal encodes v as block YAML with indented sequences and literal
// blocks for multiline strings, the shape Pandoc defaults files use.
func Marshal(v any) ([]byte, error) {
	out, err := yaml.MarshalWithOptions(v,
		yaml.IndentSequence(true),
		yaml.UseLiteralStyleIfMultiline(true),
	)
	if err != nil {
		return nil, fmt.Errorf("yamlutil: %w", err)
	}
	return out, nil
}

// Overlay writes the keys in patch onto dst and leaves every other field
// as it was. Device presets use it on pdf_settings. Unknown keys fail.
func Overlay(dst any, patch map[string]any) error {
	if len(patch) == 0 {
		return nil
	}
	if dst == nil {
		return ErrNilDestination
	}
	data, err := yaml.Marshal(patch)
	if err != nil {
		return fmt.Errorf("yamlutil: overlay: %w", err)
	}
	if err := UnmarshalStrict(data, dst); err != nil {
		return fmt.Errorf("overlay: %w", err)
	}
	return nil
}
