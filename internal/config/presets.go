package config

import (
	"fmt"
	"sort"

	"github.com/alnah/go-repo2pdf/internal/yamlutil"
)

// Preset bundles a template name with pdf_settings overrides for one device.
type Preset struct {
	Description  string         `yaml:"description"`
	Template     string         `yaml:"template"`
	PDFOverrides map[string]any `yaml:"pdf_overrides"`
}

// BuiltinPresets are available without any configuration.
// User presets with the same name replace them.
var BuiltinPresets = map[string]Preset{
	"desktop": {
		Description: "Desktop reading",
		Template:    "default",
		PDFOverrides: map[string]any{
			"margin":        "margin=1in",
			"fontsize":      "10pt",
			"code_fontsize": `\small`,
			"linespread":    "1.0",
		},
	},
	"kindle7": {
		Description: "7-inch Kindle",
		Template:    "kindle",
		PDFOverrides: map[string]any{
			"margin":          "margin=0.4in",
			"fontsize":        "11pt",
			"code_fontsize":   `\small`,
			"linespread":      "1.0",
			"parskip":         "5pt",
			"max_file_size":   "200KB",
			"max_line_length": 60,
		},
	},
	"tablet": {
		Description: "Tablet reading",
		Template:    "technical",
		PDFOverrides: map[string]any{
			"margin":        "margin=0.6in",
			"fontsize":      "9pt",
			"code_fontsize": `\small`,
			"linespread":    "0.95",
		},
	},
	"mobile": {
		Description: "Phone reading",
		Template:    "kindle",
		PDFOverrides: map[string]any{
			"margin":        "margin=0.3in",
			"fontsize":      "7pt",
			"code_fontsize": `\tiny`,
			"linespread":    "0.85",
			"parskip":       "2pt",
		},
	},
}

// PresetNames returns every preset name known to c, sorted.
func (c *Config) PresetNames() []string {
	seen := make(map[string]bool, len(BuiltinPresets)+len(c.DevicePresets))
	for name := range BuiltinPresets {
		seen[name] = true
	}
	for name := range c.DevicePresets {
		seen[name] = true
	}
	names := make([]string, 0, len(seen))
	for name := range seen {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// LookupPreset finds a preset by name, user presets first.
func (c *Config) LookupPreset(name string) (Preset, bool) {
	if p, ok := c.DevicePresets[name]; ok {
		return p, true
	}
	p, ok := BuiltinPresets[name]
	return p, ok
}

// ApplyPreset overlays the named preset onto c.PDF.
// An empty name is a no-op. The preset template is used only when
// pdf_settings.template is empty.
func (c *Config) ApplyPreset(name string) error {
	if name == "" {
		return nil
	}
	preset, ok := c.LookupPreset(name)
	if !ok {
		return fmt.Errorf("%w: %q (known: %v)", ErrUnknownPreset, name, c.PresetNames())
	}
	if err := yamlutil.Overlay(&c.PDF, preset.PDFOverrides); err != nil {
		return fmt.Errorf("%w: preset %q: %v", ErrConfigInvalid, name, err)
	}
	if c.PDF.Template == "" {
		c.PDF.Template = preset.Template
	}
	c.DevicePreset = name
	return nil
}
