package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/alnah/go-repo2pdf/internal/fileutil"
	"github.com/alnah/go-repo2pdf/internal/yamlutil"
)

// appDirName is the directory searched under os.UserConfigDir.
const appDirName = "go-repo2pdf"

// configExts are appended, in order, to a bare config name.
var configExts = []string{".yaml", ".yml"}

// LoadConfig reads, parses and finalizes a config file.
//
// nameOrPath is a path when it contains a separator or ends in .yaml/.yml;
// otherwise it is a bare name looked up in SearchPaths order. A missing
// file is ErrConfigNotFound; there is no built-in fallback config.
//
// devicePreset, when non-empty, replaces the file's device_preset (the
// DEVICE environment variable at the CLI boundary).
func LoadConfig(nameOrPath, devicePreset string) (*Config, error) {
	if nameOrPath == "" {
		return nil, ErrEmptyConfigName
	}
	path, err := locate(nameOrPath)
	if err != nil {
		return nil, err
	}

	data, err := os.ReadFile(path) // #nosec G304 -- path chosen by the user
	switch {
	case os.IsNotExist(err):
		return nil, fmt.Errorf("%w: %s", ErrConfigNotFound, path)
	case err != nil:
		return nil, fmt.Errorf("reading config file: %w", err)
	}

	cfg, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	if cfg.ProjectRoot, err = filepath.Abs(filepath.Dir(path)); err != nil {
		return nil, fmt.Errorf("resolving config directory: %w", err)
	}
	// Relative repository paths are relative to the config file, not the
	// working directory.
	if cfg.Repository.Path != "" {
		cfg.Repository.Path = cfg.Resolve(cfg.Repository.Path)
	}
	if err := cfg.Finalize(devicePreset); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Parse expands ${VAR} references in data and decodes it strictly over
// DefaultConfig. The result is not yet validated; call Finalize.
func Parse(data []byte) (*Config, error) {
	expanded := os.ExpandEnv(string(data))
	if strings.TrimSpace(expanded) == "" {
		return nil, fmt.Errorf("%w: empty document", ErrConfigParse)
	}
	cfg := DefaultConfig()
	if err := yamlutil.UnmarshalStrict([]byte(expanded), cfg); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrConfigParse, err)
	}
	return cfg, nil
}

// Finalize applies the device preset (devicePreset wins over the file),
// fills the template default and validates.
func (c *Config) Finalize(devicePreset string) error {
	if devicePreset != "" {
		c.DevicePreset = devicePreset
	}
	if err := c.ApplyPreset(c.DevicePreset); err != nil {
		return err
	}
	if c.PDF.Template == "" {
		c.PDF.Template = DefaultTemplate
	}
	return c.Validate()
}

// SearchPaths lists where a bare config name is looked for: the working
// directory first, then <user config dir>/go-repo2pdf/, each with .yaml
// before .yml.
func SearchPaths(name string) []string {
	dirs := []string{""}
	if dir, err := os.UserConfigDir(); err == nil {
		dirs = append(dirs, filepath.Join(dir, appDirName))
	}
	paths := make([]string, 0, len(dirs)*len(configExts))
	for _, dir := range dirs {
		for _, ext := range configExts {
			paths = append(paths, filepath.Join(dir, name+ext))
		}
	}
	return paths
}

func locate(nameOrPath string) (string, error) {
	if isConfigPath(nameOrPath) {
		return nameOrPath, nil
	}
	tried := SearchPaths(nameOrPath)
	for _, p := range tried {
		if fileutil.FileExists(p) {
			return p, nil
		}
	}
	return "", fmt.Errorf("%w: tried %s", ErrConfigNotFound, strings.Join(tried, ", "))
}

func isConfigPath(s string) bool {
	if fileutil.IsFilePath(s) {
		return true
	}
	ext := strings.ToLower(filepath.Ext(s))
	for _, e := range configExts {
		if ext == e {
			return true
		}
	}
	return false
}
