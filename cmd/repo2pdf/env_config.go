package main

import (
	"log/slog"
	"sort"
	"strings"

	"github.com/alnah/go-repo2pdf/internal/config"
)

// envConfig holds configuration from environment variables.
// Provides CI/CD-friendly overrides without editing the YAML file.
type envConfig struct {
	ConfigPath   string // REPO2PDF_CONFIG: config file name or path
	OutputDir    string // REPO2PDF_OUTPUT_DIR: output_dir override
	WorkspaceDir string // REPO2PDF_WORKSPACE_DIR: workspace_dir override
	Engine       string // REPO2PDF_ENGINE: xelatex or chrome
	LogFormat    string // REPO2PDF_LOG_FORMAT: text or json
	Device       string // DEVICE: device preset
}

// knownEnvVars lists valid REPO2PDF_* environment variables.
// Used to detect typos and warn users about unknown variables.
var knownEnvVars = map[string]bool{
	"REPO2PDF_CONFIG":        true,
	"REPO2PDF_OUTPUT_DIR":    true,
	"REPO2PDF_WORKSPACE_DIR": true,
	"REPO2PDF_ENGINE":        true,
	"REPO2PDF_LOG_FORMAT":    true,
	"REPO2PDF_CONTAINER":     true, // read by doctor
}

// loadEnvConfig reads the recognized variables through getenv.
func loadEnvConfig(getenv func(string) string) *envConfig {
	return &envConfig{
		ConfigPath:   getenv("REPO2PDF_CONFIG"),
		OutputDir:    getenv("REPO2PDF_OUTPUT_DIR"),
		WorkspaceDir: getenv("REPO2PDF_WORKSPACE_DIR"),
		Engine:       strings.ToLower(getenv("REPO2PDF_ENGINE")),
		LogFormat:    strings.ToLower(getenv("REPO2PDF_LOG_FORMAT")),
		Device:       getenv("DEVICE"),
	}
}

// unknownEnvVars returns unrecognized REPO2PDF_* names, sorted.
// Helps catch typos like REPO2PDF_OUTPUTDIR.
func unknownEnvVars(environ []string) []string {
	var out []string
	for _, kv := range environ {
		name, _, _ := strings.Cut(kv, "=")
		if strings.HasPrefix(name, "REPO2PDF_") && !knownEnvVars[name] {
			out = append(out, name)
		}
	}
	sort.Strings(out)
	return out
}

// warnUnknownEnvVars logs one warning per unrecognized REPO2PDF_* variable.
func warnUnknownEnvVars(logger *slog.Logger, environ []string) {
	for _, name := range unknownEnvVars(environ) {
		logger.Warn("unknown environment variable (typo?)", "name", name)
	}
}

// applyEnvConfig overrides the loaded file with environment values.
// Precedence: CLI flags > env vars > config file > defaults
// (CLI flags are applied later via mergeFlags).
func applyEnvConfig(env *envConfig, cfg *config.Config) {
	if env.OutputDir != "" {
		cfg.OutputDir = absPath(env.OutputDir)
	}
	if env.WorkspaceDir != "" {
		cfg.WorkspaceDir = absPath(env.WorkspaceDir)
	}
	if env.Engine != "" {
		cfg.PDF.Engine = env.Engine
	}
}
