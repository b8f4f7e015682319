package config

import (
	"errors"
	"fmt"
	"path/filepath"
	"regexp"
	"strings"

	validation "github.com/go-ozzo/ozzo-validation/v4"
)

// Sentinel errors for config operations.
var (
	ErrConfigNotFound  = errors.New("config file not found")
	ErrEmptyConfigName = errors.New("config name cannot be empty")
	ErrConfigParse     = errors.New("failed to parse config")
	ErrConfigInvalid   = errors.New("invalid config")
	ErrFieldTooLong    = errors.New("field exceeds maximum length")
	ErrUnknownPreset   = errors.New("unknown device preset")
	ErrInvalidSize     = errors.New("invalid size")
)

// Field length limits.
const (
	MaxURLLength    = 2048 // Browser limit
	MaxBranchLength = 255  // git ref name limit
	MaxTitleLength  = 200  // Title page heading
	MaxDateLength   = 60   // "auto:YYYY-MM-DD" or a literal date
	MaxPathLength   = 4096 // PATH_MAX on Linux
)

// Rendering engines.
const (
	EngineXeLaTeX = "xelatex"
	EngineChrome  = "chrome"
)

// Code block strategies.
const (
	StrategyNormal            = "normal"
	StrategyCodeblockForEmoji = "codeblock_for_emoji"
)

// DefaultTemplate is used when neither the CLI, the settings nor the preset
// name a template.
const DefaultTemplate = "default"

// ValidFontsizes lists the document font sizes the LaTeX classes accept.
var ValidFontsizes = []string{"7pt", "8pt", "9pt", "10pt", "11pt", "12pt", "14pt"}

// CodeFontsizes maps short names to LaTeX size commands.
var CodeFontsizes = map[string]string{
	"tiny":         `\tiny`,
	"scriptsize":   `\scriptsize`,
	"footnotesize": `\footnotesize`,
	"small":        `\small`,
	"normalsize":   `\normalsize`,
}

// DefaultIgnores are always merged into the configured ignore list.
var DefaultIgnores = []string{
	// Dependencies
	"node_modules", "vendor", "bower_components",
	// Build outputs
	"dist", "build", "out", "target", ".next", ".nuxt",
	// Version control
	".git", ".svn", ".hg",
	// Python
	"__pycache__", "*.pyc", "*.pyo", "*.pyd", ".venv", "venv", ".tox", ".eggs", "*.egg-info",
	// IDE
	".idea", ".vscode", "*.swp", "*.swo", ".project", ".settings",
	// OS
	".DS_Store", "Thumbs.db",
	// Logs and temp
	"*.log", ".cache", ".temp", "tmp",
	// Lock files
	"package-lock.json", "yarn.lock", "pnpm-lock.yaml", "Cargo.lock",
	"Gemfile.lock", "poetry.lock", "Pipfile.lock",
}

var (
	assetNamePattern = regexp.MustCompile(`^[A-Za-z0-9_-]+$`)
	urlSchemes       = []string{"http://", "https://", "git@", "ssh://"}
)

func init() {
	// Report YAML keys in validation errors.
	validation.ErrorTag = "yaml"
}

// Config holds everything a conversion run needs.
type Config struct {
	Repository    RepositoryConfig  `yaml:"repository"`
	WorkspaceDir  string            `yaml:"workspace_dir"`
	OutputDir     string            `yaml:"output_dir"`
	TempDir       string            `yaml:"temp_dir"`
	Title         string            `yaml:"title"`         // "" = "<repo> Code Documentation"
	Date          string            `yaml:"date"`          // "" = \today, "auto", "auto:FORMAT" or literal
	DevicePreset  string            `yaml:"device_preset"` // overridden by DEVICE
	DevicePresets map[string]Preset `yaml:"device_presets"`
	Ignores       []string          `yaml:"ignores"`
	PDF           PDFSettings       `yaml:"pdf_settings"`

	// ProjectRoot is the directory relative paths resolve against.
	// LoadConfig sets it to the config file's directory.
	ProjectRoot string `yaml:"-"`
}

// RepositoryConfig names the source: a git URL or a local directory.
type RepositoryConfig struct {
	URL    string `yaml:"url"`
	Branch string `yaml:"branch"`
	Path   string `yaml:"path"` // local mode: no clone, the directory is used as-is
}

// IsLocal reports whether the repository is a local directory.
func (r RepositoryConfig) IsLocal() bool {
	return r.Path != ""
}

// Validate checks the URL scheme and branch name.
func (r *RepositoryConfig) Validate() error {
	r.URL = strings.TrimSpace(r.URL)
	r.Branch = strings.TrimSpace(r.Branch)

	if r.Path != "" {
		return validateFieldLength("repository.path", r.Path, MaxPathLength)
	}
	if err := validateFieldLength("repository.url", r.URL, MaxURLLength); err != nil {
		return err
	}
	if err := validateFieldLength("repository.branch", r.Branch, MaxBranchLength); err != nil {
		return err
	}
	return validation.ValidateStruct(r,
		validation.Field(&r.URL, validation.Required.Error("url or path is required"), validation.By(validScheme)),
		validation.Field(&r.Branch, validation.Required),
	)
}

func validScheme(value any) error {
	s, _ := value.(string)
	for _, scheme := range urlSchemes {
		if strings.HasPrefix(s, scheme) {
			return nil
		}
	}
	return fmt.Errorf("must start with one of: %s", strings.Join(urlSchemes, ", "))
}

// PDFSettings controls rendering. Every field may be overridden by a preset.
type PDFSettings struct {
	Engine                          string            `yaml:"engine"`
	Template                        string            `yaml:"template"`
	Margin                          string            `yaml:"margin"`
	MainFont                        string            `yaml:"main_font"`
	MonoFont                        string            `yaml:"mono_font"`
	SansFont                        string            `yaml:"sans_font"`
	EmojiFont                       StringList        `yaml:"emoji_font"`
	Fontsize                        string            `yaml:"fontsize"`
	CodeFontsize                    string            `yaml:"code_fontsize"`
	Linespread                      string            `yaml:"linespread"`
	Parskip                         string            `yaml:"parskip"`
	HighlightStyle                  string            `yaml:"highlight_style"`
	SplitLargeFiles                 bool              `yaml:"split_large_files"`
	RenderHeaderCommentsOutsideCode bool              `yaml:"render_header_comments_outside_code"`
	CodeBlockStrategy               string            `yaml:"code_block_strategy"`
	EmojiDownload                   bool              `yaml:"emoji_download"`
	MaxLineLength                   int               `yaml:"max_line_length"`
	MaxFileSize                     string            `yaml:"max_file_size"`
	SVGBrowserFallback              bool              `yaml:"svg_browser_fallback"`
	IncludeHiddenPaths              []string          `yaml:"include_hidden_paths"`
	RawMarkdownPaths                []string          `yaml:"raw_markdown_paths"`
	RawMarkdownExcludePaths         []string          `yaml:"raw_markdown_exclude_paths"`
	CodeBlockBg                     string            `yaml:"code_block_bg"`
	CodeBlockBorder                 string            `yaml:"code_block_border"`
	CodeBlockPadding                string            `yaml:"code_block_padding"`
	IncludeTree                     bool              `yaml:"include_tree"`
	IncludeStats                    bool              `yaml:"include_stats"`
	TreeMaxDepth                    int               `yaml:"tree_max_depth"`
	Metadata                        map[string]string `yaml:"metadata"`
}

// Validate normalizes code_fontsize and checks enumerations and ranges.
func (p *PDFSettings) Validate() error {
	if cmd, ok := CodeFontsizes[p.CodeFontsize]; ok {
		p.CodeFontsize = cmd
	}
	fontsizes := make([]any, len(ValidFontsizes))
	for i, f := range ValidFontsizes {
		fontsizes[i] = f
	}
	return validation.ValidateStruct(p,
		validation.Field(&p.Engine, validation.Required, validation.In(EngineXeLaTeX, EngineChrome)),
		validation.Field(&p.Template, validation.Match(assetNamePattern)),
		validation.Field(&p.Fontsize, validation.Required, validation.In(fontsizes...)),
		validation.Field(&p.CodeFontsize, validation.Required, validation.By(latexCommand)),
		validation.Field(&p.CodeBlockStrategy, validation.Required, validation.In(StrategyNormal, StrategyCodeblockForEmoji)),
		validation.Field(&p.MaxLineLength, validation.Required, validation.Min(40), validation.Max(500)),
		validation.Field(&p.TreeMaxDepth, validation.Required, validation.Min(1), validation.Max(10)),
		validation.Field(&p.MaxFileSize, validation.Required, validation.By(validSize)),
		validation.Field(&p.HighlightStyle, validation.Required),
	)
}

func latexCommand(value any) error {
	s, _ := value.(string)
	if strings.HasPrefix(s, `\`) {
		return nil
	}
	return errors.New(`must be one of tiny, scriptsize, footnotesize, small, normalsize or a LaTeX size command like \small`)
}

func validSize(value any) error {
	s, _ := value.(string)
	_, err := ParseSize(s)
	return err
}

// MaxFileSizeBytes returns the parsed per-file size ceiling.
// Validate guarantees the value parses.
func (p *PDFSettings) MaxFileSizeBytes() int64 {
	n, err := ParseSize(p.MaxFileSize)
	if err != nil {
		return defaultMaxFileSize
	}
	return n
}

// Validate checks field lengths and delegates to the nested sections.
// Called automatically by LoadConfig, but available for library users
// who construct Config manually.
func (c *Config) Validate() error {
	if err := validateFieldLength("title", c.Title, MaxTitleLength); err != nil {
		return err
	}
	if err := validateFieldLength("date", c.Date, MaxDateLength); err != nil {
		return err
	}
	if err := c.Repository.Validate(); err != nil {
		return fmt.Errorf("%w: repository: %w", ErrConfigInvalid, err)
	}
	if err := c.PDF.Validate(); err != nil {
		return fmt.Errorf("%w: pdf_settings: %w", ErrConfigInvalid, err)
	}
	return nil
}

// validateFieldLength checks if a field exceeds its maximum allowed length.
func validateFieldLength(fieldName, value string, maxLength int) error {
	if len(value) > maxLength {
		return fmt.Errorf("%w: %s (%d chars, max %d)", ErrFieldTooLong, fieldName, len(value), maxLength)
	}
	return nil
}

// Resolve returns p unchanged when absolute, otherwise joined to ProjectRoot.
// An empty ProjectRoot leaves relative paths relative to the working directory.
func (c *Config) Resolve(p string) string {
	if p == "" || filepath.IsAbs(p) || c.ProjectRoot == "" {
		return p
	}
	return filepath.Join(c.ProjectRoot, p)
}

// WorkspacePath is the absolute directory clones are kept in.
func (c *Config) WorkspacePath() string { return c.Resolve(c.WorkspaceDir) }

// OutputPath is the directory the PDF is written to.
func (c *Config) OutputPath() string { return c.Resolve(c.OutputDir) }

// TempPath is the scratch directory holding temp.md and images.
func (c *Config) TempPath() string { return c.Resolve(c.TempDir) }

// AllIgnores returns DefaultIgnores followed by the configured patterns.
func (c *Config) AllIgnores() []string {
	out := make([]string, 0, len(DefaultIgnores)+len(c.Ignores))
	out = append(out, DefaultIgnores...)
	for _, p := range c.Ignores {
		if !contains(out, p) {
			out = append(out, p)
		}
	}
	return out
}

func contains(list []string, s string) bool {
	for _, v := range list {
		if v == s {
			return true
		}
	}
	return false
}

const defaultMaxFileSize = 512 * 1024

// DefaultConfig returns the settings used for every key the file omits.
func DefaultConfig() *Config {
	return &Config{
		Repository:   RepositoryConfig{Branch: "main"},
		WorkspaceDir: "./repo-workspace",
		OutputDir:    "./repo-pdfs",
		TempDir:      "./temp_conversion_files",
		DevicePreset: "desktop",
		PDF: PDFSettings{
			Engine:                          EngineXeLaTeX,
			Margin:                          "margin=1in",
			Fontsize:                        "10pt",
			CodeFontsize:                    `\small`,
			Linespread:                      "1.0",
			Parskip:                         "6pt",
			HighlightStyle:                  "tango",
			SplitLargeFiles:                 true,
			RenderHeaderCommentsOutsideCode: true,
			CodeBlockStrategy:               StrategyNormal,
			EmojiDownload:                   true,
			MaxLineLength:                   200,
			MaxFileSize:                     "512KB",
			RawMarkdownExcludePaths:         []string{"**/README.md"},
			CodeBlockBg:                     "gray!5",
			CodeBlockBorder:                 "gray!30",
			CodeBlockPadding:                "5pt",
			IncludeTree:                     true,
			IncludeStats:                    true,
			TreeMaxDepth:                    3,
			Metadata: map[string]string{
				"author":   "Repo-to-PDF Generator",
				"creator":  "LaTeX",
				"producer": "XeLaTeX",
			},
		},
	}
}
