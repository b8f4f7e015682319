package main

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"time"

	flag "github.com/spf13/pflag"

	repo2pdf "github.com/alnah/go-repo2pdf"
	"github.com/alnah/go-repo2pdf/internal/config"
	"github.com/alnah/go-repo2pdf/internal/hints"
	"github.com/alnah/go-repo2pdf/internal/process"
)

// Sentinel errors for CLI operations.
var (
	ErrNoConfig = errors.New("no config file: use --config or REPO2PDF_CONFIG")
	ErrUsage    = errors.New("invalid usage")
)

// runConvert loads the configuration, applies environment and flag
// overrides, and runs one conversion.
func runConvert(ctx context.Context, args []string, env *Environment) error {
	flags, rest, err := parseConvertFlags(args)
	if err != nil {
		if errors.Is(err, flag.ErrHelp) {
			printConvertUsage(env.Stdout)
			return err
		}
		return fmt.Errorf("%w: %v", ErrUsage, err)
	}
	if len(rest) > 0 {
		return fmt.Errorf("%w: unexpected argument %q", ErrUsage, rest[0])
	}

	ev := loadEnvConfig(env.Getenv)
	logger := newLogger(env.Stderr, flags.common, ev.LogFormat)
	warnUnknownEnvVars(logger, env.Environ())

	name := flags.common.config
	if name == "" {
		name = ev.ConfigPath
	}
	if name == "" {
		return ErrNoConfig
	}

	cfg, err := config.LoadConfig(name, ev.Device)
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}
	applyEnvConfig(ev, cfg)
	mergeFlags(flags, cfg)
	if err := cfg.Validate(); err != nil {
		return err
	}

	conv, err := env.NewConverter(cfg,
		repo2pdf.WithLogger(logger),
		repo2pdf.WithAssetPath(flags.assetPath),
		repo2pdf.WithHTML(flags.html),
		repo2pdf.WithKeepTemp(flags.keepTemp),
		repo2pdf.WithClock(env.Now),
	)
	if err != nil {
		return err
	}
	defer func() { _ = conv.Close() }()

	logger.Info("converting",
		"repository", repositoryLabel(cfg),
		"engine", cfg.PDF.Engine,
		"template", cfg.PDF.Template,
		"device", cfg.DevicePreset)
	start := env.Now()

	res, err := conv.Convert(ctx)
	if err != nil {
		if errors.Is(err, repo2pdf.ErrTypeset) && !errors.Is(err, process.ErrNotFound) {
			return &hintedError{err: err, hint: hints.ForTypesetFailure(cfg.TempPath())}
		}
		return err
	}

	logger.Info("conversion finished",
		"path", res.PDF,
		"count", res.Files,
		"duration", env.Now().Sub(start).Round(time.Millisecond).String())
	if !flags.common.quiet {
		fmt.Fprintln(env.Stdout, res.PDF)
		if res.HTML != "" {
			fmt.Fprintln(env.Stdout, res.HTML)
		}
	}
	return nil
}

// mergeFlags applies explicitly set CLI flags over cfg (CLI wins).
// Directory flags are relative to the working directory, not the config file.
func mergeFlags(f *convertFlags, cfg *config.Config) {
	if f.template != "" {
		cfg.PDF.Template = f.template
	}
	if f.engine != "" {
		cfg.PDF.Engine = f.engine
	}
	if f.output != "" {
		cfg.OutputDir = absPath(f.output)
	}
}

func absPath(p string) string {
	if abs, err := filepath.Abs(p); err == nil {
		return abs
	}
	return p
}

func repositoryLabel(cfg *config.Config) string {
	if cfg.Repository.IsLocal() {
		return cfg.Repository.Path
	}
	return cfg.Repository.URL + "#" + cfg.Repository.Branch
}
