package main

import (
	"context"
	"io"
	"os"
	"time"

	"github.com/go-rod/rod/lib/launcher"

	repo2pdf "github.com/alnah/go-repo2pdf"
	"github.com/alnah/go-repo2pdf/internal/config"
	"github.com/alnah/go-repo2pdf/internal/hints"
	"github.com/alnah/go-repo2pdf/internal/process"
)

// Converter is the part of *repo2pdf.Converter the CLI drives.
type Converter interface {
	Convert(ctx context.Context) (*repo2pdf.Result, error)
	Close() error
}

// Environment holds injectable dependencies for testability.
type Environment struct {
	Now    func() time.Time
	Stdout io.Writer
	Stderr io.Writer

	Getenv  func(string) string
	Environ func() []string

	// NewConverter builds the converter for a loaded config.
	NewConverter func(cfg *config.Config, opts ...repo2pdf.Option) (Converter, error)

	// LookPath and LookChrome locate external tools for doctor.
	LookPath   func(name string) (string, bool)
	LookChrome func() (string, bool)

	// Runner executes version probes.
	Runner process.Runner

	// Stat checks file presence for container detection.
	Stat func(name string) (os.FileInfo, error)
	// TempDir is probed for write access.
	TempDir func() string
}

// DefaultEnv returns the production environment.
func DefaultEnv() *Environment {
	return &Environment{
		Now:     time.Now,
		Stdout:  os.Stdout,
		Stderr:  os.Stderr,
		Getenv:  os.Getenv,
		Environ: os.Environ,
		NewConverter: func(cfg *config.Config, opts ...repo2pdf.Option) (Converter, error) {
			return repo2pdf.NewConverter(cfg, opts...)
		},
		LookPath:   process.LookPath,
		LookChrome: launcher.LookPath,
		Runner:     process.NewExecRunner(),
		Stat:       os.Stat,
		TempDir:    os.TempDir,
	}
}

// probe exposes the environment to container and CI detection.
func (env *Environment) probe() hints.Probe {
	return hints.Probe{Getenv: env.Getenv, Stat: env.Stat}
}
