package main

import (
	"io"

	flag "github.com/spf13/pflag"
)

// commonFlags holds flags shared across commands.
type commonFlags struct {
	config  string
	quiet   bool
	verbose bool
	logJSON bool
}

// convertFlags holds all flags for the convert command.
type convertFlags struct {
	common    commonFlags
	template  string
	engine    string
	output    string
	assetPath string
	html      bool
	keepTemp  bool
}

// addCommonFlags adds common flags to a FlagSet.
func addCommonFlags(fs *flag.FlagSet, f *commonFlags) {
	fs.StringVarP(&f.config, "config", "c", "", "config file name or path")
	fs.BoolVarP(&f.quiet, "quiet", "q", false, "only show warnings and errors")
	fs.BoolVarP(&f.verbose, "verbose", "v", false, "debug logging")
	fs.BoolVar(&f.logJSON, "log-json", false, "log as JSON lines")
}

// newConvertFlagSet declares the convert flags into f. Completion scripts are
// generated from the same set.
func newConvertFlagSet(f *convertFlags) *flag.FlagSet {
	fs := flag.NewFlagSet("convert", flag.ContinueOnError)
	addCommonFlags(fs, &f.common)
	fs.StringVarP(&f.template, "template", "t", "", "template set: default, technical, kindle, or a directory under --asset-path")
	fs.StringVar(&f.engine, "engine", "", "rendering engine: xelatex, chrome")
	fs.StringVarP(&f.output, "output", "o", "", "output directory (overrides output_dir)")
	fs.StringVar(&f.assetPath, "asset-path", "", "directory searched for styles and templates first")
	fs.BoolVar(&f.html, "html", false, "also write the intermediate HTML next to the PDF")
	fs.BoolVar(&f.keepTemp, "keep-temp", false, "keep header.tex and pandoc_defaults.yaml")
	return fs
}

// parseConvertFlags parses convert command flags and returns positional args.
func parseConvertFlags(args []string) (*convertFlags, []string, error) {
	f := &convertFlags{}
	fs := newConvertFlagSet(f)
	fs.SetOutput(io.Discard)
	if err := fs.Parse(args); err != nil {
		return nil, nil, err
	}
	return f, fs.Args(), nil
}
