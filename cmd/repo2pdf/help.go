package main

import (
	"fmt"
	"io"
)

// printUsage prints the main usage message.
func printUsage(w io.Writer) {
	fmt.Fprintln(w, "Usage: repo2pdf <command> [flags]")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Commands:")
	fmt.Fprintln(w, "  convert     Convert a repository to PDF")
	fmt.Fprintln(w, "  doctor      Check external tools and the environment")
	fmt.Fprintln(w, "  completion  Generate shell completion script")
	fmt.Fprintln(w, "  version     Show version information")
	fmt.Fprintln(w, "  help        Show help for a command")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Flags without a command run convert: repo2pdf -c repo2pdf.yaml")
	fmt.Fprintln(w, "Run 'repo2pdf help <command>' for details on a specific command.")
}

// printConvertUsage prints usage for the convert command.
func printConvertUsage(w io.Writer) {
	fmt.Fprintln(w, "Usage: repo2pdf convert -c <config> [flags]")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Fetch or read a repository and typeset it into one PDF.")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Configuration:")
	fmt.Fprintln(w, "  -c, --config <name>       Config file name or path (or REPO2PDF_CONFIG)")
	fmt.Fprintln(w, "      --asset-path <dir>    Directory searched first for styles and templates")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Rendering:")
	fmt.Fprintln(w, "  -t, --template <name>     Template set: default, technical, kindle")
	fmt.Fprintln(w, "      --engine <name>       Engine: xelatex (pandoc), chrome")
	fmt.Fprintln(w, "      --html                Also write the intermediate HTML")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Output:")
	fmt.Fprintln(w, "  -o, --output <dir>        Output directory (overrides output_dir)")
	fmt.Fprintln(w, "      --keep-temp           Keep header.tex and pandoc_defaults.yaml")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Output Control:")
	fmt.Fprintln(w, "  -q, --quiet               Only show warnings and errors")
	fmt.Fprintln(w, "  -v, --verbose             Debug logging")
	fmt.Fprintln(w, "      --log-json            Log as JSON lines (or REPO2PDF_LOG_FORMAT=json)")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Environment:")
	fmt.Fprintln(w, "  REPO2PDF_CONFIG           Config file when --config is not given")
	fmt.Fprintln(w, "  REPO2PDF_OUTPUT_DIR       Overrides output_dir")
	fmt.Fprintln(w, "  REPO2PDF_WORKSPACE_DIR    Overrides workspace_dir")
	fmt.Fprintln(w, "  REPO2PDF_ENGINE           Overrides pdf_settings.engine")
	fmt.Fprintln(w, "  DEVICE                    Device preset: desktop, kindle7, tablet, mobile")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Variables are also read from a .env file in the working directory.")
}

func printDoctorUsage(w io.Writer) {
	fmt.Fprintln(w, "Usage: repo2pdf doctor [--json] [--engine <name>]")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Check git, pandoc, xelatex, inkscape and Chrome, and report")
	fmt.Fprintln(w, "container and CI settings. Exits 1 when a required tool is missing.")
}

// runHelp prints help for a specific command.
func runHelp(args []string, env *Environment) int {
	if len(args) == 0 {
		printUsage(env.Stdout)
		return ExitSuccess
	}

	switch args[0] {
	case "convert":
		printConvertUsage(env.Stdout)
	case "doctor":
		printDoctorUsage(env.Stdout)
	case "completion":
		printCompletionUsage(env.Stdout)
	case "version":
		fmt.Fprintln(env.Stdout, "Usage: repo2pdf version")
		fmt.Fprintln(env.Stdout)
		fmt.Fprintln(env.Stdout, "Show version information.")
	case "help":
		fmt.Fprintln(env.Stdout, "Usage: repo2pdf help [command]")
		fmt.Fprintln(env.Stdout)
		fmt.Fprintln(env.Stdout, "Show help for a command.")
	default:
		fmt.Fprintf(env.Stderr, "Unknown command: %s\n", args[0])
		printUsage(env.Stderr)
		return ExitUsage
	}
	return ExitSuccess
}
