// Package repo2pdf converts a source repository into a single PDF.
//
// # Quick Start
//
// Load a configuration, create a converter and run it:
//
//	cfg, err := config.LoadConfig("repo2pdf", os.Getenv("DEVICE"))
//	if err != nil {
//	    log.Fatal(err)
//	}
//	conv, err := repo2pdf.NewConverter(cfg, repo2pdf.WithLogger(logger))
//	if err != nil {
//	    log.Fatal(err)
//	}
//	defer conv.Close()
//
//	result, err := conv.Convert(ctx)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	fmt.Println(result.PDF)
//
// # Conversion Pipeline
//
//  1. Fetch: shallow git clone in the workspace, or a local directory as-is
//  2. Collect: sorted walk with hidden, ignore, binary and size rules
//  3. Transform: each file becomes a Markdown section (prose, code, verbatim)
//  4. Assemble: title, front matter and sections streamed into temp.md
//  5. Render: pandoc with xelatex, or goldmark HTML printed by headless Chrome
//
// Per-file failures are logged and skip that file. Fetch, assembly and
// rendering failures abort the run; the temp directory is then kept for
// inspection.
//
// # Engines
//
// The xelatex engine writes header.tex and pandoc_defaults.yaml next to
// temp.md and runs pandoc there. The chrome engine needs no TeX installation;
// emoji images and raw LaTeX are disabled for it. WithHTML writes the
// intermediate HTML next to the PDF for either engine.
package repo2pdf
