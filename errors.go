package repo2pdf

import "errors"

// Sentinel errors for library operations.
var (
	ErrNilConfig       = errors.New("config cannot be nil")
	ErrInvalidAssets   = errors.New("invalid asset path")
	ErrTemplateMissing = errors.New("template set not found")
	ErrWorkspace       = errors.New("cannot prepare working directories")
	ErrAssemble        = errors.New("cannot assemble document")
	ErrTypeset         = errors.New("typesetting failed")
	ErrOutputMissing   = errors.New("typesetter reported success but wrote no PDF")
	ErrInternal        = errors.New("internal error")

	// Chrome engine.
	ErrBrowserConnect = errors.New("failed to connect to browser")
	ErrPageCreate     = errors.New("failed to create browser page")
	ErrPageLoad       = errors.New("failed to load page")
	ErrPDFGeneration  = errors.New("PDF generation failed")
)
