// Package fetch obtains the repository to render: a shallow git clone kept
// up to date in the workspace, or a local directory used as-is.
//
// Every failure here is fatal for the run and wraps ErrFetch.
package fetch
