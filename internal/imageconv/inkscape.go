package imageconv

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/alnah/go-repo2pdf/internal/fileutil"
	"github.com/alnah/go-repo2pdf/internal/process"
)

// Inkscape defaults.
const (
	InkscapeBinary      = "inkscape"
	InkscapeTimeout     = 30 * time.Second
	inkscapeExportWidth = ParentWidth
)

// Inkscape rasterizes through the inkscape CLI.
type Inkscape struct {
	Runner  process.Runner
	Binary  string
	Timeout time.Duration
}

// NewInkscape creates an Inkscape rasterizer backed by runner.
func NewInkscape(runner process.Runner) *Inkscape {
	return &Inkscape{Runner: runner, Binary: InkscapeBinary, Timeout: InkscapeTimeout}
}

// Rasterize implements Rasterizer. The export width is fixed; inkscape keeps
// the aspect ratio.
func (i *Inkscape) Rasterize(ctx context.Context, svg []byte, _, _ float64, out string) error {
	stem := strings.TrimSuffix(filepath.Base(out), filepath.Ext(out))
	tmp := filepath.Join(filepath.Dir(out), "temp_"+stem+".svg")
	if err := os.WriteFile(tmp, svg, fileutil.FilePerm); err != nil {
		return fmt.Errorf("writing inkscape input: %w", err)
	}
	defer func() { _ = os.Remove(tmp) }()

	res, err := i.Runner.Run(ctx, process.Command{
		Name: i.Binary,
		Args: []string{
			"--export-type=png",
			"--export-filename=" + out,
			fmt.Sprintf("--export-width=%d", inkscapeExportWidth),
			tmp,
		},
		Timeout: i.Timeout,
	})
	if err != nil {
		_ = os.Remove(out)
		if stderr := strings.TrimSpace(res.Stderr); stderr != "" {
			return fmt.Errorf("inkscape: %w: %s", err, stderr)
		}
		return fmt.Errorf("inkscape: %w", err)
	}
	if !fileutil.FileExists(out) {
		return errors.New("inkscape: no output written")
	}
	return nil
}

var _ Rasterizer = (*Inkscape)(nil)
