package repo2pdf

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/alnah/go-repo2pdf/internal/assemble"
	"github.com/alnah/go-repo2pdf/internal/assets"
	"github.com/alnah/go-repo2pdf/internal/collect"
	"github.com/alnah/go-repo2pdf/internal/config"
	"github.com/alnah/go-repo2pdf/internal/dateutil"
	"github.com/alnah/go-repo2pdf/internal/emoji"
	"github.com/alnah/go-repo2pdf/internal/fetch"
	"github.com/alnah/go-repo2pdf/internal/fileutil"
	"github.com/alnah/go-repo2pdf/internal/imageconv"
	"github.com/alnah/go-repo2pdf/internal/pipeline"
	"github.com/alnah/go-repo2pdf/internal/process"
	"github.com/alnah/go-repo2pdf/internal/report"
	"github.com/alnah/go-repo2pdf/internal/transform"
)

// outputStamp names output files: <repo>_<YYYYMMDD_HHMMSS>.pdf.
const outputStamp = "YYYYMMDD_HHmmss"

// Converter turns one configured repository into a PDF.
// Create with NewConverter, run Convert, and Close when done.
type Converter struct {
	cfg       *config.Config
	pdf       config.PDFSettings // run copy; engine adjustments never reach cfg
	logger    *slog.Logger
	runner    process.Runner
	fetcher   fetch.Fetcher
	engine    Engine
	assetPath string
	writeHTML bool
	keepTemp  bool
	client    *http.Client
	now       func() time.Time

	resolver  *assets.AssetResolver
	templates *assets.TemplateSet
	layout    *assemble.Layout
	browser   *rodRenderer // shared by the chrome engine and the SVG fallback
}

// Result describes a finished run.
type Result struct {
	PDF      string
	HTML     string // set with WithHTML
	Markdown string // the assembled temp.md
	Files    int    // files collected
	Blocks   int    // non-empty blocks written
	Repo     fetch.Repo
}

// NewConverter validates the settings, loads the template set and prepares
// the fetcher and the engine. Options override the derived collaborators.
func NewConverter(cfg *config.Config, opts ...Option) (*Converter, error) {
	if cfg == nil {
		return nil, ErrNilConfig
	}
	c := &Converter{
		cfg:    cfg,
		pdf:    cfg.PDF,
		logger: slog.New(slog.DiscardHandler),
		runner: process.NewExecRunner(),
		client: http.DefaultClient,
		now:    time.Now,
	}
	for _, opt := range opts {
		opt(c)
	}

	// Emoji commands and raw LaTeX blocks mean nothing to a browser.
	if c.pdf.Engine == config.EngineChrome {
		c.pdf.CodeBlockStrategy = config.StrategyNormal
	}

	resolver, err := assets.NewAssetResolver(c.assetPath)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidAssets, err)
	}
	c.resolver = resolver

	name := c.pdf.Template
	if name == "" {
		name = assets.DefaultTemplateSetName
	}
	if c.templates, err = resolver.LoadTemplateSet(name); err != nil {
		return nil, fmt.Errorf("%w: %q (available: %s): %w", ErrTemplateMissing, name,
			strings.Join(resolver.TemplateSetNames(), ", "), err)
	}
	c.layout = assemble.DefaultLayout()
	if c.templates.Layout != "" {
		if c.layout, err = assemble.ParseLayout([]byte(c.templates.Layout)); err != nil {
			return nil, fmt.Errorf("%w: %w", ErrInvalidAssets, err)
		}
	}

	if c.fetcher == nil {
		c.fetcher = c.defaultFetcher()
	}
	if c.engine == nil {
		c.engine = c.defaultEngine()
	}
	return c, nil
}

func (c *Converter) defaultFetcher() fetch.Fetcher {
	repo := c.cfg.Repository
	if repo.IsLocal() {
		return fetch.Local{Path: c.cfg.Resolve(repo.Path)}
	}
	return fetch.NewGit(c.runner, repo.URL, repo.Branch, c.cfg.WorkspacePath(), c.logger)
}

func (c *Converter) defaultEngine() Engine {
	if c.pdf.Engine == config.EngineChrome {
		return newChromeEngine(c.rod(), c.logger)
	}
	return newPandocEngine(c.runner, c.logger)
}

// rod returns the lazily connected browser shared within this Converter.
func (c *Converter) rod() *rodRenderer {
	if c.browser == nil {
		c.browser = newRodRenderer(ChromeTimeout)
	}
	return c.browser
}

// Close releases the engine and the browser, if one was started.
func (c *Converter) Close() error {
	var errs []error
	if c.engine != nil {
		errs = append(errs, c.engine.Close())
	}
	if c.browser != nil {
		errs = append(errs, c.browser.Close())
	}
	return errors.Join(errs...)
}

// Convert runs the whole pipeline: fetch, collect, transform, assemble and
// typeset. Per-file failures are logged and skipped. Fatal errors keep the
// temp directory for inspection.
// Recovers from internal panics to prevent crashes from propagating to callers.
func (c *Converter) Convert(ctx context.Context) (result *Result, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("%w: %v", ErrInternal, r)
		}
	}()

	repo, err := c.fetcher.Fetch(ctx)
	if err != nil {
		return nil, err
	}
	c.readCommit(ctx, &repo)

	tempDir, outputDir := c.cfg.TempPath(), c.cfg.OutputPath()
	for _, dir := range []string{tempDir, outputDir} {
		if err := os.MkdirAll(dir, fileutil.DirPerm); err != nil {
			return nil, fmt.Errorf("%w: %w", ErrWorkspace, err)
		}
	}

	now := c.now()
	title := c.cfg.Title
	if title == "" {
		title = repo.Name + " Code Documentation"
	}
	date, err := dateutil.ResolveDate(c.cfg.Date, now)
	if err != nil {
		return nil, err
	}
	shownDate := date
	if shownDate == "" {
		shownDate, _ = dateutil.ResolveDate("auto", now)
	}

	d, err := c.newDispatcher(tempDir, repo.Dir)
	if err != nil {
		return nil, err
	}

	collector := collect.New(collect.Options{
		Ignores:       c.cfg.AllIgnores(),
		IncludeHidden: c.pdf.IncludeHiddenPaths,
		MaxFileSize:   c.pdf.MaxFileSizeBytes(),
		Logger:        c.logger,
	})
	files, err := collector.Collect(ctx, repo.Dir)
	if err != nil {
		return nil, err
	}
	c.logger.Info("files collected", "count", len(files), "path", repo.Dir)

	mdPath := filepath.Join(tempDir, MarkdownFile)
	w, err := assemble.Create(mdPath)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrAssemble, err)
	}
	defer func() { _ = w.Close() }()

	if err := c.writeFrontMatter(w, title, shownDate, repo, files, collector); err != nil {
		return nil, err
	}
	for i, f := range files {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		block := d.dispatch(ctx, f)
		if err := w.WriteBlock(block); err != nil {
			return nil, fmt.Errorf("%w: %w", ErrAssemble, err)
		}
		c.logger.Debug("file processed", "path", f.RelPath, "index", i+1, "count", len(files))
	}
	if err := w.Finalize(); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrAssemble, err)
	}

	stamp, err := dateutil.Format(now, outputStamp)
	if err != nil {
		return nil, err
	}
	res := &Result{
		PDF:      filepath.Join(outputDir, repo.Name+"_"+stamp+".pdf"),
		Markdown: mdPath,
		Files:    len(files),
		Blocks:   w.Blocks(),
		Repo:     repo,
	}
	doc := &Document{
		Markdown:  mdPath,
		Output:    res.PDF,
		Title:     title,
		Subtitle:  subtitle(repo.Commit),
		Date:      date,
		TempDir:   tempDir,
		RepoDir:   repo.Dir,
		Settings:  c.pdf,
		Templates: c.templates,
	}

	if c.writeHTML || c.pdf.Engine == config.EngineChrome {
		if doc.HTML, err = c.renderHTML(ctx, doc, shownDate); err != nil {
			return nil, err
		}
	}
	if c.writeHTML {
		res.HTML = filepath.Join(outputDir, repo.Name+"_"+stamp+".html")
		if err := fileutil.WriteFileAtomic(res.HTML, []byte(doc.HTML)); err != nil {
			return nil, fmt.Errorf("%w: writing HTML: %w", ErrWorkspace, err)
		}
	}

	if err := c.engine.Render(ctx, doc); err != nil {
		return nil, err
	}
	c.cleanup(tempDir)
	c.logger.Info("PDF written", "path", res.PDF, "count", res.Blocks)
	return res, nil
}

// readCommit fills in the commit of a local checkout. Git fetchers already
// did.
func (c *Converter) readCommit(ctx context.Context, repo *fetch.Repo) {
	if repo.Commit != nil || !fileutil.DirExists(filepath.Join(repo.Dir, ".git")) {
		return
	}
	commit, err := fetch.ReadCommit(ctx, c.runner, repo.Dir)
	if err != nil {
		c.logger.Debug("commit not read", "path", repo.Dir, "error", err)
		return
	}
	repo.Commit = commit
}

func subtitle(commit *fetch.Commit) string {
	if commit == nil {
		return ""
	}
	if commit.Branch == "" || commit.Branch == "HEAD" {
		return commit.ShortSHA
	}
	return commit.Branch + " @ " + commit.ShortSHA
}

// writeFrontMatter writes the title and the layout's sections.
func (c *Converter) writeFrontMatter(w *assemble.Writer, title, date string, repo fetch.Repo, files []collect.File, collector *collect.Collector) error {
	fm := assemble.FrontMatter{RepoName: repo.Name, Date: date}
	if c.pdf.IncludeTree {
		fm.Tree = func() string {
			return report.Tree(repo.Dir, report.TreeOptions{
				MaxDepth: c.pdf.TreeMaxDepth,
				Exclude:  collector.Excluded,
			})
		}
	}
	if c.pdf.IncludeStats {
		fm.Stats = func() string {
			return report.Collect(files, c.logger).Markdown()
		}
	}

	if err := w.WriteTitle(title); err != nil {
		return fmt.Errorf("%w: %w", ErrAssemble, err)
	}
	for _, body := range c.layout.Render(fm) {
		if err := w.WriteSection(body); err != nil {
			return fmt.Errorf("%w: %w", ErrAssemble, err)
		}
	}
	return nil
}

// renderHTML converts the assembled document for the chrome engine and the
// --html preview.
func (c *Converter) renderHTML(ctx context.Context, doc *Document, date string) (string, error) {
	md, err := os.ReadFile(doc.Markdown)
	if err != nil {
		return "", fmt.Errorf("%w: %w", ErrAssemble, err)
	}
	css, err := c.style()
	if err != nil {
		return "", err
	}
	return pipeline.NewRenderer(c.pdf.HighlightStyle).Render(ctx, string(md), pipeline.Document{
		Title: &pipeline.TitleData{
			Title:    doc.Title,
			Subtitle: doc.Subtitle,
			Author:   c.pdf.Metadata["author"],
			Date:     date,
		},
		TOC:     &pipeline.TOCData{Title: "Contents", MaxDepth: 2},
		CSS:     css,
		BaseDir: doc.TempDir,
	})
}

// style picks the stylesheet named after the template set, else the default.
func (c *Converter) style() (string, error) {
	if css, err := c.resolver.LoadStyle(c.templates.Name); err == nil {
		return css, nil
	}
	css, err := c.resolver.LoadStyle(assets.DefaultStyleName)
	if err != nil {
		return "", fmt.Errorf("%w: %w", ErrInvalidAssets, err)
	}
	return css, nil
}

// cleanup removes the typesetter inputs. temp.md and images/ stay for
// inspection and the next run's cache.
func (c *Converter) cleanup(tempDir string) {
	if c.keepTemp {
		return
	}
	for _, name := range []string{HeaderFile, DefaultsFile, HTMLFile} {
		p := filepath.Join(tempDir, name)
		if err := os.Remove(p); err != nil && !os.IsNotExist(err) {
			c.logger.Debug("cleanup failed", "path", p, "error", err)
		}
	}
}

// newDispatcher builds the per-run caches and transformers.
func (c *Converter) newDispatcher(tempDir, repoDir string) (*dispatcher, error) {
	cache, err := imageconv.NewCache(filepath.Join(tempDir, imageconv.RelDir))
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrWorkspace, err)
	}

	chain := imageconv.Chain{imageconv.NewOKSVG(), imageconv.NewInkscape(c.runner)}
	if c.pdf.SVGBrowserFallback {
		chain = append(chain, imageconv.NewChrome(c.rod().Browser))
	}
	images := imageconv.NewConverter(cache, imageconv.Options{
		Rasterizer: chain,
		Client:     c.client,
		Logger:     c.logger,
	})

	var em transform.EmojiReplacer
	if c.pdf.Engine != config.EngineChrome {
		h, err := emoji.NewHandler(cache.Dir(), emoji.Options{
			Converter: images,
			Download:  c.pdf.EmojiDownload,
			Client:    c.client,
			Logger:    c.logger,
		})
		if err != nil {
			return nil, fmt.Errorf("%w: %w", ErrWorkspace, err)
		}
		em = h
	}

	s := c.pdf
	return &dispatcher{
		root:     repoDir,
		settings: s,
		markdown: transform.NewMarkdown(images, repoDir, s.MaxLineLength, c.logger),
		code: transform.NewCode(em, transform.CodeOptions{
			MaxLineLength:   s.MaxLineLength,
			SplitLargeFiles: s.SplitLargeFiles,
			HeaderAsProse:   s.RenderHeaderCommentsOutsideCode,
			EmojiInCode:     s.CodeBlockStrategy == config.StrategyCodeblockForEmoji,
		}),
		html:   assemble.NewHTMLConverter(),
		images: images,
		logger: c.logger,
	}, nil
}
