package transform

import (
	"cmp"
	"context"
	"log/slog"
	"net/url"
	"path/filepath"
	"regexp"
	"slices"
	"strings"

	"golang.org/x/net/html"

	"github.com/alnah/go-repo2pdf/internal/fileutil"
	"github.com/alnah/go-repo2pdf/internal/imageconv"
)

// ImageResolver stores images in the document's image cache and returns
// their document references. imageconv.Converter satisfies it.
type ImageResolver interface {
	ResolveLocal(ctx context.Context, path string) (string, bool)
	Download(ctx context.Context, rawURL string) (string, bool)
	ConvertContent(ctx context.Context, content []byte) (string, bool)
}

var (
	refDefRe = regexp.MustCompile(`(?m)^ {0,3}\[([^\]]+)\]:[ \t]*<?(\S+?)>?(?:[ \t]+["'(](.*?)["')])?[ \t]*$`)
	// Full ![alt][id], collapsed ![alt][] and shortcut ![alt] references.
	refImageRe    = regexp.MustCompile(`!\[([^\]]*)\](?:\[([^\]]*)\])?`)
	inlineImageRe = regexp.MustCompile(`!\[([^\]]*)\]\(\s*<?([^\s)>]*)>?(?:\s+(?:"([^"]*)"|'([^']*)'|\(([^)]*)\)))?\s*\)`)
	imgTagRe      = regexp.MustCompile(`(?i)<img\b[^>]*>`)
	svgBlockRe    = regexp.MustCompile(`(?is)<svg\b.*?</svg\s*>`)

	// Anything after a remote target up to the closing paren (or the end of
	// the line) goes with it, whatever the title syntax.
	remoteImageRe  = regexp.MustCompile(`(?i)!\[[^\]]*\]\(\s*<?(?:https?:)?//[^\s)>]*>?(?:\s+(?:"[^"]*"|'[^']*'|\([^)]*\)))?[^)\n]*\)?`)
	remoteImgTagRe = regexp.MustCompile(`(?i)<img\b[^>]*\bsrc\s*=\s*["']?https?://[^>]*>`)
)

// refDef is one reference-style link definition.
type refDef struct {
	url   string
	title string
}

// collectRefs gathers [id]: url "title" definitions. Ids are case-insensitive.
func collectRefs(prose string) map[string]refDef {
	refs := make(map[string]refDef)
	for _, m := range refDefRe.FindAllStringSubmatch(prose, -1) {
		id := strings.ToLower(strings.TrimSpace(m[1]))
		if _, dup := refs[id]; !dup {
			refs[id] = refDef{url: m[2], title: m[3]}
		}
	}
	return refs
}

// imageRewriter applies the image decision tree for one source file.
type imageRewriter struct {
	images ImageResolver
	root   string // repository root
	srcDir string // directory of the file being transformed
	logger *slog.Logger
}

// target maps an image target to its cached reference. ok is false when the
// reference must be dropped.
func (r *imageRewriter) target(ctx context.Context, t string) (string, bool) {
	t = strings.TrimSpace(t)
	switch {
	case t == "":
		return "", false
	case isRemote(t):
		ref, ok := r.images.Download(ctx, t)
		if !ok {
			r.logger.Debug("remote image dropped", "url", t)
		}
		return ref, ok
	case strings.HasPrefix(strings.ToLower(t), "data:"):
		return t, true
	}

	p, ok := r.locate(t)
	if !ok {
		r.logger.Warn("image not found, reference dropped", "path", t)
		return "", false
	}
	ref, ok := r.images.ResolveLocal(ctx, p)
	if !ok {
		r.logger.Warn("image conversion failed, reference dropped", "path", p)
	}
	return ref, ok
}

// locate tries the candidate base directories in order and returns the first
// existing file inside the repository.
func (r *imageRewriter) locate(t string) (string, bool) {
	if i := strings.IndexAny(t, "?#"); i >= 0 {
		t = t[:i]
	}
	if u, err := url.PathUnescape(t); err == nil {
		t = u
	}
	t = strings.TrimLeft(t, "/")
	bare := strings.TrimLeft(t, "./")

	candidates := []string{
		filepath.Join(r.srcDir, t),
		filepath.Join(r.root, t),
		filepath.Join(r.srcDir, bare),
		filepath.Join(r.root, bare),
	}
	for _, c := range candidates {
		if fileutil.FileExists(c) && fileutil.IsWithin(r.root, c) {
			return c, true
		}
	}
	return "", false
}

func isRemote(t string) bool {
	lower := strings.ToLower(t)
	return strings.HasPrefix(lower, "http://") || strings.HasPrefix(lower, "https://") || strings.HasPrefix(lower, "//")
}

// rewrite runs every image form through the decision tree: inline images,
// reference images, <img> tags, then inline <svg> blocks. Outputs of one
// form are never rescanned by a later one.
func (r *imageRewriter) rewrite(ctx context.Context, prose string, refs map[string]refDef) string {
	var out strings.Builder
	last := 0
	for _, loc := range imageSpans(prose) {
		out.WriteString(prose[last:loc.start])
		out.WriteString(r.replaceSpan(ctx, prose[loc.start:loc.end], loc.kind, refs))
		last = loc.end
	}
	out.WriteString(prose[last:])
	return out.String()
}

type spanKind int

const (
	spanInline spanKind = iota
	spanRef
	spanTag
	spanSVG
)

type span struct {
	start, end int
	kind       spanKind
}

// imageSpans locates every image construct, earliest first. Overlapping
// matches keep the one that starts first (an <img> inside an <svg> block
// belongs to the block).
func imageSpans(s string) []span {
	var all []span
	add := func(re *regexp.Regexp, kind spanKind) {
		for _, loc := range re.FindAllStringIndex(s, -1) {
			// ![alt]( is an inline image the inline pattern rejected.
			if kind == spanRef && loc[1] < len(s) && s[loc[1]] == '(' {
				continue
			}
			all = append(all, span{loc[0], loc[1], kind})
		}
	}
	add(svgBlockRe, spanSVG)
	add(inlineImageRe, spanInline)
	add(refImageRe, spanRef)
	add(imgTagRe, spanTag)

	// Earliest start first; on a tie the longer span wins.
	slices.SortFunc(all, func(a, b span) int {
		if a.start != b.start {
			return cmp.Compare(a.start, b.start)
		}
		return cmp.Compare(b.end, a.end)
	})
	out := all[:0]
	end := -1
	for _, sp := range all {
		if sp.start < end {
			continue
		}
		out = append(out, sp)
		end = sp.end
	}
	return out
}

func (r *imageRewriter) replaceSpan(ctx context.Context, text string, kind spanKind, refs map[string]refDef) string {
	switch kind {
	case spanInline:
		m := inlineImageRe.FindStringSubmatch(text)
		ref, ok := r.target(ctx, m[2])
		if !ok {
			return ""
		}
		return image(m[1], ref, m[3]+m[4]+m[5])

	case spanRef:
		m := refImageRe.FindStringSubmatch(text)
		def, known := refs[refID(m[1], m[2])]
		if !known {
			return text
		}
		ref, ok := r.target(ctx, def.url)
		if !ok {
			return ""
		}
		return image(m[1], ref, def.title)

	case spanTag:
		src, alt := imgAttrs(text)
		ref, ok := r.target(ctx, src)
		if !ok {
			return ""
		}
		return image(alt, ref, "")

	case spanSVG:
		if !imageconv.IsValidSVG(text) {
			return text
		}
		ref, ok := r.images.ConvertContent(ctx, []byte(text))
		if !ok {
			r.logger.Debug("inline svg left as is")
			return text
		}
		return image("", ref, "")
	}
	return text
}

// imgAttrs reads src and alt from one <img> tag.
// refID is the lookup key of a reference image: its id, or its alt text for
// the collapsed and shortcut forms.
func refID(alt, id string) string {
	if id = strings.TrimSpace(id); id == "" {
		id = alt
	}
	return strings.ToLower(strings.TrimSpace(id))
}

func imgAttrs(tag string) (src, alt string) {
	z := html.NewTokenizer(strings.NewReader(tag))
	for {
		switch z.Next() {
		case html.ErrorToken:
			return src, alt
		case html.StartTagToken, html.SelfClosingTagToken:
			tok := z.Token()
			if tok.Data != "img" {
				continue
			}
			for _, a := range tok.Attr {
				switch a.Key {
				case "src":
					src = a.Val
				case "alt":
					alt = a.Val
				}
			}
			return src, alt
		}
	}
}

func image(alt, ref, title string) string {
	alt = strings.ReplaceAll(alt, "]", `\]`)
	if title != "" {
		return "![" + alt + "](" + ref + ` "` + strings.ReplaceAll(title, `"`, `\"`) + `")`
	}
	return "![" + alt + "](" + ref + ")"
}

// ScrubRemoteImages removes any image reference still pointing at the
// network from prose, including reference images whose definition is
// remote. Fenced blocks are left alone: they are not fetched. Idempotent.
func ScrubRemoteImages(content string) string {
	segs := Split(content)
	var prose strings.Builder
	for _, s := range segs {
		if !s.Fenced {
			prose.WriteString(s.Text)
		}
	}
	refs := collectRefs(prose.String())

	var b strings.Builder
	b.Grow(len(content))
	for _, s := range segs {
		if s.Fenced {
			b.WriteString(s.Text)
			continue
		}
		b.WriteString(scrubProse(s.Text, refs))
	}
	return b.String()
}

func scrubProse(s string, refs map[string]refDef) string {
	s = remoteImageRe.ReplaceAllString(s, "")
	s = remoteImgTagRe.ReplaceAllString(s, "")
	return scrubRefImages(s, refs)
}

// scrubRefImages drops reference images resolving to a remote definition.
// A bracket run followed by '(' is an inline image and is skipped.
func scrubRefImages(s string, refs map[string]refDef) string {
	var b strings.Builder
	last := 0
	for _, loc := range refImageRe.FindAllStringSubmatchIndex(s, -1) {
		if loc[1] < len(s) && s[loc[1]] == '(' {
			continue
		}
		var id string
		if loc[4] >= 0 {
			id = s[loc[4]:loc[5]]
		}
		def, known := refs[refID(s[loc[2]:loc[3]], id)]
		if !known || !isRemote(def.url) {
			continue
		}
		b.WriteString(s[last:loc[0]])
		last = loc[1]
	}
	if last == 0 {
		return s
	}
	b.WriteString(s[last:])
	return b.String()
}
