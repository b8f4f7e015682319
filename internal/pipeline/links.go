package pipeline

import (
	"net/url"
	"path/filepath"
	"strings"

	"golang.org/x/net/html"

	"github.com/alnah/go-repo2pdf/internal/fileutil"
)

// linkAttrs lists the attributes resolved per element. Media elements are
// left alone: a PDF cannot play them.
var linkAttrs = map[string]string{
	"img": "src",
	"a":   "href",
}

// ResolveLinks rewrites relative img src and a href attributes of a complete
// HTML document to file:// URLs under base, so the browser finds the cached
// images wherever the document itself is loaded from. Targets escaping base
// are left untouched. An empty base returns doc unchanged.
func ResolveLinks(doc, base string) (string, error) {
	if base == "" {
		return doc, nil
	}
	absBase, err := filepath.Abs(base)
	if err != nil {
		return "", err
	}

	root, err := html.Parse(strings.NewReader(doc))
	if err != nil {
		return "", err
	}

	for n := range root.Descendants() {
		if n.Type != html.ElementNode {
			continue
		}
		key, ok := linkAttrs[n.Data]
		if !ok {
			continue
		}
		for i := range n.Attr {
			if n.Attr[i].Key != key {
				continue
			}
			if resolved, ok := fileURL(absBase, n.Attr[i].Val); ok {
				n.Attr[i].Val = resolved
			}
		}
	}

	var buf strings.Builder
	if err := html.Render(&buf, root); err != nil {
		return "", err
	}
	return buf.String(), nil
}

// fileURL resolves ref against base. It reports false for URLs, anchors,
// absolute paths and anything outside base.
func fileURL(base, ref string) (string, bool) {
	if !isRelativeRef(ref) {
		return "", false
	}
	target := ref
	fragment := ""
	if i := strings.IndexByte(target, '#'); i >= 0 {
		target, fragment = target[:i], target[i:]
	}
	if unescaped, err := url.PathUnescape(target); err == nil {
		target = unescaped
	}

	abs := filepath.Join(base, filepath.FromSlash(target))
	if !fileutil.IsWithin(base, abs) {
		return "", false
	}
	u := url.URL{Scheme: "file", Path: filepath.ToSlash(abs)}
	if !strings.HasPrefix(u.Path, "/") {
		u.Path = "/" + u.Path // windows drive letters
	}
	return u.String() + fragment, true
}

func isRelativeRef(ref string) bool {
	switch {
	case ref == "", strings.HasPrefix(ref, "#"), strings.HasPrefix(ref, "//"):
		return false
	case filepath.IsAbs(ref), strings.HasPrefix(ref, "/"):
		return false
	}
	if u, err := url.Parse(ref); err == nil && u.Scheme != "" {
		return false // http, https, file, data, mailto
	}
	return true
}
