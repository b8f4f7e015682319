package transform

import "strings"

// Heading renders the section heading of one repository file.
func Heading(relPath string) string {
	return "\n\n# " + strings.ReplaceAll(relPath, `\`, "/") + "\n\n"
}

// Fenced wraps body in a backtick fence tagged lang. The fence is at least
// five backticks and always longer than any backtick run inside body.
func Fenced(body, lang string) string {
	n := 5
	for _, line := range strings.Split(body, "\n") {
		t := strings.TrimLeft(line, " ")
		if r := runLength(t, '`'); r >= n {
			n = r + 1
		}
	}
	fence := strings.Repeat("`", n)
	return fence + lang + "\n" + body + "\n" + fence + "\n"
}

// Verbatim renders a whole file as a fenced block under its heading, for
// Markdown that must not be interpreted (.cursorrules, raw Markdown paths).
func Verbatim(relPath, content, lang string) string {
	return Heading(relPath) + Fenced(strings.TrimRight(content, "\n"), lang) + "\n"
}

// Prose renders transformed Markdown under its heading. MDX content is fenced
// because its JSX is not Markdown.
func Prose(relPath, body string, mdx bool) string {
	if mdx {
		return Verbatim(relPath, body, "mdx")
	}
	return Heading(relPath) + strings.TrimRight(body, "\n") + "\n\n"
}
