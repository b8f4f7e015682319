package assemble

import (
	"fmt"
	"strings"

	"github.com/JohannesKaufmann/dom"
	"github.com/JohannesKaufmann/html-to-markdown/v2/converter"
	"github.com/JohannesKaufmann/html-to-markdown/v2/plugin/base"
	"github.com/JohannesKaufmann/html-to-markdown/v2/plugin/commonmark"
	"github.com/JohannesKaufmann/html-to-markdown/v2/plugin/table"
	"golang.org/x/net/html"
)

// HTMLConverter turns repository HTML files into Markdown so they go through
// the same image and escaping rules as native Markdown.
type HTMLConverter struct {
	conv *converter.Converter
}

// NewHTMLConverter builds a converter with the base, CommonMark and table
// plugins. Images without a src are dropped instead of rendered as ![]().
func NewHTMLConverter() *HTMLConverter {
	conv := converter.NewConverter(
		converter.WithPlugins(
			base.NewBasePlugin(),
			commonmark.NewCommonmarkPlugin(),
			table.NewTablePlugin(),
		),
	)
	conv.Register.RendererFor("img", converter.TagTypeInline,
		func(_ converter.Context, _ converter.Writer, n *html.Node) converter.RenderStatus {
			if strings.TrimSpace(dom.GetAttributeOr(n, "src", "")) != "" {
				return converter.RenderTryNext
			}
			return converter.RenderSuccess
		},
		converter.PriorityEarly,
	)
	return &HTMLConverter{conv: conv}
}

// Convert returns the Markdown rendition of an HTML document or fragment.
func (h *HTMLConverter) Convert(input string) (string, error) {
	md, err := h.conv.ConvertString(input)
	if err != nil {
		return "", fmt.Errorf("converting html: %w", err)
	}
	return strings.TrimSpace(md) + "\n", nil
}
