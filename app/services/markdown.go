package services

import (
	"html/template"
	"strings"

	"github.com/gomarkdown/markdown"
	"github.com/gomarkdown/markdown/html"
	"github.com/gomarkdown/markdown/parser"
)

// MarkdownToHTML renders an item body. Links open in a new browsing context
// and raw HTML in the source is dropped.
func MarkdownToHTML(markdownText string) template.HTML {
	if strings.TrimSpace(markdownText) == "" {
		return template.HTML("")
	}

	extensions := parser.CommonExtensions | parser.AutoHeadingIDs
	p := parser.NewWithExtensions(extensions)

	opts := html.RendererOptions{
		Flags: html.CommonFlags | html.HrefTargetBlank | html.NoopenerLinks | html.SkipHTML,
	}
	renderer := html.NewRenderer(opts)

	htmlBytes := markdown.ToHTML([]byte(markdownText), p, renderer)
	return template.HTML(htmlBytes)
}

// Excerpt returns the first paragraph of a markdown body as plain text,
// cut at limit runes.
func Excerpt(markdownText string, limit int) string {
	para, _, _ := strings.Cut(strings.TrimSpace(markdownText), "\n\n")
	para = strings.Join(strings.Fields(para), " ")
	para = strings.TrimLeft(para, "#> ")
	para = strings.NewReplacer("**", "", "__", "", "`", "").Replace(para)

	runes := []rune(para)
	if limit <= 0 || len(runes) <= limit {
		return para
	}
	return strings.TrimSpace(string(runes[:limit])) + "…"
}
